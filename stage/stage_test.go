package stage

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/mastercactapus/stagectl/bridge"
)

func newTestController(t *testing.T) (*Controller, *bridge.Sim) {
	sim := bridge.NewSim()
	c := New(Config{
		Limit:    80,
		Tick:     time.Millisecond,
		Debounce: 3 * time.Millisecond,
	}, sim, sim)

	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)
	go c.Run(ctx)

	return c, sim
}

func TestControllerCommands(t *testing.T) {
	c, _ := newTestController(t)

	state := c.Snapshot()
	assert.Equal(t, 0.0, state.Position)
	assert.False(t, state.Homed)
	assert.Equal(t, 80.0, state.Limit)
	assert.False(t, state.LED)

	c.SetPosition(40)
	assert.Equal(t, 40.0, c.Snapshot().Position)

	c.SetPosition(100)
	assert.Equal(t, 80.0, c.Snapshot().Position)

	c.Home()
	state = c.Snapshot()
	assert.Equal(t, 0.0, state.Position)
	assert.True(t, state.Homed)
}

func TestControllerToggle(t *testing.T) {
	c, sim := newTestController(t)

	assert.True(t, c.Toggle())
	assert.True(t, c.Snapshot().LED)
	assert.True(t, sim.LED(), "indicator driven through the bridge")

	assert.False(t, c.Toggle())
	assert.False(t, c.Snapshot().LED)
	assert.False(t, sim.LED())
}

func TestControllerButtonTogglesLED(t *testing.T) {
	c, sim := newTestController(t)

	sim.Press()
	waitLED(t, c, true)

	// holding must not toggle again
	time.Sleep(20 * time.Millisecond)
	assert.True(t, c.Snapshot().LED)

	sim.Release()
	time.Sleep(20 * time.Millisecond)
	assert.True(t, c.Snapshot().LED, "release does not toggle")

	sim.Press()
	waitLED(t, c, false)
}

func TestControllerStateEvents(t *testing.T) {
	c, _ := newTestController(t)

	c.SetPosition(12.5)

	select {
	case state := <-c.State():
		assert.Equal(t, 12.5, state.Position)
	case <-time.After(2 * time.Second):
		t.Fatal("no state event after SetPosition")
	}
}

func waitLED(t *testing.T, c *Controller, on bool) {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if c.Snapshot().LED == on {
			return
		}
		time.Sleep(time.Millisecond)
	}
	t.Fatalf("LED never became %t", on)
}
