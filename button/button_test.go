package button

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeLine struct{ level bool }

func (l *fakeLine) Read() bool { return l.level }

// newTestButton returns a button on a virtual clock ticking 1ms per
// sample, with a 10ms debounce threshold.
func newTestButton() (*Button, *fakeLine, func(n int)) {
	line := &fakeLine{level: true}
	b := New(line, 10*time.Millisecond)

	now := time.Unix(100, 0)
	b.Now = func() time.Time { return now }
	b.lastDebounce = now

	sample := func(n int) {
		for i := 0; i < n; i++ {
			now = now.Add(time.Millisecond)
			b.Sample()
		}
	}
	return b, line, sample
}

func TestButtonBounceIgnored(t *testing.T) {
	b, line, sample := newTestButton()

	// flip the raw level every sample, faster than the threshold
	for i := 0; i < 50; i++ {
		line.level = !line.level
		sample(1)
		assert.Equal(t, uint16(0), b.state)
		assert.False(t, b.Pressed())
		assert.False(t, b.Released())
	}
}

func TestButtonPressHoldRelease(t *testing.T) {
	b, line, sample := newTestButton()

	line.level = false // press
	sample(11)         // settle
	assert.Equal(t, uint16(0), b.state, "still within threshold")

	sample(1)
	assert.True(t, b.Pressed())
	assert.False(t, b.Held(0))
	assert.False(t, b.Released())

	sample(1)
	assert.False(t, b.Pressed())
	assert.True(t, b.Held(0))
	assert.False(t, b.Held(1))

	sample(3)
	assert.True(t, b.Held(1))
	assert.True(t, b.Held(3))
	assert.False(t, b.Held(4))

	line.level = true // release
	sample(11)        // settle
	assert.True(t, b.Held(3), "held until the release settles")

	sample(1)
	assert.True(t, b.Released())
	assert.False(t, b.Pressed())
	assert.False(t, b.Held(0))

	sample(1)
	assert.False(t, b.Released(), "sentinel lasts one sample")
	assert.Equal(t, uint16(0), b.state)
}

func TestButtonPressedExactlyOnce(t *testing.T) {
	b, line, sample := newTestButton()

	line.level = false
	var presses int
	for i := 0; i < 100; i++ {
		sample(1)
		if b.Pressed() {
			presses++
		}
	}
	assert.Equal(t, 1, presses)
	assert.True(t, b.Held(0))
}

func TestButtonLongHoldSaturates(t *testing.T) {
	b, line, sample := newTestButton()

	line.level = false
	// run well past the counter wrap point
	for i := 0; i < 0x10100; i++ {
		sample(1)
		assert.False(t, b.Released())
	}
	assert.True(t, b.Held(0))

	line.level = true
	sample(12)
	assert.True(t, b.Released())
	sample(1)
	assert.Equal(t, uint16(0), b.state)
}

func TestButtonNoiseDuringHoldKeepsState(t *testing.T) {
	b, line, sample := newTestButton()

	line.level = false
	sample(15)
	assert.True(t, b.Held(0))
	st := b.state

	// a glitch shorter than the threshold restarts the settle timer
	// but never changes the logical state
	line.level = true
	sample(1)
	line.level = false
	sample(1)
	assert.Equal(t, st, b.state)
}
