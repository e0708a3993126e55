// Package stage runs the control loop for a single-axis linear stage.
//
// All device state (axis position, homed flag, indicator LED, button
// debouncing) is owned by one goroutine; remote commands from the
// transport layer are marshaled onto it through channels, so the
// state itself needs no locking.
package stage

import (
	"context"
	"log"
	"time"

	"github.com/mastercactapus/stagectl/axis"
	"github.com/mastercactapus/stagectl/button"
)

// DefaultTick is the default control loop period.
const DefaultTick = 5 * time.Millisecond

// LED drives the indicator output.
type LED interface {
	Set(on bool) error
}

// Config holds the control loop parameters.
type Config struct {
	// Limit is the axis travel bound in millimeters.
	Limit float64
	// Tick is the control loop period. Defaults to DefaultTick.
	Tick time.Duration
	// Debounce is the button settle threshold. Defaults to
	// button.DefaultDebounce.
	Debounce time.Duration
}

// State is a point-in-time snapshot of the controller.
type State struct {
	Position float64 `json:"position"`
	Homed    bool    `json:"homed"`
	Limit    float64 `json:"limit"`
	LED      bool    `json:"led"`
}

type positionCmd struct {
	target float64
	done   chan struct{}
}

// Controller owns the stage state and serves commands against it.
type Controller struct {
	dev *axis.Device
	btn *button.Button
	led LED

	tick  time.Duration
	ledOn bool

	home     chan chan struct{}
	position chan positionCmd
	toggle   chan chan bool
	snapshot chan chan State
	state    chan State
}

// New returns a Controller for a stage whose button line and
// indicator sit behind the given collaborators. Run must be called
// before any commands are sent.
func New(cfg Config, line button.Line, led LED) *Controller {
	if cfg.Tick <= 0 {
		cfg.Tick = DefaultTick
	}
	if cfg.Debounce <= 0 {
		cfg.Debounce = button.DefaultDebounce
	}

	return &Controller{
		dev: axis.NewDevice(cfg.Limit),
		btn: button.New(line, cfg.Debounce),
		led: led,

		tick: cfg.Tick,

		home:     make(chan chan struct{}),
		position: make(chan positionCmd),
		toggle:   make(chan chan bool),
		snapshot: make(chan chan State),
		state:    make(chan State, 16),
	}
}

// State returns the channel of state change events. Events are
// dropped if the channel is full.
func (c *Controller) State() chan State { return c.state }

// Home moves the axis to the zero reference and marks it homed. It
// returns once the loop has applied the command.
func (c *Controller) Home() {
	ch := make(chan struct{})
	c.home <- ch
	<-ch
}

// SetPosition moves the axis to target, clamped into the travel
// range. It returns once the loop has applied the command.
func (c *Controller) SetPosition(target float64) {
	cmd := positionCmd{target: target, done: make(chan struct{})}
	c.position <- cmd
	<-cmd.done
}

// Toggle flips the indicator LED and returns its new state.
func (c *Controller) Toggle() bool {
	ch := make(chan bool)
	c.toggle <- ch
	return <-ch
}

// Snapshot returns the current controller state.
func (c *Controller) Snapshot() State {
	ch := make(chan State)
	c.snapshot <- ch
	return <-ch
}

// Run drives the control loop until ctx is cancelled. Each tick it
// samples the button; a settled press toggles the indicator. Commands
// are applied one at a time between ticks.
func (c *Controller) Run(ctx context.Context) {
	t := time.NewTicker(c.tick)
	defer t.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			c.btn.Sample()
			if c.btn.Pressed() {
				c.setLED(!c.ledOn)
				c.emit()
			}
		case ch := <-c.home:
			c.dev.Home()
			close(ch)
			c.emit()
		case cmd := <-c.position:
			c.dev.SetPosition(cmd.target)
			close(cmd.done)
			c.emit()
		case ch := <-c.toggle:
			c.setLED(!c.ledOn)
			ch <- c.ledOn
			c.emit()
		case ch := <-c.snapshot:
			ch <- c.current()
		}
	}
}

func (c *Controller) current() State {
	return State{
		Position: c.dev.Position(),
		Homed:    c.dev.Homed(),
		Limit:    c.dev.Limit(),
		LED:      c.ledOn,
	}
}

func (c *Controller) setLED(on bool) {
	c.ledOn = on
	if err := c.led.Set(on); err != nil {
		log.Println("ERROR: set led:", err)
	}
}

func (c *Controller) emit() {
	select {
	case c.state <- c.current():
	default:
	}
}
