package button

import "time"

// DefaultDebounce is how long a raw level must hold steady before it
// counts as a real transition.
const DefaultDebounce = 10 * time.Millisecond

const (
	// stateReleased is the sentinel meaning "released this sample";
	// it survives exactly one sample before resetting to idle.
	stateReleased = 0xffff
	// stateHeldMax is where the held counter wraps back to 2 so a
	// long hold saturates instead of overflowing into the sentinel.
	stateHeldMax = 0xfffe
)

// Line is a two-state physical input. Read returns the current raw
// logic level; the line is assumed pulled up, so true is idle and
// false is active (pressed).
type Line interface {
	Read() bool
}

// Button derives a stable logical press/release state from a bouncy
// physical line. Sample must be called once per control-loop tick, at
// a period well below realistic press durations; Button keeps no
// timers of its own.
//
// The logical state advances only through
// idle -> pressed -> held -> released -> idle.
type Button struct {
	// Line is the raw input being sampled.
	Line Line
	// Debounce is how long the raw level must remain unchanged
	// before it is believed.
	Debounce time.Duration
	// Now is the clock used for debounce timing. Tests may replace
	// it with a virtual clock.
	Now func() time.Time

	lastReading  bool
	lastDebounce time.Time
	state        uint16
}

// New returns a Button sampling line with the given debounce
// threshold and the wall clock.
func New(line Line, debounce time.Duration) *Button {
	return &Button{
		Line:     line,
		Debounce: debounce,
		Now:      time.Now,

		lastReading: true,
	}
}

// Pressed reports a press edge: true for exactly the sample on which
// the press first settled.
func (b *Button) Pressed() bool { return b.state == 1 }

// Released reports a release edge: true for exactly the sample on
// which the release settled.
func (b *Button) Released() bool { return b.state == stateReleased }

// Held reports that the button has stayed active for more than count
// samples past the initial press and has not yet been released.
func (b *Button) Held(count uint16) bool {
	return b.state > 1+count && b.state < stateReleased
}

// Sample reads the raw line once and advances the logical state.
//
// Any raw transition, noise included, restarts the settle timer; the
// state only moves once the level has held for longer than Debounce.
func (b *Button) Sample() {
	reading := b.Line.Read()

	if reading != b.lastReading {
		b.lastDebounce = b.Now()
	}

	if b.Now().Sub(b.lastDebounce) > b.Debounce {
		// pulled-up line: low means pressed
		pressed := !reading
		if pressed {
			if b.state < stateHeldMax {
				b.state++
			} else if b.state == stateHeldMax {
				b.state = 2
			}
		} else if b.state != 0 {
			if b.state == stateReleased {
				b.state = 0
			} else {
				b.state = stateReleased
			}
		}
	}

	b.lastReading = reading
}
