package bridge

import (
	"sync"

	"github.com/mastercactapus/stagectl/button"
)

// Sim is an in-memory pin bridge for running and testing without
// hardware. The simulated line idles high; Press pulls it low.
type Sim struct {
	mx    sync.Mutex
	level bool
	led   bool
}

var _ button.Line = &Sim{}

// NewSim returns a Sim with the button released and the LED off.
func NewSim() *Sim {
	return &Sim{level: true}
}

// Read returns the current raw button level.
func (s *Sim) Read() bool {
	s.mx.Lock()
	level := s.level
	s.mx.Unlock()
	return level
}

// Press pulls the simulated button line low.
func (s *Sim) Press() { s.setLevel(false) }

// Release lets the simulated button line float high again.
func (s *Sim) Release() { s.setLevel(true) }

func (s *Sim) setLevel(level bool) {
	s.mx.Lock()
	s.level = level
	s.mx.Unlock()
}

// Set records the indicator state.
func (s *Sim) Set(on bool) error {
	s.mx.Lock()
	s.led = on
	s.mx.Unlock()
	return nil
}

// LED returns the last indicator state written.
func (s *Sim) LED() bool {
	s.mx.Lock()
	on := s.led
	s.mx.Unlock()
	return on
}
