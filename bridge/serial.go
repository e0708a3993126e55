// Package bridge talks to the microcontroller pin bridge that exposes
// the stage's physical I/O: the button line in, the indicator LED out.
//
// The bridge speaks a line protocol over a serial port:
//
//	<- BTN:0 | BTN:1   raw button logic level, pushed on every change
//	-> LED:0 | LED:1   drive the indicator
//	-> ?               request the current button level
package bridge

import (
	"bufio"
	"io"
	"log"
	"strings"
	"sync"

	"github.com/tarm/serial"

	"github.com/mastercactapus/stagectl/button"
)

// Serial reads button levels from and drives the LED through a pin
// bridge on the given ReadWriter.
type Serial struct {
	rw io.ReadWriter

	mx    sync.Mutex
	level bool
}

var _ button.Line = &Serial{}

// Open connects to the pin bridge on the named serial port.
func Open(name string, baud int) (*Serial, error) {
	port, err := serial.OpenPort(&serial.Config{Name: name, Baud: baud})
	if err != nil {
		return nil, err
	}
	return NewSerial(port), nil
}

// NewSerial creates a Serial using the provided ReadWriter for data.
//
// The button level starts high (idle) until the bridge reports
// otherwise; a level request is sent immediately so it does.
func NewSerial(rw io.ReadWriter) *Serial {
	s := &Serial{rw: rw, level: true}
	go s.readLoop()
	go func() {
		if _, err := rw.Write([]byte("?\n")); err != nil {
			log.Println("ERROR: request level:", err)
		}
	}()
	return s
}

func (s *Serial) readLoop() {
	scan := bufio.NewScanner(s.rw)
	for scan.Scan() {
		line := strings.TrimSpace(scan.Text())
		if line == "" {
			continue
		}
		level, err := parseLevel(line)
		if err != nil {
			log.Println("ERROR: parse:", err)
			continue
		}
		s.mx.Lock()
		s.level = level
		s.mx.Unlock()
	}
	if err := scan.Err(); err != nil {
		log.Println("ERROR: read from port:", err)
	}
}

// Read returns the last raw button level reported by the bridge.
func (s *Serial) Read() bool {
	s.mx.Lock()
	level := s.level
	s.mx.Unlock()
	return level
}

// Set drives the indicator LED.
func (s *Serial) Set(on bool) error {
	line := "LED:0\n"
	if on {
		line = "LED:1\n"
	}
	_, err := s.rw.Write([]byte(line))
	return err
}
