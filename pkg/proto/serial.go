package proto

import (
	"strings"
	"time"

	"github.com/pkg/errors"
	"go.bug.st/serial"
)

var (
	ErrPortNotFound = errors.New("serial port not found")
	ErrPortClosed   = errors.New("serial port not open")
	ErrWriteTimeout = errors.New("serial write timeout")
)

// Options describes how the serial line is configured.
type Options struct {
	BaudRate int
	DataBits int
	Parity   serial.Parity
	StopBits serial.StopBits
	DTR      bool
	RTS      bool
	// ReadTimeout bounds a single Read; Read returns 0, nil when it expires.
	ReadTimeout time.Duration
	// WriteTimeout bounds a single Write; zero blocks until the port accepts the data.
	WriteTimeout time.Duration
}

// Transport is the byte-stream duplex channel a display driver talks over.
type Transport interface {
	Open(opts *Options) error
	Close() error
	IsOpen() bool
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
}

func NewSerial(name string) *Serial {
	return &Serial{name: name}
}

type Serial struct {
	name         string
	port         serial.Port
	writeTimeout time.Duration
}

func (s *Serial) Name() string {
	return s.name
}

func (s *Serial) Ports() ([]string, error) {
	return serial.GetPortsList()
}

// resolve prefers an exact port name and falls back to the first enumerated
// port containing it, so "ttyUSB" or a USB serial number also match.
func (s *Serial) resolve() (string, error) {
	ports, err := s.Ports()
	if err != nil {
		return "", err
	}

	var matched string
	for _, name := range ports {
		if name == s.name {
			return name, nil
		}
		if matched == "" && strings.Contains(name, s.name) {
			matched = name
		}
	}
	if matched == "" {
		return "", errors.Wrap(ErrPortNotFound, s.name)
	}

	return matched, nil
}

func (s *Serial) Open(opts *Options) error {
	if s.port != nil {
		return nil
	}

	matched, err := s.resolve()
	if err != nil {
		return err
	}

	port, err := serial.Open(matched, &serial.Mode{
		BaudRate: opts.BaudRate,
		DataBits: opts.DataBits,
		Parity:   opts.Parity,
		StopBits: opts.StopBits,
	})
	if err != nil {
		return err
	}

	if err := port.SetDTR(opts.DTR); err != nil {
		_ = port.Close()
		return err
	}

	if err := port.SetRTS(opts.RTS); err != nil {
		_ = port.Close()
		return err
	}

	if opts.ReadTimeout > 0 {
		if err := port.SetReadTimeout(opts.ReadTimeout); err != nil {
			_ = port.Close()
			return err
		}
	}

	s.port = port
	s.writeTimeout = opts.WriteTimeout
	return nil
}

func (s *Serial) IsOpen() bool {
	return s.port != nil
}

func (s *Serial) Close() error {
	if s.port == nil {
		return nil
	}

	err := s.port.Close()
	s.port = nil
	return err
}

func (s *Serial) Read(p []byte) (n int, err error) {
	if s.port == nil {
		return 0, ErrPortClosed
	}
	return s.port.Read(p)
}

// Write sends p, failing with ErrWriteTimeout when the port does not accept
// it within the configured write timeout. A timed out write may still reach
// the line later, so the port is closed then: later writes fail with
// ErrPortClosed until Open is called again.
func (s *Serial) Write(p []byte) (n int, err error) {
	if s.port == nil {
		return 0, ErrPortClosed
	}
	if s.writeTimeout <= 0 {
		return s.port.Write(p)
	}

	type result struct {
		n   int
		err error
	}

	port := s.port
	done := make(chan result, 1)
	go func() {
		n, err := port.Write(p)
		done <- result{n, err}
	}()

	timer := time.NewTimer(s.writeTimeout)
	defer timer.Stop()

	select {
	case r := <-done:
		return r.n, r.err
	case <-timer.C:
		_ = port.Close()
		s.port = nil
		return 0, errors.Wrapf(ErrWriteTimeout, "%d bytes after %s", len(p), s.writeTimeout)
	}
}
