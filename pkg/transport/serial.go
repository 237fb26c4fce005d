// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Multicald Contributors

package transport

import (
	"fmt"
	"time"

	"go.bug.st/serial"
)

// Kamstrup Multical meters speak 1200 baud, 8 data bits, no parity,
// two stop bits on the optical head.
const (
	DefaultBaudRate    = 1200
	DefaultDataBits    = 8
	DefaultParity      = "none"
	DefaultStopBits    = "2"
	DefaultReadTimeout = 2 * time.Second
)

// SerialConfig describes a physical serial line. Zero fields take the
// Kamstrup defaults above.
type SerialConfig struct {
	Device      string
	BaudRate    int
	DataBits    int
	Parity      string // none, even, odd, mark, space
	StopBits    string // 1, 1.5, 2
	ReadTimeout time.Duration
}

// SerialPort is a Port over a local serial device. The device is opened
// lazily by Open so one SerialPort can serve many poll cycles.
type SerialPort struct {
	cfg  SerialConfig
	port serial.Port
}

// NewSerialPort validates cfg and returns an unopened serial Port.
func NewSerialPort(cfg SerialConfig) (*SerialPort, error) {
	if cfg.Device == "" {
		return nil, fmt.Errorf("transport: serial device required")
	}
	if cfg.BaudRate == 0 {
		cfg.BaudRate = DefaultBaudRate
	}
	if cfg.DataBits == 0 {
		cfg.DataBits = DefaultDataBits
	}
	if cfg.Parity == "" {
		cfg.Parity = DefaultParity
	}
	if cfg.StopBits == "" {
		cfg.StopBits = DefaultStopBits
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	if _, err := parityMode(cfg.Parity); err != nil {
		return nil, err
	}
	if _, err := stopBitsMode(cfg.StopBits); err != nil {
		return nil, err
	}
	return &SerialPort{cfg: cfg}, nil
}

func parityMode(s string) (serial.Parity, error) {
	switch s {
	case "none":
		return serial.NoParity, nil
	case "even":
		return serial.EvenParity, nil
	case "odd":
		return serial.OddParity, nil
	case "mark":
		return serial.MarkParity, nil
	case "space":
		return serial.SpaceParity, nil
	}
	return serial.NoParity, fmt.Errorf("transport: invalid parity %q", s)
}

func stopBitsMode(s string) (serial.StopBits, error) {
	switch s {
	case "1":
		return serial.OneStopBit, nil
	case "1.5":
		return serial.OnePointFiveStopBits, nil
	case "2":
		return serial.TwoStopBits, nil
	}
	return serial.OneStopBit, fmt.Errorf("transport: invalid stop bits %q", s)
}

// Open opens the serial device and arms the per-byte read timeout.
// Opening an already open port reopens it.
func (s *SerialPort) Open() error {
	if s.port != nil {
		s.Close()
	}

	parity, _ := parityMode(s.cfg.Parity)
	stopBits, _ := stopBitsMode(s.cfg.StopBits)

	mode := &serial.Mode{
		BaudRate: s.cfg.BaudRate,
		DataBits: s.cfg.DataBits,
		Parity:   parity,
		StopBits: stopBits,
	}

	port, err := serial.Open(s.cfg.Device, mode)
	if err != nil {
		return fmt.Errorf("transport: failed to open serial port %s: %w", s.cfg.Device, err)
	}
	if err := port.SetReadTimeout(s.cfg.ReadTimeout); err != nil {
		port.Close()
		return fmt.Errorf("transport: failed to set read timeout: %w", err)
	}

	s.port = port
	return nil
}

// Close closes the device. Closing a closed port is a no-op.
func (s *SerialPort) Close() error {
	if s.port == nil {
		return nil
	}
	err := s.port.Close()
	s.port = nil
	return err
}

func (s *SerialPort) Write(p []byte) error {
	if s.port == nil {
		return ErrClosed
	}
	for len(p) > 0 {
		n, err := s.port.Write(p)
		if err != nil {
			return err
		}
		p = p[n:]
	}
	return nil
}

// ReadByte reads one byte. go.bug.st/serial signals an expired read
// timeout as a zero-byte read.
func (s *SerialPort) ReadByte() (byte, error) {
	if s.port == nil {
		return 0, ErrClosed
	}
	var buf [1]byte
	n, err := s.port.Read(buf[:])
	if err != nil {
		return 0, err
	}
	if n == 0 {
		return 0, ErrTimeout
	}
	return buf[0], nil
}
