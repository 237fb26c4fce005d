// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Multicald Contributors

// Package transport provides byte-oriented, timeout-capable links to a
// meter: a physical serial line or its WebSocket-tunneled equivalent.
package transport

import "errors"

// ErrTimeout is returned by ReadByte when no byte arrives within the
// port's read timeout.
var ErrTimeout = errors.New("transport: read timeout")

// ErrClosed is returned when using a port that is not open.
var ErrClosed = errors.New("transport: port not open")

// Port is a half-duplex byte channel to the meter. Implementations are
// not safe for concurrent use; one transaction engine owns a Port at a
// time. Close on an already closed port is a no-op, so callers may
// close defensively before (re)opening.
type Port interface {
	Open() error
	Close() error
	Write(p []byte) error

	// ReadByte blocks for at most the configured read timeout and
	// returns ErrTimeout when it elapses without data.
	ReadByte() (byte, error)
}
