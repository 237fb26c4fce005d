// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Multicald Contributors

package kmp

import (
	"errors"
	"fmt"
)

// ErrChecksum is returned when a received frame fails CRC validation.
var ErrChecksum = errors.New("kmp: checksum mismatch")

// ErrNoResponse is returned when the meter does not answer within the
// per-byte read timeout.
var ErrNoResponse = errors.New("kmp: no response from meter")

// FramingError indicates a structurally malformed frame: a truncated
// escape sequence or an accumulator that overruns the maximum frame
// length without seeing a terminator.
type FramingError struct {
	Reason string
}

func (e *FramingError) Error() string {
	return "kmp: framing error: " + e.Reason
}

// EchoMismatchError indicates that a response does not echo the
// requested register address. Distinct from a checksum failure because
// it can signal host/meter desynchronization.
type EchoMismatchError struct {
	Want uint16
	Got  uint16
}

func (e *EchoMismatchError) Error() string {
	return fmt.Sprintf("kmp: response echoes register 0x%04X, requested 0x%04X", e.Got, e.Want)
}

// UnknownParamError indicates a symbolic parameter name with no entry
// in the registry for the selected meter model.
type UnknownParamError struct {
	Name  string
	Model string
}

func (e *UnknownParamError) Error() string {
	return fmt.Sprintf("kmp: unknown parameter %q for model %s", e.Name, e.Model)
}
