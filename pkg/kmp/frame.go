// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Multicald Contributors

package kmp

import (
	"errors"

	"github.com/multical/multicald/pkg/transport"
)

// BuildRequest frames a command body for transmission: CRC appended
// (high byte first), body+CRC byte-stuffed, then wrapped with the
// request marker and the terminator. The marker itself is never
// escaped.
func BuildRequest(body []byte) []byte {
	crc := Checksum(body)

	data := make([]byte, 0, len(body)+2)
	data = append(data, body...)
	data = append(data, byte(crc>>8), byte(crc&0xFF))

	stuffed := Escape(data)

	frame := make([]byte, 0, len(stuffed)+2)
	frame = append(frame, ReqStartByte)
	frame = append(frame, stuffed...)
	frame = append(frame, EndByte)
	return frame
}

// BuildReadRequest builds the request frame for a single register read.
func BuildReadRequest(addr uint16) []byte {
	return BuildRequest([]byte{FnReadRegister, SubFnReadRegister, 0x01, byte(addr >> 8), byte(addr & 0xFF)})
}

// FrameReader collects response frames from a Port one byte at a time.
type FrameReader struct {
	port transport.Port
}

// NewFrameReader returns a FrameReader over port.
func NewFrameReader(port transport.Port) *FrameReader {
	return &FrameReader{port: port}
}

// ReadFrame reads one complete response frame and returns its payload
// with the trailing CRC stripped.
//
// The meter's start marker resets the accumulator, discarding any
// partial frame; accumulation ends at the terminator. A per-byte
// timeout yields ErrNoResponse, a corrupted frame ErrChecksum, and a
// structurally broken one a FramingError. Hard transport errors pass
// through untouched.
func (f *FrameReader) ReadFrame() ([]byte, error) {
	raw := make([]byte, 0, MaxRawFrameSize)

	for {
		b, err := f.port.ReadByte()
		if err != nil {
			if errors.Is(err, transport.ErrTimeout) {
				return nil, ErrNoResponse
			}
			return nil, err
		}
		if b == RespStartByte {
			raw = raw[:0]
		}
		if len(raw) >= MaxRawFrameSize {
			return nil, &FramingError{Reason: "frame exceeds maximum length"}
		}
		raw = append(raw, b)
		if b == EndByte {
			break
		}
	}

	// Marker, at least a CRC's worth of interior, terminator.
	if len(raw) < 4 || raw[0] != RespStartByte {
		return nil, &FramingError{Reason: "terminator before start of frame"}
	}

	payload, err := Unescape(raw[1 : len(raw)-1])
	if err != nil {
		return nil, err
	}
	if len(payload) < 2 {
		return nil, &FramingError{Reason: "frame too short for checksum"}
	}
	if !ChecksumOK(payload) {
		return nil, ErrChecksum
	}

	return payload[:len(payload)-2], nil
}
