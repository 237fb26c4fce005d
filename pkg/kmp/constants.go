// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Multicald Contributors

package kmp

// Protocol Framing Bytes
const (
	ReqStartByte  = 0x80 // start marker on requests (host -> meter)
	RespStartByte = 0x40 // start marker on responses (meter -> host)
	EndByte       = 0x0D
	EscByte       = 0x1B
	EscXor        = 0xFF
)

// Register read command (function / sub-function / register count)
const (
	FnReadRegister    = 0x3F
	SubFnReadRegister = 0x10
)

// Frame Size Limits
//
// A register-read response carries a 7 byte header, at most an 8 byte
// mantissa and a 2 byte CRC. Worst-case escaping doubles that, plus the
// two framing bytes. 64 leaves generous slack.
const (
	MaxRawFrameSize = 64
	MaxPayloadSize  = 24
)

// CRC-16-CCITT Configuration
//
// Kamstrup uses the "true" (non-reflected) CCITT polynomial with a zero
// initial register, unlike the 0xFFFF variants common elsewhere.
const (
	CRCPolynomial = 0x1021
	CRCInitial    = 0x0000
)

// Register decode: exponent descriptor bit layout
const (
	ExpMagnitudeMask = 0x3F
	ExpSignBit       = 0x40
	ValueSignBit     = 0x80
)

// DefaultModel is the meter family whose register map doubles as the
// generic parameter table. 403 and 603 meters are deltas on top of it.
const DefaultModel = "402"
