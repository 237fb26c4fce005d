// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Multicald Contributors

package kmp

import (
	"math"
)

// Register read response payload layout, after CRC stripping:
//
//	[0]      echoed function code
//	[1]      echoed sub-function
//	[2:4]    echoed register address, big-endian
//	[4]      unit code (not interpreted here)
//	[5]      mantissa length N
//	[6]      exponent descriptor: bits 0-5 magnitude, bit 6 exponent
//	         sign, bit 7 value sign
//	[7:7+N]  mantissa, big-endian unsigned
const registerHeaderLen = 7

// DecodeRegister interprets a validated response payload as the
// fixed-point value of the register at addr. The echoed header must
// match the request; a mismatch means the host and meter have fallen
// out of step and the value cannot be trusted.
func DecodeRegister(payload []byte, addr uint16) (float64, error) {
	if len(payload) < registerHeaderLen {
		return 0, &FramingError{Reason: "register payload too short"}
	}

	echoed := uint16(payload[2])<<8 | uint16(payload[3])
	if payload[0] != FnReadRegister || payload[1] != SubFnReadRegister || echoed != addr {
		return 0, &EchoMismatchError{Want: addr, Got: echoed}
	}

	mantLen := int(payload[5])
	if mantLen > 8 || registerHeaderLen+mantLen > len(payload) {
		return 0, &FramingError{Reason: "mantissa overruns payload"}
	}

	var mantissa uint64
	for i := 0; i < mantLen; i++ {
		mantissa <<= 8
		mantissa |= uint64(payload[registerHeaderLen+i])
	}

	exp := float64(payload[6] & ExpMagnitudeMask)
	if payload[6]&ExpSignBit != 0 {
		exp = -exp
	}

	value := float64(mantissa) * math.Pow(10, exp)
	if payload[6]&ValueSignBit != 0 {
		value = -value
	}
	return value, nil
}
