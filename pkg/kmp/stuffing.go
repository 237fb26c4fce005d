// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Multicald Contributors

package kmp

// reserved byte values double as framing markers and must never appear
// literally inside a frame body.
var reserved = map[byte]bool{
	0x06: true,
	0x0D: true,
	0x1B: true,
	0x40: true,
	0x80: true,
}

// Escape applies byte stuffing to data. Each reserved byte is replaced
// with the two-byte sequence ESC, byte^0xFF. All other bytes pass
// through unchanged.
func Escape(data []byte) []byte {
	// Pre-allocate with extra space for potential escapes
	result := make([]byte, 0, len(data)*2)

	for _, b := range data {
		if reserved[b] {
			result = append(result, EscByte, b^EscXor)
		} else {
			result = append(result, b)
		}
	}

	return result
}

// Unescape removes byte stuffing from data. This is the inverse of
// Escape. A recovered byte outside the reserved set indicates a
// corrupted stream; it is logged and kept as data. An escape sequence
// with no partner byte cannot be recovered and fails with FramingError.
func Unescape(data []byte) ([]byte, error) {
	result := make([]byte, 0, len(data))

	for i := 0; i < len(data); i++ {
		if data[i] != EscByte {
			result = append(result, data[i])
			continue
		}
		if i+1 >= len(data) {
			return nil, &FramingError{Reason: "incomplete escape sequence at end of frame"}
		}
		i++
		b := data[i] ^ EscXor
		if !reserved[b] {
			logger.Warn().Uint8("byte", b).Msg("escaped byte outside reserved set")
		}
		result = append(result, b)
	}

	return result, nil
}
