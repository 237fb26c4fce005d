// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Multicald Contributors

package kmp

// Checksum computes the CRC-16-CCITT checksum for the given data.
// Non-reflected, MSB-first, zero initial register (CRC-16/XMODEM).
func Checksum(data []byte) uint16 {
	crc := uint16(CRCInitial)
	for _, b := range data {
		crc ^= uint16(b) << 8
		for i := 0; i < 8; i++ {
			if crc&0x8000 != 0 {
				crc = (crc << 1) ^ CRCPolynomial
			} else {
				crc <<= 1
			}
		}
	}
	return crc
}

// ChecksumOK reports whether data, whose last two bytes are its own
// checksum, re-checksums to zero. Any corruption yields nonzero.
func ChecksumOK(data []byte) bool {
	return Checksum(data) == 0
}
