// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Multicald Contributors

package kmp

import (
	"bytes"
	"math/rand"
	"os"
	"strconv"
	"testing"
	"time"
)

// Randomized round counts and seeds are controlled by the FUZZ_ROUNDS
// and FUZZ_SEED environment variables. Every run logs its seed so a
// failure can be replayed.

func fuzzRounds() int {
	n, err := strconv.Atoi(os.Getenv("FUZZ_ROUNDS"))
	if err != nil || n <= 0 {
		return 1000
	}
	return n
}

func fuzzRng(t *testing.T) *rand.Rand {
	seed, err := strconv.ParseInt(os.Getenv("FUZZ_SEED"), 10, 64)
	if err != nil {
		seed = time.Now().UnixNano()
	}
	t.Logf("seed %d (rerun with FUZZ_SEED=%d)", seed, seed)
	return rand.New(rand.NewSource(seed))
}

func randomBytes(rng *rand.Rand, maxLen int) []byte {
	data := make([]byte, rng.Intn(maxLen+1))
	for i := range data {
		data[i] = byte(rng.Intn(256))
	}
	return data
}

func TestFuzz_EscapeRoundTrip(t *testing.T) {
	rng := fuzzRng(t)
	rounds := fuzzRounds()

	for round := 0; round < rounds; round++ {
		data := randomBytes(rng, 48)
		got, err := Unescape(Escape(data))
		if err != nil {
			t.Fatalf("round %d: Unescape(Escape(%x)) error: %v", round, data, err)
		}
		if !bytes.Equal(got, data) {
			t.Fatalf("round %d: round trip mismatch: %x -> %x", round, data, got)
		}
	}
}

func TestFuzz_ChecksumAppendYieldsZero(t *testing.T) {
	rng := fuzzRng(t)
	rounds := fuzzRounds()

	for round := 0; round < rounds; round++ {
		msg := randomBytes(rng, 48)
		crc := Checksum(msg)
		extended := append(append([]byte{}, msg...), byte(crc>>8), byte(crc&0xFF))
		if !ChecksumOK(extended) {
			t.Fatalf("round %d: message %x + checksum 0x%04X does not re-checksum to zero", round, msg, crc)
		}
	}
}

func TestFuzz_FrameRoundTrip(t *testing.T) {
	rng := fuzzRng(t)
	rounds := fuzzRounds()

	for round := 0; round < rounds; round++ {
		addr := uint16(rng.Intn(0x10000))
		mantissa := randomBytes(rng, 8)
		payload := registerPayload(addr, byte(rng.Intn(256)), byte(rng.Intn(256)), mantissa)

		// Random leading garbage must not disturb frame sync, as long
		// as it contains neither the start marker nor the terminator.
		garbage := make([]byte, rng.Intn(8))
		for i := range garbage {
			for {
				b := byte(rng.Intn(256))
				if b != RespStartByte && b != EndByte {
					garbage[i] = b
					break
				}
			}
		}

		port := &bytePort{stream: append(garbage, respFrame(payload)...)}
		got, err := NewFrameReader(port).ReadFrame()
		if err != nil {
			t.Fatalf("round %d: ReadFrame error: %v (payload %x)", round, err, payload)
		}
		if !bytes.Equal(got, payload) {
			t.Fatalf("round %d: payload mismatch: got %x, want %x", round, got, payload)
		}
	}
}

func TestFuzz_DecoderNeverPanics(t *testing.T) {
	rng := fuzzRng(t)
	rounds := fuzzRounds()

	for round := 0; round < rounds; round++ {
		payload := randomBytes(rng, 24)
		addr := uint16(rng.Intn(0x10000))
		// Any outcome is acceptable as long as it is an error or a
		// value, never a panic.
		DecodeRegister(payload, addr)
	}
}
