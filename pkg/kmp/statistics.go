// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Multicald Contributors

package kmp

import (
	"errors"
	"fmt"
	"time"
)

// Statistics tracks transaction outcomes and error rates for one
// client. Counters cover the whole lifetime of the client, not a
// single poll cycle.
type Statistics struct {
	StartTime time.Time

	// Counters
	Transactions   uint64
	Readings       uint64
	Timeouts       uint64
	ChecksumErrors uint64
	FramingErrors  uint64
	EchoMismatches uint64
	UnknownParams  uint64
}

// NewStatistics creates a new statistics tracker.
func NewStatistics() *Statistics {
	return &Statistics{StartTime: time.Now()}
}

// Record classifies the outcome of one parameter transaction.
func (s *Statistics) Record(err error) {
	s.Transactions++
	if err == nil {
		s.Readings++
		return
	}

	var framing *FramingError
	var echo *EchoMismatchError
	var unknown *UnknownParamError
	switch {
	case errors.Is(err, ErrNoResponse):
		s.Timeouts++
	case errors.Is(err, ErrChecksum):
		s.ChecksumErrors++
	case errors.As(err, &echo):
		s.EchoMismatches++
	case errors.As(err, &framing):
		s.FramingErrors++
	case errors.As(err, &unknown):
		s.UnknownParams++
	}
}

// Failures returns the total number of failed transactions.
func (s *Statistics) Failures() uint64 {
	return s.Transactions - s.Readings
}

// String returns a formatted statistics summary.
func (s *Statistics) String() string {
	var validPercent float64
	if s.Transactions > 0 {
		validPercent = float64(s.Readings) * 100.0 / float64(s.Transactions)
	}

	elapsed := time.Since(s.StartTime)

	result := fmt.Sprintf("=== Statistics (%.0f seconds) ===\n", elapsed.Seconds())
	result += fmt.Sprintf("Transactions:    %8d\n", s.Transactions)
	result += fmt.Sprintf("Readings:        %8d (%.1f%%)\n", s.Readings, validPercent)

	if s.Timeouts > 0 {
		result += fmt.Sprintf("Timeouts:        %8d\n", s.Timeouts)
	}
	if s.ChecksumErrors > 0 {
		result += fmt.Sprintf("CRC Errors:      %8d\n", s.ChecksumErrors)
	}
	if s.FramingErrors > 0 {
		result += fmt.Sprintf("Framing Errors:  %8d\n", s.FramingErrors)
	}
	if s.EchoMismatches > 0 {
		result += fmt.Sprintf("Echo Mismatches: %8d\n", s.EchoMismatches)
	}
	if s.UnknownParams > 0 {
		result += fmt.Sprintf("Unknown Params:  %8d\n", s.UnknownParams)
	}

	result += "================================\n"
	return result
}

// Reset resets all statistics counters.
func (s *Statistics) Reset() {
	*s = Statistics{StartTime: time.Now()}
}
