// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Multicald Contributors

package kmp

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// ReadingSet is an insertion-ordered map from parameter key to decoded
// value, built fresh for each poll cycle. A parameter that failed at
// any stage is absent; absence means "no valid reading this cycle",
// never zero.
type ReadingSet struct {
	keys   []string
	values map[string]float64
}

// NewReadingSet returns an empty ReadingSet.
func NewReadingSet() *ReadingSet {
	return &ReadingSet{values: make(map[string]float64)}
}

// Set records a reading, preserving first-insertion order on repeats.
func (rs *ReadingSet) Set(key string, value float64) {
	if _, ok := rs.values[key]; !ok {
		rs.keys = append(rs.keys, key)
	}
	rs.values[key] = value
}

// Get returns the reading for key and whether one was recorded.
func (rs *ReadingSet) Get(key string) (float64, bool) {
	v, ok := rs.values[key]
	return v, ok
}

// Len returns the number of recorded readings.
func (rs *ReadingSet) Len() int {
	return len(rs.keys)
}

// Keys returns the recorded keys in insertion order.
func (rs *ReadingSet) Keys() []string {
	out := make([]string, len(rs.keys))
	copy(out, rs.keys)
	return out
}

// MarshalJSON renders the readings as a JSON object whose members
// appear in insertion order.
func (rs *ReadingSet) MarshalJSON() ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteByte('{')
	for i, k := range rs.keys {
		if i > 0 {
			buf.WriteByte(',')
		}
		name, err := json.Marshal(k)
		if err != nil {
			return nil, err
		}
		buf.Write(name)
		buf.WriteByte(':')
		buf.WriteString(strconv.FormatFloat(rs.values[k], 'g', -1, 64))
	}
	buf.WriteByte('}')
	return buf.Bytes(), nil
}
