// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Multicald Contributors

package kmp

import "github.com/rs/zerolog"

// Package logger for soft protocol anomalies (unescape warnings and the
// like). Silent unless the host application wires one in.
var logger = zerolog.Nop()

// SetLogger routes protocol diagnostics through l.
func SetLogger(l zerolog.Logger) {
	logger = l
}
