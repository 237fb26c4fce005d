// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Multicald Contributors

package cmd

import (
	"os"
	"time"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/multical/multicald/pkg/kmp"
)

var (
	// Serial connection flags
	portName string
	baudRate int

	// WebSocket connection flags
	wsURL         string
	wsUsername    string
	wsNoSSLVerify bool

	// Meter selection
	meterModel  string
	readTimeout float64

	verbose bool

	logger zerolog.Logger
)

var rootCmd = &cobra.Command{
	Use:   "multicald",
	Short: "Kamstrup Multical meter reader",
	Long: `Multicald - read Kamstrup Multical heat meters over the optical head.

Speaks the Kamstrup register protocol (byte-stuffed frames, CRC-16-CCITT,
fixed-point registers) and maps symbolic parameter names like "energy" or
"temp1" to register addresses per meter model.

Connection modes:
  Serial:    --port /dev/ttyUSB0 [--baud 1200]
  WebSocket: --url ws://host/path [--username user]

For WebSocket authentication, the password is read from the
MULTICALD_WS_PASSWORD environment variable, or prompted interactively if not
set. The --password flag is intentionally not provided to avoid leaking
credentials in shell history.`,
	Version: "1.2.0",
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		logger = initLogger(verbose)
		kmp.SetLogger(logger)
	},
}

func init() {
	// Serial connection flags
	rootCmd.PersistentFlags().StringVarP(&portName, "port", "p", "", "Serial port device")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 1200, "Baud rate (serial only)")

	// WebSocket connection flags
	rootCmd.PersistentFlags().StringVarP(&wsURL, "url", "u", "", "WebSocket URL (ws:// or wss://)")
	rootCmd.PersistentFlags().StringVar(&wsUsername, "username", "", "Username for HTTP Basic auth")
	rootCmd.PersistentFlags().BoolVar(&wsNoSSLVerify, "no-ssl-verify", false, "Skip TLS certificate verification (wss:// only)")

	rootCmd.PersistentFlags().StringVarP(&meterModel, "model", "m", kmp.DefaultModel, "Meter model (402, 403, 603)")
	rootCmd.PersistentFlags().Float64Var(&readTimeout, "timeout", 2.0, "Per-byte read timeout in seconds")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
}

func initLogger(debug bool) zerolog.Logger {
	output := zerolog.ConsoleWriter{
		Out:        os.Stderr,
		TimeFormat: time.RFC3339,
	}
	level := zerolog.InfoLevel
	if debug {
		level = zerolog.DebugLevel
	}
	return zerolog.New(output).Level(level).With().Timestamp().Str("app", "multicald").Logger()
}

// Execute runs the root command
func Execute() error {
	return rootCmd.Execute()
}
