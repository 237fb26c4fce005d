// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Multicald Contributors

package cmd

import (
	"fmt"
	"os"
	"syscall"
	"time"

	"golang.org/x/term"

	"github.com/multical/multicald/internal/config"
	"github.com/multical/multicald/pkg/transport"
)

// openPort builds an unopened transport Port from the connection flags.
// The transaction engine owns the open/close lifecycle per poll cycle.
func openPort() (transport.Port, string, error) {
	timeout := time.Duration(readTimeout * float64(time.Second))

	if wsURL != "" {
		password, err := wsPassword()
		if err != nil {
			return nil, "", err
		}
		port, err := transport.NewWSPort(transport.WSConfig{
			URL:           wsURL,
			Username:      wsUsername,
			Password:      password,
			SkipSSLVerify: wsNoSSLVerify,
			ReadTimeout:   timeout,
		})
		if err != nil {
			return nil, "", err
		}
		return port, fmt.Sprintf("WebSocket %s", wsURL), nil
	}

	if portName == "" {
		return nil, "", fmt.Errorf("no connection specified (use --port or --url)")
	}

	port, err := transport.NewSerialPort(transport.SerialConfig{
		Device:      portName,
		BaudRate:    baudRate,
		ReadTimeout: timeout,
	})
	if err != nil {
		return nil, "", err
	}
	return port, fmt.Sprintf("Serial %s @ %d baud", portName, baudRate), nil
}

// wsPassword resolves the WebSocket credential: environment first,
// interactive prompt second. No password flag exists on purpose.
func wsPassword() (string, error) {
	if wsUsername == "" {
		return "", nil
	}
	if password := os.Getenv("MULTICALD_WS_PASSWORD"); password != "" {
		return password, nil
	}

	fmt.Fprintf(os.Stderr, "Password for %s: ", wsUsername)
	raw, err := term.ReadPassword(int(syscall.Stdin))
	fmt.Fprintln(os.Stderr)
	if err != nil {
		return "", fmt.Errorf("failed to read password: %w", err)
	}
	return string(raw), nil
}

// portFromConfig builds an unopened Port from the daemon config file.
func portFromConfig(sd config.SerialDeviceConfig) (transport.Port, error) {
	timeout := time.Duration(sd.TimeoutSeconds * float64(time.Second))

	if sd.URL != "" {
		password := sd.Password
		if password == "" {
			password = os.Getenv("MULTICALD_WS_PASSWORD")
		}
		return transport.NewWSPort(transport.WSConfig{
			URL:           sd.URL,
			Username:      sd.Username,
			Password:      password,
			SkipSSLVerify: sd.SkipSSLVerify,
			ReadTimeout:   timeout,
		})
	}

	return transport.NewSerialPort(transport.SerialConfig{
		Device:      sd.ComPort,
		BaudRate:    sd.BaudRate,
		DataBits:    sd.ByteSize,
		Parity:      sd.Parity,
		StopBits:    sd.StopBits,
		ReadTimeout: timeout,
	})
}
