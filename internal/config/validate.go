// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Multicald Contributors

package config

import (
	"errors"
	"fmt"
	"strings"
)

// Validate checks cfg for contradictions before anything connects.
func Validate(cfg *Config) error {
	if cfg.SerialDevice.ComPort == "" && cfg.SerialDevice.URL == "" {
		return errors.New("config: serial_device needs com_port or url")
	}
	if cfg.SerialDevice.ComPort != "" && cfg.SerialDevice.URL != "" {
		return errors.New("config: serial_device com_port and url are mutually exclusive")
	}
	if cfg.SerialDevice.URL != "" &&
		!strings.HasPrefix(cfg.SerialDevice.URL, "ws://") &&
		!strings.HasPrefix(cfg.SerialDevice.URL, "wss://") {
		return fmt.Errorf("config: serial_device url %q must be ws:// or wss://", cfg.SerialDevice.URL)
	}

	if cfg.SerialDevice.BaudRate < 0 {
		return fmt.Errorf("config: invalid baudrate %d", cfg.SerialDevice.BaudRate)
	}
	switch cfg.SerialDevice.Parity {
	case "", "none", "even", "odd", "mark", "space":
	default:
		return fmt.Errorf("config: invalid parity %q", cfg.SerialDevice.Parity)
	}
	switch cfg.SerialDevice.StopBits {
	case "", "1", "1.5", "2":
	default:
		return fmt.Errorf("config: invalid stopbits %q", cfg.SerialDevice.StopBits)
	}
	switch cfg.SerialDevice.ByteSize {
	case 0, 5, 6, 7, 8:
	default:
		return fmt.Errorf("config: invalid bytesize %d", cfg.SerialDevice.ByteSize)
	}
	if cfg.SerialDevice.TimeoutSeconds < 0 {
		return fmt.Errorf("config: invalid timeout %v", cfg.SerialDevice.TimeoutSeconds)
	}

	if cfg.Kamstrup.PollInterval <= 0 {
		return fmt.Errorf("config: poll_interval must be > 0, got %d", cfg.Kamstrup.PollInterval)
	}

	if cfg.MQTT.Host != "" {
		if cfg.MQTT.Port <= 0 || cfg.MQTT.Port > 65535 {
			return fmt.Errorf("config: invalid mqtt port %d", cfg.MQTT.Port)
		}
		if cfg.MQTT.QoS > 2 {
			return fmt.Errorf("config: invalid mqtt qos %d", cfg.MQTT.QoS)
		}
		if cfg.MQTT.Authentication && cfg.MQTT.Username == "" {
			return errors.New("config: mqtt authentication enabled without username")
		}
	}

	return nil
}
