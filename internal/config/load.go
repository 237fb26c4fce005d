// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Multicald Contributors

package config

import (
	"fmt"
	"os"
	"strconv"

	"github.com/rs/zerolog"
	"gopkg.in/yaml.v3"
)

// Load reads path, applies the environment overlay and returns the
// parsed configuration.
func Load(path string, log zerolog.Logger) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse %s: %w", path, err)
	}

	applyEnv(&cfg, log)
	applyDefaults(&cfg)
	return &cfg, nil
}

// applyEnv overlays the environment variables the original deployments
// rely on. Invalid values are logged and ignored rather than fatal.
func applyEnv(cfg *Config, log zerolog.Logger) {
	if v := os.Getenv("SERIAL_BAUDRATE"); v != "" {
		if baud, err := strconv.Atoi(v); err == nil {
			cfg.SerialDevice.BaudRate = baud
		} else {
			log.Warn().Str("value", v).Msg("invalid SERIAL_BAUDRATE, ignoring")
		}
	}
	if v := os.Getenv("SERIAL_PARITY"); v != "" {
		switch v {
		case "NONE", "none":
			cfg.SerialDevice.Parity = "none"
		case "EVEN", "even":
			cfg.SerialDevice.Parity = "even"
		case "ODD", "odd":
			cfg.SerialDevice.Parity = "odd"
		case "MARK", "mark":
			cfg.SerialDevice.Parity = "mark"
		case "SPACE", "space":
			cfg.SerialDevice.Parity = "space"
		default:
			log.Warn().Str("value", v).Msg("invalid SERIAL_PARITY, ignoring")
		}
	}
	if v := os.Getenv("SERIAL_STOPBITS"); v != "" {
		switch v {
		case "1", "1.5", "2":
			cfg.SerialDevice.StopBits = v
		default:
			log.Warn().Str("value", v).Msg("invalid SERIAL_STOPBITS, ignoring")
		}
	}
	if v := os.Getenv("SERIAL_BYTESIZE"); v != "" {
		switch v {
		case "5", "6", "7", "8":
			cfg.SerialDevice.ByteSize, _ = strconv.Atoi(v)
		default:
			log.Warn().Str("value", v).Msg("invalid SERIAL_BYTESIZE, ignoring")
		}
	}
	if v := os.Getenv("SERIAL_TIMEOUT"); v != "" {
		if timeout, err := strconv.ParseFloat(v, 64); err == nil {
			cfg.SerialDevice.TimeoutSeconds = timeout
		} else {
			log.Warn().Str("value", v).Msg("invalid SERIAL_TIMEOUT, ignoring")
		}
	}
	if cfg.Kamstrup.Version == "" {
		cfg.Kamstrup.Version = os.Getenv("KAMSTRUP_VERSION")
	}
}

func applyDefaults(cfg *Config) {
	if cfg.Kamstrup.PollInterval == 0 {
		cfg.Kamstrup.PollInterval = 5
	}
	if cfg.MQTT.Port == 0 {
		cfg.MQTT.Port = 1883
	}
	if cfg.MQTT.Client == "" {
		cfg.MQTT.Client = "multicald"
	}
	if cfg.MQTT.Topic == "" {
		cfg.MQTT.Topic = "kamstrup"
	}
	if cfg.MQTT.HANodeID == "" {
		cfg.MQTT.HANodeID = "kamstrup_meter"
	}
}
