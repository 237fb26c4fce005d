// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Multicald Contributors

// Package config loads and validates the daemon configuration file.
package config

// Config is the root of the YAML configuration.
type Config struct {
	SerialDevice SerialDeviceConfig `yaml:"serial_device"`
	Kamstrup     KamstrupConfig     `yaml:"kamstrup"`
	MQTT         MQTTConfig         `yaml:"mqtt"`
}

// SerialDeviceConfig selects and tunes the link to the meter. Exactly
// one of ComPort and URL must be set.
type SerialDeviceConfig struct {
	ComPort string `yaml:"com_port"`
	URL     string `yaml:"url"`

	// Optional line settings; zero values take the Kamstrup defaults
	// (1200 baud, 8 data bits, no parity, 2 stop bits, 2 s timeout).
	BaudRate       int     `yaml:"baudrate"`
	Parity         string  `yaml:"parity"`
	StopBits       string  `yaml:"stopbits"`
	ByteSize       int     `yaml:"bytesize"`
	TimeoutSeconds float64 `yaml:"timeout"`

	// WebSocket credentials (url mode only)
	Username      string `yaml:"username"`
	Password      string `yaml:"password"`
	SkipSSLVerify bool   `yaml:"no_ssl_verify"`
}

// KamstrupConfig selects the meter model and what to poll.
type KamstrupConfig struct {
	Version      string   `yaml:"version"`
	Parameters   []string `yaml:"parameters"` // empty = all names for the model
	PollInterval int      `yaml:"poll_interval"` // minutes
}

// MQTTConfig describes the broker the daemon publishes to.
type MQTTConfig struct {
	Host           string `yaml:"host"`
	Port           int    `yaml:"port"`
	Client         string `yaml:"client"`
	Topic          string `yaml:"topic"`
	QoS            byte   `yaml:"qos"`
	Retain         bool   `yaml:"retain"`
	Authentication bool   `yaml:"authentication"`
	Username       string `yaml:"username"`
	Password       string `yaml:"password"`
	TLSEnabled     bool   `yaml:"tls_enabled"`
	TLSCAFile      string `yaml:"tls_ca_file"`
	TLSInsecure    bool   `yaml:"tls_insecure"`

	HADiscovery bool   `yaml:"ha_discovery"`
	HANodeID    string `yaml:"ha_node_id"`
}
