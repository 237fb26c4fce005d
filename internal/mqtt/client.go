// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Multicald Contributors

// Package mqtt publishes meter readings to an MQTT broker, with
// optional Home Assistant discovery announcements.
package mqtt

import (
	"crypto/tls"
	"crypto/x509"
	"fmt"
	"os"
	"strings"
	"time"

	paho "github.com/eclipse/paho.mqtt.golang"
	"github.com/rs/zerolog"

	"github.com/multical/multicald/internal/config"
)

const publishTimeout = 10 * time.Second

// Publisher wraps a paho client with the daemon's topic layout:
// everything is published under a configured prefix.
type Publisher struct {
	client paho.Client
	cfg    config.MQTTConfig
	log    zerolog.Logger
}

// NewPublisher builds an unconnected publisher from cfg.
func NewPublisher(cfg config.MQTTConfig, log zerolog.Logger) (*Publisher, error) {
	opts := paho.NewClientOptions().
		AddBroker(brokerURL(cfg)).
		SetClientID(cfg.Client).
		SetCleanSession(true).
		SetAutoReconnect(true).
		SetConnectTimeout(10 * time.Second)

	if cfg.Authentication {
		password := cfg.Password
		if password == "" {
			password = os.Getenv("MQTT_PASSWORD")
		}
		opts.SetUsername(cfg.Username)
		opts.SetPassword(password)
	}

	if cfg.TLSEnabled {
		tlsCfg, err := tlsConfig(cfg)
		if err != nil {
			return nil, err
		}
		opts.SetTLSConfig(tlsCfg)
	}

	return &Publisher{
		client: paho.NewClient(opts),
		cfg:    cfg,
		log:    log.With().Str("broker", brokerURL(cfg)).Logger(),
	}, nil
}

func brokerURL(cfg config.MQTTConfig) string {
	scheme := "tcp"
	if cfg.TLSEnabled {
		scheme = "ssl"
	}
	return fmt.Sprintf("%s://%s:%d", scheme, cfg.Host, cfg.Port)
}

func tlsConfig(cfg config.MQTTConfig) (*tls.Config, error) {
	tlsCfg := &tls.Config{InsecureSkipVerify: cfg.TLSInsecure}
	if cfg.TLSCAFile != "" {
		pem, err := os.ReadFile(cfg.TLSCAFile)
		if err != nil {
			return nil, fmt.Errorf("mqtt: read CA file: %w", err)
		}
		pool := x509.NewCertPool()
		if !pool.AppendCertsFromPEM(pem) {
			return nil, fmt.Errorf("mqtt: no certificates in %s", cfg.TLSCAFile)
		}
		tlsCfg.RootCAs = pool
	}
	return tlsCfg, nil
}

// Connect dials the broker.
func (p *Publisher) Connect() error {
	token := p.client.Connect()
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("mqtt: connect to %s timed out", brokerURL(p.cfg))
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt: connect: %w", err)
	}
	p.log.Info().Msg("connected to MQTT broker")
	return nil
}

// Disconnect flushes and drops the connection.
func (p *Publisher) Disconnect() {
	p.client.Disconnect(250)
}

// Publish sends payload to <prefix>/<subtopic> with the configured QoS
// and retain flag.
func (p *Publisher) Publish(subtopic string, payload []byte) error {
	topic := p.cfg.Topic + "/" + strings.ToLower(subtopic)
	return p.publishRaw(topic, p.cfg.QoS, p.cfg.Retain, payload)
}

func (p *Publisher) publishRaw(topic string, qos byte, retain bool, payload []byte) error {
	if !p.client.IsConnected() {
		return fmt.Errorf("mqtt: not connected, dropping publish to %s", topic)
	}

	p.log.Debug().Str("topic", topic).Bytes("payload", payload).Msg("publishing")
	token := p.client.Publish(topic, qos, retain, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("mqtt: publish to %s timed out", topic)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("mqtt: publish to %s: %w", topic, err)
	}
	return nil
}
