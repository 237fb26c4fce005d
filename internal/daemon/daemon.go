// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Multicald Contributors

// Package daemon runs the periodic meter readout and publishes each
// reading set to MQTT.
package daemon

import (
	"context"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/multical/multicald/pkg/kmp"
)

// Reader is the one meter operation the daemon needs.
type Reader interface {
	ReadAll(specs []kmp.ParamSpec) (*kmp.ReadingSet, error)
}

// Publisher delivers a payload to a subtopic of the configured prefix.
type Publisher interface {
	Publish(subtopic string, payload []byte) error
}

// Daemon polls one meter on a fixed interval. Cycles never overlap:
// the half-duplex link tolerates exactly one transaction at a time, so
// the next readout starts only after the previous one finished and the
// full interval elapsed.
type Daemon struct {
	reader   Reader
	pub      Publisher // nil disables publishing
	specs    []kmp.ParamSpec
	interval time.Duration
	log      zerolog.Logger
}

// New assembles a daemon. pub may be nil for a log-only dry run.
func New(reader Reader, pub Publisher, specs []kmp.ParamSpec, interval time.Duration, log zerolog.Logger) *Daemon {
	return &Daemon{
		reader:   reader,
		pub:      pub,
		specs:    specs,
		interval: interval,
		log:      log,
	}
}

// Run polls until ctx is cancelled. The first readout happens
// immediately; transport failures are logged and retried on the next
// cycle rather than aborting the daemon.
func (d *Daemon) Run(ctx context.Context) {
	d.log.Info().Dur("interval", d.interval).Msg("daemon started")

	for {
		d.cycle()

		d.log.Info().Dur("interval", d.interval).Msg("waiting for the next meter readout")
		select {
		case <-ctx.Done():
			d.log.Info().Msg("daemon stopping")
			return
		case <-time.After(d.interval):
		}
	}
}

// cycle performs one readout and, when anything was decoded, one
// publish.
func (d *Daemon) cycle() {
	readings, err := d.reader.ReadAll(d.specs)
	if err != nil {
		d.log.Error().Err(err).Msg("meter readout failed")
	}

	if readings == nil || readings.Len() == 0 {
		d.log.Warn().Msg("no readings this cycle, nothing to publish")
		return
	}

	d.log.Info().Int("readings", readings.Len()).Strs("keys", readings.Keys()).Msg("meter readout complete")

	if d.pub == nil {
		return
	}

	payload, err := json.Marshal(readings)
	if err != nil {
		d.log.Error().Err(err).Msg("failed to encode readings")
		return
	}
	if err := d.pub.Publish("values", payload); err != nil {
		d.log.Error().Err(err).Msg("publish failed")
	}
}
