// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Multicald Contributors

package kmp

import (
	"errors"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/multical/multicald/pkg/transport"
)

// Client reads registers from one meter over one Port. Transactions
// are strictly serialized: the link is half-duplex and the meter
// answers exactly one request at a time, so a Client must not be used
// from more than one goroutine.
type Client struct {
	port   transport.Port
	reader *FrameReader
	reg    *Registry
	log    zerolog.Logger
	stats  *Statistics
}

// NewClient returns a Client for the given meter model, using the
// merged register map for that model.
func NewClient(port transport.Port, model string, log zerolog.Logger) *Client {
	return &Client{
		port:   port,
		reader: NewFrameReader(port),
		reg:    NewRegistry(model),
		log:    log.With().Str("model", model).Logger(),
		stats:  NewStatistics(),
	}
}

// Registry returns the client's parameter registry.
func (c *Client) Registry() *Registry {
	return c.reg
}

// Stats returns the client's lifetime transaction statistics.
func (c *Client) Stats() *Statistics {
	return c.stats
}

// ReadAll reads the requested parameters in order and returns whatever
// could be decoded. An empty spec list reads every parameter the model
// knows. Parameters that fail to resolve, respond, or decode are
// logged and left out of the result; only a transport failure (open or
// write) aborts the cycle, and even then the readings collected so far
// are returned alongside the error.
//
// The port is cycled closed-then-open at the start of the call and
// closed again when it returns.
func (c *Client) ReadAll(specs []ParamSpec) (*ReadingSet, error) {
	readings := NewReadingSet()

	if len(specs) == 0 {
		for _, name := range c.reg.Names() {
			specs = append(specs, Name(name))
		}
	}

	// Start each cycle from a known-closed port.
	c.port.Close()
	if err := c.port.Open(); err != nil {
		return readings, fmt.Errorf("kmp: open transport: %w", err)
	}
	defer c.port.Close()

	for _, spec := range specs {
		value, err := c.readParameter(spec)
		c.stats.Record(err)
		if err != nil {
			if isProtocolError(err) {
				c.log.Warn().Stringer("param", spec).Err(err).Msg("parameter skipped")
				continue
			}
			return readings, fmt.Errorf("kmp: transport failure reading %s: %w", spec, err)
		}

		addr, _ := c.reg.Resolve(spec)
		readings.Set(c.reg.KeyFor(spec, addr), value)
	}

	return readings, nil
}

// readParameter runs one resolve/request/response/decode transaction.
func (c *Client) readParameter(spec ParamSpec) (float64, error) {
	addr, err := c.reg.Resolve(spec)
	if err != nil {
		return 0, err
	}

	if err := c.port.Write(BuildReadRequest(addr)); err != nil {
		return 0, fmt.Errorf("write request: %w", err)
	}

	payload, err := c.reader.ReadFrame()
	if err != nil {
		return 0, err
	}

	return DecodeRegister(payload, addr)
}

// isProtocolError reports whether err is a per-parameter protocol
// failure (skip and continue) rather than a broken transport (abort
// the cycle).
func isProtocolError(err error) bool {
	var framing *FramingError
	var echo *EchoMismatchError
	var unknown *UnknownParamError
	return errors.Is(err, ErrNoResponse) ||
		errors.Is(err, ErrChecksum) ||
		errors.As(err, &framing) ||
		errors.As(err, &echo) ||
		errors.As(err, &unknown)
}
