// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Multicald Contributors

package transport

import (
	"crypto/tls"
	"encoding/base64"
	"fmt"
	"net/http"
	"net/url"
	"time"

	"github.com/gorilla/websocket"
)

// WSConfig describes a WebSocket bridge that tunnels the meter's byte
// stream, for example a serial-over-IP adapter in front of the optical
// head.
type WSConfig struct {
	URL           string
	Username      string
	Password      string
	SkipSSLVerify bool
	ReadTimeout   time.Duration
}

// WSPort is a Port over a WebSocket connection. Binary messages are
// buffered and drained byte by byte so the frame reader sees the same
// semantics as a serial line. Reads are pumped by a goroutine: a read
// timeout skips the current wait without tearing down the connection.
type WSPort struct {
	cfg       WSConfig
	conn      *websocket.Conn
	frames    chan []byte
	errs      chan error
	done      chan struct{}
	buf       []byte
	bufOffset int
}

// NewWSPort validates cfg and returns an unopened WebSocket Port.
func NewWSPort(cfg WSConfig) (*WSPort, error) {
	u, err := url.Parse(cfg.URL)
	if err != nil {
		return nil, fmt.Errorf("transport: invalid URL: %w", err)
	}
	switch u.Scheme {
	case "ws", "wss":
	default:
		return nil, fmt.Errorf("transport: unsupported URL scheme %q (use ws:// or wss://)", u.Scheme)
	}
	if cfg.ReadTimeout == 0 {
		cfg.ReadTimeout = DefaultReadTimeout
	}
	return &WSPort{cfg: cfg}, nil
}

// Open dials the bridge. Opening an already open port reopens it.
func (w *WSPort) Open() error {
	if w.conn != nil {
		w.Close()
	}

	dialer := websocket.Dialer{
		HandshakeTimeout: 10 * time.Second,
	}
	if w.cfg.SkipSSLVerify {
		dialer.TLSClientConfig = &tls.Config{InsecureSkipVerify: true}
	}

	header := http.Header{}
	if w.cfg.Username != "" {
		cred := base64.StdEncoding.EncodeToString([]byte(w.cfg.Username + ":" + w.cfg.Password))
		header.Set("Authorization", "Basic "+cred)
	}

	conn, resp, err := dialer.Dial(w.cfg.URL, header)
	if err != nil {
		if resp != nil && resp.StatusCode == http.StatusUnauthorized {
			return fmt.Errorf("transport: websocket authentication failed: %w", err)
		}
		return fmt.Errorf("transport: failed to connect to %s: %w", w.cfg.URL, err)
	}

	w.conn = conn
	w.frames = make(chan []byte, 8)
	w.errs = make(chan error, 1)
	w.done = make(chan struct{})
	w.buf = nil
	w.bufOffset = 0
	go pump(conn, w.frames, w.errs, w.done)
	return nil
}

func pump(conn *websocket.Conn, frames chan<- []byte, errs chan<- error, done <-chan struct{}) {
	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			select {
			case errs <- err:
			case <-done:
			}
			return
		}
		// Only binary messages carry meter bytes
		if messageType != websocket.BinaryMessage {
			continue
		}
		select {
		case frames <- data:
		case <-done:
			return
		}
	}
}

// Close closes the connection and stops the reader pump. Closing a
// closed port is a no-op.
func (w *WSPort) Close() error {
	if w.conn == nil {
		return nil
	}
	close(w.done)
	err := w.conn.Close()
	w.conn = nil
	return err
}

func (w *WSPort) Write(p []byte) error {
	if w.conn == nil {
		return ErrClosed
	}
	return w.conn.WriteMessage(websocket.BinaryMessage, p)
}

// ReadByte drains the current binary message, waiting for the next one
// when the buffer is empty. Zero-length messages are skipped.
func (w *WSPort) ReadByte() (byte, error) {
	if w.conn == nil {
		return 0, ErrClosed
	}

	for w.bufOffset >= len(w.buf) {
		select {
		case data := <-w.frames:
			w.buf = data
			w.bufOffset = 0
		case err := <-w.errs:
			return 0, err
		case <-time.After(w.cfg.ReadTimeout):
			return 0, ErrTimeout
		}
	}

	b := w.buf[w.bufOffset]
	w.bufOffset++
	return b, nil
}
