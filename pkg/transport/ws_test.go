// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Multicald Contributors

package transport

import (
	"bytes"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{}

// echoBridge upgrades the request and echoes every binary message back,
// like a serial-over-IP adapter with TX looped to RX.
func echoBridge(t *testing.T) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			t.Logf("upgrade failed: %v", err)
			return
		}
		defer conn.Close()
		for {
			messageType, data, err := conn.ReadMessage()
			if err != nil {
				return
			}
			if err := conn.WriteMessage(messageType, data); err != nil {
				return
			}
		}
	}
}

func wsTestURL(srv *httptest.Server) string {
	return "ws" + strings.TrimPrefix(srv.URL, "http")
}

func TestWSPortRoundTrip(t *testing.T) {
	srv := httptest.NewServer(echoBridge(t))
	defer srv.Close()

	port, err := NewWSPort(WSConfig{URL: wsTestURL(srv), ReadTimeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("NewWSPort failed: %v", err)
	}
	if err := port.Open(); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer port.Close()

	sent := []byte{0x80, 0x3F, 0x10, 0x01, 0x00, 0x3C, 0x0D}
	if err := port.Write(sent); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	var got []byte
	for range sent {
		b, err := port.ReadByte()
		if err != nil {
			t.Fatalf("ReadByte failed after %d bytes: %v", len(got), err)
		}
		got = append(got, b)
	}
	if !bytes.Equal(got, sent) {
		t.Errorf("echoed bytes = % X, want % X", got, sent)
	}
}

func TestWSPortReadTimeout(t *testing.T) {
	// Accept the connection but never send anything.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	port, err := NewWSPort(WSConfig{URL: wsTestURL(srv), ReadTimeout: 50 * time.Millisecond})
	if err != nil {
		t.Fatalf("NewWSPort failed: %v", err)
	}
	if err := port.Open(); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer port.Close()

	if _, err := port.ReadByte(); err != ErrTimeout {
		t.Errorf("ReadByte = %v, want ErrTimeout", err)
	}

	// The connection survives the timeout and can still carry data.
	if err := port.Write([]byte{0x40}); err != nil {
		t.Fatalf("Write after timeout failed: %v", err)
	}
}

func TestWSPortTextMessagesIgnored(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.WriteMessage(websocket.TextMessage, []byte("hello"))
		conn.WriteMessage(websocket.BinaryMessage, []byte{0x40, 0x0D})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	port, err := NewWSPort(WSConfig{URL: wsTestURL(srv), ReadTimeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("NewWSPort failed: %v", err)
	}
	if err := port.Open(); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer port.Close()

	b, err := port.ReadByte()
	if err != nil {
		t.Fatalf("ReadByte failed: %v", err)
	}
	if b != 0x40 {
		t.Errorf("first byte = 0x%02X, want 0x40", b)
	}
}

func TestWSPortEmptyMessagesSkipped(t *testing.T) {
	// Some bridges emit zero-length binary keepalives between bursts of
	// meter data.
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		defer conn.Close()
		conn.WriteMessage(websocket.BinaryMessage, []byte{})
		conn.WriteMessage(websocket.BinaryMessage, []byte{})
		conn.WriteMessage(websocket.BinaryMessage, []byte{0x40, 0x0D})
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}))
	defer srv.Close()

	port, err := NewWSPort(WSConfig{URL: wsTestURL(srv), ReadTimeout: 2 * time.Second})
	if err != nil {
		t.Fatalf("NewWSPort failed: %v", err)
	}
	if err := port.Open(); err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	defer port.Close()

	b, err := port.ReadByte()
	if err != nil {
		t.Fatalf("ReadByte failed: %v", err)
	}
	if b != 0x40 {
		t.Errorf("first byte = 0x%02X, want 0x40", b)
	}
}

func TestWSPortBasicAuth(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, pass, ok := r.BasicAuth()
		if !ok || user != "reader" || pass != "secret" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		conn, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			return
		}
		conn.Close()
	}))
	defer srv.Close()

	good, err := NewWSPort(WSConfig{URL: wsTestURL(srv), Username: "reader", Password: "secret"})
	if err != nil {
		t.Fatalf("NewWSPort failed: %v", err)
	}
	if err := good.Open(); err != nil {
		t.Fatalf("Open with valid credentials failed: %v", err)
	}
	good.Close()

	bad, err := NewWSPort(WSConfig{URL: wsTestURL(srv), Username: "reader", Password: "wrong"})
	if err != nil {
		t.Fatalf("NewWSPort failed: %v", err)
	}
	if err := bad.Open(); err == nil {
		bad.Close()
		t.Fatal("Open with invalid credentials succeeded")
	} else if !strings.Contains(err.Error(), "authentication") {
		t.Errorf("Open error = %v, want authentication failure", err)
	}
}

func TestNewWSPortRejectsBadURL(t *testing.T) {
	for _, url := range []string{"http://example.com/ws", "://bad", "ftp://example.com"} {
		if _, err := NewWSPort(WSConfig{URL: url}); err == nil {
			t.Errorf("NewWSPort(%q) succeeded, want error", url)
		}
	}
}

func TestWSPortClosedOperations(t *testing.T) {
	port, err := NewWSPort(WSConfig{URL: "ws://example.invalid/serial"})
	if err != nil {
		t.Fatalf("NewWSPort failed: %v", err)
	}
	if err := port.Close(); err != nil {
		t.Errorf("Close on closed port = %v, want nil", err)
	}
	if err := port.Write([]byte{0x80}); err != ErrClosed {
		t.Errorf("Write on closed port = %v, want ErrClosed", err)
	}
	if _, err := port.ReadByte(); err != ErrClosed {
		t.Errorf("ReadByte on closed port = %v, want ErrClosed", err)
	}
}
