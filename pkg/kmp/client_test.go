// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Multicald Contributors

package kmp

import (
	"errors"
	"reflect"
	"testing"

	"github.com/rs/zerolog"

	"github.com/multical/multicald/pkg/transport"
)

// meterPort simulates a meter: each valid request frame queues the
// scripted response for the addressed register; anything else stays
// silent and reads time out.
type meterPort struct {
	responses map[uint16][]byte // register address -> raw response frame
	pending   []byte
	opens     int
	closes    int
	openErr   error
	writeErr  error
}

func newMeterPort() *meterPort {
	return &meterPort{responses: make(map[uint16][]byte)}
}

// respond scripts a well-formed register read response.
func (m *meterPort) respond(addr uint16, unit byte, expByte byte, mantissa []byte) {
	m.responses[addr] = respFrame(registerPayload(addr, unit, expByte, mantissa))
}

func (m *meterPort) Open() error {
	if m.openErr != nil {
		return m.openErr
	}
	m.opens++
	return nil
}

func (m *meterPort) Close() error {
	m.closes++
	return nil
}

func (m *meterPort) Write(frame []byte) error {
	if m.writeErr != nil {
		return m.writeErr
	}

	// Decode the request the way the meter would.
	if len(frame) < 4 || frame[0] != ReqStartByte || frame[len(frame)-1] != EndByte {
		return nil
	}
	interior, err := Unescape(frame[1 : len(frame)-1])
	if err != nil || !ChecksumOK(interior) {
		return nil
	}
	body := interior[:len(interior)-2]
	if len(body) != 5 || body[0] != FnReadRegister || body[1] != SubFnReadRegister {
		return nil
	}

	addr := uint16(body[3])<<8 | uint16(body[4])
	if resp, ok := m.responses[addr]; ok {
		m.pending = append(m.pending, resp...)
	}
	return nil
}

func (m *meterPort) ReadByte() (byte, error) {
	if len(m.pending) == 0 {
		return 0, transport.ErrTimeout
	}
	b := m.pending[0]
	m.pending = m.pending[1:]
	return b, nil
}

func testClient(port transport.Port) *Client {
	return NewClient(port, "402", zerolog.Nop())
}

func TestReadAll_EndToEnd(t *testing.T) {
	port := newMeterPort()
	port.respond(0x3C, 0x16, 0x02, []byte{0x04, 0xD2}) // energy = 123400
	port.respond(0x56, 0x2F, 0x42, []byte{0x23, 0x6B}) // temp1 = 90.67

	c := testClient(port)
	readings, err := c.ReadAll([]ParamSpec{Name("energy"), Name("temp1"), Name("bogus_name")})
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}

	if readings.Len() != 2 {
		t.Fatalf("got %d readings, want 2: %v", readings.Len(), readings.Keys())
	}
	if got := readings.Keys(); !reflect.DeepEqual(got, []string{"energy", "temp1"}) {
		t.Errorf("keys = %v, want [energy temp1]", got)
	}
	if v, ok := readings.Get("energy"); !ok || !approxEqual(v, 123400.0) {
		t.Errorf("energy = (%v, %v)", v, ok)
	}
	if v, ok := readings.Get("temp1"); !ok || !approxEqual(v, 90.67) {
		t.Errorf("temp1 = (%v, %v)", v, ok)
	}
	if _, ok := readings.Get("bogus_name"); ok {
		t.Error("unresolvable parameter must be absent, not zero")
	}

	if port.opens != 1 {
		t.Errorf("port opened %d times, want 1", port.opens)
	}
	if port.closes < 2 {
		t.Errorf("port closed %d times, want close-before-open plus final close", port.closes)
	}
}

func TestReadAll_MissingOnFailure(t *testing.T) {
	port := newMeterPort()
	port.respond(0x56, 0x2F, 0x00, []byte{0x5A})
	// energy answers with the wrong register echoed
	port.responses[0x3C] = respFrame(registerPayload(0x3D, 0x16, 0x00, []byte{0x01}))
	// flow answers garbage that fails the CRC
	bad := respFrame(registerPayload(0x4A, 0x32, 0x00, []byte{0x01}))
	bad[3] ^= 0xFF
	port.responses[0x4A] = bad

	c := testClient(port)
	readings, err := c.ReadAll([]ParamSpec{
		Name("energy"),  // echo mismatch
		Name("flow"),    // checksum error
		Name("volume"),  // timeout, nothing scripted
		Name("temp1"),   // ok
	})
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}

	if got := readings.Keys(); !reflect.DeepEqual(got, []string{"temp1"}) {
		t.Fatalf("keys = %v, want [temp1]", got)
	}
	for _, k := range []string{"energy", "flow", "volume"} {
		if _, ok := readings.Get(k); ok {
			t.Errorf("failed parameter %q must not appear in the result", k)
		}
	}

	stats := c.Stats()
	if stats.Transactions != 4 || stats.Readings != 1 {
		t.Errorf("stats = %d transactions / %d readings, want 4/1", stats.Transactions, stats.Readings)
	}
	if stats.EchoMismatches != 1 || stats.ChecksumErrors != 1 || stats.Timeouts != 1 {
		t.Errorf("stats breakdown: %+v", stats)
	}
}

func TestReadAll_NumericSpecKeying(t *testing.T) {
	port := newMeterPort()
	port.respond(0x3C, 0x16, 0x00, []byte{0x07}) // a table address
	port.respond(0x123, 0x00, 0x00, []byte{0x08})

	c := testClient(port)
	readings, err := c.ReadAll([]ParamSpec{ParseSpec("0x3C"), ParseSpec("0x123")})
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}

	// Addresses with a table name are keyed by name; others by hex text.
	if _, ok := readings.Get("energy"); !ok {
		t.Errorf("0x3C should be recorded under its table name, keys=%v", readings.Keys())
	}
	if _, ok := readings.Get("0x123"); !ok {
		t.Errorf("0x123 has no name and should be keyed by hex text, keys=%v", readings.Keys())
	}
}

func TestReadAll_EmptySpecListReadsEverything(t *testing.T) {
	port := newMeterPort()
	port.respond(0x3C, 0x16, 0x00, []byte{0x01})
	port.respond(0x50, 0x2C, 0x00, []byte{0x02})

	c := testClient(port)
	readings, err := c.ReadAll(nil)
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}

	// Only two registers respond, but every table entry was attempted.
	if readings.Len() != 2 {
		t.Errorf("got %d readings, want 2", readings.Len())
	}
	if c.Stats().Transactions != uint64(len(genericParams)) {
		t.Errorf("attempted %d transactions, want %d", c.Stats().Transactions, len(genericParams))
	}
}

func TestReadAll_OpenFailureIsFatal(t *testing.T) {
	port := newMeterPort()
	port.openErr = errors.New("no such device")

	c := testClient(port)
	readings, err := c.ReadAll([]ParamSpec{Name("energy")})
	if err == nil {
		t.Fatal("expected error when the transport cannot open")
	}
	if readings.Len() != 0 {
		t.Errorf("no readings possible without a transport, got %v", readings.Keys())
	}
}

func TestReadAll_WriteFailureIsFatal(t *testing.T) {
	port := newMeterPort()
	port.writeErr = errors.New("broken pipe")

	c := testClient(port)
	if _, err := c.ReadAll([]ParamSpec{Name("energy")}); err == nil {
		t.Fatal("expected error when writes fail")
	}
}

func TestReadAll_DuplicatesAttemptedIndependently(t *testing.T) {
	port := newMeterPort()
	port.respond(0x56, 0x2F, 0x00, []byte{0x17})

	c := testClient(port)
	readings, err := c.ReadAll([]ParamSpec{Name("temp1"), Name("temp1")})
	if err != nil {
		t.Fatalf("ReadAll error: %v", err)
	}

	if readings.Len() != 1 {
		t.Errorf("duplicate specs collapse to one key, got %v", readings.Keys())
	}
	if c.Stats().Transactions != 2 {
		t.Errorf("both duplicates must be attempted, got %d transactions", c.Stats().Transactions)
	}
}

func TestReadingSet_OrderedJSON(t *testing.T) {
	rs := NewReadingSet()
	rs.Set("energy", 123400)
	rs.Set("temp1", 90.67)
	rs.Set("flow", 0)

	data, err := rs.MarshalJSON()
	if err != nil {
		t.Fatalf("MarshalJSON error: %v", err)
	}
	want := `{"energy":123400,"temp1":90.67,"flow":0}`
	if string(data) != want {
		t.Errorf("JSON = %s, want %s", data, want)
	}
}
