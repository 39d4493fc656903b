// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package u6

import (
	"encoding/binary"
	"fmt"
	"testing"

	"github.com/gotmc/labjack/protocol"
)

// fakeTransport scripts responses for each command exchange and records
// every write.
type fakeTransport struct {
	writes [][]byte
	reads  [][]byte
}

func (f *fakeTransport) Write(p []byte) (int, error) {
	cp := make([]byte, len(p))
	copy(cp, p)
	f.writes = append(f.writes, cp)
	return len(p), nil
}

func (f *fakeTransport) Read(p []byte) (int, error) {
	if len(f.reads) == 0 {
		return 0, fmt.Errorf("no scripted response")
	}
	r := f.reads[0]
	f.reads = f.reads[1:]
	return copy(p, r), nil
}

func (f *fakeTransport) ReadStream(p []byte) (int, error) { return 0, nil }
func (f *fakeTransport) Close() error                     { return nil }

// scriptedResponse builds a checksummed response of the given size whose
// echoed command bytes start at offset 1.
func scriptedResponse(size int, echo ...byte) []byte {
	resp := make([]byte, size)
	copy(resp[1:], echo)
	if err := protocol.PlaceChecksum(resp); err != nil {
		panic(err)
	}
	return resp
}

func TestConfigU6(t *testing.T) {
	resp := make([]byte, 38)
	resp[1] = 0xF8
	resp[2] = 0x10
	resp[3] = 0x08
	resp[9] = 26 // firmware 1.26
	resp[10] = 1
	resp[11] = 15 // bootloader 6.15
	resp[12] = 6
	resp[14] = 2 // hardware 2.00
	binary.LittleEndian.PutUint32(resp[15:19], 360005087)
	binary.LittleEndian.PutUint16(resp[19:21], 6)
	resp[21] = 3
	resp[37] = 12 // Pro
	if err := protocol.PlaceChecksum(resp); err != nil {
		t.Fatal(err)
	}

	ft := &fakeTransport{reads: [][]byte{resp}}
	u := New(ft)
	if err := u.ConfigU6(); err != nil {
		t.Fatalf("ConfigU6 returned error: %s", err)
	}
	if u.FirmwareVersion != "1.26" {
		t.Errorf("firmware = %q, want 1.26", u.FirmwareVersion)
	}
	if u.BootloaderVersion != "6.15" {
		t.Errorf("bootloader = %q, want 6.15", u.BootloaderVersion)
	}
	if u.SerialNumber != 360005087 {
		t.Errorf("serial = %d, want 360005087", u.SerialNumber)
	}
	if u.ProductID != 6 {
		t.Errorf("product ID = %d, want 6", u.ProductID)
	}
	if u.LocalID != 3 {
		t.Errorf("local ID = %d, want 3", u.LocalID)
	}
	if !u.IsPro || u.Name != "U6-Pro" {
		t.Errorf("version info 12 should mark a U6-Pro, got %q", u.Name)
	}
}

func TestGetFeedback(t *testing.T) {
	// LED (no response bytes) then a 16-bit AIN sample.
	resp := make([]byte, 12)
	resp[1] = 0xF8
	resp[2] = 3
	binary.LittleEndian.PutUint16(resp[9:11], 0x1234)
	if err := protocol.PlaceChecksum(resp); err != nil {
		t.Fatal(err)
	}

	ft := &fakeTransport{reads: [][]byte{resp}}
	u := New(ft)
	results, err := u.GetFeedback(LED{On: true}, AIN{PositiveChannel: 0})
	if err != nil {
		t.Fatalf("GetFeedback returned error: %s", err)
	}
	if results[0] != nil {
		t.Errorf("LED result = %v, want nil", results[0])
	}
	if got := results[1].(uint16); got != 0x1234 {
		t.Errorf("AIN sample = 0x%04x, want 0x1234", got)
	}
	// The outgoing packet must be even length with a valid checksum.
	sent := ft.writes[0]
	if len(sent)%2 != 0 {
		t.Errorf("feedback packet has odd length %d", len(sent))
	}
	if !protocol.VerifyChecksum(sent) {
		t.Errorf("feedback packet sent without valid checksum: [% x]", sent)
	}
	if sent[1] != 0xF8 {
		t.Errorf("feedback opcode = 0x%02x, want 0xF8", sent[1])
	}
}

func TestGetFeedbackNamesFailingCommand(t *testing.T) {
	// Status byte 2 (wrong number of data bytes), frame 2 blames the
	// second command.
	resp := make([]byte, 12)
	resp[1] = 0xF8
	resp[2] = 3
	resp[6] = 2
	resp[7] = 2
	if err := protocol.PlaceChecksum(resp); err != nil {
		t.Fatal(err)
	}

	ft := &fakeTransport{reads: [][]byte{resp}}
	u := New(ft)
	_, err := u.GetFeedback(LED{On: true}, AIN{PositiveChannel: 3})
	if err == nil {
		t.Fatal("expected an error")
	}
	want := "feedback command 1"
	if got := err.Error(); len(got) < len(want) || got[:len(want)] != want {
		t.Errorf("error %q should identify the failing command index", got)
	}
}

func TestReadMemLayout(t *testing.T) {
	block := make([]byte, 32)
	for i := range block {
		block[i] = byte(i)
	}
	resp := make([]byte, 40)
	resp[1] = 0xF8
	resp[2] = 0x11
	resp[3] = 0x2D
	copy(resp[8:], block)
	if err := protocol.PlaceChecksum(resp); err != nil {
		t.Fatal(err)
	}

	ft := &fakeTransport{reads: [][]byte{resp}}
	u := New(ft)
	got, err := u.ReadCal(2)
	if err != nil {
		t.Fatalf("ReadCal returned error: %s", err)
	}
	if len(got) != 32 || got[5] != 5 {
		t.Errorf("block contents wrong: [% x]", got)
	}
	sent := ft.writes[0]
	if sent[3] != 0x2D {
		t.Errorf("extended command = 0x%02x, want 0x2D", sent[3])
	}
	if sent[7] != 2 {
		t.Errorf("block number = %d, want 2", sent[7])
	}
}

func TestEraseCalCarriesKey(t *testing.T) {
	resp := scriptedResponse(8, 0xF8, 0x01, 0x2C)
	ft := &fakeTransport{reads: [][]byte{resp}}
	u := New(ft)
	if err := u.EraseCal(); err != nil {
		t.Fatalf("EraseCal returned error: %s", err)
	}
	sent := ft.writes[0]
	if sent[6] != 0x4C || sent[7] != 0x6C {
		t.Errorf("erase key bytes = 0x%02x 0x%02x, want 0x4C 0x6C", sent[6], sent[7])
	}
}

func TestWriteMemRejectsShortBlock(t *testing.T) {
	u := New(&fakeTransport{})
	if err := u.WriteMem(0, []byte{1, 2, 3}); err == nil {
		t.Fatal("expected error for a non-32-byte block")
	}
}
