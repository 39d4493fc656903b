// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package u6

import (
	"bytes"
	"testing"

	"github.com/gotmc/labjack/protocol"
)

func TestSPITransfer(t *testing.T) {
	// Three bytes out pads to four, so the response is 12 bytes.
	resp := make([]byte, 12)
	resp[1] = 0xF8
	resp[2] = 3
	resp[3] = 0x3A
	copy(resp[8:], []byte{0x11, 0x22, 0x33, 0x00})
	if err := protocol.PlaceChecksum(resp); err != nil {
		t.Fatal(err)
	}

	ft := &fakeTransport{reads: [][]byte{resp}}
	u := New(ft)
	rx, err := u.SPI(DefaultSPIConfig(), []byte{0x01, 0x02, 0x03})
	if err != nil {
		t.Fatalf("SPI returned error: %s", err)
	}
	if !bytes.Equal(rx, []byte{0x11, 0x22, 0x33}) {
		t.Errorf("rx = [% x], want [11 22 33]", rx)
	}

	sent := ft.writes[0]
	if len(sent) != 17 {
		t.Fatalf("command length = %d, want 17", len(sent))
	}
	if sent[3] != 0x3A {
		t.Errorf("extended command = 0x%02x, want 0x3A", sent[3])
	}
	if sent[6] != 1<<7 {
		t.Errorf("options byte = 0x%02x, want the auto-CS bit", sent[6])
	}
	if sent[9] != 0 || sent[10] != 1 || sent[11] != 2 || sent[12] != 3 {
		t.Errorf("pin bytes = [% x], want the default FIO0-3 wiring", sent[9:13])
	}
	if sent[13] != 3 {
		t.Errorf("transfer count = %d, want 3", sent[13])
	}
	if !bytes.Equal(sent[14:17], []byte{0x01, 0x02, 0x03}) {
		t.Errorf("tx bytes = [% x]", sent[14:17])
	}
}

func TestSPIRejectsBadInput(t *testing.T) {
	u := New(&fakeTransport{})
	if _, err := u.SPI(DefaultSPIConfig(), nil); err == nil {
		t.Error("expected error for an empty transfer")
	}
	if _, err := u.SPI(DefaultSPIConfig(), make([]byte, 51)); err == nil {
		t.Error("expected error for an oversized transfer")
	}
	if _, err := u.SPI(SPIConfig{Mode: 4}, []byte{0}); err == nil {
		t.Error("expected error for an invalid mode")
	}
}

func TestI2CTransfer(t *testing.T) {
	// Three receive bytes pad to four, so the response is 16 bytes.
	resp := make([]byte, 16)
	resp[1] = 0xF8
	resp[2] = 5
	resp[3] = 0x3B
	copy(resp[8:12], []byte{0x03, 0, 0, 0})
	copy(resp[12:], []byte{0xDE, 0xAD, 0xBE, 0x00})
	if err := protocol.PlaceChecksum(resp); err != nil {
		t.Fatal(err)
	}

	ft := &fakeTransport{reads: [][]byte{resp}}
	u := New(ft)
	result, err := u.I2C(I2CConfig{ResetAtStart: true, SDAPin: 6, SCLPin: 7}, 0x50, []byte{0xAA}, 3)
	if err != nil {
		t.Fatalf("I2C returned error: %s", err)
	}
	if !bytes.Equal(result.RX, []byte{0xDE, 0xAD, 0xBE}) {
		t.Errorf("rx = [% x], want [de ad be]", result.RX)
	}
	if len(result.Ack) != 4 || result.Ack[0] != 0x03 {
		t.Errorf("ack bits = [% x]", result.Ack)
	}

	sent := ft.writes[0]
	if sent[3] != 0x3B {
		t.Errorf("extended command = 0x%02x, want 0x3B", sent[3])
	}
	if sent[6] != 1<<1 {
		t.Errorf("options byte = 0x%02x, want the reset bit", sent[6])
	}
	if sent[8] != 6 || sent[9] != 7 {
		t.Errorf("pins = SDA %d SCL %d, want 6 and 7", sent[8], sent[9])
	}
	if sent[10] != 0x50<<1 {
		t.Errorf("address byte = 0x%02x, want 0x%02x", sent[10], 0x50<<1)
	}
	if sent[12] != 1 || sent[13] != 3 {
		t.Errorf("counts = send %d receive %d, want 1 and 3", sent[12], sent[13])
	}
	if sent[14] != 0xAA {
		t.Errorf("tx byte = 0x%02x, want 0xAA", sent[14])
	}
}

func TestI2CRejectsOversizedTransfers(t *testing.T) {
	u := New(&fakeTransport{})
	if _, err := u.I2C(DefaultI2CConfig(), 0x50, make([]byte, 51), 0); err == nil {
		t.Error("expected error for an oversized send")
	}
	if _, err := u.I2C(DefaultI2CConfig(), 0x50, nil, 53); err == nil {
		t.Error("expected error for an oversized receive")
	}
}
