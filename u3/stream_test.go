// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package u3

import (
	"encoding/binary"
	"math"
	"testing"

	"github.com/gotmc/labjack/device"
	"github.com/gotmc/labjack/protocol"
)

const voltageTolerance = 1e-9

func TestConfigureStreamLayout(t *testing.T) {
	resp := make([]byte, 8)
	resp[1] = 0xF8
	resp[2] = 0x01
	resp[3] = 0x11
	if err := protocol.PlaceChecksum(resp); err != nil {
		t.Fatal(err)
	}
	ft := &fakeTransport{reads: [][]byte{resp}}
	u := New(ft)

	err := u.ConfigureStream(StreamConfig{
		PositiveChannels: []byte{0, 1},
		NegativeChannels: []byte{31, 31},
		Resolution:       3,
		ScanFrequency:    500,
	})
	if err != nil {
		t.Fatalf("ConfigureStream returned error: %s", err)
	}

	sent := ft.writes[0]
	if len(sent) != 16 {
		t.Fatalf("command length = %d, want 16", len(sent))
	}
	if sent[3] != 0x11 {
		t.Errorf("extended command = 0x%02x, want 0x11", sent[3])
	}
	if sent[6] != 2 {
		t.Errorf("channel count = %d, want 2", sent[6])
	}
	if sent[7] != 25 {
		t.Errorf("samples per packet = %d, want the default 25", sent[7])
	}
	// 500 Hz divides the 4 MHz clock by 256 (15625 Hz base).
	if sent[9] != 1<<2|3 {
		t.Errorf("clock byte = 0x%02x, want the divide bit plus resolution 3", sent[9])
	}
	if got := binary.LittleEndian.Uint16(sent[10:12]); got != 31 {
		t.Errorf("scan interval = %d, want 31 for 500 Hz", got)
	}
	if sent[12] != 0 || sent[13] != 31 || sent[14] != 1 || sent[15] != 31 {
		t.Errorf("channel table = [% x]", sent[12:16])
	}
}

func TestConfigureStreamValidation(t *testing.T) {
	u := New(&fakeTransport{})
	if err := u.ConfigureStream(StreamConfig{}); err == nil {
		t.Error("expected error for an empty channel table")
	}
	err := u.ConfigureStream(StreamConfig{
		PositiveChannels: []byte{0, 1},
		NegativeChannels: []byte{31},
	})
	if err == nil {
		t.Error("expected error for mismatched channel lists")
	}
}

func TestDeriveClock(t *testing.T) {
	tests := []struct {
		frequency    float64
		divide256    bool
		scanInterval int
		samples      int // 0 means untouched
	}{
		{50000, false, 80, 0},
		{1000, false, 4000, 0},
		{500, true, 31, 0},
		{10, true, 1562, 10},
	}
	for _, test := range tests {
		cfg := StreamConfig{ScanFrequency: test.frequency, SamplesPerPacket: 25}
		deriveClock(&cfg)
		if cfg.DivideClockBy256 != test.divide256 || cfg.ScanInterval != test.scanInterval {
			t.Errorf("%g Hz: divide256 = %t interval = %d, want %t %d",
				test.frequency, cfg.DivideClockBy256, cfg.ScanInterval, test.divide256, test.scanInterval)
		}
		wantSamples := 25
		if test.samples != 0 {
			wantSamples = test.samples
		}
		if cfg.SamplesPerPacket != wantSamples {
			t.Errorf("%g Hz: samples per packet = %d, want %d", test.frequency, cfg.SamplesPerPacket, wantSamples)
		}
	}
}

// streamBlock builds a raw stream block from one packet of 16-bit words.
func streamBlock(packetSize int, samples []uint16) *device.StreamBlock {
	p := make([]byte, packetSize)
	for i, s := range samples {
		binary.LittleEndian.PutUint16(p[12+2*i:], s)
	}
	return &device.StreamBlock{NumPackets: 1, Raw: p}
}

func streamingU3(t *testing.T, highVoltage bool, pos, neg []byte, samplesPerPacket int) *U3 {
	t.Helper()
	resp := make([]byte, 8)
	resp[1] = 0xF8
	resp[2] = 0x01
	resp[3] = 0x11
	if err := protocol.PlaceChecksum(resp); err != nil {
		t.Fatal(err)
	}
	u := New(&fakeTransport{reads: [][]byte{resp}})
	u.HighVoltage = highVoltage
	err := u.ConfigureStream(StreamConfig{
		PositiveChannels: pos,
		NegativeChannels: neg,
		SamplesPerPacket: samplesPerPacket,
		ScanInterval:     4000,
	})
	if err != nil {
		t.Fatalf("ConfigureStream returned error: %s", err)
	}
	return u
}

func TestProcessStreamData(t *testing.T) {
	// One single-ended and one differential entry, one scan per packet.
	u := streamingU3(t, false, []byte{0, 1}, []byte{31, 32}, 1)
	if got := u.StreamPacketSize(); got != 18 {
		t.Fatalf("stream packet size = %d, want 18", got)
	}

	out, err := u.ProcessStreamData(streamBlock(18, []uint16{32768, 0x8000}))
	if err != nil {
		t.Fatalf("ProcessStreamData returned error: %s", err)
	}
	wantSE := 32768 * 0.000037231
	if got := out["AIN0"]; len(got) != 1 || math.Abs(got[0]-wantSE) > voltageTolerance {
		t.Errorf("AIN0 = %v, want [%g]", got, wantSE)
	}
	// Differential 0x8000 decodes as -32768 counts around the center.
	wantDiff := -32768.0/65536*4.88 - 2.44
	if got := out["AIN1"]; len(got) != 1 || math.Abs(got[0]-wantDiff) > voltageTolerance {
		t.Errorf("AIN1 = %v, want [%g]", got, wantDiff)
	}
}

func TestProcessStreamDataHighVoltage(t *testing.T) {
	u := streamingU3(t, true, []byte{0}, []byte{31}, 1)
	out, err := u.ProcessStreamData(streamBlock(u.StreamPacketSize(), []uint16{0}))
	if err != nil {
		t.Fatalf("ProcessStreamData returned error: %s", err)
	}
	if got := out["AIN0"]; len(got) != 1 || math.Abs(got[0] - -10.3) > voltageTolerance {
		t.Errorf("AIN0 = %v, want [-10.3]", got)
	}
}

func TestProcessStreamDataRejectsHVDifferential(t *testing.T) {
	u := streamingU3(t, true, []byte{0}, []byte{1}, 1)
	if _, err := u.ProcessStreamData(streamBlock(u.StreamPacketSize(), []uint16{0})); err == nil {
		t.Error("expected error for a differential reading on an HV channel")
	}
}

func TestProcessStreamDataMultipleScans(t *testing.T) {
	// Two scans of two channels per packet: each channel gets two samples
	// and the scans stay in order.
	u := streamingU3(t, false, []byte{0, 1}, []byte{31, 31}, 2)
	if got := u.StreamPacketSize(); got != 22 {
		t.Fatalf("stream packet size = %d, want 22", got)
	}

	out, err := u.ProcessStreamData(streamBlock(22, []uint16{100, 200, 300, 400}))
	if err != nil {
		t.Fatalf("ProcessStreamData returned error: %s", err)
	}
	slope := 0.000037231
	want0 := []float64{100 * slope, 300 * slope}
	want1 := []float64{200 * slope, 400 * slope}
	got0 := out["AIN0"]
	got1 := out["AIN1"]
	if len(got0) != 2 || math.Abs(got0[0]-want0[0]) > voltageTolerance || math.Abs(got0[1]-want0[1]) > voltageTolerance {
		t.Errorf("AIN0 = %v, want %v", got0, want0)
	}
	if len(got1) != 2 || math.Abs(got1[0]-want1[0]) > voltageTolerance || math.Abs(got1[1]-want1[1]) > voltageTolerance {
		t.Errorf("AIN1 = %v, want %v", got1, want1)
	}
}
