// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package u6

import (
	"bytes"
	"encoding/binary"
	"testing"
)

func TestConfigRoundTrip(t *testing.T) {
	var c Config
	c.Name = "bench-u6"
	c.LocalID = 2
	c.DAC0 = 2.5
	c.IO.NumberTimersEnabled = 2
	c.IO.Counter0Enabled = true
	c.Stream = &StreamFileConfig{
		Channels:      []byte{0, 1},
		Options:       []byte{0, 0x10},
		ScanFrequency: 1000,
	}

	var buf bytes.Buffer
	if err := c.Save(&buf); err != nil {
		t.Fatalf("Save returned error: %s", err)
	}
	got, err := LoadConfig(&buf)
	if err != nil {
		t.Fatalf("LoadConfig returned error: %s", err)
	}
	if got.Name != "bench-u6" || got.LocalID != 2 || got.DAC0 != 2.5 {
		t.Errorf("identity fields = %q %d %g", got.Name, got.LocalID, got.DAC0)
	}
	if got.IO.NumberTimersEnabled != 2 || !got.IO.Counter0Enabled || got.IO.Counter1Enabled {
		t.Errorf("IO fields did not round trip: %+v", got.IO)
	}
	if got.Stream == nil || !bytes.Equal(got.Stream.Channels, []byte{0, 1}) || got.Stream.ScanFrequency != 1000 {
		t.Errorf("stream section did not round trip: %+v", got.Stream)
	}
}

func TestLoadConfigRejectsBadYAML(t *testing.T) {
	if _, err := LoadConfig(bytes.NewReader([]byte("{not yaml"))); err == nil {
		t.Error("expected error for malformed YAML")
	}
}

func TestConfigApply(t *testing.T) {
	// Apply issues a ConfigIO write then one feedback packet for the DACs.
	ioResp := scriptedResponse(16, 0xF8, 0x05, 0x0B)
	dacResp := scriptedResponse(10, 0xF8, 0x02)

	ft := &fakeTransport{reads: [][]byte{ioResp, dacResp}}
	u := New(ft)

	var c Config
	c.DAC0 = 2.5
	c.IO.NumberTimersEnabled = 1
	if err := c.Apply(u); err != nil {
		t.Fatalf("Apply returned error: %s", err)
	}
	if len(ft.writes) != 2 {
		t.Fatalf("Apply issued %d commands, want 2", len(ft.writes))
	}

	ioCmd := ft.writes[0]
	if ioCmd[3] != 0x0B {
		t.Errorf("first command = 0x%02x, want ConfigIO (0x0B)", ioCmd[3])
	}
	if ioCmd[6]&1 != 1 {
		t.Errorf("ConfigIO writemask = 0x%02x, want the write bit set", ioCmd[6])
	}
	if ioCmd[7] != 1 {
		t.Errorf("timers enabled = %d, want 1", ioCmd[7])
	}

	dacCmd := ft.writes[1]
	if dacCmd[1] != 0xF8 {
		t.Fatalf("second command = 0x%02x, want a feedback packet", dacCmd[1])
	}
	// DAC16 for DAC0 carries 2.5 V at the nominal 13200 counts per volt.
	if dacCmd[7] != 38 {
		t.Errorf("first sub-command = %d, want DAC0 16-bit (38)", dacCmd[7])
	}
	if got := binary.LittleEndian.Uint16(dacCmd[8:10]); got != 33000 {
		t.Errorf("DAC0 bits = %d, want 33000", got)
	}
	if dacCmd[10] != 39 {
		t.Errorf("second sub-command = %d, want DAC1 16-bit (39)", dacCmd[10])
	}
}
