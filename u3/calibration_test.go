// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package u3

import (
	"math"
	"testing"
)

func TestBinaryToCalibratedVoltage(t *testing.T) {
	u := New(&fakeTransport{})
	tests := []struct {
		name        string
		bits        float64
		lowVoltage  bool
		singleEnded bool
		want        float64
	}{
		{"LV single-ended zero", 0, true, true, 0},
		{"LV single-ended full scale", 65535, true, true, 65535 * 0.000037231},
		{"LV differential center", 32768, true, false, 0},
		{"LV differential floor", 0, true, false, -2.44},
		{"HV single-ended zero", 0, false, true, -10.3},
		{"HV single-ended midscale", 32768, false, true, 32768*0.000314 - 10.3},
	}
	for _, test := range tests {
		got, err := u.BinaryToCalibratedVoltage(test.bits, test.lowVoltage, test.singleEnded)
		if err != nil {
			t.Fatalf("%s: %s", test.name, err)
		}
		if math.Abs(got-test.want) > voltageTolerance {
			t.Errorf("%s: voltage = %g, want %g", test.name, got, test.want)
		}
	}
}

func TestBinaryToCalibratedVoltageRejectsHVDifferential(t *testing.T) {
	u := New(&fakeTransport{})
	if _, err := u.BinaryToCalibratedVoltage(0, false, false); err == nil {
		t.Error("expected error for differential on a high-voltage channel")
	}
}

func TestBinaryToSpecialRangeVoltage(t *testing.T) {
	u := New(&fakeTransport{})
	if got := u.BinaryToSpecialRangeVoltage(65536, true); math.Abs(got-3.6) > voltageTolerance {
		t.Errorf("LV special range full scale = %g, want 3.6", got)
	}
	if got := u.BinaryToSpecialRangeVoltage(32768, false); math.Abs(got-15.2) > voltageTolerance {
		t.Errorf("HV special range midscale = %g, want 15.2", got)
	}
}
