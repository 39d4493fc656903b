// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package u3

import "fmt"

// Nominal conversion constants from the U3 datasheet. Single-ended
// low-voltage inputs span 0-2.44V, differential inputs +/-2.44V around
// Vref/2, and the HV channels +/-10.3V. The special range stretches the
// span to 3.6V (LV) or 30.4V (HV).
const (
	lvSingleEndedSlope = 0.000037231
	lvDifferentialSpan = 4.88
	lvDifferentialHalf = 2.44
	lvSpecialSpan      = 3.6

	hvSingleEndedSlope  = 0.000314
	hvSingleEndedOffset = -10.3
	hvSpecialSpan       = 30.4

	temperatureSlope = 0.013021 // kelvin per count

	fullScale = 65536.0
)

// BinaryToCalibratedVoltage converts a 16-bit reading to volts.
// Differential readings are not available on the HV channels.
func (u *U3) BinaryToCalibratedVoltage(bits float64, lowVoltage, singleEnded bool) (float64, error) {
	if lowVoltage {
		if singleEnded {
			return bits * lvSingleEndedSlope, nil
		}
		return bits/fullScale*lvDifferentialSpan - lvDifferentialHalf, nil
	}
	if !singleEnded {
		return 0, fmt.Errorf("differential readings are not supported on high-voltage channels")
	}
	return bits*hvSingleEndedSlope + hvSingleEndedOffset, nil
}

// BinaryToSpecialRangeVoltage converts a reading taken with the special
// extended range (negative channel 32).
func (u *U3) BinaryToSpecialRangeVoltage(bits float64, lowVoltage bool) float64 {
	span := lvSpecialSpan
	if !lowVoltage {
		span = hvSpecialSpan
	}
	return bits / fullScale * span
}
