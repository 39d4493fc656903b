// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package u6

import "fmt"

// CalibrationInfo holds the AIN, DAC, and temperature constants. Indexing
// by gain: 0 is the +/-10V range, 1 the 1V, 2 the 100mV, 3 the 10mV. The
// Pro tables apply when the hi-res ADC did the conversion.
type CalibrationInfo struct {
	// Nominal is true until actual constants are read from the device.
	Nominal bool

	AINSlope    [4]float64
	AINOffset   [4]float64
	AINNegSlope [4]float64
	AINCenter   [4]float64

	ProAINSlope    [4]float64
	ProAINOffset   [4]float64
	ProAINNegSlope [4]float64
	ProAINCenter   [4]float64

	DACSlope  [2]float64
	DACOffset [2]float64

	CurrentOutput [2]float64

	TemperatureSlope  float64
	TemperatureOffset float64
}

// NominalCalibration returns the datasheet constants used until the
// device's own values are read.
func NominalCalibration() CalibrationInfo {
	slopes := [4]float64{3.1580578e-4, 3.1580578e-5, 3.1580578e-6, 3.1580578e-7}
	offsets := [4]float64{-10.5869565220, -1.05869565220, -0.105869565220, -0.0105869565220}
	negSlopes := [4]float64{-3.15805800e-4, -3.15805800e-5, -3.15805800e-6, -3.15805800e-7}
	centers := [4]float64{33523.0, 33523.0, 33523.0, 33523.0}
	return CalibrationInfo{
		Nominal:           true,
		AINSlope:          slopes,
		AINOffset:         offsets,
		AINNegSlope:       negSlopes,
		AINCenter:         centers,
		ProAINSlope:       slopes,
		ProAINOffset:      offsets,
		ProAINNegSlope:    negSlopes,
		ProAINCenter:      centers,
		DACSlope:          [2]float64{13200.0, 13200.0},
		DACOffset:         [2]float64{0, 0},
		CurrentOutput:     [2]float64{0.0000100000, 0.0002000000},
		TemperatureSlope:  -92.379,
		TemperatureOffset: 465.129,
	}
}

// ReadCalibration replaces the nominal constants with the values stored in
// the device's calibration memory. Pro units carry four extra blocks for
// the hi-res ADC.
func (u *U6) ReadCalibration() error {
	var blocks [10][4]float64
	n := 6
	if u.IsPro {
		n = 10
	}
	for i := 0; i < n; i++ {
		block, err := u.ReadCal(i)
		if err != nil {
			return fmt.Errorf("error reading calibration block %d: %w", i, err)
		}
		vals, err := decodeCalBlock(block)
		if err != nil {
			return fmt.Errorf("error decoding calibration block %d: %w", i, err)
		}
		blocks[i] = vals
	}

	u.Cal.Nominal = false
	u.Cal.AINSlope = [4]float64{blocks[0][0], blocks[0][2], blocks[1][0], blocks[1][2]}
	u.Cal.AINOffset = [4]float64{blocks[0][1], blocks[0][3], blocks[1][1], blocks[1][3]}
	u.Cal.AINNegSlope = [4]float64{blocks[2][0], blocks[2][2], blocks[3][0], blocks[3][2]}
	u.Cal.AINCenter = [4]float64{blocks[2][1], blocks[2][3], blocks[3][1], blocks[3][3]}
	u.Cal.DACSlope = [2]float64{blocks[4][0], blocks[4][2]}
	u.Cal.DACOffset = [2]float64{blocks[4][1], blocks[4][3]}
	u.Cal.CurrentOutput = [2]float64{blocks[5][0], blocks[5][1]}
	u.Cal.TemperatureSlope = blocks[5][2]
	u.Cal.TemperatureOffset = blocks[5][3]
	if u.IsPro {
		u.Cal.ProAINSlope = [4]float64{blocks[6][0], blocks[6][2], blocks[7][0], blocks[7][2]}
		u.Cal.ProAINOffset = [4]float64{blocks[6][1], blocks[6][3], blocks[7][1], blocks[7][3]}
		u.Cal.ProAINNegSlope = [4]float64{blocks[8][0], blocks[8][2], blocks[9][0], blocks[9][2]}
		u.Cal.ProAINCenter = [4]float64{blocks[8][1], blocks[8][3], blocks[9][1], blocks[9][3]}
	}
	return nil
}

// slopesCenter selects the two-sided conversion constants for a reading:
// the Pro tables apply when the hi-res ADC handled it (resolution index 0
// or above 8 on a Pro).
func (u *U6) slopesCenter(gainIndex, resolutionIndex int) (negSlope, posSlope, center float64) {
	if u.IsPro && (resolutionIndex > 8 || resolutionIndex == 0) {
		return u.Cal.ProAINNegSlope[gainIndex], u.Cal.ProAINSlope[gainIndex], u.Cal.ProAINCenter[gainIndex]
	}
	return u.Cal.AINNegSlope[gainIndex], u.Cal.AINSlope[gainIndex], u.Cal.AINCenter[gainIndex]
}

// BinaryToCalibratedVoltage converts a raw sample to volts using the
// two-sided center/slope transfer. raw is a 24-bit sample unless is16Bits
// is set, in which case it is used as-is.
func (u *U6) BinaryToCalibratedVoltage(gainIndex int, raw float64, is16Bits bool, resolutionIndex int) float64 {
	negSlope, posSlope, center := u.slopesCenter(gainIndex, resolutionIndex)
	if !is16Bits {
		raw /= 256.0
	}
	if raw < center {
		return (center - raw) * negSlope
	}
	return (raw - center) * posSlope
}

// BinaryToTemperature converts a raw channel 14 sample to kelvin.
func (u *U6) BinaryToTemperature(raw float64, is16Bits bool) float64 {
	voltage := u.BinaryToCalibratedVoltage(0, raw, is16Bits, 1)
	return u.Cal.TemperatureSlope*voltage + u.Cal.TemperatureOffset
}

// VoltageToDACBits converts a desired output voltage to the bits for the
// DAC8 or DAC16 feedback commands.
func (u *U6) VoltageToDACBits(volts float64, dac int, is16Bits bool) uint16 {
	bits := volts*u.Cal.DACSlope[dac] + u.Cal.DACOffset[dac]
	if is16Bits {
		if bits > 0xFFFF {
			bits = 0xFFFF
		}
	} else {
		bits /= 256
		if bits > 0xFF {
			bits = 0xFF
		}
	}
	if bits < 0 {
		return 0
	}
	return uint16(bits)
}
