// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package protocol

import (
	"encoding/binary"
	"fmt"
)

// FixedPointToFloat64 decodes the devices' 8-byte signed 32.32 fixed-point
// calibration constants: a little-endian unsigned fractional word followed
// by a little-endian signed integer word.
func FixedPointToFloat64(b []byte) (float64, error) {
	if len(b) < 8 {
		return 0, fmt.Errorf("fixed-point value needs 8 bytes, got %d", len(b))
	}
	frac := binary.LittleEndian.Uint32(b[0:4])
	whole := int32(binary.LittleEndian.Uint32(b[4:8]))
	return float64(whole) + float64(frac)/(1<<32), nil
}
