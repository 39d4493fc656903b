// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package u6

import "fmt"

const maxSPIBytes = 50

// SPIConfig selects the mode, clock, and pin assignment for the SPI
// master. The zero value of Mode is mode A (CPOL=0, CPHA=0); modes B-D
// follow in order.
type SPIConfig struct {
	Mode             byte // 0-3 for modes A-D
	AutoCS           bool
	DisableDirConfig bool
	ClockFactor      byte
	CSPin            byte
	CLKPin           byte
	MISOPin          byte
	MOSIPin          byte
}

// DefaultSPIConfig is the conventional wiring: automatic chip select on
// FIO0, clock on FIO1, MISO on FIO2, MOSI on FIO3.
func DefaultSPIConfig() SPIConfig {
	return SPIConfig{AutoCS: true, CSPin: 0, CLKPin: 1, MISOPin: 2, MOSIPin: 3}
}

// SPI shifts tx out the SPI master and returns the bytes clocked in, one
// per byte sent. At most 50 bytes per transfer.
func (u *U6) SPI(cfg SPIConfig, tx []byte) ([]byte, error) {
	n := len(tx)
	if n == 0 {
		return nil, fmt.Errorf("nothing to transfer")
	}
	if n > maxSPIBytes {
		return nil, fmt.Errorf("at most %d bytes can be transferred, got %d", maxSPIBytes, n)
	}
	if cfg.Mode > 3 {
		return nil, fmt.Errorf("invalid SPI mode %d; modes are 0 (A) through 3 (D)", cfg.Mode)
	}
	padded := n
	if padded%2 == 1 {
		padded++
	}

	cmd := make([]byte, 13+padded)
	cmd[1] = 0xF8
	cmd[2] = byte(4 + padded/2)
	cmd[3] = 0x3A
	cmd[6] = cfg.Mode
	if cfg.AutoCS {
		cmd[6] |= 1 << 7
	}
	if cfg.DisableDirConfig {
		cmd[6] |= 1 << 6
	}
	cmd[7] = cfg.ClockFactor
	cmd[9] = cfg.CSPin
	cmd[10] = cfg.CLKPin
	cmd[11] = cfg.MISOPin
	cmd[12] = cfg.MOSIPin
	cmd[13] = byte(n)
	copy(cmd[14:], tx)

	resp, err := u.WriteRead(cmd, 8+padded, []byte{0xF8, byte(1 + padded/2), 0x3A})
	if err != nil {
		return nil, fmt.Errorf("error in SPI transfer: %w", err)
	}
	return resp[8 : 8+n], nil
}
