// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package u6

import "fmt"

const (
	maxI2CSend    = 50
	maxI2CReceive = 52
)

// I2CConfig selects the bus options and pin assignment for the I2C
// master.
type I2CConfig struct {
	EnableClockStretching bool
	NoStopWhenRestarting  bool
	ResetAtStart          bool
	SpeedAdjust           byte
	SDAPin                byte
	SCLPin                byte
}

// DefaultI2CConfig is the conventional wiring: SDA on FIO0, SCL on FIO1.
func DefaultI2CConfig() I2CConfig {
	return I2CConfig{SDAPin: 0, SCLPin: 1}
}

// I2CResult is the transfer outcome: the per-byte acknowledgement bits and
// any bytes read back.
type I2CResult struct {
	Ack []byte
	RX  []byte
}

// I2C writes tx to the 7-bit address and reads numRecv bytes back in the
// same transaction.
func (u *U6) I2C(cfg I2CConfig, address byte, tx []byte, numRecv int) (I2CResult, error) {
	n := len(tx)
	if n > maxI2CSend {
		return I2CResult{}, fmt.Errorf("at most %d bytes can be sent, got %d", maxI2CSend, n)
	}
	if numRecv > maxI2CReceive {
		return I2CResult{}, fmt.Errorf("at most %d bytes can be received, asked for %d", maxI2CReceive, numRecv)
	}
	padded := n
	if padded%2 == 1 {
		padded++
	}

	cmd := make([]byte, 14+padded)
	cmd[1] = 0xF8
	cmd[2] = byte(4 + padded/2)
	cmd[3] = 0x3B
	if cfg.EnableClockStretching {
		cmd[6] |= 1 << 3
	}
	if cfg.NoStopWhenRestarting {
		cmd[6] |= 1 << 2
	}
	if cfg.ResetAtStart {
		cmd[6] |= 1 << 1
	}
	cmd[7] = cfg.SpeedAdjust
	cmd[8] = cfg.SDAPin
	cmd[9] = cfg.SCLPin
	cmd[10] = address << 1
	cmd[12] = byte(n)
	cmd[13] = byte(numRecv)
	copy(cmd[14:], tx)

	recvPadded := numRecv
	if recvPadded%2 == 1 {
		recvPadded++
	}
	resp, err := u.WriteRead(cmd, 12+recvPadded, []byte{0xF8, byte(3 + recvPadded/2), 0x3B})
	if err != nil {
		return I2CResult{}, fmt.Errorf("error in I2C transfer: %w", err)
	}
	result := I2CResult{Ack: resp[8:12]}
	if numRecv > 0 {
		result.RX = resp[12 : 12+numRecv]
	}
	return result, nil
}
