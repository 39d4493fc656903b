// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package u6

import (
	"fmt"

	"github.com/gotmc/labjack/protocol"
)

// Nonvolatile memory is addressed in 32-byte blocks. The flash must be
// erased before it can be rewritten, and the calibration area is guarded
// by its own command set plus a key in the erase command. Do not touch
// memory while streaming.
const memBlockSize = 32

const (
	cmdReadMem  byte = 0x2A
	cmdReadCal  byte = 0x2D
	cmdWriteMem byte = 0x28
	cmdWriteCal byte = 0x2B
	cmdEraseMem byte = 0x29
	cmdEraseCal byte = 0x2C
)

// ReadMem reads one 32-byte block of user memory.
func (u *U6) ReadMem(blockNum int) ([]byte, error) {
	return u.readBlock(blockNum, cmdReadMem)
}

// ReadCal reads one 32-byte block of calibration memory.
func (u *U6) ReadCal(blockNum int) ([]byte, error) {
	return u.readBlock(blockNum, cmdReadCal)
}

func (u *U6) readBlock(blockNum int, op byte) ([]byte, error) {
	cmd := make([]byte, 8)
	cmd[1] = 0xF8
	cmd[2] = 0x01
	cmd[3] = op
	cmd[7] = byte(blockNum)

	resp, err := u.WriteRead(cmd, 40, []byte{0xF8, 0x11, op})
	if err != nil {
		return nil, fmt.Errorf("error reading memory block %d: %w", blockNum, err)
	}
	return resp[8:], nil
}

// WriteMem writes one 32-byte block of user memory. The block must have
// been erased since it was last written.
func (u *U6) WriteMem(blockNum int, data []byte) error {
	return u.writeBlock(blockNum, data, cmdWriteMem)
}

// WriteCal writes one 32-byte block of calibration memory.
func (u *U6) WriteCal(blockNum int, data []byte) error {
	return u.writeBlock(blockNum, data, cmdWriteCal)
}

func (u *U6) writeBlock(blockNum int, data []byte, op byte) error {
	if len(data) != memBlockSize {
		return fmt.Errorf("memory block must be %d bytes, got %d", memBlockSize, len(data))
	}
	cmd := make([]byte, 40)
	cmd[1] = 0xF8
	cmd[2] = 0x11
	cmd[3] = op
	cmd[7] = byte(blockNum)
	copy(cmd[8:], data)

	if _, err := u.WriteRead(cmd, 8, []byte{0xF8, 0x01, op}); err != nil {
		return fmt.Errorf("error writing memory block %d: %w", blockNum, err)
	}
	return nil
}

// EraseMem erases the entire user memory area.
func (u *U6) EraseMem() error {
	cmd := make([]byte, 6)
	cmd[1] = 0xF8
	cmd[2] = 0x00
	cmd[3] = cmdEraseMem

	if _, err := u.WriteRead(cmd, 8, []byte{0xF8, 0x01, cmdEraseMem}); err != nil {
		return fmt.Errorf("error erasing user memory: %w", err)
	}
	return nil
}

// EraseCal erases the calibration area. The command carries a fixed key
// so a corrupted packet cannot erase it by accident.
func (u *U6) EraseCal() error {
	cmd := make([]byte, 8)
	cmd[1] = 0xF8
	cmd[2] = 0x01
	cmd[3] = cmdEraseCal
	cmd[6] = 0x4C
	cmd[7] = 0x6C

	if _, err := u.WriteRead(cmd, 8, []byte{0xF8, 0x01, cmdEraseCal}); err != nil {
		return fmt.Errorf("error erasing calibration memory: %w", err)
	}
	return nil
}

// decodeCalBlock splits one calibration block into its four fixed-point
// constants.
func decodeCalBlock(block []byte) ([4]float64, error) {
	var vals [4]float64
	if len(block) < memBlockSize {
		return vals, fmt.Errorf("calibration block must be %d bytes, got %d", memBlockSize, len(block))
	}
	for i := range vals {
		v, err := protocol.FixedPointToFloat64(block[8*i : 8*i+8])
		if err != nil {
			return vals, err
		}
		vals[i] = v
	}
	return vals, nil
}
