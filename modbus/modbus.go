// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package modbus frames the register read/write protocol the devices speak
// on their Modbus port. Registers are 16-bit big-endian words; multi-word
// values (floats, 32-bit counters) occupy consecutive addresses.
package modbus

import (
	"encoding/binary"
	"fmt"
	"math"
)

// Function codes.
const (
	FuncReadHolding   byte = 0x03
	FuncReadInput     byte = 0x04
	FuncWriteSingle   byte = 0x06
	FuncWriteMultiple byte = 0x10
	exceptionFlag     byte = 0x80
	defaultUnitID     byte = 0x00
	broadcastUnitID   byte = 0xff
	headerLength           = 9
	bytesPerRegister       = 2
	maxTransactionID       = 64760
)

// Format describes how a register range's payload decodes.
type Format int

const (
	// FormatUint16 is a single-word unsigned integer.
	FormatUint16 Format = iota
	// FormatUint32 is a two-word unsigned integer.
	FormatUint32
	// FormatFloat32 is a two-word IEEE float.
	FormatFloat32
)

// Words returns the number of 16-bit registers one value of the format
// occupies.
func (f Format) Words() int {
	if f == FormatUint16 {
		return 1
	}
	return 2
}

// Well-known addresses.
const (
	SerialNumberAddress uint16 = 65001
	DeviceTypeAddress   uint16 = 65000
	DIOStateBase        uint16 = 6000
)

// RegisterFormat maps a register address to its payload format. Address
// ranges follow the vendor's register map: analog inputs and DAC values
// are floats, timers/counters and identity registers are 32-bit integers,
// and everything else is a single word.
func RegisterFormat(addr uint16) Format {
	switch {
	case addr < 1000:
		return FormatFloat32 // analog inputs
	case addr >= 5000 && addr < 6000:
		return FormatFloat32 // DAC values
	case addr >= 7000 && addr < 8000:
		return FormatUint32 // timers and counters
	case addr >= 64008 && addr < 64018, addr == SerialNumberAddress:
		return FormatUint32 // comm config and serial number
	case addr >= 10000 && addr < 10010:
		return FormatFloat32
	case addr >= 12000 && addr < 13000:
		return FormatFloat32
	default:
		return FormatUint16
	}
}

// NumRegisters returns how many 16-bit registers a read of addr covers.
func NumRegisters(addr uint16) int {
	return RegisterFormat(addr).Words()
}

// ExceptionError is a Modbus exception response: the request's function
// code echoed with its high bit set and a one-byte exception code.
type ExceptionError struct {
	Function byte
	Code     byte
}

func (e *ExceptionError) Error() string {
	return fmt.Sprintf("modbus exception %d for function 0x%02x", e.Code, e.Function)
}

// header writes the 7-byte MBAP header: transaction ID, protocol ID zero,
// remaining length, unit ID.
func header(buf []byte, txID uint16, length uint16, unitID byte) {
	binary.BigEndian.PutUint16(buf[0:2], txID)
	binary.BigEndian.PutUint16(buf[2:4], 0)
	binary.BigEndian.PutUint16(buf[4:6], length)
	buf[6] = unitID
}

// ReadRequest builds a read request for numReg registers starting at addr.
// function is FuncReadHolding or FuncReadInput.
func ReadRequest(txID uint16, function byte, addr uint16, numReg int) []byte {
	pkt := make([]byte, 12)
	header(pkt, txID, 6, defaultUnitID)
	pkt[7] = function
	binary.BigEndian.PutUint16(pkt[8:10], addr)
	binary.BigEndian.PutUint16(pkt[10:12], uint16(numReg))
	return pkt
}

// ReadResponseLen returns the exact response size for a read of numReg
// registers.
func ReadResponseLen(numReg int) int {
	return headerLength + bytesPerRegister*numReg
}

// ParseReadResponse validates a read response against the request's
// transaction ID and function code and returns the payload bytes.
func ParseReadResponse(resp []byte, txID uint16, function byte) ([]byte, error) {
	if len(resp) < headerLength {
		return nil, fmt.Errorf("modbus response too short: %d bytes", len(resp))
	}
	if got := binary.BigEndian.Uint16(resp[0:2]); got != txID {
		return nil, fmt.Errorf("unexpected transaction ID %d, want %d", got, txID)
	}
	if proto := binary.BigEndian.Uint16(resp[2:4]); proto != 0 {
		return nil, fmt.Errorf("unexpected protocol ID %d; a comm firmware upgrade may be required", proto)
	}
	if resp[7] == function|exceptionFlag {
		return nil, &ExceptionError{Function: function, Code: resp[8]}
	}
	if resp[7] != function {
		return nil, fmt.Errorf("response function 0x%02x does not match request 0x%02x", resp[7], function)
	}
	payloadLen := int(resp[8])
	if payloadLen+headerLength != len(resp) {
		return nil, fmt.Errorf("modbus payload length %d does not match packet size %d", payloadLen, len(resp))
	}
	return resp[headerLength:], nil
}

// WriteSingleRequest builds a write of one register word.
func WriteSingleRequest(txID uint16, addr uint16, value uint16) []byte {
	pkt := make([]byte, 12)
	header(pkt, txID, 6, defaultUnitID)
	pkt[7] = FuncWriteSingle
	binary.BigEndian.PutUint16(pkt[8:10], addr)
	binary.BigEndian.PutUint16(pkt[10:12], value)
	return pkt
}

// WriteMultipleRequest builds a write of consecutive register words
// starting at addr.
func WriteMultipleRequest(txID uint16, addr uint16, values []uint16) []byte {
	n := len(values)
	pkt := make([]byte, 13+bytesPerRegister*n)
	header(pkt, txID, uint16(7+bytesPerRegister*n), broadcastUnitID)
	pkt[7] = FuncWriteMultiple
	binary.BigEndian.PutUint16(pkt[8:10], addr)
	binary.BigEndian.PutUint16(pkt[10:12], uint16(n))
	pkt[12] = byte(bytesPerRegister * n)
	for i, v := range values {
		binary.BigEndian.PutUint16(pkt[13+2*i:15+2*i], v)
	}
	return pkt
}

// WriteFloatRequest builds a two-register write of an IEEE float.
func WriteFloatRequest(txID uint16, addr uint16, value float32) []byte {
	pkt := make([]byte, 17)
	header(pkt, txID, 11, broadcastUnitID)
	pkt[7] = FuncWriteMultiple
	binary.BigEndian.PutUint16(pkt[8:10], addr)
	binary.BigEndian.PutUint16(pkt[10:12], 2)
	pkt[12] = 4
	binary.BigEndian.PutUint32(pkt[13:17], math.Float32bits(value))
	return pkt
}

// writeResponseLen is fixed for all write acknowledgements.
const writeResponseLen = 12

// CheckWriteResponse validates a write acknowledgement: transaction ID,
// protocol ID, and the echoed function code.
func CheckWriteResponse(resp []byte, txID uint16, function byte) error {
	if len(resp) < headerLength {
		return fmt.Errorf("modbus response too short: %d bytes", len(resp))
	}
	if got := binary.BigEndian.Uint16(resp[0:2]); got != txID {
		return fmt.Errorf("unexpected transaction ID %d, want %d", got, txID)
	}
	if proto := binary.BigEndian.Uint16(resp[2:4]); proto != 0 {
		return fmt.Errorf("unexpected protocol ID %d; a comm firmware upgrade may be required", proto)
	}
	if resp[7] == function|exceptionFlag {
		return &ExceptionError{Function: function, Code: resp[8]}
	}
	if resp[7] != function {
		return fmt.Errorf("write not acknowledged: function 0x%02x, want 0x%02x; the register may not allow writes", resp[7], function)
	}
	return nil
}
