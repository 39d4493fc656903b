// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package modbus

import (
	"encoding/binary"
	"fmt"
	"math"
	"sync"
	"time"
)

// Transacter sends one pre-framed request and reads one reply of exactly
// respLen bytes. device.Device satisfies it.
type Transacter interface {
	Transact(request []byte, respLen int) ([]byte, error)
}

// Client performs register reads and writes over a device's command
// channel. Transaction IDs start from a time-derived base and increment
// per request so stale replies are detected.
type Client struct {
	t    Transacter
	mu   sync.Mutex
	txID uint16
}

// NewClient wraps a transacter in a register client.
func NewClient(t Transacter) *Client {
	now := time.Now()
	seed := uint16((now.Second()*1000000 + now.Nanosecond()/1000) % maxTransactionID)
	return &Client{t: t, txID: seed}
}

func (c *Client) nextTxID() uint16 {
	c.mu.Lock()
	defer c.mu.Unlock()
	id := c.txID
	c.txID = (c.txID + 1) % maxTransactionID
	return id
}

// ReadRegister reads the value at addr, using the register map to choose
// how many words to fetch and how to decode them. Integer registers are
// returned as their exact value widened to float64.
func (c *Client) ReadRegister(addr uint16) (float64, error) {
	format := RegisterFormat(addr)
	payload, err := c.read(addr, format.Words())
	if err != nil {
		return 0, err
	}
	switch format {
	case FormatFloat32:
		return float64(math.Float32frombits(binary.BigEndian.Uint32(payload))), nil
	case FormatUint32:
		return float64(binary.BigEndian.Uint32(payload)), nil
	default:
		return float64(binary.BigEndian.Uint16(payload)), nil
	}
}

// ReadRegisters reads numReg consecutive register words starting at addr
// and returns them undecoded.
func (c *Client) ReadRegisters(addr uint16, numReg int) ([]uint16, error) {
	payload, err := c.read(addr, numReg)
	if err != nil {
		return nil, err
	}
	words := make([]uint16, numReg)
	for i := range words {
		words[i] = binary.BigEndian.Uint16(payload[2*i : 2*i+2])
	}
	return words, nil
}

func (c *Client) read(addr uint16, numReg int) ([]byte, error) {
	txID := c.nextTxID()
	request := ReadRequest(txID, FuncReadHolding, addr, numReg)
	respLen := ReadResponseLen(numReg)
	resp, err := c.t.Transact(request, respLen)
	if err != nil {
		return nil, fmt.Errorf("error reading register %d: %w", addr, err)
	}
	if len(resp) != respLen {
		return nil, fmt.Errorf("register %d: got %d response bytes, want %d", addr, len(resp), respLen)
	}
	return ParseReadResponse(resp, txID, FuncReadHolding)
}

// WriteRegister writes one register word at addr.
func (c *Client) WriteRegister(addr uint16, value uint16) error {
	txID := c.nextTxID()
	return c.write(addr, WriteSingleRequest(txID, addr, value), txID, FuncWriteSingle)
}

// WriteRegisters writes consecutive register words starting at addr.
func (c *Client) WriteRegisters(addr uint16, values []uint16) error {
	txID := c.nextTxID()
	return c.write(addr, WriteMultipleRequest(txID, addr, values), txID, FuncWriteMultiple)
}

// WriteFloat writes an IEEE float across the two registers at addr.
func (c *Client) WriteFloat(addr uint16, value float32) error {
	txID := c.nextTxID()
	return c.write(addr, WriteFloatRequest(txID, addr, value), txID, FuncWriteMultiple)
}

// WriteValue writes value to addr in the format the register map assigns
// to that address.
func (c *Client) WriteValue(addr uint16, value float64) error {
	switch RegisterFormat(addr) {
	case FormatFloat32:
		return c.WriteFloat(addr, float32(value))
	case FormatUint32:
		v := uint32(value)
		return c.WriteRegisters(addr, []uint16{uint16(v >> 16), uint16(v)})
	default:
		return c.WriteRegister(addr, uint16(value))
	}
}

// SetDIOState drives one digital line through its state register.
func (c *Client) SetDIOState(line int, high bool) error {
	var v uint16
	if high {
		v = 1
	}
	return c.WriteRegister(DIOStateBase+uint16(line), v)
}

func (c *Client) write(addr uint16, request []byte, txID uint16, function byte) error {
	resp, err := c.t.Transact(request, writeResponseLen)
	if err != nil {
		return fmt.Errorf("error writing register %d: %w", addr, err)
	}
	return CheckWriteResponse(resp, txID, function)
}
