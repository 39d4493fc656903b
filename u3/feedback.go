// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package u3

import "encoding/binary"

// Feedback sub-commands for the U3. The digital and DAC commands share
// their layouts with the U6; the analog input command is U3-specific: it
// carries an explicit negative channel and returns a sign-magnitude
// 16-bit sample.

// AIN reads one analog input. Channels 0-15 are external, 30 the internal
// temperature sensor, 31 selects single-ended against ground.
type AIN struct {
	PositiveChannel byte
	NegativeChannel byte
	LongSettling    bool
	QuickSample     bool
}

func (c AIN) CommandBytes() []byte {
	b := c.PositiveChannel
	if c.LongSettling {
		b |= 1 << 6
	}
	if c.QuickSample {
		b |= 1 << 7
	}
	return []byte{0x01, b, c.NegativeChannel}
}
func (c AIN) ResponseLen() int { return 2 }

// Decode returns the sample as an int: sign-magnitude with the sign in
// the top bit, not two's complement.
func (c AIN) Decode(p []byte) interface{} {
	if p[1]&0x80 != 0 {
		return -(int(p[1]&0x7F)<<8 + int(p[0]))
	}
	return int(p[1])<<8 + int(p[0])
}

// WaitShort pauses execution in 128 microsecond increments.
type WaitShort struct {
	Time byte
}

func (c WaitShort) CommandBytes() []byte        { return []byte{5, c.Time} }
func (c WaitShort) ResponseLen() int            { return 0 }
func (c WaitShort) Decode(p []byte) interface{} { return nil }

// WaitLong pauses execution in 32768 microsecond increments.
type WaitLong struct {
	Time byte
}

func (c WaitLong) CommandBytes() []byte        { return []byte{6, c.Time} }
func (c WaitLong) ResponseLen() int            { return 0 }
func (c WaitLong) Decode(p []byte) interface{} { return nil }

// LED sets the status LED.
type LED struct {
	On bool
}

func (c LED) CommandBytes() []byte        { return []byte{9, boolByte(c.On)} }
func (c LED) ResponseLen() int            { return 0 }
func (c LED) Decode(p []byte) interface{} { return nil }

// BitStateRead reads the state of one digital line. Lines 0-7 are FIO,
// 8-15 EIO, 16-19 CIO.
type BitStateRead struct {
	IONumber byte
}

func (c BitStateRead) CommandBytes() []byte        { return []byte{10, c.IONumber % 20} }
func (c BitStateRead) ResponseLen() int            { return 1 }
func (c BitStateRead) Decode(p []byte) interface{} { return p[0] }

// BitStateWrite sets one digital line.
type BitStateWrite struct {
	IONumber byte
	High     bool
}

func (c BitStateWrite) CommandBytes() []byte {
	return []byte{11, c.IONumber%20 | boolByte(c.High)<<7}
}
func (c BitStateWrite) ResponseLen() int            { return 0 }
func (c BitStateWrite) Decode(p []byte) interface{} { return nil }

// BitDirRead reads the direction of one digital line: 1 output, 0 input.
type BitDirRead struct {
	IONumber byte
}

func (c BitDirRead) CommandBytes() []byte        { return []byte{12, c.IONumber % 20} }
func (c BitDirRead) ResponseLen() int            { return 1 }
func (c BitDirRead) Decode(p []byte) interface{} { return p[0] }

// BitDirWrite sets the direction of one digital line.
type BitDirWrite struct {
	IONumber byte
	Output   bool
}

func (c BitDirWrite) CommandBytes() []byte {
	return []byte{13, c.IONumber%20 | boolByte(c.Output)<<7}
}
func (c BitDirWrite) ResponseLen() int            { return 0 }
func (c BitDirWrite) Decode(p []byte) interface{} { return nil }

// PortState holds one byte per digital port.
type PortState struct {
	FIO byte
	EIO byte
	CIO byte
}

// PortStateRead reads the state of all digital lines at once.
type PortStateRead struct{}

func (c PortStateRead) CommandBytes() []byte { return []byte{26} }
func (c PortStateRead) ResponseLen() int     { return 3 }
func (c PortStateRead) Decode(p []byte) interface{} {
	return PortState{FIO: p[0], EIO: p[1], CIO: p[2]}
}

// PortStateWrite sets the masked digital lines. A zero WriteMask writes
// all lines.
type PortStateWrite struct {
	State     [3]byte // FIO, EIO, CIO
	WriteMask [3]byte
}

func (c PortStateWrite) CommandBytes() []byte {
	mask := c.WriteMask
	if mask == [3]byte{} {
		mask = [3]byte{0xff, 0xff, 0xff}
	}
	return []byte{27, mask[0], mask[1], mask[2], c.State[0], c.State[1], c.State[2]}
}
func (c PortStateWrite) ResponseLen() int            { return 0 }
func (c PortStateWrite) Decode(p []byte) interface{} { return nil }

// DAC8 sets one analog output in 8-bit mode.
type DAC8 struct {
	DAC   byte // 0 or 1
	Value byte
}

func (c DAC8) CommandBytes() []byte        { return []byte{34 + c.DAC%2, c.Value} }
func (c DAC8) ResponseLen() int            { return 0 }
func (c DAC8) Decode(p []byte) interface{} { return nil }

// DAC16 sets one analog output in 16-bit mode.
type DAC16 struct {
	DAC   byte // 0 or 1
	Value uint16
}

func (c DAC16) CommandBytes() []byte {
	return []byte{38 + c.DAC%2, byte(c.Value), byte(c.Value >> 8)}
}
func (c DAC16) ResponseLen() int            { return 0 }
func (c DAC16) Decode(p []byte) interface{} { return nil }

// Counter reads one hardware counter, optionally resetting it.
type Counter struct {
	Counter byte // 0 or 1
	Reset   bool
}

func (c Counter) CommandBytes() []byte {
	return []byte{54 + c.Counter%2, boolByte(c.Reset)}
}
func (c Counter) ResponseLen() int { return 4 }
func (c Counter) Decode(p []byte) interface{} {
	return binary.LittleEndian.Uint32(p)
}

func boolByte(b bool) byte {
	if b {
		return 1
	}
	return 0
}
