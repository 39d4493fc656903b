// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package u6

import "encoding/binary"

// Feedback sub-commands. Each type serializes its wire bytes and decodes
// its slice of the response; see protocol.Command. Write-only commands
// decode to nil.

// AIN reads one analog input as a 16-bit sample. Kept for compatibility
// with old firmware; prefer AIN24 or AIN24AR.
type AIN struct {
	PositiveChannel byte
}

func (c AIN) CommandBytes() []byte { return []byte{0x01, c.PositiveChannel, 0} }
func (c AIN) ResponseLen() int     { return 2 }
func (c AIN) Decode(p []byte) interface{} {
	return binary.LittleEndian.Uint16(p)
}

// AIN24 reads one analog input as a 24-bit sample. Gain index 15 is
// autorange; use AIN24AR for that so the applied gain is reported back.
type AIN24 struct {
	PositiveChannel byte
	ResolutionIndex byte // 0 default, 1-8 high-speed ADC, 9-12 hi-res (Pro)
	GainIndex       byte // 0=x1, 1=x10, 2=x100, 3=x1000
	SettlingFactor  byte
	Differential    bool // negative channel is PositiveChannel+1
}

func (c AIN24) CommandBytes() []byte {
	return []byte{0x02, c.PositiveChannel, ainOptionBytes(c.ResolutionIndex, c.GainIndex), ainSettlingByte(c.SettlingFactor, c.Differential)}
}
func (c AIN24) ResponseLen() int { return 3 }
func (c AIN24) Decode(p []byte) interface{} {
	return uint32(p[2])<<16 | uint32(p[1])<<8 | uint32(p[0])
}

// AINReading is the decoded result of an AIN24AR command: the raw sample
// plus the resolution and gain the device actually applied.
type AINReading struct {
	AIN             uint32
	ResolutionIndex byte
	GainIndex       byte
	Status          byte
}

// AIN24AR reads one analog input as a 24-bit sample with autorange
// reporting.
type AIN24AR struct {
	PositiveChannel byte
	ResolutionIndex byte
	GainIndex       byte
	SettlingFactor  byte
	Differential    bool
}

func (c AIN24AR) CommandBytes() []byte {
	return []byte{0x03, c.PositiveChannel, ainOptionBytes(c.ResolutionIndex, c.GainIndex), ainSettlingByte(c.SettlingFactor, c.Differential)}
}
func (c AIN24AR) ResponseLen() int { return 5 }
func (c AIN24AR) Decode(p []byte) interface{} {
	return AINReading{
		AIN:             uint32(p[2])<<16 | uint32(p[1])<<8 | uint32(p[0]),
		ResolutionIndex: p[3] & 0xF,
		GainIndex:       (p[3] >> 4) & 0xF,
		Status:          p[4],
	}
}

func ainOptionBytes(resolutionIndex, gainIndex byte) byte {
	return (gainIndex&0xF)<<4 | resolutionIndex&0xF
}

func ainSettlingByte(settlingFactor byte, differential bool) byte {
	b := settlingFactor
	if differential {
		b |= 1 << 7
	}
	return b
}

// WaitShort pauses execution in 64 microsecond increments.
type WaitShort struct {
	Time byte
}

func (c WaitShort) CommandBytes() []byte        { return []byte{5, c.Time} }
func (c WaitShort) ResponseLen() int            { return 0 }
func (c WaitShort) Decode(p []byte) interface{} { return nil }

// WaitLong pauses execution in 16384 microsecond increments.
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

func (c LED) CommandBytes() []byte {
	return []byte{9, boolByte(c.On)}
}
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

// BitStateWrite sets one digital line, forcing its direction to output.
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
	mask := orAllIfZero(c.WriteMask)
	return []byte{27, mask[0], mask[1], mask[2], c.State[0], c.State[1], c.State[2]}
}
func (c PortStateWrite) ResponseLen() int            { return 0 }
func (c PortStateWrite) Decode(p []byte) interface{} { return nil }

// PortDirRead reads the direction of all digital lines at once.
type PortDirRead struct{}

func (c PortDirRead) CommandBytes() []byte { return []byte{28} }
func (c PortDirRead) ResponseLen() int     { return 3 }
func (c PortDirRead) Decode(p []byte) interface{} {
	return PortState{FIO: p[0], EIO: p[1], CIO: p[2]}
}

// PortDirWrite sets the masked digital directions. A zero WriteMask
// writes all lines.
type PortDirWrite struct {
	Direction [3]byte // FIO, EIO, CIO
	WriteMask [3]byte
}

func (c PortDirWrite) CommandBytes() []byte {
	mask := orAllIfZero(c.WriteMask)
	return []byte{29, mask[0], mask[1], mask[2], c.Direction[0], c.Direction[1], c.Direction[2]}
}
func (c PortDirWrite) ResponseLen() int            { return 0 }
func (c PortDirWrite) Decode(p []byte) interface{} { return nil }

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

// Timer modes whose readings decode specially.
const (
	TimerModeQuadrature = 8
	TimerModeStopInput  = 9
)

// TimerStopReading is the decoded value of a stop-input timer: the edge
// count so far and the configured stop count.
type TimerStopReading struct {
	Current  uint16
	MaxCount uint16
}

// Timer reads one timer's value, optionally updating or resetting it
// first. Mode selects the decode: quadrature timers return a signed
// count, stop-input timers a TimerStopReading, everything else an
// unsigned count.
type Timer struct {
	Timer       byte // 0-3
	UpdateReset bool
	Value       uint16 // applied only when UpdateReset is set
	Mode        byte
}

func (c Timer) CommandBytes() []byte {
	return []byte{42 + 2*(c.Timer%4), boolByte(c.UpdateReset), byte(c.Value), byte(c.Value >> 8)}
}
func (c Timer) ResponseLen() int { return 4 }
func (c Timer) Decode(p []byte) interface{} {
	switch c.Mode {
	case TimerModeQuadrature:
		return int32(binary.LittleEndian.Uint32(p))
	case TimerModeStopInput:
		return TimerStopReading{
			Current:  binary.LittleEndian.Uint16(p[2:4]),
			MaxCount: binary.LittleEndian.Uint16(p[0:2]),
		}
	default:
		return binary.LittleEndian.Uint32(p)
	}
}

// TimerConfig sets one timer's mode and value.
type TimerConfig struct {
	Timer byte // 0-3
	Mode  byte
	Value uint16
}

func (c TimerConfig) CommandBytes() []byte {
	return []byte{43 + 2*(c.Timer%4), c.Mode, byte(c.Value), byte(c.Value >> 8)}
}
func (c TimerConfig) ResponseLen() int            { return 0 }
func (c TimerConfig) Decode(p []byte) interface{} { return nil }

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

func orAllIfZero(mask [3]byte) [3]byte {
	if mask == [3]byte{} {
		return [3]byte{0xff, 0xff, 0xff}
	}
	return mask
}
