// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package u3 drives the U3 family. The protocol framing is shared with
// the U6, but the analog front end differs: FIO/EIO lines are switchable
// between analog and digital, readings are 16-bit, and the HV variant
// carries four dedicated high-voltage channels.
package u3

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gotmc/labjack/device"
	"github.com/gotmc/labjack/protocol"
	"github.com/gotmc/libusb"
)

// versionInfo values that select the hardware variant name.
const (
	versionInfoU3B = 1
	versionInfoLV  = 2
	versionInfoHV  = 18
)

// U3 is one open U3 device.
type U3 struct {
	*device.Device
	HighVoltage       bool
	FirmwareVersion   string
	BootloaderVersion string
	HardwareVersion   string
	ProductID         uint16
	VersionInfo       byte
	FIOAnalog         byte
	EIOAnalog         byte

	streamChannels    []byte
	streamNegChannels []byte
	streamSamples     int
	streamCursor      int
}

// New wraps an open transport in a U3.
func New(t device.Transporter) *U3 {
	return &U3{Device: device.New(t, "U3")}
}

// Open opens the first attached U3 and reads its hardware configuration.
func Open(ctx *libusb.Context) (*U3, error) {
	t, err := device.OpenUSB(ctx, device.ProductIDU3)
	if err != nil {
		return nil, err
	}
	return setup(t)
}

// OpenViaSN opens the U3 with the given serial number.
func OpenViaSN(ctx *libusb.Context, sn string) (*U3, error) {
	t, err := device.OpenUSBViaSN(ctx, device.ProductIDU3, sn)
	if err != nil {
		return nil, err
	}
	return setup(t)
}

func setup(t device.Transporter) (*U3, error) {
	u := New(t)
	if err := u.ConfigU3(); err != nil {
		u.Close()
		return nil, err
	}
	return u, nil
}

// ConfigU3 reads the hardware configuration: versions, serial number,
// analog line assignment, and which U3 variant this is.
func (u *U3) ConfigU3() error {
	cmd := make([]byte, 26)
	cmd[1] = 0xF8
	cmd[2] = 0x0A
	cmd[3] = 0x08

	resp, err := u.WriteRead(cmd, 38, []byte{0xF8, 0x10, 0x08})
	if err != nil {
		return fmt.Errorf("error reading U3 configuration: %w", err)
	}

	u.FirmwareVersion = fmt.Sprintf("%d.%02d", resp[10], resp[9])
	u.BootloaderVersion = fmt.Sprintf("%d.%02d", resp[12], resp[11])
	u.HardwareVersion = fmt.Sprintf("%d.%02d", resp[14], resp[13])
	u.SerialNumber = binary.LittleEndian.Uint32(resp[15:19])
	u.ProductID = binary.LittleEndian.Uint16(resp[19:21])
	u.LocalID = resp[21]
	u.FIOAnalog = resp[23]
	u.EIOAnalog = resp[26]
	u.VersionInfo = resp[37]
	u.Name = "U3"
	u.HighVoltage = false
	switch u.VersionInfo {
	case versionInfoU3B:
		u.Name = "U3B"
	case versionInfoLV:
		u.Name = "U3-LV"
	case versionInfoHV:
		u.Name = "U3-HV"
		u.HighVoltage = true
	}
	return nil
}

// IOConfig is the timer/counter, UART, and analog line configuration.
// FIOAnalog and EIOAnalog are bitmasks: a set bit makes that line analog.
type IOConfig struct {
	TimerCounterPinOffset byte
	Counter0Enabled       bool
	Counter1Enabled       bool
	NumberTimersEnabled   byte
	FIOAnalog             byte
	EIOAnalog             byte
	UARTEnabled           bool
}

// ConfigIO reads the current IO configuration without changing it.
func (u *U3) ConfigIO() (IOConfig, error) {
	return u.configIO(nil)
}

// SetConfigIO writes the IO configuration and returns what the device
// reports back.
func (u *U3) SetConfigIO(cfg IOConfig) (IOConfig, error) {
	return u.configIO(&cfg)
}

func (u *U3) configIO(cfg *IOConfig) (IOConfig, error) {
	cmd := make([]byte, 12)
	cmd[1] = 0xF8
	cmd[2] = 0x03
	cmd[3] = 0x0B
	if cfg != nil {
		cmd[6] = 1 | 1<<2 | 1<<3
		cmd[8] = cfg.TimerCounterPinOffset&15<<4 | cfg.NumberTimersEnabled&3
		if cfg.Counter0Enabled {
			cmd[8] |= 1 << 2
		}
		if cfg.Counter1Enabled {
			cmd[8] |= 1 << 3
		}
		if cfg.UARTEnabled {
			cmd[6] |= 1 << 5
			cmd[9] = 1 << 2
		}
		cmd[10] = cfg.FIOAnalog
		cmd[11] = cfg.EIOAnalog
	}

	resp, err := u.WriteRead(cmd, 12, []byte{0xF8, 0x03, 0x0B})
	if err != nil {
		return IOConfig{}, fmt.Errorf("error configuring U3 IO: %w", err)
	}
	u.FIOAnalog = resp[10]
	u.EIOAnalog = resp[11]
	return IOConfig{
		TimerCounterPinOffset: resp[8] >> 4 & 15,
		Counter0Enabled:       resp[8]>>2&1 == 1,
		Counter1Enabled:       resp[8]>>3&1 == 1,
		NumberTimersEnabled:   resp[8] & 3,
		FIOAnalog:             resp[10],
		EIOAnalog:             resp[11],
	}, nil
}

// TimerClock is the shared timer clock configuration.
type TimerClock struct {
	Base    byte
	Divisor byte
}

// ConfigTimerClock reads the timer clock configuration; pass a non-nil
// clock to write it first. The base and divisor can only be set together.
func (u *U3) ConfigTimerClock(set *TimerClock) (TimerClock, error) {
	cmd := make([]byte, 10)
	cmd[1] = 0xF8
	cmd[2] = 0x02
	cmd[3] = 0x0A
	if set != nil {
		cmd[8] = 1<<7 | set.Base&7
		cmd[9] = set.Divisor
	}

	resp, err := u.WriteRead(cmd, 10, []byte{0xF8, 0x02, 0x0A})
	if err != nil {
		return TimerClock{}, fmt.Errorf("error configuring timer clock: %w", err)
	}
	return TimerClock{Base: resp[8] & 7, Divisor: resp[9]}, nil
}

// GetFeedback sends the feedback commands in one packet and returns one
// decoded result per command, in order.
func (u *U3) GetFeedback(cmds ...protocol.Command) ([]interface{}, error) {
	packet, respLen, err := protocol.BuildFeedback(cmds)
	if err != nil {
		return nil, err
	}
	resp, err := u.WriteRead(packet, respLen, []byte{0xF8})
	if err != nil {
		var devErr *protocol.DeviceError
		if errors.As(err, &devErr) && devErr.Frame > 0 {
			flat := protocol.Flatten(cmds)
			if devErr.Frame <= len(flat) {
				return nil, fmt.Errorf("feedback command %d (%T): %w", devErr.Frame-1, flat[devErr.Frame-1], err)
			}
		}
		return nil, err
	}
	if resp[3] != 0 {
		return nil, fmt.Errorf("feedback response has incorrect command byte 0x%02x", resp[3])
	}
	return protocol.DecodeFeedback(resp, cmds)
}

// SoftReset restarts the firmware without cycling power.
func (u *U3) SoftReset() error {
	return u.reset(0x01)
}

// HardReset reboots the device; the USB connection drops.
func (u *U3) HardReset() error {
	return u.reset(0x02)
}

func (u *U3) reset(kind byte) error {
	// The reset command is shorter than the normal minimum packet and
	// carries only the 8-bit checksum.
	cmd := []byte{0x00, 0x99, kind, 0x00}
	cmd[0] = protocol.Checksum8(cmd, len(cmd))
	resp, err := u.WriteReadRaw(cmd, 4)
	if err != nil {
		return err
	}
	if len(resp) > 3 && resp[3] != 0 {
		return &protocol.DeviceError{Code: protocol.ErrorCode(resp[3])}
	}
	return nil
}

// SetFIOState drives one FIO line high or low.
func (u *U3) SetFIOState(fioNum int, high bool) error {
	_, err := u.GetFeedback(BitStateWrite{IONumber: byte(fioNum), High: high})
	return err
}

// GetFIOState reads one FIO line.
func (u *U3) GetFIOState(fioNum int) (bool, error) {
	results, err := u.GetFeedback(BitStateRead{IONumber: byte(fioNum)})
	if err != nil {
		return false, err
	}
	return results[0].(byte) != 0, nil
}

// GetAIN reads one analog input and converts it to volts. Negative
// channel 31 selects a single-ended reading, 30 the internal Vref.
func (u *U3) GetAIN(positiveChannel, negativeChannel int) (float64, error) {
	results, err := u.GetFeedback(AIN{
		PositiveChannel: byte(positiveChannel),
		NegativeChannel: byte(negativeChannel),
	})
	if err != nil {
		return 0, err
	}
	raw := results[0].(int)
	singleEnded := negativeChannel == 31
	lowVoltage := !(u.HighVoltage && positiveChannel < 4)
	return u.BinaryToCalibratedVoltage(float64(raw), lowVoltage, singleEnded)
}

// GetTemperature reads the internal temperature sensor in kelvin.
// Channel 30 against 31 returns the sensor in a fixed 0-3.6V range.
func (u *U3) GetTemperature() (float64, error) {
	results, err := u.GetFeedback(AIN{PositiveChannel: 30, NegativeChannel: 31, LongSettling: true})
	if err != nil {
		return 0, err
	}
	raw := results[0].(int)
	return float64(raw) * temperatureSlope, nil
}
