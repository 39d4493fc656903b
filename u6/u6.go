// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package u6 drives the U6 and U6-Pro multifunction DAQ units: feedback
// commands, streaming, calibration, nonvolatile memory, and the SPI/I2C
// pass-through masters.
package u6

import (
	"encoding/binary"
	"errors"
	"fmt"

	"github.com/gotmc/labjack/device"
	"github.com/gotmc/labjack/protocol"
	"github.com/gotmc/libusb"
)

// versionInfo value that marks a U6-Pro.
const proVersionInfo = 12

// U6 is one open U6 device. Embedding device.Device supplies the command
// exchange and the stream engine; everything here is U6 packet layouts.
type U6 struct {
	*device.Device
	Cal               CalibrationInfo
	IsPro             bool
	FirmwareVersion   string
	BootloaderVersion string
	HardwareVersion   string
	ProductID         uint16
	VersionInfo       byte

	streamChannels []byte
	streamOptions  []byte
	streamSamples  int
	streamCursor   int
}

// New wraps an open transport in a U6 with nominal calibration constants.
func New(t device.Transporter) *U6 {
	return &U6{
		Device: device.New(t, "U6"),
		Cal:    NominalCalibration(),
	}
}

// Open opens the first attached U6, reads its hardware configuration, and
// loads its calibration constants.
func Open(ctx *libusb.Context) (*U6, error) {
	t, err := device.OpenUSB(ctx, device.ProductIDU6)
	if err != nil {
		return nil, err
	}
	return setup(t)
}

// OpenViaSN opens the U6 with the given serial number.
func OpenViaSN(ctx *libusb.Context, sn string) (*U6, error) {
	t, err := device.OpenUSBViaSN(ctx, device.ProductIDU6, sn)
	if err != nil {
		return nil, err
	}
	return setup(t)
}

func setup(t device.Transporter) (*U6, error) {
	u := New(t)
	if err := u.ConfigU6(); err != nil {
		u.Close()
		return nil, err
	}
	if err := u.ReadCalibration(); err != nil {
		u.Close()
		return nil, err
	}
	return u, nil
}

// ConfigU6 reads the hardware configuration: firmware, bootloader and
// hardware versions, serial number, product ID, local ID, and whether the
// unit is a U6-Pro.
func (u *U6) ConfigU6() error {
	cmd := make([]byte, 26)
	cmd[1] = 0xF8
	cmd[2] = 0x0A
	cmd[3] = 0x08

	resp, err := u.WriteRead(cmd, 38, []byte{0xF8, 0x10, 0x08})
	if err != nil {
		return fmt.Errorf("error reading U6 configuration: %w", err)
	}

	u.FirmwareVersion = fmt.Sprintf("%d.%02d", resp[10], resp[9])
	u.BootloaderVersion = fmt.Sprintf("%d.%02d", resp[12], resp[11])
	u.HardwareVersion = fmt.Sprintf("%d.%02d", resp[14], resp[13])
	u.SerialNumber = binary.LittleEndian.Uint32(resp[15:19])
	u.ProductID = binary.LittleEndian.Uint16(resp[19:21])
	u.LocalID = resp[21]
	u.VersionInfo = resp[37]
	u.Name = "U6"
	u.IsPro = false
	if u.VersionInfo == proVersionInfo {
		u.Name = "U6-Pro"
		u.IsPro = true
	}
	return nil
}

// IOConfig is the timer/counter/UART pin configuration.
type IOConfig struct {
	NumberTimersEnabled   byte
	Counter0Enabled       bool
	Counter1Enabled       bool
	TimerCounterPinOffset byte
	UARTEnabled           bool
}

// ConfigIO reads the current IO configuration without changing it.
func (u *U6) ConfigIO() (IOConfig, error) {
	return u.configIO(nil)
}

// SetConfigIO writes the IO configuration and returns what the device
// reports back.
func (u *U6) SetConfigIO(cfg IOConfig) (IOConfig, error) {
	return u.configIO(&cfg)
}

func (u *U6) configIO(cfg *IOConfig) (IOConfig, error) {
	cmd := make([]byte, 16)
	cmd[1] = 0xF8
	cmd[2] = 0x05
	cmd[3] = 0x0B
	if cfg != nil {
		cmd[6] = 1
		cmd[7] = cfg.NumberTimersEnabled
		if cfg.Counter0Enabled {
			cmd[8] |= 1
		}
		if cfg.Counter1Enabled {
			cmd[8] |= 1 << 1
		}
		cmd[9] = cfg.TimerCounterPinOffset
		if cfg.UARTEnabled {
			cmd[6] |= 1 << 5
		}
	}

	resp, err := u.WriteRead(cmd, 16, []byte{0xF8, 0x05, 0x0B})
	if err != nil {
		return IOConfig{}, fmt.Errorf("error configuring U6 IO: %w", err)
	}
	return IOConfig{
		NumberTimersEnabled:   resp[8],
		Counter0Enabled:       resp[9]&1 == 1,
		Counter1Enabled:       (resp[9]>>1)&1 == 1,
		TimerCounterPinOffset: resp[10],
	}, nil
}

// TimerClock is the shared timer clock configuration. A reported divisor
// of zero means 256.
type TimerClock struct {
	Base    byte
	Divisor int
}

// ConfigTimerClock reads the timer clock configuration; pass a non-nil
// clock to write it first.
func (u *U6) ConfigTimerClock(set *TimerClock) (TimerClock, error) {
	cmd := make([]byte, 10)
	cmd[1] = 0xF8
	cmd[2] = 0x02
	cmd[3] = 0x0A
	if set != nil {
		cmd[8] = 1<<7 | set.Base&7
		cmd[9] = byte(set.Divisor)
	}

	resp, err := u.WriteRead(cmd, 10, []byte{0xF8, 0x02, 0x0A})
	if err != nil {
		return TimerClock{}, fmt.Errorf("error configuring timer clock: %w", err)
	}
	divisor := int(resp[9])
	if divisor == 0 {
		divisor = 256
	}
	return TimerClock{Base: resp[8] & 7, Divisor: divisor}, nil
}

// GetFeedback sends the feedback commands in one packet and returns one
// decoded result per command, in order. When the device rejects a
// sub-command, the returned error names which one.
func (u *U6) GetFeedback(cmds ...protocol.Command) ([]interface{}, error) {
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
func (u *U6) SoftReset() error {
	return u.reset(0x01)
}

// HardReset reboots the device; the USB connection drops.
func (u *U6) HardReset() error {
	return u.reset(0x02)
}

func (u *U6) reset(kind byte) error {
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

// SetLED turns the status LED on or off.
func (u *U6) SetLED(on bool) error {
	_, err := u.GetFeedback(LED{On: on})
	return err
}

// SetDOState drives a digital line, forcing its direction to output.
// Lines 0-7 are FIO, 8-15 EIO, 16-19 CIO.
func (u *U6) SetDOState(ioNum int, high bool) error {
	_, err := u.GetFeedback(
		BitDirWrite{IONumber: byte(ioNum), Output: true},
		BitStateWrite{IONumber: byte(ioNum), High: high},
	)
	return err
}

// GetDIState reads a digital line, forcing its direction to input.
func (u *U6) GetDIState(ioNum int) (bool, error) {
	results, err := u.GetFeedback(
		BitDirWrite{IONumber: byte(ioNum), Output: false},
		BitStateRead{IONumber: byte(ioNum)},
	)
	if err != nil {
		return false, err
	}
	return results[1].(byte) != 0, nil
}

// GetDIOState reads a digital line without changing its direction.
func (u *U6) GetDIOState(ioNum int) (bool, error) {
	results, err := u.GetFeedback(BitStateRead{IONumber: byte(ioNum)})
	if err != nil {
		return false, err
	}
	return results[0].(byte) != 0, nil
}

// GetAIN reads one analog input and applies the calibration constants.
func (u *U6) GetAIN(positiveChannel int, resolutionIndex, gainIndex, settlingFactor byte, differential bool) (float64, error) {
	results, err := u.GetFeedback(AIN24AR{
		PositiveChannel: byte(positiveChannel),
		ResolutionIndex: resolutionIndex,
		GainIndex:       gainIndex,
		SettlingFactor:  settlingFactor,
		Differential:    differential,
	})
	if err != nil {
		return 0, err
	}
	r := results[0].(AINReading)
	return u.BinaryToCalibratedVoltage(int(r.GainIndex), float64(r.AIN), false, int(resolutionIndex)), nil
}

// GetTemperature reads the internal temperature sensor in kelvin.
func (u *U6) GetTemperature() (float64, error) {
	results, err := u.GetFeedback(AIN24AR{PositiveChannel: 14})
	if err != nil {
		return 0, err
	}
	r := results[0].(AINReading)
	return u.BinaryToTemperature(float64(r.AIN), false), nil
}
