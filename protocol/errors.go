// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package protocol

import "fmt"

// ErrorCode is a device-reported low-level error code. A zero status byte
// means success; any other value maps into the fixed vendor table below.
type ErrorCode byte

// Stream-related codes referenced by the streaming engine.
const (
	CodeStreamIsActive          ErrorCode = 48
	CodeStreamNotRunning        ErrorCode = 52
	CodeStreamAutorecoverActive ErrorCode = 59
	CodeStreamAutorecoverReport ErrorCode = 60
	CodeBadChecksum             ErrorCode = 0xB8
)

type errorInfo struct {
	name   string
	advice string
}

var errorTable = map[ErrorCode]errorInfo{
	1:   {"SCRATCH_WRT_FAIL", ""},
	2:   {"SCRATCH_ERASE_FAIL", ""},
	3:   {"DATA_BUFFER_OVERFLOW", ""},
	4:   {"ADC0_BUFFER_OVERFLOW", ""},
	5:   {"FUNCTION_INVALID", ""},
	6:   {"SWDT_TIME_INVALID", "This error is caused when an invalid time was passed to the watchdog."},
	7:   {"XBR_CONFIG_ERROR", ""},
	16:  {"FLASH_WRITE_FAIL", "For some reason, the LabJack was unable to write the specified page of its internal flash."},
	17:  {"FLASH_ERASE_FAIL", "For some reason, the LabJack was unable to erase the specified page of its internal flash."},
	18:  {"FLASH_JMP_FAIL", "For some reason, the LabJack was unable to jump to a different section of flash. This may be an indication the flash is corrupted."},
	19:  {"FLASH_PSP_TIMEOUT", ""},
	20:  {"FLASH_ABORT_RECEIVED", ""},
	21:  {"FLASH_PAGE_MISMATCH", ""},
	22:  {"FLASH_BLOCK_MISMATCH", ""},
	23:  {"FLASH_PAGE_NOT_IN_CODE_AREA", "Usually, this error is raised when you try to write new firmware before upgrading the bootloader."},
	24:  {"MEM_ILLEGAL_ADDRESS", ""},
	25:  {"FLASH_LOCKED", "Tried to write to flash before unlocking it."},
	26:  {"INVALID_BLOCK", ""},
	27:  {"FLASH_ILLEGAL_PAGE", ""},
	28:  {"FLASH_TOO_MANY_BYTES", ""},
	29:  {"FLASH_INVALID_STRING_NUM", ""},
	40:  {"SHT1x_COMM_TIME_OUT", "LabJack never received the ACK it was expecting from the SHT. This is usually due to incorrect wiring. Double check that all wires are securely connected to the correct pins."},
	41:  {"SHT1x_NO_ACK", ""},
	42:  {"SHT1x_CRC_FAILED", ""},
	43:  {"SHT1x_TOO_MANY_W_BYTES", ""},
	44:  {"SHT1x_TOO_MANY_R_BYTES", ""},
	45:  {"SHT1x_INVALID_MODE", ""},
	46:  {"SHT1x_INVALID_LINE", ""},
	48:  {"STREAM_IS_ACTIVE", "This error is raised when you call StreamStart after the stream has already been started."},
	49:  {"STREAM_TABLE_INVALID", ""},
	50:  {"STREAM_CONFIG_INVALID", ""},
	52:  {"STREAM_NOT_RUNNING", "This error is raised when you call StopStream after the stream has already been stopped."},
	53:  {"STREAM_INVALID_TRIGGER", ""},
	54:  {"STREAM_ADC0_BUFFER_OVERFLOW", ""},
	55:  {"STREAM_SCAN_OVERLAP", "This error is raised when a scan interrupt is fired before the LabJack has completed the previous scan. The most common cause of this error is a configuration with a high sampling rate and a large number of channels."},
	56:  {"STREAM_SAMPLE_NUM_INVALID", ""},
	57:  {"STREAM_BIPOLAR_GAIN_INVALID", ""},
	58:  {"STREAM_SCAN_RATE_INVALID", ""},
	59:  {"STREAM_AUTORECOVER_ACTIVE", "This error is to inform you that the autorecover feature has been activated. Autorecovery is usually triggered by not reading data fast enough from the LabJack."},
	60:  {"STREAM_AUTORECOVER_REPORT", "This error marks the packet as an autorecovery report packet which contains how many packets were lost."},
	63:  {"STREAM_AUTORECOVER_OVERFLOW", ""},
	64:  {"TIMER_INVALID_MODE", ""},
	65:  {"TIMER_QUADRATURE_AB_ERROR", ""},
	66:  {"TIMER_QUAD_PULSE_SEQUENCE", ""},
	67:  {"TIMER_BAD_CLOCK_SOURCE", ""},
	68:  {"TIMER_STREAM_ACTIVE", ""},
	69:  {"TIMER_PWMSTOP_MODULE_ERROR", ""},
	70:  {"TIMER_SEQUENCE_ERROR", ""},
	71:  {"TIMER_LINE_SEQUENCE_ERROR", ""},
	72:  {"TIMER_SHARING_ERROR", ""},
	80:  {"EXT_OSC_NOT_STABLE", ""},
	81:  {"INVALID_POWER_SETTING", ""},
	82:  {"PLL_NOT_LOCKED", ""},
	96:  {"INVALID_PIN", ""},
	97:  {"PIN_CONFIGURED_FOR_ANALOG", "This error is raised when you try to do a digital operation on a pin that's configured for analog. Use a command like ConfigIO to set the pin to digital."},
	98:  {"PIN_CONFIGURED_FOR_DIGITAL", "This error is raised when you try to do an analog operation on a pin which is configured for digital. Use a command like ConfigIO to set the pin to analog."},
	99:  {"IOTYPE_SYNCH_ERROR", ""},
	100: {"INVALID_OFFSET", ""},
	101: {"IOTYPE_NOT_VALID", ""},
	102: {"TC_PIN_OFFSET_MUST_BE_4-8", "This error is raised when you try to configure the Timer/Counter pin offset to be 0-3."},
	112: {"UART_TIMEOUT", ""},
	113: {"UART_NOT_CONNECTED", ""},
	114: {"UART_NOT_ENABLED", ""},
	115: {"UART_RXOVERFLOW", ""},
	116: {"I2C_BUS_BUSY", ""},
}

// Name returns the vendor's symbolic name for the code.
func (c ErrorCode) Name() string {
	if info, ok := errorTable[c]; ok {
		return info.name
	}
	return "UNKNOWN_ERROR"
}

// Advice returns the vendor's remediation text for the code, which may be
// empty.
func (c ErrorCode) Advice() string {
	return errorTable[c].advice
}

// Recoverable reports whether the code is informational rather than fatal.
// The autorecover codes announce that the device dropped samples and kept
// streaming; they must not abort a stream.
func (c ErrorCode) Recoverable() bool {
	return c == CodeStreamAutorecoverActive || c == CodeStreamAutorecoverReport
}

// String implements Stringer for ErrorCode.
func (c ErrorCode) String() string {
	if advice := c.Advice(); advice != "" {
		return fmt.Sprintf("%s (%d): %s", c.Name(), byte(c), advice)
	}
	return fmt.Sprintf("%s (%d)", c.Name(), byte(c))
}

// DeviceError is a nonzero status byte reported by the device. Frame is the
// one-based position of the feedback sub-command that triggered the error,
// or zero when the failing command is unknown.
type DeviceError struct {
	Code  ErrorCode
	Frame int
}

func (e *DeviceError) Error() string {
	if e.Frame > 0 {
		return fmt.Sprintf("device returned an error for feedback command %d: %s", e.Frame, e.Code)
	}
	return fmt.Sprintf("device returned an error: %s", e.Code)
}

// ChecksumError indicates a response whose checksum bytes do not match its
// contents, or a device report that the outgoing checksum was bad. The
// packet must not be interpreted further.
type ChecksumError struct {
	// FromDevice is true when the device rejected our command checksum
	// (0xB8 0xB8 response) rather than the response failing verification.
	FromDevice bool
}

func (e *ChecksumError) Error() string {
	if e.FromDevice {
		return "device detected a bad checksum in the command"
	}
	return "response checksum was incorrect"
}

// EchoError indicates a response that does not echo the expected command
// identification bytes.
type EchoError struct {
	Expected []byte
	Got      []byte
}

func (e *EchoError) Error() string {
	return fmt.Sprintf("got incorrect command bytes: expected [% x], got [% x]", e.Expected, e.Got)
}
