// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package device

import (
	"fmt"
	"sync"

	"github.com/gotmc/labjack/protocol"
	"github.com/sirupsen/logrus"
)

// Transporter is the byte-oriented duplex connection to a device: a USB
// bulk endpoint pair or a socket. Read blocks up to the transport's
// command timeout; ReadStream blocks up to the shorter stream timeout and
// returns zero bytes, not an error, when no fresh data arrived in time.
type Transporter interface {
	Write(p []byte) (int, error)
	Read(p []byte) (int, error)
	ReadStream(p []byte) (int, error)
	Close() error
}

// Device owns one transport and serializes every command/response exchange
// on it. A single mutex guards the write-request/read-exactly-one-response
// pair so concurrent callers cannot interleave command bytes.
type Device struct {
	Name         string
	SerialNumber uint32
	LocalID      byte

	transport Transporter
	log       *logrus.Entry
	mu        sync.Mutex

	stream streamState
}

// New wraps a transport in a Device. The name identifies the device family
// (and, for the U3, the HV/LV variant) in errors and logs.
func New(t Transporter, name string) *Device {
	return &Device{
		Name:      name,
		transport: t,
		log:       logrus.WithField("device", name),
	}
}

// SetLogger replaces the device's log entry. Packet hex dumps are emitted
// at debug level.
func (d *Device) SetLogger(log *logrus.Entry) {
	d.log = log
}

// Close stops a running stream and closes the transport. Stopping before
// close matters: a device left in stream mode keeps its buffers running
// until power cycle.
func (d *Device) Close() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.stream.running {
		if err := d.streamStopLocked(); err != nil {
			d.log.WithError(err).Warn("could not stop stream while closing")
		}
	}
	return d.transport.Close()
}

// WriteRead places the checksum bytes in cmd, sends it, reads a response of
// exactly respLen bytes, and verifies it: checksum, echoed command bytes,
// and the status byte at offset 6. echo is the slice of command identifiers
// the response must repeat starting at byte 1; pass nil to skip the echo
// check.
func (d *Device) WriteRead(cmd []byte, respLen int, echo []byte) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.exchange(cmd, respLen, echo, true, true)
}

// WriteReadRaw sends cmd without checksumming and reads respLen bytes
// without response verification. Used by the fixed two-byte stream control
// commands, whose replies do not follow the standard layout.
func (d *Device) WriteReadRaw(cmd []byte, respLen int) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.exchange(cmd, respLen, nil, false, false)
}

// Transact sends a pre-framed request (no LabJack checksum) and reads a
// respLen-byte reply, resending the request once if the first read fails.
// The single retry reflects the device's known occasional dropped first
// response; it is never repeated.
func (d *Device) Transact(request []byte, respLen int) ([]byte, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if err := d.send(request, false); err != nil {
		return nil, err
	}
	resp, err := d.receive(respLen)
	if err == nil {
		return resp, nil
	}
	d.log.WithError(err).Debug("transact read failed, resending once")
	if err := d.send(request, false); err != nil {
		return nil, err
	}
	return d.receive(respLen)
}

// exchange performs one locked write+read. Callers must hold d.mu.
func (d *Device) exchange(cmd []byte, respLen int, echo []byte, checksum, check bool) ([]byte, error) {
	if err := d.send(cmd, checksum); err != nil {
		return nil, err
	}
	resp, err := d.receive(respLen)
	if err != nil {
		return nil, err
	}
	if check {
		if err := d.checkResponse(resp, echo); err != nil {
			return resp, err
		}
	}
	return resp, nil
}

func (d *Device) send(cmd []byte, checksum bool) error {
	if checksum {
		if err := protocol.PlaceChecksum(cmd); err != nil {
			return err
		}
	}
	n, err := d.transport.Write(cmd)
	if err != nil {
		return fmt.Errorf("error writing %d-byte command to %s: %w", len(cmd), d.Name, err)
	}
	if n != len(cmd) {
		return fmt.Errorf("short write to %s: wrote %d of %d bytes", d.Name, n, len(cmd))
	}
	d.log.Debugf("sent: [% x]", cmd)
	return nil
}

func (d *Device) receive(respLen int) ([]byte, error) {
	buf := make([]byte, respLen)
	n, err := d.transport.Read(buf)
	if err != nil {
		return nil, fmt.Errorf("error reading %d-byte response from %s: %w", respLen, d.Name, err)
	}
	d.log.Debugf("response: [% x]", buf[:n])
	return buf[:n], nil
}

// checkResponse validates the standard response layout: nonzero length, no
// bad-checksum report, correct echoed command bytes, valid checksum, and a
// zero status byte. A framing failure aborts before any payload decoding.
func (d *Device) checkResponse(resp, echo []byte) error {
	if len(resp) == 0 {
		return fmt.Errorf("got a zero length packet from %s", d.Name)
	}
	if len(resp) >= 2 && resp[0] == byte(protocol.CodeBadChecksum) && resp[1] == byte(protocol.CodeBadChecksum) {
		return &protocol.ChecksumError{FromDevice: true}
	}
	if len(echo) > 0 {
		if len(resp) < len(echo)+1 {
			return &protocol.EchoError{Expected: echo, Got: resp[1:]}
		}
		for i, b := range echo {
			if resp[1+i] != b {
				return &protocol.EchoError{Expected: echo, Got: resp[1 : len(echo)+1]}
			}
		}
	}
	if !protocol.VerifyChecksum(resp) {
		return &protocol.ChecksumError{}
	}
	if len(resp) > 6 && resp[6] != 0 {
		devErr := &protocol.DeviceError{Code: protocol.ErrorCode(resp[6])}
		// Byte 7 names the offending frame only in feedback responses
		// (extended command number 0x00); elsewhere it is payload.
		if len(resp) > 7 && resp[3] == 0x00 {
			devErr.Frame = int(resp[7])
		}
		return devErr
	}
	return nil
}
