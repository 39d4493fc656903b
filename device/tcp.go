// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package device

import (
	"errors"
	"fmt"
	"net"
	"time"
)

// Ethernet units listen on fixed TCP ports: one socket for commands, a
// separate one for stream data, and a third speaking Modbus.
const (
	CommandPort = 52360
	StreamPort  = 52361
	ModbusPort  = 502
)

const (
	tcpDialTimeout   = 3 * time.Second
	tcpReadTimeout   = 3 * time.Second
	tcpStreamTimeout = 3 * time.Second
)

// TCP is a Transporter over an Ethernet unit's command and stream sockets.
// The stream socket is dialed lazily on first stream read so that purely
// command-mode sessions only hold one connection.
type TCP struct {
	Host          string
	Timeout       time.Duration
	StreamTimeout time.Duration
	command       net.Conn
	stream        net.Conn
}

// OpenTCP dials the command socket of the unit at host.
func OpenTCP(host string) (*TCP, error) {
	conn, err := net.DialTimeout("tcp",
		fmt.Sprintf("%s:%d", host, CommandPort), tcpDialTimeout)
	if err != nil {
		return nil, fmt.Errorf("error connecting to %s: %s", host, err)
	}
	return &TCP{
		Host:          host,
		Timeout:       tcpReadTimeout,
		StreamTimeout: tcpStreamTimeout,
		command:       conn,
	}, nil
}

// Write sends p over the command socket.
func (t *TCP) Write(p []byte) (int, error) {
	if err := t.command.SetWriteDeadline(time.Now().Add(t.Timeout)); err != nil {
		return 0, err
	}
	return t.command.Write(p)
}

// Read fills p from the command socket.
func (t *TCP) Read(p []byte) (int, error) {
	if err := t.command.SetReadDeadline(time.Now().Add(t.Timeout)); err != nil {
		return 0, err
	}
	return t.command.Read(p)
}

// ReadStream fills p from the stream socket, dialing it if needed. A read
// deadline expiring with nothing received reports zero bytes and no error.
func (t *TCP) ReadStream(p []byte) (int, error) {
	if t.stream == nil {
		conn, err := net.DialTimeout("tcp",
			fmt.Sprintf("%s:%d", t.Host, StreamPort), tcpDialTimeout)
		if err != nil {
			return 0, fmt.Errorf("error connecting to stream port on %s: %s", t.Host, err)
		}
		t.stream = conn
	}
	if err := t.stream.SetReadDeadline(time.Now().Add(t.StreamTimeout)); err != nil {
		return 0, err
	}
	n, err := t.stream.Read(p)
	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() && n == 0 {
		return 0, nil
	}
	return n, err
}

// Close closes both sockets.
func (t *TCP) Close() error {
	var first error
	if t.stream != nil {
		if err := t.stream.Close(); err != nil {
			first = err
		}
		t.stream = nil
	}
	if err := t.command.Close(); err != nil && first == nil {
		first = err
	}
	return first
}
