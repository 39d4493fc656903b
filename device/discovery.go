// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package device

import (
	"encoding/binary"
	"fmt"
	"net"
	"time"

	"github.com/gotmc/labjack/protocol"
)

// DiscoveryPort is the UDP port Ethernet units answer broadcast probes on.
const DiscoveryPort = 52362

const discoveryWait = 750 * time.Millisecond

// Announce describes one Ethernet unit that answered a discovery probe.
type Announce struct {
	IPAddress  net.IP
	LocalID    byte
	PowerLevel byte
	ProductID  byte
	MACAddress [6]byte
	SerialNum  uint32
}

// Discover broadcasts a probe on every local subnet and collects the
// replies that arrive before the listening window closes. Units that
// respond with a malformed or corrupt packet are skipped.
func Discover() ([]Announce, error) {
	conn, err := net.ListenUDP("udp4", &net.UDPAddr{})
	if err != nil {
		return nil, fmt.Errorf("error opening discovery socket: %s", err)
	}
	defer conn.Close()

	probe := []byte{0x22, 0x78, 0x00, 0xa9, 0x00, 0x00}
	bcast := &net.UDPAddr{IP: net.IPv4bcast, Port: DiscoveryPort}
	if _, err := conn.WriteToUDP(probe, bcast); err != nil {
		return nil, fmt.Errorf("error sending discovery broadcast: %s", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(discoveryWait)); err != nil {
		return nil, err
	}
	var found []Announce
	buf := make([]byte, 128)
	for {
		n, _, err := conn.ReadFromUDP(buf)
		if err != nil {
			if netErr, ok := err.(net.Error); ok && netErr.Timeout() {
				return found, nil
			}
			return found, fmt.Errorf("error reading discovery reply: %s", err)
		}
		a, ok := parseAnnounce(buf[:n])
		if ok {
			found = append(found, a)
		}
	}
}

// parseAnnounce decodes a 38-byte comm-config reply. The IP address sits
// reversed at bytes 10:14 and the MAC reversed at bytes 28:34; the serial
// number is derived from the low three MAC octets under a 0x10 prefix.
func parseAnnounce(p []byte) (Announce, bool) {
	var a Announce
	if len(p) < 38 || !protocol.VerifyChecksum(p) {
		return a, false
	}
	a.LocalID = p[8]
	a.PowerLevel = p[9]
	a.ProductID = p[27]
	a.IPAddress = net.IPv4(p[13], p[12], p[11], p[10])
	for i := 0; i < 6; i++ {
		a.MACAddress[i] = p[33-i]
	}
	a.SerialNum = binary.LittleEndian.Uint32(
		[]byte{a.MACAddress[5], a.MACAddress[4], a.MACAddress[3], 0x10})
	return a, true
}
