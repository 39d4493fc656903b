// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package protocol

import (
	"encoding/binary"
	"fmt"
)

const (
	// MinCommandLen is the smallest valid command packet.
	MinCommandLen = 6
	// MaxPacketSize is the largest single USB packet the devices accept.
	MaxPacketSize = 64
	// ExtendedCommandBits is the value of the command-type nibble that
	// marks a packet as using the extended (checksum16) layout.
	ExtendedCommandBits = 0xF
)

// Checksum8 returns the 8-bit checksum over buf[1:n]: the byte sum with the
// high byte folded back into the low byte twice.
func Checksum8(buf []byte, n int) byte {
	var total uint16
	for i := 1; i < n; i++ {
		total += uint16(buf[i])
	}
	total = (total & 0xff) + (total >> 8)
	total = (total & 0xff) + (total >> 8)
	return byte(total)
}

// Checksum16 returns the 16-bit checksum over buf[6:], the data area of an
// extended command.
func Checksum16(buf []byte) uint16 {
	var total uint32
	for i := 6; i < len(buf); i++ {
		total += uint32(buf[i])
	}
	return uint16(total)
}

// IsExtended reports whether the command byte at buf[1] marks the packet as
// using the extended layout with a 16-bit checksum at bytes 4-5.
func IsExtended(buf []byte) bool {
	return (buf[1]&0x78)>>3 == ExtendedCommandBits
}

// PlaceChecksum writes the checksum bytes of buf in place. Extended
// commands get the 16-bit data checksum at bytes 4-5 and an 8-bit header
// checksum over the first six bytes; short commands get a single 8-bit
// checksum over the whole packet.
func PlaceChecksum(buf []byte) error {
	if len(buf) < MinCommandLen {
		return fmt.Errorf("command must be at least %d bytes, got %d", MinCommandLen, len(buf))
	}
	if IsExtended(buf) {
		binary.LittleEndian.PutUint16(buf[4:6], Checksum16(buf))
		buf[0] = Checksum8(buf, 6)
		return nil
	}
	buf[0] = Checksum8(buf, len(buf))
	return nil
}

// VerifyChecksum reports whether the checksum bytes of buf match its
// contents. Bytes 4 and 5 only participate for extended packets, where they
// hold the 16-bit data checksum.
func VerifyChecksum(buf []byte) bool {
	if len(buf) < MinCommandLen {
		return false
	}
	tmp := make([]byte, len(buf))
	copy(tmp, buf)
	if err := PlaceChecksum(tmp); err != nil {
		return false
	}
	return buf[0] == tmp[0] && buf[4] == tmp[4] && buf[5] == tmp[5]
}
