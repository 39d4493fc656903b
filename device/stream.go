// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package device

import (
	"encoding/binary"
	"fmt"

	"github.com/gotmc/labjack/protocol"
)

// Stream packet layout shared by all families: a 12-byte header whose byte
// 10 is the rolling packet counter and byte 11 the per-packet error code,
// followed by the interleaved 2-byte samples and a 2-byte footer.
const (
	streamHeaderLen     = 12
	streamFooterLen     = 2
	streamPacketCounter = 10
	streamErrorByte     = 11
	// MaxPacketsPerRequest bounds how many stream packets one bulk read
	// may request.
	MaxPacketsPerRequest = 48
	// MaxSamplesPerPacket is the sample capacity of one stream packet.
	MaxSamplesPerPacket = 25
)

var (
	streamStartCommand = []byte{0xA8, 0xA8}
	streamStopCommand  = []byte{0xB0, 0xB0}
)

type streamState struct {
	configured        bool
	running           bool
	samplesPerPacket  int
	packetsPerRequest int
	sawPacket         bool
	lastCounter       byte
	partial           []byte
}

// StreamBlock is the result of one bulk stream read: some number of stream
// packets plus per-block error accounting. Raw holds the undecoded packet
// bytes so conversion can be deferred to another goroutine.
type StreamBlock struct {
	NumPackets  int
	Errors      int
	Missed      int
	FirstPacket byte
	Raw         []byte
}

// Empty reports whether the read returned no fresh data within the stream
// timeout, which is expected at slow scan rates and is not a failure.
func (b *StreamBlock) Empty() bool {
	return b.NumPackets == 0 && len(b.Raw) == 0
}

// SetStreamConfig records the scan geometry a family's stream-configure
// command established and marks the stream as configured. Reconfiguring
// before start simply replaces the previous values.
func (d *Device) SetStreamConfig(samplesPerPacket, packetsPerRequest int) {
	d.mu.Lock()
	defer d.mu.Unlock()
	d.stream.samplesPerPacket = samplesPerPacket
	d.stream.packetsPerRequest = packetsPerRequest
	d.stream.configured = true
}

// SamplesPerPacket returns the configured number of samples per stream
// packet.
func (d *Device) SamplesPerPacket() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stream.samplesPerPacket
}

// PacketsPerRequest returns how many stream packets each bulk read
// requests.
func (d *Device) PacketsPerRequest() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.stream.packetsPerRequest
}

// StreamStart sends the start-stream command. The stream must be
// configured and not already running.
func (d *Device) StreamStart() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	if !d.stream.configured {
		return fmt.Errorf("stream must be configured before it can be started")
	}
	if d.stream.running {
		return fmt.Errorf("stream already started")
	}
	resp, err := d.exchange(streamStartCommand, 4, nil, false, false)
	if err != nil {
		return err
	}
	if len(resp) > 2 && resp[2] != 0 {
		return &protocol.DeviceError{Code: protocol.ErrorCode(resp[2])}
	}
	d.stream.running = true
	d.stream.sawPacket = false
	d.stream.partial = nil
	return nil
}

// StreamStop sends the stop-stream command. Stopping a stream that is not
// running is reported as an invalid-state error, never a hang.
func (d *Device) StreamStop() error {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.streamStopLocked()
}

func (d *Device) streamStopLocked() error {
	if !d.stream.running {
		return fmt.Errorf("stream is not running")
	}
	resp, err := d.exchange(streamStopCommand, 4, nil, false, false)
	if err != nil {
		return err
	}
	if len(resp) > 2 && resp[2] != 0 {
		return &protocol.DeviceError{Code: protocol.ErrorCode(resp[2])}
	}
	d.stream.running = false
	return nil
}

// StreamPacketSize returns the wire size of one stream packet for the
// current configuration.
func (d *Device) StreamPacketSize() int {
	d.mu.Lock()
	defer d.mu.Unlock()
	return streamHeaderLen + d.stream.samplesPerPacket*2 + streamFooterLen
}

// ReadStreamBlock performs one bulk stream read and validates the packets
// it contains. The per-packet error byte is examined: the autorecover
// report code carries a dropped-sample count in header bytes 6:10 which is
// accumulated into Missed, and any other nonzero code increments Errors;
// neither stops the stream. An empty block signals a read timeout with no
// fresh data.
func (d *Device) ReadStreamBlock() (*StreamBlock, error) {
	d.mu.Lock()
	if !d.stream.running {
		d.mu.Unlock()
		return nil, fmt.Errorf("start streaming before reading")
	}
	packetSize := streamHeaderLen + d.stream.samplesPerPacket*2 + streamFooterLen
	request := packetSize * d.stream.packetsPerRequest
	partial := d.stream.partial
	d.stream.partial = nil
	d.mu.Unlock()

	buf := make([]byte, request)
	n, err := d.transport.ReadStream(buf)
	if err != nil {
		d.mu.Lock()
		d.stream.partial = partial
		d.mu.Unlock()
		return nil, fmt.Errorf("error reading stream data from %s: %w", d.Name, err)
	}
	data := append(partial, buf[:n]...)
	whole := len(data) / packetSize * packetSize
	if rem := data[whole:]; len(rem) > 0 {
		// A socket read can stop mid-packet. Hold the tail for the next
		// read so the sample interleave stays aligned.
		d.mu.Lock()
		d.stream.partial = append([]byte(nil), rem...)
		d.mu.Unlock()
	}
	if whole == 0 {
		return &StreamBlock{}, nil
	}
	result := data[:whole]

	block := &StreamBlock{
		NumPackets:  whole / packetSize,
		FirstPacket: result[streamPacketCounter],
		Raw:         result,
	}
	d.mu.Lock()
	if d.stream.sawPacket && block.FirstPacket != d.stream.lastCounter+1 && result[streamErrorByte] == 0 {
		// Counter gap without an autorecover report: count it, keep going.
		block.Errors++
		d.log.Debugf("stream packet counter jumped from %d to %d", d.stream.lastCounter, block.FirstPacket)
	}
	d.stream.sawPacket = true
	d.stream.lastCounter = result[streamPacketCounter+(block.NumPackets-1)*packetSize]
	d.mu.Unlock()

	for i := 0; i < block.NumPackets; i++ {
		e := protocol.ErrorCode(result[streamErrorByte+i*packetSize])
		if e == 0 {
			continue
		}
		block.Errors++
		if e == protocol.CodeStreamAutorecoverReport {
			block.Missed += int(binary.LittleEndian.Uint32(result[6+i*packetSize : 10+i*packetSize]))
		} else if !e.Recoverable() {
			d.log.Debugf("stream packet error: %s", e)
		}
	}
	return block, nil
}
