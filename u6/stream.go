// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package u6

import (
	"encoding/binary"
	"fmt"

	"github.com/gotmc/labjack/device"
)

// StreamConfig describes a scan of one or more channels. Either set
// ScanFrequency and let the clock fields be derived, or set the clock
// fields directly: a 4 or 48 MHz internal clock, optionally divided by
// 256, ticking a scan every ScanInterval counts.
type StreamConfig struct {
	ChannelNumbers   []byte
	ChannelOptions   []byte // bit 7 differential, bits 4-5 gain index
	ResolutionIndex  byte
	SamplesPerPacket int
	SettlingFactor   byte
	Clock48MHz       bool
	DivideClockBy256 bool
	ScanInterval     int
	ScanFrequency    float64 // when > 0, overrides the clock fields
}

const streamConfigCommand byte = 0x11

// ConfigureStream writes the stream configuration and records the scan
// geometry for ReadStream de-interleaving. Samples per packet is clamped
// to 1-25 and the scan interval to 1-65535.
func (u *U6) ConfigureStream(cfg StreamConfig) error {
	numChannels := len(cfg.ChannelNumbers)
	if numChannels == 0 {
		return fmt.Errorf("at least one stream channel is required")
	}
	if numChannels != len(cfg.ChannelOptions) {
		return fmt.Errorf("got %d channel numbers but %d channel options", numChannels, len(cfg.ChannelOptions))
	}

	if cfg.SamplesPerPacket == 0 {
		cfg.SamplesPerPacket = device.MaxSamplesPerPacket
	}
	if cfg.ScanInterval == 0 {
		cfg.ScanInterval = 1
	}
	if cfg.ScanFrequency > 0 {
		deriveClock(&cfg)
	}
	cfg.ScanInterval = clamp(cfg.ScanInterval, 1, 65535)
	cfg.SamplesPerPacket = clamp(cfg.SamplesPerPacket, 1, device.MaxSamplesPerPacket)

	cmd := make([]byte, 14+numChannels*2)
	cmd[1] = 0xF8
	cmd[2] = byte(numChannels + 4)
	cmd[3] = streamConfigCommand
	cmd[6] = byte(numChannels)
	cmd[7] = cfg.ResolutionIndex
	cmd[8] = byte(cfg.SamplesPerPacket)
	cmd[10] = cfg.SettlingFactor
	if cfg.Clock48MHz {
		cmd[11] = 1 << 3
	}
	if cfg.DivideClockBy256 {
		cmd[11] |= 1 << 1
	}
	binary.LittleEndian.PutUint16(cmd[12:14], uint16(cfg.ScanInterval))
	for i := 0; i < numChannels; i++ {
		cmd[14+i*2] = cfg.ChannelNumbers[i]
		cmd[15+i*2] = cfg.ChannelOptions[i]
	}

	if _, err := u.WriteRead(cmd, 8, []byte{0xF8, 0x01, streamConfigCommand}); err != nil {
		return fmt.Errorf("error configuring stream: %w", err)
	}

	u.streamChannels = append([]byte(nil), cfg.ChannelNumbers...)
	u.streamOptions = append([]byte(nil), cfg.ChannelOptions...)
	u.streamSamples = cfg.SamplesPerPacket
	u.streamCursor = 0
	u.SetStreamConfig(cfg.SamplesPerPacket, packetsPerRequest(cfg))
	return nil
}

// deriveClock picks the clock source, divisor, and scan interval for a
// requested scan frequency. Sub-25 Hz scans also shrink the packet so a
// packet fills within roughly a second.
func deriveClock(cfg *StreamConfig) {
	f := cfg.ScanFrequency
	if f >= 61.03515 {
		cfg.DivideClockBy256 = false
		if f >= 732.43304 {
			cfg.Clock48MHz = true
			cfg.ScanInterval = int(48000000 / f)
		} else {
			cfg.Clock48MHz = false
			cfg.ScanInterval = int(4000000 / f)
		}
		return
	}
	cfg.DivideClockBy256 = true
	if f < 25 {
		cfg.SamplesPerPacket = int(f)
	}
	if f >= 2.86106 {
		cfg.Clock48MHz = true
		cfg.ScanInterval = int(187500 / f)
	} else {
		cfg.Clock48MHz = false
		cfg.ScanInterval = int(15625 / f)
	}
}

// packetsPerRequest sizes each bulk read: one packet for small packets,
// otherwise roughly a second of scans bounded at 48 packets.
func packetsPerRequest(cfg StreamConfig) int {
	if cfg.SamplesPerPacket < device.MaxSamplesPerPacket {
		return 1
	}
	freq := 4000000.0
	if cfg.Clock48MHz {
		freq = 48000000.0
	}
	if cfg.DivideClockBy256 {
		freq /= 256
	}
	freq /= float64(cfg.ScanInterval)
	return clamp(int(freq)/cfg.SamplesPerPacket, 1, device.MaxPacketsPerRequest)
}

// Special stream channels that bypass calibration.
const (
	streamChannelDigital0 = 193 // EIO/FIO states
	streamChannelDigital1 = 194 // MIO/CIO states
	streamChannelRawBase  = 200 // timers, counters, TC in raw form
)

// ProcessStreamData de-interleaves a stream block into per-channel
// calibrated voltages keyed "AIN0", "AIN1", and so on. The channel cursor
// persists across blocks, so packets that end mid-scan pick up correctly
// on the next call. Digital and raw channels (193, 194, 200 and up) are
// reported as their raw 16-bit values.
func (u *U6) ProcessStreamData(block *device.StreamBlock) (map[string][]float64, error) {
	if len(u.streamChannels) == 0 {
		return nil, fmt.Errorf("configure streaming before processing data")
	}
	numChannels := len(u.streamChannels)
	packetSize := u.StreamPacketSize()
	out := make(map[string][]float64, numChannels)

	if u.streamCursor >= numChannels {
		u.streamCursor = 0
	}
	samples := 0
	for p := 0; p+packetSize <= len(block.Raw); p += packetSize {
		data := block.Raw[p+12 : p+12+u.streamSamples*2]
		for s := 0; s+2 <= len(data); s += 2 {
			raw := binary.LittleEndian.Uint16(data[s : s+2])
			idx := (u.streamCursor + samples) % numChannels
			ch := u.streamChannels[idx]
			key := fmt.Sprintf("AIN%d", ch)
			switch {
			case ch == streamChannelDigital0 || ch == streamChannelDigital1 || ch >= streamChannelRawBase:
				out[key] = append(out[key], float64(raw))
			default:
				gainIndex := int(u.streamOptions[idx]>>4) & 0x3
				out[key] = append(out[key], u.BinaryToCalibratedVoltage(gainIndex, float64(raw), true, 1))
			}
			samples++
		}
	}
	u.streamCursor = (u.streamCursor + samples) % numChannels
	return out, nil
}

func clamp(v, lo, hi int) int {
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
