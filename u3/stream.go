// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package u3

import (
	"encoding/binary"
	"fmt"

	"github.com/gotmc/labjack/device"
)

// StreamConfig selects the channel scan table and scan clock. Each scan
// reads every positive/negative channel pair; a negative channel of 31
// makes that entry single-ended.
type StreamConfig struct {
	PositiveChannels []byte
	NegativeChannels []byte
	Resolution       byte // 0-3
	SamplesPerPacket int
	Clock48MHz       bool
	DivideClockBy256 bool
	ScanInterval     int
	ScanFrequency    float64 // when > 0, overrides the clock fields
}

const streamConfigCommand byte = 0x11

// ConfigureStream writes the stream configuration and records the scan
// table for de-interleaving. Requires hardware 1.21 or later.
func (u *U3) ConfigureStream(cfg StreamConfig) error {
	numChannels := len(cfg.PositiveChannels)
	if numChannels == 0 {
		return fmt.Errorf("at least one stream channel is required")
	}
	if numChannels != len(cfg.NegativeChannels) {
		return fmt.Errorf("got %d positive channels but %d negative channels",
			numChannels, len(cfg.NegativeChannels))
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

	cmd := make([]byte, 12+numChannels*2)
	cmd[1] = 0xF8
	cmd[2] = byte(numChannels + 3)
	cmd[3] = streamConfigCommand
	cmd[6] = byte(numChannels)
	cmd[7] = byte(cfg.SamplesPerPacket)
	if cfg.Clock48MHz {
		cmd[9] = 1 << 3
	}
	if cfg.DivideClockBy256 {
		cmd[9] |= 1 << 2
	}
	cmd[9] |= cfg.Resolution & 3
	binary.LittleEndian.PutUint16(cmd[10:12], uint16(cfg.ScanInterval))
	for i := 0; i < numChannels; i++ {
		cmd[12+i*2] = cfg.PositiveChannels[i]
		cmd[13+i*2] = cfg.NegativeChannels[i]
	}

	if _, err := u.WriteRead(cmd, 8, []byte{0xF8, 0x01, streamConfigCommand}); err != nil {
		return fmt.Errorf("error configuring stream: %w", err)
	}

	u.streamChannels = append([]byte(nil), cfg.PositiveChannels...)
	u.streamNegChannels = append([]byte(nil), cfg.NegativeChannels...)
	u.streamSamples = cfg.SamplesPerPacket * numChannels
	u.streamCursor = 0
	u.SetStreamConfig(u.streamSamples, packetsPerRequest(cfg))
	return nil
}

// deriveClock picks the clock fields for a requested scan frequency.
// Sub-kHz scans divide the 4 MHz clock by 256; sub-25 Hz scans also
// shrink the packet so it fills within roughly a second.
func deriveClock(cfg *StreamConfig) {
	f := cfg.ScanFrequency
	cfg.Clock48MHz = false
	if f < 1000 {
		if f < 25 {
			cfg.SamplesPerPacket = int(f)
		}
		cfg.DivideClockBy256 = true
		cfg.ScanInterval = int(15625 / f)
		return
	}
	cfg.DivideClockBy256 = false
	cfg.ScanInterval = int(4000000 / f)
}

// packetsPerRequest sizes each bulk read to roughly a second of scans,
// bounded at 48 packets.
func packetsPerRequest(cfg StreamConfig) int {
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

// ProcessStreamData de-interleaves a stream block into per-channel
// voltages keyed "AIN0", "AIN1", and so on. Single-ended entries decode
// unsigned and differential entries signed; readings on the HV channels
// of a U3-HV use the high-voltage constants.
func (u *U3) ProcessStreamData(block *device.StreamBlock) (map[string][]float64, error) {
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
			idx := (u.streamCursor + samples) % numChannels
			ch := u.streamChannels[idx]
			singleEnded := u.streamNegChannels[idx] == 31
			var raw float64
			if singleEnded {
				raw = float64(binary.LittleEndian.Uint16(data[s : s+2]))
			} else {
				raw = float64(int16(binary.LittleEndian.Uint16(data[s : s+2])))
			}
			lowVoltage := !(u.HighVoltage && ch < 4)
			v, err := u.BinaryToCalibratedVoltage(raw, lowVoltage, singleEnded)
			if err != nil {
				return nil, err
			}
			key := fmt.Sprintf("AIN%d", ch)
			out[key] = append(out[key], v)
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
