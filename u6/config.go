// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package u6

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// Config is the persistable device setup: identity, IO configuration,
// analog outputs, and an optional stream scan. Round-trips through YAML.
type Config struct {
	Name    string  `yaml:"name"`
	LocalID byte    `yaml:"local_id"`
	DAC0    float64 `yaml:"dac0"`
	DAC1    float64 `yaml:"dac1"`

	IO struct {
		NumberTimersEnabled   byte `yaml:"timers_enabled"`
		Counter0Enabled       bool `yaml:"counter0_enabled"`
		Counter1Enabled       bool `yaml:"counter1_enabled"`
		TimerCounterPinOffset byte `yaml:"timer_counter_pin_offset"`
	} `yaml:"io"`

	Stream *StreamFileConfig `yaml:"stream,omitempty"`
}

// StreamFileConfig is the file form of a stream scan.
type StreamFileConfig struct {
	Channels        []byte  `yaml:"channels"`
	Options         []byte  `yaml:"options"`
	ResolutionIndex byte    `yaml:"resolution_index"`
	SettlingFactor  byte    `yaml:"settling_factor"`
	ScanFrequency   float64 `yaml:"scan_frequency"`
}

// ExportConfig captures the current device setup.
func (u *U6) ExportConfig() (*Config, error) {
	var c Config
	c.Name = u.Name
	c.LocalID = u.LocalID
	ioCfg, err := u.ConfigIO()
	if err != nil {
		return nil, fmt.Errorf("error exporting configuration: %w", err)
	}
	c.IO.NumberTimersEnabled = ioCfg.NumberTimersEnabled
	c.IO.Counter0Enabled = ioCfg.Counter0Enabled
	c.IO.Counter1Enabled = ioCfg.Counter1Enabled
	c.IO.TimerCounterPinOffset = ioCfg.TimerCounterPinOffset
	if len(u.streamChannels) > 0 {
		c.Stream = &StreamFileConfig{
			Channels: append([]byte(nil), u.streamChannels...),
			Options:  append([]byte(nil), u.streamOptions...),
		}
	}
	return &c, nil
}

// Apply pushes a saved configuration to the device: IO setup, DAC
// outputs, and the stream scan if one is present.
func (c *Config) Apply(u *U6) error {
	_, err := u.SetConfigIO(IOConfig{
		NumberTimersEnabled:   c.IO.NumberTimersEnabled,
		Counter0Enabled:       c.IO.Counter0Enabled,
		Counter1Enabled:       c.IO.Counter1Enabled,
		TimerCounterPinOffset: c.IO.TimerCounterPinOffset,
	})
	if err != nil {
		return fmt.Errorf("error applying IO configuration: %w", err)
	}
	_, err = u.GetFeedback(
		DAC16{DAC: 0, Value: u.VoltageToDACBits(c.DAC0, 0, true)},
		DAC16{DAC: 1, Value: u.VoltageToDACBits(c.DAC1, 1, true)},
	)
	if err != nil {
		return fmt.Errorf("error applying DAC outputs: %w", err)
	}
	if c.Stream != nil {
		err := u.ConfigureStream(StreamConfig{
			ChannelNumbers:  c.Stream.Channels,
			ChannelOptions:  c.Stream.Options,
			ResolutionIndex: c.Stream.ResolutionIndex,
			SettlingFactor:  c.Stream.SettlingFactor,
			ScanFrequency:   c.Stream.ScanFrequency,
		})
		if err != nil {
			return fmt.Errorf("error applying stream configuration: %w", err)
		}
	}
	return nil
}

// Save writes the configuration as YAML.
func (c *Config) Save(w io.Writer) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("error marshaling configuration: %w", err)
	}
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("error writing configuration: %w", err)
	}
	return nil
}

// LoadConfig reads a YAML configuration.
func LoadConfig(r io.Reader) (*Config, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("error reading configuration: %w", err)
	}
	var c Config
	if err := yaml.Unmarshal(data, &c); err != nil {
		return nil, fmt.Errorf("error parsing configuration: %w", err)
	}
	return &c, nil
}
