// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package main

import (
	"context"
	"os"
	"os/signal"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/gotmc/labjack/device"
	"github.com/gotmc/labjack/u6"
)

const runFor = 10 * time.Second

func main() {
	ctx, err := device.Init()
	if err != nil {
		log.Fatal("Couldn't create USB context. Ending now.")
	}
	defer ctx.Close()

	daq, err := u6.Open(ctx)
	if err != nil {
		log.Fatalf("Couldn't find a U6: %s", err)
	}
	defer daq.Close()
	daq.SetLogger(log.WithField("serial", daq.SerialNumber))

	log.Infof("Found a %s (serial %d)", daq.Name, daq.SerialNumber)

	// Scan AIN0 and AIN1 at 1 kHz; load stream.yaml instead if present.
	cfg := u6.StreamConfig{
		ChannelNumbers: []byte{0, 1},
		ChannelOptions: []byte{0, 0},
		ScanFrequency:  1000,
	}
	if f, err := os.Open("stream.yaml"); err == nil {
		saved, err := u6.LoadConfig(f)
		f.Close()
		if err != nil {
			log.Fatalf("Error parsing stream.yaml: %s", err)
		}
		if saved.Stream != nil {
			cfg = u6.StreamConfig{
				ChannelNumbers:  saved.Stream.Channels,
				ChannelOptions:  saved.Stream.Options,
				ResolutionIndex: saved.Stream.ResolutionIndex,
				SettlingFactor:  saved.Stream.SettlingFactor,
				ScanFrequency:   saved.Stream.ScanFrequency,
			}
		}
	}
	if err := daq.ConfigureStream(cfg); err != nil {
		log.Fatalf("Error configuring stream: %s", err)
	}

	runCtx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	runCtx, timeout := context.WithTimeout(runCtx, runFor)
	defer timeout()

	reader := daq.NewStreamReader(16)
	if err := reader.Start(runCtx); err != nil {
		log.Fatalf("Error starting stream: %s", err)
	}

	samples := 0
	for block := range reader.Blocks() {
		channels, err := daq.ProcessStreamData(block)
		if err != nil {
			log.Errorf("Error processing stream block: %s", err)
			break
		}
		for name, volts := range channels {
			samples += len(volts)
			if len(volts) > 0 {
				log.Debugf("%s: %d samples, last %+.6f V", name, len(volts), volts[len(volts)-1])
			}
		}
	}
	if err := reader.Stop(); err != nil {
		log.Errorf("Stream stopped with error: %s", err)
	}
	blocks, errors, missed := reader.Totals()
	log.Infof("Read %d samples in %d blocks (%d errors, %d missed)",
		samples, blocks, errors, missed)
}
