// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package device

import (
	"context"
	"fmt"
	"sync"

	"golang.org/x/sync/errgroup"
)

// StreamReader runs one dedicated reader goroutine that continuously
// issues blocking stream reads and pushes the resulting blocks into a
// bounded channel for a consumer to drain. The reader checks for
// cancellation between reads and issues the hardware stop command exactly
// once on every exit path.
type StreamReader struct {
	dev    *Device
	blocks chan *StreamBlock

	grp      *errgroup.Group
	cancel   context.CancelFunc
	stopOnce sync.Once
	stopErr  error

	// Written only by the reader goroutine; read after Wait returns.
	blocksRead int
	errors     int
	missed     int
}

// NewStreamReader creates a reader whose block queue holds up to buffer
// blocks before the producer blocks.
func (d *Device) NewStreamReader(buffer int) *StreamReader {
	return &StreamReader{
		dev:    d,
		blocks: make(chan *StreamBlock, buffer),
	}
}

// Blocks is the queue of stream blocks. It is closed when the reader
// stops.
func (sr *StreamReader) Blocks() <-chan *StreamBlock {
	return sr.blocks
}

// Start sends the start-stream command and launches the reader goroutine.
// Empty (timed-out) blocks are skipped rather than queued.
func (sr *StreamReader) Start(ctx context.Context) error {
	if err := sr.dev.StreamStart(); err != nil {
		return err
	}
	ctx, sr.cancel = context.WithCancel(ctx)
	sr.grp, ctx = errgroup.WithContext(ctx)
	sr.grp.Go(func() error {
		defer close(sr.blocks)
		defer sr.stopStream()
		for {
			if ctx.Err() != nil {
				return nil
			}
			block, err := sr.dev.ReadStreamBlock()
			if err != nil {
				return err
			}
			if block.Empty() {
				sr.dev.log.Debug("no stream data")
				continue
			}
			sr.blocksRead++
			sr.errors += block.Errors
			sr.missed += block.Missed
			select {
			case sr.blocks <- block:
			case <-ctx.Done():
				return nil
			}
		}
	})
	return nil
}

// Stop cancels the reader, waits for it to exit, and returns the first
// error encountered by the read loop or by the hardware stop command.
func (sr *StreamReader) Stop() error {
	if sr.grp == nil {
		return fmt.Errorf("stream reader was not started")
	}
	if sr.cancel != nil {
		sr.cancel()
	}
	err := sr.grp.Wait()
	if err == nil {
		err = sr.stopErr
	}
	return err
}

// Totals reports the number of blocks read and the accumulated error and
// missed-sample counts. Valid after Stop returns.
func (sr *StreamReader) Totals() (blocks, errors, missed int) {
	return sr.blocksRead, sr.errors, sr.missed
}

func (sr *StreamReader) stopStream() {
	sr.stopOnce.Do(func() {
		sr.stopErr = sr.dev.StreamStop()
	})
}
