// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package main

import (
	"log"
	"time"

	"github.com/gotmc/labjack/device"
	"github.com/gotmc/labjack/u6"
)

const blinks = 10

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

	log.Printf("Found a %s (serial %d, firmware %s)",
		daq.Name, daq.SerialNumber, daq.FirmwareVersion)

	for i := 0; i < blinks; i++ {
		if err := daq.SetLED(i%2 == 0); err != nil {
			log.Fatalf("Error setting LED: %s", err)
		}
		time.Sleep(250 * time.Millisecond)
	}
	if err := daq.SetLED(true); err != nil {
		log.Fatalf("Error restoring LED: %s", err)
	}
}
