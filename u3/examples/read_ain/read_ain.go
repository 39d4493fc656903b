// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package main

import (
	"log"

	"github.com/gotmc/labjack/device"
	"github.com/gotmc/labjack/u3"
)

func main() {
	ctx, err := device.Init()
	if err != nil {
		log.Fatal("Couldn't create USB context. Ending now.")
	}
	defer ctx.Close()

	daq, err := u3.Open(ctx)
	if err != nil {
		log.Fatalf("Couldn't find a U3: %s", err)
	}
	defer daq.Close()

	log.Printf("Found a %s (serial %d, firmware %s)",
		daq.Name, daq.SerialNumber, daq.FirmwareVersion)

	// Make FIO0 and FIO1 analog, leave the rest digital.
	if _, err := daq.SetConfigIO(u3.IOConfig{TimerCounterPinOffset: 4, FIOAnalog: 0x03}); err != nil {
		log.Fatalf("Error configuring IO: %s", err)
	}

	for ch := 0; ch < 2; ch++ {
		v, err := daq.GetAIN(ch, 31)
		if err != nil {
			log.Fatalf("Error reading AIN%d: %s", ch, err)
		}
		log.Printf("AIN%d = %+.6f V", ch, v)
	}

	state, err := daq.GetFIOState(4)
	if err != nil {
		log.Fatalf("Error reading FIO4: %s", err)
	}
	log.Printf("FIO4 = %t", state)
}
