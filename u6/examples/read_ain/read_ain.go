// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package main

import (
	"log"

	"github.com/gotmc/labjack/device"
	"github.com/gotmc/labjack/u6"
)

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

	log.Printf("Found a %s (serial %d, hardware %s, firmware %s)",
		daq.Name, daq.SerialNumber, daq.HardwareVersion, daq.FirmwareVersion)
	if daq.Cal.Nominal {
		log.Print("Using nominal calibration constants")
	}

	// Single-ended readings of AIN0-3 at the default resolution.
	for ch := 0; ch < 4; ch++ {
		v, err := daq.GetAIN(ch, 0, 0, 0, false)
		if err != nil {
			log.Fatalf("Error reading AIN%d: %s", ch, err)
		}
		log.Printf("AIN%d = %+.6f V", ch, v)
	}

	kelvin, err := daq.GetTemperature()
	if err != nil {
		log.Fatalf("Error reading temperature: %s", err)
	}
	log.Printf("Internal temperature = %.2f K (%.2f C)", kelvin, kelvin-273.15)
}
