// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package main

import (
	"log"

	"github.com/gotmc/labjack/device"
	"github.com/gotmc/labjack/modbus"
)

func main() {
	// Find UE9s on the local network, then talk Modbus to the first one.
	found, err := device.Discover()
	if err != nil {
		log.Fatalf("Error during discovery: %s", err)
	}
	if len(found) == 0 {
		log.Fatal("No devices answered the discovery broadcast")
	}
	for _, a := range found {
		log.Printf("Found device: serial %d, local ID %d, at %s", a.SerialNum, a.LocalID, a.IPAddress)
	}

	t, err := device.OpenTCP(found[0].IPAddress.String())
	if err != nil {
		log.Fatalf("Error connecting: %s", err)
	}
	dev := device.New(t, "UE9")
	defer dev.Close()
	client := modbus.NewClient(dev)

	serial, err := client.ReadRegister(modbus.SerialNumberAddress)
	if err != nil {
		log.Fatalf("Error reading serial number: %s", err)
	}
	log.Printf("Serial number = %.0f", serial)

	// AIN0-3 live at the base of the float table, two registers each.
	for ch := 0; ch < 4; ch++ {
		v, err := client.ReadRegister(uint16(ch * 2))
		if err != nil {
			log.Fatalf("Error reading AIN%d: %s", ch, err)
		}
		log.Printf("AIN%d = %+.6f V", ch, v)
	}

	// Pulse DIO0 (FIO0).
	if err := client.SetDIOState(0, true); err != nil {
		log.Fatalf("Error setting FIO0: %s", err)
	}
	if err := client.SetDIOState(0, false); err != nil {
		log.Fatalf("Error clearing FIO0: %s", err)
	}
}
