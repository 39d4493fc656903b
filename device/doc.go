// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package device provides the transport channel and command exchange shared
// by every LabJack family: USB and Ethernet transports, the locked
// write-request/read-response cycle with checksum and echo verification,
// the continuous streaming engine, and UDP device discovery. Device-family
// packages (u3, u6) build their packet layouts on top of this package.
package device
