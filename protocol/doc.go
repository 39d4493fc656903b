// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

// Package protocol implements the low-level LabJack command structure:
// checksum computation and verification for the short and extended packet
// layouts, the device error-code table, and the feedback sub-command
// builder used to batch independent operations into a single
// request/response exchange.
package protocol
