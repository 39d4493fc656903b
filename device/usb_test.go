// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package device

import (
	"errors"
	"testing"
)

func TestStreamReadResult(t *testing.T) {
	timeout := errors.New("LIBUSB_ERROR_TIMEOUT: Operation timed out")
	gone := errors.New("LIBUSB_ERROR_NO_DEVICE: No such device (it may have been disconnected)")

	testCases := []struct {
		name    string
		n       int
		err     error
		wantN   int
		wantErr bool
	}{
		{"clean read", 64, nil, 64, false},
		{"idle timeout", 0, timeout, 0, false},
		{"timeout with partial data", 30, timeout, 30, false},
		{"disconnect", 0, gone, 0, true},
		{"transfer failure mid-read", 12, gone, 12, true},
	}
	for _, tc := range testCases {
		n, err := streamReadResult(tc.n, tc.err)
		if n != tc.wantN {
			t.Errorf("%s: n = %d, want %d", tc.name, n, tc.wantN)
		}
		if (err != nil) != tc.wantErr {
			t.Errorf("%s: err = %v, wantErr %t", tc.name, err, tc.wantErr)
		}
	}
}
