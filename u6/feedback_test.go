// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package u6

import (
	"bytes"
	"reflect"
	"testing"

	"github.com/gotmc/labjack/protocol"
)

func TestCommandBytes(t *testing.T) {
	tests := []struct {
		name string
		cmd  protocol.Command
		want []byte
	}{
		{"AIN", AIN{PositiveChannel: 3}, []byte{0x01, 3, 0}},
		{
			"AIN24 gain and resolution packed",
			AIN24{PositiveChannel: 2, ResolutionIndex: 9, GainIndex: 1, SettlingFactor: 2, Differential: true},
			[]byte{0x02, 2, 0x19, 0x82},
		},
		{
			"AIN24AR",
			AIN24AR{PositiveChannel: 0, ResolutionIndex: 1, GainIndex: 3},
			[]byte{0x03, 0, 0x31, 0},
		},
		{"WaitShort", WaitShort{Time: 10}, []byte{5, 10}},
		{"WaitLong", WaitLong{Time: 4}, []byte{6, 4}},
		{"LED on", LED{On: true}, []byte{9, 1}},
		{"LED off", LED{}, []byte{9, 0}},
		{"BitStateRead wraps line numbers", BitStateRead{IONumber: 23}, []byte{10, 3}},
		{"BitStateWrite high", BitStateWrite{IONumber: 8, High: true}, []byte{11, 0x88}},
		{"BitDirRead", BitDirRead{IONumber: 16}, []byte{12, 16}},
		{"BitDirWrite output", BitDirWrite{IONumber: 1, Output: true}, []byte{13, 0x81}},
		{"PortStateRead", PortStateRead{}, []byte{26}},
		{
			"PortStateWrite defaults to a full mask",
			PortStateWrite{State: [3]byte{0xAA, 0x55, 0x0F}},
			[]byte{27, 0xff, 0xff, 0xff, 0xAA, 0x55, 0x0F},
		},
		{
			"PortStateWrite honors an explicit mask",
			PortStateWrite{State: [3]byte{0xFF, 0, 0}, WriteMask: [3]byte{0x01, 0, 0}},
			[]byte{27, 0x01, 0, 0, 0xFF, 0, 0},
		},
		{"PortDirRead", PortDirRead{}, []byte{28}},
		{
			"PortDirWrite",
			PortDirWrite{Direction: [3]byte{0x0F, 0, 0}, WriteMask: [3]byte{0xFF, 0, 0}},
			[]byte{29, 0xFF, 0, 0, 0x0F, 0, 0},
		},
		{"DAC0 8-bit", DAC8{DAC: 0, Value: 120}, []byte{34, 120}},
		{"DAC1 8-bit", DAC8{DAC: 1, Value: 7}, []byte{35, 7}},
		{"DAC0 16-bit", DAC16{DAC: 0, Value: 0x8421}, []byte{38, 0x21, 0x84}},
		{"DAC1 16-bit", DAC16{DAC: 1, Value: 0x0102}, []byte{39, 0x02, 0x01}},
		{
			"Timer2 update",
			Timer{Timer: 2, UpdateReset: true, Value: 0x1234},
			[]byte{46, 1, 0x34, 0x12},
		},
		{"TimerConfig1", TimerConfig{Timer: 1, Mode: 8, Value: 4}, []byte{45, 8, 4, 0}},
		{"Counter0", Counter{Counter: 0}, []byte{54, 0}},
		{"Counter1 reset", Counter{Counter: 1, Reset: true}, []byte{55, 1}},
	}
	for _, test := range tests {
		if got := test.cmd.CommandBytes(); !bytes.Equal(got, test.want) {
			t.Errorf("%s: command bytes = [% x], want [% x]", test.name, got, test.want)
		}
	}
}

func TestCommandDecode(t *testing.T) {
	tests := []struct {
		name string
		cmd  protocol.Command
		resp []byte
		want interface{}
	}{
		{"AIN", AIN{}, []byte{0x34, 0x12}, uint16(0x1234)},
		{"AIN24", AIN24{}, []byte{0x01, 0x02, 0x03}, uint32(0x030201)},
		{
			"AIN24AR reports applied gain",
			AIN24AR{},
			[]byte{0x01, 0x02, 0x03, 0x29, 0},
			AINReading{AIN: 0x030201, ResolutionIndex: 9, GainIndex: 2},
		},
		{"BitStateRead", BitStateRead{}, []byte{1}, byte(1)},
		{"BitDirRead", BitDirRead{}, []byte{0}, byte(0)},
		{
			"PortStateRead",
			PortStateRead{},
			[]byte{0xAA, 0x55, 0x0F},
			PortState{FIO: 0xAA, EIO: 0x55, CIO: 0x0F},
		},
		{
			"Timer default mode is unsigned",
			Timer{},
			[]byte{0xFF, 0xFF, 0xFF, 0xFF},
			uint32(0xFFFFFFFF),
		},
		{
			"quadrature timer is signed",
			Timer{Mode: TimerModeQuadrature},
			[]byte{0xFF, 0xFF, 0xFF, 0xFF},
			int32(-1),
		},
		{
			"stop-input timer splits count and limit",
			Timer{Mode: TimerModeStopInput},
			[]byte{0x0A, 0x00, 0x03, 0x00},
			TimerStopReading{Current: 3, MaxCount: 10},
		},
		{"Counter", Counter{}, []byte{0x10, 0x00, 0x00, 0x00}, uint32(16)},
	}
	for _, test := range tests {
		if got := test.cmd.Decode(test.resp); !reflect.DeepEqual(got, test.want) {
			t.Errorf("%s: decoded %#v, want %#v", test.name, got, test.want)
		}
	}
}

func TestResponseLengths(t *testing.T) {
	tests := []struct {
		cmd  protocol.Command
		want int
	}{
		{AIN{}, 2},
		{AIN24{}, 3},
		{AIN24AR{}, 5},
		{WaitShort{}, 0},
		{LED{}, 0},
		{BitStateRead{}, 1},
		{PortStateRead{}, 3},
		{PortDirRead{}, 3},
		{DAC16{}, 0},
		{Timer{}, 4},
		{Counter{}, 4},
	}
	for _, test := range tests {
		if got := test.cmd.ResponseLen(); got != test.want {
			t.Errorf("%T: response length = %d, want %d", test.cmd, got, test.want)
		}
	}
}

func TestGroupKeepsOrder(t *testing.T) {
	g := protocol.Group{
		BitDirWrite{IONumber: 0, Output: true},
		BitStateWrite{IONumber: 0, High: true},
	}
	want := []byte{13, 0x80, 11, 0x80}
	if got := g.CommandBytes(); !bytes.Equal(got, want) {
		t.Errorf("group bytes = [% x], want [% x]", got, want)
	}
	if got := g.ResponseLen(); got != 0 {
		t.Errorf("group response length = %d, want 0", got)
	}
}
