// Copyright (c) 2026 The labjack developers. All rights reserved.
// Project site: https://github.com/gotmc/labjack
// Use of this source code is governed by a MIT-style license that
// can be found in the LICENSE.txt file for the project.

package protocol

import "fmt"

// Feedback packet layout shared by the U3 and U6 families.
const (
	feedbackOpcode       = 0xF8
	feedbackHeaderLen    = 7
	feedbackResponseBase = 9
)

// Command is one feedback sub-command: the bytes it contributes to the
// outgoing packet, the number of response bytes it consumes, and a decoder
// for those bytes. Ordering is significant; responses are consumed in the
// same order the commands were serialized.
type Command interface {
	CommandBytes() []byte
	ResponseLen() int
	Decode(p []byte) interface{}
}

// Group is an ordered list of commands that can be nested inside another
// command list. Building flattens groups left to right, so grouping never
// changes serialization order.
type Group []Command

// CommandBytes concatenates the bytes of every command in the group.
func (g Group) CommandBytes() []byte {
	var b []byte
	for _, cmd := range g {
		b = append(b, cmd.CommandBytes()...)
	}
	return b
}

// ResponseLen sums the response lengths of every command in the group.
func (g Group) ResponseLen() int {
	n := 0
	for _, cmd := range g {
		n += cmd.ResponseLen()
	}
	return n
}

// Decode decodes each member's slice of p and returns the results in order.
func (g Group) Decode(p []byte) interface{} {
	results := make([]interface{}, 0, len(g))
	i := 0
	for _, cmd := range g {
		n := cmd.ResponseLen()
		results = append(results, cmd.Decode(p[i:i+n]))
		i += n
	}
	return results
}

// Flatten expands nested Groups left to right into a single ordered list.
func Flatten(cmds []Command) []Command {
	flat := make([]Command, 0, len(cmds))
	for _, cmd := range cmds {
		if g, ok := cmd.(Group); ok {
			flat = append(flat, Flatten(g)...)
		} else {
			flat = append(flat, cmd)
		}
	}
	return flat
}

// BuildFeedback serializes the flattened command list into one feedback
// request packet and returns the packet along with the expected response
// length. Both directions are checked against the single-packet maximum
// before any I/O, and the packet is padded to an even length as the
// protocol requires.
func BuildFeedback(cmds []Command) (packet []byte, respLen int, err error) {
	flat := Flatten(cmds)
	packet = make([]byte, feedbackHeaderLen)
	packet[1] = feedbackOpcode
	respLen = feedbackResponseBase
	for _, cmd := range flat {
		packet = append(packet, cmd.CommandBytes()...)
		respLen += cmd.ResponseLen()
	}
	if len(packet)%2 == 1 {
		packet = append(packet, 0)
	}
	packet[2] = byte(len(packet)/2 - 3)
	if respLen%2 == 1 {
		respLen++
	}
	if len(packet) > MaxPacketSize {
		return nil, 0, fmt.Errorf(
			"feedback command is %d bytes, which exceeds the maximum packet size of %d; break the commands into separate calls",
			len(packet), MaxPacketSize)
	}
	if respLen > MaxPacketSize {
		return nil, 0, fmt.Errorf(
			"feedback response would be %d bytes, which exceeds the maximum packet size of %d; break the commands into separate calls",
			respLen, MaxPacketSize)
	}
	return packet, respLen, nil
}

// DecodeFeedback slices the verified response buffer per sub-command and
// returns one decoded result per flattened command, in input order.
func DecodeFeedback(resp []byte, cmds []Command) ([]interface{}, error) {
	flat := Flatten(cmds)
	results := make([]interface{}, 0, len(flat))
	i := feedbackResponseBase
	for _, cmd := range flat {
		n := cmd.ResponseLen()
		if i+n > len(resp) {
			return nil, fmt.Errorf("feedback response truncated: need %d bytes, have %d", i+n, len(resp))
		}
		results = append(results, cmd.Decode(resp[i:i+n]))
		i += n
	}
	return results, nil
}
