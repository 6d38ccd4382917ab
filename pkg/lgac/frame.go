// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Pages in Korea (pages.kr)

package lgac

// FrameType classifies a raw frame by its signature, for traffic display
// and diagnostics. Classification looks at the prefix only; it implies
// nothing about checksum validity.
type FrameType int

const (
	FrameUnknown FrameType = iota
	FramePollRequest
	FrameControlRequest
	FrameResponse10
	FrameResponseB0
)

func (t FrameType) String() string {
	switch t {
	case FramePollRequest:
		return "POLL_REQUEST"
	case FrameControlRequest:
		return "CONTROL_REQUEST"
	case FrameResponse10:
		return "STATUS_RESPONSE_10"
	case FrameResponseB0:
		return "STATUS_RESPONSE_B0"
	}
	return "UNKNOWN"
}

// ClassifyFrame identifies the frame family of a raw byte sequence.
func ClassifyFrame(frame []byte) FrameType {
	switch {
	case isType10(frame):
		return FrameResponse10
	case isTypeB0(frame):
		return FrameResponseB0
	case len(frame) >= 3 && frame[0] == ReqHeader1 && frame[1] == ReqHeader2 && frame[2] == ReqMarker:
		if len(frame) <= PollFrameChecksumLen {
			return FramePollRequest
		}
		return FrameControlRequest
	}
	return FrameUnknown
}

// FrameDevice extracts the addressed device id from a classified frame,
// or 0 when the frame carries none or is too short to.
func FrameDevice(frame []byte) DeviceID {
	switch ClassifyFrame(frame) {
	case FramePollRequest, FrameControlRequest:
		if len(frame) > 3 {
			return DeviceID(frame[3])
		}
	case FrameResponse10, FrameResponseB0:
		if len(frame) > off10Device {
			return DeviceID(frame[4])
		}
	}
	return 0
}
