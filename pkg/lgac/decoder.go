// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Pages in Korea (pages.kr)

package lgac

import (
	"fmt"
	"time"
)

// DecodeResponse decodes and validates one complete response frame. The
// two documented response families are tried by signature: Type10 first
// (the more specific prefix), then TypeB0. On any error the returned state
// is the zero value and the frame must be discarded.
func DecodeResponse(frame []byte) (DeviceState, error) {
	if len(frame) < PollFrameLen {
		return DeviceState{}, decodeErr(frame, ErrTooShort)
	}

	switch {
	case isType10(frame):
		return decodeType10(frame)
	case isTypeB0(frame):
		return decodeTypeB0(frame)
	default:
		return DeviceState{}, decodeErr(frame, ErrUnrecognizedHeader)
	}
}

func isType10(b []byte) bool {
	return len(b) >= 4 && b[0] == RespType10Header &&
		b[2] == RespType10Marker && b[3] == 0x00
}

func isTypeB0(b []byte) bool {
	return len(b) >= 3 && b[0] == RespTypeB0Header1 &&
		b[1] == RespTypeB0Header2 && b[2] == RespTypeB0Marker
}

func decodeType10(frame []byte) (DeviceState, error) {
	if len(frame) < ResponseFrameLen {
		return DeviceState{}, decodeErr(frame, ErrTooShort)
	}
	frame = frame[:ResponseFrameLen]

	if !VerifyChecksum(frame) {
		return DeviceState{}, decodeErr(frame, ErrChecksumMismatch)
	}

	dev := DeviceID(frame[off10Device])
	if !dev.Valid() {
		return DeviceState{}, decodeErr(frame, fmt.Errorf("%w: %d", ErrInvalidDevice, dev))
	}

	st := NewDeviceState(dev)
	st.Power, st.Locked = unpackStatus(frame[off10Status])
	st.Mode, st.Swing, st.Fan = unpackOpermode(frame[off10Opermode])
	st.SetTemp = clampSetTemp(int(frame[off10SetTemp]) + setTempWireOffset)
	st.CurrentTemp = decodeEnvTemp(frame[off10Current])
	st.Pipe1Temp = decodeEnvTemp(frame[off10Pipe1])
	st.Pipe2Temp = decodeEnvTemp(frame[off10Pipe2])
	st.OutdoorTemp = decodeEnvTemp(frame[off10Outdoor])
	st.Valid = true
	st.LastUpdated = time.Now()
	st.Raw = append([]byte(nil), frame...)
	return st, nil
}

// TypeB0 mode and fan byte values, from the wall-pad variant that reports
// plain-degree temperatures. Mode 0x00 means the unit is switched off.
var (
	b0Modes = map[byte]Mode{
		0x01: ModeHeat,
		0x02: ModeCool,
		0x03: ModeDry,
		0x04: ModeFan,
		0x05: ModeAuto,
	}
	b0Fans = map[byte]FanSpeed{
		0x00: FanLow,
		0x01: FanMid,
		0x02: FanHigh,
		0x03: FanAuto,
		0x04: FanPower,
		0x05: FanQuiet,
	}
)

func decodeTypeB0(frame []byte) (DeviceState, error) {
	if len(frame) < ResponseFrameLen {
		return DeviceState{}, decodeErr(frame, ErrTooShort)
	}
	frame = frame[:ResponseFrameLen]

	if !VerifyChecksum(frame) {
		return DeviceState{}, decodeErr(frame, ErrChecksumMismatch)
	}

	dev := DeviceID(frame[offB0Device])
	if !dev.Valid() {
		return DeviceState{}, decodeErr(frame, fmt.Errorf("%w: %d", ErrInvalidDevice, dev))
	}

	st := NewDeviceState(dev)
	st.Power = frame[offB0Power] == 0x01

	if mode, ok := b0Modes[frame[offB0Mode]]; ok {
		st.Mode = mode
	} else {
		st.Power = false
		st.Mode = ModeAuto
	}
	if fan, ok := b0Fans[frame[offB0Fan]]; ok {
		st.Fan = fan
	} else {
		st.Fan = FanAuto
	}

	st.SetTemp = clampSetTemp(int(frame[offB0SetTemp]))
	if cur := int(frame[offB0Current]); cur >= 0 && cur <= 50 {
		st.CurrentTemp = float64(cur)
	}
	st.ErrorCode = frame[offB0Error]
	st.FilterAlarm = frame[offB0Filter] == 0x01
	st.Valid = true
	st.LastUpdated = time.Now()
	st.Raw = append([]byte(nil), frame...)
	return st, nil
}

// DecodeControlRequest decodes a control frame built by
// EncodeControlRequest, for round-trip verification and traffic display.
func DecodeControlRequest(frame []byte) (DeviceID, Intent, error) {
	if len(frame) < ControlFrameLen {
		return 0, Intent{}, decodeErr(frame, ErrTooShort)
	}
	if frame[0] != ReqHeader1 || frame[1] != ReqHeader2 || frame[2] != ReqMarker {
		return 0, Intent{}, decodeErr(frame, ErrUnrecognizedHeader)
	}
	frame = frame[:ControlFrameLen]

	if !VerifyChecksum(frame) {
		return 0, Intent{}, decodeErr(frame, ErrChecksumMismatch)
	}

	dev := DeviceID(frame[3])
	if !dev.Valid() {
		return 0, Intent{}, decodeErr(frame, fmt.Errorf("%w: %d", ErrInvalidDevice, dev))
	}

	var intent Intent
	intent.Power, intent.Locked = unpackStatus(frame[4])
	intent.Mode, intent.Swing, intent.Fan = unpackOpermode(frame[5])
	intent.SetTemp = int(frame[6]) + setTempWireOffset
	if intent.SetTemp < MinSetTemp || intent.SetTemp > MaxSetTemp {
		return 0, Intent{}, decodeErr(frame, fmt.Errorf("%w: %d", ErrOutOfRange, intent.SetTemp))
	}
	return dev, intent, nil
}

// unpackStatus is the inverse of packStatus. Bytes outside the four
// observed values fall back to plain bit-flag interpretation.
func unpackStatus(b byte) (power, locked bool) {
	switch b {
	case 0x02:
		return false, false
	case 0x03:
		return false, true
	case 0x06:
		return true, true
	case 0x07:
		return true, false
	}
	return b&0x01 != 0, b&0x02 != 0
}

func unpackOpermode(b byte) (Mode, Swing, FanSpeed) {
	mode := Mode(b & opermodeModeMask)
	if mode >= modeCount {
		mode = ModeAuto
	}
	swing := SwingFixed
	if b&opermodeSwingBit != 0 {
		swing = SwingAuto
	}
	fan := FanSpeed((b >> opermodeFanShift) & opermodeFanMask)
	if fan >= fanCount {
		fan = FanAuto
	}
	return mode, swing, fan
}

func clampSetTemp(t int) int {
	if t < MinSetTemp {
		return MinSetTemp
	}
	if t > MaxSetTemp {
		return MaxSetTemp
	}
	return t
}

// decodeEnvTemp converts a raw environmental sensor byte from a Type10
// frame: degrees = 64 - raw/3. Raw values that would produce a reading
// below zero are outside the sensor range and reported as TempUnknown.
func decodeEnvTemp(raw byte) float64 {
	if raw > maxEnvTempRaw {
		return TempUnknown
	}
	return 64 - float64(raw)/3.0
}

// Result is one outcome from the streaming Decoder: either a decoded
// state or the error that caused the frame to be dropped.
type Result struct {
	Frame []byte
	State DeviceState
	Err   error
}

// Decoder reassembles complete response frames from an unframed byte
// stream. The wire has no transport-level delimiter, so the decoder hunts
// for known response signatures, buffers partial frames across reads, and
// resynchronizes after noise. Request echoes on the half-duplex bus do not
// match any response signature and are skipped silently.
type Decoder struct {
	buf []byte

	// Discarded counts bytes dropped while hunting for a signature.
	Discarded uint64
}

// NewDecoder creates a streaming frame decoder.
func NewDecoder() *Decoder {
	return &Decoder{buf: make([]byte, 0, 4*ResponseFrameLen)}
}

// Reset drops any buffered partial frame, for reuse across reconnects.
func (d *Decoder) Reset() {
	d.buf = d.buf[:0]
}

// Feed appends a chunk of received bytes and returns every frame outcome
// that became complete, in wire order. Short or split input never faults;
// the remainder stays buffered for the next read.
func (d *Decoder) Feed(p []byte) []Result {
	d.buf = append(d.buf, p...)

	var results []Result
	for {
		// Hunt for the earliest possible response signature.
		i := 0
		for i < len(d.buf) && !possibleStart(d.buf[i:]) {
			i++
		}
		d.Discarded += uint64(i)
		d.buf = d.buf[i:]

		if len(d.buf) < ResponseFrameLen {
			// Wait for more bytes; a partial signature stays buffered.
			return results
		}

		frame := append([]byte(nil), d.buf[:ResponseFrameLen]...)
		st, err := DecodeResponse(frame)
		if err != nil {
			results = append(results, Result{Frame: frame, Err: err})
			// Step past the false start and rehunt inside the frame.
			d.buf = d.buf[1:]
			d.Discarded++
			continue
		}

		results = append(results, Result{Frame: frame, State: st})
		d.buf = d.buf[ResponseFrameLen:]
	}
}

// possibleStart reports whether b could begin a response frame given the
// bytes available so far. A prefix too short to disprove a signature is
// still possible and keeps the decoder waiting.
func possibleStart(b []byte) bool {
	switch b[0] {
	case RespType10Header:
		if len(b) >= 3 && b[2] != RespType10Marker {
			return false
		}
		if len(b) >= 4 && b[3] != 0x00 {
			return false
		}
		return true
	case RespTypeB0Header1:
		if len(b) >= 2 && b[1] != RespTypeB0Header2 {
			return false
		}
		if len(b) >= 3 && b[2] != RespTypeB0Marker {
			return false
		}
		return true
	}
	return false
}
