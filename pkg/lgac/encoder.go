// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Pages in Korea (pages.kr)

package lgac

import "fmt"

// EncodePollRequest builds a status-request frame for one unit:
// 80 00 A3 {dev}. Some wall-pad firmware revisions expect a checksum
// trailer on poll frames and some reject it, so the trailer is selected by
// the caller's protocol-variant configuration.
func EncodePollRequest(dev DeviceID, withChecksum bool) ([]byte, error) {
	if !dev.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDevice, dev)
	}
	frame := []byte{ReqHeader1, ReqHeader2, ReqMarker, byte(dev)}
	if withChecksum {
		frame = append(frame, Checksum(frame))
	}
	return frame, nil
}

// EncodeControlRequest builds a control frame for one unit:
// 80 00 A3 {dev} {status} {opermode} {temp} {checksum}.
// The intent is validated before any bytes are produced; a set temperature
// outside [MinSetTemp, MaxSetTemp] fails with ErrOutOfRange.
func EncodeControlRequest(dev DeviceID, intent Intent) ([]byte, error) {
	if !dev.Valid() {
		return nil, fmt.Errorf("%w: %d", ErrInvalidDevice, dev)
	}
	if intent.SetTemp < MinSetTemp || intent.SetTemp > MaxSetTemp {
		return nil, fmt.Errorf("%w: %d not in [%d,%d]",
			ErrOutOfRange, intent.SetTemp, MinSetTemp, MaxSetTemp)
	}
	if err := intent.Validate(); err != nil {
		return nil, err
	}

	frame := []byte{
		ReqHeader1, ReqHeader2, ReqMarker, byte(dev),
		packStatus(intent.Power, intent.Locked),
		packOpermode(intent.Mode, intent.Swing, intent.Fan),
		byte(intent.SetTemp - setTempWireOffset),
	}
	return append(frame, Checksum(frame)), nil
}

// packStatus maps power/lock to the observed status byte values:
// 0x02 off/unlocked, 0x03 off/locked, 0x06 on/locked, 0x07 on/unlocked.
func packStatus(power, locked bool) byte {
	switch {
	case !power && !locked:
		return 0x02
	case !power && locked:
		return 0x03
	case power && locked:
		return 0x06
	default:
		return 0x07
	}
}

func packOpermode(mode Mode, swing Swing, fan FanSpeed) byte {
	b := byte(mode) & opermodeModeMask
	if swing == SwingAuto {
		b |= opermodeSwingBit
	}
	b |= (byte(fan) & opermodeFanMask) << opermodeFanShift
	return b
}
