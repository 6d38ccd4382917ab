// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Pages in Korea (pages.kr)

package lgac

import (
	"errors"
	"testing"
)

func collectValid(results []Result) []DeviceState {
	var states []DeviceState
	for _, r := range results {
		if r.Err == nil {
			states = append(states, r.State)
		}
	}
	return states
}

func TestDecoder_WholeFrame(t *testing.T) {
	d := NewDecoder()
	frame := buildType10(0x01, 0x07, 0x30, 0x0D, 0x00, 0x00, 0x00, 0x00)

	results := d.Feed(frame)
	states := collectValid(results)
	if len(states) != 1 {
		t.Fatalf("got %d states, want 1", len(states))
	}
	if states[0].Device != 1 || states[0].SetTemp != 28 {
		t.Errorf("state = %+v", states[0])
	}
}

func TestDecoder_SplitAcrossReads(t *testing.T) {
	d := NewDecoder()
	frame := buildType10(0x02, 0x06, 0x1C, 0x07, 0x3C, 0x00, 0x00, 0x00)

	// Feed one byte at a time; nothing completes until the last byte.
	for i := 0; i < len(frame)-1; i++ {
		if results := d.Feed(frame[i : i+1]); len(results) != 0 {
			t.Fatalf("byte %d: unexpected results %v", i, results)
		}
	}
	results := d.Feed(frame[len(frame)-1:])
	states := collectValid(results)
	if len(states) != 1 {
		t.Fatalf("got %d states, want 1", len(states))
	}
	if states[0].Device != 2 {
		t.Errorf("device = %d, want 2", states[0].Device)
	}
}

func TestDecoder_GarbageBetweenFrames(t *testing.T) {
	d := NewDecoder()
	f1 := buildType10(0x01, 0x07, 0x30, 0x0D, 0x00, 0x00, 0x00, 0x00)
	f2 := buildTypeB0(0x03, 0x01, 0x05, 22, 23, 0x01, 0x00, 0x00)

	var stream []byte
	stream = append(stream, 0x55, 0x66, 0x77) // line noise
	stream = append(stream, f1...)
	stream = append(stream, 0x00, 0xFF)
	stream = append(stream, f2...)

	states := collectValid(d.Feed(stream))
	if len(states) != 2 {
		t.Fatalf("got %d states, want 2", len(states))
	}
	if states[0].Device != 1 || states[1].Device != 3 {
		t.Errorf("devices = %d, %d", states[0].Device, states[1].Device)
	}
	if states[1].Mode != ModeAuto || states[1].SetTemp != 22 {
		t.Errorf("second state = %+v", states[1])
	}
}

func TestDecoder_SkipsRequestEcho(t *testing.T) {
	d := NewDecoder()
	poll, _ := EncodePollRequest(1, false)
	frame := buildType10(0x01, 0x07, 0x30, 0x0D, 0x00, 0x00, 0x00, 0x00)

	// The half-duplex bus echoes our own request before the response.
	var stream []byte
	stream = append(stream, poll...)
	stream = append(stream, frame...)

	results := d.Feed(stream)
	states := collectValid(results)
	if len(states) != 1 {
		t.Fatalf("got %d states, want 1", len(states))
	}
	for _, r := range results {
		if r.Err != nil {
			t.Errorf("unexpected error result: %v", r.Err)
		}
	}
}

func TestDecoder_ResyncAfterCorruptFrame(t *testing.T) {
	d := NewDecoder()
	bad := buildType10(0x01, 0x07, 0x30, 0x0D, 0x6C, 0x6C, 0x6C, 0x6C)
	bad[len(bad)-1] ^= 0xFF // corrupt the checksum
	good := buildType10(0x02, 0x03, 0x42, 0x05, 0x6C, 0x6C, 0x6C, 0x6C)

	results := d.Feed(append(append([]byte(nil), bad...), good...))

	var gotErr bool
	for _, r := range results {
		if r.Err != nil {
			if !errors.Is(r.Err, ErrChecksumMismatch) {
				t.Errorf("err = %v, want ErrChecksumMismatch", r.Err)
			}
			gotErr = true
		}
	}
	if !gotErr {
		t.Error("corrupt frame produced no error result")
	}

	states := collectValid(results)
	if len(states) != 1 {
		t.Fatalf("got %d states, want 1", len(states))
	}
	if states[0].Device != 2 {
		t.Errorf("device = %d, want 2", states[0].Device)
	}
}

func TestDecoder_BackToBackFrames(t *testing.T) {
	d := NewDecoder()
	var stream []byte
	for dev := byte(1); dev <= 4; dev++ {
		stream = append(stream, buildType10(dev, 0x07, 0x30, 0x09, 0x00, 0x00, 0x00, 0x00)...)
	}

	states := collectValid(d.Feed(stream))
	if len(states) != 4 {
		t.Fatalf("got %d states, want 4", len(states))
	}
	for i, st := range states {
		if st.Device != DeviceID(i+1) {
			t.Errorf("state %d: device = %d", i, st.Device)
		}
	}
}

func TestDecoder_Reset(t *testing.T) {
	d := NewDecoder()
	frame := buildType10(0x01, 0x07, 0x30, 0x0D, 0x00, 0x00, 0x00, 0x00)

	d.Feed(frame[:10])
	d.Reset()

	// The tail of the interrupted frame is garbage after a reset; a whole
	// fresh frame must still decode.
	results := d.Feed(append(append([]byte(nil), frame[10:]...), frame...))
	states := collectValid(results)
	if len(states) != 1 {
		t.Fatalf("got %d states, want 1", len(states))
	}
}

func TestStatistics_Update(t *testing.T) {
	s := NewStatistics()
	good := buildType10(0x01, 0x07, 0x30, 0x0D, 0x00, 0x00, 0x00, 0x00)
	bad := append([]byte(nil), good...)
	bad[7] ^= 0xFF

	st, err := DecodeResponse(good)
	if err != nil {
		t.Fatal(err)
	}
	s.Update(Result{Frame: good, State: st})
	_, err = DecodeResponse(bad)
	s.Update(Result{Frame: bad, Err: err})

	if s.TotalFrames != 2 || s.ValidFrames != 1 || s.ChecksumErrors != 1 {
		t.Errorf("stats = %+v", s)
	}
	if s.PerDevice[1] != 1 {
		t.Errorf("per-device count = %d, want 1", s.PerDevice[1])
	}
	if s.ErrorCount() != 1 {
		t.Errorf("ErrorCount = %d, want 1", s.ErrorCount())
	}
}
