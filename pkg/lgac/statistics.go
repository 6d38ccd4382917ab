// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Pages in Korea (pages.kr)

package lgac

import (
	"errors"
	"fmt"
	"time"
)

// Statistics tracks frame counts and error rates on one bus connection.
// It is not safe for concurrent use; callers update it from the single
// goroutine that drains the decoder.
type Statistics struct {
	StartTime time.Time

	TotalFrames    uint64
	ValidFrames    uint64
	ChecksumErrors uint64
	ShortFrames    uint64
	HeaderErrors   uint64
	InvalidDevice  uint64

	// PerDevice counts checksum-valid frames by unit.
	PerDevice [MaxDeviceID + 1]uint64
}

// NewStatistics creates a statistics tracker starting now.
func NewStatistics() *Statistics {
	return &Statistics{StartTime: time.Now()}
}

// Update records the outcome of one decoded frame.
func (s *Statistics) Update(res Result) {
	s.TotalFrames++

	if res.Err != nil {
		switch {
		case errors.Is(res.Err, ErrChecksumMismatch):
			s.ChecksumErrors++
		case errors.Is(res.Err, ErrTooShort):
			s.ShortFrames++
		case errors.Is(res.Err, ErrInvalidDevice):
			s.InvalidDevice++
		default:
			s.HeaderErrors++
		}
		return
	}

	s.ValidFrames++
	if res.State.Device.Valid() {
		s.PerDevice[res.State.Device]++
	}
}

// ErrorCount returns the total number of dropped frames.
func (s *Statistics) ErrorCount() uint64 {
	return s.ChecksumErrors + s.ShortFrames + s.HeaderErrors + s.InvalidDevice
}

// String returns a formatted summary.
func (s *Statistics) String() string {
	elapsed := time.Since(s.StartTime).Seconds()
	rate := 0.0
	if elapsed > 0 {
		rate = float64(s.TotalFrames) / elapsed
	}
	validPercent := 0.0
	if s.TotalFrames > 0 {
		validPercent = float64(s.ValidFrames) * 100.0 / float64(s.TotalFrames)
	}

	result := fmt.Sprintf("=== Statistics (%.0f seconds) ===\n", elapsed)
	result += fmt.Sprintf("Total Frames:    %8d\n", s.TotalFrames)
	result += fmt.Sprintf("Valid Frames:    %8d (%.1f%%)\n", s.ValidFrames, validPercent)
	if s.ChecksumErrors > 0 {
		result += fmt.Sprintf("Checksum Errors: %8d\n", s.ChecksumErrors)
	}
	if s.ShortFrames > 0 {
		result += fmt.Sprintf("Short Frames:    %8d\n", s.ShortFrames)
	}
	if s.HeaderErrors > 0 {
		result += fmt.Sprintf("Header Errors:   %8d\n", s.HeaderErrors)
	}
	if s.InvalidDevice > 0 {
		result += fmt.Sprintf("Invalid Device:  %8d\n", s.InvalidDevice)
	}
	for dev := DeviceID(MinDeviceID); dev <= MaxDeviceID; dev++ {
		if n := s.PerDevice[dev]; n > 0 {
			result += fmt.Sprintf("  Device %s:      %8d\n", dev, n)
		}
	}
	result += fmt.Sprintf("Frame Rate:      %8.1f frames/sec\n", rate)
	result += "================================\n"
	return result
}

// Reset clears all counters and restarts the clock.
func (s *Statistics) Reset() {
	*s = Statistics{StartTime: time.Now()}
}
