// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Pages in Korea (pages.kr)

package lgac

// Checksum computes the single-byte trailer for an LG wall-pad frame.
// The sum of all preceding bytes (mod 256) is split on alternating bit
// masks: checksum = (sum & 0xAA) + (85 - (sum & 0x55)).
func Checksum(data []byte) byte {
	sum := 0
	for _, b := range data {
		sum += int(b)
	}
	sum &= 0xFF
	return byte((sum & 0xAA) + (85 - (sum & 0x55)))
}

// VerifyChecksum reports whether the trailing byte of frame matches the
// checksum of everything before it.
func VerifyChecksum(frame []byte) bool {
	if len(frame) < 2 {
		return false
	}
	return Checksum(frame[:len(frame)-1]) == frame[len(frame)-1]
}
