// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Pages in Korea (pages.kr)

package lgac

import (
	"bytes"
	"testing"
)

// FuzzDecodeResponse checks that arbitrary input never faults the frame
// decoder and that anything it accepts re-verifies.
func FuzzDecodeResponse(f *testing.F) {
	f.Add([]byte{})
	f.Add([]byte{0x10})
	f.Add([]byte{0x80, 0x00, 0xB0})
	f.Add(buildType10(0x01, 0x07, 0x30, 0x0D, 0x00, 0x00, 0x00, 0x00))
	f.Add(buildTypeB0(0x02, 0x01, 0x02, 24, 25, 0x03, 0x00, 0x00))

	f.Fuzz(func(t *testing.T, data []byte) {
		st, err := DecodeResponse(data)
		if err != nil {
			return
		}
		if !st.Valid {
			t.Error("accepted state not marked valid")
		}
		if !st.Device.Valid() {
			t.Errorf("accepted state with device %d", st.Device)
		}
		if st.SetTemp < MinSetTemp || st.SetTemp > MaxSetTemp {
			t.Errorf("accepted state with set temp %d", st.SetTemp)
		}
		if !VerifyChecksum(st.Raw) {
			t.Errorf("accepted frame fails checksum: % X", st.Raw)
		}
	})
}

// FuzzDecoderFeed checks that the streaming reassembler survives arbitrary
// chunking of arbitrary bytes and that every frame it emits whole decodes
// to the same result as the one-shot path.
func FuzzDecoderFeed(f *testing.F) {
	valid := buildType10(0x01, 0x07, 0x30, 0x0D, 0x00, 0x00, 0x00, 0x00)
	f.Add(valid, 1)
	f.Add(append([]byte{0x55, 0x80, 0x00}, valid...), 3)
	f.Add(bytes.Repeat([]byte{0x10}, 64), 7)

	f.Fuzz(func(t *testing.T, data []byte, chunk int) {
		if chunk <= 0 {
			chunk = 1
		}
		d := NewDecoder()
		var results []Result
		for i := 0; i < len(data); i += chunk {
			end := i + chunk
			if end > len(data) {
				end = len(data)
			}
			results = append(results, d.Feed(data[i:end])...)
		}
		for _, r := range results {
			if r.Err != nil {
				continue
			}
			again, err := DecodeResponse(r.Frame)
			if err != nil {
				t.Errorf("emitted frame does not re-decode: %v", err)
			}
			if again.Device != r.State.Device {
				t.Errorf("re-decode device = %d, want %d", again.Device, r.State.Device)
			}
		}
	})
}
