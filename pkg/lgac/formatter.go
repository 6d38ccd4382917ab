// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Pages in Korea (pages.kr)

package lgac

import (
	"fmt"
	"strings"
)

// FormatState renders a decoded device state for terminal display.
func FormatState(st DeviceState) string {
	var b strings.Builder

	fmt.Fprintf(&b, "Device %s:", st.Device)
	if !st.Valid {
		b.WriteString(" (no data yet)\n")
		return b.String()
	}
	b.WriteByte('\n')

	power := "off"
	if st.Power {
		power = "on"
	}
	fmt.Fprintf(&b, "  Power:    %s", power)
	if st.Locked {
		b.WriteString(" (locked)")
	}
	b.WriteByte('\n')
	fmt.Fprintf(&b, "  Mode:     %s\n", st.Mode)
	fmt.Fprintf(&b, "  Fan:      %s\n", st.Fan)
	fmt.Fprintf(&b, "  Swing:    %s\n", st.Swing)
	fmt.Fprintf(&b, "  Target:   %d°C\n", st.SetTemp)
	fmt.Fprintf(&b, "  Current:  %s\n", formatTemp(st.CurrentTemp))
	if st.Pipe1Temp != TempUnknown || st.Pipe2Temp != TempUnknown {
		fmt.Fprintf(&b, "  Pipes:    %s / %s\n", formatTemp(st.Pipe1Temp), formatTemp(st.Pipe2Temp))
	}
	if st.OutdoorTemp != TempUnknown {
		fmt.Fprintf(&b, "  Outdoor:  %s\n", formatTemp(st.OutdoorTemp))
	}
	if st.ErrorCode != 0 {
		fmt.Fprintf(&b, "  Error:    0x%02X\n", st.ErrorCode)
	}
	if st.FilterAlarm {
		b.WriteString("  Filter:   alarm\n")
	}
	if !st.LastUpdated.IsZero() {
		fmt.Fprintf(&b, "  Updated:  %s\n", st.LastUpdated.Format("15:04:05.000"))
	}
	return b.String()
}

// FormatFrame renders one raw frame with its classification and, for
// checksum-valid responses, a one-line state summary.
func FormatFrame(frame []byte) string {
	kind := ClassifyFrame(frame)
	line := fmt.Sprintf("%-18s % X", kind, frame)

	switch kind {
	case FrameResponse10, FrameResponseB0:
		st, err := DecodeResponse(frame)
		if err != nil {
			return fmt.Sprintf("%s  [%v]", line, err)
		}
		power := "off"
		if st.Power {
			power = "on"
		}
		return fmt.Sprintf("%s  dev=%s %s %s fan=%s target=%d°C current=%s",
			line, st.Device, power, st.Mode, st.Fan, st.SetTemp, formatTemp(st.CurrentTemp))
	case FrameControlRequest:
		dev, intent, err := DecodeControlRequest(frame)
		if err != nil {
			return fmt.Sprintf("%s  [%v]", line, err)
		}
		power := "off"
		if intent.Power {
			power = "on"
		}
		return fmt.Sprintf("%s  dev=%s %s %s fan=%s target=%d°C",
			line, dev, power, intent.Mode, intent.Fan, intent.SetTemp)
	case FramePollRequest:
		return fmt.Sprintf("%s  dev=%s", line, FrameDevice(frame))
	}
	return line
}

func formatTemp(t float64) string {
	if t == TempUnknown {
		return "unknown"
	}
	return fmt.Sprintf("%.1f°C", t)
}
