// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Pages in Korea (pages.kr)

package lgac

import (
	"fmt"
	"time"
)

// DeviceID addresses one indoor unit on the shared bus, 1 through 4.
type DeviceID uint8

// Valid reports whether the id is within the addressable range.
func (d DeviceID) Valid() bool {
	return d >= MinDeviceID && d <= MaxDeviceID
}

func (d DeviceID) String() string {
	return fmt.Sprintf("%02d", uint8(d))
}

// Mode is the HVAC operating mode, packed into opermode bits 0-2.
type Mode uint8

const (
	ModeCool Mode = iota
	ModeDry
	ModeFan
	ModeAuto
	ModeHeat
	modeCount
)

func (m Mode) String() string {
	switch m {
	case ModeCool:
		return "cool"
	case ModeDry:
		return "dry"
	case ModeFan:
		return "fan"
	case ModeAuto:
		return "auto"
	case ModeHeat:
		return "heat"
	}
	return "unknown"
}

// ParseMode converts a mode name as used in configuration and on the CLI.
func ParseMode(s string) (Mode, error) {
	for m := ModeCool; m < modeCount; m++ {
		if m.String() == s {
			return m, nil
		}
	}
	return 0, fmt.Errorf("unknown hvac mode %q", s)
}

// FanSpeed is the fan setting, packed into opermode bits 4-6.
type FanSpeed uint8

const (
	FanLow FanSpeed = iota
	FanMid
	FanHigh
	FanAuto
	FanQuiet
	FanPower
	fanCount
)

func (f FanSpeed) String() string {
	switch f {
	case FanLow:
		return "low"
	case FanMid:
		return "mid"
	case FanHigh:
		return "high"
	case FanAuto:
		return "auto"
	case FanQuiet:
		return "quiet"
	case FanPower:
		return "power"
	}
	return "unknown"
}

// ParseFanSpeed converts a fan speed name as used on the CLI.
func ParseFanSpeed(s string) (FanSpeed, error) {
	for f := FanLow; f < fanCount; f++ {
		if f.String() == s {
			return f, nil
		}
	}
	return 0, fmt.Errorf("unknown fan speed %q", s)
}

// Swing is the louver setting, packed into opermode bit 3.
type Swing uint8

const (
	SwingFixed Swing = iota
	SwingAuto
)

func (s Swing) String() string {
	if s == SwingAuto {
		return "auto"
	}
	return "fixed"
}

// ParseSwing converts a swing mode name as used on the CLI.
func ParseSwing(s string) (Swing, error) {
	switch s {
	case "fixed":
		return SwingFixed, nil
	case "auto":
		return SwingAuto, nil
	}
	return 0, fmt.Errorf("unknown swing mode %q", s)
}

// DeviceState is the full decoded state of one indoor unit. A state record
// is only ever produced whole, from a checksum-valid response frame; it is
// never patched field by field.
type DeviceState struct {
	Device DeviceID

	Power  bool
	Locked bool
	Mode   Mode
	Fan    FanSpeed
	Swing  Swing

	// SetTemp is the target temperature in whole degrees Celsius,
	// always within [MinSetTemp, MaxSetTemp] after a successful decode.
	SetTemp int

	// Environmental temperatures in degrees Celsius, TempUnknown when the
	// frame family does not carry them or the raw reading is out of the
	// sensor range. Only Type10 frames report pipe and outdoor sensors.
	CurrentTemp float64
	Pipe1Temp   float64
	Pipe2Temp   float64
	OutdoorTemp float64

	// Diagnostic fields carried by TypeB0 frames.
	ErrorCode   byte
	FilterAlarm bool

	// Valid is false until at least one checksum-valid frame has been
	// decoded for the device.
	Valid       bool
	LastUpdated time.Time

	// Raw holds the frame this state was decoded from.
	Raw []byte
}

// NewDeviceState returns the lazy default for a device that has not been
// heard from yet.
func NewDeviceState(dev DeviceID) DeviceState {
	return DeviceState{
		Device:      dev,
		SetTemp:     MinSetTemp,
		CurrentTemp: TempUnknown,
		Pipe1Temp:   TempUnknown,
		Pipe2Temp:   TempUnknown,
		OutdoorTemp: TempUnknown,
	}
}

// Intent is a user command for one unit: everything a control frame can
// express.
type Intent struct {
	Power   bool
	Locked  bool
	Mode    Mode
	Fan     FanSpeed
	Swing   Swing
	SetTemp int
}

// Validate checks the intent against the protocol domain before any frame
// is built. All failures wrap ErrInvalidIntent.
func (i Intent) Validate() error {
	if i.SetTemp < MinSetTemp || i.SetTemp > MaxSetTemp {
		return fmt.Errorf("%w: set temperature %d outside [%d,%d]",
			ErrInvalidIntent, i.SetTemp, MinSetTemp, MaxSetTemp)
	}
	if i.Mode >= modeCount {
		return fmt.Errorf("%w: hvac mode %d", ErrInvalidIntent, i.Mode)
	}
	if i.Fan >= fanCount {
		return fmt.Errorf("%w: fan speed %d", ErrInvalidIntent, i.Fan)
	}
	if i.Swing > SwingAuto {
		return fmt.Errorf("%w: swing mode %d", ErrInvalidIntent, i.Swing)
	}
	return nil
}

// IntentFromState derives an intent that would reproduce the given state,
// used to change a single setting while keeping the rest.
func IntentFromState(st DeviceState) Intent {
	return Intent{
		Power:   st.Power,
		Locked:  st.Locked,
		Mode:    st.Mode,
		Fan:     st.Fan,
		Swing:   st.Swing,
		SetTemp: st.SetTemp,
	}
}
