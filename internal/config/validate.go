// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Pages in Korea (pages.kr)

package config

import (
	"fmt"

	"github.com/pageskr/lgacd/pkg/lgac"
)

// Validate checks a loaded configuration for contradictions before any
// connection is attempted.
func Validate(cfg Config) error {
	switch cfg.Connection.Mode {
	case ModeSocket:
		if cfg.Connection.Host == "" {
			return fmt.Errorf("config: socket mode requires connection.host")
		}
		if cfg.Connection.Port <= 0 || cfg.Connection.Port > 65535 {
			return fmt.Errorf("config: invalid socket port %d", cfg.Connection.Port)
		}
	case ModeMQTT:
		if cfg.Connection.Broker == "" {
			return fmt.Errorf("config: mqtt mode requires connection.broker")
		}
		if cfg.Connection.SendEncoding != EncodingBinary && cfg.Connection.SendEncoding != EncodingHex {
			return fmt.Errorf("config: invalid send_encoding %q", cfg.Connection.SendEncoding)
		}
	case ModeSerial:
		if cfg.Connection.SerialPort == "" {
			return fmt.Errorf("config: serial mode requires connection.serial_port")
		}
		if cfg.Connection.Baud <= 0 {
			return fmt.Errorf("config: invalid baud %d", cfg.Connection.Baud)
		}
	default:
		return fmt.Errorf("config: unknown connection mode %q", cfg.Connection.Mode)
	}

	// A too-small interval floods the half-duplex bus and starves the
	// responses we are polling for.
	if cfg.ScanInterval < MinScanInterval {
		return fmt.Errorf("config: scan_interval %ds below minimum %ds",
			cfg.ScanInterval, MinScanInterval)
	}

	if len(cfg.Devices) == 0 {
		return fmt.Errorf("config: at least one device required")
	}
	seen := map[int]bool{}
	for _, d := range cfg.Devices {
		// Range-check the int itself: converting first would truncate,
		// letting ids like 257 alias device 1.
		if d < lgac.MinDeviceID || d > lgac.MaxDeviceID {
			return fmt.Errorf("config: device id %d outside [%d,%d]",
				d, lgac.MinDeviceID, lgac.MaxDeviceID)
		}
		if seen[d] {
			return fmt.Errorf("config: duplicate device id %d", d)
		}
		seen[d] = true
	}

	if cfg.StatePublish.Enabled {
		if cfg.StatePublish.Broker == "" && cfg.Connection.Mode != ModeMQTT {
			return fmt.Errorf("config: state_publish.broker required outside mqtt mode")
		}
	}

	return nil
}
