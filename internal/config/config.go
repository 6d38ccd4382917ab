// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Pages in Korea (pages.kr)

// Package config loads and validates the lgacd configuration file.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/pageskr/lgacd/pkg/lgac"
)

// Connection modes.
const (
	ModeSocket = "socket"
	ModeMQTT   = "mqtt"
	ModeSerial = "serial"
)

// Send payload encodings for the MQTT transport. The EW11 bridge consumes
// raw binary on its send topic; the forwarder variant expects hex text.
const (
	EncodingBinary = "binary"
	EncodingHex    = "hex"
)

// Defaults.
const (
	DefaultSocketPort   = 8899
	DefaultScanInterval = 30
	MinScanInterval     = 5
	DefaultSerialBaud   = 4800
	DefaultTopicSend    = "ew11b/send"
	DefaultTopicRecv    = "ew11b/recv"
	DefaultStatePrefix  = "lgac/state"
)

type Config struct {
	Connection   ConnectionConfig   `yaml:"connection"`
	ScanInterval int                `yaml:"scan_interval"` // seconds
	Devices      []int              `yaml:"devices"`
	Protocol     ProtocolConfig     `yaml:"protocol"`
	StatePublish StatePublishConfig `yaml:"state_publish"`
	LogLevel     string             `yaml:"log_level"`
}

type ConnectionConfig struct {
	Mode string `yaml:"mode"`

	// Socket mode (EW11 bridge).
	Host string `yaml:"host"`
	Port int    `yaml:"port"`

	// MQTT mode.
	Broker       string `yaml:"broker"`
	Username     string `yaml:"username"`
	Password     string `yaml:"password"`
	TopicSend    string `yaml:"topic_send"`
	TopicRecv    string `yaml:"topic_recv"`
	SendEncoding string `yaml:"send_encoding"`

	// Serial mode (direct RS-485).
	SerialPort string `yaml:"serial_port"`
	Baud       int    `yaml:"baud"`
}

type ProtocolConfig struct {
	// PollChecksum appends a checksum trailer to poll requests. Whether
	// the wall pad expects one depends on the firmware revision.
	PollChecksum bool `yaml:"poll_checksum"`
}

// StatePublishConfig controls the optional MQTT state republisher.
type StatePublishConfig struct {
	Enabled     bool   `yaml:"enabled"`
	Broker      string `yaml:"broker"`
	Username    string `yaml:"username"`
	Password    string `yaml:"password"`
	TopicPrefix string `yaml:"topic_prefix"`
	Discovery   bool   `yaml:"discovery"`
}

// Default returns a configuration with every field at its default.
func Default() Config {
	return Config{
		Connection: ConnectionConfig{
			Mode:         ModeSocket,
			Port:         DefaultSocketPort,
			TopicSend:    DefaultTopicSend,
			TopicRecv:    DefaultTopicRecv,
			SendEncoding: EncodingBinary,
			Baud:         DefaultSerialBaud,
		},
		ScanInterval: DefaultScanInterval,
		Devices:      []int{1, 2, 3, 4},
		StatePublish: StatePublishConfig{
			TopicPrefix: DefaultStatePrefix,
			Discovery:   true,
		},
		LogLevel: "info",
	}
}

// Load reads a YAML configuration file on top of the defaults.
func Load(path string) (Config, error) {
	cfg := Default()

	data, err := os.ReadFile(path)
	if err != nil {
		return cfg, fmt.Errorf("config read: %w", err)
	}
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return cfg, fmt.Errorf("config parse: %w", err)
	}
	applyDefaults(&cfg)
	return cfg, nil
}

// applyDefaults fills zero values left by a sparse file.
func applyDefaults(cfg *Config) {
	if cfg.Connection.Mode == "" {
		cfg.Connection.Mode = ModeSocket
	}
	if cfg.Connection.Port == 0 {
		cfg.Connection.Port = DefaultSocketPort
	}
	if cfg.Connection.TopicSend == "" {
		cfg.Connection.TopicSend = DefaultTopicSend
	}
	if cfg.Connection.TopicRecv == "" {
		cfg.Connection.TopicRecv = DefaultTopicRecv
	}
	if cfg.Connection.SendEncoding == "" {
		cfg.Connection.SendEncoding = EncodingBinary
	}
	if cfg.Connection.Baud == 0 {
		cfg.Connection.Baud = DefaultSerialBaud
	}
	if cfg.ScanInterval == 0 {
		cfg.ScanInterval = DefaultScanInterval
	}
	if len(cfg.Devices) == 0 {
		cfg.Devices = []int{1, 2, 3, 4}
	}
	if cfg.StatePublish.TopicPrefix == "" {
		cfg.StatePublish.TopicPrefix = DefaultStatePrefix
	}
	if cfg.LogLevel == "" {
		cfg.LogLevel = "info"
	}
}

// DeviceIDs returns the configured devices as typed ids.
func (c Config) DeviceIDs() []lgac.DeviceID {
	ids := make([]lgac.DeviceID, 0, len(c.Devices))
	for _, d := range c.Devices {
		ids = append(ids, lgac.DeviceID(d))
	}
	return ids
}
