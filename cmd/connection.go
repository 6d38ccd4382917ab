// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Pages in Korea (pages.kr)

package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"
	"syscall"

	"github.com/sirupsen/logrus"
	"golang.org/x/term"

	"github.com/pageskr/lgacd/internal/config"
	"github.com/pageskr/lgacd/internal/transport"
)

// loadConfig builds the effective configuration: the config file (or the
// defaults when none is given) with any set command-line flags laid over it.
// Flags are read off the root's persistent set so a subcommand flag of the
// same name (set's --mode) cannot leak into the connection settings.
func loadConfig() (config.Config, error) {
	var cfg config.Config
	if configPath != "" {
		var err error
		cfg, err = config.Load(configPath)
		if err != nil {
			return cfg, err
		}
	} else {
		cfg = config.Default()
	}

	flags := rootCmd.PersistentFlags()
	if flags.Changed("mode") {
		cfg.Connection.Mode = connMode
	}
	if flags.Changed("host") {
		cfg.Connection.Host = host
	}
	if flags.Changed("port") {
		cfg.Connection.Port = port
	}
	if flags.Changed("broker") {
		cfg.Connection.Broker = broker
	}
	if flags.Changed("username") {
		cfg.Connection.Username = username
	}
	if flags.Changed("serial-port") {
		cfg.Connection.SerialPort = serialPort
	}
	if flags.Changed("baud") {
		cfg.Connection.Baud = baudRate
	}
	if flags.Changed("log-level") {
		cfg.LogLevel = logLevel
	}

	if err := config.Validate(cfg); err != nil {
		return cfg, err
	}
	return cfg, nil
}

// newLogger builds the process logger at the configured level.
func newLogger(cfg config.Config) (*logrus.Logger, error) {
	log := logrus.New()
	log.SetOutput(os.Stderr)

	if cfg.LogLevel != "" {
		level, err := logrus.ParseLevel(cfg.LogLevel)
		if err != nil {
			return nil, fmt.Errorf("invalid log level %q: %w", cfg.LogLevel, err)
		}
		log.SetLevel(level)
	}
	return log, nil
}

// openConn dials the configured link.
func openConn(cfg config.Config, log *logrus.Logger) (transport.Conn, error) {
	switch cfg.Connection.Mode {
	case config.ModeSocket:
		return transport.DialSocket(cfg.Connection.Host, cfg.Connection.Port, log)

	case config.ModeMQTT:
		password := cfg.Connection.Password
		if cfg.Connection.Username != "" && password == "" {
			var err error
			password, err = getPassword()
			if err != nil {
				return nil, err
			}
		}
		return transport.DialMQTT(transport.MQTTOptions{
			Broker:    cfg.Connection.Broker,
			Username:  cfg.Connection.Username,
			Password:  password,
			TopicSend: cfg.Connection.TopicSend,
			TopicRecv: cfg.Connection.TopicRecv,
			HexSend:   cfg.Connection.SendEncoding == config.EncodingHex,
		}, log)

	case config.ModeSerial:
		return transport.DialSerial(cfg.Connection.SerialPort, cfg.Connection.Baud, log)

	default:
		return nil, fmt.Errorf("unknown connection mode %q", cfg.Connection.Mode)
	}
}

// getPassword reads the broker password from the environment or prompts
// for it without echo.
func getPassword() (string, error) {
	if pw := os.Getenv("LGACD_MQTT_PASSWORD"); pw != "" {
		return pw, nil
	}

	fmt.Fprint(os.Stderr, "MQTT password: ")

	passwordBytes, err := term.ReadPassword(int(syscall.Stdin))
	if err != nil {
		// Not a terminal; fall back to reading a line with echo.
		reader := bufio.NewReader(os.Stdin)
		password, err := reader.ReadString('\n')
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		fmt.Fprintln(os.Stderr)
		return strings.TrimSpace(password), nil
	}

	fmt.Fprintln(os.Stderr)
	return string(passwordBytes), nil
}
