// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Pages in Korea (pages.kr)

package cmd

import (
	"context"
	"errors"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pageskr/lgacd/internal/bridge"
	"github.com/pageskr/lgacd/internal/config"
	"github.com/pageskr/lgacd/internal/poller"
	"github.com/pageskr/lgacd/internal/store"
	"github.com/pageskr/lgacd/internal/transport"
)

var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the controller daemon",
	Long: `Poll every configured device on the scan interval and keep the state
store current. With state_publish enabled in the config, decoded states are
also mirrored to an MQTT broker (retained, one topic per device) together
with Home Assistant discovery announcements.

Runs until interrupted.`,
	RunE: runDaemon,
}

func init() {
	rootCmd.AddCommand(runCmd)
}

func runDaemon(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	log, err := newLogger(cfg)
	if err != nil {
		return err
	}

	conn, err := openConn(cfg, log)
	if err != nil {
		return err
	}
	defer conn.Close()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st := store.New()
	devices := cfg.DeviceIDs()
	p := poller.New(conn, st, devices,
		time.Duration(cfg.ScanInterval)*time.Second,
		cfg.Protocol.PollChecksum, log)

	errCh := make(chan error, 2)

	if cfg.StatePublish.Enabled {
		brokerURL := cfg.StatePublish.Broker
		if brokerURL == "" && cfg.Connection.Mode == config.ModeMQTT {
			brokerURL = cfg.Connection.Broker
		}
		b, err := bridge.New(st, devices, bridge.Options{
			Broker:      brokerURL,
			Username:    cfg.StatePublish.Username,
			Password:    cfg.StatePublish.Password,
			TopicPrefix: cfg.StatePublish.TopicPrefix,
			Discovery:   cfg.StatePublish.Discovery,
		}, log)
		if err != nil {
			return err
		}
		go func() { errCh <- b.Run(ctx) }()
	}

	log.WithField("devices", len(devices)).Info("lgacd started")
	go func() { errCh <- p.Run(ctx) }()

	err = <-errCh
	stop()
	if errors.Is(err, context.Canceled) || errors.Is(err, transport.ErrClosed) {
		log.Info("lgacd stopped")
		return nil
	}
	return err
}
