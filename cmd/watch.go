// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Pages in Korea (pages.kr)

package cmd

import (
	"context"
	"errors"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/pageskr/lgacd/pkg/lgac"
)

var (
	watchStatsInterval int
	watchShowErrors    bool
)

var watchCmd = &cobra.Command{
	Use:   "watch",
	Short: "Display bus traffic in human-readable form",
	Long: `Continuously decode and display protocol frames as they arrive on the
bus, one line per frame with its classification and decoded summary.

Frame counters (valid, checksum errors, short frames) are printed at a
configurable interval. Useful for diagnosing wiring and noise problems.`,
	RunE: runWatch,
}

func init() {
	rootCmd.AddCommand(watchCmd)
	watchCmd.Flags().IntVar(&watchStatsInterval, "stats-interval", 30, "Statistics summary interval in seconds (0 disables)")
	watchCmd.Flags().BoolVar(&watchShowErrors, "show-errors", true, "Show undecodable frames")
}

func runWatch(cmd *cobra.Command, args []string) error {
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

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	fmt.Println("Watching bus traffic, press Ctrl+C to exit")

	stats := lgac.NewStatistics()

	var ticks <-chan time.Time
	if watchStatsInterval > 0 {
		ticker := time.NewTicker(time.Duration(watchStatsInterval) * time.Second)
		defer ticker.Stop()
		ticks = ticker.C
	}

	for {
		select {
		case <-ctx.Done():
			fmt.Println()
			fmt.Print(stats.String())
			if errors.Is(ctx.Err(), context.Canceled) {
				return nil
			}
			return ctx.Err()

		case <-ticks:
			fmt.Print(stats.String())

		case res, ok := <-conn.Frames():
			if !ok {
				fmt.Print(stats.String())
				return nil
			}
			stats.Update(res)
			if res.Err != nil && !watchShowErrors {
				continue
			}
			fmt.Printf("%s %s\n", time.Now().Format("15:04:05.000"), lgac.FormatFrame(res.Frame))
		}
	}
}
