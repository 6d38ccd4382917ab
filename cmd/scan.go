// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Pages in Korea (pages.kr)

package cmd

import (
	"context"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/pageskr/lgacd/pkg/lgac"
)

var scanTimeout time.Duration

var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Poll every configured device once and print its state",
	Long: `Send one status request to each configured device and print the decoded
response. Devices that stay silent within the timeout are reported as
unreachable.`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)
	scanCmd.Flags().DurationVar(&scanTimeout, "timeout", 2*time.Second, "Per-device response timeout")
}

func runScan(cmd *cobra.Command, args []string) error {
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

	ctx := cmd.Context()
	missing := 0

	for _, dev := range cfg.DeviceIDs() {
		frame, err := lgac.EncodePollRequest(dev, cfg.Protocol.PollChecksum)
		if err != nil {
			return err
		}
		if err := conn.Send(ctx, frame); err != nil {
			return fmt.Errorf("poll device %s: %w", dev, err)
		}

		st, ok := awaitResponse(ctx, conn.Frames(), dev, scanTimeout)
		if !ok {
			fmt.Printf("Device %s: no response\n\n", dev)
			missing++
			continue
		}
		fmt.Print(lgac.FormatState(st))
		fmt.Println()
	}

	if missing > 0 {
		return fmt.Errorf("%d device(s) did not respond", missing)
	}
	return nil
}

// awaitResponse drains the inbound stream until the addressed device
// answers or the timeout expires. Responses from other devices and decode
// failures are skipped.
func awaitResponse(ctx context.Context, frames <-chan lgac.Result, dev lgac.DeviceID, timeout time.Duration) (lgac.DeviceState, bool) {
	deadline := time.NewTimer(timeout)
	defer deadline.Stop()

	for {
		select {
		case <-ctx.Done():
			return lgac.DeviceState{}, false
		case <-deadline.C:
			return lgac.DeviceState{}, false
		case res, ok := <-frames:
			if !ok {
				return lgac.DeviceState{}, false
			}
			if res.Err != nil || res.State.Device != dev {
				continue
			}
			return res.State, true
		}
	}
}
