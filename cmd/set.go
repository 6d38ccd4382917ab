// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Pages in Korea (pages.kr)

package cmd

import (
	"fmt"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/pageskr/lgacd/internal/poller"
	"github.com/pageskr/lgacd/pkg/lgac"
)

var (
	setPower string
	setMode  string
	setFan   string
	setSwing string
	setTemp  int
	setLock  string
)

var setCmd = &cobra.Command{
	Use:   "set <device>",
	Short: "Send a control command to one device",
	Long: `Change the settings of one device. The device is polled first so
unspecified settings keep their current values; only the given flags
change.

Examples:
  lgacd set 1 --power on --mode cool --temp 24
  lgacd set 2 --fan quiet
  lgacd set 1 --power off

The wall pad does not acknowledge commands. Verify the result with
"lgacd scan" or the running daemon's state topics.`,
	Args: cobra.ExactArgs(1),
	RunE: runSet,
}

func init() {
	rootCmd.AddCommand(setCmd)
	setCmd.Flags().StringVar(&setPower, "power", "", "Power (on, off)")
	setCmd.Flags().StringVar(&setMode, "mode", "", "HVAC mode (cool, dry, fan, auto, heat)")
	setCmd.Flags().StringVar(&setFan, "fan", "", "Fan speed (low, mid, high, auto, quiet, power)")
	setCmd.Flags().StringVar(&setSwing, "swing", "", "Vane swing (fixed, auto)")
	setCmd.Flags().IntVar(&setTemp, "temp", 0, "Target temperature in degrees Celsius")
	setCmd.Flags().StringVar(&setLock, "lock", "", "Child lock (on, off)")
}

func runSet(cmd *cobra.Command, args []string) error {
	n, err := strconv.Atoi(args[0])
	if err != nil {
		return fmt.Errorf("invalid device %q", args[0])
	}
	dev := lgac.DeviceID(n)
	if !dev.Valid() {
		return fmt.Errorf("device %d outside [%d,%d]", n, lgac.MinDeviceID, lgac.MaxDeviceID)
	}

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

	// Fetch the current settings so flags the caller did not pass stay
	// as they are on the unit.
	frame, err := lgac.EncodePollRequest(dev, cfg.Protocol.PollChecksum)
	if err != nil {
		return err
	}
	if err := conn.Send(ctx, frame); err != nil {
		return fmt.Errorf("poll device %s: %w", dev, err)
	}
	current, ok := awaitResponse(ctx, conn.Frames(), dev, 2*time.Second)
	if !ok {
		return fmt.Errorf("device %s did not respond", dev)
	}

	intent := lgac.IntentFromState(current)
	if err := applyFlags(cmd, &intent); err != nil {
		return err
	}

	d := poller.NewDispatcher(conn, log)
	if err := d.Issue(ctx, dev, intent); err != nil {
		return err
	}

	fmt.Printf("Device %s: command sent\n", dev)
	return nil
}

// applyFlags folds the set flags into the intent.
func applyFlags(cmd *cobra.Command, intent *lgac.Intent) error {
	flags := cmd.Flags()

	if flags.Changed("power") {
		on, err := parseOnOff(setPower)
		if err != nil {
			return fmt.Errorf("--power: %w", err)
		}
		intent.Power = on
	}
	if flags.Changed("lock") {
		on, err := parseOnOff(setLock)
		if err != nil {
			return fmt.Errorf("--lock: %w", err)
		}
		intent.Locked = on
	}
	if flags.Changed("mode") {
		mode, err := lgac.ParseMode(setMode)
		if err != nil {
			return err
		}
		intent.Mode = mode
	}
	if flags.Changed("fan") {
		fan, err := lgac.ParseFanSpeed(setFan)
		if err != nil {
			return err
		}
		intent.Fan = fan
	}
	if flags.Changed("swing") {
		swing, err := lgac.ParseSwing(setSwing)
		if err != nil {
			return err
		}
		intent.Swing = swing
	}
	if flags.Changed("temp") {
		intent.SetTemp = setTemp
	}
	return nil
}

func parseOnOff(s string) (bool, error) {
	switch s {
	case "on":
		return true, nil
	case "off":
		return false, nil
	default:
		return false, fmt.Errorf("want on or off, got %q", s)
	}
}
