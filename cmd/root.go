// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Pages in Korea (pages.kr)

package cmd

import (
	"github.com/spf13/cobra"
)

var (
	configPath string
	logLevel   string

	// Connection flags, overriding the config file when set.
	connMode   string
	host       string
	port       int
	broker     string
	username   string
	serialPort string
	baudRate   int
)

var rootCmd = &cobra.Command{
	Use:   "lgacd",
	Short: "LG air conditioner wall-pad controller",
	Long: `lgacd polls and controls LG air conditioners wired to a wall pad,
speaking the proprietary serial protocol over one of three links:

  Socket: --mode socket --host 192.168.1.10 [--port 8899]   (EW11 bridge)
  MQTT:   --mode mqtt --broker tcp://host:1883 [--username user]
  Serial: --mode serial --serial-port /dev/ttyUSB0 [--baud 4800]

Flags override the config file. For MQTT authentication the password is
read from the LGACD_MQTT_PASSWORD environment variable, or prompted
interactively; there is no --password flag so credentials never end up in
shell history.`,
	Version:       "1.0.0",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "", "Log level (debug, info, warn, error)")

	rootCmd.PersistentFlags().StringVar(&connMode, "mode", "", "Connection mode (socket, mqtt, serial)")
	rootCmd.PersistentFlags().StringVar(&host, "host", "", "EW11 bridge host (socket mode)")
	rootCmd.PersistentFlags().IntVar(&port, "port", 0, "EW11 bridge port (socket mode)")
	rootCmd.PersistentFlags().StringVar(&broker, "broker", "", "MQTT broker URL (mqtt mode)")
	rootCmd.PersistentFlags().StringVar(&username, "username", "", "MQTT username (mqtt mode)")
	rootCmd.PersistentFlags().StringVar(&serialPort, "serial-port", "", "RS-485 serial device (serial mode)")
	rootCmd.PersistentFlags().IntVarP(&baudRate, "baud", "b", 0, "Baud rate (serial mode)")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}
