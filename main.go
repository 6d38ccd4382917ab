// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Pages in Korea (pages.kr)
//
// lgacd - LG air conditioner wall-pad controller
//
// Polls and controls LG air conditioners over the wall-pad serial bus,
// reachable through an EW11 TCP bridge, an MQTT relay, or RS-485.

package main

import (
	"fmt"
	"os"

	"github.com/pageskr/lgacd/cmd"
)

func main() {
	if err := cmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
