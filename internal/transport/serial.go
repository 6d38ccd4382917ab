// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Pages in Korea (pages.kr)

package transport

import (
	"io"

	"github.com/sirupsen/logrus"
	"go.bug.st/serial"
)

// DialSerial opens a directly attached RS-485 adapter (PI485 board on the
// wall-pad bus). The bus runs 4800 8N1 on stock installations.
//
// serial.Port has no write deadline, so the stream's SetWriteDeadline
// probe is a no-op here and a send blocks for as long as the kernel
// buffers. Frames of at most 8 bytes at 4800 baud leave no realistic way
// to fill those buffers, but the bound is the driver's, not ours.
func DialSerial(device string, baud int, log *logrus.Logger) (Conn, error) {
	mode := &serial.Mode{
		BaudRate: baud,
		DataBits: 8,
		Parity:   serial.NoParity,
		StopBits: serial.OneStopBit,
	}
	dial := func() (io.ReadWriteCloser, error) {
		return serial.Open(device, mode)
	}
	return newStream(device, dial,
		log.WithField("transport", "serial"),
		newBackoff(reconnectMin, reconnectMax))
}
