// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Pages in Korea (pages.kr)

package transport

import (
	"io"
	"net"
	"strconv"

	"github.com/sirupsen/logrus"
)

// DialSocket opens a persistent TCP connection to an EW11 serial bridge.
// Frames are delimited by their protocol signature, not by the transport,
// so partial reads are reassembled before decoding.
func DialSocket(host string, port int, log *logrus.Logger) (Conn, error) {
	addr := net.JoinHostPort(host, strconv.Itoa(port))
	dial := func() (io.ReadWriteCloser, error) {
		return net.DialTimeout("tcp", addr, connectTimeout)
	}
	return newStream(addr, dial,
		log.WithField("transport", "socket"),
		newBackoff(reconnectMin, reconnectMax))
}
