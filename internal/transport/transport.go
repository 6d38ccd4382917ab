// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Pages in Korea (pages.kr)

// Package transport carries raw protocol frames over one of the supported
// links: a TCP socket to an EW11 bridge, an MQTT broker relaying the same
// byte stream, or a directly attached RS-485 adapter.
package transport

import (
	"context"
	"errors"
	"time"

	"github.com/pageskr/lgacd/pkg/lgac"
)

var (
	// ErrNotConnected is returned by Send while the link is down; the
	// supervisor keeps reconnecting in the background.
	ErrNotConnected = errors.New("transport: not connected")

	// ErrClosed is returned after Close.
	ErrClosed = errors.New("transport: closed")
)

// Conn is the duplex byte-stream contract shared by all adapters. Send is
// safe for concurrent use and serializes frames on the wire; Frames is a
// single continuous inbound stream shared by all devices, closed when the
// connection is torn down for good.
type Conn interface {
	Send(ctx context.Context, frame []byte) error
	Frames() <-chan lgac.Result
	Close() error
}

// Connection and write bounds. An unresponsive peer shows up as stale
// device state, never as a hung caller.
const (
	connectTimeout = 5 * time.Second
	writeTimeout   = 5 * time.Second

	reconnectMin = time.Second
	reconnectMax = 30 * time.Second
)

// backoff produces bounded, doubling reconnect delays.
type backoff struct {
	min, max, cur time.Duration
}

func newBackoff(min, max time.Duration) *backoff {
	return &backoff{min: min, max: max}
}

// Next returns the delay to wait before the next attempt.
func (b *backoff) Next() time.Duration {
	if b.cur == 0 {
		b.cur = b.min
	} else {
		b.cur *= 2
		if b.cur > b.max {
			b.cur = b.max
		}
	}
	return b.cur
}

func (b *backoff) Reset() {
	b.cur = 0
}
