// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Pages in Korea (pages.kr)

package poller

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"

	"github.com/pageskr/lgacd/internal/transport"
	"github.com/pageskr/lgacd/pkg/lgac"
)

// Dispatcher turns operator intents into control frames on the bus.
// Commands are fire and forget: the wall pad does not acknowledge them,
// so the store is reconciled by the next poll rather than written here.
type Dispatcher struct {
	conn transport.Conn
	log  *logrus.Entry
}

func NewDispatcher(conn transport.Conn, log *logrus.Logger) *Dispatcher {
	return &Dispatcher{
		conn: conn,
		log:  log.WithField("component", "dispatcher"),
	}
}

// Issue validates and sends one control command. Invalid intents are
// rejected before anything touches the wire.
func (d *Dispatcher) Issue(ctx context.Context, dev lgac.DeviceID, intent lgac.Intent) error {
	if err := intent.Validate(); err != nil {
		return fmt.Errorf("control device %s: %w", dev, err)
	}

	frame, err := lgac.EncodeControlRequest(dev, intent)
	if err != nil {
		return fmt.Errorf("control device %s: %w", dev, err)
	}

	if err := d.conn.Send(ctx, frame); err != nil {
		return fmt.Errorf("control device %s: %w", dev, err)
	}

	d.log.WithFields(logrus.Fields{
		"device": dev.String(),
		"frame":  fmt.Sprintf("% X", frame),
	}).Info("control command sent")
	return nil
}
