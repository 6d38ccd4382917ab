// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Pages in Korea (pages.kr)

// Package poller drives the wall-pad bus: it requests the status of every
// configured unit on a fixed interval and folds the responses into the
// state store. The bus is half duplex, so polls are spaced out instead of
// fired back to back.
package poller

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pageskr/lgacd/internal/store"
	"github.com/pageskr/lgacd/internal/transport"
	"github.com/pageskr/lgacd/pkg/lgac"
)

// pollGap leaves the bus idle between per-device poll requests so the
// addressed unit gets a window to answer.
const pollGap = 200 * time.Millisecond

// Poller owns the periodic scan cycle and the inbound frame drain.
type Poller struct {
	conn     transport.Conn
	store    *store.Store
	devices  []lgac.DeviceID
	interval time.Duration
	checksum bool
	log      *logrus.Entry

	statsMu sync.Mutex
	stats   lgac.Statistics
}

// New builds a Poller scanning the given devices every interval. checksum
// selects the five-byte poll request variant for wall pads that require it.
func New(conn transport.Conn, st *store.Store, devices []lgac.DeviceID, interval time.Duration, checksum bool, log *logrus.Logger) *Poller {
	return &Poller{
		conn:     conn,
		store:    st,
		devices:  devices,
		interval: interval,
		checksum: checksum,
		log:      log.WithField("component", "poller"),
		stats:    lgac.Statistics{StartTime: time.Now()},
	}
}

// Stats returns a copy of the frame counters accumulated so far.
func (p *Poller) Stats() lgac.Statistics {
	p.statsMu.Lock()
	defer p.statsMu.Unlock()
	return p.stats
}

// Run polls until the context is cancelled or the transport is closed.
// The first cycle starts immediately so state is available right away.
func (p *Poller) Run(ctx context.Context) error {
	ticker := time.NewTicker(p.interval)
	defer ticker.Stop()

	p.pollCycle(ctx)

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()

		case <-ticker.C:
			p.pollCycle(ctx)

		case res, ok := <-p.conn.Frames():
			if !ok {
				return transport.ErrClosed
			}
			p.ingest(res)
		}
	}
}

// pollCycle requests the status of each device in turn. A downed link
// skips the rest of the cycle; the next tick tries again.
func (p *Poller) pollCycle(ctx context.Context) {
	for i, dev := range p.devices {
		if i > 0 {
			select {
			case <-ctx.Done():
				return
			case res, ok := <-p.conn.Frames():
				if ok {
					p.ingest(res)
				}
			case <-time.After(pollGap):
			}
		}

		frame, err := lgac.EncodePollRequest(dev, p.checksum)
		if err != nil {
			p.log.WithError(err).Errorf("cannot build poll for device %s", dev)
			continue
		}
		if err := p.conn.Send(ctx, frame); err != nil {
			if errors.Is(err, transport.ErrNotConnected) {
				p.log.Debug("link down, skipping rest of poll cycle")
			} else {
				p.log.WithError(err).Warnf("poll of device %s failed", dev)
			}
			return
		}
	}
}

// ingest records one reassembled frame outcome. Decode failures (noise,
// checksum damage) only touch the counters; device state changes solely
// on valid responses.
func (p *Poller) ingest(res lgac.Result) {
	p.statsMu.Lock()
	p.stats.Update(res)
	p.statsMu.Unlock()

	if res.Err != nil {
		p.log.WithError(res.Err).Debugf("dropped frame % X", res.Frame)
		return
	}

	p.log.Debugf("device %s: %s", res.State.Device, statusLine(res.State))
	p.store.Update(res.State.Device, res.State)
}

func statusLine(st lgac.DeviceState) string {
	power := "off"
	if st.Power {
		power = "on"
	}
	return power + " " + st.Mode.String() + " " + st.Fan.String()
}
