// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Pages in Korea (pages.kr)

// Package store holds the latest known state of every indoor unit and
// fans out change notifications to subscribers.
package store

import (
	"sync"

	"github.com/pageskr/lgacd/pkg/lgac"
)

// Store is a concurrency-safe map of device id to the last checksum-valid
// state. Updates replace the record wholesale, so readers never observe a
// half-written state. Writes are linearizable per device; there is no
// ordering guarantee across devices.
type Store struct {
	mu      sync.RWMutex
	states  map[lgac.DeviceID]lgac.DeviceState
	subs    map[lgac.DeviceID]map[uint64]chan lgac.DeviceState
	nextSub uint64
}

// New creates an empty store. Device records are created lazily on first
// reference and live until the store is discarded.
func New() *Store {
	return &Store{
		states: make(map[lgac.DeviceID]lgac.DeviceState),
		subs:   make(map[lgac.DeviceID]map[uint64]chan lgac.DeviceState),
	}
}

// Get returns the latest committed state for a device, or the lazy
// default (Valid=false) if nothing has ever been decoded for it. Never
// blocks.
func (s *Store) Get(dev lgac.DeviceID) lgac.DeviceState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if st, ok := s.states[dev]; ok {
		return st
	}
	return lgac.NewDeviceState(dev)
}

// Snapshot returns the latest state of every device ever referenced.
func (s *Store) Snapshot() map[lgac.DeviceID]lgac.DeviceState {
	s.mu.RLock()
	defer s.mu.RUnlock()

	snap := make(map[lgac.DeviceID]lgac.DeviceState, len(s.states))
	for dev, st := range s.states {
		snap[dev] = st
	}
	return snap
}

// Update atomically replaces the state for a device and notifies its
// subscribers. A slow subscriber never blocks the writer: each
// subscription buffers exactly one pending state and newer states
// overwrite older unread ones.
func (s *Store) Update(dev lgac.DeviceID, st lgac.DeviceState) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.states[dev] = st

	for _, ch := range s.subs[dev] {
		select {
		case ch <- st:
		default:
			// Drop the stale pending state, then deliver the new one.
			select {
			case <-ch:
			default:
			}
			select {
			case ch <- st:
			default:
			}
		}
	}
}

// Subscribe returns a channel of state changes for one device and a
// cancel function. Cancelling is idempotent and has no effect on the
// store or other subscribers; resubscribing starts a fresh stream.
func (s *Store) Subscribe(dev lgac.DeviceID) (<-chan lgac.DeviceState, func()) {
	s.mu.Lock()
	defer s.mu.Unlock()

	id := s.nextSub
	s.nextSub++

	ch := make(chan lgac.DeviceState, 1)
	if s.subs[dev] == nil {
		s.subs[dev] = make(map[uint64]chan lgac.DeviceState)
	}
	s.subs[dev][id] = ch

	var once sync.Once
	cancel := func() {
		once.Do(func() {
			s.mu.Lock()
			defer s.mu.Unlock()
			delete(s.subs[dev], id)
			close(ch)
		})
	}
	return ch, cancel
}
