// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Pages in Korea (pages.kr)

package store

import (
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageskr/lgacd/pkg/lgac"
)

func validState(dev lgac.DeviceID, temp int) lgac.DeviceState {
	st := lgac.NewDeviceState(dev)
	st.Power = true
	st.SetTemp = temp
	st.Valid = true
	st.LastUpdated = time.Now()
	return st
}

func TestGet_LazyDefault(t *testing.T) {
	s := New()

	st := s.Get(2)
	assert.Equal(t, lgac.DeviceID(2), st.Device)
	assert.False(t, st.Valid)
	assert.Equal(t, lgac.TempUnknown, st.CurrentTemp)
}

func TestUpdate_ReplacesWholesale(t *testing.T) {
	s := New()

	s.Update(1, validState(1, 24))
	s.Update(1, validState(1, 26))

	st := s.Get(1)
	assert.Equal(t, 26, st.SetTemp)
	assert.True(t, st.Valid)
}

func TestSnapshot(t *testing.T) {
	s := New()
	s.Update(1, validState(1, 22))
	s.Update(3, validState(3, 25))

	snap := s.Snapshot()
	require.Len(t, snap, 2)
	assert.Equal(t, 22, snap[1].SetTemp)
	assert.Equal(t, 25, snap[3].SetTemp)
}

func TestSubscribe_ReceivesUpdates(t *testing.T) {
	s := New()
	ch, cancel := s.Subscribe(1)
	defer cancel()

	s.Update(1, validState(1, 24))

	select {
	case st := <-ch:
		assert.Equal(t, 24, st.SetTemp)
	case <-time.After(time.Second):
		t.Fatal("no notification")
	}
}

func TestSubscribe_LatestWinsWhenSlow(t *testing.T) {
	s := New()
	ch, cancel := s.Subscribe(1)
	defer cancel()

	// Nobody reading: the single-slot buffer keeps only the newest.
	s.Update(1, validState(1, 20))
	s.Update(1, validState(1, 21))
	s.Update(1, validState(1, 29))

	select {
	case st := <-ch:
		assert.Equal(t, 29, st.SetTemp)
	case <-time.After(time.Second):
		t.Fatal("no notification")
	}
}

func TestSubscribe_OtherDeviceNotNotified(t *testing.T) {
	s := New()
	ch, cancel := s.Subscribe(2)
	defer cancel()

	s.Update(1, validState(1, 24))

	select {
	case st := <-ch:
		t.Fatalf("unexpected notification: %+v", st)
	case <-time.After(50 * time.Millisecond):
	}
}

func TestCancel_IsIdempotentAndIsolated(t *testing.T) {
	s := New()
	ch1, cancel1 := s.Subscribe(1)
	ch2, cancel2 := s.Subscribe(1)
	defer cancel2()

	cancel1()
	cancel1() // second call is a no-op

	s.Update(1, validState(1, 24))

	select {
	case _, ok := <-ch1:
		assert.False(t, ok, "cancelled channel should be closed")
	default:
	}

	select {
	case st := <-ch2:
		assert.Equal(t, 24, st.SetTemp)
	case <-time.After(time.Second):
		t.Fatal("surviving subscriber missed the update")
	}
}

func TestConcurrentReadersAndWriter(t *testing.T) {
	s := New()
	const writes = 200

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for i := 0; i < writes; i++ {
			s.Update(1, validState(1, lgac.MinSetTemp+i%12))
		}
	}()

	for r := 0; r < 4; r++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := 0; i < writes; i++ {
				st := s.Get(1)
				// A reader sees either the default or a committed state,
				// never a torn one.
				if st.Valid {
					assert.True(t, st.SetTemp >= lgac.MinSetTemp && st.SetTemp <= lgac.MaxSetTemp)
				}
			}
		}()
	}
	wg.Wait()
}
