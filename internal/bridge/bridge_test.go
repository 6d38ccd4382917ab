// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Pages in Korea (pages.kr)

package bridge

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageskr/lgacd/pkg/lgac"
)

func TestStateDoc(t *testing.T) {
	st := lgac.DeviceState{
		Device:      2,
		Power:       true,
		Mode:        lgac.ModeHeat,
		Fan:         lgac.FanHigh,
		Swing:       lgac.SwingAuto,
		SetTemp:     22,
		CurrentTemp: 24.5,
		Pipe1Temp:   lgac.TempUnknown,
		Pipe2Temp:   lgac.TempUnknown,
		OutdoorTemp: lgac.TempUnknown,
		LastUpdated: time.Date(2026, 3, 1, 12, 0, 0, 0, time.UTC),
	}

	raw, err := json.Marshal(stateDoc(st))
	require.NoError(t, err)

	var got map[string]any
	require.NoError(t, json.Unmarshal(raw, &got))

	assert.Equal(t, "02", got["device"])
	assert.Equal(t, true, got["power"])
	assert.Equal(t, "heat", got["mode"])
	assert.Equal(t, "high", got["fan"])
	assert.Equal(t, "auto", got["swing"])
	assert.Equal(t, float64(22), got["set_temp"])
	assert.Equal(t, 24.5, got["current_temp"])
	assert.Equal(t, "2026-03-01T12:00:00Z", got["updated_at"])

	// Unknown sensor readings must be omitted, not rendered as -273.
	_, hasPipe1 := got["pipe1_temp"]
	assert.False(t, hasPipe1)
	_, hasOutdoor := got["outdoor_temp"]
	assert.False(t, hasOutdoor)
}

func TestChangedDedupesPerTopic(t *testing.T) {
	b := &Bridge{last: make(map[string][]byte)}

	assert.True(t, b.changed("lgac/state/01", []byte("aa")))
	assert.False(t, b.changed("lgac/state/01", []byte("aa")))
	assert.True(t, b.changed("lgac/state/01", []byte("bb")))

	// Same payload on a different topic is still new.
	assert.True(t, b.changed("lgac/state/02", []byte("bb")))
}
