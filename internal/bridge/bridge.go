// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Pages in Korea (pages.kr)

// Package bridge republishes device state to an MQTT broker so Home
// Assistant and other consumers can follow the units without speaking the
// wall-pad protocol themselves.
package bridge

import (
	"context"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"

	"github.com/pageskr/lgacd/internal/store"
	"github.com/pageskr/lgacd/pkg/lgac"
)

const (
	connectTimeout = 5 * time.Second
	publishTimeout = 5 * time.Second
)

// Options configures the state republisher.
type Options struct {
	Broker      string
	Username    string
	Password    string
	TopicPrefix string // per-device topics are {prefix}/{nn} and {prefix}/{nn}/json
	Discovery   bool   // announce devices via Home Assistant MQTT discovery
}

// Bridge mirrors store updates onto retained MQTT topics, one pair per
// device: the raw response frame as hex text and a JSON rendering of the
// decoded state. Unchanged states are not republished.
type Bridge struct {
	client  mqtt.Client
	store   *store.Store
	devices []lgac.DeviceID
	opts    Options
	log     *logrus.Entry

	mu   sync.Mutex
	last map[string][]byte // topic -> last published payload
}

// New connects to the broker and returns a Bridge ready to Run.
func New(st *store.Store, devices []lgac.DeviceID, opts Options, log *logrus.Logger) (*Bridge, error) {
	b := &Bridge{
		store:   st,
		devices: devices,
		opts:    opts,
		log:     log.WithField("component", "bridge"),
		last:    make(map[string][]byte),
	}

	co := mqtt.NewClientOptions().
		AddBroker(opts.Broker).
		SetClientID("lgacd-bridge").
		SetAutoReconnect(true).
		SetConnectionLostHandler(func(_ mqtt.Client, err error) {
			b.log.WithError(err).Warn("state broker connection lost")
		})
	if opts.Username != "" {
		co.SetUsername(opts.Username)
		co.SetPassword(opts.Password)
	}

	b.client = mqtt.NewClient(co)
	token := b.client.Connect()
	if !token.WaitTimeout(connectTimeout) {
		return nil, fmt.Errorf("connect state broker %s: timeout", opts.Broker)
	}
	if err := token.Error(); err != nil {
		return nil, fmt.Errorf("connect state broker %s: %w", opts.Broker, err)
	}
	return b, nil
}

// Run announces the devices, then mirrors every store update until the
// context is cancelled.
func (b *Bridge) Run(ctx context.Context) error {
	if b.opts.Discovery {
		for _, dev := range b.devices {
			if err := b.announce(dev); err != nil {
				b.log.WithError(err).Warnf("discovery for device %s failed", dev)
			}
		}
	}

	var wg sync.WaitGroup
	for _, dev := range b.devices {
		updates, cancel := b.store.Subscribe(dev)
		defer cancel()

		wg.Add(1)
		go func(dev lgac.DeviceID) {
			defer wg.Done()
			for {
				select {
				case <-ctx.Done():
					return
				case st, ok := <-updates:
					if !ok {
						return
					}
					b.publishState(dev, st)
				}
			}
		}(dev)
	}

	wg.Wait()
	b.client.Disconnect(250)
	return ctx.Err()
}

// publishState mirrors one state onto the device's retained topics.
func (b *Bridge) publishState(dev lgac.DeviceID, st lgac.DeviceState) {
	base := fmt.Sprintf("%s/%s", b.opts.TopicPrefix, dev)

	if len(st.Raw) > 0 {
		b.publish(base, []byte(hex.EncodeToString(st.Raw)))
	}

	doc, err := json.Marshal(stateDoc(st))
	if err != nil {
		b.log.WithError(err).Errorf("cannot encode state of device %s", dev)
		return
	}
	b.publish(base+"/json", doc)
}

// publish sends one retained payload, skipping exact repeats.
func (b *Bridge) publish(topic string, payload []byte) {
	if !b.changed(topic, payload) {
		return
	}

	token := b.client.Publish(topic, 0, true, payload)
	if !token.WaitTimeout(publishTimeout) {
		b.log.Warnf("publish %s timed out", topic)
		return
	}
	if err := token.Error(); err != nil {
		b.log.WithError(err).Warnf("publish %s failed", topic)
	}
}

// changed records the payload and reports whether it differs from the one
// last seen on the topic.
func (b *Bridge) changed(topic string, payload []byte) bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if prev, ok := b.last[topic]; ok && string(prev) == string(payload) {
		return false
	}
	b.last[topic] = payload
	return true
}

// stateJSON is the wire shape of the per-device JSON topic.
type stateJSON struct {
	Device      string   `json:"device"`
	Power       bool     `json:"power"`
	Locked      bool     `json:"locked"`
	Mode        string   `json:"mode"`
	Fan         string   `json:"fan"`
	Swing       string   `json:"swing"`
	SetTemp     int      `json:"set_temp"`
	CurrentTemp *float64 `json:"current_temp,omitempty"`
	Pipe1Temp   *float64 `json:"pipe1_temp,omitempty"`
	Pipe2Temp   *float64 `json:"pipe2_temp,omitempty"`
	OutdoorTemp *float64 `json:"outdoor_temp,omitempty"`
	ErrorCode   byte     `json:"error_code"`
	FilterAlarm bool     `json:"filter_alarm"`
	UpdatedAt   string   `json:"updated_at"`
}

func stateDoc(st lgac.DeviceState) stateJSON {
	return stateJSON{
		Device:      st.Device.String(),
		Power:       st.Power,
		Locked:      st.Locked,
		Mode:        st.Mode.String(),
		Fan:         st.Fan.String(),
		Swing:       st.Swing.String(),
		SetTemp:     st.SetTemp,
		CurrentTemp: knownTemp(st.CurrentTemp),
		Pipe1Temp:   knownTemp(st.Pipe1Temp),
		Pipe2Temp:   knownTemp(st.Pipe2Temp),
		OutdoorTemp: knownTemp(st.OutdoorTemp),
		ErrorCode:   st.ErrorCode,
		FilterAlarm: st.FilterAlarm,
		UpdatedAt:   st.LastUpdated.UTC().Format(time.RFC3339),
	}
}

// knownTemp hides sensor readings the frame did not carry.
func knownTemp(t float64) *float64 {
	if t == lgac.TempUnknown {
		return nil
	}
	return &t
}

// announce publishes a Home Assistant MQTT discovery config describing the
// device's JSON state topic.
func (b *Bridge) announce(dev lgac.DeviceID) error {
	stateTopic := fmt.Sprintf("%s/%s/json", b.opts.TopicPrefix, dev)

	cfg := map[string]any{
		"name":                         fmt.Sprintf("LG AC %s", dev),
		"unique_id":                    fmt.Sprintf("lgac_%s", dev),
		"modes":                        []string{"off", "cool", "dry", "fan_only", "auto", "heat"},
		"fan_modes":                    []string{"low", "mid", "high", "auto", "quiet", "power"},
		"min_temp":                     lgac.MinSetTemp,
		"max_temp":                     lgac.MaxSetTemp,
		"temp_step":                    1,
		"mode_state_topic":             stateTopic,
		"mode_state_template":          "{{ 'off' if not value_json.power else ('fan_only' if value_json.mode == 'fan' else value_json.mode) }}",
		"fan_mode_state_topic":         stateTopic,
		"fan_mode_state_template":      "{{ value_json.fan }}",
		"temperature_state_topic":      stateTopic,
		"temperature_state_template":   "{{ value_json.set_temp }}",
		"current_temperature_topic":    stateTopic,
		"current_temperature_template": "{{ value_json.current_temp }}",
	}

	payload, err := json.Marshal(cfg)
	if err != nil {
		return err
	}

	topic := fmt.Sprintf("homeassistant/climate/lgac_%s/config", dev)
	token := b.client.Publish(topic, 0, true, payload)
	if !token.WaitTimeout(publishTimeout) {
		return fmt.Errorf("publish %s: timeout", topic)
	}
	return token.Error()
}
