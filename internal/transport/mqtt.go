// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Pages in Korea (pages.kr)

package transport

import (
	"context"
	"encoding/hex"
	"fmt"
	"strings"
	"sync"

	mqtt "github.com/eclipse/paho.mqtt.golang"
	"github.com/sirupsen/logrus"

	"github.com/pageskr/lgacd/pkg/lgac"
)

// MQTTOptions configures the broker-relayed transport. The receive topic
// carries the raw byte stream from the bridge; the send topic accepts
// either raw bytes (EW11 in MQTT mode) or hex text (the forwarder
// variant), selected by HexSend.
type MQTTOptions struct {
	Broker    string
	Username  string
	Password  string
	TopicSend string
	TopicRecv string
	HexSend   bool
}

type mqttConn struct {
	client  mqtt.Client
	opts    MQTTOptions
	log     *logrus.Entry
	frames  chan lgac.Result
	decoder *lgac.Decoder

	mu     sync.Mutex   // guards decoder
	sendMu sync.RWMutex // excludes frame delivery during Close
	closed chan struct{}
	once   sync.Once
}

// DialMQTT connects to the broker and subscribes the receive topic. The
// paho client owns reconnection; subscriptions are re-established by the
// on-connect handler.
func DialMQTT(o MQTTOptions, log *logrus.Logger) (Conn, error) {
	c := &mqttConn{
		opts:    o,
		log:     log.WithField("transport", "mqtt"),
		frames:  make(chan lgac.Result, 16),
		decoder: lgac.NewDecoder(),
		closed:  make(chan struct{}),
	}

	opts := mqtt.NewClientOptions()
	opts.AddBroker(normalizeBroker(o.Broker))
	if o.Username != "" {
		opts.SetUsername(o.Username)
		opts.SetPassword(o.Password)
	}
	opts.SetClientID("lgacd")
	opts.SetAutoReconnect(true)
	opts.SetConnectTimeout(connectTimeout)
	opts.SetOnConnectHandler(func(client mqtt.Client) {
		c.log.Info("connected to broker")
		client.Subscribe(o.TopicRecv, 0, c.onMessage)
	})
	opts.SetConnectionLostHandler(func(_ mqtt.Client, err error) {
		c.log.WithError(err).Warn("broker connection lost")
	})

	c.client = mqtt.NewClient(opts)
	if token := c.client.Connect(); token.Wait() && token.Error() != nil {
		return nil, fmt.Errorf("connect %s: %w", o.Broker, token.Error())
	}
	return c, nil
}

func (c *mqttConn) Frames() <-chan lgac.Result {
	return c.frames
}

func (c *mqttConn) Send(ctx context.Context, frame []byte) error {
	select {
	case <-c.closed:
		return ErrClosed
	default:
	}
	if !c.client.IsConnected() {
		return ErrNotConnected
	}

	var payload []byte
	if c.opts.HexSend {
		payload = []byte(hex.EncodeToString(frame))
	} else {
		payload = frame
	}

	token := c.client.Publish(c.opts.TopicSend, 0, false, payload)
	if !token.WaitTimeout(writeTimeout) {
		return fmt.Errorf("publish %s: %w", c.opts.TopicSend, context.DeadlineExceeded)
	}
	if err := token.Error(); err != nil {
		return fmt.Errorf("publish %s: %w", c.opts.TopicSend, err)
	}
	return nil
}

func (c *mqttConn) Close() error {
	c.once.Do(func() {
		close(c.closed)
		c.client.Disconnect(250)
		c.sendMu.Lock()
		close(c.frames)
		c.sendMu.Unlock()
	})
	return nil
}

// onMessage ingests one payload from the receive topic. Payloads are
// normally raw bytes, but a forwarder publishing hex text is tolerated.
func (c *mqttConn) onMessage(_ mqtt.Client, msg mqtt.Message) {
	payload := msg.Payload()
	if decoded, ok := decodeHexPayload(payload); ok {
		payload = decoded
	}

	c.mu.Lock()
	results := c.decoder.Feed(payload)
	c.mu.Unlock()

	c.deliver(results)
}

// deliver pushes frame outcomes downstream. Holding the read lock keeps
// Close from closing the frames channel mid-send; the up-front closed
// check covers a paho router callback arriving after Close has finished.
func (c *mqttConn) deliver(results []lgac.Result) {
	c.sendMu.RLock()
	defer c.sendMu.RUnlock()

	select {
	case <-c.closed:
		return
	default:
	}

	for _, res := range results {
		select {
		case c.frames <- res:
		case <-c.closed:
			return
		}
	}
}

// decodeHexPayload converts an even-length all-hex-digit text payload to
// raw bytes. Binary frames never look like hex text: they start with
// 0x10 or 0x80, neither of which is an ASCII hex digit.
func decodeHexPayload(p []byte) ([]byte, bool) {
	if len(p) < 2 || len(p)%2 != 0 {
		return nil, false
	}
	for _, b := range p {
		if !isHexDigit(b) {
			return nil, false
		}
	}
	decoded, err := hex.DecodeString(string(p))
	if err != nil {
		return nil, false
	}
	return decoded, true
}

func isHexDigit(b byte) bool {
	return (b >= '0' && b <= '9') || (b >= 'a' && b <= 'f') || (b >= 'A' && b <= 'F')
}

func normalizeBroker(broker string) string {
	if strings.Contains(broker, "://") {
		return broker
	}
	return "tcp://" + broker
}
