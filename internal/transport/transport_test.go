// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Pages in Korea (pages.kr)

package transport

import (
	"context"
	"io"
	"net"
	"sync/atomic"
	"testing"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/pageskr/lgacd/pkg/lgac"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

// statusFrame builds a checksummed wall-pad status response for tests.
func statusFrame(dev byte) []byte {
	f := []byte{0x10, 0x01, 0xA3, 0x00, dev, 0x00, 0x07, 0x30, 0x0D, 0x6C, 0x6C, 0x6C, 0x6C, 0x00, 0x00}
	return append(f, lgac.Checksum(f))
}

func TestBackoff(t *testing.T) {
	bo := newBackoff(time.Second, 8*time.Second)

	want := []time.Duration{
		time.Second, 2 * time.Second, 4 * time.Second,
		8 * time.Second, 8 * time.Second,
	}
	for i, w := range want {
		assert.Equal(t, w, bo.Next(), "attempt %d", i)
	}

	bo.Reset()
	assert.Equal(t, time.Second, bo.Next())
}

func TestSocketSendReceive(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	serverErr := make(chan error, 1)
	gotReq := make(chan []byte, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			serverErr <- err
			return
		}
		defer conn.Close()

		buf := make([]byte, 64)
		n, err := conn.Read(buf)
		if err != nil {
			serverErr <- err
			return
		}
		gotReq <- buf[:n]

		_, err = conn.Write(statusFrame(0x01))
		serverErr <- err
	}()

	addr := ln.Addr().(*net.TCPAddr)
	c, err := DialSocket(addr.IP.String(), addr.Port, testLogger())
	require.NoError(t, err)
	defer c.Close()

	poll, err := lgac.EncodePollRequest(1, false)
	require.NoError(t, err)
	require.NoError(t, c.Send(context.Background(), poll))

	select {
	case req := <-gotReq:
		assert.Equal(t, poll, req)
	case <-time.After(2 * time.Second):
		t.Fatal("server never saw the poll request")
	}

	select {
	case res := <-c.Frames():
		require.NoError(t, res.Err)
		assert.Equal(t, lgac.DeviceID(1), res.State.Device)
		assert.True(t, res.State.Power)
	case <-time.After(2 * time.Second):
		t.Fatal("no decoded frame received")
	}

	require.NoError(t, <-serverErr)
}

func TestDialSocketRefused(t *testing.T) {
	// A listener closed before dialing guarantees a dead port.
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	addr := ln.Addr().(*net.TCPAddr)
	ln.Close()

	_, err = DialSocket(addr.IP.String(), addr.Port, testLogger())
	assert.Error(t, err)
}

func TestSendWhileDown(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 1)
	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		accepted <- conn
	}()

	var dials atomic.Int32
	dial := func() (io.ReadWriteCloser, error) {
		dials.Add(1)
		return net.DialTimeout("tcp", ln.Addr().String(), connectTimeout)
	}

	// Long backoff keeps the link down for the duration of the test.
	s, err := newStream("test", dial, testLogger().WithField("transport", "test"),
		newBackoff(time.Minute, time.Minute))
	require.NoError(t, err)
	defer s.Close()

	var server net.Conn
	select {
	case server = <-accepted:
	case <-time.After(2 * time.Second):
		t.Fatal("server never accepted")
	}
	server.Close()

	require.Eventually(t, func() bool {
		err := s.Send(context.Background(), []byte{0x80, 0x00, 0xA3, 0x01})
		return err == ErrNotConnected
	}, 2*time.Second, 10*time.Millisecond, "Send should fail fast while the link is down")

	assert.Equal(t, int32(1), dials.Load(), "backoff should hold off the redial")
}

func TestReconnect(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	accepted := make(chan net.Conn, 2)
	go func() {
		for {
			conn, err := ln.Accept()
			if err != nil {
				return
			}
			accepted <- conn
		}
	}()

	dial := func() (io.ReadWriteCloser, error) {
		return net.DialTimeout("tcp", ln.Addr().String(), connectTimeout)
	}
	s, err := newStream("test", dial, testLogger().WithField("transport", "test"),
		newBackoff(10*time.Millisecond, 50*time.Millisecond))
	require.NoError(t, err)
	defer s.Close()

	var first net.Conn
	select {
	case first = <-accepted:
	case <-time.After(2 * time.Second):
		t.Fatal("first accept timed out")
	}

	// Feed half a frame, then drop the link. The leftover prefix must not
	// corrupt frames received on the next connection.
	_, err = first.Write(statusFrame(0x01)[:7])
	require.NoError(t, err)
	time.Sleep(50 * time.Millisecond)
	first.Close()

	var second net.Conn
	select {
	case second = <-accepted:
	case <-time.After(5 * time.Second):
		t.Fatal("no reconnect")
	}
	defer second.Close()

	_, err = second.Write(statusFrame(0x02))
	require.NoError(t, err)

	select {
	case res := <-s.Frames():
		require.NoError(t, res.Err)
		assert.Equal(t, lgac.DeviceID(2), res.State.Device)
	case <-time.After(2 * time.Second):
		t.Fatal("no frame after reconnect")
	}
}

// A broker message routed after Close has torn the connection down must
// be dropped, never pushed onto the closed frames channel.
func TestMQTTDeliverAfterClose(t *testing.T) {
	c := &mqttConn{
		frames: make(chan lgac.Result, 1),
		closed: make(chan struct{}),
	}
	close(c.closed)
	close(c.frames)

	assert.NotPanics(t, func() {
		c.deliver([]lgac.Result{{Frame: statusFrame(0x01)}})
	})
}

func TestCloseIsFinal(t *testing.T) {
	ln, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	defer ln.Close()

	go func() {
		conn, err := ln.Accept()
		if err != nil {
			return
		}
		io.Copy(io.Discard, conn)
		conn.Close()
	}()

	addr := ln.Addr().(*net.TCPAddr)
	c, err := DialSocket(addr.IP.String(), addr.Port, testLogger())
	require.NoError(t, err)

	require.NoError(t, c.Close())
	require.NoError(t, c.Close())

	assert.Equal(t, ErrClosed, c.Send(context.Background(), []byte{0x80}))

	select {
	case _, ok := <-c.Frames():
		assert.False(t, ok, "Frames should be closed")
	case <-time.After(2 * time.Second):
		t.Fatal("Frames never closed")
	}
}
