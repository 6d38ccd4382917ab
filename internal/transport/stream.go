// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Pages in Korea (pages.kr)

package transport

import (
	"context"
	"fmt"
	"io"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/pageskr/lgacd/pkg/lgac"
)

// stream supervises one byte-stream link (TCP or serial): it owns the
// read loop, feeds the frame reassembler, and redials with bounded
// backoff when the link drops. The initial dial is synchronous so a bad
// address fails fast; afterwards the caller never sees the reconnects,
// only ErrNotConnected from Send while the link is down.
type stream struct {
	name string
	dial func() (io.ReadWriteCloser, error)
	log  *logrus.Entry

	frames  chan lgac.Result
	decoder *lgac.Decoder

	mu sync.Mutex // guards rw and serializes writes
	rw io.ReadWriteCloser

	closed chan struct{}
	once   sync.Once

	bo *backoff
}

func newStream(name string, dial func() (io.ReadWriteCloser, error), log *logrus.Entry, bo *backoff) (*stream, error) {
	rw, err := dial()
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", name, err)
	}

	s := &stream{
		name:    name,
		dial:    dial,
		log:     log,
		frames:  make(chan lgac.Result, 16),
		decoder: lgac.NewDecoder(),
		rw:      rw,
		closed:  make(chan struct{}),
		bo:      bo,
	}
	go s.run()
	return s, nil
}

func (s *stream) Frames() <-chan lgac.Result {
	return s.frames
}

// Send writes one frame, serialized with any concurrent sender so partial
// frames never interleave on the half-duplex wire.
func (s *stream) Send(ctx context.Context, frame []byte) error {
	select {
	case <-s.closed:
		return ErrClosed
	default:
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if s.rw == nil {
		return ErrNotConnected
	}

	deadline := time.Now().Add(writeTimeout)
	if d, ok := ctx.Deadline(); ok && d.Before(deadline) {
		deadline = d
	}
	if wd, ok := s.rw.(interface{ SetWriteDeadline(time.Time) error }); ok {
		_ = wd.SetWriteDeadline(deadline)
	}

	if _, err := s.rw.Write(frame); err != nil {
		return fmt.Errorf("write %s: %w", s.name, err)
	}
	return nil
}

// Close tears the link down and unblocks the read loop; Frames is closed
// once the loop has drained.
func (s *stream) Close() error {
	s.once.Do(func() {
		close(s.closed)
		s.mu.Lock()
		if s.rw != nil {
			s.rw.Close()
		}
		s.mu.Unlock()
	})
	return nil
}

func (s *stream) run() {
	defer close(s.frames)

	for {
		s.mu.Lock()
		rw := s.rw
		s.mu.Unlock()

		if rw != nil {
			s.readLoop(rw)

			s.mu.Lock()
			s.rw = nil
			s.mu.Unlock()
			rw.Close()
			s.decoder.Reset()
		}

		select {
		case <-s.closed:
			return
		case <-time.After(s.bo.Next()):
		}

		next, err := s.dial()
		if err != nil {
			s.log.WithError(err).Warnf("reconnect to %s failed", s.name)
			continue
		}

		s.bo.Reset()
		s.log.Infof("reconnected to %s", s.name)
		s.mu.Lock()
		s.rw = next
		s.mu.Unlock()
	}
}

// readLoop reads until the link errors out, pushing every reassembled
// frame outcome downstream.
func (s *stream) readLoop(rw io.Reader) {
	buf := make([]byte, 512)
	for {
		n, err := rw.Read(buf)
		if n > 0 {
			s.log.Debugf("RX % X", buf[:n])
			for _, res := range s.decoder.Feed(buf[:n]) {
				select {
				case s.frames <- res:
				case <-s.closed:
					return
				}
			}
		}
		if err != nil {
			select {
			case <-s.closed:
			default:
				s.log.WithError(err).Warnf("%s read failed", s.name)
			}
			return
		}
	}
}
