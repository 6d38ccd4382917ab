// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Pages in Korea (pages.kr)

package lgac

import (
	"errors"
	"fmt"
)

// Decode and encode failures. Decode errors mean the frame must be
// discarded without touching any cached state; encode errors are returned
// before any bytes are produced.
var (
	ErrTooShort           = errors.New("frame too short")
	ErrUnrecognizedHeader = errors.New("unrecognized frame header")
	ErrChecksumMismatch   = errors.New("checksum mismatch")
	ErrInvalidDevice      = errors.New("device id out of range")
	ErrOutOfRange         = errors.New("set temperature out of range")
	ErrInvalidIntent      = errors.New("invalid command intent")
)

// DecodeError wraps one of the sentinel decode errors with the offending
// frame bytes for diagnostics.
type DecodeError struct {
	Frame []byte
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode % X: %v", e.Frame, e.Err)
}

func (e *DecodeError) Unwrap() error { return e.Err }

func decodeErr(frame []byte, err error) error {
	return &DecodeError{Frame: frame, Err: err}
}
