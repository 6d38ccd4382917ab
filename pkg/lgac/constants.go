// SPDX-License-Identifier: Apache-2.0
// Copyright (c) 2026 Pages in Korea (pages.kr)

// Package lgac implements the LG air-conditioner wall-pad serial protocol.
//
// The protocol is a half-duplex byte stream carrying fixed-length frames
// between a controller and up to four indoor units on a shared RS-485 bus,
// usually reached through an EW11 serial-to-network bridge. This package
// provides request encoding, response decoding, checksum validation, and
// the streaming reassembler used on top of raw transports.
package lgac

// Request framing. Poll and control requests share the same prefix; the
// unit answers with one of the two response families below.
const (
	ReqHeader1 = 0x80
	ReqHeader2 = 0x00
	ReqMarker  = 0xA3
)

// Response family signatures. Which family a unit speaks depends on the
// wall-pad firmware revision, so the decoder recognizes both.
const (
	// Type10: 10 {source} A3 00 {dev} 00 {status} {opermode} {settemp}
	// {current} {pipe1} {pipe2} {outdoor} {..} {..} {checksum}
	RespType10Header = 0x10
	RespType10Marker = 0xA3

	// TypeB0: 80 00 B0 {len} {dev} {power} {mode} {settemp} {current}
	// {fan} {error} {filter} {..} {..} {..} {checksum}
	RespTypeB0Header1 = 0x80
	RespTypeB0Header2 = 0x00
	RespTypeB0Marker  = 0xB0
)

// Frame sizes in bytes.
const (
	PollFrameLen         = 4
	PollFrameChecksumLen = 5
	ControlFrameLen      = 8
	ResponseFrameLen     = 16
)

// Field offsets within a Type10 response frame.
const (
	off10Source   = 1
	off10Device   = 4
	off10Status   = 6
	off10Opermode = 7
	off10SetTemp  = 8
	off10Current  = 9
	off10Pipe1    = 10
	off10Pipe2    = 11
	off10Outdoor  = 12
)

// Field offsets within a TypeB0 response frame.
const (
	offB0Device  = 4
	offB0Power   = 5
	offB0Mode    = 6
	offB0SetTemp = 7
	offB0Current = 8
	offB0Fan     = 9
	offB0Error   = 10
	offB0Filter  = 11
)

// Device addressing and temperature domain.
const (
	MinDeviceID = 1
	MaxDeviceID = 4

	MinSetTemp = 18
	MaxSetTemp = 30

	// Set temperature travels on the wire as degrees minus this offset.
	setTempWireOffset = 15
)

// Opermode byte packing: bits 0-2 HVAC mode, bit 3 swing, bits 4-6 fan.
const (
	opermodeModeMask  = 0x07
	opermodeSwingBit  = 0x08
	opermodeFanShift  = 4
	opermodeFanMask   = 0x07
	opermodeFanInMask = 0x70
)

// Environmental temperature encoding for Type10 frames: degrees = 64 - raw/3.
// Raw values above this yield negative temperatures, which the sensors
// cannot produce; they are reported as TempUnknown instead.
const maxEnvTempRaw = 192

// TempUnknown is the sentinel for an environmental temperature that has not
// been observed or decodes outside the sensor range.
const TempUnknown float64 = -273
