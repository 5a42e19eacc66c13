/*
NAME
  packet.go

DESCRIPTION
  packet.go provides Packet, a thin wrapper around a raw 188-byte MPEG-2 TS
  packet, exposing the subset of fields the filtering core cares about: PID,
  the payload-unit-start-indicator, and an optional PCR recovered from the
  adaptation field.

AUTHORS
  Saxon A. Nelson-Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package tspacket provides read access to 188-byte MPEG-2 Transport Stream
// packets: PID, payload-unit-start-indicator, and adaptation-field PCR.
package tspacket

import (
	"fmt"

	gotspacket "github.com/Comcast/gots/v2/packet"
)

// Size is the fixed length of an MPEG-2 TS packet.
const Size = 188

// Well-known PIDs consumed by this module.
const (
	PIDPAT uint16 = 0x0000
	PIDEIT uint16 = 0x0012
)

// NullPID represents "no PID", used for pmt_pid/pcr_pid before they're known.
const NullPID = uint16(0x1FFF)

// Packet is an immutable view over a single 188-byte TS packet. The core
// treats a Packet as opaque except for PID, PUSI, and PCR.
type Packet struct {
	raw [Size]byte
}

// Parse validates and wraps a raw 188-byte slice as a Packet. The slice is
// copied; the returned Packet does not alias the caller's buffer.
func Parse(b []byte) (Packet, error) {
	var p Packet
	if len(b) != Size {
		return p, fmt.Errorf("tspacket: packet length %d, want %d", len(b), Size)
	}
	if b[0] != 0x47 {
		return p, fmt.Errorf("tspacket: bad sync byte 0x%02X", b[0])
	}
	copy(p.raw[:], b)
	return p, nil
}

// Bytes returns the packet's raw 188 bytes.
func (p Packet) Bytes() []byte {
	return p.raw[:]
}

// gots returns a gots packet.Packet view over the same bytes, for the field
// accessors gots already implements correctly (PID, continuity counter).
func (p Packet) gots() *gotspacket.Packet {
	var gp gotspacket.Packet
	copy(gp[:], p.raw[:])
	return &gp
}

// PID returns the packet's 13-bit packet identifier.
func (p Packet) PID() uint16 {
	return uint16(p.gots().PID())
}

// ContinuityCounter returns the packet's 4-bit continuity counter.
func (p Packet) ContinuityCounter() uint8 {
	return uint8(p.gots().ContinuityCounter())
}

// PUSI returns the packet's payload-unit-start-indicator (byte 1, bit 6).
func (p Packet) PUSI() bool {
	return p.raw[1]&0x40 != 0
}

// hasAdaptationField reports whether the adaptation-field-control bits in
// byte 3 indicate an adaptation field is present (AFC == 0b10 or 0b11).
func (p Packet) hasAdaptationField() bool {
	return p.raw[3]&0x20 != 0
}

// hasPayload reports whether the adaptation-field-control bits in byte 3
// indicate a payload is present (AFC == 0b01 or 0b11).
func (p Packet) hasPayload() bool {
	return p.raw[3]&0x10 != 0
}

// Payload returns the packet's payload, skipping the 4-byte header and any
// adaptation field. Returns nil if the packet carries no payload.
func (p Packet) Payload() []byte {
	if !p.hasPayload() {
		return nil
	}
	off := 4
	if p.hasAdaptationField() {
		off += 1 + int(p.raw[4])
	}
	if off >= Size {
		return nil
	}
	return p.raw[off:]
}

// pcrFlagSet reports whether the adaptation field carries a PCR, per
// ISO/IEC 13818-1 Table 2-6 (byte 5, bit 4 of the adaptation field).
func (p Packet) pcrFlagSet() bool {
	return p.hasAdaptationField() && p.raw[4] > 0 && p.raw[5]&0x10 != 0
}

// PCR returns the packet's Program Clock Reference as a single PCR-ticks
// integer (33-bit base x300 + 9-bit extension), and whether one was present.
// Bytes 6-11 of the packet (the first 6 bytes of the adaptation field body)
// hold the 33-bit base, a reserved bit, and the 9-bit extension.
func (p Packet) PCR() (pcr int64, ok bool) {
	if !p.pcrFlagSet() {
		return 0, false
	}
	b := p.raw[6:12]
	base := uint64(b[0])<<25 | uint64(b[1])<<17 | uint64(b[2])<<9 | uint64(b[3])<<1 | uint64(b[4])>>7
	ext := (uint64(b[4]&0x01) << 8) | uint64(b[5])
	return int64(base*300 + ext), true
}
