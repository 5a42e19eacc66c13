/*
NAME
  demux.go

DESCRIPTION
  demux.go provides SectionDemux, a push-model section reassembler: it is
  fed TS packets one at a time for a configured set of PIDs, reassembles
  each PID's section stream, validates section CRCs, and dispatches
  complete sections to a registered handler keyed by table ID.

AUTHOR
  Saxon Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

// Package psi provides reassembly and decoding of MPEG-2 PSI/SI tables
// (PAT, PMT, and ARIB/DVB EIT present/following) from a TS packet stream.
package psi

import (
	"encoding/binary"

	"github.com/ausocean/tsfilter/tspacket"
)

// TableHandler is invoked once per complete, CRC-valid section. section
// starts at the table_id byte and runs through the trailing CRC_32.
type TableHandler func(tableID uint8, sourcePID uint16, section []byte)

// pidBuffer tracks in-progress reassembly for one PID.
type pidBuffer struct {
	buf         []byte
	lastCC      uint8
	wantLen     int // always -1; drain reads section_length from buf instead.
	haveStarted bool
}

// SectionDemux reassembles sections from TS packets for a configured set of
// PIDs and dispatches completed, CRC-valid sections to a TableHandler. The
// demux is fed every packet the caller receives, regardless of that
// caller's own forwarding decisions; PIDs may be added and removed between
// Feed calls.
type SectionDemux struct {
	onTable TableHandler
	pids    map[uint16]*pidBuffer
}

// NewSectionDemux returns a SectionDemux that calls onTable for every
// complete, CRC-valid section on a subscribed PID.
func NewSectionDemux(onTable TableHandler) *SectionDemux {
	return &SectionDemux{
		onTable: onTable,
		pids:    make(map[uint16]*pidBuffer),
	}
}

// AddPID subscribes pid for section reassembly. A no-op if already
// subscribed.
func (d *SectionDemux) AddPID(pid uint16) {
	if _, ok := d.pids[pid]; ok {
		return
	}
	d.pids[pid] = &pidBuffer{wantLen: -1}
}

// RemovePID unsubscribes pid; any partially reassembled section for it is
// discarded.
func (d *SectionDemux) RemovePID(pid uint16) {
	delete(d.pids, pid)
}

// HasPID reports whether pid is currently subscribed.
func (d *SectionDemux) HasPID(pid uint16) bool {
	_, ok := d.pids[pid]
	return ok
}

// Feed processes one TS packet, advancing reassembly for its PID if
// subscribed. Packets on PIDs that aren't subscribed are ignored.
func (d *SectionDemux) Feed(p tspacket.Packet) {
	pid := p.PID()
	pb, ok := d.pids[pid]
	if !ok {
		return
	}

	payload := p.Payload()
	if payload == nil {
		return
	}

	cc := p.ContinuityCounter()
	if pb.haveStarted && !p.PUSI() {
		if cc == pb.lastCC {
			return // repeated packet, already counted.
		}
		if !continuous(pb.lastCC, cc) {
			// Discontinuity: drop the in-progress section.
			*pb = pidBuffer{wantLen: -1}
			return
		}
	}

	if p.PUSI() {
		pointer := int(payload[0])
		if 1+pointer > len(payload) {
			// pointer_field points past the end of this packet's payload:
			// a malformed section header. Drop it and wait for the next
			// PUSI packet to resync, the same as an invalid section CRC.
			*pb = pidBuffer{wantLen: -1}
			return
		}
		rest := payload[1+pointer:]
		*pb = pidBuffer{buf: append([]byte{}, rest...), lastCC: cc, wantLen: -1, haveStarted: true}
	} else if pb.haveStarted {
		pb.buf = append(pb.buf, payload...)
		pb.lastCC = cc
	} else {
		return // no section started yet on this PID.
	}

	d.drain(pid, pb)
}

// continuous reports whether cc is the next continuity counter after last,
// modulo 16.
func continuous(last, cc uint8) bool {
	return (last+1)&0xf == cc
}

// drain dispatches as many complete sections as pb.buf currently holds,
// which may be more than one when several short sections share packets.
func (d *SectionDemux) drain(pid uint16, pb *pidBuffer) {
	for {
		if len(pb.buf) == 0 || pb.buf[0] == 0xFF {
			// Stuffing byte(s) following the last section in this packet.
			pb.buf = nil
			return
		}
		if len(pb.buf) < 3 {
			return // not enough to read section_length yet.
		}
		sectionLen := int(binary.BigEndian.Uint16(pb.buf[1:3])&0x0FFF) + 3
		if len(pb.buf) < sectionLen {
			return // still waiting on more packets.
		}

		section := pb.buf[:sectionLen]
		if ValidCRC(section) {
			d.onTable(section[0], pid, section)
		}
		pb.buf = pb.buf[sectionLen:]
	}
}
