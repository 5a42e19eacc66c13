/*
NAME
  eit.go

DESCRIPTION
  eit.go decodes an Event Information Table present/following (actual)
  section into the up-to-two events (present, following) it carries.
  Event descriptors (short/extended event, content, audio component, etc.)
  are skipped; this module only needs event identity, start time, and
  duration.

AUTHOR
  Saxon Milton <saxon@ausocean.org>

LICENSE
  Copyright (C) 2024 the Australian Ocean Lab (AusOcean). All Rights Reserved.

  The Software and all intellectual property rights associated
  therewith, including but not limited to copyrights, trademarks,
  patents, and trade secrets, are and will remain the exclusive
  property of the Australian Ocean Lab (AusOcean).
*/

package psi

import (
	"encoding/binary"
	"fmt"
	"math"
	"time"
)

// TableIDEITPresentFollowingActual is the table ID of an EIT present/
// following section describing the actual (current) transport stream, the
// only EIT sub-table this module consumes.
const TableIDEITPresentFollowingActual = 0x4E

// EITEvent is one event entry (present or following) from an EIT section.
type EITEvent struct {
	EventID   uint16
	StartTime time.Time
	Duration  time.Duration
}

// EIT is a decoded EIT present/following (actual) section. Events holds
// every event entry of the section in the order it appeared: present at
// index 0, following at index 1 (broadcasters are required to emit present
// before following, but this module does not re-sort). DecodeEIT does not
// limit the number of entries to two.
type EIT struct {
	ServiceID         uint16
	TransportStreamID uint16
	OriginalNetworkID uint16
	Events            []EITEvent
}

// DecodeEIT decodes section, which must start at the table_id byte and have
// already passed CRC validation (see ValidCRC).
func DecodeEIT(section []byte) (EIT, error) {
	var eit EIT
	if len(section) < 14+4 {
		return eit, fmt.Errorf("psi: EIT section too short (%d bytes)", len(section))
	}
	if section[0] != TableIDEITPresentFollowingActual {
		return eit, fmt.Errorf("psi: section table_id 0x%02X is not EIT p/f actual", section[0])
	}
	if section[1]&0xC0 != 0x80 {
		return eit, fmt.Errorf("psi: EIT section_syntax_indicator not set")
	}

	eit.ServiceID = binary.BigEndian.Uint16(section[3:5])
	eit.TransportStreamID = binary.BigEndian.Uint16(section[8:10])
	eit.OriginalNetworkID = binary.BigEndian.Uint16(section[10:12])

	body := section[14 : len(section)-4]
	for len(body) > 0 {
		ev, consumed, err := decodeEventEntry(body)
		if err != nil {
			return eit, err
		}
		eit.Events = append(eit.Events, ev)
		body = body[consumed:]
	}
	return eit, nil
}

// decodeEventEntry decodes one event_id/start_time/duration/descriptor-loop
// entry from the head of b, returning the event and the number of bytes it
// occupied (including its descriptor loop, which is skipped).
func decodeEventEntry(b []byte) (EITEvent, int, error) {
	const fixedLen = 12 // event_id(2) + start_time(5) + duration(3) + flags/desc_len(2)
	if len(b) < fixedLen {
		return EITEvent{}, 0, fmt.Errorf("psi: EIT event entry too short (%d bytes)", len(b))
	}

	ev := EITEvent{
		EventID:   binary.BigEndian.Uint16(b[0:2]),
		StartTime: decodeMJDTime(b[2:7]),
		Duration:  decodeBCDDuration(b[7:10]),
	}
	descLen := int(binary.BigEndian.Uint16(b[10:12]) & 0x0FFF)
	total := fixedLen + descLen
	if len(b) < total {
		return EITEvent{}, 0, fmt.Errorf("psi: EIT event descriptor loop length %d exceeds remaining section", descLen)
	}
	return ev, total, nil
}

// decodeMJDTime decodes a 5-byte Modified-Julian-Date + BCD time-of-day
// field, as used by both DVB EN 300 468 and ARIB STD-B10 start_time fields.
// An all-0xFF field (broadcaster signalling "undefined") decodes to the
// zero time.
func decodeMJDTime(b []byte) time.Time {
	if b[0] == 0xFF && b[1] == 0xFF && b[2] == 0xFF && b[3] == 0xFF && b[4] == 0xFF {
		return time.Time{}
	}
	mjd := float64(binary.BigEndian.Uint16(b[0:2]))
	yp := math.Floor((mjd - 15078.2) / 365.25)
	mp := math.Floor((mjd - 14956.1 - math.Floor(yp*365.25)) / 30.6001)
	day := int(mjd) - 14956 - int(math.Floor(yp*365.25)) - int(math.Floor(mp*30.6001))
	k := 0
	if int(mp) == 14 || int(mp) == 15 {
		k = 1
	}
	year := int(yp) + k + 1900
	month := int(mp) - 1 - k*12

	hour := bcdByte(b[2])
	minute := bcdByte(b[3])
	second := bcdByte(b[4])

	return time.Date(year, time.Month(month), day, hour, minute, second, 0, jst)
}

// decodeBCDDuration decodes a 3-byte BCD HH:MM:SS duration field.
func decodeBCDDuration(b []byte) time.Duration {
	h := bcdByte(b[0])
	m := bcdByte(b[1])
	s := bcdByte(b[2])
	return time.Duration(h)*time.Hour + time.Duration(m)*time.Minute + time.Duration(s)*time.Second
}

// bcdByte decodes a byte holding two 4-bit binary-coded-decimal digits.
func bcdByte(b byte) int {
	return int(b>>4)*10 + int(b&0x0F)
}

// jst is the Japan Standard Time zone used for EIT timestamps, per
// spec.md's clock_time/clock_pcr anchor. UTC+9 with no DST simplifies this
// to a fixed offset, matching ts::Time's JST handling in tsduck.
var jst = time.FixedZone("JST", 9*60*60)
