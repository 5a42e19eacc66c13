/*
NAME
  pat.go

DESCRIPTION
  pat.go decodes a Program Association Table section into a PAT value
  giving the service-to-PMT-PID mapping.

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
)

// TableIDPAT is the table ID of a Program Association Table section.
const TableIDPAT = 0x00

// PAT is a decoded Program Association Table.
type PAT struct {
	TransportStreamID uint16
	CurrentNext       bool
	// ProgramMap maps service/program number to its PMT PID. Program number
	// 0 (the network PID entry) is excluded.
	ProgramMap map[uint16]uint16
}

// DecodePAT decodes section, which must start at the table_id byte and have
// already passed CRC validation (see ValidCRC).
func DecodePAT(section []byte) (PAT, error) {
	var pat PAT
	if len(section) < 8+4 {
		return pat, fmt.Errorf("psi: PAT section too short (%d bytes)", len(section))
	}
	if section[0] != TableIDPAT {
		return pat, fmt.Errorf("psi: section table_id 0x%02X is not a PAT", section[0])
	}
	if section[1]&0xC0 != 0x80 {
		return pat, fmt.Errorf("psi: PAT section_syntax_indicator not set")
	}

	pat.TransportStreamID = binary.BigEndian.Uint16(section[3:5])
	pat.CurrentNext = section[5]&0x01 == 0x01

	body := section[8 : len(section)-4]
	if len(body)%4 != 0 {
		return pat, fmt.Errorf("psi: PAT program loop length %d not a multiple of 4", len(body))
	}
	pat.ProgramMap = make(map[uint16]uint16, len(body)/4)
	for len(body) > 0 {
		programNumber := binary.BigEndian.Uint16(body[0:2])
		pid := binary.BigEndian.Uint16(body[2:4]) & 0x1FFF
		if programNumber != 0 {
			pat.ProgramMap[programNumber] = pid
		}
		body = body[4:]
	}
	return pat, nil
}
