/*
NAME
  pmt.go

DESCRIPTION
  pmt.go decodes a Program Map Table section into a PMT value giving the
  target program's PCR PID.

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

// TableIDPMT is the table ID of a Program Map Table section.
const TableIDPMT = 0x02

// PMT is a decoded Program Map Table, restricted to the fields this module
// needs: the service it describes and its PCR PID.
type PMT struct {
	ServiceID   uint16
	CurrentNext bool
	PCRPID      uint16
}

// DecodePMT decodes section, which must start at the table_id byte and have
// already passed CRC validation (see ValidCRC).
//
// gots's psi.PMT does not surface the PCR PID field in the API the teacher
// exercises (container/mts/mpegts.go's Streams/ElementaryStreams path), so
// that field -- 13 bits at a fixed offset right after the section header --
// is decoded directly here, per ISO/IEC 13818-1 Table 2-33.
func DecodePMT(section []byte) (PMT, error) {
	var pmt PMT
	if len(section) < 12+4 {
		return pmt, fmt.Errorf("psi: PMT section too short (%d bytes)", len(section))
	}
	if section[0] != TableIDPMT {
		return pmt, fmt.Errorf("psi: section table_id 0x%02X is not a PMT", section[0])
	}
	if section[1]&0xC0 != 0x80 {
		return pmt, fmt.Errorf("psi: PMT section_syntax_indicator not set")
	}

	pmt.ServiceID = binary.BigEndian.Uint16(section[3:5])
	pmt.CurrentNext = section[5]&0x01 == 0x01
	pmt.PCRPID = binary.BigEndian.Uint16(section[8:10]) & 0x1FFF
	return pmt, nil
}
