/*
NAME
  crc.go

DESCRIPTION
  crc.go provides CRC-32/MPEG validation of decoded PSI/SI sections. This is
  the decode-direction counterpart of container/mts/psi's encode-direction
  CRC appender in the teacher repo.

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
	"hash/crc32"
	"math/bits"
)

var crcTable = makeTable(bits.Reverse32(crc32.IEEE))

func makeTable(poly uint32) *crc32.Table {
	var t crc32.Table
	for i := range t {
		c := uint32(i) << 24
		for j := 0; j < 8; j++ {
			if c&0x80000000 != 0 {
				c = (c << 1) ^ poly
			} else {
				c <<= 1
			}
		}
		t[i] = c
	}
	return &t
}

// checksum computes the CRC-32/MPEG checksum over b, matching the
// polynomial and seed used by the encode-direction routine in
// container/mts/psi/crc.go.
func checksum(b []byte) uint32 {
	crc := uint32(0xffffffff)
	for _, v := range b {
		crc = crcTable[byte(crc>>24)^v] ^ (crc << 8)
	}
	return crc
}

// ValidCRC reports whether the last four bytes of section match the
// CRC-32/MPEG checksum of the bytes preceding them. section must include
// the table ID byte (i.e. start at the byte tsduck calls "table_id", not at
// the pointer field).
func ValidCRC(section []byte) bool {
	if len(section) < 4 {
		return false
	}
	want := binary.BigEndian.Uint32(section[len(section)-4:])
	return checksum(section[:len(section)-4]) == want
}
