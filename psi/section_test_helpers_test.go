package psi

import "encoding/binary"

// withCRC appends the CRC-32/MPEG checksum tsduck/DVB sections are
// terminated with, so test fixtures can be built without hand-computing it.
func withCRC(section []byte) []byte {
	crc := checksum(section)
	out := make([]byte, len(section)+4)
	copy(out, section)
	binary.BigEndian.PutUint32(out[len(section):], crc)
	return out
}
