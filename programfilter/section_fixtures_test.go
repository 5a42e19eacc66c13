package programfilter

import (
	"encoding/binary"
	"hash/crc32"
	"math/bits"

	"github.com/ausocean/tsfilter/psi"
	"github.com/ausocean/tsfilter/tspacket"
)

// The helpers in this file build minimal, CRC-valid PAT/PMT/EIT sections and
// the raw TS packets that carry them, mirroring the psi package's own test
// fixtures, for exercising ProgramFilter end-to-end without a real stream.

var fixtureCRCTable = func() *crc32.Table {
	poly := bits.Reverse32(crc32.IEEE)
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
}()

func withFixtureCRC(section []byte) []byte {
	crc := uint32(0xffffffff)
	for _, v := range section {
		crc = fixtureCRCTable[byte(crc>>24)^v] ^ (crc << 8)
	}
	out := make([]byte, len(section)+4)
	copy(out, section)
	binary.BigEndian.PutUint32(out[len(section):], crc)
	return out
}

func buildPATSection(tsid uint16, programs map[uint16]uint16) []byte {
	body := make([]byte, 0, 8+4*len(programs))
	body = append(body, psi.TableIDPAT, 0xB0, 0x00)
	body = append(body, byte(tsid>>8), byte(tsid))
	body = append(body, 0xC1, 0x00, 0x00)
	for num, pid := range programs {
		body = append(body, byte(num>>8), byte(num), byte(0xE0|(pid>>8)), byte(pid))
	}
	sectionLen := len(body) - 3 + 4
	body[1] = 0x80 | byte(sectionLen>>8&0x0F)
	body[2] = byte(sectionLen)
	return withFixtureCRC(body)
}

func buildPMTSection(serviceID, pcrPID uint16) []byte {
	body := make([]byte, 0, 12)
	body = append(body, psi.TableIDPMT, 0xB0, 0x00)
	body = append(body, byte(serviceID>>8), byte(serviceID))
	body = append(body, 0xC1, 0x00, 0x00)
	body = append(body, byte(0xE0|(pcrPID>>8)), byte(pcrPID))
	body = append(body, 0xF0, 0x00)
	sectionLen := len(body) - 3 + 4
	body[1] = 0x80 | byte(sectionLen>>8&0x0F)
	body[2] = byte(sectionLen)
	return withFixtureCRC(body)
}

func buildEITEventEntryForTest(eventID uint16, hour, minute, second, durH, durM, durS int) []byte {
	b := make([]byte, 12)
	b[0] = byte(eventID >> 8)
	b[1] = byte(eventID)
	// MJD for 2026-08-03, per the ETSI EN 300 468 Annex C encode formula.
	const mjd = uint16(61255)
	b[2] = byte(mjd >> 8)
	b[3] = byte(mjd)
	b[4] = bcdEncodeForTest(hour)
	b[5] = bcdEncodeForTest(minute)
	b[6] = bcdEncodeForTest(second)
	b[7] = bcdEncodeForTest(durH)
	b[8] = bcdEncodeForTest(durM)
	b[9] = bcdEncodeForTest(durS)
	b[10] = 0x00
	b[11] = 0x00
	return b
}

func bcdEncodeForTest(v int) byte {
	return byte((v/10)<<4 | (v % 10))
}

func buildEITSection(serviceID, tsid, onid uint16, events [][]byte) []byte {
	body := make([]byte, 0, 14)
	body = append(body, psi.TableIDEITPresentFollowingActual, 0xB0, 0x00)
	body = append(body, byte(serviceID>>8), byte(serviceID))
	body = append(body, 0xC1, 0x00, 0x00)
	body = append(body, byte(tsid>>8), byte(tsid))
	body = append(body, byte(onid>>8), byte(onid))
	body = append(body, 0x00, 0x00)
	for _, ev := range events {
		body = append(body, ev...)
	}
	sectionLen := len(body) - 3 + 4
	body[1] = 0x80 | byte(sectionLen>>8&0x0F)
	body[2] = byte(sectionLen)
	return withFixtureCRC(body)
}

func buildRawTSPacket(pid uint16, pusi bool, cc uint8, payload []byte) []byte {
	b := make([]byte, tspacket.Size)
	for i := range b {
		b[i] = 0xFF
	}
	b[0] = 0x47
	pusiBit := byte(0)
	if pusi {
		pusiBit = 0x40
	}
	b[1] = pusiBit | byte(pid>>8)&0x1F
	b[2] = byte(pid)
	b[3] = 0x10 | (cc & 0x0F)
	copy(b[4:], payload)
	return b
}
