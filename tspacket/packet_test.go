package tspacket

import "testing"

func blankTSPacket(pid uint16, pusi bool) []byte {
	b := make([]byte, Size)
	b[0] = 0x47
	b[1] = byte(pid >> 8)
	if pusi {
		b[1] |= 0x40
	}
	b[2] = byte(pid)
	b[3] = 0x10 // AFC = payload only, CC = 0
	return b
}

func TestParseRejectsBadLength(t *testing.T) {
	if _, err := Parse(make([]byte, 10)); err == nil {
		t.Fatal("expected error for short packet")
	}
}

func TestParseRejectsBadSync(t *testing.T) {
	b := blankTSPacket(0x100, false)
	b[0] = 0x00
	if _, err := Parse(b); err == nil {
		t.Fatal("expected error for bad sync byte")
	}
}

func TestPIDAndPUSI(t *testing.T) {
	b := blankTSPacket(0x1234&0x1FFF, true)
	p, err := Parse(b)
	if err != nil {
		t.Fatal(err)
	}
	if got := p.PID(); got != 0x1234&0x1FFF {
		t.Errorf("PID() = %#x, want %#x", got, 0x1234&0x1FFF)
	}
	if !p.PUSI() {
		t.Error("PUSI() = false, want true")
	}
}

func TestPCRAbsent(t *testing.T) {
	b := blankTSPacket(0x100, false)
	p, err := Parse(b)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := p.PCR(); ok {
		t.Error("PCR() ok = true, want false for packet without adaptation field")
	}
}

// TestPCRPresent mirrors other_examples/wnielson-go-mediainfo's
// TestParsePCR27: encode a known base/extension pair into the adaptation
// field and check the decoded PCR-ticks value.
func TestPCRPresent(t *testing.T) {
	b := blankTSPacket(0x100, false)
	b[3] = 0x30 // AFC = adaptation + payload
	b[4] = 7    // adaptation_field_length
	b[5] = 0x10 // PCR_flag

	const (
		base uint64 = 0x1ABCDEFFF // <= 33 bits
		ext  uint64 = 0x12A       // <= 9 bits
	)
	b[6] = byte((base >> 25) & 0xFF)
	b[7] = byte((base >> 17) & 0xFF)
	b[8] = byte((base >> 9) & 0xFF)
	b[9] = byte((base >> 1) & 0xFF)
	b[10] = byte((base&1)<<7) | 0x7E | byte((ext>>8)&1)
	b[11] = byte(ext & 0xFF)

	p, err := Parse(b)
	if err != nil {
		t.Fatal(err)
	}
	got, ok := p.PCR()
	if !ok {
		t.Fatal("PCR() ok = false, want true")
	}
	want := int64(base*300 + ext)
	if got != want {
		t.Errorf("PCR() = %d, want %d", got, want)
	}
}

func TestPayloadSkipsAdaptationField(t *testing.T) {
	b := blankTSPacket(0x100, false)
	b[3] = 0x30
	b[4] = 1 // adaptation_field_length, no flags set
	b[5] = 0x00
	for i := 6; i < Size; i++ {
		b[i] = byte(i)
	}
	p, err := Parse(b)
	if err != nil {
		t.Fatal(err)
	}
	payload := p.Payload()
	if len(payload) != Size-6 {
		t.Fatalf("len(Payload()) = %d, want %d", len(payload), Size-6)
	}
	if payload[0] != 6 {
		t.Errorf("Payload()[0] = %d, want 6", payload[0])
	}
}
