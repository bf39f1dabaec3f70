package lexer

import (
	"bytes"
	"testing"
)

func drain(t *testing.T, l *Lexer) []Result {
	t.Helper()
	var out []Result
	for {
		r := l.Next()
		if r.Status == NoFrameYet {
			return out
		}
		out = append(out, r)
	}
}

func TestNMEAChecksumRoundTrip(t *testing.T) {
	l := New()
	l.Advance([]byte("$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47\r\n"))
	results := drain(t, l)
	if len(results) != 1 || results[0].Status != FrameOK || results[0].Type != NMEA {
		t.Fatalf("expected one NMEA frame, got %+v", results)
	}
}

func TestNMEABadChecksum(t *testing.T) {
	l := New()
	l.Advance([]byte("$GPGGA,1,2,3*00\r\n"))
	results := drain(t, l)
	if len(results) != 1 || results[0].Status != BadFrame {
		t.Fatalf("expected a bad-frame for wrong checksum, got %+v", results)
	}
}

func ubxNavPVTFrame() []byte {
	payload := make([]byte, 92)
	body := append([]byte{0x01, 0x07, 92, 0}, payload...)
	ckA, ckB := ubxChecksum(body)
	frame := append([]byte{0xB5, 0x62}, body...)
	frame = append(frame, ckA, ckB)
	return frame
}

func TestUBXChecksumRoundTrip(t *testing.T) {
	l := New()
	l.Advance(ubxNavPVTFrame())
	results := drain(t, l)
	if len(results) != 1 || results[0].Status != FrameOK || results[0].Type != UBX {
		t.Fatalf("expected one UBX frame, got %+v", results)
	}
	if len(results[0].Payload) != 92 {
		t.Fatalf("expected 92-byte payload, got %d", len(results[0].Payload))
	}
}

// TestDesyncRecovery is scenario S6: a stray 0xB5, then a UBX frame
// with a too-large length field, then a valid UBX frame, must produce
// exactly one clean frame after the bad prefix is discarded.
func TestDesyncRecovery(t *testing.T) {
	l := New()
	bad := []byte{0xB5, 0xB5, 0x62, 0x01, 0x07, 0xFF, 0xFF}
	l.Advance(bad)
	l.Advance(ubxNavPVTFrame())

	var good []Result
	for {
		r := l.Next()
		if r.Status == NoFrameYet {
			break
		}
		if r.Status == FrameOK {
			good = append(good, r)
		}
	}
	if len(good) != 1 || good[0].Type != UBX {
		t.Fatalf("expected exactly one valid UBX frame after desync, got %+v", good)
	}
}

func TestIdempotence(t *testing.T) {
	input := []byte("$GPGGA,123519,4807.038,N,01131.000,E,1,08,0.9,545.4,M,46.9,M,,*47\r\n")

	l1 := New()
	l1.Advance(input)
	r1 := drain(t, l1)

	l2 := New()
	l2.Advance(input)
	r2 := drain(t, l2)

	if len(r1) != len(r2) {
		t.Fatalf("expected identical frame counts, got %d vs %d", len(r1), len(r2))
	}
	for i := range r1 {
		if r1[i].Status != r2[i].Status || r1[i].Type != r2[i].Type || !bytes.Equal(r1[i].Payload, r2[i].Payload) {
			t.Fatalf("frame %d differs between runs", i)
		}
	}
}

func TestTSIPByteStuffing(t *testing.T) {
	l := New()
	// payload contains a literal 0x10, which must be escaped on the wire.
	frame := []byte{0x10, 0x8F, 0x20, 0x10, 0x10, 0x42, 0x10, 0x03}
	l.Advance(frame)
	results := drain(t, l)
	if len(results) != 1 || results[0].Status != FrameOK || results[0].Type != TSIP {
		t.Fatalf("expected one TSIP frame, got %+v", results)
	}
	want := []byte{0x8F, 0x20, 0x10, 0x42}
	if !bytes.Equal(results[0].Payload, want) {
		t.Fatalf("unstuffed payload = % X, want % X", results[0].Payload, want)
	}
}

func TestSkytraqChecksum(t *testing.T) {
	payload := []byte{0xDC, 0x01, 0x02, 0x03}
	cks := xorChecksum(payload)
	frame := append([]byte{0xA0, 0xA1, 0x00, byte(len(payload))}, payload...)
	frame = append(frame, cks, '\r', '\n')

	l := New()
	l.Advance(frame)
	results := drain(t, l)
	if len(results) != 1 || results[0].Status != FrameOK || results[0].Type != Skytraq {
		t.Fatalf("expected one Skytraq frame, got %+v", results)
	}
}

func TestTypeMaskFiltersFrames(t *testing.T) {
	l := New()
	l.SetTypeMask(Bit(UBX))
	l.Advance([]byte("$GPGGA,1,2,3*4A\r\n"))
	l.Advance(ubxNavPVTFrame())

	var got []PacketType
	for {
		r := l.Next()
		if r.Status == NoFrameYet {
			break
		}
		got = append(got, r.Type)
	}
	for _, pt := range got {
		if pt != UBX {
			t.Fatalf("expected only UBX frames through the mask, saw %v", pt)
		}
	}
}

func TestChunkedOverlayStripsFraming(t *testing.T) {
	l := New()
	l.EnableChunked()

	var body bytes.Buffer
	body.WriteString("4\r\nabcd\r\n")
	body.WriteString("0\r\n")

	l.Advance(body.Bytes())
	if got := l.ring.Bytes(); string(got) != "abcd" {
		t.Fatalf("dechunked ring = %q, want %q", got, "abcd")
	}
}

func TestChunkedOverlaySplitAcrossReads(t *testing.T) {
	l := New()
	l.EnableChunked()

	l.Advance([]byte("4\r\nab"))
	l.Advance([]byte("cd\r\n0\r\n"))
	if got := l.ring.Bytes(); string(got) != "abcd" {
		t.Fatalf("dechunked ring across split reads = %q, want %q", got, "abcd")
	}
}
