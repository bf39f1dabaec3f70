package bytesio

import "testing"

func TestIntegerRoundTrip(t *testing.T) {
	buf := make([]byte, 8)

	PutU16LE(buf, 0, 0xABCD)
	if got := U16LE(buf, 0); got != 0xABCD {
		t.Fatalf("U16LE round trip: got %#x", got)
	}
	if got := U16BE(buf, 0); got == 0xABCD {
		t.Fatalf("U16BE should not equal LE encoding of a non-palindromic value")
	}

	PutU16BE(buf, 2, 0x1234)
	if got := U16BE(buf, 2); got != 0x1234 {
		t.Fatalf("U16BE round trip: got %#x", got)
	}

	PutU32LE(buf, 4, 0xDEADBEEF)
	if got := U32LE(buf, 4); got != 0xDEADBEEF {
		t.Fatalf("U32LE round trip: got %#x", got)
	}
}

func TestSignedValues(t *testing.T) {
	buf := []byte{0xFF, 0xFF, 0xFF, 0xFF}
	if got := I8(buf, 0); got != -1 {
		t.Fatalf("I8: got %d, want -1", got)
	}
	if got := I16LE(buf, 0); got != -1 {
		t.Fatalf("I16LE: got %d, want -1", got)
	}
	if got := I32LE(buf, 0); got != -1 {
		t.Fatalf("I32LE: got %d, want -1", got)
	}
}

func TestFloatRoundTrip(t *testing.T) {
	buf := make([]byte, 8)
	PutU32LE(buf, 0, 0x3F800000) // 1.0f
	if got := F32LE(buf, 0); got != 1.0 {
		t.Fatalf("F32LE: got %v, want 1.0", got)
	}
}

func Test24BitWidth(t *testing.T) {
	buf := []byte{0x01, 0x02, 0x03}
	if got := U24LE(buf, 0); got != 0x030201 {
		t.Fatalf("U24LE: got %#x", got)
	}
	if got := U24BE(buf, 0); got != 0x010203 {
		t.Fatalf("U24BE: got %#x", got)
	}
}
