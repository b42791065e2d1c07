package http2utils

import "testing"

func TestUint24RoundTrip(t *testing.T) {
	var b [3]byte
	Uint24ToBytes(b[:], 0xabcdef)
	if got := BytesToUint24(b[:]); got != 0xabcdef {
		t.Fatalf("got %x, want abcdef", got)
	}
}

func TestUint32RoundTrip(t *testing.T) {
	var b [4]byte
	Uint32ToBytes(b[:], 0xdeadbeef)
	if got := BytesToUint32(b[:]); got != 0xdeadbeef {
		t.Fatalf("got %x, want deadbeef", got)
	}
}

func TestAppendUint32Bytes(t *testing.T) {
	got := AppendUint32Bytes([]byte{0xff}, 1)
	want := []byte{0xff, 0, 0, 0, 1}
	if len(got) != len(want) {
		t.Fatalf("unexpected length %d<>%d", len(got), len(want))
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("mismatch at %d: %x<>%x", i, got[i], want[i])
		}
	}
}

func TestEqualsFold(t *testing.T) {
	if !EqualsFold([]byte("Content-Type"), []byte("content-type")) {
		t.Fatal("expected fold-equal")
	}
	if EqualsFold([]byte("a"), []byte("ab")) {
		t.Fatal("different lengths must not be equal")
	}
}

func TestCutPaddingOK(t *testing.T) {
	// one pad-length byte (2), three bytes of data, two bytes of padding
	payload := []byte{2, 'a', 'b', 'c', 0, 0}
	got, err := CutPadding(payload, len(payload))
	if err != nil {
		t.Fatal(err)
	}
	if string(got) != "abc" {
		t.Fatalf("got %q, want abc", got)
	}
}

func TestCutPaddingOutOfRange(t *testing.T) {
	payload := []byte{250, 'a'}
	if _, err := CutPadding(payload, len(payload)); err != ErrPaddingOutOfRange {
		t.Fatalf("expected ErrPaddingOutOfRange, got %v", err)
	}
}

func TestCutPaddingEmpty(t *testing.T) {
	if _, err := CutPadding(nil, 0); err != ErrPaddingOutOfRange {
		t.Fatalf("expected ErrPaddingOutOfRange, got %v", err)
	}
}

func TestFastStringBytesRoundTrip(t *testing.T) {
	s := "round trip me"
	b := FastStringToBytes(s)
	if FastBytesToString(b) != s {
		t.Fatalf("round trip mismatch")
	}
}
