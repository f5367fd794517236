package terse

import (
	"testing"

	"golang.org/x/text/encoding/charmap"
)

func TestTranslate(t *testing.T) {
	for _, tc := range []struct {
		in, want byte
	}{
		{0xc1, 'A'},
		{0xc9, 'I'},
		{0xd1, 'J'},
		{0xe2, 'S'},
		{0x81, 'a'},
		{0xf0, '0'},
		{0xf9, '9'},
		{0x40, ' '},
		{0x4b, '.'},
		{0x25, '\n'},
		{0x15, '\n'},
		{0x00, 0x00},
	} {
		if got := Translate(tc.in); got != tc.want {
			t.Errorf("Translate(%#02x) = %#02x, want %#02x", tc.in, got, tc.want)
		}
	}
}

func TestTranslateIdempotentOnFixedPoints(t *testing.T) {
	fixed := 0
	for i := 0; i < 256; i++ {
		b := byte(i)
		if Translate(b) != b {
			continue
		}
		fixed++
		if Translate(Translate(b)) != Translate(b) {
			t.Errorf("translating %#02x twice differs from once", b)
		}
	}
	if fixed < 4 {
		t.Fatalf("only %d identity entries; expected at least NUL, SOH, STX and ETX", fixed)
	}
}

func TestCodePage1047(t *testing.T) {
	tab := NewTable(charmap.CodePage1047)
	// The square brackets are where 037 and 1047 differ.
	if tab[0xad] != '[' || tab[0xbd] != ']' {
		t.Fatalf("1047 brackets map to %q %q", tab[0xad], tab[0xbd])
	}
	if EBCDIC[0xba] != '[' || EBCDIC[0xbb] != ']' {
		t.Fatalf("037 brackets map to %q %q", EBCDIC[0xba], EBCDIC[0xbb])
	}
}

func TestEBCDICRoundTrip(t *testing.T) {
	var ascii []byte
	for c := byte(0x20); c < 0x7f; c++ {
		ascii = append(ascii, c)
	}
	ascii = append(ascii, '\n')

	ebcdic := AppendEBCDIC(nil, ascii)
	back := make([]byte, len(ebcdic))
	EBCDIC.TranslateBytes(back, ebcdic)
	if string(back) != string(ascii) {
		t.Fatalf("round trip gave %q", back)
	}
	if ebcdic[len(ebcdic)-1] != 0x15 {
		t.Fatalf("line feed encoded as %#02x, want NL", ebcdic[len(ebcdic)-1])
	}
}
