package terse

import "golang.org/x/text/encoding/charmap"

// A Table maps each EBCDIC byte to its ASCII (ISO 8859-1) equivalent.
// Tables are never modified after construction, so they are safe for
// concurrent use.
type Table [256]byte

// NewTable builds a translation table from an EBCDIC code page. Every
// single-byte EBCDIC code page maps onto ISO 8859-1, so each entry is one
// byte. NL (0x15) is mapped to a line feed.
func NewTable(cp *charmap.Charmap) *Table {
	t := new(Table)
	for i := range t {
		r := cp.DecodeByte(byte(i))
		if r > 0xff {
			r = '?'
		}
		t[i] = byte(r)
	}
	t[0x15] = '\n'
	return t
}

// EBCDIC is the default table, for code page 037.
var EBCDIC = NewTable(charmap.CodePage037)

// Translate returns the ASCII equivalent of the EBCDIC byte b.
func Translate(b byte) byte {
	return EBCDIC[b]
}

// TranslateBytes translates src into dst, which must be at least as long.
// dst and src may be the same slice.
func (t *Table) TranslateBytes(dst, src []byte) {
	dst = dst[:len(src)]
	for i, b := range src {
		dst[i] = t[b]
	}
}

// An encodeTable maps ASCII (ISO 8859-1) bytes back to EBCDIC, for the
// compressor's text mode.
type encodeTable [256]byte

func newEncodeTable(cp *charmap.Charmap) *encodeTable {
	t := new(encodeTable)
	for i := range t {
		b, ok := cp.EncodeRune(rune(i))
		if !ok {
			b = 0x6f // '?'
		}
		t[i] = b
	}
	t['\n'] = 0x15
	return t
}

func (t *encodeTable) encode(dst, src []byte) []byte {
	for _, b := range src {
		dst = append(dst, t[b])
	}
	return dst
}
