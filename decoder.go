package terse

import (
	"encoding/binary"
	"errors"
	"io"
)

// Token layout.
const (
	tagEnd       = 0x00
	tagBackRef   = 0x80
	maxLiteral   = 0x7f
	minMatch     = 3
	maxMatch     = 0x7f + minMatch
	distanceMask = MaxDistance - 1
	reservedBits = 0xf000
)

// TokenKind identifies the kind of a Token.
type TokenKind uint8

const (
	// Literal tokens carry bytes to copy verbatim.
	Literal TokenKind = iota
	// BackReference tokens copy Length bytes from Distance bytes back.
	BackReference
	// End is the terminal token.
	End
)

func (k TokenKind) String() string {
	switch k {
	case Literal:
		return "literal"
	case BackReference:
		return "back-reference"
	case End:
		return "end"
	}
	return "unknown"
}

// A Token is one decoded instruction from the compressed stream.
type Token struct {
	Kind     TokenKind
	Length   int // bytes produced
	Distance int // for BackReference
}

// A Decoder turns the token stream of a TERSE container into bytes. It owns
// its sliding window; the bytes it returns are only valid until the next
// call to Next.
type Decoder struct {
	br     *BlockReader
	window Window
	lit    [maxLiteral]byte
	done   bool
	err    error
}

// NewDecoder returns a Decoder reading tokens from br. The header must
// already have been read.
func NewDecoder(br *BlockReader) *Decoder {
	return &Decoder{br: br}
}

// Window returns the decoder's sliding window.
func (d *Decoder) Window() *Window {
	return &d.window
}

// Next decodes one token and returns it along with the bytes it produced.
// At the end of the stream it returns io.EOF. Errors are sticky: once Next
// has failed, it keeps returning the same error.
func (d *Decoder) Next() (Token, []byte, error) {
	if d.err != nil {
		return Token{}, nil, d.err
	}
	if d.done {
		return Token{Kind: End}, nil, io.EOF
	}
	t, b, err := d.next()
	if err != nil {
		if err == io.EOF {
			d.done = true
			return Token{Kind: End}, nil, io.EOF
		}
		d.err = err
	}
	return t, b, err
}

func (d *Decoder) next() (Token, []byte, error) {
	tag, err := d.br.ReadByte()
	if err != nil {
		return Token{}, nil, err
	}

	switch {
	case tag == tagEnd:
		return Token{Kind: End}, nil, io.EOF

	case tag < tagBackRef:
		n := int(tag)
		if err := d.br.ReadFull(d.lit[:n]); err != nil {
			return Token{}, nil, err
		}
		return Token{Kind: Literal, Length: n}, d.window.Append(d.lit[:n]), nil
	}

	var field [2]byte
	if err := d.br.ReadFull(field[:]); err != nil {
		return Token{}, nil, err
	}
	v := binary.BigEndian.Uint16(field[:])
	if v&reservedBits != 0 {
		return Token{}, nil, d.br.fail(ErrInvalidToken)
	}
	t := Token{
		Kind:     BackReference,
		Length:   int(tag&^tagBackRef) + minMatch,
		Distance: int(v&distanceMask) + 1,
	}
	b, err := d.window.Copy(t.Distance, t.Length)
	if err != nil {
		return Token{}, nil, d.br.fail(err)
	}
	return t, b, nil
}

// Close releases the sliding window. The Decoder cannot be used afterward.
func (d *Decoder) Close() error {
	d.window.Release()
	if d.err == nil {
		d.err = errDecoderClosed
	}
	return nil
}

var errDecoderClosed = errors.New("terse: decoder closed")
