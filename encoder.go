package terse

import "encoding/binary"

// A TokenEncoder implements the Encoder interface, writing the TERSE token
// format packed into length-prefixed blocks.
type TokenEncoder struct {
	// Container is the header to write. A zero Version or BlockSize is
	// replaced with VersionSpack or DefaultBlockSize.
	Container Header

	tokens []byte
}

func (e *TokenEncoder) Reset() {
	e.tokens = e.tokens[:0]
}

func (e *TokenEncoder) header() Header {
	h := e.Container
	if h.Version == 0 {
		h.Version = VersionSpack
	}
	if h.BlockSize == 0 {
		h.BlockSize = DefaultBlockSize
	}
	return h
}

func (e *TokenEncoder) Header(dst []byte) []byte {
	return e.header().AppendTo(dst)
}

func (e *TokenEncoder) Encode(dst []byte, src []byte, matches []Match, lastBlock bool) []byte {
	tokens := e.tokens[:0]
	pos := 0
	for _, m := range matches {
		tokens = appendLiterals(tokens, src[pos:pos+m.Unmatched])
		pos += m.Unmatched
		if m.Length > 0 {
			tokens = appendMatch(tokens, src[pos:pos+m.Length], m.Distance)
			pos += m.Length
		}
	}
	if pos < len(src) {
		tokens = appendLiterals(tokens, src[pos:])
	}
	if lastBlock {
		tokens = append(tokens, tagEnd)
	}
	e.tokens = tokens

	blockSize := e.header().BlockSize
	for len(tokens) > 0 {
		n := len(tokens)
		if n > blockSize {
			n = blockSize
		}
		dst = binary.BigEndian.AppendUint16(dst, uint16(n))
		dst = append(dst, tokens[:n]...)
		tokens = tokens[n:]
	}
	return dst
}

// appendLiterals appends lit as a series of literal tokens.
func appendLiterals(dst, lit []byte) []byte {
	for len(lit) > 0 {
		n := len(lit)
		if n > maxLiteral {
			n = maxLiteral
		}
		dst = append(dst, byte(n))
		dst = append(dst, lit[:n]...)
		lit = lit[n:]
	}
	return dst
}

// appendMatch appends back-reference tokens reproducing match, which
// starts distance bytes after its source. Pieces too short or too far
// back for a back-reference are written as literals.
func appendMatch(dst, match []byte, distance int) []byte {
	if distance < 1 || distance > MaxDistance {
		return appendLiterals(dst, match)
	}
	for len(match) >= minMatch {
		n := len(match)
		if n > maxMatch {
			n = maxMatch
			if len(match)-n < minMatch {
				n = len(match) - minMatch
			}
		}
		dst = append(dst, tagBackRef|byte(n-minMatch))
		dst = binary.BigEndian.AppendUint16(dst, uint16(distance-1))
		match = match[n:]
	}
	return appendLiterals(dst, match)
}
