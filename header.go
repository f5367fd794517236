package terse

import (
	"encoding/binary"
	"fmt"
)

// HeaderSize is the length of a TERSE container header.
const HeaderSize = 12

// Version flags.
const (
	VersionPack  = 0x02
	VersionSpack = 0x05
)

// Marker is the format marker following the version flag.
var Marker = [3]byte{0x89, 0x69, 0xa5}

// Record formats.
const (
	RecordFixed    = 0x00
	RecordVariable = 0x01
)

// Header flag bits. They describe the original dataset and do not affect
// decoding.
const (
	FlagMVS = 0x01
	FlagVS  = 0x10
	FlagVBS = 0x20
	FlagCC2 = 0x40
	FlagCC1 = 0x80
)

// DefaultBlockSize is the block size used by the compressor when none is
// given.
const DefaultBlockSize = 8192

// A Header holds the fields of a TERSE container header. It is parsed once
// and not modified afterward.
type Header struct {
	Version      byte
	RecordFormat byte
	Flags        byte
	BlockSize    int
	RecordLength int // LRECL of the original dataset
}

// Variable reports whether the decoded stream is made of variable-length
// records, each preceded by a record-descriptor word.
func (h Header) Variable() bool {
	return h.RecordFormat == RecordVariable
}

// AppendTo appends the encoded header to dst.
func (h Header) AppendTo(dst []byte) []byte {
	dst = append(dst, h.Version)
	dst = append(dst, Marker[:]...)
	dst = append(dst, h.RecordFormat, h.Flags)
	dst = binary.BigEndian.AppendUint16(dst, uint16(h.BlockSize))
	dst = binary.BigEndian.AppendUint32(dst, uint32(h.RecordLength))
	return dst
}

// ReadHeader reads and validates the container header, and sets the block
// size of br from it. The marker is checked before the version flag.
func ReadHeader(br *BlockReader) (Header, error) {
	b, err := br.ReadField(HeaderSize)
	if err != nil {
		return Header{}, err
	}
	if b[1] != Marker[0] || b[2] != Marker[1] || b[3] != Marker[2] {
		return Header{}, &FormatError{Offset: 1, Err: ErrBadMagic}
	}

	h := Header{
		Version:      b[0],
		RecordFormat: b[4],
		Flags:        b[5],
		BlockSize:    int(binary.BigEndian.Uint16(b[6:])),
		RecordLength: int(binary.BigEndian.Uint32(b[8:])),
	}
	if h.Version != VersionPack && h.Version != VersionSpack {
		return Header{}, fmt.Errorf("%w: version flag %#02x", ErrUnsupportedVersion, h.Version)
	}
	if h.RecordFormat != RecordFixed && h.RecordFormat != RecordVariable {
		return Header{}, fmt.Errorf("%w: record format flag %#02x", ErrBadHeader, h.RecordFormat)
	}
	if h.BlockSize == 0 {
		return Header{}, fmt.Errorf("%w: zero block size", ErrBadHeader)
	}
	if h.RecordLength < 0 {
		return Header{}, fmt.Errorf("%w: record length %d", ErrBadHeader, h.RecordLength)
	}

	br.SetBlockSize(h.BlockSize)
	return h, nil
}
