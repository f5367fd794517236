package terse

import (
	"errors"
	"fmt"
)

// Errors returned while decompressing. All of them are fatal for the file
// being decoded; use errors.Is to tell them apart.
var (
	// ErrBadMagic is returned when the header's format marker is wrong.
	ErrBadMagic = errors.New("terse: not a TERSE file")

	// ErrUnsupportedVersion is returned for an unknown header version flag.
	ErrUnsupportedVersion = errors.New("terse: unsupported version")

	// ErrBadHeader is returned when a header field has an invalid value.
	ErrBadHeader = errors.New("terse: invalid header")

	// ErrBadBlock is returned when a block length prefix is out of range.
	ErrBadBlock = errors.New("terse: invalid block length")

	// ErrTruncated is returned when the input ends in the middle of a
	// header, block or token.
	ErrTruncated = errors.New("terse: truncated input")

	// ErrInvalidToken is returned for a token that uses reserved bits.
	ErrInvalidToken = errors.New("terse: invalid token")

	// ErrBackReferenceOutOfRange is returned when a back-reference points
	// before the start of the output.
	ErrBackReferenceOutOfRange = errors.New("terse: back-reference out of range")

	// ErrTruncatedRecord is returned when the decoded stream ends inside a
	// record.
	ErrTruncatedRecord = errors.New("terse: truncated record")

	// ErrSinkWrite wraps errors returned by the Sink.
	ErrSinkWrite = errors.New("terse: sink write failed")
)

// A FormatError reports where in the input a decoding error was detected.
type FormatError struct {
	Offset int64 // byte offset in the compressed input
	Err    error
}

func (e *FormatError) Error() string {
	return fmt.Sprintf("%v at offset %d", e.Err, e.Offset)
}

func (e *FormatError) Unwrap() error {
	return e.Err
}
