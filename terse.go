// Package terse decompresses data produced by the z/OS TERSE utility.
//
// A TERSE container is a 12-byte header followed by length-prefixed physical
// blocks. The concatenated block payloads form a token stream: literal runs
// and back-references into a 4 KiB sliding window, ended by a terminal token.
//
// Decompression is a pipeline:
//   - a BlockReader pulls blocks from the input
//   - ReadHeader validates the container header
//   - a Decoder turns tokens into bytes, maintaining the sliding window
//   - in text mode each byte is translated from EBCDIC
//   - in binary mode with variable records, the stream is split into records
//     at their record-descriptor words
//   - everything ends up in a Sink
//
// The package also contains a compressor for the same format, built from the
// usual LZ77 pieces: a MatchFinder looks for repeated sequences, and an
// Encoder turns the matches into tokens and blocks.
package terse

// A Match is the basic unit of LZ77 compression.
type Match struct {
	Unmatched int // the number of unmatched bytes since the previous match
	Length    int // the number of bytes in the matched string; it may be 0 at the end of the input
	Distance  int // how far back in the stream to copy from
}

// A MatchFinder performs the LZ77 stage of compression, looking for matches.
type MatchFinder interface {
	// FindMatches looks for matches in src, appends them to dst, and returns dst.
	FindMatches(dst []Match, src []byte) []Match

	// Reset clears any internal state, preparing the MatchFinder to be used with
	// a new stream.
	Reset()
}

// An Encoder encodes the data in its final format.
type Encoder interface {
	// Header appends the appropriate stream header to dst.
	Header(dst []byte) []byte

	// Encode appends the encoded format of src to dst, using the match
	// information from matches.
	Encode(dst []byte, src []byte, matches []Match, lastBlock bool) []byte

	// Reset clears any internal state, preparing the Encoder to be used with
	// a new stream.
	Reset()
}
