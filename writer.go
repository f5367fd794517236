package terse

import (
	"encoding/binary"
	"errors"
	"io"

	"golang.org/x/text/encoding/charmap"
)

// A Writer compresses data into a TERSE container, using a MatchFinder and
// an Encoder.
type Writer struct {
	Dest        io.Writer
	MatchFinder MatchFinder
	Encoder     Encoder

	// ChunkSize is how much input is collected before it is passed to the
	// MatchFinder. The default is 64 KiB.
	ChunkSize int

	inBuf       []byte
	outBuf      []byte
	matches     []Match
	wroteHeader bool
	closed      bool
	err         error
}

// NewWriter returns a Writer that compresses to w at the given level (1–9),
// with the container header h.
func NewWriter(w io.Writer, h Header, level int) *Writer {
	return &Writer{
		Dest:        w,
		MatchFinder: NewMatchFinder(level),
		Encoder:     &TokenEncoder{Container: h},
	}
}

var errWriterClosed = errors.New("terse: write to closed Writer")

func (w *Writer) chunkSize() int {
	if w.ChunkSize <= 0 {
		return 1 << 16
	}
	return w.ChunkSize
}

func (w *Writer) Write(p []byte) (n int, err error) {
	if w.err != nil {
		return 0, w.err
	}
	if w.closed {
		return 0, errWriterClosed
	}
	size := w.chunkSize()
	for len(p) > 0 {
		c := size - len(w.inBuf)
		if c > len(p) {
			c = len(p)
		}
		w.inBuf = append(w.inBuf, p[:c]...)
		p = p[c:]
		n += c
		if len(w.inBuf) == size {
			if err := w.encode(false); err != nil {
				return n, err
			}
		}
	}
	return n, nil
}

func (w *Writer) encode(lastBlock bool) error {
	w.outBuf = w.outBuf[:0]
	if !w.wroteHeader {
		w.outBuf = w.Encoder.Header(w.outBuf)
		w.wroteHeader = true
	}
	w.matches = w.MatchFinder.FindMatches(w.matches[:0], w.inBuf)
	w.outBuf = w.Encoder.Encode(w.outBuf, w.inBuf, w.matches, lastBlock)
	w.inBuf = w.inBuf[:0]
	if _, err := w.Dest.Write(w.outBuf); err != nil {
		w.err = err
		return err
	}
	return nil
}

// Close compresses any buffered input and writes the terminal token. It
// does not close Dest.
func (w *Writer) Close() error {
	if w.err != nil {
		return w.err
	}
	if w.closed {
		return nil
	}
	w.closed = true
	return w.encode(true)
}

// Reset discards the Writer's state and makes it write to newDest, so it
// can be reused.
func (w *Writer) Reset(newDest io.Writer) {
	w.Dest = newDest
	w.MatchFinder.Reset()
	w.Encoder.Reset()
	w.inBuf = w.inBuf[:0]
	w.wroteHeader = false
	w.closed = false
	w.err = nil
}

// A RecordWriter writes variable-length records through a Writer, each
// preceded by a record-descriptor word. The Writer's header should declare
// RecordVariable.
type RecordWriter struct {
	W *Writer
}

// WriteRecord writes one record with the given descriptor flag bits.
func (rw RecordWriter) WriteRecord(flags byte, data []byte) error {
	if len(data) > maxRecordLength {
		return errors.New("terse: record too long")
	}
	var desc [descriptorSize]byte
	binary.BigEndian.PutUint32(desc[:], uint32(flags)<<24|uint32(len(data)))
	if _, err := rw.W.Write(desc[:]); err != nil {
		return err
	}
	_, err := rw.W.Write(data)
	return err
}

var ebcdicEncoder = newEncodeTable(charmap.CodePage037)

// AppendEBCDIC appends the code page 037 encoding of the ASCII (ISO 8859-1)
// bytes in src to dst. Line feeds become NL (0x15).
func AppendEBCDIC(dst, src []byte) []byte {
	return ebcdicEncoder.encode(dst, src)
}
