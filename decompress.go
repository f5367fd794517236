package terse

import (
	"io"
)

// Mode selects how decoded bytes are treated.
type Mode uint8

const (
	// Text translates every byte from EBCDIC.
	Text Mode = iota
	// Binary passes bytes through unchanged, and splits variable-record
	// datasets into records.
	Binary
)

func (m Mode) String() string {
	if m == Binary {
		return "binary"
	}
	return "text"
}

// Options configures Decompress.
type Options struct {
	Mode Mode

	// Table is used in text mode. The default is EBCDIC.
	Table *Table
}

// DefaultOptions returns options for text mode with code page 037.
func DefaultOptions() *Options {
	return &Options{
		Mode:  Text,
		Table: EBCDIC,
	}
}

// Stats describes a finished (or failed) decompression.
type Stats struct {
	Header   Header
	Tokens   int64
	BytesIn  int64 // compressed bytes consumed, header included
	BytesOut int64 // decoded bytes, record descriptors included
	Records  int64 // records emitted in binary mode
}

type sinkWriter struct {
	s Sink
}

func (w sinkWriter) Write(p []byte) (int, error) {
	n, err := w.s.Write(p)
	if err != nil {
		return n, sinkError(err)
	}
	return n, nil
}

// Decompress decodes the TERSE container read from src and writes the
// result to dst. The header is validated before anything is written. If an
// error is returned, some output may already have been written, but
// nothing after the point where the error was detected, and dst is not
// flushed.
func Decompress(src io.Reader, dst Sink, opts *Options) (Stats, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	table := opts.Table
	if table == nil {
		table = EBCDIC
	}

	br := NewBlockReader(src)
	hdr, err := ReadHeader(br)
	if err != nil {
		return Stats{BytesIn: br.Offset()}, err
	}
	stats := Stats{Header: hdr}

	d := NewDecoder(br)
	defer d.Close()

	var out io.Writer = sinkWriter{dst}
	var rw *recordWriter
	if opts.Mode == Binary && hdr.Variable() {
		rw = newRecordWriter(dst)
		out = rw
	}

	buf := make([]byte, maxMatch)
	for {
		_, b, err := d.Next()
		if err == io.EOF {
			break
		}
		stats.BytesIn = br.Offset()
		if err != nil {
			return stats, err
		}
		stats.Tokens++
		if opts.Mode == Text {
			table.TranslateBytes(buf, b)
			b = buf[:len(b)]
		}
		if _, err := out.Write(b); err != nil {
			if rw != nil {
				stats.Records = rw.records
			}
			return stats, err
		}
		stats.BytesOut += int64(len(b))
	}
	stats.BytesIn = br.Offset()

	if rw != nil {
		stats.Records = rw.records
		if err := rw.finish(); err != nil {
			return stats, err
		}
	}
	if err := dst.Flush(); err != nil {
		return stats, sinkError(err)
	}
	return stats, nil
}

// A Reader is an io.Reader that decompresses a TERSE container. In text
// mode its output is translated; in binary mode record descriptors are
// left in place.
type Reader struct {
	hdr     Header
	dec     *Decoder
	mode    Mode
	table   *Table
	pending []byte
	buf     []byte
	err     error
}

// NewReader reads the container header from r and returns a Reader for
// the rest of the stream.
func NewReader(r io.Reader, opts *Options) (*Reader, error) {
	if opts == nil {
		opts = DefaultOptions()
	}
	br := NewBlockReader(r)
	hdr, err := ReadHeader(br)
	if err != nil {
		return nil, err
	}
	zr := &Reader{
		hdr:   hdr,
		dec:   NewDecoder(br),
		mode:  opts.Mode,
		table: opts.Table,
	}
	if zr.table == nil {
		zr.table = EBCDIC
	}
	return zr, nil
}

// Header returns the container header.
func (z *Reader) Header() Header {
	return z.hdr
}

func (z *Reader) Read(p []byte) (int, error) {
	for len(z.pending) == 0 {
		if z.err != nil {
			return 0, z.err
		}
		_, b, err := z.dec.Next()
		if err != nil {
			z.err = err
			z.dec.Close()
			continue
		}
		if z.mode == Text {
			z.buf = append(z.buf[:0], b...)
			z.table.TranslateBytes(z.buf, z.buf)
			b = z.buf
		}
		z.pending = b
	}
	n := copy(p, z.pending)
	z.pending = z.pending[n:]
	return n, nil
}

// Close releases the Reader's window.
func (z *Reader) Close() error {
	if z.err == nil {
		z.err = errDecoderClosed
	}
	return z.dec.Close()
}
