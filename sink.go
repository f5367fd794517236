package terse

import (
	"fmt"
	"io"
)

// A Sink receives the decompressed output. Decompress calls Flush after the
// last byte of a successful decode and never calls Close; closing is up to
// the caller.
type Sink interface {
	io.Writer
	Flush() error
	Close() error
}

// A RecordSink is a Sink that wants binary records one at a time instead
// of as a flat byte stream. The Data of a Record is only valid during the
// call.
type RecordSink interface {
	Sink
	WriteRecord(r Record) error
}

// A Record is one variable-length record from a binary dataset.
type Record struct {
	Flags byte // reserved bits of the record-descriptor word
	Data  []byte
}

type flusher interface {
	Flush() error
}

type nopSink struct {
	io.Writer
}

func (s nopSink) Flush() error {
	if f, ok := s.Writer.(flusher); ok {
		return f.Flush()
	}
	return nil
}

func (nopSink) Close() error { return nil }

// NopSink returns a Sink that writes to w. Flush calls w's Flush method if
// it has one; Close does nothing.
func NopSink(w io.Writer) Sink {
	return nopSink{w}
}

func sinkError(err error) error {
	return fmt.Errorf("%w: %w", ErrSinkWrite, err)
}
