package terse

import (
	"encoding/binary"
	"fmt"
)

// descriptorSize is the length of a record-descriptor word.
const descriptorSize = 4

// maxRecordLength is the largest payload a descriptor can declare.
const maxRecordLength = 1<<24 - 1

type recordState uint8

const (
	awaitingDescriptor recordState = iota
	awaitingPayload
)

// A recordWriter splits a decoded binary stream into records. Each record
// is a 4-byte descriptor (flags in the first byte, payload length in the
// other three) followed by the payload. Complete records are passed on to
// the sink; a partial record never is.
type recordWriter struct {
	sink Sink
	rs   RecordSink // sink, if it accepts records

	state   recordState
	desc    [descriptorSize]byte
	ndesc   int
	flags   byte
	length  int
	pending []byte

	records int64
}

func newRecordWriter(s Sink) *recordWriter {
	rw := &recordWriter{sink: s}
	rw.rs, _ = s.(RecordSink)
	return rw
}

// Write consumes decoded bytes, emitting every record they complete.
func (rw *recordWriter) Write(p []byte) (int, error) {
	n := len(p)
	for len(p) > 0 {
		switch rw.state {
		case awaitingDescriptor:
			c := copy(rw.desc[rw.ndesc:], p)
			rw.ndesc += c
			p = p[c:]
			if rw.ndesc < descriptorSize {
				continue
			}
			rw.ndesc = 0
			word := binary.BigEndian.Uint32(rw.desc[:])
			rw.flags = byte(word >> 24)
			rw.length = int(word & maxRecordLength)
			rw.pending = rw.pending[:0]
			rw.state = awaitingPayload
			if rw.length == 0 {
				if err := rw.emit(nil); err != nil {
					return n - len(p), err
				}
			}

		case awaitingPayload:
			need := rw.length - len(rw.pending)
			if len(rw.pending) == 0 && len(p) >= need {
				// The whole payload is available; pass it on without copying.
				if err := rw.emit(p[:need]); err != nil {
					return n - len(p), err
				}
				p = p[need:]
				continue
			}
			if need > len(p) {
				need = len(p)
			}
			rw.pending = append(rw.pending, p[:need]...)
			p = p[need:]
			if len(rw.pending) == rw.length {
				if err := rw.emit(rw.pending); err != nil {
					return n - len(p), err
				}
			}
		}
	}
	return n, nil
}

func (rw *recordWriter) emit(data []byte) error {
	rw.state = awaitingDescriptor
	rw.records++
	var err error
	if rw.rs != nil {
		err = rw.rs.WriteRecord(Record{Flags: rw.flags, Data: data})
	} else if len(data) > 0 {
		_, err = rw.sink.Write(data)
	}
	if err != nil {
		return sinkError(err)
	}
	return nil
}

// finish checks that the stream ended on a record boundary.
func (rw *recordWriter) finish() error {
	switch {
	case rw.state == awaitingPayload:
		return fmt.Errorf("%w: record %d has %d of %d bytes", ErrTruncatedRecord, rw.records+1, len(rw.pending), rw.length)
	case rw.ndesc > 0:
		return fmt.Errorf("%w: %d-byte record descriptor", ErrTruncatedRecord, rw.ndesc)
	}
	return nil
}
