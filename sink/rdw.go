package sink

import (
	"encoding/binary"
	"errors"

	"github.com/andybalholm/terse"
)

// MaxRDWRecord is the longest record that fits behind an RDW.
const MaxRDWRecord = 32756

// ErrRecordTooLong is returned by RDW for records longer than MaxRDWRecord.
var ErrRecordTooLong = errors.New("sink: record too long for an RDW")

// RDW wraps a Sink so that each record is written behind an IBM record
// descriptor word: a 2-byte length that counts the RDW itself, then two
// zero bytes. The output can be transferred back to z/OS as a RECFM=V
// dataset.
type RDW struct {
	terse.Sink
}

// WriteRecord implements terse.RecordSink.
func (s RDW) WriteRecord(r terse.Record) error {
	if len(r.Data) > MaxRDWRecord {
		return ErrRecordTooLong
	}
	var rdw [4]byte
	binary.BigEndian.PutUint16(rdw[:], uint16(len(r.Data)+4))
	if _, err := s.Write(rdw[:]); err != nil {
		return err
	}
	_, err := s.Write(r.Data)
	return err
}
