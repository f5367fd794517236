package terse

import (
	"bytes"
	"encoding/binary"
	"math/rand"
)

var testHeader = Header{
	Version:   VersionSpack,
	Flags:     FlagMVS,
	BlockSize: 512,
}

var variableHeader = Header{
	Version:      VersionSpack,
	RecordFormat: RecordVariable,
	BlockSize:    512,
}

// container builds a TERSE file from a raw token stream, splitting it into
// blocks of at most h.BlockSize bytes.
func container(h Header, tokens []byte) []byte {
	dst := h.AppendTo(nil)
	for len(tokens) > 0 {
		n := len(tokens)
		if n > h.BlockSize {
			n = h.BlockSize
		}
		dst = binary.BigEndian.AppendUint16(dst, uint16(n))
		dst = append(dst, tokens[:n]...)
		tokens = tokens[n:]
	}
	return dst
}

func literal(s string) []byte {
	return append([]byte{byte(len(s))}, s...)
}

func backRef(distance, length int) []byte {
	return []byte{tagBackRef | byte(length-minMatch), byte((distance - 1) >> 8), byte(distance - 1)}
}

func tokens(parts ...[]byte) []byte {
	return bytes.Join(parts, nil)
}

// testData returns n bytes of compressible data with some noise in it.
func testData(n int) []byte {
	rng := rand.New(rand.NewSource(1))
	words := []string{
		"//STEP1 EXEC PGM=IEFBR14\n",
		"//SYSPRINT DD SYSOUT=*\n",
		"SYS1.PARMLIB ",
		"DSN=HLQ.TERSE.DATA,DISP=SHR ",
		"record ",
		"0000000000",
		"\n",
	}
	var b []byte
	for len(b) < n {
		if rng.Intn(6) == 0 {
			b = append(b, byte(rng.Intn(256)))
		} else {
			b = append(b, words[rng.Intn(len(words))]...)
		}
	}
	return b[:n]
}

type bufSink struct {
	bytes.Buffer
	flushes int
	closed  bool
}

func (s *bufSink) Flush() error {
	s.flushes++
	return nil
}

func (s *bufSink) Close() error {
	s.closed = true
	return nil
}

type recordSink struct {
	bufSink
	records []Record
}

func (s *recordSink) WriteRecord(r Record) error {
	s.records = append(s.records, Record{Flags: r.Flags, Data: append([]byte{}, r.Data...)})
	return nil
}

func compress(h Header, level int, data []byte) []byte {
	var b bytes.Buffer
	w := NewWriter(&b, h, level)
	w.Write(data)
	w.Close()
	return b.Bytes()
}
