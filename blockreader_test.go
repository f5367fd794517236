package terse

import (
	"bytes"
	"errors"
	"io"
	"testing"
)

func TestBlockReaderBlocks(t *testing.T) {
	input := []byte{
		0, 3, 'a', 'b', 'c',
		0, 1, 'd',
	}
	br := NewBlockReader(bytes.NewReader(input))
	br.SetBlockSize(3)

	b, err := br.NextBlock()
	if err != nil || string(b) != "abc" {
		t.Fatalf("first block: %q, %v", b, err)
	}
	b, err = br.NextBlock()
	if err != nil || string(b) != "d" {
		t.Fatalf("second block: %q, %v", b, err)
	}
	if _, err := br.NextBlock(); err != io.EOF {
		t.Fatalf("got %v at end of input, want io.EOF", err)
	}
	if br.Offset() != int64(len(input)) {
		t.Fatalf("Offset() = %d, want %d", br.Offset(), len(input))
	}
}

func TestBlockReaderAcrossBlocks(t *testing.T) {
	input := []byte{
		0, 2, 1, 2,
		0, 3, 3, 4, 5,
	}
	br := NewBlockReader(bytes.NewReader(input))

	c, err := br.ReadByte()
	if err != nil || c != 1 {
		t.Fatalf("ReadByte: %d, %v", c, err)
	}
	p := make([]byte, 3)
	if err := br.ReadFull(p); err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(p, []byte{2, 3, 4}) {
		t.Fatalf("ReadFull across blocks got %v", p)
	}
	if err := br.ReadFull(p); !errors.Is(err, ErrTruncated) {
		t.Fatalf("ReadFull past the end: %v, want ErrTruncated", err)
	}
}

func TestBlockReaderErrors(t *testing.T) {
	for _, tc := range []struct {
		name  string
		input []byte
		want  error
	}{
		{"short prefix", []byte{0}, ErrTruncated},
		{"short payload", []byte{0, 4, 'a', 'b'}, ErrTruncated},
		{"zero length", []byte{0, 0}, ErrBadBlock},
		{"too long", []byte{0, 9, 1, 2, 3, 4, 5, 6, 7, 8, 9}, ErrBadBlock},
	} {
		t.Run(tc.name, func(t *testing.T) {
			br := NewBlockReader(bytes.NewReader(tc.input))
			br.SetBlockSize(8)
			_, err := br.NextBlock()
			if !errors.Is(err, tc.want) {
				t.Fatalf("got %v, want %v", err, tc.want)
			}
			var fe *FormatError
			if !errors.As(err, &fe) {
				t.Fatalf("%v is not a *FormatError", err)
			}
		})
	}
}

func TestReadFieldTruncated(t *testing.T) {
	br := NewBlockReader(bytes.NewReader([]byte{1, 2, 3}))
	if _, err := br.ReadField(4); !errors.Is(err, ErrTruncated) {
		t.Fatalf("got %v, want ErrTruncated", err)
	}

	br = NewBlockReader(bytes.NewReader(nil))
	if _, err := br.ReadField(4); !errors.Is(err, ErrTruncated) {
		t.Fatalf("empty input: got %v, want ErrTruncated", err)
	}
}
