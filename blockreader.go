package terse

import (
	"encoding/binary"
	"errors"
	"io"
)

// A BlockReader reads the physical layout of a TERSE container: the raw
// header fields, then a sequence of length-prefixed blocks. It only moves
// forward, and each block is read exactly once.
type BlockReader struct {
	r         io.Reader
	blockSize int

	buf    []byte
	block  []byte // unread part of the current block
	offset int64  // bytes consumed from r
	done   bool
}

// NewBlockReader returns a BlockReader reading from r. The block size is
// unlimited until SetBlockSize is called.
func NewBlockReader(r io.Reader) *BlockReader {
	return &BlockReader{r: r}
}

// SetBlockSize sets the largest block payload that will be accepted.
func (br *BlockReader) SetBlockSize(n int) {
	br.blockSize = n
}

// Offset returns the number of bytes consumed from the underlying reader.
func (br *BlockReader) Offset() int64 {
	return br.offset
}

func (br *BlockReader) fail(err error) error {
	return &FormatError{Offset: br.offset, Err: err}
}

// readFull fills p from the underlying reader. A short read becomes
// ErrTruncated; a read of zero bytes at EOF is reported as io.EOF.
func (br *BlockReader) readFull(p []byte) error {
	n, err := io.ReadFull(br.r, p)
	br.offset += int64(n)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, io.EOF):
		return io.EOF
	case errors.Is(err, io.ErrUnexpectedEOF):
		return br.fail(ErrTruncated)
	}
	return err
}

// ReadField reads n raw bytes from the input. It is used for the header,
// which precedes the first block.
func (br *BlockReader) ReadField(n int) ([]byte, error) {
	p := make([]byte, n)
	if err := br.readFull(p); err != nil {
		if err == io.EOF {
			return nil, br.fail(ErrTruncated)
		}
		return nil, err
	}
	return p, nil
}

// NextBlock reads the next physical block and returns its payload. The
// returned slice is only valid until the next call. Any unread bytes of
// the previous block are discarded. At the end of the input it returns
// io.EOF.
func (br *BlockReader) NextBlock() ([]byte, error) {
	if br.done {
		return nil, io.EOF
	}
	var prefix [2]byte
	if err := br.readFull(prefix[:]); err != nil {
		if err == io.EOF {
			br.done = true
		}
		return nil, err
	}
	n := int(binary.BigEndian.Uint16(prefix[:]))
	if n == 0 || (br.blockSize > 0 && n > br.blockSize) {
		return nil, br.fail(ErrBadBlock)
	}
	if cap(br.buf) < n {
		br.buf = make([]byte, n)
	}
	br.buf = br.buf[:n]
	if err := br.readFull(br.buf); err != nil {
		if err == io.EOF {
			return nil, br.fail(ErrTruncated)
		}
		return nil, err
	}
	br.block = br.buf
	return br.buf, nil
}

// ReadByte returns the next byte of the token stream, moving on to the
// next block when the current one is used up. It returns io.EOF only when
// the input ends at a block boundary.
func (br *BlockReader) ReadByte() (byte, error) {
	for len(br.block) == 0 {
		if _, err := br.NextBlock(); err != nil {
			return 0, err
		}
	}
	b := br.block[0]
	br.block = br.block[1:]
	return b, nil
}

// ReadFull fills p from the token stream, crossing block boundaries as
// needed. Running out of input before p is full is ErrTruncated.
func (br *BlockReader) ReadFull(p []byte) error {
	for len(p) > 0 {
		if len(br.block) == 0 {
			if _, err := br.NextBlock(); err != nil {
				if err == io.EOF {
					return br.fail(ErrTruncated)
				}
				return err
			}
		}
		n := copy(p, br.block)
		p = p[n:]
		br.block = br.block[n:]
	}
	return nil
}
