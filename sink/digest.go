package sink

import (
	"hash"
	"io"

	"github.com/pierrec/xxHash/xxHash32"
)

// A Digest passes writes through to another writer, keeping count of the
// bytes and an xxHash32 digest of them.
type Digest struct {
	w      io.Writer
	hasher hash.Hash32
	n      int64
}

// NewDigest returns a Digest writing to w. If w is nil, the bytes are only
// counted and hashed.
func NewDigest(w io.Writer) *Digest {
	return &Digest{
		w:      w,
		hasher: xxHash32.New(0),
	}
}

func (d *Digest) Write(p []byte) (int, error) {
	n := len(p)
	var err error
	if d.w != nil {
		n, err = d.w.Write(p)
	}
	d.hasher.Write(p[:n])
	d.n += int64(n)
	return n, err
}

// Len returns the number of bytes written.
func (d *Digest) Len() int64 {
	return d.n
}

// Sum32 returns the xxHash32 digest of the bytes written.
func (d *Digest) Sum32() uint32 {
	return d.hasher.Sum32()
}
