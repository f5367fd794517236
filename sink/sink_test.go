package sink

import (
	"bytes"
	"io"
	"os"
	"path/filepath"
	"testing"

	"github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

func testData() []byte {
	return bytes.Repeat([]byte("//SYSUT2 DD DSN=HLQ.UNTERSED.DATA,DISP=(NEW,CATLG)\n"), 500)
}

func TestFormatFor(t *testing.T) {
	for name, want := range map[string]Format{
		"out.txt":     Plain,
		"out":         Plain,
		"out.bin.gz":  GZIP,
		"OUT.GZ":      GZIP,
		"out.zst":     Zstd,
		"out.lz4":     LZ4,
		"out.sz":      Snappy,
		"out.txt.br":  Brotli,
		"archive.trs": Plain,
	} {
		if got := FormatFor(name); got != want {
			t.Errorf("FormatFor(%q) = %v, want %v", name, got, want)
		}
	}
}

func TestCreate(t *testing.T) {
	dir := t.TempDir()
	data := testData()

	for _, tc := range []struct {
		name   string
		reader func(io.Reader) (io.Reader, error)
	}{
		{"out.txt", func(r io.Reader) (io.Reader, error) { return r, nil }},
		{"out.gz", func(r io.Reader) (io.Reader, error) { return gzip.NewReader(r) }},
		{"out.zst", func(r io.Reader) (io.Reader, error) {
			d, err := zstd.NewReader(r)
			if err != nil {
				return nil, err
			}
			return d.IOReadCloser(), nil
		}},
		{"out.lz4", func(r io.Reader) (io.Reader, error) { return lz4.NewReader(r), nil }},
		{"out.sz", func(r io.Reader) (io.Reader, error) { return snappy.NewReader(r), nil }},
		{"out.br", func(r io.Reader) (io.Reader, error) { return brotli.NewReader(r), nil }},
	} {
		t.Run(tc.name, func(t *testing.T) {
			path := filepath.Join(dir, tc.name)
			f, err := Create(path, nil)
			if err != nil {
				t.Fatal(err)
			}
			if f.Format() != FormatFor(tc.name) {
				t.Fatalf("format %v", f.Format())
			}
			// Write in pieces, with a flush in the middle.
			if _, err := f.Write(data[:1000]); err != nil {
				t.Fatal(err)
			}
			if err := f.Flush(); err != nil {
				t.Fatal(err)
			}
			if _, err := f.Write(data[1000:]); err != nil {
				t.Fatal(err)
			}
			if err := f.Close(); err != nil {
				t.Fatal(err)
			}

			compressed, err := os.ReadFile(path)
			if err != nil {
				t.Fatal(err)
			}
			r, err := tc.reader(bytes.NewReader(compressed))
			if err != nil {
				t.Fatal(err)
			}
			decompressed, err := io.ReadAll(r)
			if err != nil {
				t.Fatal(err)
			}
			if !bytes.Equal(decompressed, data) {
				t.Fatal("decompressed output doesn't match")
			}
			if n, _ := f.Digest(); n != int64(len(data)) {
				t.Fatalf("digest counted %d bytes, want %d", n, len(data))
			}
		})
	}
}

func TestFormatOverride(t *testing.T) {
	path := filepath.Join(t.TempDir(), "out.bin")
	format := GZIP
	f, err := Create(path, &Options{Format: &format, Level: 9})
	if err != nil {
		t.Fatal(err)
	}
	f.Write(testData())
	if err := f.Close(); err != nil {
		t.Fatal(err)
	}
	b, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if len(b) < 2 || b[0] != 0x1f || b[1] != 0x8b {
		t.Fatal("output is not gzip")
	}
}

func TestAbort(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.gz")
	f, err := Create(path, nil)
	if err != nil {
		t.Fatal(err)
	}
	f.Write([]byte("half a dataset"))
	if err := f.Abort(); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(path); !os.IsNotExist(err) {
		t.Fatalf("partial output still exists: %v", err)
	}
	if _, err := f.Write([]byte("more")); err == nil {
		t.Fatal("Write after Abort succeeded")
	}
}

func TestDigest(t *testing.T) {
	d := NewDigest(nil)
	if d.Sum32() != 0x02cc5d05 {
		t.Fatalf("xxh32 of nothing = %08x", d.Sum32())
	}

	var b bytes.Buffer
	d = NewDigest(&b)
	d.Write([]byte("abc"))
	d.Write([]byte("def"))

	whole := NewDigest(nil)
	whole.Write([]byte("abcdef"))
	if d.Sum32() != whole.Sum32() || d.Len() != 6 || b.String() != "abcdef" {
		t.Fatalf("digest %08x/%d, want %08x/6", d.Sum32(), d.Len(), whole.Sum32())
	}
}
