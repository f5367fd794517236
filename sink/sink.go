// Package sink provides file outputs for terse.Decompress. The output can
// be compressed again on the way out, chosen by the file extension.
package sink

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/andybalholm/brotli"
	"github.com/golang/snappy"
	"github.com/klauspost/compress/gzip"
	"github.com/klauspost/compress/zstd"
	"github.com/pierrec/lz4/v4"
)

// Format is the compression applied to an output file.
type Format int

const (
	Plain Format = iota
	GZIP
	Zstd
	LZ4
	Snappy
	Brotli
)

var formatNames = [...]string{"plain", "gzip", "zstd", "lz4", "snappy", "brotli"}

func (f Format) String() string {
	if f < 0 || int(f) >= len(formatNames) {
		return fmt.Sprintf("Format(%d)", int(f))
	}
	return formatNames[f]
}

// FormatFor chooses a Format from a file name's extension.
func FormatFor(path string) Format {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".gz":
		return GZIP
	case ".zst":
		return Zstd
	case ".lz4":
		return LZ4
	case ".sz":
		return Snappy
	case ".br":
		return Brotli
	}
	return Plain
}

// Options configures Create.
type Options struct {
	// Level is the compression level for compressed outputs, in the
	// library's own scale. Zero means the library default.
	Level int

	// Format overrides the format chosen from the file name.
	Format *Format
}

type flusher interface {
	Flush() error
}

// A File is a terse.Sink writing to a file, optionally through a
// compressor. It records the length and xxHash32 digest of what is written
// to it, before compression.
type File struct {
	path   string
	format Format
	f      *os.File
	bw     *bufio.Writer
	comp   io.WriteCloser
	digest *Digest
	w      io.Writer
	closed bool
}

// Create creates the file at path and returns a File writing to it.
func Create(path string, opts *Options) (*File, error) {
	if opts == nil {
		opts = &Options{}
	}
	format := FormatFor(path)
	if opts.Format != nil {
		format = *opts.Format
	}

	f, err := os.Create(path)
	if err != nil {
		return nil, err
	}
	out := &File{
		path:   path,
		format: format,
		f:      f,
		bw:     bufio.NewWriterSize(f, 1<<16),
	}
	out.comp, err = newCompressor(out.bw, format, opts.Level)
	if err != nil {
		f.Close()
		os.Remove(path)
		return nil, fmt.Errorf("creating %v writer: %w", format, err)
	}

	var dest io.Writer = out.bw
	if out.comp != nil {
		dest = out.comp
	}
	out.digest = NewDigest(dest)
	out.w = out.digest
	return out, nil
}

func newCompressor(w io.Writer, format Format, level int) (io.WriteCloser, error) {
	switch format {
	case GZIP:
		if level == 0 {
			level = gzip.DefaultCompression
		}
		return gzip.NewWriterLevel(w, level)
	case Zstd:
		var opts []zstd.EOption
		if level != 0 {
			opts = append(opts, zstd.WithEncoderLevel(zstd.EncoderLevelFromZstd(level)))
		}
		return zstd.NewWriter(w, opts...)
	case LZ4:
		return lz4.NewWriter(w), nil
	case Snappy:
		return snappy.NewBufferedWriter(w), nil
	case Brotli:
		if level == 0 {
			level = brotli.DefaultCompression
		}
		return brotli.NewWriterLevel(w, level), nil
	}
	return nil, nil
}

// Path returns the name of the file.
func (f *File) Path() string {
	return f.path
}

// Format returns the compression format of the file.
func (f *File) Format() Format {
	return f.format
}

// Digest returns the number of bytes written and their xxHash32 digest.
func (f *File) Digest() (int64, uint32) {
	return f.digest.Len(), f.digest.Sum32()
}

func (f *File) Write(p []byte) (int, error) {
	if f.closed {
		return 0, os.ErrClosed
	}
	return f.w.Write(p)
}

// Flush pushes buffered data through the compressor to the file.
func (f *File) Flush() error {
	if f.closed {
		return os.ErrClosed
	}
	if fl, ok := f.comp.(flusher); ok {
		if err := fl.Flush(); err != nil {
			return err
		}
	}
	return f.bw.Flush()
}

// Close finishes the compressed stream and closes the file.
func (f *File) Close() error {
	if f.closed {
		return nil
	}
	f.closed = true
	var errs []error
	if f.comp != nil {
		errs = append(errs, f.comp.Close())
	}
	errs = append(errs, f.bw.Flush(), f.f.Close())
	return errors.Join(errs...)
}

// Abort closes the file and removes it. It is used when decompression
// fails, so that no partial output is left behind.
func (f *File) Abort() error {
	if !f.closed {
		f.closed = true
		if f.comp != nil {
			f.comp.Close()
		}
		f.f.Close()
	}
	return os.Remove(f.path)
}
