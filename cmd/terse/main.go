// Command terse compresses a file into a TERSE container that
// tersedecompress (or z/OS) can read.
//
// Usage:
//
//	terse [-text] [-level n] [-records] input output
//
// With -text the input is ASCII and is stored as EBCDIC. With -records the
// input is a sequence of RDW-prefixed records (as written by
// tersedecompress -b -rdw), stored as a variable-record container.
package main

import (
	"bufio"
	"encoding/binary"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"os"

	"github.com/andybalholm/terse"
)

var (
	textFlag    = flag.Bool("text", false, "translate ASCII input to EBCDIC")
	recordsFlag = flag.Bool("records", false, "input is RDW-prefixed variable-length records")
	levelFlag   = flag.Int("level", 6, "compression level (1-9)")
	blockFlag   = flag.Int("blocksize", terse.DefaultBlockSize, "physical block size")
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("terse: ")
	flag.Parse()
	if flag.NArg() != 2 {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: terse [flags] input output\n")
		flag.PrintDefaults()
		os.Exit(2)
	}
	if *blockFlag < 1 || *blockFlag > 0xffff {
		log.Fatalf("block size %d out of range", *blockFlag)
	}
	if *textFlag && *recordsFlag {
		log.Fatal("-text and -records cannot be combined")
	}

	if err := compressFile(flag.Arg(0), flag.Arg(1)); err != nil {
		os.Remove(flag.Arg(1))
		log.Fatal(err)
	}
}

func compressFile(in, out string) error {
	src, err := os.Open(in)
	if err != nil {
		return err
	}
	defer src.Close()

	f, err := os.Create(out)
	if err != nil {
		return err
	}
	bw := bufio.NewWriter(f)

	h := terse.Header{
		Version:   terse.VersionSpack,
		Flags:     terse.FlagMVS,
		BlockSize: *blockFlag,
	}
	if *recordsFlag {
		h.RecordFormat = terse.RecordVariable
	}
	w := terse.NewWriter(bw, h, *levelFlag)

	switch {
	case *recordsFlag:
		err = copyRecords(terse.RecordWriter{W: w}, bufio.NewReader(src))
	case *textFlag:
		err = copyText(w, src)
	default:
		_, err = io.Copy(w, src)
	}
	if err == nil {
		err = w.Close()
	}
	if err == nil {
		err = bw.Flush()
	}
	if cerr := f.Close(); err == nil {
		err = cerr
	}
	return err
}

func copyText(w io.Writer, r io.Reader) error {
	buf := make([]byte, 1<<16)
	var ebcdic []byte
	for {
		n, err := r.Read(buf)
		if n > 0 {
			ebcdic = terse.AppendEBCDIC(ebcdic[:0], buf[:n])
			if _, werr := w.Write(ebcdic); werr != nil {
				return werr
			}
		}
		if err == io.EOF {
			return nil
		}
		if err != nil {
			return err
		}
	}
}

func copyRecords(rw terse.RecordWriter, r io.Reader) error {
	var rdw [4]byte
	var data []byte
	for {
		if _, err := io.ReadFull(r, rdw[:]); err != nil {
			if err == io.EOF {
				return nil
			}
			return fmt.Errorf("reading RDW: %w", err)
		}
		n := int(binary.BigEndian.Uint16(rdw[:]))
		if n < 4 {
			return errors.New("invalid RDW")
		}
		if cap(data) < n-4 {
			data = make([]byte, n-4)
		}
		data = data[:n-4]
		if _, err := io.ReadFull(r, data); err != nil {
			return fmt.Errorf("reading record: %w", err)
		}
		if err := rw.WriteRecord(0, data); err != nil {
			return err
		}
	}
}
