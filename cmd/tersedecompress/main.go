// Command tersedecompress decompresses files made by the z/OS TERSE
// utility.
//
// Usage:
//
//	tersedecompress [flags] input...
//
// Text mode, the default, translates EBCDIC to ASCII. With -b the output is
// binary, and variable-record datasets are split into records. The output
// name defaults to the input name without ".trs", or with ".txt" or ".bin"
// added. An output name ending in .gz, .zst, .lz4, .sz or .br is
// compressed.
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"
	"runtime"

	"golang.org/x/sync/errgroup"
	"golang.org/x/text/encoding/charmap"

	"github.com/andybalholm/terse"
	"github.com/andybalholm/terse/sink"
)

var (
	binaryFlag = flag.Bool("b", false, "binary mode: no EBCDIC translation")
	rdwFlag    = flag.Bool("rdw", false, "in binary mode, write each record behind an RDW")
	outFlag    = flag.String("o", "", "output file (only with a single input)")
	jobsFlag   = flag.Int("j", runtime.NumCPU(), "number of files to decompress at once")
	cpFlag     = flag.String("cp", "037", "EBCDIC code page for text mode: 037 or 1047")
	levelFlag  = flag.Int("level", 0, "compression level for compressed outputs")
	verbose    = flag.Bool("v", false, "report statistics for each file")
)

func main() {
	log.SetFlags(0)
	log.SetPrefix("tersedecompress: ")
	flag.Usage = func() {
		fmt.Fprintf(flag.CommandLine.Output(), "Usage: tersedecompress [flags] input...\n")
		flag.PrintDefaults()
	}
	flag.Parse()

	inputs := flag.Args()
	if len(inputs) == 0 {
		flag.Usage()
		os.Exit(2)
	}
	if *outFlag != "" && len(inputs) > 1 {
		log.Fatal("-o needs exactly one input file")
	}

	opts := terse.DefaultOptions()
	if *binaryFlag {
		opts.Mode = terse.Binary
	}
	switch *cpFlag {
	case "037":
	case "1047":
		opts.Table = terse.NewTable(charmap.CodePage1047)
	default:
		log.Fatalf("unknown code page %q", *cpFlag)
	}

	g, ctx := errgroup.WithContext(context.Background())
	if *jobsFlag > 0 {
		g.SetLimit(*jobsFlag)
	}
	failed := make([]bool, len(inputs))
	for i, in := range inputs {
		i, in := i, in
		out := *outFlag
		if out == "" {
			out = outputName(in, opts.Mode)
		}
		g.Go(func() error {
			if ctx.Err() != nil {
				return nil
			}
			if err := decompressFile(in, out, opts); err != nil {
				log.Printf("%s: %v", in, err)
				failed[i] = true
			}
			return nil
		})
	}
	g.Wait()

	for _, f := range failed {
		if f {
			os.Exit(1)
		}
	}
}

func decompressFile(in, out string, opts *terse.Options) error {
	src, err := os.Open(in)
	if err != nil {
		return err
	}
	defer src.Close()

	f, err := sink.Create(out, &sink.Options{Level: *levelFlag})
	if err != nil {
		return err
	}
	var dst terse.Sink = f
	if *rdwFlag && opts.Mode == terse.Binary {
		dst = sink.RDW{Sink: f}
	}

	stats, err := terse.Decompress(newBufferedReader(src), dst, opts)
	if err != nil {
		f.Abort()
		return err
	}
	if err := f.Close(); err != nil {
		os.Remove(out)
		return err
	}

	if *verbose {
		n, sum := f.Digest()
		log.Printf("%s -> %s: %s mode, version %#02x, %d tokens, %d -> %d bytes, %d records, xxh32 %08x",
			in, out, opts.Mode, stats.Header.Version, stats.Tokens, stats.BytesIn, n, stats.Records, sum)
	}
	return nil
}
