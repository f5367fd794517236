package main

import (
	"bufio"
	"io"
	"strings"

	"github.com/andybalholm/terse"
)

// outputName picks the output file name for an input when none is given.
func outputName(in string, mode terse.Mode) string {
	if len(in) > 4 && strings.EqualFold(in[len(in)-4:], ".trs") {
		return in[:len(in)-4]
	}
	if mode == terse.Binary {
		return in + ".bin"
	}
	return in + ".txt"
}

func newBufferedReader(r io.Reader) io.Reader {
	return bufio.NewReaderSize(r, 1<<16)
}
