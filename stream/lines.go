package stream

import (
	"bufio"
	"bytes"
	"io"
	"iter"
)

// DefaultMaxLine is the longest line Lines accepts by default (1MB).
const DefaultMaxLine = 1 << 20

// LineReader splits an io.Reader into '\n'-delimited lines.
//
// Lines are yielded without the trailing newline (and without a '\r'
// before it). Blank lines are skipped. The yielded slice is only valid
// until the next iteration; copy it to retain it.
type LineReader struct {
	source  io.Reader
	maxLine int
	line    int
	err     error
}

// Lines returns a LineReader over r. maxLine <= 0 selects DefaultMaxLine.
func Lines(r io.Reader, maxLine int) *LineReader {
	if maxLine <= 0 {
		maxLine = DefaultMaxLine
	}
	return &LineReader{source: r, maxLine: maxLine}
}

// All yields every non-blank line. After iteration, Err reports any read
// error other than io.EOF.
func (r *LineReader) All() iter.Seq[[]byte] {
	return func(yield func([]byte) bool) {
		sc := bufio.NewScanner(r.source)
		sc.Buffer(make([]byte, 0, min(4096, r.maxLine)), r.maxLine)
		for sc.Scan() {
			r.line++
			line := bytes.TrimSuffix(sc.Bytes(), []byte{'\r'})
			if len(bytes.TrimSpace(line)) == 0 {
				continue
			}
			if !yield(line) {
				return
			}
		}
		r.err = sc.Err()
	}
}

// Line returns the 1-based number of the last line read.
func (r *LineReader) Line() int {
	return r.line
}

// Err returns the first read error encountered by All.
func (r *LineReader) Err() error {
	return r.err
}
