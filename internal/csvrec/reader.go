// Package csvrec reads the loosely quoted CSV that recipe exports come in.
//
// encoding/csv rejects a lot of what scraped recipe files contain (bare
// quotes mid-field, ragged rows), so records are assembled and split here
// with one quote-state rule shared by both stages: a double quote toggles
// quoting, except that "" inside a quoted field is a literal quote.
package csvrec

import (
	"bufio"
	"io"
	"iter"
	"strings"
)

const maxLineSize = 16 << 20

// Reader yields logical records: one or more physical lines joined with
// "\n" such that every quoted field that opens inside the record also
// closes inside it. An unterminated quoted field at end of input is still
// returned as the final record.
type Reader struct {
	sc    *bufio.Scanner
	line  int // physical lines consumed so far
	start int // first physical line of the last record
}

// NewReader wraps r.
func NewReader(r io.Reader) *Reader {
	sc := bufio.NewScanner(r)
	sc.Buffer(make([]byte, 0, 64*1024), maxLineSize)
	return &Reader{sc: sc}
}

// Next returns the next logical record. ok is false once input is exhausted.
func (r *Reader) Next() (record string, ok bool) {
	var b strings.Builder
	inQuotes := false
	started := false

	for r.sc.Scan() {
		r.line++
		text := r.sc.Text()
		if !started {
			r.start = r.line
			started = true
		} else {
			b.WriteByte('\n')
		}
		b.WriteString(text)

		inQuotes = scanQuotes(text, inQuotes)
		if !inQuotes {
			return b.String(), true
		}
	}
	if started {
		return b.String(), true
	}
	return "", false
}

// Line returns the physical line number (1-based) on which the most
// recently returned record started.
func (r *Reader) Line() int { return r.start }

// Err reports a read failure other than EOF, e.g. a line over 16 MiB.
func (r *Reader) Err() error { return r.sc.Err() }

// All returns the remaining records as an iterator.
func (r *Reader) All() iter.Seq[string] {
	return func(yield func(string) bool) {
		for {
			rec, ok := r.Next()
			if !ok || !yield(rec) {
				return
			}
		}
	}
}

// scanQuotes runs the quote state machine over one physical line and
// returns the state at its end.
func scanQuotes(line string, inQuotes bool) bool {
	for i := 0; i < len(line); i++ {
		if line[i] != '"' {
			continue
		}
		if inQuotes && i+1 < len(line) && line[i+1] == '"' {
			i++
			continue
		}
		inQuotes = !inQuotes
	}
	return inQuotes
}
