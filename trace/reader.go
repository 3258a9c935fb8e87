package trace

import (
	"bufio"
	"fmt"
	"io"
	"iter"
	"strings"
)

// ParseError reports a trace line that could not be parsed.
type ParseError struct {
	Line int
	Text string
	Err  error
}

func (e *ParseError) Error() string {
	return fmt.Sprintf("line %d: %q: %v", e.Line, e.Text, e.Err)
}

func (e *ParseError) Unwrap() error {
	return e.Err
}

// Reader produces the records of a trace one line at a time. It reads
// forward only and cannot be restarted.
//
// The sequence ends at the end of input or at the first line that does not
// parse. Either way Next returns a record whose Op is OpUndefined from then
// on, and Err tells the two cases apart.
type Reader struct {
	scanner *bufio.Scanner
	line    int
	done    bool
	err     error
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader) *Reader {
	return &Reader{scanner: bufio.NewScanner(r)}
}

// Next returns the next record, or the end-of-trace sentinel.
func (r *Reader) Next() Record {
	if r.done {
		return Record{}
	}

	for r.scanner.Scan() {
		r.line++

		text := strings.TrimSpace(r.scanner.Text())
		if text == "" {
			continue
		}

		record, err := ParseRecord(text)
		if err != nil {
			r.finish(&ParseError{Line: r.line, Text: text, Err: err})
			return Record{}
		}

		return record
	}

	r.finish(r.scanner.Err())
	return Record{}
}

func (r *Reader) finish(err error) {
	r.done = true
	r.err = err
}

// Err returns nil if the trace ended normally. After a malformed line it
// returns a *ParseError wrapping ErrMalformedRecord.
func (r *Reader) Err() error {
	return r.err
}

// Line returns the number of lines consumed so far.
func (r *Reader) Line() int {
	return r.line
}

// Records returns the remaining records as a sequence. The sentinel is not
// yielded.
func (r *Reader) Records() iter.Seq[Record] {
	return func(yield func(Record) bool) {
		for record := r.Next(); !record.IsEnd(); record = r.Next() {
			if !yield(record) {
				return
			}
		}
	}
}
