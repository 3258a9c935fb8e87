package sim

import (
	"fmt"
	"io"
	"strings"

	"github.com/sarchlab/cachesim/trace"
)

// Entry describes one processed record and the accesses it issued.
// Instruction fetches have no accesses.
type Entry struct {
	Record   trace.Record
	Accesses []Access
}

// A Sink receives an Entry for every processed record. Entries arrive in
// trace order. The Accesses slice is only valid during the call.
type Sink interface {
	Record(entry Entry) error
}

// SinkFunc adapts a function to the Sink interface.
type SinkFunc func(entry Entry) error

// Record calls f(entry).
func (f SinkFunc) Record(entry Entry) error {
	return f(entry)
}

// MultiSink sends every entry to each sink in turn, stopping at the first
// error. Nil sinks are skipped; with none left it returns nil.
func MultiSink(sinks ...Sink) Sink {
	var live multiSink
	for _, sink := range sinks {
		if sink != nil {
			live = append(live, sink)
		}
	}

	switch len(live) {
	case 0:
		return nil
	case 1:
		return live[0]
	default:
		return live
	}
}

type multiSink []Sink

func (m multiSink) Record(entry Entry) error {
	for _, sink := range m {
		if err := sink.Record(entry); err != nil {
			return err
		}
	}
	return nil
}

// TextSink writes one diagnostic line per data record.
type TextSink struct {
	w io.Writer
}

// NewTextSink creates a TextSink writing to w.
func NewTextSink(w io.Writer) *TextSink {
	return &TextSink{w: w}
}

// Record writes the entry unless it issued no accesses.
func (t *TextSink) Record(entry Entry) error {
	if len(entry.Accesses) == 0 {
		return nil
	}

	_, err := fmt.Fprintln(t.w, FormatEntry(entry))
	return err
}

// FormatEntry renders an entry as
//
//	<op> <hex-address>,<size> <hit|miss>[ eviction]...
//
// with one outcome per access, so a modify shows both on the same line.
func FormatEntry(entry Entry) string {
	var b strings.Builder

	b.WriteString(entry.Record.String())

	for _, access := range entry.Accesses {
		if access.Hit {
			b.WriteString(" hit")
		} else {
			b.WriteString(" miss")
		}

		if access.Eviction {
			b.WriteString(" eviction")
		}
	}

	return b.String()
}
