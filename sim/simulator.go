// Package sim replays memory-access traces against a cache model.
package sim

import (
	"fmt"

	"github.com/sarchlab/cachesim/cache"
	"github.com/sarchlab/cachesim/trace"
)

// Kind is the direction of a physical cache access.
type Kind int

const (
	// Read is a load, or the first half of a modify.
	Read Kind = iota
	// Write is a store, or the second half of a modify.
	Write
)

func (k Kind) String() string {
	if k == Write {
		return "write"
	}
	return "read"
}

// Access is one physical cache access issued for a record.
type Access struct {
	Kind Kind
	cache.AccessResult
}

// RecordSource yields trace records until it returns the end sentinel.
// Err reports why the sequence ended. *trace.Reader and *trace.File
// satisfy it.
type RecordSource interface {
	Next() trace.Record
	Err() error
}

// SimulatorOption configures a Simulator.
type SimulatorOption func(*Simulator)

// WithSink sends one Entry per processed record to sink.
func WithSink(sink Sink) SimulatorOption {
	return func(s *Simulator) {
		s.sink = sink
	}
}

// Simulator issues the cache accesses that trace records imply and counts
// the outcomes. Records are processed strictly in order; LRU state depends
// on it.
type Simulator struct {
	store cache.Store
	sink  Sink
	stats Stats
}

// NewSimulator creates a Simulator over store.
func NewSimulator(store cache.Store, opts ...SimulatorOption) *Simulator {
	s := &Simulator{store: store}

	for _, opt := range opts {
		opt(s)
	}

	return s
}

// Stats returns the statistics accumulated so far.
func (s *Simulator) Stats() Stats {
	return s.stats
}

// Step processes a single record.
//
// Instruction fetches are not simulated. Loads issue a read and stores a
// write. Modifies issue a read and then a write to the same address.
func (s *Simulator) Step(record trace.Record) error {
	var (
		buf [2]Access
		n   int
	)

	switch record.Op {
	case trace.OpInstruction:
		s.stats.Instructions++
	case trace.OpLoad:
		buf[0] = s.access(Read, record.Address)
		n = 1
	case trace.OpStore:
		buf[0] = s.access(Write, record.Address)
		n = 1
	case trace.OpModify:
		buf[0] = s.access(Read, record.Address)
		buf[1] = s.access(Write, record.Address)
		n = 2
	default:
		return fmt.Errorf("cannot simulate operation %v", record.Op)
	}

	s.stats.Records++

	if s.sink == nil {
		return nil
	}

	err := s.sink.Record(Entry{Record: record, Accesses: buf[:n]})
	if err != nil {
		return fmt.Errorf("failed to record access log entry: %w", err)
	}

	return nil
}

func (s *Simulator) access(kind Kind, address uint64) Access {
	result := s.store.Access(address)
	s.stats.count(kind, result)
	return Access{Kind: kind, AccessResult: result}
}

// Run processes records from src until its end sentinel. The statistics
// gathered up to that point are returned even when an error ends the run,
// including a malformed trace line reported by src.
func (s *Simulator) Run(src RecordSource) (Stats, error) {
	for record := src.Next(); !record.IsEnd(); record = src.Next() {
		if err := s.Step(record); err != nil {
			return s.stats, err
		}
	}

	if err := src.Err(); err != nil {
		return s.stats, fmt.Errorf("failed to read trace: %w", err)
	}

	return s.stats, nil
}

// Simulate runs a fresh Simulator over src.
func Simulate(
	store cache.Store,
	src RecordSource,
	opts ...SimulatorOption,
) (Stats, error) {
	return NewSimulator(store, opts...).Run(src)
}
