// Package trace reads memory-access traces in the Valgrind Lackey format.
//
// Each line holds one access:
//
//	<op> <hex-address>,<decimal-size>
//
// where op is I (instruction fetch), L (data load), S (data store) or
// M (data modify, a load followed by a store to the same address).
package trace

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Op is the kind of memory access a trace record describes.
type Op int

const (
	// OpUndefined marks the end of a trace.
	OpUndefined Op = iota
	// OpInstruction is an instruction fetch.
	OpInstruction
	// OpLoad is a data load.
	OpLoad
	// OpStore is a data store.
	OpStore
	// OpModify is a data load followed by a data store.
	OpModify
)

// String returns the letter used for the operation in trace files.
func (o Op) String() string {
	switch o {
	case OpInstruction:
		return "I"
	case OpLoad:
		return "L"
	case OpStore:
		return "S"
	case OpModify:
		return "M"
	default:
		return "?"
	}
}

// ParseOp converts a trace letter into an Op. Letters are case-sensitive.
func ParseOp(s string) (Op, bool) {
	switch s {
	case "I":
		return OpInstruction, true
	case "L":
		return OpLoad, true
	case "S":
		return OpStore, true
	case "M":
		return OpModify, true
	default:
		return OpUndefined, false
	}
}

// Record is one memory access from a trace.
type Record struct {
	Op      Op
	Address uint64
	// Size is the number of bytes accessed. It is kept for diagnostics only;
	// accesses are assumed not to cross block boundaries.
	Size uint8
}

// IsEnd reports whether r is the end-of-trace sentinel.
func (r Record) IsEnd() bool {
	return r.Op == OpUndefined
}

// String formats r the way it appears in a trace file, without the leading
// space Valgrind puts before data accesses.
func (r Record) String() string {
	return fmt.Sprintf("%s %x,%d", r.Op, r.Address, r.Size)
}

// ErrMalformedRecord is wrapped by every error ParseRecord returns.
var ErrMalformedRecord = errors.New("malformed trace record")

// ParseRecord parses a single trace line. Surrounding whitespace is ignored.
func ParseRecord(line string) (Record, error) {
	fields := strings.Fields(line)
	if len(fields) != 2 {
		return Record{}, fmt.Errorf(
			"%w: expected \"<op> <address>,<size>\"", ErrMalformedRecord)
	}

	op, ok := ParseOp(fields[0])
	if !ok {
		return Record{}, fmt.Errorf(
			"%w: unknown operation %q", ErrMalformedRecord, fields[0])
	}

	addressText, sizeText, found := strings.Cut(fields[1], ",")
	if !found {
		return Record{}, fmt.Errorf(
			"%w: missing size after address %q", ErrMalformedRecord, fields[1])
	}

	address, err := strconv.ParseUint(addressText, 16, 64)
	if err != nil {
		return Record{}, fmt.Errorf(
			"%w: bad address %q: %w", ErrMalformedRecord, addressText, err)
	}

	size, err := strconv.ParseUint(sizeText, 10, 8)
	if err != nil {
		return Record{}, fmt.Errorf(
			"%w: bad size %q: %w", ErrMalformedRecord, sizeText, err)
	}

	return Record{Op: op, Address: address, Size: uint8(size)}, nil
}
