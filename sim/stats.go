package sim

import (
	"fmt"

	"github.com/sarchlab/cachesim/cache"
)

// Stats holds the results of a simulation run.
type Stats struct {
	// Hits, Misses and Evictions count physical cache accesses.
	Hits      uint64
	Misses    uint64
	Evictions uint64

	// Reads and Writes split the accesses by direction. A modify counts
	// one of each.
	Reads  uint64
	Writes uint64

	// Records is the number of trace records consumed, including the
	// instruction fetches counted in Instructions.
	Records      uint64
	Instructions uint64
}

// Accesses returns the number of physical cache accesses.
func (s Stats) Accesses() uint64 {
	return s.Hits + s.Misses
}

// HitRate returns hits over accesses, or 0 when nothing was accessed.
func (s Stats) HitRate() float64 {
	if s.Accesses() == 0 {
		return 0
	}
	return float64(s.Hits) / float64(s.Accesses())
}

// String renders the summary line.
func (s Stats) String() string {
	return fmt.Sprintf("hits:%d misses:%d evictions:%d",
		s.Hits, s.Misses, s.Evictions)
}

func (s *Stats) count(kind Kind, result cache.AccessResult) {
	if kind == Write {
		s.Writes++
	} else {
		s.Reads++
	}

	if result.Hit {
		s.Hits++
	} else {
		s.Misses++
	}

	if result.Eviction {
		s.Evictions++
	}
}
