// Package cache provides set-associative cache models with LRU replacement.
package cache

// AccessResult contains the result of a cache access.
type AccessResult struct {
	// Hit indicates whether the requested block was resident.
	Hit bool
	// Eviction is true if a valid line was replaced to make room.
	Eviction bool
}

// Store is a cache that can be accessed by address. Reads and writes behave
// the same because only block presence is modelled.
type Store interface {
	Access(address uint64) AccessResult
}

// Line is one cache line.
type Line struct {
	Valid bool
	Tag   uint64
	// LastUsed is the value of the cache's access counter when the line was
	// last hit or filled.
	LastUsed uint64
}

// Cache is a set-associative cache whose lines live in one contiguous slice,
// indexed by (setIndex * LinesPerSet + way).
type Cache struct {
	config Config
	lines  []Line

	// clock is a logical counter shared by every set. It advances once per
	// access so recency is totally ordered.
	clock uint64
}

// New creates a cache with every line invalid.
func New(config Config) (*Cache, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &Cache{
		config: config,
		lines:  make([]Line, config.TotalLines()),
	}, nil
}

// Config returns the cache configuration.
func (c *Cache) Config() Config {
	return c.config
}

// Line returns a copy of the line at the given set and way.
func (c *Cache) Line(setIndex, way int) Line {
	return c.set(uint64(setIndex))[way]
}

// Clock returns the number of accesses performed since the last reset.
func (c *Cache) Clock() uint64 {
	return c.clock
}

// Reset invalidates all lines and restarts the access counter.
func (c *Cache) Reset() {
	clear(c.lines)
	c.clock = 0
}

func (c *Cache) set(setIndex uint64) []Line {
	ways := uint64(c.config.LinesPerSet)
	start := setIndex * ways
	return c.lines[start : start+ways]
}

// Access looks up address and updates the LRU state.
//
// Lines are scanned in way order. The first valid line with a matching tag is
// a hit; the first invalid line is filled. If the set is full, the line with
// the smallest LastUsed is replaced, ties going to the lowest way.
func (c *Cache) Access(address uint64) AccessResult {
	addr := Decode(address, c.config)
	set := c.set(addr.SetIndex)
	c.clock++

	for i := range set {
		line := &set[i]

		if line.Valid && line.Tag == addr.Tag {
			line.LastUsed = c.clock
			return AccessResult{Hit: true}
		}

		if !line.Valid {
			line.Valid = true
			line.Tag = addr.Tag
			line.LastUsed = c.clock
			return AccessResult{}
		}
	}

	victim := &set[0]
	for i := 1; i < len(set); i++ {
		if set[i].LastUsed < victim.LastUsed {
			victim = &set[i]
		}
	}

	victim.Tag = addr.Tag
	victim.LastUsed = c.clock

	return AccessResult{Eviction: true}
}
