package cache

import (
	"fmt"

	"github.com/hashicorp/golang-lru/v2/simplelru"
)

// SetLRUStore keeps one LRU list of tags per set.
type SetLRUStore struct {
	config Config
	sets   []*simplelru.LRU[uint64, struct{}]
}

// NewSetLRUStore creates a store with an empty LRU list for every set.
func NewSetLRUStore(config Config) (*SetLRUStore, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	sets := make([]*simplelru.LRU[uint64, struct{}], config.NumSets())
	for i := range sets {
		set, err := simplelru.NewLRU[uint64, struct{}](config.LinesPerSet, nil)
		if err != nil {
			return nil, fmt.Errorf("failed to create set %d: %w", i, err)
		}
		sets[i] = set
	}

	return &SetLRUStore{config: config, sets: sets}, nil
}

// Config returns the cache configuration.
func (s *SetLRUStore) Config() Config {
	return s.config
}

// Access looks up the tag of address in its set. Get refreshes recency on a
// hit; Add reports whether the oldest tag had to go.
func (s *SetLRUStore) Access(address uint64) AccessResult {
	addr := Decode(address, s.config)
	set := s.sets[addr.SetIndex]

	if _, ok := set.Get(addr.Tag); ok {
		return AccessResult{Hit: true}
	}

	evicted := set.Add(addr.Tag, struct{}{})
	return AccessResult{Eviction: evicted}
}

// Reset empties every set.
func (s *SetLRUStore) Reset() {
	for _, set := range s.sets {
		set.Purge()
	}
}
