package cache

import (
	akitacache "github.com/sarchlab/akita/v4/mem/cache"
)

// DirectoryStore models the cache with Akita's tag directory and LRU victim
// finder. Block tags hold the block-aligned address, which identifies the
// same block as the (tag, set index) pair that Decode produces.
type DirectoryStore struct {
	config Config

	// Akita cache directory for tag/state management
	directory *akitacache.DirectoryImpl
}

// NewDirectoryStore creates a directory-backed store.
func NewDirectoryStore(config Config) (*DirectoryStore, error) {
	if err := config.Validate(); err != nil {
		return nil, err
	}

	return &DirectoryStore{
		config: config,
		directory: akitacache.NewDirectory(
			config.NumSets(),
			config.LinesPerSet,
			int(config.BlockSize()),
			akitacache.NewLRUVictimFinder(),
		),
	}, nil
}

// Config returns the cache configuration.
func (d *DirectoryStore) Config() Config {
	return d.config
}

// Access looks up address in the directory, filling or replacing a block on
// a miss.
func (d *DirectoryStore) Access(address uint64) AccessResult {
	blockAddr := address &^ (d.config.BlockSize() - 1)

	block := d.directory.Lookup(0, blockAddr) // PID=0, single address space
	if block != nil && block.IsValid {
		d.directory.Visit(block) // Update LRU
		return AccessResult{Hit: true}
	}

	victim := d.directory.FindVictim(blockAddr)
	result := AccessResult{Eviction: victim.IsValid}

	victim.Tag = blockAddr
	victim.IsValid = true
	victim.IsDirty = false
	d.directory.Visit(victim)

	return result
}

// Reset invalidates every block.
func (d *DirectoryStore) Reset() {
	d.directory.Reset()
}
