package cache

import (
	"errors"
	"fmt"
)

// Backend names a Store implementation.
type Backend string

const (
	// BackendArena is the contiguous line array in Cache.
	BackendArena Backend = "arena"
	// BackendDirectory is the Akita tag directory in DirectoryStore.
	BackendDirectory Backend = "directory"
	// BackendLRU is the per-set LRU list in SetLRUStore.
	BackendLRU Backend = "lru"
)

// ErrUnknownBackend is returned by NewStore for names it does not know.
var ErrUnknownBackend = errors.New("unknown cache backend")

// Backends lists every backend NewStore accepts.
func Backends() []Backend {
	return []Backend{BackendArena, BackendDirectory, BackendLRU}
}

// NewStore creates the named Store. All backends give the same results for
// the same sequence of accesses.
func NewStore(backend Backend, config Config) (Store, error) {
	var (
		store Store
		err   error
	)

	switch backend {
	case BackendArena, "":
		store, err = New(config)
	case BackendDirectory:
		store, err = NewDirectoryStore(config)
	case BackendLRU:
		store, err = NewSetLRUStore(config)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, string(backend))
	}

	if err != nil {
		return nil, err
	}

	return store, nil
}
