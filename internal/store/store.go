package store

import (
	"sync"
	"time"

	"github.com/shantanuraj/roulette/internal/imagemap"
)

// Store is a thread-safe holder for the current *imagemap.ImageMap.
//
// Readers take a snapshot with Current and use it for the rest of a request;
// a concurrent swap never changes a snapshot already handed out. Writers are
// serialised by wmu so the fingerprint check and the swap it guards cannot
// interleave with another writer, while parsing happens outside mu so
// readers only wait for the pointer flip.
type Store struct {
	// wmu serializes SwapIfChanged calls.
	wmu sync.Mutex

	// mu guards current and updatedAt.
	mu        sync.RWMutex
	current   *imagemap.ImageMap
	updatedAt time.Time

	now func() time.Time // injectable for deterministic tests
}

// New creates a Store holding initial, which must not be nil.
func New(initial *imagemap.ImageMap) *Store {
	s := &Store{
		current: initial,
		now:     time.Now,
	}
	s.updatedAt = s.now()
	return s
}

// Current returns the image map in effect now. The returned map is
// immutable; it stays valid after a later swap but is no longer current.
func (s *Store) Current() *imagemap.ImageMap {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.current
}

// SwapIfChanged replaces the current map with one parsed from raw.
//
// If raw has the same fingerprint as the current map it returns (false, nil)
// without parsing. If raw does not parse it returns (false, err) and keeps
// the current map. Otherwise it swaps and returns (true, nil).
func (s *Store) SwapIfChanged(raw string) (bool, error) {
	s.wmu.Lock()
	defer s.wmu.Unlock()

	if imagemap.Fingerprint(raw) == s.Current().Fingerprint() {
		return false, nil
	}

	next, err := imagemap.Parse(raw)
	if err != nil {
		return false, err
	}

	s.mu.Lock()
	s.current = next
	s.updatedAt = s.now()
	s.mu.Unlock()
	return true, nil
}

// Len returns the number of keys in the current map.
func (s *Store) Len() int {
	return s.Current().Len()
}

// Fingerprint returns the fingerprint of the current map's source text.
func (s *Store) Fingerprint() uint64 {
	return s.Current().Fingerprint()
}

// UpdatedAt returns when the current map was installed.
func (s *Store) UpdatedAt() time.Time {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.updatedAt
}
