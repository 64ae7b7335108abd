package config

import (
	"sync/atomic"
)

// Store holds the active parameter snapshot for long-lived processes that
// recalibrate while serving calls. Snapshots are swapped whole; a calculation
// that loaded a snapshot keeps computing against it even if a swap lands
// mid-flight, so results stay internally consistent.
type Store struct {
	current atomic.Pointer[Parameters]
}

// NewStore creates a store seeded with the given snapshot.
func NewStore(p *Parameters) *Store {
	s := &Store{}
	s.current.Store(p)
	return s
}

// Load returns the active snapshot. Callers must treat it as read-only.
func (s *Store) Load() *Parameters {
	return s.current.Load()
}

// Swap installs a new snapshot and returns the previous one.
func (s *Store) Swap(p *Parameters) *Parameters {
	return s.current.Swap(p)
}
