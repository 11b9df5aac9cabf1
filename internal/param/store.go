package param

import (
	"fmt"
	"sync"
	"sync/atomic"
)

// Store owns the live parameter state. Writers go through Set under a
// mutex; the render actor reads via Snapshot, a single atomic load, and
// never contends with writers.
type Store struct {
	mu  sync.Mutex
	cur atomic.Pointer[Snapshot]
}

// NewStore returns a store holding Defaults.
func NewStore() *Store {
	s := &Store{}
	d := Defaults()
	s.cur.Store(&d)
	return s
}

// Set validates v against id's domain, applies it, and publishes a fresh
// snapshot. The previous snapshot stays valid for readers still holding it.
func (s *Store) Set(id ID, v float64) error {
	if err := Validate(id, v); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	next := *s.cur.Load()
	apply(&next, id, v)
	s.cur.Store(&next)
	return nil
}

// SetNamed resolves an external parameter name, then applies like Set.
func (s *Store) SetNamed(name string, v float64) error {
	id, ok := Lookup(name)
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnknown, name)
	}
	return s.Set(id, v)
}

// Snapshot returns the current consistent parameter view. Safe to call
// from the render actor every block; the returned pointer must be treated
// as read-only.
func (s *Store) Snapshot() *Snapshot {
	return s.cur.Load()
}

// Get reads one parameter from the current snapshot.
func (s *Store) Get(id ID) float64 {
	return read(s.cur.Load(), id)
}

// Replace swaps in an entire snapshot at once. Preset import uses this so
// a validated state lands atomically or not at all.
func (s *Store) Replace(snap Snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cur.Store(&snap)
}

// Export returns every parameter keyed by canonical name.
func (s *Store) Export() map[string]float64 {
	snap := s.cur.Load()
	out := make(map[string]float64, NumParams)
	for id := ID(0); id < NumParams; id++ {
		out[names[id]] = read(snap, id)
	}
	return out
}
