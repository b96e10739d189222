package catalog

import "sync/atomic"

// Store publishes catalog snapshots. Readers get whole snapshots; a reload
// swaps the pointer and never touches the previous catalog, so in-flight
// predictions keep a consistent view.
type Store struct {
	current atomic.Pointer[Catalog]
}

func NewStore(c *Catalog) *Store {
	s := &Store{}
	if c == nil {
		c = &Catalog{}
	}
	s.current.Store(c)
	return s
}

// Current returns the latest snapshot. Never nil.
func (s *Store) Current() *Catalog {
	return s.current.Load()
}

// Replace publishes c and returns the snapshot it replaced.
func (s *Store) Replace(c *Catalog) *Catalog {
	if c == nil {
		c = &Catalog{}
	}
	return s.current.Swap(c)
}
