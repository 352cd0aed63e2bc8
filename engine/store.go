package engine

import (
	"sync"
	"sync/atomic"
	"time"
)

// Snapshot is one fully-built, immutable aggregate result set. Readers
// receive the whole value; Data is never mutated after install.
type Snapshot struct {
	Name    string      `json:"name"`
	Version uint64      `json:"version"`
	BuiltAt time.Time   `json:"built_at"`
	Data    interface{} `json:"data"`
}

type snapshotCell struct {
	current atomic.Value // *Snapshot
	// buildMu serializes rebuilds of this one snapshot; readers never
	// take it.
	buildMu sync.Mutex
	version uint64
}

// SnapshotStore holds the current version of every named snapshot.
// Install swaps the pointer atomically so readers see either the
// previous complete snapshot or the next complete one, never a partial
// state.
type SnapshotStore struct {
	mu    sync.Mutex
	cells map[string]*snapshotCell
}

// NewSnapshotStore creates an empty store.
func NewSnapshotStore() *SnapshotStore {
	return &SnapshotStore{cells: make(map[string]*snapshotCell)}
}

func (s *SnapshotStore) cell(name string) *snapshotCell {
	s.mu.Lock()
	defer s.mu.Unlock()
	c := s.cells[name]
	if c == nil {
		c = &snapshotCell{}
		s.cells[name] = c
	}
	return c
}

// Get returns the current version of a named snapshot, or false when
// it has never been built.
func (s *SnapshotStore) Get(name string) (*Snapshot, bool) {
	v := s.cell(name).current.Load()
	if v == nil {
		return nil, false
	}
	return v.(*Snapshot), true
}

// Install publishes a freshly built snapshot under the given name and
// returns the version it was stamped with.
func (s *SnapshotStore) Install(name string, data interface{}) *Snapshot {
	c := s.cell(name)
	snap := &Snapshot{
		Name:    name,
		Version: atomic.AddUint64(&c.version, 1),
		BuiltAt: time.Now(),
		Data:    data,
	}
	c.current.Store(snap)
	return snap
}

// Lock serializes a rebuild of one snapshot. Concurrent rebuilds of
// different snapshots proceed independently.
func (s *SnapshotStore) Lock(name string) func() {
	c := s.cell(name)
	c.buildMu.Lock()
	return c.buildMu.Unlock
}

// Names lists every snapshot that has been installed at least once.
func (s *SnapshotStore) Names() []string {
	s.mu.Lock()
	defer s.mu.Unlock()
	names := make([]string, 0, len(s.cells))
	for name, c := range s.cells {
		if c.current.Load() != nil {
			names = append(names, name)
		}
	}
	return names
}
