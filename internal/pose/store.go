// Package pose keeps named pose snapshots and blends them into live objects.
package pose

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/coreman2200/arcaluminis-presets/internal/scene"
)

// Store is a name-keyed registry of snapshots. Reads hand out the stored
// snapshot without copying; callers must treat it as read-only. Writes copy
// their input.
type Store struct {
	m   map[string]*Snapshot
	now func() time.Time
}

func NewStore() *Store {
	return &Store{m: map[string]*Snapshot{}, now: time.Now}
}

// Save stores a copy of snap under snap.Name, replacing any pose with that
// name. A missing ID or timestamp is filled in. The stored copy is returned.
func (s *Store) Save(snap Snapshot) Snapshot {
	c := snap.clone()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if c.Timestamp.IsZero() {
		c.Timestamp = s.now()
	}
	s.m[c.Name] = &c
	return c
}

// Capture snapshots the current state of objects under name.
func (s *Store) Capture(name string, objects []*scene.Object) Snapshot {
	snap := Snapshot{Name: name, Entries: make([]Entry, 0, len(objects))}
	for _, o := range objects {
		if o == nil {
			continue
		}
		snap.Entries = append(snap.Entries, EntryFrom(o))
	}
	return s.Save(snap)
}

func (s *Store) Get(name string) (*Snapshot, bool) {
	p, ok := s.m[name]
	return p, ok
}

func (s *Store) Delete(name string) bool {
	if _, ok := s.m[name]; !ok {
		return false
	}
	delete(s.m, name)
	return true
}

// List returns pose names, sorted.
func (s *Store) List() []string {
	out := make([]string, 0, len(s.m))
	for k := range s.m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (s *Store) Len() int { return len(s.m) }

func (s *Store) Clear() { s.m = map[string]*Snapshot{} }

// Load replaces the whole store with snaps. It never merges.
func (s *Store) Load(snaps []Snapshot) {
	s.Clear()
	for _, snap := range snaps {
		s.Save(snap)
	}
}

// Export copies every snapshot out, sorted by name.
func (s *Store) Export() []Snapshot {
	out := make([]Snapshot, 0, len(s.m))
	for _, name := range s.List() {
		out = append(out, s.m[name].clone())
	}
	return out
}
