// Package descriptor holds the live-tunable parameter sets that customise
// solver-driven presets.
package descriptor

import (
	"errors"
	"fmt"
	"sort"

	"github.com/google/uuid"
)

var ErrNotFound = errors.New("descriptor: not found")

// Descriptor names a solver, an optional base pose and the numeric knobs
// the solver reads every frame.
type Descriptor struct {
	ID       string             `json:"id" yaml:"id"`
	Name     string             `json:"name" yaml:"name"`
	Solver   string             `json:"solver" yaml:"solver"`
	BasePose string             `json:"basePose,omitempty" yaml:"basePose,omitempty"`
	Params   map[string]float64 `json:"params" yaml:"params"`
	Metadata map[string]string  `json:"metadata,omitempty" yaml:"metadata,omitempty"`
}

func (d Descriptor) clone() Descriptor {
	out := d
	out.Params = make(map[string]float64, len(d.Params))
	for k, v := range d.Params {
		out.Params[k] = v
	}
	if d.Metadata != nil {
		out.Metadata = make(map[string]string, len(d.Metadata))
		for k, v := range d.Metadata {
			out.Metadata[k] = v
		}
	}
	return out
}

// Store is a name-keyed registry of descriptors. Parameter maps are mutable
// in place through SetParam; readers get the stored descriptor without a copy.
type Store struct {
	m map[string]*Descriptor
	// order of saves per solver, most recent last
	bySolver map[string][]string
}

func NewStore() *Store {
	return &Store{m: map[string]*Descriptor{}, bySolver: map[string][]string{}}
}

// Save stores a copy of d under d.Name, replacing any descriptor with that
// name, and makes it the active descriptor for its solver.
func (s *Store) Save(d Descriptor) Descriptor {
	c := d.clone()
	if c.ID == "" {
		c.ID = uuid.NewString()
	}
	if old, ok := s.m[c.Name]; ok {
		s.unlink(old.Solver, old.Name)
	}
	s.m[c.Name] = &c
	s.bySolver[c.Solver] = append(s.bySolver[c.Solver], c.Name)
	return c
}

func (s *Store) unlink(solver, name string) {
	names := s.bySolver[solver]
	for i, n := range names {
		if n == name {
			s.bySolver[solver] = append(names[:i:i], names[i+1:]...)
			break
		}
	}
	if len(s.bySolver[solver]) == 0 {
		delete(s.bySolver, solver)
	}
}

func (s *Store) Get(name string) (*Descriptor, bool) {
	d, ok := s.m[name]
	return d, ok
}

// ForSolver returns the most recently saved descriptor for solver.
func (s *Store) ForSolver(solver string) (*Descriptor, bool) {
	names := s.bySolver[solver]
	if len(names) == 0 {
		return nil, false
	}
	return s.m[names[len(names)-1]], true
}

// SetParam tunes one parameter live.
func (s *Store) SetParam(name, key string, v float64) error {
	d, ok := s.m[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if d.Params == nil {
		d.Params = map[string]float64{}
	}
	d.Params[key] = v
	return nil
}

// Param reads one parameter, falling back to def when the descriptor or the
// key is absent.
func (s *Store) Param(name, key string, def float64) float64 {
	d, ok := s.m[name]
	if !ok {
		return def
	}
	if v, ok := d.Params[key]; ok {
		return v
	}
	return def
}

// EnsureDefaults fills keys missing from the named descriptor without
// overwriting tuned values.
func (s *Store) EnsureDefaults(name string, defaults map[string]float64) error {
	d, ok := s.m[name]
	if !ok {
		return fmt.Errorf("%w: %q", ErrNotFound, name)
	}
	if d.Params == nil {
		d.Params = map[string]float64{}
	}
	for k, v := range defaults {
		if _, ok := d.Params[k]; !ok {
			d.Params[k] = v
		}
	}
	return nil
}

func (s *Store) Delete(name string) bool {
	d, ok := s.m[name]
	if !ok {
		return false
	}
	s.unlink(d.Solver, name)
	delete(s.m, name)
	return true
}

// List returns descriptor names, sorted.
func (s *Store) List() []string {
	out := make([]string, 0, len(s.m))
	for k := range s.m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

func (s *Store) Len() int { return len(s.m) }

func (s *Store) Clear() {
	s.m = map[string]*Descriptor{}
	s.bySolver = map[string][]string{}
}

// Load replaces the store contents with ds, in order. It never merges.
func (s *Store) Load(ds []Descriptor) {
	s.Clear()
	for _, d := range ds {
		s.Save(d)
	}
}

// Export copies every descriptor out, grouped by solver name and in save
// order within each solver, so Load rebuilds the same ForSolver answers.
func (s *Store) Export() []Descriptor {
	solvers := make([]string, 0, len(s.bySolver))
	for k := range s.bySolver {
		solvers = append(solvers, k)
	}
	sort.Strings(solvers)

	out := make([]Descriptor, 0, len(s.m))
	for _, sv := range solvers {
		for _, name := range s.bySolver[sv] {
			out = append(out, s.m[name].clone())
		}
	}
	return out
}
