package scene

import (
	"errors"
	"fmt"
	"sort"
)

// RoleRange tags pool[Kind][From:To) with Role.
type RoleRange struct {
	Kind Kind
	Role string
	From int
	To   int
}

// PoolSpec sizes a pool. Singleton, when set, adds exactly one object of that
// kind tagged SingletonRole.
type PoolSpec struct {
	Counts        map[Kind]int
	Roles         []RoleRange
	Singleton     Kind
	SingletonRole string
}

// Pool is a fixed set of pre-allocated renderables partitioned by kind.
// It is sized once and never grows or shrinks; roles are resolved at
// construction so solvers never slice by position.
type Pool struct {
	kinds     map[Kind][]*Object
	roles     map[string][]*Object
	byID      map[string]*Object
	all       []*Object
	singleton *Object
}

// NewPool allocates every object described by spec.
func NewPool(spec PoolSpec) (*Pool, error) {
	p := &Pool{
		kinds: map[Kind][]*Object{},
		roles: map[string][]*Object{},
		byID:  map[string]*Object{},
	}
	kinds := make([]Kind, 0, len(spec.Counts))
	for k, n := range spec.Counts {
		if n < 0 {
			return nil, fmt.Errorf("negative count for %q", k)
		}
		kinds = append(kinds, k)
	}
	sort.Slice(kinds, func(i, j int) bool { return kinds[i] < kinds[j] })

	for _, k := range kinds {
		n := spec.Counts[k]
		objs := make([]*Object, n)
		for i := 0; i < n; i++ {
			o := newObject(fmt.Sprintf("%s-%d", k, i), k)
			objs[i] = o
			p.byID[o.ID] = o
			p.all = append(p.all, o)
		}
		p.kinds[k] = objs
	}

	for _, rr := range spec.Roles {
		objs := p.kinds[rr.Kind]
		if rr.Role == "" {
			return nil, errors.New("role range without a role")
		}
		if rr.From < 0 || rr.To > len(objs) || rr.From > rr.To {
			return nil, fmt.Errorf("role %q: range [%d,%d) outside %d %s objects", rr.Role, rr.From, rr.To, len(objs), rr.Kind)
		}
		for _, o := range objs[rr.From:rr.To] {
			if o.Role != "" && o.Role != rr.Role {
				return nil, fmt.Errorf("object %s tagged twice (%s, %s)", o.ID, o.Role, rr.Role)
			}
			o.Role = rr.Role
		}
	}

	if spec.Singleton != "" {
		id := string(spec.Singleton)
		if _, dup := p.byID[id]; dup {
			return nil, fmt.Errorf("singleton id %q collides", id)
		}
		o := newObject(id, spec.Singleton)
		o.Role = spec.SingletonRole
		p.singleton = o
		p.byID[id] = o
		p.all = append(p.all, o)
	}

	for _, o := range p.all {
		if o.Role != "" {
			p.roles[o.Role] = append(p.roles[o.Role], o)
		}
	}
	return p, nil
}

func newObject(id string, k Kind) *Object {
	return &Object{
		ID:       id,
		Kind:     k,
		Scale:    Uniform(1),
		Visible:  true,
		Material: &Material{Color: Color{1, 1, 1}, Opacity: 1},
	}
}

// Kind returns the objects of one primitive kind in index order.
func (p *Pool) Kind(k Kind) []*Object { return p.kinds[k] }

// ByRole returns the objects tagged with role in pool order.
func (p *Pool) ByRole(role string) []*Object { return p.roles[role] }

// Singleton returns the singleton object, or nil.
func (p *Pool) Singleton() *Object { return p.singleton }

// Objects returns every pooled object. The slice is shared; do not append.
func (p *Pool) Objects() []*Object { return p.all }

func (p *Pool) Lookup(id string) (*Object, bool) {
	o, ok := p.byID[id]
	return o, ok
}

// Roles lists every role present in the pool.
func (p *Pool) Roles() []string {
	out := make([]string, 0, len(p.roles))
	for r := range p.roles {
		out = append(out, r)
	}
	sort.Strings(out)
	return out
}

// Len is the total object count, singleton included.
func (p *Pool) Len() int { return len(p.all) }
