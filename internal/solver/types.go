// Package solver defines procedural presets that compute pool transforms
// directly each frame instead of through keyframed automation.
package solver

import (
	"errors"
	"fmt"
	"sort"

	"github.com/coreman2200/arcaluminis-presets/internal/audio"
	"github.com/coreman2200/arcaluminis-presets/internal/descriptor"
	"github.com/coreman2200/arcaluminis-presets/internal/pose"
	"github.com/coreman2200/arcaluminis-presets/internal/scene"
)

var ErrUnknownSolver = errors.New("solver: unknown solver")

// Params are the numeric knobs a solver reads, normally the active
// descriptor's parameter map.
type Params map[string]float64

// Get reads a param with default.
func (p Params) Get(key string, def float64) float64 {
	if v, ok := p[key]; ok {
		return v
	}
	return def
}

// Modifiers are per-frame adjustments layered on top of solved motion.
type Modifiers struct {
	RotationOffset scene.Vec3
	Shake          scene.Vec3
	// keyed by role
	ColorOverrides map[string]scene.Color
}

// Context is everything a solver may read in one frame. Pool objects are the
// only thing it writes.
type Context struct {
	Time       float64
	Audio      audio.Bands
	Poses      pose.Getter
	Pool       *scene.Pool
	Params     Params
	Descriptor *descriptor.Descriptor
	Camera     *scene.Camera
	Modifiers  Modifiers
}

// Solver computes the pool's transforms for ctx.Time. Solve must not create
// objects, and identical inputs must produce identical transforms.
type Solver interface {
	Name() string
	Defaults() map[string]float64
	PoolSpec() scene.PoolSpec
	Solve(ctx *Context)
}

type Registry struct{ m map[string]Solver }

func NewRegistry() *Registry { return &Registry{m: map[string]Solver{}} }

func (r *Registry) Register(s Solver) {
	if s == nil {
		return
	}
	r.m[s.Name()] = s
}

func (r *Registry) Get(name string) (Solver, error) {
	s, ok := r.m[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownSolver, name)
	}
	return s, nil
}

func (r *Registry) List() []string {
	out := make([]string, 0, len(r.m))
	for k := range r.m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}

// ParamsFor merges a solver's defaults under the descriptor's tuned values.
func ParamsFor(s Solver, d *descriptor.Descriptor) Params {
	p := Params{}
	p.Reset(s, d)
	return p
}

// Reset refills p in place so a frame loop can reuse one map.
func (p Params) Reset(s Solver, d *descriptor.Descriptor) {
	clear(p)
	for k, v := range s.Defaults() {
		p[k] = v
	}
	if d != nil {
		for k, v := range d.Params {
			p[k] = v
		}
	}
}

// ApplyModifiers layers m over already-solved transforms. Offsets add to
// whatever the solver wrote this frame, so they never accumulate.
func ApplyModifiers(p *scene.Pool, m Modifiers) {
	if p == nil {
		return
	}
	var zero scene.Vec3
	if m.RotationOffset != zero || m.Shake != zero {
		for _, o := range p.Objects() {
			o.Rotation = o.Rotation.Add(m.RotationOffset)
			o.Position = o.Position.Add(m.Shake)
		}
	}
	for role, c := range m.ColorOverrides {
		for _, o := range p.ByRole(role) {
			if o.Material != nil {
				o.Material.Color = c
			}
		}
	}
}
