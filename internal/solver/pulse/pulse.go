// Package pulse is a minimal solver: a grid of cells breathing in time.
package pulse

import (
	"math"

	"github.com/coreman2200/arcaluminis-presets/internal/scene"
	"github.com/coreman2200/arcaluminis-presets/internal/solver"
)

const (
	Name     = "pulse"
	RoleCell = "cell"

	kindCell scene.Kind = "cube"
	cells               = 16
	side                = 4
)

type Solver struct {
	defaults map[string]float64
}

func New() *Solver {
	return &Solver{defaults: map[string]float64{
		"pulseHz":  0.5,
		"depth":    0.3,
		"bassGain": 1.0,
		"hue":      0.55,
		"spacing":  1.5,
	}}
}

func (s *Solver) Name() string                 { return Name }
func (s *Solver) Defaults() map[string]float64 { return s.defaults }

func (s *Solver) PoolSpec() scene.PoolSpec {
	return scene.PoolSpec{
		Counts: map[scene.Kind]int{kindCell: cells},
		Roles:  []scene.RoleRange{{Kind: kindCell, Role: RoleCell, From: 0, To: cells}},
	}
}

func (s *Solver) Solve(ctx *solver.Context) {
	if ctx == nil || ctx.Pool == nil {
		return
	}
	p := ctx.Params
	a := ctx.Audio.Clamped()
	hz := p.Get("pulseHz", 0.5)
	depth := p.Get("depth", 0.3)
	lift := 0.5 * a.Bass * p.Get("bassGain", 1.0)
	spacing := p.Get("spacing", 1.5)
	col := scene.HSV(p.Get("hue", 0.55)+0.2*a.Mids, 0.8, 1)

	half := float64(side-1) / 2
	for i, o := range ctx.Pool.ByRole(RoleCell) {
		wave := math.Sin(2*math.Pi*hz*ctx.Time + 0.4*float64(i))
		o.Position = scene.Vec3{
			X: (float64(i%side) - half) * spacing,
			Z: (float64(i/side) - half) * spacing,
		}
		o.Rotation = scene.Vec3{}
		o.Scale = scene.Uniform(1 + depth*wave + lift)
		o.Visible = true
		if o.Material != nil {
			o.Material.Color = col
			o.Material.Opacity = 0.6 + 0.2*(1+wave)
		}
	}
	solver.ApplyModifiers(ctx.Pool, ctx.Modifiers)
}
