// Package orbit is the reference solver: a ring of moons, a handful of rogue
// satellites and a pulsing core.
package orbit

import (
	"math"

	"github.com/coreman2200/arcaluminis-presets/internal/pose"
	"github.com/coreman2200/arcaluminis-presets/internal/scene"
	"github.com/coreman2200/arcaluminis-presets/internal/solver"
)

const (
	Name = "orbit"

	RoleMoon  = "moon"
	RoleRogue = "rogue"
	RoleCore  = "core"

	kindSat  scene.Kind = "octahedron"
	kindCore scene.Kind = "sphere"

	satellites = 30
	moonCount  = 24
	rings      = 3
)

type Solver struct {
	defaults map[string]float64
}

func New() *Solver {
	return &Solver{defaults: map[string]float64{
		"speed":      1.0,
		"radius":     4.0,
		"moonScale":  0.35,
		"rogueScale": 0.25,
		"coreScale":  1.2,
		"audioGain":  1.0,
		"tilt":       0.35, // radians between adjacent rings
		"poseBlend":  0.0,
	}}
}

func (s *Solver) Name() string { return Name }

// Defaults is shared; callers copy before mutating.
func (s *Solver) Defaults() map[string]float64 { return s.defaults }

func (s *Solver) PoolSpec() scene.PoolSpec {
	return scene.PoolSpec{
		Counts: map[scene.Kind]int{kindSat: satellites},
		Roles: []scene.RoleRange{
			{Kind: kindSat, Role: RoleMoon, From: 0, To: moonCount},
			{Kind: kindSat, Role: RoleRogue, From: moonCount, To: satellites},
		},
		Singleton:     kindCore,
		SingletonRole: RoleCore,
	}
}

func (s *Solver) Solve(ctx *solver.Context) {
	if ctx == nil || ctx.Pool == nil {
		return
	}
	p := ctx.Params
	a := ctx.Audio.Clamped()
	gain := p.Get("audioGain", 1.0)
	t := ctx.Time * p.Get("speed", 1.0)
	radius := p.Get("radius", 4.0)

	s.moons(ctx.Pool.ByRole(RoleMoon), t, radius, p.Get("tilt", 0.35), p.Get("moonScale", 0.35), a.Bass*gain, a.Mids*gain, a.Highs*gain)
	s.rogues(ctx.Pool.ByRole(RoleRogue), t, radius, p.Get("rogueScale", 0.25), a.Mids*gain)
	s.core(ctx.Pool.ByRole(RoleCore), t, p.Get("coreScale", 1.2), a.Bass*gain)

	if d := ctx.Descriptor; d != nil && d.BasePose != "" && ctx.Poses != nil {
		if blend := p.Get("poseBlend", 0); blend > 0 {
			pose.ApplyPoseByName(ctx.Poses, d.BasePose, blend, ctx.Pool.Objects())
		}
	}
	solver.ApplyModifiers(ctx.Pool, ctx.Modifiers)
}

// moons ride three rings, each tilted about X by a multiple of tilt.
func (s *Solver) moons(objs []*scene.Object, t, radius, tilt, scale, bass, mids, highs float64) {
	if len(objs) == 0 {
		return
	}
	perRing := (len(objs) + rings - 1) / rings
	spin := t * (1 + 2*highs)
	for i, o := range objs {
		ring := i % rings
		slot := i / rings
		phase := 2*math.Pi*float64(slot)/float64(perRing) + t*(1+0.3*float64(ring))
		r := radius * (1 + 0.25*float64(ring)) * (1 + 0.15*bass)
		x, z := r*math.Cos(phase), r*math.Sin(phase)
		a := tilt * float64(ring-1)
		o.Position = scene.Vec3{X: x, Y: -z * math.Sin(a), Z: z * math.Cos(a)}
		o.Rotation = scene.Vec3{X: spin, Y: spin * 0.7}
		o.Scale = scene.Uniform(scale * (1 + 0.3*mids))
		o.Visible = true
		if o.Material != nil {
			o.Material.Color = scene.HSV(float64(ring)/rings+0.1*mids, 0.6, 1)
			o.Material.Opacity = 1
		}
	}
}

// rogues trace Lissajous paths outside the rings.
func (s *Solver) rogues(objs []*scene.Object, t, radius, scale, mids float64) {
	for i, o := range objs {
		k := float64(i)
		o.Position = scene.Vec3{
			X: 1.6 * radius * math.Sin(0.7*(k+1)*t+k),
			Y: 0.8 * radius * math.Sin(1.1*t+0.5*k),
			Z: 1.6 * radius * math.Cos(0.5*(k+2)*t),
		}
		o.Rotation = scene.Vec3{X: t * 1.3, Z: t * 0.9}
		o.Scale = scene.Uniform(scale)
		o.Visible = true
		if o.Material != nil {
			o.Material.Color = scene.HSV(0.08+0.05*mids, 0.9, 1)
			o.Material.Opacity = 0.85
		}
	}
}

// core pulses with bass.
func (s *Solver) core(objs []*scene.Object, t, scale, bass float64) {
	for _, o := range objs {
		o.Position = scene.Vec3{}
		o.Rotation = scene.Vec3{Y: 0.25 * t}
		o.Scale = scene.Uniform(scale * (1 + 0.5*bass))
		o.Visible = true
		if o.Material != nil {
			o.Material.Color = scene.HSV(0.6, 0.4+0.4*bass, 1)
			o.Material.Opacity = 1
		}
	}
}
