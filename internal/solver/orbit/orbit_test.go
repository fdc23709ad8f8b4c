package orbit

import (
	"math"
	"testing"

	"github.com/coreman2200/arcaluminis-presets/internal/audio"
	"github.com/coreman2200/arcaluminis-presets/internal/descriptor"
	"github.com/coreman2200/arcaluminis-presets/internal/pose"
	"github.com/coreman2200/arcaluminis-presets/internal/scene"
	"github.com/coreman2200/arcaluminis-presets/internal/solver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newCtx(t *testing.T, s *Solver) *solver.Context {
	t.Helper()
	pool, err := scene.NewPool(s.PoolSpec())
	require.NoError(t, err)
	cam := scene.DefaultCamera()
	return &solver.Context{
		Time:   1.25,
		Audio:  audio.Bands{Bass: 0.4, Mids: 0.2, Highs: 0.7},
		Pool:   pool,
		Params: solver.ParamsFor(s, nil),
		Camera: &cam,
	}
}

func snapshot(p *scene.Pool) []scene.Object {
	out := make([]scene.Object, 0, p.Len())
	for _, o := range p.Objects() {
		c := *o
		if o.Material != nil {
			m := *o.Material
			c.Material = &m
		}
		out = append(out, c)
	}
	return out
}

func TestPoolRoles(t *testing.T) {
	s := New()
	pool, err := scene.NewPool(s.PoolSpec())
	require.NoError(t, err)

	assert.Equal(t, 31, pool.Len())
	assert.Len(t, pool.ByRole(RoleMoon), 24)
	assert.Len(t, pool.ByRole(RoleRogue), 6)
	require.Len(t, pool.ByRole(RoleCore), 1)
	assert.Same(t, pool.Singleton(), pool.ByRole(RoleCore)[0])
	assert.Equal(t, "octahedron-24", pool.ByRole(RoleRogue)[0].ID)
}

func TestSolveIdempotent(t *testing.T) {
	s := New()
	ctx := newCtx(t, s)
	ctx.Modifiers = solver.Modifiers{
		Shake:          scene.Vec3{X: 0.1},
		RotationOffset: scene.Vec3{Y: 0.2},
		ColorOverrides: map[string]scene.Color{RoleRogue: {R: 1}},
	}

	s.Solve(ctx)
	first := snapshot(ctx.Pool)
	s.Solve(ctx)
	s.Solve(ctx)
	assert.Equal(t, first, snapshot(ctx.Pool))
	assert.Equal(t, 31, ctx.Pool.Len())
}

func TestSolveDoesNotAllocate(t *testing.T) {
	s := New()
	ctx := newCtx(t, s)
	allocs := testing.AllocsPerRun(50, func() { s.Solve(ctx) })
	if allocs != 0 {
		t.Fatalf("Solve allocated %.1f times per frame", allocs)
	}
}

func TestParamsScaleMotion(t *testing.T) {
	s := New()
	ctx := newCtx(t, s)
	ctx.Audio = audio.Bands{}
	s.Solve(ctx)
	moon := ctx.Pool.ByRole(RoleMoon)[0]
	r1 := math.Hypot(moon.Position.X, math.Hypot(moon.Position.Y, moon.Position.Z))
	assert.InDelta(t, 4.0, r1, 1e-9)

	ctx.Params["radius"] = 8
	ctx.Params["moonScale"] = 0.5
	s.Solve(ctx)
	r2 := math.Hypot(moon.Position.X, math.Hypot(moon.Position.Y, moon.Position.Z))
	assert.InDelta(t, 8.0, r2, 1e-9)
	assert.Equal(t, scene.Uniform(0.5), moon.Scale)
}

func TestBassPulsesCore(t *testing.T) {
	s := New()
	ctx := newCtx(t, s)
	ctx.Audio = audio.Bands{}
	s.Solve(ctx)
	quiet := ctx.Pool.Singleton().Scale.X

	ctx.Audio.Bass = 1
	s.Solve(ctx)
	assert.InDelta(t, quiet*1.5, ctx.Pool.Singleton().Scale.X, 1e-9)

	ctx.Params["audioGain"] = 0
	s.Solve(ctx)
	assert.InDelta(t, quiet, ctx.Pool.Singleton().Scale.X, 1e-9)
}

func TestBasePoseBlend(t *testing.T) {
	s := New()
	ctx := newCtx(t, s)
	store := pose.NewStore()
	store.Save(pose.Snapshot{Name: "rest", Entries: []pose.Entry{
		{ObjectID: "sphere", Position: scene.Vec3{Y: 10}, Scale: scene.Uniform(2), Visible: true},
	}})
	ctx.Poses = store
	ctx.Descriptor = &descriptor.Descriptor{Name: "calm", Solver: Name, BasePose: "rest"}

	// poseBlend 0 leaves solved motion alone
	s.Solve(ctx)
	assert.Equal(t, 0.0, ctx.Pool.Singleton().Position.Y)

	ctx.Params["poseBlend"] = 1
	s.Solve(ctx)
	core := ctx.Pool.Singleton()
	assert.Equal(t, 10.0, core.Position.Y)
	assert.Equal(t, scene.Uniform(2), core.Scale)

	// a missing pose degrades to plain solving
	ctx.Descriptor.BasePose = "gone"
	s.Solve(ctx)
	assert.Equal(t, 0.0, ctx.Pool.Singleton().Position.Y)
}
