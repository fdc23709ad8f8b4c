package host

import (
	"testing"

	"github.com/coreman2200/arcaluminis-presets/internal/dispatch"
	"github.com/coreman2200/arcaluminis-presets/internal/pose"
	"github.com/coreman2200/arcaluminis-presets/internal/preset"
	"github.com/coreman2200/arcaluminis-presets/internal/scene"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fixture struct {
	d       *dispatch.Dispatcher
	cam     *scene.Camera
	pool    *scene.Pool
	poses   *pose.Store
	shapes  *Shapes
	actions *Actions
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	pool, err := scene.NewPool(scene.PoolSpec{
		Counts: map[scene.Kind]int{"cube": 3},
		Roles:  []scene.RoleRange{{Kind: "cube", Role: "lead", From: 0, To: 1}},
	})
	require.NoError(t, err)
	cam := scene.DefaultCamera()
	f := &fixture{d: dispatch.New(), cam: &cam, pool: pool, poses: pose.NewStore()}
	f.shapes, err = BindScene(f.d, f.cam, pool)
	require.NoError(t, err)
	f.actions, err = BindActions(f.d, f.poses, pool, f.cam)
	require.NoError(t, err)
	return f
}

func TestBindSceneRegistersEverything(t *testing.T) {
	f := newFixture(t)
	assert.Len(t, f.d.Bound(dispatch.Camera), len(scene.CameraFields()))
	assert.Equal(t, []string{
		"shapes.glow", "shapes.hue", "shapes.opacity", "shapes.scale", "shapes.spin", "shapes.wireframe",
	}, f.d.Bound(dispatch.Shape))
	assert.Equal(t, []string{"burst", "flash", "pose", "shake"}, f.d.Actions())

	_, err := BindScene(nil, f.cam, f.pool)
	assert.Error(t, err)
	_, err = BindActions(f.d, nil, nil, f.cam)
	assert.Error(t, err)
}

func TestShapeAndCameraSetters(t *testing.T) {
	f := newFixture(t)
	frame := preset.Frame{
		Camera: map[string]float64{"fov": 45, "z": 6},
		Params: map[string]float64{
			"shapes.scale":     2,
			"shapes.opacity":   1.4,
			"shapes.spin":      0.5,
			"shapes.wireframe": 1,
			"shapes.glow":      1,
			"shapes.hue":       0,
		},
	}
	st := f.d.Apply(frame, dispatch.FrameContext{Time: 4})
	assert.Equal(t, dispatch.Stats{Applied: 8}, st)

	assert.Equal(t, 45.0, f.cam.FOV)
	assert.Equal(t, 6.0, f.cam.Position.Z)
	for _, o := range f.pool.Objects() {
		assert.Equal(t, scene.Uniform(2), o.Scale)
		assert.Equal(t, 1.0, o.Material.Opacity, "opacity clamps")
		assert.Equal(t, 2.0, o.Rotation.Y)
		assert.True(t, o.Material.Wireframe)
		assert.Equal(t, scene.HSV(0, 0.7, 1), o.Material.Color)
	}
}

func TestBindParamsRecordsValues(t *testing.T) {
	f := newFixture(t)
	require.NoError(t, f.shapes.BindParams(f.d, "glow", "fog"))
	assert.Error(t, f.shapes.BindParams(f.d, "camera.nope"))

	f.d.Apply(preset.Frame{Params: map[string]float64{"glow": 0.6}}, dispatch.FrameContext{})
	assert.Equal(t, map[string]float64{"glow": 0.6}, f.shapes.Params)
}

func TestActions(t *testing.T) {
	f := newFixture(t)
	f.poses.Save(pose.Snapshot{Name: "up", Entries: []pose.Entry{
		{ObjectID: "cube-2", Position: scene.Vec3{Y: 3}, Scale: scene.Uniform(1), Visible: true},
	}})

	frame := preset.Frame{Events: []preset.Event{
		{Action: "burst", Args: map[string]any{"amount": 1, "role": "lead"}},
		{Action: "flash"},
		{Action: "pose", Args: map[string]any{"name": "up", "blend": 0.5}},
		{Action: "pose", Args: map[string]any{"name": "missing"}},
		{Action: "shake"},
		{Action: "confetti"},
	}}
	st := f.d.Apply(frame, dispatch.FrameContext{})
	assert.Equal(t, 5, st.Actions)
	assert.Equal(t, 1, st.Skipped)
	assert.Equal(t, Counters{Burst: 1, Flash: 1, Pose: 2, Shake: 1}, f.actions.Counters)

	objs := f.pool.Objects()
	assert.Equal(t, scene.Uniform(2), objs[0].Scale, "int amount, lead role only")
	assert.Equal(t, scene.Uniform(1), objs[1].Scale)
	assert.Equal(t, scene.Color{R: 1, G: 1, B: 1}, objs[1].Material.Color)
	assert.Equal(t, 1.5, objs[2].Position.Y)
	assert.InDelta(t, 0.1, f.cam.Roll, 1e-12)
}

func TestShakeLastsOneFrame(t *testing.T) {
	f := newFixture(t)
	f.cam.Roll = 0.2
	shake := preset.Frame{Events: []preset.Event{
		{Action: "shake", Args: map[string]any{"amount": 0.05}},
		{Action: "shake"},
	}}

	f.d.Apply(shake, dispatch.FrameContext{})
	assert.InDelta(t, 0.35, f.cam.Roll, 1e-12)
	f.d.Apply(preset.Frame{}, dispatch.FrameContext{})
	assert.InDelta(t, 0.2, f.cam.Roll, 1e-12)

	// repeated playthroughs never accumulate
	for i := 0; i < 5; i++ {
		f.d.Apply(shake, dispatch.FrameContext{})
	}
	f.d.Apply(preset.Frame{}, dispatch.FrameContext{})
	assert.InDelta(t, 0.2, f.cam.Roll, 1e-12)

	// an automated roll is written on top of the settled camera
	f.d.Apply(shake, dispatch.FrameContext{})
	f.d.Apply(preset.Frame{Camera: map[string]float64{"roll": 1}}, dispatch.FrameContext{})
	assert.Equal(t, 1.0, f.cam.Roll)
	assert.Equal(t, 14, f.actions.Counters.Shake)
}
