package ws

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/coreman2200/arcaluminis-presets/internal/curve"
	"github.com/coreman2200/arcaluminis-presets/internal/descriptor"
	"github.com/coreman2200/arcaluminis-presets/internal/dispatch"
	"github.com/coreman2200/arcaluminis-presets/internal/host"
	"github.com/coreman2200/arcaluminis-presets/internal/player"
	"github.com/coreman2200/arcaluminis-presets/internal/preset"
	"github.com/coreman2200/arcaluminis-presets/internal/project"
	"github.com/coreman2200/arcaluminis-presets/internal/scene"
	"github.com/coreman2200/arcaluminis-presets/internal/solver"
	"github.com/coreman2200/arcaluminis-presets/internal/solver/orbit"
)

func newTestState(t *testing.T) (*State, *project.Context) {
	t.Helper()
	pool, err := scene.NewPool(orbit.New().PoolSpec())
	require.NoError(t, err)
	cam := scene.DefaultCamera()
	d := dispatch.New()
	shapes, err := host.BindScene(d, &cam, pool)
	require.NoError(t, err)
	require.NoError(t, shapes.BindParams(d, "glow"))
	proj := project.New()
	_, err = host.BindActions(d, proj.Poses, pool, &cam)
	require.NoError(t, err)

	reg := solver.NewRegistry()
	reg.Register(orbit.New())
	p := player.New(preset.NewEvaluator(), d, proj, reg, pool, &cam)
	_, err = p.Load(&preset.Definition{
		Duration: 4,
		Automations: []preset.Automation{{
			Target: "glow",
			Keyframes: []curve.Keyframe{
				{Time: 0, Value: 0, Easing: curve.Linear},
				{Time: 2, Value: 1, Easing: curve.Linear},
			},
		}},
		Events: []preset.Event{{Time: 1, Action: "flash"}},
	})
	require.NoError(t, err)

	s := NewState(p, pool, &cam, proj, 60, func() map[string]float64 { return shapes.Params })
	return s, proj
}

func dial(t *testing.T, srv *httptest.Server, path string) *websocket.Conn {
	t.Helper()
	url := "ws" + strings.TrimPrefix(srv.URL, "http") + path
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	require.NoError(t, err)
	t.Cleanup(func() { conn.Close() })
	return conn
}

func readJSON(t *testing.T, conn *websocket.Conn, v any) {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(2*time.Second)))
	_, b, err := conn.ReadMessage()
	require.NoError(t, err)
	require.NoError(t, json.Unmarshal(b, v))
}

func send(t *testing.T, conn *websocket.Conn, cmd Command) Ack {
	t.Helper()
	require.NoError(t, conn.WriteJSON(cmd))
	var a Ack
	readJSON(t, conn, &a)
	return a
}

func TestControlAndFrames(t *testing.T) {
	s, _ := newTestState(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	frames := dial(t, srv, "/ws")
	var top Topology
	readJSON(t, frames, &top)
	assert.Equal(t, "scene", top.Type)
	assert.Equal(t, 31, top.Objects)
	assert.Equal(t, []string{"core", "moon", "rogue"}, top.Roles)

	ctl := dial(t, srv, "/control")
	a := send(t, ctl, Command{Cmd: "play"})
	require.True(t, a.OK, a.Error)
	assert.Equal(t, player.Running, a.State)

	s.Step(0.5)
	var f Frame
	readJSON(t, frames, &f)
	assert.Equal(t, "frame", f.Type)
	assert.Equal(t, 0.5, f.Time)
	assert.InDelta(t, 0.25, f.Params["glow"], 1e-12)
	assert.Len(t, f.Objects, 31)

	s.Step(0.5)
	readJSON(t, frames, &f)
	assert.Equal(t, []string{"flash"}, f.Events)

	a = send(t, ctl, Command{Cmd: "seek", T: 3})
	assert.True(t, a.OK)
	assert.Equal(t, 3.0, a.Time)

	a = send(t, ctl, Command{Cmd: "pause"})
	assert.Equal(t, player.Paused, a.State)
}

func TestControlErrorsReachDiag(t *testing.T) {
	s, _ := newTestState(t)
	srv := httptest.NewServer(s.Handler())
	defer srv.Close()

	ctl := dial(t, srv, "/control")
	a := send(t, ctl, Command{Cmd: "warp"})
	assert.False(t, a.OK)
	assert.Contains(t, a.Error, "unknown command")

	a = send(t, ctl, Command{Cmd: "solver", Name: "nebula"})
	assert.False(t, a.OK)

	// the backlog replays to late subscribers
	d := dial(t, srv, "/diag")
	var msg struct {
		Type string `json:"type"`
		Code string `json:"code"`
	}
	readJSON(t, d, &msg)
	assert.Equal(t, "diag", msg.Type)
	assert.Equal(t, "CONTROL.REJECTED", msg.Code)
}

func TestApplyCommands(t *testing.T) {
	s, proj := newTestState(t)
	proj.Descriptors.Save(descriptor.Descriptor{Name: "calm", Solver: orbit.Name})
	s.ProjectPath = filepath.Join(t.TempDir(), "project.yaml")

	assert.True(t, s.Apply(Command{Cmd: "audio", Bass: 2, Mids: 0.5}).OK)
	assert.Equal(t, 1.0, s.bands.Bass)

	assert.True(t, s.Apply(Command{Cmd: "param", Descriptor: "calm", Key: "radius", Value: 6}).OK)
	assert.Equal(t, 6.0, proj.Descriptors.Param("calm", "radius", 0))
	assert.False(t, s.Apply(Command{Cmd: "param", Descriptor: "nope", Key: "radius"}).OK)

	assert.True(t, s.Apply(Command{Cmd: "solver", Name: orbit.Name}).OK)
	assert.True(t, s.Apply(Command{Cmd: "play"}).OK)
	s.Step(0.1)

	assert.False(t, s.Apply(Command{Cmd: "savePose"}).OK)
	require.True(t, s.Apply(Command{Cmd: "savePose", Name: "snap"}).OK)
	doc, err := project.ReadFile(s.ProjectPath)
	require.NoError(t, err)
	require.Len(t, doc.Poses, 1)
	assert.Len(t, doc.Poses[0].Entries, 31)

	assert.True(t, s.Apply(Command{Cmd: "solver"}).OK)
	assert.True(t, s.Apply(Command{Cmd: "restart"}).OK)
	assert.True(t, s.Apply(Command{Cmd: "stop"}).OK)
}

func TestProjectCommands(t *testing.T) {
	s, proj := newTestState(t)
	assert.False(t, s.Apply(Command{Cmd: "openProject"}).OK)

	path := filepath.Join(t.TempDir(), "project.yaml")
	require.NoError(t, project.WriteFile(path, project.Document{
		Descriptors: []descriptor.Descriptor{
			{Name: "zeta", Solver: orbit.Name},
			{Name: "alpha", Solver: orbit.Name},
		},
	}))
	require.True(t, s.Apply(Command{Cmd: "openProject", Name: path}).OK)
	assert.Equal(t, path, s.ProjectPath)
	assert.True(t, proj.IsOpen())
	d, ok := proj.Descriptors.ForSolver(orbit.Name)
	require.True(t, ok)
	assert.Equal(t, "alpha", d.Name)

	// save and reopen keeps the same active descriptor
	require.True(t, s.Apply(Command{Cmd: "savePose", Name: "snap"}).OK)
	require.True(t, s.Apply(Command{Cmd: "closeProject"}).OK)
	assert.Equal(t, 0, proj.Descriptors.Len())
	require.True(t, s.Apply(Command{Cmd: "openProject"}).OK)
	d, ok = proj.Descriptors.ForSolver(orbit.Name)
	require.True(t, ok)
	assert.Equal(t, "alpha", d.Name)
	assert.Equal(t, []string{"snap"}, proj.Poses.List())

	assert.False(t, s.Apply(Command{Cmd: "openProject", Name: filepath.Join(t.TempDir(), "none.yaml")}).OK)
	assert.Equal(t, path, s.ProjectPath)
}

func TestHealth(t *testing.T) {
	s, _ := newTestState(t)
	rec := httptest.NewRecorder()
	s.HandleHealth(rec, httptest.NewRequest(http.MethodGet, "/health", nil))
	require.Equal(t, http.StatusOK, rec.Code)

	var body map[string]any
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &body))
	assert.Equal(t, "idle", body["state"])
	assert.Equal(t, "automation", body["mode"])
	assert.Equal(t, float64(31), body["objects"])
}
