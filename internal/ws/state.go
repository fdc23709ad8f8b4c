// Package ws serves the live preview: a frame stream, a control socket, a
// diagnostics stream and a health endpoint, all backed by one State whose
// mutex makes the frame loop the single writer of scene state.
package ws

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/gorilla/websocket"
	"github.com/rs/zerolog/log"

	"github.com/coreman2200/arcaluminis-presets/internal/audio"
	diag "github.com/coreman2200/arcaluminis-presets/internal/diagnostics"
	"github.com/coreman2200/arcaluminis-presets/internal/player"
	"github.com/coreman2200/arcaluminis-presets/internal/project"
	"github.com/coreman2200/arcaluminis-presets/internal/scene"
)

const (
	writeWait   = 200 * time.Millisecond
	diagBacklog = 32
)

type client struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

func (c *client) write(b []byte) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.conn.SetWriteDeadline(time.Now().Add(writeWait))
	return c.conn.WriteMessage(websocket.TextMessage, b)
}

type State struct {
	mu  sync.RWMutex
	FPS int
	// BroadcastHz caps how often frames are streamed; 0 streams every tick.
	BroadcastHz int
	// ProjectPath, when set, is rewritten after savePose.
	ProjectPath string

	player  *player.Player
	pool    *scene.Pool
	cam     *scene.Camera
	proj    *project.Context
	params  func() map[string]float64
	bands   audio.Bands
	frameID uint64
	fired   int

	startTime   time.Time
	clients     map[*client]bool
	diagClients map[*client]bool
	diags       []diag.Diagnostic
}

// NewState wraps a configured player. params, if non-nil, supplies the opaque
// parameter values shown alongside each frame.
func NewState(p *player.Player, pool *scene.Pool, cam *scene.Camera, proj *project.Context, fps int, params func() map[string]float64) *State {
	return &State{
		FPS:         fps,
		BroadcastHz: 30,
		player:      p,
		pool:        pool,
		cam:         cam,
		proj:        proj,
		params:      params,
		startTime:   time.Now(),
		clients:     map[*client]bool{},
		diagClients: map[*client]bool{},
	}
}

// Handler routes the preview endpoints.
func (s *State) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/ws", s.HandleFramesWS)
	mux.HandleFunc("/control", s.HandleControlWS)
	mux.HandleFunc("/diag", s.HandleDiagWS)
	mux.HandleFunc("/health", s.HandleHealth)
	return mux
}

// RunRenderLoop ticks the player at FPS until ctx is done.
func (s *State) RunRenderLoop(ctx context.Context) error {
	ticker := time.NewTicker(time.Second / time.Duration(max(1, s.FPS)))
	defer ticker.Stop()
	var gap time.Duration
	if s.BroadcastHz > 0 {
		gap = time.Second / time.Duration(s.BroadcastHz)
	}
	prev := time.Now()
	var sent time.Time
	for {
		select {
		case <-ctx.Done():
			return nil
		case now := <-ticker.C:
			f := s.tick(now.Sub(prev).Seconds())
			prev = now
			// fired events always go out so clients never miss one
			if now.Sub(sent) >= gap || len(f.Events) > 0 {
				s.broadcast(f)
				sent = now
			}
		}
	}
}

// Step advances the player by dt and streams the frame. The render loop uses
// the same path with wall-clock deltas.
func (s *State) Step(dt float64) Frame {
	f := s.tick(dt)
	s.broadcast(f)
	return f
}

func (s *State) tick(dt float64) Frame {
	s.mu.Lock()
	defer s.mu.Unlock()
	res := s.player.Tick(dt, s.bands)
	s.frameID++
	s.fired += len(res.Frame.Events)

	f := Frame{
		Type:    "frame",
		FrameID: s.frameID,
		Time:    res.Time,
		State:   s.player.State(),
		Mode:    s.player.Mode(),
		Camera:  *s.cam,
		Objects: snapshot(s.pool),
	}
	if s.params != nil {
		f.Params = copyParams(s.params())
	}
	for _, ev := range res.Frame.Events {
		f.Events = append(f.Events, ev.Action)
	}
	return f
}

func snapshot(p *scene.Pool) []scene.Object {
	if p == nil {
		return nil
	}
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

func copyParams(m map[string]float64) map[string]float64 {
	if len(m) == 0 {
		return nil
	}
	out := make(map[string]float64, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

var upgrader = websocket.Upgrader{CheckOrigin: func(r *http.Request) bool { return true }}

func (s *State) HandleFramesWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn}
	s.mu.Lock()
	s.clients[c] = true
	s.mu.Unlock()
	s.sendTopology(c)

	go s.drain(c, s.clients)
}

func (s *State) HandleDiagWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn}
	s.mu.Lock()
	s.diagClients[c] = true
	backlog := append([]diag.Diagnostic(nil), s.diags...)
	s.mu.Unlock()
	for _, d := range backlog {
		b, _ := json.Marshal(diagMsg{Type: "diag", Diagnostic: d})
		_ = c.write(b)
	}

	go s.drain(c, s.diagClients)
}

// drain reads until the peer goes away, then unregisters it.
func (s *State) drain(c *client, set map[*client]bool) {
	defer func() {
		s.mu.Lock()
		delete(set, c)
		s.mu.Unlock()
		c.conn.Close()
	}()
	for {
		if _, _, err := c.conn.ReadMessage(); err != nil {
			return
		}
	}
}

func (s *State) HandleControlWS(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}
	c := &client{conn: conn}
	defer conn.Close()
	for {
		_, data, err := conn.ReadMessage()
		if err != nil {
			return
		}
		var cmd Command
		if err := json.Unmarshal(data, &cmd); err != nil {
			s.reply(c, Ack{Cmd: "", Error: fmt.Sprintf("decode command: %v", err)})
			continue
		}
		s.reply(c, s.Apply(cmd))
	}
}

func (s *State) reply(c *client, a Ack) {
	a.Type = "ack"
	if !a.OK {
		s.PushDiagnostics(diag.Diagnostic{
			Severity: diag.Warn, Code: "CONTROL.REJECTED", Summary: a.Error,
			Evidence: map[string]any{"cmd": a.Cmd},
		})
	}
	b, _ := json.Marshal(a)
	if err := c.write(b); err != nil {
		log.Debug().Err(err).Msg("write ack")
	}
}

var errUnknownCommand = errors.New("unknown command")

// Apply executes one control command under the state lock.
func (s *State) Apply(cmd Command) Ack {
	s.mu.Lock()
	defer s.mu.Unlock()
	err := s.applyLocked(cmd)
	a := Ack{Cmd: cmd.Cmd, OK: err == nil, State: s.player.State(), Time: s.player.Elapsed()}
	if err != nil {
		a.Error = err.Error()
		log.Warn().Err(err).Str("cmd", cmd.Cmd).Msg("control")
	}
	return a
}

func (s *State) applyLocked(cmd Command) error {
	p := s.player
	switch cmd.Cmd {
	case "play":
		return p.Start()
	case "pause":
		p.Pause()
	case "resume":
		p.Resume()
	case "stop":
		p.Stop()
	case "seek":
		p.Seek(cmd.T)
	case "restart":
		p.Restart()
	case "audio":
		s.bands = audio.Bands{Bass: cmd.Bass, Mids: cmd.Mids, Highs: cmd.Highs}.Clamped()
	case "param":
		if s.proj == nil {
			return errors.New("no project open")
		}
		return s.proj.Descriptors.SetParam(cmd.Descriptor, cmd.Key, cmd.Value)
	case "savePose":
		return s.savePose(cmd.Name)
	case "openProject":
		return s.openProject(cmd.Name)
	case "closeProject":
		return p.CloseProject()
	case "solver":
		if cmd.Name == "" {
			return p.UseAutomation()
		}
		return p.UseSolver(cmd.Name)
	default:
		return fmt.Errorf("%w %q", errUnknownCommand, cmd.Cmd)
	}
	return nil
}

// openProject rereads the project document, from path or ProjectPath when
// path is empty. A new path becomes the save target.
func (s *State) openProject(path string) error {
	if path == "" {
		path = s.ProjectPath
	}
	if path == "" {
		return errors.New("openProject: no project path")
	}
	doc, err := project.ReadFile(path)
	if err != nil {
		return err
	}
	if err := s.player.OpenProject(doc); err != nil {
		return err
	}
	s.ProjectPath = path
	return nil
}

func (s *State) savePose(name string) error {
	if name == "" {
		return errors.New("savePose: name is required")
	}
	if s.proj == nil {
		return errors.New("no project open")
	}
	snap := s.proj.Poses.Capture(name, s.pool.Objects())
	log.Info().Str("pose", snap.Name).Int("entries", len(snap.Entries)).Msg("pose saved")
	if s.ProjectPath == "" {
		return nil
	}
	return project.WriteFile(s.ProjectPath, s.proj.Snapshot())
}

func (s *State) HandleHealth(w http.ResponseWriter, r *http.Request) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	resp := map[string]any{
		"frame_id": s.frameID,
		"uptime_s": time.Since(s.startTime).Seconds(),
		"fps":      s.FPS,
		"state":    s.player.State(),
		"mode":     s.player.Mode(),
		"solver":   s.player.Solver(),
		"time":     s.player.Elapsed(),
		"objects":  s.pool.Len(),
		"fired":    s.fired,
	}
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(resp)
}

func (s *State) sendTopology(c *client) {
	s.mu.RLock()
	top := Topology{
		Type:    "scene",
		Objects: s.pool.Len(),
		Roles:   s.pool.Roles(),
		Solver:  s.player.Solver(),
		FPS:     s.FPS,
	}
	s.mu.RUnlock()
	b, _ := json.Marshal(top)
	_ = c.write(b)
}

func (s *State) broadcast(f Frame) {
	b, err := json.Marshal(f)
	if err != nil {
		log.Debug().Err(err).Msg("encode frame")
		return
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	for c := range s.clients {
		if err := c.write(b); err != nil {
			log.Debug().Err(err).Msg("write frame")
		}
	}
}

// PushDiagnostics streams ds to /diag clients and keeps a short backlog for
// clients that connect later.
func (s *State) PushDiagnostics(ds ...diag.Diagnostic) {
	s.mu.Lock()
	s.diags = append(s.diags, ds...)
	if n := len(s.diags); n > diagBacklog {
		s.diags = append([]diag.Diagnostic(nil), s.diags[n-diagBacklog:]...)
	}
	targets := make([]*client, 0, len(s.diagClients))
	for c := range s.diagClients {
		targets = append(targets, c)
	}
	s.mu.Unlock()

	for _, d := range ds {
		b, _ := json.Marshal(diagMsg{Type: "diag", Diagnostic: d})
		for _, c := range targets {
			_ = c.write(b)
		}
	}
}
