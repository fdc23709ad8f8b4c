// Package player is the frame clock. It owns every piece of timing state
// explicitly and is advanced by the host calling Tick once per rendered
// frame.
package player

import (
	"errors"
	"fmt"

	"github.com/coreman2200/arcaluminis-presets/internal/audio"
	"github.com/coreman2200/arcaluminis-presets/internal/descriptor"
	"github.com/coreman2200/arcaluminis-presets/internal/diagnostics"
	"github.com/coreman2200/arcaluminis-presets/internal/dispatch"
	"github.com/coreman2200/arcaluminis-presets/internal/preset"
	"github.com/coreman2200/arcaluminis-presets/internal/project"
	"github.com/coreman2200/arcaluminis-presets/internal/scene"
	"github.com/coreman2200/arcaluminis-presets/internal/solver"
	"github.com/rs/zerolog/log"
)

var (
	ErrNoPreset  = errors.New("player: no preset loaded")
	ErrNoProject = errors.New("player: no project context")
)

// Player drives either an Evaluator+Dispatcher pair or a Solver from one
// clock.
type Player struct {
	state State
	mode  Mode

	eval    *preset.Evaluator
	disp    *dispatch.Dispatcher
	proj    *project.Context
	solvers *solver.Registry
	pool    *scene.Pool
	cam     *scene.Camera

	elapsed float64
	loop    bool
	passes  int
	// generation of the preset this player loaded
	gen uint64

	active solver.Solver
	sctx   solver.Context

	hooks Hooks
}

// New constructs an idle player. proj and solvers may be nil when only
// automation presets are played.
func New(eval *preset.Evaluator, disp *dispatch.Dispatcher, proj *project.Context, solvers *solver.Registry, pool *scene.Pool, cam *scene.Camera, opts ...Option) *Player {
	p := &Player{
		state:   Idle,
		eval:    eval,
		disp:    disp,
		proj:    proj,
		solvers: solvers,
		pool:    pool,
		cam:     cam,
	}
	p.sctx = solver.Context{Pool: pool, Camera: cam, Params: solver.Params{}}
	if proj != nil {
		p.sctx.Poses = proj.Poses
	}
	for _, o := range opts {
		o(p)
	}
	return p
}

// Load validates def, normalises it, checks its targets against the
// dispatcher and hands it to the evaluator. Findings are logged and
// returned; only an invalid preset is an error. The player is left idle at
// time 0 in automation mode.
func (p *Player) Load(def *preset.Definition) ([]diagnostics.Diagnostic, error) {
	if def == nil {
		return nil, ErrNoPreset
	}
	if err := preset.Validate(def); err != nil {
		return nil, fmt.Errorf("load preset %q: %w", def.Metadata.Name, err)
	}
	norm, ds := preset.Normalize(def)
	if p.disp != nil {
		ds = append(ds, p.disp.Check(norm)...)
	}
	diagnostics.Log(log.Logger, ds)

	p.eval.Load(norm)
	p.gen = p.eval.Generation()
	p.mode = ModeAutomation
	p.active = nil
	p.state = Idle
	p.elapsed = 0
	p.passes = 0
	log.Info().Str("preset", norm.Metadata.Name).Float64("duration", norm.Duration).Int("warnings", len(ds)).Msg("preset loaded")
	return ds, nil
}

// UseSolver switches to a registered solver. The pool must carry every role
// the solver addresses.
func (p *Player) UseSolver(name string) error {
	if p.solvers == nil {
		return fmt.Errorf("%w: %q", solver.ErrUnknownSolver, name)
	}
	s, err := p.solvers.Get(name)
	if err != nil {
		return err
	}
	if err := checkPool(p.pool, s.PoolSpec()); err != nil {
		return fmt.Errorf("use solver %q: %w", name, err)
	}
	if d := p.descriptor(s); d != nil {
		if err := p.proj.Descriptors.EnsureDefaults(d.Name, s.Defaults()); err != nil {
			return err
		}
		if d.BasePose != "" {
			if _, ok := p.proj.Poses.Get(d.BasePose); !ok {
				diagnostics.Log(log.Logger, []diagnostics.Diagnostic{
					diagnostics.Warnf("POSE.MISSING", "descriptor %q names missing base pose %q", d.Name, d.BasePose).
						With("descriptor", d.Name),
				})
			}
		}
	}
	p.active = s
	p.mode = ModeSolver
	log.Info().Str("solver", name).Msg("solver active")
	return nil
}

// UseAutomation switches back to the loaded preset.
func (p *Player) UseAutomation() error {
	if !p.eval.Loaded() {
		return ErrNoPreset
	}
	p.active = nil
	p.mode = ModeAutomation
	return nil
}

func checkPool(pool *scene.Pool, spec scene.PoolSpec) error {
	if pool == nil {
		return errors.New("no pool")
	}
	need := map[string]int{}
	for _, rr := range spec.Roles {
		need[rr.Role] += rr.To - rr.From
	}
	if spec.Singleton != "" && spec.SingletonRole != "" {
		need[spec.SingletonRole]++
	}
	for role, n := range need {
		if got := len(pool.ByRole(role)); got < n {
			return fmt.Errorf("pool has %d %q objects, solver needs %d", got, role, n)
		}
	}
	return nil
}

func (p *Player) descriptor(s solver.Solver) *descriptor.Descriptor {
	if p.proj == nil {
		return nil
	}
	d, _ := p.proj.Descriptors.ForSolver(s.Name())
	return d
}

// OpenProject replaces the pose and descriptor stores with doc and resets
// the evaluator's time cursor at the current position, so frames resolved
// against the old stores never carry their event state forward.
func (p *Player) OpenProject(doc project.Document) error {
	if p.proj == nil {
		return ErrNoProject
	}
	p.proj.Open(doc)
	p.eval.ResetCursor(p.elapsed)
	return nil
}

// CloseProject empties the stores and resets the time cursor like
// OpenProject.
func (p *Player) CloseProject() error {
	if p.proj == nil {
		return ErrNoProject
	}
	p.proj.Close()
	p.eval.ResetCursor(p.elapsed)
	return nil
}

// Start begins playback. A player that ran to the end starts over.
func (p *Player) Start() error {
	if p.mode == ModeNone {
		return ErrNoPreset
	}
	if p.state == Running {
		return nil
	}
	if d := p.duration(); d > 0 && p.elapsed >= d {
		p.rewind()
	}
	p.state = Running
	return nil
}

func (p *Player) Pause() {
	if p.state == Running {
		p.state = Paused
	}
}

func (p *Player) Resume() {
	if p.state == Paused {
		p.state = Running
	}
}

// Stop halts playback and returns to time 0 with every event re-armed.
func (p *Player) Stop() {
	p.state = Idle
	p.rewind()
}

// Restart is an explicit new playthrough from time 0, keeping the transport
// running.
func (p *Player) Restart() {
	p.rewind()
	if p.mode != ModeNone {
		p.state = Running
	}
}

func (p *Player) rewind() {
	p.elapsed = 0
	p.passes = 0
	p.eval.ResetCursor(0)
}

// Seek jumps to t, clamped into [0, duration]. Events are not re-armed; use
// Restart for a fresh playthrough.
func (p *Player) Seek(t float64) {
	if t < 0 {
		t = 0
	}
	if d := p.duration(); d > 0 && t > d {
		t = d
	}
	p.elapsed = t
}

func (p *Player) SetLoop(loop bool) { p.loop = loop }

// SetModifiers replaces the solver modifiers applied from the next tick.
func (p *Player) SetModifiers(m solver.Modifiers) { p.sctx.Modifiers = m }

func (p *Player) State() State       { return p.state }
func (p *Player) Mode() Mode         { return p.mode }
func (p *Player) Elapsed() float64   { return p.elapsed }
func (p *Player) Loop() bool         { return p.loop }
func (p *Player) Passes() int        { return p.passes }
func (p *Player) Generation() uint64 { return p.gen }

// Solver returns the active solver's name, or "".
func (p *Player) Solver() string {
	if p.active == nil {
		return ""
	}
	return p.active.Name()
}

func (p *Player) duration() float64 {
	if p.mode != ModeAutomation {
		return 0
	}
	return p.eval.Duration()
}

// Tick advances the clock by dt seconds while running and drives the scene
// for the new time. Paused and idle players do nothing.
func (p *Player) Tick(dt float64, bands audio.Bands) Result {
	if p.state != Running || dt < 0 {
		return Result{Time: p.elapsed}
	}
	p.elapsed += dt

	switch p.mode {
	case ModeSolver:
		return p.solve(bands)
	case ModeAutomation:
		return p.automate(dt, bands)
	}
	return Result{Time: p.elapsed}
}

func (p *Player) automate(dt float64, bands audio.Bands) Result {
	var res Result
	if d := p.eval.Duration(); d > 0 && p.elapsed >= d {
		if p.loop {
			for p.elapsed >= d {
				p.elapsed -= d
			}
			p.passes++
			p.eval.ResetCursor(0)
			res.Looped = true
		} else {
			p.elapsed = d
			res.Ended = true
		}
	}
	res.Time = p.elapsed

	f := p.eval.Evaluate(p.elapsed, &bands)
	if f.Generation != p.gen {
		// the evaluator was reloaded underneath us
		res.Dropped = true
		log.Debug().Uint64("frame", f.Generation).Uint64("want", p.gen).Msg("stale frame dropped")
		return res
	}
	res.Frame = f
	if p.disp != nil {
		res.Stats = p.disp.Apply(f, dispatch.FrameContext{Time: p.elapsed, Delta: dt, Audio: bands})
	}

	if res.Looped && p.hooks.Looped != nil {
		p.hooks.Looped(p.passes)
	}
	if res.Ended {
		p.state = Idle
		if p.hooks.Ended != nil {
			p.hooks.Ended()
		}
	}
	return res
}

func (p *Player) solve(bands audio.Bands) Result {
	d := p.descriptor(p.active)
	p.sctx.Time = p.elapsed
	p.sctx.Audio = bands
	p.sctx.Descriptor = d
	p.sctx.Params.Reset(p.active, d)
	p.active.Solve(&p.sctx)
	return Result{Time: p.elapsed, Solved: true}
}
