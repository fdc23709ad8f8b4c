package player

import (
	"github.com/coreman2200/arcaluminis-presets/internal/dispatch"
	"github.com/coreman2200/arcaluminis-presets/internal/preset"
)

// State enumerates transport states.
type State string

const (
	Idle    State = "idle"
	Running State = "running"
	Paused  State = "paused"
)

// Mode is what drives the scene: keyframed automation or a solver.
type Mode string

const (
	ModeNone       Mode = ""
	ModeAutomation Mode = "automation"
	ModeSolver     Mode = "solver"
)

// Hooks are optional callbacks fired from Tick.
type Hooks struct {
	// Looped runs after the clock wraps; pass counts completed playthroughs.
	Looped func(pass int)
	// Ended runs once when a non-looping preset reaches its duration.
	Ended func()
}

// Result describes one Tick.
type Result struct {
	Time  float64
	Frame preset.Frame
	Stats dispatch.Stats
	// Solved is set when a solver drove the pool this tick.
	Solved bool
	Looped bool
	Ended  bool
	// Dropped is set when the evaluated frame belonged to an older preset
	// generation and was not applied.
	Dropped bool
}

type Option func(*Player)

func WithLoop(loop bool) Option { return func(p *Player) { p.loop = loop } }

func WithHooks(h Hooks) Option { return func(p *Player) { p.hooks = h } }
