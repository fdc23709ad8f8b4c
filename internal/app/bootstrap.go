// Package app assembles a playable scene from configuration. Both binaries
// build through InitCore so the preview daemon and the simulator see the
// same bindings.
package app

import (
	"errors"
	"fmt"
	"os"
	"sort"

	"github.com/rs/zerolog/log"

	"github.com/coreman2200/arcaluminis-presets/internal/config"
	diag "github.com/coreman2200/arcaluminis-presets/internal/diagnostics"
	"github.com/coreman2200/arcaluminis-presets/internal/dispatch"
	"github.com/coreman2200/arcaluminis-presets/internal/host"
	"github.com/coreman2200/arcaluminis-presets/internal/player"
	"github.com/coreman2200/arcaluminis-presets/internal/preset"
	"github.com/coreman2200/arcaluminis-presets/internal/project"
	"github.com/coreman2200/arcaluminis-presets/internal/scene"
	"github.com/coreman2200/arcaluminis-presets/internal/solver"
	"github.com/coreman2200/arcaluminis-presets/internal/solver/orbit"
	"github.com/coreman2200/arcaluminis-presets/internal/solver/pulse"
)

type Core struct {
	Pool       *scene.Pool
	Camera     *scene.Camera
	Dispatcher *dispatch.Dispatcher
	Shapes     *host.Shapes
	Actions    *host.Actions
	Project    *project.Context
	Solvers    *solver.Registry
	Eval       *preset.Evaluator
	Player     *player.Player

	// Diagnostics collected while loading the preset.
	Diagnostics []diag.Diagnostic
}

// DefaultSolvers registers every built-in solver.
func DefaultSolvers() *solver.Registry {
	reg := solver.NewRegistry()
	reg.Register(orbit.New())
	reg.Register(pulse.New())
	return reg
}

// InitCore builds pool, bindings, stores and player from cfg, then loads the
// configured project, preset and solver.
func InitCore(cfg config.Config, hooks player.Hooks) (*Core, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("config: %w", err)
	}
	c := &Core{Solvers: DefaultSolvers(), Dispatcher: dispatch.New(), Project: project.New()}

	// 1) pool: a solver run is sized by the solver, otherwise by config
	spec := poolSpec(cfg.Pool)
	if cfg.Solver != "" {
		s, err := c.Solvers.Get(cfg.Solver)
		if err != nil {
			return nil, err
		}
		spec = s.PoolSpec()
	}
	pool, err := scene.NewPool(spec)
	if err != nil {
		return nil, fmt.Errorf("pool: %w", err)
	}
	cam := scene.DefaultCamera()
	c.Pool, c.Camera = pool, &cam

	// 2) host bindings
	if c.Shapes, err = host.BindScene(c.Dispatcher, c.Camera, pool); err != nil {
		return nil, err
	}
	if c.Actions, err = host.BindActions(c.Dispatcher, c.Project.Poses, pool, c.Camera); err != nil {
		return nil, err
	}

	// 3) player
	c.Eval = preset.NewEvaluator(preset.WithEventTolerance(cfg.EventTolerance))
	c.Player = player.New(c.Eval, c.Dispatcher, c.Project, c.Solvers, pool, c.Camera,
		player.WithLoop(cfg.Loop), player.WithHooks(hooks))

	// 4) project document
	if cfg.Project != "" {
		if err := c.OpenProject(cfg.Project); err != nil {
			return nil, err
		}
	}

	if cfg.Preset != "" {
		if err := c.LoadPreset(cfg.Preset); err != nil {
			return nil, err
		}
	}
	if cfg.Solver != "" {
		if err := c.Player.UseSolver(cfg.Solver); err != nil {
			return nil, err
		}
	}
	return c, nil
}

// OpenProject reads the project document at path and hands it to the
// player. A missing file opens an empty project that will be written there.
func (c *Core) OpenProject(path string) error {
	doc, err := project.ReadFile(path)
	switch {
	case errors.Is(err, os.ErrNotExist):
		log.Warn().Str("path", path).Msg("project not found; starting empty")
		doc = project.Document{Version: project.DocumentVersion}
	case err != nil:
		return err
	}
	return c.Player.OpenProject(doc)
}

// LoadPreset reads a preset file, binds its opaque parameters for preview
// and hands it to the player.
func (c *Core) LoadPreset(path string) error {
	def, err := preset.LoadFile(path)
	if err != nil {
		return fmt.Errorf("preset %s: %w", path, err)
	}
	var params []string
	for _, target := range preset.Targets(def) {
		if t, err := dispatch.ParseTarget(target); err == nil && t.Domain == dispatch.Param {
			params = append(params, target)
		}
	}
	if err := c.Shapes.BindParams(c.Dispatcher, params...); err != nil {
		return err
	}
	ds, err := c.Player.Load(def)
	if err != nil {
		return err
	}
	c.Diagnostics = ds
	return nil
}

func poolSpec(counts map[string]int) scene.PoolSpec {
	spec := scene.PoolSpec{Counts: map[scene.Kind]int{}}
	kinds := make([]string, 0, len(counts))
	for k := range counts {
		kinds = append(kinds, k)
	}
	sort.Strings(kinds)
	for _, k := range kinds {
		n := counts[k]
		spec.Counts[scene.Kind(k)] = n
		// every configured kind doubles as a role so presets can address it
		spec.Roles = append(spec.Roles, scene.RoleRange{Kind: scene.Kind(k), Role: k, From: 0, To: n})
	}
	return spec
}
