// Package dispatch is the mutation boundary between resolved frames and the
// scene: string-keyed setters and actions registered by the host at scene
// initialisation.
package dispatch

import (
	"errors"
	"fmt"
	"sort"

	"github.com/coreman2200/arcaluminis-presets/internal/audio"
	"github.com/coreman2200/arcaluminis-presets/internal/diagnostics"
	"github.com/coreman2200/arcaluminis-presets/internal/preset"
	"github.com/coreman2200/arcaluminis-presets/internal/scene"
)

// FrameContext is handed to every setter and action.
type FrameContext struct {
	Time  float64
	Delta float64
	Audio audio.Bands
}

type (
	Setter func(value float64, ctx FrameContext)
	Action func(args map[string]any, ctx FrameContext)
)

// Stats counts what one Apply call did.
type Stats struct {
	Applied int
	Skipped int
	Actions int
}

type Dispatcher struct {
	setters map[string]Setter
	targets map[string]Target
	actions map[string]Action
	// run at the top of every Apply, in registration order
	frameHooks []func(FrameContext)
}

func New() *Dispatcher {
	return &Dispatcher{
		setters: map[string]Setter{},
		targets: map[string]Target{},
		actions: map[string]Action{},
	}
}

// RegisterSetter binds a target path. The path is validated against the
// known domains; a later registration for the same path replaces the earlier one.
func (d *Dispatcher) RegisterSetter(path string, fn Setter) error {
	if fn == nil {
		return fmt.Errorf("setter for %q is nil", path)
	}
	t, err := ParseTarget(path)
	if err != nil {
		return err
	}
	d.setters[path] = fn
	d.targets[path] = t
	return nil
}

// OnFrame registers fn to run at the start of every Apply, before any
// setter. Hosts use it to retire one-frame effects left by actions.
func (d *Dispatcher) OnFrame(fn func(FrameContext)) {
	if fn != nil {
		d.frameHooks = append(d.frameHooks, fn)
	}
}

// RegisterAction binds an event action name.
func (d *Dispatcher) RegisterAction(name string, fn Action) error {
	if name == "" {
		return errors.New("action name is empty")
	}
	if fn == nil {
		return fmt.Errorf("action %q is nil", name)
	}
	d.actions[name] = fn
	return nil
}

func (d *Dispatcher) HasSetter(path string) bool { _, ok := d.setters[path]; return ok }
func (d *Dispatcher) HasAction(name string) bool { _, ok := d.actions[name]; return ok }

// Setters lists registered setter paths, sorted.
func (d *Dispatcher) Setters() []string { return sortedNames(d.setters) }

// Bound lists the registered setter paths in one domain, sorted.
func (d *Dispatcher) Bound(domain Domain) []string {
	var out []string
	for path, t := range d.targets {
		if t.Domain == domain {
			out = append(out, path)
		}
	}
	sort.Strings(out)
	return out
}

// Actions lists registered action names, sorted.
func (d *Dispatcher) Actions() []string { return sortedNames(d.actions) }

// Apply pushes a resolved frame through the registered setters and actions.
// Camera fields go first in canonical order, then params in key order, then
// events in firing order. Unregistered targets are skipped silently.
func (d *Dispatcher) Apply(f preset.Frame, ctx FrameContext) Stats {
	var st Stats
	for _, fn := range d.frameHooks {
		fn(ctx)
	}
	if len(f.Camera) > 0 {
		seen := 0
		for _, field := range scene.CameraFields() {
			v, ok := f.Camera[string(field)]
			if !ok {
				continue
			}
			seen++
			d.set("camera."+string(field), v, ctx, &st)
		}
		// keys outside the camera model can never be registered
		st.Skipped += len(f.Camera) - seen
	}
	for _, k := range sortedNames(f.Params) {
		d.set(k, f.Params[k], ctx, &st)
	}
	for _, ev := range f.Events {
		fn, ok := d.actions[ev.Action]
		if !ok {
			st.Skipped++
			continue
		}
		fn(ev.Args, ctx)
		st.Actions++
	}
	return st
}

func (d *Dispatcher) set(path string, v float64, ctx FrameContext, st *Stats) {
	fn, ok := d.setters[path]
	if !ok {
		st.Skipped++
		return
	}
	fn(v, ctx)
	st.Applied++
}

// Check reports, at load time, every preset target with no registered setter
// and every event action with no registered action. Such entries would
// otherwise be silent no-ops for the whole playthrough.
func (d *Dispatcher) Check(def *preset.Definition) []diagnostics.Diagnostic {
	if def == nil {
		return nil
	}
	var ds []diagnostics.Diagnostic
	for _, path := range preset.Targets(def) {
		if _, err := ParseTarget(path); err != nil {
			ds = append(ds, diagnostics.Warnf("TARGET.INVALID", "%v", err).With("target", path))
			continue
		}
		if !d.HasSetter(path) {
			ds = append(ds, diagnostics.Warnf("TARGET.UNBOUND", "no setter registered for %q", path).With("target", path))
		}
	}
	seen := map[string]bool{}
	for _, ev := range def.Events {
		if seen[ev.Action] {
			continue
		}
		seen[ev.Action] = true
		if !d.HasAction(ev.Action) {
			ds = append(ds, diagnostics.Warnf("ACTION.UNBOUND", "no action registered for %q", ev.Action).With("action", ev.Action))
		}
	}
	return ds
}

func sortedNames[V any](m map[string]V) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
