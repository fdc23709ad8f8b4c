package preset

import (
	"math"
	"strings"

	"github.com/coreman2200/arcaluminis-presets/internal/audio"
	"github.com/coreman2200/arcaluminis-presets/internal/curve"
)

// DefaultEventTolerance is the window (seconds) around an event's time in
// which it may fire.
const DefaultEventTolerance = 0.05

type eventState uint8

const (
	armed eventState = iota
	fired
)

// Option configures an Evaluator.
type Option func(*Evaluator)

// WithEventTolerance overrides DefaultEventTolerance. Non-positive values are ignored.
func WithEventTolerance(sec float64) Option {
	return func(e *Evaluator) {
		if sec > 0 {
			e.tolerance = sec
		}
	}
}

// Evaluator resolves a loaded Definition into Frames. It is not safe for
// concurrent use; the host drives it from a single frame callback.
type Evaluator struct {
	def       *Definition
	tolerance float64

	// lastT is the time of the previous Evaluate call; -Inf after a reset.
	lastT  float64
	events []eventState
	gen    uint64
}

func NewEvaluator(opts ...Option) *Evaluator {
	e := &Evaluator{tolerance: DefaultEventTolerance, lastT: math.Inf(-1)}
	for _, o := range opts {
		o(e)
	}
	return e
}

// Load replaces the current preset wholesale. The time cursor and every
// event's fired state are reset and the generation advances, so frames
// produced for the previous preset can be recognised as stale.
func (e *Evaluator) Load(def *Definition) {
	e.def = def
	e.gen++
	e.events = nil
	if def != nil {
		e.events = make([]eventState, len(def.Events))
	}
	e.lastT = math.Inf(-1)
}

// Unload drops the preset; Evaluate returns neutral frames afterwards.
func (e *Evaluator) Unload() { e.Load(nil) }

func (e *Evaluator) Loaded() bool            { return e.def != nil }
func (e *Evaluator) Definition() *Definition { return e.def }
func (e *Evaluator) Generation() uint64      { return e.gen }
func (e *Evaluator) Tolerance() float64      { return e.tolerance }
func (e *Evaluator) LastEvaluated() float64  { return e.lastT }

// Duration of the loaded preset, or 0.
func (e *Evaluator) Duration() float64 {
	if e.def == nil {
		return 0
	}
	return e.def.Duration
}

// ResetCursor starts a new playthrough at t: events still ahead of t are
// re-armed, events already behind it are marked fired so they do not flush
// on the next forward step.
func (e *Evaluator) ResetCursor(t float64) {
	if e.def == nil {
		return
	}
	for i, ev := range e.def.Events {
		if ev.Time+e.tolerance <= t {
			e.events[i] = fired
		} else {
			e.events[i] = armed
		}
	}
	e.lastT = math.Inf(-1)
}

// Evaluate resolves the preset at time t. The order of the stages is part of
// the contract: static values, then automations, then audio modulation, then
// events. audio may be nil.
func (e *Evaluator) Evaluate(t float64, bands *audio.Bands) Frame {
	f := Frame{
		Generation: e.gen,
		Time:       t,
		Camera:     map[string]float64{},
		Params:     map[string]float64{},
	}
	def := e.def
	if def == nil {
		return f
	}

	// 1+2: static camera/params, then automations on top
	for k, v := range def.Camera {
		f.Camera[k] = v
	}
	for k, v := range def.Params {
		f.Params[k] = v
	}
	for _, a := range def.Automations {
		v, ok := curve.Evaluate(a.Keyframes, t)
		if !ok {
			continue
		}
		if field, isCam := cameraField(a.Target); isCam {
			f.Camera[field] = v
		} else {
			f.Params[a.Target] = v
		}
	}

	// 3: audio always modulates the value beneath it, never replaces it
	for _, m := range def.AudioReactive {
		dst, key := f.Params, m.Target
		if field, isCam := cameraField(m.Target); isCam {
			dst, key = f.Camera, field
		}
		dst[key] = Modulate(dst[key], bandLevel(bands, m.Band), m.Amount, m.Mode)
	}

	// 4: events fire once as playback moves forward through their window
	forward := t >= e.lastT
	for i, ev := range def.Events {
		if e.events[i] != armed {
			continue
		}
		if forward && math.Abs(ev.Time-t) < e.tolerance {
			e.events[i] = fired
			f.Events = append(f.Events, ev)
		}
	}
	e.lastT = t
	return f
}

// Modulate composes a band level with a baseline value.
func Modulate(current, level, amount float64, mode Mode) float64 {
	if mode == Add {
		return current + level*amount
	}
	return current * (1 + level*amount)
}

func cameraField(target string) (string, bool) {
	if strings.HasPrefix(target, CameraPrefix) {
		return target[len(CameraPrefix):], true
	}
	return "", false
}

func bandLevel(b *audio.Bands, band audio.Band) float64 {
	if b == nil {
		return 0
	}
	return b.Level(band)
}
