package preset

import (
	"sort"

	"github.com/coreman2200/arcaluminis-presets/internal/audio"
	"github.com/coreman2200/arcaluminis-presets/internal/curve"
)

// CameraPrefix marks automation targets that drive the camera.
const CameraPrefix = "camera."

// Mode is how an audio modulation composes with the value beneath it.
type Mode string

const (
	Multiply Mode = "multiply"
	Add      Mode = "add"
)

type Metadata struct {
	Name        string   `json:"name,omitempty" yaml:"name,omitempty"`
	Author      string   `json:"author,omitempty" yaml:"author,omitempty"`
	Description string   `json:"description,omitempty" yaml:"description,omitempty"`
	Tags        []string `json:"tags,omitempty" yaml:"tags,omitempty"`
	BPM         float64  `json:"bpm,omitempty" yaml:"bpm,omitempty"`
}

// Automation drives one target path with a keyframed curve. Targets are
// opaque here; the dispatch layer resolves them.
type Automation struct {
	Target    string           `json:"target" yaml:"target"`
	Keyframes []curve.Keyframe `json:"keyframes" yaml:"keyframes"`
}

// Modulation scales or offsets a target by one audio band.
type Modulation struct {
	Target string     `json:"target" yaml:"target"`
	Band   audio.Band `json:"band" yaml:"band"`
	Amount float64    `json:"amount" yaml:"amount"`
	Mode   Mode       `json:"mode,omitempty" yaml:"mode,omitempty"`
}

// Event fires Action once per playthrough as playback crosses Time.
type Event struct {
	Time   float64        `json:"time" yaml:"time"`
	Action string         `json:"action" yaml:"action"`
	Args   map[string]any `json:"args,omitempty" yaml:"args,omitempty"`
}

// Definition is a loaded preset. It is treated as immutable once handed to
// an Evaluator.
type Definition struct {
	Metadata      Metadata           `json:"metadata,omitempty" yaml:"metadata,omitempty"`
	Duration      float64            `json:"duration" yaml:"duration"`
	Camera        map[string]float64 `json:"camera,omitempty" yaml:"camera,omitempty"`
	Automations   []Automation       `json:"automations,omitempty" yaml:"automations,omitempty"`
	AudioReactive []Modulation       `json:"audioReactive,omitempty" yaml:"audioReactive,omitempty"`
	Events        []Event            `json:"events,omitempty" yaml:"events,omitempty"`
	Params        map[string]float64 `json:"params,omitempty" yaml:"params,omitempty"`
}

// Frame is the evaluator's per-call output. It is never cached.
type Frame struct {
	Generation uint64             `json:"generation"`
	Time       float64            `json:"time"`
	Camera     map[string]float64 `json:"camera"`
	Params     map[string]float64 `json:"params"`
	Events     []Event            `json:"events,omitempty"`
}

// Empty reports whether the frame carries nothing to apply.
func (f Frame) Empty() bool {
	return len(f.Camera) == 0 && len(f.Params) == 0 && len(f.Events) == 0
}

// Targets lists every target path def references (static camera fields as
// "camera.<field>", static params, automations, modulations) without
// duplicates.
func Targets(def *Definition) []string {
	if def == nil {
		return nil
	}
	seen := map[string]bool{}
	var out []string
	add := func(s string) {
		if !seen[s] {
			seen[s] = true
			out = append(out, s)
		}
	}
	for _, k := range sortedKeys(def.Camera) {
		add(CameraPrefix + k)
	}
	for _, k := range sortedKeys(def.Params) {
		add(k)
	}
	for _, a := range def.Automations {
		add(a.Target)
	}
	for _, m := range def.AudioReactive {
		add(m.Target)
	}
	return out
}

func sortedKeys(m map[string]float64) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
