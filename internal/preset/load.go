package preset

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/coreman2200/arcaluminis-presets/internal/curve"
	"github.com/coreman2200/arcaluminis-presets/internal/diagnostics"
)

// ErrNoDuration is returned by Validate when duration is missing or not positive.
var ErrNoDuration = errors.New("preset: duration must be a positive number of seconds")

// Parse decodes a preset document. YAML and JSON are both accepted.
func Parse(data []byte) (*Definition, error) {
	var def Definition
	if err := yaml.Unmarshal(data, &def); err != nil {
		return nil, fmt.Errorf("decode preset: %w", err)
	}
	return &def, nil
}

// LoadFile reads and decodes a preset document from disk.
func LoadFile(path string) (*Definition, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	def, err := Parse(b)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return def, nil
}

// WriteFile encodes def as YAML.
func WriteFile(path string, def *Definition) error {
	b, err := yaml.Marshal(def)
	if err != nil {
		return err
	}
	return os.WriteFile(path, b, 0644)
}

// Validate is the host-level structural check run before Load.
func Validate(def *Definition) error {
	if def == nil {
		return errors.New("preset: nil definition")
	}
	if !(def.Duration > 0) {
		return ErrNoDuration
	}
	return nil
}

// Normalize returns a copy of def with the malformed-input policies applied
// (unsorted keyframes are stably sorted, a missing modulation mode means
// multiply) together with a diagnostic for every fix or suspicious entry.
// It never fails.
func Normalize(def *Definition) (*Definition, []diagnostics.Diagnostic) {
	if def == nil {
		return &Definition{}, nil
	}
	out := *def
	var ds []diagnostics.Diagnostic

	out.Automations = make([]Automation, len(def.Automations))
	for i, a := range def.Automations {
		out.Automations[i] = a
		if a.Target == "" {
			ds = append(ds, diagnostics.Warnf("AUTOMATION.NO_TARGET", "automation %d has no target", i))
		}
		if len(a.Keyframes) == 0 {
			ds = append(ds, diagnostics.Warnf("AUTOMATION.EMPTY", "automation %q has no keyframes", a.Target))
		}
		if !curve.Sorted(a.Keyframes) {
			out.Automations[i].Keyframes = curve.SortStable(a.Keyframes)
			ds = append(ds, diagnostics.Warnf("AUTOMATION.UNSORTED", "keyframes for %q were not time-ordered and have been sorted", a.Target).
				With("target", a.Target))
		}
	}

	out.AudioReactive = make([]Modulation, len(def.AudioReactive))
	for i, m := range def.AudioReactive {
		switch m.Mode {
		case Multiply, Add:
		case "":
			m.Mode = Multiply
		default:
			ds = append(ds, diagnostics.Warnf("AUDIO.MODE", "modulation on %q has unknown mode %q; using multiply", m.Target, m.Mode))
			m.Mode = Multiply
		}
		if !m.Band.Valid() {
			ds = append(ds, diagnostics.Warnf("AUDIO.BAND", "modulation on %q reads unknown band %q; it will read as silence", m.Target, m.Band).
				With("band", string(m.Band)))
		}
		out.AudioReactive[i] = m
	}

	out.Events = make([]Event, len(def.Events))
	copy(out.Events, def.Events)
	for _, e := range def.Events {
		if e.Time < 0 || (def.Duration > 0 && e.Time > def.Duration) {
			ds = append(ds, diagnostics.Warnf("EVENT.RANGE", "event %q at %.3fs lies outside the preset duration", e.Action, e.Time).
				With("time", e.Time))
		}
	}
	return &out, ds
}
