// Package diagnostics carries non-fatal findings produced while loading
// presets, binding targets or opening projects.
package diagnostics

import (
	"fmt"

	"github.com/rs/zerolog"
)

type Severity string

const (
	Info Severity = "info"
	Warn Severity = "warning"
	Err  Severity = "error"
)

type Diagnostic struct {
	Severity       Severity       `json:"severity"`
	Code           string         `json:"code"`
	Summary        string         `json:"summary"`
	Detail         string         `json:"detail,omitempty"`
	SuggestedFixes []string       `json:"suggested_fixes,omitempty"`
	Evidence       map[string]any `json:"evidence,omitempty"`
}

// Warnf builds a warning with a formatted summary.
func Warnf(code, format string, args ...any) Diagnostic {
	return Diagnostic{Severity: Warn, Code: code, Summary: fmt.Sprintf(format, args...)}
}

// With returns d with an evidence entry added.
func (d Diagnostic) With(key string, v any) Diagnostic {
	ev := make(map[string]any, len(d.Evidence)+1)
	for k, x := range d.Evidence {
		ev[k] = x
	}
	ev[key] = v
	d.Evidence = ev
	return d
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("[%s] %s: %s", d.Severity, d.Code, d.Summary)
}

// Codes returns the codes of ds in order.
func Codes(ds []Diagnostic) []string {
	out := make([]string, len(ds))
	for i, d := range ds {
		out[i] = d.Code
	}
	return out
}

// Log writes each diagnostic to l at a level matching its severity.
func Log(l zerolog.Logger, ds []Diagnostic) {
	for _, d := range ds {
		var ev *zerolog.Event
		switch d.Severity {
		case Err:
			ev = l.Error()
		case Warn:
			ev = l.Warn()
		default:
			ev = l.Info()
		}
		ev = ev.Str("code", d.Code)
		if d.Detail != "" {
			ev = ev.Str("detail", d.Detail)
		}
		if len(d.Evidence) > 0 {
			ev = ev.Fields(d.Evidence)
		}
		ev.Msg(d.Summary)
	}
}
