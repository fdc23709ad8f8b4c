package fake

import (
	"fmt"
	"io"
	"sort"
	"strings"

	"github.com/coreman2200/arcaluminis-presets/internal/player"
	"github.com/coreman2200/arcaluminis-presets/internal/scene"
)

// Driver prints a compact summary of each tick (mean position and scale,
// first object, params, fired events), useful for headless runs.
type Driver struct {
	Out io.Writer
	// Every prints one line per Every ticks; ticks that fire events always print.
	Every int
	Count int
}

func (d *Driver) Write(res player.Result, pool *scene.Pool) error {
	d.Count++
	if d.Every > 1 && d.Count%d.Every != 0 && len(res.Frame.Events) == 0 && !res.Ended {
		return nil
	}
	var pos, scale scene.Vec3
	var first scene.Vec3
	n := 0
	if pool != nil {
		for i, o := range pool.Objects() {
			if i == 0 {
				first = o.Position
			}
			pos = pos.Add(o.Position)
			scale = scale.Add(o.Scale)
			n++
		}
	}
	if n > 0 {
		pos = pos.Mul(1 / float64(n))
		scale = scale.Mul(1 / float64(n))
	}
	var b strings.Builder
	fmt.Fprintf(&b, "[frame %04d] t=%.3f avgPos=(%.2f,%.2f,%.2f) avgScale=%.2f first=(%.2f,%.2f,%.2f)",
		d.Count, res.Time, pos.X, pos.Y, pos.Z, scale.X, first.X, first.Y, first.Z)
	if len(res.Frame.Params) > 0 {
		keys := make([]string, 0, len(res.Frame.Params))
		for k := range res.Frame.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		for _, k := range keys {
			fmt.Fprintf(&b, " %s=%.3f", k, res.Frame.Params[k])
		}
	}
	for _, ev := range res.Frame.Events {
		fmt.Fprintf(&b, " !%s", ev.Action)
	}
	if res.Looped {
		b.WriteString(" (loop)")
	}
	if res.Ended {
		b.WriteString(" (end)")
	}
	b.WriteByte('\n')
	_, err := io.WriteString(d.Out, b.String())
	return err
}
