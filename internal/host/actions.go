package host

import (
	"fmt"

	"github.com/coreman2200/arcaluminis-presets/internal/dispatch"
	"github.com/coreman2200/arcaluminis-presets/internal/pose"
	"github.com/coreman2200/arcaluminis-presets/internal/scene"
	"github.com/rs/zerolog/log"
)

// Counters counts built-in action invocations.
type Counters struct {
	Burst int
	Flash int
	Pose  int
	Shake int
}

type Actions struct {
	Counters Counters

	// roll offset added by shake this frame
	shake float64
}

// BindActions registers the built-in event actions:
//
//	burst  scales objects (optionally one role) by 1+amount, default 0.5
//	flash  sets material colour to white until the next frame rewrites it
//	pose   blends pose args.name by args.blend (default 1)
//	shake  offsets camera roll by args.amount (default 0.1) for one frame
func BindActions(d *dispatch.Dispatcher, poses pose.Getter, pool *scene.Pool, cam *scene.Camera) (*Actions, error) {
	if d == nil || pool == nil || cam == nil {
		return nil, fmt.Errorf("bind actions: dispatcher, pool and camera are required")
	}
	a := &Actions{}
	actions := map[string]dispatch.Action{
		"burst": func(args map[string]any, _ dispatch.FrameContext) {
			a.Counters.Burst++
			k := 1 + argFloat(args, "amount", 0.5)
			for _, o := range targets(pool, args) {
				o.Scale = o.Scale.Mul(k)
			}
		},
		"flash": func(args map[string]any, _ dispatch.FrameContext) {
			a.Counters.Flash++
			for _, o := range targets(pool, args) {
				if o.Material != nil {
					o.Material.Color = scene.Color{R: 1, G: 1, B: 1}
				}
			}
		},
		"pose": func(args map[string]any, _ dispatch.FrameContext) {
			a.Counters.Pose++
			name := argString(args, "name")
			if n := pose.ApplyPoseByName(poses, name, argFloat(args, "blend", 1), pool.Objects()); n < 0 {
				log.Debug().Str("pose", name).Msg("pose action: no such pose")
			}
		},
		"shake": func(args map[string]any, _ dispatch.FrameContext) {
			a.Counters.Shake++
			v := argFloat(args, "amount", 0.1)
			cam.Roll += v
			a.shake += v
		},
	}
	d.OnFrame(func(dispatch.FrameContext) {
		cam.Roll -= a.shake
		a.shake = 0
	})
	for name, fn := range actions {
		if err := d.RegisterAction(name, fn); err != nil {
			return nil, err
		}
	}
	return a, nil
}

func targets(pool *scene.Pool, args map[string]any) []*scene.Object {
	if role := argString(args, "role"); role != "" {
		return pool.ByRole(role)
	}
	return pool.Objects()
}

// argFloat reads a numeric event argument. Decoded documents hand back ints
// or floats depending on how the number was written.
func argFloat(args map[string]any, key string, def float64) float64 {
	switch v := args[key].(type) {
	case float64:
		return v
	case float32:
		return float64(v)
	case int:
		return float64(v)
	case int64:
		return float64(v)
	case uint64:
		return float64(v)
	default:
		return def
	}
}

func argString(args map[string]any, key string) string {
	s, _ := args[key].(string)
	return s
}
