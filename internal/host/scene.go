// Package host wires the standard scene into a dispatcher: camera and shape
// setters for automation-driven presets and the built-in event actions.
package host

import (
	"fmt"

	"github.com/coreman2200/arcaluminis-presets/internal/dispatch"
	"github.com/coreman2200/arcaluminis-presets/internal/scene"
)

// Shapes holds the shape-level state that setters write before it is pushed
// onto every pooled object.
type Shapes struct {
	pool *scene.Pool

	Hue       float64
	Glow      float64
	Wireframe bool
	// opaque parameters bound through BindParams, last applied value
	Params map[string]float64
}

// BindScene registers a setter for every camera field and for the shape
// parameters scale, opacity, glow, spin, wireframe and hue.
func BindScene(d *dispatch.Dispatcher, cam *scene.Camera, pool *scene.Pool) (*Shapes, error) {
	if d == nil || cam == nil || pool == nil {
		return nil, fmt.Errorf("bind scene: dispatcher, camera and pool are required")
	}
	for _, f := range scene.CameraFields() {
		if err := d.RegisterSetter("camera."+string(f), func(v float64, _ dispatch.FrameContext) {
			cam.Set(f, v)
		}); err != nil {
			return nil, err
		}
	}

	s := &Shapes{pool: pool, Hue: 0.6, Params: map[string]float64{}}
	setters := map[string]dispatch.Setter{
		"shapes.scale": func(v float64, _ dispatch.FrameContext) {
			for _, o := range pool.Objects() {
				o.Scale = scene.Uniform(v)
			}
		},
		"shapes.opacity": func(v float64, _ dispatch.FrameContext) {
			v = clamp01(v)
			s.eachMaterial(func(m *scene.Material) { m.Opacity = v })
		},
		"shapes.glow": func(v float64, _ dispatch.FrameContext) {
			s.Glow = v
			s.recolor()
		},
		"shapes.hue": func(v float64, _ dispatch.FrameContext) {
			s.Hue = v
			s.recolor()
		},
		// spin is an angular rate; the angle is derived from time so replays agree
		"shapes.spin": func(v float64, ctx dispatch.FrameContext) {
			for _, o := range pool.Objects() {
				o.Rotation.Y = v * ctx.Time
			}
		},
		"shapes.wireframe": func(v float64, _ dispatch.FrameContext) {
			s.Wireframe = v >= 0.5
			s.eachMaterial(func(m *scene.Material) { m.Wireframe = s.Wireframe })
		},
	}
	for path, fn := range setters {
		if err := d.RegisterSetter(path, fn); err != nil {
			return nil, err
		}
	}
	return s, nil
}

// BindParams records opaque parameters so a preview surface can show them.
// Names already bound are replaced.
func (s *Shapes) BindParams(d *dispatch.Dispatcher, names ...string) error {
	for _, name := range names {
		if err := d.RegisterSetter(name, func(v float64, _ dispatch.FrameContext) {
			s.Params[name] = v
		}); err != nil {
			return fmt.Errorf("bind param %q: %w", name, err)
		}
	}
	return nil
}

func (s *Shapes) eachMaterial(fn func(*scene.Material)) {
	for _, o := range s.pool.Objects() {
		if o.Material != nil {
			fn(o.Material)
		}
	}
}

// recolor derives the pool colour from hue, brightened by glow.
func (s *Shapes) recolor() {
	c := scene.HSV(s.Hue, 0.7, 1).Mul(0.5 + 0.5*clamp01(s.Glow))
	s.eachMaterial(func(m *scene.Material) { m.Color = c })
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
