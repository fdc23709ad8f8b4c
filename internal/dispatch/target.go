package dispatch

import (
	"errors"
	"fmt"
	"strings"

	"github.com/coreman2200/arcaluminis-presets/internal/scene"
)

// Domain is the renderable domain a target path belongs to.
type Domain int

const (
	Param Domain = iota
	Camera
	Shape
)

func (d Domain) String() string {
	switch d {
	case Camera:
		return "camera"
	case Shape:
		return "shapes"
	default:
		return "param"
	}
}

var (
	ErrEmptyTarget        = errors.New("dispatch: empty target path")
	ErrUnknownCameraField = errors.New("dispatch: unknown camera field")
)

// Target is a parsed target path.
type Target struct {
	Domain Domain
	Name   string // field or parameter name with the domain prefix removed
}

// ParseTarget classifies a path. "camera.<field>" must name a known camera
// field; "shapes.<name>" addresses a shape parameter; anything else is an
// opaque parameter path.
func ParseTarget(path string) (Target, error) {
	if path == "" {
		return Target{}, ErrEmptyTarget
	}
	if rest, ok := strings.CutPrefix(path, "camera."); ok {
		if _, known := scene.ParseCameraField(rest); !known {
			return Target{}, fmt.Errorf("%w: %q", ErrUnknownCameraField, rest)
		}
		return Target{Domain: Camera, Name: rest}, nil
	}
	if rest, ok := strings.CutPrefix(path, "shapes."); ok && rest != "" {
		return Target{Domain: Shape, Name: rest}, nil
	}
	return Target{Domain: Param, Name: path}, nil
}

// Path renders the target back to its string form.
func (t Target) Path() string {
	switch t.Domain {
	case Camera:
		return "camera." + t.Name
	case Shape:
		return "shapes." + t.Name
	default:
		return t.Name
	}
}
