package pose

import (
	"time"

	"github.com/coreman2200/arcaluminis-presets/internal/scene"
)

// Entry is one object's saved state.
type Entry struct {
	ObjectID string      `json:"objectId" yaml:"objectId"`
	Position scene.Vec3  `json:"position" yaml:"position"`
	Rotation scene.Vec3  `json:"rotation" yaml:"rotation"`
	Scale    scene.Vec3  `json:"scale" yaml:"scale"`
	Visible  bool        `json:"visible" yaml:"visible"`
	Material string      `json:"material,omitempty" yaml:"material,omitempty"`
	Color    scene.Color `json:"color" yaml:"color"`
	Opacity  *float64    `json:"opacity,omitempty" yaml:"opacity,omitempty"`
}

// Snapshot is a named, immutable capture of many objects.
type Snapshot struct {
	ID        string    `json:"id" yaml:"id"`
	Name      string    `json:"name" yaml:"name"`
	Timestamp time.Time `json:"timestamp" yaml:"timestamp"`
	Entries   []Entry   `json:"entries" yaml:"entries"`
}

// Getter is the read-only view solvers and readers need.
type Getter interface {
	Get(name string) (*Snapshot, bool)
}

func (s Snapshot) clone() Snapshot {
	out := s
	out.Entries = make([]Entry, len(s.Entries))
	for i, e := range s.Entries {
		if e.Opacity != nil {
			v := *e.Opacity
			e.Opacity = &v
		}
		out.Entries[i] = e
	}
	return out
}

// EntryFrom captures an object's current state.
func EntryFrom(o *scene.Object) Entry {
	e := Entry{
		ObjectID: o.ID,
		Position: o.Position,
		Rotation: o.Rotation,
		Scale:    o.Scale,
		Visible:  o.Visible,
	}
	if o.Material != nil {
		op := o.Material.Opacity
		e.Material = o.Material.Tag
		e.Color = o.Material.Color
		e.Opacity = &op
	}
	return e
}
