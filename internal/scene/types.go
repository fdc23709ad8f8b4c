// Package scene models the renderable objects the engine is allowed to touch.
// Objects are owned by the host; the engine only mutates their fields.
package scene

type Vec3 struct {
	X float64 `json:"x" yaml:"x"`
	Y float64 `json:"y" yaml:"y"`
	Z float64 `json:"z" yaml:"z"`
}

type Color struct {
	R float64 `json:"r" yaml:"r"`
	G float64 `json:"g" yaml:"g"`
	B float64 `json:"b" yaml:"b"`
}

// Kind is a primitive kind in the shape pool ("octahedron", "sphere", ...).
type Kind string

// Material is the subset of render material state the engine drives.
type Material struct {
	Tag       string  `json:"tag,omitempty"`
	Color     Color   `json:"color"`
	Opacity   float64 `json:"opacity"`
	Wireframe bool    `json:"wireframe,omitempty"`
}

// Object is one renderable. A nil Material means the object has no opacity
// or colour the engine may drive.
type Object struct {
	ID       string    `json:"id"`
	Kind     Kind      `json:"kind"`
	Role     string    `json:"role,omitempty"`
	Position Vec3      `json:"position"`
	Rotation Vec3      `json:"rotation"`
	Scale    Vec3      `json:"scale"`
	Visible  bool      `json:"visible"`
	Material *Material `json:"material,omitempty"`
}

func (v Vec3) Add(o Vec3) Vec3      { return Vec3{v.X + o.X, v.Y + o.Y, v.Z + o.Z} }
func (v Vec3) Mul(s float64) Vec3   { return Vec3{v.X * s, v.Y * s, v.Z * s} }
func Uniform(s float64) Vec3        { return Vec3{s, s, s} }
func (c Color) Mul(s float64) Color { return Color{c.R * s, c.G * s, c.B * s} }
