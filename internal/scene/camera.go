package scene

// CameraField names one scalar of the camera pose addressable by automation
// targets of the form "camera.<field>".
type CameraField string

const (
	CamX       CameraField = "x"
	CamY       CameraField = "y"
	CamZ       CameraField = "z"
	CamTargetX CameraField = "targetX"
	CamTargetY CameraField = "targetY"
	CamTargetZ CameraField = "targetZ"
	CamFOV     CameraField = "fov"
	CamZoom    CameraField = "zoom"
	CamRoll    CameraField = "roll"
)

var cameraFields = []CameraField{CamX, CamY, CamZ, CamTargetX, CamTargetY, CamTargetZ, CamFOV, CamZoom, CamRoll}

// CameraFields returns every field in canonical order.
func CameraFields() []CameraField {
	out := make([]CameraField, len(cameraFields))
	copy(out, cameraFields)
	return out
}

// ParseCameraField validates a field name.
func ParseCameraField(s string) (CameraField, bool) {
	for _, f := range cameraFields {
		if string(f) == s {
			return f, true
		}
	}
	return "", false
}

type Camera struct {
	Position Vec3    `json:"position"`
	Target   Vec3    `json:"target"`
	FOV      float64 `json:"fov"`
	Zoom     float64 `json:"zoom"`
	Roll     float64 `json:"roll"`
}

// DefaultCamera looks at the origin from +Z.
func DefaultCamera() Camera {
	return Camera{Position: Vec3{0, 0, 10}, FOV: 60, Zoom: 1}
}

// Set writes one field; unknown fields are ignored and reported false.
func (c *Camera) Set(f CameraField, v float64) bool {
	switch f {
	case CamX:
		c.Position.X = v
	case CamY:
		c.Position.Y = v
	case CamZ:
		c.Position.Z = v
	case CamTargetX:
		c.Target.X = v
	case CamTargetY:
		c.Target.Y = v
	case CamTargetZ:
		c.Target.Z = v
	case CamFOV:
		c.FOV = v
	case CamZoom:
		c.Zoom = v
	case CamRoll:
		c.Roll = v
	default:
		return false
	}
	return true
}

// Get reads one field.
func (c *Camera) Get(f CameraField) (float64, bool) {
	switch f {
	case CamX:
		return c.Position.X, true
	case CamY:
		return c.Position.Y, true
	case CamZ:
		return c.Position.Z, true
	case CamTargetX:
		return c.Target.X, true
	case CamTargetY:
		return c.Target.Y, true
	case CamTargetZ:
		return c.Target.Z, true
	case CamFOV:
		return c.FOV, true
	case CamZoom:
		return c.Zoom, true
	case CamRoll:
		return c.Roll, true
	}
	return 0, false
}
