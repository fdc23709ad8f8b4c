package curve

// Easing names the shaping function applied to the segment that starts at a
// keyframe.
type Easing string

const (
	Linear    Easing = "linear"
	EaseIn    Easing = "easeIn"
	EaseOut   Easing = "easeOut"
	EaseInOut Easing = "easeInOut"
)

// Keyframe represents a value at Time (seconds) with an easing function
// that applies to the segment starting at this keyframe.
type Keyframe struct {
	Time   float64 `json:"time" yaml:"time"`
	Value  float64 `json:"value" yaml:"value"`
	Easing Easing  `json:"easing,omitempty" yaml:"easing,omitempty"`
}
