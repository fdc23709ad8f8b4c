package curve

import "sort"

// clamp01 clamps x in [0,1].
func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}

// Ease shapes x in [0,1]. Unknown kinds behave like Linear.
func Ease(kind Easing, x float64) float64 {
	switch kind {
	case EaseIn:
		return x * x
	case EaseOut:
		return x * (2 - x)
	case EaseInOut:
		if x < 0.5 {
			return 2 * x * x
		}
		return -1 + (4-2*x)*x
	default:
		return x
	}
}

// Evaluate returns the value of the curve at time t (seconds).
// Keys must be sorted by Time ascending. The second result is false only
// when there are no keys.
func Evaluate(keys []Keyframe, t float64) (float64, bool) {
	n := len(keys)
	if n == 0 {
		return 0, false
	}
	// before first
	if t <= keys[0].Time {
		return keys[0].Value, true
	}
	// after last
	if t >= keys[n-1].Time {
		return keys[n-1].Value, true
	}
	for i := 0; i < n-1; i++ {
		a := keys[i]
		b := keys[i+1]
		if t >= a.Time && t <= b.Time {
			den := b.Time - a.Time
			if den <= 0 {
				return b.Value, true
			}
			u := clamp01((t - a.Time) / den)
			u = Ease(a.Easing, u)
			return a.Value + (b.Value-a.Value)*u, true
		}
	}
	// only reachable with unsorted keys
	return keys[n-1].Value, true
}

// Sorted reports whether keys are in non-decreasing time order.
func Sorted(keys []Keyframe) bool {
	return sort.SliceIsSorted(keys, func(i, j int) bool { return keys[i].Time < keys[j].Time })
}

// SortStable returns a time-ordered copy of keys; keyframes sharing a time
// keep their authored order.
func SortStable(keys []Keyframe) []Keyframe {
	out := make([]Keyframe, len(keys))
	copy(out, keys)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Time < out[j].Time })
	return out
}
