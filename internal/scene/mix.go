package scene

// Lerp blends a toward b by t. The weighted form keeps both endpoints exact:
// t=0 yields a and t=1 yields b bit for bit.
func Lerp(a, b, t float64) float64 {
	return a*(1-t) + b*t
}

// LerpVec blends component-wise.
func LerpVec(a, b Vec3, t float64) Vec3 {
	return Vec3{Lerp(a.X, b.X, t), Lerp(a.Y, b.Y, t), Lerp(a.Z, b.Z, t)}
}

// LerpColor blends channels linearly; no gamma assumed.
func LerpColor(a, b Color, t float64) Color {
	return Color{Lerp(a.R, b.R, t), Lerp(a.G, b.G, t), Lerp(a.B, b.B, t)}
}

// HSV converts hue/saturation/value in [0,1] to linear RGB.
func HSV(h, s, v float64) Color {
	h = h - float64(int(h))
	if h < 0 {
		h++
	}
	i := int(h * 6.0)
	f := h*6.0 - float64(i)
	p := v * (1.0 - s)
	q := v * (1.0 - f*s)
	t := v * (1.0 - (1.0-f)*s)
	switch i % 6 {
	case 0:
		return Color{v, t, p}
	case 1:
		return Color{q, v, p}
	case 2:
		return Color{p, v, t}
	case 3:
		return Color{p, q, v}
	case 4:
		return Color{t, p, v}
	default:
		return Color{v, p, q}
	}
}
