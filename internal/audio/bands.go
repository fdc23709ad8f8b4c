// Package audio carries the per-frame frequency-band energies supplied by an
// external analyser. Nothing here decodes audio or runs an FFT.
package audio

// Band names one of the three analysed frequency ranges.
type Band string

const (
	Bass  Band = "bass"
	Mids  Band = "mids"
	Highs Band = "highs"
)

// Bands is one frame of band energies, each nominally in [0,1].
type Bands struct {
	Bass  float64 `json:"bass" yaml:"bass"`
	Mids  float64 `json:"mids" yaml:"mids"`
	Highs float64 `json:"highs" yaml:"highs"`
}

// Valid reports whether b names a known band.
func (b Band) Valid() bool {
	switch b {
	case Bass, Mids, Highs:
		return true
	}
	return false
}

// Level returns the energy for band; unknown bands read as silence.
func (b Bands) Level(band Band) float64 {
	switch band {
	case Bass:
		return b.Bass
	case Mids:
		return b.Mids
	case Highs:
		return b.Highs
	default:
		return 0
	}
}

// Clamped returns a copy with every band clamped into [0,1].
func (b Bands) Clamped() Bands {
	return Bands{Bass: clamp01(b.Bass), Mids: clamp01(b.Mids), Highs: clamp01(b.Highs)}
}

// Energy is the mean of the three bands.
func (b Bands) Energy() float64 {
	return (b.Bass + b.Mids + b.Highs) / 3
}

func clamp01(x float64) float64 {
	if x < 0 {
		return 0
	}
	if x > 1 {
		return 1
	}
	return x
}
