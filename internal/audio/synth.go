package audio

import "math"

// Synthetic returns a deterministic band envelope for running presets
// without an analyser: bass thumps on every beat, mids swell over four
// beats, highs flutter on the off-beat.
func Synthetic(bpm float64) func(t float64) Bands {
	if bpm <= 0 {
		bpm = 120
	}
	beat := 60 / bpm
	return func(t float64) Bands {
		if t < 0 {
			t = 0
		}
		phase := math.Mod(t, beat) / beat
		return Bands{
			Bass:  math.Exp(-6 * phase),
			Mids:  0.5 - 0.5*math.Cos(2*math.Pi*t/(4*beat)),
			Highs: 0.5 + 0.5*math.Sin(4*math.Pi*t/beat+math.Pi),
		}.Clamped()
	}
}
