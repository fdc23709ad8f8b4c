package curve

import (
	"math"
	"testing"
)

func TestEvaluateEmpty(t *testing.T) {
	if _, ok := Evaluate(nil, 1); ok {
		t.Fatalf("expected no value for empty curve")
	}
}

func TestEvaluateLinear(t *testing.T) {
	keys := []Keyframe{
		{Time: 0, Value: 0, Easing: Linear},
		{Time: 10, Value: 10, Easing: Linear},
	}
	cases := []struct {
		t, want float64
	}{
		{-1, 0}, {0, 0}, {5, 5}, {10, 10}, {11, 10},
	}
	for _, c := range cases {
		v, ok := Evaluate(keys, c.t)
		if !ok || v != c.want {
			t.Fatalf("t=%v: expected %v, got %v (ok=%v)", c.t, c.want, v, ok)
		}
	}
}

func TestEvaluateFlatExtrapolation(t *testing.T) {
	keys := []Keyframe{
		{Time: 1, Value: 3},
		{Time: 2, Value: -4, Easing: EaseIn},
		{Time: 5, Value: 9},
	}
	for _, tt := range []float64{-100, 0, 0.999, 1} {
		if v, _ := Evaluate(keys, tt); v != 3 {
			t.Fatalf("t=%v: expected first value 3, got %v", tt, v)
		}
	}
	for _, tt := range []float64{5, 5.0001, 1e6} {
		if v, _ := Evaluate(keys, tt); v != 9 {
			t.Fatalf("t=%v: expected last value 9, got %v", tt, v)
		}
	}
}

func TestEvaluateLinearLaw(t *testing.T) {
	t0, v0, t1, v1 := 0.25, -2.0, 3.75, 7.5
	keys := []Keyframe{{Time: t0, Value: v0}, {Time: t1, Value: v1}}
	for i := 1; i < 100; i++ {
		tt := t0 + (t1-t0)*float64(i)/100
		want := v0 + (v1-v0)*(tt-t0)/(t1-t0)
		got, _ := Evaluate(keys, tt)
		if got != want {
			t.Fatalf("t=%v: expected %v, got %v", tt, want, got)
		}
	}
}

func TestEvaluateEasing(t *testing.T) {
	mk := func(e Easing) []Keyframe {
		return []Keyframe{{Time: 0, Value: 0, Easing: e}, {Time: 1, Value: 1}}
	}
	cases := []struct {
		e    Easing
		x    float64
		want float64
	}{
		{EaseIn, 0.5, 0.25},
		{EaseOut, 0.5, 0.75},
		{EaseInOut, 0.25, 0.125},
		{EaseInOut, 0.75, 0.875},
		{"bouncy", 0.3, 0.3},
		{"", 0.3, 0.3},
	}
	for _, c := range cases {
		got, _ := Evaluate(mk(c.e), c.x)
		if math.Abs(got-c.want) > 1e-12 {
			t.Fatalf("%q at %v: expected %v, got %v", c.e, c.x, c.want, got)
		}
	}
}

func TestEaseEndpoints(t *testing.T) {
	for _, e := range []Easing{Linear, EaseIn, EaseOut, EaseInOut} {
		if Ease(e, 0) != 0 || Ease(e, 1) != 1 {
			t.Fatalf("%q: endpoints not preserved", e)
		}
	}
}

func TestEvaluateCoincidentKeys(t *testing.T) {
	keys := []Keyframe{
		{Time: 0, Value: 0},
		{Time: 2, Value: 1},
		{Time: 2, Value: 5},
		{Time: 4, Value: 5},
	}
	v, _ := Evaluate(keys, 2)
	if math.IsNaN(v) || math.IsInf(v, 0) {
		t.Fatalf("expected finite value at coincident keys, got %v", v)
	}
	if v != 1 {
		t.Fatalf("expected incoming segment to end at 1, got %v", v)
	}
	if v, _ := Evaluate(keys, 3); v != 5 {
		t.Fatalf("expected 5 after the jump, got %v", v)
	}
}

func TestSortStable(t *testing.T) {
	keys := []Keyframe{{Time: 3, Value: 1}, {Time: 1, Value: 2}, {Time: 3, Value: 3}}
	if Sorted(keys) {
		t.Fatalf("expected unsorted")
	}
	out := SortStable(keys)
	if !Sorted(out) {
		t.Fatalf("expected sorted copy")
	}
	if out[1].Value != 1 || out[2].Value != 3 {
		t.Fatalf("expected stable order for equal times, got %+v", out)
	}
	if keys[0].Time != 3 {
		t.Fatalf("input mutated")
	}
}
