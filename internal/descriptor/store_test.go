package descriptor

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSaveAssignsIDAndCopies(t *testing.T) {
	s := NewStore()
	params := map[string]float64{"speed": 1}
	saved := s.Save(Descriptor{Name: "calm", Solver: "orbit", Params: params})
	require.NotEmpty(t, saved.ID)

	params["speed"] = 9
	assert.Equal(t, 1.0, s.Param("calm", "speed", 0))

	again := s.Save(Descriptor{ID: "fixed", Name: "calm", Solver: "orbit"})
	assert.Equal(t, "fixed", again.ID)
	assert.Equal(t, 1, s.Len())
}

func TestForSolverMostRecent(t *testing.T) {
	s := NewStore()
	s.Save(Descriptor{Name: "a", Solver: "orbit"})
	s.Save(Descriptor{Name: "b", Solver: "orbit"})
	s.Save(Descriptor{Name: "c", Solver: "pulse"})

	d, ok := s.ForSolver("orbit")
	require.True(t, ok)
	assert.Equal(t, "b", d.Name)

	// re-saving makes it the most recent
	s.Save(Descriptor{Name: "a", Solver: "orbit"})
	d, _ = s.ForSolver("orbit")
	assert.Equal(t, "a", d.Name)

	// moving a descriptor to another solver unlinks it
	s.Save(Descriptor{Name: "a", Solver: "pulse"})
	d, _ = s.ForSolver("orbit")
	assert.Equal(t, "b", d.Name)

	require.True(t, s.Delete("b"))
	_, ok = s.ForSolver("orbit")
	assert.False(t, ok)
	assert.False(t, s.Delete("b"))
}

func TestSetParamAndDefaults(t *testing.T) {
	s := NewStore()
	err := s.SetParam("nope", "speed", 1)
	assert.True(t, errors.Is(err, ErrNotFound))
	assert.Equal(t, 0.25, s.Param("nope", "speed", 0.25))

	s.Save(Descriptor{Name: "calm", Solver: "orbit"})
	require.NoError(t, s.SetParam("calm", "speed", 2))
	require.NoError(t, s.EnsureDefaults("calm", map[string]float64{"speed": 1, "radius": 4}))

	assert.Equal(t, 2.0, s.Param("calm", "speed", 0))
	assert.Equal(t, 4.0, s.Param("calm", "radius", 0))
	assert.Equal(t, 7.0, s.Param("calm", "tilt", 7))

	d, _ := s.Get("calm")
	d.Params["speed"] = 3
	assert.Equal(t, 3.0, s.Param("calm", "speed", 0), "Get returns the live descriptor")

	assert.ErrorIs(t, s.EnsureDefaults("nope", nil), ErrNotFound)
}

func TestLoadReplacesAndExportCopies(t *testing.T) {
	s := NewStore()
	s.Save(Descriptor{Name: "old", Solver: "orbit"})
	s.Load([]Descriptor{
		{ID: "2", Name: "zeta", Solver: "pulse", Params: map[string]float64{"pulseHz": 2}},
		{ID: "1", Name: "alpha", Solver: "orbit", Metadata: map[string]string{"author": "x"}},
	})

	assert.Equal(t, []string{"alpha", "zeta"}, s.List())
	_, ok := s.Get("old")
	assert.False(t, ok)

	exp := s.Export()
	require.Len(t, exp, 2)
	assert.Equal(t, "alpha", exp[0].Name)
	exp[1].Params["pulseHz"] = 0
	assert.Equal(t, 2.0, s.Param("zeta", "pulseHz", 0))

	s.Clear()
	assert.Equal(t, 0, s.Len())
	_, ok = s.ForSolver("pulse")
	assert.False(t, ok)
}

func TestExportKeepsActiveDescriptor(t *testing.T) {
	s := NewStore()
	s.Save(Descriptor{Name: "zeta", Solver: "orbit", Params: map[string]float64{"speed": 3}})
	s.Save(Descriptor{Name: "alpha", Solver: "orbit", Params: map[string]float64{"speed": 1}})
	s.Save(Descriptor{Name: "beat", Solver: "pulse"})

	d, ok := s.ForSolver("orbit")
	require.True(t, ok)
	require.Equal(t, "alpha", d.Name)

	other := NewStore()
	other.Load(s.Export())
	d, ok = other.ForSolver("orbit")
	require.True(t, ok)
	assert.Equal(t, "alpha", d.Name)
	assert.Equal(t, 1.0, d.Params["speed"])
	d, ok = other.ForSolver("pulse")
	require.True(t, ok)
	assert.Equal(t, "beat", d.Name)
	assert.Equal(t, []string{"alpha", "beat", "zeta"}, other.List())
}
