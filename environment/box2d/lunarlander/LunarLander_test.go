package lunarlander

import (
	"errors"
	"testing"

	env "github.com/samuelfneumann/godqn/environment"
	ts "github.com/samuelfneumann/godqn/timestep"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r1"
)

func newLander(t *testing.T, cutoff int) (*Discrete, ts.TimeStep) {
	t.Helper()

	s := env.NewUniformStarter([]r1.Interval{
		{Min: InitialX, Max: InitialX},
		{Min: InitialY, Max: InitialY},
		{Min: 0, Max: 0},
	}, 1)
	l, step, err := NewDiscrete(NewLand(s, cutoff), 1, t.TempDir())
	require.NoError(t, err)
	t.Cleanup(func() { require.NoError(t, l.Close()) })
	return l, step
}

func TestReset(t *testing.T) {
	l, step := newLander(t, 100)

	require.True(t, step.First())
	require.Equal(t, 0, step.Number)
	require.Equal(t, ObservationDims, step.Observation.Len())
	require.Equal(t, 0.0, step.Observation.AtVec(6))
	require.Equal(t, 0.0, step.Observation.AtVec(7))

	n, err := env.NumActions(l.ActionSpec())
	require.NoError(t, err)
	require.Equal(t, NumActions, n)
}

func TestInvalidAction(t *testing.T) {
	l, _ := newLander(t, 100)

	for _, a := range []int{-1, NumActions} {
		_, _, err := l.Step(a)
		var actionErr *env.InvalidActionError
		require.True(t, errors.As(err, &actionErr))
	}
}

func TestFalls(t *testing.T) {
	l, first := newLander(t, 20)

	var step ts.TimeStep
	var last bool
	var err error
	for i := 1; i <= 20; i++ {
		step, last, err = l.Step(0)
		require.NoError(t, err)
		require.Equal(t, i, step.Number)
		if last {
			break
		}
	}
	require.Less(t, step.Observation.AtVec(1), first.Observation.AtVec(1))
	require.Less(t, step.Observation.AtVec(3), 0.0)
}

func TestEpisodeEnds(t *testing.T) {
	l, _ := newLander(t, 1000)

	var step ts.TimeStep
	last := false
	for !last {
		var err error
		step, last, err = l.Step(0)
		require.NoError(t, err)
		require.LessOrEqual(t, step.Number, 1000)
	}
	require.True(t, step.Last())
	require.NotEqual(t, ts.Unset, step.EndType())

	step, err := l.Reset()
	require.NoError(t, err)
	require.True(t, step.First())
}

func TestRender(t *testing.T) {
	l, _ := newLander(t, 100)
	require.NoError(t, l.Render())
}
