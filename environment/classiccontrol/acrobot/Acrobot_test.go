package acrobot

import (
	"errors"
	"math"
	"testing"

	env "github.com/samuelfneumann/godqn/environment"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

func newAcrobot(t *testing.T, steps int) *Discrete {
	t.Helper()

	bounds := r1.Interval{Min: -0.1, Max: 0.1}
	s := env.NewUniformStarter([]r1.Interval{bounds, bounds, bounds,
		bounds}, 1)
	a, step, err := NewDiscrete(NewSwingUp(s, steps, GoalHeight))
	require.NoError(t, err)
	require.True(t, step.First())
	return a
}

func TestStepLimit(t *testing.T) {
	a := newAcrobot(t, 10)

	for i := 1; i <= 10; i++ {
		step, last, err := a.Step(i % NumActions)
		require.NoError(t, err)
		require.Equal(t, i, step.Number)
		require.Equal(t, i == 10, last)
		require.Equal(t, -1.0, step.Reward)

		obs := step.Observation
		require.LessOrEqual(t, math.Abs(obs.AtVec(0)), math.Pi)
		require.LessOrEqual(t, math.Abs(obs.AtVec(1)), math.Pi)
	}
}

func TestInvalidAction(t *testing.T) {
	a := newAcrobot(t, 10)

	_, _, err := a.Step(NumActions)
	var actionErr *env.InvalidActionError
	require.True(t, errors.As(err, &actionErr))
}

func TestAtGoal(t *testing.T) {
	task := NewSwingUp(nil, 10, GoalHeight)
	require.True(t, task.AtGoal(mat.NewVecDense(4, []float64{math.Pi, 0, 0, 0})))
	require.False(t, task.AtGoal(mat.NewVecDense(4, nil)))
}
