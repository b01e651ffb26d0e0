package mountaincar

import (
	"bytes"
	"errors"
	"testing"

	env "github.com/samuelfneumann/godqn/environment"
	ts "github.com/samuelfneumann/godqn/timestep"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	"gonum.org/v1/gonum/spatial/r1"
)

type fixedStarter struct{ state []float64 }

func (f fixedStarter) Start() *mat.VecDense {
	return mat.NewVecDense(len(f.state), append([]float64(nil), f.state...))
}

func TestGoalReached(t *testing.T) {
	task := NewGoal(fixedStarter{[]float64{0.44, 0.07}}, 200, GoalPosition)
	m, _, err := NewDiscrete(task)
	require.NoError(t, err)

	step, done, err := m.Step(2)
	require.NoError(t, err)
	require.True(t, done)
	require.Equal(t, 0.0, step.Reward)
	require.Equal(t, ts.TerminalStateReached, step.EndType())
}

func TestStepCostAndInvalidAction(t *testing.T) {
	s := env.NewUniformStarter([]r1.Interval{{Min: -0.6, Max: -0.4},
		{Min: 0, Max: 0}}, 3)
	m, _, err := NewDiscrete(NewGoal(s, 200, GoalPosition))
	require.NoError(t, err)

	step, done, err := m.Step(1)
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, -1.0, step.Reward)

	_, _, err = m.Step(5)
	var invalid *env.InvalidActionError
	require.True(t, errors.As(err, &invalid))
}

func TestRender(t *testing.T) {
	task := NewGoal(fixedStarter{[]float64{-0.5, 0}}, 200, GoalPosition)
	m, _, err := NewDiscrete(task)
	require.NoError(t, err)

	var buf bytes.Buffer
	m.out = &buf
	require.NoError(t, m.Render())
	require.Contains(t, buf.String(), "🚗")
}
