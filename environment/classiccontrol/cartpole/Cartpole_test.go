package cartpole

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	env "github.com/samuelfneumann/godqn/environment"
	ts "github.com/samuelfneumann/godqn/timestep"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/spatial/r1"
)

func newTestCartpole(t *testing.T, cutoff int, dir string) *Discrete {
	t.Helper()

	bounds := r1.Interval{Min: -0.05, Max: 0.05}
	s := env.NewUniformStarter([]r1.Interval{bounds, bounds, bounds, bounds},
		1)
	task, err := NewBalance(s, cutoff, FailAngle)
	require.NoError(t, err)

	c, first, err := NewDiscrete(task, dir)
	require.NoError(t, err)
	require.True(t, first.First())
	return c
}

func TestStepInvalidAction(t *testing.T) {
	c := newTestCartpole(t, 500, "")

	for _, action := range []int{-1, 3} {
		_, _, err := c.Step(action)

		var invalid *env.InvalidActionError
		require.True(t, errors.As(err, &invalid), "action %v", action)
		require.Equal(t, action, invalid.Action)
		require.Equal(t, NumActions, invalid.NumActions)
	}
}

func TestBalanceRewardAndTermination(t *testing.T) {
	c := newTestCartpole(t, 500, "")

	step, done, err := c.Step(1)
	require.NoError(t, err)
	require.False(t, done)
	require.Equal(t, 1.0, step.Reward)
	require.Equal(t, 1, step.Number)

	// Pushing in one direction eventually topples the pole
	for !done {
		step, done, err = c.Step(2)
		require.NoError(t, err)
	}
	require.Equal(t, ts.TerminalStateReached, step.EndType())
	require.Equal(t, -1.0, step.Reward)
}

func TestStepLimit(t *testing.T) {
	c := newTestCartpole(t, 3, "")

	var done bool
	var step ts.TimeStep
	var err error
	for i := 0; i < 3; i++ {
		step, done, err = c.Step(1)
		require.NoError(t, err)
	}
	require.True(t, done)
	require.Equal(t, ts.Timeout, step.EndType())
}

func TestRender(t *testing.T) {
	dir := t.TempDir()
	c := newTestCartpole(t, 500, dir)

	require.NoError(t, c.Render())
	_, _, err := c.Step(0)
	require.NoError(t, err)
	require.NoError(t, c.Render())

	for _, name := range []string{"frame-000000.png", "frame-000001.png"} {
		_, err = os.Stat(filepath.Join(dir, name))
		require.NoError(t, err)
	}
}

func TestNormalizeAngle(t *testing.T) {
	require.InDelta(t, 0.1, normalizeAngle(0.1), 1e-12)
	require.InDelta(t, -3.0, normalizeAngle(2*3.141592653589793-3.0), 1e-12)
}
