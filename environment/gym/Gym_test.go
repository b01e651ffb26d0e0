package gym

import (
	"errors"
	"os"
	"testing"

	env "github.com/samuelfneumann/godqn/environment"
	"github.com/stretchr/testify/require"
)

func TestDiscreteActionsRejectsOtherSpaces(t *testing.T) {
	_, err := discreteActions(struct{}{})
	require.Error(t, err)
}

// TestCartPole needs a Python installation with gym, so it only runs
// when GODQN_GYM is set
func TestCartPole(t *testing.T) {
	if os.Getenv("GODQN_GYM") == "" {
		t.Skip("GODQN_GYM not set")
	}

	e, first, err := New("CartPole-v1", 1)
	require.NoError(t, err)
	defer e.Close()
	require.True(t, first.First())

	numActions, err := env.NumActions(e.ActionSpec())
	require.NoError(t, err)
	require.Equal(t, 2, numActions)
	require.Equal(t, 4, e.ObservationSpec().Features())

	for i := 0; i < 15; i++ {
		_, done, err := e.Step(i % numActions)
		require.NoError(t, err)
		if done {
			_, err = e.Reset()
			require.NoError(t, err)
		}
	}

	_, _, err = e.Step(numActions)
	var invalid *env.InvalidActionError
	require.True(t, errors.As(err, &invalid))
}
