package timestep

import (
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

func TestNewTransitionCopiesStates(t *testing.T) {
	state := mat.NewVecDense(2, []float64{1, 2})
	next := mat.NewVecDense(2, []float64{3, 4})

	tr := NewTransition(state, 1, -1, next, false)
	state.SetVec(0, 100)
	next.SetVec(1, 100)

	require.Equal(t, []float64{1, 2}, tr.State.RawVector().Data)
	require.Equal(t, []float64{3, 4}, tr.NextState.RawVector().Data)
}

func TestSetEnd(t *testing.T) {
	step := New(Mid, 1, mat.NewVecDense(1, nil), 3)
	require.Equal(t, Unset, step.EndType())
	require.False(t, step.Last())

	step.SetEnd(Timeout)
	require.True(t, step.Last())
	require.Equal(t, Timeout, step.EndType())
}

func TestCopyWithoutStates(t *testing.T) {
	tr := Transition{Action: 2, Reward: 1, Terminal: true}.Copy()
	require.Nil(t, tr.State)
	require.Nil(t, tr.NextState)
	require.Equal(t, 2, tr.Action)
	require.True(t, tr.Terminal)
}
