package expreplay

import (
	"errors"
	"testing"

	ts "github.com/samuelfneumann/godqn/timestep"
	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
)

// transition returns a transition whose reward identifies it
func transition(id int) ts.Transition {
	state := mat.NewVecDense(2, []float64{float64(id), 0})
	return ts.NewTransition(state, 0, float64(id), state, false)
}

func TestNewValidates(t *testing.T) {
	_, err := New(0, 1, 1)
	require.Error(t, err)

	_, err = New(3, 4, 1)
	require.Error(t, err)

	_, err = New(3, 0, 1)
	require.Error(t, err)
}

func TestAddEvictsOldest(t *testing.T) {
	b, err := New(3, 1, 1)
	require.NoError(t, err)

	for i := 1; i <= 5; i++ {
		b.Add(transition(i))
		require.LessOrEqual(t, b.Len(), b.Capacity())
	}

	require.Equal(t, 3, b.Len())
	for i, want := range []float64{3, 4, 5} {
		require.Equal(t, want, b.At(i).Reward)
	}

	batch, err := b.Sample(200)
	require.NoError(t, err)
	require.Len(t, batch, 200)
	for _, tr := range batch {
		require.Contains(t, []float64{3, 4, 5}, tr.Reward)
	}
}

func TestOldestSurvivingIsCapacityFromEnd(t *testing.T) {
	const capacity, inserted = 10, 37

	b, err := New(capacity, 1, 1)
	require.NoError(t, err)
	for i := 1; i <= inserted; i++ {
		b.Add(transition(i))
	}

	require.Equal(t, float64(inserted-capacity+1), b.At(0).Reward)
	require.Equal(t, float64(inserted), b.At(b.Len()-1).Reward)
}

func TestSampleErrors(t *testing.T) {
	b, err := New(10, 4, 1)
	require.NoError(t, err)

	_, err = b.Sample(2)
	require.True(t, IsEmptyBuffer(err))
	var replayErr *ExpReplayError
	require.True(t, errors.As(err, &replayErr))
	require.Equal(t, "sample", replayErr.Op)

	b.Add(transition(1))
	_, err = b.Sample(2)
	require.True(t, IsInsufficientSamples(err))
	require.False(t, b.Ready())

	for i := 2; i <= 4; i++ {
		b.Add(transition(i))
	}
	require.True(t, b.Ready())

	_, err = b.Sample(0)
	require.Error(t, err)
}

func TestSampleWithReplacementCoversBuffer(t *testing.T) {
	b, err := New(4, 1, 42)
	require.NoError(t, err)
	for i := 0; i < 4; i++ {
		b.Add(transition(i))
	}

	// A batch larger than the buffer can only be drawn with replacement
	batch, err := b.Sample(400)
	require.NoError(t, err)

	counts := map[float64]int{}
	for _, tr := range batch {
		counts[tr.Reward]++
	}
	require.Len(t, counts, 4)
	for _, c := range counts {
		require.InDelta(t, 100, c, 40)
	}
}

func TestAddStoresCopy(t *testing.T) {
	b, err := New(2, 1, 1)
	require.NoError(t, err)

	tr := transition(1)
	b.Add(tr)
	tr.State.SetVec(0, 100)

	require.Equal(t, 1.0, b.At(0).State.AtVec(0))
}

func TestAddZeroTransition(t *testing.T) {
	b, err := New(2, 1, 1)
	require.NoError(t, err)

	require.NotPanics(t, func() { b.Add(ts.Transition{}) })
	require.Equal(t, 1, b.Len())
	require.Nil(t, b.At(0).State)
}
