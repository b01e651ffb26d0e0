package network

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/require"
	"gonum.org/v1/gonum/mat"
	G "gorgonia.org/gorgonia"
)

func newTestApproximator(t *testing.T, features, outputs int) *Approximator {
	t.Helper()

	c := Config{
		Hidden:      []int{16, 8},
		Biases:      []bool{true, true},
		Activations: []*Activation{TanH(), ReLU()},
	}
	a, err := NewApproximator(features, outputs, 4, c, G.GlorotU(1.0))
	require.NoError(t, err)
	return a
}

// setLinear sets a hidden-layer-free Approximator to compute
// x·[[1, 2, 3], [4, 5, 6]] + 0.5
func setLinear(t *testing.T, a *Approximator) {
	t.Helper()

	params := a.Parameters()
	require.Len(t, params, 2)
	copy(params[0].Data().([]float64), []float64{1, 2, 3, 4, 5, 6})
	copy(params[1].Data().([]float64), []float64{0.5, 0.5, 0.5})
	a.Invalidate()
}

func TestEvaluateShape(t *testing.T) {
	a := newTestApproximator(t, 4, 3)

	for _, n := range []int{1, 4, 7} {
		states := mat.NewDense(n, 4, nil)
		values, err := a.Evaluate(states)
		require.NoError(t, err)

		rows, cols := values.Dims()
		require.Equal(t, n, rows)
		require.Equal(t, 3, cols)
	}
}

func TestEvaluateDimensionError(t *testing.T) {
	a := newTestApproximator(t, 4, 3)

	_, err := a.Evaluate(mat.NewDense(2, 5, nil))
	var dimErr *DimensionError
	require.True(t, errors.As(err, &dimErr))
	require.Equal(t, 4, dimErr.Want)
	require.Equal(t, 5, dimErr.Have)

	_, err = a.EvaluateVec(mat.NewVecDense(3, nil))
	require.True(t, errors.As(err, &dimErr))
}

func TestSingleStateMatchesBatchRow(t *testing.T) {
	a := newTestApproximator(t, 4, 3)

	states := mat.NewDense(3, 4, []float64{
		0.1, -0.2, 0.3, -0.4,
		1.0, 0.5, -0.5, 0.0,
		-1.0, 2.0, 0.25, 0.75,
	})
	batch, err := a.Evaluate(states)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		single, err := a.EvaluateVec(states.RowView(i))
		require.NoError(t, err)
		require.InDeltaSlice(t, batch.RawRowView(i), single, 1e-9)
	}
}

func TestParametersByReference(t *testing.T) {
	a, err := NewApproximator(2, 3, 1, Config{}, G.Zeroes())
	require.NoError(t, err)

	values, err := a.EvaluateVec(mat.NewVecDense(2, []float64{1, 1}))
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0, 0}, values)

	setLinear(t, a)
	values, err = a.EvaluateVec(mat.NewVecDense(2, []float64{1, 1}))
	require.NoError(t, err)
	require.InDeltaSlice(t, []float64{5.5, 7.5, 9.5}, values, 1e-12)
}

func TestCopyFrom(t *testing.T) {
	source := newTestApproximator(t, 4, 2)
	dest := newTestApproximator(t, 4, 2)

	states := mat.NewDense(2, 4, []float64{1, 2, 3, 4, -1, -2, -3, -4})
	want, err := source.Evaluate(states)
	require.NoError(t, err)

	// Evaluate once so that dest has a cached evaluator to refresh
	_, err = dest.Evaluate(states)
	require.NoError(t, err)

	require.NoError(t, dest.CopyFrom(source))
	have, err := dest.Evaluate(states)
	require.NoError(t, err)
	require.InDeltaSlice(t, want.RawMatrix().Data, have.RawMatrix().Data, 0)

	for i, p := range dest.Parameters() {
		require.Equal(t, source.Parameters()[i].Data(), p.Data())
	}

	wrong := newTestApproximator(t, 4, 3)
	var dimErr *DimensionError
	require.True(t, errors.As(dest.CopyFrom(wrong), &dimErr))
}

func TestCloneIsIndependent(t *testing.T) {
	a, err := NewApproximator(2, 3, 1, Config{}, G.Zeroes())
	require.NoError(t, err)
	clone, err := a.Clone()
	require.NoError(t, err)

	setLinear(t, a)

	values, err := clone.EvaluateVec(mat.NewVecDense(2, []float64{1, 1}))
	require.NoError(t, err)
	require.Equal(t, []float64{0, 0, 0}, values)
}

func TestSaveLoad(t *testing.T) {
	a := newTestApproximator(t, 4, 3)
	states := mat.NewDense(2, 4, []float64{1, 0, -1, 0.5, 0.2, 0.3, 0.4, 0.5})
	want, err := a.Evaluate(states)
	require.NoError(t, err)

	data, err := Save(a)
	require.NoError(t, err)
	loaded, err := Load(data)
	require.NoError(t, err)

	have, err := loaded.Evaluate(states)
	require.NoError(t, err)
	require.InDeltaSlice(t, want.RawMatrix().Data, have.RawMatrix().Data,
		1e-12)
}

func TestConfigValidate(t *testing.T) {
	c := Config{Hidden: []int{8}, Biases: []bool{true}}
	require.Error(t, c.Validate())

	c.Activations = []*Activation{TanH()}
	require.NoError(t, c.Validate())

	c.Hidden[0] = 0
	require.Error(t, c.Validate())
}
