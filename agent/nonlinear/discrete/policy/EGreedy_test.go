package policy

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestGreedyTies(t *testing.T) {
	p := NewEGreedy(1)

	cases := []struct {
		values []float64
		want   int
	}{
		{[]float64{0.1, 0.5, 0.3}, 1},
		{[]float64{2, 2, 1}, 0},
		{[]float64{-1, 3, 3, 3}, 1},
		{[]float64{7}, 0},
	}

	for _, c := range cases {
		for i := 0; i < 50; i++ {
			action, err := p.SelectAction(c.values, 0)
			require.NoError(t, err)
			require.Equal(t, c.want, action)
		}
	}
}

func TestRandomWhenEpsilonIsOne(t *testing.T) {
	const samples = 30000
	p := NewEGreedy(7)
	values := []float64{10, 0, 0}

	counts := make([]int, len(values))
	for i := 0; i < samples; i++ {
		action, err := p.SelectAction(values, 1)
		require.NoError(t, err)
		counts[action]++
	}

	for _, c := range counts {
		require.InDelta(t, float64(samples)/3, c, 0.03*samples)
	}
}

func TestSelectActionErrors(t *testing.T) {
	p := NewEGreedy(1)

	_, err := p.SelectAction(nil, 0.1)
	require.Error(t, err)

	_, err = p.SelectAction([]float64{1}, 1.5)
	require.Error(t, err)
}
