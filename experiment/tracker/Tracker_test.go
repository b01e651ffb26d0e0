package tracker

import (
	"path/filepath"
	"testing"

	ts "github.com/samuelfneumann/godqn/timestep"
	"github.com/stretchr/testify/require"
)

// episode returns the TimeSteps of an episode with the given rewards
func episode(rewards ...float64) []ts.TimeStep {
	steps := []ts.TimeStep{ts.New(ts.First, 0, nil, 0)}
	for i, r := range rewards {
		stepType := ts.Mid
		if i == len(rewards)-1 {
			stepType = ts.Last
		}
		steps = append(steps, ts.New(stepType, r, nil, i+1))
	}
	return steps
}

func TestReturnAndEpisodeLength(t *testing.T) {
	dir := t.TempDir()
	ret := NewReturn(filepath.Join(dir, "returns.bin"))
	length := NewEpisodeLength(filepath.Join(dir, "lengths.bin"))

	for _, ep := range [][]ts.TimeStep{episode(1, 1, 1), episode(2, -1)} {
		for _, step := range ep {
			ret.Track(step)
			length.Track(step)
		}
	}
	require.Equal(t, []float64{3, 1}, ret.Returns())
	require.Equal(t, []float64{3, 2}, length.Lengths())

	require.NoError(t, ret.Save())
	require.NoError(t, length.Save())

	data, err := LoadData(filepath.Join(dir, "returns.bin"))
	require.NoError(t, err)
	require.Equal(t, []float64{3, 1}, data)

	data, err = LoadData(filepath.Join(dir, "lengths.bin"))
	require.NoError(t, err)
	require.Equal(t, []float64{3, 2}, data)

	_, err = LoadData(filepath.Join(dir, "missing.bin"))
	require.Error(t, err)
}

func TestRunningAverage(t *testing.T) {
	avg := RunningAverage([]float64{1, 3, 5, 7}, 2)
	require.InDeltaSlice(t, []float64{1, 2, 4, 6}, avg, 1e-12)

	avg = RunningAverage([]float64{2, 4}, 0)
	require.InDeltaSlice(t, []float64{2, 4}, avg, 1e-12)

	require.Empty(t, RunningAverage(nil, 3))
}
