package plot

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestRewards(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "rewards.png")
	require.NoError(t, Rewards([]float64{-10, -5, 3, 8, 12}, 2, filename))

	info, err := os.Stat(filename)
	require.NoError(t, err)
	require.Greater(t, info.Size(), int64(0))

	require.Error(t, Rewards(nil, 2, filename))
}
