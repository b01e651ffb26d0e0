package checkpointer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

type bytesEncoder []byte

func (b bytesEncoder) GobEncode() ([]byte, error) {
	return b, nil
}

func TestFilenameEnumerator(t *testing.T) {
	next := FilenameEnumerator(0, "weights", ".bin")
	require.Equal(t, "weights1.bin", next())
	require.Equal(t, "weights2.bin", next())
}

func TestNEpisode(t *testing.T) {
	dir := t.TempDir()
	c, err := NewNEpisode(2, bytesEncoder("data"),
		FilenameEnumerator(0, filepath.Join(dir, "ckpt"), ".bin"))
	require.NoError(t, err)

	for episode := 1; episode <= 5; episode++ {
		require.NoError(t, c.Checkpoint(episode))
	}

	files, err := filepath.Glob(filepath.Join(dir, "ckpt*.bin"))
	require.NoError(t, err)
	require.Len(t, files, 2)

	data, err := os.ReadFile(filepath.Join(dir, "ckpt1.bin"))
	require.NoError(t, err)
	require.Equal(t, "data", string(data))

	_, err = NewNEpisode(0, bytesEncoder(nil), nil)
	require.Error(t, err)
}
