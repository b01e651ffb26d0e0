package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/samuelfneumann/godqn/environment/envconfig"
	"github.com/stretchr/testify/require"
)

func TestConfigRoundTrip(t *testing.T) {
	c, err := DefaultRunConfig()
	require.NoError(t, err)
	require.NoError(t, c.Validate())

	var out bytes.Buffer
	cmd := ConfigCommand()
	cmd.SetOut(&out)
	cmd.SetArgs([]string{})
	require.NoError(t, cmd.Execute())

	filename := filepath.Join(t.TempDir(), "config.json")
	require.NoError(t, os.WriteFile(filename, out.Bytes(), 0o644))

	loaded, err := LoadRunConfig(filename)
	require.NoError(t, err)
	require.NoError(t, loaded.Validate())
	require.Equal(t, c.Agent.Hidden, loaded.Agent.Hidden)
	require.Equal(t, c.Agent.Gamma, loaded.Agent.Gamma)
	require.Equal(t, c.Experiment.Schedule, loaded.Experiment.Schedule)
	require.Equal(t, *c.Experiment.TerminalPenalty,
		*loaded.Experiment.TerminalPenalty)
}

func TestLoadRunConfigPartial(t *testing.T) {
	filename := filepath.Join(t.TempDir(), "config.json")
	data, err := json.Marshal(map[string]interface{}{
		"Experiment": map[string]interface{}{"Episodes": 7},
	})
	require.NoError(t, err)
	require.NoError(t, os.WriteFile(filename, data, 0o644))

	c, err := LoadRunConfig(filename)
	require.NoError(t, err)
	require.Equal(t, 7, c.Experiment.Episodes)
	require.Equal(t, 25, c.Experiment.SyncPeriod)
	require.Equal(t, envconfig.Cartpole, c.Environment.Environment)
}

func TestTrainFlagsOverride(t *testing.T) {
	cmd := TrainCommand()
	require.NoError(t, cmd.Flags().Parse([]string{
		"--env", "MountainCar", "--gamma", "0.9", "--hidden", "8,4",
		"--no-penalty", "--episodes", "3",
	}))

	c, err := DefaultRunConfig()
	require.NoError(t, err)

	var f trainFlags
	f.environment, _ = cmd.Flags().GetString("env")
	f.gamma, _ = cmd.Flags().GetFloat64("gamma")
	f.hidden, _ = cmd.Flags().GetIntSlice("hidden")
	f.noPenalty, _ = cmd.Flags().GetBool("no-penalty")
	f.episodes, _ = cmd.Flags().GetInt("episodes")
	require.NoError(t, f.apply(cmd.Flags(), &c))

	require.Equal(t, envconfig.MountainCar, c.Environment.Environment)
	require.Equal(t, envconfig.Goal, c.Environment.Task)
	require.Equal(t, 0.9, c.Agent.Gamma)
	require.Equal(t, []int{8, 4}, c.Agent.Hidden)
	require.Len(t, c.Agent.Activations, 2)
	require.Nil(t, c.Experiment.TerminalPenalty)
	require.Equal(t, 3, c.Experiment.Episodes)
	require.Equal(t, 32, c.Agent.BatchSize)
	require.NoError(t, c.Validate())
}
