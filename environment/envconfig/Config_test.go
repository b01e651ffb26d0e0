package envconfig

import (
	"encoding/json"
	"testing"

	env "github.com/samuelfneumann/godqn/environment"
	"github.com/stretchr/testify/require"
)

func TestCreate(t *testing.T) {
	cases := []struct {
		config     Config
		features   int
		numActions int
	}{
		{Config{Environment: Cartpole, Task: Balance, EpisodeCutoff: 500}, 4, 3},
		{Config{Environment: MountainCar, Task: Goal, EpisodeCutoff: 200}, 2, 3},
		{Config{Environment: Acrobot, Task: SwingUp, EpisodeCutoff: 500}, 4, 3},
		{Config{Environment: LunarLander, Task: Land, EpisodeCutoff: 1000}, 8, 4},
	}

	for _, c := range cases {
		e, first, err := c.config.Create(7)
		require.NoError(t, err)
		require.True(t, first.First())
		require.Equal(t, c.features, e.ObservationSpec().Features())

		n, err := env.NumActions(e.ActionSpec())
		require.NoError(t, err)
		require.Equal(t, c.numActions, n)
		require.NoError(t, e.Close())
	}
}

func TestValidate(t *testing.T) {
	require.Error(t, Config{Environment: Cartpole, Task: Goal,
		EpisodeCutoff: 10}.Validate())
	require.Error(t, Config{Environment: Acrobot, Task: Goal,
		EpisodeCutoff: 10}.Validate())
	require.Error(t, Config{Environment: "Pendulum", Task: SwingUp,
		EpisodeCutoff: 10}.Validate())
	require.Error(t, Config{Environment: Cartpole, Task: Balance}.Validate())
}

func TestUnmarshal(t *testing.T) {
	var c Config
	data := `{"Environment": "MountainCar", "Task": "Goal", "EpisodeCutoff": 200}`
	require.NoError(t, json.Unmarshal([]byte(data), &c))
	require.NoError(t, c.Validate())
	require.Equal(t, MountainCar, c.Environment)
}
