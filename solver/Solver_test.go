package solver

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnmarshalJSON(t *testing.T) {
	adam, err := NewDefaultAdam(1e-3, 1)
	require.NoError(t, err)

	data, err := json.Marshal(adam)
	require.NoError(t, err)

	var s Solver
	require.NoError(t, json.Unmarshal(data, &s))
	require.Equal(t, Adam, s.Type)
	require.Equal(t, adam.Config, s.Config)
	require.NotNil(t, s.Solver)
}

func TestUnmarshalValidates(t *testing.T) {
	cases := []string{
		`{"Type": "SGD", "Config": {"StepSize": 0.1}}`,
		`{"Config": {"StepSize": 0.1}}`,
		`{"Type": "Adam", "Config": {"StepSize": -1, "Batch": 1}}`,
		`{"Type": "RMSProp", "Config": {"StepSize": 0.1, "Batch": 0}}`,
	}
	for _, c := range cases {
		var s Solver
		require.Error(t, json.Unmarshal([]byte(c), &s), c)
	}
}

func TestConstructorsValidate(t *testing.T) {
	_, err := NewAdam(0.1, 1e-7, 1.0, 0.999, 1)
	require.Error(t, err)

	_, err = NewVanilla(0, 1, 0)
	require.Error(t, err)

	_, err = NewDefaultRMSProp(0.01, 1)
	require.NoError(t, err)
}
