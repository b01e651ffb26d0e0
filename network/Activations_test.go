package network

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestActivationJSON(t *testing.T) {
	data, err := json.Marshal([]*Activation{TanH(), ReLU(), Identity()})
	require.NoError(t, err)
	require.JSONEq(t, `["tanh", "relu", "identity"]`, string(data))

	var acts []*Activation
	require.NoError(t, json.Unmarshal(data, &acts))
	require.Equal(t, "tanh", acts[0].String())
	require.True(t, acts[2].IsIdentity())

	require.Error(t, json.Unmarshal([]byte(`["sigmoid"]`), &acts))
}
