package initwfn

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUnmarshalJSON(t *testing.T) {
	var init InitWFn
	data := `{"Type": "Gaussian", "Config": {"Mean": 1, "StdDev": 0.5}}`
	require.NoError(t, json.Unmarshal([]byte(data), &init))
	require.Equal(t, Gaussian, init.Type)
	require.Equal(t, GaussianConfig{Mean: 1, StdDev: 0.5}, init.Config)
	require.NotNil(t, init.InitWFn())

	// Configs without fields may omit them
	require.NoError(t, json.Unmarshal([]byte(`{"Type": "Zeroes"}`), &init))
	require.Equal(t, ZeroesConfig{}, init.Config)
}

func TestMarshalRestores(t *testing.T) {
	original, err := NewConstant(0.25)
	require.NoError(t, err)

	data, err := json.Marshal(original)
	require.NoError(t, err)

	var restored InitWFn
	require.NoError(t, json.Unmarshal(data, &restored))
	require.Equal(t, original.Type, restored.Type)
	require.Equal(t, original.Config, restored.Config)
}

func TestUnmarshalErrors(t *testing.T) {
	var init InitWFn
	require.Error(t, json.Unmarshal([]byte(`{"Type": "Orthogonal"}`), &init))
	require.Error(t, json.Unmarshal([]byte(`{"Config": {}}`), &init))
}
