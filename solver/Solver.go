// Package solver wraps Gorgonia Solvers so that the optimiser used to
// train a value approximator can be described in a JSON configuration
// file and rebuilt from it.
package solver

import (
	"encoding/json"
	"fmt"
	"reflect"

	G "gorgonia.org/gorgonia"
)

// Type describes different types of solvers that are available
type Type string

// Available solver types
const (
	Adam    Type = "Adam"
	Vanilla Type = "Vanilla"
	RMSProp Type = "RMSProp"
)

// registered maps each solver Type to the concrete Config that
// describes it
var registered = map[string]reflect.Type{
	string(Adam):    reflect.TypeOf(AdamConfig{}),
	string(Vanilla): reflect.TypeOf(VanillaConfig{}),
	string(RMSProp): reflect.TypeOf(RMSPropConfig{}),
}

// Solver wraps Gorgonia Solvers so that they can be JSON marshalled and
// unmarshalled. The embedded Gorgonia Solver is rebuilt from Config
// whenever the Solver is unmarshalled.
type Solver struct {
	G.Solver `json:"-"`
	Type
	Config
}

// newSolver returns a new solver with the given type and configuration.
func newSolver(t Type, c Config) (*Solver, error) {
	if !c.ValidType(t) {
		return nil, fmt.Errorf("newSolver: invalid solver type %v for "+
			"configuration %T", t, c)
	}
	if err := c.Validate(); err != nil {
		return nil, fmt.Errorf("newSolver: %w", err)
	}
	solver := Solver{Type: t, Config: c}
	solver.Solver = solver.Config.Create()

	return &solver, nil
}

// Reset rebuilds the underlying Gorgonia Solver, discarding any
// accumulated moment estimates.
func (s *Solver) Reset() {
	s.Solver = s.Config.Create()
}

// UnmarshalJSON implements the json.Unmarshaller interface
func (s *Solver) UnmarshalJSON(data []byte) error {
	config, typeName, err := unmarshalConfig(data, "Type", "Config",
		registered)
	if err != nil {
		return fmt.Errorf("unmarshalJSON: %w", err)
	}
	if !config.ValidType(typeName) {
		return fmt.Errorf("unmarshalJSON: invalid solver type %v for "+
			"configuration %T", typeName, config)
	}
	if err := config.Validate(); err != nil {
		return fmt.Errorf("unmarshalJSON: %w", err)
	}

	s.Type = typeName
	s.Config = config
	s.Solver = s.Config.Create()

	return nil
}

// unmarshalConfig uses reflection to unmarshall a Config into its
// concrete type. Both the Config and its Type are returned.
func unmarshalConfig(data []byte, typeJsonField, valueJsonField string,
	customTypes map[string]reflect.Type) (Config, Type, error) {
	m := map[string]interface{}{}
	if err := json.Unmarshal(data, &m); err != nil {
		return nil, "", err
	}

	typeName, ok := m[typeJsonField].(string)
	if !ok {
		return nil, "", fmt.Errorf("missing solver type field %q",
			typeJsonField)
	}

	ty, found := customTypes[typeName]
	if !found {
		return nil, "", fmt.Errorf("no such solver type %v", typeName)
	}
	value := reflect.New(ty)

	valueBytes, err := json.Marshal(m[valueJsonField])
	if err != nil {
		return nil, "", err
	}

	if err = json.Unmarshal(valueBytes, value.Interface()); err != nil {
		return nil, "", err
	}

	return value.Elem().Interface().(Config), Type(typeName), nil
}

// Config implements a Gorgonia Solver configuration and can be used to
// create Gorgonia Solvers they describe.
type Config interface {
	Create() G.Solver

	// ValidType returns whether a specific Solver type can be created
	// with the Config
	ValidType(Type) bool

	// Validate returns an error if the hyperparameters are illegal
	Validate() error
}
