package initwfn

import G "gorgonia.org/gorgonia"

// Constant initializers set every weight to the same value. Zero
// weights are mostly useful for output layers and tests, since hidden
// units initialized identically never break symmetry.

// ZeroesConfig configures an initializer setting all weights to 0
type ZeroesConfig struct{}

// OnesConfig configures an initializer setting all weights to 1
type OnesConfig struct{}

// ConstantConfig configures an initializer setting all weights to Value
type ConstantConfig struct{ Value float64 }

// NewZeroes returns a new zero weight initializer
func NewZeroes() (*InitWFn, error) { return newInitWFn(ZeroesConfig{}) }

// NewOnes returns a new unit weight initializer
func NewOnes() (*InitWFn, error) { return newInitWFn(OnesConfig{}) }

// NewConstant returns a weight initializer setting every weight to value
func NewConstant(value float64) (*InitWFn, error) {
	return newInitWFn(ConstantConfig{value})
}

func (z ZeroesConfig) Type() Type        { return Zeroes }
func (z ZeroesConfig) Create() G.InitWFn { return G.Zeroes() }

func (o OnesConfig) Type() Type        { return Ones }
func (o OnesConfig) Create() G.InitWFn { return G.Ones() }

func (c ConstantConfig) Type() Type        { return Constant }
func (c ConstantConfig) Create() G.InitWFn { return G.ValuesOf(c.Value) }
