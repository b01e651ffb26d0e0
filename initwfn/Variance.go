package initwfn

import G "gorgonia.org/gorgonia"

// Variance scaling initializers. Each one draws weights with a variance
// that depends on the fan-in (He) or on the fan-in and fan-out (Glorot)
// of the layer, multiplied by Gain.

// GlorotUConfig configures Glorot uniform initialization
type GlorotUConfig struct{ Gain float64 }

// GlorotNConfig configures Glorot normal initialization
type GlorotNConfig struct{ Gain float64 }

// HeUConfig configures He uniform initialization
type HeUConfig struct{ Gain float64 }

// HeNConfig configures He normal initialization
type HeNConfig struct{ Gain float64 }

// NewGlorotU returns a new Glorot uniform weight initializer
func NewGlorotU(gain float64) (*InitWFn, error) {
	return newInitWFn(GlorotUConfig{gain})
}

// NewGlorotN returns a new Glorot normal weight initializer
func NewGlorotN(gain float64) (*InitWFn, error) {
	return newInitWFn(GlorotNConfig{gain})
}

// NewHeU returns a new He uniform weight initializer
func NewHeU(gain float64) (*InitWFn, error) {
	return newInitWFn(HeUConfig{gain})
}

// NewHeN returns a new He normal weight initializer
func NewHeN(gain float64) (*InitWFn, error) {
	return newInitWFn(HeNConfig{gain})
}

func (g GlorotUConfig) Type() Type        { return GlorotU }
func (g GlorotUConfig) Create() G.InitWFn { return G.GlorotU(g.Gain) }

func (g GlorotNConfig) Type() Type        { return GlorotN }
func (g GlorotNConfig) Create() G.InitWFn { return G.GlorotN(g.Gain) }

func (h HeUConfig) Type() Type        { return HeU }
func (h HeUConfig) Create() G.InitWFn { return G.HeU(h.Gain) }

func (h HeNConfig) Type() Type        { return HeN }
func (h HeNConfig) Create() G.InitWFn { return G.HeN(h.Gain) }
