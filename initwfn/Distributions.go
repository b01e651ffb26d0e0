package initwfn

import G "gorgonia.org/gorgonia"

// GaussianConfig configures an initializer drawing weights from
// N(Mean, StdDev²)
type GaussianConfig struct {
	Mean, StdDev float64
}

// UniformConfig configures an initializer drawing weights from
// U[Low, High)
type UniformConfig struct {
	Low, High float64
}

// NewGaussian returns a new gaussian weight initializer
func NewGaussian(mean, stddev float64) (*InitWFn, error) {
	return newInitWFn(GaussianConfig{Mean: mean, StdDev: stddev})
}

// NewDefaultGaussian returns the N(0, 0.05²) weight initializer used by
// default for value networks
func NewDefaultGaussian() (*InitWFn, error) {
	return NewGaussian(0, 0.05)
}

// NewUniform returns a new uniform weight initializer
func NewUniform(low, high float64) (*InitWFn, error) {
	return newInitWFn(UniformConfig{Low: low, High: high})
}

func (g GaussianConfig) Type() Type        { return Gaussian }
func (g GaussianConfig) Create() G.InitWFn { return G.Gaussian(g.Mean, g.StdDev) }

func (u UniformConfig) Type() Type        { return Uniform }
func (u UniformConfig) Create() G.InitWFn { return G.Uniform(u.Low, u.High) }
