package neuron

import "fmt"

// ModelParameters bundles the constants of the two-variable conductance
// model: reversal potentials (mV), maximal conductances (mS/cm^2),
// capacitance (uF/cm^2), gating midpoints/slopes (mV), and the recovery
// rate scale PhiW. Values are passed by value and never mutated; variants
// are produced with the With* helpers.
type ModelParameters struct {
	ENa   float64 `yaml:"e_na" json:"e_na"`
	EK    float64 `yaml:"e_k" json:"e_k"`
	ELeak float64 `yaml:"e_leak" json:"e_leak"`
	GFast float64 `yaml:"g_fast" json:"g_fast"`
	GSlow float64 `yaml:"g_slow" json:"g_slow"`
	GLeak float64 `yaml:"g_leak" json:"g_leak"`
	C     float64 `yaml:"c" json:"c"`
	BM    float64 `yaml:"b_m" json:"b_m"`
	CM    float64 `yaml:"c_m" json:"c_m"`
	BW    float64 `yaml:"b_w" json:"b_w"`
	CW    float64 `yaml:"c_w" json:"c_w"`
	PhiW  float64 `yaml:"phi_w" json:"phi_w"`
}

// DefaultParameters returns the class 2 parameter set, the model's
// canonical configuration.
func DefaultParameters() ModelParameters {
	return ModelParameters{
		ENa:   50,
		EK:    -100,
		ELeak: -70,
		GFast: 20,
		GSlow: 20,
		GLeak: 2,
		C:     2,
		BM:    -1.2,
		CM:    18,
		BW:    -13,
		CW:    10,
		PhiW:  0.15,
	}
}

// Class1Parameters: high BW, spiking onset via equilibrium loss (SNIC),
// continuous f-I curve from arbitrarily low rates.
func Class1Parameters() ModelParameters {
	p := DefaultParameters()
	p.BW = 0
	return p
}

// Class2Parameters: the default set. Spiking onset via a subcritical Hopf
// with a discontinuous jump to a nonzero minimum rate.
func Class2Parameters() ModelParameters {
	return DefaultParameters()
}

// Class3Parameters: low BW, transient single-spike responses without
// sustained repetitive firing in the physiological stimulus range.
func Class3Parameters() ModelParameters {
	p := DefaultParameters()
	p.BW = -21
	return p
}

// WithBW returns a copy with the recovery midpoint replaced.
func (p ModelParameters) WithBW(bw float64) ModelParameters {
	p.BW = bw
	return p
}

// WithPhiW returns a copy with the recovery rate scale replaced.
func (p ModelParameters) WithPhiW(phi float64) ModelParameters {
	p.PhiW = phi
	return p
}

// Validate checks the invariants the equations rely on: conductances and
// capacitance strictly positive, slope constants nonzero (they appear as
// divisors).
func (p ModelParameters) Validate() error {
	switch {
	case p.GFast <= 0 || p.GSlow <= 0 || p.GLeak <= 0:
		return fmt.Errorf("neuron: conductances must be positive (g_fast=%g g_slow=%g g_leak=%g)", p.GFast, p.GSlow, p.GLeak)
	case p.C <= 0:
		return fmt.Errorf("neuron: capacitance must be positive, got %g", p.C)
	case p.CM == 0 || p.CW == 0:
		return fmt.Errorf("neuron: slope constants must be nonzero (c_m=%g c_w=%g)", p.CM, p.CW)
	}
	return nil
}
