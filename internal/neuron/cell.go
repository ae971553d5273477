package neuron

import (
	"fmt"

	"github.com/san-kum/neurodyn/internal/dynamo"
)

// State vector layout for the cell model.
const (
	IdxV = 0 // membrane voltage (mV)
	IdxW = 1 // slow-current activation fraction
)

// Cell is the two-variable conductance model as a dynamo.System. The
// applied stimulus current rides in as the single control entry. This is
// the only place the membrane equations are written down; every analysis
// references it (or its analytic Jacobian) rather than re-deriving them.
//
//	dV/dt = (I - g_fast*m_inf(V)*(V-E_Na) - g_slow*w*(V-E_K) - g_leak*(V-E_leak)) / C
//	dw/dt = phi_w * (w_inf(V) - w) / tau_w(V)
type Cell struct {
	P ModelParameters
}

func NewCell(p ModelParameters) *Cell {
	return &Cell{P: p}
}

func (c *Cell) StateDim() int   { return 2 }
func (c *Cell) ControlDim() int { return 1 }

func (c *Cell) Derive(x dynamo.State, u dynamo.Control, _ float64) dynamo.State {
	v, w := x[IdxV], x[IdxW]
	i := stimulus(u)

	dv := (i - c.P.GFast*MInf(c.P, v)*(v-c.P.ENa) - c.P.GSlow*w*(v-c.P.EK) - c.P.GLeak*(v-c.P.ELeak)) / c.P.C
	dw := c.P.PhiW * (WInf(c.P, v) - w) / TauW(c.P, v)

	return dynamo.State{dv, dw}
}

// Jacobian evaluates the analytic Jacobian of the vector field at x.
func (c *Cell) Jacobian(x dynamo.State, u dynamo.Control, _ float64) [][]float64 {
	v, w := x[IdxV], x[IdxW]
	p := c.P

	tau := TauW(p, v)

	dvdv := (-p.GFast*(v-p.ENa)*MInfPrime(p, v) - p.GFast*MInf(p, v) - p.GLeak) / p.C
	dvdw := -p.GSlow * (v - p.EK) / p.C
	dwdv := p.PhiW * (WInfPrime(p, v)/tau - (WInf(p, v)-w)*TauWPrime(p, v)/(tau*tau))
	dwdw := -p.PhiW / tau

	_ = u
	return [][]float64{
		{dvdv, dvdw},
		{dwdv, dwdw},
	}
}

// VNullclineW solves dV/dt = 0 for w at the given voltage and stimulus.
// Singular at V = E_K; callers must skip voltages there.
func (c *Cell) VNullclineW(v, i float64) float64 {
	p := c.P
	return (i - p.GFast*MInf(p, v)*(v-p.ENa) - p.GLeak*(v-p.ELeak)) / (p.GSlow * (v - p.EK))
}

// WNullclineW solves dw/dt = 0 for w, which is simply the steady-state
// activation.
func (c *Cell) WNullclineW(v float64) float64 {
	return WInf(c.P, v)
}

// RestingState is a conventional hyperpolarized start point for runs.
func (c *Cell) RestingState() dynamo.State {
	return dynamo.State{-70, 0}
}

// GetParams implements dynamo.Configurable.
func (c *Cell) GetParams() map[string]float64 {
	return map[string]float64{
		"b_w":    c.P.BW,
		"c_w":    c.P.CW,
		"b_m":    c.P.BM,
		"c_m":    c.P.CM,
		"phi_w":  c.P.PhiW,
		"g_fast": c.P.GFast,
		"g_slow": c.P.GSlow,
		"g_leak": c.P.GLeak,
	}
}

// SetParam implements dynamo.Configurable.
func (c *Cell) SetParam(name string, value float64) error {
	switch name {
	case "b_w":
		c.P.BW = value
	case "c_w":
		c.P.CW = value
	case "b_m":
		c.P.BM = value
	case "c_m":
		c.P.CM = value
	case "phi_w":
		c.P.PhiW = value
	case "g_fast":
		c.P.GFast = value
	case "g_slow":
		c.P.GSlow = value
	case "g_leak":
		c.P.GLeak = value
	default:
		return fmt.Errorf("neuron: unknown parameter %q", name)
	}
	return nil
}

func stimulus(u dynamo.Control) float64 {
	if len(u) > 0 {
		return u[0]
	}
	return 0
}
