package neuron

import "math"

// Voltage-dependent gating kinetics. All functions are pure and take the
// parameter bundle explicitly so alternate parameter sets can be evaluated
// concurrently without shared state.

// MInf is the steady-state activation of the fast inward current:
// 0.5*(1+tanh((V-BM)/CM)). Strictly increasing, range (0, 1).
func MInf(p ModelParameters, v float64) float64 {
	return 0.5 * (1 + math.Tanh((v-p.BM)/p.CM))
}

// WInf is the steady-state activation of the slow outward current.
func WInf(p ModelParameters, v float64) float64 {
	return 0.5 * (1 + math.Tanh((v-p.BW)/p.CW))
}

// TauW is the voltage-dependent recovery time constant,
// 1/cosh((V-BW)/(2*CW)). Bell-shaped with its maximum at V=BW; cosh >= 1
// keeps it strictly positive for all finite V.
func TauW(p ModelParameters, v float64) float64 {
	return 1 / math.Cosh((v-p.BW)/(2*p.CW))
}

// MInfPrime is dMInf/dV = 0.5/CM * (1 - tanh^2((V-BM)/CM)).
func MInfPrime(p ModelParameters, v float64) float64 {
	th := math.Tanh((v - p.BM) / p.CM)
	return 0.5 / p.CM * (1 - th*th)
}

// WInfPrime is dWInf/dV.
func WInfPrime(p ModelParameters, v float64) float64 {
	th := math.Tanh((v - p.BW) / p.CW)
	return 0.5 / p.CW * (1 - th*th)
}

// TauWPrime is dTauW/dV = -TauW(V)*tanh((V-BW)/(2*CW))/(2*CW).
func TauWPrime(p ModelParameters, v float64) float64 {
	u := (v - p.BW) / (2 * p.CW)
	return -TauW(p, v) * math.Tanh(u) / (2 * p.CW)
}
