// Package neuron defines the two-variable conductance-based membrane model
// analyzed by this repository: a fast inward current with instantaneous
// sigmoidal activation and a slow outward recovery current.
//
// The model is exposed as [Cell], a [dynamo.System] with an analytic
// Jacobian, plus the pure gating kinetics ([MInf], [WInf], [TauW]) and
// nullcline helpers the fixed-point search builds on.
//
// The three excitability classes differ only in the recovery midpoint BW:
//
//	Class 1  BW =   0   continuous f-I onset (SNIC)
//	Class 2  BW = -13   discontinuous f-I onset (subcritical Hopf)
//	Class 3  BW = -21   single transient spike, no repetitive firing
package neuron
