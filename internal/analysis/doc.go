// Package analysis is the excitability analysis engine for the
// two-variable cell model.
//
//   - [LocateFixedPoint]: nullcline-intersection search over a voltage grid
//   - [ClassifyStability]: analytic Jacobian + eigenvalue classification
//   - [AnalyzeOscillation]: spike detection, firing frequency, cycle extrema
//   - [SweepBifurcation]: the stimulus-sweep orchestrator with transition
//     detection
//
// Every operation is a pure function of its explicit inputs; nothing is
// cached between calls, so parameter variants can be analyzed concurrently.
//
// # Outcomes vs. errors
//
// "No equilibrium in the window" and "no sustained spiking" are ordinary
// results (an unconverged [FixedPoint], a zero [Oscillation.Frequency]).
// Only integration failures are errors, and within a sweep they degrade
// the affected row to indeterminate instead of aborting the run.
package analysis
