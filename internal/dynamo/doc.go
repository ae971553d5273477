// Package dynamo provides core primitives for numerical analysis of
// dynamical systems.
//
// The package defines the fundamental interfaces and types shared by the
// integrators and the analysis engine:
//
//   - [State]: system state vector
//   - [System]: ODE right-hand side (dX/dt = f(X, u, t))
//   - [Jacobian]: optional analytic Jacobian for implicit methods
//   - [Integrator]: single-step numerical scheme
//   - [Solver]: drives an integrator over a span with grid-sampled output
//   - [Trajectory]: the sampled result of one run
//
// # Failure Model
//
// A Solver run either produces a complete Trajectory or fails with an
// *[IntegrationError] carrying the furthest-reached time. Partial output is
// never returned.
//
// # Thread Safety
//
// Solver instances hold no mutable state across calls; distinct goroutines
// may run distinct Solver values concurrently as long as each has its own
// Integrator (integrators may carry scratch buffers).
package dynamo
