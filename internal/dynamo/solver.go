package dynamo

import (
	"context"
	"fmt"
	"math"
)

// Solver drives an Integrator over a time span and samples the result onto
// a caller-supplied output grid. It owns no state between calls.
type Solver struct {
	sys   System
	integ Integrator
}

func NewSolver(sys System, integ Integrator) *Solver {
	return &Solver{sys: sys, integ: integ}
}

// Run integrates from x0 over [t0, t1] and returns a Trajectory sampled at
// the requested grid times (ascending, within [t0, t1]). Sample values are
// linearly interpolated between internal steps, so the internal step size
// need not divide the grid spacing.
//
// Any failure (corrector divergence, NaN state, cancellation) is returned
// as an *IntegrationError carrying the furthest-reached time.
func (s *Solver) Run(ctx context.Context, x0 State, u Control, t0, t1 float64, grid []float64, cfg Config) (*Trajectory, error) {
	if err := s.validate(x0, t0, t1, cfg); err != nil {
		return nil, err
	}

	traj := &Trajectory{
		Times:  make([]float64, 0, len(grid)),
		States: make([]State, 0, len(grid)),
	}

	x := x0.Clone()
	t := t0
	dt := cfg.Dt
	gi := 0

	// Grid points at or before the initial time take the initial state.
	for gi < len(grid) && grid[gi] <= t0 {
		traj.Times = append(traj.Times, grid[gi])
		traj.States = append(traj.States, x0.Clone())
		gi++
	}

	adaptive, isAdaptive := s.integ.(AdaptiveIntegrator)

	for t < t1 && gi < len(grid) {
		select {
		case <-ctx.Done():
			return nil, &IntegrationError{ReachedTime: t, Wrapped: ctx.Err()}
		default:
		}

		h := dt
		if t+h > t1 {
			h = t1 - t
		}

		var (
			next    State
			stepErr error
		)
		if cfg.Adaptive && isAdaptive {
			var dtNext float64
			next, dtNext, stepErr = adaptive.StepAdaptive(s.sys, x, u, t, h, cfg.Tolerance)
			dt = math.Min(math.Max(dtNext, cfg.MinDt), cfg.MaxDt)
		} else {
			next, stepErr = s.integ.Step(s.sys, x, u, t, h)
		}
		if stepErr != nil {
			return nil, &IntegrationError{ReachedTime: t, Wrapped: stepErr}
		}
		if cfg.ValidateState && !next.IsValid() {
			return nil, &IntegrationError{ReachedTime: t, Wrapped: ErrInvalidState}
		}

		tNext := t + h
		for gi < len(grid) && grid[gi] <= tNext {
			frac := 0.0
			if h > 0 {
				frac = (grid[gi] - t) / h
			}
			sample := make(State, len(x))
			for i := range sample {
				sample[i] = x[i] + frac*(next[i]-x[i])
			}
			traj.Times = append(traj.Times, grid[gi])
			traj.States = append(traj.States, sample)
			gi++
		}

		x = next
		t = tNext
	}

	return traj, nil
}

func (s *Solver) validate(x0 State, t0, t1 float64, cfg Config) error {
	if len(x0) != s.sys.StateDim() {
		return ErrDimensionMismatch
	}
	if cfg.Dt <= 0 {
		return fmt.Errorf("dt must be positive, got %f", cfg.Dt)
	}
	if t1 <= t0 {
		return fmt.Errorf("time span must be increasing, got [%f, %f]", t0, t1)
	}
	if cfg.Adaptive && cfg.Tolerance <= 0 {
		return fmt.Errorf("tolerance must be positive for adaptive stepping")
	}
	return nil
}
