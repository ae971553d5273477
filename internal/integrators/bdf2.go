package integrators

import (
	"math"

	"github.com/san-kum/neurodyn/internal/dynamo"
)

// BDF2 is an implicit two-step backward-differentiation scheme with a
// damped Newton corrector. A-stable, so the step size is set by accuracy
// rather than by the fast membrane timescale; this is the default solver
// for the stiff fast/slow split of the cell model.
//
// The first step of a run (and any step whose start time does not continue
// the previous one) falls back to backward Euler. Variable step sizes are
// handled with the variable-coefficient BDF2 formula. When the corrector
// cannot converge at the requested step (spike upstrokes at a coarse dt)
// the interval is resolved in halved substeps and only the final substate
// is returned, so callers keep their requested grid.
//
// Not thread-safe: the instance carries one run's step history.
type BDF2 struct {
	newtonTol float64
	maxNewton int
	fdEps     float64
	maxHalve  int

	hasPrev bool
	xPrev   dynamo.State // state one step back from the current start
	tPrev   float64
	tCur    float64 // end time of the last accepted step
}

func NewBDF2() *BDF2 {
	return &BDF2{
		newtonTol: 1e-8,
		maxNewton: 12,
		fdEps:     1e-7,
		maxHalve:  10,
	}
}

func (b *BDF2) Step(sys dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) (dynamo.State, error) {
	return b.step(sys, x, u, t, dt, 0)
}

func (b *BDF2) step(sys dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64, depth int) (dynamo.State, error) {
	n := len(x)

	continuing := b.hasPrev && math.Abs(t-b.tCur) <= 1e-9*(1+math.Abs(t))

	var beta float64
	rhs := make(dynamo.State, n)

	if continuing {
		hPrev := t - b.tPrev
		rho := dt / hPrev
		d := 1 + 2*rho
		beta = (1 + rho) / d
		cn := (1 + rho) * (1 + rho) / d
		cp := -rho * rho / d
		for i := 0; i < n; i++ {
			rhs[i] = cn*x[i] + cp*b.xPrev[i]
		}
	} else {
		// Backward Euler startup.
		beta = 1
		copy(rhs, x)
	}

	next, err := b.newtonSolve(sys, x, u, t+dt, beta*dt, rhs)
	if err != nil {
		if depth >= b.maxHalve {
			return nil, err
		}
		half := 0.5 * dt
		mid, err := b.step(sys, x, u, t, half, depth+1)
		if err != nil {
			return nil, err
		}
		return b.step(sys, mid, u, t+half, half, depth+1)
	}

	b.xPrev = x.Clone()
	b.tPrev = t
	b.tCur = t + dt
	b.hasPrev = true

	return next, nil
}

// newtonSolve finds y with y - gamma*f(y, tNew) = rhs. Each update is
// damped: the correction is backed off until the residual actually
// shrinks, which keeps the iteration from overshooting on the steep
// voltage upstroke.
func (b *BDF2) newtonSolve(sys dynamo.System, x dynamo.State, u dynamo.Control, tNew, gamma float64, rhs dynamo.State) (dynamo.State, error) {
	n := len(x)

	residual := func(y dynamo.State) ([]float64, float64) {
		f := sys.Derive(y, u, tNew)
		g := make([]float64, n)
		norm := 0.0
		for i := 0; i < n; i++ {
			g[i] = y[i] - gamma*f[i] - rhs[i]
			norm = math.Max(norm, math.Abs(g[i]))
		}
		return g, norm
	}

	// Explicit-Euler predictor.
	f0 := sys.Derive(x, u, tNew)
	y := make(dynamo.State, n)
	for i := 0; i < n; i++ {
		y[i] = x[i] + gamma*f0[i]
	}

	g, gNorm := residual(y)
	for iter := 0; iter < b.maxNewton; iter++ {
		if gNorm <= b.newtonTol*(1+y.Norm()) {
			return y, nil
		}

		f := sys.Derive(y, u, tNew)
		jf := b.jacobian(sys, y, u, tNew, f)
		a := make([][]float64, n)
		for i := 0; i < n; i++ {
			a[i] = make([]float64, n)
			for j := 0; j < n; j++ {
				a[i][j] = -gamma * jf[i][j]
			}
			a[i][i] += 1
		}

		delta, ok := solveLinear(a, g)
		if !ok {
			return nil, dynamo.ErrNewtonDiverged
		}

		accepted := false
		lambda := 1.0
		for k := 0; k < 6; k++ {
			trial := make(dynamo.State, n)
			for i := 0; i < n; i++ {
				trial[i] = y[i] - lambda*delta[i]
			}
			if trial.IsValid() {
				tg, tNorm := residual(trial)
				if tNorm < gNorm {
					y, g, gNorm = trial, tg, tNorm
					accepted = true
					break
				}
			}
			lambda *= 0.5
		}
		if !accepted {
			return nil, dynamo.ErrNewtonDiverged
		}
	}

	if gNorm <= b.newtonTol*(1+y.Norm()) {
		return y, nil
	}
	return nil, dynamo.ErrNewtonDiverged
}

func (b *BDF2) jacobian(sys dynamo.System, y dynamo.State, u dynamo.Control, t float64, f dynamo.State) [][]float64 {
	if j, ok := sys.(dynamo.Jacobian); ok {
		return j.Jacobian(y, u, t)
	}

	// Forward-difference fallback for systems without an analytic Jacobian.
	n := len(y)
	jf := make([][]float64, n)
	for i := range jf {
		jf[i] = make([]float64, n)
	}
	for col := 0; col < n; col++ {
		h := b.fdEps * (1 + math.Abs(y[col]))
		yp := y.Clone()
		yp[col] += h
		fp := sys.Derive(yp, u, t)
		for row := 0; row < n; row++ {
			jf[row][col] = (fp[row] - f[row]) / h
		}
	}
	return jf
}

// solveLinear solves a*x = rhs in place with partial pivoting. Returns
// false for a numerically singular matrix.
func solveLinear(a [][]float64, rhs []float64) ([]float64, bool) {
	n := len(rhs)
	x := make([]float64, n)
	copy(x, rhs)

	for col := 0; col < n; col++ {
		pivot := col
		for row := col + 1; row < n; row++ {
			if math.Abs(a[row][col]) > math.Abs(a[pivot][col]) {
				pivot = row
			}
		}
		if math.Abs(a[pivot][col]) < 1e-300 {
			return nil, false
		}
		a[col], a[pivot] = a[pivot], a[col]
		x[col], x[pivot] = x[pivot], x[col]

		inv := 1 / a[col][col]
		for row := col + 1; row < n; row++ {
			factor := a[row][col] * inv
			if factor == 0 {
				continue
			}
			for k := col; k < n; k++ {
				a[row][k] -= factor * a[col][k]
			}
			x[row] -= factor * x[col]
		}
	}

	for row := n - 1; row >= 0; row-- {
		sum := x[row]
		for k := row + 1; k < n; k++ {
			sum -= a[row][k] * x[k]
		}
		x[row] = sum / a[row][row]
	}
	return x, true
}
