package analysis

import (
	"math"

	"github.com/san-kum/neurodyn/internal/neuron"
)

// FixedPoint is a candidate equilibrium of the cell model. Residual is the
// nullcline discrepancy |w_V(V*) - w_inf(V*)| at the candidate; Converged
// reports whether it met the search tolerance. An unconverged result is a
// valid outcome ("no acceptable equilibrium in this window"), not an error.
type FixedPoint struct {
	V         float64
	W         float64
	Residual  float64
	Converged bool
}

// LocateOptions configures the fixed-point search window.
type LocateOptions struct {
	VMin      float64
	VMax      float64
	Step      float64
	Tolerance float64
}

func DefaultLocateOptions() LocateOptions {
	return LocateOptions{
		VMin:      -80,
		VMax:      0,
		Step:      0.1,
		Tolerance: 1e-4,
	}
}

// LocateFixedPoint searches the voltage window for the intersection of the
// V- and w-nullclines. The scalar residual w_V(V) - w_inf(V) is scanned on
// a uniform grid; a sign change between neighboring grid points is refined
// by bisection. Without a sign change the best grid candidate is returned
// flagged unconverged.
//
// The model is assumed to carry at most one biologically relevant
// equilibrium in the window; when several residual roots exist the most
// hyperpolarized one is returned.
//
// Voltages within a guard band of E_K are skipped: the V-nullcline is
// singular there.
func LocateFixedPoint(cell *neuron.Cell, stim float64, opts LocateOptions) FixedPoint {
	if opts.Step <= 0 {
		opts = DefaultLocateOptions()
	}

	residual := func(v float64) float64 {
		return cell.VNullclineW(v, stim) - cell.WNullclineW(v)
	}

	const singularGuard = 1e-6
	ek := cell.P.EK

	best := FixedPoint{Residual: math.Inf(1)}
	prevV := math.NaN()
	prevR := math.NaN()

	steps := int((opts.VMax-opts.VMin)/opts.Step + 0.5)
	for k := 0; k <= steps; k++ {
		v := opts.VMin + float64(k)*opts.Step
		if v > opts.VMax {
			v = opts.VMax
		}
		if math.Abs(v-ek) < singularGuard {
			prevV, prevR = math.NaN(), math.NaN()
			continue
		}

		r := residual(v)

		if math.Abs(r) < best.Residual {
			best = FixedPoint{V: v, W: cell.WNullclineW(v), Residual: math.Abs(r)}
		}

		// Bracketed root: refine and return the first (most negative V).
		if !math.IsNaN(prevR) && prevR*r < 0 {
			root := bisectResidual(residual, prevV, v)
			w := cell.WNullclineW(root)
			res := math.Abs(residual(root))
			return FixedPoint{
				V:         root,
				W:         w,
				Residual:  res,
				Converged: res <= opts.Tolerance,
			}
		}

		prevV, prevR = v, r
	}

	best.Converged = best.Residual <= opts.Tolerance
	return best
}

func bisectResidual(f func(float64) float64, lo, hi float64) float64 {
	flo := f(lo)
	for iter := 0; iter < 80 && hi-lo > 1e-12; iter++ {
		mid := 0.5 * (lo + hi)
		fmid := f(mid)
		if fmid == 0 {
			return mid
		}
		if flo*fmid < 0 {
			hi = mid
		} else {
			lo = mid
			flo = fmid
		}
	}
	return 0.5 * (lo + hi)
}
