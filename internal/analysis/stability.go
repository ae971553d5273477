package analysis

import (
	"math"
	"math/cmplx"

	"github.com/san-kum/neurodyn/internal/dynamo"
	"github.com/san-kum/neurodyn/internal/neuron"
)

// Stability is the linearized classification of an equilibrium.
type Stability int

const (
	// Indeterminate covers "no acceptable fixed point" and marginal
	// (zero-real-part) eigenvalues.
	Indeterminate Stability = iota
	Stable
	Unstable
	Saddle
)

func (s Stability) String() string {
	switch s {
	case Stable:
		return "stable"
	case Unstable:
		return "unstable"
	case Saddle:
		return "saddle"
	default:
		return "indeterminate"
	}
}

// StabilityReport carries the fixed point, its Jacobian, the eigenvalue
// pair, and the categorical label. It is derived data: recomputed on
// demand, never cached across parameter changes.
type StabilityReport struct {
	Point       FixedPoint
	Jacobian    [2][2]float64
	Eigenvalues [2]complex128
	Label       Stability
}

// ClassifyStability evaluates the analytic Jacobian of the cell at the
// fixed point and classifies it by eigenvalue real parts: both negative =>
// Stable, both positive => Unstable, opposite signs => Saddle. Complex
// conjugate pairs (foci) follow the same real-part rule. An unconverged
// fixed point yields Indeterminate with NaN numerics.
func ClassifyStability(cell *neuron.Cell, fp FixedPoint, stim float64) StabilityReport {
	if !fp.Converged {
		nan := math.NaN()
		cnan := complex(nan, nan)
		return StabilityReport{
			Point:       fp,
			Jacobian:    [2][2]float64{{nan, nan}, {nan, nan}},
			Eigenvalues: [2]complex128{cnan, cnan},
			Label:       Indeterminate,
		}
	}

	j := cell.Jacobian(dynamo.State{fp.V, fp.W}, dynamo.Control{stim}, 0)
	jac := [2][2]float64{{j[0][0], j[0][1]}, {j[1][0], j[1][1]}}

	eigs := eigen2x2(jac)

	return StabilityReport{
		Point:       fp,
		Jacobian:    jac,
		Eigenvalues: eigs,
		Label:       classify(eigs),
	}
}

// eigen2x2 returns the eigenvalues of a 2x2 matrix via the closed-form
// trace/determinant solution.
func eigen2x2(j [2][2]float64) [2]complex128 {
	tr := j[0][0] + j[1][1]
	det := j[0][0]*j[1][1] - j[0][1]*j[1][0]
	disc := tr*tr - 4*det

	if disc >= 0 {
		s := math.Sqrt(disc)
		return [2]complex128{
			complex((tr+s)/2, 0),
			complex((tr-s)/2, 0),
		}
	}
	s := math.Sqrt(-disc)
	return [2]complex128{
		complex(tr/2, s/2),
		complex(tr/2, -s/2),
	}
}

func classify(eigs [2]complex128) Stability {
	r1 := real(eigs[0])
	r2 := real(eigs[1])

	if cmplx.IsNaN(eigs[0]) || cmplx.IsNaN(eigs[1]) {
		return Indeterminate
	}

	switch {
	case r1 < 0 && r2 < 0:
		return Stable
	case r1 > 0 && r2 > 0:
		return Unstable
	case r1*r2 < 0:
		return Saddle
	default:
		// An exactly zero real part satisfies no sign rule.
		return Indeterminate
	}
}
