package analysis

import (
	"math"
	"testing"

	"github.com/san-kum/neurodyn/internal/neuron"
)

func TestEigen2x2(t *testing.T) {
	tests := []struct {
		name string
		j    [2][2]float64
		want [2]complex128
	}{
		{"diagonal", [2][2]float64{{-1, 0}, {0, -2}}, [2]complex128{-1, -2}},
		{"saddle", [2][2]float64{{1, 0}, {0, -1}}, [2]complex128{1, -1}},
		{"rotation", [2][2]float64{{0, -1}, {1, 0}}, [2]complex128{complex(0, 1), complex(0, -1)}},
		{"spiral", [2][2]float64{{-1, -1}, {1, -1}}, [2]complex128{complex(-1, 1), complex(-1, -1)}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := eigen2x2(tt.j)
			for i := 0; i < 2; i++ {
				if math.Abs(real(got[i])-real(tt.want[i])) > 1e-12 ||
					math.Abs(imag(got[i])-imag(tt.want[i])) > 1e-12 {
					t.Errorf("eigenvalue %d = %v, want %v", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestClassify(t *testing.T) {
	tests := []struct {
		name string
		eigs [2]complex128
		want Stability
	}{
		{"stable node", [2]complex128{-1, -2}, Stable},
		{"stable spiral", [2]complex128{complex(-0.5, 2), complex(-0.5, -2)}, Stable},
		{"unstable node", [2]complex128{1, 2}, Unstable},
		{"unstable spiral", [2]complex128{complex(0.5, 2), complex(0.5, -2)}, Unstable},
		{"saddle", [2]complex128{-1, 2}, Saddle},
		{"center", [2]complex128{complex(0, 1), complex(0, -1)}, Indeterminate},
		{"nan", [2]complex128{complex(math.NaN(), 0), 0}, Indeterminate},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := classify(tt.eigs); got != tt.want {
				t.Errorf("classify = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestClassifyStabilityAcrossOnset(t *testing.T) {
	cell := neuron.NewCell(neuron.Class2Parameters())

	// Below onset the equilibrium is attracting; well above it the
	// equilibrium persists but repels onto the limit cycle.
	low := ClassifyStability(cell, LocateFixedPoint(cell, 30, DefaultLocateOptions()), 30)
	if low.Label != Stable {
		t.Errorf("expected stable equilibrium at I=30, got %v", low.Label)
	}

	high := ClassifyStability(cell, LocateFixedPoint(cell, 60, DefaultLocateOptions()), 60)
	if high.Label != Unstable {
		t.Errorf("expected unstable equilibrium at I=60, got %v", high.Label)
	}
}

func TestClassifyStabilityUnconverged(t *testing.T) {
	cell := neuron.NewCell(neuron.Class2Parameters())

	report := ClassifyStability(cell, FixedPoint{V: -50, W: 0.1, Residual: 1, Converged: false}, 40)

	if report.Label != Indeterminate {
		t.Errorf("expected indeterminate label, got %v", report.Label)
	}
	if !math.IsNaN(real(report.Eigenvalues[0])) {
		t.Error("expected NaN eigenvalues for unconverged point")
	}
	if !math.IsNaN(report.Jacobian[0][0]) {
		t.Error("expected NaN jacobian for unconverged point")
	}
}

func TestStabilityString(t *testing.T) {
	tests := []struct {
		s    Stability
		want string
	}{
		{Stable, "stable"},
		{Unstable, "unstable"},
		{Saddle, "saddle"},
		{Indeterminate, "indeterminate"},
	}
	for _, tt := range tests {
		if tt.s.String() != tt.want {
			t.Errorf("String() = %q, want %q", tt.s.String(), tt.want)
		}
	}
}
