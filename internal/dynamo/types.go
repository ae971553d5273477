package dynamo

import "math"

// State is the instantaneous state vector of a system. For the neuron model
// the two entries are membrane voltage V (mV) and the slow-current
// activation fraction w.
type State []float64

func (s State) Clone() State {
	c := make(State, len(s))
	copy(c, s)
	return c
}

func (s State) IsValid() bool {
	for _, v := range s {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			return false
		}
	}
	return true
}

func (s State) Norm() float64 {
	sum := 0.0
	for _, v := range s {
		sum += v * v
	}
	return math.Sqrt(sum)
}

func (s State) Sub(other State) State {
	result := make(State, len(s))
	for i := range s {
		if i < len(other) {
			result[i] = s[i] - other[i]
		} else {
			result[i] = s[i]
		}
	}
	return result
}

// Control is the external input vector. The neuron model has a single
// control entry: the applied stimulus current I (uA/cm^2).
type Control []float64

// System is an ODE right-hand side: dx/dt = Derive(x, u, t).
type System interface {
	Derive(x State, u Control, t float64) State
	StateDim() int
	ControlDim() int
}

// Jacobian is implemented by systems that can evaluate their Jacobian
// analytically. Implicit integrators and stability analysis prefer this
// over finite differences.
type Jacobian interface {
	Jacobian(x State, u Control, t float64) [][]float64
}

// Integrator advances a state by one step. Implicit methods may fail to
// converge, so Step returns an error.
type Integrator interface {
	Step(sys System, x State, u Control, t, dt float64) (State, error)
}

// AdaptiveIntegrator additionally proposes the next step size from an
// embedded error estimate.
type AdaptiveIntegrator interface {
	Integrator
	StepAdaptive(sys System, x State, u Control, t, dt, tol float64) (State, float64, error)
}

// Configurable exposes named tunable parameters, used by sweeps and the
// interactive views.
type Configurable interface {
	GetParams() map[string]float64
	SetParam(name string, value float64) error
}

// Config holds solver stepping parameters.
type Config struct {
	Dt            float64
	Tolerance     float64
	MaxDt         float64
	MinDt         float64
	Adaptive      bool
	ValidateState bool
}

func DefaultConfig() Config {
	return Config{
		Dt:            0.05,
		Tolerance:     1e-6,
		MaxDt:         0.5,
		MinDt:         1e-8,
		Adaptive:      false,
		ValidateState: true,
	}
}

// Trajectory is an ordered sequence of (time, state) samples from one
// integration run. It is immutable once returned by the solver.
type Trajectory struct {
	Times  []float64
	States []State
}

func (tr *Trajectory) Len() int { return len(tr.Times) }

// Component extracts one state variable as a flat series.
func (tr *Trajectory) Component(i int) []float64 {
	out := make([]float64, len(tr.States))
	for k, s := range tr.States {
		out[k] = s[i]
	}
	return out
}

// Tail returns the samples with time strictly greater than cutoff. The
// returned trajectory shares backing arrays with the receiver.
func (tr *Trajectory) Tail(cutoff float64) *Trajectory {
	i := 0
	for i < len(tr.Times) && tr.Times[i] <= cutoff {
		i++
	}
	return &Trajectory{Times: tr.Times[i:], States: tr.States[i:]}
}

// SampleGrid builds n evenly spaced sample times spanning [t0, t1]
// inclusive.
func SampleGrid(t0, t1 float64, n int) []float64 {
	if n < 2 {
		return []float64{t0}
	}
	grid := make([]float64, n)
	step := (t1 - t0) / float64(n-1)
	for i := range grid {
		grid[i] = t0 + float64(i)*step
	}
	grid[n-1] = t1
	return grid
}
