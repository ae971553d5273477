package integrators

import "github.com/san-kum/neurodyn/internal/dynamo"

// Euler is the explicit first-order scheme. Cheap, but it needs tiny steps
// on the stiff voltage variable; kept mainly as a baseline for comparison.
type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys dynamo.System, x dynamo.State, u dynamo.Control, t, dt float64) (dynamo.State, error) {
	dx := sys.Derive(x, u, t)
	result := make(dynamo.State, len(x))
	for i := range x {
		result[i] = x[i] + dt*dx[i]
	}
	return result, nil
}
