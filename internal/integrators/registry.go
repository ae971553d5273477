package integrators

import (
	"fmt"

	"github.com/san-kum/neurodyn/internal/dynamo"
)

// New returns a fresh integrator by name. Instances are not shared between
// callers; each holds its own scratch state.
func New(name string) (dynamo.Integrator, error) {
	switch name {
	case "euler":
		return NewEuler(), nil
	case "rk4":
		return NewRK4(), nil
	case "rk45":
		return NewRK45(), nil
	case "bdf2":
		return NewBDF2(), nil
	default:
		return nil, fmt.Errorf("unknown integrator: %s", name)
	}
}

// Names lists the registered integrator names.
func Names() []string {
	return []string{"euler", "rk4", "rk45", "bdf2"}
}
