package integrators

import "github.com/dverbeek/advect/internal/ode"

type Euler struct{}

func NewEuler() *Euler {
	return &Euler{}
}

func (e *Euler) Step(sys ode.System, t float64, x ode.State, h float64) ode.State {
	dx := sys.RHS(t, x)
	result := make(ode.State, len(x))
	for i := range x {
		result[i] = x[i] + h*dx[i]
	}
	return result
}
