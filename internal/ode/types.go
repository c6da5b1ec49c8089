package ode

import "math"

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

// System is a right-hand side dX/dt = f(t, X). Implementations must not
// retain or mutate the state passed to RHS.
type System interface {
	RHS(t float64, x State) State
	Dim() int
}

// Integrator advances a state by one fixed step of size h.
type Integrator interface {
	Step(sys System, t float64, x State, h float64) State
}

// Shaped is implemented by systems whose state is a 2D field. The solver
// uses it to shape recorded frames; systems without it record Nx1 frames.
type Shaped interface {
	Shape() (nx, ny int)
}

// StepLimiter is implemented by systems that know a stability bound on the
// step size, e.g. a CFL limit for advection. The solver uses it to pick a
// sane initial step when none is configured.
type StepLimiter interface {
	MaxStableStep() float64
}

// Stats counts the work done by a solve.
type Stats struct {
	Steps    int
	Rejected int
	Evals    int
	LastStep float64
}
