package integrators

import "github.com/dverbeek/advect/internal/ode"

// RK4 is the classical fixed-step 4th-order Runge-Kutta method. Scratch
// buffers are reused across steps; the returned state is always fresh.
type RK4 struct {
	scratch ode.State
}

func NewRK4() *RK4 {
	return &RK4{}
}

func (r *RK4) Step(sys ode.System, t float64, x ode.State, h float64) ode.State {
	n := len(x)
	if len(r.scratch) != n {
		r.scratch = make(ode.State, n)
	}

	k1 := sys.RHS(t, x)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + h*0.5*k1[i]
	}
	k2 := sys.RHS(t+h*0.5, r.scratch)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + h*0.5*k2[i]
	}
	k3 := sys.RHS(t+h*0.5, r.scratch)

	for i := 0; i < n; i++ {
		r.scratch[i] = x[i] + h*k3[i]
	}
	k4 := sys.RHS(t+h, r.scratch)

	result := make(ode.State, n)
	h6 := h / 6.0
	for i := 0; i < n; i++ {
		result[i] = x[i] + h6*(k1[i]+2*k2[i]+2*k3[i]+k4[i])
	}
	return result
}
