package pde

import "github.com/dverbeek/advect/internal/ode"

// Upwind evaluates the semi-discrete right-hand side
//
//	du/dt = -(bx*u_x + by*u_y + c*u)
//
// at every grid point with first-order upwind differences: the sign of each
// velocity component selects the one-sided difference that looks upstream.
// Central differencing is unstable for pure advection, so this bias is load
// bearing, not a style choice. O(Nx*Ny), allocates only its output.
func Upwind(u ode.State, g Grid, bx, by, c float64, bc Boundary) ode.State {
	px, py := g.Shape()
	d := make(ode.State, len(u))
	for i := 0; i < px; i++ {
		im := bc.index(i-1, px)
		ip := bc.index(i+1, px)
		for j := 0; j < py; j++ {
			k := i*py + j
			var adv float64
			switch {
			case bx > 0:
				adv += bx * (u[k] - u[im*py+j]) / g.hx
			case bx < 0:
				adv += bx * (u[ip*py+j] - u[k]) / g.hx
			}
			switch {
			case by > 0:
				adv += by * (u[k] - u[i*py+bc.index(j-1, py)]) / g.hy
			case by < 0:
				adv += by * (u[i*py+bc.index(j+1, py)] - u[k]) / g.hy
			}
			d[k] = -(adv + c*u[k])
		}
	}
	return d
}
