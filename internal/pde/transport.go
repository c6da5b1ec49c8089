package pde

import (
	"math"

	"github.com/dverbeek/advect/internal/ode"
)

// InitialCondition maps a point to the field value at t=0.
type InitialCondition func(x, y float64) float64

// Gaussian is the canonical initial condition: a normalized 2D Gaussian of
// width sigma centered at the origin, total mass 1.
func Gaussian(sigma float64) InitialCondition {
	return GaussianAt(0, 0, sigma)
}

// GaussianAt centers the Gaussian at (x0, y0).
func GaussianAt(x0, y0, sigma float64) InitialCondition {
	amp := 1.0 / (2.0 * math.Pi * sigma * sigma)
	return func(x, y float64) float64 {
		dx, dy := x-x0, y-y0
		return amp * math.Exp(-(dx*dx+dy*dy)/(2.0*sigma*sigma))
	}
}

// Transport is the method-of-lines form of the linear transport equation
//
//	u_t + b·∇u + c·u = 0
//
// on a uniform grid: equation coefficients, initial condition and boundary
// policy bundled as an ode.System. Immutable once built; RHS never mutates
// its input.
type Transport struct {
	grid   Grid
	bx, by float64
	c      float64
	ic     InitialCondition
	bc     Boundary
}

// NewTransport builds the problem with the zero-flux boundary default.
// c = 0 gives the classical transport equation.
func NewTransport(g Grid, bx, by, c float64, ic InitialCondition) *Transport {
	return &Transport{grid: g, bx: bx, by: by, c: c, ic: ic, bc: BoundaryClamp}
}

// WithBoundary returns a copy of the problem using the given edge policy.
func (tr *Transport) WithBoundary(bc Boundary) *Transport {
	cp := *tr
	cp.bc = bc
	return &cp
}

func (tr *Transport) Grid() Grid { return tr.grid }

func (tr *Transport) Velocity() (bx, by float64) { return tr.bx, tr.by }

func (tr *Transport) Decay() float64 { return tr.c }

func (tr *Transport) Boundary() Boundary { return tr.bc }

func (tr *Transport) Dim() int { return tr.grid.Dim() }

func (tr *Transport) Shape() (int, int) { return tr.grid.Shape() }

// RHS ignores t; the equation family is time-invariant.
func (tr *Transport) RHS(_ float64, u ode.State) ode.State {
	return Upwind(u, tr.grid, tr.bx, tr.by, tr.c, tr.bc)
}

// InitialState samples the initial condition on the grid.
func (tr *Transport) InitialState() ode.State {
	px, py := tr.grid.Shape()
	x, y := tr.grid.X(), tr.grid.Y()
	u := make(ode.State, px*py)
	for i := 0; i < px; i++ {
		for j := 0; j < py; j++ {
			u[i*py+j] = tr.ic(x[i], y[j])
		}
	}
	return u
}

// MaxStableStep is the CFL bound for the explicit upwind scheme,
// min(hx/|bx|, hy/|by|). +Inf when the field does not advect.
func (tr *Transport) MaxStableStep() float64 {
	h := math.Inf(1)
	if tr.bx != 0 {
		h = tr.grid.hx / math.Abs(tr.bx)
	}
	if tr.by != 0 {
		h = math.Min(h, tr.grid.hy/math.Abs(tr.by))
	}
	return h
}
