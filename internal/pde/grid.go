// Package pde defines the linear transport problem u_t + b·∇u + c·u = 0 on
// a uniform rectangular grid and its method-of-lines discretization.
package pde

import (
	"errors"
	"fmt"
)

// ErrInvalidDomain indicates malformed domain bounds or resolution.
var ErrInvalidDomain = errors.New("pde: invalid domain")

// Grid is a uniform Cartesian discretization of [xmin,xmax] x [ymin,ymax].
// Each axis is split into Nx (Ny) equal cells, giving Nx+1 (Ny+1) sample
// points including both endpoints. Immutable after construction.
type Grid struct {
	xmin, xmax float64
	ymin, ymax float64
	nx, ny     int
	hx, hy     float64
	x, y       []float64
}

// NewGrid builds a grid with nx by ny cells. It fails with ErrInvalidDomain
// when a bound pair is not strictly increasing or a cell count is below 2.
func NewGrid(xmin, xmax float64, nx int, ymin, ymax float64, ny int) (Grid, error) {
	if xmax <= xmin {
		return Grid{}, fmt.Errorf("%w: xmax %g <= xmin %g", ErrInvalidDomain, xmax, xmin)
	}
	if ymax <= ymin {
		return Grid{}, fmt.Errorf("%w: ymax %g <= ymin %g", ErrInvalidDomain, ymax, ymin)
	}
	if nx < 2 || ny < 2 {
		return Grid{}, fmt.Errorf("%w: need at least 2 cells per axis, got %dx%d", ErrInvalidDomain, nx, ny)
	}

	g := Grid{
		xmin: xmin, xmax: xmax,
		ymin: ymin, ymax: ymax,
		nx: nx, ny: ny,
		hx: (xmax - xmin) / float64(nx),
		hy: (ymax - ymin) / float64(ny),
	}
	g.x = make([]float64, nx+1)
	for i := range g.x {
		g.x[i] = xmin + float64(i)*g.hx
	}
	g.x[nx] = xmax
	g.y = make([]float64, ny+1)
	for j := range g.y {
		g.y[j] = ymin + float64(j)*g.hy
	}
	g.y[ny] = ymax
	return g, nil
}

// Cells returns the cell counts per axis.
func (g Grid) Cells() (nx, ny int) { return g.nx, g.ny }

// Shape returns the sample point counts per axis (cells + 1).
func (g Grid) Shape() (px, py int) { return g.nx + 1, g.ny + 1 }

// Hx and Hy are the grid spacings. Both are strictly positive.
func (g Grid) Hx() float64 { return g.hx }
func (g Grid) Hy() float64 { return g.hy }

func (g Grid) Bounds() (xmin, xmax, ymin, ymax float64) {
	return g.xmin, g.xmax, g.ymin, g.ymax
}

// X returns a copy of the x-axis coordinates, xmin through xmax inclusive.
func (g Grid) X() []float64 {
	x := make([]float64, len(g.x))
	copy(x, g.x)
	return x
}

// Y returns a copy of the y-axis coordinates.
func (g Grid) Y() []float64 {
	y := make([]float64, len(g.y))
	copy(y, g.y)
	return y
}

// Idx maps a point (i, j) to its position in a flat state vector.
func (g Grid) Idx(i, j int) int { return i*(g.ny+1) + j }

// Dim is the flat state length, (nx+1)*(ny+1).
func (g Grid) Dim() int { return (g.nx + 1) * (g.ny + 1) }
