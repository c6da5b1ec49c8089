// Package analysis derives scalar quantities from solved transport fields:
// total mass, peak amplitude, centroid. Everything here consumes immutable
// records and never feeds back into the solver.
package analysis

import (
	"gonum.org/v1/gonum/integrate"

	"github.com/dverbeek/advect/internal/ode"
	"github.com/dverbeek/advect/internal/pde"
)

// Mass is the total field mass, the 2D trapezoidal quadrature of u over
// the domain. For the classical transport equation it is conserved until
// mass reaches the boundary; with decay c it follows exp(-c*(t-t0)).
func Mass(f ode.Frame, g pde.Grid) float64 {
	x, y := g.X(), g.Y()
	rows := make([]float64, f.Nx())
	for i := 0; i < f.Nx(); i++ {
		rows[i] = integrate.Trapezoidal(y, f.Row(i))
	}
	return integrate.Trapezoidal(x, rows)
}

// Peak returns the maximum field value and its grid indices.
func Peak(f ode.Frame) (v float64, pi, pj int) {
	v = f.At(0, 0)
	for i := 0; i < f.Nx(); i++ {
		for j := 0; j < f.Ny(); j++ {
			if u := f.At(i, j); u > v {
				v, pi, pj = u, i, j
			}
		}
	}
	return v, pi, pj
}

// Centroid is the mass-weighted mean position of the field. It tracks the
// advected pulse far more robustly than the peak on a diffusive scheme.
func Centroid(f ode.Frame, g pde.Grid) (cx, cy float64) {
	x, y := g.X(), g.Y()
	var m, sx, sy float64
	for i := 0; i < f.Nx(); i++ {
		for j := 0; j < f.Ny(); j++ {
			u := f.At(i, j)
			m += u
			sx += u * x[i]
			sy += u * y[j]
		}
	}
	if m == 0 {
		return 0, 0
	}
	return sx / m, sy / m
}

// MassSeries evaluates Mass at every sample of a record.
func MassSeries(rec *ode.Record, g pde.Grid) []float64 {
	out := make([]float64, 0, rec.Len())
	rec.Each(func(_ float64, f ode.Frame) {
		out = append(out, Mass(f, g))
	})
	return out
}

// PeakSeries evaluates the peak amplitude at every sample of a record.
func PeakSeries(rec *ode.Record) []float64 {
	out := make([]float64, 0, rec.Len())
	rec.Each(func(_ float64, f ode.Frame) {
		v, _, _ := Peak(f)
		out = append(out, v)
	})
	return out
}
