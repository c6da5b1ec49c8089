package pde

import (
	"math"
	"testing"
)

func TestGaussian_Normalization(t *testing.T) {
	// wide grid relative to sigma: grid sum * cell area approximates mass 1
	g := mustGrid(t, -3, 3, 100, -3, 3, 100)
	tr := NewTransport(g, 0, 0, 0, Gaussian(0.3))

	u := tr.InitialState()
	sum := 0.0
	for _, v := range u {
		sum += v
	}
	mass := sum * g.Hx() * g.Hy()
	if math.Abs(mass-1.0) > 1e-2 {
		t.Errorf("expected unit mass, got %g", mass)
	}
}

func TestTransport_InitialStatePeaksAtCenter(t *testing.T) {
	g := mustGrid(t, -2, 2, 40, -2, 2, 40)
	tr := NewTransport(g, 1, 2, 0, GaussianAt(0.5, -0.5, 0.2))

	u := tr.InitialState()
	best, bi, bj := u[0], 0, 0
	px, py := g.Shape()
	for i := 0; i < px; i++ {
		for j := 0; j < py; j++ {
			if v := u[g.Idx(i, j)]; v > best {
				best, bi, bj = v, i, j
			}
		}
	}
	x, y := g.X(), g.Y()
	if math.Abs(x[bi]-0.5) > g.Hx() || math.Abs(y[bj]+0.5) > g.Hy() {
		t.Errorf("peak at (%g, %g), expected near (0.5, -0.5)", x[bi], y[bj])
	}
}

func TestTransport_RHSDoesNotMutateInput(t *testing.T) {
	g := mustGrid(t, -1, 1, 10, -1, 1, 10)
	tr := NewTransport(g, 1, 1, 0.5, Gaussian(0.3))

	u := tr.InitialState()
	before := u.Clone()
	_ = tr.RHS(0, u)
	for k := range u {
		if u[k] != before[k] {
			t.Fatalf("RHS mutated its input at %d", k)
		}
	}
}

func TestTransport_MaxStableStep(t *testing.T) {
	g := mustGrid(t, 0, 1, 10, 0, 2, 10) // hx=0.1, hy=0.2
	tr := NewTransport(g, 2, -4, 0, Gaussian(0.1))

	// min(0.1/2, 0.2/4) = 0.05
	if got := tr.MaxStableStep(); math.Abs(got-0.05) > 1e-15 {
		t.Errorf("expected CFL step 0.05, got %g", got)
	}

	still := NewTransport(g, 0, 0, 1, Gaussian(0.1))
	if got := still.MaxStableStep(); !math.IsInf(got, 1) {
		t.Errorf("expected +Inf for b=0, got %g", got)
	}
}

func TestTransport_WithBoundaryDoesNotAlias(t *testing.T) {
	g := mustGrid(t, -1, 1, 10, -1, 1, 10)
	tr := NewTransport(g, 1, 0, 0, Gaussian(0.3))
	per := tr.WithBoundary(BoundaryPeriodic)

	if tr.Boundary() != BoundaryClamp {
		t.Error("WithBoundary mutated the original problem")
	}
	if per.Boundary() != BoundaryPeriodic {
		t.Error("WithBoundary did not apply the policy")
	}
}
