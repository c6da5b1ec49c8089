package integrators

import (
	"math"
	"testing"

	"github.com/dverbeek/advect/internal/ode"
)

// exponential decay u' = -u, exact solution u0*exp(-t)
type decaySys struct{ n int }

func (d decaySys) Dim() int { return d.n }

func (d decaySys) RHS(_ float64, x ode.State) ode.State {
	out := make(ode.State, len(x))
	for i, v := range x {
		out[i] = -v
	}
	return out
}

func TestDopri5_FifthOrderAccuracy(t *testing.T) {
	m := NewDopri5()
	x := ode.State{1.0}

	res := m.TryStep(decaySys{1}, 0, x, 0.1, nil, 1e-6, 1e-6)

	exact := math.Exp(-0.1)
	if err := math.Abs(res.To[0] - exact); err > 1e-8 {
		t.Errorf("single step error %e exceeds 5th-order expectation", err)
	}
	if res.ErrNorm > 1 {
		t.Errorf("smooth problem at modest step must be acceptable, errNorm=%g", res.ErrNorm)
	}
}

func TestDopri5_RejectsHugeStep(t *testing.T) {
	m := NewDopri5()
	x := ode.State{1.0}

	res := m.TryStep(decaySys{1}, 0, x, 3.0, nil, 1e-8, 1e-8)
	if res.ErrNorm <= 1 {
		t.Errorf("expected rejection for h=3 at tight tolerance, errNorm=%g", res.ErrNorm)
	}
}

func TestDopri5_InterpolateEndpoints(t *testing.T) {
	m := NewDopri5()
	x := ode.State{1.0, 0.5}

	res := m.TryStep(decaySys{2}, 0, x, 0.1, nil, 1e-6, 1e-6)

	at0 := res.Interpolate(0)
	at1 := res.Interpolate(0.1)
	for i := range x {
		if math.Abs(at0[i]-res.From[i]) > 1e-14 {
			t.Errorf("interpolant at t: got %g, want From %g", at0[i], res.From[i])
		}
		if math.Abs(at1[i]-res.To[i]) > 1e-14 {
			t.Errorf("interpolant at t+h: got %g, want To %g", at1[i], res.To[i])
		}
	}
}

func TestDopri5_InterpolateMidpoint(t *testing.T) {
	m := NewDopri5()
	x := ode.State{1.0}
	h := 0.05

	res := m.TryStep(decaySys{1}, 0, x, h, nil, 1e-9, 1e-9)
	if !res.Covers(h / 2) {
		t.Fatal("step must cover its own midpoint")
	}

	mid := res.Interpolate(h / 2)
	exact := math.Exp(-h / 2)
	if err := math.Abs(mid[0] - exact); err > 1e-5 {
		t.Errorf("dense output midpoint error %e too large", err)
	}
}

func TestDopri5_FSALReuse(t *testing.T) {
	m := NewDopri5()
	x := ode.State{1.0}

	first := m.TryStep(decaySys{1}, 0, x, 0.1, nil, 1e-6, 1e-6)

	// continuing from the accepted step with the FSAL stage must match a
	// cold start exactly
	warm := m.TryStep(decaySys{1}, 0.1, first.To, 0.1, first.Last(), 1e-6, 1e-6)
	cold := m.TryStep(decaySys{1}, 0.1, first.To, 0.1, nil, 1e-6, 1e-6)

	if warm.To[0] != cold.To[0] {
		t.Errorf("FSAL reuse diverged: %g vs %g", warm.To[0], cold.To[0])
	}
}

func TestDopri5_ScaleFor(t *testing.T) {
	m := NewDopri5()

	if got := m.ScaleFor(0); got != m.MaxScale {
		t.Errorf("zero error must grow at MaxScale, got %g", got)
	}
	if got := m.ScaleFor(1e12); got != m.MinScale {
		t.Errorf("huge error must clamp to MinScale, got %g", got)
	}
	if got := m.ScaleFor(1); math.Abs(got-m.Safety) > 1e-15 {
		t.Errorf("err=1 must scale by safety factor, got %g", got)
	}
	if got := m.ScaleFor(0.5); got <= 1 {
		t.Errorf("acceptable step should grow, got scale %g", got)
	}
}
