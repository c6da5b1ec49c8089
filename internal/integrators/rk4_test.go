package integrators

import (
	"math"
	"testing"

	"github.com/dverbeek/advect/internal/ode"
)

type harmonicOscillator struct{}

func (harmonicOscillator) Dim() int { return 2 }

func (harmonicOscillator) RHS(_ float64, x ode.State) ode.State {
	return ode.State{x[1], -x[0]}
}

func TestRK4_Accuracy(t *testing.T) {
	integ := NewRK4()
	dyn := harmonicOscillator{}

	x := ode.State{1.0, 0.0}
	dt := 0.01
	steps := 100

	for i := 0; i < steps; i++ {
		x = integ.Step(dyn, float64(i)*dt, x, dt)
	}

	expectedX := math.Cos(float64(steps) * dt)
	expectedV := -math.Sin(float64(steps) * dt)

	if math.Abs(x[0]-expectedX) > 1e-4 {
		t.Errorf("position error too large: got %.6f, expected %.6f", x[0], expectedX)
	}
	if math.Abs(x[1]-expectedV) > 1e-4 {
		t.Errorf("velocity error too large: got %.6f, expected %.6f", x[1], expectedV)
	}
}

func TestRK4_DoesNotMutateInput(t *testing.T) {
	integ := NewRK4()
	dyn := harmonicOscillator{}

	x := ode.State{1.0, 0.0}
	before := x.Clone()
	_ = integ.Step(dyn, 0, x, 0.1)

	if x[0] != before[0] || x[1] != before[1] {
		t.Error("Step mutated its input state")
	}
}

func TestEuler_FirstOrder(t *testing.T) {
	integ := NewEuler()
	dyn := decaySys{1}

	x := ode.State{1.0}
	dt := 0.001
	for i := 0; i < 1000; i++ {
		x = integ.Step(dyn, float64(i)*dt, x, dt)
	}

	// first order: error ~ dt
	if math.Abs(x[0]-math.Exp(-1)) > 1e-3 {
		t.Errorf("expected ~exp(-1), got %.6f", x[0])
	}
}
