package integrators

import (
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/dverbeek/advect/internal/ode"
)

// Dormand-Prince 5(4) coefficients.
var (
	a2 = 1.0 / 5.0
	a3 = 3.0 / 10.0
	a4 = 4.0 / 5.0
	a5 = 8.0 / 9.0

	b21 = 1.0 / 5.0
	b31 = 3.0 / 40.0
	b32 = 9.0 / 40.0
	b41 = 44.0 / 45.0
	b42 = -56.0 / 15.0
	b43 = 32.0 / 9.0
	b51 = 19372.0 / 6561.0
	b52 = -25360.0 / 2187.0
	b53 = 64448.0 / 6561.0
	b54 = -212.0 / 729.0
	b61 = 9017.0 / 3168.0
	b62 = -355.0 / 33.0
	b63 = 46732.0 / 5247.0
	b64 = 49.0 / 176.0
	b65 = -5103.0 / 18656.0

	c1 = 35.0 / 384.0
	c3 = 500.0 / 1113.0
	c4 = 125.0 / 192.0
	c5 = -2187.0 / 6784.0
	c6 = 11.0 / 84.0

	// 5th-order minus embedded 4th-order weights; the weighted stage sum
	// estimates the local truncation error.
	e1 = c1 - 5179.0/57600.0
	e3 = c3 - 7571.0/16695.0
	e4 = c4 - 393.0/640.0
	e5 = c5 + 92097.0/339200.0
	e6 = c6 - 187.0/2100.0
	e7 = -1.0 / 40.0

	// Dense-output weights (Hairer & Wanner) for the 4th-order
	// interpolant over an accepted step.
	d1 = -12715105075.0 / 11282082432.0
	d3 = 87487479700.0 / 32700410799.0
	d4 = -10690763975.0 / 1880347072.0
	d5 = 701980252875.0 / 199316789632.0
	d6 = -1453857185.0 / 822651844.0
	d7 = 69997945.0 / 29380423.0
)

// Dopri5 is the Dormand-Prince embedded explicit Runge-Kutta pair: a
// 5th-order solution with a shared-stage 4th-order estimate for step
// control. The pair is FSAL: the last stage of an accepted step is the
// first stage of the next.
type Dopri5 struct {
	Safety   float64
	MinScale float64
	MaxScale float64
}

func NewDopri5() *Dopri5 {
	return &Dopri5{
		Safety:   0.9,
		MinScale: 0.2,
		MaxScale: 10.0,
	}
}

// StepResult tags one attempted step with everything needed downstream:
// the endpoint states, the stages for dense output, and the error norm.
// Interpolation is a pure function of this value; the integrator keeps no
// state of its own between steps.
type StepResult struct {
	T, H     float64
	From, To ode.State
	ErrNorm  float64

	k1, k3, k4, k5, k6, k7 ode.State
}

// First returns the first-stage derivative, reusable as k1 of the next
// step once this one is accepted.
func (r StepResult) First() ode.State { return r.k1 }

// Last returns the FSAL stage, f(t+h, To).
func (r StepResult) Last() ode.State { return r.k7 }

// Covers reports whether t lies inside the step interval.
func (r StepResult) Covers(t float64) bool {
	lo, hi := r.T, r.T+r.H
	if hi < lo {
		lo, hi = hi, lo
	}
	return t >= lo && t <= hi
}

// Interpolate evaluates the 4th-order dense-output polynomial at a time
// inside the step. At the endpoints it reproduces From and To exactly.
func (r StepResult) Interpolate(t float64) ode.State {
	n := len(r.From)
	theta := (t - r.T) / r.H
	theta1 := 1.0 - theta

	u := make(ode.State, n)
	for i := 0; i < n; i++ {
		delta := r.To[i] - r.From[i]
		r3 := r.H*r.k1[i] - delta
		r4 := delta - r.H*r.k7[i] - r3
		r5 := r.H * (d1*r.k1[i] + d3*r.k3[i] + d4*r.k4[i] + d5*r.k5[i] + d6*r.k6[i] + d7*r.k7[i])
		u[i] = r.From[i] + theta*(delta+theta1*(r3+theta*(r4+theta1*r5)))
	}
	return u
}

// TryStep attempts a single step of size h from (t, x). k1 is the
// derivative at (t, x) if already known (FSAL), else nil. The result is
// acceptable when ErrNorm <= 1 under the given tolerances; acceptance is
// the caller's call, TryStep never advances anything itself.
func (d *Dopri5) TryStep(sys ode.System, t float64, x ode.State, h float64, k1 ode.State, atol, rtol float64) StepResult {
	n := len(x)
	if k1 == nil {
		k1 = sys.RHS(t, x)
	}

	stage := func() ode.State {
		s := make(ode.State, n)
		copy(s, x)
		return s
	}

	x2 := stage()
	floats.AddScaled(x2, h*b21, k1)
	k2 := sys.RHS(t+a2*h, x2)

	x3 := stage()
	floats.AddScaled(x3, h*b31, k1)
	floats.AddScaled(x3, h*b32, k2)
	k3 := sys.RHS(t+a3*h, x3)

	x4 := stage()
	floats.AddScaled(x4, h*b41, k1)
	floats.AddScaled(x4, h*b42, k2)
	floats.AddScaled(x4, h*b43, k3)
	k4 := sys.RHS(t+a4*h, x4)

	x5 := stage()
	floats.AddScaled(x5, h*b51, k1)
	floats.AddScaled(x5, h*b52, k2)
	floats.AddScaled(x5, h*b53, k3)
	floats.AddScaled(x5, h*b54, k4)
	k5 := sys.RHS(t+a5*h, x5)

	x6 := stage()
	floats.AddScaled(x6, h*b61, k1)
	floats.AddScaled(x6, h*b62, k2)
	floats.AddScaled(x6, h*b63, k3)
	floats.AddScaled(x6, h*b64, k4)
	floats.AddScaled(x6, h*b65, k5)
	k6 := sys.RHS(t+h, x6)

	to := stage()
	floats.AddScaled(to, h*c1, k1)
	floats.AddScaled(to, h*c3, k3)
	floats.AddScaled(to, h*c4, k4)
	floats.AddScaled(to, h*c5, k5)
	floats.AddScaled(to, h*c6, k6)
	k7 := sys.RHS(t+h, to)

	// RMS norm of the component errors against atol + rtol*|u|.
	var sum float64
	for i := 0; i < n; i++ {
		errEst := h * (e1*k1[i] + e3*k3[i] + e4*k4[i] + e5*k5[i] + e6*k6[i] + e7*k7[i])
		scale := atol + rtol*math.Max(math.Abs(x[i]), math.Abs(to[i]))
		v := errEst / scale
		sum += v * v
	}
	errNorm := math.Sqrt(sum / float64(n))

	return StepResult{
		T: t, H: h,
		From: x, To: to,
		ErrNorm: errNorm,
		k1:      k1, k3: k3, k4: k4, k5: k5, k6: k6, k7: k7,
	}
}

// ScaleFor proposes the step-size factor after a step with the given error
// norm: safety * err^(-1/5), clamped to [MinScale, MaxScale].
func (d *Dopri5) ScaleFor(errNorm float64) float64 {
	if errNorm == 0 {
		return d.MaxScale
	}
	s := d.Safety * math.Pow(errNorm, -0.2)
	return math.Min(d.MaxScale, math.Max(d.MinScale, s))
}

// Evals is the number of RHS evaluations per attempt when the first stage
// is supplied, per the FSAL property.
const Evals = 6

// Step advances one fixed step with the 5th-order solution, satisfying
// ode.Integrator for non-adaptive runs.
func (d *Dopri5) Step(sys ode.System, t float64, x ode.State, h float64) ode.State {
	return d.TryStep(sys, t, x, h, nil, 1e-6, 1e-6).To
}
