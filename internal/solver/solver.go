// Package solver drives an ode.System from t0 to tf with adaptive step
// control and records the solution at the requested output times.
package solver

import (
	"context"
	"fmt"
	"math"

	"github.com/dverbeek/advect/internal/integrators"
	"github.com/dverbeek/advect/internal/ode"
)

type Config struct {
	T0, TF float64

	// OutputTimes are the sample times, strictly increasing, all within
	// [T0, TF]. See Times for the fixed-stride helper.
	OutputTimes []float64

	Atol float64
	Rtol float64

	// InitialStep <= 0 lets the solver pick one: the system's stability
	// bound when it exposes one, else a small fraction of the span.
	InitialStep float64

	// MinStep is the floor below which a rejected step is a failure.
	MinStep float64

	// MaxSteps bounds attempted steps (accepted + rejected) so a solve
	// cannot spin forever.
	MaxSteps int
}

func DefaultConfig() Config {
	return Config{
		Atol:     1e-8,
		Rtol:     1e-6,
		MinStep:  1e-12,
		MaxSteps: 1_000_000,
	}
}

// Times builds output times t0, t0+stride, ... capped at tf, always
// including tf itself. A non-positive stride yields only tf.
func Times(t0, tf, stride float64) []float64 {
	if stride <= 0 {
		return []float64{tf}
	}
	eps := 1e-12 * (tf - t0)
	var ts []float64
	for k := 0; ; k++ {
		t := t0 + float64(k)*stride
		if t >= tf-eps {
			break
		}
		ts = append(ts, t)
	}
	return append(ts, tf)
}

type Solver struct {
	method *integrators.Dopri5
}

func New() *Solver {
	return &Solver{method: integrators.NewDopri5()}
}

// Solve integrates dX/dt = sys.RHS(t, X), X(t0) = x0, over [t0, tf] and
// returns samples at cfg.OutputTimes via the dense-output interpolant of
// each accepted step. x0 is never mutated. On integration failure the
// returned error is an *ode.SolveError carrying the partial record.
func (s *Solver) Solve(ctx context.Context, sys ode.System, x0 ode.State, cfg Config) (*ode.Record, error) {
	if err := validate(sys, x0, cfg); err != nil {
		return nil, err
	}
	nx, ny := shape(sys, x0)
	span := cfg.TF - cfg.T0
	eps := 1e-12 * math.Max(1, math.Abs(span))

	rec := ode.NewRecord()
	var stats ode.Stats

	t := cfg.T0
	x := x0.Clone()
	out := 0
	for out < len(cfg.OutputTimes) && cfg.OutputTimes[out] <= t+eps {
		rec.Append(cfg.OutputTimes[out], ode.NewFrame(nx, ny, x))
		out++
	}

	h := cfg.InitialStep
	if h <= 0 {
		h = span / 100
		if lim, ok := sys.(ode.StepLimiter); ok {
			if ms := lim.MaxStableStep(); !math.IsInf(ms, 1) {
				h = math.Min(h, ms)
			}
		}
	}

	k1 := sys.RHS(t, x)
	stats.Evals++
	if !k1.IsValid() {
		return rec, s.fail(ode.ErrDiverged, stats, t, x, rec)
	}

	for t < cfg.TF-eps {
		select {
		case <-ctx.Done():
			rec.SetStats(stats)
			return rec, ctx.Err()
		default:
		}

		if stats.Steps+stats.Rejected >= cfg.MaxSteps {
			return rec, s.fail(ode.ErrTooManySteps, stats, t, x, rec)
		}

		if t+h > cfg.TF {
			h = cfg.TF - t
		}

		res := s.method.TryStep(sys, t, x, h, k1, cfg.Atol, cfg.Rtol)
		stats.Evals += integrators.Evals

		if !res.To.IsValid() || math.IsNaN(res.ErrNorm) {
			return rec, s.fail(ode.ErrDiverged, stats, t, x, rec)
		}

		if res.ErrNorm <= 1 {
			for out < len(cfg.OutputTimes) && cfg.OutputTimes[out] <= t+h+eps {
				to := math.Min(cfg.OutputTimes[out], t+h)
				rec.Append(cfg.OutputTimes[out], ode.NewFrame(nx, ny, res.Interpolate(to)))
				out++
			}
			t += h
			x = res.To
			k1 = res.Last()
			stats.Steps++
			stats.LastStep = h
			h *= s.method.ScaleFor(res.ErrNorm)
		} else {
			stats.Rejected++
			h *= s.method.ScaleFor(res.ErrNorm)
			if h < cfg.MinStep {
				return rec, s.fail(ode.ErrStepTooSmall, stats, t, x, rec)
			}
		}
	}

	rec.SetStats(stats)
	return rec, nil
}

// SolveFixed integrates with a fixed-step integrator, landing exactly on
// every output time by shortening the last sub-step before it.
func (s *Solver) SolveFixed(ctx context.Context, sys ode.System, x0 ode.State, integ ode.Integrator, dt float64, cfg Config) (*ode.Record, error) {
	if err := validate(sys, x0, cfg); err != nil {
		return nil, err
	}
	if dt <= 0 {
		return nil, fmt.Errorf("solver: dt must be positive, got %g", dt)
	}
	nx, ny := shape(sys, x0)
	eps := 1e-12 * math.Max(1, math.Abs(cfg.TF-cfg.T0))

	rec := ode.NewRecord()
	var stats ode.Stats

	t := cfg.T0
	x := x0.Clone()
	for _, to := range cfg.OutputTimes {
		for t < to-eps {
			select {
			case <-ctx.Done():
				rec.SetStats(stats)
				return rec, ctx.Err()
			default:
			}
			if stats.Steps >= cfg.MaxSteps {
				return rec, s.fail(ode.ErrTooManySteps, stats, t, x, rec)
			}
			h := math.Min(dt, to-t)
			x = integ.Step(sys, t, x, h)
			t += h
			stats.Steps++
			stats.LastStep = h
			if !x.IsValid() {
				return rec, s.fail(ode.ErrDiverged, stats, t, x, rec)
			}
		}
		rec.Append(to, ode.NewFrame(nx, ny, x))
	}

	rec.SetStats(stats)
	return rec, nil
}

func (s *Solver) fail(sentinel error, stats ode.Stats, t float64, x ode.State, rec *ode.Record) error {
	rec.SetStats(stats)
	return &ode.SolveError{
		Step:    stats.Steps,
		Time:    t,
		State:   x.Clone(),
		Partial: rec,
		Wrapped: sentinel,
	}
}

func validate(sys ode.System, x0 ode.State, cfg Config) error {
	if cfg.TF <= cfg.T0 {
		return fmt.Errorf("solver: tf %g must exceed t0 %g", cfg.TF, cfg.T0)
	}
	if cfg.Atol <= 0 || cfg.Rtol <= 0 {
		return fmt.Errorf("solver: tolerances must be positive, got atol=%g rtol=%g", cfg.Atol, cfg.Rtol)
	}
	if len(x0) != sys.Dim() {
		return fmt.Errorf("solver: state length %d does not match system dim %d", len(x0), sys.Dim())
	}
	prev := math.Inf(-1)
	for _, to := range cfg.OutputTimes {
		if to < cfg.T0 || to > cfg.TF {
			return fmt.Errorf("solver: output time %g outside [%g, %g]", to, cfg.T0, cfg.TF)
		}
		if to <= prev {
			return fmt.Errorf("solver: output times must be strictly increasing")
		}
		prev = to
	}
	return nil
}

func shape(sys ode.System, x0 ode.State) (int, int) {
	if sh, ok := sys.(ode.Shaped); ok {
		return sh.Shape()
	}
	return len(x0), 1
}
