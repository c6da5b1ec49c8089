package solver_test

import (
	"context"
	"math"
	"testing"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/dverbeek/advect/internal/analysis"
	"github.com/dverbeek/advect/internal/ode"
	"github.com/dverbeek/advect/internal/pde"
	"github.com/dverbeek/advect/internal/solver"
)

func TestTransportSuite(t *testing.T) {
	RegisterFailHandler(Fail)
	RunSpecs(t, "Transport Suite")
}

func solveTransport(prob *pde.Transport, t0, tf, stride float64) (*ode.Record, error) {
	cfg := solver.DefaultConfig()
	cfg.T0, cfg.TF = t0, tf
	cfg.OutputTimes = solver.Times(t0, tf, stride)
	return solver.New().Solve(context.Background(), prob, prob.InitialState(), cfg)
}

var _ = Describe("the discretized transport equation", func() {
	newGrid := func(n int) pde.Grid {
		g, err := pde.NewGrid(-3, 3, n, -3, 3, n)
		Expect(err).NotTo(HaveOccurred())
		return g
	}

	It("leaves a still field unchanged", func() {
		prob := pde.NewTransport(newGrid(40), 0, 0, 0, pde.Gaussian(0.3))
		rec, err := solveTransport(prob, 0, 1, 0.5)
		Expect(err).NotTo(HaveOccurred())

		first, last := rec.Frame(0), rec.Frame(rec.Len()-1)
		for i := 0; i < first.Nx(); i++ {
			for j := 0; j < first.Ny(); j++ {
				Expect(last.At(i, j)).To(BeNumerically("~", first.At(i, j), 1e-9))
			}
		}
	})

	It("decays mass exponentially under the modified equation", func() {
		c := 0.8
		grid := newGrid(40)
		prob := pde.NewTransport(grid, 0, 0, c, pde.Gaussian(0.3))
		rec, err := solveTransport(prob, 0, 1, 0.25)
		Expect(err).NotTo(HaveOccurred())

		masses := analysis.MassSeries(rec, grid)
		for k := 1; k < rec.Len(); k++ {
			want := masses[0] * math.Exp(-c*rec.Time(k))
			Expect(masses[k]).To(BeNumerically("~", want, 1e-5))
		}
	})

	It("advects a gaussian pulse along the velocity field", func() {
		grid := newGrid(60)
		prob := pde.NewTransport(grid, 1, 1, 0, pde.Gaussian(0.2))
		rec, err := solveTransport(prob, 0, 1.5, 0.5)
		Expect(err).NotTo(HaveOccurred())

		// the first-order scheme smears the pulse, but its centroid must
		// ride the velocity field
		final := rec.Frame(rec.Len() - 1)
		cx, cy := analysis.Centroid(final, grid)
		Expect(cx).To(BeNumerically("~", 1.5, 0.1))
		Expect(cy).To(BeNumerically("~", 1.5, 0.1))

		// nothing has reached the boundary yet, so mass is conserved
		masses := analysis.MassSeries(rec, grid)
		Expect(masses[len(masses)-1]).To(BeNumerically("~", masses[0], 0.01*masses[0]))
	})

	It("keeps the peak near the analytic path on a periodic box", func() {
		grid := newGrid(60)
		prob := pde.NewTransport(grid, 1, 0, 0, pde.Gaussian(0.3)).
			WithBoundary(pde.BoundaryPeriodic)
		rec, err := solveTransport(prob, 0, 2, 1)
		Expect(err).NotTo(HaveOccurred())

		final := rec.Frame(rec.Len() - 1)
		_, pi, _ := analysis.Peak(final)
		Expect(grid.X()[pi]).To(BeNumerically("~", 2.0, 0.3))
	})

	It("returns the partial record when tolerances are impossible", func() {
		prob := pde.NewTransport(newGrid(10), 1, 1, 0, pde.Gaussian(0.5))

		cfg := solver.DefaultConfig()
		cfg.T0, cfg.TF = 0, 1
		cfg.Atol, cfg.Rtol = 1e-30, 1e-30
		cfg.InitialStep = 0.1
		cfg.MinStep = 1e-3
		cfg.OutputTimes = solver.Times(0, 1, 0.5)

		_, err := solver.New().Solve(context.Background(), prob, prob.InitialState(), cfg)
		Expect(err).To(MatchError(ode.ErrStepTooSmall))

		var solveErr *ode.SolveError
		Expect(err).To(BeAssignableToTypeOf(solveErr))
		solveErr = err.(*ode.SolveError)
		Expect(solveErr.Partial.Len()).To(BeNumerically(">", 0))
	})
})
