package solver

import (
	"context"
	"sync"

	"github.com/dverbeek/advect/internal/ode"
)

// Job is one independent solve in a sweep.
type Job struct {
	Name string
	Sys  ode.System
	X0   ode.State
	Cfg  Config
}

// Sweep runs independent solves concurrently, one goroutine per job. Each
// solve itself stays single-threaded; jobs share nothing but the context.
// The first error wins, results keep job order.
func Sweep(ctx context.Context, jobs []Job) ([]*ode.Record, error) {
	records := make([]*ode.Record, len(jobs))
	errs := make([]error, len(jobs))

	var wg sync.WaitGroup
	for i, job := range jobs {
		wg.Add(1)
		go func(idx int, j Job) {
			defer wg.Done()
			records[idx], errs[idx] = New().Solve(ctx, j.Sys, j.X0, j.Cfg)
		}(i, job)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return records, err
		}
	}
	return records, nil
}
