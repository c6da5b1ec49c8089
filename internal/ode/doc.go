// Package ode provides the core contracts for time integration of
// ordinary differential equation systems.
//
// The package defines the fundamental types shared by the discretizer,
// the integrators and the solver driver:
//
//   - [State]: flat vector holding the system state at one instant
//   - [System]: interface for ODE systems (dX/dt = f(t, X))
//   - [Integrator]: fixed-step integrator interface
//   - [Frame]: a state reshaped onto its 2D grid, read-only
//   - [Record]: immutable time-ordered sequence of sampled frames
//
// # Example
//
//	sys := pde.NewTransport(grid, 1, 2, 0, pde.Gaussian(0.1))
//	rec, err := solver.New().Solve(ctx, sys, sys.InitialState(), cfg)
//
// # Thread Safety
//
// States are owned by exactly one integrator step at a time. A Record is
// immutable once returned and safe for concurrent reads.
package ode
