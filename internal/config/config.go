// Package config loads and saves solver run configurations.
package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/dverbeek/advect/internal/pde"
	"github.com/dverbeek/advect/internal/solver"
)

const (
	DefaultN      = 120
	DefaultSigma  = 0.1
	DefaultStride = 0.05
	DefaultAtol   = 1e-8
	DefaultRtol   = 1e-6
)

type Config struct {
	Domain     DomainConfig `yaml:"domain"`
	T0         float64      `yaml:"t0"`
	TF         float64      `yaml:"tf"`
	Stride     float64      `yaml:"stride"`
	Bx         float64      `yaml:"bx"`
	By         float64      `yaml:"by"`
	C          float64      `yaml:"c"`
	Sigma      float64      `yaml:"sigma"`
	X0         float64      `yaml:"x0"`
	Y0         float64      `yaml:"y0"`
	Boundary   string       `yaml:"boundary"`
	Integrator string       `yaml:"integrator"`
	Dt         float64      `yaml:"dt"`
	Atol       float64      `yaml:"atol"`
	Rtol       float64      `yaml:"rtol"`
}

type DomainConfig struct {
	XMin float64 `yaml:"xmin"`
	XMax float64 `yaml:"xmax"`
	YMin float64 `yaml:"ymin"`
	YMax float64 `yaml:"ymax"`
	Nx   int     `yaml:"nx"`
	Ny   int     `yaml:"ny"`
}

func DefaultConfig() *Config {
	return &Config{
		Domain:     DomainConfig{XMin: -3, XMax: 3, YMin: -3, YMax: 3, Nx: DefaultN, Ny: DefaultN},
		T0:         0,
		TF:         3,
		Stride:     DefaultStride,
		Bx:         1,
		By:         2,
		Sigma:      DefaultSigma,
		Boundary:   "clamp",
		Integrator: "dopri5",
		Dt:         0.001,
		Atol:       DefaultAtol,
		Rtol:       DefaultRtol,
	}
}

func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	cfg := DefaultConfig()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}

func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}

// ParseBoundary maps the config string onto a boundary policy.
func ParseBoundary(s string) (pde.Boundary, error) {
	switch s {
	case "", "clamp":
		return pde.BoundaryClamp, nil
	case "periodic":
		return pde.BoundaryPeriodic, nil
	default:
		return 0, fmt.Errorf("unknown boundary policy: %s", s)
	}
}

// Build wires a problem and a solver config from the run configuration.
func (c *Config) Build() (*pde.Transport, solver.Config, error) {
	grid, err := pde.NewGrid(c.Domain.XMin, c.Domain.XMax, c.Domain.Nx, c.Domain.YMin, c.Domain.YMax, c.Domain.Ny)
	if err != nil {
		return nil, solver.Config{}, err
	}
	bc, err := ParseBoundary(c.Boundary)
	if err != nil {
		return nil, solver.Config{}, err
	}
	if c.Stride <= 0 {
		return nil, solver.Config{}, fmt.Errorf("config: stride must be positive, got %g", c.Stride)
	}
	prob := pde.NewTransport(grid, c.Bx, c.By, c.C, pde.GaussianAt(c.X0, c.Y0, c.Sigma)).WithBoundary(bc)

	scfg := solver.DefaultConfig()
	scfg.T0 = c.T0
	scfg.TF = c.TF
	scfg.OutputTimes = solver.Times(c.T0, c.TF, c.Stride)
	if c.Atol > 0 {
		scfg.Atol = c.Atol
	}
	if c.Rtol > 0 {
		scfg.Rtol = c.Rtol
	}
	return prob, scfg, nil
}
