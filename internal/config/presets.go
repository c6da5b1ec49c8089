package config

import "sort"

var presets = map[string]*Config{
	// classical transport equation: pulse rides b=(1,2) across the box
	"classic": {
		Domain: DomainConfig{XMin: -3, XMax: 3, YMin: -3, YMax: 3, Nx: 120, Ny: 120},
		T0:     0, TF: 3, Stride: 0.05,
		Bx: 1, By: 2, C: 0, Sigma: 0.1,
		Boundary: "clamp", Integrator: "dopri5",
		Atol: DefaultAtol, Rtol: DefaultRtol,
	},
	// modified equation: transport plus exponential decay
	"decay": {
		Domain: DomainConfig{XMin: -3, XMax: 3, YMin: -3, YMax: 3, Nx: 120, Ny: 120},
		T0:     0, TF: 3, Stride: 0.05,
		Bx: 1, By: 2, C: 1, Sigma: 0.1,
		Boundary: "clamp", Integrator: "dopri5",
		Atol: DefaultAtol, Rtol: DefaultRtol,
	},
	// no advection, no decay: the field must not move
	"still": {
		Domain: DomainConfig{XMin: -3, XMax: 3, YMin: -3, YMax: 3, Nx: 80, Ny: 80},
		T0:     0, TF: 2, Stride: 0.1,
		Bx: 0, By: 0, C: 0, Sigma: 0.3,
		Boundary: "clamp", Integrator: "dopri5",
		Atol: DefaultAtol, Rtol: DefaultRtol,
	},
	// diagonal drift on a periodic box, pulse wraps around
	"wrap": {
		Domain: DomainConfig{XMin: -3, XMax: 3, YMin: -3, YMax: 3, Nx: 120, Ny: 120},
		T0:     0, TF: 6, Stride: 0.1,
		Bx: 1, By: 1, C: 0, Sigma: 0.2,
		Boundary: "periodic", Integrator: "dopri5",
		Atol: DefaultAtol, Rtol: DefaultRtol,
	},
}

func GetPreset(name string) *Config {
	cfg, ok := presets[name]
	if !ok {
		return nil
	}
	cp := *cfg
	return &cp
}

func ListPresets() []string {
	names := make([]string, 0, len(presets))
	for name := range presets {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
