package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/dverbeek/advect/internal/pde"
)

func TestSaveLoadRoundTrip(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Bx = -2.5
	cfg.TF = 1.5
	cfg.Boundary = "periodic"
	cfg.Domain.Nx = 40

	path := filepath.Join(t.TempDir(), "run.yaml")
	if err := Save(path, cfg); err != nil {
		t.Fatal(err)
	}
	got, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if *got != *cfg {
		t.Errorf("round trip mismatch:\n got  %+v\n want %+v", got, cfg)
	}
}

func TestLoadMergesOverDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "partial.yaml")
	if err := os.WriteFile(path, []byte("tf: 5\nc: 0.5\n"), 0644); err != nil {
		t.Fatal(err)
	}
	cfg, err := Load(path)
	if err != nil {
		t.Fatal(err)
	}
	if cfg.TF != 5 || cfg.C != 0.5 {
		t.Errorf("overrides not applied: tf=%v c=%v", cfg.TF, cfg.C)
	}
	if cfg.Domain.Nx != DefaultN || cfg.Integrator != "dopri5" {
		t.Errorf("defaults lost: nx=%v integrator=%q", cfg.Domain.Nx, cfg.Integrator)
	}
}

func TestParseBoundary(t *testing.T) {
	if bc, err := ParseBoundary(""); err != nil || bc != pde.BoundaryClamp {
		t.Errorf("empty string should default to clamp, got %v, %v", bc, err)
	}
	if bc, err := ParseBoundary("periodic"); err != nil || bc != pde.BoundaryPeriodic {
		t.Errorf("ParseBoundary(periodic) = %v, %v", bc, err)
	}
	if _, err := ParseBoundary("reflect"); err == nil {
		t.Error("unknown policy should fail")
	}
}

func TestBuildWiresProblemAndSolver(t *testing.T) {
	cfg := DefaultConfig()
	cfg.TF = 2
	cfg.Stride = 0.5
	cfg.Boundary = "periodic"

	prob, scfg, err := cfg.Build()
	if err != nil {
		t.Fatal(err)
	}
	if prob.Boundary() != pde.BoundaryPeriodic {
		t.Errorf("boundary = %v, want periodic", prob.Boundary())
	}
	bx, by := prob.Velocity()
	if bx != 1 || by != 2 {
		t.Errorf("velocity = (%v, %v), want (1, 2)", bx, by)
	}
	if scfg.TF != 2 || len(scfg.OutputTimes) != 5 {
		t.Errorf("solver config: tf=%v outputs=%d", scfg.TF, len(scfg.OutputTimes))
	}
}

func TestBuildRejectsBadDomain(t *testing.T) {
	cfg := DefaultConfig()
	cfg.Domain.XMax = cfg.Domain.XMin
	if _, _, err := cfg.Build(); err == nil {
		t.Error("degenerate domain should fail")
	}
}

func TestBuildRejectsNonPositiveStride(t *testing.T) {
	for _, stride := range []float64{0, -0.05} {
		cfg := DefaultConfig()
		cfg.Stride = stride
		if _, _, err := cfg.Build(); err == nil {
			t.Errorf("stride %g should fail", stride)
		}
	}
}

func TestPresetsAreIsolatedCopies(t *testing.T) {
	a := GetPreset("classic")
	if a == nil {
		t.Fatal("classic preset missing")
	}
	a.Bx = 99

	b := GetPreset("classic")
	if b.Bx == 99 {
		t.Error("preset mutation leaked into the shared table")
	}

	if GetPreset("nope") != nil {
		t.Error("unknown preset should be nil")
	}

	names := ListPresets()
	if len(names) < 4 {
		t.Fatalf("presets = %v", names)
	}
	for i := 1; i < len(names); i++ {
		if names[i-1] >= names[i] {
			t.Errorf("preset names not sorted: %v", names)
		}
	}
}
