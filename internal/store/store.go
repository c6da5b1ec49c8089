// Package store persists solver runs under a data directory, one directory
// per run holding metadata.json and frames.csv.
package store

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/dverbeek/advect/internal/config"
	"github.com/dverbeek/advect/internal/ode"
	"github.com/dverbeek/advect/internal/pde"
)

type Store struct {
	baseDir string
}

func New(baseDir string) *Store {
	return &Store{baseDir: baseDir}
}

func (s *Store) Init() error {
	return os.MkdirAll(s.baseDir, 0755)
}

type RunMetadata struct {
	ID        string         `json:"id"`
	Timestamp time.Time      `json:"timestamp"`
	Config    *config.Config `json:"config"`
	Samples   int            `json:"samples"`
	Steps     int            `json:"steps"`
	Rejected  int            `json:"rejected"`
	Evals     int            `json:"evals"`
}

// Save writes a run directory and returns its ID. Frames go to a CSV with
// one row per sample: time followed by the flat field values.
func (s *Store) Save(cfg *config.Config, rec *ode.Record) (string, error) {
	runID := fmt.Sprintf("transport_%d", time.Now().UnixNano())
	runDir := filepath.Join(s.baseDir, runID)

	if err := os.MkdirAll(runDir, 0755); err != nil {
		return "", err
	}

	stats := rec.Stats()
	meta := RunMetadata{
		ID:        runID,
		Timestamp: time.Now(),
		Config:    cfg,
		Samples:   rec.Len(),
		Steps:     stats.Steps,
		Rejected:  stats.Rejected,
		Evals:     stats.Evals,
	}

	metaFile, err := os.Create(filepath.Join(runDir, "metadata.json"))
	if err != nil {
		return "", err
	}
	defer metaFile.Close()

	enc := json.NewEncoder(metaFile)
	enc.SetIndent("", "  ")
	if err := enc.Encode(meta); err != nil {
		return "", err
	}

	csvFile, err := os.Create(filepath.Join(runDir, "frames.csv"))
	if err != nil {
		return "", err
	}
	defer csvFile.Close()

	w := csv.NewWriter(csvFile)
	defer w.Flush()

	if rec.Len() == 0 {
		return runID, nil
	}

	n := len(rec.Frame(0).Values())
	header := make([]string, 0, n+1)
	header = append(header, "time")
	for i := 0; i < n; i++ {
		header = append(header, fmt.Sprintf("u%d", i))
	}
	if err := w.Write(header); err != nil {
		return "", err
	}

	for k := 0; k < rec.Len(); k++ {
		row := make([]string, 0, n+1)
		row = append(row, strconv.FormatFloat(rec.Time(k), 'g', -1, 64))
		for _, v := range rec.Frame(k).Values() {
			row = append(row, strconv.FormatFloat(v, 'g', -1, 64))
		}
		if err := w.Write(row); err != nil {
			return "", err
		}
	}

	return runID, nil
}

func (s *Store) List() ([]RunMetadata, error) {
	entries, err := os.ReadDir(s.baseDir)
	if err != nil {
		if os.IsNotExist(err) {
			return []RunMetadata{}, nil
		}
		return nil, err
	}

	runs := make([]RunMetadata, 0)
	for _, entry := range entries {
		if !entry.IsDir() {
			continue
		}
		meta, err := s.Load(entry.Name())
		if err != nil || meta.Config == nil {
			continue
		}
		runs = append(runs, *meta)
	}
	return runs, nil
}

func (s *Store) Load(runID string) (*RunMetadata, error) {
	data, err := os.ReadFile(filepath.Join(s.baseDir, runID, "metadata.json"))
	if err != nil {
		return nil, err
	}
	var meta RunMetadata
	if err := json.Unmarshal(data, &meta); err != nil {
		return nil, err
	}
	return &meta, nil
}

// LoadRecord rebuilds the grid and the sampled record of a saved run.
func (s *Store) LoadRecord(runID string) (*ode.Record, pde.Grid, error) {
	meta, err := s.Load(runID)
	if err != nil {
		return nil, pde.Grid{}, err
	}
	if meta.Config == nil {
		return nil, pde.Grid{}, fmt.Errorf("store: run %s has no config in metadata.json", runID)
	}
	d := meta.Config.Domain
	grid, err := pde.NewGrid(d.XMin, d.XMax, d.Nx, d.YMin, d.YMax, d.Ny)
	if err != nil {
		return nil, pde.Grid{}, err
	}

	file, err := os.Open(filepath.Join(s.baseDir, runID, "frames.csv"))
	if err != nil {
		return nil, pde.Grid{}, err
	}
	defer file.Close()

	r := csv.NewReader(file)
	records, err := r.ReadAll()
	if err != nil {
		return nil, pde.Grid{}, err
	}

	px, py := grid.Shape()
	rec := ode.NewRecord()
	for i := 1; i < len(records); i++ {
		row := records[i]
		if len(row) != grid.Dim()+1 {
			return nil, pde.Grid{}, fmt.Errorf("store: frame row %d has %d values, want %d", i, len(row)-1, grid.Dim())
		}
		t, err := strconv.ParseFloat(row[0], 64)
		if err != nil {
			return nil, pde.Grid{}, err
		}
		vals := make([]float64, grid.Dim())
		for j := range vals {
			v, err := strconv.ParseFloat(row[j+1], 64)
			if err != nil {
				return nil, pde.Grid{}, err
			}
			vals[j] = v
		}
		rec.Append(t, ode.NewFrame(px, py, vals))
	}
	rec.SetStats(ode.Stats{Steps: meta.Steps, Rejected: meta.Rejected, Evals: meta.Evals})
	return rec, grid, nil
}
