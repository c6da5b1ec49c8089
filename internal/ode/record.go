package ode

import "sort"

// Frame is a state sample reshaped onto its grid, row-major in x
// (index i*ny + j). It owns its backing slice; callers read it via At.
type Frame struct {
	nx, ny int
	data   []float64
}

// NewFrame copies data into a frame of shape nx by ny. The copy keeps the
// record immutable when the integrator reuses its buffers.
func NewFrame(nx, ny int, data []float64) Frame {
	d := make([]float64, nx*ny)
	copy(d, data)
	return Frame{nx: nx, ny: ny, data: d}
}

func (f Frame) Nx() int { return f.nx }
func (f Frame) Ny() int { return f.ny }

func (f Frame) At(i, j int) float64 {
	return f.data[i*f.ny+j]
}

// Values returns a copy of the flat field values.
func (f Frame) Values() []float64 {
	d := make([]float64, len(f.data))
	copy(d, f.data)
	return d
}

// Row returns a copy of the values along y at a fixed x index.
func (f Frame) Row(i int) []float64 {
	d := make([]float64, f.ny)
	copy(d, f.data[i*f.ny:(i+1)*f.ny])
	return d
}

// Min and Max report the value range of the frame.
func (f Frame) Min() float64 {
	m := f.data[0]
	for _, v := range f.data[1:] {
		if v < m {
			m = v
		}
	}
	return m
}

func (f Frame) Max() float64 {
	m := f.data[0]
	for _, v := range f.data[1:] {
		if v > m {
			m = v
		}
	}
	return m
}

// Record is the sampled solution of a solve: frames at the requested output
// times, in increasing time order. Immutable once returned.
type Record struct {
	times  []float64
	frames []Frame
	stats  Stats
}

func NewRecord() *Record {
	return &Record{}
}

// Append adds a sample. Only the solver calls this, before the record is
// handed to the caller.
func (r *Record) Append(t float64, f Frame) {
	r.times = append(r.times, t)
	r.frames = append(r.frames, f)
}

func (r *Record) SetStats(s Stats) { r.stats = s }

func (r *Record) Len() int { return len(r.times) }

func (r *Record) Time(k int) float64 { return r.times[k] }

func (r *Record) Frame(k int) Frame { return r.frames[k] }

func (r *Record) Stats() Stats { return r.stats }

// Times returns a copy of the sample times.
func (r *Record) Times() []float64 {
	t := make([]float64, len(r.times))
	copy(t, r.times)
	return t
}

// Nearest returns the index of the sample closest in time to t.
func (r *Record) Nearest(t float64) int {
	if len(r.times) == 0 {
		return -1
	}
	k := sort.SearchFloat64s(r.times, t)
	if k == len(r.times) {
		return k - 1
	}
	if k > 0 && t-r.times[k-1] < r.times[k]-t {
		return k - 1
	}
	return k
}

// Each calls fn for every sample in time order.
func (r *Record) Each(fn func(t float64, f Frame)) {
	for k, t := range r.times {
		fn(t, r.frames[k])
	}
}
