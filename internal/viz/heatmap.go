// Package viz renders solved transport fields for the terminal and for
// GIF export. It only ever reads records; nothing here feeds back into
// the solver.
package viz

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/lucasb-eyer/go-colorful"

	"github.com/dverbeek/advect/internal/ode"
)

// gradient stops, cold to hot.
var gradient = []colorful.Color{
	mustHex("#10141f"),
	mustHex("#1f4e8c"),
	mustHex("#2bb6af"),
	mustHex("#f5d547"),
	mustHex("#f06543"),
}

func mustHex(s string) colorful.Color {
	c, err := colorful.Hex(s)
	if err != nil {
		panic(err)
	}
	return c
}

// colorAt maps a normalized value in [0,1] onto the gradient, blending in
// Luv space for perceptual evenness.
func colorAt(v float64) colorful.Color {
	if v <= 0 {
		return gradient[0]
	}
	if v >= 1 {
		return gradient[len(gradient)-1]
	}
	pos := v * float64(len(gradient)-1)
	k := int(pos)
	return gradient[k].BlendLuv(gradient[k+1], pos-float64(k))
}

var headerStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("86")).Bold(true)

// Range finds the global value range over all frames of a record, so every
// frame of an animation shares one color scale.
func Range(rec *ode.Record) (min, max float64) {
	if rec.Len() == 0 {
		return 0, 1
	}
	min, max = rec.Frame(0).Min(), rec.Frame(0).Max()
	rec.Each(func(_ float64, f ode.Frame) {
		if v := f.Min(); v < min {
			min = v
		}
		if v := f.Max(); v > max {
			max = v
		}
	})
	return min, max
}

// Heatmap renders a frame as a grid of colored cells, width by height
// terminal rows, y increasing upward. Cells are two characters wide to
// roughly square them up against the terminal's cell aspect.
func Heatmap(f ode.Frame, width, height int, min, max float64) string {
	if width <= 0 {
		width = 40
	}
	if height <= 0 {
		height = 20
	}
	span := max - min
	if span == 0 {
		span = 1
	}

	var sb strings.Builder
	for row := 0; row < height; row++ {
		// top row shows ymax
		j := (height - 1 - row) * (f.Ny() - 1) / max1(height-1)
		for col := 0; col < width; col++ {
			i := col * (f.Nx() - 1) / max1(width-1)
			v := (f.At(i, j) - min) / span
			cell := lipgloss.NewStyle().Foreground(lipgloss.Color(colorAt(v).Hex()))
			sb.WriteString(cell.Render("██"))
		}
		sb.WriteByte('\n')
	}
	return sb.String()
}

// HeatmapFrame adds a one-line header with the sample time and range.
func HeatmapFrame(t float64, f ode.Frame, width, height int, min, max float64) string {
	head := headerStyle.Render(fmt.Sprintf("t = %.3f   range [%.4g, %.4g]", t, f.Min(), f.Max()))
	return head + "\n" + Heatmap(f, width, height, min, max)
}

func max1(n int) int {
	if n < 1 {
		return 1
	}
	return n
}
