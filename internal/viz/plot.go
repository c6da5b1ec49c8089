package viz

import "github.com/guptarohit/asciigraph"

// Series plots a time series for the terminal.
func Series(data []float64, caption string) string {
	return asciigraph.Plot(data,
		asciigraph.Height(10),
		asciigraph.Width(80),
		asciigraph.Caption(caption),
	)
}
