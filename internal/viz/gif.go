package viz

import (
	"fmt"
	"image"
	"image/color"
	"image/gif"
	"io"

	"github.com/dverbeek/advect/internal/ode"
)

// palette256 discretizes the gradient for GIF frames.
func palette256() color.Palette {
	p := make(color.Palette, 256)
	for k := range p {
		c := colorAt(float64(k) / 255.0)
		r, g, b := c.RGB255()
		p[k] = color.RGBA{R: r, G: g, B: b, A: 0xff}
	}
	return p
}

// EncodeGIF writes the record as an animated heatmap GIF, cell pixels per
// grid point and delay in hundredths of a second per frame. The whole
// animation shares one color scale.
func EncodeGIF(w io.Writer, rec *ode.Record, cell, delay int) error {
	if rec.Len() == 0 {
		return fmt.Errorf("viz: empty record")
	}
	if cell < 1 {
		cell = 1
	}
	if delay < 1 {
		delay = 4
	}
	min, max := Range(rec)
	span := max - min
	if span == 0 {
		span = 1
	}
	pal := palette256()

	f0 := rec.Frame(0)
	wpx, hpx := f0.Nx()*cell, f0.Ny()*cell

	anim := &gif.GIF{LoopCount: 0}
	rec.Each(func(_ float64, f ode.Frame) {
		img := image.NewPaletted(image.Rect(0, 0, wpx, hpx), pal)
		for i := 0; i < f.Nx(); i++ {
			for j := 0; j < f.Ny(); j++ {
				v := (f.At(i, j) - min) / span
				idx := uint8(clamp01(v) * 255)
				for dx := 0; dx < cell; dx++ {
					for dy := 0; dy < cell; dy++ {
						// image y axis points down
						img.SetColorIndex(i*cell+dx, hpx-1-(j*cell+dy), idx)
					}
				}
			}
		}
		anim.Image = append(anim.Image, img)
		anim.Delay = append(anim.Delay, delay)
	})

	return gif.EncodeAll(w, anim)
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
