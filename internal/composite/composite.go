// Package composite flattens a frame's layer stack into one straight-alpha
// RGBA grid. Live rendering, thumbnails and every export format go through
// the functions here, so they all produce identical pixels.
package composite

import (
	"image"
	"math"

	"github.com/thruflo/pixl/internal/sprite"
)

// Pixel composites the frame's layers at (x, y), bottom to top.
func Pixel(f *sprite.Frame, x, y int) sprite.Pixel {
	if f == nil {
		return sprite.Transparent
	}
	return pixelAt(f.Layers, x, y)
}

// Frame composites every coordinate of the frame.
func Frame(f *sprite.Frame) sprite.Grid {
	if f == nil {
		return sprite.NewGrid(0, 0)
	}
	return Layers(f.Layers, f.Width, f.Height)
}

// Layers composites a bare layer list at the given size. The working layer
// stack uses this so that what is drawn on screen matches what is exported.
func Layers(layers []*sprite.Layer, width, height int) sprite.Grid {
	out := sprite.NewGrid(width, height)
	for y := range out {
		for x := range out[y] {
			out[y][x] = pixelAt(layers, x, y)
		}
	}
	return out
}

// pixelAt applies source-over for each visible layer. Every channel,
// alpha included, is rounded to an 8-bit value after each layer, so the next
// layer blends against exactly what a two-layer composite would have stored.
func pixelAt(layers []*sprite.Layer, x, y int) sprite.Pixel {
	var dr, dg, db, da float64

	for _, l := range layers {
		if l == nil || !l.Visible {
			continue
		}
		p := l.Pixels.At(x, y)
		if p.IsTransparent() {
			continue
		}

		sa := float64(p[3]) / 255 * l.Opacity
		outA := sa + da*(1-sa)
		if outA > 0 {
			dr = math.Round((float64(p[0])*sa + dr*da*(1-sa)) / outA)
			dg = math.Round((float64(p[1])*sa + dg*da*(1-sa)) / outA)
			db = math.Round((float64(p[2])*sa + db*da*(1-sa)) / outA)
		} else {
			dr, dg, db = 0, 0, 0
		}
		da = math.Round(outA*255) / 255
	}

	return sprite.Pixel{channel(dr), channel(dg), channel(db), channel(math.Round(da * 255))}
}

func channel(v float64) uint8 {
	if v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(v)
}

// Image converts a composited grid to a non-premultiplied image for encoders.
func Image(g sprite.Grid) *image.NRGBA {
	w, h := g.Width(), g.Height()
	img := image.NewNRGBA(image.Rect(0, 0, w, h))
	for y, row := range g {
		off := y * img.Stride
		for x := 0; x < w && x < len(row); x++ {
			copy(img.Pix[off+x*4:off+x*4+4], row[x][:])
		}
	}
	return img
}

// Thumbnail composites the frame and scales it by nearest neighbor so its
// longer side is size pixels.
func Thumbnail(f *sprite.Frame, size int) sprite.Grid {
	g := Frame(f)
	w, h := g.Width(), g.Height()
	if size <= 0 || w == 0 || h == 0 {
		return g
	}
	tw, th := size, size
	if w > h {
		th = max(1, h*size/w)
	} else if h > w {
		tw = max(1, w*size/h)
	}
	return sprite.ScaleGrid(g, tw, th)
}
