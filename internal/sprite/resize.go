package sprite

import (
	"image"

	xdraw "golang.org/x/image/draw"
)

// ResizeGrid returns a width x height copy of g. With nearest the content is
// scaled by nearest-neighbor sampling; otherwise it stays anchored at the
// top-left corner and is cropped or padded with Transparent.
func ResizeGrid(g Grid, width, height int, nearest bool) Grid {
	if width <= 0 || height <= 0 {
		return NewGrid(0, 0)
	}
	if nearest && g.HasPixelData() {
		return ScaleGrid(g, width, height)
	}
	out := NewGrid(width, height)
	for y := 0; y < height && y < len(g); y++ {
		copy(out[y], g[y])
	}
	return out
}

// ScaleGrid nearest-neighbor scales g to width x height.
func ScaleGrid(g Grid, width, height int) Grid {
	if width <= 0 || height <= 0 || !g.HasPixelData() {
		return NewGrid(width, height)
	}
	srcW := 0
	for _, row := range g {
		srcW = max(srcW, len(row))
	}
	src := rawImage(normalizeGrid(g, srcW, g.Height()))
	dst := image.NewRGBA(image.Rect(0, 0, width, height))
	xdraw.NearestNeighbor.Scale(dst, dst.Bounds(), src, src.Bounds(), xdraw.Src, nil)
	return gridFromRaw(dst)
}

// CropGrid returns the width x height window of g whose top-left corner is
// (x, y). Parts of the window outside g are transparent.
func CropGrid(g Grid, x, y, width, height int) Grid {
	out := NewGrid(width, height)
	for dy := 0; dy < height; dy++ {
		for dx := 0; dx < width; dx++ {
			out[dy][dx] = g.At(x+dx, y+dy)
		}
	}
	return out
}

// rawImage packs the grid into an image.RGBA byte for byte. The channels are
// straight alpha, so the image is only a carrier for the scaler (Src with
// nearest-neighbor copies bytes without arithmetic) and must not be drawn
// with compositing operators.
func rawImage(g Grid) *image.RGBA {
	img := image.NewRGBA(image.Rect(0, 0, g.Width(), g.Height()))
	for y, row := range g {
		off := y * img.Stride
		for x, p := range row {
			copy(img.Pix[off+x*4:off+x*4+4], p[:])
		}
	}
	return img
}

func gridFromRaw(img *image.RGBA) Grid {
	b := img.Bounds()
	g := NewGrid(b.Dx(), b.Dy())
	for y := range g {
		off := y * img.Stride
		for x := range g[y] {
			copy(g[y][x][:], img.Pix[off+x*4:off+x*4+4])
		}
	}
	return g
}

// Resize rewrites every layer grid of every frame to width x height and
// updates the sprite and frame dimensions. Invalid sizes are rejected.
func (s *Sprite) Resize(width, height int, nearest bool) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	for _, f := range s.Frames {
		if f == nil {
			continue
		}
		for _, l := range f.Layers {
			if l == nil {
				continue
			}
			l.Pixels = ResizeGrid(l.Pixels, width, height, nearest)
		}
		f.Width, f.Height = width, height
	}
	s.Width, s.Height = width, height
	return true
}

// Crop cuts every layer grid of every frame to the given window.
func (s *Sprite) Crop(x, y, width, height int) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	for _, f := range s.Frames {
		if f == nil {
			continue
		}
		for _, l := range f.Layers {
			if l == nil {
				continue
			}
			l.Pixels = CropGrid(l.Pixels, x, y, width, height)
		}
		f.Width, f.Height = width, height
	}
	s.Width, s.Height = width, height
	return true
}
