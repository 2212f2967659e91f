package export

import (
	"fmt"
	"image"
	"image/color"
	"image/color/palette"
	"image/gif"
	"image/png"
	"io"

	xdraw "golang.org/x/image/draw"

	"github.com/thruflo/pixl/internal/animation"
	"github.com/thruflo/pixl/internal/composite"
	"github.com/thruflo/pixl/internal/sprite"
)

// Frames composites every frame of s at the given scale.
func Frames(s *sprite.Sprite, scale int) ([]image.Image, error) {
	if err := checkScale(scale); err != nil {
		return nil, err
	}
	if s == nil || len(s.Frames) == 0 {
		return nil, ErrNoFrames
	}
	out := make([]image.Image, 0, len(s.Frames))
	for _, f := range s.Frames {
		img, err := Raster(f, scale)
		if err != nil {
			return nil, err
		}
		out = append(out, img)
	}
	return out, nil
}

// Animation composites every frame of s and hands them to enc with a
// display duration of 1000/fps milliseconds each.
func Animation(w io.Writer, s *sprite.Sprite, fps, scale int, enc Encoder) error {
	frames, err := Frames(s, scale)
	if err != nil {
		return err
	}
	delay := animation.FrameDelayMillis(fps)
	delays := make([]int, len(frames))
	for i := range delays {
		delays[i] = delay
	}
	return enc.Encode(w, frames, delays)
}

// GIF encodes frames as an animated GIF. Palette index 0 is transparent;
// pixels below half alpha map to it because GIF has no partial alpha.
type GIF struct {
	// LoopCount follows image/gif: 0 loops forever, -1 plays once.
	LoopCount int
}

// Encode implements Encoder.
func (e GIF) Encode(w io.Writer, frames []image.Image, delaysMs []int) error {
	if len(frames) == 0 {
		return ErrNoFrames
	}
	anim := &gif.GIF{LoopCount: e.LoopCount}
	for i, img := range frames {
		flat := flatten(img)
		anim.Image = append(anim.Image, paletted(flat))
		delay := 0
		if i < len(delaysMs) {
			delay = (delaysMs[i] + 5) / 10
		}
		anim.Delay = append(anim.Delay, delay)
		anim.Disposal = append(anim.Disposal, gif.DisposalBackground)
	}
	if err := gif.EncodeAll(w, anim); err != nil {
		return fmt.Errorf("failed to encode gif: %w", err)
	}
	return nil
}

// flatten snaps alpha to 0 or 255.
func flatten(img image.Image) *image.NRGBA {
	b := img.Bounds()
	out := image.NewNRGBA(b)
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := color.NRGBAModel.Convert(img.At(x, y)).(color.NRGBA)
			if c.A < 128 {
				continue
			}
			c.A = 255
			out.SetNRGBA(x, y, c)
		}
	}
	return out
}

// Palette returns an exact palette for img when it has at most 255 opaque
// colors, and otherwise Plan9 behind the transparent entry. exact reports
// which one was chosen.
func Palette(img *image.NRGBA) (color.Palette, bool) {
	pal := color.Palette{color.NRGBA{}}
	seen := map[color.NRGBA]bool{}
	b := img.Bounds()
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			if c.A == 0 || seen[c] {
				continue
			}
			if len(pal) == 256 {
				return append(color.Palette{color.NRGBA{}}, palette.Plan9[:255]...), false
			}
			seen[c] = true
			pal = append(pal, c)
		}
	}
	return pal, true
}

func paletted(img *image.NRGBA) *image.Paletted {
	b := img.Bounds()
	pal, exact := Palette(img)
	out := image.NewPaletted(b, pal)
	if !exact {
		xdraw.FloydSteinberg.Draw(out, b, img, b.Min)
		return out
	}

	index := make(map[color.NRGBA]uint8, len(pal))
	for i, c := range pal {
		index[c.(color.NRGBA)] = uint8(i)
	}
	for y := b.Min.Y; y < b.Max.Y; y++ {
		for x := b.Min.X; x < b.Max.X; x++ {
			c := img.NRGBAAt(x, y)
			if c.A == 0 {
				continue
			}
			out.SetColorIndex(x, y, index[c])
		}
	}
	return out
}

// SheetLayout describes how frames are tiled in a sprite sheet.
type SheetLayout struct {
	Columns     int
	Rows        int
	FrameWidth  int
	FrameHeight int
}

// Layout computes the grid for n frames of w x h pixels. columns <= 0 puts
// every frame on one row.
func Layout(n, w, h, columns int) SheetLayout {
	if columns <= 0 || columns > n {
		columns = n
	}
	if columns <= 0 {
		columns = 1
	}
	return SheetLayout{
		Columns:     columns,
		Rows:        (n + columns - 1) / columns,
		FrameWidth:  w,
		FrameHeight: h,
	}
}

// Sheet tiles every composited frame of s left to right, top to bottom.
// Each frame is composited at the sprite's size, so a frame whose stored
// size disagrees is cropped or padded to its cell.
func Sheet(s *sprite.Sprite, scale, columns int) (sprite.Grid, SheetLayout, error) {
	if err := checkScale(scale); err != nil {
		return nil, SheetLayout{}, err
	}
	if s == nil || len(s.Frames) == 0 {
		return nil, SheetLayout{}, ErrNoFrames
	}
	fw, fh := s.Width*scale, s.Height*scale
	l := Layout(len(s.Frames), fw, fh, columns)
	sheet := sprite.NewGrid(l.Columns*fw, l.Rows*fh)
	for i, f := range s.Frames {
		if f == nil {
			continue
		}
		g := scaled(composite.Layers(f.Layers, s.Width, s.Height), s.Width, s.Height, scale)
		ox, oy := (i%l.Columns)*fw, (i/l.Columns)*fh
		for y, row := range g {
			copy(sheet[oy+y][ox:ox+fw], row)
		}
	}
	return sheet, l, nil
}

// SpriteSheet writes Sheet as a PNG.
func SpriteSheet(w io.Writer, s *sprite.Sprite, scale, columns int) (SheetLayout, error) {
	sheet, l, err := Sheet(s, scale, columns)
	if err != nil {
		return l, err
	}
	if err := png.Encode(w, composite.Image(sheet)); err != nil {
		return l, fmt.Errorf("failed to encode sprite sheet: %w", err)
	}
	return l, nil
}
