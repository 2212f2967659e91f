// Package export turns composited frames into files: scaled PNG rasters,
// SVG with one rect per visible pixel, animated GIF and PNG sprite sheets.
//
// Every path composites through the composite package, so exports match what the editor
// shows pixel for pixel.
package export

import (
	"bufio"
	"errors"
	"fmt"
	"image"
	"image/png"
	"io"
	"math"
	"strconv"

	"github.com/thruflo/pixl/internal/composite"
	"github.com/thruflo/pixl/internal/sprite"
)

// ErrInvalidScale is returned for scale factors below 1.
var ErrInvalidScale = errors.New("scale must be at least 1")

// ErrNoFrames is returned when an animation has nothing to encode.
var ErrNoFrames = errors.New("no frames to export")

// ErrNilFrame is returned when a still export is given no frame.
var ErrNilFrame = errors.New("no frame to export")

// Format names an export target.
type Format string

// Export formats.
const (
	FormatPNG   Format = "png"
	FormatSVG   Format = "svg"
	FormatGIF   Format = "gif"
	FormatSheet Format = "sheet"
)

// Formats lists every supported format.
var Formats = []Format{FormatPNG, FormatSVG, FormatGIF, FormatSheet}

// ParseFormat returns the Format for name.
func ParseFormat(name string) (Format, error) {
	for _, f := range Formats {
		if string(f) == name {
			return f, nil
		}
	}
	return "", fmt.Errorf("unknown export format %q", name)
}

// Ext returns the file extension written for f.
func (f Format) Ext() string {
	switch f {
	case FormatSVG:
		return ".svg"
	case FormatGIF:
		return ".gif"
	default:
		return ".png"
	}
}

// Encoder writes a sequence of frames with per-frame display durations in
// milliseconds.
type Encoder interface {
	Encode(w io.Writer, frames []image.Image, delaysMs []int) error
}

func checkFrame(f *sprite.Frame, scale int) error {
	if f == nil {
		return ErrNilFrame
	}
	return checkScale(scale)
}

func checkScale(scale int) error {
	if scale < 1 {
		return fmt.Errorf("%w: got %d", ErrInvalidScale, scale)
	}
	return nil
}

// Raster composites f and scales it by an integer factor with
// nearest-neighbor sampling.
func Raster(f *sprite.Frame, scale int) (*image.NRGBA, error) {
	if err := checkFrame(f, scale); err != nil {
		return nil, err
	}
	return composite.Image(scaled(composite.Frame(f), f.Width, f.Height, scale)), nil
}

func scaled(g sprite.Grid, w, h, scale int) sprite.Grid {
	if scale == 1 {
		return g
	}
	return sprite.ScaleGrid(g, w*scale, h*scale)
}

// PNG writes frame f as a PNG at the given scale.
func PNG(w io.Writer, f *sprite.Frame, scale int) error {
	img, err := Raster(f, scale)
	if err != nil {
		return err
	}
	if err := png.Encode(w, img); err != nil {
		return fmt.Errorf("failed to encode png: %w", err)
	}
	return nil
}

// SVG writes frame f as one filled rect per pixel with alpha above zero.
// Opaque pixels use rgb(); translucent ones use rgba() with alpha a/255
// rounded to three decimals. scale only sets the rendered size.
func SVG(w io.Writer, f *sprite.Frame, scale int) error {
	if err := checkFrame(f, scale); err != nil {
		return err
	}
	g := composite.Frame(f)

	bw := bufio.NewWriter(w)
	fmt.Fprintf(bw, `<svg xmlns="http://www.w3.org/2000/svg" width="%d" height="%d" viewBox="0 0 %d %d" shape-rendering="crispEdges">`+"\n",
		f.Width*scale, f.Height*scale, f.Width, f.Height)
	for y, row := range g {
		for x, p := range row {
			if p.IsTransparent() {
				continue
			}
			fmt.Fprintf(bw, `<rect x="%d" y="%d" width="1" height="1" fill="%s"/>`+"\n", x, y, SVGFill(p))
		}
	}
	bw.WriteString("</svg>\n")
	if err := bw.Flush(); err != nil {
		return fmt.Errorf("failed to write svg: %w", err)
	}
	return nil
}

// SVGFill formats the fill attribute for p.
func SVGFill(p sprite.Pixel) string {
	if p.A() == 255 {
		return fmt.Sprintf("rgb(%d,%d,%d)", p.R(), p.G(), p.B())
	}
	a := math.Round(float64(p.A())/255*1000) / 1000
	return fmt.Sprintf("rgba(%d,%d,%d,%s)", p.R(), p.G(), p.B(), strconv.FormatFloat(a, 'f', -1, 64))
}
