package sprite

import (
	"bytes"
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/thruflo/pixl/internal/logging"
)

// Pixel is a straight (non-premultiplied) RGBA value.
// A pixel with alpha 0 is transparent whatever its color channels hold.
type Pixel [4]uint8

// Transparent is the fully transparent pixel.
var Transparent = Pixel{}

// RGBA builds a Pixel from its channels.
func RGBA(r, g, b, a uint8) Pixel { return Pixel{r, g, b, a} }

// R returns the red channel.
func (p Pixel) R() uint8 { return p[0] }

// G returns the green channel.
func (p Pixel) G() uint8 { return p[1] }

// B returns the blue channel.
func (p Pixel) B() uint8 { return p[2] }

// A returns the straight (non-premultiplied) alpha channel.
func (p Pixel) A() uint8 { return p[3] }

// IsTransparent reports whether the pixel has zero alpha.
func (p Pixel) IsTransparent() bool { return p[3] == 0 }

// Hex formats the pixel as #rrggbb, or #rrggbbaa when not fully opaque.
func (p Pixel) Hex() string {
	if p[3] == 255 {
		return fmt.Sprintf("#%02x%02x%02x", p[0], p[1], p[2])
	}
	return fmt.Sprintf("#%02x%02x%02x%02x", p[0], p[1], p[2], p[3])
}

// ParseColor parses #rgb, #rrggbb or #rrggbbaa (the leading # is optional).
func ParseColor(s string) (Pixel, error) {
	h := strings.TrimPrefix(strings.TrimSpace(s), "#")
	if len(h) == 3 {
		h = string([]byte{h[0], h[0], h[1], h[1], h[2], h[2]})
	}
	if len(h) == 6 {
		h += "ff"
	}
	if len(h) != 8 {
		return Transparent, fmt.Errorf("invalid color %q: want #rrggbb or #rrggbbaa", s)
	}
	v, err := strconv.ParseUint(h, 16, 32)
	if err != nil {
		return Transparent, fmt.Errorf("invalid color %q: %w", s, err)
	}
	return Pixel{uint8(v >> 24), uint8(v >> 16), uint8(v >> 8), uint8(v)}, nil
}

// Grid is a row-major pixel matrix indexed grid[y][x].
type Grid [][]Pixel

// NewGrid returns a fully transparent width x height grid.
func NewGrid(width, height int) Grid {
	if width < 0 {
		width = 0
	}
	if height < 0 {
		height = 0
	}
	g := make(Grid, height)
	for y := range g {
		g[y] = make([]Pixel, width)
	}
	return g
}

// CloneGrid deep-copies a grid. Every save, load, duplicate and move of
// layer data goes through here so no two layers ever share a row.
func CloneGrid(g Grid) Grid {
	if g == nil {
		return nil
	}
	out := make(Grid, len(g))
	for y, row := range g {
		if row == nil {
			continue
		}
		out[y] = make([]Pixel, len(row))
		copy(out[y], row)
	}
	return out
}

// Width returns the length of the first row, or 0 for an empty grid.
func (g Grid) Width() int {
	if len(g) == 0 {
		return 0
	}
	return len(g[0])
}

// Height returns the number of rows.
func (g Grid) Height() int { return len(g) }

// At returns the pixel at (x, y); anything outside the grid is transparent.
func (g Grid) At(x, y int) Pixel {
	if y < 0 || y >= len(g) || x < 0 || x >= len(g[y]) {
		return Transparent
	}
	return g[y][x]
}

// Set writes a pixel; out-of-range coordinates are ignored.
func (g Grid) Set(x, y int, p Pixel) bool {
	if y < 0 || y >= len(g) || x < 0 || x >= len(g[y]) {
		return false
	}
	g[y][x] = p
	return true
}

// HasSize reports whether the grid is exactly width x height.
func (g Grid) HasSize(width, height int) bool {
	if len(g) != height {
		return false
	}
	for _, row := range g {
		if len(row) != width {
			return false
		}
	}
	return true
}

// HasPixelData reports whether the grid holds at least one row of pixels.
func (g Grid) HasPixelData() bool {
	for _, row := range g {
		if len(row) > 0 {
			return true
		}
	}
	return false
}

// Equal compares two grids pixel by pixel.
func (g Grid) Equal(o Grid) bool {
	if len(g) != len(o) {
		return false
	}
	for y := range g {
		if len(g[y]) != len(o[y]) {
			return false
		}
		for x := range g[y] {
			if g[y][x] != o[y][x] {
				return false
			}
		}
	}
	return true
}

// Fill sets every pixel to p.
func (g Grid) Fill(p Pixel) {
	for y := range g {
		for x := range g[y] {
			g[y][x] = p
		}
	}
}

// UnmarshalJSON decodes a grid without ever failing on its contents: rows
// that are not arrays decode as nil (restored later by repair) and pixels
// that are not 4-tuples of numbers decode as Transparent.
func (g *Grid) UnmarshalJSON(data []byte) error {
	*g = nil
	if bytes.Equal(bytes.TrimSpace(data), []byte("null")) {
		return nil
	}

	var rows []json.RawMessage
	if err := json.Unmarshal(data, &rows); err != nil {
		logging.With("component", "sprite").Warn("replaced malformed pixel grid", "error", err)
		return nil
	}

	out := make(Grid, len(rows))
	malformed := 0
	for y, raw := range rows {
		var cells []json.RawMessage
		if err := json.Unmarshal(raw, &cells); err != nil || cells == nil {
			malformed++
			continue
		}
		row := make([]Pixel, len(cells))
		for x, cell := range cells {
			p, ok := decodePixel(cell)
			if !ok {
				malformed++
			}
			row[x] = p
		}
		out[y] = row
	}

	if malformed > 0 {
		logging.With("component", "sprite").Warn("replaced malformed pixels with transparent",
			"count", malformed, "rows", len(rows))
	}

	*g = out
	return nil
}

func decodePixel(raw json.RawMessage) (Pixel, bool) {
	var channels []float64
	if err := json.Unmarshal(raw, &channels); err != nil || len(channels) != 4 {
		return Transparent, false
	}
	var p Pixel
	for i, c := range channels {
		p[i] = clampChannel(c)
	}
	return p, true
}

func clampChannel(v float64) uint8 {
	if math.IsNaN(v) || v <= 0 {
		return 0
	}
	if v >= 255 {
		return 255
	}
	return uint8(math.Round(v))
}
