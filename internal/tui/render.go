package tui

import (
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/thruflo/pixl/internal/sprite"
)

// Box drawing characters (Unicode)
const (
	BoxTopLeft     = "┌"
	BoxTopRight    = "┐"
	BoxBottomLeft  = "└"
	BoxBottomRight = "┘"
	BoxHorizontal  = "─"
	BoxVertical    = "│"
)

// HalfBlock paints the top pixel of a cell in the foreground color and the
// bottom pixel in the background color.
const HalfBlock = "▀"

// Checkerboard shades shown behind transparent pixels.
var (
	CheckerLight = sprite.RGBA(0xcc, 0xcc, 0xcc, 255)
	CheckerDark  = sprite.RGBA(0x99, 0x99, 0x99, 255)
)

// BoxWithContent draws a box containing the given content lines.
// Each line is padded/truncated to fit within the box.
func BoxWithContent(width int, content []string) []string {
	if width < 4 {
		return nil
	}

	innerWidth := width - 4 // Account for borders and padding
	height := len(content) + 2

	lines := make([]string, height)

	lines[0] = BoxTopLeft + strings.Repeat(BoxHorizontal, width-2) + BoxTopRight
	for i, line := range content {
		lines[i+1] = BoxVertical + " " + PadOrTruncate(line, innerWidth) + " " + BoxVertical
	}
	lines[height-1] = BoxBottomLeft + strings.Repeat(BoxHorizontal, width-2) + BoxBottomRight

	return lines
}

// PadOrTruncate pads or truncates a string to exactly width characters.
// Uses visual width (rune count) for proper Unicode handling.
func PadOrTruncate(s string, width int) string {
	if width <= 0 {
		return ""
	}

	runeLen := utf8.RuneCountInString(s)

	if runeLen == width {
		return s
	}

	if runeLen < width {
		return s + strings.Repeat(" ", width-runeLen)
	}

	// Truncate, preserving rune boundaries
	runes := []rune(s)
	if width >= 3 {
		return string(runes[:width-3]) + "..."
	}
	return string(runes[:width])
}

// ProgressBar renders a frame position bar.
// Returns a string like "[████░░░░░░] 3/8"
func ProgressBar(current, total, width int) string {
	if total == 0 || width < 4 {
		return ""
	}
	filled := (current + 1) * width / total
	if filled > width {
		filled = width
	}
	return "[" + strings.Repeat("█", filled) + strings.Repeat("░", width-filled) + "]" +
		fmt.Sprintf(" %d/%d", current+1, total)
}

// Style applies ANSI style codes to text.
func Style(s string, codes ...string) string {
	if len(codes) == 0 {
		return s
	}
	return strings.Join(codes, "") + s + Reset
}

// Checker returns the checkerboard shade for pixel (x, y).
func Checker(x, y int) sprite.Pixel {
	if (x+y)%2 == 0 {
		return CheckerLight
	}
	return CheckerDark
}

// OverChecker blends p onto the checkerboard at (x, y) and returns an
// opaque display color.
func OverChecker(p sprite.Pixel, x, y int) sprite.Pixel {
	a := int(p.A())
	if a == 255 {
		return p
	}
	bg := Checker(x, y)
	mix := func(fg, bg uint8) uint8 {
		return uint8((int(fg)*a + int(bg)*(255-a) + 127) / 255)
	}
	return sprite.RGBA(mix(p.R(), bg.R()), mix(p.G(), bg.G()), mix(p.B(), bg.B()), 255)
}

// RenderGrid draws g with one terminal cell per two pixel rows. An odd
// final row pairs with the checkerboard.
func RenderGrid(g sprite.Grid) []string {
	w, h := g.Width(), g.Height()
	if w == 0 || h == 0 {
		return nil
	}
	lines := make([]string, 0, (h+1)/2)
	for y := 0; y < h; y += 2 {
		var b strings.Builder
		for x := 0; x < w; x++ {
			top := OverChecker(g.At(x, y), x, y)
			bottom := Checker(x, y+1)
			if y+1 < h {
				bottom = OverChecker(g.At(x, y+1), x, y+1)
			}
			b.WriteString(FgRGB(top))
			b.WriteString(BgRGB(bottom))
			b.WriteString(HalfBlock)
		}
		b.WriteString(Reset)
		lines = append(lines, b.String())
	}
	return lines
}
