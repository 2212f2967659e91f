package sprite

import (
	"fmt"
	"math"
	"strings"

	"github.com/thruflo/pixl/internal/logging"
)

// IssueKind classifies a repaired problem.
type IssueKind string

// Issue kinds reported by RepairSprite and RepairFrame.
const (
	IssueMissingFrames      IssueKind = "missing_frames"
	IssueMissingLayers      IssueKind = "missing_layers"
	IssueMalformedPixelGrid IssueKind = "malformed_pixel_grid"
	IssueInvalidOpacity     IssueKind = "invalid_opacity"
	IssueIndexOutOfRange    IssueKind = "index_out_of_range"
	IssueInvalidDimensions  IssueKind = "invalid_dimensions"
	IssueMissingID          IssueKind = "missing_id"
	IssueInvalidBlendMode   IssueKind = "invalid_blend_mode"
	IssueMissingField       IssueKind = "missing_field"
)

// Issue is one repaired problem. Frame and Layer are -1 when not applicable.
type Issue struct {
	Kind   IssueKind
	Frame  int
	Layer  int
	Detail string
}

func (i Issue) String() string {
	return fmt.Sprintf("%s (frame %d, layer %d): %s", i.Kind, i.Frame, i.Layer, i.Detail)
}

// Report collects everything a repair pass changed.
type Report struct {
	Issues []Issue
}

// OK reports whether nothing had to be repaired.
func (r *Report) OK() bool { return len(r.Issues) == 0 }

// Count returns the number of issues of the given kind.
func (r *Report) Count(kind IssueKind) int {
	n := 0
	for _, i := range r.Issues {
		if i.Kind == kind {
			n++
		}
	}
	return n
}

func (r *Report) add(kind IssueKind, frame, layer int, format string, args ...any) {
	issue := Issue{Kind: kind, Frame: frame, Layer: layer, Detail: fmt.Sprintf(format, args...)}
	r.Issues = append(r.Issues, issue)
	logging.With("component", "sprite").Warn("repaired sprite data",
		"kind", string(kind), "frame", frame, "layer", layer, "detail", issue.Detail)
}

// RepairSprite brings a sprite back to a renderable state in place: positive
// dimensions, at least one frame, and every frame repaired against the sprite
// size. When the sprite has no frames, one is synthesized from fallback if it
// holds pixel data, otherwise from a transparent grid. It never fails.
func RepairSprite(s *Sprite, fallback Grid) *Report {
	r := &Report{}
	if s == nil {
		return r
	}

	if s.ID == "" {
		s.ID = NewID()
		r.add(IssueMissingID, -1, -1, "sprite had no id")
	}
	if s.Width <= 0 || s.Height <= 0 {
		w, h := s.Width, s.Height
		if fallback.HasPixelData() {
			s.Width, s.Height = fallback.Width(), fallback.Height()
		} else {
			s.Width, s.Height = DefaultWidth, DefaultHeight
		}
		r.add(IssueInvalidDimensions, -1, -1, "sprite size %dx%d replaced with %dx%d", w, h, s.Width, s.Height)
	}

	frames := s.Frames[:0:0]
	for _, f := range s.Frames {
		if f != nil {
			frames = append(frames, f)
		}
	}
	if dropped := len(s.Frames) - len(frames); dropped > 0 {
		r.add(IssueMissingFrames, -1, -1, "dropped %d null frames", dropped)
	}
	s.Frames = frames

	if len(s.Frames) == 0 {
		f := NewFrame(FrameName(0), s.Width, s.Height)
		if fallback.HasPixelData() {
			f.Layers[0].Pixels = normalizeGrid(CloneGrid(fallback), s.Width, s.Height)
			r.add(IssueMissingFrames, 0, -1, "synthesized frame from fallback pixel data")
		} else {
			r.add(IssueMissingFrames, 0, -1, "synthesized empty frame")
		}
		s.Frames = []*Frame{f}
	}

	for i, f := range s.Frames {
		repairFrame(f, i, s.Width, s.Height, r)
	}
	return r
}

// RepairFrame repairs a single frame in place against the given size.
func RepairFrame(f *Frame, width, height int) *Report {
	r := &Report{}
	if f == nil {
		return r
	}
	repairFrame(f, -1, width, height, r)
	return r
}

func repairFrame(f *Frame, fi, width, height int, r *Report) {
	if f.ID == "" {
		f.ID = NewID()
		r.add(IssueMissingID, fi, -1, "frame had no id")
	}
	if f.Width != width || f.Height != height {
		r.add(IssueInvalidDimensions, fi, -1, "frame size %dx%d does not match %dx%d",
			f.Width, f.Height, width, height)
		f.Width, f.Height = width, height
	}

	layers := f.Layers[:0:0]
	for _, l := range f.Layers {
		if l != nil {
			layers = append(layers, l)
		}
	}
	if len(layers) == 0 {
		r.add(IssueMissingLayers, fi, -1, "synthesized %s layer", DefaultLayerName)
		layers = []*Layer{NewLayer(DefaultLayerName, width, height)}
	} else if len(layers) != len(f.Layers) {
		r.add(IssueMissingLayers, fi, -1, "dropped %d null layers", len(f.Layers)-len(layers))
	}
	f.Layers = layers

	for li, l := range f.Layers {
		repairLayer(l, fi, li, width, height, r)
	}

	if f.ActiveLayerIndex < 0 || f.ActiveLayerIndex >= len(f.Layers) {
		r.add(IssueIndexOutOfRange, fi, -1, "active layer %d clamped", f.ActiveLayerIndex)
		f.ActiveLayerIndex = clamp(f.ActiveLayerIndex, 0, len(f.Layers)-1)
	}
}

func repairLayer(l *Layer, fi, li, width, height int, r *Report) {
	if l.ID == "" {
		l.ID = NewID()
		r.add(IssueMissingID, fi, li, "layer had no id")
	}
	if len(l.missing) > 0 {
		r.add(IssueMissingField, fi, li, "%s restored to defaults", strings.Join(l.missing, " and "))
		l.missing = nil
	}
	if math.IsNaN(l.Opacity) {
		l.Opacity = 1
		r.add(IssueInvalidOpacity, fi, li, "opacity NaN reset to 1")
	} else if l.Opacity < 0 || l.Opacity > 1 {
		r.add(IssueInvalidOpacity, fi, li, "opacity %g clamped", l.Opacity)
		l.Opacity = math.Max(0, math.Min(1, l.Opacity))
	}
	if l.BlendMode != BlendNormal {
		if l.BlendMode != "" {
			r.add(IssueInvalidBlendMode, fi, li, "blend mode %q replaced with %s", l.BlendMode, BlendNormal)
		}
		l.BlendMode = BlendNormal
	}
	if !l.Pixels.HasSize(width, height) {
		r.add(IssueMalformedPixelGrid, fi, li, "grid %dx%d normalized to %dx%d",
			l.Pixels.Width(), l.Pixels.Height(), width, height)
		l.Pixels = normalizeGrid(l.Pixels, width, height)
	}
}

// normalizeGrid pads missing rows and pixels with Transparent and truncates
// overflow so the result is exactly width x height. Rows that are already
// the right length are reused.
func normalizeGrid(g Grid, width, height int) Grid {
	if len(g) > height {
		g = g[:height]
	}
	out := make(Grid, height)
	for y := 0; y < height; y++ {
		var row []Pixel
		if y < len(g) {
			row = g[y]
		}
		switch {
		case len(row) == width:
			out[y] = row
		case len(row) > width:
			out[y] = row[:width:width]
		default:
			padded := make([]Pixel, width)
			copy(padded, row)
			out[y] = padded
		}
	}
	return out
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	if v < lo {
		return lo
	}
	if v > hi {
		return hi
	}
	return v
}
