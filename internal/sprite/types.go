// Package sprite holds the pixl data model: a Sprite is an ordered list of
// Frames, a Frame is a stack of Layers, and a Layer owns one pixel Grid sized
// to its Frame.
//
// The model is plain data. It is serialized as-is (see the json tags) and
// repaired in place by RepairSprite and RepairFrame when it arrives malformed.
package sprite

import (
	"encoding/json"
	"errors"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/thruflo/pixl/internal/logging"
)

// Defaults used for new sprites and when repairing invalid dimensions.
const (
	DefaultWidth         = 32
	DefaultHeight        = 32
	DefaultLayerName     = "Background"
	BlendNormal          = "normal"
	DefaultFrameBaseName = "Frame"
)

// NewID returns a fresh identifier for a sprite, frame or layer.
func NewID() string { return uuid.NewString() }

// Layer is one independently visible, lockable pixel grid within a Frame.
type Layer struct {
	ID        string  `json:"id"`
	Name      string  `json:"name"`
	Visible   bool    `json:"visible"`
	Opacity   float64 `json:"opacity"`
	Locked    bool    `json:"locked"`
	BlendMode string  `json:"blendMode"`
	Pixels    Grid    `json:"pixels"`

	// missing lists keys that were absent or mistyped when decoded;
	// repair reports and clears them.
	missing []string
}

// UnmarshalJSON decodes a layer, defaulting an absent or mistyped visible
// flag to true and opacity to 1 so that partially written layers still
// render.
func (l *Layer) UnmarshalJSON(data []byte) error {
	type plain Layer
	var doc struct {
		plain
		Visible json.RawMessage `json:"visible"`
		Opacity json.RawMessage `json:"opacity"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		var typeErr *json.UnmarshalTypeError
		if !errors.As(err, &typeErr) {
			return err
		}
		logging.With("component", "sprite").Warn("ignored mistyped layer field",
			"field", typeErr.Field, "error", err)
	}

	*l = Layer(doc.plain)
	l.missing = nil
	l.Visible, l.Opacity = true, 1
	if !decodeField(doc.Visible, &l.Visible) {
		l.missing = append(l.missing, "visible")
	}
	if !decodeField(doc.Opacity, &l.Opacity) {
		l.missing = append(l.missing, "opacity")
	}
	return nil
}

// decodeField stores raw into dst and reports whether it held a value of
// the right type. dst is untouched otherwise.
func decodeField[T any](raw json.RawMessage, dst *T) bool {
	var v *T
	if len(raw) == 0 || json.Unmarshal(raw, &v) != nil || v == nil {
		return false
	}
	*dst = *v
	return true
}

// Frame is one still image of the animation.
type Frame struct {
	ID               string   `json:"id"`
	Name             string   `json:"name"`
	Width            int      `json:"width"`
	Height           int      `json:"height"`
	ActiveLayerIndex int      `json:"activeLayerIndex"`
	Layers           []*Layer `json:"layers"`
}

// Sprite is the top-level asset: frames sharing one canvas size.
type Sprite struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Width      int       `json:"width"`
	Height     int       `json:"height"`
	Frames     []*Frame  `json:"frames"`
	CreatedAt  time.Time `json:"createdAt"`
	ModifiedAt time.Time `json:"modifiedAt"`
}

// NewLayer returns a visible, unlocked, fully transparent layer.
func NewLayer(name string, width, height int) *Layer {
	return &Layer{
		ID:        NewID(),
		Name:      name,
		Visible:   true,
		Opacity:   1,
		BlendMode: BlendNormal,
		Pixels:    NewGrid(width, height),
	}
}

// Clone deep-copies the layer. With freshID the copy gets a new ID.
func (l *Layer) Clone(freshID bool) *Layer {
	c := *l
	c.Pixels = CloneGrid(l.Pixels)
	if freshID {
		c.ID = NewID()
	}
	return &c
}

// NewFrame returns a frame holding a single transparent Background layer.
func NewFrame(name string, width, height int) *Frame {
	return &Frame{
		ID:     NewID(),
		Name:   name,
		Width:  width,
		Height: height,
		Layers: []*Layer{NewLayer(DefaultLayerName, width, height)},
	}
}

// Clone deep-copies the frame and every layer. With freshIDs the frame and
// all of its layers get new IDs.
func (f *Frame) Clone(freshIDs bool) *Frame {
	c := *f
	if freshIDs {
		c.ID = NewID()
	}
	c.Layers = CloneLayers(f.Layers, freshIDs)
	return &c
}

// ActiveLayer returns the active layer, or nil when the index is invalid.
func (f *Frame) ActiveLayer() *Layer {
	if f.ActiveLayerIndex < 0 || f.ActiveLayerIndex >= len(f.Layers) {
		return nil
	}
	return f.Layers[f.ActiveLayerIndex]
}

// CloneLayers deep-copies a layer list, skipping nil entries.
func CloneLayers(layers []*Layer, freshIDs bool) []*Layer {
	out := make([]*Layer, 0, len(layers))
	for _, l := range layers {
		if l == nil {
			continue
		}
		out = append(out, l.Clone(freshIDs))
	}
	return out
}

// New creates a sprite with one frame holding one transparent Background layer.
func New(name string, width, height int) *Sprite {
	now := time.Now().UTC()
	return &Sprite{
		ID:         NewID(),
		Name:       name,
		Width:      width,
		Height:     height,
		Frames:     []*Frame{NewFrame(FrameName(0), width, height)},
		CreatedAt:  now,
		ModifiedAt: now,
	}
}

// FrameName returns the default display name for the frame at index i.
func FrameName(i int) string {
	return DefaultFrameBaseName + " " + strconv.Itoa(i+1)
}

// Clone deep-copies the sprite, keeping every ID.
func (s *Sprite) Clone() *Sprite {
	c := *s
	c.Frames = make([]*Frame, 0, len(s.Frames))
	for _, f := range s.Frames {
		if f == nil {
			continue
		}
		c.Frames = append(c.Frames, f.Clone(false))
	}
	return &c
}

// Touch records a modification.
func (s *Sprite) Touch(now time.Time) {
	s.ModifiedAt = now.UTC()
}

// Frame returns the frame at index i, or nil when out of range.
func (s *Sprite) Frame(i int) *Frame {
	if i < 0 || i >= len(s.Frames) {
		return nil
	}
	return s.Frames[i]
}
