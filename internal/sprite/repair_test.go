package sprite

import (
	"encoding/json"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRepairSprite_WellFormedIsUntouched(t *testing.T) {
	t.Parallel()

	s := New("ok", 3, 3)
	before := s.Clone()

	r := RepairSprite(s, nil)
	assert.True(t, r.OK())
	assert.Equal(t, before, s)
}

func TestRepairSprite_MissingFrames(t *testing.T) {
	t.Parallel()

	t.Run("empty grid", func(t *testing.T) {
		t.Parallel()
		s := &Sprite{ID: "s", Width: 2, Height: 2}
		r := RepairSprite(s, nil)

		assert.Equal(t, 1, r.Count(IssueMissingFrames))
		require.Len(t, s.Frames, 1)
		assert.NoError(t, ValidateSprite(s))
	})

	t.Run("from fallback", func(t *testing.T) {
		t.Parallel()
		fallback := Grid{{RGBA(1, 1, 1, 255), RGBA(2, 2, 2, 255)}}
		s := &Sprite{ID: "s", Width: 2, Height: 2}
		RepairSprite(s, fallback)

		require.Len(t, s.Frames, 1)
		px := s.Frames[0].Layers[0].Pixels
		assert.Equal(t, RGBA(2, 2, 2, 255), px[0][1])
		assert.Equal(t, Transparent, px[1][0])
		assert.NoError(t, ValidateSprite(s))

		fallback[0][0] = Transparent
		assert.Equal(t, RGBA(1, 1, 1, 255), px[0][0], "fallback must be copied")
	})

	t.Run("null frames dropped", func(t *testing.T) {
		t.Parallel()
		s := New("x", 2, 2)
		s.Frames = append([]*Frame{nil}, s.Frames...)
		RepairSprite(s, nil)
		assert.Len(t, s.Frames, 1)
	})
}

func TestRepairSprite_InvalidDimensions(t *testing.T) {
	t.Parallel()

	s := &Sprite{ID: "s", Width: 0, Height: -3}
	r := RepairSprite(s, nil)

	assert.Equal(t, 1, r.Count(IssueInvalidDimensions))
	assert.Equal(t, DefaultWidth, s.Width)
	assert.Equal(t, DefaultHeight, s.Height)
	assert.NoError(t, ValidateSprite(s))
}

func TestRepairFrame(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name   string
		frame  func() *Frame
		kind   IssueKind
		verify func(t *testing.T, f *Frame)
	}{
		{
			name:  "missing layers",
			frame: func() *Frame { return &Frame{ID: "f", Width: 2, Height: 2} },
			kind:  IssueMissingLayers,
			verify: func(t *testing.T, f *Frame) {
				require.Len(t, f.Layers, 1)
				assert.Equal(t, DefaultLayerName, f.Layers[0].Name)
				assert.True(t, f.Layers[0].Visible)
			},
		},
		{
			name: "null layers",
			frame: func() *Frame {
				f := NewFrame("f", 2, 2)
				f.Layers = append(f.Layers, nil)
				return f
			},
			kind: IssueMissingLayers,
			verify: func(t *testing.T, f *Frame) {
				assert.Len(t, f.Layers, 1)
			},
		},
		{
			name: "short rows and missing rows",
			frame: func() *Frame {
				f := NewFrame("f", 2, 2)
				f.Layers[0].Pixels = Grid{{RGBA(7, 7, 7, 7)}}
				return f
			},
			kind: IssueMalformedPixelGrid,
			verify: func(t *testing.T, f *Frame) {
				px := f.Layers[0].Pixels
				assert.True(t, px.HasSize(2, 2))
				assert.Equal(t, RGBA(7, 7, 7, 7), px[0][0])
				assert.Equal(t, Transparent, px[0][1])
			},
		},
		{
			name: "overflowing grid",
			frame: func() *Frame {
				f := NewFrame("f", 2, 2)
				f.Layers[0].Pixels = NewGrid(5, 5)
				return f
			},
			kind: IssueMalformedPixelGrid,
			verify: func(t *testing.T, f *Frame) {
				assert.True(t, f.Layers[0].Pixels.HasSize(2, 2))
			},
		},
		{
			name: "opacity out of range",
			frame: func() *Frame {
				f := NewFrame("f", 2, 2)
				f.Layers[0].Opacity = 3
				return f
			},
			kind: IssueInvalidOpacity,
			verify: func(t *testing.T, f *Frame) {
				assert.Equal(t, 1.0, f.Layers[0].Opacity)
			},
		},
		{
			name: "opacity NaN",
			frame: func() *Frame {
				f := NewFrame("f", 2, 2)
				f.Layers[0].Opacity = math.NaN()
				return f
			},
			kind: IssueInvalidOpacity,
			verify: func(t *testing.T, f *Frame) {
				assert.Equal(t, 1.0, f.Layers[0].Opacity)
			},
		},
		{
			name: "active layer out of range",
			frame: func() *Frame {
				f := NewFrame("f", 2, 2)
				f.ActiveLayerIndex = 4
				return f
			},
			kind: IssueIndexOutOfRange,
			verify: func(t *testing.T, f *Frame) {
				assert.Equal(t, 0, f.ActiveLayerIndex)
			},
		},
		{
			name: "frame size mismatch",
			frame: func() *Frame {
				return NewFrame("f", 4, 4)
			},
			kind: IssueInvalidDimensions,
			verify: func(t *testing.T, f *Frame) {
				assert.Equal(t, 2, f.Width)
				assert.True(t, f.Layers[0].Pixels.HasSize(2, 2))
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			f := tt.frame()
			r := RepairFrame(f, 2, 2)
			assert.GreaterOrEqual(t, r.Count(tt.kind), 1, "issues: %v", r.Issues)
			assert.NoError(t, ValidateFrame(f, 2, 2))
			tt.verify(t, f)
		})
	}
}

func TestRepairSprite_FromMalformedJSON(t *testing.T) {
	t.Parallel()

	doc := `{
		"id": "s1", "name": "broken", "width": 2, "height": 2,
		"frames": [
			{"id": "f1", "width": 2, "height": 2, "activeLayerIndex": 9, "layers": []},
			{"id": "f2", "width": 2, "height": 2, "layers": [
				{"id": "l1", "visible": true, "opacity": 1, "blendMode": "normal",
				 "pixels": [[[255,0,0,255],[1,2]], "oops"]}
			]}
		]
	}`

	var s Sprite
	require.NoError(t, json.Unmarshal([]byte(doc), &s))
	r := RepairSprite(&s, nil)

	assert.False(t, r.OK())
	require.NoError(t, ValidateSprite(&s))
	assert.Equal(t, DefaultLayerName, s.Frames[0].Layers[0].Name)
	px := s.Frames[1].Layers[0].Pixels
	assert.Equal(t, RGBA(255, 0, 0, 255), px[0][0])
	assert.Equal(t, Transparent, px[0][1])
	assert.Equal(t, []Pixel{Transparent, Transparent}, px[1])
}

func TestLayerDecode_DefaultsAbsentFields(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name        string
		doc         string
		wantVisible bool
		wantOpacity float64
		wantIssue   bool
	}{
		{"both present", `{"id":"l","visible":false,"opacity":0.25}`, false, 0.25, false},
		{"both absent", `{"id":"l"}`, true, 1, true},
		{"visible absent", `{"id":"l","opacity":0.5}`, true, 0.5, true},
		{"opacity null", `{"id":"l","visible":true,"opacity":null}`, true, 1, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			var l Layer
			require.NoError(t, json.Unmarshal([]byte(tt.doc), &l))
			assert.Equal(t, tt.wantVisible, l.Visible)
			assert.Equal(t, tt.wantOpacity, l.Opacity)

			f := &Frame{ID: "f", Width: 1, Height: 1, Layers: []*Layer{&l}}
			r := RepairFrame(f, 1, 1)
			assert.Equal(t, tt.wantIssue, r.Count(IssueMissingField) == 1, "%v", r.Issues)

			// The defaulted keys are reported once.
			assert.Zero(t, RepairFrame(f, 1, 1).Count(IssueMissingField))
		})
	}
}

func TestRepairNil(t *testing.T) {
	t.Parallel()

	assert.True(t, RepairSprite(nil, nil).OK())
	assert.True(t, RepairFrame(nil, 1, 1).OK())
}
