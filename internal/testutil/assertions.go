package testutil

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thruflo/pixl/internal/sprite"
)

// AssertGridSize asserts that g is a full width x height grid.
func AssertGridSize(t *testing.T, g sprite.Grid, width, height int) {
	t.Helper()

	require.Len(t, g, height, "grid row count mismatch")
	for y, row := range g {
		assert.Len(t, row, width, "grid row %d width mismatch", y)
	}
}

// AssertPixel asserts the pixel at (x, y).
func AssertPixel(t *testing.T, g sprite.Grid, x, y int, want sprite.Pixel) {
	t.Helper()
	assert.Equal(t, want, g.At(x, y), "pixel (%d, %d) mismatch", x, y)
}

// AssertFrameInvariants asserts that f has at least one layer, every grid
// matches the canvas, opacities are within [0,1] and the active layer
// index is in range.
func AssertFrameInvariants(t *testing.T, f *sprite.Frame, width, height int) {
	t.Helper()

	require.NotNil(t, f, "frame is nil")
	require.NotEmpty(t, f.Layers, "frame %q has no layers", f.Name)
	assert.Equal(t, width, f.Width, "frame %q width", f.Name)
	assert.Equal(t, height, f.Height, "frame %q height", f.Name)
	assert.GreaterOrEqual(t, f.ActiveLayerIndex, 0, "frame %q active layer", f.Name)
	assert.Less(t, f.ActiveLayerIndex, len(f.Layers), "frame %q active layer", f.Name)

	for i, l := range f.Layers {
		require.NotNil(t, l, "frame %q layer %d is nil", f.Name, i)
		assert.NotEmpty(t, l.ID, "frame %q layer %d id", f.Name, i)
		assert.GreaterOrEqual(t, l.Opacity, 0.0, "frame %q layer %d opacity", f.Name, i)
		assert.LessOrEqual(t, l.Opacity, 1.0, "frame %q layer %d opacity", f.Name, i)
		AssertGridSize(t, l.Pixels, width, height)
	}
	assert.NoError(t, sprite.ValidateFrame(f, width, height))
}

// AssertSpriteInvariants asserts the frame invariants for every frame and
// that frame ids are unique.
func AssertSpriteInvariants(t *testing.T, s *sprite.Sprite) {
	t.Helper()

	require.NotNil(t, s, "sprite is nil")
	require.NotEmpty(t, s.Frames, "sprite has no frames")

	seen := make(map[string]bool, len(s.Frames))
	for _, f := range s.Frames {
		AssertFrameInvariants(t, f, s.Width, s.Height)
		assert.False(t, seen[f.ID], "duplicate frame id %s", f.ID)
		seen[f.ID] = true
	}
	assert.NoError(t, sprite.ValidateSprite(s))
}

// AssertFrameNames asserts the frame names in order.
func AssertFrameNames(t *testing.T, s *sprite.Sprite, want ...string) {
	t.Helper()

	got := make([]string, len(s.Frames))
	for i, f := range s.Frames {
		got[i] = f.Name
	}
	assert.Equal(t, want, got)
}
