package layers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thruflo/pixl/internal/composite"
	"github.com/thruflo/pixl/internal/sprite"
)

var ink = sprite.RGBA(10, 20, 30, 255)

func TestNew(t *testing.T) {
	t.Parallel()

	s := New(4, 3)
	require.Len(t, s.Layers(), 1)
	assert.Equal(t, sprite.DefaultLayerName, s.ActiveLayer().Name)
	assert.Equal(t, 4, s.Width())
	assert.Equal(t, 3, s.Height())
	assert.False(t, s.CanUndo())
}

func TestSetPixel(t *testing.T) {
	t.Parallel()

	s := New(2, 2)
	assert.True(t, s.SetPixel(1, 1, ink))
	assert.Equal(t, ink, s.GetPixel(1, 1))

	assert.False(t, s.SetPixel(2, 0, ink), "out of range")
	assert.False(t, s.SetPixel(-1, 0, ink), "out of range")

	s.SetLayerLocked(0, true)
	assert.False(t, s.SetPixel(0, 0, ink), "locked")
}

func TestUndoRedo(t *testing.T) {
	t.Parallel()

	s := New(2, 2)
	s.SetPixel(0, 0, ink)
	s.SetPixel(1, 0, ink)

	require.True(t, s.Undo())
	assert.Equal(t, sprite.Transparent, s.GetPixel(1, 0))
	assert.Equal(t, ink, s.GetPixel(0, 0))

	require.True(t, s.Redo())
	assert.Equal(t, ink, s.GetPixel(1, 0))

	require.True(t, s.Undo())
	require.True(t, s.Undo())
	assert.False(t, s.Undo())
	assert.Equal(t, sprite.Transparent, s.GetPixel(0, 0))

	s.SetPixel(1, 1, ink)
	assert.False(t, s.CanRedo(), "new mutation clears redo")
}

func TestBatchIsOneStep(t *testing.T) {
	t.Parallel()

	s := New(3, 1)
	s.StartBatchOperation()
	s.SetPixel(0, 0, ink)
	s.SetPixel(1, 0, ink)
	s.SetPixel(2, 0, ink)
	s.EndBatchOperation()

	require.True(t, s.Undo())
	assert.False(t, s.CanUndo())
	for x := 0; x < 3; x++ {
		assert.Equal(t, sprite.Transparent, s.GetPixel(x, 0))
	}
}

func TestSuspendHistory(t *testing.T) {
	t.Parallel()

	s := New(2, 2)
	s.SuspendHistory()
	s.SuspendHistory()
	s.SetPixel(0, 0, ink)
	s.ResumeHistory()
	assert.True(t, s.HistorySuspended())
	s.AddLayer("x")
	s.ResumeHistory()

	assert.False(t, s.HistorySuspended())
	assert.False(t, s.CanUndo())
}

func TestHistoryLimit(t *testing.T) {
	t.Parallel()

	s := New(4, 1, WithHistoryLimit(2))
	for x := 0; x < 4; x++ {
		s.SetPixel(x, 0, ink)
	}
	assert.True(t, s.Undo())
	assert.True(t, s.Undo())
	assert.False(t, s.Undo())
}

func TestLayerOperations(t *testing.T) {
	t.Parallel()

	s := New(2, 2)

	idx := s.AddLayer("")
	assert.Equal(t, 1, idx)
	assert.Equal(t, "Layer 2", s.Layers()[1].Name)
	assert.Equal(t, 1, s.ActiveLayerIndex())

	s.SetPixel(0, 0, ink)
	require.True(t, s.DuplicateLayer(1))
	require.Len(t, s.Layers(), 3)
	assert.NotEqual(t, s.Layers()[1].ID, s.Layers()[2].ID)
	assert.Equal(t, ink, s.Layers()[2].Pixels[0][0])

	s.Layers()[2].Pixels[0][0] = sprite.Transparent
	assert.Equal(t, ink, s.Layers()[1].Pixels[0][0], "duplicate must not share pixels")

	require.True(t, s.SetLayerOpacity(0, 7))
	assert.Equal(t, 1.0, s.Layers()[0].Opacity)
	require.True(t, s.SetLayerOpacity(0, -1))
	assert.Equal(t, 0.0, s.Layers()[0].Opacity)

	require.True(t, s.SetLayerVisibility(0, false))
	assert.False(t, s.Layers()[0].Visible)
	assert.False(t, s.SetLayerVisibility(9, false))

	assert.True(t, s.RenameLayer(0, "bg"))
	assert.False(t, s.RenameLayer(0, ""))
}

func TestMoveLayer_ActiveFollowsData(t *testing.T) {
	t.Parallel()

	s := New(1, 1)
	s.AddLayer("a")
	s.AddLayer("b")
	s.SetActiveLayer(0)
	active := s.ActiveLayer()

	require.True(t, s.MoveLayer(0, 2))
	assert.Equal(t, []string{"a", "b", sprite.DefaultLayerName}, names(s))
	assert.Same(t, active, s.ActiveLayer())

	assert.False(t, s.MoveLayer(1, 1))
	assert.False(t, s.MoveLayer(0, 3))
}

func TestDeleteLayer(t *testing.T) {
	t.Parallel()

	s := New(1, 1)
	assert.False(t, s.DeleteLayer(0), "last layer is protected")

	s.AddLayer("a")
	s.AddLayer("b")
	require.Equal(t, 2, s.ActiveLayerIndex())

	require.True(t, s.DeleteLayer(2))
	assert.Equal(t, 1, s.ActiveLayerIndex())

	require.True(t, s.DeleteLayer(0))
	assert.Equal(t, 0, s.ActiveLayerIndex())
	assert.Equal(t, []string{"a"}, names(s))
	assert.False(t, s.DeleteLayer(5))
}

func TestLoad_CopiesAndResetsHistory(t *testing.T) {
	t.Parallel()

	s := New(2, 2)
	s.SetPixel(0, 0, ink)

	f := sprite.NewFrame("f", 3, 3)
	s.Load(f.Layers, 0, 3, 3)

	assert.False(t, s.CanUndo())
	assert.Equal(t, 3, s.Width())
	s.SetPixel(0, 0, ink)
	assert.Equal(t, sprite.Transparent, f.Layers[0].Pixels[0][0], "load must deep copy")
}

func TestResize(t *testing.T) {
	t.Parallel()

	s := New(2, 2)
	s.SetPixel(1, 1, ink)
	require.True(t, s.Resize(4, 4, true))
	assert.Equal(t, ink, s.GetPixel(3, 3))
	assert.False(t, s.Resize(0, 4, false))

	require.True(t, s.Undo())
	assert.Equal(t, 2, s.Width())
}

func TestCompositeGridMatchesEngine(t *testing.T) {
	t.Parallel()

	s := New(2, 1)
	s.SetPixel(0, 0, sprite.RGBA(255, 0, 0, 255))
	s.AddLayer("top")
	s.SetPixel(0, 0, sprite.RGBA(0, 0, 255, 128))

	f := &sprite.Frame{Width: 2, Height: 1, Layers: s.Layers()}
	assert.True(t, composite.Frame(f).Equal(s.CompositeGrid()))
	assert.Equal(t, sprite.RGBA(127, 0, 128, 255), s.CompositeGrid()[0][0])
}

func names(s *Stack) []string {
	var out []string
	for _, l := range s.Layers() {
		out = append(out, l.Name)
	}
	return out
}
