package animation

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thruflo/pixl/internal/clock"
	"github.com/thruflo/pixl/internal/layers"
	"github.com/thruflo/pixl/internal/testutil"
)

func TestEditSequence_KeepsInvariants(t *testing.T) {
	t.Parallel()

	s := testutil.SampleSprite()
	st := layers.New(4, 4)
	c := NewController(s, st, WithClock(clock.NewManual(epoch)))

	steps := []struct {
		name string
		do   func() bool
	}{
		{"draw", func() bool { return c.Draw(1, 1, testutil.Blue) }},
		{"switch", func() bool { return c.SetCurrentFrame(1) }},
		{"add layer", func() bool { return c.Edit(func() bool { return st.AddLayer("Ink") >= 0 }) }},
		{"draw on new layer", func() bool { return c.Draw(0, 0, testutil.Green) }},
		{"duplicate", c.DuplicateFrame},
		{"insert", func() bool { return c.InsertFrame(0) == 1 }},
		{"move", func() bool { return c.MoveFrame(4, 0) }},
		{"delete", func() bool { return c.DeleteFrame(2) }},
		{"play", c.Play},
		{"tick", c.Tick},
		{"resize", func() bool { return c.Resize(6, 3, false) }},
		{"crop", func() bool { return c.Crop(1, 0, 3, 3) }},
	}
	for _, step := range steps {
		require.True(t, step.do(), step.name)
		snap := c.Snapshot()
		testutil.AssertSpriteInvariants(t, snap)
		assert.GreaterOrEqual(t, c.CurrentFrameIndex(), 0, step.name)
		assert.Less(t, c.CurrentFrameIndex(), len(snap.Frames), step.name)
	}
	c.Stop()

	snap := c.Snapshot()
	assert.Equal(t, 3, snap.Width)
	assert.Equal(t, 3, snap.Height)
	assert.Len(t, snap.Frames, 4)
}
