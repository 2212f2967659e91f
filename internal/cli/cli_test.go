package cli

import (
	"bytes"
	"image/gif"
	"image/png"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/thruflo/pixl/internal/config"
	"github.com/thruflo/pixl/internal/export"
	"github.com/thruflo/pixl/internal/sprite"
	"github.com/thruflo/pixl/internal/testutil"
)

func TestInitCommand(t *testing.T) {
	dir := t.TempDir()

	out := mustRun(t, dir, "init")
	pixlDir := filepath.Join(dir, ".pixl")
	assert.Contains(t, out, "Initialized "+pixlDir)

	t.Run("creates directory structure", func(t *testing.T) {
		assertDirExists(t, pixlDir)
		assertDirExists(t, filepath.Join(pixlDir, "sprites"))
		assertFileExists(t, filepath.Join(pixlDir, "palette"))
	})

	t.Run("creates config.yaml with defaults", func(t *testing.T) {
		assertFileExists(t, config.Path(dir))
		cfg, err := config.LoadConfig(dir)
		require.NoError(t, err)
		assert.Equal(t, config.DefaultConfig(), *cfg)
	})

	t.Run("palette resolves names", func(t *testing.T) {
		pal, err := config.LoadPalette(dir)
		require.NoError(t, err)
		c, err := pal.Color("red")
		require.NoError(t, err)
		assert.Equal(t, sprite.RGBA(0xff, 0x00, 0x4d, 0xff), c)
	})

	t.Run("refuses to reinitialize", func(t *testing.T) {
		_, err := run(t, dir, "init")
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already initialized")
	})

	t.Run("force overwrites", func(t *testing.T) {
		mustRun(t, dir, "init", "--force")
	})
}

func TestNewAndList(t *testing.T) {
	dir, store := testutil.SetupTestDir(t)

	assert.Contains(t, mustRun(t, dir, "list"), "No sprites found.")

	out := mustRun(t, dir, "new", "hero", "--width", "8")
	assert.Contains(t, out, "Created sprite hero")
	assert.Contains(t, out, "8x4")

	list, err := store.ListSprites()
	require.NoError(t, err)
	require.Len(t, list, 1)
	assert.Equal(t, "hero", list[0].Name)

	out = mustRun(t, dir, "list")
	assert.Contains(t, out, "NAME")
	assert.Contains(t, out, "hero")
	assert.Contains(t, out, list[0].ID)

	_, err = run(t, dir, "new", "bad", "--width", "-1")
	assert.Error(t, err)
}

func TestInfoCommand(t *testing.T) {
	dir, _, s := project(t)

	out := mustRun(t, dir, "info", "sample")
	assert.Contains(t, out, "sample ("+s.ID+")")
	assert.Contains(t, out, "size: 4x4 | frames: 3")
	assert.Contains(t, out, "[1] Frame 2")
	assert.Contains(t, out, "1: Overlay opacity=0.50 (active)")

	assert.Contains(t, mustRun(t, dir, "info", s.ID, "--check"), "check: ok")

	t.Run("check reports repairs", func(t *testing.T) {
		testutil.WriteTestFile(t, dir, ".pixl/sprites/damaged.json", []byte(testutil.SampleSpriteJSON))
		out, err := run(t, dir, "info", "damaged", "--check")
		require.Error(t, err)
		assert.ErrorIs(t, err, errNeedsRepair)
		assert.Contains(t, out, "issues")
	})

	t.Run("unknown sprite", func(t *testing.T) {
		_, err := run(t, dir, "info", "nobody")
		assert.Error(t, err)
	})
}

func TestFrameCommands(t *testing.T) {
	dir, store, s := project(t)
	a, b, c := s.Frames[0].ID, s.Frames[1].ID, s.Frames[2].ID

	frameIDs := func() []string {
		loaded := testutil.LoadSprite(t, store, s.ID)
		testutil.AssertSpriteInvariants(t, loaded)
		ids := make([]string, len(loaded.Frames))
		for i, f := range loaded.Frames {
			ids[i] = f.ID
		}
		return ids
	}

	assert.Contains(t, mustRun(t, dir, "frame", "add", "sample"), "Added frame 3 (4 frames)")
	ids := frameIDs()
	require.Len(t, ids, 4)
	assert.Equal(t, []string{a, b, c}, ids[:3])

	assert.Contains(t, mustRun(t, dir, "frame", "add", "sample", "--after=-1"), "Added frame 0 (5 frames)")
	ids = frameIDs()
	require.Len(t, ids, 5)
	assert.Equal(t, a, ids[1])

	mustRun(t, dir, "frame", "delete", "sample", "4")
	assert.Contains(t, mustRun(t, dir, "frame", "delete", "sample", "0"), "Deleted frame 0 (3 frames)")
	assert.Equal(t, []string{a, b, c}, frameIDs())

	assert.Contains(t, mustRun(t, dir, "frame", "move", "sample", "0", "2"), "Moved frame 0 to 2")
	assert.Equal(t, []string{b, c, a}, frameIDs())

	assert.Contains(t, mustRun(t, dir, "frame", "dup", "sample", "--frame", "0"), "Duplicated frame 0 to 1")
	ids = frameIDs()
	require.Len(t, ids, 4)
	assert.Equal(t, b, ids[0])
	assert.NotEqual(t, b, ids[1])

	mustRun(t, dir, "frame", "rename", "sample", "1", "Copy")
	loaded := testutil.LoadSprite(t, store, s.ID)
	assert.Equal(t, "Copy", loaded.Frames[1].Name)
	require.Len(t, loaded.Frames[1].Layers, 2)
	assert.Equal(t, "Overlay", loaded.Frames[1].Layers[1].Name)

	t.Run("errors", func(t *testing.T) {
		_, err := run(t, dir, "frame", "delete", "sample", "9")
		assert.ErrorContains(t, err, "out of range")
		_, err = run(t, dir, "frame", "move", "sample", "0", "9")
		assert.Error(t, err)
		_, err = run(t, dir, "frame", "dup", "sample", "--frame", "9")
		assert.Error(t, err)
		_, err = run(t, dir, "frame", "delete", "sample", "x")
		assert.ErrorContains(t, err, "invalid index")
	})

	t.Run("cannot delete the only frame", func(t *testing.T) {
		mustRun(t, dir, "new", "solo")
		_, err := run(t, dir, "frame", "delete", "solo", "0")
		assert.ErrorContains(t, err, "only frame")
	})
}

func TestLayerCommands(t *testing.T) {
	dir, store, s := project(t)

	assert.Contains(t, mustRun(t, dir, "layer", "add", "sample", "Ink", "--frame", "1"), `Added layer 2 "Ink"`)
	assert.Contains(t, mustRun(t, dir, "layer", "opacity", "sample", "2", "0.25", "--frame", "1"), "Layer 2 opacity 0.25")
	assert.Contains(t, mustRun(t, dir, "layer", "hide", "sample", "0", "--frame", "1"), "Layer 0 hidden")
	assert.Contains(t, mustRun(t, dir, "layer", "move", "sample", "2", "0", "--frame", "1"), "Moved layer 2 to 0")
	mustRun(t, dir, "layer", "rename", "sample", "0", "Sketch", "--frame", "1")
	mustRun(t, dir, "layer", "delete", "sample", "1", "--frame", "1")
	mustRun(t, dir, "layer", "lock", "sample", "1", "--frame", "1")

	loaded := testutil.LoadSprite(t, store, s.ID)
	testutil.AssertSpriteInvariants(t, loaded)
	f := loaded.Frames[1]
	require.Len(t, f.Layers, 2)
	assert.Equal(t, "Sketch", f.Layers[0].Name)
	assert.InDelta(t, 0.25, f.Layers[0].Opacity, 1e-9)
	assert.Equal(t, "Overlay", f.Layers[1].Name)
	assert.True(t, f.Layers[1].Locked)

	// Other frames are untouched
	require.Len(t, loaded.Frames[0].Layers, 1)
	assert.True(t, loaded.Frames[0].Layers[0].Visible)

	mustRun(t, dir, "layer", "unlock", "sample", "1", "--frame", "1")
	mustRun(t, dir, "layer", "show", "sample", "1", "--frame", "1")
	loaded = testutil.LoadSprite(t, store, s.ID)
	assert.False(t, loaded.Frames[1].Layers[1].Locked)

	t.Run("errors", func(t *testing.T) {
		_, err := run(t, dir, "layer", "delete", "sample", "0")
		assert.ErrorContains(t, err, "only layer")
		_, err = run(t, dir, "layer", "opacity", "sample", "0", "abc")
		assert.ErrorContains(t, err, "invalid opacity")
		_, err = run(t, dir, "layer", "hide", "sample", "5")
		assert.ErrorContains(t, err, "out of range")
		_, err = run(t, dir, "layer", "hide", "sample", "0", "--frame", "7")
		assert.ErrorContains(t, err, "out of range")
	})
}

func TestDrawCommand(t *testing.T) {
	dir, store, s := project(t)

	out := mustRun(t, dir, "draw", "sample", "1", "2", "blue", "--frame", "2")
	assert.Contains(t, out, "Set (1, 2) to #0000ff")
	mustRun(t, dir, "draw", "sample", "0", "0", "ghost", "--frame", "1")
	mustRun(t, dir, "draw", "sample", "3", "0", "#00ff0080", "--frame", "1", "--layer", "0")

	loaded := testutil.LoadSprite(t, store, s.ID)
	testutil.AssertPixel(t, loaded.Frames[2].Layers[0].Pixels, 1, 2, testutil.Blue)
	testutil.AssertPixel(t, loaded.Frames[1].Layers[0].Pixels, 3, 0, sprite.RGBA(0, 255, 0, 128))
	testutil.AssertPixel(t, loaded.Frames[1].Layers[1].Pixels, 0, 0, testutil.HalfBlue)
	assert.Equal(t, 0, loaded.Frames[1].ActiveLayerIndex, "--layer selects the active layer")

	t.Run("outside the canvas", func(t *testing.T) {
		_, err := run(t, dir, "draw", "sample", "9", "9", "red")
		assert.ErrorContains(t, err, "cannot draw")
	})

	t.Run("unknown color", func(t *testing.T) {
		_, err := run(t, dir, "draw", "sample", "0", "0", "mauve")
		assert.ErrorContains(t, err, "unknown color")
	})

	t.Run("locked layer", func(t *testing.T) {
		mustRun(t, dir, "layer", "lock", "sample", "0")
		_, err := run(t, dir, "draw", "sample", "0", "0", "blue")
		assert.ErrorContains(t, err, "locked")
		loaded := testutil.LoadSprite(t, store, s.ID)
		testutil.AssertPixel(t, loaded.Frames[0].Layers[0].Pixels, 0, 0, testutil.Red)
	})
}

func TestResizeAndCrop(t *testing.T) {
	t.Run("resize pads", func(t *testing.T) {
		dir, store, s := project(t)
		assert.Contains(t, mustRun(t, dir, "resize", "sample", "6", "5"), "Resized to 6x5")

		loaded := testutil.LoadSprite(t, store, s.ID)
		assert.Equal(t, 6, loaded.Width)
		assert.Equal(t, 5, loaded.Height)
		testutil.AssertSpriteInvariants(t, loaded)
		testutil.AssertPixel(t, loaded.Frames[0].Layers[0].Pixels, 0, 0, testutil.Red)
		testutil.AssertPixel(t, loaded.Frames[0].Layers[0].Pixels, 5, 4, sprite.Transparent)
	})

	t.Run("resize nearest", func(t *testing.T) {
		dir, store, s := project(t)
		mustRun(t, dir, "resize", "sample", "8", "8", "--nearest")

		loaded := testutil.LoadSprite(t, store, s.ID)
		testutil.AssertSpriteInvariants(t, loaded)
		testutil.AssertPixel(t, loaded.Frames[0].Layers[0].Pixels, 7, 7, testutil.Red)
		testutil.AssertPixel(t, loaded.Frames[2].Layers[0].Pixels, 1, 1, testutil.Green)
		testutil.AssertPixel(t, loaded.Frames[2].Layers[0].Pixels, 2, 0, sprite.Transparent)
	})

	t.Run("crop", func(t *testing.T) {
		dir, store, s := project(t)
		assert.Contains(t, mustRun(t, dir, "crop", "sample", "1", "0", "2", "2"), "Cropped to 2x2 at (1, 0)")

		loaded := testutil.LoadSprite(t, store, s.ID)
		testutil.AssertSpriteInvariants(t, loaded)
		assert.Equal(t, 2, loaded.Width)
		testutil.AssertPixel(t, loaded.Frames[2].Layers[0].Pixels, 0, 0, sprite.Transparent)
		testutil.AssertPixel(t, loaded.Frames[2].Layers[0].Pixels, 1, 0, testutil.Green)
	})

	t.Run("invalid sizes", func(t *testing.T) {
		dir, _, _ := project(t)
		_, err := run(t, dir, "resize", "sample", "0", "4")
		assert.Error(t, err)
		_, err = run(t, dir, "crop", "sample", "0", "0", "0", "1")
		assert.Error(t, err)
	})
}

func TestExportCommand(t *testing.T) {
	dir, store, s := project(t)
	out := t.TempDir()

	t.Run("png default path", func(t *testing.T) {
		msg := mustRun(t, dir, "export", "sample", "--scale", "3")
		path := filepath.Join(dir, "sample.png")
		assert.Contains(t, msg, "Exported "+path+" (png, 1 frames, scale 3)")

		cfg, err := png.DecodeConfig(bytes.NewReader(readFile(t, dir, "sample.png")))
		require.NoError(t, err)
		assert.Equal(t, 12, cfg.Width)
		assert.Equal(t, 12, cfg.Height)
	})

	t.Run("svg", func(t *testing.T) {
		path := filepath.Join(out, "frame.svg")
		mustRun(t, dir, "export", "sample", "-f", "svg", "-o", path, "--frame", "1")
		data := readFile(t, out, "frame.svg")
		assert.True(t, strings.HasPrefix(strings.TrimSpace(string(data)), "<svg"), "not an svg document")
		assert.Contains(t, string(data), "<rect")
	})

	t.Run("gif", func(t *testing.T) {
		path := filepath.Join(out, "anim.gif")
		assert.Contains(t, mustRun(t, dir, "export", "sample", "-f", "gif", "-o", path, "--fps", "5"), "(gif, 3 frames, scale 1)")

		g, err := gif.DecodeAll(bytes.NewReader(readFile(t, out, "anim.gif")))
		require.NoError(t, err)
		assert.Len(t, g.Image, 3)
		assert.Equal(t, []int{20, 20, 20}, g.Delay)
	})

	t.Run("sheet", func(t *testing.T) {
		path := filepath.Join(out, "sheet.png")
		mustRun(t, dir, "export", "sample", "-f", "sheet", "-o", path, "-s", "2", "--columns", "2")

		cfg, err := png.DecodeConfig(bytes.NewReader(readFile(t, out, "sheet.png")))
		require.NoError(t, err)
		assert.Equal(t, 16, cfg.Width)
		assert.Equal(t, 16, cfg.Height)
	})

	t.Run("records exports", func(t *testing.T) {
		records, err := store.LoadExports()
		require.NoError(t, err)
		require.Len(t, records, 4)
		for _, r := range records {
			assert.Equal(t, s.ID, r.SpriteID)
		}
		assert.Equal(t, "gif", records[2].Format)
		assert.Equal(t, 3, records[2].Frames)
	})

	t.Run("errors leave no file", func(t *testing.T) {
		path := filepath.Join(out, "missing.png")
		_, err := run(t, dir, "export", "sample", "-o", path, "--frame", "9")
		assert.ErrorContains(t, err, "out of range")
		_, statErr := os.Stat(path)
		assert.True(t, os.IsNotExist(statErr))

		_, err = run(t, dir, "export", "sample", "-f", "bmp")
		assert.Error(t, err)
	})
}

func TestExportFileName(t *testing.T) {
	tests := []struct {
		name   string
		format string
		want   string
	}{
		{"hero", "png", "hero.png"},
		{"walk cycle", "gif", "walk-cycle.gif"},
		{"a/b", "svg", "a-b.svg"},
		{"hero", "sheet", "hero-sheet.png"},
		{"", "png", "sprite.png"},
	}
	for _, tt := range tests {
		t.Run(tt.want, func(t *testing.T) {
			f, err := export.ParseFormat(tt.format)
			require.NoError(t, err)
			assert.Equal(t, tt.want, exportFileName(tt.name, f))
		})
	}
}

func TestPlayHeadless(t *testing.T) {
	dir, _, _ := project(t)

	out := mustRun(t, dir, "play", "sample", "--fps", "5")
	assert.Contains(t, out, "sample: 3 frames at 5 fps (loop)")
	assert.Contains(t, out, "200ms  [1] Frame 2")
	assert.Contains(t, out, "200ms  [2] Frame 3")

	out = mustRun(t, dir, "play", "sample", "--mode", "pingpong", "--loops", "2")
	assert.Contains(t, out, "(pingpong)")
	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.GreaterOrEqual(t, len(lines), 6)

	_, err := run(t, dir, "play", "sample", "--mode", "sideways")
	assert.ErrorContains(t, err, "unknown playback mode")
}
