package testutil

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/thruflo/pixl/internal/sprite"
	"github.com/thruflo/pixl/internal/state"
)

// SetupTestDir creates a temporary directory with the .pixl directory
// structure for testing. Returns the temp directory path and a Store.
// The directory is automatically cleaned up when the test completes.
func SetupTestDir(t *testing.T) (string, *state.Store) {
	t.Helper()

	tmpDir := t.TempDir()

	pixlDir := filepath.Join(tmpDir, ".pixl")
	require.NoError(t, os.MkdirAll(filepath.Join(pixlDir, "sprites"), 0o755))

	// Short autosave delay; tests flush explicitly anyway
	configContent := `canvas:
  width: 4
  height: 4
playback:
  fps: 10
  mode: loop
autosave:
  delay_ms: 10
export:
  scale: 1
  format: png
history:
  limit: 20
`
	require.NoError(t, os.WriteFile(filepath.Join(pixlDir, "config.yaml"), []byte(configContent), 0o644))

	paletteContent := "red=#ff0000\ngreen=#00ff00\nblue=#0000ff\nghost=#0000ff80\n"
	require.NoError(t, os.WriteFile(filepath.Join(pixlDir, "palette"), []byte(paletteContent), 0o644))

	return tmpDir, state.NewStore(tmpDir)
}

// SaveSprite stores s in store, failing the test on error.
func SaveSprite(t *testing.T, store *state.Store, s *sprite.Sprite) *sprite.Sprite {
	t.Helper()
	require.NoError(t, store.SaveSprite(s))
	return s
}

// LoadSprite reads a stored sprite back, failing the test on error.
func LoadSprite(t *testing.T, store *state.Store, id string) *sprite.Sprite {
	t.Helper()
	s, _, err := store.LoadSprite(id)
	require.NoError(t, err)
	return s
}

// MustMarshalJSON marshals a value to JSON, failing the test on error.
// Uses indented format for readability.
func MustMarshalJSON(t *testing.T, v interface{}) []byte {
	t.Helper()
	data, err := json.MarshalIndent(v, "", "  ")
	require.NoError(t, err)
	return data
}

// MustUnmarshalJSON unmarshals JSON data into v, failing the test on error.
func MustUnmarshalJSON(t *testing.T, data []byte, v interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(data, v))
}

// WriteTestFile writes content to a file in the test directory.
// Creates parent directories as needed.
func WriteTestFile(t *testing.T, basePath, relativePath string, content []byte) {
	t.Helper()
	fullPath := filepath.Join(basePath, relativePath)
	require.NoError(t, os.MkdirAll(filepath.Dir(fullPath), 0o755))
	require.NoError(t, os.WriteFile(fullPath, content, 0o644))
}
