package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/require"

	"github.com/thruflo/pixl/internal/sprite"
	"github.com/thruflo/pixl/internal/state"
	"github.com/thruflo/pixl/internal/testutil"
)

// Command flags live in package variables, so these tests run sequentially
// and reset every flag before each invocation.
func resetFlags(cmd *cobra.Command) {
	reset := func(f *pflag.Flag) {
		_ = f.Value.Set(f.DefValue)
		f.Changed = false
	}
	cmd.Flags().VisitAll(reset)
	cmd.PersistentFlags().VisitAll(reset)
	for _, c := range cmd.Commands() {
		resetFlags(c)
	}
}

// run executes pixl against dir and returns its combined output.
func run(t *testing.T, dir string, args ...string) (string, error) {
	t.Helper()

	resetFlags(rootCmd)
	var out bytes.Buffer
	rootCmd.SetOut(&out)
	rootCmd.SetErr(&out)
	rootCmd.SetArgs(append([]string{"--dir", dir}, args...))
	err := rootCmd.Execute()
	return out.String(), err
}

// mustRun is run that fails the test on error.
func mustRun(t *testing.T, dir string, args ...string) string {
	t.Helper()
	out, err := run(t, dir, args...)
	require.NoError(t, err, "pixl %s\n%s", strings.Join(args, " "), out)
	return out
}

// project sets up a project holding the sample sprite.
func project(t *testing.T) (string, *state.Store, *sprite.Sprite) {
	t.Helper()
	dir, store := testutil.SetupTestDir(t)
	s := testutil.SaveSprite(t, store, testutil.SampleSprite())
	return dir, store, s
}

func assertDirExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err, "directory should exist: %s", path)
	require.True(t, info.IsDir(), "should be a directory: %s", path)
}

func assertFileExists(t *testing.T, path string) {
	t.Helper()
	info, err := os.Stat(path)
	require.NoError(t, err, "file should exist: %s", path)
	require.False(t, info.IsDir(), "should be a file: %s", path)
}

func readFile(t *testing.T, dir, name string) []byte {
	t.Helper()
	data, err := os.ReadFile(filepath.Join(dir, name))
	require.NoError(t, err)
	return data
}
