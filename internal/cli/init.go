package cli

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/thruflo/pixl/internal/config"
)

var initForce bool

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialize .pixl/ directory structure",
	Long: `Creates the .pixl/ directory with default configuration files.

This command sets up:
  - config.yaml with canvas, playback, autosave and export defaults
  - palette with a starter set of named colors
  - sprites/ where sprite documents are stored`,
	Args: cobra.NoArgs,
	RunE: runInit,
}

func init() {
	initCmd.Flags().BoolVarP(&initForce, "force", "f", false, "overwrite existing config and palette")
	rootCmd.AddCommand(initCmd)
}

func runInit(cmd *cobra.Command, args []string) error {
	base, err := projectDir()
	if err != nil {
		return err
	}

	pixlDir := filepath.Join(base, config.Dir)
	if fileExists(config.Path(base)) && !initForce {
		return fmt.Errorf("%s already initialized (use --force to overwrite)", pixlDir)
	}

	if err := os.MkdirAll(filepath.Join(pixlDir, "sprites"), 0o755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", pixlDir, err)
	}

	cfg := config.DefaultConfig()
	if err := config.WriteConfig(base, &cfg); err != nil {
		return err
	}
	if err := writePalette(pixlDir); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Initialized %s\n", pixlDir)
	return nil
}

// fileExists checks if a regular file exists
func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

func writePalette(pixlDir string) error {
	content := `# Named colors for pixl draw. One NAME=#rrggbb[aa] per line.
black=#000000
white=#ffffff
red=#ff004d
orange=#ffa300
yellow=#ffec27
green=#00e436
blue=#29adff
shadow=#00000080
`
	if err := os.WriteFile(filepath.Join(pixlDir, "palette"), []byte(content), 0o644); err != nil {
		return fmt.Errorf("failed to write palette: %w", err)
	}
	return nil
}
