package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/thruflo/pixl/internal/logging"
)

// Version is set at build time via ldflags.
var Version = "dev"

var (
	rootDir     string
	rootVerbose bool
)

var rootCmd = &cobra.Command{
	Use:   "pixl",
	Short: "Pixel sprite editor and animation player",
	Long: `pixl keeps animated pixel sprites in .pixl/sprites and edits them frame by
frame. Every edit goes through the same frame controller the player uses,
so the working layer stack and the stored frames never drift apart.`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		if rootVerbose {
			logging.SetLevel(logging.LevelDebug)
		}
	},
}

func init() {
	rootCmd.Version = Version
	rootCmd.SetVersionTemplate("pixl version {{.Version}}\n")
	rootCmd.PersistentFlags().StringVarP(&rootDir, "dir", "C", "", "project directory (default: current directory)")
	rootCmd.PersistentFlags().BoolVarP(&rootVerbose, "verbose", "v", false, "enable debug logging")
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// projectDir returns the directory holding .pixl/.
func projectDir() (string, error) {
	if rootDir != "" {
		return rootDir, nil
	}
	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("failed to get current directory: %w", err)
	}
	return cwd, nil
}
