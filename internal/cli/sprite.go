package cli

import (
	"errors"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"github.com/thruflo/pixl/internal/sprite"
	"github.com/thruflo/pixl/internal/state"
)

var (
	newWidth  int
	newHeight int
	infoCheck bool
)

var newCmd = &cobra.Command{
	Use:   "new NAME",
	Short: "Create a sprite",
	Long: `Creates a sprite with one transparent frame and stores it in .pixl/sprites.

Width and height default to the canvas size in config.yaml.`,
	Args: cobra.ExactArgs(1),
	RunE: runNew,
}

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List stored sprites",
	Args:  cobra.NoArgs,
	RunE:  runList,
}

var infoCmd = &cobra.Command{
	Use:   "info SPRITE",
	Short: "Show frames and layers of a sprite",
	Long: `Shows a sprite's frames and layers. SPRITE is an id, a unique name or a
path to a .json file.

With --check, reports every repair the sprite needed on load and fails if
there were any.`,
	Args: cobra.ExactArgs(1),
	RunE: runInfo,
}

func init() {
	newCmd.Flags().IntVar(&newWidth, "width", 0, "canvas width (default from config)")
	newCmd.Flags().IntVar(&newHeight, "height", 0, "canvas height (default from config)")
	infoCmd.Flags().BoolVar(&infoCheck, "check", false, "report repairs and fail if any were needed")
	rootCmd.AddCommand(newCmd, listCmd, infoCmd)
}

func runNew(cmd *cobra.Command, args []string) error {
	base, cfg, err := loadProject()
	if err != nil {
		return err
	}

	w, h := cfg.Canvas.Width, cfg.Canvas.Height
	if newWidth != 0 {
		w = newWidth
	}
	if newHeight != 0 {
		h = newHeight
	}
	if w < 1 || h < 1 {
		return fmt.Errorf("invalid canvas size %dx%d", w, h)
	}

	sp := sprite.New(args[0], w, h)
	if err := state.NewStore(base).SaveSprite(sp); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created sprite %s (%s, %dx%d)\n", sp.Name, sp.ID, w, h)
	return nil
}

func runList(cmd *cobra.Command, args []string) error {
	base, err := projectDir()
	if err != nil {
		return err
	}
	list, err := state.NewStore(base).ListSprites()
	if err != nil {
		return fmt.Errorf("failed to list sprites: %w", err)
	}

	out := cmd.OutOrStdout()
	if len(list) == 0 {
		fmt.Fprintln(out, "No sprites found.")
		return nil
	}

	// Calculate column widths
	nameWidth := len("NAME")
	for _, s := range list {
		if len(s.Name) > nameWidth {
			nameWidth = len(s.Name)
		}
	}

	fmt.Fprintf(out, "%-*s  %-36s  %-9s  %s\n", nameWidth, "NAME", "ID", "SIZE", "FRAMES")
	for _, s := range list {
		size := fmt.Sprintf("%dx%d", s.Width, s.Height)
		fmt.Fprintf(out, "%-*s  %-36s  %-9s  %d\n", nameWidth, s.Name, s.ID, size, s.Frames)
	}
	return nil
}

func runInfo(cmd *cobra.Command, args []string) error {
	s, err := openSession(args[0])
	if err != nil {
		return err
	}
	defer s.close()

	out := cmd.OutOrStdout()
	printInfo(out, s.ctrl.Snapshot())

	if !infoCheck {
		return nil
	}
	return printReport(out, s.report)
}

func printInfo(out io.Writer, sp *sprite.Sprite) {
	fmt.Fprintf(out, "%s (%s)\n", sp.Name, sp.ID)
	fmt.Fprintf(out, "size: %dx%d | frames: %d\n", sp.Width, sp.Height, len(sp.Frames))
	fmt.Fprintf(out, "modified: %s\n", sp.ModifiedAt.Format("2006-01-02 15:04:05"))
	for i, f := range sp.Frames {
		fmt.Fprintf(out, "\n[%d] %s\n", i, f.Name)
		for li, l := range f.Layers {
			var flags []string
			if li == f.ActiveLayerIndex {
				flags = append(flags, "active")
			}
			if !l.Visible {
				flags = append(flags, "hidden")
			}
			if l.Locked {
				flags = append(flags, "locked")
			}
			line := fmt.Sprintf("  %d: %s opacity=%.2f", li, l.Name, l.Opacity)
			if len(flags) > 0 {
				line += " (" + strings.Join(flags, ", ") + ")"
			}
			fmt.Fprintln(out, line)
		}
	}
}

// errNeedsRepair is returned by info --check when loading repaired anything.
var errNeedsRepair = errors.New("sprite needed repair")

func printReport(out io.Writer, r *sprite.Report) error {
	if r == nil || r.OK() {
		fmt.Fprintln(out, "\ncheck: ok")
		return nil
	}
	fmt.Fprintf(out, "\ncheck: %d issues\n", len(r.Issues))
	for _, issue := range r.Issues {
		fmt.Fprintf(out, "  - %s\n", issue)
	}
	return fmt.Errorf("%w: %d issues", errNeedsRepair, len(r.Issues))
}
