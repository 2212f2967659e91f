package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"
)

var layerFrame int

var layerCmd = &cobra.Command{
	Use:   "layer",
	Short: "Edit the layers of one frame",
	Long: `Edits the layers of the frame selected with --frame (default 0). Layers
are indexed bottom to top.`,
}

var layerAddCmd = &cobra.Command{
	Use:   "add SPRITE [NAME]",
	Short: "Add a transparent layer above the active one",
	Args:  cobra.RangeArgs(1, 2),
	RunE:  runLayerAdd,
}

var layerDeleteCmd = &cobra.Command{
	Use:   "delete SPRITE INDEX",
	Short: "Delete a layer (the last layer cannot be deleted)",
	Args:  cobra.ExactArgs(2),
	RunE: layerOp(func(s *session, i int, _ []string) (string, error) {
		if !s.stack.DeleteLayer(i) {
			return "", fmt.Errorf("cannot delete the only layer")
		}
		return fmt.Sprintf("Deleted layer %d", i), nil
	}),
}

var layerOpacityCmd = &cobra.Command{
	Use:   "opacity SPRITE INDEX VALUE",
	Short: "Set layer opacity (0 to 1)",
	Args:  cobra.ExactArgs(3),
	RunE: layerOp(func(s *session, i int, rest []string) (string, error) {
		v, err := strconv.ParseFloat(rest[0], 64)
		if err != nil {
			return "", fmt.Errorf("invalid opacity %q: %w", rest[0], err)
		}
		if !s.stack.SetLayerOpacity(i, v) {
			return "", fmt.Errorf("invalid opacity %q", rest[0])
		}
		return fmt.Sprintf("Layer %d opacity %.2f", i, s.stack.Layers()[i].Opacity), nil
	}),
}

var layerHideCmd = &cobra.Command{
	Use:   "hide SPRITE INDEX",
	Short: "Hide a layer",
	Args:  cobra.ExactArgs(2),
	RunE: layerOp(func(s *session, i int, _ []string) (string, error) {
		s.stack.SetLayerVisibility(i, false)
		return fmt.Sprintf("Layer %d hidden", i), nil
	}),
}

var layerShowCmd = &cobra.Command{
	Use:   "show SPRITE INDEX",
	Short: "Show a layer",
	Args:  cobra.ExactArgs(2),
	RunE: layerOp(func(s *session, i int, _ []string) (string, error) {
		s.stack.SetLayerVisibility(i, true)
		return fmt.Sprintf("Layer %d visible", i), nil
	}),
}

var layerLockCmd = &cobra.Command{
	Use:   "lock SPRITE INDEX",
	Short: "Lock a layer against drawing",
	Args:  cobra.ExactArgs(2),
	RunE: layerOp(func(s *session, i int, _ []string) (string, error) {
		s.stack.SetLayerLocked(i, true)
		return fmt.Sprintf("Layer %d locked", i), nil
	}),
}

var layerUnlockCmd = &cobra.Command{
	Use:   "unlock SPRITE INDEX",
	Short: "Unlock a layer",
	Args:  cobra.ExactArgs(2),
	RunE: layerOp(func(s *session, i int, _ []string) (string, error) {
		s.stack.SetLayerLocked(i, false)
		return fmt.Sprintf("Layer %d unlocked", i), nil
	}),
}

var layerMoveCmd = &cobra.Command{
	Use:   "move SPRITE FROM TO",
	Short: "Move a layer to a new position",
	Args:  cobra.ExactArgs(3),
	RunE: layerOp(func(s *session, i int, rest []string) (string, error) {
		to, err := parseIndex("to", rest[0])
		if err != nil {
			return "", err
		}
		if !s.stack.MoveLayer(i, to) {
			return "", fmt.Errorf("cannot move layer %d to %d", i, to)
		}
		return fmt.Sprintf("Moved layer %d to %d", i, to), nil
	}),
}

var layerRenameCmd = &cobra.Command{
	Use:   "rename SPRITE INDEX NAME",
	Short: "Rename a layer",
	Args:  cobra.ExactArgs(3),
	RunE: layerOp(func(s *session, i int, rest []string) (string, error) {
		if !s.stack.RenameLayer(i, rest[0]) {
			return "", fmt.Errorf("cannot rename layer %d", i)
		}
		return fmt.Sprintf("Renamed layer %d to %q", i, rest[0]), nil
	}),
}

func init() {
	layerCmd.PersistentFlags().IntVar(&layerFrame, "frame", 0, "frame index")
	layerCmd.AddCommand(layerAddCmd, layerDeleteCmd, layerOpacityCmd, layerHideCmd, layerShowCmd,
		layerLockCmd, layerUnlockCmd, layerMoveCmd, layerRenameCmd)
	rootCmd.AddCommand(layerCmd)
}

// layerOp builds a RunE for commands shaped SPRITE INDEX [ARGS...]. fn runs
// inside a controller edit on the selected frame.
func layerOp(fn func(s *session, i int, rest []string) (string, error)) func(*cobra.Command, []string) error {
	return func(cmd *cobra.Command, args []string) error {
		i, err := parseIndex("layer index", args[1])
		if err != nil {
			return err
		}
		return withSession(args[0], func(s *session) error {
			if err := s.selectFrame(layerFrame); err != nil {
				return err
			}
			if err := s.selectLayer(i); err != nil {
				return err
			}
			var msg string
			var opErr error
			s.ctrl.Edit(func() bool {
				msg, opErr = fn(s, i, args[2:])
				return opErr == nil
			})
			if opErr != nil {
				return opErr
			}
			fmt.Fprintln(cmd.OutOrStdout(), msg)
			return nil
		})
	}
}

func runLayerAdd(cmd *cobra.Command, args []string) error {
	name := ""
	if len(args) > 1 {
		name = args[1]
	}
	return withSession(args[0], func(s *session) error {
		if err := s.selectFrame(layerFrame); err != nil {
			return err
		}
		idx := -1
		s.ctrl.Edit(func() bool {
			idx = s.stack.AddLayer(name)
			return true
		})
		if idx < 0 {
			return fmt.Errorf("failed to add layer")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added layer %d %q\n", idx, s.stack.Layers()[idx].Name)
		return nil
	})
}
