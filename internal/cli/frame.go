package cli

import (
	"fmt"

	"github.com/spf13/cobra"
)

var (
	frameAfter int
	frameIndex int
)

var frameCmd = &cobra.Command{
	Use:   "frame",
	Short: "Add, duplicate, delete, move or rename frames",
}

var frameAddCmd = &cobra.Command{
	Use:   "add SPRITE",
	Short: "Add a transparent frame",
	Long: `Adds a frame holding one transparent Background layer. By default it is
appended; --after inserts it after the given index (-1 inserts at the front).`,
	Args: cobra.ExactArgs(1),
	RunE: runFrameAdd,
}

var frameDupCmd = &cobra.Command{
	Use:   "dup SPRITE",
	Short: "Duplicate a frame directly after itself",
	Args:  cobra.ExactArgs(1),
	RunE:  runFrameDup,
}

var frameDeleteCmd = &cobra.Command{
	Use:   "delete SPRITE INDEX",
	Short: "Delete a frame (the last frame cannot be deleted)",
	Args:  cobra.ExactArgs(2),
	RunE:  runFrameDelete,
}

var frameMoveCmd = &cobra.Command{
	Use:   "move SPRITE FROM TO",
	Short: "Move a frame to a new position",
	Args:  cobra.ExactArgs(3),
	RunE:  runFrameMove,
}

var frameRenameCmd = &cobra.Command{
	Use:   "rename SPRITE INDEX NAME",
	Short: "Rename a frame",
	Args:  cobra.ExactArgs(3),
	RunE:  runFrameRename,
}

func init() {
	frameAddCmd.Flags().IntVar(&frameAfter, "after", 0, "insert after this index instead of appending")
	frameDupCmd.Flags().IntVar(&frameIndex, "frame", 0, "index of the frame to duplicate")
	frameCmd.AddCommand(frameAddCmd, frameDupCmd, frameDeleteCmd, frameMoveCmd, frameRenameCmd)
	rootCmd.AddCommand(frameCmd)
}

// withSession opens ref, runs fn and flushes the result.
func withSession(ref string, fn func(s *session) error) error {
	s, err := openSession(ref)
	if err != nil {
		return err
	}
	if err := fn(s); err != nil {
		s.saver.Stop()
		return err
	}
	return s.close()
}

func runFrameAdd(cmd *cobra.Command, args []string) error {
	return withSession(args[0], func(s *session) error {
		var idx int
		if cmd.Flags().Changed("after") {
			idx = s.ctrl.InsertFrame(frameAfter)
		} else {
			idx = s.ctrl.AddFrame()
		}
		if idx < 0 {
			return fmt.Errorf("failed to add frame")
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Added frame %d (%d frames)\n", idx, s.ctrl.FrameCount())
		return nil
	})
}

func runFrameDup(cmd *cobra.Command, args []string) error {
	return withSession(args[0], func(s *session) error {
		if err := s.selectFrame(frameIndex); err != nil {
			return err
		}
		if !s.ctrl.DuplicateFrame() {
			return fmt.Errorf("failed to duplicate frame %d", frameIndex)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Duplicated frame %d to %d\n", frameIndex, s.ctrl.CurrentFrameIndex())
		return nil
	})
}

func runFrameDelete(cmd *cobra.Command, args []string) error {
	i, err := parseIndex("index", args[1])
	if err != nil {
		return err
	}
	return withSession(args[0], func(s *session) error {
		if !s.ctrl.DeleteFrame(i) {
			if s.ctrl.FrameCount() <= 1 {
				return fmt.Errorf("cannot delete the only frame")
			}
			return fmt.Errorf("frame %d out of range (sprite has %d frames)", i, s.ctrl.FrameCount())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Deleted frame %d (%d frames)\n", i, s.ctrl.FrameCount())
		return nil
	})
}

func runFrameMove(cmd *cobra.Command, args []string) error {
	idx, err := parseInts([]string{"from", "to"}, args[1:])
	if err != nil {
		return err
	}
	return withSession(args[0], func(s *session) error {
		if !s.ctrl.MoveFrame(idx[0], idx[1]) {
			return fmt.Errorf("cannot move frame %d to %d (sprite has %d frames)", idx[0], idx[1], s.ctrl.FrameCount())
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Moved frame %d to %d\n", idx[0], idx[1])
		return nil
	})
}

func runFrameRename(cmd *cobra.Command, args []string) error {
	i, err := parseIndex("index", args[1])
	if err != nil {
		return err
	}
	return withSession(args[0], func(s *session) error {
		if !s.ctrl.RenameFrame(i, args[2]) {
			return fmt.Errorf("cannot rename frame %d", i)
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Renamed frame %d to %q\n", i, args[2])
		return nil
	})
}
