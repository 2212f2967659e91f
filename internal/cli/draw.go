package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/thruflo/pixl/internal/config"
)

var (
	drawFrame     int
	drawLayer     int
	resizeNearest bool
)

var drawCmd = &cobra.Command{
	Use:   "draw SPRITE X Y COLOR",
	Short: "Set one pixel",
	Long: `Sets pixel (X, Y) of a layer to COLOR. COLOR is a name from
.pixl/palette or a hex color (#rgb, #rrggbb or #rrggbbaa).

The layer defaults to the frame's active layer.`,
	Args: cobra.ExactArgs(4),
	RunE: runDraw,
}

var resizeCmd = &cobra.Command{
	Use:   "resize SPRITE WIDTH HEIGHT",
	Short: "Resize every frame",
	Long: `Resizes every frame of the sprite. By default the canvas is cropped or
padded from the top-left corner; --nearest scales the pixels instead.`,
	Args: cobra.ExactArgs(3),
	RunE: runResize,
}

var cropCmd = &cobra.Command{
	Use:   "crop SPRITE X Y WIDTH HEIGHT",
	Short: "Crop every frame to a window",
	Args:  cobra.ExactArgs(5),
	RunE:  runCrop,
}

func init() {
	drawCmd.Flags().IntVar(&drawFrame, "frame", 0, "frame index")
	drawCmd.Flags().IntVar(&drawLayer, "layer", -1, "layer index (default: active layer)")
	resizeCmd.Flags().BoolVar(&resizeNearest, "nearest", false, "scale with nearest-neighbor instead of cropping")
	rootCmd.AddCommand(drawCmd, resizeCmd, cropCmd)
}

func runDraw(cmd *cobra.Command, args []string) error {
	xy, err := parseInts([]string{"x", "y"}, args[1:3])
	if err != nil {
		return err
	}
	base, err := projectDir()
	if err != nil {
		return err
	}
	pal, err := config.LoadPalette(base)
	if err != nil {
		return err
	}
	color, err := pal.Color(args[3])
	if err != nil {
		return fmt.Errorf("unknown color %q: %w", args[3], err)
	}

	return withSession(args[0], func(s *session) error {
		if err := s.selectFrame(drawFrame); err != nil {
			return err
		}
		if drawLayer >= 0 {
			if err := s.selectLayer(drawLayer); err != nil {
				return err
			}
		}
		ok := s.ctrl.Edit(func() bool {
			if drawLayer >= 0 {
				s.stack.SetActiveLayer(drawLayer)
			}
			return s.stack.SetPixel(xy[0], xy[1], color)
		})
		if !ok {
			return fmt.Errorf("cannot draw at (%d, %d): outside the canvas or layer locked", xy[0], xy[1])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Set (%d, %d) to %s\n", xy[0], xy[1], color.Hex())
		return nil
	})
}

func runResize(cmd *cobra.Command, args []string) error {
	wh, err := parseInts([]string{"width", "height"}, args[1:])
	if err != nil {
		return err
	}
	return withSession(args[0], func(s *session) error {
		if !s.ctrl.Resize(wh[0], wh[1], resizeNearest) {
			return fmt.Errorf("invalid size %dx%d", wh[0], wh[1])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Resized to %dx%d\n", wh[0], wh[1])
		return nil
	})
}

func runCrop(cmd *cobra.Command, args []string) error {
	v, err := parseInts([]string{"x", "y", "width", "height"}, args[1:])
	if err != nil {
		return err
	}
	return withSession(args[0], func(s *session) error {
		if !s.ctrl.Crop(v[0], v[1], v[2], v[3]) {
			return fmt.Errorf("invalid crop window %dx%d", v[2], v[3])
		}
		fmt.Fprintf(cmd.OutOrStdout(), "Cropped to %dx%d at (%d, %d)\n", v[2], v[3], v[0], v[1])
		return nil
	})
}
