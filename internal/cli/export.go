package cli

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/thruflo/pixl/internal/animation"
	"github.com/thruflo/pixl/internal/export"
	"github.com/thruflo/pixl/internal/logging"
	"github.com/thruflo/pixl/internal/sprite"
	"github.com/thruflo/pixl/internal/state"
	"github.com/thruflo/pixl/internal/tui"
)

var (
	exportFormat  string
	exportScale   int
	exportOut     string
	exportFrame   int
	exportColumns int
	exportFPS     int
	exportNotify  bool
)

var exportCmd = &cobra.Command{
	Use:   "export SPRITE",
	Short: "Export a sprite as PNG, SVG, GIF or a sprite sheet",
	Long: `Exports the composited sprite.

Formats:
  png    one frame (--frame) as PNG
  svg    one frame as SVG, one rect per visible pixel
  gif    every frame as an animated GIF at --fps
  sheet  every frame tiled into one PNG, --columns per row

Format, scale and columns default to the export section of config.yaml.
Each export is recorded in .pixl/exports.json.`,
	Args: cobra.ExactArgs(1),
	RunE: runExport,
}

func init() {
	exportCmd.Flags().StringVarP(&exportFormat, "format", "f", "", "png, svg, gif or sheet")
	exportCmd.Flags().IntVarP(&exportScale, "scale", "s", 0, "integer upscale factor")
	exportCmd.Flags().StringVarP(&exportOut, "out", "o", "", "output path (default: NAME.EXT in the project directory)")
	exportCmd.Flags().IntVar(&exportFrame, "frame", 0, "frame index for png and svg")
	exportCmd.Flags().IntVar(&exportColumns, "columns", -1, "sprite sheet columns (0 puts every frame on one row)")
	exportCmd.Flags().IntVar(&exportFPS, "fps", 0, "gif frame rate (default from config)")
	exportCmd.Flags().BoolVar(&exportNotify, "notify", false, "send a desktop notification when done")
	rootCmd.AddCommand(exportCmd)
}

func runExport(cmd *cobra.Command, args []string) error {
	s, err := openSession(args[0])
	if err != nil {
		return err
	}
	defer s.close()

	name := exportFormat
	if name == "" {
		name = s.cfg.Export.Format
	}
	format, err := export.ParseFormat(name)
	if err != nil {
		return err
	}
	scale := exportScale
	if scale == 0 {
		scale = s.cfg.Export.Scale
	}
	columns := exportColumns
	if columns < 0 {
		columns = s.cfg.Export.Columns
	}
	fps := exportFPS
	if fps == 0 {
		fps = s.ctrl.FrameRate()
	}

	snap := s.ctrl.Snapshot()
	path := exportOut
	if path == "" {
		path = filepath.Join(s.base, exportFileName(snap.Name, format))
	}

	frames, err := writeExport(path, snap, format, scale, columns, fps, s.ctrl.PlaybackMode())
	if err != nil {
		return err
	}

	rec := state.ExportRecord{
		SpriteID:   snap.ID,
		Format:     string(format),
		Path:       path,
		Scale:      scale,
		Frames:     frames,
		ExportedAt: time.Now().UTC(),
	}
	if err := s.store.AppendExport(rec); err != nil {
		return err
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Exported %s (%s, %d frames, scale %d)\n", path, format, frames, scale)
	if exportNotify {
		if err := s.notifier.NotifyForReason(tui.NotifyReasonExportDone, snap.Name, false); err != nil {
			logging.Warn("export notification failed", "error", err)
		}
	}
	return nil
}

// exportFileName derives NAME.EXT from a sprite name.
func exportFileName(name string, f export.Format) string {
	name = strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ' ', ':':
			return '-'
		}
		return r
	}, name)
	if name == "" {
		name = "sprite"
	}
	if f == export.FormatSheet {
		name += "-sheet"
	}
	return name + f.Ext()
}

// writeExport encodes snap into path and returns the number of frames
// written. The file is removed when encoding fails.
func writeExport(path string, snap *sprite.Sprite, format export.Format, scale, columns, fps int, mode animation.PlaybackMode) (int, error) {
	var frame *sprite.Frame
	if format == export.FormatPNG || format == export.FormatSVG {
		frame = snap.Frame(exportFrame)
		if frame == nil {
			return 0, fmt.Errorf("frame %d out of range (sprite has %d frames)", exportFrame, len(snap.Frames))
		}
	}

	file, err := os.Create(path)
	if err != nil {
		return 0, fmt.Errorf("failed to create %s: %w", path, err)
	}

	frames := len(snap.Frames)
	switch format {
	case export.FormatPNG:
		frames = 1
		err = export.PNG(file, frame, scale)
	case export.FormatSVG:
		frames = 1
		err = export.SVG(file, frame, scale)
	case export.FormatGIF:
		enc := export.GIF{}
		if mode == animation.ModeOnce {
			enc.LoopCount = -1
		}
		err = export.Animation(file, snap, fps, scale, enc)
	case export.FormatSheet:
		_, err = export.SpriteSheet(file, snap, scale, columns)
	}

	if closeErr := file.Close(); err == nil && closeErr != nil {
		err = fmt.Errorf("failed to write %s: %w", path, closeErr)
	}
	if err != nil {
		os.Remove(path)
		return 0, err
	}
	return frames, nil
}
