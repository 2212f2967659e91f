package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/thruflo/pixl/internal/animation"
	"github.com/thruflo/pixl/internal/sprite"
	"github.com/thruflo/pixl/internal/tui"
)

var (
	playFPS   int
	playMode  string
	playLoops int
)

var playCmd = &cobra.Command{
	Use:   "play SPRITE",
	Short: "Play a sprite's animation in the terminal",
	Long: `Plays the animation with a truecolor half-block renderer.

Keys: space play/pause, left/right step, +/- frame rate, m cycle mode, q quit.

When stdin or stdout is not a terminal the frames are stepped without waiting and
listed one per line, --loops passes long.`,
	Args: cobra.ExactArgs(1),
	RunE: runPlay,
}

func init() {
	playCmd.Flags().IntVar(&playFPS, "fps", 0, "frame rate 1-60 (default from config)")
	playCmd.Flags().StringVar(&playMode, "mode", "", "loop, once or pingpong (default from config)")
	playCmd.Flags().IntVar(&playLoops, "loops", 1, "passes to list when not attached to a terminal")
	rootCmd.AddCommand(playCmd)
}

func runPlay(cmd *cobra.Command, args []string) error {
	var opts []animation.Option
	if playFPS != 0 {
		opts = append(opts, animation.WithFrameRate(playFPS))
	}
	if playMode != "" {
		m := animation.PlaybackMode(playMode)
		if !m.Valid() {
			return fmt.Errorf("unknown playback mode %q", playMode)
		}
		opts = append(opts, animation.WithPlaybackMode(m))
	}

	term := tui.NewTerminal(cmd.OutOrStdout())
	if !term.IsTerminal() || !term.OutputIsTerminal() {
		return playHeadless(cmd.OutOrStdout(), args[0], opts)
	}

	notifier := tui.NewNotifier(cmd.OutOrStdout(), true)
	player := tui.NewPlayer(cmd.OutOrStdout(), notifier)
	s, err := openSession(args[0], append(opts, animation.WithRenderer(player))...)
	if err != nil {
		return err
	}
	defer s.close()
	player.Attach(s.ctrl)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.ctrl.Play()
	if err := player.Run(ctx); err != nil && !errors.Is(err, context.Canceled) {
		return err
	}
	return nil
}

// playHeadless steps the controller like the playback timer would and
// prints each frame it lands on.
func playHeadless(out io.Writer, ref string, opts []animation.Option) error {
	var shown []int
	rec := animation.RendererFunc(func(i int, _ sprite.Grid) { shown = append(shown, i) })

	s, err := openSession(ref, append(opts, animation.WithRenderer(rec))...)
	if err != nil {
		return err
	}
	defer s.close()

	n := s.ctrl.FrameCount()
	steps := playLoops*n - 1
	for i := 0; i < steps; i++ {
		if !s.ctrl.Tick() {
			break
		}
	}

	snap := s.ctrl.Snapshot()
	fmt.Fprintf(out, "%s: %d frames at %d fps (%s)\n", snap.Name, n, s.ctrl.FrameRate(), s.ctrl.PlaybackMode())
	delay := animation.FrameDelayMillis(s.ctrl.FrameRate())
	for _, i := range shown {
		fmt.Fprintf(out, "%4dms  [%d] %s\n", delay, i, snap.Frames[i].Name)
	}
	return nil
}
