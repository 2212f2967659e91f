package cli

import (
	"fmt"
	"os"
	"strconv"

	"github.com/thruflo/pixl/internal/animation"
	"github.com/thruflo/pixl/internal/autosave"
	"github.com/thruflo/pixl/internal/config"
	"github.com/thruflo/pixl/internal/layers"
	"github.com/thruflo/pixl/internal/logging"
	"github.com/thruflo/pixl/internal/sprite"
	"github.com/thruflo/pixl/internal/state"
	"github.com/thruflo/pixl/internal/tui"
)

// session is one opened sprite: the store it came from, the controller
// driving its working stack and the scheduler persisting its edits.
type session struct {
	base     string
	store    *state.Store
	cfg      *config.Config
	stack    *layers.Stack
	ctrl     *animation.Controller
	saver    *autosave.Scheduler
	notifier *tui.Notifier
	report   *sprite.Report
}

// loadProject reads the config of the project directory.
func loadProject() (string, *config.Config, error) {
	base, err := projectDir()
	if err != nil {
		return "", nil, err
	}
	cfg, err := config.LoadConfig(base)
	if err != nil {
		return "", nil, err
	}
	return base, cfg, nil
}

// openSession resolves ref and attaches it to a fresh controller. Extra
// controller options are applied after the configured defaults.
func openSession(ref string, opts ...animation.Option) (*session, error) {
	base, cfg, err := loadProject()
	if err != nil {
		return nil, err
	}
	store := state.NewStore(base)
	sp, report, err := store.ResolveSprite(ref)
	if err != nil {
		return nil, err
	}

	s := &session{
		base:     base,
		store:    store,
		cfg:      cfg,
		stack:    layers.New(sp.Width, sp.Height, layers.WithHistoryLimit(cfg.History.Limit)),
		notifier: tui.NewNotifier(os.Stderr, true),
		report:   report,
	}
	s.saver = autosave.New(store, cfg.Autosave.Delay(), autosave.WithNotifier(s.notifier))

	defaults := []animation.Option{
		animation.WithFrameRate(cfg.Playback.FPS),
		animation.WithPlaybackMode(animation.PlaybackMode(cfg.Playback.Mode)),
		animation.WithOnChange(func() { s.saver.Schedule(s.ctrl) }),
	}
	s.ctrl = animation.NewController(sp, s.stack, append(defaults, opts...)...)

	logging.Debug("opened sprite", "sprite", sp.ID, "frames", len(sp.Frames))
	return s, nil
}

// close stops playback and writes any pending edits.
func (s *session) close() error {
	s.ctrl.Stop()
	return s.saver.Flush()
}

// selectFrame makes frame i current, rejecting indices out of range.
func (s *session) selectFrame(i int) error {
	if i < 0 || i >= s.ctrl.FrameCount() {
		return fmt.Errorf("frame %d out of range (sprite has %d frames)", i, s.ctrl.FrameCount())
	}
	s.ctrl.SetCurrentFrame(i)
	return nil
}

// selectLayer checks i against the current frame's layers.
func (s *session) selectLayer(i int) error {
	if i < 0 || i >= len(s.stack.Layers()) {
		return fmt.Errorf("layer %d out of range (frame has %d layers)", i, len(s.stack.Layers()))
	}
	return nil
}

// parseIndex parses a zero-based index argument.
func parseIndex(name, arg string) (int, error) {
	v, err := strconv.Atoi(arg)
	if err != nil {
		return 0, fmt.Errorf("invalid %s %q: %w", name, arg, err)
	}
	return v, nil
}

// parseInts parses a list of integer arguments with their names.
func parseInts(names []string, args []string) ([]int, error) {
	out := make([]int, len(args))
	for i, a := range args {
		v, err := parseIndex(names[i], a)
		if err != nil {
			return nil, err
		}
		out[i] = v
	}
	return out, nil
}
