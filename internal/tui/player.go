package tui

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/thruflo/pixl/internal/animation"
	"github.com/thruflo/pixl/internal/sprite"
)

// Player shows a sprite animating in the terminal. It is the controller's
// Renderer: Render only caches the composite and schedules a redraw, and
// all controller calls happen on the Run goroutine.
type Player struct {
	terminal *Terminal
	out      io.Writer
	notifier *Notifier
	view     *PlayerView

	ctrl *animation.Controller

	mu       sync.Mutex
	frame    int
	grid     sprite.Grid
	width    int
	running  bool
	redrawCh chan struct{}
}

// NewPlayer creates a Player that draws to out. Attach must be called
// before Run.
func NewPlayer(out io.Writer, notifier *Notifier) *Player {
	return &Player{
		terminal: NewTerminal(out),
		out:      out,
		notifier: notifier,
		view:     &PlayerView{},
		width:    80,
		redrawCh: make(chan struct{}, 1),
	}
}

// Attach binds the controller the player drives.
func (p *Player) Attach(c *animation.Controller) {
	p.ctrl = c
}

// Render implements animation.Renderer.
func (p *Player) Render(frameIndex int, g sprite.Grid) {
	p.mu.Lock()
	p.frame = frameIndex
	p.grid = g
	p.mu.Unlock()
	p.requestRedraw()
}

func (p *Player) requestRedraw() {
	select {
	case p.redrawCh <- struct{}{}:
	default:
	}
}

// State assembles the view state from the controller and the cached frame.
// It must not be called from Render.
func (p *Player) State() ViewState {
	p.mu.Lock()
	frame, grid := p.frame, p.grid
	p.mu.Unlock()

	st := ViewState{
		Frame:  frame,
		Canvas: RenderGrid(grid),
	}
	if p.notifier != nil {
		st.Message = p.notifier.LastMessage()
	}
	if p.ctrl == nil {
		return st
	}
	if s := p.ctrl.Sprite(); s != nil {
		st.Name, st.Width, st.Height = s.Name, s.Width, s.Height
	}
	if f := p.ctrl.CurrentFrame(); f != nil {
		st.FrameName = f.Name
	}
	st.Frames = p.ctrl.FrameCount()
	st.FPS = p.ctrl.FrameRate()
	st.Mode = string(p.ctrl.PlaybackMode())
	st.Playing = p.ctrl.IsPlaying()
	return st
}

// Lines renders the current state.
func (p *Player) Lines() []string {
	return p.view.Render(p.State(), p.width)
}

func (p *Player) draw() {
	if w, _, err := p.terminal.Size(); err == nil {
		p.width = w
	}
	p.terminal.Home()
	p.terminal.WriteLines(p.Lines())
}

// nextMode cycles loop, pingpong, once.
func nextMode(m animation.PlaybackMode) animation.PlaybackMode {
	switch m {
	case animation.ModeLoop:
		return animation.ModePingPong
	case animation.ModePingPong:
		return animation.ModeOnce
	default:
		return animation.ModeLoop
	}
}

// Handle applies cmd to the controller. It returns true when the player
// should exit.
func (p *Player) Handle(cmd Command) bool {
	c := p.ctrl
	if c == nil {
		return cmd == CommandQuit
	}
	switch cmd {
	case CommandQuit:
		return true
	case CommandToggle:
		if c.IsPlaying() {
			c.Stop()
		} else {
			c.Play()
		}
	case CommandNext, CommandPrev:
		c.Stop()
		n := c.FrameCount()
		if n == 0 {
			break
		}
		step := 1
		if cmd == CommandPrev {
			step = n - 1
		}
		c.SetCurrentFrame((c.CurrentFrameIndex() + step) % n)
	case CommandFaster:
		c.SetFrameRate(c.FrameRate() + 1)
	case CommandSlower:
		c.SetFrameRate(c.FrameRate() - 1)
	case CommandMode:
		c.SetPlaybackMode(nextMode(c.PlaybackMode()))
	}
	p.requestRedraw()
	return false
}

// Run starts the player event loop in raw mode.
// It returns when the context is cancelled or the user quits.
func (p *Player) Run(ctx context.Context) error {
	if p.ctrl == nil {
		return fmt.Errorf("player has no controller attached")
	}
	if err := p.terminal.EnterRaw(); err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}
	defer p.terminal.ExitRaw()
	defer p.terminal.ShowCursor()

	p.mu.Lock()
	p.running = true
	p.mu.Unlock()
	defer func() {
		p.mu.Lock()
		p.running = false
		p.mu.Unlock()
	}()

	keyReader := NewKeyReader(p.terminal)

	p.terminal.Clear()
	p.terminal.HideCursor()
	p.draw()

	keyCh := make(chan KeyEvent, 10)
	keyErr := make(chan error, 1)

	go func() {
		for {
			ev, err := keyReader.ReadKey()
			if err != nil {
				keyErr <- err
				return
			}
			select {
			case keyCh <- ev:
			case <-ctx.Done():
				return
			}
		}
	}()

	wasPlaying := p.ctrl.IsPlaying()
	for {
		select {
		case <-ctx.Done():
			p.ctrl.Stop()
			return ctx.Err()

		case err := <-keyErr:
			p.ctrl.Stop()
			// Reader error is usually EOF, which is expected on exit
			if err == io.EOF {
				return nil
			}
			return err

		case ev := <-keyCh:
			if p.Handle(ParseCommand(ev)) {
				p.ctrl.Stop()
				return nil
			}

		case <-p.redrawCh:
			p.draw()
			playing := p.ctrl.IsPlaying()
			if wasPlaying && !playing && p.ctrl.PlaybackMode() == animation.ModeOnce && p.notifier != nil {
				_ = p.notifier.NotifyForReason(NotifyReasonPlaybackDone, p.State().Name, true)
			}
			wasPlaying = playing
		}
	}
}

// IsRunning returns whether the player loop is active.
func (p *Player) IsRunning() bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.running
}
