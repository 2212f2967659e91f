// Package animation owns the current frame pointer of a sprite and keeps the
// working layer stack in sync with the sprite's frame list.
//
// The working stack holds exactly one frame's layers. Every operation that
// changes which frame is current first writes the stack back into the
// outgoing frame, then repairs the incoming frame and loads it into the
// stack. Frame CRUD and the playback state machine live here too, because
// both move the frame pointer.
package animation

import (
	"sync"
	"sync/atomic"

	"github.com/thruflo/pixl/internal/clock"
	"github.com/thruflo/pixl/internal/composite"
	"github.com/thruflo/pixl/internal/logging"
	"github.com/thruflo/pixl/internal/sprite"
)

// LayerStack is the working layer stack the controller loads frames into.
// layers.Stack implements it.
type LayerStack interface {
	Layers() []*sprite.Layer
	ActiveLayerIndex() int
	Load(layers []*sprite.Layer, active, width, height int)
	SetPixel(x, y int, p sprite.Pixel) bool
	SuspendHistory()
	ResumeHistory()
}

// Renderer receives the composited current frame after every frame change.
// It is called with the controller locked; edits it issues are dropped
// and it must not call any other controller method.
type Renderer interface {
	Render(frameIndex int, composite sprite.Grid)
}

// RendererFunc adapts a function to Renderer.
type RendererFunc func(frameIndex int, composite sprite.Grid)

// Render calls f.
func (f RendererFunc) Render(frameIndex int, g sprite.Grid) { f(frameIndex, g) }

// Phase tells mutating entry points whether the stack is safe to touch.
type Phase int32

const (
	// PhaseIdle accepts draws and saves.
	PhaseIdle Phase = iota
	// PhaseSwitchingFrame is set while the stack is being swapped.
	PhaseSwitchingFrame
	// PhaseImporting is set while a whole sprite is being loaded.
	PhaseImporting
)

func (p Phase) String() string {
	switch p {
	case PhaseIdle:
		return "idle"
	case PhaseSwitchingFrame:
		return "switching_frame"
	case PhaseImporting:
		return "importing"
	default:
		return "unknown"
	}
}

// Controller owns the current frame index, frame CRUD, stack
// synchronization and playback for one sprite.
type Controller struct {
	mu    sync.Mutex
	phase atomic.Int32

	sprite  *sprite.Sprite
	stack   LayerStack
	current int

	clock     clock.Clock
	renderer  Renderer
	onChange  func()
	playing   bool
	fps       int
	mode      PlaybackMode
	direction int
	ticker    clock.Timer
	tickGen   uint64

	log *logging.Logger
}

// Option configures a Controller.
type Option func(*Controller)

// WithClock sets the clock driving playback.
func WithClock(c clock.Clock) Option {
	return func(ctrl *Controller) { ctrl.clock = c }
}

// WithRenderer sets the render target.
func WithRenderer(r Renderer) Option {
	return func(ctrl *Controller) { ctrl.renderer = r }
}

// WithFrameRate sets the initial frame rate (clamped).
func WithFrameRate(fps int) Option {
	return func(ctrl *Controller) { ctrl.fps = ClampFrameRate(fps) }
}

// WithPlaybackMode sets the initial mode; invalid modes are ignored.
func WithPlaybackMode(m PlaybackMode) Option {
	return func(ctrl *Controller) {
		if m.Valid() {
			ctrl.mode = m
		}
	}
}

// WithOnChange registers a hook called after every successful mutation of
// the sprite or the stack, outside the controller lock. Autosave hangs off it.
func WithOnChange(fn func()) Option {
	return func(ctrl *Controller) { ctrl.onChange = fn }
}

// NewController attaches the stack to s and loads its first frame. s is
// repaired first. A nil sprite leaves the controller detached until
// LoadSprite; every frame operation then reports false.
func NewController(s *sprite.Sprite, stack LayerStack, opts ...Option) *Controller {
	c := &Controller{
		stack:     stack,
		clock:     clock.Real(),
		fps:       DefaultFrameRate,
		mode:      ModeLoop,
		direction: 1,
		log:       logging.With("component", "animation"),
	}
	for _, opt := range opts {
		opt(c)
	}
	if s != nil {
		c.LoadSprite(s)
	}
	return c
}

// Phase returns the current guard phase. It is safe to call from any goroutine.
func (c *Controller) Phase() Phase { return Phase(c.phase.Load()) }

func (c *Controller) enter(p Phase) func() {
	prev := Phase(c.phase.Swap(int32(p)))
	return func() { c.phase.Store(int32(prev)) }
}

// Sprite returns the attached sprite. Its current frame may lag the stack
// until the next sync; use Snapshot for a consistent copy.
func (c *Controller) Sprite() *sprite.Sprite {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.sprite
}

// CurrentFrameIndex returns the index of the frame loaded in the stack.
func (c *Controller) CurrentFrameIndex() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.current
}

// CurrentFrame returns the current frame, or nil without a sprite.
func (c *Controller) CurrentFrame() *sprite.Frame {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sprite == nil {
		return nil
	}
	return c.sprite.Frame(c.current)
}

// FrameCount returns the number of frames, 0 without a sprite.
func (c *Controller) FrameCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sprite == nil {
		return 0
	}
	return len(c.sprite.Frames)
}

func (c *Controller) changed() {
	if c.onChange != nil {
		c.onChange()
	}
}

func (c *Controller) touch() {
	if c.sprite != nil {
		c.sprite.Touch(c.clock.Now())
	}
}

// hasValidPixelData reports whether the stack is worth writing back: a
// stack that was never loaded, or lost its grids, must not overwrite a frame.
func hasValidPixelData(layers []*sprite.Layer) bool {
	found := false
	for _, l := range layers {
		if l == nil {
			continue
		}
		if !l.Pixels.HasPixelData() {
			return false
		}
		found = true
	}
	return found
}

// saveStackLocked writes the stack into the current frame.
func (c *Controller) saveStackLocked() bool {
	if c.sprite == nil {
		return false
	}
	f := c.sprite.Frame(c.current)
	if f == nil {
		return false
	}
	layers := c.stack.Layers()
	if !hasValidPixelData(layers) {
		c.log.Warn("skipped saving working stack without pixel data", "frame", c.current)
		return false
	}
	f.Layers = sprite.CloneLayers(layers, false)
	f.ActiveLayerIndex = c.stack.ActiveLayerIndex()
	sprite.RepairFrame(f, c.sprite.Width, c.sprite.Height)
	return true
}

// loadFrameLocked repairs the current frame and loads it into the stack
// with history recording suspended, so synthesized layers are never undoable.
func (c *Controller) loadFrameLocked() {
	f := c.sprite.Frame(c.current)
	if f == nil {
		return
	}
	c.stack.SuspendHistory()
	defer c.stack.ResumeHistory()

	if r := sprite.RepairFrame(f, c.sprite.Width, c.sprite.Height); !r.OK() {
		c.log.Warn("repaired frame before loading", "frame", c.current, "issues", len(r.Issues))
	}
	c.stack.Load(f.Layers, f.ActiveLayerIndex, c.sprite.Width, c.sprite.Height)
}

func (c *Controller) renderLocked() {
	if c.renderer == nil || c.sprite == nil {
		return
	}
	c.renderer.Render(c.current, composite.Layers(c.stack.Layers(), c.sprite.Width, c.sprite.Height))
}

// switchLocked runs the full frame switch: save outgoing, move pointer,
// load incoming, render.
func (c *Controller) switchLocked(index int) {
	defer c.enter(PhaseSwitchingFrame)()

	c.saveStackLocked()
	c.current = clampIndex(index, len(c.sprite.Frames))
	c.loadFrameLocked()
	c.renderLocked()
}

// reloadLocked loads the current frame without saving the stack first.
// Callers have already saved or have just replaced the frame list.
func (c *Controller) reloadLocked() {
	defer c.enter(PhaseSwitchingFrame)()

	c.current = clampIndex(c.current, len(c.sprite.Frames))
	c.loadFrameLocked()
	c.renderLocked()
}

func clampIndex(i, length int) int {
	if i >= length {
		i = length - 1
	}
	if i < 0 {
		i = 0
	}
	return i
}

// SetCurrentFrame switches to frame index (clamped into range). It returns
// false without touching anything when no sprite is attached.
func (c *Controller) SetCurrentFrame(index int) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sprite == nil {
		return false
	}
	c.switchLocked(index)
	return true
}

// LoadSprite replaces the attached sprite. Playback stops, the sprite is
// repaired and its first frame is loaded. A nil sprite detaches.
func (c *Controller) LoadSprite(s *sprite.Sprite) *sprite.Report {
	c.mu.Lock()
	defer c.mu.Unlock()
	defer c.enter(PhaseImporting)()

	c.stopLocked()
	c.sprite = s
	c.current = 0
	if s == nil {
		return &sprite.Report{}
	}
	r := sprite.RepairSprite(s, nil)
	if !r.OK() {
		c.log.Warn("repaired sprite on load", "sprite", s.ID, "issues", len(r.Issues))
	}
	c.loadFrameLocked()
	c.renderLocked()
	return r
}

// SyncToFrame writes the working stack into the current frame. It is
// ignored while a frame switch or import is in progress.
func (c *Controller) SyncToFrame() bool {
	if c.Phase() != PhaseIdle {
		return false
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.saveStackLocked()
}

// Snapshot returns a deep copy of the sprite with the working stack written
// back into the current frame, or nil without a sprite.
func (c *Controller) Snapshot() *sprite.Sprite {
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.sprite == nil {
		return nil
	}
	if c.Phase() == PhaseIdle {
		c.saveStackLocked()
	}
	return c.sprite.Clone()
}

// Edit runs fn against the working stack while no switch is in progress.
// fn reports whether it changed anything; on true the sprite is marked
// modified and the change hook runs. Edits arriving mid-switch are dropped.
func (c *Controller) Edit(fn func() bool) bool {
	if c.Phase() != PhaseIdle {
		c.log.Debug("dropped edit during frame switch")
		return false
	}
	c.mu.Lock()
	if c.sprite == nil {
		c.mu.Unlock()
		return false
	}
	ok := fn()
	if ok {
		c.touch()
	}
	c.mu.Unlock()

	if ok {
		c.changed()
	}
	return ok
}

// Draw sets one pixel on the stack's active layer.
func (c *Controller) Draw(x, y int, p sprite.Pixel) bool {
	return c.Edit(func() bool { return c.stack.SetPixel(x, y, p) })
}

// mutate runs a frame-list operation and fires the change hook on success.
func (c *Controller) mutate(fn func() bool) bool {
	c.mu.Lock()
	ok := c.sprite != nil && fn()
	if ok {
		c.touch()
	}
	c.mu.Unlock()

	if ok {
		c.changed()
	}
	return ok
}

// AddFrame appends a new frame with one transparent Background layer and
// makes it current. It returns the new index, or -1 without a sprite.
func (c *Controller) AddFrame() int {
	idx := -1
	c.mutate(func() bool {
		idx = c.insertFrameLocked(len(c.sprite.Frames) - 1)
		return true
	})
	return idx
}

// InsertFrame inserts a new frame after index after (clamped to
// [-1, len-1]; -1 inserts at the front) and makes it current.
func (c *Controller) InsertFrame(after int) int {
	idx := -1
	c.mutate(func() bool {
		idx = c.insertFrameLocked(after)
		return true
	})
	return idx
}

func (c *Controller) insertFrameLocked(after int) int {
	defer c.enter(PhaseSwitchingFrame)()

	c.saveStackLocked()
	at := min(max(after, -1), len(c.sprite.Frames)-1) + 1
	f := sprite.NewFrame(sprite.FrameName(len(c.sprite.Frames)), c.sprite.Width, c.sprite.Height)
	c.sprite.Frames = insertFrame(c.sprite.Frames, at, f)
	c.current = at
	c.loadFrameLocked()
	c.renderLocked()
	return at
}

// DuplicateFrame deep-copies the current frame (fresh IDs for the frame and
// each layer) directly after it and makes the copy current.
func (c *Controller) DuplicateFrame() bool {
	return c.mutate(func() bool {
		defer c.enter(PhaseSwitchingFrame)()

		c.saveStackLocked()
		src := c.sprite.Frame(c.current)
		if src == nil {
			return false
		}
		dup := src.Clone(true)
		dup.Name = src.Name + " copy"
		at := c.current + 1
		c.sprite.Frames = insertFrame(c.sprite.Frames, at, dup)
		c.current = at
		c.loadFrameLocked()
		c.renderLocked()
		return true
	})
}

// DeleteFrame removes the frame at index. The last frame is never removed.
// The pointer stays on an adjacent frame: clamped when it falls off the
// end, decremented when a frame before it was removed.
func (c *Controller) DeleteFrame(index int) bool {
	return c.mutate(func() bool {
		n := len(c.sprite.Frames)
		if n <= 1 || index < 0 || index >= n {
			return false
		}
		defer c.enter(PhaseSwitchingFrame)()

		c.saveStackLocked()
		c.sprite.Frames = append(c.sprite.Frames[:index], c.sprite.Frames[index+1:]...)
		if c.current >= len(c.sprite.Frames) {
			c.current = len(c.sprite.Frames) - 1
		} else if c.current > index {
			c.current--
		}
		if len(c.sprite.Frames) <= 1 {
			c.stopLocked()
		}
		c.loadFrameLocked()
		c.renderLocked()
		return true
	})
}

// DeleteCurrentFrame removes the current frame.
func (c *Controller) DeleteCurrentFrame() bool {
	return c.DeleteFrame(c.CurrentFrameIndex())
}

// MoveFrame moves the frame at from to position to. The pointer follows
// the moved frame when it was current, and otherwise shifts so it keeps
// referring to the same frame.
func (c *Controller) MoveFrame(from, to int) bool {
	return c.mutate(func() bool {
		n := len(c.sprite.Frames)
		if from < 0 || from >= n || to < 0 || to >= n || from == to {
			return false
		}
		defer c.enter(PhaseSwitchingFrame)()

		c.saveStackLocked()
		f := c.sprite.Frames[from]
		frames := append(c.sprite.Frames[:from], c.sprite.Frames[from+1:]...)
		c.sprite.Frames = insertFrame(frames, to, f)

		switch {
		case c.current == from:
			c.current = to
		case from < c.current && to >= c.current:
			c.current--
		case from > c.current && to <= c.current:
			c.current++
		}
		c.loadFrameLocked()
		c.renderLocked()
		return true
	})
}

// RenameFrame sets the display name of frame index.
func (c *Controller) RenameFrame(index int, name string) bool {
	return c.mutate(func() bool {
		f := c.sprite.Frame(index)
		if f == nil || name == "" {
			return false
		}
		f.Name = name
		return true
	})
}

// Resize rewrites every frame to width x height (nearest-neighbor scaling
// or top-left anchored crop/pad) and reloads the current frame.
func (c *Controller) Resize(width, height int, nearest bool) bool {
	return c.mutate(func() bool {
		if width <= 0 || height <= 0 {
			return false
		}
		c.saveStackLocked()
		c.sprite.Resize(width, height, nearest)
		c.reloadLocked()
		return true
	})
}

// Crop cuts every frame to the given window and reloads the current frame.
func (c *Controller) Crop(x, y, width, height int) bool {
	return c.mutate(func() bool {
		if width <= 0 || height <= 0 {
			return false
		}
		c.saveStackLocked()
		c.sprite.Crop(x, y, width, height)
		c.reloadLocked()
		return true
	})
}

func insertFrame(frames []*sprite.Frame, at int, f *sprite.Frame) []*sprite.Frame {
	frames = append(frames, nil)
	copy(frames[at+1:], frames[at:])
	frames[at] = f
	return frames
}
