// Package layers implements the working layer stack: the single mutable
// layer list the user draws on. It holds one frame's layers at a time; the
// animation controller copies layers in and out of it on every frame switch.
//
// Undo and redo are snapshot based. Each recorded step stores a deep copy of
// the layer list taken before the mutation; a batch collapses any number of
// mutations into one step.
package layers

import (
	"math"
	"strconv"

	"github.com/thruflo/pixl/internal/composite"
	"github.com/thruflo/pixl/internal/sprite"
)

// DefaultHistoryLimit caps the number of undo steps kept.
const DefaultHistoryLimit = 50

type snapshot struct {
	layers []*sprite.Layer
	active int
	width  int
	height int
}

// Stack is the working layer stack. It is not safe for concurrent use; the
// animation controller serializes access to it.
type Stack struct {
	layers []*sprite.Layer
	active int
	width  int
	height int

	undo         []snapshot
	redo         []snapshot
	historyLimit int
	suspended    int
	batchDepth   int
	batchPending bool
}

// Option configures a Stack.
type Option func(*Stack)

// WithHistoryLimit sets the maximum number of undo steps.
func WithHistoryLimit(n int) Option {
	return func(s *Stack) {
		if n > 0 {
			s.historyLimit = n
		}
	}
}

// New creates a stack holding one transparent Background layer.
func New(width, height int, opts ...Option) *Stack {
	s := &Stack{
		layers:       []*sprite.Layer{sprite.NewLayer(sprite.DefaultLayerName, width, height)},
		width:        width,
		height:       height,
		historyLimit: DefaultHistoryLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Layers returns the live layer list. Callers that keep the data must copy
// it with sprite.CloneLayers.
func (s *Stack) Layers() []*sprite.Layer { return s.layers }

// ActiveLayerIndex returns the index of the layer drawing applies to.
func (s *Stack) ActiveLayerIndex() int { return s.active }

// ActiveLayer returns the active layer, or nil if the stack is empty.
func (s *Stack) ActiveLayer() *sprite.Layer {
	if s.active < 0 || s.active >= len(s.layers) {
		return nil
	}
	return s.layers[s.active]
}

// Width returns the pixel width every layer in the stack is sized to.
func (s *Stack) Width() int { return s.width }

// Height returns the pixel height every layer in the stack is sized to.
func (s *Stack) Height() int { return s.height }

// Load replaces the stack contents with deep copies of layers and clears
// the history. The size is taken from the caller because an empty or
// malformed list carries no reliable size of its own.
func (s *Stack) Load(layers []*sprite.Layer, active, width, height int) {
	s.layers = sprite.CloneLayers(layers, false)
	s.width, s.height = width, height
	s.active = active
	if s.active < 0 || s.active >= len(s.layers) {
		s.active = 0
	}
	s.undo = nil
	s.redo = nil
	s.batchPending = false
}

// SuspendHistory stops recording undo steps until ResumeHistory. Calls nest.
func (s *Stack) SuspendHistory() { s.suspended++ }

// ResumeHistory re-enables recording after SuspendHistory.
func (s *Stack) ResumeHistory() {
	if s.suspended > 0 {
		s.suspended--
	}
}

// HistorySuspended reports whether undo recording is off.
func (s *Stack) HistorySuspended() bool { return s.suspended > 0 }

// CanUndo reports whether an undo step is available.
func (s *Stack) CanUndo() bool { return len(s.undo) > 0 }

// CanRedo reports whether a redo step is available.
func (s *Stack) CanRedo() bool { return len(s.redo) > 0 }

func (s *Stack) capture() snapshot {
	return snapshot{
		layers: sprite.CloneLayers(s.layers, false),
		active: s.active,
		width:  s.width,
		height: s.height,
	}
}

func (s *Stack) restore(snap snapshot) {
	s.layers = snap.layers
	s.active = snap.active
	s.width, s.height = snap.width, snap.height
}

// record pushes an undo step for the mutation about to happen.
func (s *Stack) record() {
	if s.suspended > 0 {
		return
	}
	if s.batchDepth > 0 {
		if s.batchPending {
			return
		}
		s.batchPending = true
	}
	s.undo = append(s.undo, s.capture())
	if len(s.undo) > s.historyLimit {
		s.undo = s.undo[len(s.undo)-s.historyLimit:]
	}
	s.redo = nil
}

// StartBatchOperation groups subsequent mutations into one undo step until
// the matching EndBatchOperation.
func (s *Stack) StartBatchOperation() {
	s.batchDepth++
}

// EndBatchOperation closes a batch.
func (s *Stack) EndBatchOperation() {
	if s.batchDepth == 0 {
		return
	}
	s.batchDepth--
	if s.batchDepth == 0 {
		s.batchPending = false
	}
}

// Undo restores the state before the last recorded step.
func (s *Stack) Undo() bool {
	if len(s.undo) == 0 {
		return false
	}
	prev := s.undo[len(s.undo)-1]
	s.undo = s.undo[:len(s.undo)-1]
	s.redo = append(s.redo, s.capture())
	s.restore(prev)
	return true
}

// Redo re-applies the last undone step.
func (s *Stack) Redo() bool {
	if len(s.redo) == 0 {
		return false
	}
	next := s.redo[len(s.redo)-1]
	s.redo = s.redo[:len(s.redo)-1]
	s.undo = append(s.undo, s.capture())
	s.restore(next)
	return true
}

// SetPixel writes p into the active layer. Locked layers and coordinates
// outside the canvas are refused.
func (s *Stack) SetPixel(x, y int, p sprite.Pixel) bool {
	l := s.ActiveLayer()
	if l == nil || l.Locked {
		return false
	}
	if x < 0 || y < 0 || x >= s.width || y >= s.height {
		return false
	}
	if l.Pixels.At(x, y) == p {
		return true
	}
	s.record()
	return l.Pixels.Set(x, y, p)
}

// GetPixel reads from the active layer.
func (s *Stack) GetPixel(x, y int) sprite.Pixel {
	l := s.ActiveLayer()
	if l == nil {
		return sprite.Transparent
	}
	return l.Pixels.At(x, y)
}

func (s *Stack) valid(i int) bool { return i >= 0 && i < len(s.layers) }

// AddLayer inserts a transparent layer above the active one and makes it
// active. It returns the new index.
func (s *Stack) AddLayer(name string) int {
	s.record()
	if name == "" {
		name = "Layer " + strconv.Itoa(len(s.layers)+1)
	}
	at := s.active + 1
	if at > len(s.layers) {
		at = len(s.layers)
	}
	l := sprite.NewLayer(name, s.width, s.height)
	s.layers = append(s.layers, nil)
	copy(s.layers[at+1:], s.layers[at:])
	s.layers[at] = l
	s.active = at
	return at
}

// DeleteLayer removes layer i. The last remaining layer cannot be deleted.
func (s *Stack) DeleteLayer(i int) bool {
	if !s.valid(i) || len(s.layers) <= 1 {
		return false
	}
	s.record()
	s.layers = append(s.layers[:i], s.layers[i+1:]...)
	if s.active >= len(s.layers) || s.active > i {
		s.active--
	}
	if s.active < 0 {
		s.active = 0
	}
	return true
}

// DuplicateLayer copies layer i (new ID, copied pixels) directly above it.
func (s *Stack) DuplicateLayer(i int) bool {
	if !s.valid(i) {
		return false
	}
	s.record()
	dup := s.layers[i].Clone(true)
	dup.Name = s.layers[i].Name + " copy"
	s.layers = append(s.layers, nil)
	copy(s.layers[i+2:], s.layers[i+1:])
	s.layers[i+1] = dup
	s.active = i + 1
	return true
}

// MoveLayer moves layer from to position to; the active layer follows its data.
func (s *Stack) MoveLayer(from, to int) bool {
	if !s.valid(from) || !s.valid(to) || from == to {
		return false
	}
	s.record()
	activeLayer := s.layers[s.active]
	l := s.layers[from]
	s.layers = append(s.layers[:from], s.layers[from+1:]...)
	s.layers = append(s.layers[:to], append([]*sprite.Layer{l}, s.layers[to:]...)...)
	for i, cur := range s.layers {
		if cur == activeLayer {
			s.active = i
			break
		}
	}
	return true
}

// SetActiveLayer selects the layer drawing applies to.
func (s *Stack) SetActiveLayer(i int) bool {
	if !s.valid(i) {
		return false
	}
	s.active = i
	return true
}

// SetLayerOpacity sets layer i's opacity, clamped into [0,1].
func (s *Stack) SetLayerOpacity(i int, v float64) bool {
	if !s.valid(i) || math.IsNaN(v) {
		return false
	}
	s.record()
	s.layers[i].Opacity = math.Max(0, math.Min(1, v))
	return true
}

// SetLayerVisibility shows or hides layer i.
func (s *Stack) SetLayerVisibility(i int, visible bool) bool {
	if !s.valid(i) {
		return false
	}
	s.record()
	s.layers[i].Visible = visible
	return true
}

// SetLayerLocked locks or unlocks layer i against drawing.
func (s *Stack) SetLayerLocked(i int, locked bool) bool {
	if !s.valid(i) {
		return false
	}
	s.record()
	s.layers[i].Locked = locked
	return true
}

// RenameLayer changes layer i's name.
func (s *Stack) RenameLayer(i int, name string) bool {
	if !s.valid(i) || name == "" {
		return false
	}
	s.record()
	s.layers[i].Name = name
	return true
}

// Resize rewrites every layer grid to width x height.
func (s *Stack) Resize(width, height int, nearest bool) bool {
	if width <= 0 || height <= 0 {
		return false
	}
	s.record()
	for _, l := range s.layers {
		l.Pixels = sprite.ResizeGrid(l.Pixels, width, height, nearest)
	}
	s.width, s.height = width, height
	return true
}

// CompositeGrid flattens the stack with the same code used for export.
func (s *Stack) CompositeGrid() sprite.Grid {
	return composite.Layers(s.layers, s.width, s.height)
}
