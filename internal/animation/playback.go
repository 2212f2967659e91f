package animation

import "time"

// Frame rate bounds and default.
const (
	MinFrameRate     = 1
	MaxFrameRate     = 60
	DefaultFrameRate = 12
)

// PlaybackMode decides what happens when playback reaches either end.
type PlaybackMode string

// Playback modes.
const (
	ModeLoop     PlaybackMode = "loop"
	ModeOnce     PlaybackMode = "once"
	ModePingPong PlaybackMode = "pingpong"
)

// Valid reports whether m is a known mode.
func (m PlaybackMode) Valid() bool {
	switch m {
	case ModeLoop, ModeOnce, ModePingPong:
		return true
	}
	return false
}

// ClampFrameRate limits fps to [MinFrameRate, MaxFrameRate].
func ClampFrameRate(fps int) int {
	if fps < MinFrameRate {
		return MinFrameRate
	}
	if fps > MaxFrameRate {
		return MaxFrameRate
	}
	return fps
}

// FrameInterval is the tick interval for fps, i.e. 1000/fps milliseconds.
func FrameInterval(fps int) time.Duration {
	return time.Second / time.Duration(ClampFrameRate(fps))
}

// FrameDelayMillis is the per-frame display duration used by animated
// exports, 1000/fps truncated to whole milliseconds.
func FrameDelayMillis(fps int) int {
	return 1000 / ClampFrameRate(fps)
}

// nextFrame computes the frame after current. It returns the next index,
// the (possibly flipped) direction, and false when playback must stop
// instead of advancing.
func nextFrame(mode PlaybackMode, current, direction, length int) (int, int, bool) {
	if length <= 0 {
		return current, direction, false
	}
	switch mode {
	case ModeOnce:
		next := current + direction
		if next < 0 || next >= length {
			return current, direction, false
		}
		return next, direction, true
	case ModePingPong:
		next := current + direction
		if next >= length {
			direction = -1
			next = length - 2
		} else if next < 0 {
			direction = 1
			next = 1
		}
		return next, direction, true
	default:
		return ((current+direction)%length + length) % length, direction, true
	}
}
