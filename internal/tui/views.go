package tui

import (
	"fmt"
)

// ViewState holds the data needed to render the player.
type ViewState struct {
	Name      string
	Width     int
	Height    int
	Frame     int // zero-based
	FrameName string
	Frames    int
	FPS       int
	Mode      string
	Playing   bool
	Message   string // transient line, e.g. a save failure
	Canvas    []string
}

// PlayerView renders the canvas above a status box.
type PlayerView struct{}

// Render renders the player to a slice of lines.
// Width specifies the terminal width for the status box.
func (v *PlayerView) Render(state ViewState, width int) []string {
	if width < 24 {
		width = 24
	}

	lines := make([]string, 0, len(state.Canvas)+6)
	lines = append(lines, state.Canvas...)

	var content []string
	content = append(content, fmt.Sprintf("%s %dx%d", state.Name, state.Width, state.Height))

	status := Style("paused", FgYellow)
	if state.Playing {
		status = Style("playing", FgGreen)
	}
	content = append(content, fmt.Sprintf("%s | %d fps | %s", status, state.FPS, state.Mode))

	barWidth := width - 16
	if barWidth > 32 {
		barWidth = 32
	}
	content = append(content, ProgressBar(state.Frame, state.Frames, barWidth)+" "+state.FrameName)

	if state.Message != "" {
		content = append(content, Style(state.Message, FgRed))
	}

	content = append(content, Style("[space]play [←/→]step [+/-]fps [m]ode [q]uit", Dim))

	return append(lines, BoxWithContent(width, content)...)
}
