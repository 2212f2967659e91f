package tui

import (
	"fmt"
	"io"
	"os"

	"golang.org/x/term"

	"github.com/thruflo/pixl/internal/sprite"
)

// Terminal handles raw terminal mode and provides ANSI escape helpers.
type Terminal struct {
	in       *os.File
	out      io.Writer
	oldState *term.State
	isRaw    bool
}

// NewTerminal creates a Terminal that reads from stdin and writes to the given writer.
func NewTerminal(out io.Writer) *Terminal {
	return &Terminal{
		in:  os.Stdin,
		out: out,
	}
}

// IsTerminal reports whether stdin is an interactive terminal.
func (t *Terminal) IsTerminal() bool {
	return term.IsTerminal(int(t.in.Fd()))
}

// OutputIsTerminal reports whether the output writer is a terminal.
func (t *Terminal) OutputIsTerminal() bool {
	f, ok := t.out.(*os.File)
	return ok && term.IsTerminal(int(f.Fd()))
}

// EnterRaw puts the terminal into raw mode.
// Returns an error if already in raw mode or if the operation fails.
func (t *Terminal) EnterRaw() error {
	if t.isRaw {
		return fmt.Errorf("terminal already in raw mode")
	}

	oldState, err := term.MakeRaw(int(t.in.Fd()))
	if err != nil {
		return fmt.Errorf("failed to enter raw mode: %w", err)
	}

	t.oldState = oldState
	t.isRaw = true
	return nil
}

// ExitRaw restores the terminal to its original state.
// Safe to call even if not in raw mode.
func (t *Terminal) ExitRaw() error {
	if !t.isRaw || t.oldState == nil {
		return nil
	}

	if err := term.Restore(int(t.in.Fd()), t.oldState); err != nil {
		return fmt.Errorf("failed to restore terminal: %w", err)
	}

	t.isRaw = false
	t.oldState = nil
	return nil
}

// IsRaw returns true if the terminal is in raw mode.
func (t *Terminal) IsRaw() bool {
	return t.isRaw
}

// Size returns the current terminal width and height.
func (t *Terminal) Size() (width, height int, err error) {
	width, height, err = term.GetSize(int(t.in.Fd()))
	if err != nil {
		return 0, 0, fmt.Errorf("failed to get terminal size: %w", err)
	}
	return width, height, nil
}

// Read reads up to len(p) bytes from the terminal input.
func (t *Terminal) Read(p []byte) (n int, err error) {
	return t.in.Read(p)
}

// ANSI escape sequences
const (
	ClearScreen = "\033[2J"
	ClearLine   = "\033[K"
	CursorHome  = "\033[H"
	CursorHide  = "\033[?25l"
	CursorShow  = "\033[?25h"

	Reset = "\033[0m"
	Bold  = "\033[1m"
	Dim   = "\033[2m"

	FgRed         = "\033[31m"
	FgGreen       = "\033[32m"
	FgYellow      = "\033[33m"
	FgBrightBlack = "\033[90m"

	Bell = "\a"
)

// FgRGB returns a 24-bit foreground color sequence for p, ignoring alpha.
func FgRGB(p sprite.Pixel) string {
	return fmt.Sprintf("\033[38;2;%d;%d;%dm", p.R(), p.G(), p.B())
}

// BgRGB returns a 24-bit background color sequence for p, ignoring alpha.
func BgRGB(p sprite.Pixel) string {
	return fmt.Sprintf("\033[48;2;%d;%d;%dm", p.R(), p.G(), p.B())
}

// Clear clears the screen and moves cursor to home.
func (t *Terminal) Clear() {
	fmt.Fprint(t.out, ClearScreen+CursorHome)
}

// Home moves the cursor to the top left without clearing.
func (t *Terminal) Home() {
	fmt.Fprint(t.out, CursorHome)
}

// HideCursor hides the cursor.
func (t *Terminal) HideCursor() {
	fmt.Fprint(t.out, CursorHide)
}

// ShowCursor shows the cursor.
func (t *Terminal) ShowCursor() {
	fmt.Fprint(t.out, CursorShow)
}

// WriteLines writes each line followed by a clear-to-end and CRLF, which
// keeps raw mode output aligned.
func (t *Terminal) WriteLines(lines []string) {
	for _, l := range lines {
		fmt.Fprint(t.out, l+ClearLine+"\r\n")
	}
}
