package tui

import (
	"bufio"
	"io"
)

// Key represents a keyboard input.
type Key int

const (
	KeyUnknown Key = iota
	KeyEscape
	KeyEnter
	KeyUp
	KeyDown
	KeyLeft
	KeyRight
	KeyCtrlC
	KeyRune // Regular character
)

// KeyEvent represents a key press event.
type KeyEvent struct {
	Key  Key
	Rune rune // Only valid when Key == KeyRune
}

// KeyReader reads keyboard input from a raw terminal.
type KeyReader struct {
	reader *bufio.Reader
}

// NewKeyReader creates a KeyReader from the given io.Reader.
// The reader should be a raw terminal input (e.g., os.Stdin after term.MakeRaw).
func NewKeyReader(r io.Reader) *KeyReader {
	return &KeyReader{
		reader: bufio.NewReaderSize(r, 64),
	}
}

// ReadKey reads a single key event from the input.
// This method blocks until a key is pressed.
func (k *KeyReader) ReadKey() (KeyEvent, error) {
	b, err := k.reader.ReadByte()
	if err != nil {
		return KeyEvent{}, err
	}

	switch {
	case b == 0x03:
		return KeyEvent{Key: KeyCtrlC}, nil
	case b == 0x0D || b == 0x0A:
		return KeyEvent{Key: KeyEnter}, nil
	case b == 0x1B:
		return k.readEscapeSequence()
	case b >= 0x20 && b < 0x7F:
		return KeyEvent{Key: KeyRune, Rune: rune(b)}, nil
	default:
		return KeyEvent{Key: KeyUnknown}, nil
	}
}

// readEscapeSequence handles arrow keys; a lone escape is reported as
// KeyEscape.
func (k *KeyReader) readEscapeSequence() (KeyEvent, error) {
	if k.reader.Buffered() == 0 {
		return KeyEvent{Key: KeyEscape}, nil
	}
	b, err := k.reader.ReadByte()
	if err != nil || (b != '[' && b != 'O') {
		if err == nil {
			k.reader.UnreadByte()
		}
		return KeyEvent{Key: KeyEscape}, nil
	}

	b, err = k.reader.ReadByte()
	if err != nil {
		return KeyEvent{Key: KeyEscape}, nil
	}
	switch b {
	case 'A':
		return KeyEvent{Key: KeyUp}, nil
	case 'B':
		return KeyEvent{Key: KeyDown}, nil
	case 'C':
		return KeyEvent{Key: KeyRight}, nil
	case 'D':
		return KeyEvent{Key: KeyLeft}, nil
	}
	// Unknown sequence, consume up to its final byte
	for k.reader.Buffered() > 0 && !(b >= 'A' && b <= 'Z') && b != '~' {
		b, _ = k.reader.ReadByte()
	}
	return KeyEvent{Key: KeyUnknown}, nil
}

// Command is a player action bound to a key.
type Command int

const (
	CommandNone   Command = iota
	CommandToggle         // space - play/pause
	CommandNext           // right, 'l' - step forward
	CommandPrev           // left, 'h' - step back
	CommandFaster         // '+', up - raise fps
	CommandSlower         // '-', down - lower fps
	CommandMode           // 'm' - cycle playback mode
	CommandQuit           // 'q', esc, ctrl+c
)

// String returns the string representation of the command.
func (c Command) String() string {
	switch c {
	case CommandNone:
		return "none"
	case CommandToggle:
		return "toggle"
	case CommandNext:
		return "next"
	case CommandPrev:
		return "prev"
	case CommandFaster:
		return "faster"
	case CommandSlower:
		return "slower"
	case CommandMode:
		return "mode"
	case CommandQuit:
		return "quit"
	default:
		return "unknown"
	}
}

// ParseCommand converts a KeyEvent to a Command.
func ParseCommand(ev KeyEvent) Command {
	switch ev.Key {
	case KeyEscape, KeyCtrlC:
		return CommandQuit
	case KeyRight:
		return CommandNext
	case KeyLeft:
		return CommandPrev
	case KeyUp:
		return CommandFaster
	case KeyDown:
		return CommandSlower
	case KeyRune:
		switch ev.Rune {
		case ' ':
			return CommandToggle
		case 'l', 'L', '.':
			return CommandNext
		case 'h', 'H', ',':
			return CommandPrev
		case '+', '=':
			return CommandFaster
		case '-', '_':
			return CommandSlower
		case 'm', 'M':
			return CommandMode
		case 'q', 'Q':
			return CommandQuit
		}
	}
	return CommandNone
}
