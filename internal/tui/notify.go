package tui

import (
	"fmt"
	"io"
	"os/exec"
	"runtime"
	"sync"
)

// Notifier handles notifications for the player and for one-shot commands.
// In the foreground it uses the terminal bell. Otherwise it uses OS-native
// notifications.
type Notifier struct {
	out        io.Writer
	foreground bool

	mu   sync.Mutex
	last string
}

// NewNotifier creates a Notifier that writes bell to the given output.
func NewNotifier(out io.Writer, foreground bool) *Notifier {
	return &Notifier{out: out, foreground: foreground}
}

// Bell writes the terminal bell character to output.
func (n *Notifier) Bell() {
	fmt.Fprint(n.out, Bell)
}

// NotifyOS sends an OS-native notification.
// On macOS, this uses osascript to display a notification.
// On other platforms, this is a no-op.
func (n *Notifier) NotifyOS(title, message string) error {
	if runtime.GOOS != "darwin" {
		return nil
	}
	return notifyMacOS(title, message)
}

// NotifyAttention rings the bell in the foreground and sends an OS
// notification otherwise.
func (n *Notifier) NotifyAttention(title, message string, isForeground bool) error {
	if isForeground {
		n.Bell()
		return nil
	}
	return n.NotifyOS(title, message)
}

func notifyMacOS(title, message string) error {
	script := fmt.Sprintf(`display notification %q with title %q`, message, title)
	cmd := exec.Command("osascript", "-e", script)
	return cmd.Run()
}

// SaveFailed reports an autosave failure. The message is kept for the
// status line.
func (n *Notifier) SaveFailed(spriteID string, err error) {
	n.mu.Lock()
	n.last = fmt.Sprintf("autosave failed: %v", err)
	n.mu.Unlock()
	_ = n.NotifyForReason(NotifyReasonSaveFailed, spriteID, n.foreground)
}

// LastMessage returns the most recent failure message, if any.
func (n *Notifier) LastMessage() string {
	n.mu.Lock()
	defer n.mu.Unlock()
	return n.last
}

// NotificationReason represents why a notification is being sent.
type NotificationReason int

const (
	NotifyReasonSaveFailed NotificationReason = iota
	NotifyReasonExportDone
	NotifyReasonPlaybackDone
)

// String returns a human-readable title for the notification reason.
func (r NotificationReason) String() string {
	switch r {
	case NotifyReasonSaveFailed:
		return "Save Failed"
	case NotifyReasonExportDone:
		return "Exported"
	case NotifyReasonPlaybackDone:
		return "Playback Finished"
	default:
		return "pixl"
	}
}

// DefaultMessage returns a default notification message for the reason.
func (r NotificationReason) DefaultMessage(name string) string {
	switch r {
	case NotifyReasonSaveFailed:
		return fmt.Sprintf("Sprite %s could not be saved", name)
	case NotifyReasonExportDone:
		return fmt.Sprintf("Sprite %s exported", name)
	case NotifyReasonPlaybackDone:
		return fmt.Sprintf("Sprite %s finished playing", name)
	default:
		return fmt.Sprintf("Sprite %s needs attention", name)
	}
}

// NotifyForReason sends a notification for the given reason.
func (n *Notifier) NotifyForReason(reason NotificationReason, name string, isForeground bool) error {
	title := "pixl: " + reason.String()
	message := reason.DefaultMessage(name)
	return n.NotifyAttention(title, message, isForeground)
}
