package cli

import (
	"errors"
	"time"

	"github.com/charmbracelet/lipgloss"
	"lgremote/internal/lgtv"
)

// Screen types
type screen int

const (
	screenDeviceSetup screen = iota
	screenRemoteControl
)

// Common styles
var (
	titleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FAFAFA")).
			Background(lipgloss.Color("#A50034")).
			Padding(0, 1).
			Bold(true)

	subtitleStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#A50034")).
			Bold(true)

	inputStyle = lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("#A50034")).
			Padding(0, 1).
			Width(40)

	inputFocusedStyle = inputStyle.
				BorderForeground(lipgloss.Color("#FF79C6"))

	buttonStyle = lipgloss.NewStyle().
			Background(lipgloss.Color("#A50034")).
			Foreground(lipgloss.Color("#FAFAFA")).
			Padding(0, 2).
			Margin(0, 1)

	buttonActiveStyle = buttonStyle.
				Background(lipgloss.Color("#FF79C6"))

	remoteButtonStyle = lipgloss.NewStyle().
				Border(lipgloss.RoundedBorder()).
				Padding(0, 1).
				Background(lipgloss.Color("#44475A")).
				Foreground(lipgloss.Color("#F8F8F2"))

	remoteButtonActiveStyle = remoteButtonStyle.
				Background(lipgloss.Color("#FF79C6")).
				Foreground(lipgloss.Color("#FAFAFA"))

	errorStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FF5555")).
			Bold(true)

	successStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#50FA7B")).
			Bold(true)

	pendingStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#FFB86C")).
			Bold(true)

	helpStyle = lipgloss.NewStyle().
			Foreground(lipgloss.Color("#6272A4"))
)

// keyBindings maps terminal keys to TV remote keys
var keyBindings = map[string]lgtv.Key{
	"up":        lgtv.KeyUp,
	"down":      lgtv.KeyDown,
	"left":      lgtv.KeyLeft,
	"right":     lgtv.KeyRight,
	"enter":     lgtv.KeyOK,
	"p":         lgtv.KeyPower,
	"+":         lgtv.KeyVolumeUp,
	"=":         lgtv.KeyVolumeUp,
	"-":         lgtv.KeyVolumeDown,
	"m":         lgtv.KeyMute,
	"pgup":      lgtv.KeyChannelUp,
	"pgdown":    lgtv.KeyChannelDown,
	"h":         lgtv.KeyHome,
	"u":         lgtv.KeyMenu,
	"backspace": lgtv.KeyBack,
	"esc":       lgtv.KeyExit,
	"i":         lgtv.KeyExternalInput,
	"g":         lgtv.KeyEPG,
	"f1":        lgtv.KeyRed,
	"f2":        lgtv.KeyGreen,
	"f3":        lgtv.KeyYellow,
	"f4":        lgtv.KeyBlue,
	" ":         lgtv.KeyPause,
	"y":         lgtv.KeyPlay,
	"s":         lgtv.KeyStop,
	"f":         lgtv.KeyFastForward,
	"r":         lgtv.KeyRewind,
	"0":         lgtv.KeyNum0,
	"1":         lgtv.KeyNum1,
	"2":         lgtv.KeyNum2,
	"3":         lgtv.KeyNum3,
	"4":         lgtv.KeyNum4,
	"5":         lgtv.KeyNum5,
	"6":         lgtv.KeyNum6,
	"7":         lgtv.KeyNum7,
	"8":         lgtv.KeyNum8,
	"9":         lgtv.KeyNum9,
}

// Action history entry
type actionHistoryEntry struct {
	Timestamp time.Time
	Key       string
	Success   bool
	Error     string
}

// insertText inserts text at the specified position in a string
func insertText(text string, pos int, insert string) string {
	if pos < 0 {
		pos = 0
	}
	if pos > len(text) {
		pos = len(text)
	}
	return text[:pos] + insert + text[pos:]
}

// deleteCharAt deletes the character at the specified position
func deleteCharAt(text string, pos int) string {
	if pos < 0 || pos >= len(text) {
		return text
	}
	return text[:pos] + text[pos+1:]
}

// renderTextWithCursor renders text with a cursor indicator at the specified position
func renderTextWithCursor(text string, cursorPos int, showCursor bool) string {
	if !showCursor || cursorPos < 0 {
		return text
	}
	if cursorPos >= len(text) {
		return text + "│"
	}

	highlighted := lipgloss.NewStyle().
		Background(lipgloss.Color("#FF79C6")).
		Foreground(lipgloss.Color("#FAFAFA")).
		Render(string(text[cursorPos]))
	return text[:cursorPos] + highlighted + text[cursorPos+1:]
}

var errInvalidPort = errors.New("port must be a number between 1 and 65535")
