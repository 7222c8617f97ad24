package cli

import (
	"net"
	"strconv"
	"strings"

	"github.com/charmbracelet/bubbletea"
	"lgremote/internal"
	"lgremote/internal/hub"
	"lgremote/internal/lgtv"
)

// Setup screen input fields
type setupField int

const (
	setupFieldHostAddress setupField = iota
	setupFieldPairingKey
	setupFieldConnect
	setupFieldCount
)

// handshakeDoneMsg carries the result of a background pairing handshake
type handshakeDoneMsg struct {
	thing  *hub.Thing
	status lgtv.Status
}

// SetupModel handles the pairing screen
type SetupModel struct {
	focusedField setupField

	hostAddress string
	pairingKey  string

	hostAddressCursor int
	pairingKeyCursor  int

	connecting      bool
	connectionError string
	notice          string

	// Set once the TV accepted the pairing key
	thing     *hub.Thing
	connected bool

	options *internal.FnModeOptions
}

// NewSetupModel creates a new setup screen model, pre-filled from the
// command line
func NewSetupModel(config lgtv.Config, options *internal.FnModeOptions) SetupModel {
	host := config.Hostname
	if config.Port > 0 && config.Port != lgtv.DefaultPort {
		host = net.JoinHostPort(host, strconv.Itoa(config.Port))
	}
	return SetupModel{
		focusedField:      setupFieldHostAddress,
		hostAddress:       host,
		pairingKey:        config.PairingKey,
		hostAddressCursor: len(host),
		pairingKeyCursor:  len(config.PairingKey),
		options:           options,
	}
}

// Update handles setup screen messages
func (m SetupModel) Update(msg tea.Msg) (SetupModel, tea.Cmd) {
	switch msg := msg.(type) {
	case handshakeDoneMsg:
		return m.handleHandshakeDone(msg), nil

	case tea.KeyMsg:
		if m.connecting {
			return m, nil
		}

		switch msg.String() {
		case "tab", "down":
			m.focusedField = (m.focusedField + 1) % setupFieldCount
			return m, nil

		case "shift+tab", "up":
			m.focusedField = (m.focusedField + setupFieldCount - 1) % setupFieldCount
			return m, nil

		case "enter":
			if m.focusedField == setupFieldConnect {
				return m.handleConnect()
			}
			m.focusedField++
			return m, nil

		case "left":
			m.moveCursor(-1)
			return m, nil

		case "right":
			m.moveCursor(1)
			return m, nil

		case "home":
			m.moveCursor(-len(m.hostAddress) - len(m.pairingKey))
			return m, nil

		case "end":
			m.moveCursor(len(m.hostAddress) + len(m.pairingKey))
			return m, nil

		case "backspace":
			m.editField(func(text string, cursor int) (string, int) {
				if cursor == 0 {
					return text, cursor
				}
				return deleteCharAt(text, cursor-1), cursor - 1
			})
			return m, nil

		case "delete":
			m.editField(func(text string, cursor int) (string, int) {
				return deleteCharAt(text, cursor), cursor
			})
			return m, nil

		default:
			if msg.Type == tea.KeyRunes {
				input := string(msg.Runes)
				m.editField(func(text string, cursor int) (string, int) {
					return insertText(text, cursor, input), cursor + len(input)
				})
			}
			return m, nil
		}
	}

	return m, nil
}

// editField applies an edit to the focused text field
func (m *SetupModel) editField(edit func(text string, cursor int) (string, int)) {
	switch m.focusedField {
	case setupFieldHostAddress:
		m.hostAddress, m.hostAddressCursor = edit(m.hostAddress, m.hostAddressCursor)
	case setupFieldPairingKey:
		m.pairingKey, m.pairingKeyCursor = edit(m.pairingKey, m.pairingKeyCursor)
	}
	m.connectionError = ""
}

func (m *SetupModel) moveCursor(delta int) {
	clamp := func(pos, max int) int {
		if pos < 0 {
			return 0
		}
		if pos > max {
			return max
		}
		return pos
	}

	switch m.focusedField {
	case setupFieldHostAddress:
		m.hostAddressCursor = clamp(m.hostAddressCursor+delta, len(m.hostAddress))
	case setupFieldPairingKey:
		m.pairingKeyCursor = clamp(m.pairingKeyCursor+delta, len(m.pairingKey))
	}
}

// deviceConfig turns the form into a device configuration. The host field
// accepts "host" or "host:port".
func (m SetupModel) deviceConfig() (hub.DeviceConfig, error) {
	config := hub.DeviceConfig{
		ID:         "tui",
		Hostname:   strings.TrimSpace(m.hostAddress),
		PairingKey: strings.TrimSpace(m.pairingKey),
	}

	if host, port, err := net.SplitHostPort(config.Hostname); err == nil {
		p, err := strconv.Atoi(port)
		if err != nil || p <= 0 || p > 65535 {
			return config, errInvalidPort
		}
		config.Hostname = host
		config.Port = p
	}
	if config.Hostname == "" {
		return config, lgtv.ErrMissingHostname
	}
	return config, nil
}

func (m SetupModel) handleConnect() (SetupModel, tea.Cmd) {
	config, err := m.deviceConfig()
	if err != nil {
		m.connectionError = err.Error()
		return m, nil
	}

	m.connecting = true
	m.connectionError = ""
	m.notice = ""

	options := m.options
	return m, func() tea.Msg {
		thing := hub.NewThing(config, options)
		thing.Initialize()
		thing.Wait()
		return handshakeDoneMsg{thing: thing, status: thing.PairingStatus()}
	}
}

func (m SetupModel) handleHandshakeDone(msg handshakeDoneMsg) SetupModel {
	m.connecting = false

	switch msg.status {
	case lgtv.StatusPaired:
		m.thing = msg.thing
		m.connected = true

	case lgtv.StatusWaitingForPairingKey:
		msg.thing.Dispose()
		m.notice = "The TV is showing a pairing key. Enter it above and connect again."
		m.focusedField = setupFieldPairingKey

	default:
		msg.thing.Dispose()
		if m.pairingKey != "" {
			m.connectionError = "The TV rejected the pairing key"
		} else {
			m.connectionError = "The TV did not answer the pairing request"
		}
	}
	return m
}

// View renders the setup screen
func (m SetupModel) View() string {
	var b strings.Builder

	b.WriteString(titleStyle.Render("lgremote - Pair with LG TV"))
	b.WriteString("\n\n")

	b.WriteString(subtitleStyle.Render("Host Address (IP or IP:Port):"))
	b.WriteString("\n")
	hostStyle := inputStyle
	showHostCursor := m.focusedField == setupFieldHostAddress
	if showHostCursor {
		hostStyle = inputFocusedStyle
	}
	b.WriteString(hostStyle.Render(renderTextWithCursor(m.hostAddress, m.hostAddressCursor, showHostCursor)))
	b.WriteString("\n\n")

	b.WriteString(subtitleStyle.Render("Pairing Key (leave empty to show it on the TV):"))
	b.WriteString("\n")
	keyStyle := inputStyle
	showKeyCursor := m.focusedField == setupFieldPairingKey
	if showKeyCursor {
		keyStyle = inputFocusedStyle
	}
	b.WriteString(keyStyle.Render(renderTextWithCursor(m.pairingKey, m.pairingKeyCursor, showKeyCursor)))
	b.WriteString("\n\n")

	connectStyle := buttonStyle
	if m.focusedField == setupFieldConnect {
		connectStyle = buttonActiveStyle
	}
	connectText := "Connect"
	if m.connecting {
		connectText = "Connecting..."
	}
	b.WriteString(connectStyle.Render(connectText))
	b.WriteString("\n\n")

	if m.connectionError != "" {
		b.WriteString(errorStyle.Render("Error: " + m.connectionError))
		b.WriteString("\n\n")
	}
	if m.notice != "" {
		b.WriteString(pendingStyle.Render(m.notice))
		b.WriteString("\n\n")
	}
	if m.options != nil && m.options.Test {
		b.WriteString(helpStyle.Render("Test mode: no requests are sent to a TV"))
		b.WriteString("\n")
	}

	b.WriteString(helpStyle.Render("tab/↑/↓: move • enter: select • q/ctrl+c: quit"))
	return b.String()
}

// IsConnected reports whether the TV accepted the pairing key
func (m SetupModel) IsConnected() bool {
	return m.connected
}

// GetThing returns the paired TV
func (m SetupModel) GetThing() *hub.Thing {
	return m.thing
}

// editing reports whether keystrokes currently go into a text field
func (m SetupModel) editing() bool {
	return m.focusedField == setupFieldHostAddress || m.focusedField == setupFieldPairingKey
}
