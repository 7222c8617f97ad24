package cli

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	hubconfig "lgremote/internal/cli"
	"lgremote/internal/device"
	"lgremote/internal/hub"
	"lgremote/internal/lgtv"
	"lgremote/internal/logger"
)

// LogEntry represents a log entry for display
type LogEntry struct {
	Timestamp time.Time
	Level     string // INF, ERR
	Message   string
	Key       string
}

// keySentMsg carries the outcome of a key press sent in the background
type keySentMsg struct {
	key      lgtv.Key
	response *device.ActionResponse
}

// deviceSavedMsg reports the outcome of storing the paired TV in the hub config
type deviceSavedMsg struct {
	err error
}

// RemoteModel handles the remote control screen
type RemoteModel struct {
	thing      *hub.Thing
	deviceInfo device.DeviceInfo

	// Optional, ctrl+s stores the paired TV under deviceID
	configManager *hubconfig.ConfigManager
	deviceID      string
	saveStatus    string

	lastKey      lgtv.Key
	lastKeyPress time.Time
	pending      int

	lastResponse  *device.ActionResponse
	actionHistory []actionHistoryEntry

	testMode bool

	width  int
	height int

	logBuffer   []LogEntry
	maxLogLines int
}

// NewRemoteModel creates the remote control screen for a paired TV
func NewRemoteModel(thing *hub.Thing, test bool, configManager *hubconfig.ConfigManager, deviceID string) RemoteModel {
	return RemoteModel{
		thing:         thing,
		deviceInfo:    thing.GetDeviceInfo(),
		configManager: configManager,
		deviceID:      deviceID,
		actionHistory: []actionHistoryEntry{},
		testMode:      test,
		logBuffer:     []LogEntry{},
		maxLogLines:   6,
	}
}

// Update handles remote control screen messages
func (m RemoteModel) Update(msg tea.Msg) (RemoteModel, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case keySentMsg:
		return m.handleKeySent(msg), nil

	case deviceSavedMsg:
		if msg.err != nil {
			m.saveStatus = errorStyle.Render("Save failed: " + msg.err.Error())
		} else {
			m.saveStatus = successStyle.Render(fmt.Sprintf("Saved as '%s' in %s", m.deviceID, m.configManager.GetConfigPath()))
		}
		return m, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+s" {
			return m.saveDevice()
		}
		key, ok := keyBindings[msg.String()]
		if !ok {
			return m, nil
		}
		return m.pressKey(key)
	}

	return m, nil
}

// pressKey sends the key through the device action interface without
// blocking the UI
func (m RemoteModel) pressKey(key lgtv.Key) (RemoteModel, tea.Cmd) {
	m.lastKey = key
	m.lastKeyPress = time.Now()
	m.pending++

	thing := m.thing
	return m, func() tea.Msg {
		actionJSON, err := device.CreateActionJSON(device.ActionTypeRemote, key.Name, nil)
		if err != nil {
			return keySentMsg{key: key, response: device.Failure("%v", err)}
		}
		response, err := thing.Process(actionJSON)
		if err != nil {
			response = device.Failure("%v", err)
		}
		return keySentMsg{key: key, response: response}
	}
}

// saveDevice writes the host and accepted pairing key to the hub config
func (m RemoteModel) saveDevice() (RemoteModel, tea.Cmd) {
	if m.configManager == nil {
		m.saveStatus = helpStyle.Render("Start with --config to save this TV to a hub configuration")
		return m, nil
	}

	m.saveStatus = pendingStyle.Render("Saving...")
	manager := m.configManager
	deviceConfig := m.thing.Config()
	deviceConfig.ID = m.deviceID
	return m, func() tea.Msg {
		return deviceSavedMsg{err: manager.SaveDevice(deviceConfig)}
	}
}

func (m RemoteModel) handleKeySent(msg keySentMsg) RemoteModel {
	if m.pending > 0 {
		m.pending--
	}
	m.lastResponse = msg.response

	entry := actionHistoryEntry{
		Timestamp: time.Now(),
		Key:       msg.key.Name,
		Success:   msg.response.Success,
		Error:     msg.response.Error,
	}
	m.actionHistory = append([]actionHistoryEntry{entry}, m.actionHistory...)
	if len(m.actionHistory) > 50 {
		m.actionHistory = m.actionHistory[:50]
	}

	if msg.response.Success {
		m.addLogEntry("INF", fmt.Sprintf("%s (%d) sent", msg.key.Name, msg.key.Code), msg.key.Name)
	} else {
		m.addLogEntry("ERR", fmt.Sprintf("%s failed: %s", msg.key.Name, msg.response.Error), msg.key.Name)
	}

	log := logger.With("remote")
	log.Info().
		Str("key", msg.key.Name).
		Bool("success", msg.response.Success).
		Msg("Remote key pressed")
	return m
}

func (m *RemoteModel) addLogEntry(level, message, key string) {
	m.logBuffer = append(m.logBuffer, LogEntry{
		Timestamp: time.Now(),
		Level:     level,
		Message:   message,
		Key:       key,
	})
	if len(m.logBuffer) > m.maxLogLines {
		m.logBuffer = m.logBuffer[len(m.logBuffer)-m.maxLogLines:]
	}
}

// View renders the remote control screen
func (m RemoteModel) View() string {
	var sections []string

	sections = append(sections, titleStyle.Render("lgremote - TV Remote Control"))

	deviceInfo := successStyle.Render(fmt.Sprintf("📺 %s (%s)", m.deviceInfo.Model, m.deviceInfo.Address))
	if m.testMode {
		deviceInfo += " " + pendingStyle.Render("(Test)")
	}
	sections = append(sections, deviceInfo)

	sections = append(sections, m.renderRemoteLayout())
	sections = append(sections, m.renderStatusBar())
	if m.saveStatus != "" {
		sections = append(sections, m.saveStatus)
	}

	if logDisplay := m.renderLogDisplay(); logDisplay != "" {
		sections = append(sections, logDisplay)
	}

	sections = append(sections, m.renderHelpText())
	return strings.Join(sections, "\n\n")
}

// renderRemoteLayout draws the remote as columns of buttons, highlighting
// the last key for a short moment
func (m RemoteModel) renderRemoteLayout() string {
	button := func(key lgtv.Key, label string) string {
		style := remoteButtonStyle
		if m.lastKey.Code == key.Code && time.Since(m.lastKeyPress) < 200*time.Millisecond {
			style = remoteButtonActiveStyle
		}
		return style.Render(fmt.Sprintf("%-6s", label))
	}

	navColumn := lipgloss.JoinVertical(lipgloss.Center,
		button(lgtv.KeyPower, " PWR"),
		"",
		button(lgtv.KeyUp, "  ↑"),
		lipgloss.JoinHorizontal(lipgloss.Center,
			button(lgtv.KeyLeft, "  ←"),
			button(lgtv.KeyOK, " OK"),
			button(lgtv.KeyRight, "  →")),
		button(lgtv.KeyDown, "  ↓"),
	)

	volumeColumn := lipgloss.JoinVertical(lipgloss.Center,
		button(lgtv.KeyVolumeUp, " VOL+"),
		button(lgtv.KeyMute, " MUTE"),
		button(lgtv.KeyVolumeDown, " VOL-"),
		"",
		button(lgtv.KeyChannelUp, " CH+"),
		button(lgtv.KeyChannelDown, " CH-"),
	)

	functionColumn := lipgloss.JoinVertical(lipgloss.Center,
		button(lgtv.KeyHome, " HOME"),
		button(lgtv.KeyMenu, " MENU"),
		button(lgtv.KeyBack, " BACK"),
		button(lgtv.KeyExit, " EXIT"),
		button(lgtv.KeyExternalInput, " INPUT"),
		button(lgtv.KeyEPG, " GUIDE"),
	)

	numberRows := []string{}
	for _, row := range [][]lgtv.Key{
		{lgtv.KeyNum1, lgtv.KeyNum2, lgtv.KeyNum3},
		{lgtv.KeyNum4, lgtv.KeyNum5, lgtv.KeyNum6},
		{lgtv.KeyNum7, lgtv.KeyNum8, lgtv.KeyNum9},
		{lgtv.KeyNum0},
	} {
		var buttons []string
		for _, key := range row {
			buttons = append(buttons, button(key, "  "+strings.TrimPrefix(key.Name, "N")))
		}
		numberRows = append(numberRows, lipgloss.JoinHorizontal(lipgloss.Center, buttons...))
	}
	numberColumn := lipgloss.JoinVertical(lipgloss.Center, numberRows...)

	mediaColumn := lipgloss.JoinVertical(lipgloss.Center,
		lipgloss.JoinHorizontal(lipgloss.Center,
			button(lgtv.KeyRed, " RED"),
			button(lgtv.KeyGreen, " GRN")),
		lipgloss.JoinHorizontal(lipgloss.Center,
			button(lgtv.KeyYellow, " YEL"),
			button(lgtv.KeyBlue, " BLU")),
		"",
		lipgloss.JoinHorizontal(lipgloss.Center,
			button(lgtv.KeyRewind, " ◀◀"),
			button(lgtv.KeyPlay, " ▶"),
			button(lgtv.KeyFastForward, " ▶▶")),
		lipgloss.JoinHorizontal(lipgloss.Center,
			button(lgtv.KeyPause, " ❚❚"),
			button(lgtv.KeyStop, " ■")),
	)

	return lipgloss.JoinHorizontal(lipgloss.Top,
		navColumn, "  ", volumeColumn, "  ", functionColumn, "  ", numberColumn, "  ", mediaColumn)
}

func (m RemoteModel) renderStatusBar() string {
	info := m.thing.StatusInfo()
	status := fmt.Sprintf("%s/%s", info.Status, info.Detail)

	var rendered string
	switch info.Status {
	case hub.ThingStatusOnline:
		rendered = successStyle.Render("● " + status)
	case hub.ThingStatusOffline:
		rendered = errorStyle.Render("● " + status)
		if info.Description != "" {
			rendered += " " + helpStyle.Render(info.Description)
		}
	default:
		rendered = pendingStyle.Render("● " + status)
	}

	if m.pending > 0 {
		rendered += " " + pendingStyle.Render(fmt.Sprintf("sending %d...", m.pending))
	} else if m.lastResponse != nil && m.lastResponse.Success {
		rendered += " " + helpStyle.Render(fmt.Sprintf("last: %s", m.lastKey.Name))
	}
	return rendered
}

func (m RemoteModel) renderLogDisplay() string {
	if len(m.logBuffer) == 0 {
		return ""
	}

	var lines []string
	for _, entry := range m.logBuffer {
		line := fmt.Sprintf("%s %s %s", entry.Timestamp.Format("15:04:05"), entry.Level, entry.Message)
		if entry.Level == "ERR" {
			lines = append(lines, errorStyle.Render(line))
		} else {
			lines = append(lines, helpStyle.Render(line))
		}
	}
	return strings.Join(lines, "\n")
}

func (m RemoteModel) renderHelpText() string {
	return helpStyle.Render(strings.Join([]string{
		"↑↓←→/enter: navigate • p: power • +/-: volume • m: mute • pgup/pgdn: channel",
		"h: home • u: menu • backspace: back • esc: exit • i: input • g: guide • 0-9: numbers",
		"f1-f4: colour keys • y: play • space: pause • s: stop • r/f: rewind/forward",
		"ctrl+s: save TV to hub config • q: back to setup",
	}, "\n"))
}
