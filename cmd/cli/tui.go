// Copyright 2025 Arion Yau
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package cli

import (
	"github.com/charmbracelet/bubbletea"
	"lgremote/internal"
	hubconfig "lgremote/internal/cli"
	"lgremote/internal/lgtv"
)

// Main TUI model that routes between screens
type model struct {
	currentScreen screen
	width         int
	height        int
	quitting      bool

	config  lgtv.Config
	options *internal.FnModeOptions

	configManager *hubconfig.ConfigManager
	deviceID      string

	setupModel  SetupModel
	remoteModel RemoteModel
}

func initialModel(config lgtv.Config, options *internal.FnModeOptions, configManager *hubconfig.ConfigManager, deviceID string) model {
	return model{
		currentScreen: screenDeviceSetup,
		config:        config,
		options:       options,
		configManager: configManager,
		deviceID:      deviceID,
		setupModel:    NewSetupModel(config, options),
	}
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.currentScreen == screenRemoteControl {
			m.remoteModel, _ = m.remoteModel.Update(msg)
		}
		return m, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c":
			m.quitting = true
			m.disposeRemote()
			return m, tea.Quit

		case "q":
			if m.currentScreen == screenRemoteControl {
				// Back to setup, keeping what was typed there
				m.disposeRemote()
				m.currentScreen = screenDeviceSetup
				m.setupModel.connected = false
				m.setupModel.thing = nil
				return m, nil
			}
			if !m.setupModel.editing() {
				m.quitting = true
				return m, tea.Quit
			}
		}
	}

	var cmd tea.Cmd
	switch m.currentScreen {
	case screenDeviceSetup:
		m.setupModel, cmd = m.setupModel.Update(msg)
		if m.setupModel.IsConnected() {
			m.remoteModel = NewRemoteModel(m.setupModel.GetThing(), m.options.Test, m.configManager, m.deviceID)
			m.remoteModel.width = m.width
			m.remoteModel.height = m.height
			m.currentScreen = screenRemoteControl
		}

	case screenRemoteControl:
		m.remoteModel, cmd = m.remoteModel.Update(msg)
	}
	return m, cmd
}

func (m model) View() string {
	if m.quitting {
		return "Goodbye!\n"
	}

	switch m.currentScreen {
	case screenRemoteControl:
		return m.remoteModel.View()
	default:
		return m.setupModel.View()
	}
}

func (m *model) disposeRemote() {
	if m.remoteModel.thing != nil {
		m.remoteModel.thing.Dispose()
		m.remoteModel.thing = nil
	}
}

// StartTUI runs the interactive remote until the user quits. When configPath
// is set the paired TV can be stored there under deviceID.
func StartTUI(config lgtv.Config, options *internal.FnModeOptions, configPath, deviceID string) error {
	if options == nil {
		options = internal.NewModeOptions()
	}
	var configManager *hubconfig.ConfigManager
	if configPath != "" {
		configManager = hubconfig.NewConfigManager(configPath)
	}
	p := tea.NewProgram(initialModel(config, options, configManager, deviceID), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
