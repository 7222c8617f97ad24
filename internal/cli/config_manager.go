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
	"fmt"
	"os"
	"strings"

	"lgremote/internal/hub"
	"lgremote/internal/lgtv"
)

// ConfigManager edits the TV list of a hub configuration file
type ConfigManager struct {
	configPath string
}

// NewConfigManager creates a new config manager
func NewConfigManager(configPath string) *ConfigManager {
	return &ConfigManager{
		configPath: configPath,
	}
}

// LoadConfig loads the hub configuration, creating a default one when the
// file does not exist yet
func (cm *ConfigManager) LoadConfig() (*hub.Config, error) {
	if _, err := os.Stat(cm.configPath); os.IsNotExist(err) {
		defaultConfig := hub.NewDefaultConfig()
		defaultConfig.Devices = nil
		if err := cm.SaveConfig(defaultConfig); err != nil {
			return nil, fmt.Errorf("failed to create default config: %w", err)
		}
		return defaultConfig, nil
	}

	config, err := hub.LoadConfig(cm.configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return config, nil
}

// SaveConfig saves the hub configuration
func (cm *ConfigManager) SaveConfig(config *hub.Config) error {
	if err := hub.SaveConfig(config, cm.configPath); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	return nil
}

// AddDevice adds a new TV to the configuration
func (cm *ConfigManager) AddDevice(device hub.DeviceConfig) error {
	if strings.TrimSpace(device.ID) == "" {
		return fmt.Errorf("device ID is required")
	}
	lgtvConfig := device.LGTV()
	if err := lgtvConfig.Validate(); err != nil {
		return fmt.Errorf("device '%s': %w", device.ID, err)
	}

	config, err := cm.LoadConfig()
	if err != nil {
		return err
	}

	for _, existingDevice := range config.Devices {
		if existingDevice.ID == device.ID {
			return fmt.Errorf("device with ID '%s' already exists", device.ID)
		}
	}

	config.Devices = append(config.Devices, device)
	return cm.SaveConfig(config)
}

// UpdateDevice replaces an existing TV, keeping its ID
func (cm *ConfigManager) UpdateDevice(deviceID string, updatedDevice hub.DeviceConfig) error {
	config, err := cm.LoadConfig()
	if err != nil {
		return err
	}

	for i, device := range config.Devices {
		if device.ID == deviceID {
			updatedDevice.ID = deviceID
			config.Devices[i] = updatedDevice
			return cm.SaveConfig(config)
		}
	}

	return fmt.Errorf("device with ID '%s' not found", deviceID)
}

// SaveDevice adds the TV, or updates it when the ID is already configured.
// Used after an interactive pairing to store the accepted key.
func (cm *ConfigManager) SaveDevice(device hub.DeviceConfig) error {
	if cm.DeviceExists(device.ID) {
		return cm.UpdateDevice(device.ID, device)
	}
	return cm.AddDevice(device)
}

// SetPairingKey stores the pairing key of a configured TV
func (cm *ConfigManager) SetPairingKey(deviceID, pairingKey string) error {
	device, err := cm.GetDevice(deviceID)
	if err != nil {
		return err
	}
	device.PairingKey = strings.TrimSpace(pairingKey)
	return cm.UpdateDevice(deviceID, *device)
}

// RemoveDevice removes a TV from the configuration
func (cm *ConfigManager) RemoveDevice(deviceID string) error {
	config, err := cm.LoadConfig()
	if err != nil {
		return err
	}

	for i, device := range config.Devices {
		if device.ID == deviceID {
			config.Devices = append(config.Devices[:i], config.Devices[i+1:]...)
			return cm.SaveConfig(config)
		}
	}

	return fmt.Errorf("device with ID '%s' not found", deviceID)
}

// GetDevice gets a specific TV from the configuration
func (cm *ConfigManager) GetDevice(deviceID string) (*hub.DeviceConfig, error) {
	config, err := cm.LoadConfig()
	if err != nil {
		return nil, err
	}
	return config.GetDevice(deviceID)
}

// ListDevices returns all TVs from the configuration
func (cm *ConfigManager) ListDevices() ([]hub.DeviceConfig, error) {
	config, err := cm.LoadConfig()
	if err != nil {
		return nil, err
	}
	return config.Devices, nil
}

// DeviceExists checks if a TV with the given ID exists
func (cm *ConfigManager) DeviceExists(deviceID string) bool {
	_, err := cm.GetDevice(deviceID)
	return err == nil
}

// GetConfigPath returns the configuration file path
func (cm *ConfigManager) GetConfigPath() string {
	return cm.configPath
}

// BackupConfig creates a backup of the current configuration
func (cm *ConfigManager) BackupConfig() error {
	config, err := cm.LoadConfig()
	if err != nil {
		return err
	}
	return hub.SaveConfig(config, cm.configPath+".backup")
}

// RestoreFromBackup restores configuration from backup
func (cm *ConfigManager) RestoreFromBackup() error {
	backupPath := cm.configPath + ".backup"
	if _, err := os.Stat(backupPath); os.IsNotExist(err) {
		return fmt.Errorf("backup file does not exist: %s", backupPath)
	}

	config, err := hub.LoadConfig(backupPath)
	if err != nil {
		return fmt.Errorf("failed to load backup: %w", err)
	}
	return cm.SaveConfig(config)
}

// CreateDeviceTemplate returns a TV entry with the defaults filled in
func (cm *ConfigManager) CreateDeviceTemplate(id, hostname string) hub.DeviceConfig {
	return hub.DeviceConfig{
		ID:       id,
		Model:    "LG NetCast",
		Hostname: hostname,
		Port:     lgtv.DefaultPort,
	}
}
