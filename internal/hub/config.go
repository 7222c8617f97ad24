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

package hub

import (
	"fmt"
	"os"
	"time"

	"github.com/google/uuid"
	"gopkg.in/yaml.v3"
	"lgremote/internal/lgtv"
)

const (
	DefaultAPIListen   = ":8081"
	DefaultTokenTTL    = 24 * time.Hour
	defaultStatusEvery = time.Minute
)

// Config represents the hub configuration structure
type Config struct {
	Hub     HubConfig      `yaml:"hub"`
	API     APIConfig      `yaml:"api"`
	Devices []DeviceConfig `yaml:"devices"`
}

// HubConfig contains hub identity and housekeeping settings
type HubConfig struct {
	ID string `yaml:"id"`
	// StatusInterval controls how often device statuses are logged
	StatusInterval time.Duration `yaml:"status_interval,omitempty"`
}

// APIConfig configures the local HTTP API
type APIConfig struct {
	Listen string `yaml:"listen"`
	// Secret enables bearer token auth when set
	Secret   string        `yaml:"secret,omitempty"`
	TokenTTL time.Duration `yaml:"token_ttl,omitempty"`
}

// DeviceConfig represents a single TV
type DeviceConfig struct {
	ID              string        `yaml:"id" json:"id"`
	Model           string        `yaml:"model,omitempty" json:"model,omitempty"`
	Hostname        string        `yaml:"hostname" json:"hostname"`
	Port            int           `yaml:"port,omitempty" json:"port,omitempty"`
	PairingKey      string        `yaml:"pairing_key,omitempty" json:"pairing_key,omitempty"`
	LocalPort       int           `yaml:"local_port,omitempty" json:"local_port,omitempty"`
	Timeout         time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`
	StrictResponses bool          `yaml:"strict_responses,omitempty" json:"strict_responses,omitempty"`
}

// LGTV converts the device entry into a TV connection config
func (d DeviceConfig) LGTV() lgtv.Config {
	return lgtv.Config{
		Hostname:        d.Hostname,
		Port:            d.Port,
		PairingKey:      d.PairingKey,
		LocalPort:       d.LocalPort,
		Timeout:         d.Timeout,
		StrictResponses: d.StrictResponses,
	}
}

// LoadConfig loads configuration from a YAML file
func LoadConfig(filepath string) (*Config, error) {
	data, err := os.ReadFile(filepath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var config Config
	if err := yaml.Unmarshal(data, &config); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := config.Validate(); err != nil {
		return nil, fmt.Errorf("config validation failed: %w", err)
	}

	return &config, nil
}

// Validate checks the structure of the configuration and fills defaults.
// A blank device hostname is not an error here: it is reported per device
// when the device initializes.
func (c *Config) Validate() error {
	if c.Hub.ID == "" {
		return fmt.Errorf("hub.id is required")
	}
	if c.Hub.StatusInterval <= 0 {
		c.Hub.StatusInterval = defaultStatusEvery
	}
	if c.API.Listen == "" {
		c.API.Listen = DefaultAPIListen
	}
	if c.API.TokenTTL <= 0 {
		c.API.TokenTTL = DefaultTokenTTL
	}

	deviceIDs := make(map[string]bool)
	for i, device := range c.Devices {
		if device.ID == "" {
			return fmt.Errorf("device[%d].id is required", i)
		}
		if deviceIDs[device.ID] {
			return fmt.Errorf("duplicate device ID: %s", device.ID)
		}
		deviceIDs[device.ID] = true
	}

	return nil
}

// GetDevice returns a device configuration by ID
func (c *Config) GetDevice(id string) (*DeviceConfig, error) {
	for i := range c.Devices {
		if c.Devices[i].ID == id {
			return &c.Devices[i], nil
		}
	}
	return nil, fmt.Errorf("device not found: %s", id)
}

// Save saves the configuration to a YAML file
func (c *Config) Save(filepath string) error {
	return SaveConfig(c, filepath)
}

// SaveConfig saves configuration to a YAML file
func SaveConfig(config *Config, filepath string) error {
	data, err := yaml.Marshal(config)
	if err != nil {
		return fmt.Errorf("failed to marshal config: %w", err)
	}

	if err := os.WriteFile(filepath, data, 0600); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}

	return nil
}

// NewDefaultConfig creates a configuration template with one unpaired TV
func NewDefaultConfig() *Config {
	return &Config{
		Hub: HubConfig{
			ID:             uuid.New().String(),
			StatusInterval: defaultStatusEvery,
		},
		API: APIConfig{
			Listen:   DefaultAPIListen,
			TokenTTL: DefaultTokenTTL,
		},
		Devices: []DeviceConfig{
			{
				ID:       "living_room_tv",
				Model:    "LG NetCast",
				Hostname: "192.168.1.100",
				Port:     lgtv.DefaultPort,
			},
		},
	}
}
