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
	"context"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/rs/zerolog"
	"lgremote/internal"
	"lgremote/internal/logger"
)

// Daemon runs the device manager and the API until it is stopped
type Daemon struct {
	config        *Config
	configPath    string
	options       *internal.FnModeOptions
	deviceManager *DeviceManager
	api           *APIServer
	logger        zerolog.Logger
	running       bool
	mutex         sync.RWMutex
	ctx           context.Context
	cancel        context.CancelFunc
}

// NewDaemon loads the configuration and wires the hub components
func NewDaemon(configPath string, options *internal.FnModeOptions) (*Daemon, error) {
	config, err := LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}
	return NewDaemonWithConfig(config, configPath, options), nil
}

// NewDaemonWithConfig wires the hub around an already loaded configuration
func NewDaemonWithConfig(config *Config, configPath string, options *internal.FnModeOptions) *Daemon {
	if options == nil {
		options = internal.NewModeOptions()
	}
	ctx, cancel := context.WithCancel(context.Background())

	d := &Daemon{
		config:     config,
		configPath: configPath,
		options:    options,
		logger:     logger.With("daemon"),
		ctx:        ctx,
		cancel:     cancel,
	}

	d.deviceManager = NewDeviceManager(config, options)

	var tokens *TokenService
	if config.API.Secret != "" {
		tokens = NewTokenService(config.API.Secret, config.Hub.ID, config.API.TokenTTL)
	}
	d.api = NewAPIServer(d.deviceManager, config, d.saveConfig, tokens)
	d.api.SetStatusSource(d.GetStatus)

	return d
}

func (d *Daemon) saveConfig() error {
	if d.configPath == "" {
		return nil
	}
	return d.deviceManager.SaveConfig(d.configPath)
}

// Start initializes the devices, serves the API and blocks until a signal
// arrives or Stop is called
func (d *Daemon) Start() error {
	d.mutex.Lock()
	if d.running {
		d.mutex.Unlock()
		return fmt.Errorf("daemon is already running")
	}
	d.running = true
	d.mutex.Unlock()

	d.logger.Info().
		Str("hub_id", d.config.Hub.ID).
		Bool("debug", d.options.Debug).
		Bool("test_mode", d.options.Test).
		Msg("Starting hub daemon")

	d.deviceManager.Initialize()
	d.api.Start()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM, syscall.SIGHUP)
	defer signal.Stop(sigChan)

	go d.reportStatus()

	for {
		select {
		case sig := <-sigChan:
			if sig == syscall.SIGHUP {
				if err := d.ReloadConfig(); err != nil {
					d.logger.Error().Err(err).Msg("Failed to reload configuration")
				}
				continue
			}
			d.logger.Info().
				Str("signal", sig.String()).
				Msg("Received shutdown signal")
			return d.Stop()
		case <-d.ctx.Done():
			d.logger.Info().Msg("Context cancelled")
			return d.Stop()
		}
	}
}

// Stop stops the hub daemon gracefully
func (d *Daemon) Stop() error {
	d.mutex.Lock()
	if !d.running {
		d.mutex.Unlock()
		return nil
	}
	d.running = false
	d.mutex.Unlock()

	d.logger.Info().Msg("Stopping hub daemon")
	d.cancel()

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := d.api.Stop(shutdownCtx); err != nil {
		d.logger.Error().Err(err).Msg("Error stopping hub API")
	}

	d.deviceManager.Shutdown()

	d.logger.Info().Msg("Hub daemon stopped")
	return nil
}

// reportStatus logs every device's status on the configured interval.
// Reconnecting is left to the user or API clients.
func (d *Daemon) reportStatus() {
	ticker := time.NewTicker(d.config.Hub.StatusInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			d.deviceManager.LogStatuses()
		case <-d.ctx.Done():
			return
		}
	}
}

// ReloadConfig reads the configuration file again and reinitializes every device
func (d *Daemon) ReloadConfig() error {
	d.logger.Info().
		Str("config_path", d.configPath).
		Msg("Reloading configuration")

	newConfig, err := LoadConfig(d.configPath)
	if err != nil {
		return fmt.Errorf("failed to load new config: %w", err)
	}

	d.deviceManager.Reload(newConfig)
	d.logger.Info().Msg("Configuration reloaded (API settings require a restart)")
	return nil
}

// IsRunning returns whether the daemon is currently running
func (d *Daemon) IsRunning() bool {
	d.mutex.RLock()
	defer d.mutex.RUnlock()
	return d.running
}

// DeviceManager exposes the device manager
func (d *Daemon) DeviceManager() *DeviceManager {
	return d.deviceManager
}

// GetStatus returns the current status of the daemon, served by /health
func (d *Daemon) GetStatus() map[string]interface{} {
	return map[string]interface{}{
		"running":     d.IsRunning(),
		"hub_id":      d.config.Hub.ID,
		"debug":       d.options.Debug,
		"test_mode":   d.options.Test,
		"devices":     d.deviceManager.Statuses(),
		"nonce_cache": d.deviceManager.NonceStats(),
	}
}
