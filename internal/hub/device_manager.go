package hub

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/rs/zerolog"
	"lgremote/internal"
	"lgremote/internal/device"
	"lgremote/internal/logger"
)

// DeviceStatus is the externally visible state of one managed TV
type DeviceStatus struct {
	Info          device.DeviceInfo `json:"info"`
	PairingStatus string            `json:"pairing_status"`
	Status        ThingStatusInfo   `json:"status"`
	CachedNonces  int               `json:"cached_nonces"`
}

// DeviceManager manages the lifecycle and access to devices
type DeviceManager struct {
	things     map[string]*Thing
	config     *Config
	options    *internal.FnModeOptions
	mutex      sync.RWMutex
	logger     zerolog.Logger
	nonceCache *NonceCache
	newThing   func(DeviceConfig) *Thing
}

// NewDeviceManager creates a new device manager
func NewDeviceManager(config *Config, options *internal.FnModeOptions) *DeviceManager {
	if options == nil {
		options = internal.NewModeOptions()
	}
	dm := &DeviceManager{
		things:     make(map[string]*Thing),
		config:     config,
		options:    options,
		logger:     logger.With("device_manager"),
		nonceCache: NewNonceCache(defaultNoncesPerDevice, defaultNonceTTL),
	}
	dm.newThing = func(cfg DeviceConfig) *Thing {
		return NewThing(cfg, dm.options)
	}
	return dm
}

// Initialize creates a Thing per configured device and starts its handshake.
// A device with a bad configuration stays OFFLINE but does not stop the others.
func (dm *DeviceManager) Initialize() {
	dm.mutex.Lock()
	defer dm.mutex.Unlock()
	dm.initialize()
}

func (dm *DeviceManager) initialize() {
	dm.logger.Info().
		Int("device_count", len(dm.config.Devices)).
		Msg("Initializing devices")

	for _, deviceConfig := range dm.config.Devices {
		thing := dm.newThing(deviceConfig)
		dm.things[deviceConfig.ID] = thing
		thing.Initialize()

		dm.logger.Info().
			Str("device_id", deviceConfig.ID).
			Str("hostname", deviceConfig.Hostname).
			Msg("Device initialized")
	}
}

// Wait blocks until every pending handshake has finished
func (dm *DeviceManager) Wait() {
	dm.mutex.RLock()
	things := make([]*Thing, 0, len(dm.things))
	for _, thing := range dm.things {
		things = append(things, thing)
	}
	dm.mutex.RUnlock()

	for _, thing := range things {
		thing.Wait()
	}
}

// GetThing returns a managed TV by ID
func (dm *DeviceManager) GetThing(id string) (*Thing, error) {
	dm.mutex.RLock()
	defer dm.mutex.RUnlock()

	thing, exists := dm.things[id]
	if !exists {
		return nil, fmt.Errorf("device not found: %s", id)
	}
	return thing, nil
}

// GetDevice returns a device by ID
func (dm *DeviceManager) GetDevice(id string) (device.Device, error) {
	return dm.GetThing(id)
}

// DeviceStatus returns the status of one device
func (dm *DeviceManager) DeviceStatus(id string) (*DeviceStatus, error) {
	thing, err := dm.GetThing(id)
	if err != nil {
		return nil, err
	}
	return dm.statusOf(thing), nil
}

// Statuses returns the status of every device ordered by ID
func (dm *DeviceManager) Statuses() []DeviceStatus {
	dm.mutex.RLock()
	defer dm.mutex.RUnlock()

	statuses := make([]DeviceStatus, 0, len(dm.things))
	for _, thing := range dm.things {
		statuses = append(statuses, *dm.statusOf(thing))
	}
	sort.Slice(statuses, func(i, j int) bool {
		return statuses[i].Info.ID < statuses[j].Info.ID
	})
	return statuses
}

func (dm *DeviceManager) statusOf(thing *Thing) *DeviceStatus {
	return &DeviceStatus{
		Info:          thing.GetDeviceInfo(),
		PairingStatus: thing.PairingStatus().String(),
		Status:        thing.StatusInfo(),
		CachedNonces:  dm.nonceCache.DeviceNonceCount(thing.ID()),
	}
}

// SendKey presses a key on one device
func (dm *DeviceManager) SendKey(ctx context.Context, deviceID, keyName string) error {
	thing, err := dm.GetThing(deviceID)
	if err != nil {
		return err
	}
	return thing.HandleCommand(ctx, keyName)
}

// Connect re-runs the pairing handshake of one device
func (dm *DeviceManager) Connect(ctx context.Context, deviceID string) (*DeviceStatus, error) {
	thing, err := dm.GetThing(deviceID)
	if err != nil {
		return nil, err
	}
	if _, err := thing.Connect(ctx); err != nil {
		return dm.statusOf(thing), err
	}
	return dm.statusOf(thing), nil
}

// SetPairingKey stores a pairing key in the configuration and reinitializes
// the device with it
func (dm *DeviceManager) SetPairingKey(deviceID, pairingKey string) error {
	thing, err := dm.GetThing(deviceID)
	if err != nil {
		return err
	}

	dm.mutex.Lock()
	deviceConfig, err := dm.config.GetDevice(deviceID)
	if err != nil {
		dm.mutex.Unlock()
		return err
	}
	deviceConfig.PairingKey = pairingKey
	updated := *deviceConfig
	dm.mutex.Unlock()

	dm.logger.Info().
		Str("device_id", deviceID).
		Bool("has_key", pairingKey != "").
		Msg("Pairing key updated")

	// Responses cached under the old key no longer describe the device
	dm.nonceCache.ClearDevice(deviceID)
	thing.Reconfigure(updated)
	return nil
}

// ProcessDeviceAction processes an action for a specific device
func (dm *DeviceManager) ProcessDeviceAction(deviceID string, actionJSON []byte) (*device.ActionResponse, error) {
	dev, err := dm.GetDevice(deviceID)
	if err != nil {
		return device.Failure("Device not found: %s", deviceID), nil
	}

	dm.logger.Debug().
		Str("device_id", deviceID).
		RawJSON("action", actionJSON).
		Msg("Processing device action")

	response, err := dev.Process(actionJSON)
	if err != nil {
		dm.logger.Error().
			Str("device_id", deviceID).
			Err(err).
			Msg("Device action processing failed")
		return device.Failure("Action processing failed: %v", err), nil
	}

	dm.logger.Info().
		Str("device_id", deviceID).
		Bool("success", response.Success).
		Msg("Device action processed")

	return response, nil
}

// ProcessDeviceActionWithNonce is ProcessDeviceAction with nonce based deduplication
func (dm *DeviceManager) ProcessDeviceActionWithNonce(deviceID, nonce string, actionJSON []byte) (*device.ActionResponse, error) {
	if cached, found := dm.nonceCache.CheckNonce(deviceID, nonce); found {
		dm.logger.Info().
			Str("device_id", deviceID).
			Str("nonce", nonce).
			Msg("Returning cached response for duplicate nonce")
		return cached, nil
	}

	if nonce != "" && !ValidateNonce(nonce) {
		dm.logger.Warn().
			Str("device_id", deviceID).
			Str("nonce", nonce).
			Msg("Invalid nonce format")
		return device.Failure("Invalid nonce format"), nil
	}

	response, err := dm.ProcessDeviceAction(deviceID, actionJSON)
	if err != nil {
		return response, err
	}

	dm.nonceCache.StoreResponse(deviceID, nonce, response)
	return response, nil
}

// NonceStats returns nonce cache statistics
func (dm *DeviceManager) NonceStats() map[string]interface{} {
	return dm.nonceCache.Stats()
}

// DeviceCount returns the number of managed devices
func (dm *DeviceManager) DeviceCount() int {
	dm.mutex.RLock()
	defer dm.mutex.RUnlock()
	return len(dm.things)
}

// Shutdown disposes every device
func (dm *DeviceManager) Shutdown() {
	dm.mutex.Lock()
	defer dm.mutex.Unlock()
	dm.shutdown()
}

func (dm *DeviceManager) shutdown() {
	dm.logger.Info().
		Int("device_count", len(dm.things)).
		Msg("Shutting down device manager")

	for _, thing := range dm.things {
		thing.Dispose()
	}
	dm.things = make(map[string]*Thing)
	dm.nonceCache.Shutdown()
}

// Reload takes the device list of newConfig and initializes every device
// again. Hub and API settings of the running configuration are kept.
func (dm *DeviceManager) Reload(newConfig *Config) {
	dm.logger.Info().Msg("Reloading device manager with new configuration")

	dm.mutex.Lock()
	defer dm.mutex.Unlock()

	dm.shutdown()
	dm.config.Devices = newConfig.Devices
	dm.initialize()
}

// SaveConfig writes the managed configuration, pairing keys included
func (dm *DeviceManager) SaveConfig(path string) error {
	dm.mutex.RLock()
	defer dm.mutex.RUnlock()
	return SaveConfig(dm.config, path)
}

// LogStatuses writes one line per device, used by the daemon's periodic report
func (dm *DeviceManager) LogStatuses() {
	for _, status := range dm.Statuses() {
		dm.logger.Info().
			Str("device_id", status.Info.ID).
			Str("pairing_status", status.PairingStatus).
			Str("status", string(status.Status.Status)).
			Str("detail", string(status.Status.Detail)).
			Msg("Device status")
	}
}
