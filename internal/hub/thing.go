package hub

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"github.com/rs/zerolog"
	"lgremote/internal"
	"lgremote/internal/device"
	"lgremote/internal/lgtv"
	"lgremote/internal/logger"
)

var (
	ErrNoConnection = errors.New("no connection to TV available")
	ErrUnknownKey   = errors.New("no matching LG key")
	ErrSendFailed   = errors.New("could not send key to TV")
)

// ThingStatus is the status a device exposes to the hub
type ThingStatus string

const (
	ThingStatusUnknown ThingStatus = "UNKNOWN"
	ThingStatusOnline  ThingStatus = "ONLINE"
	ThingStatusOffline ThingStatus = "OFFLINE"
)

// ThingStatusDetail qualifies a ThingStatus
type ThingStatusDetail string

const (
	DetailNone                 ThingStatusDetail = "NONE"
	DetailConfigurationError   ThingStatusDetail = "CONFIGURATION_ERROR"
	DetailConfigurationPending ThingStatusDetail = "CONFIGURATION_PENDING"
	DetailCommunicationError   ThingStatusDetail = "COMMUNICATION_ERROR"
)

// ThingStatusInfo is a status with its detail and a human readable description
type ThingStatusInfo struct {
	Status      ThingStatus       `json:"status"`
	Detail      ThingStatusDetail `json:"detail"`
	Description string            `json:"description,omitempty"`
}

// StatusFor maps a pairing status onto the hub status of a device
func StatusFor(status lgtv.Status) ThingStatusInfo {
	switch status {
	case lgtv.StatusWaitingForPairingKey:
		return ThingStatusInfo{
			Status:      ThingStatusOnline,
			Detail:      DetailConfigurationPending,
			Description: "Device not paired yet. Configure a pairing key.",
		}
	case lgtv.StatusPaired:
		return ThingStatusInfo{Status: ThingStatusOnline, Detail: DetailNone}
	default:
		return ThingStatusInfo{Status: ThingStatusOffline, Detail: DetailNone}
	}
}

// ConnectionFactory builds the TV connection for a device
type ConnectionFactory func(config lgtv.Config) *lgtv.Connection

// Thing binds one configured TV to the hub. It owns the TV connection,
// serialises every call into it and runs the pairing handshake in the
// background so initialization returns immediately.
type Thing struct {
	id      string
	factory ConnectionFactory

	// lifecycle serialises Initialize, Reconfigure, Connect and Dispose
	lifecycle sync.Mutex
	// ops serialises Connect and SendKey on the connection
	ops sync.Mutex

	mu         sync.RWMutex
	config     DeviceConfig
	connection *lgtv.Connection
	pairing    lgtv.Status
	status     ThingStatusInfo
	// handshake is closed when the latest background handshake has finished
	handshake chan struct{}

	ctx    context.Context
	cancel context.CancelFunc
	logger zerolog.Logger
}

// NewThing creates a device handler. Nothing touches the network until Initialize.
func NewThing(config DeviceConfig, options *internal.FnModeOptions) *Thing {
	return NewThingWithFactory(config, func(cfg lgtv.Config) *lgtv.Connection {
		return lgtv.NewConnection(cfg, options)
	})
}

// NewThingWithFactory creates a device handler with a custom connection factory
func NewThingWithFactory(config DeviceConfig, factory ConnectionFactory) *Thing {
	ctx, cancel := context.WithCancel(context.Background())
	return &Thing{
		id:      config.ID,
		config:  config,
		factory: factory,
		status:  ThingStatusInfo{Status: ThingStatusUnknown, Detail: DetailNone},
		ctx:     ctx,
		cancel:  cancel,
		logger:  logger.With("thing").With().Str("device_id", config.ID).Logger(),
	}
}

// ID returns the device ID
func (t *Thing) ID() string {
	return t.id
}

// Config returns the current device configuration
func (t *Thing) Config() DeviceConfig {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.config
}

// Initialize validates the configuration and starts the pairing handshake in
// the background. A blank hostname puts the device OFFLINE with a
// configuration error and no network call is made.
func (t *Thing) Initialize() {
	t.lifecycle.Lock()
	defer t.lifecycle.Unlock()
	t.initialize()
}

// initialize expects the lifecycle lock to be held
func (t *Thing) initialize() {
	t.Wait()

	t.mu.RLock()
	cfg := t.config.LGTV()
	t.mu.RUnlock()

	if err := cfg.Validate(); err != nil {
		t.logger.Warn().Err(err).Msg("Invalid device configuration")
		t.updateStatus(ThingStatusInfo{
			Status:      ThingStatusOffline,
			Detail:      DetailConfigurationError,
			Description: "Parameter 'hostname' is mandatory and must be configured",
		})
		return
	}

	t.updateStatus(ThingStatusInfo{Status: ThingStatusUnknown, Detail: DetailNone})

	done := make(chan struct{})
	t.mu.Lock()
	t.handshake = done
	t.mu.Unlock()

	go func() {
		defer close(done)

		conn := t.factory(cfg)
		t.mu.Lock()
		t.connection = conn
		t.mu.Unlock()

		t.ops.Lock()
		status := conn.Connect(t.ctx)
		t.ops.Unlock()

		t.logger.Info().
			Str("hostname", cfg.Hostname).
			Stringer("pairing_status", status).
			Msg("Pairing handshake finished")
		t.recordPairing(status)
	}()
}

// Wait blocks until a background handshake started by Initialize has finished
func (t *Thing) Wait() {
	t.mu.RLock()
	done := t.handshake
	t.mu.RUnlock()

	if done != nil {
		<-done
	}
}

// Connect runs the pairing handshake again on the existing connection
func (t *Thing) Connect(ctx context.Context) (lgtv.Status, error) {
	t.lifecycle.Lock()
	defer t.lifecycle.Unlock()
	t.Wait()

	t.mu.RLock()
	conn := t.connection
	t.mu.RUnlock()
	if conn == nil {
		t.updateStatus(ThingStatusInfo{Status: ThingStatusOffline, Detail: DetailCommunicationError})
		return lgtv.StatusUnknown, ErrNoConnection
	}

	t.ops.Lock()
	status := conn.Connect(ctx)
	t.ops.Unlock()

	t.recordPairing(status)
	return status, nil
}

// Reconfigure swaps the configuration and initializes the device again, which
// is how a newly read pairing key takes effect
func (t *Thing) Reconfigure(config DeviceConfig) {
	t.lifecycle.Lock()
	defer t.lifecycle.Unlock()
	t.Wait()

	t.mu.Lock()
	config.ID = t.id
	t.config = config
	t.connection = nil
	t.pairing = lgtv.StatusUnknown
	t.mu.Unlock()

	t.logger.Info().Msg("Device reconfigured")
	t.initialize()
}

// HandleCommand presses the key with the given symbolic name. Unknown names
// are ignored and leave the status alone; a failed send marks the device
// OFFLINE.
func (t *Thing) HandleCommand(ctx context.Context, name string) error {
	t.mu.RLock()
	conn := t.connection
	t.mu.RUnlock()

	if conn == nil {
		t.logger.Debug().Str("key", name).Msg("No connection to LG TV available when sending key")
		t.updateStatus(ThingStatusInfo{Status: ThingStatusOffline, Detail: DetailCommunicationError})
		return ErrNoConnection
	}

	key, ok := lgtv.LookupKey(name)
	if !ok {
		t.logger.Debug().Str("key", name).Msg("No matching LG key found")
		return fmt.Errorf("%w: %s", ErrUnknownKey, name)
	}

	t.ops.Lock()
	sent := conn.SendKey(ctx, key)
	t.ops.Unlock()

	if !sent {
		t.logger.Debug().Str("key", key.Name).Msg("Sending key failed")
		t.updateStatus(ThingStatusInfo{
			Status:      ThingStatusOffline,
			Detail:      DetailCommunicationError,
			Description: fmt.Sprintf("Could not send key %s to TV", key.Name),
		})
		return fmt.Errorf("%w: %s", ErrSendFailed, key.Name)
	}
	return nil
}

// PairingStatus returns the result of the last handshake, UNKNOWN before the first one
func (t *Thing) PairingStatus() lgtv.Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.pairing
}

// StatusInfo returns the hub status of the device
func (t *Thing) StatusInfo() ThingStatusInfo {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.status
}

// Dispose stops background work and drops the connection
func (t *Thing) Dispose() {
	t.cancel()

	t.lifecycle.Lock()
	defer t.lifecycle.Unlock()
	t.Wait()

	t.mu.Lock()
	t.connection = nil
	t.pairing = lgtv.StatusUnknown
	t.mu.Unlock()
}

// GetDeviceInfo returns information about this TV
func (t *Thing) GetDeviceInfo() device.DeviceInfo {
	cfg := t.Config()
	model := cfg.Model
	if model == "" {
		model = "LG TV"
	}
	return device.DeviceInfo{
		ID:      cfg.ID,
		Type:    "lgtv",
		Model:   model,
		Address: cfg.Hostname,
		Capabilities: []string{
			"remote_control",
			"pairing",
		},
	}
}

// Process handles JSON action requests. Remote actions press the named key;
// control actions run the handshake or report status.
func (t *Thing) Process(actionJSON []byte) (*device.ActionResponse, error) {
	request, err := device.ParseActionRequest(actionJSON)
	if err != nil {
		return device.Failure("%v", err), nil
	}

	switch request.Type {
	case device.ActionTypeRemote:
		if err := t.HandleCommand(t.ctx, request.Action); err != nil {
			return device.Failure("remote action failed: %v", err), nil
		}
		return &device.ActionResponse{
			Success: true,
			Data:    fmt.Sprintf("Key '%s' sent", request.Action),
		}, nil

	case device.ActionTypeControl:
		return t.processControlAction(request)

	default:
		return device.Failure("unsupported action type: %s", request.Type), nil
	}
}

func (t *Thing) processControlAction(request *device.ActionRequest) (*device.ActionResponse, error) {
	switch device.ControlAction(request.Action) {
	case device.ControlActionConnect:
		status, err := t.Connect(t.ctx)
		if err != nil {
			return device.Failure("connect failed: %v", err), nil
		}
		return &device.ActionResponse{
			Success: true,
			Data: map[string]interface{}{
				"pairing_status": status.String(),
				"status":         t.StatusInfo(),
			},
		}, nil

	case device.ControlActionStatus:
		return &device.ActionResponse{
			Success: true,
			Data: map[string]interface{}{
				"pairing_status": t.PairingStatus().String(),
				"status":         t.StatusInfo(),
			},
		}, nil

	case device.ControlActionKeys:
		return &device.ActionResponse{Success: true, Data: lgtv.Keys()}, nil

	default:
		return device.Failure("unsupported control action: %s", request.Action), nil
	}
}

// recordPairing stores a handshake result. The connection itself is only
// read under ops, so the hub keeps its own copy of the status.
func (t *Thing) recordPairing(status lgtv.Status) {
	t.mu.Lock()
	t.pairing = status
	t.mu.Unlock()

	t.updateStatus(StatusFor(status))
}

func (t *Thing) updateStatus(info ThingStatusInfo) {
	t.mu.Lock()
	changed := t.status != info
	t.status = info
	t.mu.Unlock()

	if changed {
		t.logger.Info().
			Str("status", string(info.Status)).
			Str("detail", string(info.Detail)).
			Str("description", info.Description).
			Msg("Device status changed")
	}
}
