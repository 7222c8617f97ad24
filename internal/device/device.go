package device

import (
	"encoding/json"
	"errors"
	"fmt"
)

var (
	ErrMissingType   = errors.New("action type is required")
	ErrMissingAction = errors.New("action is required")
)

// Device represents a generic device that can process commands
type Device interface {
	// Process handles a JSON-encoded action and executes the corresponding operation
	Process(actionJSON []byte) (*ActionResponse, error)

	// GetDeviceInfo returns basic information about the device
	GetDeviceInfo() DeviceInfo
}

// DeviceInfo contains basic information about a device
type DeviceInfo struct {
	ID           string   `json:"id"`
	Type         string   `json:"type"`
	Model        string   `json:"model"`
	Address      string   `json:"address"`
	Capabilities []string `json:"capabilities"`
}

// ActionType represents the type of action to perform
type ActionType string

const (
	// Remote actions name a key of the remote, e.g. "VOLUME_UP"
	ActionTypeRemote  ActionType = "remote"
	ActionTypeControl ActionType = "control"
)

// ActionRequest represents a JSON action request
type ActionRequest struct {
	Type       ActionType             `json:"type"`
	Action     string                 `json:"action"`
	Parameters map[string]interface{} `json:"parameters,omitempty"`
}

// ActionResponse represents the response from processing an action
type ActionResponse struct {
	Success bool        `json:"success"`
	Data    interface{} `json:"data,omitempty"`
	Error   string      `json:"error,omitempty"`
}

// ControlAction represents the non-key operations a device supports
type ControlAction string

const (
	ControlActionConnect ControlAction = "connect"
	ControlActionStatus  ControlAction = "status"
	ControlActionKeys    ControlAction = "keys"
)

// Failure builds an unsuccessful response
func Failure(format string, args ...interface{}) *ActionResponse {
	return &ActionResponse{
		Success: false,
		Error:   fmt.Sprintf(format, args...),
	}
}

// ParseActionRequest parses JSON input into ActionRequest
func ParseActionRequest(actionJSON []byte) (*ActionRequest, error) {
	var request ActionRequest
	if err := json.Unmarshal(actionJSON, &request); err != nil {
		return nil, fmt.Errorf("failed to parse action request: %w", err)
	}

	if request.Type == "" {
		return nil, ErrMissingType
	}
	if request.Action == "" {
		return nil, ErrMissingAction
	}

	return &request, nil
}

// CreateActionJSON encodes an action request
func CreateActionJSON(actionType ActionType, action string, parameters map[string]interface{}) ([]byte, error) {
	return json.Marshal(ActionRequest{
		Type:       actionType,
		Action:     action,
		Parameters: parameters,
	})
}
