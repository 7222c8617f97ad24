package hub

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"github.com/google/uuid"
	"github.com/gorilla/mux"
	"github.com/rs/zerolog"
	"lgremote/internal/lgtv"
)

// NonceHeader carries the optional idempotency nonce of an action request
const NonceHeader = "X-Nonce"

// APIResponse is the envelope of every API answer
type APIResponse struct {
	Success   bool        `json:"success"`
	RequestID string      `json:"request_id"`
	Message   string      `json:"message,omitempty"`
	Data      interface{} `json:"data,omitempty"`
	Error     string      `json:"error,omitempty"`
}

// PairingKeyRequest sets or clears the pairing key of a device
type PairingKeyRequest struct {
	PairingKey string `json:"pairing_key"`
}

// APIServer exposes the managed TVs over HTTP
type APIServer struct {
	manager *DeviceManager
	hubID   string
	persist func() error
	tokens  *TokenService
	status  func() map[string]interface{}
	server  *http.Server
	logger  zerolog.Logger
}

// NewAPIServer creates the hub API. persist is called after a pairing key
// changes so the key survives a restart; tokens may be nil to disable auth.
func NewAPIServer(manager *DeviceManager, config *Config, persist func() error, tokens *TokenService) *APIServer {
	s := &APIServer{
		manager: manager,
		hubID:   config.Hub.ID,
		persist: persist,
		tokens:  tokens,
		logger:  manager.logger.With().Str("component", "hub_api").Logger(),
	}

	router := mux.NewRouter()
	router.HandleFunc("/health", s.handleHealth).Methods(http.MethodGet)

	api := router.PathPrefix("/").Subrouter()
	if tokens != nil {
		api.Use(tokens.RequireAuth)
	}
	api.HandleFunc("/keys", s.handleKeys).Methods(http.MethodGet)
	api.HandleFunc("/devices", s.handleDeviceList).Methods(http.MethodGet)
	api.HandleFunc("/devices/{id}", s.handleDevice).Methods(http.MethodGet)
	api.HandleFunc("/devices/{id}/connect", s.handleConnect).Methods(http.MethodPost)
	api.HandleFunc("/devices/{id}/keys/{key}", s.handleSendKey).Methods(http.MethodPost)
	api.HandleFunc("/devices/{id}/pairing-key", s.handlePairingKey).Methods(http.MethodPut)
	api.HandleFunc("/devices/{id}/actions", s.handleAction).Methods(http.MethodPost)

	s.server = &http.Server{
		Addr:    config.API.Listen,
		Handler: router,
	}
	return s
}

// Handler returns the routed handler, used by tests
func (s *APIServer) Handler() http.Handler {
	return s.server.Handler
}

// SetStatusSource adds the data returned by status to every /health answer
func (s *APIServer) SetStatusSource(status func() map[string]interface{}) {
	s.status = status
}

// Start serves the API in the background
func (s *APIServer) Start() {
	s.logger.Info().
		Str("address", s.server.Addr).
		Bool("auth", s.tokens != nil).
		Msg("Starting hub API server")

	go func() {
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			s.logger.Error().Err(err).Msg("Hub API server error")
		}
	}()
}

// Stop shuts the API down
func (s *APIServer) Stop(ctx context.Context) error {
	s.logger.Info().Msg("Stopping hub API server")
	return s.server.Shutdown(ctx)
}

func (s *APIServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	data := map[string]interface{}{}
	if s.status != nil {
		data = s.status()
	}
	data["status"] = "healthy"
	data["hub_id"] = s.hubID
	data["device_count"] = s.manager.DeviceCount()
	s.sendSuccess(w, "Hub is healthy", data)
}

func (s *APIServer) handleKeys(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, "", lgtv.Keys())
}

func (s *APIServer) handleDeviceList(w http.ResponseWriter, r *http.Request) {
	s.sendSuccess(w, "", s.manager.Statuses())
}

func (s *APIServer) handleDevice(w http.ResponseWriter, r *http.Request) {
	status, err := s.manager.DeviceStatus(mux.Vars(r)["id"])
	if err != nil {
		s.sendError(w, http.StatusNotFound, "Device not found", err)
		return
	}
	s.sendSuccess(w, "", status)
}

func (s *APIServer) handleConnect(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]
	status, err := s.manager.Connect(r.Context(), id)
	switch {
	case err == nil:
		s.sendSuccess(w, "Pairing handshake finished", status)
	case errors.Is(err, ErrNoConnection):
		s.sendError(w, http.StatusServiceUnavailable, "Device has no connection", err)
	default:
		s.sendError(w, http.StatusNotFound, "Device not found", err)
	}
}

func (s *APIServer) handleSendKey(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if _, err := s.manager.GetThing(vars["id"]); err != nil {
		s.sendError(w, http.StatusNotFound, "Device not found", err)
		return
	}

	err := s.manager.SendKey(r.Context(), vars["id"], vars["key"])
	switch {
	case err == nil:
		s.sendSuccess(w, "Key sent", map[string]string{"key": vars["key"]})
	case errors.Is(err, ErrUnknownKey):
		s.sendError(w, http.StatusNotFound, "Unknown key", err)
	case errors.Is(err, ErrNoConnection):
		s.sendError(w, http.StatusServiceUnavailable, "Device has no connection", err)
	default:
		s.sendError(w, http.StatusBadGateway, "TV did not accept the key", err)
	}
}

func (s *APIServer) handlePairingKey(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	var req PairingKeyRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.sendError(w, http.StatusBadRequest, "Invalid JSON format", err)
		return
	}

	if err := s.manager.SetPairingKey(id, req.PairingKey); err != nil {
		s.sendError(w, http.StatusNotFound, "Device not found", err)
		return
	}

	if s.persist != nil {
		if err := s.persist(); err != nil {
			s.sendError(w, http.StatusInternalServerError, "Failed to save configuration", err)
			return
		}
	}

	s.sendSuccess(w, "Pairing key updated, handshake started", map[string]string{"device_id": id})
}

func (s *APIServer) handleAction(w http.ResponseWriter, r *http.Request) {
	id := mux.Vars(r)["id"]

	body, err := io.ReadAll(r.Body)
	if err != nil {
		s.sendError(w, http.StatusBadRequest, "Failed to read request", err)
		return
	}

	response, err := s.manager.ProcessDeviceActionWithNonce(id, r.Header.Get(NonceHeader), body)
	if err != nil {
		s.sendError(w, http.StatusInternalServerError, "Action failed", err)
		return
	}

	status := http.StatusOK
	if !response.Success {
		status = http.StatusUnprocessableEntity
	}
	s.writeJSON(w, status, APIResponse{
		Success: response.Success,
		Data:    response.Data,
		Error:   response.Error,
	})
}

func (s *APIServer) sendSuccess(w http.ResponseWriter, message string, data interface{}) {
	s.writeJSON(w, http.StatusOK, APIResponse{
		Success: true,
		Message: message,
		Data:    data,
	})
}

func (s *APIServer) sendError(w http.ResponseWriter, statusCode int, message string, err error) {
	response := APIResponse{
		Success: false,
		Message: message,
	}
	if err != nil {
		response.Error = err.Error()
	}

	s.logger.Warn().
		Err(err).
		Int("status", statusCode).
		Str("message", message).
		Msg("API request failed")

	s.writeJSON(w, statusCode, response)
}

func (s *APIServer) writeJSON(w http.ResponseWriter, statusCode int, response APIResponse) {
	response.RequestID = uuid.NewString()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)
	if err := json.NewEncoder(w).Encode(response); err != nil {
		s.logger.Error().Err(err).Msg("Failed to encode API response")
	}
}
