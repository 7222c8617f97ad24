package lgtv

import (
	"io"
	"net/http"
	"strconv"
	"strings"
	"sync"

	"github.com/rs/zerolog"
	"lgremote/internal/logger"
)

// Simulator is an http.Handler that answers like a UDAP TV. It backs the
// "tv simulate" command and the package tests.
type Simulator struct {
	mu          sync.Mutex
	pairingKey  string
	keyShown    bool
	paired      bool
	pressed     []int
	requests    int
	rejectCalls bool
	logger      zerolog.Logger
}

// NewSimulator creates a simulated TV that expects the given pairing key
func NewSimulator(pairingKey string) *Simulator {
	return &Simulator{
		pairingKey: pairingKey,
		logger:     logger.With("udap_simulator"),
	}
}

// SetRejectAll makes every following request fail with 500
func (s *Simulator) SetRejectAll(reject bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rejectCalls = reject
}

// KeyShown reports whether a showKey request was received
func (s *Simulator) KeyShown() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.keyShown
}

// Paired reports whether the correct pairing key was submitted
func (s *Simulator) Paired() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.paired
}

// Pressed returns the key codes received so far
func (s *Simulator) Pressed() []int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]int(nil), s.pressed...)
}

// Requests returns the number of requests handled
func (s *Simulator) Requests() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.requests
}

func (s *Simulator) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.requests++

	if s.rejectCalls {
		http.Error(w, "unavailable", http.StatusInternalServerError)
		return
	}
	if r.Method != http.MethodPost {
		http.Error(w, "method not allowed", http.StatusMethodNotAllowed)
		return
	}
	if !strings.Contains(r.Header.Get("User-Agent"), "UDAP/2.0") {
		http.Error(w, "unknown controller", http.StatusBadRequest)
		return
	}

	body, err := io.ReadAll(r.Body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	env, err := ParseEnvelope(body)
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}

	s.logger.Debug().
		Str("path", r.URL.Path).
		Str("type", env.API.Type).
		Str("name", env.API.Name).
		Msg("Simulated TV request")

	switch UDAPEndpoint(r.URL.Path) {
	case PairingEndpoint:
		s.handlePairing(w, env)
	case CommandEndpoint:
		s.handleCommand(w, env)
	default:
		http.NotFound(w, r)
	}
}

func (s *Simulator) handlePairing(w http.ResponseWriter, env *Envelope) {
	switch env.API.Name {
	case "showKey":
		s.keyShown = true
		w.WriteHeader(http.StatusOK)
	case "hello":
		if env.API.Value != s.pairingKey {
			s.paired = false
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		s.paired = true
		w.WriteHeader(http.StatusOK)
	default:
		w.WriteHeader(http.StatusBadRequest)
	}
}

func (s *Simulator) handleCommand(w http.ResponseWriter, env *Envelope) {
	if env.API.Type != apiTypeCommand || env.API.Name != "HandleKeyInput" {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	if !s.paired {
		w.WriteHeader(http.StatusUnauthorized)
		return
	}
	code, err := strconv.Atoi(env.API.Value)
	if err != nil {
		w.WriteHeader(http.StatusBadRequest)
		return
	}
	s.pressed = append(s.pressed, code)
	w.WriteHeader(http.StatusOK)
}
