package hub_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lgremote/internal"
	"lgremote/internal/hub"
	"lgremote/internal/lgtv"
)

type apiFixture struct {
	handler  http.Handler
	manager  *hub.DeviceManager
	persists int
}

func newAPIFixture(t *testing.T, tokens *hub.TokenService, devices ...hub.DeviceConfig) *apiFixture {
	t.Helper()
	config := testConfig(devices...)
	manager := hub.NewDeviceManager(config, internal.NewModeOptions(internal.WithTest(true)))
	manager.Initialize()
	manager.Wait()
	t.Cleanup(manager.Shutdown)

	fixture := &apiFixture{manager: manager}
	persist := func() error {
		fixture.persists++
		return nil
	}
	fixture.handler = hub.NewAPIServer(manager, config, persist, tokens).Handler()
	return fixture
}

func (f *apiFixture) do(t *testing.T, method, path, body string, headers map[string]string) (*httptest.ResponseRecorder, hub.APIResponse) {
	t.Helper()
	req := httptest.NewRequest(method, path, strings.NewReader(body))
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	f.handler.ServeHTTP(rec, req)

	var response hub.APIResponse
	if rec.Header().Get("Content-Type") == "application/json" {
		require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &response))
	}
	return rec, response
}

func TestAPIServerHealthStatus(t *testing.T) {
	config := testConfig(hub.DeviceConfig{ID: "tv", Hostname: "192.0.2.1"})
	manager := hub.NewDeviceManager(config, internal.NewModeOptions(internal.WithTest(true)))
	manager.Initialize()
	manager.Wait()
	t.Cleanup(manager.Shutdown)

	server := hub.NewAPIServer(manager, config, nil, nil)
	server.SetStatusSource(func() map[string]interface{} {
		return map[string]interface{}{"running": true, "test_mode": true}
	})

	fixture := &apiFixture{handler: server.Handler(), manager: manager}
	rec, response := fixture.do(t, http.MethodGet, "/health", "", nil)
	require.Equal(t, http.StatusOK, rec.Code)

	data, ok := response.Data.(map[string]interface{})
	require.True(t, ok)
	assert.Equal(t, true, data["running"])
	assert.Equal(t, true, data["test_mode"])
	assert.Equal(t, "healthy", data["status"])
	assert.Equal(t, "test-hub", data["hub_id"])
	assert.Equal(t, float64(1), data["device_count"])
}

func TestAPIServer(t *testing.T) {
	fixture := newAPIFixture(t, nil,
		hub.DeviceConfig{ID: "living_room", Hostname: "192.0.2.1", PairingKey: "ABC123"},
		hub.DeviceConfig{ID: "unconfigured"},
	)

	t.Run("health", func(t *testing.T) {
		rec, response := fixture.do(t, http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, response.Success)
		assert.NotEmpty(t, response.RequestID)
	})

	t.Run("lists keys", func(t *testing.T) {
		rec, response := fixture.do(t, http.MethodGet, "/keys", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, response.Data, len(lgtv.Keys()))
	})

	t.Run("lists devices", func(t *testing.T) {
		rec, response := fixture.do(t, http.MethodGet, "/devices", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Len(t, response.Data, 2)
	})

	t.Run("device status", func(t *testing.T) {
		rec, _ := fixture.do(t, http.MethodGet, "/devices/living_room", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.Contains(t, rec.Body.String(), `"pairing_status":"PAIRED"`)

		rec, response := fixture.do(t, http.MethodGet, "/devices/nope", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.False(t, response.Success)
	})

	t.Run("send key", func(t *testing.T) {
		rec, response := fixture.do(t, http.MethodPost, "/devices/living_room/keys/VOLUME_UP", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, response.Success)
	})

	t.Run("send unknown key", func(t *testing.T) {
		rec, response := fixture.do(t, http.MethodPost, "/devices/living_room/keys/WARP_SPEED", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
		assert.Equal(t, "Unknown key", response.Message)
	})

	t.Run("send key to unknown device", func(t *testing.T) {
		rec, _ := fixture.do(t, http.MethodPost, "/devices/nope/keys/POWER", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("send key without connection", func(t *testing.T) {
		rec, _ := fixture.do(t, http.MethodPost, "/devices/unconfigured/keys/POWER", "", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)
	})

	t.Run("connect", func(t *testing.T) {
		rec, response := fixture.do(t, http.MethodPost, "/devices/living_room/connect", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, response.Success)

		rec, _ = fixture.do(t, http.MethodPost, "/devices/unconfigured/connect", "", nil)
		assert.Equal(t, http.StatusServiceUnavailable, rec.Code)

		rec, _ = fixture.do(t, http.MethodPost, "/devices/nope/connect", "", nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("set pairing key persists the config", func(t *testing.T) {
		rec, response := fixture.do(t, http.MethodPut, "/devices/living_room/pairing-key", `{"pairing_key":"654321"}`, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, response.Success)
		assert.Equal(t, 1, fixture.persists)

		fixture.manager.Wait()
		thing, err := fixture.manager.GetThing("living_room")
		require.NoError(t, err)
		assert.Equal(t, "654321", thing.Config().PairingKey)

		rec, _ = fixture.do(t, http.MethodPut, "/devices/living_room/pairing-key", `{`, nil)
		assert.Equal(t, http.StatusBadRequest, rec.Code)

		rec, _ = fixture.do(t, http.MethodPut, "/devices/nope/pairing-key", `{"pairing_key":"1"}`, nil)
		assert.Equal(t, http.StatusNotFound, rec.Code)
	})

	t.Run("actions", func(t *testing.T) {
		rec, response := fixture.do(t, http.MethodPost, "/devices/living_room/actions", `{"type":"remote","action":"MUTE"}`, nil)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, response.Success)

		rec, response = fixture.do(t, http.MethodPost, "/devices/living_room/actions", `{"type":"remote","action":"NOPE"}`, nil)
		assert.Equal(t, http.StatusUnprocessableEntity, rec.Code)
		assert.False(t, response.Success)

		nonce := hub.GenerateNonce()
		headers := map[string]string{hub.NonceHeader: nonce}
		rec, _ = fixture.do(t, http.MethodPost, "/devices/living_room/actions", `{"type":"control","action":"status"}`, headers)
		assert.Equal(t, http.StatusOK, rec.Code)
		rec, _ = fixture.do(t, http.MethodPost, "/devices/living_room/actions", `{"type":"control","action":"status"}`, headers)
		assert.Equal(t, http.StatusOK, rec.Code)
	})
}

func TestAPIServerAuth(t *testing.T) {
	tokens := hub.NewTokenService("test-secret", "test-hub", time.Hour)
	fixture := newAPIFixture(t, tokens, hub.DeviceConfig{ID: "tv", Hostname: "192.0.2.1", PairingKey: "ABC123"})

	t.Run("health needs no token", func(t *testing.T) {
		rec, _ := fixture.do(t, http.MethodGet, "/health", "", nil)
		assert.Equal(t, http.StatusOK, rec.Code)
	})

	t.Run("missing token is rejected", func(t *testing.T) {
		rec, _ := fixture.do(t, http.MethodGet, "/devices", "", nil)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("invalid token is rejected", func(t *testing.T) {
		rec, _ := fixture.do(t, http.MethodGet, "/devices", "", map[string]string{"Authorization": "Bearer nonsense"})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("token from another hub is rejected", func(t *testing.T) {
		other, err := hub.NewTokenService("test-secret", "other-hub", time.Hour).GenerateToken("client")
		require.NoError(t, err)
		rec, _ := fixture.do(t, http.MethodGet, "/devices", "", map[string]string{"Authorization": "Bearer " + other})
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
	})

	t.Run("valid token is accepted", func(t *testing.T) {
		token, err := tokens.GenerateToken("client")
		require.NoError(t, err)
		rec, response := fixture.do(t, http.MethodPost, "/devices/tv/keys/POWER", "", map[string]string{"Authorization": "Bearer " + token})
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, response.Success)
	})
}

func TestTokenService(t *testing.T) {
	tokens := hub.NewTokenService("secret", "hub-1", time.Hour)

	t.Run("round trip keeps the claims", func(t *testing.T) {
		token, err := tokens.GenerateToken("phone")
		require.NoError(t, err)

		claims, err := tokens.ValidateToken(token)
		require.NoError(t, err)
		assert.Equal(t, "phone", claims.Subject)
		assert.Equal(t, "hub-1", claims.HubID)
	})

	t.Run("expired token is rejected", func(t *testing.T) {
		expired := hub.NewTokenService("secret", "hub-1", time.Nanosecond)
		token, err := expired.GenerateToken("phone")
		require.NoError(t, err)
		time.Sleep(time.Second)

		_, err = tokens.ValidateToken(token)
		assert.ErrorIs(t, err, hub.ErrInvalidToken)
	})

	t.Run("wrong secret is rejected", func(t *testing.T) {
		token, err := hub.NewTokenService("other", "hub-1", time.Hour).GenerateToken("phone")
		require.NoError(t, err)

		_, err = tokens.ValidateToken(token)
		assert.ErrorIs(t, err, hub.ErrInvalidToken)
	})
}
