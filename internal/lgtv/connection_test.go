package lgtv_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"lgremote/internal"
	"lgremote/internal/lgtv"
)

// MockTransport is a mock implementation of lgtv.Transport
type MockTransport struct {
	mock.Mock
}

func (m *MockTransport) RequestPairingKey(ctx context.Context) bool {
	return m.Called().Bool(0)
}

func (m *MockTransport) SendPairingKey(ctx context.Context) bool {
	return m.Called().Bool(0)
}

func (m *MockTransport) SendKey(ctx context.Context, key lgtv.Key) bool {
	return m.Called(key).Bool(0)
}

func TestConnectionConnect(t *testing.T) {
	ctx := context.Background()
	base := lgtv.Config{Hostname: "192.168.1.20", Port: 80}

	t.Run("starts unknown", func(t *testing.T) {
		conn := lgtv.NewConnectionWithTransport(base, &MockTransport{})
		assert.Equal(t, lgtv.StatusUnknown, conn.Status())
		assert.Equal(t, base, conn.Config())
	})

	t.Run("without key requests one and waits", func(t *testing.T) {
		transport := &MockTransport{}
		transport.On("RequestPairingKey").Return(true).Once()

		conn := lgtv.NewConnectionWithTransport(base, transport)
		assert.Equal(t, lgtv.StatusWaitingForPairingKey, conn.Connect(ctx))
		assert.Equal(t, lgtv.StatusWaitingForPairingKey, conn.Status())

		transport.AssertExpectations(t)
		transport.AssertNotCalled(t, "SendPairingKey")
	})

	t.Run("without key a failed request is not paired", func(t *testing.T) {
		transport := &MockTransport{}
		transport.On("RequestPairingKey").Return(false).Once()

		conn := lgtv.NewConnectionWithTransport(base, transport)
		assert.Equal(t, lgtv.StatusNotPaired, conn.Connect(ctx))
		transport.AssertExpectations(t)
	})

	t.Run("blank key is treated as no key", func(t *testing.T) {
		transport := &MockTransport{}
		transport.On("RequestPairingKey").Return(true).Once()

		config := base
		config.PairingKey = "   "
		conn := lgtv.NewConnectionWithTransport(config, transport)
		assert.Equal(t, lgtv.StatusWaitingForPairingKey, conn.Connect(ctx))
		transport.AssertNotCalled(t, "SendPairingKey")
	})

	t.Run("with key submits it and pairs", func(t *testing.T) {
		transport := &MockTransport{}
		transport.On("SendPairingKey").Return(true).Once()

		config := base
		config.PairingKey = "ABC123"
		conn := lgtv.NewConnectionWithTransport(config, transport)
		assert.Equal(t, lgtv.StatusPaired, conn.Connect(ctx))

		transport.AssertExpectations(t)
		transport.AssertNotCalled(t, "RequestPairingKey")
	})

	t.Run("with key a failed submit is not paired", func(t *testing.T) {
		transport := &MockTransport{}
		transport.On("SendPairingKey").Return(false).Once()

		config := base
		config.PairingKey = "ABC123"
		conn := lgtv.NewConnectionWithTransport(config, transport)
		assert.Equal(t, lgtv.StatusNotPaired, conn.Connect(ctx))
		transport.AssertExpectations(t)
	})

	t.Run("connect can be repeated", func(t *testing.T) {
		transport := &MockTransport{}
		transport.On("SendPairingKey").Return(true).Twice()

		config := base
		config.PairingKey = "ABC123"
		conn := lgtv.NewConnectionWithTransport(config, transport)
		assert.Equal(t, lgtv.StatusPaired, conn.Connect(ctx))
		assert.Equal(t, lgtv.StatusPaired, conn.Connect(ctx))
		transport.AssertNumberOfCalls(t, "SendPairingKey", 2)
	})
}

func TestConnectionSendKey(t *testing.T) {
	ctx := context.Background()
	config := lgtv.Config{Hostname: "192.168.1.20", Port: 80, PairingKey: "ABC123"}

	t.Run("forwards the key and keeps the status", func(t *testing.T) {
		transport := &MockTransport{}
		transport.On("SendKey", lgtv.KeyVolumeUp).Return(true).Once()
		transport.On("SendKey", lgtv.KeyMute).Return(false).Once()

		conn := lgtv.NewConnectionWithTransport(config, transport)
		conn.SetStatus(lgtv.StatusPaired)

		assert.True(t, conn.SendKey(ctx, lgtv.KeyVolumeUp))
		assert.False(t, conn.SendKey(ctx, lgtv.KeyMute))
		assert.Equal(t, lgtv.StatusPaired, conn.Status())
		transport.AssertExpectations(t)
	})

	t.Run("sending does not require pairing", func(t *testing.T) {
		transport := &MockTransport{}
		transport.On("SendKey", lgtv.KeyPower).Return(true).Once()

		conn := lgtv.NewConnectionWithTransport(config, transport)
		assert.True(t, conn.SendKey(ctx, lgtv.KeyPower))
		assert.Equal(t, lgtv.StatusUnknown, conn.Status())
	})

	t.Run("SetStatus does not validate", func(t *testing.T) {
		conn := lgtv.NewConnectionWithTransport(config, &MockTransport{})
		conn.SetStatus(lgtv.StatusWaitingForPairingKey)
		assert.Equal(t, lgtv.StatusWaitingForPairingKey, conn.Status())
		conn.SetStatus(lgtv.StatusUnknown)
		assert.Equal(t, lgtv.StatusUnknown, conn.Status())
	})
}

func TestConnectionTestMode(t *testing.T) {
	ctx := context.Background()
	options := internal.NewModeOptions(internal.WithTest(true))

	t.Run("simulated TV pairs without a network", func(t *testing.T) {
		conn := lgtv.NewConnection(lgtv.Config{Hostname: "192.0.2.1", PairingKey: "ABC123"}, options)
		assert.Equal(t, lgtv.StatusPaired, conn.Connect(ctx))
		assert.True(t, conn.SendKey(ctx, lgtv.KeyHome))
	})

	t.Run("simulated TV shows a key", func(t *testing.T) {
		conn := lgtv.NewConnection(lgtv.Config{Hostname: "192.0.2.1"}, options)
		assert.Equal(t, lgtv.StatusWaitingForPairingKey, conn.Connect(ctx))
	})
}

func TestConnectionWithSimulator(t *testing.T) {
	ctx := context.Background()

	startSimulator := func(t *testing.T, key string) (*lgtv.Simulator, lgtv.Config) {
		t.Helper()
		sim := lgtv.NewSimulator(key)
		server := httptest.NewServer(sim)
		t.Cleanup(server.Close)
		return sim, configFor(t, server.URL)
	}

	t.Run("full pairing flow", func(t *testing.T) {
		sim, config := startSimulator(t, "ABC123")

		conn := lgtv.NewConnection(config, nil)
		assert.Equal(t, lgtv.StatusWaitingForPairingKey, conn.Connect(ctx))
		assert.True(t, sim.KeyShown())
		assert.Equal(t, 1, sim.Requests())

		config.PairingKey = "ABC123"
		conn = lgtv.NewConnection(config, nil)
		assert.Equal(t, lgtv.StatusPaired, conn.Connect(ctx))
		assert.True(t, sim.Paired())

		assert.True(t, conn.SendKey(ctx, lgtv.KeyPower))
		assert.True(t, conn.SendKey(ctx, lgtv.KeyVolumeDown))
		assert.Equal(t, []int{1, 25}, sim.Pressed())
	})

	t.Run("wrong key pairs unless strict", func(t *testing.T) {
		sim, config := startSimulator(t, "ABC123")
		config.PairingKey = "WRONG"

		lenient := lgtv.NewConnection(config, nil)
		assert.Equal(t, lgtv.StatusPaired, lenient.Connect(ctx))
		assert.False(t, sim.Paired())

		config.StrictResponses = true
		strict := lgtv.NewConnection(config, nil)
		assert.Equal(t, lgtv.StatusNotPaired, strict.Connect(ctx))
	})

	t.Run("strict mode reports unpaired key presses", func(t *testing.T) {
		sim, config := startSimulator(t, "ABC123")
		config.StrictResponses = true

		conn := lgtv.NewConnection(config, nil)
		assert.False(t, conn.SendKey(ctx, lgtv.KeyOK))
		assert.Empty(t, sim.Pressed())
	})

	t.Run("failing TV is not paired in strict mode", func(t *testing.T) {
		sim, config := startSimulator(t, "ABC123")
		sim.SetRejectAll(true)
		config.StrictResponses = true

		conn := lgtv.NewConnection(config, nil)
		assert.Equal(t, lgtv.StatusNotPaired, conn.Connect(ctx))
	})
}

func TestSimulator(t *testing.T) {
	sim := lgtv.NewSimulator("ABC123")
	server := httptest.NewServer(sim)
	defer server.Close()

	t.Run("rejects controllers without the UDAP user agent", func(t *testing.T) {
		resp, err := http.Post(server.URL+string(lgtv.PairingEndpoint), lgtv.XMLContentType, nil)
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusBadRequest, resp.StatusCode)
	})

	t.Run("rejects non POST requests", func(t *testing.T) {
		resp, err := http.Get(server.URL + string(lgtv.CommandEndpoint))
		require.NoError(t, err)
		resp.Body.Close()
		assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
	})
}
