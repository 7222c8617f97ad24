package hub_test

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"lgremote/internal/hub"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "hub.yml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0600))
	return path
}

func TestLoadConfig(t *testing.T) {
	t.Run("loads devices and fills defaults", func(t *testing.T) {
		path := writeConfig(t, `
hub:
  id: hub-1
api:
  secret: s3cret
devices:
  - id: living_room
    model: LG 42LM
    hostname: 192.168.1.20
    pairing_key: "123456"
    local_port: 8080
    strict_responses: true
  - id: bedroom
    hostname: 192.168.1.21
    port: 8080
    timeout: 2s
`)
		config, err := hub.LoadConfig(path)
		require.NoError(t, err)

		assert.Equal(t, "hub-1", config.Hub.ID)
		assert.Equal(t, time.Minute, config.Hub.StatusInterval)
		assert.Equal(t, hub.DefaultAPIListen, config.API.Listen)
		assert.Equal(t, hub.DefaultTokenTTL, config.API.TokenTTL)
		assert.Equal(t, "s3cret", config.API.Secret)
		require.Len(t, config.Devices, 2)

		tv := config.Devices[0].LGTV()
		assert.Equal(t, "192.168.1.20", tv.Hostname)
		assert.Equal(t, "123456", tv.PairingKey)
		assert.Equal(t, 8080, tv.LocalPort)
		assert.True(t, tv.StrictResponses)

		bedroom, err := config.GetDevice("bedroom")
		require.NoError(t, err)
		assert.Equal(t, 8080, bedroom.Port)
		assert.Equal(t, 2*time.Second, bedroom.Timeout)
	})

	t.Run("missing file", func(t *testing.T) {
		_, err := hub.LoadConfig(filepath.Join(t.TempDir(), "missing.yml"))
		assert.Error(t, err)
	})

	t.Run("invalid YAML", func(t *testing.T) {
		_, err := hub.LoadConfig(writeConfig(t, "hub: ["))
		assert.Error(t, err)
	})
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		config  hub.Config
		wantErr string
	}{
		{"missing hub id", hub.Config{}, "hub.id is required"},
		{"missing device id", hub.Config{
			Hub:     hub.HubConfig{ID: "hub"},
			Devices: []hub.DeviceConfig{{Hostname: "tv"}},
		}, "device[0].id is required"},
		{"duplicate device id", hub.Config{
			Hub:     hub.HubConfig{ID: "hub"},
			Devices: []hub.DeviceConfig{{ID: "tv"}, {ID: "tv"}},
		}, "duplicate device ID: tv"},
		{"blank hostname is left to the device", hub.Config{
			Hub:     hub.HubConfig{ID: "hub"},
			Devices: []hub.DeviceConfig{{ID: "tv"}},
		}, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			assert.EqualError(t, err, tt.wantErr)
		})
	}
}

func TestSaveConfig(t *testing.T) {
	config := hub.NewDefaultConfig()
	require.NoError(t, config.Validate())
	config.Devices[0].PairingKey = "654321"

	path := filepath.Join(t.TempDir(), "hub.yml")
	require.NoError(t, config.Save(path))

	info, err := os.Stat(path)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := hub.LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, config.Hub.ID, loaded.Hub.ID)
	assert.Equal(t, "654321", loaded.Devices[0].PairingKey)

	_, err = loaded.GetDevice("nope")
	assert.Error(t, err)
}
