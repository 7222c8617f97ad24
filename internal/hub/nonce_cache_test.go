package hub_test

import (
	"testing"
	"time"

	"lgremote/internal/device"
	"lgremote/internal/hub"
)

func TestNewNonceCache(t *testing.T) {
	t.Run("creates cache with invalid parameters", func(t *testing.T) {
		cache := hub.NewNonceCache(0, 0)
		defer cache.Shutdown()

		deviceID := "test_device"
		nonce := hub.GenerateNonce()
		response := &device.ActionResponse{Success: true, Data: "test"}

		cache.StoreResponse(deviceID, nonce, response)
		retrieved, found := cache.CheckNonce(deviceID, nonce)
		if !found {
			t.Fatal("Expected to find stored nonce")
		}
		if retrieved.Success != response.Success {
			t.Error("Retrieved response doesn't match stored response")
		}

		stats := cache.Stats()
		if stats["max_size"] != 50 {
			t.Errorf("Expected default max size 50, got %v", stats["max_size"])
		}
		if stats["expiration"] != "1h0m0s" {
			t.Errorf("Expected default expiration 1h0m0s, got %v", stats["expiration"])
		}
	})
}

func TestGenerateNonce(t *testing.T) {
	t.Run("generates unique nonces", func(t *testing.T) {
		nonce1 := hub.GenerateNonce()
		nonce2 := hub.GenerateNonce()

		if nonce1 == nonce2 {
			t.Error("Expected unique nonces, got identical ones")
		}
	})

	t.Run("validates generated nonce format", func(t *testing.T) {
		nonce := hub.GenerateNonce()
		if !hub.ValidateNonce(nonce) {
			t.Errorf("Generated nonce %s failed validation", nonce)
		}
	})
}

func TestValidateNonce(t *testing.T) {
	tests := []struct {
		name     string
		nonce    string
		expected bool
	}{
		{"empty nonce", "", false},
		{"too short", "123", false},
		{"valid nonce", "3f2b6a0e-8d4c-4b7a-9e1f-2c5d8a7b6e90", true},
		{"uppercase nonce", "3F2B6A0E-8D4C-4B7A-9E1F-2C5D8A7B6E90", true},
		{"invalid hex", "3f2b6a0e-8d4c-4b7a-9e1f-2c5d8a7b6exz", false},
		{"missing group", "3f2b6a0e-8d4c-4b7a-2c5d8a7b6e90", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			result := hub.ValidateNonce(tt.nonce)
			if result != tt.expected {
				t.Errorf("hub.ValidateNonce(%s) = %v, expected %v", tt.nonce, result, tt.expected)
			}
		})
	}
}

func TestNonceCacheBasicOperations(t *testing.T) {
	cache := hub.NewNonceCache(10, time.Hour)
	defer cache.Shutdown()

	deviceID := "device123"
	nonce := hub.GenerateNonce()
	response := &device.ActionResponse{
		Success: true,
		Data:    "Test response",
	}

	t.Run("check nonexistent nonce", func(t *testing.T) {
		resp, found := cache.CheckNonce(deviceID, nonce)
		if found {
			t.Error("Expected nonce not found, but it was")
		}
		if resp != nil {
			t.Error("Expected nil response for nonexistent nonce")
		}
	})

	t.Run("store and retrieve nonce", func(t *testing.T) {
		cache.StoreResponse(deviceID, nonce, response)

		resp, found := cache.CheckNonce(deviceID, nonce)
		if !found {
			t.Error("Expected to find stored nonce")
		}
		if resp == nil {
			t.Fatal("Expected response, got nil")
		}
		if resp.Data != response.Data {
			t.Errorf("Expected Data %v, got %v", response.Data, resp.Data)
		}
	})

	t.Run("empty nonce handling", func(t *testing.T) {
		cache.StoreResponse(deviceID, "", response)
		resp, found := cache.CheckNonce(deviceID, "")
		if found {
			t.Error("Expected empty nonce to not be found")
		}
		if resp != nil {
			t.Error("Expected nil response for empty nonce")
		}
	})
}

func TestNonceCacheExpiration(t *testing.T) {
	shortExpiration := 50 * time.Millisecond
	cache := hub.NewNonceCache(10, shortExpiration)
	defer cache.Shutdown()

	deviceID := "device123"
	nonce := hub.GenerateNonce()
	cache.StoreResponse(deviceID, nonce, &device.ActionResponse{Success: true})

	if resp, found := cache.CheckNonce(deviceID, nonce); !found || resp == nil {
		t.Error("Expected to find fresh nonce")
	}

	time.Sleep(shortExpiration + 50*time.Millisecond)

	if _, found := cache.CheckNonce(deviceID, nonce); found {
		t.Error("Expected expired nonce to not be found")
	}
}

func TestNonceCacheDeviceOperations(t *testing.T) {
	cache := hub.NewNonceCache(10, time.Hour)
	defer cache.Shutdown()

	device1 := "device1"
	device2 := "device2"
	nonce1 := hub.GenerateNonce()
	nonce2 := hub.GenerateNonce()
	response := &device.ActionResponse{Success: true}

	cache.StoreResponse(device1, nonce1, response)
	cache.StoreResponse(device1, nonce2, response)
	cache.StoreResponse(device2, nonce1, response)

	t.Run("device nonce count", func(t *testing.T) {
		if count := cache.DeviceNonceCount(device1); count != 2 {
			t.Errorf("Expected 2 nonces for device1, got %d", count)
		}
		if count := cache.DeviceNonceCount(device2); count != 1 {
			t.Errorf("Expected 1 nonce for device2, got %d", count)
		}
		if count := cache.DeviceNonceCount("unknown"); count != 0 {
			t.Errorf("Expected 0 nonces for unknown device, got %d", count)
		}
	})

	t.Run("stats", func(t *testing.T) {
		stats := cache.Stats()
		if stats["total_devices"] != 2 {
			t.Errorf("Expected 2 devices, got %v", stats["total_devices"])
		}
		if stats["total_nonces"] != 3 {
			t.Errorf("Expected 3 nonces, got %v", stats["total_nonces"])
		}
	})

	t.Run("clear device", func(t *testing.T) {
		cache.ClearDevice(device1)
		if count := cache.DeviceNonceCount(device1); count != 0 {
			t.Errorf("Expected 0 nonces after clear, got %d", count)
		}
		if _, found := cache.CheckNonce(device2, nonce1); !found {
			t.Error("Expected device2 nonce to survive clearing device1")
		}
	})

	t.Run("shutdown reuses device caches", func(t *testing.T) {
		cache.Shutdown()
		stats := cache.Stats()
		if stats["total_devices"] != 2 {
			t.Errorf("Expected caches of 2 devices to be kept, got %v", stats["total_devices"])
		}
		if stats["total_nonces"] != 0 {
			t.Errorf("Expected no nonces after shutdown, got %v", stats["total_nonces"])
		}

		cache.StoreResponse(device1, nonce1, response)
		if count := cache.DeviceNonceCount(device1); count != 1 {
			t.Errorf("Expected purged cache to accept nonces again, got %d", count)
		}
		if cache.Stats()["total_devices"] != 2 {
			t.Error("Expected no new cache for a known device")
		}
	})
}

func TestNonceCacheEviction(t *testing.T) {
	cache := hub.NewNonceCache(2, time.Hour)
	defer cache.Shutdown()

	first := hub.GenerateNonce()
	cache.StoreResponse("tv", first, &device.ActionResponse{Success: true})
	cache.StoreResponse("tv", hub.GenerateNonce(), &device.ActionResponse{Success: true})
	cache.StoreResponse("tv", hub.GenerateNonce(), &device.ActionResponse{Success: true})

	if count := cache.DeviceNonceCount("tv"); count != 2 {
		t.Errorf("Expected cache to hold 2 nonces, got %d", count)
	}
	if _, found := cache.CheckNonce("tv", first); found {
		t.Error("Expected oldest nonce to be evicted")
	}
}
