package hub

import (
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/hashicorp/golang-lru/v2/expirable"
	"lgremote/internal/device"
)

const (
	defaultNoncesPerDevice = 50
	defaultNonceTTL        = time.Hour
)

// NonceCache remembers the response to each nonce per device so a retried
// request does not press the same key twice. A device cache lives as long as
// the NonceCache: expirable.LRU cannot stop its cleanup goroutine, so caches
// are purged and reused rather than replaced.
type NonceCache struct {
	mutex        sync.Mutex
	deviceCaches map[string]*expirable.LRU[string, *device.ActionResponse]
	maxSize      int
	expiration   time.Duration
}

// NewNonceCache creates a new nonce cache
func NewNonceCache(maxSize int, expiration time.Duration) *NonceCache {
	if maxSize <= 0 {
		maxSize = defaultNoncesPerDevice
	}
	if expiration <= 0 {
		expiration = defaultNonceTTL
	}

	return &NonceCache{
		deviceCaches: make(map[string]*expirable.LRU[string, *device.ActionResponse]),
		maxSize:      maxSize,
		expiration:   expiration,
	}
}

// GenerateNonce returns a fresh random nonce
func GenerateNonce() string {
	return uuid.NewString()
}

// ValidateNonce reports whether a nonce is a well formed UUID
func ValidateNonce(nonce string) bool {
	_, err := uuid.Parse(nonce)
	return err == nil
}

func (nc *NonceCache) deviceCache(deviceID string) *expirable.LRU[string, *device.ActionResponse] {
	nc.mutex.Lock()
	defer nc.mutex.Unlock()

	cache, exists := nc.deviceCaches[deviceID]
	if !exists {
		cache = expirable.NewLRU[string, *device.ActionResponse](nc.maxSize, nil, nc.expiration)
		nc.deviceCaches[deviceID] = cache
	}
	return cache
}

// CheckNonce returns the cached response for a nonce if it was seen before
func (nc *NonceCache) CheckNonce(deviceID, nonce string) (*device.ActionResponse, bool) {
	if nonce == "" {
		return nil, false
	}
	return nc.deviceCache(deviceID).Get(nonce)
}

// StoreResponse remembers the response for a nonce
func (nc *NonceCache) StoreResponse(deviceID, nonce string, response *device.ActionResponse) {
	if nonce == "" {
		return
	}
	nc.deviceCache(deviceID).Add(nonce, response)
}

// ClearDevice forgets every nonce of one device
func (nc *NonceCache) ClearDevice(deviceID string) {
	nc.mutex.Lock()
	defer nc.mutex.Unlock()

	if cache, exists := nc.deviceCaches[deviceID]; exists {
		cache.Purge()
	}
}

// DeviceNonceCount returns the number of live nonces for a device
func (nc *NonceCache) DeviceNonceCount(deviceID string) int {
	nc.mutex.Lock()
	cache, exists := nc.deviceCaches[deviceID]
	nc.mutex.Unlock()

	if !exists {
		return 0
	}
	return cache.Len()
}

// Stats returns cache statistics
func (nc *NonceCache) Stats() map[string]interface{} {
	nc.mutex.Lock()
	defer nc.mutex.Unlock()

	total := 0
	perDevice := make(map[string]int, len(nc.deviceCaches))
	for deviceID, cache := range nc.deviceCaches {
		perDevice[deviceID] = cache.Len()
		total += perDevice[deviceID]
	}

	return map[string]interface{}{
		"total_devices": len(nc.deviceCaches),
		"total_nonces":  total,
		"max_size":      nc.maxSize,
		"expiration":    nc.expiration.String(),
		"device_stats":  perDevice,
	}
}

// Shutdown drops every cached response
func (nc *NonceCache) Shutdown() {
	nc.mutex.Lock()
	defer nc.mutex.Unlock()

	for _, cache := range nc.deviceCaches {
		cache.Purge()
	}
}
