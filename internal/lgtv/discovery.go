package lgtv

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"net"
	"time"
)

// DiscoveryPort is where LG TVs listen for the roap discovery probe
const DiscoveryPort = 9740

var discoveryProbe, _ = hex.DecodeString("132a9eab010000002830323a30303a30303a30303a30303a3030000000085f6c675f726f617000000007416e64726f6964")

// DiscoveredTV is a TV that answered the discovery probe
type DiscoveredTV struct {
	Address string `json:"address"`
	Reply   string `json:"reply"`
}

// Discover broadcasts a probe on the local network and collects the TVs that
// answer before the timeout or the context expires
func Discover(ctx context.Context, timeout time.Duration) ([]DiscoveredTV, error) {
	return discover(ctx, &net.UDPAddr{IP: net.IPv4bcast, Port: DiscoveryPort}, timeout)
}

func discover(ctx context.Context, target net.Addr, timeout time.Duration) ([]DiscoveredTV, error) {
	conn, err := net.ListenPacket("udp4", ":0")
	if err != nil {
		return nil, fmt.Errorf("failed to open discovery socket: %w", err)
	}
	defer conn.Close()

	if _, err := conn.WriteTo(discoveryProbe, target); err != nil {
		return nil, fmt.Errorf("failed to send discovery probe: %w", err)
	}

	if err := conn.SetReadDeadline(time.Now().Add(timeout)); err != nil {
		return nil, fmt.Errorf("failed to set discovery deadline: %w", err)
	}

	// Cancelling the context ends the read loop early
	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			_ = conn.SetReadDeadline(time.Now())
		case <-done:
		}
	}()

	seen := make(map[string]bool)
	var found []DiscoveredTV
	buf := make([]byte, 1024)
	for {
		n, addr, err := conn.ReadFrom(buf)
		if err != nil {
			var netErr net.Error
			if errors.As(err, &netErr) && netErr.Timeout() {
				return found, nil
			}
			return found, fmt.Errorf("failed to read discovery reply: %w", err)
		}
		if addr == nil || n == 0 {
			continue
		}
		host, _, err := net.SplitHostPort(addr.String())
		if err != nil {
			host = addr.String()
		}
		if seen[host] {
			continue
		}
		seen[host] = true
		found = append(found, DiscoveredTV{Address: host, Reply: string(buf[:n])})
	}
}
