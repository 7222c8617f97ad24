// Copyright 2025 Arion Yau
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package lgtv

import (
	"errors"
	"strings"
	"time"
)

// UDAPEndpoint represents a UDAP API path on the TV
type UDAPEndpoint string

const (
	PairingEndpoint UDAPEndpoint = "/udap/api/pairing"
	CommandEndpoint UDAPEndpoint = "/udap/api/command"
)

const (
	DefaultPort    = 80
	DefaultTimeout = 5 * time.Second

	// The TV ignores controllers whose User-Agent lacks "UDAP/2.0"
	UserAgent      = "lgremote - UDAP/2.0"
	XMLContentType = "text/xml; charset=utf-8"
	xmlDeclaration = `<?xml version="1.0" encoding="utf-8"?>`
)

var ErrMissingHostname = errors.New("hostname is required")

// Config holds the settings for one TV
type Config struct {
	Hostname   string        `yaml:"hostname" json:"hostname"`
	Port       int           `yaml:"port" json:"port"`
	PairingKey string        `yaml:"pairing_key" json:"pairing_key,omitempty"`
	LocalPort  int           `yaml:"local_port" json:"local_port"`
	Timeout    time.Duration `yaml:"timeout,omitempty" json:"timeout,omitempty"`

	// StrictResponses makes non-2xx HTTP answers count as failures
	StrictResponses bool `yaml:"strict_responses,omitempty" json:"strict_responses,omitempty"`
}

// Validate checks the mandatory fields and fills defaults
func (c *Config) Validate() error {
	if strings.TrimSpace(c.Hostname) == "" {
		return ErrMissingHostname
	}
	if c.Port <= 0 {
		c.Port = DefaultPort
	}
	if c.Timeout <= 0 {
		c.Timeout = DefaultTimeout
	}
	return nil
}

// HasPairingKey reports whether a non-blank pairing key is configured
func (c Config) HasPairingKey() bool {
	return strings.TrimSpace(c.PairingKey) != ""
}

// Status is the pairing state of a connection
type Status int

const (
	StatusUnknown Status = iota
	StatusNotPaired
	StatusPaired
	StatusWaitingForPairingKey
)

func (s Status) String() string {
	switch s {
	case StatusNotPaired:
		return "NOT_PAIRED"
	case StatusPaired:
		return "PAIRED"
	case StatusWaitingForPairingKey:
		return "WAITING_FOR_PAIRING_KEY"
	default:
		return "UNKNOWN"
	}
}

// MarshalText lets statuses show up by name in JSON and YAML
func (s Status) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}
