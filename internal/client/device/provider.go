// Package device exposes a best-effort identity for the machine the client
// runs on. Values are advisory: when nothing reliable is available, fixed
// fallback literals are returned instead of errors.
package device

import (
	"os"
	"strings"
)

const (
	// FallbackID is used when no stable device identifier can be read.
	FallbackID = "unknown"
	// FallbackName is used when no human-readable device name is available.
	FallbackName = "Device"
)

// Provider supplies a stable device identifier and a human-readable
// device name. Implementations must never fail; they fall back to the
// package constants instead.
type Provider interface {
	ID() string
	Name() string
}

// machineIDPath is a seam for tests.
var machineIDPath = "/etc/machine-id"

// Host reads the device identity from the operating system:
// /etc/machine-id for the identifier (hostname as a second choice),
// hostname for the name.
type Host struct{}

func NewHost() *Host {
	return &Host{}
}

func (h *Host) ID() string {
	if b, err := os.ReadFile(machineIDPath); err == nil {
		if id := strings.TrimSpace(string(b)); id != "" {
			return id
		}
	}
	if name, err := os.Hostname(); err == nil && name != "" {
		return name
	}
	return FallbackID
}

func (h *Host) Name() string {
	if name, err := os.Hostname(); err == nil && name != "" {
		return name
	}
	return FallbackName
}

// Static is a fixed-value Provider, handy in tests and for platforms
// where the host lookup is handled by the embedding application.
type Static struct {
	DeviceID   string
	DeviceName string
}

func (s Static) ID() string {
	if s.DeviceID == "" {
		return FallbackID
	}
	return s.DeviceID
}

func (s Static) Name() string {
	if s.DeviceName == "" {
		return FallbackName
	}
	return s.DeviceName
}
