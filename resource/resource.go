// Package resource provides resource values of the local device to
// scoring strategies.
package resource

import (
	"errors"
	"time"
)

// Resource keys.
const (
	CPUUsage     = "cpu/usage"
	CPUCount     = "cpu/count"
	CPUFreq      = "cpu/freq"
	MemFree      = "memory/free"
	MemAvailable = "memory/available"
	NetMBps      = "network/mbps"
	NetBandwidth = "network/bandwidth"
	NetRTT       = "network/rtt"
)

// Keys lists every known resource key.
var Keys = []string{
	CPUUsage,
	CPUCount,
	CPUFreq,
	MemFree,
	MemAvailable,
	NetMBps,
	NetBandwidth,
	NetRTT,
}

// ErrNotFound is returned by a Store when no value was recorded for a key.
var ErrNotFound = errors.New("resource not found")

// Info is a single sampled resource value.
type Info struct {
	Name    string    `json:"name"`
	Value   float64   `json:"value"`
	Updated time.Time `json:"updated"`
}

// Store keeps the latest value of each resource.
type Store interface {
	Get(name string) (Info, error)
	Set(info Info) error
	Close() error
}
