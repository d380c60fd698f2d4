// Package config contains rater configuration structures and helpers.
package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/edgeorch/rater/logger"
	"github.com/ghodss/yaml"
	multierror "github.com/hashicorp/go-multierror"
)

// Config describes configuration for rater.
type Config struct {
	Scoring Scoring
	Monitor Monitor
	Store   Store
	Server  Server
	Logger  logger.Config
}

// Scoring selects the strategy bound at startup.
type Scoring struct {
	// Name of the strategy used to score this device.
	Strategy string
	// Additional linear weighted-sum strategies, registered by name
	// alongside the built-in strategies.
	Weighted []WeightedStrategy
}

// WeightedStrategy describes a user-defined linear weighted-sum strategy.
// Weights[i] applies to Keys[i].
type WeightedStrategy struct {
	Name    string
	Keys    []string
	Weights []float64
	// What to do when a key can't be queried: "abort" returns a zero score,
	// "zero" counts the key as zero and keeps summing.
	Missing string
}

// Monitor contains configuration for the local resource monitor.
type Monitor struct {
	Disabled bool
	// How often the host is sampled.
	Rate Duration
	// Interval used to measure rates such as cpu usage and network throughput.
	SampleWindow Duration
}

// Store describes where resource samples are kept.
type Store struct {
	// One of "memory", "boltdb", "badger".
	Backend string
	BoltDB  BoltDB
	Badger  Badger
	// Samples older than MaxAge are reported as unavailable.
	// Zero disables the check.
	MaxAge Duration
}

// BoltDB describes configuration for the BoltDB resource store.
type BoltDB struct {
	Path string
}

// Badger describes configuration for the Badger resource store.
type Badger struct {
	Path string
}

// Server describes configuration for the HTTP server.
type Server struct {
	HostName string
	HTTPPort string
	// Maximum on-demand score requests per second. Zero disables the limit.
	RateLimit float64
	RateBurst int
}

// HTTPAddress returns the HTTP address based on HostName and HTTPPort
func (c Server) HTTPAddress() string {
	if c.HostName != "" && c.HTTPPort != "" {
		return "http://" + c.HostName + ":" + c.HTTPPort
	}
	return ""
}

// ListenAddress returns the address the HTTP server listens on.
func (c Server) ListenAddress() string {
	return c.HostName + ":" + c.HTTPPort
}

var validBackends = []string{"memory", "boltdb", "badger"}
var validMissing = []string{"", "abort", "zero"}

// Validate checks the configuration for errors. All problems are reported.
func (c Config) Validate() error {
	var errs *multierror.Error

	if c.Scoring.Strategy == "" {
		errs = multierror.Append(errs, fmt.Errorf("Scoring.Strategy is required"))
	}

	seen := map[string]bool{}
	for i, w := range c.Scoring.Weighted {
		if w.Name == "" {
			errs = multierror.Append(errs, fmt.Errorf("Scoring.Weighted[%d]: name is required", i))
		} else if seen[w.Name] {
			errs = multierror.Append(errs, fmt.Errorf("Scoring.Weighted[%d]: duplicate name %q", i, w.Name))
		}
		seen[w.Name] = true

		if len(w.Keys) == 0 {
			errs = multierror.Append(errs, fmt.Errorf("Scoring.Weighted[%d]: at least one key is required", i))
		}
		if len(w.Keys) != len(w.Weights) {
			errs = multierror.Append(errs, fmt.Errorf(
				"Scoring.Weighted[%d]: %d keys but %d weights", i, len(w.Keys), len(w.Weights)))
		}
		if !contains(validMissing, w.Missing) {
			errs = multierror.Append(errs, fmt.Errorf(
				"Scoring.Weighted[%d]: unknown missing policy %q", i, w.Missing))
		}
	}

	if !c.Monitor.Disabled && c.Monitor.Rate <= 0 {
		errs = multierror.Append(errs, fmt.Errorf("Monitor.Rate must be positive"))
	}

	switch c.Store.Backend {
	case "boltdb":
		if c.Store.BoltDB.Path == "" {
			errs = multierror.Append(errs, fmt.Errorf("Store.BoltDB.Path is required"))
		}
	case "badger":
		if c.Store.Badger.Path == "" {
			errs = multierror.Append(errs, fmt.Errorf("Store.Badger.Path is required"))
		}
	case "memory":
	default:
		errs = multierror.Append(errs, fmt.Errorf(
			"unknown Store.Backend %q, must be one of: %s",
			c.Store.Backend, strings.Join(validBackends, ", ")))
	}

	if c.Server.RateLimit < 0 {
		errs = multierror.Append(errs, fmt.Errorf("Server.RateLimit must not be negative"))
	}

	return errs.ErrorOrNil()
}

func contains(list []string, s string) bool {
	for _, x := range list {
		if x == s {
			return true
		}
	}
	return false
}

// ToYaml formats the configuration into YAML and returns the bytes.
func ToYaml(c Config) ([]byte, error) {
	return yaml.Marshal(c)
}

// ToYamlFile writes the configuration to a YAML file.
func ToYamlFile(c Config, p string) error {
	b, err := ToYaml(c)
	if err != nil {
		return err
	}
	return os.WriteFile(p, b, 0600)
}

// Parse parses a YAML doc into the given Config instance.
func Parse(raw []byte, conf *Config) error {
	return yaml.Unmarshal(raw, conf)
}

// ParseFile parses a rater config file, which is formatted in YAML,
// and returns a Config struct.
func ParseFile(relpath string, conf *Config) error {
	if relpath == "" {
		return nil
	}

	// Try to get absolute path. If it fails, fall back to relative path.
	path, abserr := filepath.Abs(relpath)
	if abserr != nil {
		path = relpath
	}

	// Read file
	source, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("failed to read config at path %s: %s", path, err)
	}

	// Parse file
	err = Parse(source, conf)
	if err != nil {
		return fmt.Errorf("failed to parse config at path %s: %s", path, err)
	}
	return nil
}
