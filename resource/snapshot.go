package resource

import (
	"fmt"
	"os"

	"github.com/edgeorch/rater/scoring"
	"github.com/ghodss/yaml"
)

// Snapshot is a fixed set of resource values, for example measured on a
// remote device and shipped to the orchestrator.
type Snapshot map[string]float64

// Resource implements scoring.Query.
func (s Snapshot) Resource(key string) (float64, error) {
	v, ok := s[key]
	if !ok {
		return 0, scoring.Unavailable(key, nil)
	}
	return v, nil
}

// ParseSnapshot parses a YAML (or JSON) document mapping resource keys
// to values:
//
//	network/bandwidth: 1000
//	cpu/freq: 2400
func ParseSnapshot(raw []byte) (Snapshot, error) {
	s := Snapshot{}
	if err := yaml.Unmarshal(raw, &s); err != nil {
		return nil, err
	}
	return s, nil
}

// LoadSnapshot reads a snapshot document from a file.
func LoadSnapshot(path string) (Snapshot, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading snapshot: %s", err)
	}
	s, err := ParseSnapshot(raw)
	if err != nil {
		return nil, fmt.Errorf("parsing snapshot %s: %s", path, err)
	}
	return s, nil
}
