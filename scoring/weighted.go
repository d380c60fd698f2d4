package scoring

import (
	"fmt"
)

// MissingPolicy decides how a WeightedSum treats a key that can't be queried.
type MissingPolicy int

const (
	// MissingAbort scores the target 0 as soon as any key is unavailable.
	MissingAbort MissingPolicy = iota
	// MissingZero counts an unavailable key as 0 and keeps summing.
	MissingZero
)

func (p MissingPolicy) String() string {
	switch p {
	case MissingAbort:
		return "abort"
	case MissingZero:
		return "zero"
	}
	return fmt.Sprintf("MissingPolicy(%d)", int(p))
}

// ParseMissingPolicy parses "abort" or "zero". The empty string is "abort".
func ParseMissingPolicy(s string) (MissingPolicy, error) {
	switch s {
	case "", "abort":
		return MissingAbort, nil
	case "zero":
		return MissingZero, nil
	}
	return MissingAbort, fmt.Errorf("unknown missing policy: %q", s)
}

// WeightedSum scores a target as the sum of value * weight over a fixed,
// ordered list of keys. Weights[i] applies to Keys[i]. A WeightedSum whose
// Keys and Weights differ in length scores every target 0.
type WeightedSum struct {
	Keys    []string
	Weights []float64
	Missing MissingPolicy
}

// NewWeightedSum returns a WeightedSum, checking that keys and weights
// are non-empty and of equal length. The slices are copied.
func NewWeightedSum(keys []string, weights []float64, missing MissingPolicy) (*WeightedSum, error) {
	if len(keys) == 0 {
		return nil, fmt.Errorf("weighted sum needs at least one key")
	}
	if len(keys) != len(weights) {
		return nil, fmt.Errorf("weighted sum has %d keys but %d weights", len(keys), len(weights))
	}
	return &WeightedSum{
		Keys:    append([]string(nil), keys...),
		Weights: append([]float64(nil), weights...),
		Missing: missing,
	}, nil
}

// Score implements Strategy.
func (w *WeightedSum) Score(q Query) float64 {
	if len(w.Keys) != len(w.Weights) {
		return 0
	}
	var score float64
	for i, key := range w.Keys {
		v, err := q.Resource(key)
		if err != nil {
			if w.Missing == MissingAbort {
				return 0
			}
			continue
		}
		score += v * w.Weights[i]
	}
	return score
}

// Keys and weights of the built-in linear strategies.
var (
	linearKeys = []string{
		"cpu/usage",
		"cpu/count",
		"memory/free",
		"memory/available",
		"network/mbps",
		"network/bandwidth",
	}
	linearWeights = []float64{1.48271, 4.125421, 5.3381723, 9.194717234, 2.323, 1.123}
)

// Linear returns the six-metric linear strategy, covering cpu, memory
// and network.
func Linear() *WeightedSum {
	w, _ := NewWeightedSum(linearKeys, linearWeights, MissingAbort)
	return w
}

// LinearCompact returns the four-metric linear strategy, covering only
// cpu and memory.
func LinearCompact() *WeightedSum {
	w, _ := NewWeightedSum(linearKeys[:4], linearWeights[:4], MissingAbort)
	return w
}
