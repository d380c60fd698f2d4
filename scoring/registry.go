package scoring

import (
	"errors"
	"fmt"
	"sort"
	"sync"

	"github.com/edgeorch/rater/config"
)

// ErrUnknownStrategy is returned when a strategy name isn't registered.
var ErrUnknownStrategy = errors.New("unknown strategy")

// Names of the built-in strategies.
const (
	PerformanceName   = "performance"
	LinearName        = "linear"
	LinearCompactName = "linear-compact"
)

// Registry maps names to strategies, so the strategy used by an
// orchestrator can be chosen by configuration.
type Registry struct {
	mu         sync.RWMutex
	strategies map[string]Strategy
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry {
	return &Registry{strategies: map[string]Strategy{}}
}

// NewDefaultRegistry returns a Registry holding the built-in strategies.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.MustRegister(PerformanceName, Performance{})
	r.MustRegister(LinearName, Linear())
	r.MustRegister(LinearCompactName, LinearCompact())
	return r
}

// Register adds a strategy under the given name.
// Names must be non-empty and unique.
func (r *Registry) Register(name string, s Strategy) error {
	if name == "" {
		return fmt.Errorf("strategy name is empty")
	}
	if s == nil {
		return fmt.Errorf("strategy %q is nil", name)
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.strategies[name]; exists {
		return fmt.Errorf("strategy %q is already registered", name)
	}
	r.strategies[name] = s
	return nil
}

// MustRegister is like Register but panics on error.
func (r *Registry) MustRegister(name string, s Strategy) {
	if err := r.Register(name, s); err != nil {
		panic(err)
	}
}

// Get returns the strategy registered under name.
func (r *Registry) Get(name string) (Strategy, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.strategies[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownStrategy, name)
	}
	return s, nil
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.strategies))
	for name := range r.strategies {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// FromConfig registers the weighted strategies described by conf, then
// returns the strategy named by conf.Strategy.
func FromConfig(conf config.Scoring, r *Registry) (Strategy, error) {
	for _, wc := range conf.Weighted {
		missing, err := ParseMissingPolicy(wc.Missing)
		if err != nil {
			return nil, fmt.Errorf("strategy %q: %s", wc.Name, err)
		}
		w, err := NewWeightedSum(wc.Keys, wc.Weights, missing)
		if err != nil {
			return nil, fmt.Errorf("strategy %q: %s", wc.Name, err)
		}
		if err := r.Register(wc.Name, w); err != nil {
			return nil, err
		}
	}
	return r.Get(conf.Strategy)
}
