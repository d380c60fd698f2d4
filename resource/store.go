package resource

import (
	"fmt"

	"github.com/edgeorch/rater/config"
)

// NewStore returns the Store selected by conf.Backend.
func NewStore(conf config.Store) (Store, error) {
	switch conf.Backend {
	case "", "memory":
		return NewMemoryStore(), nil
	case "boltdb":
		return NewBoltStore(conf.BoltDB)
	case "badger":
		return NewBadgerStore(conf.Badger)
	}
	return nil, fmt.Errorf("unknown store backend: %q", conf.Backend)
}
