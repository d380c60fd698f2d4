package resource

import (
	"fmt"
	"time"

	"github.com/edgeorch/rater/scoring"
)

// StoreQuery answers resource queries from a Store.
//
// A key with no recorded value, or whose value is older than MaxAge,
// is unavailable. A zero MaxAge accepts values of any age.
type StoreQuery struct {
	Store  Store
	MaxAge time.Duration
	// now is overridden in tests.
	now func() time.Time
}

// NewStoreQuery returns a StoreQuery reading from s.
func NewStoreQuery(s Store, maxAge time.Duration) *StoreQuery {
	return &StoreQuery{Store: s, MaxAge: maxAge, now: time.Now}
}

// Resource implements scoring.Query.
func (q *StoreQuery) Resource(key string) (float64, error) {
	info, err := q.Store.Get(key)
	if err != nil {
		return 0, scoring.Unavailable(key, err)
	}
	if q.MaxAge > 0 {
		now := time.Now
		if q.now != nil {
			now = q.now
		}
		if age := now().Sub(info.Updated); age > q.MaxAge {
			return 0, scoring.Unavailable(key, fmt.Errorf("sample is %s old", age.Round(time.Millisecond)))
		}
	}
	return info.Value, nil
}
