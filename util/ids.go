package util

import (
	"github.com/rs/xid"
)

// GenID generates an ID string, used to correlate log messages
// written during a single scoring cycle.
// IDs are globally unique and sortable.
func GenID() string {
	return xid.New().String()
}
