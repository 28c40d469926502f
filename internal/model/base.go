package model

import (
	"time"
)

// TableItems is the name of the items table.
const TableItems = "items"

// Now returns the current UTC time truncated to the precision kept by the databases.
// Timestamps rendered right after a write must be equal to the fetched ones.
func Now() time.Time {
	return time.Now().UTC().Truncate(time.Microsecond)
}
