package util

import "github.com/oklog/ulid/v2"

// NewULID returns a new ULID string. ulid.Make draws from a process-wide
// monotonic entropy source, so ids created in the same millisecond still sort
// in creation order.
func NewULID() string {
	return ulid.Make().String()
}
