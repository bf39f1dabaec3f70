// Package session tags each device session with a correlation ID, the
// same way the NTRIP caster lineage tagged each HTTP request with a
// uuid for its log fields.
package session

import "github.com/google/uuid"

// NewID returns a fresh session-correlation ID.
func NewID() string {
	return uuid.New().String()
}
