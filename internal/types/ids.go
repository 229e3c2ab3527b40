package types

import "github.com/google/uuid"

// RunID identifies one validation pass over one submission.
// UUIDv7 keeps IDs time-ordered in logs and metrics exemplars.
type RunID string

// NewRunID generates a UUIDv7 run identifier.
// Panics on clock regression (uuid.Must); acceptable for ID generation.
func NewRunID() RunID {
	return RunID(uuid.Must(uuid.NewV7()).String())
}
