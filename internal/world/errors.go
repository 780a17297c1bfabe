package world

import "errors"

var (
	// ErrInvalidParameter marks configuration that can never generate a chunk
	// (non-positive scale, no octaves, malformed band table).
	ErrInvalidParameter = errors.New("invalid parameter")
	// ErrInternalConsistency marks a mesh build that broke its own invariants.
	ErrInternalConsistency = errors.New("internal consistency")
	// ErrResourceUnavailable marks a render boundary that could not accept a
	// mesh section or texture.
	ErrResourceUnavailable = errors.New("resource unavailable")
)
