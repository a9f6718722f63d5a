// Package store owns the persisted country-to-capital mapping.
//
// The ordered entry sequence is the durable source of truth; the normalized
// country index is a derived cache rebuilt on load and updated on every insert,
// and must never diverge from the sequence.
package store

import "errors"

// Error Contract:
// All store methods follow this error pattern:
// - Return an error wrapping ErrNotFound when the requested country has no entry
// - Return nil for successful operations
// - Return domain errors with CodePersistence for durable storage failures
var ErrNotFound = errors.New("country not found")
