// Package contract provides interfaces and shared utilities for internal architecture.
package contract

import (
	"github.com/huangsam/gitpulse/schema"
)

// StateStore defines the interface for persisted session state.
// Values are opaque strings keyed by name; this allows mocking the store for testing.
type StateStore interface {
	// Get returns the value stored under key. The boolean is false when the key is absent.
	Get(key string) (string, bool, error)

	// Set stores value under key, replacing any previous value.
	Set(key, value string) error

	// Delete removes key. Deleting an absent key is not an error.
	Delete(key string) error

	// Clear removes every key.
	Clear() error

	// GetStatus returns status information about the store.
	GetStatus() (schema.StateStatus, error)

	// Close closes the underlying connection.
	Close() error
}
