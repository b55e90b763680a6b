package backend

import (
	"context"

	"tracker/internal/services"
)

// Factory creates the transaction store of a new session.
type Factory interface {
	// CreateStore returns a store seeded with the example transactions.
	CreateStore(ctx context.Context, sessionID string) (*services.TransactionService, error)
}

// Config holds configuration for backend creation
type Config struct {
	// Backend type
	Type BackendType

	// SQLite specific, defaults to a private in-memory database
	SQLiteDSN string
}

// BackendType represents the type of backend
type BackendType string

const (
	SQLiteBackend BackendType = "sqlite"
	MemoryBackend BackendType = "memory"
)

// String implements fmt.Stringer
func (bt BackendType) String() string {
	return string(bt)
}

// IsValid returns true if the backend type is valid
func (bt BackendType) IsValid() bool {
	switch bt {
	case SQLiteBackend, MemoryBackend:
		return true
	default:
		return false
	}
}
