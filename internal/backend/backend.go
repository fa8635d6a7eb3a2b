package backend

import (
	"context"

	"financas/internal/ledger"
)

// Type selects the storage backend.
type Type string

const (
	Mongo  Type = "mongo"
	SQLite Type = "sqlite"
	Memory Type = "memory"
)

func (t Type) String() string { return string(t) }

func (t Type) IsValid() bool {
	switch t {
	case Mongo, SQLite, Memory:
		return true
	default:
		return false
	}
}

// Types returns all valid backend types.
func Types() []Type {
	return []Type{Mongo, SQLite, Memory}
}

// CleanupFunc releases backend resources at process exit.
type CleanupFunc func() error

// Result carries the backend instance and its optional cleanup function.
type Result struct {
	Store   ledger.Store
	Cleanup CleanupFunc
}

// Factory creates storage backends from configuration.
type Factory interface {
	CreateBackend(ctx context.Context) (*Result, error)
}
