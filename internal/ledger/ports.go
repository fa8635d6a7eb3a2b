package ledger

import (
	"context"

	"financas/internal/core"
)

// Ports for outbound storage adapters.
type (
	// TransactionWriter persists one installment group as a single atomic
	// batch: either every record of the group is committed or none is.
	TransactionWriter interface {
		InsertGroup(ctx context.Context, records []core.Transaction) error
	}

	// TransactionReader loads the recorded transactions. Implementations may
	// filter at the source but are not required to; the aggregator filters
	// again in memory.
	TransactionReader interface {
		ListTransactions(ctx context.Context) ([]core.Transaction, error)
	}

	// Registry holds the category and tag name registries used as input
	// suggestions. Add operations deduplicate silently: inserting an
	// existing or empty name is a no-op, not an error.
	Registry interface {
		ListCategories(ctx context.Context) ([]string, error)
		ListTags(ctx context.Context) ([]string, error)
		AddCategory(ctx context.Context, name string) error
		AddTag(ctx context.Context, name string) error
	}

	// Store is the full backend surface the application needs.
	Store interface {
		TransactionWriter
		TransactionReader
		Registry
	}
)
