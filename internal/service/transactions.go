package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"financas/internal/core"
	"financas/internal/ledger"
)

// TransactionService turns form submissions into persisted installment groups.
type TransactionService struct {
	store ledger.TransactionWriter
	now   func() time.Time
}

func NewTransactionService(store ledger.TransactionWriter) *TransactionService {
	return &TransactionService{store: store, now: time.Now}
}

// Record validates the entry, expands it into its installment group and
// performs exactly one write attempt. Validation failures happen before any
// write; a store failure surfaces verbatim with nothing committed.
//
// Installments are only meaningful for credit-card expenses; any other
// type/payment combination collapses to a single record. User-typed
// categories are not pushed into the registry here.
func (s *TransactionService) Record(ctx context.Context, e core.Entry) ([]core.Transaction, error) {
	if e.Installments == 0 {
		e.Installments = 1
	}
	if !(e.Type == core.Expense && e.PaymentMethod == core.PaymentCredit) {
		e.Installments = 1
	}
	if err := e.Validate(); err != nil {
		return nil, err
	}

	records := core.ExpandInstallments(e, s.now().UTC())
	if err := s.store.InsertGroup(ctx, records); err != nil {
		return nil, fmt.Errorf("insert transaction group: %w", err)
	}

	slog.InfoContext(ctx, "Transaction group recorded",
		"group_id", records[0].GroupID,
		"type", string(e.Type),
		"installments", len(records),
		"amount_cents", e.Amount.Cents)
	return records, nil
}
