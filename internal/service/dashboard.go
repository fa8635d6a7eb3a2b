package service

import (
	"context"
	"fmt"

	"financas/internal/core"
	"financas/internal/ledger"
)

// DashboardService builds the aggregated dashboard views.
type DashboardService struct {
	store ledger.TransactionReader
}

func NewDashboardService(store ledger.TransactionReader) *DashboardService {
	return &DashboardService{store: store}
}

// Build loads the full transaction set and aggregates it under the filter.
// core.ErrNoRecords and core.ErrNoMatches pass through untouched so the
// caller can render the two empty states differently.
func (s *DashboardService) Build(ctx context.Context, f core.Filter) (core.Report, error) {
	all, err := s.store.ListTransactions(ctx)
	if err != nil {
		return core.Report{}, fmt.Errorf("list transactions: %w", err)
	}
	return core.BuildReport(all, f)
}
