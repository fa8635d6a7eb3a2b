package service

import (
	"context"
	"errors"
	"testing"
	"time"

	"financas/internal/core"
	"financas/internal/storage/memory"
)

func TestBuildEmptyStore(t *testing.T) {
	svc := NewDashboardService(memory.NewStore())

	_, err := svc.Build(context.Background(), core.Filter{})
	if !errors.Is(err, core.ErrNoRecords) {
		t.Fatalf("err = %v, want ErrNoRecords", err)
	}
}

func TestBuildReportsRecordedTransactions(t *testing.T) {
	store := memory.NewStore()
	tx := NewTransactionService(store)
	dash := NewDashboardService(store)

	entries := []core.Entry{
		{
			Date:          time.Date(2024, time.March, 5, 0, 0, 0, 0, time.UTC),
			Description:   "Salário",
			Category:      "Salário",
			Amount:        core.Money{Cents: 500000},
			Type:          core.Income,
			PaymentMethod: core.PaymentTransfer,
			Installments:  1,
		},
		{
			Date:          time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
			Description:   "Mercado",
			Category:      "Alimentação",
			Amount:        core.Money{Cents: 35050},
			Type:          core.Expense,
			PaymentMethod: core.PaymentDebit,
			Installments:  1,
		},
	}
	for _, e := range entries {
		if _, err := tx.Record(context.Background(), e); err != nil {
			t.Fatalf("Record: %v", err)
		}
	}

	rep, err := dash.Build(context.Background(), core.Filter{})
	if err != nil {
		t.Fatalf("Build: %v", err)
	}
	if rep.TotalIncome.Cents != 500000 {
		t.Errorf("income = %d", rep.TotalIncome.Cents)
	}
	if rep.TotalExpense.Cents != 35050 {
		t.Errorf("expense = %d", rep.TotalExpense.Cents)
	}
	if rep.Balance.Cents != 464950 {
		t.Errorf("balance = %d", rep.Balance.Cents)
	}
	if rep.Matched != 2 {
		t.Errorf("matched = %d", rep.Matched)
	}
}

func TestBuildFilterMismatch(t *testing.T) {
	store := memory.NewStore()
	tx := NewTransactionService(store)
	dash := NewDashboardService(store)

	if _, err := tx.Record(context.Background(), core.Entry{
		Date:          time.Date(2024, time.March, 10, 0, 0, 0, 0, time.UTC),
		Description:   "Mercado",
		Amount:        core.Money{Cents: 1000},
		Type:          core.Expense,
		PaymentMethod: core.PaymentDebit,
		Installments:  1,
	}); err != nil {
		t.Fatalf("Record: %v", err)
	}

	_, err := dash.Build(context.Background(), core.Filter{
		Start: time.Date(2025, time.January, 1, 0, 0, 0, 0, time.UTC),
	})
	if !errors.Is(err, core.ErrNoMatches) {
		t.Fatalf("err = %v, want ErrNoMatches", err)
	}
}
