package sqlite

import (
	"context"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"financas/internal/core"
)

func newTestRepo(t *testing.T) *Repository {
	t.Helper()
	repo, err := NewRepository(filepath.Join(t.TempDir(), "test.db"))
	if err != nil {
		t.Fatalf("NewRepository: %v", err)
	}
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestInsertGroupRoundTrip(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	created := time.Date(2024, time.January, 15, 12, 30, 0, 0, time.UTC)
	group := []core.Transaction{
		{
			Date:             time.Date(2024, time.January, 15, 0, 0, 0, 0, time.UTC),
			Description:      "Notebook (1/2)",
			Category:         "Lazer",
			Amount:           core.Money{Cents: 15000},
			Type:             core.Expense,
			PaymentMethod:    core.PaymentCredit,
			InstallmentIndex: 1,
			InstallmentCount: 2,
			GroupID:          "g1",
			Tags:             []string{"eletronicos"},
			CreatedAt:        created,
		},
		{
			Date:             time.Date(2024, time.February, 15, 0, 0, 0, 0, time.UTC),
			Description:      "Notebook (2/2)",
			Category:         "Lazer",
			Amount:           core.Money{Cents: 15000},
			Type:             core.Expense,
			PaymentMethod:    core.PaymentCredit,
			InstallmentIndex: 2,
			InstallmentCount: 2,
			GroupID:          "g1",
			Tags:             []string{"eletronicos"},
			CreatedAt:        created,
		},
	}

	if err := repo.InsertGroup(ctx, group); err != nil {
		t.Fatalf("InsertGroup: %v", err)
	}

	got, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if len(got) != 2 {
		t.Fatalf("got %d transactions, want 2", len(got))
	}
	for i, tx := range got {
		want := group[i]
		if tx.Description != want.Description ||
			tx.Amount != want.Amount ||
			tx.GroupID != want.GroupID ||
			tx.InstallmentIndex != want.InstallmentIndex {
			t.Errorf("transaction %d = %+v, want %+v", i, tx, want)
		}
		if !tx.Date.Equal(want.Date) {
			t.Errorf("transaction %d date = %v, want %v", i, tx.Date, want.Date)
		}
		if !reflect.DeepEqual(tx.Tags, want.Tags) {
			t.Errorf("transaction %d tags = %v, want %v", i, tx.Tags, want.Tags)
		}
	}
}

func TestListTransactionsCoercesMissingType(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	if err := repo.InsertGroup(ctx, []core.Transaction{{
		Date:             time.Date(2023, time.June, 1, 0, 0, 0, 0, time.UTC),
		Description:      "registro antigo",
		Amount:           core.Money{Cents: 500},
		Type:             "",
		InstallmentIndex: 1,
		InstallmentCount: 1,
		GroupID:          "g-legacy",
		CreatedAt:        time.Now().UTC(),
	}}); err != nil {
		t.Fatalf("InsertGroup: %v", err)
	}

	got, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}
	if got[0].Type != core.Expense {
		t.Errorf("type = %q, want coerced Expense", got[0].Type)
	}
}

func TestRegistryDedup(t *testing.T) {
	repo := newTestRepo(t)
	ctx := context.Background()

	for _, name := range []string{"Viagem", "Viagem", "Educação"} {
		if err := repo.AddCategory(ctx, name); err != nil {
			t.Fatalf("AddCategory: %v", err)
		}
	}
	cats, err := repo.ListCategories(ctx)
	if err != nil {
		t.Fatalf("ListCategories: %v", err)
	}
	if !reflect.DeepEqual(cats, []string{"Educação", "Viagem"}) {
		t.Errorf("categories = %v", cats)
	}

	for _, name := range []string{"mercado", "mercado"} {
		if err := repo.AddTag(ctx, name); err != nil {
			t.Fatalf("AddTag: %v", err)
		}
	}
	tags, err := repo.ListTags(ctx)
	if err != nil {
		t.Fatalf("ListTags: %v", err)
	}
	if !reflect.DeepEqual(tags, []string{"mercado"}) {
		t.Errorf("tags = %v", tags)
	}
}

func TestDateFilterSurvivesRoundTripNonUTC(t *testing.T) {
	// Hosts west of UTC must not see a stored day slip out of an inclusive
	// single-day range after the date string round-trips through the store.
	prev := time.Local
	time.Local = time.FixedZone("UTC-3", -3*60*60)
	t.Cleanup(func() { time.Local = prev })

	repo := newTestRepo(t)
	ctx := context.Background()

	entry := core.Entry{
		Date:          time.Date(2024, time.January, 15, 0, 0, 0, 0, time.Local),
		Description:   "Mercado",
		Category:      "Alimentação",
		Amount:        core.Money{Cents: 3550},
		Type:          core.Expense,
		PaymentMethod: core.PaymentDebit,
		Installments:  1,
	}
	if err := repo.InsertGroup(ctx, core.ExpandInstallments(entry, time.Now().UTC())); err != nil {
		t.Fatalf("InsertGroup: %v", err)
	}

	all, err := repo.ListTransactions(ctx)
	if err != nil {
		t.Fatalf("ListTransactions: %v", err)
	}

	day := time.Date(2024, time.January, 15, 0, 0, 0, 0, time.Local)
	rep, err := core.BuildReport(all, core.Filter{Start: day, End: day})
	if err != nil {
		t.Fatalf("BuildReport: %v", err)
	}
	if rep.Matched != 1 {
		t.Fatalf("matched = %d, want 1", rep.Matched)
	}
	if rep.Rows[0].Date != "15/01/2024" {
		t.Errorf("statement date = %s, want 15/01/2024", rep.Rows[0].Date)
	}
}
