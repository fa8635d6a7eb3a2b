package core

import (
	"fmt"
	"testing"
	"time"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestAddMonthsClamped(t *testing.T) {
	cases := []struct {
		in   time.Time
		n    int
		want time.Time
	}{
		{date(2024, 1, 15), 1, date(2024, 2, 15)},
		{date(2024, 1, 31), 1, date(2024, 2, 29)}, // leap year clamp
		{date(2025, 1, 31), 1, date(2025, 2, 28)},
		{date(2024, 3, 31), 1, date(2024, 4, 30)},
		{date(2024, 11, 30), 2, date(2025, 1, 30)}, // year rollover
		{date(2024, 12, 31), 2, date(2025, 2, 28)},
		{date(2024, 5, 10), 0, date(2024, 5, 10)},
	}
	for _, tc := range cases {
		if got := AddMonthsClamped(tc.in, tc.n); !got.Equal(tc.want) {
			t.Fatalf("AddMonthsClamped(%v, %d) = %v, want %v", tc.in, tc.n, got, tc.want)
		}
	}
}

func TestSplitAmount(t *testing.T) {
	cases := []struct {
		total int64
		count int
		want  int64
	}{
		{30000, 3, 10000},
		{30000, 1, 30000},
		{10000, 3, 3333}, // 100.00 / 3 = 33.33
		{10000, 2, 5000},
		{101, 2, 51}, // 1.01 / 2 = 0.505, half up
	}
	for _, tc := range cases {
		got := SplitAmount(Money{Cents: tc.total}, tc.count)
		if got.Cents != tc.want {
			t.Fatalf("SplitAmount(%d, %d) = %d, want %d", tc.total, tc.count, got.Cents, tc.want)
		}
	}
}

func TestExpandInstallmentsSingle(t *testing.T) {
	now := time.Now()
	e := Entry{
		Date:          time.Date(2024, 1, 15, 13, 30, 0, 0, time.UTC),
		Description:   "Mercado",
		Category:      "Alimentação",
		Amount:        Money{Cents: 4599},
		Type:          Expense,
		PaymentMethod: PaymentDebit,
		Installments:  1,
	}
	recs := ExpandInstallments(e, now)
	if len(recs) != 1 {
		t.Fatalf("expected 1 record, got %d", len(recs))
	}
	r := recs[0]
	if r.Description != "Mercado" {
		t.Fatalf("count=1 must not suffix description, got %q", r.Description)
	}
	if r.InstallmentIndex != 1 || r.InstallmentCount != 1 {
		t.Fatalf("expected 1/1, got %d/%d", r.InstallmentIndex, r.InstallmentCount)
	}
	if r.Amount.Cents != 4599 {
		t.Fatalf("amount = %d, want 4599", r.Amount.Cents)
	}
	if !r.Date.Equal(date(2024, 1, 15)) {
		t.Fatalf("date must be fixed to midnight, got %v", r.Date)
	}
	if r.GroupID == "" {
		t.Fatalf("missing group id")
	}
}

func TestExpandInstallmentsGroup(t *testing.T) {
	now := time.Now()
	e := Entry{
		Date:          date(2024, 1, 15),
		Description:   "Notebook",
		Category:      "Lazer",
		Amount:        Money{Cents: 30000},
		Type:          Expense,
		PaymentMethod: PaymentCredit,
		Installments:  3,
	}
	recs := ExpandInstallments(e, now)
	if len(recs) != 3 {
		t.Fatalf("expected 3 records, got %d", len(recs))
	}

	var sum int64
	for i, r := range recs {
		if r.GroupID != recs[0].GroupID {
			t.Fatalf("record %d has a different group id", i)
		}
		if r.InstallmentCount != 3 {
			t.Fatalf("record %d count = %d, want 3", i, r.InstallmentCount)
		}
		if r.InstallmentIndex != i+1 {
			t.Fatalf("record %d index = %d, want %d", i, r.InstallmentIndex, i+1)
		}
		want := fmt.Sprintf("Notebook (%d/3)", i+1)
		if r.Description != want {
			t.Fatalf("record %d description = %q, want %q", i, r.Description, want)
		}
		if r.Amount.Cents != 10000 {
			t.Fatalf("record %d amount = %d, want 10000", i, r.Amount.Cents)
		}
		wantDate := date(2024, time.Month(1+i), 15)
		if !r.Date.Equal(wantDate) {
			t.Fatalf("record %d date = %v, want %v", i, r.Date, wantDate)
		}
		sum += r.Amount.Cents
	}
	// rounding tolerance: at most one cent per installment
	if diff := sum - 30000; diff < -3 || diff > 3 {
		t.Fatalf("group sum %d drifted more than a cent per installment from 30000", sum)
	}
}

func TestExpandInstallmentsEndOfMonth(t *testing.T) {
	e := Entry{
		Date:          date(2024, 3, 31),
		Description:   "Assinatura",
		Category:      "Contas Fixas",
		Amount:        Money{Cents: 10000},
		Type:          Expense,
		PaymentMethod: PaymentCredit,
		Installments:  2,
	}
	recs := ExpandInstallments(e, time.Now())
	if len(recs) != 2 {
		t.Fatalf("expected 2 records, got %d", len(recs))
	}
	if !recs[0].Date.Equal(date(2024, 3, 31)) {
		t.Fatalf("first installment date = %v", recs[0].Date)
	}
	// day-31 source clamps to the last valid day of April
	if !recs[1].Date.Equal(date(2024, 4, 30)) {
		t.Fatalf("second installment date = %v, want 2024-04-30", recs[1].Date)
	}
}

func TestExpandInstallmentsFreshGroupIDs(t *testing.T) {
	e := Entry{
		Date:         date(2024, 1, 1),
		Description:  "x",
		Amount:       Money{Cents: 100},
		Type:         Expense,
		Installments: 1,
	}
	a := ExpandInstallments(e, time.Now())
	b := ExpandInstallments(e, time.Now())
	if a[0].GroupID == b[0].GroupID {
		t.Fatalf("two submissions must not share a group id")
	}
}
