package core

import (
	"errors"
	"fmt"
	"sort"
	"time"
)

var (
	// ErrNoRecords signals an empty transaction set: nothing has ever been
	// recorded. Distinct from ErrNoMatches so callers can render different
	// states.
	ErrNoRecords = errors.New("no transactions recorded")

	// ErrNoMatches signals that records exist but none survive the filter.
	ErrNoMatches = errors.New("no transactions match the filter")
)

type (
	// Filter restricts a report to a date range (inclusive on both ends,
	// date component only) and an optional tag set. An empty Tags slice
	// means no tag filtering.
	Filter struct {
		Start time.Time
		End   time.Time
		Tags  []string
	}

	// MonthlyPoint is one bar of the grouped monthly series: the summed
	// amount for one (year, month, type) combination.
	MonthlyPoint struct {
		Year  int
		Month time.Month
		Label string // MM/YYYY
		Type  TransactionType
		Total Money
	}

	// CategorySlice is one slice of the expense-by-category proportion view.
	CategorySlice struct {
		Category string
		Total    Money
	}

	// StatementRow is one formatted line of the detail listing.
	StatementRow struct {
		Date        string // dd/mm/yyyy
		Type        TransactionType
		Description string
		Category    string
		Amount      string // "+ R$ x.xx" or "- R$ x.xx"
	}

	Report struct {
		TotalIncome  Money
		TotalExpense Money
		Balance      Money // income - expense, may be negative
		Monthly      []MonthlyPoint
		ByCategory   []CategorySlice // expenses only
		HasExpenses  bool
		Rows         []StatementRow
		Matched      int
	}
)

// dateOrdinal collapses a time to its calendar date in its own location so
// two dates compare by day regardless of the locations they carry.
func dateOrdinal(t time.Time) int {
	y, m, d := t.Date()
	return y*10000 + int(m)*100 + d
}

// Matches reports whether a transaction passes the filter. The date check is
// inclusive on both ends and compares calendar dates, not instants; the tag
// check keeps records whose tag set intersects the filter set and excludes
// records without usable tags.
func (f Filter) Matches(t Transaction) bool {
	d := dateOrdinal(t.Date)
	if !f.Start.IsZero() && d < dateOrdinal(f.Start) {
		return false
	}
	if !f.End.IsZero() && d > dateOrdinal(f.End) {
		return false
	}
	if len(f.Tags) == 0 {
		return true
	}
	if len(t.Tags) == 0 {
		return false
	}
	want := make(map[string]struct{}, len(f.Tags))
	for _, tag := range f.Tags {
		want[tag] = struct{}{}
	}
	for _, tag := range t.Tags {
		if _, ok := want[tag]; ok {
			return true
		}
	}
	return false
}

// BuildReport aggregates the full transaction set under the filter into the
// dashboard views. It returns ErrNoRecords for an empty input set and
// ErrNoMatches when the filter excludes everything; both are distinct from a
// non-empty result with zero totals.
func BuildReport(all []Transaction, f Filter) (Report, error) {
	if len(all) == 0 {
		return Report{}, ErrNoRecords
	}

	var kept []Transaction
	for _, t := range all {
		t.Type = t.Type.Coerced()
		if f.Matches(t) {
			kept = append(kept, t)
		}
	}
	if len(kept) == 0 {
		return Report{}, ErrNoMatches
	}

	r := Report{Matched: len(kept)}

	type monthKey struct {
		year  int
		month time.Month
		typ   TransactionType
	}
	monthly := make(map[monthKey]int64)
	categories := make(map[string]int64)

	for _, t := range kept {
		switch t.Type {
		case Income:
			r.TotalIncome.Cents += t.Amount.Cents
		default:
			r.TotalExpense.Cents += t.Amount.Cents
			categories[t.Category] += t.Amount.Cents
		}
		monthly[monthKey{t.Date.Year(), t.Date.Month(), t.Type}] += t.Amount.Cents
	}
	r.Balance = Money{Cents: r.TotalIncome.Cents - r.TotalExpense.Cents}

	for k, cents := range monthly {
		r.Monthly = append(r.Monthly, MonthlyPoint{
			Year:  k.year,
			Month: k.month,
			Label: fmt.Sprintf("%02d/%04d", int(k.month), k.year),
			Type:  k.typ,
			Total: Money{Cents: cents},
		})
	}
	// Ordered by the (year, month) tuple, not the MM/YYYY label: a
	// lexicographic label sort would put 01/2025 before 12/2024.
	sort.Slice(r.Monthly, func(i, j int) bool {
		a, b := r.Monthly[i], r.Monthly[j]
		if a.Year != b.Year {
			return a.Year < b.Year
		}
		if a.Month != b.Month {
			return a.Month < b.Month
		}
		return a.Type < b.Type
	})

	for name, cents := range categories {
		r.ByCategory = append(r.ByCategory, CategorySlice{Category: name, Total: Money{Cents: cents}})
	}
	sort.Slice(r.ByCategory, func(i, j int) bool {
		a, b := r.ByCategory[i], r.ByCategory[j]
		if a.Total.Cents != b.Total.Cents {
			return a.Total.Cents > b.Total.Cents
		}
		return a.Category < b.Category
	})
	r.HasExpenses = len(r.ByCategory) > 0

	sort.Slice(kept, func(i, j int) bool {
		a, b := kept[i], kept[j]
		if !a.Date.Equal(b.Date) {
			return a.Date.After(b.Date)
		}
		return a.CreatedAt.After(b.CreatedAt)
	})
	r.Rows = make([]StatementRow, len(kept))
	for i, t := range kept {
		r.Rows[i] = StatementRow{
			Date:        t.Date.Format("02/01/2006"),
			Type:        t.Type,
			Description: t.Description,
			Category:    t.Category,
			Amount:      t.Amount.Signed(t.Type),
		}
	}

	return r, nil
}
