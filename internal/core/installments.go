package core

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// AddMonthsClamped advances t by n calendar months, clamping the day to the
// last valid day of the target month. Jan 31 + 1 month is Feb 29 on leap
// years and Feb 28 otherwise, never Mar 2. time.AddDate would normalize the
// overflow instead, which is the wrong policy for billing dates.
func AddMonthsClamped(t time.Time, n int) time.Time {
	year, month, day := t.Date()
	first := time.Date(year, month, 1, 0, 0, 0, 0, t.Location()).AddDate(0, n, 0)
	if last := daysIn(first.Year(), first.Month()); day > last {
		day = last
	}
	return time.Date(first.Year(), first.Month(), day,
		t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), t.Location())
}

func daysIn(year int, month time.Month) int {
	return time.Date(year, month, 1, 0, 0, 0, 0, time.UTC).AddDate(0, 1, -1).Day()
}

// SplitAmount divides a total into the per-installment share, rounded half-up
// to the nearest cent. Every installment carries the same share; the summed
// group may deviate from the total by at most one cent per installment.
func SplitAmount(total Money, count int) Money {
	if count <= 1 {
		return total
	}
	c := int64(count)
	return Money{Cents: (total.Cents*2 + c) / (c * 2)}
}

// ExpandInstallments turns a validated entry into its installment group: one
// record per installment, sharing a fresh group ID, dated i months after the
// entry date and suffixed " (i/n)" when the group has more than one record.
// The entry date's time component is fixed to midnight.
func ExpandInstallments(e Entry, now time.Time) []Transaction {
	count := e.Installments
	if count < 1 {
		count = 1
	}
	share := SplitAmount(e.Amount, count)
	groupID := uuid.NewString()
	base := Midnight(e.Date)

	records := make([]Transaction, count)
	for i := 0; i < count; i++ {
		desc := e.Description
		if count > 1 {
			desc = fmt.Sprintf("%s (%d/%d)", e.Description, i+1, count)
		}
		records[i] = Transaction{
			Date:             AddMonthsClamped(base, i),
			Description:      desc,
			Category:         e.Category,
			Amount:           share,
			Type:             e.Type,
			PaymentMethod:    e.PaymentMethod,
			InstallmentIndex: i + 1,
			InstallmentCount: count,
			GroupID:          groupID,
			Tags:             e.Tags,
			CreatedAt:        now,
		}
	}
	return records
}
