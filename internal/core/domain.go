package core

import (
	"errors"
	"strings"
	"time"
)

const (
	Expense TransactionType = "Expense"
	Income  TransactionType = "Income"
)

// Payment methods offered by the entry form. The field itself is free text;
// only Credit carries extra meaning (it enables installments).
const (
	PaymentCredit   = "Credit"
	PaymentDebit    = "Debit"
	PaymentPix      = "Pix"
	PaymentCash     = "Cash"
	PaymentTransfer = "Transfer"
	PaymentOther    = "Other"
)

type (
	TransactionType string

	Money struct {
		Cents int64
	}

	// Transaction is one persisted record. An installment purchase produces
	// several of these, linked by GroupID; Amount is the single installment's
	// share of the entered total.
	Transaction struct {
		Date             time.Time
		Description      string
		Category         string
		Amount           Money
		Type             TransactionType
		PaymentMethod    string
		InstallmentIndex int // 1-based
		InstallmentCount int
		GroupID          string
		Tags             []string
		CreatedAt        time.Time
	}

	// Entry is a validated form submission, before installment expansion.
	// Amount holds the entered total, split across installments later.
	Entry struct {
		Date          time.Time
		Description   string
		Category      string
		Amount        Money
		Type          TransactionType
		PaymentMethod string
		Installments  int
		Tags          []string
	}
)

var (
	ErrAmountRequired      = errors.New("amount is required")
	ErrInvalidAmount       = errors.New("invalid amount")
	ErrInvalidType         = errors.New("invalid transaction type")
	ErrInvalidInstallments = errors.New("installment count must be at least 1")
	ErrZeroDate            = errors.New("date cannot be zero")
	ErrDescriptionTooLong  = errors.New("description too long (max 200 characters)")
)

func (t TransactionType) Valid() bool {
	return t == Expense || t == Income
}

// Coerced maps unknown or missing types to Expense. Records written before
// the type field existed carry no type at all; they count as expenses.
func (t TransactionType) Coerced() TransactionType {
	if !t.Valid() {
		return Expense
	}
	return t
}

func (m Money) Validate() error {
	if m.Cents <= 0 {
		return ErrInvalidAmount
	}
	return nil
}

// Midnight truncates to the calendar date, dropping the time component.
func Midnight(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func (e Entry) Validate() error {
	if e.Date.IsZero() {
		return ErrZeroDate
	}
	if e.Amount.Cents == 0 {
		return ErrAmountRequired
	}
	if err := e.Amount.Validate(); err != nil {
		return err
	}
	if !e.Type.Valid() {
		return ErrInvalidType
	}
	if e.Installments < 1 {
		return ErrInvalidInstallments
	}
	if len(strings.TrimSpace(e.Description)) > 200 {
		return ErrDescriptionTooLong
	}
	return nil
}
