package domain

import (
	"time"

	"github.com/aussiebroadwan/clubhouse/pkg/money"
)

// Due is an amount charged to a member. Dues are append-only.
type Due struct {
	ID          string
	ProfileID   string
	Amount      money.Amount
	Description string
	DueDate     time.Time
	CreatedAt   time.Time
}

// Payment is an amount received from a member. Payments are append-only.
type Payment struct {
	ID          string
	ProfileID   string
	Amount      money.Amount
	PaymentDate time.Time
	Notes       string
	RecordedBy  string // account id, empty once the recorder is deleted
	RecordedAt  time.Time
}

// Totals is a member's ledger position. Balance is dues minus payments, so a
// positive balance is owed by the member.
type Totals struct {
	TotalDues     money.Amount
	TotalPayments money.Amount
	Balance       money.Amount
}

// NewTotals is the only place a balance is derived.
func NewTotals(dues, payments money.Amount) Totals {
	return Totals{
		TotalDues:     dues,
		TotalPayments: payments,
		Balance:       dues.Sub(payments),
	}
}

// UpToDate is true when nothing is owed.
func (t Totals) UpToDate() bool { return t.Balance <= 0 }

// FinancialLabel is "Up to Date" or "Overdue".
func (t Totals) FinancialLabel() string {
	if t.UpToDate() {
		return "Up to Date"
	}
	return "Overdue"
}

// MemberTotals pairs a member with their ledger position.
type MemberTotals struct {
	Member
	Totals Totals
}
