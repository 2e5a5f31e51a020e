package transaction

import (
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Type represents the direction of a transaction.
type Type string

const (
	TypeIncome  Type = "income"
	TypeExpense Type = "expense"
)

var (
	ErrNotFound     = errors.New("transaction not found")
	ErrMixedAccount = errors.New("transactions belong to different accounts")
)

// Transaction is a ledger entry. Amount is signed: positive amounts are
// inflows, negative ones outflows.
type Transaction struct {
	ID        uuid.UUID
	AccountID uuid.UUID
	Date      time.Time
	Payee     string
	Memo      string
	Amount    decimal.Decimal
	CreatedAt time.Time
}

// Type derives the direction from the sign of the amount.
func (t *Transaction) Type() Type {
	if t.Amount.IsNegative() {
		return TypeExpense
	}

	return TypeIncome
}

// DateRange returns the earliest and latest date among txs.
func DateRange(txs []*Transaction) (time.Time, time.Time) {
	if len(txs) == 0 {
		return time.Time{}, time.Time{}
	}

	minDate := txs[0].Date
	maxDate := txs[0].Date

	for _, tx := range txs[1:] {
		if tx.Date.Before(minDate) {
			minDate = tx.Date
		}

		if tx.Date.After(maxDate) {
			maxDate = tx.Date
		}
	}

	return minDate, maxDate
}
