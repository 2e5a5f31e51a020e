// Package duplicate flags import candidates that already exist in the ledger.
package duplicate

import (
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/bankimport/internal/importer/amount"
	"github.com/MrJamesThe3rd/bankimport/internal/importer/mapper"
	"github.com/MrJamesThe3rd/bankimport/internal/transaction"
)

// Match is a candidate together with every ledger entry equivalent to it.
type Match struct {
	Record   mapper.Record
	Existing []*transaction.Transaction
}

// Entry is the part of a transaction that equivalence looks at.
type Entry struct {
	Date   time.Time
	Amount decimal.Decimal
	Payee  string
	Memo   string
}

func FromRecord(r mapper.Record) Entry {
	return Entry{Date: r.Date, Amount: r.Amount, Payee: r.Payee, Memo: r.Memo}
}

func FromTransaction(tx *transaction.Transaction) Entry {
	return Entry{Date: tx.Date, Amount: tx.Amount, Payee: tx.Payee, Memo: tx.Memo}
}

// Equivalent reports whether a and b describe the same movement: same day,
// equal amount, and equal payee or equal memo. Text is compared exactly
// after trimming surrounding whitespace.
func Equivalent(a, b Entry) bool {
	if dayKey(a.Date) != dayKey(b.Date) || !a.Amount.Equal(b.Amount) {
		return false
	}

	return sameText(a.Payee, b.Payee) || sameText(a.Memo, b.Memo)
}

func sameText(a, b string) bool {
	return strings.TrimSpace(a) == strings.TrimSpace(b)
}

func dayKey(t time.Time) string {
	return t.Format(time.DateOnly)
}

type key struct {
	day   string
	value string
}

func keyOf(e Entry) key {
	return key{day: dayKey(e.Date), value: e.Amount.StringFixed(amount.Scale)}
}

// Detect returns a Match for every valid candidate with at least one
// equivalent entry in existing, in candidate order. Existing entries are
// expected to belong to the candidates' account.
func Detect(candidates []mapper.Record, existing []*transaction.Transaction) []Match {
	index := make(map[key][]*transaction.Transaction, len(existing))

	for _, tx := range existing {
		k := keyOf(FromTransaction(tx))
		index[k] = append(index[k], tx)
	}

	var matches []Match

	for _, rec := range candidates {
		if !rec.Valid() {
			continue
		}

		entry := FromRecord(rec)

		var found []*transaction.Transaction

		for _, tx := range index[keyOf(entry)] {
			if Equivalent(entry, FromTransaction(tx)) {
				found = append(found, tx)
			}
		}

		if len(found) > 0 {
			matches = append(matches, Match{Record: rec, Existing: found})
		}
	}

	return matches
}
