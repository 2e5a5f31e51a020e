// Package mapper turns tokenised rows into typed ledger candidates.
package mapper

import (
	"errors"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/bankimport/internal/importer/amount"
	"github.com/MrJamesThe3rd/bankimport/internal/importer/table"
	"github.com/MrJamesThe3rd/bankimport/internal/profile"
)

var (
	ErrColumnCount = errors.New("column count mismatch")
	ErrInvalidDate = errors.New("invalid date")
)

// Record is the typed view of one data row. Err is nil for valid records
// and holds the reason otherwise.
type Record struct {
	Row    int
	Line   int
	Date   time.Time
	Payee  string
	Memo   string
	Amount decimal.Decimal
	Err    error
}

// Valid reports whether the record can be committed.
func (r Record) Valid() bool {
	return r.Err == nil
}

// Mapper maps rows of a single file. Columns are bound once in New.
type Mapper struct {
	width      int
	dateLayout string
	date       table.Column
	payee      table.Column
	memo       table.Column
	amount     amount.Resolver
}

// New binds the profile against the header columns. A configured column
// missing from the header is fatal for the whole file.
func New(p *profile.Profile, columns []string) (*Mapper, error) {
	date, err := table.Bind(columns, p.DateColumn)
	if err != nil {
		return nil, fmt.Errorf("binding date column: %w", err)
	}

	payee, err := table.BindOptional(columns, p.PayeeColumn)
	if err != nil {
		return nil, fmt.Errorf("binding payee column: %w", err)
	}

	memo, err := table.BindOptional(columns, p.MemoColumn)
	if err != nil {
		return nil, fmt.Errorf("binding memo column: %w", err)
	}

	resolver, err := amount.NewResolver(p, columns)
	if err != nil {
		return nil, err
	}

	return &Mapper{
		width:      len(columns),
		dateLayout: p.DateFormat,
		date:       date,
		payee:      payee,
		memo:       memo,
		amount:     resolver,
	}, nil
}

// Map converts one row. It never fails; problems are recorded on the Record.
func (m *Mapper) Map(row table.Row) Record {
	rec := Record{
		Row:   row.Index,
		Line:  row.Line,
		Payee: m.payee.Cell(row.Tokens),
		Memo:  m.memo.Cell(row.Tokens),
	}

	if len(row.Tokens) != m.width {
		rec.Err = fmt.Errorf("%w: expected %d, got %d", ErrColumnCount, m.width, len(row.Tokens))
		return rec
	}

	token := m.date.Cell(row.Tokens)

	date, err := time.Parse(m.dateLayout, token)
	if err != nil {
		rec.Err = fmt.Errorf("%w %q", ErrInvalidDate, token)
		return rec
	}

	rec.Date = time.Date(date.Year(), date.Month(), date.Day(), 0, 0, 0, 0, time.UTC)

	amt, err := m.amount.Resolve(row.Tokens)
	if err != nil {
		rec.Err = err
		return rec
	}

	rec.Amount = amt

	return rec
}

// MapAll maps rows in order, one record per row.
func (m *Mapper) MapAll(rows []table.Row) []Record {
	records := make([]Record, 0, len(rows))

	for _, row := range rows {
		records = append(records, m.Map(row))
	}

	return records
}

// Count returns the number of valid and invalid records.
func Count(records []Record) (valid, invalid int) {
	for _, r := range records {
		if r.Valid() {
			valid++
		} else {
			invalid++
		}
	}

	return valid, invalid
}
