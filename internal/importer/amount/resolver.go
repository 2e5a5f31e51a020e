package amount

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/bankimport/internal/importer/table"
	"github.com/MrJamesThe3rd/bankimport/internal/profile"
)

// Resolver derives the signed amount of one row from its tokens.
// Positive amounts are inflows, negative ones outflows.
type Resolver interface {
	Resolve(tokens []string) (decimal.Decimal, error)
}

// Plain reads a single signed column.
type Plain struct {
	Column table.Column
	Parser Parser
}

func (r Plain) Resolve(tokens []string) (decimal.Decimal, error) {
	return r.Parser.Parse(r.Column.Cell(tokens))
}

// Split reads separate debit and credit columns, either of which may be blank.
// A positive debit is an inflow and a positive credit an outflow.
type Split struct {
	Debit  table.Column
	Credit table.Column
	Parser Parser
}

func (r Split) Resolve(tokens []string) (decimal.Decimal, error) {
	debitToken, creditToken := r.Debit.Cell(tokens), r.Credit.Cell(tokens)
	hasDebit, hasCredit := !r.Parser.Blank(debitToken), !r.Parser.Blank(creditToken)

	if !hasDebit && !hasCredit {
		return decimal.Zero, ErrNoAmount
	}

	var debit, credit decimal.Decimal

	if hasDebit {
		d, err := r.Parser.Parse(debitToken)
		if err != nil {
			return decimal.Zero, fmt.Errorf("debit: %w", err)
		}

		debit = d
	}

	if hasCredit {
		c, err := r.Parser.Parse(creditToken)
		if err != nil {
			return decimal.Zero, fmt.Errorf("credit: %w", err)
		}

		credit = c
	}

	switch {
	case hasDebit && debit.IsPositive():
		return debit, nil
	case hasCredit:
		if credit.IsPositive() {
			return credit.Neg(), nil
		}

		return credit, nil
	default:
		return debit, nil
	}
}

// SignedFlag reads an unsigned amount and negates it when the flag column
// holds the configured credit value.
type SignedFlag struct {
	Amount table.Column
	Flag   table.Column
	Value  string
	Parser Parser
}

func (r SignedFlag) Resolve(tokens []string) (decimal.Decimal, error) {
	d, err := r.Parser.Parse(r.Amount.Cell(tokens))
	if err != nil {
		return decimal.Zero, err
	}

	if r.Flag.Cell(tokens) == strings.TrimSpace(r.Value) {
		return d.Neg(), nil
	}

	return d, nil
}

// NewResolver binds the profile's amount columns against the header and
// returns the strategy for its amount mode.
func NewResolver(p *profile.Profile, columns []string) (Resolver, error) {
	format, err := ParseFormat(p.NumberFormat)
	if err != nil {
		return nil, err
	}

	parser, err := NewParser(format, p.AmountCleanupPattern)
	if err != nil {
		return nil, err
	}

	amountCol, err := table.Bind(columns, p.AmountColumn)
	if err != nil {
		return nil, fmt.Errorf("binding amount column: %w", err)
	}

	switch p.Mode() {
	case profile.AmountPlain:
		return Plain{Column: amountCol, Parser: parser}, nil
	case profile.AmountSplit:
		credit, err := table.Bind(columns, p.CreditColumn)
		if err != nil {
			return nil, fmt.Errorf("binding credit column: %w", err)
		}

		return Split{Debit: amountCol, Credit: credit, Parser: parser}, nil
	case profile.AmountSignedFlag:
		flag, err := table.Bind(columns, p.CreditFlagColumn)
		if err != nil {
			return nil, fmt.Errorf("binding credit flag column: %w", err)
		}

		return SignedFlag{Amount: amountCol, Flag: flag, Value: p.CreditFlagValue, Parser: parser}, nil
	default:
		return nil, fmt.Errorf("%w: unknown amount mode %q", profile.ErrInvalidProfile, p.AmountMode)
	}
}
