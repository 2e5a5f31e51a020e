package profile

import (
	"errors"
	"fmt"
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// AmountMode determines how the signed amount is derived from a row.
type AmountMode string

const (
	// AmountPlain means one signed column (e.g. "Montante" with value "-10,00").
	AmountPlain AmountMode = "plain"
	// AmountSplit means separate debit and credit columns (e.g. "Débito"/"Crédito").
	AmountSplit AmountMode = "split"
	// AmountSignedFlag means an always-positive amount plus a column flagging credits.
	AmountSignedFlag AmountMode = "signed_flag"
)

// Format is the container format of the exported file.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

var (
	ErrInvalidProfile = errors.New("invalid import profile")
	ErrNotFound       = errors.New("import profile not found")
)

// Profile describes how one bank's export for one account is laid out.
// It is read-only for the duration of an import.
type Profile struct {
	ID        uuid.UUID `yaml:"id"`
	Name      string    `yaml:"name"`
	AccountID uuid.UUID `yaml:"account_id"`

	Format        Format `yaml:"format,omitempty"`
	// HeaderRow is the 0-based index of the header among non-blank records;
	// blank lines in the preamble are not counted.
	HeaderRow     int    `yaml:"header_row"`
	Delimiter     string `yaml:"delimiter"`
	TextQualifier string `yaml:"text_qualifier,omitempty"`
	Encoding      string `yaml:"encoding,omitempty"`
	Sheet         string `yaml:"sheet,omitempty"` // used when Format == FormatXLSX

	DateFormat   string `yaml:"date_format"`   // Go reference layout, e.g. "02-01-2006"
	NumberFormat string `yaml:"number_format"` // BCP 47 tag, e.g. "pt-PT"

	DateColumn  string `yaml:"date_column"`
	PayeeColumn string `yaml:"payee_column,omitempty"`
	MemoColumn  string `yaml:"memo_column,omitempty"`

	AmountMode           AmountMode `yaml:"amount_mode"`
	AmountColumn         string     `yaml:"amount_column"`
	CreditColumn         string     `yaml:"credit_column,omitempty"`      // used when AmountMode == AmountSplit
	CreditFlagColumn     string     `yaml:"credit_flag_column,omitempty"` // used when AmountMode == AmountSignedFlag
	CreditFlagValue      string     `yaml:"credit_flag_value,omitempty"`  // used when AmountMode == AmountSignedFlag
	AmountCleanupPattern string     `yaml:"amount_cleanup_pattern,omitempty"`
}

// DelimiterRune returns the field delimiter, defaulting to a comma.
func (p *Profile) DelimiterRune() rune {
	if p.Delimiter == "" {
		return ','
	}

	if p.Delimiter == `\t` {
		return '\t'
	}

	r, _ := utf8.DecodeRuneInString(p.Delimiter)

	return r
}

// QualifierRune returns the text qualifier, or 0 when quoting is disabled.
func (p *Profile) QualifierRune() rune {
	if p.TextQualifier == "" {
		return 0
	}

	r, _ := utf8.DecodeRuneInString(p.TextQualifier)

	return r
}

// FileFormat returns the container format, defaulting to CSV.
func (p *Profile) FileFormat() Format {
	if p.Format == "" {
		return FormatCSV
	}

	return p.Format
}

// Mode returns the amount mode, defaulting to AmountPlain.
func (p *Profile) Mode() AmountMode {
	if p.AmountMode == "" {
		return AmountPlain
	}

	return p.AmountMode
}

// Columns returns every configured column binding, mandatory ones first.
func (p *Profile) Columns() []string {
	cols := []string{p.DateColumn, p.AmountColumn}

	switch p.Mode() {
	case AmountSplit:
		cols = append(cols, p.CreditColumn)
	case AmountSignedFlag:
		cols = append(cols, p.CreditFlagColumn)
	}

	for _, c := range []string{p.PayeeColumn, p.MemoColumn} {
		if c != "" {
			cols = append(cols, c)
		}
	}

	return cols
}

// Validate checks that the profile is complete enough to drive an import.
func (p *Profile) Validate() error {
	var problems []string

	if p.AccountID == uuid.Nil {
		problems = append(problems, "account is required")
	}

	if p.HeaderRow < 0 {
		problems = append(problems, "header row must not be negative")
	}

	if p.DateColumn == "" {
		problems = append(problems, "date column is required")
	}

	if p.DateFormat == "" {
		problems = append(problems, "date format is required")
	}

	if p.NumberFormat == "" {
		problems = append(problems, "number format is required")
	}

	if p.AmountColumn == "" {
		problems = append(problems, "amount column is required")
	}

	if utf8.RuneCountInString(p.Delimiter) > 1 && p.Delimiter != `\t` {
		problems = append(problems, fmt.Sprintf("delimiter %q must be a single character", p.Delimiter))
	}

	if utf8.RuneCountInString(p.TextQualifier) > 1 {
		problems = append(problems, fmt.Sprintf("text qualifier %q must be a single character", p.TextQualifier))
	}

	if p.TextQualifier != "" && p.QualifierRune() == p.DelimiterRune() {
		problems = append(problems, "text qualifier must differ from the delimiter")
	}

	switch p.FileFormat() {
	case FormatCSV, FormatXLSX:
	default:
		problems = append(problems, fmt.Sprintf("unknown file format %q", p.Format))
	}

	switch p.Mode() {
	case AmountPlain:
	case AmountSplit:
		if p.CreditColumn == "" {
			problems = append(problems, "credit column is required for split amounts")
		}
	case AmountSignedFlag:
		if p.CreditFlagColumn == "" {
			problems = append(problems, "credit flag column is required for flagged amounts")
		}

		if p.CreditFlagValue == "" {
			problems = append(problems, "credit flag value is required for flagged amounts")
		}
	default:
		problems = append(problems, fmt.Sprintf("unknown amount mode %q", p.AmountMode))
	}

	if len(problems) > 0 {
		return fmt.Errorf("%w %q: %s", ErrInvalidProfile, p.Name, strings.Join(problems, "; "))
	}

	return nil
}
