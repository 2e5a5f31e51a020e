// Package table turns a bank export into a header and tokenised data rows.
package table

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"strings"
)

var ErrHeaderRowOutOfRange = errors.New("header row out of range")

// Dialect describes how an export is tokenised.
type Dialect struct {
	Delimiter rune
	Qualifier rune // 0 disables quoting
	HeaderRow int  // index of the header among non-blank records
}

// Row is one data row as read from the file.
type Row struct {
	Index  int // 0-based position among data rows
	Line   int // 1-based line in the source where the row starts
	Tokens []string
}

// Table is a header plus the rows following it.
type Table struct {
	Columns []string
	Rows    []Row
}

// Read tokenises r according to d. Blank lines are skipped and do not count
// towards HeaderRow.
func Read(r io.Reader, d Dialect) (*Table, error) {
	if d.Delimiter == 0 {
		d.Delimiter = ','
	}

	if d.HeaderRow < 0 {
		return nil, fmt.Errorf("%w: %d", ErrHeaderRowOutOfRange, d.HeaderRow)
	}

	tk := &tokenizer{r: bufio.NewReader(r), d: d, line: 1}

	var (
		t       Table
		records int
	)

	for {
		line := tk.line

		fields, err := tk.next()
		if err != nil && !errors.Is(err, io.EOF) {
			return nil, fmt.Errorf("line %d: %w", line, err)
		}

		if fields != nil {
			switch {
			case records < d.HeaderRow:
			case records == d.HeaderRow:
				t.Columns = headerNames(fields)
			default:
				t.Rows = append(t.Rows, Row{Index: len(t.Rows), Line: line, Tokens: fields})
			}

			records++
		}

		if errors.Is(err, io.EOF) {
			break
		}
	}

	if records <= d.HeaderRow {
		return nil, fmt.Errorf("%w: header row %d requested but file has %d rows", ErrHeaderRowOutOfRange, d.HeaderRow, records)
	}

	return &t, nil
}

func headerNames(fields []string) []string {
	cols := make([]string, len(fields))
	for i, f := range fields {
		cols[i] = strings.TrimSpace(strings.TrimPrefix(f, "\ufeff"))
	}

	return cols
}

// tokenizer splits delimited text into records. A field that starts with the
// qualifier runs until the matching qualifier and may contain delimiters,
// newlines and doubled qualifiers.
type tokenizer struct {
	r    *bufio.Reader
	d    Dialect
	line int
}

// next returns the next record, nil for a blank line, and io.EOF once input
// is exhausted (possibly together with a final record).
func (t *tokenizer) next() ([]string, error) {
	var (
		fields    []string
		field     strings.Builder
		quoted    bool // inside a qualified section
		structure bool // a delimiter or qualifier was seen
	)

	flush := func() {
		fields = append(fields, field.String())
		field.Reset()
	}

	end := func() []string {
		if !structure && strings.TrimSpace(field.String()) == "" {
			return nil
		}

		flush()

		return fields
	}

	for {
		c, _, err := t.r.ReadRune()
		if err != nil {
			if !errors.Is(err, io.EOF) {
				return nil, err
			}

			if quoted {
				return nil, errors.New("unterminated qualified field")
			}

			return end(), io.EOF
		}

		if quoted {
			switch c {
			case t.d.Qualifier:
				peek, _, perr := t.r.ReadRune()
				if perr == nil && peek == t.d.Qualifier {
					field.WriteRune(c)
					continue
				}

				if perr == nil {
					_ = t.r.UnreadRune()
				}

				quoted = false
			case '\n':
				t.line++

				field.WriteRune(c)
			default:
				field.WriteRune(c)
			}

			continue
		}

		switch {
		case c == '\r':
			// A lone '\r' ends the record like '\n' does.
			peek, _, perr := t.r.ReadRune()
			if perr == nil && peek != '\n' {
				_ = t.r.UnreadRune()
			}

			t.line++

			return end(), nil
		case c == '\n':
			t.line++

			return end(), nil
		case c == t.d.Delimiter:
			structure = true

			flush()
		case c == t.d.Qualifier && t.d.Qualifier != 0 && strings.TrimSpace(field.String()) == "":
			structure = true
			quoted = true

			field.Reset()
		default:
			field.WriteRune(c)
		}
	}
}
