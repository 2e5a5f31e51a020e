package table

import (
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"
)

// ReadXLSX reads the named sheet (the first one when empty) of a workbook.
// Rows shorter than the header are padded, since trailing empty cells are
// not stored in the file.
func ReadXLSX(r io.Reader, headerRow int, sheet string) (*Table, error) {
	if headerRow < 0 {
		return nil, fmt.Errorf("%w: %d", ErrHeaderRowOutOfRange, headerRow)
	}

	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, fmt.Errorf("opening workbook: %w", err)
	}
	defer f.Close()

	if sheet == "" {
		sheet = f.GetSheetName(0)
	}

	all, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("reading sheet %q: %w", sheet, err)
	}

	var (
		t       Table
		records int
	)

	for i, cells := range all {
		if blank(cells) {
			continue
		}

		switch {
		case records < headerRow:
		case records == headerRow:
			t.Columns = headerNames(cells)
		default:
			tokens := cells
			if len(tokens) < len(t.Columns) {
				tokens = make([]string, len(t.Columns))
				copy(tokens, cells)
			}

			t.Rows = append(t.Rows, Row{Index: len(t.Rows), Line: i + 1, Tokens: tokens})
		}

		records++
	}

	if records <= headerRow {
		return nil, fmt.Errorf("%w: header row %d requested but sheet has %d rows", ErrHeaderRowOutOfRange, headerRow, records)
	}

	return &t, nil
}

func blank(cells []string) bool {
	for _, c := range cells {
		if c != "" {
			return false
		}
	}

	return true
}
