package table

import (
	"errors"
	"fmt"
	"strings"
)

var ErrColumnNotFound = errors.New("column not found in header")

// Column is a header position bound once per import. The zero value is an
// unbound column.
type Column struct {
	index int
	bound bool
}

// Index returns the position and whether the column is bound.
func (c Column) Index() (int, bool) {
	return c.index, c.bound
}

// Cell returns the trimmed token for c, or "" when unbound or out of range.
func (c Column) Cell(tokens []string) string {
	if !c.bound || c.index >= len(tokens) {
		return ""
	}

	return strings.TrimSpace(tokens[c.index])
}

// Bind finds name among columns. An exact match wins over a case-insensitive one.
func Bind(columns []string, name string) (Column, error) {
	name = strings.TrimSpace(name)

	for i, c := range columns {
		if c == name {
			return Column{index: i, bound: true}, nil
		}
	}

	for i, c := range columns {
		if strings.EqualFold(c, name) {
			return Column{index: i, bound: true}, nil
		}
	}

	return Column{}, fmt.Errorf("%w: %q", ErrColumnNotFound, name)
}

// BindOptional is Bind for columns a profile may leave empty.
func BindOptional(columns []string, name string) (Column, error) {
	if strings.TrimSpace(name) == "" {
		return Column{}, nil
	}

	return Bind(columns, name)
}
