package amount

import (
	"errors"
	"fmt"
	"regexp"
	"strings"
	"unicode"

	"github.com/shopspring/decimal"
)

// Scale is the number of decimal places the ledger stores.
const Scale = 2

var (
	ErrInvalidAmount = errors.New("invalid amount")
	ErrNoAmount      = errors.New("no amount present")
)

// Parser reads amount tokens written in one locale's notation.
type Parser struct {
	format  Format
	cleanup *regexp.Regexp
}

// NewParser returns a parser for format. cleanup, when not empty, is a
// regular expression whose matches are removed before parsing.
func NewParser(format Format, cleanup string) (Parser, error) {
	p := Parser{format: format}

	if cleanup != "" {
		re, err := regexp.Compile(cleanup)
		if err != nil {
			return Parser{}, fmt.Errorf("compiling amount cleanup pattern: %w", err)
		}

		p.cleanup = re
	}

	return p, nil
}

func (p Parser) clean(token string) string {
	if p.cleanup != nil {
		token = p.cleanup.ReplaceAllString(token, "")
	}

	return strings.TrimSpace(token)
}

// Blank reports whether token carries no amount once cleaned up.
func (p Parser) Blank(token string) bool {
	return p.clean(token) == ""
}

// Parse converts token into a signed decimal. It accepts currency symbols,
// whitespace, a leading or trailing minus, a leading plus and accounting
// parentheses. Grouping must sit on thousands boundaries, so a token written
// in another locale's notation fails instead of parsing to a different value.
// Digits beyond Scale must be zero.
func (p Parser) Parse(token string) (decimal.Decimal, error) {
	s := p.clean(token)
	if s == "" {
		return decimal.Zero, ErrNoAmount
	}

	s = strings.Map(func(r rune) rune {
		switch {
		case unicode.IsSpace(r), unicode.Is(unicode.Sc, r):
			return -1
		case r == '\u2212':
			return '-'
		}

		return r
	}, s)

	neg := false

	if strings.HasPrefix(s, "(") && strings.HasSuffix(s, ")") {
		neg = true
		s = s[1 : len(s)-1]
	}

	switch {
	case neg && (strings.HasPrefix(s, "-") || strings.HasSuffix(s, "-") || strings.HasPrefix(s, "+")):
		return decimal.Zero, fmt.Errorf("%w %q: sign inside parentheses", ErrInvalidAmount, token)
	case strings.HasPrefix(s, "-"):
		neg = !neg
		s = s[1:]
	case strings.HasSuffix(s, "-"):
		neg = !neg
		s = s[:len(s)-1]
	case strings.HasPrefix(s, "+"):
		s = s[1:]
	}

	digits, ok := p.normalize(s)
	if !ok {
		return decimal.Zero, fmt.Errorf("%w %q", ErrInvalidAmount, token)
	}

	d, err := decimal.NewFromString(digits)
	if err != nil {
		return decimal.Zero, fmt.Errorf("%w %q: %w", ErrInvalidAmount, token, err)
	}

	if !d.Equal(d.Truncate(Scale)) {
		return decimal.Zero, fmt.Errorf("%w %q: more than %d decimal places", ErrInvalidAmount, token, Scale)
	}

	if neg {
		d = d.Neg()
	}

	return d, nil
}

// normalize rewrites s into "123456.78" form, checking group placement.
func (p Parser) normalize(s string) (string, bool) {
	intPart, fracPart, hasFrac := strings.Cut(s, string(p.format.Decimal))
	if hasFrac && !allDigits(fracPart) {
		return "", false
	}

	if intPart == "" {
		if !hasFrac {
			return "", false
		}

		intPart = "0"
	}

	// Empty groups mean a separator at either end or doubled up.
	groups := strings.FieldsFunc(intPart, p.isGroup)
	if len(groups) != strings.Count(strings.Map(p.markGroup, intPart), "|")+1 {
		return "", false
	}

	for i, g := range groups {
		if !allDigits(g) {
			return "", false
		}

		if len(groups) == 1 {
			break
		}

		if (i == 0 && len(g) > 3) || (i > 0 && len(g) != 3) {
			return "", false
		}
	}

	out := strings.Join(groups, "")
	if hasFrac {
		out += "." + fracPart
	}

	return out, true
}

// isGroup accepts the locale separator and the punctuation other locales
// group with, except the decimal separator.
func (p Parser) isGroup(r rune) bool {
	if r == p.format.Decimal {
		return false
	}

	switch r {
	case p.format.Group, '.', ',', '\'', '\u2019':
		return true
	}

	return false
}

func (p Parser) markGroup(r rune) rune {
	if p.isGroup(r) {
		return '|'
	}

	return r
}

func allDigits(s string) bool {
	if s == "" {
		return false
	}

	for i := 0; i < len(s); i++ {
		if s[i] < '0' || s[i] > '9' {
			return false
		}
	}

	return true
}
