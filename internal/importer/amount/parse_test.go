package amount_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/bankimport/internal/importer/amount"
)

func TestParseFormat(t *testing.T) {
	type testCase struct {
		name    string
		id      string
		decimal rune
		group   rune
		wantErr error
	}

	tests := []testCase{
		{name: "portugal", id: "pt-PT", decimal: ',', group: '\u00a0'},
		{name: "brazil overrides portuguese", id: "pt-BR", decimal: ',', group: '.'},
		{name: "united states", id: "en-US", decimal: '.', group: ','},
		{name: "germany", id: "de-DE", decimal: ',', group: '.'},
		{name: "switzerland", id: "de-CH", decimal: '.', group: '\''},
		{name: "bare language", id: "es", decimal: ',', group: '.'},
		{name: "france", id: "fr-FR", decimal: ',', group: '\u202f'},
		{name: "malformed", id: "not a locale!", wantErr: amount.ErrUnsupportedLocale},
		{name: "empty", id: "", wantErr: amount.ErrUnsupportedLocale},
		{name: "unknown notation", id: "sw-KE", wantErr: amount.ErrUnsupportedLocale},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			f, err := amount.ParseFormat(tc.id)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.decimal, f.Decimal)
			assert.Equal(t, tc.group, f.Group)
		})
	}
}

func newParser(t *testing.T, locale, cleanup string) amount.Parser {
	t.Helper()

	f, err := amount.ParseFormat(locale)
	require.NoError(t, err)

	p, err := amount.NewParser(f, cleanup)
	require.NoError(t, err)

	return p
}

func TestParser_Parse(t *testing.T) {
	type args struct {
		locale  string
		cleanup string
		token   string
	}

	type testCase struct {
		name    string
		args    args
		want    string
		wantErr error
	}

	tests := []testCase{
		{name: "pt plain", args: args{locale: "pt-PT", token: "6,34"}, want: "6.34"},
		{name: "pt negative", args: args{locale: "pt-PT", token: "-588,74"}, want: "-588.74"},
		{name: "pt grouped with point", args: args{locale: "pt-PT", token: "8.608,52"}, want: "8608.52"},
		{name: "pt grouped with nbsp", args: args{locale: "pt-PT", token: "1\u00a0234,50"}, want: "1234.50"},
		{name: "pt zero", args: args{locale: "pt-PT", token: "0,00"}, want: "0.00"},
		{name: "pt with euro sign", args: args{locale: "pt-PT", token: "12,00 €"}, want: "12.00"},
		{name: "en grouped", args: args{locale: "en-US", token: "1,234,567.89"}, want: "1234567.89"},
		{name: "en currency prefix", args: args{locale: "en-US", token: "$1,000.00"}, want: "1000.00"},
		{name: "en parentheses", args: args{locale: "en-US", token: "(45.10)"}, want: "-45.10"},
		{name: "trailing minus", args: args{locale: "de-DE", token: "43,00-"}, want: "-43.00"},
		{name: "leading plus", args: args{locale: "en-US", token: "+5"}, want: "5.00"},
		{name: "unicode minus", args: args{locale: "en-US", token: "\u22127.25"}, want: "-7.25"},
		{name: "bare fraction", args: args{locale: "en-US", token: ".5"}, want: "0.50"},
		{name: "swiss apostrophe", args: args{locale: "de-CH", token: "1'234.05"}, want: "1234.05"},
		{name: "cleanup suffix", args: args{locale: "en-US", cleanup: `\s*EUR$`, token: "12.34 EUR"}, want: "12.34"},
		{name: "cleanup literal", args: args{locale: "en-US", cleanup: " EUR", token: "12.34 EUR"}, want: "12.34"},
		{name: "comma decimal under en", args: args{locale: "en-US", token: "6,34"}, wantErr: amount.ErrInvalidAmount},
		{name: "point decimal under pt", args: args{locale: "pt-PT", token: "12.34"}, wantErr: amount.ErrInvalidAmount},
		{name: "two decimal separators", args: args{locale: "pt-PT", token: "1,2,3"}, wantErr: amount.ErrInvalidAmount},
		{name: "doubled group", args: args{locale: "en-US", token: "1,,000"}, wantErr: amount.ErrInvalidAmount},
		{name: "letters", args: args{locale: "en-US", token: "abc"}, wantErr: amount.ErrInvalidAmount},
		{name: "sign only", args: args{locale: "en-US", token: "-"}, wantErr: amount.ErrInvalidAmount},
		{name: "trailing zeros beyond scale", args: args{locale: "en-US", token: "12.3400"}, want: "12.34"},
		{name: "beyond scale", args: args{locale: "en-US", token: "12.345"}, wantErr: amount.ErrInvalidAmount},
		{name: "beyond scale pt", args: args{locale: "pt-PT", token: "1,23456"}, wantErr: amount.ErrInvalidAmount},
		{name: "minus inside parentheses", args: args{locale: "en-US", token: "(-5.00)"}, wantErr: amount.ErrInvalidAmount},
		{name: "trailing minus inside parentheses", args: args{locale: "de-DE", token: "(5,00-)"}, wantErr: amount.ErrInvalidAmount},
		{name: "blank", args: args{locale: "en-US", token: "   "}, wantErr: amount.ErrNoAmount},
		{name: "cleaned to blank", args: args{locale: "en-US", cleanup: "EUR", token: " EUR "}, wantErr: amount.ErrNoAmount},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := newParser(t, tc.args.locale, tc.args.cleanup)

			got, err := p.Parse(tc.args.token)
			if tc.wantErr != nil {
				assert.ErrorIs(t, err, tc.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tc.want, got.StringFixed(2))
		})
	}
}

func TestNewParser_InvalidCleanup(t *testing.T) {
	f, err := amount.ParseFormat("en-US")
	require.NoError(t, err)

	_, err = amount.NewParser(f, "([")
	assert.Error(t, err)
}
