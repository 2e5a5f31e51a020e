package profile_test

import (
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/MrJamesThe3rd/bankimport/internal/profile"
)

func validProfile() profile.Profile {
	return profile.Profile{
		ID:           uuid.New(),
		Name:         "cgd conta",
		AccountID:    uuid.New(),
		HeaderRow:    0,
		Delimiter:    ";",
		DateFormat:   "02-01-2006",
		NumberFormat: "pt-PT",
		DateColumn:   "Data mov.",
		PayeeColumn:  "Descrição",
		AmountMode:   profile.AmountPlain,
		AmountColumn: "Montante",
	}
}

func TestProfile_Validate(t *testing.T) {
	type testCase struct {
		name    string
		mutate  func(p *profile.Profile)
		wantErr string
	}

	tests := []testCase{
		{
			name:   "Complete",
			mutate: func(_ *profile.Profile) {},
		},
		{
			name:    "MissingAccount",
			mutate:  func(p *profile.Profile) { p.AccountID = uuid.Nil },
			wantErr: "account is required",
		},
		{
			name:    "MissingDateColumn",
			mutate:  func(p *profile.Profile) { p.DateColumn = "" },
			wantErr: "date column is required",
		},
		{
			name:    "MissingAmountColumn",
			mutate:  func(p *profile.Profile) { p.AmountColumn = "" },
			wantErr: "amount column is required",
		},
		{
			name:    "MissingNumberFormat",
			mutate:  func(p *profile.Profile) { p.NumberFormat = "" },
			wantErr: "number format is required",
		},
		{
			name:    "NegativeHeaderRow",
			mutate:  func(p *profile.Profile) { p.HeaderRow = -1 },
			wantErr: "header row must not be negative",
		},
		{
			name:    "LongDelimiter",
			mutate:  func(p *profile.Profile) { p.Delimiter = ";;" },
			wantErr: "must be a single character",
		},
		{
			name: "QualifierEqualsDelimiter",
			mutate: func(p *profile.Profile) {
				p.Delimiter = "'"
				p.TextQualifier = "'"
			},
			wantErr: "must differ from the delimiter",
		},
		{
			name: "SplitWithoutCredit",
			mutate: func(p *profile.Profile) {
				p.AmountMode = profile.AmountSplit
			},
			wantErr: "credit column is required",
		},
		{
			name: "FlagWithoutValue",
			mutate: func(p *profile.Profile) {
				p.AmountMode = profile.AmountSignedFlag
				p.CreditFlagColumn = "Type"
			},
			wantErr: "credit flag value is required",
		},
		{
			name:    "UnknownMode",
			mutate:  func(p *profile.Profile) { p.AmountMode = "guess" },
			wantErr: "unknown amount mode",
		},
		{
			name:    "UnknownFormat",
			mutate:  func(p *profile.Profile) { p.Format = "ods" },
			wantErr: "unknown file format",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validProfile()
			tt.mutate(&p)

			err := p.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}

			assert.ErrorIs(t, err, profile.ErrInvalidProfile)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestProfile_Defaults(t *testing.T) {
	var p profile.Profile

	assert.Equal(t, ',', p.DelimiterRune())
	assert.Equal(t, rune(0), p.QualifierRune())
	assert.Equal(t, profile.FormatCSV, p.FileFormat())
	assert.Equal(t, profile.AmountPlain, p.Mode())

	p.Delimiter = `\t`
	assert.Equal(t, '\t', p.DelimiterRune())
}

func TestProfile_Columns(t *testing.T) {
	p := validProfile()
	p.AmountMode = profile.AmountSignedFlag
	p.CreditFlagColumn = "D/C"
	p.MemoColumn = "Memo"

	assert.Equal(t, []string{"Data mov.", "Montante", "D/C", "Descrição", "Memo"}, p.Columns())
}
