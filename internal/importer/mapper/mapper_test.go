package mapper_test

import (
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/bankimport/internal/importer/amount"
	"github.com/MrJamesThe3rd/bankimport/internal/importer/mapper"
	"github.com/MrJamesThe3rd/bankimport/internal/importer/table"
	"github.com/MrJamesThe3rd/bankimport/internal/profile"
)

func date(y, m, d int) time.Time {
	return time.Date(y, time.Month(m), d, 0, 0, 0, 0, time.UTC)
}

func cartaoProfile() *profile.Profile {
	return &profile.Profile{
		ID:           uuid.New(),
		Name:         "cgd cartao",
		AccountID:    uuid.New(),
		Delimiter:    ";",
		DateFormat:   "02-01-2006",
		NumberFormat: "pt-PT",
		DateColumn:   "Data",
		PayeeColumn:  "Descrição",
		AmountMode:   profile.AmountSplit,
		AmountColumn: "Débito",
		CreditColumn: "Crédito",
	}
}

func read(t *testing.T, p *profile.Profile, src string) *table.Table {
	t.Helper()

	tbl, err := table.Read(strings.NewReader(src), table.Dialect{
		Delimiter: p.DelimiterRune(),
		Qualifier: p.QualifierRune(),
		HeaderRow: p.HeaderRow,
	})
	require.NoError(t, err)

	return tbl
}

func TestMapper_MapAll(t *testing.T) {
	p := cartaoProfile()
	tbl := read(t, p, `Data;Descrição;Débito;Crédito
10-02-2026;CONTINENTE;0,00;6,34
11-02-2026;DEVOLUCAO;27,50;
31-02-2026;BAD DATE;1,00;
12-02-2026;NOTHING;;
13-02-2026;SHORT
14-02-2026;BAD AMOUNT;1x;
`)

	m, err := mapper.New(p, tbl.Columns)
	require.NoError(t, err)

	records := m.MapAll(tbl.Rows)
	require.Len(t, records, 6)

	for i, r := range records {
		assert.Equal(t, i, r.Row)
		assert.Equal(t, i+2, r.Line)
	}

	assert.True(t, records[0].Valid())
	assert.Equal(t, date(2026, 2, 10), records[0].Date)
	assert.Equal(t, "CONTINENTE", records[0].Payee)
	assert.Equal(t, "", records[0].Memo)
	assert.Equal(t, "-6.34", records[0].Amount.StringFixed(2))

	assert.True(t, records[1].Valid())
	assert.Equal(t, "27.50", records[1].Amount.StringFixed(2))

	assert.ErrorIs(t, records[2].Err, mapper.ErrInvalidDate)
	assert.ErrorIs(t, records[3].Err, amount.ErrNoAmount)
	assert.ErrorIs(t, records[4].Err, mapper.ErrColumnCount)
	assert.Equal(t, "", records[4].Memo)
	assert.ErrorIs(t, records[5].Err, amount.ErrInvalidAmount)

	valid, invalid := mapper.Count(records)
	assert.Equal(t, 2, valid)
	assert.Equal(t, 4, invalid)
}

func TestMapper_DateTruncatedToDay(t *testing.T) {
	p := cartaoProfile()
	p.DateFormat = "02-01-2006 15:04"

	tbl := read(t, p, "Data;Descrição;Débito;Crédito\n10-02-2026 23:59;X;1,00;\n")

	m, err := mapper.New(p, tbl.Columns)
	require.NoError(t, err)

	rec := m.Map(tbl.Rows[0])
	require.True(t, rec.Valid())
	assert.Equal(t, date(2026, 2, 10), rec.Date)
}

func TestMapper_PayeeMemoNeverInvalidate(t *testing.T) {
	p := cartaoProfile()
	p.MemoColumn = "Notas"

	tbl := read(t, p, "Data;Descrição;Débito;Crédito;Notas\n10-02-2026;;1,00;;\n")

	m, err := mapper.New(p, tbl.Columns)
	require.NoError(t, err)

	rec := m.Map(tbl.Rows[0])
	assert.True(t, rec.Valid())
	assert.Equal(t, "", rec.Payee)
	assert.Equal(t, "", rec.Memo)
}

func TestNew_MissingColumn(t *testing.T) {
	type testCase struct {
		name   string
		mutate func(p *profile.Profile)
	}

	tests := []testCase{
		{name: "date", mutate: func(p *profile.Profile) { p.DateColumn = "Data mov." }},
		{name: "payee", mutate: func(p *profile.Profile) { p.PayeeColumn = "Origem" }},
		{name: "memo", mutate: func(p *profile.Profile) { p.MemoColumn = "Notas" }},
		{name: "amount", mutate: func(p *profile.Profile) { p.AmountColumn = "Montante" }},
		{name: "credit", mutate: func(p *profile.Profile) { p.CreditColumn = "Estorno" }},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			p := cartaoProfile()
			tc.mutate(p)

			_, err := mapper.New(p, []string{"Data", "Descrição", "Débito", "Crédito"})
			assert.ErrorIs(t, err, table.ErrColumnNotFound)
		})
	}
}
