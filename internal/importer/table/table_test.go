package table_test

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MrJamesThe3rd/bankimport/internal/importer/table"
)

func TestRead(t *testing.T) {
	type testCase struct {
		name     string
		input    string
		dialect  table.Dialect
		wantCols []string
		wantRows [][]string
		wantErr  error
	}

	tests := []testCase{
		{
			name:     "Semicolon",
			input:    "Data;Descrição;Montante\n30-01-2026;CAFE;-10,00\n09-01-2026;WISE;50,00\n",
			dialect:  table.Dialect{Delimiter: ';'},
			wantCols: []string{"Data", "Descrição", "Montante"},
			wantRows: [][]string{
				{"30-01-2026", "CAFE", "-10,00"},
				{"09-01-2026", "WISE", "50,00"},
			},
		},
		{
			name: "PreambleAndBlankLines",
			input: "Consultar saldos - 31-01-2026\n" +
				"Nome cliente;JOHN DOE\n" +
				"\n" +
				"Conta;0000 - EUR\n" +
				"\n" +
				"Data mov. ;Descrição ;Montante ;\n" +
				"30-01-2026;TSU ;-608,13;\n",
			dialect:  table.Dialect{Delimiter: ';', HeaderRow: 3},
			wantCols: []string{"Data mov.", "Descrição", "Montante", ""},
			wantRows: [][]string{{"30-01-2026", "TSU ", "-608,13", ""}},
		},
		{
			name:     "QualifiedDelimiter",
			input:    "date,payee,amount\n2026-01-02,\"ACME, Inc.\",\"1,234.56\"\n",
			dialect:  table.Dialect{Delimiter: ',', Qualifier: '"'},
			wantCols: []string{"date", "payee", "amount"},
			wantRows: [][]string{{"2026-01-02", "ACME, Inc.", "1,234.56"}},
		},
		{
			name:     "CustomQualifierAndEscapes",
			input:    "date|memo\n2026-01-02|'it''s | here'\n",
			dialect:  table.Dialect{Delimiter: '|', Qualifier: '\''},
			wantCols: []string{"date", "memo"},
			wantRows: [][]string{{"2026-01-02", "it's | here"}},
		},
		{
			name:     "QualifiedNewline",
			input:    "date;memo\r\n2026-01-02;\"line one\nline two\"\r\n2026-01-03;x\r\n",
			dialect:  table.Dialect{Delimiter: ';', Qualifier: '"'},
			wantCols: []string{"date", "memo"},
			wantRows: [][]string{
				{"2026-01-02", "line one\nline two"},
				{"2026-01-03", "x"},
			},
		},
		{
			name:     "CROnlyLineEndings",
			input:    "Date,Amount\r2026-01-01,1\r2026-01-02,2\r",
			dialect:  table.Dialect{Delimiter: ','},
			wantCols: []string{"Date", "Amount"},
			wantRows: [][]string{
				{"2026-01-01", "1"},
				{"2026-01-02", "2"},
			},
		},
		{
			name:     "BlankPreambleLinesNotCounted",
			input:    "Account 1\n\nDate,Amount\n2026-01-01,1\n",
			dialect:  table.Dialect{Delimiter: ',', HeaderRow: 1},
			wantCols: []string{"Date", "Amount"},
			wantRows: [][]string{{"2026-01-01", "1"}},
		},
		{
			name:     "QualifierDisabled",
			input:    "a;b\n\"x;y\n",
			dialect:  table.Dialect{Delimiter: ';'},
			wantCols: []string{"a", "b"},
			wantRows: [][]string{{"\"x", "y"}},
		},
		{
			name:     "MismatchedRowsKept",
			input:    "a,b,c\n1,2\n1,2,3,4\n",
			dialect:  table.Dialect{Delimiter: ','},
			wantCols: []string{"a", "b", "c"},
			wantRows: [][]string{{"1", "2"}, {"1", "2", "3", "4"}},
		},
		{
			name:     "NoTrailingNewline",
			input:    "a\tb\n1\t2",
			dialect:  table.Dialect{Delimiter: '\t'},
			wantCols: []string{"a", "b"},
			wantRows: [][]string{{"1", "2"}},
		},
		{
			name:     "HeaderOnly",
			input:    "Data mov.;Data-valor;Descrição;Montante",
			dialect:  table.Dialect{Delimiter: ';'},
			wantCols: []string{"Data mov.", "Data-valor", "Descrição", "Montante"},
		},
		{
			name:     "BOMInHeader",
			input:    "\ufeffDate,Amount\n2026-01-01,1\n",
			dialect:  table.Dialect{},
			wantCols: []string{"Date", "Amount"},
			wantRows: [][]string{{"2026-01-01", "1"}},
		},
		{
			name:    "HeaderBeyondEnd",
			input:   "one\ntwo\n",
			dialect: table.Dialect{Delimiter: ';', HeaderRow: 2},
			wantErr: table.ErrHeaderRowOutOfRange,
		},
		{
			name:    "Empty",
			input:   "",
			dialect: table.Dialect{Delimiter: ';'},
			wantErr: table.ErrHeaderRowOutOfRange,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := table.Read(strings.NewReader(tt.input), tt.dialect)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			require.NoError(t, err)
			assert.Equal(t, tt.wantCols, got.Columns)
			require.Len(t, got.Rows, len(tt.wantRows))

			for i, row := range got.Rows {
				assert.Equal(t, i, row.Index)
				assert.Equal(t, tt.wantRows[i], row.Tokens)
			}
		})
	}
}

func TestRead_LineNumbers(t *testing.T) {
	input := "h1;h2\n\n1;\"a\nb\"\n2;c\n"

	got, err := table.Read(strings.NewReader(input), table.Dialect{Delimiter: ';', Qualifier: '"'})
	require.NoError(t, err)
	require.Len(t, got.Rows, 2)

	assert.Equal(t, 3, got.Rows[0].Line)
	assert.Equal(t, 5, got.Rows[1].Line)
}

func TestRead_UnterminatedQualifier(t *testing.T) {
	_, err := table.Read(strings.NewReader("a;b\n1;\"open\n"), table.Dialect{Delimiter: ';', Qualifier: '"'})
	assert.ErrorContains(t, err, "unterminated")
}
