package view

import (
	"fmt"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/bankimport/internal/importer/mapper"
)

// RecordsModel lists every mapped row of the loaded file, including the ones
// that failed to map.
type RecordsModel struct {
	table   table.Model
	invalid int
}

func NewRecordsModel(records []mapper.Record) RecordsModel {
	columns := []table.Column{
		{Title: "Row", Width: 5},
		{Title: "Date", Width: 12},
		{Title: "Amount", Width: 12},
		{Title: "Payee", Width: 30},
		{Title: "Memo / Error", Width: 40},
	}

	rows := make([]table.Row, 0, len(records))
	invalid := 0

	for _, r := range records {
		if !r.Valid() {
			invalid++

			rows = append(rows, table.Row{
				fmt.Sprint(r.Row), "", "", r.Payee, "! " + r.Err.Error(),
			})

			continue
		}

		rows = append(rows, table.Row{
			fmt.Sprint(r.Row), FormatDate(r.Date), FormatAmount(r.Amount), r.Payee, r.Memo,
		})
	}

	t := table.New(
		table.WithColumns(columns),
		table.WithRows(rows),
		table.WithFocused(true),
		table.WithHeight(15),
	)

	s := table.DefaultStyles()
	s.Header = s.Header.
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		BorderBottom(true).
		Bold(false)
	s.Selected = s.Selected.
		Foreground(lipgloss.Color("229")).
		Background(lipgloss.Color("57")).
		Bold(false)
	t.SetStyles(s)

	return RecordsModel{table: t, invalid: invalid}
}

func (m RecordsModel) Update(msg tea.Msg) (RecordsModel, tea.Cmd) {
	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m RecordsModel) View() string {
	summary := fmt.Sprintf("%d rows", len(m.table.Rows()))
	if m.invalid > 0 {
		summary += ", " + errorStyle.Render(fmt.Sprintf("%d with errors", m.invalid))
	}

	return summary + "\n\n" + m.table.View() + "\n\n" + mutedStyle.Render("Esc: back to review")
}
