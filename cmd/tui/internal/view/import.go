package view

import (
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/filepicker"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/bankimport/internal/importer"
	"github.com/MrJamesThe3rd/bankimport/internal/importer/duplicate"
	"github.com/MrJamesThe3rd/bankimport/internal/profile"
)

type importState int

const (
	importStateProfileSelect importState = iota
	importStateFilePick
	importStateLoading
	importStateReview
	importStateRecords
	importStateConfirm
	importStateCommitting
	importStateResult
)

// importChoices holds form-bound values; forms keep pointers to it across
// model copies.
type importChoices struct {
	profileID string
	confirmed bool
}

type ImportModel struct {
	CommonModel
	profiles    *profile.Service
	coordinator *importer.Coordinator
	timeout     time.Duration

	state      importState
	available  []*profile.Profile
	choices    *importChoices
	form       *huh.Form
	filePicker filepicker.Model
	dupList    list.Model
	records    RecordsModel

	includeDuplicates bool

	status string
	err    error
}

func NewImportModel(profiles *profile.Service, c *importer.Coordinator, timeout time.Duration) ImportModel {
	fp := filepicker.New()
	fp.CurrentDirectory, _ = os.Getwd()
	fp.AllowedTypes = []string{".csv", ".txt", ".xlsx"}
	fp.ShowHidden = false
	fp.DirAllowed = false
	fp.FileAllowed = true
	fp.Height = 15 // equivalent to SetHeight(15) on a fresh model; SetHeight is unavailable in bubbles v0.20 (go1.21)

	return ImportModel{
		profiles:    profiles,
		coordinator: c,
		timeout:     timeout,
		choices:     &importChoices{},
		filePicker:  fp,
		status:      "Loading profiles...",
	}
}

func (m ImportModel) Title() string { return "Import Bank Export" }

func (m ImportModel) ShortHelp() string {
	switch m.state {
	case importStateReview:
		return "x: exclude duplicate | i: include duplicates | r: rows | c: commit | Esc: back"
	case importStateRecords:
		return "Esc: back to review"
	}

	return "Esc: back | Enter: select"
}

func (m ImportModel) Init() tea.Cmd {
	return m.loadProfilesCmd()
}

func (m ImportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
	case tea.KeyMsg:
		if msg.Type == tea.KeyEsc {
			return m.handleEsc()
		}

		switch m.state {
		case importStateReview:
			return m.updateReview(msg)
		case importStateRecords:
			var cmd tea.Cmd
			m.records, cmd = m.records.Update(msg)

			return m, cmd
		}

	case profilesLoadedMsg:
		if msg.err != nil {
			return m.fail(msg.err), nil
		}

		m.available = msg.profiles

		return m, m.showProfileForm()

	case validatedMsg:
		if msg.err != nil {
			return m.fail(msg.err), nil
		}

		m.state = importStateReview
		m.refreshDuplicates()

		return m, nil

	case committedMsg:
		if msg.err != nil {
			// The coordinator is back in Validated, so the review can be retried.
			m.state = importStateReview
			m.status = errorStyle.Render(fmt.Sprintf("Commit failed: %v", msg.err))

			return m, nil
		}

		m.state = importStateResult
		m.err = nil
		m.status = fmt.Sprintf("Imported %d transactions.", msg.count)

		return m, nil
	}

	switch m.state {
	case importStateProfileSelect, importStateConfirm:
		return m.updateForm(msg)
	case importStateFilePick:
		return m.updateFilePick(msg)
	}

	return m, nil
}

func (m ImportModel) fail(err error) ImportModel {
	m.state = importStateResult
	m.err = err
	m.status = fmt.Sprintf("Error: %v", err)

	return m
}

func (m ImportModel) handleEsc() (tea.Model, tea.Cmd) {
	switch m.state {
	case importStateFilePick:
		return m, m.showProfileForm()
	case importStateRecords:
		m.state = importStateReview
		return m, nil
	case importStateConfirm:
		m.state = importStateReview
		m.form = nil

		return m, nil
	case importStateLoading, importStateCommitting:
		return m, nil
	case importStateReview, importStateResult:
		if len(m.available) == 0 {
			return m, Back
		}

		m.coordinator.Reset()
		m.err = nil
		m.status = ""

		return m, m.showProfileForm()
	}

	return m, Back
}

func (m *ImportModel) showProfileForm() tea.Cmd {
	if len(m.available) == 0 {
		m.state = importStateResult
		m.err = profile.ErrNotFound
		m.status = "No import profiles configured."

		return nil
	}

	options := make([]huh.Option[string], 0, len(m.available))
	for _, p := range m.available {
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%s, %s)", p.Name, p.FileFormat(), p.Mode()), p.ID.String()))
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Import profile").
				Options(options...).
				Value(&m.choices.profileID),
		),
	).WithWidth(60).WithShowHelp(false)

	m.state = importStateProfileSelect

	return m.form.Init()
}

func (m ImportModel) updateForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateAborted:
		return m.handleEsc()
	case huh.StateCompleted:
	default:
		return m, cmd
	}

	if m.state == importStateConfirm {
		m.form = nil

		if !m.choices.confirmed {
			m.state = importStateReview
			return m, nil
		}

		m.state = importStateCommitting
		m.status = "Committing..."

		return m, m.commitCmd()
	}

	m.form = nil

	p, ok := m.selectedProfile()
	if !ok {
		return m.fail(profile.ErrNotFound), nil
	}

	if err := m.coordinator.UseProfile(p); err != nil {
		return m.fail(err), nil
	}

	m.state = importStateFilePick

	return m, m.filePicker.Init()
}

func (m ImportModel) selectedProfile() (*profile.Profile, bool) {
	for _, p := range m.available {
		if p.ID.String() == m.choices.profileID {
			return p, true
		}
	}

	return nil, false
}

func (m ImportModel) updateFilePick(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	m.filePicker, cmd = m.filePicker.Update(msg)

	if didSelect, path := m.filePicker.DidSelectFile(msg); didSelect {
		m.state = importStateLoading
		m.status = fmt.Sprintf("Reading %s...", path)

		return m, m.loadCmd(path)
	}

	return m, cmd
}

func (m ImportModel) updateReview(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "x":
		item, ok := m.dupList.SelectedItem().(duplicateItem)
		if !ok {
			return m, nil
		}

		if err := m.coordinator.ExcludeDuplicate(item.match.Record.Row); err != nil {
			m.status = errorStyle.Render(err.Error())
			return m, nil
		}

		m.status = fmt.Sprintf("Excluded row %d.", item.match.Record.Row)
		m.refreshDuplicates()

		return m, nil
	case "i":
		m.includeDuplicates = !m.includeDuplicates
		return m, nil
	case "r":
		m.records = NewRecordsModel(m.coordinator.Records())
		m.state = importStateRecords

		return m, nil
	case "c":
		m.choices.confirmed = false
		m.form = huh.NewForm(
			huh.NewGroup(
				huh.NewConfirm().
					Title(m.commitQuestion()).
					Affirmative("Commit").
					Negative("Cancel").
					Value(&m.choices.confirmed),
			),
		).WithWidth(60).WithShowHelp(false)
		m.state = importStateConfirm

		return m, m.form.Init()
	}

	var cmd tea.Cmd
	m.dupList, cmd = m.dupList.Update(msg)

	return m, cmd
}

func (m ImportModel) commitQuestion() string {
	s := m.coordinator.Stats()

	n := s.ValidRecords
	if !m.includeDuplicates {
		n -= s.PotentialDuplicates
	}

	return fmt.Sprintf("Write %d transactions to the ledger?", n)
}

func (m *ImportModel) refreshDuplicates() {
	dups := m.coordinator.Duplicates()

	items := make([]list.Item, len(dups))
	for i, d := range dups {
		items[i] = duplicateItem{match: d}
	}

	m.dupList = list.New(items, duplicateDelegate{}, 80, 14)
	m.dupList.Title = "Potential duplicates"
	m.dupList.SetShowStatusBar(false)
	m.dupList.SetFilteringEnabled(false)
	m.dupList.SetShowHelp(false)
}

func (m ImportModel) View() string {
	switch m.state {
	case importStateProfileSelect, importStateConfirm:
		if m.form == nil {
			return ""
		}

		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	case importStateFilePick:
		return lipgloss.NewStyle().Padding(1).Render(
			fmt.Sprintf("Select file to import (%s):\n\n%s", m.profileName(), m.filePicker.View()),
		)
	case importStateLoading, importStateCommitting:
		return lipgloss.NewStyle().Padding(2).Render(m.status)
	case importStateReview:
		return m.viewReview()
	case importStateRecords:
		return lipgloss.NewStyle().Padding(1).Render(m.records.View())
	case importStateResult:
		return m.viewResult()
	}

	return ""
}

func (m ImportModel) profileName() string {
	if p := m.coordinator.Profile(); p != nil {
		return p.Name
	}

	return "no profile"
}

func (m ImportModel) viewReview() string {
	s := m.coordinator.Stats()

	stats := fmt.Sprintf("Profile: %s\n\nTotal: %d   Valid: %d   Errors: %s   Duplicates: %s",
		m.profileName(),
		s.TotalRecords,
		s.ValidRecords,
		countStyle(s.RecordsWithErrors, errorStyle).Render(fmt.Sprint(s.RecordsWithErrors)),
		countStyle(s.PotentialDuplicates, warnStyle).Render(fmt.Sprint(s.PotentialDuplicates)),
	)

	include := "skip flagged duplicates"
	if m.includeDuplicates {
		include = "include flagged duplicates"
	}

	parts := []string{
		stats,
		mutedStyle.Render("Columns: " + strings.Join(m.coordinator.Columns(), ", ")),
		mutedStyle.Render("Commit will " + include + "."),
	}

	if s.PotentialDuplicates > 0 {
		parts = append(parts, m.dupList.View())
	}

	if m.status != "" {
		parts = append(parts, m.status)
	}

	parts = append(parts, mutedStyle.Render(m.ShortHelp()))

	return lipgloss.NewStyle().Padding(1).Render(strings.Join(parts, "\n\n"))
}

func countStyle(n int, style lipgloss.Style) lipgloss.Style {
	if n == 0 {
		return lipgloss.NewStyle()
	}

	return style
}

func (m ImportModel) viewResult() string {
	style := lipgloss.NewStyle().Padding(2)
	if m.err != nil {
		return style.Render(errorStyle.Render(m.status) + "\n\n(Esc to go back)")
	}

	return style.Render(successStyle.Render(m.status) + "\n\n(Esc to go back)")
}

// Messages

type profilesLoadedMsg struct {
	profiles []*profile.Profile
	err      error
}

type validatedMsg struct {
	err error
}

type committedMsg struct {
	count int
	err   error
}

func (m ImportModel) loadProfilesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := opCtx(m.timeout)
		defer cancel()

		profiles, err := m.profiles.List(ctx)

		return profilesLoadedMsg{profiles: profiles, err: err}
	}
}

func (m ImportModel) loadCmd(path string) tea.Cmd {
	c := m.coordinator

	return func() tea.Msg {
		ctx, cancel := opCtx(m.timeout)
		defer cancel()

		if err := c.LoadPath(ctx, path); err != nil {
			return validatedMsg{err: err}
		}

		return validatedMsg{err: c.Validate(ctx)}
	}
}

func (m ImportModel) commitCmd() tea.Cmd {
	c := m.coordinator
	include := m.includeDuplicates

	return func() tea.Msg {
		ctx, cancel := opCtx(m.timeout)
		defer cancel()

		n, err := c.Commit(ctx, include)

		return committedMsg{count: n, err: err}
	}
}

// Duplicate list item

type duplicateItem struct {
	match duplicate.Match
}

func (i duplicateItem) Title() string       { return i.match.Record.Payee }
func (i duplicateItem) Description() string { return "" }
func (i duplicateItem) FilterValue() string { return i.match.Record.Payee }

// Duplicate list delegate

type duplicateDelegate struct{}

func (d duplicateDelegate) Height() int                             { return 2 }
func (d duplicateDelegate) Spacing() int                            { return 0 }
func (d duplicateDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d duplicateDelegate) Render(w io.Writer, m list.Model, index int, listItem list.Item) {
	item, ok := listItem.(duplicateItem)
	if !ok {
		return
	}

	cursor := "  "
	if index == m.Index() {
		cursor = "> "
	}

	rec := item.match.Record
	existing := item.match.Existing[0]

	line1 := fmt.Sprintf("%srow %-4d %s  %10s  %s",
		cursor, rec.Row, FormatDate(rec.Date), FormatAmount(rec.Amount), rec.Payee)

	line2 := fmt.Sprintf("          ledger %s: %s  %10s  %s",
		existing.Type(), FormatDate(existing.Date), FormatAmount(existing.Amount), existing.Payee)

	if n := len(item.match.Existing); n > 1 {
		line2 += fmt.Sprintf(" (+%d more)", n-1)
	}

	fmt.Fprintf(w, "%s\n%s\n", line1, mutedStyle.Render(line2))
}
