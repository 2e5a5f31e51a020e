package main

import (
	"context"
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/bankimport/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/bankimport/internal/app"
	"github.com/MrJamesThe3rd/bankimport/internal/config"
	"github.com/MrJamesThe3rd/bankimport/internal/logging"
)

type model struct {
	app *app.App

	currentView View
	importView  view.ImportModel
}

type View int

const (
	ViewMenu   View = 0
	ViewImport View = 1
)

func initialModel() (model, error) {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return model{}, err
	}

	level, err := cfg.Level()
	if err != nil {
		return model{}, err
	}

	// The terminal belongs to bubbletea, so logs go to a file when one is set.
	out := os.Stderr
	if path := os.Getenv("BANKIMPORT_LOG_FILE"); path != "" {
		f, err := tea.LogToFile(path, "bankimport")
		if err != nil {
			return model{}, err
		}

		out = f
	}

	logger := logging.New(out, level)
	ctx := logging.WithLogger(context.Background(), logger)

	a, err := app.New(ctx, cfg, logger)
	if err != nil {
		return model{}, err
	}

	return model{
		app:         a,
		currentView: ViewMenu,
	}, nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		if m.currentView == ViewMenu {
			switch msg.String() {
			case "ctrl+c", "q":
				return m, tea.Quit
			case "1":
				m.currentView = ViewImport
				m.importView = view.NewImportModel(m.app.Profiles, m.app.Coordinator(), m.app.Config.Import.Timeout)

				return m, m.importView.Init()
			}
		}

		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		return m, nil
	}

	if m.currentView == ViewImport {
		var newModel tea.Model
		newModel, cmd = m.importView.Update(msg)
		m.importView = newModel.(view.ImportModel)
	}

	return m, cmd
}

func (m model) View() string {
	switch m.currentView {
	case ViewMenu:
		return lipgloss.NewStyle().Padding(2).Render(
			"Bank Import\n\n" +
				"1. Import Bank Export\n\n" +
				"q. Quit",
		)
	case ViewImport:
		return m.importView.View()
	}

	return "Unknown View"
}

func main() {
	m, err := initialModel()
	if err != nil {
		slog.Error("failed to start", "error", err)
		os.Exit(1)
	}

	p := tea.NewProgram(m)
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		_ = m.app.Close()
		os.Exit(1)
	}

	if err := m.app.Close(); err != nil {
		slog.Error("failed to close", "error", err)
	}
}
