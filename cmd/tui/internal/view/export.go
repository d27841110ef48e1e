package view

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/MrJamesThe3rd/herdbook/internal/export"
	"github.com/MrJamesThe3rd/herdbook/internal/finance"
	"github.com/MrJamesThe3rd/herdbook/internal/production"
)

const (
	exportTimeout = 2 * time.Minute

	exportTransactions = "transactions"
	exportProduction   = "production"
)

type exportState int

const (
	exportStateTimeframe exportState = iota
	exportStateOptions
	exportStateExporting
	exportStateResult
)

// ExportModel writes transactions or production records for a period to a
// CSV file.
type ExportModel struct {
	CommonModel
	exportService *export.Service

	state  exportState
	picker TimeframePicker

	period  TimeframeSelectedMsg
	form    *huh.Form
	spinner spinner.Model

	summary string
	err     error
}

func NewExportModel(svc *export.Service) ExportModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	return ExportModel{
		exportService: svc,
		state:         exportStateTimeframe,
		picker:        NewTimeframePicker(TimeframeThisMonth),
		spinner:       s,
	}
}

func (m ExportModel) Title() string { return "Export CSV" }

func (m ExportModel) ShortHelp() string {
	switch m.state {
	case exportStateResult:
		return "Esc: back to menu"
	case exportStateExporting:
		return "Exporting..."
	}

	return "Esc: back | Enter: confirm"
}

func (m ExportModel) Init() tea.Cmd {
	return nil
}

func (m ExportModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if sel, ok := msg.(TimeframeSelectedMsg); ok {
		m.period = sel
		m.form = buildExportForm()
		m.state = exportStateOptions

		return m, m.form.Init()
	}

	switch m.state {
	case exportStateTimeframe:
		return m.updateTimeframe(msg)
	case exportStateOptions:
		return m.updateOptions(msg)
	case exportStateExporting:
		return m.updateExporting(msg)
	case exportStateResult:
		if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
			return m, Back
		}
	}

	return m, nil
}

func (m ExportModel) updateTimeframe(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.picker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func (m ExportModel) updateOptions(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = exportStateTimeframe
		m.picker.Reset()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.state = exportStateExporting
	m.err = nil

	return m, tea.Batch(m.spinner.Tick, m.runExportCmd(m.form.GetString("kind"), m.form.GetString("dir")))
}

func (m ExportModel) updateExporting(msg tea.Msg) (tea.Model, tea.Cmd) {
	if result, ok := msg.(exportResultMsg); ok {
		m.state = exportStateResult
		m.err = result.err
		m.summary = result.summary

		return m, nil
	}

	var cmd tea.Cmd
	m.spinner, cmd = m.spinner.Update(msg)

	return m, cmd
}

func buildExportForm() *huh.Form {
	dir := "./exports"

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("kind").
				Title("Records").
				Options(
					huh.NewOption("Financial transactions", exportTransactions),
					huh.NewOption("Production records", exportProduction),
				),

			huh.NewInput().
				Key("dir").
				Title("Output directory").
				Description("Created if it doesn't exist").
				Value(&dir),
		),
	).WithWidth(50).WithShowHelp(false)
}

func (m ExportModel) View() string {
	switch m.state {
	case exportStateTimeframe:
		return lipgloss.NewStyle().Padding(1).Render(m.picker.View())
	case exportStateOptions:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	case exportStateExporting:
		return lipgloss.NewStyle().Padding(1).Render(m.spinner.View() + " Writing CSV...")
	case exportStateResult:
		if m.err != nil {
			return lipgloss.NewStyle().Padding(1).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
		}

		return lipgloss.NewStyle().Padding(1).Render(
			lipgloss.JoinVertical(lipgloss.Left,
				successStyle.Bold(true).Render("Export Complete!"),
				"",
				m.summary,
			),
		)
	}

	return ""
}

type exportResultMsg struct {
	summary string
	err     error
}

func (m ExportModel) runExportCmd(kind, dir string) tea.Cmd {
	from, to := m.period.From, m.period.To

	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), exportTimeout)
		defer cancel()

		if err := os.MkdirAll(dir, 0o755); err != nil {
			return exportResultMsg{err: fmt.Errorf("creating %s: %w", dir, err)}
		}

		path := filepath.Join(dir, export.Filename(kind, time.Now()))

		f, err := os.Create(path)
		if err != nil {
			return exportResultMsg{err: err}
		}
		defer f.Close()

		n, err := m.write(ctx, kind, from, to, f)
		if err != nil {
			return exportResultMsg{err: err}
		}

		return exportResultMsg{summary: fmt.Sprintf("Wrote %d %s to %s", n, kind, path)}
	}
}

func (m ExportModel) write(ctx context.Context, kind string, from, to *time.Time, f *os.File) (int, error) {
	if kind == exportProduction {
		return m.exportService.Production(ctx, production.ListFilter{StartDate: from, EndDate: to}, f)
	}

	return m.exportService.Transactions(ctx, finance.ListFilter{StartDate: from, EndDate: to}, f)
}
