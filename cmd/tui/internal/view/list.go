package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/google/uuid"

	"github.com/MrJamesThe3rd/herdbook/internal/finance"
)

const noCategory = "none"

var (
	ledgerTypeLabels  = []string{"All", "Income", "Expense"}
	ledgerTypeFilters = []*finance.Type{nil, new(finance.TypeIncome), new(finance.TypeExpense)}
	ledgerPeriods     = []Timeframe{TimeframeAll, TimeframeThisMonth, TimeframeLastMonth, TimeframeThisYear}
)

type listState int

const (
	listStateBrowse listState = iota
	listStateEdit
)

// LedgerModel lists financial transactions and edits their description and
// category.
type LedgerModel struct {
	CommonModel
	financeService *finance.Service

	state      listState
	table      table.Model
	txs        []*finance.Transaction
	categories []*finance.Category
	form       *huh.Form

	typeFilterIdx int
	dateFilterIdx int

	filter  finance.ListFilter
	loading bool
	err     error
	status  string
}

func NewLedgerModel(financeSvc *finance.Service) LedgerModel {
	columns := []table.Column{
		{Title: "Date", Width: 12},
		{Title: "Type", Width: 8},
		{Title: "Category", Width: 16},
		{Title: "Amount", Width: 12},
		{Title: "Cur", Width: 4},
		{Title: "Base", Width: 12},
		{Title: "Species", Width: 10},
		{Title: "Description", Width: 36},
	}

	t := table.New(
		table.WithColumns(columns),
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

	return LedgerModel{
		financeService: financeSvc,
		table:          t,
		loading:        true,
	}
}

func (m LedgerModel) Title() string { return "Ledger" }

func (m LedgerModel) ShortHelp() string {
	if m.state == listStateEdit {
		return "Navigate form | Esc: cancel"
	}

	return "Esc: back | e: edit | x: delete | t: type filter | d: date filter | r: refresh"
}

func (m LedgerModel) Init() tea.Cmd {
	return tea.Batch(m.loadTxsCmd(), m.loadCategoriesCmd())
}

func (m LedgerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case loadListMsg:
		m.loading = false
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}

		m.err = nil
		m.txs = msg.txs
		m.refreshTable()

		return m, nil

	case loadCategoriesMsg:
		if msg.err != nil {
			m.status = fmt.Sprintf("Error loading categories: %v", msg.err)
			return m, nil
		}

		m.categories = msg.categories

		return m, nil

	case listSaveMsg:
		m.status = msg.status
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
		}

		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		return m, m.loadTxsCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.table.SetHeight(msg.Height - 10)

		return m, nil
	}

	if m.state == listStateEdit {
		return m.updateEdit(msg)
	}

	return m.updateBrowse(msg)
}

func (m LedgerModel) updateBrowse(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		switch keyMsg.String() {
		case "esc":
			return m, Back
		case "r":
			m.loading = true
			return m, m.loadTxsCmd()
		case "e":
			return m.enterEditMode()
		case "x":
			return m, m.deleteCmd()
		case "t":
			m.typeFilterIdx = (m.typeFilterIdx + 1) % len(ledgerTypeFilters)
			m.applyFilter(time.Now())

			return m, m.loadTxsCmd()
		case "d":
			m.dateFilterIdx = (m.dateFilterIdx + 1) % len(ledgerPeriods)
			m.applyFilter(time.Now())

			return m, m.loadTxsCmd()
		}
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)

	return m, cmd
}

func (m LedgerModel) selectedTx() *finance.Transaction {
	idx := m.table.Cursor()
	if idx < 0 || idx >= len(m.txs) {
		return nil
	}

	return m.txs[idx]
}

func (m LedgerModel) enterEditMode() (tea.Model, tea.Cmd) {
	tx := m.selectedTx()
	if tx == nil {
		return m, nil
	}

	desc := tx.Description
	category := noCategory
	if tx.CategoryID != nil {
		category = tx.CategoryID.String()
	}

	options := []huh.Option[string]{huh.NewOption("(uncategorised)", noCategory)}
	for _, c := range m.categories {
		if c.Type == tx.Type {
			options = append(options, huh.NewOption(c.Name, c.ID.String()))
		}
	}

	m.form = huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Key("description").
				Title("Description").
				Value(&desc).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("description cannot be empty")
					}

					return nil
				}),

			huh.NewSelect[string]().
				Key("category").
				Title("Category").
				Options(options...).
				Value(&category),
		),
	).WithWidth(45).WithShowHelp(false)

	m.state = listStateEdit
	m.table.Blur()

	return m, m.form.Init()
}

func (m LedgerModel) updateEdit(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = listStateBrowse
		m.form = nil
		m.table.Focus()

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	return m, m.saveCmd(m.form.GetString("description"), m.form.GetString("category"))
}

func (m LedgerModel) View() string {
	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading transactions...")
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	header := fmt.Sprintf(
		"Filter: [t] Type: %s | [d] Date: %s | Base currency: %s",
		activeStyle(ledgerTypeLabels[m.typeFilterIdx]),
		activeStyle(ledgerPeriods[m.dateFilterIdx].String()),
		m.financeService.BaseCurrency(),
	)

	tableView := lipgloss.NewStyle().
		BorderStyle(lipgloss.NormalBorder()).
		BorderForeground(lipgloss.Color("240")).
		Render(m.table.View())

	content := lipgloss.JoinVertical(lipgloss.Left,
		lipgloss.NewStyle().PaddingBottom(1).Render(header),
		tableView,
	)

	if m.state == listStateEdit && m.form != nil {
		raw := ""
		if tx := m.selectedTx(); tx != nil {
			raw = tx.RawDescription
		}

		panel := lipgloss.NewStyle().
			Padding(1, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Width(48).
			Render(fmt.Sprintf("Edit Transaction\n\nOriginal: %s\n\n%s", raw, m.form.View()))

		content = lipgloss.JoinHorizontal(lipgloss.Top, content, panel)
	}

	if m.status != "" {
		content = faintStyle.Render(m.status) + "\n" + content
	}

	return lipgloss.NewStyle().Padding(1).Render(content)
}

func activeStyle(s string) string {
	return lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Render(s)
}

func (m *LedgerModel) applyFilter(now time.Time) {
	m.filter.Type = ledgerTypeFilters[m.typeFilterIdx]
	m.filter.StartDate, m.filter.EndDate = ledgerPeriods[m.dateFilterIdx].Range(now)
}

func (m *LedgerModel) refreshTable() {
	rows := make([]table.Row, 0, len(m.txs))

	for _, tx := range m.txs {
		category := "-"
		if tx.Category != nil {
			category = tx.Category.Name
		}

		rows = append(rows, table.Row{
			FormatDate(tx.Date),
			string(tx.Type),
			category,
			FormatAmount(tx.Amount),
			tx.Currency,
			FormatAmount(tx.BaseAmount),
			orDash(tx.SpeciesID),
			tx.Description,
		})
	}

	m.table.SetRows(rows)
}

type loadListMsg struct {
	txs []*finance.Transaction
	err error
}

type loadCategoriesMsg struct {
	categories []*finance.Category
	err        error
}

type listSaveMsg struct {
	status string
	err    error
}

func (m LedgerModel) loadTxsCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		txs, err := m.financeService.List(ctx, filter)

		return loadListMsg{txs: txs, err: err}
	}
}

func (m LedgerModel) loadCategoriesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		categories, err := m.financeService.ListCategories(ctx)

		return loadCategoriesMsg{categories: categories, err: err}
	}
}

func (m LedgerModel) saveCmd(desc, category string) tea.Cmd {
	tx := m.selectedTx()
	if tx == nil {
		return nil
	}

	updated := *tx
	updated.Description = strings.TrimSpace(desc)
	updated.CategoryID = nil

	if category != noCategory {
		id, err := uuid.Parse(category)
		if err != nil {
			return func() tea.Msg { return listSaveMsg{err: err} }
		}

		updated.CategoryID = &id
	}

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.financeService.Update(ctx, &updated); err != nil {
			return listSaveMsg{err: err}
		}

		return listSaveMsg{status: "Saved."}
	}
}

func (m LedgerModel) deleteCmd() tea.Cmd {
	tx := m.selectedTx()
	if tx == nil {
		return nil
	}

	id := tx.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.financeService.Delete(ctx, id); err != nil {
			return listSaveMsg{err: err}
		}

		return listSaveMsg{status: "Deleted."}
	}
}
