package view

import (
	"fmt"
	"math"
	"strings"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"golang.org/x/sync/errgroup"

	"github.com/MrJamesThe3rd/herdbook/internal/analytics"
	"github.com/MrJamesThe3rd/herdbook/internal/herd"
)

const barWidth = 40

var (
	revenueBar = lipgloss.NewStyle().Foreground(lipgloss.Color("42"))
	expenseBar = lipgloss.NewStyle().Foreground(lipgloss.Color("203"))
	kpiBox     = lipgloss.NewStyle().
			Padding(0, 2).
			BorderStyle(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63"))
)

type dashboardState int

const (
	dashboardStateLoading dashboardState = iota
	dashboardStateReady
	dashboardStatePeriod
	dashboardStateSpecies
)

// DashboardModel shows the KPIs and the monthly revenue/expense series for
// the selected species and period.
type DashboardModel struct {
	CommonModel
	analyticsService *analytics.Service
	herdService      *herd.Service

	state   dashboardState
	spinner spinner.Model
	picker  TimeframePicker
	form    *huh.Form

	filter      analytics.Filter
	periodLabel string
	speciesID   string
	species     []*herd.Species

	kpis   *analytics.KPIs
	series []analytics.MonthBucket
	err    error
}

func NewDashboardModel(analyticsSvc *analytics.Service, herdSvc *herd.Service) DashboardModel {
	s := spinner.New()
	s.Spinner = spinner.Dot
	s.Style = lipgloss.NewStyle().Foreground(lipgloss.Color("205"))

	picker := NewTimeframePicker(TimeframeThisYear)
	from, to := TimeframeThisYear.Range(picker.now())

	return DashboardModel{
		analyticsService: analyticsSvc,
		herdService:      herdSvc,
		state:            dashboardStateLoading,
		spinner:          s,
		picker:           picker,
		filter:           analytics.Filter{From: from, To: to},
		periodLabel:      TimeframeThisYear.String(),
		speciesID:        "all",
	}
}

func (m DashboardModel) Title() string { return "Dashboard" }

func (m DashboardModel) ShortHelp() string {
	return "Esc: back | p: period | s: species | r: refresh"
}

func (m DashboardModel) Init() tea.Cmd {
	return tea.Batch(m.spinner.Tick, m.loadCmd(), m.loadSpeciesCmd())
}

func (m DashboardModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case dashboardLoadedMsg:
		m.state = dashboardStateReady
		m.kpis, m.series, m.err = msg.kpis, msg.series, msg.err

		return m, nil

	case speciesLoadedMsg:
		if msg.err == nil {
			m.species = msg.species
		}

		return m, nil

	case TimeframeSelectedMsg:
		m.filter.From, m.filter.To = msg.From, msg.To
		m.periodLabel = msg.Label
		m.state = dashboardStateLoading

		return m, tea.Batch(m.spinner.Tick, m.loadCmd())

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		return m, nil
	}

	switch m.state {
	case dashboardStateLoading:
		var cmd tea.Cmd
		m.spinner, cmd = m.spinner.Update(msg)

		return m, cmd
	case dashboardStatePeriod:
		return m.updatePeriod(msg)
	case dashboardStateSpecies:
		return m.updateSpecies(msg)
	}

	return m.updateReady(msg)
}

func (m DashboardModel) updateReady(msg tea.Msg) (tea.Model, tea.Cmd) {
	keyMsg, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}

	switch keyMsg.String() {
	case "esc":
		return m, Back
	case "r":
		m.state = dashboardStateLoading
		return m, tea.Batch(m.spinner.Tick, m.loadCmd())
	case "p":
		m.state = dashboardStatePeriod
		m.picker.Reset()

		return m, nil
	case "s":
		m.form = m.buildSpeciesForm()
		m.state = dashboardStateSpecies

		return m, m.form.Init()
	}

	return m, nil
}

func (m DashboardModel) updatePeriod(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.picker.IsSelecting() {
			m.state = dashboardStateReady
			return m, nil
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func (m DashboardModel) updateSpecies(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = dashboardStateReady
		m.form = nil

		return m, nil
	}

	form, cmd := m.form.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		m.form = f
	}

	if m.form.State != huh.StateCompleted {
		return m, cmd
	}

	m.speciesID = m.form.GetString("species")

	m.filter.SpeciesID = nil
	if m.speciesID != "all" {
		id := m.speciesID
		m.filter.SpeciesID = &id
	}

	m.form = nil
	m.state = dashboardStateLoading

	return m, tea.Batch(m.spinner.Tick, m.loadCmd())
}

func (m DashboardModel) buildSpeciesForm() *huh.Form {
	selected := m.speciesID

	options := []huh.Option[string]{huh.NewOption("All species", "all")}
	for _, sp := range m.species {
		options = append(options, huh.NewOption(sp.Name, sp.ID))
	}

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("species").
				Title("Species").
				Options(options...).
				Value(&selected),
		),
	).WithWidth(40).WithShowHelp(false)
}

func (m DashboardModel) View() string {
	switch m.state {
	case dashboardStateLoading:
		return lipgloss.NewStyle().Padding(2).Render(m.spinner.View() + " Loading reports...")
	case dashboardStatePeriod:
		return lipgloss.NewStyle().Padding(1).Render(m.picker.View())
	case dashboardStateSpecies:
		return lipgloss.NewStyle().Padding(1).Render(m.form.View())
	}

	if m.err != nil {
		return lipgloss.NewStyle().Padding(2).Render(errorStyle.Render(fmt.Sprintf("Error: %v", m.err)))
	}

	species := "All species"
	if m.filter.SpeciesID != nil {
		species = *m.filter.SpeciesID
	}

	header := fmt.Sprintf("Period: %s | Species: %s",
		activeStyle(m.periodLabel), activeStyle(species))

	return lipgloss.NewStyle().Padding(1).Render(
		lipgloss.JoinVertical(lipgloss.Left,
			header,
			"",
			renderKPIs(m.kpis),
			"",
			renderSeries(m.series, barWidth),
		),
	)
}

func renderKPIs(k *analytics.KPIs) string {
	if k == nil {
		return ""
	}

	cell := func(label, value string) string {
		return kpiBox.Render(faintStyle.Render(label) + "\n" + value)
	}

	money := lipgloss.JoinHorizontal(lipgloss.Top,
		cell("Revenue", fmt.Sprintf("%.2f", k.TotalRevenue)),
		cell("Expense", fmt.Sprintf("%.2f", k.TotalExpense)),
		cell("Gross margin", fmt.Sprintf("%.2f", k.GrossMargin)),
	)

	herdRow := lipgloss.JoinHorizontal(lipgloss.Top,
		cell("Active animals", fmt.Sprintf("%d", k.TotalAnimals)),
		cell("Avg litter", fmt.Sprintf("%.2f", k.AvgLitterSize)),
		cell("Eggs", fmt.Sprintf("%.0f", k.TotalEggs)),
		cell("Milk", fmt.Sprintf("%.1f", k.TotalMilk)),
	)

	return lipgloss.JoinVertical(lipgloss.Left, money, herdRow)
}

// renderSeries draws one revenue and one expense bar per month, scaled to
// the largest value in the series.
func renderSeries(series []analytics.MonthBucket, width int) string {
	if len(series) == 0 {
		return faintStyle.Render("No transactions in this period.")
	}

	peak := 0.0
	for _, b := range series {
		peak = math.Max(peak, math.Max(b.Revenue, b.Expense))
	}

	var sb strings.Builder

	for _, b := range series {
		fmt.Fprintf(&sb, "%s %s %.2f\n", b.Name,
			revenueBar.Render(strings.Repeat("█", barLength(b.Revenue, peak, width))), b.Revenue)
		fmt.Fprintf(&sb, "%7s %s %.2f\n", "",
			expenseBar.Render(strings.Repeat("▒", barLength(b.Expense, peak, width))), b.Expense)
	}

	sb.WriteString(revenueBar.Render("█") + " revenue  " + expenseBar.Render("▒") + " expense")

	return sb.String()
}

func barLength(value, peak float64, width int) int {
	if peak <= 0 || value <= 0 {
		return 0
	}

	n := int(math.Round(value / peak * float64(width)))
	if n == 0 {
		return 1
	}

	return min(n, width)
}

type dashboardLoadedMsg struct {
	kpis   *analytics.KPIs
	series []analytics.MonthBucket
	err    error
}

type speciesLoadedMsg struct {
	species []*herd.Species
	err     error
}

func (m DashboardModel) loadCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		var msg dashboardLoadedMsg

		g, gctx := errgroup.WithContext(ctx)

		g.Go(func() error {
			var err error
			msg.kpis, err = m.analyticsService.KPIs(gctx, filter)

			return err
		})

		g.Go(func() error {
			var err error
			msg.series, err = m.analyticsService.TimeSeries(gctx, filter)

			return err
		})

		msg.err = g.Wait()

		return msg
	}
}

func (m DashboardModel) loadSpeciesCmd() tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		species, err := m.herdService.ListSpecies(ctx)

		return speciesLoadedMsg{species: species, err: err}
	}
}
