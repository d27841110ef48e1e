package main

import (
	"log/slog"
	"os"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/joho/godotenv"

	"github.com/MrJamesThe3rd/herdbook/cmd/tui/internal/view"
	"github.com/MrJamesThe3rd/herdbook/internal/analytics"
	"github.com/MrJamesThe3rd/herdbook/internal/config"
	"github.com/MrJamesThe3rd/herdbook/internal/database"
	"github.com/MrJamesThe3rd/herdbook/internal/export"
	"github.com/MrJamesThe3rd/herdbook/internal/finance"
	financeStore "github.com/MrJamesThe3rd/herdbook/internal/finance/store"
	"github.com/MrJamesThe3rd/herdbook/internal/herd"
	herdStore "github.com/MrJamesThe3rd/herdbook/internal/herd/store"
	"github.com/MrJamesThe3rd/herdbook/internal/importer"
	"github.com/MrJamesThe3rd/herdbook/internal/importer/ledger"
	"github.com/MrJamesThe3rd/herdbook/internal/matching"
	matchingStore "github.com/MrJamesThe3rd/herdbook/internal/matching/store"
	"github.com/MrJamesThe3rd/herdbook/internal/production"
	productionStore "github.com/MrJamesThe3rd/herdbook/internal/production/store"
)

type View int

const (
	ViewMenu View = iota
	ViewDashboard
	ViewLedger
	ViewProduction
	ViewImport
	ViewExport
)

var menu = []struct {
	key   string
	view  View
	label string
}{
	{"1", ViewDashboard, "Dashboard (KPIs and monthly series)"},
	{"2", ViewLedger, "Ledger"},
	{"3", ViewProduction, "Production Records"},
	{"4", ViewImport, "Import Ledger CSV"},
	{"5", ViewExport, "Export CSV"},
}

type services struct {
	analytics  *analytics.Service
	herd       *herd.Service
	finance    *finance.Service
	production *production.Service
	importer   *importer.Service
	export     *export.Service
}

type model struct {
	svc     services
	appName string

	currentView View
	screen      view.View
	width       int
	height      int
}

func initialModel() model {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	db, err := database.New(cfg.ConnectionString())
	if err != nil {
		slog.Error("failed to connect to database", "error", err)
		os.Exit(1)
	}

	financeSvc := finance.NewService(financeStore.New(db), cfg.Finance.BaseCurrency)
	productionSvc := production.NewService(productionStore.New(db))
	matchingSvc := matching.NewService(matchingStore.New(db))

	return model{
		appName: cfg.App.Name,
		svc: services{
			analytics:  analytics.NewService(database.NewQuerier(db)),
			herd:       herd.NewService(herdStore.New(db)),
			finance:    financeSvc,
			production: productionSvc,
			importer:   importer.NewService(ledger.NewParser(), matchingSvc),
			export:     export.NewService(financeSvc, productionSvc),
		},
		currentView: ViewMenu,
	}
}

func (m model) newScreen(v View) view.View {
	switch v {
	case ViewDashboard:
		return view.NewDashboardModel(m.svc.analytics, m.svc.herd)
	case ViewLedger:
		return view.NewLedgerModel(m.svc.finance)
	case ViewProduction:
		return view.NewProductionModel(m.svc.production)
	case ViewImport:
		return view.NewImportModel(m.svc.finance, m.svc.importer)
	case ViewExport:
		return view.NewExportModel(m.svc.export)
	}

	return nil
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width, m.height = msg.Width, msg.Height
	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}

		if m.currentView == ViewMenu {
			return m.updateMenu(msg)
		}
	case view.BackMsg:
		m.currentView = ViewMenu
		m.screen = nil

		return m, nil
	}

	if m.screen == nil {
		return m, nil
	}

	next, cmd := m.screen.Update(msg)
	if s, ok := next.(view.View); ok {
		m.screen = s
	}

	return m, cmd
}

func (m model) updateMenu(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "q" {
		return m, tea.Quit
	}

	for _, item := range menu {
		if msg.String() != item.key {
			continue
		}

		m.currentView = item.view
		m.screen = m.newScreen(item.view)

		if m.width == 0 {
			return m, m.screen.Init()
		}

		size := tea.WindowSizeMsg{Width: m.width, Height: m.height}

		return m, tea.Batch(m.screen.Init(), func() tea.Msg { return size })
	}

	return m, nil
}

func (m model) View() string {
	if m.currentView == ViewMenu || m.screen == nil {
		s := m.appName + "\n\n"
		for _, item := range menu {
			s += item.key + ". " + item.label + "\n"
		}

		return lipgloss.NewStyle().Padding(2).Render(s + "\nq. Quit")
	}

	help := lipgloss.NewStyle().Faint(true).PaddingLeft(1).Render(m.screen.ShortHelp())
	title := lipgloss.NewStyle().Bold(true).PaddingLeft(1).Render(m.screen.Title())

	return lipgloss.JoinVertical(lipgloss.Left, title, m.screen.View(), help)
}

func main() {
	p := tea.NewProgram(initialModel(), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		slog.Error("failed to run TUI", "error", err)
		os.Exit(1)
	}
}
