package view

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
	"github.com/shopspring/decimal"

	"github.com/MrJamesThe3rd/herdbook/internal/production"
)

type productionState int

const (
	productionStatePeriod productionState = iota
	productionStateList
	productionStateNew
)

type recordItem struct {
	record *production.Record
}

func (i recordItem) Title() string {
	return fmt.Sprintf("%s  %-12s  %s", FormatDate(i.record.Date), i.record.EventType, recordValue(i.record))
}

func (i recordItem) Description() string {
	parts := []string{"species " + orDash(i.record.SpeciesID), "group " + orDash(i.record.GroupID)}
	if i.record.Notes != "" {
		parts = append(parts, i.record.Notes)
	}

	return strings.Join(parts, " | ")
}

func (i recordItem) FilterValue() string {
	return string(i.record.EventType) + " " + i.record.Notes
}

func recordValue(r *production.Record) string {
	switch {
	case r.EggCount != nil:
		return fmt.Sprintf("%d eggs", *r.EggCount)
	case r.MilkVolume != nil:
		return FormatMeasure(r.MilkVolume) + " l"
	case r.Weight != nil:
		return FormatMeasure(r.Weight) + " kg"
	case r.Quantity != nil:
		return "x" + FormatMeasure(r.Quantity)
	}

	return ""
}

// ProductionModel browses production records for a period and records new
// events.
type ProductionModel struct {
	CommonModel
	productionService *production.Service

	state   productionState
	picker  TimeframePicker
	list    list.Model
	form    *huh.Form
	records []*production.Record

	filter  production.ListFilter
	loading bool
	status  string
}

func NewProductionModel(svc *production.Service) ProductionModel {
	l := list.New([]list.Item{}, recordDelegate{}, 0, 0)
	l.Title = "Production Records"
	l.SetShowStatusBar(true)
	l.SetFilteringEnabled(true)
	l.SetShowHelp(false)

	return ProductionModel{
		productionService: svc,
		picker:            NewTimeframePicker(TimeframeThisMonth),
		list:              l,
	}
}

func (m ProductionModel) Title() string { return "Production" }

func (m ProductionModel) ShortHelp() string {
	switch m.state {
	case productionStateList:
		return "Esc: back | n: new record | x: delete | /: filter"
	case productionStateNew:
		return "Esc: cancel | Enter/Tab: navigate form"
	}

	return "Esc: back | Enter: select"
}

func (m ProductionModel) Init() tea.Cmd {
	return nil
}

func (m ProductionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case TimeframeSelectedMsg:
		m.filter.StartDate, m.filter.EndDate = msg.From, msg.To
		m.loading = true
		m.state = productionStateList

		return m, m.loadCmd()

	case loadRecordsMsg:
		m.loading = false
		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		m.records = msg.records
		m.refreshItems()

		return m, nil

	case recordSavedMsg:
		m.state = productionStateList
		m.form = nil
		m.status = msg.status

		if msg.err != nil {
			m.status = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}

		return m, m.loadCmd()

	case tea.WindowSizeMsg:
		m.Width, m.Height = msg.Width, msg.Height
		m.list.SetSize(msg.Width-4, msg.Height-6)

		return m, nil
	}

	switch m.state {
	case productionStatePeriod:
		return m.updatePeriod(msg)
	case productionStateNew:
		return m.updateNew(msg)
	}

	return m.updateList(msg)
}

func (m ProductionModel) updatePeriod(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if keyMsg.Type == tea.KeyEsc && m.picker.IsSelecting() {
			return m, Back
		}
	}

	var cmd tea.Cmd
	m.picker, cmd = m.picker.Update(msg)

	return m, cmd
}

func (m ProductionModel) updateList(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && !m.list.SettingFilter() {
		switch keyMsg.String() {
		case "esc":
			m.state = productionStatePeriod
			m.picker.Reset()

			return m, nil
		case "n":
			m.form = newRecordForm()
			m.state = productionStateNew

			return m, m.form.Init()
		case "x":
			return m, m.deleteCmd()
		}
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)

	return m, cmd
}

func (m ProductionModel) updateNew(msg tea.Msg) (tea.Model, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok && keyMsg.Type == tea.KeyEsc {
		m.state = productionStateList
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

	params, err := recordParams(
		m.form.GetString("event_type"),
		m.form.GetString("date"),
		m.form.GetString("value"),
		m.form.GetString("species"),
		m.form.GetString("notes"),
	)
	if err != nil {
		return m, func() tea.Msg { return recordSavedMsg{err: err} }
	}

	return m, m.createCmd(params)
}

func newRecordForm() *huh.Form {
	options := make([]huh.Option[string], 0, len(production.EventTypes))
	for _, et := range production.EventTypes {
		options = append(options, huh.NewOption(fmt.Sprintf("%s (%s)", et, et.Measure()), string(et)))
	}

	date := FormatDate(time.Now())

	return huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Key("event_type").
				Title("Event").
				Options(options...),

			huh.NewInput().
				Key("date").
				Title("Date").
				Value(&date).
				Validate(func(s string) error {
					_, err := time.Parse(time.DateOnly, strings.TrimSpace(s))
					return err
				}),

			huh.NewInput().
				Key("value").
				Title("Measure").
				Description("Leave empty for events without a measure"),

			huh.NewInput().
				Key("species").
				Title("Species"),

			huh.NewText().
				Key("notes").
				Title("Notes"),
		),
	).WithWidth(50).WithShowHelp(false)
}

// recordParams turns form values into create params, putting the measure in
// the field the event type expects.
func recordParams(eventType, date, value, species, notes string) (production.CreateParams, error) {
	et := production.EventType(eventType)

	d, err := time.Parse(time.DateOnly, strings.TrimSpace(date))
	if err != nil {
		return production.CreateParams{}, fmt.Errorf("invalid date: %w", err)
	}

	params := production.CreateParams{EventType: et, Date: d, Notes: notes}

	if s := strings.TrimSpace(species); s != "" {
		params.SpeciesID = &s
	}

	value = strings.TrimSpace(value)
	if value == "" {
		return params, nil
	}

	v, err := decimal.NewFromString(value)
	if err != nil {
		return production.CreateParams{}, fmt.Errorf("invalid measure %q: %w", value, err)
	}

	switch et.Measure() {
	case "quantity":
		params.Quantity = &v
	case "weight":
		params.Weight = &v
	case "milk_volume":
		params.MilkVolume = &v
	case "egg_count":
		params.EggCount = new(v.IntPart())
	default:
		return production.CreateParams{}, errors.New(eventType + " does not take a measure")
	}

	return params, nil
}

func (m ProductionModel) View() string {
	switch m.state {
	case productionStatePeriod:
		return lipgloss.NewStyle().Padding(1).Render(m.picker.View())
	case productionStateNew:
		return lipgloss.NewStyle().Padding(1).Render("New Production Record\n\n" + m.form.View())
	}

	if m.loading {
		return lipgloss.NewStyle().Padding(2).Render("Loading records...")
	}

	statusLine := ""
	if m.status != "" {
		statusLine = faintStyle.Render(m.status) + "\n"
	}

	return lipgloss.NewStyle().Padding(1).Render(statusLine + m.list.View())
}

func (m *ProductionModel) refreshItems() {
	items := make([]list.Item, len(m.records))
	for i, r := range m.records {
		items[i] = recordItem{record: r}
	}

	m.list.SetItems(items)
}

type loadRecordsMsg struct {
	records []*production.Record
	err     error
}

type recordSavedMsg struct {
	status string
	err    error
}

func (m ProductionModel) loadCmd() tea.Cmd {
	filter := m.filter

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		records, err := m.productionService.List(ctx, filter)

		return loadRecordsMsg{records: records, err: err}
	}
}

func (m ProductionModel) createCmd(params production.CreateParams) tea.Cmd {
	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		r, err := m.productionService.Create(ctx, params)
		if err != nil {
			return recordSavedMsg{err: err}
		}

		return recordSavedMsg{status: fmt.Sprintf("Recorded %s on %s.", r.EventType, FormatDate(r.Date))}
	}
}

func (m ProductionModel) deleteCmd() tea.Cmd {
	item, ok := m.list.SelectedItem().(recordItem)
	if !ok {
		return nil
	}

	id := item.record.ID

	return func() tea.Msg {
		ctx, cancel := DbCtx()
		defer cancel()

		if err := m.productionService.Delete(ctx, id); err != nil {
			return recordSavedMsg{err: err}
		}

		return recordSavedMsg{status: "Deleted."}
	}
}

type recordDelegate struct{}

func (d recordDelegate) Height() int                             { return 2 }
func (d recordDelegate) Spacing() int                            { return 0 }
func (d recordDelegate) Update(_ tea.Msg, _ *list.Model) tea.Cmd { return nil }

func (d recordDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	i, ok := item.(recordItem)
	if !ok {
		return
	}

	title := i.Title()
	if index == m.Index() {
		title = lipgloss.NewStyle().Foreground(lipgloss.Color("205")).Bold(true).Render("> " + title)
	}

	fmt.Fprintf(w, "  %s\n", title)
	fmt.Fprintf(w, "    %s\n", faintStyle.Render(i.Description()))
}
