package view

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// Timeframe is a predefined or custom report period.
type Timeframe int

const (
	TimeframeThisMonth Timeframe = iota
	TimeframeLastMonth
	TimeframeThisQuarter
	TimeframeThisYear
	TimeframeLastYear
	TimeframeAll
	TimeframeCustom
)

func (t Timeframe) String() string {
	switch t {
	case TimeframeThisMonth:
		return "This Month"
	case TimeframeLastMonth:
		return "Last Month"
	case TimeframeThisQuarter:
		return "This Quarter"
	case TimeframeThisYear:
		return "This Year"
	case TimeframeLastYear:
		return "Last Year"
	case TimeframeAll:
		return "All Time"
	case TimeframeCustom:
		return "Custom Range"
	}

	return "Unknown"
}

// Range returns the inclusive day range of t relative to now. Both ends are
// nil for TimeframeAll and TimeframeCustom.
func (t Timeframe) Range(now time.Time) (from, to *time.Time) {
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	monthStart := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, time.UTC)
	yearStart := time.Date(now.Year(), time.January, 1, 0, 0, 0, 0, time.UTC)

	var start, end time.Time

	switch t {
	case TimeframeThisMonth:
		start, end = monthStart, today
	case TimeframeLastMonth:
		start = monthStart.AddDate(0, -1, 0)
		end = monthStart.AddDate(0, 0, -1)
	case TimeframeThisQuarter:
		q := (int(now.Month()) - 1) / 3
		start = time.Date(now.Year(), time.Month(q*3+1), 1, 0, 0, 0, 0, time.UTC)
		end = today
	case TimeframeThisYear:
		start, end = yearStart, today
	case TimeframeLastYear:
		start = yearStart.AddDate(-1, 0, 0)
		end = yearStart.AddDate(0, 0, -1)
	default:
		return nil, nil
	}

	return &start, &end
}

// TimeframeSelectedMsg is emitted when the user has picked a period. From and
// To are nil for "All Time".
type TimeframeSelectedMsg struct {
	Label string
	From  *time.Time
	To    *time.Time
}

type timeframeState int

const (
	timeframeStateSelect timeframeState = iota
	timeframeStateCustom
)

// TimeframePicker is a reusable component for selecting a date range.
type TimeframePicker struct {
	state    timeframeState
	selected Timeframe
	now      func() time.Time

	fromInput  textinput.Model
	toInput    textinput.Model
	focusIndex int

	err error
}

func NewTimeframePicker(initial Timeframe) TimeframePicker {
	from := textinput.New()
	from.Placeholder = "YYYY-MM-DD"
	from.CharLimit = 10
	from.Width = 12
	from.Prompt = "From: "

	to := textinput.New()
	to.Placeholder = "YYYY-MM-DD"
	to.CharLimit = 10
	to.Width = 12
	to.Prompt = "To:   "

	return TimeframePicker{
		state:     timeframeStateSelect,
		selected:  initial,
		now:       time.Now,
		fromInput: from,
		toInput:   to,
	}
}

func (m TimeframePicker) Init() tea.Cmd {
	return nil
}

func (m TimeframePicker) Update(msg tea.Msg) (TimeframePicker, tea.Cmd) {
	if keyMsg, ok := msg.(tea.KeyMsg); ok {
		if m.state == timeframeStateSelect {
			return m.updateSelect(keyMsg)
		}

		if next, cmd, handled := m.updateCustom(keyMsg); handled {
			return next, cmd
		}
	}

	if m.state != timeframeStateCustom {
		return m, nil
	}

	var fromCmd, toCmd tea.Cmd
	m.fromInput, fromCmd = m.fromInput.Update(msg)
	m.toInput, toCmd = m.toInput.Update(msg)

	return m, tea.Batch(fromCmd, toCmd)
}

func (m TimeframePicker) updateSelect(msg tea.KeyMsg) (TimeframePicker, tea.Cmd) {
	switch msg.Type {
	case tea.KeyUp:
		if m.selected > TimeframeThisMonth {
			m.selected--
		}
	case tea.KeyDown:
		if m.selected < TimeframeCustom {
			m.selected++
		}
	case tea.KeyEnter:
		if m.selected == TimeframeCustom {
			m.state = timeframeStateCustom
			m.focusIndex = 0
			m.fromInput.Focus()

			return m, textinput.Blink
		}

		from, to := m.selected.Range(m.now())
		sel := TimeframeSelectedMsg{Label: m.selected.String(), From: from, To: to}

		return m, func() tea.Msg { return sel }
	}

	return m, nil
}

func (m TimeframePicker) updateCustom(msg tea.KeyMsg) (TimeframePicker, tea.Cmd, bool) {
	switch msg.String() {
	case "tab", "shift+tab":
		m.focusIndex = (m.focusIndex + 1) % 2
		m.fromInput.Blur()
		m.toInput.Blur()

		if m.focusIndex == 0 {
			m.fromInput.Focus()
		} else {
			m.toInput.Focus()
		}

		return m, textinput.Blink, true

	case "enter":
		sel, err := customRange(m.fromInput.Value(), m.toInput.Value())
		if err != nil {
			m.err = err
			return m, nil, true
		}

		m.err = nil

		return m, func() tea.Msg { return sel }, true

	case "esc":
		m.state = timeframeStateSelect
		m.err = nil

		return m, nil, true
	}

	return m, nil, false
}

func customRange(fromValue, toValue string) (TimeframeSelectedMsg, error) {
	from, err := time.Parse(time.DateOnly, strings.TrimSpace(fromValue))
	if err != nil {
		return TimeframeSelectedMsg{}, errors.New("invalid from date (YYYY-MM-DD)")
	}

	to, err := time.Parse(time.DateOnly, strings.TrimSpace(toValue))
	if err != nil {
		return TimeframeSelectedMsg{}, errors.New("invalid to date (YYYY-MM-DD)")
	}

	if from.After(to) {
		return TimeframeSelectedMsg{}, errors.New("from date is after to date")
	}

	return TimeframeSelectedMsg{
		Label: fmt.Sprintf("%s to %s", FormatDate(from), FormatDate(to)),
		From:  &from,
		To:    &to,
	}, nil
}

func (m TimeframePicker) View() string {
	errStr := ""
	if m.err != nil {
		errStr = errorStyle.Render(fmt.Sprintf("\n\nError: %v", m.err))
	}

	if m.state == timeframeStateCustom {
		return fmt.Sprintf(
			"Enter Custom Range:\n\n%s\n%s\n\n(Enter to confirm, Tab to switch, Esc to back)%s",
			m.fromInput.View(),
			m.toInput.View(),
			errStr,
		)
	}

	var b strings.Builder

	b.WriteString("Select Period:\n\n")

	for tf := TimeframeThisMonth; tf <= TimeframeCustom; tf++ {
		cursor := " "
		if m.selected == tf {
			cursor = ">"
		}

		fmt.Fprintf(&b, "%s %s\n", cursor, tf)
	}

	b.WriteString("\n(Enter to select, Esc to back)")

	return b.String() + errStr
}

// IsSelecting reports whether the picker is on the preset list.
func (m TimeframePicker) IsSelecting() bool {
	return m.state == timeframeStateSelect
}

func (m *TimeframePicker) Reset() {
	m.state = timeframeStateSelect
	m.err = nil
	m.fromInput.SetValue("")
	m.toInput.SetValue("")
}
