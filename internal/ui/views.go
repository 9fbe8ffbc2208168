package ui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss/v2"
	"github.com/cwarden/zcal/internal/calendar"
	"github.com/cwarden/zcal/internal/store"
	"github.com/muesli/reflow/truncate"
	"github.com/muesli/reflow/wordwrap"
)

const (
	appTitle         = "📅 Z-Calendar"
	maxEventsPerCell = 3
	minCellWidth     = 8
	// header, weekday row and status bar
	chromeLines = 4
)

func (m *Model) viewCalendar() string {
	state := m.store.State()

	var body string
	if state.CurrentView == calendar.ViewDay {
		body = m.viewDay(state)
	} else {
		body = m.viewMonth(state)
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(state),
		body,
		m.renderStatusBar(state),
	)
}

func (m *Model) renderHeader(state store.State) string {
	label := state.SelectedDate.Format("January 2006")
	left := m.styles.Title.Render(appTitle) + "  " + m.styles.Header.Render(label)
	right := m.styles.Help.Render(fmt.Sprintf("%s view · %s theme",
		viewLabel(state.CurrentView), state.Theme.Label()))

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return left + strings.Repeat(" ", gap) + right
}

func (m *Model) viewMonth(state store.State) string {
	weekStart := m.config.WeekStartDay.Weekday()
	days := calendar.MonthGridFrom(state.SelectedDate, weekStart)
	weeks := len(days) / 7

	cellWidth := m.width / 7
	if cellWidth < minCellWidth {
		cellWidth = minCellWidth
	}

	cellLines := (m.height - chromeLines) / weeks
	if cellLines < 2 {
		cellLines = 2
	}
	if cellLines > maxEventsPerCell+2 {
		cellLines = maxEventsPerCell + 2
	}

	cell := lipgloss.NewStyle().Width(cellWidth)

	var names []string
	for _, name := range calendar.WeekdayNames(weekStart) {
		names = append(names, cell.Render(m.styles.Weekday.Render(name)))
	}

	rows := []string{lipgloss.JoinHorizontal(lipgloss.Top, names...)}
	for w := 0; w < weeks; w++ {
		var cells []string
		for _, day := range days[w*7 : w*7+7] {
			cells = append(cells, m.renderDayCell(day, state, cellWidth, cellLines))
		}
		rows = append(rows, lipgloss.JoinHorizontal(lipgloss.Top, cells...))
	}

	return lipgloss.JoinVertical(lipgloss.Left, rows...)
}

func (m *Model) renderDayCell(day time.Time, state store.State, width, lines int) string {
	style := m.styles.Normal
	switch {
	case !calendar.IsInMonth(day, state.SelectedDate):
		style = m.styles.Muted
	case day.Weekday() == time.Saturday || day.Weekday() == time.Sunday:
		style = m.styles.Weekend
	}
	if calendar.IsToday(day) {
		style = m.styles.Today
	}
	if calendar.IsSameDay(day, state.SelectedDate) {
		style = m.styles.Selected
	}

	content := []string{style.Render(fmt.Sprintf("%2d", day.Day()))}

	events := calendar.EventsOnDay(state.Events, day)
	shown, more := visibleEvents(len(events), lines-1)
	for _, event := range events[:shown] {
		label := truncate.StringWithTail(event.Label(), uint(width-1), "…")
		content = append(content, m.styles.Event.Render(label))
	}
	if more > 0 {
		content = append(content, m.styles.More.Render(fmt.Sprintf("+%d more", more)))
	}

	return lipgloss.NewStyle().
		Width(width).
		Height(lines).
		Render(strings.Join(content, "\n"))
}

// visibleEvents decides how many of n events fit in capacity lines,
// reserving a line for "+N more" when they do not all fit.
func visibleEvents(n, capacity int) (shown, more int) {
	if n <= capacity && n <= maxEventsPerCell {
		return n, 0
	}
	shown = capacity - 1
	if shown > maxEventsPerCell {
		shown = maxEventsPerCell
	}
	if shown < 0 {
		shown = 0
	}
	return shown, n - shown
}

func (m *Model) viewDay(state store.State) string {
	day := state.SelectedDate

	heading := m.styles.Header.Render(day.Format("Monday, January 2, 2006"))
	if calendar.IsToday(day) {
		heading += " " + m.styles.Badge.Render("Today")
	}

	width := m.width - 6
	if width < 20 {
		width = 20
	}

	lines := []string{heading, ""}

	events := calendar.EventsOnDay(state.Events, day)
	if len(events) == 0 {
		lines = append(lines,
			m.styles.Muted.Render("No events scheduled for this day"),
			m.styles.Help.Render("Press n to add one"))
	}

	for i, event := range events {
		text := wordwrap.String(event.Label(), width-2)
		if i == m.dayCursor {
			lines = append(lines, m.styles.Cursor.Render("▸ "+text))
		} else {
			lines = append(lines, m.styles.Event.Render("  "+text))
		}
	}

	return m.styles.Border.Width(width).Render(lipgloss.JoinVertical(lipgloss.Left, lines...))
}

func (m *Model) viewHelp() string {
	help := []string{
		m.styles.Header.Render("Z-Calendar Help"),
		"",
		m.styles.Normal.Render("Navigation:"),
		m.styles.Help.Render("  h/←  l/→ - Previous / next day"),
		m.styles.Help.Render("  k/↑  j/↓ - Previous / next week (month view)"),
		m.styles.Help.Render("  k/↑  j/↓ - Move between events (day view)"),
		m.styles.Help.Render("  <  >     - Previous / next month"),
		m.styles.Help.Render("  t        - Go to today"),
		m.styles.Help.Render("  g        - Go to date"),
		m.styles.Help.Render("  1  2     - Month / day view"),
		"",
		m.styles.Normal.Render("Events:"),
		m.styles.Help.Render("  n/enter  - New event (month view)"),
		m.styles.Help.Render("  e/enter  - Edit event"),
		m.styles.Help.Render("  d        - Delete event (day view)"),
		m.styles.Help.Render("  s        - Share event card (day view)"),
		"",
		m.styles.Normal.Render("Event form:"),
		m.styles.Help.Render("  tab      - Next field"),
		m.styles.Help.Render("  ctrl+e   - Cycle emoji"),
		m.styles.Help.Render("  ctrl+d   - Delete event being edited"),
		m.styles.Help.Render("  enter    - Save, esc to cancel"),
		"",
		m.styles.Normal.Render("Other:"),
		m.styles.Help.Render("  T        - Cycle theme"),
		m.styles.Help.Render("  r        - Reload from disk"),
		m.styles.Help.Render("  ?        - Toggle help"),
		m.styles.Help.Render("  q        - Quit"),
		"",
		m.styles.Help.Render("Press any key to return..."),
	}

	return lipgloss.JoinVertical(lipgloss.Left, help...)
}

func (m *Model) viewForm() string {
	f := m.form
	if f == nil {
		return m.viewCalendar()
	}

	title := "New Event"
	if f.editing() {
		title = "Edit Event"
	}

	sections := []string{m.styles.Header.Render(title), ""}
	for i := formField(0); i < fieldCount; i++ {
		label := m.styles.Normal.Render(fmt.Sprintf("%-6s", fieldLabels[i]))
		if i == f.focus {
			label = m.styles.Focused.Render(fmt.Sprintf("%-6s", fieldLabels[i]))
		}
		sections = append(sections, label+" "+f.inputs[i].View())
	}

	sections = append(sections, "")
	if f.err != "" {
		sections = append(sections, m.styles.Error.Render(f.err), "")
	}

	help := "Enter to save, Tab for next field, Ctrl+E emoji, Esc to cancel"
	if f.editing() {
		help += ", Ctrl+D delete"
	}
	sections = append(sections, m.styles.Help.Render(help))

	return m.styles.Border.Render(lipgloss.JoinVertical(lipgloss.Left, sections...))
}

func (m *Model) viewConfirmDelete() string {
	name := ""
	if m.pendingDelete != nil {
		name = m.pendingDelete.Label()
	}

	return m.styles.Border.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Header.Render("Delete Event"),
		"",
		m.styles.Normal.Render(fmt.Sprintf("Delete %q?", name)),
		"",
		m.styles.Help.Render("y to delete, n to keep"),
	))
}

func (m *Model) viewGoto() string {
	return m.styles.Border.Render(lipgloss.JoinVertical(lipgloss.Left,
		m.styles.Header.Render("Go to Date"),
		"",
		m.gotoInput.View(),
		"",
		m.styles.Help.Render("Enter to jump, Esc to cancel"),
	))
}

func (m *Model) renderStatusBar(state store.State) string {
	day := calendar.EventsOnDay(state.Events, state.SelectedDate)
	left := fmt.Sprintf(" %s | %d on this day | %d total",
		state.SelectedDate.Format(m.config.DateFormat),
		len(day),
		len(state.Events))

	right := "? for help | q to quit"
	if m.message != "" {
		if m.messageErr {
			right = m.styles.Error.Render(m.message)
		} else {
			right = m.styles.Message.Render(m.message)
		}
	}

	width := m.width - lipgloss.Width(left) - lipgloss.Width(right)
	if width < 0 {
		width = 0
	}

	middle := strings.Repeat(" ", width)

	return m.styles.Help.Render(left) + middle + right
}

func viewLabel(v calendar.View) string {
	if v == calendar.ViewDay {
		return "Day"
	}
	return "Month"
}
