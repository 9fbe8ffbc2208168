package ui

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cwarden/zcal/internal/calendar"
	"github.com/cwarden/zcal/internal/config"
	"github.com/cwarden/zcal/internal/export"
	"github.com/cwarden/zcal/internal/parser"
	"github.com/cwarden/zcal/internal/store"
)

const shareTimeout = 30 * time.Second

type Mode int

const (
	ModeCalendar Mode = iota
	ModeHelp
	ModeForm
	ModeConfirmDelete
	ModeGoto
)

type Model struct {
	// Core components
	config   *config.Config
	store    *store.Store
	parser   *parser.DateParser
	exporter *export.Exporter
	logger   *slog.Logger

	// UI state
	mode      Mode
	width     int
	height    int
	dayCursor int

	form          *eventForm
	gotoInput     textinput.Model
	pendingDelete *calendar.Event

	message    string
	messageErr bool
	messageSeq int
	notices    []store.Notification

	changes  chan string
	watching bool

	styles      Styles
	stylesTheme calendar.Theme
}

func NewModel(cfg *config.Config, st *store.Store, logger *slog.Logger) *Model {
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	m := &Model{
		config: cfg,
		store:  st,
		parser: parser.NewDateParser(),
		exporter: &export.Exporter{
			Dir:    cfg.ExportDir,
			Sharer: export.NewCommandSharer(cfg.ShareCommand),
			Logger: logger,
		},
		logger:  logger,
		mode:    ModeCalendar,
		changes: make(chan string, 1),
	}

	m.gotoInput = textinput.New()
	m.gotoInput.Placeholder = "2024-06-01, next friday, +2w..."
	m.gotoInput.CharLimit = 40

	st.OnNotify(store.NotifierFunc(func(n store.Notification) {
		m.notices = append(m.notices, n)
	}))

	m.refreshStyles()
	return m
}

// WatchStorage reloads the calendar whenever its storage files change
// on disk.
func (m *Model) WatchStorage() error {
	err := m.store.Watch(func(key string) {
		select {
		case m.changes <- key:
		default:
		}
	})
	if err != nil {
		return err
	}
	m.watching = true
	return nil
}

func (m *Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tea.EnterAltScreen}
	if m.watching {
		cmds = append(cmds, m.waitForChange())
	}
	return tea.Batch(cmds...)
}

func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		cmd = m.handleKeyPress(msg)

	case storageChangedMsg:
		m.logger.Debug("storage changed on disk, reloading", "key", msg.key)
		m.store.Load()
		m.clampCursor()
		cmd = m.waitForChange()

	case shareResultMsg:
		cmd = m.handleShareResult(msg)

	case messageTimeoutMsg:
		if msg.seq == m.messageSeq {
			m.message = ""
			m.messageErr = false
		}
		return m, nil

	default:
		switch {
		case m.mode == ModeForm && m.form != nil:
			cmd = m.form.update(msg)
		case m.mode == ModeGoto:
			m.gotoInput, cmd = m.gotoInput.Update(msg)
		}
	}

	m.refreshStyles()
	return m, tea.Batch(cmd, m.flushNotices())
}

func (m *Model) View() string {
	if m.width == 0 || m.height == 0 {
		return "Loading..."
	}

	switch m.mode {
	case ModeHelp:
		return m.viewHelp()
	case ModeForm:
		return m.viewForm()
	case ModeConfirmDelete:
		return m.viewConfirmDelete()
	case ModeGoto:
		return m.viewGoto()
	default:
		return m.viewCalendar()
	}
}

func (m *Model) handleKeyPress(msg tea.KeyMsg) tea.Cmd {
	switch m.mode {
	case ModeForm:
		return m.handleFormKeys(msg)
	case ModeConfirmDelete:
		return m.handleConfirmKeys(msg)
	case ModeGoto:
		return m.handleGotoKeys(msg)
	case ModeHelp:
		if msg.String() == "ctrl+c" {
			return tea.Quit
		}
		m.mode = ModeCalendar
		return nil
	}

	// Global keys
	state := m.store.State()
	switch msg.String() {
	case "ctrl+c", "q":
		return tea.Quit

	case "?":
		m.mode = ModeHelp
		return nil

	case "T":
		m.store.SetTheme(state.Theme.Next())
		return nil

	case "1":
		m.store.SetCurrentView(calendar.ViewMonth)
		return nil

	case "2":
		m.store.SetCurrentView(calendar.ViewDay)
		m.dayCursor = 0
		return nil

	case "t":
		m.selectDate(time.Now())
		return nil

	case "g":
		m.mode = ModeGoto
		m.gotoInput.SetValue("")
		return m.gotoInput.Focus()

	case "r":
		m.store.Load()
		m.clampCursor()
		return m.showMessage("Calendar reloaded")
	}

	if state.CurrentView == calendar.ViewDay {
		return m.handleDayKeys(msg, state)
	}
	return m.handleMonthKeys(msg, state)
}

func (m *Model) handleMonthKeys(msg tea.KeyMsg, state store.State) tea.Cmd {
	selected := state.SelectedDate

	switch msg.String() {
	case "l", "right":
		m.selectDate(selected.AddDate(0, 0, 1))

	case "h", "left":
		m.selectDate(selected.AddDate(0, 0, -1))

	case "j", "down":
		m.selectDate(selected.AddDate(0, 0, 7))

	case "k", "up":
		m.selectDate(selected.AddDate(0, 0, -7))

	case ">":
		m.selectDate(shiftMonth(selected, 1))

	case "<":
		m.selectDate(shiftMonth(selected, -1))

	case "enter", "n":
		return m.openForm(newEventForm(selected))

	case "e":
		events := calendar.EventsOnDay(state.Events, selected)
		switch len(events) {
		case 0:
			return m.showMessage("No events on this day")
		case 1:
			return m.openForm(editEventForm(events[0]))
		}
		// Several events: pick one in the day view.
		m.store.SetCurrentView(calendar.ViewDay)
		m.dayCursor = 0
		return m.showMessage("Select an event and press e to edit")
	}

	return nil
}

func (m *Model) handleDayKeys(msg tea.KeyMsg, state store.State) tea.Cmd {
	selected := state.SelectedDate
	events := calendar.EventsOnDay(state.Events, selected)

	switch msg.String() {
	case "l", "right":
		m.selectDate(selected.AddDate(0, 0, 1))

	case "h", "left":
		m.selectDate(selected.AddDate(0, 0, -1))

	case ">":
		m.selectDate(shiftMonth(selected, 1))

	case "<":
		m.selectDate(shiftMonth(selected, -1))

	case "j", "down":
		if m.dayCursor < len(events)-1 {
			m.dayCursor++
		}

	case "k", "up":
		if m.dayCursor > 0 {
			m.dayCursor--
		}

	case "n":
		return m.openForm(newEventForm(selected))

	case "enter", "e":
		if event, ok := m.cursorEvent(events); ok {
			return m.openForm(editEventForm(event))
		}

	case "d":
		if event, ok := m.cursorEvent(events); ok {
			return m.requestDelete(event)
		}

	case "s":
		if event, ok := m.cursorEvent(events); ok {
			return tea.Batch(m.showMessage("Rendering card..."), m.shareCmd(event, state.Theme))
		}
	}

	return nil
}

func (m *Model) handleFormKeys(msg tea.KeyMsg) tea.Cmd {
	f := m.form

	switch msg.String() {
	case "esc":
		m.closeForm()
		return nil

	case "tab", "down":
		return f.nextField()

	case "shift+tab", "up":
		return f.prevField()

	case "ctrl+e":
		f.cycleEmoji()
		return nil

	case "ctrl+d":
		if !f.editing() {
			return nil
		}
		event, ok := m.store.Event(f.editingID)
		if !ok {
			m.closeForm()
			return nil
		}
		m.form = nil
		return m.requestDelete(event)

	case "enter":
		return m.submitForm()
	}

	return f.update(msg)
}

func (m *Model) submitForm() tea.Cmd {
	f := m.form

	data, err := f.data(m.parser)
	if err != nil {
		f.err = err.Error()
		return nil
	}

	if f.editing() {
		m.store.UpdateEvent(data.WithID(f.editingID))
	} else if _, err := m.store.AddEvent(data); err != nil {
		m.logger.Error("failed to add event", "err", err)
		f.err = err.Error()
		return nil
	}

	day, _ := calendar.ParseDate(data.Date)
	m.closeForm()
	m.selectDate(day)
	return nil
}

func (m *Model) handleConfirmKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "y", "Y", "enter":
		if m.pendingDelete != nil {
			m.store.DeleteEvent(m.pendingDelete.ID)
		}
		m.pendingDelete = nil
		m.mode = ModeCalendar
		m.clampCursor()

	case "n", "N", "esc", "q":
		m.pendingDelete = nil
		m.mode = ModeCalendar
	}
	return nil
}

func (m *Model) handleGotoKeys(msg tea.KeyMsg) tea.Cmd {
	switch msg.String() {
	case "esc":
		m.gotoInput.Blur()
		m.mode = ModeCalendar
		return nil

	case "enter":
		input := m.gotoInput.Value()
		m.gotoInput.Blur()
		m.mode = ModeCalendar
		if input == "" {
			return nil
		}
		day, err := m.parser.ParseDate(input)
		if err != nil {
			return m.showError(fmt.Sprintf("Invalid date: %s", input))
		}
		m.selectDate(day)
		return nil
	}

	var cmd tea.Cmd
	m.gotoInput, cmd = m.gotoInput.Update(msg)
	return cmd
}

func (m *Model) requestDelete(event calendar.Event) tea.Cmd {
	if !m.config.ConfirmDelete {
		m.store.DeleteEvent(event.ID)
		m.mode = ModeCalendar
		m.clampCursor()
		return nil
	}
	m.pendingDelete = &event
	m.mode = ModeConfirmDelete
	return nil
}

func (m *Model) openForm(f *eventForm) tea.Cmd {
	m.form = f
	m.mode = ModeForm
	return textinput.Blink
}

func (m *Model) closeForm() {
	m.form = nil
	m.mode = ModeCalendar
}

// selectDate moves the selection to day and resets the day view cursor.
func (m *Model) selectDate(day time.Time) {
	m.store.SetSelectedDate(calendar.StartOfDay(day))
	m.dayCursor = 0
}

func (m *Model) cursorEvent(events []calendar.Event) (calendar.Event, bool) {
	if m.dayCursor < 0 || m.dayCursor >= len(events) {
		return calendar.Event{}, false
	}
	return events[m.dayCursor], true
}

func (m *Model) clampCursor() {
	state := m.store.State()
	n := len(calendar.EventsOnDay(state.Events, state.SelectedDate))
	if m.dayCursor >= n {
		m.dayCursor = n - 1
	}
	if m.dayCursor < 0 {
		m.dayCursor = 0
	}
}

func (m *Model) refreshStyles() {
	theme := m.store.State().Theme
	if theme != m.stylesTheme {
		m.styles = StylesFor(theme)
		m.stylesTheme = theme
	}
}

func (m *Model) shareCmd(event calendar.Event, theme calendar.Theme) tea.Cmd {
	exporter := m.exporter
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), shareTimeout)
		defer cancel()

		outcome, err := exporter.Share(ctx, event, theme)
		return shareResultMsg{outcome: outcome, err: err}
	}
}

func (m *Model) handleShareResult(msg shareResultMsg) tea.Cmd {
	if msg.err != nil {
		m.logger.Error("failed to export event card", "err", msg.err)
		return m.showError(fmt.Sprintf("Export failed: %v", msg.err))
	}
	if msg.outcome.Shared {
		return m.showMessage("Event shared")
	}
	return m.showMessage(fmt.Sprintf("Saved card to %s", msg.outcome.Path))
}

// flushNotices shows the most recent store notification.
func (m *Model) flushNotices() tea.Cmd {
	if len(m.notices) == 0 {
		return nil
	}
	n := m.notices[len(m.notices)-1]
	m.notices = m.notices[:0]
	return m.showMessage(n.String())
}

func (m *Model) showMessage(msg string) tea.Cmd {
	m.message = msg
	m.messageErr = false
	m.messageSeq++
	seq := m.messageSeq
	return tea.Tick(m.config.MessageTimeout, func(time.Time) tea.Msg {
		return messageTimeoutMsg{seq: seq}
	})
}

func (m *Model) showError(msg string) tea.Cmd {
	cmd := m.showMessage(msg)
	m.messageErr = true
	return cmd
}

func (m *Model) waitForChange() tea.Cmd {
	if !m.watching {
		return nil
	}
	changes := m.changes
	return func() tea.Msg {
		return storageChangedMsg{key: <-changes}
	}
}

// shiftMonth moves t by n months, clamping the day to the target month.
func shiftMonth(t time.Time, n int) time.Time {
	first := calendar.AddMonths(t, n)
	last := first.AddDate(0, 1, -1).Day()
	day := t.Day()
	if day > last {
		day = last
	}
	return first.AddDate(0, 0, day-1)
}

// Message types
type messageTimeoutMsg struct {
	seq int
}

type storageChangedMsg struct {
	key string
}

type shareResultMsg struct {
	outcome export.Outcome
	err     error
}
