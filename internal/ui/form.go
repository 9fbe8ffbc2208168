package ui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/cwarden/zcal/internal/calendar"
	"github.com/cwarden/zcal/internal/parser"
)

// EmojiPresets are offered by ctrl+e in the event form.
var EmojiPresets = []string{
	"🎉", "🎂", "🎯", "📚", "🎮", "🏋️", "🧘", "🚗", "✈️", "🏠",
	"💼", "🍔", "🍕", "☕", "🍷", "💰", "💻", "📱", "🎵", "🎬",
}

type formField int

const (
	fieldTitle formField = iota
	fieldEmoji
	fieldDate
	fieldCount
)

var fieldLabels = [fieldCount]string{
	fieldTitle: "Title",
	fieldEmoji: "Emoji",
	fieldDate:  "Date",
}

// eventForm collects the fields of a new or edited event.
type eventForm struct {
	inputs     [fieldCount]textinput.Model
	focus      formField
	editingID  string
	color      string
	emojiIndex int
	err        string
}

func newEventForm(day time.Time) *eventForm {
	f := &eventForm{emojiIndex: -1}

	f.inputs[fieldTitle] = textinput.New()
	f.inputs[fieldTitle].Placeholder = "Event title"
	f.inputs[fieldTitle].CharLimit = 120

	f.inputs[fieldEmoji] = textinput.New()
	f.inputs[fieldEmoji].Placeholder = "optional, ctrl+e to pick"
	f.inputs[fieldEmoji].CharLimit = 8

	f.inputs[fieldDate] = textinput.New()
	f.inputs[fieldDate].Placeholder = "YYYY-MM-DD, tomorrow, next friday..."
	f.inputs[fieldDate].CharLimit = 40
	f.inputs[fieldDate].SetValue(calendar.FormatDate(day))

	for i := range f.inputs {
		f.inputs[i].Prompt = ""
	}

	f.setFocus(fieldTitle)
	return f
}

func editEventForm(event calendar.Event) *eventForm {
	f := newEventForm(time.Now())
	f.editingID = event.ID
	f.color = event.Color
	f.inputs[fieldTitle].SetValue(event.Title)
	f.inputs[fieldEmoji].SetValue(event.Emoji)
	f.inputs[fieldDate].SetValue(event.Date)
	for i, e := range EmojiPresets {
		if e == event.Emoji {
			f.emojiIndex = i
		}
	}
	return f
}

func (f *eventForm) editing() bool {
	return f.editingID != ""
}

func (f *eventForm) setFocus(field formField) tea.Cmd {
	f.focus = (field + fieldCount) % fieldCount
	for i := range f.inputs {
		f.inputs[i].Blur()
	}
	return f.inputs[f.focus].Focus()
}

func (f *eventForm) nextField() tea.Cmd {
	return f.setFocus(f.focus + 1)
}

func (f *eventForm) prevField() tea.Cmd {
	return f.setFocus(f.focus - 1)
}

func (f *eventForm) cycleEmoji() {
	f.emojiIndex = (f.emojiIndex + 1) % len(EmojiPresets)
	f.inputs[fieldEmoji].SetValue(EmojiPresets[f.emojiIndex])
}

func (f *eventForm) update(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	f.inputs[f.focus], cmd = f.inputs[f.focus].Update(msg)
	return cmd
}

// data validates the form. The date field accepts anything the date
// parser understands and is stored in canonical form.
func (f *eventForm) data(p *parser.DateParser) (calendar.EventData, error) {
	title := strings.TrimSpace(f.inputs[fieldTitle].Value())
	if title == "" {
		return calendar.EventData{}, errors.New("title is required")
	}

	dateInput := strings.TrimSpace(f.inputs[fieldDate].Value())
	if dateInput == "" {
		return calendar.EventData{}, errors.New("date is required")
	}
	day, err := p.ParseDate(dateInput)
	if err != nil {
		return calendar.EventData{}, fmt.Errorf("date: %w", err)
	}

	data := calendar.EventData{
		Title: title,
		Emoji: strings.TrimSpace(f.inputs[fieldEmoji].Value()),
		Date:  calendar.FormatDate(day),
		Color: f.color,
	}
	return data, data.Validate()
}
