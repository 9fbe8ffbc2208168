package calendar

import (
	"fmt"
	"strings"
)

// Event is a single dated calendar item. Date is the canonical
// YYYY-MM-DD string and is the only key used to place an event on a day.
type Event struct {
	ID    string `json:"id"`
	Title string `json:"title"`
	Emoji string `json:"emoji,omitempty"`
	Date  string `json:"date"`
	Color string `json:"color,omitempty"`
}

// EventData holds the fields of an Event that a caller supplies when
// creating one; the ID is assigned by the store.
type EventData struct {
	Title string `json:"title"`
	Emoji string `json:"emoji,omitempty"`
	Date  string `json:"date"`
	Color string `json:"color,omitempty"`
}

// WithID builds the Event for d under the given id.
func (d EventData) WithID(id string) Event {
	return Event{
		ID:    id,
		Title: d.Title,
		Emoji: d.Emoji,
		Date:  d.Date,
		Color: d.Color,
	}
}

// Data strips the id from e.
func (e Event) Data() EventData {
	return EventData{
		Title: e.Title,
		Emoji: e.Emoji,
		Date:  e.Date,
		Color: e.Color,
	}
}

// Label is the emoji-prefixed title used in lists and notifications.
func (e Event) Label() string {
	if e.Emoji == "" {
		return e.Title
	}
	return e.Emoji + " " + e.Title
}

// Validate checks the fields the form layer requires.
func (d EventData) Validate() error {
	if strings.TrimSpace(d.Title) == "" {
		return fmt.Errorf("title is required")
	}
	if d.Date == "" {
		return fmt.Errorf("date is required")
	}
	if _, err := ParseDate(d.Date); err != nil {
		return err
	}
	return nil
}

type View string

const (
	ViewMonth View = "month"
	ViewDay   View = "day"
)

func (v View) String() string {
	return string(v)
}

// ParseView accepts the literal view names only.
func ParseView(s string) (View, error) {
	switch View(strings.ToLower(strings.TrimSpace(s))) {
	case ViewMonth:
		return ViewMonth, nil
	case ViewDay:
		return ViewDay, nil
	}
	return "", fmt.Errorf("invalid view: %q", s)
}

type Theme string

const (
	ThemeMinimal  Theme = "minimal"
	ThemePastel   Theme = "pastel"
	ThemeGradient Theme = "gradient"
	ThemeDark     Theme = "dark"

	DefaultTheme = ThemeGradient
	DefaultView  = ViewMonth
)

// AllThemes lists the themes in switcher order.
func AllThemes() []Theme {
	return []Theme{ThemeMinimal, ThemePastel, ThemeGradient, ThemeDark}
}

func (t Theme) String() string {
	return string(t)
}

// Label is the capitalized display name.
func (t Theme) Label() string {
	s := string(t)
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}

// Next returns the theme following t in switcher order, wrapping around.
func (t Theme) Next() Theme {
	themes := AllThemes()
	for i, th := range themes {
		if th == t {
			return themes[(i+1)%len(themes)]
		}
	}
	return themes[0]
}

// ParseTheme rejects anything outside the closed theme set.
func ParseTheme(s string) (Theme, error) {
	want := Theme(strings.ToLower(strings.TrimSpace(s)))
	for _, th := range AllThemes() {
		if th == want {
			return th, nil
		}
	}
	return "", fmt.Errorf("invalid theme: %q", s)
}
