package calendar

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParseTheme(t *testing.T) {
	for _, th := range AllThemes() {
		got, err := ParseTheme(th.String())
		assert.NoError(t, err)
		assert.Equal(t, th, got)
	}

	got, err := ParseTheme(" Dark ")
	assert.NoError(t, err)
	assert.Equal(t, ThemeDark, got)

	_, err = ParseTheme("neon")
	assert.Error(t, err)
}

func TestThemeNextWraps(t *testing.T) {
	assert.Equal(t, ThemePastel, ThemeMinimal.Next())
	assert.Equal(t, ThemeMinimal, ThemeDark.Next())
	assert.Equal(t, ThemeMinimal, Theme("bogus").Next())
}

func TestThemeLabel(t *testing.T) {
	assert.Equal(t, "Gradient", ThemeGradient.Label())
}

func TestParseView(t *testing.T) {
	v, err := ParseView("DAY")
	assert.NoError(t, err)
	assert.Equal(t, ViewDay, v)

	_, err = ParseView("week")
	assert.Error(t, err)
}

func TestEventDataValidate(t *testing.T) {
	tests := []struct {
		name    string
		data    EventData
		wantErr bool
	}{
		{"valid", EventData{Title: "Lunch", Date: "2024-06-01"}, false},
		{"blank title", EventData{Title: "  ", Date: "2024-06-01"}, true},
		{"missing date", EventData{Title: "Lunch"}, true},
		{"bad date", EventData{Title: "Lunch", Date: "06/01/2024"}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.data.Validate()
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestEventLabel(t *testing.T) {
	assert.Equal(t, "Lunch", Event{Title: "Lunch"}.Label())
	assert.Equal(t, "🍔 Lunch", Event{Title: "Lunch", Emoji: "🍔"}.Label())
}

func TestWithIDAndData(t *testing.T) {
	data := EventData{Title: "Lunch", Emoji: "🍔", Date: "2024-06-01", Color: "red"}
	event := data.WithID("x1")

	assert.Equal(t, "x1", event.ID)
	assert.Equal(t, data, event.Data())
}
