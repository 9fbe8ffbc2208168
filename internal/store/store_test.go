package store

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/cwarden/zcal/internal/calendar"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sequentialIDs(ids ...string) func() string {
	i := 0
	return func() string {
		id := ids[i%len(ids)]
		i++
		return id
	}
}

func bufferLogger(buf *bytes.Buffer) *slog.Logger {
	return slog.New(slog.NewTextHandler(buf, &slog.HandlerOptions{Level: slog.LevelDebug}))
}

func TestLunchScenario(t *testing.T) {
	s := New(NewMemoryStorage())

	_, err := s.AddEvent(calendar.EventData{Title: "Lunch", Date: "2024-06-01"})
	require.NoError(t, err)

	june1 := time.Date(2024, 6, 1, 0, 0, 0, 0, time.Local)
	june2 := time.Date(2024, 6, 2, 0, 0, 0, 0, time.Local)

	got := calendar.EventsOnDay(s.Events(), june1)
	require.Len(t, got, 1)
	assert.Equal(t, "Lunch", got[0].Title)
	assert.Empty(t, calendar.EventsOnDay(s.Events(), june2))
}

func TestAddThenDeleteRestores(t *testing.T) {
	s := New(NewMemoryStorage())
	for _, title := range []string{"One", "Two", "Three"} {
		_, err := s.AddEvent(calendar.EventData{Title: title, Date: "2024-06-01"})
		require.NoError(t, err)
	}
	before := s.Events()

	added, err := s.AddEvent(calendar.EventData{Title: "Four", Date: "2024-06-04"})
	require.NoError(t, err)

	after := s.Events()
	require.Len(t, after, len(before)+1)
	for _, event := range before {
		assert.NotEqual(t, event.ID, added.ID)
	}
	assert.Equal(t, added, after[len(after)-1])

	s.DeleteEvent(added.ID)
	assert.ElementsMatch(t, before, s.Events())
}

func TestUpdateAbsentLeavesEventsUnchanged(t *testing.T) {
	storage := NewMemoryStorage()
	s := New(storage)
	_, err := s.AddEvent(calendar.EventData{Title: "Lunch", Date: "2024-06-01"})
	require.NoError(t, err)
	before := s.Events()

	s.UpdateEvent(calendar.Event{ID: "nope", Title: "Ghost", Date: "2024-06-01"})
	s.DeleteEvent("nope")

	assert.Equal(t, before, s.Events())
}

func TestUpdateEvent(t *testing.T) {
	s := New(NewMemoryStorage())
	event, err := s.AddEvent(calendar.EventData{Title: "Lunch", Date: "2024-06-01"})
	require.NoError(t, err)

	event.Title = "Brunch"
	event.Emoji = "☕"
	s.UpdateEvent(event)

	got, ok := s.Event(event.ID)
	require.True(t, ok)
	assert.Equal(t, "Brunch", got.Title)
	assert.Equal(t, "☕", got.Emoji)
}

func TestStateReturnsCopy(t *testing.T) {
	s := New(NewMemoryStorage())
	_, err := s.AddEvent(calendar.EventData{Title: "Lunch", Date: "2024-06-01"})
	require.NoError(t, err)

	state := s.State()
	state.Events[0].Title = "mutated"

	assert.Equal(t, "Lunch", s.Events()[0].Title)
}

func TestPersistenceRoundTrip(t *testing.T) {
	storage := NewMemoryStorage()
	s := New(storage)

	_, err := s.AddEvent(calendar.EventData{Title: "Lunch", Emoji: "🍔", Date: "2024-06-01", Color: "#ff0000"})
	require.NoError(t, err)
	_, err = s.AddEvent(calendar.EventData{Title: "Gym", Date: "2024-06-02"})
	require.NoError(t, err)
	s.SetTheme(calendar.ThemeDark)

	reloaded := New(storage)
	reloaded.Load()

	assert.Equal(t, s.Events(), reloaded.Events())
	assert.Equal(t, calendar.ThemeDark, reloaded.State().Theme)
}

func TestEventsEncodeDecodeRoundTrip(t *testing.T) {
	events := []calendar.Event{
		{ID: "a", Title: "Lunch", Emoji: "🍔", Date: "2024-06-01", Color: "blue"},
		{ID: "b", Title: "Gym", Date: "2024-06-02"},
	}

	raw, err := EncodeEvents(events)
	require.NoError(t, err)
	assert.Contains(t, raw, `"version":1`)

	decoded, err := DecodeEvents(raw)
	require.NoError(t, err)
	assert.Equal(t, events, decoded)
}

func TestDecodeLegacyArray(t *testing.T) {
	raw := `[{"id":"k2j3h4","title":"Party","emoji":"🎉","date":"2024-07-04"}]`

	events, err := DecodeEvents(raw)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "Party", events[0].Title)
}

func TestDecodeRejectsMalformed(t *testing.T) {
	for _, raw := range []string{
		`not json`,
		`{"version":2,"events":[]}`,
		`[{"title":"no id","date":"2024-01-01"}]`,
		`{"version":1,"events":[{"id":"a"},`,
		`[{"id":"a","date":"not-a-date"}]`,
		`[{"id":"a","title":"Lunch","date":"not-a-date"}]`,
		`[{"id":"a","title":"Lunch","date":"2024-02-30"}]`,
		`[{"id":"a","title":"   ","date":"2024-06-01"}]`,
		`[{"id":"a","title":"Lunch"}]`,
	} {
		_, err := DecodeEvents(raw)
		assert.Error(t, err, raw)
	}
}

func TestLoadCorruptSnapshotFallsBack(t *testing.T) {
	storage := NewMemoryStorage()
	require.NoError(t, storage.Set(EventsKey, `{"version":1,"events":[{"id":"a","title":"x"},{"title":"no id"}]}`))
	require.NoError(t, storage.Set(ThemeKey, "pastel"))

	var logs bytes.Buffer
	s := New(storage, WithLogger(bufferLogger(&logs)))
	s.Load()

	assert.Empty(t, s.Events())
	assert.Equal(t, calendar.ThemePastel, s.State().Theme)
	assert.Contains(t, logs.String(), "failed to load saved events")
}

func TestReloadCorruptSnapshotKeepsEvents(t *testing.T) {
	storage := NewMemoryStorage()

	var logs bytes.Buffer
	s := New(storage, WithLogger(bufferLogger(&logs)))
	s.Load()

	lunch, err := s.AddEvent(calendar.EventData{Title: "Lunch", Date: "2024-06-01"})
	require.NoError(t, err)

	require.NoError(t, storage.Set(EventsKey, `{"version":1,"events":[`))
	require.NoError(t, storage.Set(ThemeKey, "dark"))
	s.Load()

	require.Len(t, s.Events(), 1)
	assert.Equal(t, lunch, s.Events()[0])
	assert.Equal(t, calendar.ThemeDark, s.State().Theme, "theme still reloads")
	assert.Contains(t, logs.String(), "keeping current ones")

	_, err = s.AddEvent(calendar.EventData{Title: "Dinner", Date: "2024-06-01"})
	require.NoError(t, err)

	raw, ok, err := storage.Get(EventsKey)
	require.NoError(t, err)
	require.True(t, ok)
	saved, err := DecodeEvents(raw)
	require.NoError(t, err)
	require.Len(t, saved, 2)
	assert.Equal(t, "Lunch", saved[0].Title)
	assert.Equal(t, "Dinner", saved[1].Title)
}

func TestReloadPicksUpExternalChanges(t *testing.T) {
	storage := NewMemoryStorage()
	s := New(storage)
	s.Load()

	_, err := s.AddEvent(calendar.EventData{Title: "Lunch", Date: "2024-06-01"})
	require.NoError(t, err)

	require.NoError(t, storage.Set(EventsKey, `{"version":1,"events":[{"id":"z","title":"Gym","date":"2024-06-02"}]}`))
	s.Load()

	assert.Equal(t, []calendar.Event{{ID: "z", Title: "Gym", Date: "2024-06-02"}}, s.Events())
}

func TestLoadUnknownThemeKeepsDefault(t *testing.T) {
	storage := NewMemoryStorage()
	require.NoError(t, storage.Set(ThemeKey, "neon"))

	var logs bytes.Buffer
	s := New(storage, WithLogger(bufferLogger(&logs)), WithDefaults(calendar.ViewDay, calendar.ThemeMinimal))
	s.Load()

	assert.Equal(t, calendar.ThemeMinimal, s.State().Theme)
	assert.Equal(t, calendar.ViewDay, s.State().CurrentView)
	assert.Contains(t, logs.String(), "failed to load saved theme")
}

func TestLoadEmptyStorage(t *testing.T) {
	storage := NewMemoryStorage()
	s := New(storage)
	s.Load()

	assert.Empty(t, s.Events())
	assert.Equal(t, calendar.DefaultTheme, s.State().Theme)
	assert.Equal(t, 0, storage.Writes(), "hydrating must not write back")
}

func TestLoadDropsDuplicateIDs(t *testing.T) {
	storage := NewMemoryStorage()
	require.NoError(t, storage.Set(EventsKey, `[{"id":"a","title":"First","date":"2024-01-01"},{"id":"a","title":"Second","date":"2024-01-02"}]`))

	s := New(storage)
	s.Load()

	require.Len(t, s.Events(), 1)
	assert.Equal(t, "First", s.Events()[0].Title)
}

func TestPersistWritesOnlyAffectedSlice(t *testing.T) {
	storage := NewMemoryStorage()
	s := New(storage)

	s.SetSelectedDate(time.Date(2024, 1, 1, 0, 0, 0, 0, time.Local))
	s.SetCurrentView(calendar.ViewDay)
	assert.Equal(t, 0, storage.Writes())

	s.SetTheme(calendar.ThemePastel)
	_, hasEvents, _ := storage.Get(EventsKey)
	theme, hasTheme, _ := storage.Get(ThemeKey)
	assert.False(t, hasEvents)
	assert.True(t, hasTheme)
	assert.Equal(t, "pastel", theme)

	_, err := s.AddEvent(calendar.EventData{Title: "Lunch", Date: "2024-06-01"})
	require.NoError(t, err)
	raw, hasEvents, _ := storage.Get(EventsKey)
	assert.True(t, hasEvents)
	assert.Contains(t, raw, "Lunch")
	assert.Equal(t, 2, storage.Writes())
}

func TestIDCollisionRetries(t *testing.T) {
	var logs bytes.Buffer
	s := New(NewMemoryStorage(),
		WithIDGenerator(sequentialIDs("dup", "dup", "fresh")),
		WithLogger(bufferLogger(&logs)))

	first, err := s.AddEvent(calendar.EventData{Title: "One", Date: "2024-06-01"})
	require.NoError(t, err)
	assert.Equal(t, "dup", first.ID)

	second, err := s.AddEvent(calendar.EventData{Title: "Two", Date: "2024-06-01"})
	require.NoError(t, err)
	assert.Equal(t, "fresh", second.ID)
	assert.Contains(t, logs.String(), "event id collision")
}

func TestIDExhausted(t *testing.T) {
	s := New(NewMemoryStorage(), WithIDGenerator(func() string { return "same" }))

	_, err := s.AddEvent(calendar.EventData{Title: "One", Date: "2024-06-01"})
	require.NoError(t, err)

	_, err = s.AddEvent(calendar.EventData{Title: "Two", Date: "2024-06-01"})
	assert.ErrorIs(t, err, ErrIDExhausted)
	assert.Len(t, s.Events(), 1)
}

func TestDefaultIDsAreUnique(t *testing.T) {
	s := New(NewMemoryStorage())
	seen := make(map[string]bool)
	for i := 0; i < 200; i++ {
		event, err := s.AddEvent(calendar.EventData{Title: fmt.Sprintf("E%d", i), Date: "2024-06-01"})
		require.NoError(t, err)
		require.False(t, seen[event.ID], "duplicate id %s", event.ID)
		seen[event.ID] = true
	}
}

func TestNotifications(t *testing.T) {
	var got []Notification
	s := New(NewMemoryStorage(), WithNotifier(NotifierFunc(func(n Notification) {
		got = append(got, n)
	})))

	event, err := s.AddEvent(calendar.EventData{Title: "Lunch", Emoji: "🍔", Date: "2024-06-01"})
	require.NoError(t, err)
	s.UpdateEvent(event)
	s.UpdateEvent(calendar.Event{ID: "missing"})
	s.DeleteEvent("missing")
	s.DeleteEvent(event.ID)
	s.SetTheme(calendar.ThemeDark)
	s.SetCurrentView(calendar.ViewDay)

	require.Len(t, got, 4)
	assert.Equal(t, Notification{Title: "Event Added", Description: "🍔 Lunch"}, got[0])
	assert.Equal(t, "Event Updated", got[1].Title)
	assert.Equal(t, "Event Deleted", got[2].Title)
	assert.Equal(t, "Theme Changed: Theme set to dark", got[3].String())
}

func TestSubscribeRunsAfterPersistence(t *testing.T) {
	storage := NewMemoryStorage()
	s := New(storage)

	var sawWrite bool
	s.Subscribe(func(prev, next State, action Action) {
		if _, ok := action.(AddEvent); ok {
			_, sawWrite, _ = storage.Get(EventsKey)
		}
	})

	_, err := s.AddEvent(calendar.EventData{Title: "Lunch", Date: "2024-06-01"})
	require.NoError(t, err)
	assert.True(t, sawWrite)
}

func TestWatchUnsupportedForMemory(t *testing.T) {
	s := New(NewMemoryStorage())

	assert.ErrorIs(t, s.Watch(func(string) {}), ErrWatchUnsupported)
	assert.NoError(t, s.Close())
}

func TestOnNotifyAfterConstruction(t *testing.T) {
	s := New(NewMemoryStorage())
	_, err := s.AddEvent(calendar.EventData{Title: "Before", Date: "2024-06-01"})
	require.NoError(t, err)

	var got []string
	s.OnNotify(NotifierFunc(func(n Notification) {
		got = append(got, n.Title)
	}))
	s.SetTheme(calendar.ThemeMinimal)

	assert.Equal(t, []string{"Theme Changed"}, got)
}
