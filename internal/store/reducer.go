package store

import (
	"slices"
	"time"

	"github.com/cwarden/zcal/internal/calendar"
)

// State is everything the calendar session knows.
type State struct {
	Events       []calendar.Event
	SelectedDate time.Time
	CurrentView  calendar.View
	Theme        calendar.Theme
}

// DefaultState is the state before anything is loaded.
func DefaultState() State {
	return State{
		Events:       []calendar.Event{},
		SelectedDate: calendar.StartOfDay(time.Now()),
		CurrentView:  calendar.DefaultView,
		Theme:        calendar.DefaultTheme,
	}
}

// Reduce computes the state that follows action. It has no side effects
// and never writes through the input's Events slice; unknown actions
// return state unchanged.
func Reduce(state State, action Action) State {
	switch a := action.(type) {
	case AddEvent:
		events := make([]calendar.Event, 0, len(state.Events)+1)
		events = append(events, state.Events...)
		state.Events = append(events, a.Event)

	case UpdateEvent:
		i := indexOf(state.Events, a.Event.ID)
		if i < 0 {
			return state
		}
		events := slices.Clone(state.Events)
		events[i] = a.Event
		state.Events = events

	case DeleteEvent:
		if indexOf(state.Events, a.ID) < 0 {
			return state
		}
		events := make([]calendar.Event, 0, len(state.Events)-1)
		for _, event := range state.Events {
			if event.ID != a.ID {
				events = append(events, event)
			}
		}
		state.Events = events

	case SetSelectedDate:
		state.SelectedDate = a.Date

	case SetCurrentView:
		state.CurrentView = a.View

	case SetTheme:
		state.Theme = a.Theme

	case Hydrate:
		if !a.KeepEvents {
			state.Events = slices.Clone(a.Events)
			if state.Events == nil {
				state.Events = []calendar.Event{}
			}
		}
		if a.Theme != "" {
			state.Theme = a.Theme
		}
	}

	return state
}

func indexOf(events []calendar.Event, id string) int {
	return slices.IndexFunc(events, func(e calendar.Event) bool {
		return e.ID == id
	})
}
