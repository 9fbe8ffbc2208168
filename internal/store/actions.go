package store

import (
	"time"

	"github.com/cwarden/zcal/internal/calendar"
)

// Action is one of the closed set of state transitions accepted by Reduce.
type Action interface {
	action()
}

type AddEvent struct {
	Event calendar.Event
}

type UpdateEvent struct {
	Event calendar.Event
}

type DeleteEvent struct {
	ID string
}

type SetSelectedDate struct {
	Date time.Time
}

type SetCurrentView struct {
	View calendar.View
}

type SetTheme struct {
	Theme calendar.Theme
}

// Hydrate replaces the persisted slices with a snapshot read from
// storage. An empty Theme keeps the current one, as does KeepEvents for
// the events. Hydrate is never written back.
type Hydrate struct {
	Events     []calendar.Event
	KeepEvents bool
	Theme      calendar.Theme
}

func (AddEvent) action()        {}
func (UpdateEvent) action()     {}
func (DeleteEvent) action()     {}
func (SetSelectedDate) action() {}
func (SetCurrentView) action()  {}
func (SetTheme) action()        {}
func (Hydrate) action()         {}
