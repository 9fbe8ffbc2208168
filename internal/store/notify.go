package store

import (
	"fmt"
	"strings"
)

// Notification is an advisory message about a completed mutation.
type Notification struct {
	Title       string
	Description string
}

func (n Notification) String() string {
	if n.Description == "" {
		return n.Title
	}
	return n.Title + ": " + n.Description
}

type Notifier interface {
	Notify(Notification)
}

type NotifierFunc func(Notification)

func (f NotifierFunc) Notify(n Notification) {
	f(n)
}

// notificationHook reports adds, updates, deletes and theme changes.
// Updates and deletes of unknown ids are silent.
func notificationHook(n Notifier) Hook {
	return func(prev, next State, action Action) {
		switch a := action.(type) {
		case AddEvent:
			n.Notify(Notification{Title: "Event Added", Description: label(a.Event.Emoji, a.Event.Title)})
		case UpdateEvent:
			if indexOf(prev.Events, a.Event.ID) >= 0 {
				n.Notify(Notification{Title: "Event Updated", Description: label(a.Event.Emoji, a.Event.Title)})
			}
		case DeleteEvent:
			if len(next.Events) != len(prev.Events) {
				n.Notify(Notification{Title: "Event Deleted", Description: "Event has been removed from your calendar"})
			}
		case SetTheme:
			n.Notify(Notification{Title: "Theme Changed", Description: fmt.Sprintf("Theme set to %s", a.Theme)})
		}
	}
}

func label(emoji, title string) string {
	return strings.TrimSpace(emoji + " " + title)
}
