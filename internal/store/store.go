package store

import (
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"time"

	"github.com/cwarden/zcal/internal/calendar"
	"github.com/google/uuid"
)

const maxIDAttempts = 8

var (
	ErrIDExhausted      = errors.New("could not generate a unique event id")
	ErrWatchUnsupported = errors.New("storage does not support watching")
)

// Hook runs after every dispatched action, once the new state is in place.
type Hook func(prev, next State, action Action)

// Store owns the calendar state. All mutation goes through Dispatch,
// which reduces the action and then runs the post-mutation hooks
// (persistence first). A Store is not safe for concurrent use.
type Store struct {
	state   State
	storage Storage
	logger  *slog.Logger
	hooks   []Hook
	newID   func() string
	watcher *Watcher

	// set by the first Load
	hydrated bool
}

type Option func(*Store)

func WithLogger(logger *slog.Logger) Option {
	return func(s *Store) {
		s.logger = logger
	}
}

// WithIDGenerator replaces the random UUID generator.
func WithIDGenerator(fn func() string) Option {
	return func(s *Store) {
		s.newID = fn
	}
}

// WithDefaults sets the view and theme used until storage says otherwise.
func WithDefaults(view calendar.View, theme calendar.Theme) Option {
	return func(s *Store) {
		s.state.CurrentView = view
		s.state.Theme = theme
	}
}

// WithNotifier delivers user-facing notifications for mutations.
func WithNotifier(n Notifier) Option {
	return func(s *Store) {
		s.hooks = append(s.hooks, notificationHook(n))
	}
}

func New(storage Storage, opts ...Option) *Store {
	s := &Store{
		state:   DefaultState(),
		storage: storage,
		logger:  slog.New(slog.DiscardHandler),
		newID:   uuid.NewString,
	}
	s.hooks = []Hook{s.persist}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Subscribe adds a hook that runs after the ones already registered.
func (s *Store) Subscribe(h Hook) {
	s.hooks = append(s.hooks, h)
}

// OnNotify delivers notifications for mutations dispatched from now on.
func (s *Store) OnNotify(n Notifier) {
	s.Subscribe(notificationHook(n))
}

// Dispatch applies action and runs the hooks.
func (s *Store) Dispatch(action Action) State {
	prev := s.state
	s.state = Reduce(prev, action)
	for _, h := range s.hooks {
		h(prev, s.state, action)
	}
	return s.State()
}

// State returns a copy of the current state.
func (s *Store) State() State {
	st := s.state
	st.Events = slices.Clone(s.state.Events)
	return st
}

func (s *Store) Events() []calendar.Event {
	return slices.Clone(s.state.Events)
}

// Event looks up a held event by id.
func (s *Store) Event(id string) (calendar.Event, bool) {
	i := indexOf(s.state.Events, id)
	if i < 0 {
		return calendar.Event{}, false
	}
	return s.state.Events[i], true
}

// AddEvent assigns a fresh id to data and appends the event.
func (s *Store) AddEvent(data calendar.EventData) (calendar.Event, error) {
	id, err := s.uniqueID()
	if err != nil {
		return calendar.Event{}, err
	}
	event := data.WithID(id)
	s.Dispatch(AddEvent{Event: event})
	return event, nil
}

// UpdateEvent replaces the event with the same id; absent ids are ignored.
func (s *Store) UpdateEvent(event calendar.Event) {
	s.Dispatch(UpdateEvent{Event: event})
}

// DeleteEvent removes the event with id; absent ids are ignored.
func (s *Store) DeleteEvent(id string) {
	s.Dispatch(DeleteEvent{ID: id})
}

func (s *Store) SetSelectedDate(date time.Time) {
	s.Dispatch(SetSelectedDate{Date: date})
}

func (s *Store) SetCurrentView(view calendar.View) {
	s.Dispatch(SetCurrentView{View: view})
}

func (s *Store) SetTheme(theme calendar.Theme) {
	s.Dispatch(SetTheme{Theme: theme})
}

// uniqueID retries the generator until it yields an id no held event uses.
func (s *Store) uniqueID() (string, error) {
	for i := 0; i < maxIDAttempts; i++ {
		id := s.newID()
		if id == "" {
			continue
		}
		if indexOf(s.state.Events, id) < 0 {
			return id, nil
		}
		s.logger.Warn("event id collision, retrying", "id", id, "attempt", i+1)
	}
	return "", ErrIDExhausted
}

// Load rehydrates events and theme from storage. A snapshot that cannot
// be read or parsed is logged and discarded as a whole. On the first Load
// that leaves the defaults in place; later loads keep the events already
// held.
func (s *Store) Load() {
	hydrate := Hydrate{}

	events, err := s.loadEvents()
	switch {
	case err != nil && s.hydrated:
		s.logger.Error("failed to reload saved events, keeping current ones", "err", err, "events", len(s.state.Events))
		hydrate.KeepEvents = true
	case err != nil:
		s.logger.Error("failed to load saved events", "err", err)
	default:
		hydrate.Events = events
	}

	theme, err := s.loadTheme()
	if err != nil {
		s.logger.Error("failed to load saved theme", "err", err)
		theme = ""
	}

	hydrate.Theme = theme
	s.Dispatch(hydrate)
	s.hydrated = true
	s.logger.Debug("store loaded", "events", len(s.state.Events), "theme", s.state.Theme)
}

func (s *Store) loadEvents() ([]calendar.Event, error) {
	raw, ok, err := s.storage.Get(EventsKey)
	if err != nil || !ok {
		return nil, err
	}

	events, err := DecodeEvents(raw)
	if err != nil {
		return nil, err
	}

	seen := make(map[string]bool, len(events))
	unique := events[:0]
	for _, event := range events {
		if seen[event.ID] {
			s.logger.Warn("dropping saved event with duplicate id", "id", event.ID)
			continue
		}
		seen[event.ID] = true
		unique = append(unique, event)
	}
	return unique, nil
}

func (s *Store) loadTheme() (calendar.Theme, error) {
	raw, ok, err := s.storage.Get(ThemeKey)
	if err != nil || !ok {
		return "", err
	}
	return calendar.ParseTheme(raw)
}

// persist writes back the slice an action changed.
func (s *Store) persist(prev, next State, action Action) {
	switch action.(type) {
	case AddEvent, UpdateEvent, DeleteEvent:
		raw, err := EncodeEvents(next.Events)
		if err == nil {
			err = s.storage.Set(EventsKey, raw)
		}
		if err != nil {
			s.logger.Error("failed to save events", "err", err)
		}

	case SetTheme:
		if err := s.storage.Set(ThemeKey, next.Theme.String()); err != nil {
			s.logger.Error("failed to save theme", "err", err)
		}
	}
}

// Watch starts watching file-backed storage and calls onChange with the
// key of any entry modified on disk. The callback runs on the watcher's
// goroutine.
func (s *Store) Watch(onChange func(key string)) error {
	fs, ok := s.storage.(*FileStorage)
	if !ok {
		return ErrWatchUnsupported
	}
	if s.watcher != nil {
		return nil
	}

	watcher, err := NewWatcher(fs.Dir(), []string{EventsKey, ThemeKey}, onChange)
	if err != nil {
		return fmt.Errorf("failed to watch %s: %w", fs.Dir(), err)
	}
	s.watcher = watcher
	return nil
}

// Close stops the storage watcher, if any.
func (s *Store) Close() error {
	if s.watcher == nil {
		return nil
	}
	err := s.watcher.Close()
	s.watcher = nil
	return err
}
