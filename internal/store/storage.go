package store

import (
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/cwarden/zcal/internal/calendar"
)

// Storage keys. Each key is an independent entry; events and theme are
// never written together.
const (
	EventsKey = "calendarEvents"
	ThemeKey  = "calendarTheme"
)

const eventsSchemaVersion = 1

// Storage is a durable string key-value store.
type Storage interface {
	// Get returns the stored value and whether the key exists.
	Get(key string) (string, bool, error)
	Set(key, value string) error
}

// FileStorage keeps each key in its own file under a directory.
type FileStorage struct {
	dir string
}

func NewFileStorage(dir string) (*FileStorage, error) {
	if err := os.MkdirAll(dir, 0o700); err != nil {
		return nil, fmt.Errorf("failed to create data dir: %w", err)
	}
	return &FileStorage{dir: dir}, nil
}

func (f *FileStorage) Dir() string {
	return f.dir
}

func (f *FileStorage) Path(key string) string {
	return filepath.Join(f.dir, key)
}

func (f *FileStorage) Get(key string) (string, bool, error) {
	data, err := os.ReadFile(f.Path(key))
	if errors.Is(err, fs.ErrNotExist) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read %s: %w", key, err)
	}
	return string(data), true, nil
}

// Set replaces the value atomically via a temp file and rename.
func (f *FileStorage) Set(key, value string) error {
	tmp, err := os.CreateTemp(f.dir, "."+key+"-*")
	if err != nil {
		return fmt.Errorf("failed to create temp file for %s: %w", key, err)
	}
	defer os.Remove(tmp.Name())

	if _, err := tmp.WriteString(value); err != nil {
		tmp.Close()
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to write %s: %w", key, err)
	}
	if err := os.Rename(tmp.Name(), f.Path(key)); err != nil {
		return fmt.Errorf("failed to replace %s: %w", key, err)
	}
	return nil
}

// MemoryStorage is a Storage that lives only as long as the process.
type MemoryStorage struct {
	mu     sync.RWMutex
	values map[string]string
	writes int
}

func NewMemoryStorage() *MemoryStorage {
	return &MemoryStorage{values: make(map[string]string)}
}

func (m *MemoryStorage) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.values[key]
	return v, ok, nil
}

func (m *MemoryStorage) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.values[key] = value
	m.writes++
	return nil
}

// Writes counts Set calls.
func (m *MemoryStorage) Writes() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.writes
}

type eventsDocument struct {
	Version int              `json:"version"`
	Events  []calendar.Event `json:"events"`
}

// EncodeEvents serializes the full events collection.
func EncodeEvents(events []calendar.Event) (string, error) {
	if events == nil {
		events = []calendar.Event{}
	}
	data, err := json.Marshal(eventsDocument{Version: eventsSchemaVersion, Events: events})
	if err != nil {
		return "", fmt.Errorf("failed to encode events: %w", err)
	}
	return string(data), nil
}

// DecodeEvents parses a stored events snapshot. A bare JSON array is the
// unversioned layout and is still accepted. Any malformed record fails
// the whole snapshot.
func DecodeEvents(raw string) ([]calendar.Event, error) {
	raw = strings.TrimSpace(raw)

	var events []calendar.Event
	if strings.HasPrefix(raw, "[") {
		if err := json.Unmarshal([]byte(raw), &events); err != nil {
			return nil, fmt.Errorf("failed to parse saved events: %w", err)
		}
	} else {
		var doc eventsDocument
		if err := json.Unmarshal([]byte(raw), &doc); err != nil {
			return nil, fmt.Errorf("failed to parse saved events: %w", err)
		}
		if doc.Version != eventsSchemaVersion {
			return nil, fmt.Errorf("unsupported events schema version %d", doc.Version)
		}
		events = doc.Events
	}

	for i, event := range events {
		if event.ID == "" {
			return nil, fmt.Errorf("saved event %d has no id", i)
		}
		if err := event.Data().Validate(); err != nil {
			return nil, fmt.Errorf("saved event %s: %w", event.ID, err)
		}
	}
	if events == nil {
		events = []calendar.Event{}
	}
	return events, nil
}
