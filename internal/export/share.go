package export

import (
	"context"
	"errors"
	"fmt"
	"image"
	"image/png"
	"log/slog"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/cwarden/zcal/internal/calendar"
)

// ErrShareUnavailable means no share target exists on this system.
var ErrShareUnavailable = errors.New("sharing is not available")

// Sharer hands a rendered card to something outside the application.
type Sharer interface {
	Share(ctx context.Context, path, title string) error
}

// CommandSharer runs an external program with the card path as its last
// argument, such as "xdg-open".
type CommandSharer struct {
	Command string
	Args    []string
}

func (c CommandSharer) Share(ctx context.Context, path, title string) error {
	if c.Command == "" {
		return ErrShareUnavailable
	}
	if _, err := exec.LookPath(c.Command); err != nil {
		return fmt.Errorf("%w: %v", ErrShareUnavailable, err)
	}

	args := append(append([]string{}, c.Args...), path)
	out, err := exec.CommandContext(ctx, c.Command, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("share command failed: %w: %s", err, strings.TrimSpace(string(out)))
	}
	return nil
}

// NewCommandSharer splits a configured command line. An empty line
// yields a nil Sharer.
func NewCommandSharer(line string) Sharer {
	fields := strings.Fields(line)
	if len(fields) == 0 {
		return nil
	}
	return CommandSharer{Command: fields[0], Args: fields[1:]}
}

// Exporter writes cards into Dir and optionally shares them.
type Exporter struct {
	Dir    string
	Sharer Sharer
	Logger *slog.Logger
}

// Outcome describes where a shared card ended up.
type Outcome struct {
	Path   string
	Shared bool
}

// Share renders the event card and saves it as
// "<title>-calendar-event.png". The saved file is the fallback when the
// Sharer is missing or fails.
func (e *Exporter) Share(ctx context.Context, event calendar.Event, theme calendar.Theme) (Outcome, error) {
	path := filepath.Join(e.Dir, FileName(event))
	if err := WritePNG(path, RenderCard(event, theme)); err != nil {
		return Outcome{}, err
	}

	outcome := Outcome{Path: path}
	if e.Sharer == nil {
		return outcome, nil
	}

	if err := e.Sharer.Share(ctx, path, event.Title); err != nil {
		e.logger().Warn("sharing failed, keeping saved card", "path", path, "error", err)
		return outcome, nil
	}

	outcome.Shared = true
	return outcome, nil
}

func (e *Exporter) logger() *slog.Logger {
	if e.Logger == nil {
		return slog.New(slog.DiscardHandler)
	}
	return e.Logger
}

// FileName is the card file name for an event.
func FileName(event calendar.Event) string {
	name := strings.Map(func(r rune) rune {
		switch r {
		case '/', '\\', ':', '*', '?', '"', '<', '>', '|':
			return '-'
		}
		if r < 0x20 {
			return -1
		}
		return r
	}, strings.TrimSpace(event.Title))

	if name == "" || name == "." || name == ".." {
		name = "event"
	}
	return name + "-calendar-event.png"
}

// WritePNG encodes img to path through a temp file.
func WritePNG(path string, img image.Image) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("creating export directory: %w", err)
	}

	tmp, err := os.CreateTemp(dir, ".card-*.png")
	if err != nil {
		return err
	}
	defer os.Remove(tmp.Name())

	if err := png.Encode(tmp, img); err != nil {
		tmp.Close()
		return fmt.Errorf("encoding card: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return err
	}
	if err := os.Chmod(tmp.Name(), 0o644); err != nil {
		return err
	}

	return os.Rename(tmp.Name(), path)
}
