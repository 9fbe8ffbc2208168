// Package ics converts calendar events to and from iCalendar files.
package ics

import (
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/cwarden/zcal/internal/calendar"
	"github.com/emersion/go-ical"
)

const (
	productID = "-//zcal//Z-Calendar//EN"

	propEmoji = "X-ZCAL-EMOJI"
	propColor = "COLOR"
)

// ErrNoEvents is returned by Encode when there is nothing to write.
var ErrNoEvents = errors.New("no events to export")

// Encode writes events as a single VCALENDAR of all-day VEVENTs.
func Encode(w io.Writer, events []calendar.Event) error {
	if len(events) == 0 {
		return ErrNoEvents
	}

	cal := ical.NewCalendar()
	cal.Props.SetText(ical.PropVersion, "2.0")
	cal.Props.SetText(ical.PropProductID, productID)

	stamp := time.Now().UTC()
	for _, e := range events {
		day, err := calendar.ParseDate(e.Date)
		if err != nil {
			return fmt.Errorf("event %s: %w", e.ID, err)
		}

		event := ical.NewEvent()
		event.Props.SetText(ical.PropUID, e.ID)
		event.Props.SetDateTime(ical.PropDateTimeStamp, stamp)
		event.Props.SetText(ical.PropSummary, e.Title)
		event.Props.SetDate(ical.PropDateTimeStart, day)
		event.Props.SetDate(ical.PropDateTimeEnd, day.AddDate(0, 0, 1))
		if e.Emoji != "" {
			event.Props.SetText(propEmoji, e.Emoji)
		}
		if e.Color != "" {
			event.Props.SetText(propColor, e.Color)
		}

		cal.Children = append(cal.Children, event.Component)
	}

	return ical.NewEncoder(w).Encode(cal)
}

// Entry is one decoded VEVENT. UID is empty when the event had none.
type Entry struct {
	UID  string
	Data calendar.EventData
}

// Result is what Decode recovered from a file.
type Result struct {
	Events  []Entry
	Skipped int
}

// Decode reads every VEVENT in r. Events without a summary or start date
// are counted in Skipped. Timed events land on their local calendar day
// and recurrence rules are ignored.
func Decode(r io.Reader) (Result, error) {
	var result Result

	decoder := ical.NewDecoder(r)
	for {
		cal, err := decoder.Decode()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			return result, fmt.Errorf("failed to decode calendar: %w", err)
		}

		for _, comp := range cal.Children {
			if comp.Name != ical.CompEvent {
				continue
			}

			entry, ok := parseEvent(comp)
			if !ok {
				result.Skipped++
				continue
			}
			result.Events = append(result.Events, entry)
		}
	}

	return result, nil
}

func parseEvent(comp *ical.Component) (Entry, bool) {
	var entry Entry
	data := &entry.Data

	if prop := comp.Props.Get(ical.PropUID); prop != nil {
		if text, err := prop.Text(); err == nil {
			entry.UID = strings.TrimSpace(text)
		}
	}

	if prop := comp.Props.Get(ical.PropSummary); prop != nil {
		if text, err := prop.Text(); err == nil {
			data.Title = strings.TrimSpace(text)
		}
	}

	prop := comp.Props.Get(ical.PropDateTimeStart)
	if prop == nil {
		return entry, false
	}
	start, err := prop.DateTime(time.Local)
	if err != nil {
		return entry, false
	}
	data.Date = calendar.FormatDate(start.In(time.Local))

	if prop := comp.Props.Get(propEmoji); prop != nil {
		data.Emoji, _ = prop.Text()
	}
	if prop := comp.Props.Get(propColor); prop != nil {
		data.Color, _ = prop.Text()
	}

	return entry, data.Validate() == nil
}
