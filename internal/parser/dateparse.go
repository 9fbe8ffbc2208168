package parser

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/cwarden/zcal/internal/calendar"
)

// ParsedEntry is the result of parsing a quick-entry line such as
// "tomorrow Lunch with Sam".
type ParsedEntry struct {
	Date     time.Time
	Explicit bool   // false when no date was given and today was assumed
	Text     string // Remaining text after the date expression
}

type DateParser struct {
	now      time.Time
	location *time.Location
}

var (
	canonicalRe = regexp.MustCompile(`^(\d{4})-(\d{2})-(\d{2})\b`)
	weekdayRe   = regexp.MustCompile(`^(next|this)\s+(mon|monday|tue|tuesday|wed|wednesday|thu|thursday|fri|friday|sat|saturday|sun|sunday)\b`)
	inRe        = regexp.MustCompile(`^in\s+(\d+)\s+(day|days|week|weeks|month|months)\b`)
	fromNowRe   = regexp.MustCompile(`^(\d+)\s+(day|days|week|weeks|month|months)\s+from\s+(now|today)\b`)
	offsetRe    = regexp.MustCompile(`^([+-])(\d+)([dwm])\b`)
	fullDateRe  = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})[/-](\d{4})\b`)
	shortDateRe = regexp.MustCompile(`^(\d{1,2})[/-](\d{1,2})\b`)
	monthNameRe = regexp.MustCompile(`^(jan|january|feb|february|mar|march|apr|april|may|jun|june|jul|july|aug|august|sep|september|oct|october|nov|november|dec|december)\s+(\d{1,2})(?:,?\s+(\d{4}))?\b`)
)

func NewDateParser() *DateParser {
	return &DateParser{
		now:      time.Now(),
		location: time.Local,
	}
}

func (p *DateParser) SetNow(now time.Time) {
	p.now = now
}

// Parse splits input into a leading date expression and the rest. Input
// without a recognizable date is dated today.
func (p *DateParser) Parse(input string) (*ParsedEntry, error) {
	input = strings.TrimSpace(input)
	if input == "" {
		return nil, fmt.Errorf("empty input")
	}

	result := &ParsedEntry{Date: p.today(), Text: input}

	if date, text, ok, err := p.parseAbsoluteDate(input); err != nil {
		return nil, err
	} else if ok {
		result.Date, result.Text, result.Explicit = date, text, true
	} else if date, text, ok := p.parseRelativeDate(input); ok {
		result.Date, result.Text, result.Explicit = date, text, true
	}

	return result, nil
}

// ParseDate accepts input that is only a date expression, as typed into
// a date field or the goto prompt.
func (p *DateParser) ParseDate(input string) (time.Time, error) {
	entry, err := p.Parse(input)
	if err != nil {
		return time.Time{}, err
	}
	if !entry.Explicit || entry.Text != "" {
		return time.Time{}, fmt.Errorf("invalid date: %s", input)
	}
	return entry.Date, nil
}

func (p *DateParser) parseRelativeDate(input string) (time.Time, string, bool) {
	lower := strings.ToLower(input)

	for _, word := range []struct {
		prefix string
		days   int
	}{
		{"today", 0},
		{"tomorrow", 1},
		{"tmrw", 1},
		{"yesterday", -1},
	} {
		if hasWord(lower, word.prefix) {
			return p.today().AddDate(0, 0, word.days), strings.TrimSpace(input[len(word.prefix):]), true
		}
	}

	if matches := weekdayRe.FindStringSubmatch(lower); matches != nil {
		date := p.findNextWeekday(parseWeekday(matches[2]), matches[1] == "next")
		return date, strings.TrimSpace(input[len(matches[0]):]), true
	}

	if matches := inRe.FindStringSubmatch(lower); matches != nil {
		n, _ := strconv.Atoi(matches[1])
		return p.shift(n, matches[2]), strings.TrimSpace(input[len(matches[0]):]), true
	}

	if matches := fromNowRe.FindStringSubmatch(lower); matches != nil {
		n, _ := strconv.Atoi(matches[1])
		return p.shift(n, matches[2]), strings.TrimSpace(input[len(matches[0]):]), true
	}

	if matches := offsetRe.FindStringSubmatch(lower); matches != nil {
		n, _ := strconv.Atoi(matches[2])
		if matches[1] == "-" {
			n = -n
		}
		return p.shift(n, matches[3]), strings.TrimSpace(input[len(matches[0]):]), true
	}

	return time.Time{}, input, false
}

func (p *DateParser) shift(n int, unit string) time.Time {
	date := p.today()
	switch {
	case strings.HasPrefix(unit, "d"):
		return date.AddDate(0, 0, n)
	case strings.HasPrefix(unit, "w"):
		return date.AddDate(0, 0, n*7)
	case strings.HasPrefix(unit, "m"):
		return date.AddDate(0, n, 0)
	}
	return date
}

func (p *DateParser) parseAbsoluteDate(input string) (time.Time, string, bool, error) {
	if matches := canonicalRe.FindStringSubmatch(input); matches != nil {
		date, err := calendar.ParseDate(matches[0])
		if err != nil {
			return time.Time{}, input, false, err
		}
		return date, strings.TrimSpace(input[len(matches[0]):]), true, nil
	}

	// MM/DD/YYYY or MM-DD-YYYY
	if matches := fullDateRe.FindStringSubmatch(input); matches != nil {
		month, _ := strconv.Atoi(matches[1])
		day, _ := strconv.Atoi(matches[2])
		year, _ := strconv.Atoi(matches[3])

		date, err := p.date(year, time.Month(month), day)
		return date, strings.TrimSpace(input[len(matches[0]):]), err == nil, err
	}

	// MM/DD or MM-DD in the current year
	if matches := shortDateRe.FindStringSubmatch(input); matches != nil {
		month, _ := strconv.Atoi(matches[1])
		day, _ := strconv.Atoi(matches[2])

		date, err := p.date(p.now.Year(), time.Month(month), day)
		return date, strings.TrimSpace(input[len(matches[0]):]), err == nil, err
	}

	// Month DD, YYYY or Month DD
	if matches := monthNameRe.FindStringSubmatch(strings.ToLower(input)); matches != nil {
		day, _ := strconv.Atoi(matches[2])
		year := p.now.Year()
		if matches[3] != "" {
			year, _ = strconv.Atoi(matches[3])
		}

		date, err := p.date(year, parseMonth(matches[1]), day)
		return date, strings.TrimSpace(input[len(matches[0]):]), err == nil, err
	}

	return time.Time{}, input, false, nil
}

// date builds a local midnight and rejects values time.Date would normalize.
func (p *DateParser) date(year int, month time.Month, day int) (time.Time, error) {
	t := time.Date(year, month, day, 0, 0, 0, 0, p.location)
	if t.Year() != year || t.Month() != month || t.Day() != day {
		return time.Time{}, fmt.Errorf("invalid date: %04d-%02d-%02d", year, int(month), day)
	}
	return t, nil
}

func (p *DateParser) findNextWeekday(target time.Weekday, skipThisWeek bool) time.Time {
	date := p.today()
	daysUntilTarget := int(target - date.Weekday())

	if daysUntilTarget <= 0 || skipThisWeek {
		daysUntilTarget += 7
	}

	return date.AddDate(0, 0, daysUntilTarget)
}

func (p *DateParser) today() time.Time {
	y, m, d := p.now.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, p.location)
}

func hasWord(s, word string) bool {
	if !strings.HasPrefix(s, word) {
		return false
	}
	return len(s) == len(word) || s[len(word)] == ' '
}

func parseWeekday(s string) time.Weekday {
	switch s {
	case "mon", "monday":
		return time.Monday
	case "tue", "tuesday":
		return time.Tuesday
	case "wed", "wednesday":
		return time.Wednesday
	case "thu", "thursday":
		return time.Thursday
	case "fri", "friday":
		return time.Friday
	case "sat", "saturday":
		return time.Saturday
	default:
		return time.Sunday
	}
}

func parseMonth(s string) time.Month {
	for m := time.January; m <= time.December; m++ {
		if strings.HasPrefix(strings.ToLower(m.String()), s) {
			return m
		}
	}
	return time.January
}
