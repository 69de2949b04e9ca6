package scheduling

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// ErrInvalidClockTime is returned when a clock reading converts to no valid
// time of day, e.g. "13pm" or "10:75am".
var ErrInvalidClockTime = errors.New("scheduling: invalid clock time")

const (
	defaultHour   = 14
	defaultMinute = 0
)

// DateRule maps a keyword to a day offset computed from the reference time.
type DateRule struct {
	Keyword string
	Offset  func(now time.Time) int
}

// TimeRule maps a keyword to a time of day.
type TimeRule struct {
	Keyword string
	Hour    int
	Minute  int
}

var weekdays = []time.Weekday{
	time.Monday, time.Tuesday, time.Wednesday, time.Thursday,
	time.Friday, time.Saturday, time.Sunday,
}

// daysUntil returns the distance from now to the next wd, 0 when today is wd.
func daysUntil(now time.Time, wd time.Weekday) int {
	return (int(wd) - int(now.Weekday()) + 7) % 7
}

func fixedOffset(days int) func(time.Time) int {
	return func(time.Time) int { return days }
}

// DefaultDateRules is the ordered date keyword table. Phrases that contain
// other keywords come first so they are never shadowed.
func DefaultDateRules() []DateRule {
	rules := []DateRule{
		{Keyword: "day after tomorrow", Offset: fixedOffset(2)},
		{Keyword: "tomorrow", Offset: fixedOffset(1)},
		{Keyword: "today", Offset: fixedOffset(0)},
	}
	for _, wd := range weekdays {
		rules = append(rules, DateRule{
			Keyword: "next " + strings.ToLower(wd.String()),
			Offset:  func(now time.Time) int { return 7 + daysUntil(now, wd) },
		})
	}
	rules = append(rules, DateRule{Keyword: "next week", Offset: fixedOffset(7)})
	for _, wd := range weekdays {
		rules = append(rules, DateRule{
			Keyword: strings.ToLower(wd.String()),
			Offset: func(now time.Time) int {
				if d := daysUntil(now, wd); d > 0 {
					return d
				}
				return 7
			},
		})
	}
	return rules
}

// DefaultTimeRules is the ordered time-of-day keyword table.
func DefaultTimeRules() []TimeRule {
	return []TimeRule{
		{Keyword: "morning", Hour: 9},
		{Keyword: "afternoon", Hour: 14},
		{Keyword: "evening", Hour: 18},
		{Keyword: "night", Hour: 20},
		{Keyword: "lunch", Hour: 12},
		{Keyword: "breakfast", Hour: 8},
		{Keyword: "dinner", Hour: 19},
	}
}

var (
	clockWithMinutesRE = regexp.MustCompile(`(\d{1,2}):(\d{2})\s*(am|pm)`)
	clockHourOnlyRE    = regexp.MustCompile(`(\d{1,2})\s*(am|pm)`)
)

// Resolution is the outcome of resolving a phrase against a reference time.
type Resolution struct {
	Time        time.Time
	DateMatched bool
	TimeMatched bool
}

// DateTimeExtractor turns free text into a concrete wall-clock time using
// first-match-wins keyword tables.
type DateTimeExtractor struct {
	dateRules []DateRule
	timeRules []TimeRule
}

// NewDateTimeExtractor builds an extractor over the default rule tables.
func NewDateTimeExtractor() *DateTimeExtractor {
	return &DateTimeExtractor{
		dateRules: DefaultDateRules(),
		timeRules: DefaultTimeRules(),
	}
}

// NewDateTimeExtractorWithRules builds an extractor over custom tables.
// Rule order is the match order.
func NewDateTimeExtractorWithRules(dateRules []DateRule, timeRules []TimeRule) *DateTimeExtractor {
	return &DateTimeExtractor{dateRules: dateRules, timeRules: timeRules}
}

// Extract returns the target time for text relative to now. Text without any
// date or time signal resolves to today at 14:00.
func (e *DateTimeExtractor) Extract(text string, now time.Time) (time.Time, error) {
	res, err := e.Resolve(text, now)
	if err != nil {
		return time.Time{}, err
	}
	return res.Time, nil
}

// Resolve is Extract plus the flags telling which parts came from defaults.
func (e *DateTimeExtractor) Resolve(text string, now time.Time) (Resolution, error) {
	lower := strings.ToLower(strings.TrimSpace(text))

	offset, dateMatched := e.resolveDayOffset(lower, now)
	hour, minute, timeMatched, err := e.resolveTimeOfDay(lower)
	if err != nil {
		return Resolution{}, err
	}

	day := now.AddDate(0, 0, offset)
	target := time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, now.Location())
	return Resolution{
		Time:        target,
		DateMatched: dateMatched,
		TimeMatched: timeMatched,
	}, nil
}

func (e *DateTimeExtractor) resolveDayOffset(lower string, now time.Time) (int, bool) {
	for _, rule := range e.dateRules {
		if strings.Contains(lower, rule.Keyword) {
			return rule.Offset(now), true
		}
	}
	return 0, false
}

func (e *DateTimeExtractor) resolveTimeOfDay(lower string) (int, int, bool, error) {
	if m := clockWithMinutesRE.FindStringSubmatch(lower); m != nil {
		hour, minute, err := to24Hour(m[1], m[2], m[3])
		return hour, minute, true, err
	}
	if m := clockHourOnlyRE.FindStringSubmatch(lower); m != nil {
		hour, minute, err := to24Hour(m[1], "0", m[2])
		return hour, minute, true, err
	}
	for _, rule := range e.timeRules {
		if strings.Contains(lower, rule.Keyword) {
			return rule.Hour, rule.Minute, true, nil
		}
	}
	return defaultHour, defaultMinute, false, nil
}

// to24Hour converts a 12-hour reading. 12am is midnight and 12pm is noon.
// Out-of-range hours are shifted as-is, so "0am" is 00:00 and "13am" is 13:00;
// only a result past 23:59 ("13pm", "10:75am") is rejected.
func to24Hour(hourStr, minuteStr, meridiem string) (int, int, error) {
	hour, err := strconv.Atoi(hourStr)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: hour %q", ErrInvalidClockTime, hourStr)
	}
	minute, err := strconv.Atoi(minuteStr)
	if err != nil {
		return 0, 0, fmt.Errorf("%w: minute %q", ErrInvalidClockTime, minuteStr)
	}

	h := hour
	switch {
	case meridiem == "am" && hour == 12:
		h = 0
	case meridiem == "pm" && hour != 12:
		h += 12
	}
	if h > 23 || minute > 59 {
		return 0, 0, fmt.Errorf("%w: %d:%02d %s", ErrInvalidClockTime, hour, minute, meridiem)
	}
	return h, minute, nil
}
