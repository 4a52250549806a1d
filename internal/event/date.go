package event

import (
	"regexp"
	"strings"
	"time"
)

var (
	// "Jan 5, 2025", "January 05 2025", "Sat, Jan 25, 2025 06:00 PM"
	monthDayYear = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?\s+(\d{1,2})(?:st|nd|rd|th)?,?\s+(\d{4})\b`)
	// "25 Jan 2025"
	dayMonthYear = regexp.MustCompile(`(?i)\b(\d{1,2})(?:st|nd|rd|th)?\s+(jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?,?\s+(\d{4})\b`)
	// "Jan 24" with no year
	monthDay = regexp.MustCompile(`(?i)\b(jan|feb|mar|apr|may|jun|jul|aug|sep|sept|oct|nov|dec)[a-z]*\.?\s+(\d{1,2})\b`)
)

// ParseDate attempts to parse raw event date text into a time.Time.
// Returns time.Time{} (zero value) if parsing fails.
// The first date found wins, so ranges resolve to their start.
// Supports formats: "Sat, Jan 25, 2025 06:00 PM", "Jan 5, 2025", "25 Jan 2025",
// "4.4.26", "02/15/26", "Jan 24" (current year)
func ParseDate(dateText string) time.Time {
	dateText = strings.TrimSpace(dateText)
	if dateText == "" || dateText == NotAvailable {
		return time.Time{}
	}

	if m := monthDayYear.FindStringSubmatch(dateText); m != nil {
		if t, ok := build(m[1], m[2], m[3]); ok {
			return t
		}
	}

	if m := dayMonthYear.FindStringSubmatch(dateText); m != nil {
		if t, ok := build(m[2], m[1], m[3]); ok {
			return t
		}
	}

	for _, layout := range []string{"1.2.06", "01.02.06", "01/02/06", "1/2/2006", "2006-01-02"} {
		if t, err := time.Parse(layout, dateText); err == nil {
			return t
		}
	}

	if m := monthDay.FindStringSubmatch(dateText); m != nil {
		if t, ok := build(m[1], m[2], ""); ok {
			return t
		}
	}

	// Could not parse, return zero time
	return time.Time{}
}

// build assembles a date from month name, day and year text. An empty year
// means the current year.
func build(month, day, year string) (time.Time, bool) {
	if year == "" {
		year = time.Now().Format("2006")
	}
	month = strings.ToLower(month)
	if len(month) > 3 {
		month = month[:3]
	}
	if len(day) == 1 {
		day = "0" + day
	}
	t, err := time.Parse("Jan 02 2006", month+" "+day+" "+year)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}

// Day returns the record's parsed date, or the zero time.
func (r *Record) Day() time.Time {
	return ParseDate(r.Date)
}

// IsPastEvent reports whether the event's day is before today. Events
// happening today are not past. Returns false if the date cannot be parsed.
func (r *Record) IsPastEvent() bool {
	parsed := r.Day()
	if parsed.IsZero() {
		return false
	}
	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, parsed.Location())
	return parsed.Before(today)
}

// IsWeekend reports whether the event falls on Saturday or Sunday.
// Unparseable dates are not weekends.
func (r *Record) IsWeekend() bool {
	parsed := r.Day()
	if parsed.IsZero() {
		return false
	}
	return parsed.Weekday() == time.Saturday || parsed.Weekday() == time.Sunday
}
