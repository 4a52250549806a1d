// Package calendar exports events as iCalendar (RFC 5545) files.
package calendar

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/cityevents/internal/event"
)

const (
	prodID        = "-//cityevents//cityevents//EN"
	uidDomain     = "events.sulekha.com"
	maxLineOctets = 75
	// timedDuration is assumed for events that list a start time only.
	timedDuration = 3 * time.Hour
)

var clockPattern = regexp.MustCompile(`(?i)\b(\d{1,2}):(\d{2})\s*(am|pm)\b`)

// GenerateICS generates a single-event calendar. Events whose date cannot
// be parsed produce a calendar with no VEVENT.
func GenerateICS(r *event.Record) string {
	return GenerateBulkICS([]*event.Record{r}, "")
}

// GenerateBulkICS generates one calendar holding every dated event. Events
// with unparseable dates are skipped. No records gives an empty string.
func GenerateBulkICS(records []*event.Record, calendarName string) string {
	if len(records) == 0 {
		return ""
	}

	var ics strings.Builder
	now := time.Now().UTC()

	writeLine(&ics, "BEGIN:VCALENDAR")
	writeLine(&ics, "VERSION:2.0")
	writeLine(&ics, "PRODID:"+prodID)
	writeLine(&ics, "CALSCALE:GREGORIAN")
	writeLine(&ics, "METHOD:PUBLISH")
	if calendarName != "" {
		writeLine(&ics, "X-WR-CALNAME:"+escapeICS(calendarName))
	}

	for _, r := range records {
		writeEvent(&ics, r, now)
	}

	writeLine(&ics, "END:VCALENDAR")
	return ics.String()
}

func writeEvent(ics *strings.Builder, r *event.Record, now time.Time) {
	day := r.Day()
	if day.IsZero() {
		return
	}

	writeLine(ics, "BEGIN:VEVENT")
	writeLine(ics, fmt.Sprintf("UID:%s@%s", uid(r), uidDomain))
	writeLine(ics, "DTSTAMP:"+formatICSTime(now))

	// Source pages give local times without a zone, so timed events are
	// written as floating times.
	if start, ok := startTime(day, r.Date); ok {
		writeLine(ics, "DTSTART:"+start.Format("20060102T150405"))
		writeLine(ics, "DTEND:"+start.Add(timedDuration).Format("20060102T150405"))
	} else {
		writeLine(ics, "DTSTART;VALUE=DATE:"+day.Format("20060102"))
		writeLine(ics, "DTEND;VALUE=DATE:"+day.AddDate(0, 0, 1).Format("20060102"))
	}

	writeLine(ics, "SUMMARY:"+escapeICS(r.Title))
	writeLine(ics, "DESCRIPTION:"+escapeICS(description(r)))
	if loc := location(r); loc != "" {
		writeLine(ics, "LOCATION:"+escapeICS(loc))
	}
	if r.Category != event.NotAvailable {
		writeLine(ics, "CATEGORIES:"+escapeICS(r.Category))
	}
	if r.HasLink() {
		writeLine(ics, "URL:"+r.Link)
	}
	writeLine(ics, "STATUS:CONFIRMED")
	writeLine(ics, "TRANSP:OPAQUE")
	writeLine(ics, "END:VEVENT")
}

func uid(r *event.Record) string {
	if r.ID != "" && r.ID != event.NotAvailable {
		return r.ID
	}
	return r.Fingerprint()
}

// startTime combines day with the first "h:mm AM/PM" found in the date text.
func startTime(day time.Time, dateText string) (time.Time, bool) {
	m := clockPattern.FindStringSubmatch(dateText)
	if m == nil {
		return time.Time{}, false
	}
	hour, _ := strconv.Atoi(m[1])
	minute, _ := strconv.Atoi(m[2])
	if hour < 1 || hour > 12 || minute > 59 {
		return time.Time{}, false
	}
	if strings.EqualFold(m[3], "pm") && hour != 12 {
		hour += 12
	}
	if strings.EqualFold(m[3], "am") && hour == 12 {
		hour = 0
	}
	return time.Date(day.Year(), day.Month(), day.Day(), hour, minute, 0, 0, time.UTC), true
}

func description(r *event.Record) string {
	lines := []string{"Date: " + r.Date}
	if r.Price != event.NotAvailable {
		lines = append(lines, "Price: "+r.Price)
	}
	if len(r.Performers) > 0 {
		lines = append(lines, "Performers: "+strings.Join(r.Performers, ", "))
	}
	if r.Description != event.NotAvailable && r.Description != event.DetailsErrorMarker {
		lines = append(lines, "", r.Description)
	}
	return strings.Join(lines, "\n")
}

func location(r *event.Record) string {
	var parts []string
	for _, p := range []string{r.Venue, r.Location} {
		if p != "" && p != event.NotAvailable {
			parts = append(parts, p)
		}
	}
	return strings.Join(parts, ", ")
}

// writeLine writes one content line, folded at 75 octets as RFC 5545
// requires. Continuation lines start with a single space.
func writeLine(ics *strings.Builder, line string) {
	limit := maxLineOctets
	for len(line) > limit {
		cut := limit
		// Never split a multi-byte character.
		for cut > 0 && !isRuneStart(line[cut]) {
			cut--
		}
		ics.WriteString(line[:cut])
		ics.WriteString("\r\n ")
		line = line[cut:]
		limit = maxLineOctets - 1
	}
	ics.WriteString(line)
	ics.WriteString("\r\n")
}

func isRuneStart(b byte) bool {
	return b&0xC0 != 0x80
}

// formatICSTime formats a time.Time as an iCalendar UTC datetime string
func formatICSTime(t time.Time) string {
	return t.UTC().Format("20060102T150405Z")
}

// escapeICS escapes special characters for iCalendar format
func escapeICS(s string) string {
	s = strings.ReplaceAll(s, "\\", "\\\\")
	s = strings.ReplaceAll(s, ",", "\\,")
	s = strings.ReplaceAll(s, ";", "\\;")
	s = strings.ReplaceAll(s, "\n", "\\n")
	return s
}
