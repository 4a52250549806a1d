package calendar

import (
	"strings"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/pfrederiksen/cityevents/internal/event"
)

func newRecord(id, title, date string) *event.Record {
	r := event.NewRecord()
	r.ID = id
	r.Title = title
	r.Date = date
	r.Venue = "Zilker Park"
	r.Location = "Austin, TX"
	r.Link = "https://events.sulekha.com/" + id
	return r
}

func TestGenerateICS(t *testing.T) {
	r := newRecord("10101", "Holi Fest", "Sat, Mar 14, 2026 06:00 PM")
	r.Price = "Starts at $15"
	r.Category = "Festival"
	r.Performers = []string{"DJ Rink"}

	ics := GenerateICS(r)

	requiredFields := []string{
		"BEGIN:VCALENDAR",
		"VERSION:2.0",
		"PRODID:-//cityevents//cityevents//EN",
		"BEGIN:VEVENT",
		"UID:10101@events.sulekha.com",
		"DTSTAMP:",
		"DTSTART:20260314T180000",
		"DTEND:20260314T210000",
		"SUMMARY:Holi Fest",
		"DESCRIPTION:Date: Sat\\, Mar 14\\, 2026 06:00 PM\\nPrice: Starts at $15\\nPerformers: DJ Rink",
		"LOCATION:Zilker Park\\, Austin\\, TX",
		"CATEGORIES:Festival",
		"URL:https://events.sulekha.com/10101",
		"STATUS:CONFIRMED",
		"END:VEVENT",
		"END:VCALENDAR",
	}

	unfolded := strings.ReplaceAll(ics, "\r\n ", "")
	for _, field := range requiredFields {
		if !strings.Contains(unfolded, field) {
			t.Errorf("ICS missing required field: %s", field)
		}
	}

	if !strings.HasSuffix(ics, "END:VCALENDAR\r\n") {
		t.Error("ICS should use \\r\\n line endings")
	}
}

func TestGenerateICS_AllDay(t *testing.T) {
	ics := GenerateICS(newRecord("20202", "Garba Night", "Sun, Mar 22, 2026"))

	if !strings.Contains(ics, "DTSTART;VALUE=DATE:20260322") {
		t.Error("undated-time event should be all-day")
	}
	if !strings.Contains(ics, "DTEND;VALUE=DATE:20260323") {
		t.Error("all-day event should end the next day")
	}
}

func TestGenerateICS_UnparseableDate(t *testing.T) {
	ics := GenerateICS(newRecord("30303", "Pop-up Bazaar", "Coming soon"))

	if !strings.Contains(ics, "BEGIN:VCALENDAR") {
		t.Error("Should still generate a calendar")
	}
	if strings.Contains(ics, "BEGIN:VEVENT") {
		t.Error("Undated events should be skipped")
	}
}

func TestGenerateICS_FingerprintUID(t *testing.T) {
	r := newRecord(event.NotAvailable, "Open Mic", "Jan 19, 2026")
	ics := GenerateICS(r)

	if !strings.Contains(ics, "UID:"+r.Fingerprint()+"@events.sulekha.com") {
		t.Error("records without an id should use their fingerprint as UID")
	}
}

func TestGenerateBulkICS(t *testing.T) {
	records := []*event.Record{
		newRecord("1", "Event 1", "Mar 15, 2026"),
		newRecord("2", "Event 2", "Coming soon"),
		newRecord("3", "Event 3", "May 10, 2026"),
	}

	ics := GenerateBulkICS(records, "Austin Events")

	if !strings.Contains(ics, "X-WR-CALNAME:Austin Events") {
		t.Error("Missing calendar name")
	}
	if got := strings.Count(ics, "BEGIN:VEVENT"); got != 2 {
		t.Errorf("Expected 2 BEGIN:VEVENT, got %d", got)
	}
	if got := strings.Count(ics, "END:VEVENT"); got != 2 {
		t.Errorf("Expected 2 END:VEVENT, got %d", got)
	}
	for _, id := range []string{"1", "3"} {
		if !strings.Contains(ics, "UID:"+id+"@events.sulekha.com") {
			t.Errorf("Missing UID for event: %s", id)
		}
	}
}

func TestGenerateBulkICS_EmptyEvents(t *testing.T) {
	if ics := GenerateBulkICS([]*event.Record{}, "Test Calendar"); ics != "" {
		t.Error("Empty events array should return empty string")
	}
}

func TestGenerateBulkICS_NoCalendarName(t *testing.T) {
	ics := GenerateBulkICS([]*event.Record{newRecord("1", "Event 1", "Mar 15, 2026")}, "")

	if strings.Contains(ics, "X-WR-CALNAME:") {
		t.Error("Should not include X-WR-CALNAME when name is empty")
	}
}

func TestStartTime(t *testing.T) {
	day := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	tests := []struct {
		text   string
		want   string
		wantOK bool
	}{
		{"Sat, Mar 14, 2026 06:00 PM", "18:00", true},
		{"Sat, Mar 14, 2026 12:30 am", "00:30", true},
		{"Sat, Mar 14, 2026 12:15 PM", "12:15", true},
		{"Sat, Mar 14, 2026", "", false},
		{"13:00 PM", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			got, ok := startTime(day, tt.text)
			if ok != tt.wantOK {
				t.Fatalf("startTime(%q) ok = %v, want %v", tt.text, ok, tt.wantOK)
			}
			if ok && got.Format("15:04") != tt.want {
				t.Errorf("startTime(%q) = %s, want %s", tt.text, got.Format("15:04"), tt.want)
			}
		})
	}
}

func TestWriteLine_Folds(t *testing.T) {
	var b strings.Builder
	writeLine(&b, "DESCRIPTION:"+strings.Repeat("é", 60))

	for _, line := range strings.Split(strings.TrimSuffix(b.String(), "\r\n"), "\r\n") {
		if len(line) > maxLineOctets {
			t.Errorf("line exceeds %d octets: %d", maxLineOctets, len(line))
		}
		if !strings.HasPrefix(line, "DESCRIPTION:") && !strings.HasPrefix(line, " ") {
			t.Errorf("continuation line should start with a space: %q", line)
		}
		if !utf8.ValidString(line) {
			t.Errorf("folding split a multi-byte character: %q", line)
		}
	}
}

func TestFormatICSTime(t *testing.T) {
	testTime := time.Date(2026, 3, 15, 14, 30, 0, 0, time.UTC)

	if got := formatICSTime(testTime); got != "20260315T143000Z" {
		t.Errorf("formatICSTime() = %q, want %q", got, "20260315T143000Z")
	}
}

func TestEscapeICS(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"Simple text", "Simple text"},
		{"Text with, comma", "Text with\\, comma"},
		{"Text with; semicolon", "Text with\\; semicolon"},
		{"Text with\\backslash", "Text with\\\\backslash"},
		{"Text with\nnewline", "Text with\\nnewline"},
		{"All, special; chars\\\n", "All\\, special\\; chars\\\\\\n"},
	}

	for _, tt := range tests {
		t.Run(tt.input, func(t *testing.T) {
			if got := escapeICS(tt.input); got != tt.expected {
				t.Errorf("escapeICS(%q) = %q, want %q", tt.input, got, tt.expected)
			}
		})
	}
}
