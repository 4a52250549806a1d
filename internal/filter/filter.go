// Package filter narrows a list of persisted events on the client side.
//
// The database query already handles city, state, category and keyword
// matching. Filter covers what plain SQL over the raw date text cannot:
//   - Date ranges (from/to dates, parsed from each event's date text)
//   - Weekends only (Saturday/Sunday)
//   - Upcoming only (drops events dated before today)
//   - Venues and locations (substring matching, case-insensitive)
//   - Performers (substring matching against the lineup)
//   - Maximum price (parsed from the "Starts at $25" text)
//
// Example usage:
//
//	// Weekend events in March at most $30
//	from, to, _ := filter.ParseDateRange("March")
//	f := filter.NewFilter()
//	f.DateFrom, f.DateTo = from, to
//	f.WeekendsOnly = true
//	f.MaxPrice = 30
//
//	filtered := f.Apply(records)
package filter

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/pfrederiksen/cityevents/internal/event"
)

var pricePattern = regexp.MustCompile(`\d+(?:,\d{3})*(?:\.\d+)?`)

// Filter represents event filtering criteria
type Filter struct {
	// Date range filtering
	DateFrom *time.Time `json:"date_from,omitempty"`
	DateTo   *time.Time `json:"date_to,omitempty"`

	// Weekend-only filtering (Saturday/Sunday)
	WeekendsOnly bool `json:"weekends_only,omitempty"`

	// UpcomingOnly drops events dated before today. Undated events are kept.
	UpcomingOnly bool `json:"upcoming_only,omitempty"`

	// Venue name filtering (case-insensitive substring match)
	Venues []string `json:"venues,omitempty"`

	// Location filtering, e.g. "Round Rock" (case-insensitive substring match)
	Locations []string `json:"locations,omitempty"`

	// Performer filtering (case-insensitive substring match on any performer)
	Performers []string `json:"performers,omitempty"`

	// MaxPrice drops events whose starting price exceeds it. Events with no
	// readable price are kept.
	MaxPrice float64 `json:"max_price,omitempty"`
}

// NewFilter creates a new empty filter with no active criteria.
// The filter will match all events until criteria are added.
func NewFilter() *Filter {
	return &Filter{
		Venues:     []string{},
		Locations:  []string{},
		Performers: []string{},
	}
}

// Query holds filter criteria as they arrive from command flags or URL
// parameters.
type Query struct {
	// Dates is a range expression such as "Mar 1-15". Empty leaves the range open.
	Dates        string
	WeekendsOnly bool
	UpcomingOnly bool
	Venues       []string
	Locations    []string
	Performers   []string
	MaxPrice     float64
}

// FromQuery validates q and builds the filter it describes. Blank list
// entries are ignored.
func FromQuery(q Query) (*Filter, error) {
	if q.MaxPrice < 0 {
		return nil, fmt.Errorf("max price must not be negative: %v", q.MaxPrice)
	}

	f := NewFilter()
	f.WeekendsOnly = q.WeekendsOnly
	f.UpcomingOnly = q.UpcomingOnly
	f.Venues = nonBlank(q.Venues)
	f.Locations = nonBlank(q.Locations)
	f.Performers = nonBlank(q.Performers)
	f.MaxPrice = q.MaxPrice

	if strings.TrimSpace(q.Dates) == "" {
		return f, nil
	}
	from, to, err := ParseDateRange(q.Dates)
	if err != nil {
		return nil, fmt.Errorf("parsing date range: %w", err)
	}
	f.DateFrom, f.DateTo = from, to
	return f, nil
}

func nonBlank(values []string) []string {
	out := []string{}
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}

// IsEmpty checks if the filter has any active criteria.
func (f *Filter) IsEmpty() bool {
	return f.DateFrom == nil &&
		f.DateTo == nil &&
		!f.WeekendsOnly &&
		!f.UpcomingOnly &&
		len(f.Venues) == 0 &&
		len(f.Locations) == 0 &&
		len(f.Performers) == 0 &&
		f.MaxPrice == 0
}

// Matches checks if an event matches all active filter criteria.
// An empty filter matches all events. Date criteria are skipped for events
// whose date text cannot be parsed.
func (f *Filter) Matches(r *event.Record) bool {
	if f.IsEmpty() {
		return true
	}

	if day := r.Day(); !day.IsZero() {
		if f.DateFrom != nil && day.Before(truncateDay(*f.DateFrom)) {
			return false
		}
		if f.DateTo != nil && day.After(*f.DateTo) {
			return false
		}
		if f.WeekendsOnly && !r.IsWeekend() {
			return false
		}
	}

	if f.UpcomingOnly && r.IsPastEvent() {
		return false
	}

	if !containsAny(r.Venue, f.Venues) {
		return false
	}
	if !containsAny(r.Location, f.Locations) {
		return false
	}

	if len(f.Performers) > 0 {
		matched := false
		for _, p := range r.Performers {
			if containsAny(p, f.Performers) {
				matched = true
				break
			}
		}
		if !matched {
			return false
		}
	}

	if f.MaxPrice > 0 {
		if price, ok := ParsePrice(r.Price); ok && price > f.MaxPrice {
			return false
		}
	}

	return true
}

// Apply returns only the matching records. An empty filter returns the input
// unchanged.
func (f *Filter) Apply(records []*event.Record) []*event.Record {
	if f.IsEmpty() {
		return records
	}

	var filtered []*event.Record
	for _, r := range records {
		if f.Matches(r) {
			filtered = append(filtered, r)
		}
	}
	return filtered
}

// String returns a human-readable description of the active filter criteria.
// Format: "From: Mar 1, 2026 | To: Mar 15, 2026 | Venues: ACL Live | Weekends only"
func (f *Filter) String() string {
	if f.IsEmpty() {
		return "No active filters"
	}

	var parts []string
	if f.DateFrom != nil {
		parts = append(parts, fmt.Sprintf("From: %s", f.DateFrom.Format("Jan 2, 2006")))
	}
	if f.DateTo != nil {
		parts = append(parts, fmt.Sprintf("To: %s", f.DateTo.Format("Jan 2, 2006")))
	}
	if f.WeekendsOnly {
		parts = append(parts, "Weekends only")
	}
	if f.UpcomingOnly {
		parts = append(parts, "Upcoming only")
	}
	if len(f.Venues) > 0 {
		parts = append(parts, fmt.Sprintf("Venues: %s", strings.Join(f.Venues, ", ")))
	}
	if len(f.Locations) > 0 {
		parts = append(parts, fmt.Sprintf("Locations: %s", strings.Join(f.Locations, ", ")))
	}
	if len(f.Performers) > 0 {
		parts = append(parts, fmt.Sprintf("Performers: %s", strings.Join(f.Performers, ", ")))
	}
	if f.MaxPrice > 0 {
		parts = append(parts, fmt.Sprintf("Max price: $%.2f", f.MaxPrice))
	}
	return strings.Join(parts, " | ")
}

// ParsePrice reads the first number out of a price text such as
// "Starts at $1,250.50". Free events ("Free", "$0") parse as zero.
func ParsePrice(text string) (float64, bool) {
	if strings.Contains(strings.ToLower(text), "free") {
		return 0, true
	}
	m := pricePattern.FindString(text)
	if m == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(m, ",", ""), 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

// containsAny reports whether s contains any needle, ignoring case. No
// needles always matches.
func containsAny(s string, needles []string) bool {
	if len(needles) == 0 {
		return true
	}
	lower := strings.ToLower(s)
	for _, n := range needles {
		if strings.Contains(lower, strings.ToLower(n)) {
			return true
		}
	}
	return false
}

func truncateDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}
