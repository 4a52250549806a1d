package event

import (
	"crypto/sha1"
	"encoding/json"
	"fmt"
	"strings"
)

const (
	// NotAvailable is the sentinel for every missing scalar field.
	NotAvailable = "N/A"
	// DefaultLink is used when a card has no title anchor.
	DefaultLink = "#"
	// DefaultAction is the call-to-action label when a card shows none.
	DefaultAction = "Buy Tickets"
	// DetailsErrorMarker replaces the description when a detail page could not be fetched.
	DetailsErrorMarker = "Error fetching details"
	// PricePrefix is prepended to every extracted price.
	PricePrefix = "Starts at "
)

// Record represents one scraped event occurrence
type Record struct {
	ID          string   `json:"id"`
	Title       string   `json:"title"`
	Link        string   `json:"link"`
	Date        string   `json:"date"`
	Venue       string   `json:"venue"`
	Location    string   `json:"location"`
	Price       string   `json:"price"`
	Status      string   `json:"status"`
	Category    string   `json:"category"`
	Performers  []string `json:"performers"`
	Image       string   `json:"image"`
	ActionType  string   `json:"action_type"`
	EventURL    string   `json:"event_url"`
	Description string   `json:"description"`

	VenueDetails *VenueDetail `json:"venue_details,omitempty"`
	Terms        *Terms       `json:"terms_and_conditions,omitempty"`
	Artist       *Artist      `json:"artist_details,omitempty"`
	Organizer    *Organizer   `json:"organizer_details,omitempty"`
	Tickets      *TicketInfo  `json:"ticket_information,omitempty"`
}

// NewRecord creates a Record with every field at its default
func NewRecord() *Record {
	return &Record{
		ID:          NotAvailable,
		Title:       NotAvailable,
		Link:        DefaultLink,
		Date:        NotAvailable,
		Venue:       NotAvailable,
		Location:    NotAvailable,
		Price:       NotAvailable,
		Status:      NotAvailable,
		Category:    NotAvailable,
		Performers:  []string{},
		Image:       NotAvailable,
		ActionType:  DefaultAction,
		EventURL:    NotAvailable,
		Description: NotAvailable,
	}
}

// FormatPrice turns a raw price into the stored "Starts at ..." form.
func FormatPrice(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" || raw == NotAvailable {
		return NotAvailable
	}
	return PricePrefix + raw
}

// PerformersText flattens performers for text columns and natural keys.
// An empty lineup flattens to the sentinel.
func (r *Record) PerformersText() string {
	if len(r.Performers) == 0 {
		return NotAvailable
	}
	data, err := json.Marshal(r.Performers)
	if err != nil {
		return NotAvailable
	}
	return string(data)
}

// ParsePerformers reverses PerformersText.
func ParsePerformers(text string) []string {
	if text == "" || text == NotAvailable {
		return []string{}
	}
	var names []string
	if err := json.Unmarshal([]byte(text), &names); err != nil {
		return []string{text}
	}
	if names == nil {
		return []string{}
	}
	return names
}

// Fingerprint creates a deterministic identifier from the fields that
// describe one occurrence. Used where the source card carried no id.
func (r *Record) Fingerprint() string {
	h := sha1.New()
	h.Write([]byte(strings.Join([]string{r.Title, r.Date, r.Venue, r.Location}, "|")))
	return fmt.Sprintf("%x", h.Sum(nil))
}

// HasLink reports whether the record points at a detail page.
func (r *Record) HasLink() bool {
	return r.Link != "" && r.Link != DefaultLink && r.Link != NotAvailable
}

// Merge folds detail-page data into the record and returns the result.
// Merging is additive: a populated card field is never overwritten, and a
// nil sub-record in the bundle leaves the record's sub-record untouched.
func (r *Record) Merge(d *Details) *Record {
	if d == nil {
		return r
	}

	merged := *r
	if isMissing(merged.Description) && !isMissing(d.Description) {
		merged.Description = d.Description
	}
	if merged.VenueDetails == nil && d.Venue != nil {
		merged.VenueDetails = d.Venue
	}
	if merged.Terms == nil && d.Terms != nil {
		merged.Terms = d.Terms
	}
	if merged.Artist == nil && d.Artist != nil {
		merged.Artist = d.Artist
	}
	if merged.Organizer == nil && d.Organizer != nil {
		merged.Organizer = d.Organizer
	}
	if merged.Tickets == nil && d.Tickets != nil {
		merged.Tickets = d.Tickets
	}
	return &merged
}

func isMissing(s string) bool {
	return s == "" || s == NotAvailable
}
