package cli

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pfrederiksen/cityevents/internal/storage"
)

// SortOrder represents the available sorting options
type SortOrder string

const (
	SortByDate  SortOrder = "date"
	SortByTitle SortOrder = "title"
	SortByVenue SortOrder = "venue"
)

func parseSortOrder(s string) (SortOrder, error) {
	switch order := SortOrder(strings.ToLower(strings.TrimSpace(s))); order {
	case SortByDate, SortByTitle, SortByVenue:
		return order, nil
	default:
		return "", fmt.Errorf("invalid sort order: %s (must be 'date', 'title' or 'venue')", s)
	}
}

// sortRows sorts saved events based on the specified sort order
func sortRows(rows []storage.Row, sortOrder SortOrder) {
	switch sortOrder {
	case SortByDate:
		sort.SliceStable(rows, func(i, j int) bool {
			return compareByDate(rows[i], rows[j])
		})
	case SortByTitle:
		sort.SliceStable(rows, func(i, j int) bool {
			ti, tj := strings.ToLower(rows[i].Record.Title), strings.ToLower(rows[j].Record.Title)
			if ti != tj {
				return ti < tj
			}
			// If titles are equal, sort by date
			return compareByDate(rows[i], rows[j])
		})
	case SortByVenue:
		sort.SliceStable(rows, func(i, j int) bool {
			vi, vj := strings.ToLower(rows[i].Record.Venue), strings.ToLower(rows[j].Record.Venue)
			if vi != vj {
				return vi < vj
			}
			return compareByDate(rows[i], rows[j])
		})
	}
}

// compareByDate compares two rows by their event day
// Returns true if row i should come before row j
func compareByDate(i, j storage.Row) bool {
	dateI := i.Record.Day()
	dateJ := j.Record.Day()

	// If both dates are valid, compare them
	if !dateI.IsZero() && !dateJ.IsZero() {
		return dateI.Before(dateJ)
	}

	// If only one date is valid, put the valid one first
	if !dateI.IsZero() {
		return true
	}
	if !dateJ.IsZero() {
		return false
	}

	// If neither has a valid date, sort by city then title
	if i.City != j.City {
		return i.City < j.City
	}
	return strings.ToLower(i.Record.Title) < strings.ToLower(j.Record.Title)
}
