package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/pfrederiksen/cityevents/internal/batch"
	"github.com/pfrederiksen/cityevents/internal/calendar"
	"github.com/pfrederiksen/cityevents/internal/cities"
	"github.com/pfrederiksen/cityevents/internal/event"
	"github.com/pfrederiksen/cityevents/internal/horoscope"
	"github.com/pfrederiksen/cityevents/internal/storage"
)

// OutputFormat specifies the output format
type OutputFormat string

const (
	FormatText OutputFormat = "text"
	FormatJSON OutputFormat = "json"
	FormatICS  OutputFormat = "ics"
)

// parseFormat validates s against the formats a command supports.
func parseFormat(s string, allowed ...OutputFormat) (OutputFormat, error) {
	format := OutputFormat(strings.ToLower(strings.TrimSpace(s)))
	names := make([]string, len(allowed))
	for i, f := range allowed {
		if f == format {
			return format, nil
		}
		names[i] = "'" + string(f) + "'"
	}
	return "", fmt.Errorf("invalid format: %s (must be %s)", s, strings.Join(names, " or "))
}

// writeJSON outputs v as indented JSON
func writeJSON(w io.Writer, v any) error {
	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	return encoder.Encode(v)
}

// WriteReport writes the outcome of a scrape run.
func WriteReport(w io.Writer, report batch.Report, format OutputFormat, verbose bool) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, report)
	case FormatText:
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	for _, c := range report.Cities {
		fmt.Fprintf(w, "%s (%s): %d scraped, %d saved, %d failed\n", c.City, c.Slug, c.Scraped, c.Persisted, c.Failed)
		if c.Error != "" {
			fmt.Fprintf(w, "  Error: %s\n", c.Error)
		}
		if !verbose || c.Groups == nil {
			continue
		}
		for _, label := range c.Groups.Labels() {
			records := c.Groups.Events(label)
			fmt.Fprintf(w, "  %s (%d):\n", label, len(records))
			for _, r := range records {
				fmt.Fprintf(w, "    %s - %s\n", r.Title, r.Date)
			}
		}
	}

	scraped, persisted, failed := report.Totals()
	fmt.Fprintf(w, "\nTotal: %d scraped, %d saved, %d failed across %d cities\n", scraped, persisted, failed, len(report.Cities))
	if verbose {
		fmt.Fprintf(w, "Run: %s (%s)\n", report.RunID, report.Duration.Round(time.Millisecond))
	}
	return nil
}

// WriteEvents writes saved events. calendarName titles ICS output.
func WriteEvents(w io.Writer, rows []storage.Row, format OutputFormat, verbose bool, calendarName string) error {
	switch format {
	case FormatJSON:
		if rows == nil {
			rows = []storage.Row{}
		}
		return writeJSON(w, rows)
	case FormatICS:
		_, err := io.WriteString(w, calendar.GenerateBulkICS(storage.Records(rows), calendarName))
		return err
	case FormatText:
		return writeEventsText(w, rows, verbose)
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

func writeEventsText(w io.Writer, rows []storage.Row, verbose bool) error {
	if len(rows) == 0 {
		fmt.Fprintln(w, "No events found.")
		return nil
	}

	for _, row := range rows {
		r := row.Record
		fmt.Fprintf(w, "%s, %s: %s\n", row.City, row.State, r.Title)
		fmt.Fprintf(w, "     Date: %s\n", r.Date)
		if r.Venue != event.NotAvailable {
			fmt.Fprintf(w, "     Venue: %s\n", r.Venue)
		}
		if verbose {
			fmt.Fprintf(w, "     ID: %s\n", r.ID)
			fmt.Fprintf(w, "     Category: %s\n", r.Category)
			fmt.Fprintf(w, "     Price: %s\n", r.Price)
			if len(r.Performers) > 0 {
				fmt.Fprintf(w, "     Performers: %s\n", strings.Join(r.Performers, ", "))
			}
			if r.HasLink() {
				fmt.Fprintf(w, "     Link: %s\n", r.Link)
			}
		}
	}
	fmt.Fprintf(w, "\nTotal: %d events\n", len(rows))
	return nil
}

// WriteReadings writes full horoscope readings.
func WriteReadings(w io.Writer, readings []horoscope.Reading, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, readings)
	case FormatText:
	default:
		return fmt.Errorf("unknown format: %s", format)
	}

	for i, r := range readings {
		if i > 0 {
			fmt.Fprintln(w)
		}
		fmt.Fprintf(w, "%s\n", r.Sign)
		if r.Status != horoscope.StatusOK {
			fmt.Fprintf(w, "  %s\n", r.Message)
			continue
		}
		for _, p := range r.Predictions {
			fmt.Fprintf(w, "  %s: %s\n", p.Category, p.Text)
		}
	}
	return nil
}

// WriteBriefs writes one prediction per sign.
func WriteBriefs(w io.Writer, briefs []horoscope.Brief, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, briefs)
	case FormatText:
		for _, b := range briefs {
			fmt.Fprintf(w, "%s: %s\n", b.Sign, b.Prediction)
		}
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}

// WriteCities writes the city table.
func WriteCities(w io.Writer, entries []cities.Entry, format OutputFormat) error {
	switch format {
	case FormatJSON:
		return writeJSON(w, entries)
	case FormatText:
		for _, e := range entries {
			fmt.Fprintf(w, "%-20s %s\n", e.City, e.Slug)
		}
		fmt.Fprintf(w, "\nTotal: %d cities\n", len(entries))
		return nil
	default:
		return fmt.Errorf("unknown format: %s", format)
	}
}
