// Package batch runs the scrape-and-persist cycle over a list of cities.
//
// Cities are processed one after another. Within a city every record is
// saved independently, so one bad record, one failed page or one unknown
// city never stops the rest of the run. Failures surface through logs,
// metrics and the returned Report, not through an error.
package batch

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/pfrederiksen/cityevents/internal/cities"
	"github.com/pfrederiksen/cityevents/internal/event"
	"github.com/pfrederiksen/cityevents/internal/logger"
	"github.com/pfrederiksen/cityevents/internal/metrics"
	"github.com/pfrederiksen/cityevents/internal/scraper"
	"github.com/pfrederiksen/cityevents/internal/storage"
)

// ErrUnknownCity is returned by Resolve for a name missing from the city table.
var ErrUnknownCity = errors.New("unknown city")

// Scraper fetches one city's grouped events.
type Scraper interface {
	ScrapeCity(ctx context.Context, slug string) (*scraper.Groups, error)
}

// Store is the persistence the runner needs.
type Store interface {
	CityByName(ctx context.Context, name string) (storage.City, error)
	Upsert(ctx context.Context, state, city string, r *event.Record) (int64, error)
}

// Options configures a Runner.
type Options struct {
	Logger  *logger.Logger
	Metrics *metrics.Metrics
	// DryRun scrapes without touching the store.
	DryRun bool
}

// Runner drives the per-city loop
type Runner struct {
	scraper Scraper
	store   Store
	log     *logger.Logger
	metrics *metrics.Metrics
	dryRun  bool
}

// CityResult summarizes one city of a run.
type CityResult struct {
	City      string          `json:"city"`
	Slug      string          `json:"slug"`
	State     string          `json:"state"`
	Groups    *scraper.Groups `json:"events,omitempty"`
	Scraped   int             `json:"scraped"`
	Persisted int             `json:"persisted"`
	Failed    int             `json:"failed"`
	Error     string          `json:"error,omitempty"`
}

// Report summarizes a whole run.
type Report struct {
	RunID     string        `json:"run_id"`
	StartedAt time.Time     `json:"started_at"`
	Duration  time.Duration `json:"duration"`
	Cities    []CityResult  `json:"cities"`
}

// Totals sums scraped, persisted and failed records across cities.
func (r Report) Totals() (scraped, persisted, failed int) {
	for _, c := range r.Cities {
		scraped += c.Scraped
		persisted += c.Persisted
		failed += c.Failed
	}
	return scraped, persisted, failed
}

// New creates a Runner. store may be nil in dry-run mode.
func New(s Scraper, store Store, opts Options) *Runner {
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	return &Runner{
		scraper: s,
		store:   store,
		log:     opts.Logger,
		metrics: opts.Metrics,
		dryRun:  opts.DryRun || store == nil,
	}
}

// Resolve maps city names to table entries. No names means every city.
func Resolve(names []string) ([]cities.Entry, error) {
	if len(names) == 0 {
		return cities.All(), nil
	}
	out := make([]cities.Entry, 0, len(names))
	for _, name := range names {
		e, ok := cities.Lookup(name)
		if !ok {
			return nil, fmt.Errorf("%w: %s", ErrUnknownCity, name)
		}
		out = append(out, e)
	}
	return out, nil
}

// Run processes targets in order and always completes.
func (r *Runner) Run(ctx context.Context, targets []cities.Entry) Report {
	report := Report{
		RunID:     uuid.NewString(),
		StartedAt: time.Now().UTC(),
		Cities:    make([]CityResult, 0, len(targets)),
	}
	log := r.log.With(logger.Fields{"run_id": report.RunID})
	log.Info("Batch started", logger.Fields{"cities": len(targets), "dry_run": r.dryRun})

	for _, target := range targets {
		report.Cities = append(report.Cities, r.runCity(ctx, log, target))
	}

	report.Duration = time.Since(report.StartedAt)
	r.metrics.RecordTiming("batch", report.Duration)

	scraped, persisted, failed := report.Totals()
	log.Info("Batch finished", logger.Fields{
		"cities":    len(targets),
		"scraped":   scraped,
		"persisted": persisted,
		"failed":    failed,
		"duration":  report.Duration.String(),
	})
	return report
}

func (r *Runner) runCity(ctx context.Context, log *logger.Logger, target cities.Entry) CityResult {
	res := CityResult{City: target.City, Slug: target.Slug, State: event.NotAvailable}
	log = log.With(logger.Fields{"city": target.City, "slug": target.Slug})

	groups, err := r.scraper.ScrapeCity(ctx, target.Slug)
	if err != nil {
		log.Error("Scrape failed", nil, err)
		res.Error = err.Error()
		return res
	}
	res.Groups = groups
	res.Scraped = groups.Len()

	if r.dryRun {
		return res
	}

	city, err := r.store.CityByName(ctx, target.City)
	if err != nil {
		log.Error("City lookup failed, events not saved", nil, err)
		res.Error = err.Error()
		res.Failed = res.Scraped
		return res
	}
	res.State = city.State

	for _, rec := range groups.All() {
		_, err := r.store.Upsert(ctx, city.State, target.City, rec)
		r.metrics.ObservePersist(err)
		if err != nil {
			res.Failed++
			log.Error("Failed to insert event", logger.Fields{"title": rec.Title}, err)
			continue
		}
		res.Persisted++
		log.Debug("Inserted event", logger.Fields{"title": rec.Title})
	}

	log.Info("City saved", logger.Fields{
		"state":     city.State,
		"persisted": res.Persisted,
		"failed":    res.Failed,
	})
	return res
}
