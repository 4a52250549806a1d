package scraper

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"github.com/pfrederiksen/cityevents/internal/event"
	"github.com/pfrederiksen/cityevents/internal/fetch"
	"github.com/pfrederiksen/cityevents/internal/fragment"
	"github.com/pfrederiksen/cityevents/internal/logger"
	"github.com/pfrederiksen/cityevents/internal/metrics"
	"golang.org/x/sync/errgroup"
)

// Options configures a Scraper.
type Options struct {
	// BaseURL is the listing site root. Defaults to BaseURL.
	BaseURL string
	// FetchDetails enables detail-page fetching for every card with a link.
	FetchDetails bool
	// DetailConcurrency bounds parallel detail fetches. Values below 1 mean
	// sequential.
	DetailConcurrency int
	Logger            *logger.Logger
	Metrics           *metrics.Metrics
}

// Scraper handles fetching and parsing metro-area event listings
type Scraper struct {
	client            *fetch.Client
	baseURL           string
	fetchDetails      bool
	detailConcurrency int
	log               *logger.Logger
	metrics           *metrics.Metrics
}

// New creates a new Scraper instance
func New(client *fetch.Client, opts Options) *Scraper {
	if opts.BaseURL == "" {
		opts.BaseURL = BaseURL
	}
	if opts.DetailConcurrency < 1 {
		opts.DetailConcurrency = 1
	}
	if opts.Logger == nil {
		opts.Logger = logger.Discard()
	}
	return &Scraper{
		client:            client,
		baseURL:           strings.TrimRight(opts.BaseURL, "/"),
		fetchDetails:      opts.FetchDetails,
		detailConcurrency: opts.DetailConcurrency,
		log:               opts.Logger,
		metrics:           opts.Metrics,
	}
}

// CityURL is the listing page for a metro-area slug.
func (s *Scraper) CityURL(slug string) string {
	return s.baseURL + "/" + strings.ToLower(strings.TrimSpace(slug))
}

// ScrapeCity fetches the listing page for slug and returns its grouped
// events. A random pause precedes the fetch. Only a failure to fetch the
// listing page itself is returned as an error.
func (s *Scraper) ScrapeCity(ctx context.Context, slug string) (*Groups, error) {
	start := time.Now()
	url := s.CityURL(slug)

	s.client.Pause(ctx)
	doc, err := s.client.Document(ctx, url)
	s.metrics.ObserveFetch("listing", err)
	if err != nil {
		return nil, fmt.Errorf("scraping %s: %w", slug, err)
	}

	groups := s.Parse(ctx, doc)
	s.metrics.AddRecords("events", groups.Len())
	s.metrics.RecordTiming("scrape_city", time.Since(start))

	s.log.Info("City scraped", logger.Fields{
		"slug":     slug,
		"groups":   len(groups.Labels()),
		"events":   groups.Len(),
		"duration": time.Since(start).String(),
	})
	return groups, nil
}

// Parse groups every card on a listing page by section title, adds the
// nearby metro-area block when present and, if enabled, merges detail pages
// into the records.
func (s *Scraper) Parse(ctx context.Context, doc *goquery.Document) *Groups {
	groups, nearby, ok := parseListing(doc, s.baseURL)
	if ok {
		s.log.Debug("Nearby section found", logger.Fields{
			"strategy": nearby.strategy,
			"title":    nearby.title,
			"events":   len(nearby.events),
		})
	} else {
		s.log.Debug("Nearby section not found", nil)
	}

	if s.fetchDetails {
		s.enrich(ctx, groups)
	}
	return groups
}

// ParseListing groups a listing page without fetching anything else.
func ParseListing(doc *goquery.Document, base string) *Groups {
	groups, _, _ := parseListing(doc, base)
	return groups
}

func parseListing(doc *goquery.Document, base string) (*Groups, nearbyMatch, bool) {
	groups := NewGroups()
	l := newListing(doc, base)

	doc.Find(selSection).Each(func(_ int, sec *goquery.Selection) {
		// The nearby block is keyed by its own heading below.
		if sec.Is(selNearbySection) {
			return
		}
		label := fragment.Extract(sec, fragment.Text(selSectionTitle, UncategorizedLabel, selSectionTitleAlt))
		groups.Add(label)
		// A card nested in two matching sections belongs to the outer one.
		cards := sec.Find(selCard).NotSelection(l.grouped)
		cards.Each(func(_ int, card *goquery.Selection) {
			groups.Add(label, AssembleCard(card, card.Closest(selArticle), base))
		})
		l.markGrouped(cards)
	})

	m, ok := findNearby(l)
	if ok {
		groups.Add(m.title, m.events...)
	}
	return groups, m, ok
}

// FetchDetails fetches and parses one detail page. On failure it returns the
// error marker bundle together with the error.
func (s *Scraper) FetchDetails(ctx context.Context, url string) (*event.Details, error) {
	doc, err := s.client.Document(ctx, url)
	s.metrics.ObserveFetch("detail", err)
	if err != nil {
		return event.ErrorDetails(), fmt.Errorf("fetching details: %w", err)
	}
	return ParseDetails(doc, s.baseURL), nil
}

// enrich merges detail pages into every linked record. Results are written
// back by position so group order is unchanged.
func (s *Scraper) enrich(ctx context.Context, groups *Groups) {
	recs := groups.All()
	merged := make([]*event.Record, len(recs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(s.detailConcurrency)
	for i, rec := range recs {
		if !rec.HasLink() {
			merged[i] = rec
			continue
		}
		g.Go(func() error {
			details, err := s.FetchDetails(gctx, rec.Link)
			if err != nil {
				s.log.Warn("Detail fetch failed", logger.Fields{
					"title": rec.Title,
					"url":   rec.Link,
					"error": err.Error(),
				})
			}
			merged[i] = rec.Merge(details)
			return nil
		})
	}
	_ = g.Wait()

	groups.replace(func(i int, _ *event.Record) *event.Record {
		return merged[i]
	})
}
