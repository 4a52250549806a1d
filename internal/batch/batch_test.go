package batch

import (
	"bytes"
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/pfrederiksen/cityevents/internal/cities"
	"github.com/pfrederiksen/cityevents/internal/event"
	"github.com/pfrederiksen/cityevents/internal/logger"
	"github.com/pfrederiksen/cityevents/internal/metrics"
	"github.com/pfrederiksen/cityevents/internal/scraper"
	"github.com/pfrederiksen/cityevents/internal/storage"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeScraper struct {
	pages map[string]*scraper.Groups
	calls []string
}

func (f *fakeScraper) ScrapeCity(_ context.Context, slug string) (*scraper.Groups, error) {
	f.calls = append(f.calls, slug)
	g, ok := f.pages[slug]
	if !ok {
		return nil, errors.New("fetching page: connection refused")
	}
	return g, nil
}

type saved struct {
	state, city, title string
}

type fakeStore struct {
	states map[string]string
	failOn string
	saved  []saved
}

func (f *fakeStore) CityByName(_ context.Context, name string) (storage.City, error) {
	state, ok := f.states[strings.ToLower(name)]
	if !ok {
		return storage.City{}, storage.ErrCityNotFound
	}
	return storage.City{City: name, State: state}, nil
}

func (f *fakeStore) Upsert(_ context.Context, state, city string, r *event.Record) (int64, error) {
	if r.Title == f.failOn {
		return 0, errors.New("inserting event: constraint violation")
	}
	f.saved = append(f.saved, saved{state, city, r.Title})
	return int64(len(f.saved)), nil
}

func groupsOf(titles ...string) *scraper.Groups {
	g := scraper.NewGroups()
	for _, t := range titles {
		r := event.NewRecord()
		r.Title = t
		g.Add("Featured", r)
	}
	return g
}

func TestRun(t *testing.T) {
	sc := &fakeScraper{pages: map[string]*scraper.Groups{
		"austin-metro-area":     groupsOf("Holi Fest", "Broken Event", "Garba Night"),
		"dallas-fortworth-area": groupsOf("Diwali Mela"),
		"houston-metro-area":    groupsOf("Unsaved Show"),
	}}
	st := &fakeStore{
		states: map[string]string{"austin": "TX", "dallas": "TX"},
		failOn: "Broken Event",
	}
	var logs bytes.Buffer
	m := metrics.New()

	r := New(sc, st, Options{Logger: logger.New(logger.LevelInfo, &logs), Metrics: m})
	report := r.Run(context.Background(), []cities.Entry{
		{City: "Austin", Slug: "austin-metro-area"},
		{City: "Denver", Slug: "denver-metro-area"},
		{City: "Dallas", Slug: "dallas-fortworth-area"},
		{City: "Houston", Slug: "houston-metro-area"},
	})

	assert.NotEmpty(t, report.RunID)
	require.Len(t, report.Cities, 4)
	assert.Equal(t, []string{"austin-metro-area", "denver-metro-area", "dallas-fortworth-area", "houston-metro-area"}, sc.calls)

	austin := report.Cities[0]
	assert.Equal(t, "TX", austin.State)
	assert.Equal(t, 3, austin.Scraped)
	assert.Equal(t, 2, austin.Persisted)
	assert.Equal(t, 1, austin.Failed)

	denver := report.Cities[1]
	assert.NotEmpty(t, denver.Error)
	assert.Zero(t, denver.Scraped)

	houston := report.Cities[3]
	assert.Contains(t, houston.Error, "city not found")
	assert.Equal(t, 1, houston.Failed)
	assert.Equal(t, event.NotAvailable, houston.State)

	assert.Equal(t, []saved{
		{"TX", "Austin", "Holi Fest"},
		{"TX", "Austin", "Garba Night"},
		{"TX", "Dallas", "Diwali Mela"},
	}, st.saved)

	scraped, persisted, failed := report.Totals()
	assert.Equal(t, 5, scraped)
	assert.Equal(t, 3, persisted)
	assert.Equal(t, 2, failed)

	assert.Contains(t, logs.String(), `"title":"Broken Event"`)
	assert.Contains(t, logs.String(), report.RunID)
	assert.Equal(t, float64(3), counterValue(t, m, "cityevents_persisted_records_total", "ok"))
	assert.Equal(t, float64(1), counterValue(t, m, "cityevents_persisted_records_total", "error"))
}

func TestRun_DryRun(t *testing.T) {
	sc := &fakeScraper{pages: map[string]*scraper.Groups{"bay-area": groupsOf("Bay Area Bhangra")}}
	st := &fakeStore{}

	report := New(sc, st, Options{DryRun: true}).Run(context.Background(), []cities.Entry{{City: "San Jose", Slug: "bay-area"}})

	require.Len(t, report.Cities, 1)
	assert.Equal(t, 1, report.Cities[0].Scraped)
	assert.Zero(t, report.Cities[0].Persisted)
	assert.Empty(t, st.saved)
}

func TestRun_NilStoreIsDryRun(t *testing.T) {
	sc := &fakeScraper{pages: map[string]*scraper.Groups{"bay-area": groupsOf("x")}}

	report := New(sc, nil, Options{}).Run(context.Background(), []cities.Entry{{City: "San Jose", Slug: "bay-area"}})
	assert.Equal(t, 1, report.Cities[0].Scraped)
}

func TestResolve(t *testing.T) {
	all, err := Resolve(nil)
	require.NoError(t, err)
	assert.Equal(t, cities.All(), all)

	some, err := Resolve([]string{"austin", "San Jose"})
	require.NoError(t, err)
	assert.Equal(t, []cities.Entry{
		{City: "Austin", Slug: "austin-metro-area"},
		{City: "San Jose", Slug: "bay-area"},
	}, some)

	_, err = Resolve([]string{"Austin", "Atlantis"})
	assert.True(t, errors.Is(err, ErrUnknownCity))
}

func counterValue(t *testing.T, m *metrics.Metrics, name, labelValue string) float64 {
	t.Helper()
	families, err := m.Registry().Gather()
	require.NoError(t, err)
	for _, f := range families {
		if f.GetName() != name {
			continue
		}
		for _, metric := range f.GetMetric() {
			for _, lp := range metric.GetLabel() {
				if lp.GetValue() == labelValue {
					return metric.GetCounter().GetValue()
				}
			}
		}
	}
	return 0
}
