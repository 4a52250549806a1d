package server

import (
	"context"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/pfrederiksen/cityevents/internal/batch"
	"github.com/pfrederiksen/cityevents/internal/cities"
	"github.com/pfrederiksen/cityevents/internal/horoscope"
	"github.com/pfrederiksen/cityevents/internal/logger"
	"github.com/pfrederiksen/cityevents/internal/metrics"
	"github.com/pfrederiksen/cityevents/internal/storage"
)

// requestTimeout bounds every route except the scrape run.
const requestTimeout = 60 * time.Second

// BatchRunner runs the scrape-and-persist cycle.
type BatchRunner interface {
	Run(ctx context.Context, targets []cities.Entry) batch.Report
}

// EventStore reads persisted events.
type EventStore interface {
	ListEvents(ctx context.Context, q storage.Query) ([]storage.Row, error)
	Ping(ctx context.Context) error
}

// Horoscopes serves live horoscope readings.
type Horoscopes interface {
	Readings(ctx context.Context) ([]horoscope.Reading, error)
	Briefs(ctx context.Context) ([]horoscope.Brief, error)
	Sign(ctx context.Context, name string) (horoscope.Reading, error)
}

// Deps are the components the routes call into. Metrics may be nil.
type Deps struct {
	Runner     BatchRunner
	Store      EventStore
	Horoscopes Horoscopes
	Metrics    *metrics.Metrics
	Logger     *logger.Logger
}

// NewRouter builds the API router.
func NewRouter(d Deps) *gin.Engine {
	if d.Logger == nil {
		d.Logger = logger.Discard()
	}
	h := &handler{
		runner:     d.Runner,
		store:      d.Store,
		horoscopes: d.Horoscopes,
		log:        d.Logger,
	}

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(d.Logger))

	api := router.Group("/api")
	{
		// Scrape runs always finish, so they are not bound by the timeout.
		api.GET("/events/scrape", h.scrape)
		api.POST("/events/scrape", h.scrape)

		bounded := api.Group("", timeout(requestTimeout))
		bounded.GET("/events", h.listEvents)
		bounded.GET("/events/:id/ics", h.eventCalendar)
		bounded.GET("/horoscope", h.listHoroscopes)
		bounded.GET("/horoscope/:sign", h.horoscopeSign)
	}

	router.GET("/healthz", h.health)
	if d.Metrics != nil {
		router.GET("/metrics", gin.WrapH(d.Metrics.Handler()))
	}

	return router
}
