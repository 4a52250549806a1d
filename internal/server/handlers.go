package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/pfrederiksen/cityevents/internal/batch"
	"github.com/pfrederiksen/cityevents/internal/calendar"
	"github.com/pfrederiksen/cityevents/internal/event"
	"github.com/pfrederiksen/cityevents/internal/filter"
	"github.com/pfrederiksen/cityevents/internal/horoscope"
	"github.com/pfrederiksen/cityevents/internal/logger"
	"github.com/pfrederiksen/cityevents/internal/storage"
)

const variantSimple = "simple"

type handler struct {
	runner     BatchRunner
	store      EventStore
	horoscopes Horoscopes
	log        *logger.Logger
}

// scrape runs the batch for ?city= or, without it, for every known city.
// Per-city failures are only visible in logs and metrics.
func (h *handler) scrape(c *gin.Context) {
	city := c.Query("city")
	if city == "" {
		city = c.PostForm("city")
	}

	var names []string
	if city = strings.TrimSpace(city); city != "" {
		names = []string{city}
	}
	targets, err := batch.Resolve(names)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	// A client disconnect must not cut a run short.
	report := h.runner.Run(context.WithoutCancel(c.Request.Context()), targets)
	h.log.Info("Scrape request finished", logger.Fields{"run_id": report.RunID, "cities": len(report.Cities)})

	c.JSON(http.StatusOK, gin.H{
		"status":  "Success",
		"message": "Events retrieved Successfully",
	})
}

func (h *handler) listEvents(c *gin.Context) {
	q := storage.Query{
		City:     c.Query("city"),
		State:    c.Query("state"),
		Category: c.Query("category"),
		Keyword:  c.Query("q"),
	}
	if raw := c.Query("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil || limit < 0 {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid limit"})
			return
		}
		q.Limit = limit
	}

	fq := filter.Query{
		Dates:      c.Query("dates"),
		Venues:     c.QueryArray("venue"),
		Locations:  c.QueryArray("location"),
		Performers: c.QueryArray("performer"),
	}
	fq.WeekendsOnly, _ = strconv.ParseBool(c.Query("weekends"))
	fq.UpcomingOnly, _ = strconv.ParseBool(c.Query("upcoming"))
	if raw := c.Query("max_price"); raw != "" {
		price, err := strconv.ParseFloat(raw, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "invalid max_price"})
			return
		}
		fq.MaxPrice = price
	}
	f, err := filter.FromQuery(fq)
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	rows, err := h.store.ListEvents(c.Request.Context(), q)
	if err != nil {
		h.log.Error("Listing events failed", logger.Fields{"city": q.City}, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list events"})
		return
	}

	out := make([]storage.Row, 0, len(rows))
	for _, row := range rows {
		if f.Matches(row.Record) {
			out = append(out, row)
		}
	}

	c.JSON(http.StatusOK, gin.H{
		"count":  len(out),
		"events": out,
	})
}

// eventCalendar serves one saved event as an iCalendar file.
func (h *handler) eventCalendar(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" || id == event.NotAvailable {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}

	rows, err := h.store.ListEvents(c.Request.Context(), storage.Query{EventID: id, Limit: 1})
	if err != nil {
		h.log.Error("Loading event failed", logger.Fields{"event_id": id}, err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to load event"})
		return
	}
	if len(rows) == 0 {
		c.JSON(http.StatusNotFound, gin.H{"error": "event not found"})
		return
	}

	rec := rows[0].Record
	if rec.Day().IsZero() {
		c.JSON(http.StatusUnprocessableEntity, gin.H{"error": "event has no readable date"})
		return
	}
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="event-%s.ics"`, id))
	c.Data(http.StatusOK, "text/calendar; charset=utf-8", []byte(calendar.GenerateICS(rec)))
}

func (h *handler) listHoroscopes(c *gin.Context) {
	if c.Query("variant") == variantSimple {
		briefs, err := h.horoscopes.Briefs(c.Request.Context())
		if err != nil {
			h.horoscopeFailed(c, err)
			return
		}
		c.JSON(http.StatusOK, briefs)
		return
	}

	readings, err := h.horoscopes.Readings(c.Request.Context())
	if err != nil {
		h.horoscopeFailed(c, err)
		return
	}
	c.JSON(http.StatusOK, readings)
}

func (h *handler) horoscopeSign(c *gin.Context) {
	reading, err := h.horoscopes.Sign(c.Request.Context(), c.Param("sign"))
	if errors.Is(err, horoscope.ErrSignNotFound) {
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		return
	}
	if err != nil {
		h.horoscopeFailed(c, err)
		return
	}

	if c.Query("variant") == variantSimple {
		c.JSON(http.StatusOK, reading.Brief())
		return
	}
	c.JSON(http.StatusOK, reading)
}

func (h *handler) horoscopeFailed(c *gin.Context, err error) {
	h.log.Error("Horoscope request failed", logger.Fields{"path": c.Request.URL.Path}, err)
	c.JSON(http.StatusBadGateway, gin.H{"error": "failed to fetch horoscopes"})
}

func (h *handler) health(c *gin.Context) {
	if err := h.store.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusServiceUnavailable, gin.H{"status": "unavailable", "error": err.Error()})
		return
	}
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}
