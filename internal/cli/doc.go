// Package cli implements the command-line interface for cityevents.
//
// The cli package provides the Cobra-based CLI: scraping cities into the
// database, listing saved events (text, JSON or iCalendar, with date and
// weekend filters and sorting), fetching horoscopes, listing the city table,
// creating tables and serving the HTTP API. It builds every component from
// the loaded configuration and hands each one its logger and metrics.
package cli
