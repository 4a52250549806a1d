// Package storage persists scraped events to a relational database.
//
// Two drivers are supported: PostgreSQL (github.com/lib/pq) for deployments
// and SQLite (modernc.org/sqlite, pure Go) for local runs and tests. Queries
// are written once with "?" placeholders and rebound for PostgreSQL.
//
// Events are keyed by a natural key rather than an id. Saving an event
// deletes every row sharing its key and inserts a fresh one, so row ids and
// created_at do not survive a re-scrape.
package storage
