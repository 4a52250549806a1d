package storage

import "strings"

const communityEventsDDL = `
CREATE TABLE IF NOT EXISTS community_events (
	id                   {{serial}},
	event_id             TEXT,
	name                 TEXT NOT NULL,
	link                 TEXT,
	event_date           TEXT,
	event_day            DATE,
	location             TEXT,
	venue                TEXT,
	price                TEXT,
	status               TEXT,
	category             TEXT,
	performers           TEXT,
	cover_image          TEXT,
	action_type          TEXT,
	event_url            TEXT,
	description          TEXT,
	venue_details        TEXT,
	terms_and_conditions TEXT,
	artist_details       TEXT,
	organizer_details    TEXT,
	ticket_information   TEXT,
	state                TEXT,
	city                 TEXT,
	created_at           TIMESTAMP NOT NULL,
	updated_at           TIMESTAMP NOT NULL
)`

const naturalKeyIndexDDL = `
CREATE INDEX IF NOT EXISTS community_events_natural_key
	ON community_events (state, city, event_date, venue)`

const mastercityDDL = `
CREATE TABLE IF NOT EXISTS mastercity (
	mastercityid INTEGER,
	city         TEXT,
	state        TEXT,
	geohash      TEXT,
	"long"       TEXT,
	lat          TEXT,
	"key"        TEXT,
	status       TEXT,
	createdby    TEXT,
	createddate  TIMESTAMP,
	updatedby    TEXT,
	updateddate  TIMESTAMP
)`

// schema returns the DDL statements for driver, in order.
func schema(driver string) []string {
	serial := "INTEGER PRIMARY KEY AUTOINCREMENT"
	if driver == DriverPostgres {
		serial = "BIGSERIAL PRIMARY KEY"
	}
	return []string{
		strings.Replace(communityEventsDDL, "{{serial}}", serial, 1),
		naturalKeyIndexDDL,
		mastercityDDL,
	}
}
