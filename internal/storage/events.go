package storage

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/pfrederiksen/cityevents/internal/event"
)

// NaturalKey identifies an event occurrence across scrapes. The title is
// deliberately not part of it: a renamed event replaces the old row.
type NaturalKey struct {
	State      string
	City       string
	Price      string
	Performers string
	Date       string
	Venue      string
	Location   string
}

// KeyOf builds the natural key for a record scraped for city/state.
func KeyOf(state, city string, r *event.Record) NaturalKey {
	return NaturalKey{
		State:      state,
		City:       city,
		Price:      r.Price,
		Performers: r.PerformersText(),
		Date:       r.Date,
		Venue:      r.Venue,
		Location:   r.Location,
	}
}

// Row is one persisted event.
type Row struct {
	ID        int64
	State     string
	City      string
	Record    *event.Record
	EventDay  time.Time
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MarshalJSON flattens the record's fields next to the row metadata.
func (r Row) MarshalJSON() ([]byte, error) {
	var day *string
	if !r.EventDay.IsZero() {
		d := r.EventDay.Format("2006-01-02")
		day = &d
	}
	return json.Marshal(struct {
		RowID    int64   `json:"row_id"`
		State    string  `json:"state"`
		City     string  `json:"city"`
		EventDay *string `json:"event_day"`
		*event.Record
		CreatedAt time.Time `json:"created_at"`
		UpdatedAt time.Time `json:"updated_at"`
	}{r.ID, r.State, r.City, day, r.Record, r.CreatedAt, r.UpdatedAt})
}

// Records returns the event records of rows, in order.
func Records(rows []Row) []*event.Record {
	out := make([]*event.Record, len(rows))
	for i, row := range rows {
		out[i] = row.Record
	}
	return out
}

const eventColumns = `id, event_id, name, link, event_date, event_day, location, venue, price,
	status, category, performers, cover_image, action_type, event_url, description,
	venue_details, terms_and_conditions, artist_details, organizer_details,
	ticket_information, state, city, created_at, updated_at`

const naturalKeyWhere = `state = ? AND city = ? AND price = ? AND performers = ?
	AND event_date = ? AND venue = ? AND location = ?`

func (k NaturalKey) args() []any {
	return []any{k.State, k.City, k.Price, k.Performers, k.Date, k.Venue, k.Location}
}

// FindByNaturalKey returns the ids of every row sharing key.
func (s *Store) FindByNaturalKey(ctx context.Context, key NaturalKey) ([]int64, error) {
	return s.findByNaturalKey(ctx, s.db, key)
}

func (s *Store) findByNaturalKey(ctx context.Context, q queryer, key NaturalKey) ([]int64, error) {
	rows, err := q.QueryContext(ctx, s.rebind(`SELECT id FROM community_events WHERE `+naturalKeyWhere), key.args()...)
	if err != nil {
		return nil, fmt.Errorf("querying natural key: %w", err)
	}
	defer rows.Close()

	var ids []int64
	for rows.Next() {
		var id int64
		if err := rows.Scan(&id); err != nil {
			return nil, fmt.Errorf("scanning id: %w", err)
		}
		ids = append(ids, id)
	}
	return ids, rows.Err()
}

// Delete removes every row sharing key and reports how many went.
func (s *Store) Delete(ctx context.Context, key NaturalKey) (int64, error) {
	return s.delete(ctx, s.db, key)
}

func (s *Store) delete(ctx context.Context, q queryer, key NaturalKey) (int64, error) {
	res, err := q.ExecContext(ctx, s.rebind(`DELETE FROM community_events WHERE `+naturalKeyWhere), key.args()...)
	if err != nil {
		return 0, fmt.Errorf("deleting events: %w", err)
	}
	n, err := res.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("counting deleted events: %w", err)
	}
	return n, nil
}

// Insert stores r for city/state and returns the new row id.
func (s *Store) Insert(ctx context.Context, state, city string, r *event.Record) (int64, error) {
	return s.insert(ctx, s.db, state, city, r)
}

func (s *Store) insert(ctx context.Context, q queryer, state, city string, r *event.Record) (int64, error) {
	nested := []any{r.VenueDetails, r.Terms, r.Artist, r.Organizer, r.Tickets}
	encoded := make([]any, len(nested))
	for i, v := range nested {
		enc, err := encodeJSON(v)
		if err != nil {
			return 0, fmt.Errorf("encoding %s: %w", r.Title, err)
		}
		encoded[i] = enc
	}

	var day any
	if d := r.Day(); !d.IsZero() {
		day = d
	}
	now := s.now()

	args := []any{
		r.ID, r.Title, r.Link, r.Date, day, r.Location, r.Venue, r.Price,
		r.Status, r.Category, r.PerformersText(), r.Image, r.ActionType, r.EventURL, r.Description,
	}
	args = append(args, encoded...)
	args = append(args, state, city, now, now)

	var id int64
	err := q.QueryRowContext(ctx, s.rebind(`INSERT INTO community_events (
		event_id, name, link, event_date, event_day, location, venue, price,
		status, category, performers, cover_image, action_type, event_url, description,
		venue_details, terms_and_conditions, artist_details, organizer_details,
		ticket_information, state, city, created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	RETURNING id`), args...).Scan(&id)
	if err != nil {
		return 0, fmt.Errorf("inserting event: %w", err)
	}
	return id, nil
}

// Upsert replaces whatever rows share r's natural key with r, inside one
// transaction. The returned id is the new row's.
func (s *Store) Upsert(ctx context.Context, state, city string, r *event.Record) (int64, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return 0, fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	key := KeyOf(state, city, r)
	existing, err := s.findByNaturalKey(ctx, tx, key)
	if err != nil {
		return 0, err
	}
	if len(existing) > 0 {
		if _, err := s.delete(ctx, tx, key); err != nil {
			return 0, err
		}
	}

	id, err := s.insert(ctx, tx, state, city, r)
	if err != nil {
		return 0, err
	}
	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("committing transaction: %w", err)
	}
	return id, nil
}

// Query filters ListEvents. Empty fields match everything; text matches are
// case-insensitive.
type Query struct {
	City     string
	State    string
	Category string
	// Keyword matches a substring of the title or description.
	Keyword string
	// EventID matches the source site's event id exactly.
	EventID string
	Limit   int
}

// ListEvents returns persisted events in insertion order.
func (s *Store) ListEvents(ctx context.Context, q Query) ([]Row, error) {
	var (
		where []string
		args  []any
	)
	if q.City != "" {
		where = append(where, "LOWER(city) = LOWER(?)")
		args = append(args, q.City)
	}
	if q.State != "" {
		where = append(where, "LOWER(state) = LOWER(?)")
		args = append(args, q.State)
	}
	if q.Category != "" {
		where = append(where, "LOWER(category) = LOWER(?)")
		args = append(args, q.Category)
	}
	if q.EventID != "" {
		where = append(where, "event_id = ?")
		args = append(args, q.EventID)
	}
	if q.Keyword != "" {
		where = append(where, "(LOWER(name) LIKE ? OR LOWER(description) LIKE ?)")
		pattern := "%" + strings.ToLower(q.Keyword) + "%"
		args = append(args, pattern, pattern)
	}

	query := `SELECT ` + eventColumns + ` FROM community_events`
	if len(where) > 0 {
		query += ` WHERE ` + strings.Join(where, " AND ")
	}
	query += ` ORDER BY id`
	if q.Limit > 0 {
		query += ` LIMIT ?`
		args = append(args, q.Limit)
	}

	rows, err := s.db.QueryContext(ctx, s.rebind(query), args...)
	if err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	defer rows.Close()

	var out []Row
	for rows.Next() {
		row, err := scanRow(rows)
		if err != nil {
			return nil, err
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("listing events: %w", err)
	}
	return out, nil
}

func scanRow(rows *sql.Rows) (Row, error) {
	var (
		row                                            Row
		eventID, link, date, location, venue, price    sql.NullString
		status, category, performers, image, action    sql.NullString
		eventURL, description, state, city             sql.NullString
		venueJSON, termsJSON, artistJSON, orgJSON, tkt sql.NullString
		eventDay, createdAt, updatedAt                 any
		title                                          string
	)
	err := rows.Scan(&row.ID, &eventID, &title, &link, &date, &eventDay, &location, &venue, &price,
		&status, &category, &performers, &image, &action, &eventURL, &description,
		&venueJSON, &termsJSON, &artistJSON, &orgJSON, &tkt, &state, &city, &createdAt, &updatedAt)
	if err != nil {
		return Row{}, fmt.Errorf("scanning event: %w", err)
	}

	r := event.NewRecord()
	r.ID = orDefault(eventID, event.NotAvailable)
	r.Title = title
	r.Link = orDefault(link, event.DefaultLink)
	r.Date = orDefault(date, event.NotAvailable)
	r.Location = orDefault(location, event.NotAvailable)
	r.Venue = orDefault(venue, event.NotAvailable)
	r.Price = orDefault(price, event.NotAvailable)
	r.Status = orDefault(status, event.NotAvailable)
	r.Category = orDefault(category, event.NotAvailable)
	r.Performers = event.ParsePerformers(performers.String)
	r.Image = orDefault(image, event.NotAvailable)
	r.ActionType = orDefault(action, event.DefaultAction)
	r.EventURL = orDefault(eventURL, event.NotAvailable)
	r.Description = orDefault(description, event.NotAvailable)

	decoders := []struct {
		src sql.NullString
		dst any
	}{
		{venueJSON, &r.VenueDetails},
		{termsJSON, &r.Terms},
		{artistJSON, &r.Artist},
		{orgJSON, &r.Organizer},
		{tkt, &r.Tickets},
	}
	for _, d := range decoders {
		if !d.src.Valid || d.src.String == "" {
			continue
		}
		if err := json.Unmarshal([]byte(d.src.String), d.dst); err != nil {
			return Row{}, fmt.Errorf("decoding nested record for %s: %w", title, err)
		}
	}

	row.Record = r
	row.State = state.String
	row.City = city.String
	row.EventDay = toTime(eventDay)
	row.CreatedAt = toTime(createdAt)
	row.UpdatedAt = toTime(updatedAt)
	return row, nil
}

// encodeJSON returns the JSON text for a nested record, or NULL when the
// pointer is nil.
func encodeJSON(v any) (sql.NullString, error) {
	if isNilPointer(v) {
		return sql.NullString{}, nil
	}
	data, err := json.Marshal(v)
	if err != nil {
		return sql.NullString{}, err
	}
	return sql.NullString{String: string(data), Valid: true}, nil
}

func isNilPointer(v any) bool {
	switch p := v.(type) {
	case *event.VenueDetail:
		return p == nil
	case *event.Terms:
		return p == nil
	case *event.Artist:
		return p == nil
	case *event.Organizer:
		return p == nil
	case *event.TicketInfo:
		return p == nil
	default:
		return v == nil
	}
}

func orDefault(ns sql.NullString, def string) string {
	if !ns.Valid || ns.String == "" {
		return def
	}
	return ns.String
}
