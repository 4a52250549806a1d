package storage

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
)

// ErrCityNotFound is returned when mastercity has no row for a city.
var ErrCityNotFound = errors.New("city not found")

// City is one row of the mastercity reference table.
type City struct {
	ID      int64
	City    string
	State   string
	Geohash string
	Lat     string
	Long    string
	Key     string
	Status  string
}

// CityByName looks a city up case-insensitively. The first match wins.
func (s *Store) CityByName(ctx context.Context, name string) (City, error) {
	var (
		c                                       City
		id                                      sql.NullInt64
		city, state, geohash, lat, long, key, st sql.NullString
	)
	err := s.db.QueryRowContext(ctx, s.rebind(`
		SELECT mastercityid, city, state, geohash, lat, "long", "key", status
		FROM mastercity
		WHERE LOWER(city) = LOWER(?)
		LIMIT 1`), name).Scan(&id, &city, &state, &geohash, &lat, &long, &key, &st)
	if errors.Is(err, sql.ErrNoRows) {
		return City{}, fmt.Errorf("%w: %s", ErrCityNotFound, name)
	}
	if err != nil {
		return City{}, fmt.Errorf("looking up city %s: %w", name, err)
	}

	c.ID = id.Int64
	c.City = city.String
	c.State = state.String
	c.Geohash = geohash.String
	c.Lat = lat.String
	c.Long = long.String
	c.Key = key.String
	c.Status = st.String
	return c, nil
}

// SaveCity adds a mastercity row. The table is normally maintained
// elsewhere; this exists for seeding local databases.
func (s *Store) SaveCity(ctx context.Context, c City) error {
	now := s.now()
	_, err := s.db.ExecContext(ctx, s.rebind(`
		INSERT INTO mastercity (mastercityid, city, state, geohash, lat, "long", "key", status,
			createdby, createddate, updatedby, updateddate)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`),
		c.ID, c.City, c.State, c.Geohash, c.Lat, c.Long, c.Key, c.Status,
		"cityevents", now, "cityevents", now)
	if err != nil {
		return fmt.Errorf("saving city %s: %w", c.City, err)
	}
	return nil
}
