package service

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	"github.com/terraviz/globe/internal/fallback"
	"github.com/terraviz/globe/internal/geo"
)

// GazetteerService resolves landmark names to coordinates. Backed by
// DuckDB when a database handle is available; the embedded landmark set
// is always present as a floor, so lookups work even without a working
// database.
type GazetteerService struct {
	db *sql.DB
}

// NewGazetteerService creates the gazetteer, seeding the landmarks
// table from the embedded set when the database is usable. A nil db is
// fine: the service then answers purely from the embedded landmarks.
func NewGazetteerService(ctx context.Context, conn *sql.DB) (*GazetteerService, error) {
	s := &GazetteerService{db: conn}
	if conn == nil {
		return s, nil
	}

	if _, err := conn.ExecContext(ctx, `CREATE TABLE IF NOT EXISTS landmarks (
		name VARCHAR PRIMARY KEY,
		lat DOUBLE NOT NULL,
		lon DOUBLE NOT NULL
	)`); err != nil {
		return nil, fmt.Errorf("create landmarks table: %w", err)
	}

	for _, lm := range fallback.Landmarks() {
		if _, err := conn.ExecContext(ctx,
			`INSERT OR IGNORE INTO landmarks (name, lat, lon) VALUES (?, ?, ?)`,
			lm.Name, lm.Coord.Lat, lm.Coord.Lon); err != nil {
			return nil, fmt.Errorf("seed landmark %q: %w", lm.Name, err)
		}
	}
	return s, nil
}

// record builds the API shape, including the "lat, lng" 4-decimal text
// encoding.
func record(name string, c geo.Coordinate) LandmarkRecord {
	return LandmarkRecord{Name: name, Lat: c.Lat, Lon: c.Lon, Position: c.String()}
}

// List returns every known landmark.
func (s *GazetteerService) List(ctx context.Context) ([]LandmarkRecord, error) {
	if s.db == nil {
		marks := fallback.Landmarks()
		out := make([]LandmarkRecord, 0, len(marks))
		for _, lm := range marks {
			out = append(out, record(lm.Name, lm.Coord))
		}
		return out, nil
	}

	rows, err := s.db.QueryContext(ctx, `SELECT name, lat, lon FROM landmarks ORDER BY name`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []LandmarkRecord
	for rows.Next() {
		var name string
		var lat, lon float64
		if err := rows.Scan(&name, &lat, &lon); err != nil {
			return nil, err
		}
		out = append(out, record(name, geo.Coordinate{Lon: lon, Lat: lat}))
	}
	return out, rows.Err()
}

// Lookup resolves one landmark by name, case-insensitively.
func (s *GazetteerService) Lookup(ctx context.Context, name string) (LandmarkRecord, bool, error) {
	if s.db != nil {
		var got string
		var lat, lon float64
		err := s.db.QueryRowContext(ctx,
			`SELECT name, lat, lon FROM landmarks WHERE lower(name) = lower(?)`, name).
			Scan(&got, &lat, &lon)
		switch err {
		case nil:
			return record(got, geo.Coordinate{Lon: lon, Lat: lat}), true, nil
		case sql.ErrNoRows:
			return LandmarkRecord{}, false, nil
		default:
			return LandmarkRecord{}, false, err
		}
	}

	for _, lm := range fallback.Landmarks() {
		if strings.EqualFold(lm.Name, name) {
			return record(lm.Name, lm.Coord), true, nil
		}
	}
	return LandmarkRecord{}, false, nil
}

// Add inserts or replaces a landmark after validating its coordinate.
func (s *GazetteerService) Add(ctx context.Context, name string, c geo.Coordinate) (LandmarkRecord, error) {
	if err := c.Validate(); err != nil {
		return LandmarkRecord{}, err
	}
	if s.db == nil {
		return LandmarkRecord{}, fmt.Errorf("gazetteer database not available")
	}
	if _, err := s.db.ExecContext(ctx,
		`INSERT OR REPLACE INTO landmarks (name, lat, lon) VALUES (?, ?, ?)`,
		name, c.Lat, c.Lon); err != nil {
		return LandmarkRecord{}, err
	}
	return record(name, c), nil
}
