package store

import (
	"database/sql"
	"encoding/json"
	"fmt"
	"log"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"github.com/i474232898/insight-dashboards/internal/weather"
)

const schema = `CREATE TABLE IF NOT EXISTS tracked_forecasts (
	id INTEGER PRIMARY KEY AUTOINCREMENT,
	location_key TEXT NOT NULL,
	fetched_at INTEGER NOT NULL,
	payload TEXT NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_tracked_forecasts_key_time
	ON tracked_forecasts (location_key, fetched_at);`

// SQLiteStore persists tracked forecasts as JSON rows, one per fetch.
type SQLiteStore struct {
	db        *sql.DB
	retention Retention
	now       func() time.Time
}

// NewSQLiteStore opens (or creates) the database at path and applies the schema.
func NewSQLiteStore(path string, maxHistory int, maxAge time.Duration) (*SQLiteStore, error) {
	db, err := sql.Open("sqlite3", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// In-memory databases are per-connection.
	if path == ":memory:" {
		db.SetMaxOpenConns(1)
	} else if _, err := db.Exec("PRAGMA journal_mode=WAL;"); err != nil {
		log.Printf("INFO: could not set WAL mode: %v", err)
	}

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to apply schema: %w", err)
	}

	return &SQLiteStore{
		db:        db,
		retention: Retention{MaxHistory: maxHistory, MaxAge: maxAge},
		now:       time.Now,
	}, nil
}

// SaveForecast inserts a forecast row and prunes rows outside retention.
func (s *SQLiteStore) SaveForecast(loc weather.Location, forecast weather.DailyForecast) error {
	payload, err := json.Marshal(forecast)
	if err != nil {
		return err
	}

	tx, err := s.db.Begin()
	if err != nil {
		return err
	}
	defer tx.Rollback()

	key := loc.Key()
	if _, err := tx.Exec(
		`INSERT INTO tracked_forecasts (location_key, fetched_at, payload) VALUES (?, ?, ?)`,
		key, unixNano(forecast.FetchedAt), string(payload),
	); err != nil {
		return fmt.Errorf("failed to insert forecast: %w", err)
	}

	if s.retention.MaxHistory > 0 {
		if _, err := tx.Exec(`
			DELETE FROM tracked_forecasts
			WHERE location_key = ? AND id NOT IN (
				SELECT id FROM tracked_forecasts
				WHERE location_key = ?
				ORDER BY fetched_at DESC, id DESC
				LIMIT ?
			)`, key, key, s.retention.MaxHistory); err != nil {
			return fmt.Errorf("failed to prune by count: %w", err)
		}
	}

	if cutoff, ok := s.retention.cutoff(s.now()); ok {
		if _, err := tx.Exec(`
			DELETE FROM tracked_forecasts
			WHERE location_key = ? AND fetched_at < ? AND id <> (
				SELECT id FROM tracked_forecasts
				WHERE location_key = ?
				ORDER BY fetched_at DESC, id DESC
				LIMIT 1
			)`, key, unixNano(cutoff), key); err != nil {
			return fmt.Errorf("failed to prune by age: %w", err)
		}
	}

	return tx.Commit()
}

// GetLatest returns the most recently fetched forecast for a location.
func (s *SQLiteStore) GetLatest(loc weather.Location) (weather.DailyForecast, error) {
	var payload string
	err := s.db.QueryRow(`
		SELECT payload FROM tracked_forecasts
		WHERE location_key = ?
		ORDER BY fetched_at DESC, id DESC
		LIMIT 1`, loc.Key()).Scan(&payload)
	if err == sql.ErrNoRows {
		return weather.DailyForecast{}, ErrNotFound
	}
	if err != nil {
		return weather.DailyForecast{}, err
	}

	var f weather.DailyForecast
	if err := json.Unmarshal([]byte(payload), &f); err != nil {
		return weather.DailyForecast{}, fmt.Errorf("failed to decode forecast: %w", err)
	}
	return f, nil
}

// GetRange returns forecasts fetched between from and to (inclusive), oldest first.
func (s *SQLiteStore) GetRange(loc weather.Location, from, to time.Time) ([]weather.DailyForecast, error) {
	rows, err := s.db.Query(`
		SELECT payload FROM tracked_forecasts
		WHERE location_key = ? AND fetched_at BETWEEN ? AND ?
		ORDER BY fetched_at, id`, loc.Key(), unixNano(from), unixNano(to))
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []weather.DailyForecast
	for rows.Next() {
		var payload string
		if err := rows.Scan(&payload); err != nil {
			return nil, err
		}
		var f weather.DailyForecast
		if err := json.Unmarshal([]byte(payload), &f); err != nil {
			return nil, fmt.Errorf("failed to decode forecast: %w", err)
		}
		out = append(out, f)
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}

	if len(out) == 0 {
		return nil, ErrNotFound
	}
	return out, nil
}

// Close releases the database handle.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}
