package eventstore

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"github.com/KasumiMercury/primind-void-timer/internal/domain"
)

var ErrInvalidEventData = errors.New("invalid event data")

// Store is the SQLite-backed local history. Rows are never updated; Clear is
// the only removal.
type Store struct {
	db *sql.DB
}

// Open opens (or creates) the database at path and ensures the schema.
func Open(path string) (*Store, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to set WAL mode: %w", err)
	}

	if err := createTable(db); err != nil {
		db.Close()
		return nil, err
	}

	return &Store{db: db}, nil
}

func createTable(db *sql.DB) error {
	_, err := db.Exec(`
		CREATE TABLE IF NOT EXISTS events (
			id          TEXT    PRIMARY KEY,
			kind        TEXT    NOT NULL,
			occurred_at INTEGER NOT NULL,
			extra       TEXT
		)
	`)
	if err != nil {
		return fmt.Errorf("failed to create table: %w", err)
	}

	_, err = db.Exec(`CREATE INDEX IF NOT EXISTS idx_events_occurred_at ON events (occurred_at)`)
	if err != nil {
		return fmt.Errorf("failed to create index: %w", err)
	}
	return nil
}

func (s *Store) Close() error {
	return s.db.Close()
}

// Ping is used by the readiness check.
func (s *Store) Ping(ctx context.Context) error {
	return s.db.PingContext(ctx)
}

func (s *Store) Append(ctx context.Context, event domain.Event) error {
	if event.ID == uuid.Nil || !event.Kind.IsValid() {
		return ErrInvalidEventData
	}

	var extra sql.NullString
	if event.Extra != nil {
		extra = sql.NullString{String: *event.Extra, Valid: true}
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO events (id, kind, occurred_at, extra)
		VALUES (?, ?, ?, ?)
		ON CONFLICT (id) DO NOTHING
	`, event.ID.String(), event.Kind.String(), event.Timestamp.UnixNano(), extra)
	if err != nil {
		return fmt.Errorf("failed to insert event: %w", err)
	}

	return nil
}

// List returns the full history, newest first.
func (s *Store) List(ctx context.Context) ([]domain.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, occurred_at, extra
		FROM events ORDER BY occurred_at DESC
	`)
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

// ListSince returns events at or after since, newest first.
func (s *Store) ListSince(ctx context.Context, since time.Time) ([]domain.Event, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, kind, occurred_at, extra
		FROM events WHERE occurred_at >= ? ORDER BY occurred_at DESC
	`, since.UnixNano())
	if err != nil {
		return nil, fmt.Errorf("failed to list events: %w", err)
	}
	defer rows.Close()

	return scanEvents(rows)
}

func (s *Store) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM events`); err != nil {
		return fmt.Errorf("failed to clear events: %w", err)
	}
	return nil
}

func scanEvents(rows *sql.Rows) ([]domain.Event, error) {
	events := make([]domain.Event, 0)
	for rows.Next() {
		var (
			id         string
			kind       string
			occurredAt int64
			extra      sql.NullString
		)
		if err := rows.Scan(&id, &kind, &occurredAt, &extra); err != nil {
			return nil, fmt.Errorf("failed to scan event: %w", err)
		}

		parsedID, err := uuid.Parse(id)
		if err != nil {
			return nil, fmt.Errorf("%w: %w", ErrInvalidEventData, err)
		}

		event := domain.Event{
			ID:        parsedID,
			Kind:      domain.EventKind(kind),
			Timestamp: time.Unix(0, occurredAt),
		}
		if extra.Valid {
			v := extra.String
			event.Extra = &v
		}
		events = append(events, event)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate events: %w", err)
	}

	return events, nil
}
