/*
Package sqlite provides a SQLite-backed implementation of alarm.Store.

PURPOSE:
  Durable persistence for alarm records. The same patterns apply to any
  sql.DB-backed engine - only dialect details differ.

APPEND-ONLY ENFORCEMENT:
  - No UPDATE statements on the alarms table
  - No DELETE statements on the alarms table
  A replacement save of the same alarm id is a new row; rows are keyed by a
  generated UUID, not the alarm id, precisely so replacements never clash.

WAL MODE:
  SQLite is opened with WAL (Write-Ahead Logging):
  - Multiple readers don't block
  - Single writer at a time
  - Better crash recovery

CONCURRENCY:
  Uses sync.RWMutex for thread-safety on top of the driver's own locking.

USAGE:
  store, err := sqlite.Open("./data/alarms.db")  // ":memory:" for tests
  if err != nil {
      log.Fatal(err)
  }
  defer store.Close()

SEE ALSO:
  - alarm/store.go: Interface definition
  - alarm/store/memory.go: In-memory implementation for testing
*/
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/warp/alarm-engine/alarm"
)

// Store implements alarm.Store using SQLite.
type Store struct {
	db *sql.DB
	mu sync.RWMutex
}

// Open creates a SQLite store at the given path.
// Use ":memory:" for an in-memory database.
func Open(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_foreign_keys=on&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	store := &Store{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	return store, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// migrate creates the database schema.
func (s *Store) migrate() error {
	schema := `
	-- Alarm records (append-only)
	CREATE TABLE IF NOT EXISTS alarms (
		row_id TEXT PRIMARY KEY,
		alarm_id INTEGER NOT NULL,
		hour INTEGER NOT NULL,
		minute INTEGER NOT NULL,
		days_json TEXT NOT NULL,
		created_at TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_alarms_created_at ON alarms(created_at);
	CREATE INDEX IF NOT EXISTS idx_alarms_alarm_id ON alarms(alarm_id);
	`

	_, err := s.db.Exec(schema)
	return err
}

// =============================================================================
// ALARM STORE (alarm.Store interface)
// =============================================================================

// Append adds one record.
func (s *Store) Append(ctx context.Context, rec alarm.Record) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	daysJSON, err := json.Marshal(rec.Days)
	if err != nil {
		return fmt.Errorf("failed to encode days: %w", err)
	}

	query := `
		INSERT INTO alarms (row_id, alarm_id, hour, minute, days_json, created_at)
		VALUES (?, ?, ?, ?, ?, ?)
	`

	_, err = s.db.ExecContext(ctx, query,
		uuid.NewString(),
		rec.ID,
		rec.Time.Hour,
		rec.Time.Minute,
		string(daysJSON),
		time.Now().UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return fmt.Errorf("failed to append alarm: %w", err)
	}

	return nil
}

// AllValues returns every record in insertion order.
func (s *Store) AllValues(ctx context.Context) ([]alarm.Record, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `
		SELECT alarm_id, hour, minute, days_json
		FROM alarms
		ORDER BY rowid ASC
	`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to query alarms: %w", err)
	}
	defer rows.Close()

	var records []alarm.Record
	for rows.Next() {
		rec, err := scanRecord(rows)
		if err != nil {
			return nil, err
		}
		records = append(records, rec)
	}

	return records, rows.Err()
}

func scanRecord(rows *sql.Rows) (alarm.Record, error) {
	var (
		rec      alarm.Record
		daysJSON string
	)

	if err := rows.Scan(&rec.ID, &rec.Time.Hour, &rec.Time.Minute, &daysJSON); err != nil {
		return alarm.Record{}, fmt.Errorf("failed to scan alarm: %w", err)
	}

	if err := json.Unmarshal([]byte(daysJSON), &rec.Days); err != nil {
		return alarm.Record{}, fmt.Errorf("failed to decode days: %w", err)
	}

	return rec, nil
}
