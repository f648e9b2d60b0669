package store

import (
	"context"
	"database/sql"
	"fmt"

	_ "modernc.org/sqlite"

	"dayplan/internal/model"
)

// The SQLite index mirrors the calendar documents for scriptable queries
// (`dayplan events list` and friends). It is derived state: Reindex can
// rebuild it from the documents at any time.

func (s Store) openSQLite(ctx context.Context) (*sql.DB, error) {
	if err := s.Ensure(); err != nil {
		return nil, err
	}
	// modernc.org/sqlite driver name is "sqlite".
	db, err := sql.Open("sqlite", s.sqlitePath())
	if err != nil {
		return nil, err
	}
	// Pragmas for multi-process local usage: WAL enables one writer plus
	// many readers; busy_timeout avoids "database is locked" flakiness.
	pragmas := []string{
		"PRAGMA journal_mode=WAL;",
		"PRAGMA synchronous=NORMAL;",
		"PRAGMA busy_timeout=5000;",
	}
	for _, p := range pragmas {
		if _, err := db.ExecContext(ctx, p); err != nil {
			_ = db.Close()
			return nil, err
		}
	}
	if err := migrateSQLite(ctx, db); err != nil {
		_ = db.Close()
		return nil, err
	}
	return db, nil
}

func migrateSQLite(ctx context.Context, db *sql.DB) error {
	stmts := []string{
		`CREATE TABLE IF NOT EXISTS calendars (
			id   TEXT PRIMARY KEY,
			name TEXT NOT NULL
		);`,
		`CREATE TABLE IF NOT EXISTS events (
			id           TEXT PRIMARY KEY,
			calendar_id  TEXT NOT NULL,
			title        TEXT NOT NULL,
			start_hour   INTEGER NOT NULL,
			start_minute INTEGER NOT NULL,
			duration     INTEGER NOT NULL,
			color        INTEGER NOT NULL
		);`,
		`CREATE INDEX IF NOT EXISTS idx_events_calendar ON events(calendar_id, start_hour, start_minute);`,
	}
	for _, stmt := range stmts {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("sqlite migrate: %w", err)
		}
	}
	return nil
}

// Reindex rewrites the whole index from the given set.
func (s Store) Reindex(ctx context.Context, set *model.CalendarSet) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM calendars`); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM events`); err != nil {
		return err
	}
	for _, cal := range set.Calendars {
		if err := insertCalendarTx(ctx, tx, cal); err != nil {
			return err
		}
	}
	return tx.Commit()
}

// indexCalendar refreshes one calendar's index rows after a document
// write.
func (s Store) indexCalendar(ctx context.Context, cal model.Calendar) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()

	tx, err := db.BeginTx(ctx, &sql.TxOptions{})
	if err != nil {
		return err
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, `DELETE FROM events WHERE calendar_id = ?`, cal.ID); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx, `DELETE FROM calendars WHERE id = ?`, cal.ID); err != nil {
		return err
	}
	if err := insertCalendarTx(ctx, tx, cal); err != nil {
		return err
	}
	return tx.Commit()
}

func (s Store) deindexCalendar(ctx context.Context, id string) error {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return err
	}
	defer db.Close()
	if _, err := db.ExecContext(ctx, `DELETE FROM events WHERE calendar_id = ?`, id); err != nil {
		return err
	}
	_, err = db.ExecContext(ctx, `DELETE FROM calendars WHERE id = ?`, id)
	return err
}

func insertCalendarTx(ctx context.Context, tx *sql.Tx, cal model.Calendar) error {
	if _, err := tx.ExecContext(ctx,
		`INSERT OR REPLACE INTO calendars(id, name) VALUES(?, ?)`, cal.ID, cal.Name); err != nil {
		return err
	}
	for _, e := range cal.Events {
		if _, err := tx.ExecContext(ctx,
			`INSERT OR REPLACE INTO events(id, calendar_id, title, start_hour, start_minute, duration, color)
			 VALUES(?, ?, ?, ?, ?, ?, ?)`,
			e.ID, cal.ID, e.Title, e.StartHour, e.StartMinute, e.Duration, e.Color); err != nil {
			return err
		}
	}
	return nil
}

// QueryEvents reads events from the index, ordered by start time then id.
// An empty calendarID returns all events.
func (s Store) QueryEvents(ctx context.Context, calendarID string) ([]model.Event, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	q := `SELECT id, calendar_id, title, start_hour, start_minute, duration, color FROM events`
	var args []any
	if calendarID != "" {
		q += ` WHERE calendar_id = ?`
		args = append(args, calendarID)
	}
	q += ` ORDER BY start_hour, start_minute, id`

	rows, err := db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(&e.ID, &e.CalendarID, &e.Title, &e.StartHour, &e.StartMinute, &e.Duration, &e.Color); err != nil {
			return nil, err
		}
		out = append(out, e)
	}
	return out, rows.Err()
}

// QueryCalendars reads the calendar list from the index, ordered by name.
func (s Store) QueryCalendars(ctx context.Context) ([]model.Calendar, error) {
	db, err := s.openSQLite(ctx)
	if err != nil {
		return nil, err
	}
	defer db.Close()

	rows, err := db.QueryContext(ctx, `SELECT id, name FROM calendars ORDER BY name, id`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var out []model.Calendar
	for rows.Next() {
		var c model.Calendar
		if err := rows.Scan(&c.ID, &c.Name); err != nil {
			return nil, err
		}
		out = append(out, c)
	}
	return out, rows.Err()
}
