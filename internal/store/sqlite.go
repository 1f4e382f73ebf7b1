package store

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/jmoiron/sqlx"
	_ "modernc.org/sqlite"

	"github.com/smit-tejani/smartassist-portal/internal/model"
)

// SQLiteStore implements CacheStore using a local SQLite database.
type SQLiteStore struct {
	db *sqlx.DB
}

// NewSQLiteStore opens (or creates) a SQLite database at dbPath,
// enables WAL mode, and runs any pending schema migrations.
func NewSQLiteStore(dbPath string) (*SQLiteStore, error) {
	db, err := sqlx.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("opening sqlite db: %w", err)
	}

	// Enable WAL mode for better concurrent read performance.
	if _, err := db.Exec("PRAGMA journal_mode=WAL"); err != nil {
		db.Close()
		return nil, fmt.Errorf("enabling WAL mode: %w", err)
	}

	s := &SQLiteStore{db: db}
	if err := s.runMigrations(); err != nil {
		db.Close()
		return nil, fmt.Errorf("running migrations: %w", err)
	}

	return s, nil
}

// Close closes the underlying database connection.
func (s *SQLiteStore) Close() error {
	return s.db.Close()
}

// runMigrations checks the current schema version and applies any
// outstanding migrations in order.
func (s *SQLiteStore) runMigrations() error {
	currentVersion := 0

	var tableCount int
	err := s.db.Get(
		&tableCount,
		"SELECT COUNT(*) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	)
	if err != nil {
		return fmt.Errorf("checking schema_version table: %w", err)
	}

	if tableCount > 0 {
		err = s.db.Get(&currentVersion, "SELECT COALESCE(MAX(version), 0) FROM schema_version")
		if err != nil {
			return fmt.Errorf("reading schema version: %w", err)
		}
	}

	for _, m := range migrations {
		if m.version <= currentVersion {
			continue
		}
		if _, err := s.db.Exec(m.sql); err != nil {
			return fmt.Errorf("applying migration v%d: %w", m.version, err)
		}
	}

	return nil
}

// UpsertCourses inserts or replaces a batch of catalog courses.
func (s *SQLiteStore) UpsertCourses(ctx context.Context, courses []model.Course) error {
	if len(courses) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT OR REPLACE INTO courses (
			id, course_code, course_name, term,
			instructor, schedule, credits, fetched_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing upsert statement: %w", err)
	}
	defer stmt.Close()

	for _, c := range courses {
		id := c.ID
		if id == "" {
			id = uuid.NewString()
		}
		_, err = stmt.ExecContext(ctx,
			id, c.Code, c.Name, c.Term,
			c.Instructor, c.Schedule, c.Credits,
		)
		if err != nil {
			return fmt.Errorf("upserting course %s: %w", id, err)
		}
	}

	return tx.Commit()
}

// GetCourses retrieves cached catalog courses for a term, ordered by code.
func (s *SQLiteStore) GetCourses(ctx context.Context, term string) ([]model.Course, error) {
	rows, err := s.db.QueryxContext(ctx, `
		SELECT id, course_code, course_name, term, instructor, schedule, credits
		FROM courses WHERE term = ? ORDER BY course_code`, term)
	if err != nil {
		return nil, fmt.Errorf("querying courses: %w", err)
	}
	defer rows.Close()

	var courses []model.Course
	for rows.Next() {
		var c model.Course
		if err := rows.Scan(
			&c.ID, &c.Code, &c.Name, &c.Term,
			&c.Instructor, &c.Schedule, &c.Credits,
		); err != nil {
			return nil, fmt.Errorf("scanning course row: %w", err)
		}
		courses = append(courses, c)
	}

	return courses, rows.Err()
}

// UpsertEvents inserts or replaces a batch of campus events.
func (s *SQLiteStore) UpsertEvents(ctx context.Context, events []model.Event) error {
	if len(events) == 0 {
		return nil
	}

	tx, err := s.db.BeginTxx(ctx, nil)
	if err != nil {
		return fmt.Errorf("beginning transaction: %w", err)
	}
	defer tx.Rollback()

	const query = `
		INSERT OR REPLACE INTO events (
			id, title, description, event_date, event_time,
			priority, target_audience, category, status,
			created_at, fetched_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, CURRENT_TIMESTAMP)`

	stmt, err := tx.PreparexContext(ctx, query)
	if err != nil {
		return fmt.Errorf("preparing upsert statement: %w", err)
	}
	defer stmt.Close()

	for _, e := range events {
		id := e.ID
		if id == "" {
			id = uuid.NewString()
		}
		_, err = stmt.ExecContext(ctx,
			id, e.Title, e.Description, e.EventDate, e.EventTime,
			e.Priority, e.TargetAudience, e.Category, e.Status,
			e.CreatedAt,
		)
		if err != nil {
			return fmt.Errorf("upserting event %s: %w", id, err)
		}
	}

	return tx.Commit()
}

// GetEvents retrieves cached events, optionally filtered by status,
// soonest first.
func (s *SQLiteStore) GetEvents(ctx context.Context, status string) ([]model.Event, error) {
	query := `
		SELECT id, title, description, event_date, event_time,
			priority, target_audience, category, status, created_at
		FROM events`
	var args []interface{}
	if status != "" {
		query += " WHERE status = ?"
		args = append(args, status)
	}
	query += " ORDER BY event_date"

	rows, err := s.db.QueryxContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("querying events: %w", err)
	}
	defer rows.Close()

	var events []model.Event
	for rows.Next() {
		var e model.Event
		if err := rows.Scan(
			&e.ID, &e.Title, &e.Description, &e.EventDate, &e.EventTime,
			&e.Priority, &e.TargetAudience, &e.Category, &e.Status,
			&e.CreatedAt,
		); err != nil {
			return nil, fmt.Errorf("scanning event row: %w", err)
		}
		events = append(events, e)
	}

	return events, rows.Err()
}
