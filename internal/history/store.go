package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"time"

	_ "modernc.org/sqlite"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema
// changes; the history database is an audit convenience, so mismatches ask
// the user to remove it rather than migrating in place.
const schemaVersion = 1

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Store persists attempt history in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at path.
func Open(path string) (*Store, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return nil, fmt.Errorf("create history directory: %w", err)
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("open sqlite db: %w", err)
	}

	pragmas := []string{
		"PRAGMA journal_mode=WAL",
		"PRAGMA busy_timeout = 5000",
	}
	for _, pragma := range pragmas {
		if _, execErr := db.Exec(pragma); execErr != nil {
			_ = db.Close()
			return nil, fmt.Errorf("apply pragma %q: %w", pragma, execErr)
		}
	}

	store := &Store{db: db, path: path}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

func (s *Store) initSchema(ctx context.Context) error {
	var tableExists int
	err := s.db.QueryRowContext(ctx,
		"SELECT COUNT(1) FROM sqlite_master WHERE type='table' AND name='schema_version'",
	).Scan(&tableExists)
	if err != nil {
		return fmt.Errorf("check schema_version table: %w", err)
	}

	if tableExists == 0 {
		return s.createSchema(ctx)
	}

	var version int
	if err := s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version); err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to recreate)",
			ErrSchemaMismatch, version, schemaVersion, s.path)
	}
	return nil
}

func (s *Store) createSchema(ctx context.Context) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("begin schema tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	if _, err := tx.ExecContext(ctx, schemaSQL); err != nil {
		return fmt.Errorf("create schema: %w", err)
	}
	if _, err := tx.ExecContext(ctx, "INSERT INTO schema_version (version) VALUES (?)", schemaVersion); err != nil {
		return fmt.Errorf("record schema version: %w", err)
	}
	if err := tx.Commit(); err != nil {
		return fmt.Errorf("commit schema: %w", err)
	}
	return nil
}

// Record inserts one attempt row and returns it with the assigned id.
func (s *Store) Record(ctx context.Context, attempt Attempt) (*Attempt, error) {
	if attempt.SessionID == "" || attempt.RunToken == "" || attempt.FileName == "" {
		return nil, errors.New("attempt requires session id, run token, and file name")
	}
	if attempt.Result == "" {
		return nil, errors.New("attempt requires a result")
	}

	var exitStatus any
	if attempt.ExitStatus != nil {
		exitStatus = *attempt.ExitStatus
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO attempts (
            session_id, run_token, file_name, result, exit_status,
            log_path, quarantine_path, detail, started_at, finished_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		attempt.SessionID,
		attempt.RunToken,
		attempt.FileName,
		attempt.Result,
		exitStatus,
		attempt.LogPath,
		nullableString(attempt.QuarantinePath),
		nullableString(attempt.Detail),
		attempt.StartedAt.UTC().Format(time.RFC3339Nano),
		attempt.FinishedAt.UTC().Format(time.RFC3339Nano),
	)
	if err != nil {
		return nil, fmt.Errorf("insert attempt: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	attempt.ID = id
	return &attempt, nil
}

// Recent returns the newest attempts, most recent first, capped at limit.
func (s *Store) Recent(ctx context.Context, limit int) ([]Attempt, error) {
	if limit <= 0 {
		limit = 50
	}
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, session_id, run_token, file_name, result, exit_status,
                log_path, quarantine_path, detail, started_at, finished_at
         FROM attempts ORDER BY id DESC LIMIT ?`,
		limit,
	)
	if err != nil {
		return nil, fmt.Errorf("query attempts: %w", err)
	}
	defer rows.Close()
	return scanAttempts(rows)
}

// ByFile returns every recorded attempt for a filename, most recent first.
func (s *Store) ByFile(ctx context.Context, fileName string) ([]Attempt, error) {
	rows, err := s.db.QueryContext(
		ctx,
		`SELECT id, session_id, run_token, file_name, result, exit_status,
                log_path, quarantine_path, detail, started_at, finished_at
         FROM attempts WHERE file_name = ? ORDER BY id DESC`,
		fileName,
	)
	if err != nil {
		return nil, fmt.Errorf("query attempts by file: %w", err)
	}
	defer rows.Close()
	return scanAttempts(rows)
}

func scanAttempts(rows *sql.Rows) ([]Attempt, error) {
	var attempts []Attempt
	for rows.Next() {
		var (
			a          Attempt
			exitStatus sql.NullInt64
			quarantine sql.NullString
			detail     sql.NullString
			startedAt  string
			finishedAt string
		)
		if err := rows.Scan(
			&a.ID, &a.SessionID, &a.RunToken, &a.FileName, &a.Result,
			&exitStatus, &a.LogPath, &quarantine, &detail, &startedAt, &finishedAt,
		); err != nil {
			return nil, fmt.Errorf("scan attempt: %w", err)
		}
		if exitStatus.Valid {
			status := int(exitStatus.Int64)
			a.ExitStatus = &status
		}
		a.QuarantinePath = quarantine.String
		a.Detail = detail.String
		if ts, err := time.Parse(time.RFC3339Nano, startedAt); err == nil {
			a.StartedAt = ts
		}
		if ts, err := time.Parse(time.RFC3339Nano, finishedAt); err == nil {
			a.FinishedAt = ts
		}
		attempts = append(attempts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate attempts: %w", err)
	}
	return attempts, nil
}

func nullableString(value string) any {
	if value == "" {
		return nil
	}
	return value
}
