package history

import (
	"context"
	"database/sql"
	_ "embed"
	"errors"
	"fmt"
	"strings"
	"time"

	_ "modernc.org/sqlite"

	"stl2scc/internal/config"
)

//go:embed schema.sql
var schemaSQL string

// schemaVersion is the current schema version. Bump this when the schema changes.
const schemaVersion = 1

// timestampLayout is fixed width so stored timestamps sort as text.
const timestampLayout = "2006-01-02T15:04:05.000000000Z"

// ErrSchemaMismatch indicates the database schema version doesn't match the expected version.
var ErrSchemaMismatch = errors.New("schema version mismatch")

// Store persists the conversion ledger in SQLite.
type Store struct {
	db   *sql.DB
	path string
}

// Open initializes or connects to the history database at cfg.Paths.HistoryDB.
func Open(cfg *config.Config) (*Store, error) {
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, fmt.Errorf("ensure directories: %w", err)
	}
	return OpenPath(cfg.Paths.HistoryDB)
}

// OpenPath opens the database file at path directly.
func OpenPath(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
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

	store := &Store{db: db, path: dbPath}
	if err := store.initSchema(context.Background()); err != nil {
		_ = db.Close()
		return nil, err
	}
	return store, nil
}

// Path returns the database file location.
func (s *Store) Path() string {
	return s.path
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	if s == nil || s.db == nil {
		return nil
	}
	return s.db.Close()
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
	err = s.db.QueryRowContext(ctx, "SELECT version FROM schema_version LIMIT 1").Scan(&version)
	if err != nil {
		return fmt.Errorf("read schema version: %w", err)
	}
	if version != schemaVersion {
		return fmt.Errorf("%w: database has version %d, expected %d (delete %s to start a new ledger)",
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

// Record inserts e and returns it with ID and CreatedAt assigned.
func (s *Store) Record(ctx context.Context, e Entry) (*Entry, error) {
	if strings.TrimSpace(e.RunID) == "" {
		return nil, errors.New("record history: run id is required")
	}
	if strings.TrimSpace(e.InputDigest) == "" {
		return nil, errors.New("record history: input digest is required")
	}
	if e.CreatedAt.IsZero() {
		e.CreatedAt = time.Now().UTC()
	}

	res, err := s.db.ExecContext(
		ctx,
		`INSERT INTO conversions (
            run_id, source_path, output_path, input_digest, status,
            captions, skipped, discarded, records,
            source_rate, target_rate, code_page, message, duration_ms, created_at
        ) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		e.RunID,
		e.SourcePath,
		nullableString(e.OutputPath),
		e.InputDigest,
		string(e.Status),
		e.Captions,
		e.Skipped,
		e.Discarded,
		e.Records,
		nullableString(e.SourceRate),
		nullableString(e.TargetRate),
		nullableString(e.CodePage),
		nullableString(e.Message),
		e.Duration.Milliseconds(),
		e.CreatedAt.UTC().Format(timestampLayout),
	)
	if err != nil {
		return nil, fmt.Errorf("insert conversion: %w", err)
	}
	id, err := res.LastInsertId()
	if err != nil {
		return nil, fmt.Errorf("last insert id: %w", err)
	}
	e.ID = id
	return &e, nil
}

// Filter narrows List results. Zero values match everything.
type Filter struct {
	RunID  string
	Status Status
	Limit  int
}

const entryColumns = `id, run_id, source_path, output_path, input_digest, status,
        captions, skipped, discarded, records,
        source_rate, target_rate, code_page, message, duration_ms, created_at`

// List returns entries newest first.
func (s *Store) List(ctx context.Context, f Filter) ([]Entry, error) {
	var (
		clauses []string
		args    []any
	)
	if f.RunID != "" {
		clauses = append(clauses, "run_id = ?")
		args = append(args, f.RunID)
	}
	if f.Status != "" {
		clauses = append(clauses, "status = ?")
		args = append(args, string(f.Status))
	}
	query := "SELECT " + entryColumns + " FROM conversions"
	if len(clauses) > 0 {
		query += " WHERE " + strings.Join(clauses, " AND ")
	}
	query += " ORDER BY id DESC"
	if f.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, f.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("list conversions: %w", err)
	}
	defer rows.Close()

	var entries []Entry
	for rows.Next() {
		entry, err := scanEntry(rows)
		if err != nil {
			return nil, err
		}
		entries = append(entries, *entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate conversions: %w", err)
	}
	return entries, nil
}

// LatestConverted returns the newest successful conversion of the input
// with digest written to outputPath, or nil when there is none.
func (s *Store) LatestConverted(ctx context.Context, digest, outputPath string) (*Entry, error) {
	row := s.db.QueryRowContext(ctx,
		"SELECT "+entryColumns+` FROM conversions
        WHERE input_digest = ? AND output_path = ? AND status IN (?, ?)
        ORDER BY id DESC LIMIT 1`,
		digest, outputPath, string(StatusConverted), string(StatusUnchanged),
	)
	entry, err := scanEntry(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	return entry, err
}

// Clear removes entries older than cutoff; a zero cutoff removes every entry.
func (s *Store) Clear(ctx context.Context, cutoff time.Time) (int64, error) {
	var (
		res sql.Result
		err error
	)
	if cutoff.IsZero() {
		res, err = s.db.ExecContext(ctx, "DELETE FROM conversions")
	} else {
		res, err = s.db.ExecContext(ctx, "DELETE FROM conversions WHERE created_at < ?", cutoff.UTC().Format(timestampLayout))
	}
	if err != nil {
		return 0, fmt.Errorf("clear conversions: %w", err)
	}
	return res.RowsAffected()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEntry(row rowScanner) (*Entry, error) {
	var (
		e          Entry
		status     string
		output     sql.NullString
		sourceRate sql.NullString
		targetRate sql.NullString
		codePage   sql.NullString
		message    sql.NullString
		durationMS int64
		createdAt  string
	)
	if err := row.Scan(
		&e.ID, &e.RunID, &e.SourcePath, &output, &e.InputDigest, &status,
		&e.Captions, &e.Skipped, &e.Discarded, &e.Records,
		&sourceRate, &targetRate, &codePage, &message, &durationMS, &createdAt,
	); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, err
		}
		return nil, fmt.Errorf("scan conversion: %w", err)
	}
	e.Status = Status(status)
	e.OutputPath = output.String
	e.SourceRate = sourceRate.String
	e.TargetRate = targetRate.String
	e.CodePage = codePage.String
	e.Message = message.String
	e.Duration = time.Duration(durationMS) * time.Millisecond
	if ts, err := time.Parse(timestampLayout, createdAt); err == nil {
		e.CreatedAt = ts
	}
	return &e, nil
}

func nullableString(value string) any {
	if strings.TrimSpace(value) == "" {
		return nil
	}
	return value
}
