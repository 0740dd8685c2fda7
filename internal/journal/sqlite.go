package journal

import (
	"context"
	"database/sql"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	nllog "github.com/msto63/noloop/foundation/core/log"
)

// SQLiteStore implements Store using SQLite
type SQLiteStore struct {
	db     *sql.DB
	mu     sync.RWMutex
	logger *nllog.Logger
}

// Config holds configuration for the SQLite store
type Config struct {
	Path   string
	Logger *nllog.Logger
}

// DefaultConfig returns default configuration
func DefaultConfig() Config {
	return Config{
		Path: "./data/journal.db",
	}
}

// Open creates or opens the SQLite journal at cfg.Path
func Open(cfg Config) (*SQLiteStore, error) {
	if cfg.Path == "" {
		cfg.Path = DefaultConfig().Path
	}
	logger := cfg.Logger
	if logger == nil {
		logger = nllog.NewNop()
	}
	logger = logger.WithField("component", "journal")

	if dir := filepath.Dir(cfg.Path); dir != "" {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return nil, dbError(err, "journal.open", "failed to create directory")
		}
	}

	db, err := sql.Open("sqlite3", cfg.Path+"?_journal_mode=WAL&_synchronous=NORMAL")
	if err != nil {
		return nil, dbError(err, "journal.open", "failed to open database")
	}

	store := &SQLiteStore{db: db, logger: logger}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, dbError(err, "journal.open", "failed to initialize schema")
	}

	logger.Debug("journal opened", nllog.Fields{"path": cfg.Path})
	return store, nil
}

func (s *SQLiteStore) initSchema() error {
	schema := `
	CREATE TABLE IF NOT EXISTS runs (
		id TEXT PRIMARY KEY,
		timestamp DATETIME NOT NULL,
		origin TEXT NOT NULL,
		name TEXT NOT NULL,
		source TEXT NOT NULL,
		result TEXT,
		error_code TEXT,
		error_message TEXT,
		duration_ms REAL NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_runs_timestamp ON runs(timestamp DESC);
	CREATE INDEX IF NOT EXISTS idx_runs_origin ON runs(origin);
	CREATE INDEX IF NOT EXISTS idx_runs_error_code ON runs(error_code);
	`

	_, err := s.db.Exec(schema)
	return err
}

// Record stores a run. A missing ID or timestamp is filled in.
func (s *SQLiteStore) Record(ctx context.Context, entry *Entry) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	prepare(entry)

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO runs (id, timestamp, origin, name, source, result, error_code, error_message, duration_ms)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, entry.ID, entry.Timestamp, string(entry.Origin), entry.Name, entry.Source,
		nullString(entry.Result), nullString(entry.ErrorCode), nullString(entry.ErrorMessage),
		durationMillis(entry.Duration))
	if err != nil {
		return dbError(err, "journal.record", "failed to insert run")
	}

	s.logger.Trace("run recorded", nllog.Fields{"id": entry.ID, "origin": string(entry.Origin)})
	return nil
}

// Recent lists runs matching filter, newest first
func (s *SQLiteStore) Recent(ctx context.Context, filter Filter) ([]*Entry, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	query := `SELECT id, timestamp, origin, name, source, result, error_code, error_message, duration_ms FROM runs WHERE 1=1`
	var args []interface{}

	if filter.Origin != "" {
		query += " AND origin = ?"
		args = append(args, string(filter.Origin))
	}
	if filter.Name != "" {
		query += " AND name = ?"
		args = append(args, filter.Name)
	}
	if filter.OnlyFailed {
		query += " AND error_code IS NOT NULL"
	}
	if !filter.Since.IsZero() {
		query += " AND timestamp >= ?"
		args = append(args, filter.Since.UTC())
	}

	query += " ORDER BY timestamp DESC"

	if filter.Limit > 0 {
		query += " LIMIT ?"
		args = append(args, filter.Limit)
	} else if filter.Offset > 0 {
		query += " LIMIT -1"
	}
	if filter.Offset > 0 {
		query += " OFFSET ?"
		args = append(args, filter.Offset)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, dbError(err, "journal.recent", "failed to query runs")
	}
	defer rows.Close()

	var entries []*Entry
	for rows.Next() {
		var entry Entry
		var origin string
		var result, errorCode, errorMessage sql.NullString
		var millis float64

		if err := rows.Scan(&entry.ID, &entry.Timestamp, &origin, &entry.Name, &entry.Source,
			&result, &errorCode, &errorMessage, &millis); err != nil {
			return nil, dbError(err, "journal.recent", "failed to scan run")
		}

		entry.Origin = Origin(origin)
		entry.Result = result.String
		entry.ErrorCode = errorCode.String
		entry.ErrorMessage = errorMessage.String
		entry.Duration = time.Duration(millis * float64(time.Millisecond))
		entries = append(entries, &entry)
	}
	if err := rows.Err(); err != nil {
		return nil, dbError(err, "journal.recent", "failed to read runs")
	}

	return entries, nil
}

// Stats returns counts per origin and error code
func (s *SQLiteStore) Stats(ctx context.Context) (*Stats, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	stats := &Stats{
		ByOrigin:    make(map[string]int64),
		ByErrorCode: make(map[string]int64),
	}

	var avg sql.NullFloat64
	var last sql.NullString
	err := s.db.QueryRowContext(ctx,
		`SELECT COUNT(*), COUNT(error_code), AVG(duration_ms), MAX(timestamp) FROM runs`).
		Scan(&stats.Total, &stats.Failed, &avg, &last)
	if err != nil {
		return nil, dbError(err, "journal.stats", "failed to count runs")
	}
	if avg.Valid {
		stats.AverageDuration = time.Duration(avg.Float64 * float64(time.Millisecond))
	}
	if last.Valid {
		stats.LastRun = parseTimestamp(last.String)
	}

	if err := s.countBy(ctx, `SELECT origin, COUNT(*) FROM runs GROUP BY origin`, stats.ByOrigin); err != nil {
		return nil, err
	}
	if err := s.countBy(ctx, `SELECT error_code, COUNT(*) FROM runs WHERE error_code IS NOT NULL GROUP BY error_code`, stats.ByErrorCode); err != nil {
		return nil, err
	}

	return stats, nil
}

func (s *SQLiteStore) countBy(ctx context.Context, query string, into map[string]int64) error {
	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		return dbError(err, "journal.stats", "failed to group runs")
	}
	defer rows.Close()

	for rows.Next() {
		var key string
		var count int64
		if err := rows.Scan(&key, &count); err != nil {
			return dbError(err, "journal.stats", "failed to scan group")
		}
		into[key] = count
	}
	return rows.Err()
}

// Prune deletes runs older than the given age
func (s *SQLiteStore) Prune(ctx context.Context, olderThan time.Duration) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	cutoff := time.Now().Add(-olderThan).UTC()

	result, err := s.db.ExecContext(ctx, `DELETE FROM runs WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, dbError(err, "journal.prune", "failed to prune runs")
	}
	deleted, _ := result.RowsAffected()

	s.logger.Info("journal pruned", nllog.Fields{"deleted": deleted, "older_than": olderThan.String()})
	return deleted, nil
}

// Close closes the database
func (s *SQLiteStore) Close() error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.db.Close()
}

func prepare(entry *Entry) {
	if entry.ID == "" {
		entry.ID = uuid.New().String()
	}
	if entry.Timestamp.IsZero() {
		entry.Timestamp = time.Now()
	}
	entry.Timestamp = entry.Timestamp.UTC()
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func durationMillis(d time.Duration) float64 {
	return float64(d.Nanoseconds()) / 1e6
}

// parseTimestamp reads the text form go-sqlite3 writes for time.Time values.
// MAX() returns the column as text, so the driver does not convert it.
func parseTimestamp(s string) time.Time {
	layouts := []string{
		"2006-01-02 15:04:05.999999999-07:00",
		"2006-01-02T15:04:05.999999999-07:00",
		"2006-01-02 15:04:05.999999999",
		"2006-01-02T15:04:05Z07:00",
	}
	for _, layout := range layouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t
		}
	}
	return time.Time{}
}
