/*
Package storage records completed generation sessions in an embedded sqlite
database. The log is an audit trail, not domain state: a store failure never
fails the user's request, and nothing reads a session back on the hot path.
*/
package storage

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	_ "modernc.org/sqlite"
)

// Service is the session store handle shared by every experiment handler.
type Service interface {
	// Health returns a map of health status information for the liveness probe.
	Health() map[string]string

	// SaveGeneration records one completed pipeline run.
	SaveGeneration(ctx context.Context, rec Generation) error

	// RecentGenerations lists the newest sessions, capped at limit.
	RecentGenerations(ctx context.Context, limit int) ([]Generation, error)

	// Close terminates the database connection.
	Close() error
}

// Generation is one recorded pipeline run.
type Generation struct {
	SessionID  string    `json:"session_id"`
	Experiment string    `json:"experiment"`
	Source     string    `json:"source"` // "model" or "fallback"
	InputJSON  string    `json:"input"`
	OutputJSON string    `json:"output"`
	CreatedAt  time.Time `json:"created_at"`
}

const schema = `
CREATE TABLE IF NOT EXISTS generations (
	session_id  TEXT PRIMARY KEY,
	experiment  TEXT NOT NULL,
	source      TEXT NOT NULL,
	input_json  TEXT NOT NULL,
	output_json TEXT NOT NULL,
	created_at  TIMESTAMP NOT NULL
);
CREATE INDEX IF NOT EXISTS idx_generations_created ON generations(created_at DESC);
`

type service struct {
	db   *sql.DB
	path string
}

// NewService opens (or creates) the sqlite database at the path given by
// FITLAB_DB_PATH, defaulting to fitlab.db in the working directory.
func NewService() (Service, error) {
	path := os.Getenv("FITLAB_DB_PATH")
	if path == "" {
		path = "fitlab.db"
	}

	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("opening session store: %w", err)
	}

	// sqlite handles one writer at a time; a single connection avoids
	// SQLITE_BUSY under concurrent request handling.
	db.SetMaxOpenConns(1)

	if _, err := db.Exec(schema); err != nil {
		db.Close()
		return nil, fmt.Errorf("initializing session store schema: %w", err)
	}

	log.Info().Str("path", path).Msg("Session store ready")
	return &service{db: db, path: path}, nil
}

// NewSessionID creates the identifier handlers attach to each run.
func NewSessionID() string {
	return uuid.New().String()
}

func (s *service) SaveGeneration(ctx context.Context, rec Generation) error {
	if rec.SessionID == "" {
		rec.SessionID = NewSessionID()
	}
	if rec.CreatedAt.IsZero() {
		rec.CreatedAt = time.Now().UTC()
	}

	_, err := s.db.ExecContext(ctx,
		`INSERT INTO generations (session_id, experiment, source, input_json, output_json, created_at)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		rec.SessionID, rec.Experiment, rec.Source, rec.InputJSON, rec.OutputJSON, rec.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("saving generation session: %w", err)
	}
	return nil
}

func (s *service) RecentGenerations(ctx context.Context, limit int) ([]Generation, error) {
	if limit <= 0 || limit > 100 {
		limit = 20
	}

	rows, err := s.db.QueryContext(ctx,
		`SELECT session_id, experiment, source, input_json, output_json, created_at
		 FROM generations ORDER BY created_at DESC LIMIT ?`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing generation sessions: %w", err)
	}
	defer rows.Close()

	sessions := make([]Generation, 0, limit)
	for rows.Next() {
		var rec Generation
		if err := rows.Scan(&rec.SessionID, &rec.Experiment, &rec.Source,
			&rec.InputJSON, &rec.OutputJSON, &rec.CreatedAt); err != nil {
			return nil, fmt.Errorf("scanning generation session: %w", err)
		}
		sessions = append(sessions, rec)
	}
	return sessions, rows.Err()
}

// Health checks the store connection and reports basic counters.
func (s *service) Health() map[string]string {
	ctx, cancel := context.WithTimeout(context.Background(), 1*time.Second)
	defer cancel()

	stats := make(map[string]string)

	if err := s.db.PingContext(ctx); err != nil {
		stats["status"] = "down"
		stats["error"] = fmt.Sprintf("store down: %v", err)
		return stats
	}

	var count int64
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM generations`).Scan(&count); err == nil {
		stats["sessions_recorded"] = strconv.FormatInt(count, 10)
	}

	stats["status"] = "up"
	stats["path"] = s.path
	return stats
}

func (s *service) Close() error {
	log.Info().Str("path", s.path).Msg("Closing session store")
	return s.db.Close()
}
