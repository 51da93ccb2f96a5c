// Package sqlite is the SQLite implementation of storage.ResultStore.
package sqlite

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	_ "modernc.org/sqlite"

	"github.com/pathwise-edu/pathwise/internal/storage"
)

// Store is a SQLite implementation of ResultStore.
type Store struct {
	db *sql.DB
}

var _ storage.ResultStore = (*Store)(nil)

// New opens (or creates) the database at dbPath and initializes the schema.
func New(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite", dbPath)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if _, err := db.Exec("PRAGMA journal_mode=WAL; PRAGMA synchronous=NORMAL;"); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to enable WAL mode: %w", err)
	}

	store := &Store{db: db}
	if err := store.initSchema(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to initialize schema: %w", err)
	}
	return store, nil
}

func (s *Store) initSchema() error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS assessment_results (
			user_id TEXT NOT NULL,
			session_id TEXT NOT NULL,
			academics_zone TEXT NOT NULL,
			skills_zone TEXT NOT NULL,
			experience_zone TEXT NOT NULL,
			clarity_zone TEXT NOT NULL,
			zone_scores TEXT NOT NULL,
			total_score INTEGER NOT NULL,
			overall_stage TEXT NOT NULL,
			answers TEXT,
			interests TEXT,
			target_role TEXT,
			target_date TEXT,
			narrative TEXT,
			created_at TIMESTAMP NOT NULL,
			updated_at TIMESTAMP NOT NULL,
			PRIMARY KEY (user_id, session_id)
		)`,
		`CREATE INDEX IF NOT EXISTS idx_results_user ON assessment_results(user_id)`,
		`CREATE INDEX IF NOT EXISTS idx_results_stage ON assessment_results(overall_stage)`,
	}

	for _, stmt := range statements {
		if _, err := s.db.Exec(stmt); err != nil {
			return fmt.Errorf("failed to execute schema statement: %w", err)
		}
	}
	return nil
}

// SaveResult upserts the record keyed by (user_id, session_id). Re-saving
// the same key overwrites the row and bumps updated_at; created_at keeps the
// first write's timestamp.
func (s *Store) SaveResult(ctx context.Context, rec *storage.AssessmentResult) error {
	now := time.Now()

	scores, err := json.Marshal(rec.ZoneScores)
	if err != nil {
		return fmt.Errorf("failed to marshal zone scores: %w", err)
	}
	answers, err := json.Marshal(rec.Answers)
	if err != nil {
		return fmt.Errorf("failed to marshal answers: %w", err)
	}
	interests, err := json.Marshal(rec.Interests)
	if err != nil {
		return fmt.Errorf("failed to marshal interests: %w", err)
	}

	query := `INSERT INTO assessment_results (
		user_id, session_id,
		academics_zone, skills_zone, experience_zone, clarity_zone,
		zone_scores, total_score, overall_stage,
		answers, interests, target_role, target_date, narrative,
		created_at, updated_at
	) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	ON CONFLICT(user_id, session_id) DO UPDATE SET
		academics_zone=excluded.academics_zone,
		skills_zone=excluded.skills_zone,
		experience_zone=excluded.experience_zone,
		clarity_zone=excluded.clarity_zone,
		zone_scores=excluded.zone_scores,
		total_score=excluded.total_score,
		overall_stage=excluded.overall_stage,
		answers=excluded.answers,
		interests=excluded.interests,
		target_role=excluded.target_role,
		target_date=excluded.target_date,
		narrative=excluded.narrative,
		updated_at=excluded.updated_at`

	_, err = s.db.ExecContext(ctx, query,
		rec.UserID, rec.SessionID,
		string(rec.Zones.Academics), string(rec.Zones.Skills),
		string(rec.Zones.Experience), string(rec.Zones.Clarity),
		string(scores), rec.TotalScore, rec.OverallStage,
		string(answers), string(interests), rec.TargetRole, rec.TargetDate, rec.Narrative,
		now, now)
	if err != nil {
		return fmt.Errorf("failed to save result: %w", err)
	}
	return nil
}

// GetResult loads one persisted result.
func (s *Store) GetResult(ctx context.Context, userID, sessionID string) (*storage.AssessmentResult, error) {
	query := `SELECT user_id, session_id,
		academics_zone, skills_zone, experience_zone, clarity_zone,
		zone_scores, total_score, overall_stage,
		answers, interests, target_role, target_date, narrative,
		created_at, updated_at
	FROM assessment_results WHERE user_id = ? AND session_id = ?`

	rec, err := scanResult(s.db.QueryRowContext(ctx, query, userID, sessionID))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("result %s/%s not found", userID, sessionID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get result: %w", err)
	}
	return rec, nil
}

// ListResults returns a user's persisted results, newest first.
func (s *Store) ListResults(ctx context.Context, opts storage.ListOptions) ([]*storage.AssessmentResult, error) {
	query := `SELECT user_id, session_id,
		academics_zone, skills_zone, experience_zone, clarity_zone,
		zone_scores, total_score, overall_stage,
		answers, interests, target_role, target_date, narrative,
		created_at, updated_at
	FROM assessment_results WHERE user_id = ?
	ORDER BY updated_at DESC
	LIMIT ? OFFSET ?`

	limit := opts.Limit
	if limit == 0 {
		limit = 100
	}

	rows, err := s.db.QueryContext(ctx, query, opts.UserID, limit, opts.Offset)
	if err != nil {
		return nil, fmt.Errorf("failed to query results: %w", err)
	}
	defer rows.Close()

	var results []*storage.AssessmentResult
	for rows.Next() {
		rec, err := scanResult(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan result: %w", err)
		}
		results = append(results, rec)
	}
	return results, rows.Err()
}

// Close releases the database handle.
func (s *Store) Close() error {
	return s.db.Close()
}

// scanner covers *sql.Row and *sql.Rows.
type scanner interface {
	Scan(dest ...any) error
}

func scanResult(row scanner) (*storage.AssessmentResult, error) {
	var rec storage.AssessmentResult
	var scoresJSON string
	var answersJSON, interestsJSON, targetRole, targetDate, narrative sql.NullString

	err := row.Scan(
		&rec.UserID, &rec.SessionID,
		&rec.Zones.Academics, &rec.Zones.Skills, &rec.Zones.Experience, &rec.Zones.Clarity,
		&scoresJSON, &rec.TotalScore, &rec.OverallStage,
		&answersJSON, &interestsJSON, &targetRole, &targetDate, &narrative,
		&rec.CreatedAt, &rec.UpdatedAt)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal([]byte(scoresJSON), &rec.ZoneScores); err != nil {
		return nil, fmt.Errorf("failed to unmarshal zone scores: %w", err)
	}
	if answersJSON.Valid && answersJSON.String != "" {
		if err := json.Unmarshal([]byte(answersJSON.String), &rec.Answers); err != nil {
			return nil, fmt.Errorf("failed to unmarshal answers: %w", err)
		}
	}
	if interestsJSON.Valid && interestsJSON.String != "" {
		if err := json.Unmarshal([]byte(interestsJSON.String), &rec.Interests); err != nil {
			return nil, fmt.Errorf("failed to unmarshal interests: %w", err)
		}
	}
	rec.TargetRole = targetRole.String
	rec.TargetDate = targetDate.String
	rec.Narrative = narrative.String

	return &rec, nil
}
