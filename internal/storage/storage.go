// Package storage defines the persistence boundary for completed assessment
// results.
package storage

import (
	"context"
	"time"

	"github.com/pathwise-edu/pathwise/internal/domain"
)

// AssessmentResult is the persisted record of one completed pipeline run.
// The (UserID, SessionID) pair is the idempotent upsert key.
type AssessmentResult struct {
	UserID       string            `json:"user_id"`
	SessionID    string            `json:"session_id"`
	Zones        domain.ZoneSet    `json:"zones"`
	ZoneScores   map[string]int    `json:"zone_scores"`
	TotalScore   int               `json:"total_score"`
	OverallStage string            `json:"overall_stage"`
	Answers      map[string]string `json:"answers"`
	Interests    []string          `json:"interests,omitempty"`
	TargetRole   string            `json:"target_role"`
	TargetDate   string            `json:"target_date,omitempty"`
	Narrative    string            `json:"narrative"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// ListOptions controls result listing.
type ListOptions struct {
	UserID string
	Limit  int
	Offset int
}

// ResultStore persists assessment results. SaveResult must be an idempotent
// upsert: saving the same (user id, session id) twice overwrites rather than
// duplicates.
type ResultStore interface {
	SaveResult(ctx context.Context, rec *AssessmentResult) error
	GetResult(ctx context.Context, userID, sessionID string) (*AssessmentResult, error)
	ListResults(ctx context.Context, opts ListOptions) ([]*AssessmentResult, error)
	Close() error
}
