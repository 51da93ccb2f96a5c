package pipeline

import (
	"context"
	"log/slog"
	"time"

	"github.com/pathwise-edu/pathwise/internal/domain"
	"github.com/pathwise-edu/pathwise/internal/storage"
)

// Finalize seals the output region and, for real (non-fallback) roadmaps
// with scores present, upserts the result keyed by (user id, session id).
// A persistence failure is logged and surfaced through st.Persisted, never
// through the pipeline's own error channel: losing the analytics write is
// acceptable, losing the user's generated roadmap is not.
type Finalize struct {
	store  storage.ResultStore
	logger *slog.Logger
}

// NewFinalize creates the stage. A nil store disables persistence.
func NewFinalize(store storage.ResultStore, logger *slog.Logger) *Finalize {
	if logger == nil {
		logger = slog.Default()
	}
	return &Finalize{store: store, logger: logger}
}

func (*Finalize) Name() string    { return "finalize" }
func (*Finalize) Retryable() bool { return false }
func (*Finalize) MaxRetries() int { return 0 }

func (f *Finalize) Execute(ctx context.Context, st *domain.PipelineState) error {
	st.CompletedAt = time.Now()
	st.Succeeded = st.Roadmap != nil && !st.Roadmap.Fallback

	if !st.Succeeded || len(st.ZoneScores) != len(domain.Dimensions) {
		return nil
	}
	if f.store == nil {
		return nil
	}

	rec := &storage.AssessmentResult{
		UserID:       st.Input.UserID,
		SessionID:    st.SessionID,
		Zones:        st.Input.Zones,
		ZoneScores:   st.ZoneScores,
		TotalScore:   st.TotalScore,
		OverallStage: st.OverallStage,
		Answers:      st.Input.Answers,
		Interests:    st.Input.Interests,
		TargetRole:   st.Input.TargetRole,
		TargetDate:   st.Input.TargetDate,
		Narrative:    st.Roadmap.Narrative,
	}

	if err := f.store.SaveResult(ctx, rec); err != nil {
		f.logger.Warn("result persistence failed",
			slog.String("user_id", st.Input.UserID),
			slog.String("session_id", st.SessionID),
			slog.String("error", err.Error()),
		)
		return nil
	}
	st.Persisted = true
	return nil
}

func (*Finalize) Validate(st *domain.PipelineState) bool {
	rm := st.Roadmap
	if rm == nil || rm.Narrative == "" || rm.Phases == nil {
		return false
	}
	if rm.Scores.OverallStage == "" || len(rm.Scores.ZoneScores) != len(domain.Dimensions) {
		return false
	}
	for _, label := range rm.Scores.Zones.ByDimension() {
		if label == "" {
			return false
		}
	}
	return true
}
