package pipeline

import (
	"context"
	"fmt"

	"github.com/google/uuid"

	"github.com/pathwise-edu/pathwise/internal/domain"
)

// ScoreReadiness maps the four zone labels to numeric band scores, derives
// the total score and overall stage label, and generates the session id used
// as part of the persistence key. The mapping is deterministic, so the stage
// is not retryable: a failure means the input is malformed and a second
// attempt cannot change the outcome.
type ScoreReadiness struct{}

func (ScoreReadiness) Name() string    { return "score_readiness" }
func (ScoreReadiness) Retryable() bool { return false }
func (ScoreReadiness) MaxRetries() int { return 0 }

func (ScoreReadiness) Execute(ctx context.Context, st *domain.PipelineState) error {
	scores := make(map[string]int, len(domain.Dimensions))
	total := 0
	for dim, label := range st.Input.Zones.ByDimension() {
		anchor, ok := label.Anchor()
		if !ok {
			return fmt.Errorf("score readiness: illegal zone label %q for %s", label, dim)
		}
		scores[dim] = anchor * domain.ScoreWeight
		total += anchor * domain.ScoreWeight
	}

	st.ZoneScores = scores
	st.TotalScore = total
	st.OverallStage = domain.StageForScore(total)

	// Generated once per run; stable across any re-execution within the run.
	if st.SessionID == "" {
		st.SessionID = uuid.NewString()
	}
	return nil
}

func (ScoreReadiness) Validate(st *domain.PipelineState) bool {
	if st.SessionID == "" || len(st.ZoneScores) != len(domain.Dimensions) {
		return false
	}
	for _, label := range st.Input.Zones.ByDimension() {
		if !label.Valid() {
			return false
		}
	}
	return st.OverallStage != ""
}
