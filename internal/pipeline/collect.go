package pipeline

import (
	"context"

	"github.com/pathwise-edu/pathwise/internal/domain"
)

// CollectInput asserts that the input region is fully populated before any
// expensive downstream work runs. It performs no transformation; the check
// lives in Validate so a missing field fails closed.
type CollectInput struct{}

func (CollectInput) Name() string    { return "collect_input" }
func (CollectInput) Retryable() bool { return false }
func (CollectInput) MaxRetries() int { return 0 }

func (CollectInput) Execute(ctx context.Context, st *domain.PipelineState) error {
	return nil
}

func (CollectInput) Validate(st *domain.PipelineState) bool {
	in := st.Input
	if in.UserID == "" || in.TargetRole == "" || len(in.Answers) == 0 {
		return false
	}
	for _, label := range in.Zones.ByDimension() {
		if label == "" {
			return false
		}
	}
	return true
}
