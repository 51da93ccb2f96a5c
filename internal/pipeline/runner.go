package pipeline

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/pathwise-edu/pathwise/internal/domain"
)

// Stage is one unit of the generation pipeline.
type Stage interface {
	// Name returns the unique identifier for this stage.
	Name() string

	// Execute transforms the state. It must not mutate the input region or
	// rewrite fields written by an earlier stage.
	Execute(ctx context.Context, st *domain.PipelineState) error

	// Validate is a post-condition check over the fields this stage is
	// responsible for. Returning false is treated exactly like an Execute
	// error by the runner.
	Validate(st *domain.PipelineState) bool

	// Retryable reports whether a failed attempt may be re-run.
	Retryable() bool

	// MaxRetries is the number of extra attempts after the first.
	// Only consulted when Retryable is true.
	MaxRetries() int
}

// RunStatus is the terminal state of a pipeline run.
type RunStatus string

const (
	StatusFailed    RunStatus = "failed"
	StatusCompleted RunStatus = "completed"
)

// Runner executes an ordered list of stages against one PipelineState.
// A Runner is stateless across runs and safe for concurrent use; the state
// object itself belongs to exactly one run.
type Runner struct {
	stages []Stage
	logger *slog.Logger
	tracer trace.Tracer
}

// NewRunner creates a runner over the given stages. Stages run strictly in
// the order given; there is no reordering, skipping, or parallel execution.
func NewRunner(stages []Stage, logger *slog.Logger) *Runner {
	if logger == nil {
		logger = slog.Default()
	}
	return &Runner{
		stages: stages,
		logger: logger,
		tracer: otel.Tracer("pathwise/pipeline"),
	}
}

// Run executes every stage in order against st, applying each stage's
// retry/validate contract. The terminal status is the normal return value;
// a Failed run leaves the error message in st.Err alongside whatever output
// fields were already set. The returned error is non-nil only for programmer
// misuse (nil state).
func (r *Runner) Run(ctx context.Context, st *domain.PipelineState) (RunStatus, error) {
	if st == nil {
		return StatusFailed, errors.New("pipeline: nil state")
	}

	ctx, span := r.tracer.Start(ctx, "pipeline.run")
	defer span.End()

	st.StartedAt = time.Now()

	for _, stage := range r.stages {
		remaining := 0
		if stage.Retryable() {
			remaining = stage.MaxRetries()
		}

		for {
			attemptStart := time.Now()
			err := stage.Execute(ctx, st)

			if err == nil {
				// Audit trail records stage identity, not attempt count.
				if n := len(st.StageTrail); n == 0 || st.StageTrail[n-1] != stage.Name() {
					st.StageTrail = append(st.StageTrail, stage.Name())
				}
				if !stage.Validate(st) {
					err = fmt.Errorf("stage %s: post-condition validation failed", stage.Name())
				}
			}

			if err == nil {
				r.logger.Debug("stage completed",
					slog.String("stage", stage.Name()),
					slog.Duration("duration", time.Since(attemptStart)),
				)
				span.AddEvent("stage completed", trace.WithAttributes(attribute.String("stage", stage.Name())))
				break
			}

			if stage.Retryable() && remaining > 0 {
				remaining--
				r.logger.Warn("stage failed, retrying",
					slog.String("stage", stage.Name()),
					slog.Int("retries_left", remaining),
					slog.String("error", err.Error()),
				)
				continue
			}

			st.Err = err.Error()
			st.CompletedAt = time.Now()
			r.logger.Error("pipeline failed",
				slog.String("stage", stage.Name()),
				slog.String("error", err.Error()),
				slog.Any("stage_trail", st.StageTrail),
			)
			span.RecordError(err)
			return StatusFailed, nil
		}
	}

	if st.CompletedAt.IsZero() {
		st.CompletedAt = time.Now()
	}
	r.logger.Info("pipeline completed",
		slog.String("session_id", st.SessionID),
		slog.Duration("elapsed", st.CompletedAt.Sub(st.StartedAt)),
		slog.Any("stage_trail", st.StageTrail),
	)
	return StatusCompleted, nil
}

// Stages returns the registered stage names in execution order.
func (r *Runner) Stages() []string {
	names := make([]string, len(r.stages))
	for i, s := range r.stages {
		names[i] = s.Name()
	}
	return names
}
