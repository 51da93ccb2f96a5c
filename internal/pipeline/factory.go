package pipeline

import (
	"log/slog"

	"github.com/pathwise-edu/pathwise/internal/storage"
)

// PipelineOptions tunes the assembled pipeline. Zero values fall back to
// the stage defaults.
type PipelineOptions struct {
	GenerateRetries  int // extra attempts for the generation stage
	PromptTokenLimit int // upper bound on the assembled prompt, in tokens
}

// NewRoadmapPipeline assembles the fixed six-stage roadmap pipeline in its
// product order: collect input, score readiness, build prompt, generate
// content, validate content, finalize.
func NewRoadmapPipeline(gen Generator, store storage.ResultStore, logger *slog.Logger) (*Runner, error) {
	return NewRoadmapPipelineWithOptions(gen, store, logger, PipelineOptions{
		GenerateRetries:  defaultGenerateRetries,
		PromptTokenLimit: defaultMaxPromptTokens,
	})
}

// NewRoadmapPipelineWithOptions assembles the pipeline with explicit stage
// tuning.
func NewRoadmapPipelineWithOptions(gen Generator, store storage.ResultStore, logger *slog.Logger, opts PipelineOptions) (*Runner, error) {
	if opts.GenerateRetries <= 0 {
		opts.GenerateRetries = defaultGenerateRetries
	}
	if opts.PromptTokenLimit <= 0 {
		opts.PromptTokenLimit = defaultMaxPromptTokens
	}

	prompt, err := NewBuildPromptWithLimit(opts.PromptTokenLimit, logger)
	if err != nil {
		return nil, err
	}

	stages := []Stage{
		CollectInput{},
		ScoreReadiness{},
		prompt,
		NewGenerateContentWithRetries(gen, opts.GenerateRetries),
		NewValidateContent(),
		NewFinalize(store, logger),
	}
	return NewRunner(stages, logger), nil
}
