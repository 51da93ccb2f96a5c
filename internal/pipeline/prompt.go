package pipeline

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/tiktoken-go/tokenizer"

	"github.com/pathwise-edu/pathwise/internal/domain"
)

// defaultMaxPromptTokens bounds the assembled prompt. The prompt is built
// from a fixed template plus short user-supplied fields, so a prompt
// anywhere near this size indicates runaway input rather than a legitimate
// assessment.
const defaultMaxPromptTokens = 8192

// BuildPrompt assembles the generation request payload from the working
// region scores and the input region preferences. Given valid scores and
// preferences it always produces a non-empty prompt; Validate enforces
// exactly that. The token count is recorded on the state, logged, and
// checked against the stage's upper bound.
type BuildPrompt struct {
	codec     tokenizer.Codec
	logger    *slog.Logger
	maxTokens int
}

// NewBuildPrompt creates the stage with an o200k_base token counter and the
// default prompt size bound.
func NewBuildPrompt() (*BuildPrompt, error) {
	return NewBuildPromptWithLimit(defaultMaxPromptTokens, nil)
}

// NewBuildPromptWithLimit creates the stage with an explicit token bound.
// A non-positive limit disables the check.
func NewBuildPromptWithLimit(maxTokens int, logger *slog.Logger) (*BuildPrompt, error) {
	codec, err := tokenizer.Get(tokenizer.O200kBase)
	if err != nil {
		return nil, fmt.Errorf("build prompt: load tokenizer: %w", err)
	}
	if logger == nil {
		logger = slog.Default()
	}
	return &BuildPrompt{codec: codec, logger: logger, maxTokens: maxTokens}, nil
}

func (*BuildPrompt) Name() string    { return "build_prompt" }
func (*BuildPrompt) Retryable() bool { return false }
func (*BuildPrompt) MaxRetries() int { return 0 }

func (b *BuildPrompt) Execute(ctx context.Context, st *domain.PipelineState) error {
	var sb strings.Builder

	fmt.Fprintf(&sb, "Create a four-phase academic readiness roadmap for a student targeting the role of %s", st.Input.TargetRole)
	if st.Input.TargetDate != "" {
		fmt.Fprintf(&sb, " by %s", st.Input.TargetDate)
	}
	sb.WriteString(".\n\nReadiness assessment:\n")

	labels := st.Input.Zones.ByDimension()
	for _, dim := range domain.Dimensions {
		fmt.Fprintf(&sb, "- %s: %s (score %d)\n", dim, labels[dim], st.ZoneScores[dim])
	}
	fmt.Fprintf(&sb, "- total score: %d\n- overall stage: %s\n", st.TotalScore, st.OverallStage)

	if len(st.Input.Interests) > 0 {
		fmt.Fprintf(&sb, "\nInterests: %s\n", strings.Join(st.Input.Interests, ", "))
	}

	sb.WriteString(`
Respond with a JSON object of this shape:
{
  "narrative": "<short narrative summary>",
  "phases": [
    {"name": "...", "timeline": "...", "action_items": ["...", "...", "..."], "reflection": "..."}
  ]
}
The phases array must contain exactly 4 phases in chronological order. Each
phase needs 3 to 4 action_items and exactly one reflection prompt.
`)

	st.Prompt = sb.String()

	ids, _, err := b.codec.Encode(st.Prompt)
	if err != nil {
		return fmt.Errorf("build prompt: count tokens: %w", err)
	}
	st.PromptTokens = len(ids)

	b.logger.Info("prompt assembled",
		slog.String("session_id", st.SessionID),
		slog.Int("prompt_tokens", st.PromptTokens),
		slog.String("overall_stage", st.OverallStage),
	)

	if b.maxTokens > 0 && st.PromptTokens > b.maxTokens {
		return fmt.Errorf("build prompt: prompt is %d tokens, limit is %d", st.PromptTokens, b.maxTokens)
	}
	return nil
}

func (*BuildPrompt) Validate(st *domain.PipelineState) bool {
	return strings.TrimSpace(st.Prompt) != ""
}
