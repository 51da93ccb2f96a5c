package pipeline

import (
	"context"
	"fmt"
	"strings"

	"github.com/pathwise-edu/pathwise/internal/domain"
)

// Generator is the external generative service boundary: one prompt in, one
// raw text response out. internal/api/genai provides the production
// implementation.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// defaultGenerateRetries is the extra-attempt budget after the first try.
const defaultGenerateRetries = 2

// GenerateContent sends the prompt to the generative service and stores the
// raw response. It is the only stage that performs network I/O and the only
// retryable stage; all other stages operate on inputs already in memory.
type GenerateContent struct {
	gen        Generator
	maxRetries int
}

// NewGenerateContent creates the stage with the default retry budget.
func NewGenerateContent(gen Generator) *GenerateContent {
	return &GenerateContent{gen: gen, maxRetries: defaultGenerateRetries}
}

// NewGenerateContentWithRetries creates the stage with an explicit budget.
func NewGenerateContentWithRetries(gen Generator, maxRetries int) *GenerateContent {
	return &GenerateContent{gen: gen, maxRetries: maxRetries}
}

func (*GenerateContent) Name() string      { return "generate_content" }
func (*GenerateContent) Retryable() bool   { return true }
func (g *GenerateContent) MaxRetries() int { return g.maxRetries }

func (g *GenerateContent) Execute(ctx context.Context, st *domain.PipelineState) error {
	raw, err := g.gen.Generate(ctx, st.Prompt)
	if err != nil {
		// The classified kind rides along in the wrapped error; the runner
		// only consults the stage's declared retryability.
		return fmt.Errorf("generate content: %w", err)
	}
	st.RawResponse = raw
	return nil
}

func (*GenerateContent) Validate(st *domain.PipelineState) bool {
	return strings.TrimSpace(st.RawResponse) != ""
}
