package pipeline

import (
	"context"
	"log/slog"
	"strings"
	"testing"

	"github.com/pathwise-edu/pathwise/internal/domain"
)

func scoredState(t *testing.T) *domain.PipelineState {
	t.Helper()
	st := domain.NewPipelineState(validInput())
	if err := (ScoreReadiness{}).Execute(context.Background(), st); err != nil {
		t.Fatalf("ScoreReadiness.Execute() error = %v", err)
	}
	return st
}

func TestBuildPrompt_Execute(t *testing.T) {
	stage, err := NewBuildPrompt()
	if err != nil {
		t.Fatalf("NewBuildPrompt() error = %v", err)
	}

	st := scoredState(t)
	if err := stage.Execute(context.Background(), st); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	if !stage.Validate(st) {
		t.Fatal("Validate() = false, want true")
	}
	for _, want := range []string{
		"research assistant",
		"total score: 80",
		domain.StageMomentum,
		"data science",
		"exactly 4 phases",
	} {
		if !strings.Contains(st.Prompt, want) {
			t.Errorf("prompt missing %q", want)
		}
	}
	if st.PromptTokens == 0 {
		t.Error("expected a non-zero prompt token count")
	}
}

func TestBuildPrompt_TokenLimitExceeded(t *testing.T) {
	stage, err := NewBuildPromptWithLimit(1, testLogger())
	if err != nil {
		t.Fatalf("NewBuildPromptWithLimit() error = %v", err)
	}

	st := scoredState(t)
	err = stage.Execute(context.Background(), st)
	if err == nil {
		t.Fatal("Execute() error = nil, want token limit error")
	}
	if !strings.Contains(err.Error(), "limit is 1") {
		t.Errorf("Execute() error = %v, want the limit in the message", err)
	}
}

func TestBuildPrompt_LogsTokenCount(t *testing.T) {
	var buf strings.Builder
	stage, err := NewBuildPromptWithLimit(0, slog.New(slog.NewTextHandler(&buf, nil)))
	if err != nil {
		t.Fatalf("NewBuildPromptWithLimit() error = %v", err)
	}

	st := scoredState(t)
	if err := stage.Execute(context.Background(), st); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if !strings.Contains(buf.String(), "prompt_tokens") {
		t.Errorf("log output missing prompt_tokens, got %q", buf.String())
	}
}

func TestBuildPrompt_ValidateEmptyPrompt(t *testing.T) {
	stage, err := NewBuildPrompt()
	if err != nil {
		t.Fatalf("NewBuildPrompt() error = %v", err)
	}
	st := domain.NewPipelineState(validInput())
	if stage.Validate(st) {
		t.Error("Validate() = true for empty prompt, want false")
	}
}
