package domain

import "time"

// AssessmentInput is the input region of a pipeline run. The caller populates
// it once before the first stage runs; stages treat it as read-only. It is
// embedded in PipelineState by value so the runner can retain a snapshot and
// detect accidental mutation in tests.
type AssessmentInput struct {
	UserID     string            `json:"user_id"`
	Answers    map[string]string `json:"answers"`
	Zones      ZoneSet           `json:"zones"`
	Interests  []string          `json:"interests,omitempty"`
	TargetRole string            `json:"target_role"`
	TargetDate string            `json:"target_date,omitempty"`
}

// PipelineState is the single record threaded through every pipeline stage.
// Exactly one exists per run and it is never shared across concurrent runs.
//
// Fields fall into three regions: the input region (set once by the caller),
// the working region (written incrementally by the scoring, prompt, and
// generation stages), and the output region (written by the last two stages
// and by the runner's timing bookkeeping). A stage only adds to the working
// and output regions; it never rewrites fields an earlier stage produced.
type PipelineState struct {
	// Input region.
	Input AssessmentInput

	// Working region.
	ZoneScores   map[string]int
	TotalScore   int
	OverallStage string
	SessionID    string
	Prompt       string
	PromptTokens int
	RawResponse  string

	// Output region.
	Roadmap     *Roadmap
	Err         string
	StartedAt   time.Time
	CompletedAt time.Time
	StageTrail  []string
	Persisted   bool
	Succeeded   bool
}

// NewPipelineState creates the state for one pipeline run.
func NewPipelineState(input AssessmentInput) *PipelineState {
	return &PipelineState{Input: input}
}
