package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/pathwise-edu/pathwise/internal/domain"
)

// Required shape of a generated roadmap.
const (
	phaseCount     = 4
	minActionItems = 3
	maxActionItems = 4
)

// ValidateContent parses the raw model response into a structured roadmap.
// Parse and shape failures never fail the pipeline: they are downstream
// content-quality problems, so the stage writes a deterministic fallback
// roadmap tagged with the failure reason and returns success. The run still
// reaches Finalize, keeping the audit trail and timestamps complete.
type ValidateContent struct{}

// NewValidateContent creates the stage.
func NewValidateContent() *ValidateContent { return &ValidateContent{} }

func (*ValidateContent) Name() string    { return "validate_content" }
func (*ValidateContent) Retryable() bool { return false }
func (*ValidateContent) MaxRetries() int { return 0 }

// generatedPlan is the shape the model is instructed to produce.
type generatedPlan struct {
	Narrative string                `json:"narrative"`
	Phases    []domain.RoadmapPhase `json:"phases"`
}

func (v *ValidateContent) Execute(ctx context.Context, st *domain.PipelineState) error {
	plan, err := parsePlan(st.RawResponse)
	if err != nil {
		st.Roadmap = fallbackRoadmap(err.Error())
		return nil
	}

	st.Roadmap = &domain.Roadmap{
		Narrative: plan.Narrative,
		Scores: domain.ScoreSummary{
			Zones:        st.Input.Zones,
			ZoneScores:   st.ZoneScores,
			TotalScore:   st.TotalScore,
			OverallStage: st.OverallStage,
		},
		Phases: plan.Phases,
	}
	return nil
}

// Validate only requires that some roadmap, real or fallback, is present.
func (*ValidateContent) Validate(st *domain.PipelineState) bool {
	return st.Roadmap != nil
}

// parsePlan extracts and decodes the first structured block in the response
// and checks its shape.
func parsePlan(raw string) (*generatedPlan, error) {
	jsonStr, err := extractJSON(raw)
	if err != nil {
		return nil, err
	}

	var plan generatedPlan
	if err := json.Unmarshal([]byte(jsonStr), &plan); err != nil {
		return nil, fmt.Errorf("decode plan: %w", err)
	}

	if strings.TrimSpace(plan.Narrative) == "" {
		return nil, fmt.Errorf("plan missing narrative")
	}
	if len(plan.Phases) != phaseCount {
		return nil, fmt.Errorf("plan has %d phases, want %d", len(plan.Phases), phaseCount)
	}
	for i, p := range plan.Phases {
		if strings.TrimSpace(p.Name) == "" || strings.TrimSpace(p.Timeline) == "" {
			return nil, fmt.Errorf("phase %d missing name or timeline", i)
		}
		if n := len(p.ActionItems); n < minActionItems || n > maxActionItems {
			return nil, fmt.Errorf("phase %d has %d action items, want %d-%d", i, n, minActionItems, maxActionItems)
		}
		if strings.TrimSpace(p.Reflection) == "" {
			return nil, fmt.Errorf("phase %d missing reflection prompt", i)
		}
	}
	return &plan, nil
}

// fallbackRoadmap is the deterministic output used when the response cannot
// be parsed: zero phases, a generic narrative, and every score label at the
// lowest band.
func fallbackRoadmap(reason string) *domain.Roadmap {
	lowest := domain.ZoneSet{
		Academics:  domain.ZoneDeveloping,
		Skills:     domain.ZoneDeveloping,
		Experience: domain.ZoneDeveloping,
		Clarity:    domain.ZoneDeveloping,
	}
	anchor, _ := domain.ZoneDeveloping.Anchor()
	perZone := anchor * domain.ScoreWeight
	scores := make(map[string]int, len(domain.Dimensions))
	for _, dim := range domain.Dimensions {
		scores[dim] = perZone
	}
	total := perZone * len(domain.Dimensions)

	return &domain.Roadmap{
		Narrative: "We could not generate a personalized roadmap this time. Review your readiness scores and try again.",
		Scores: domain.ScoreSummary{
			Zones:        lowest,
			ZoneScores:   scores,
			TotalScore:   total,
			OverallStage: domain.StageForScore(total),
		},
		Phases:         []domain.RoadmapPhase{},
		Fallback:       true,
		FallbackReason: reason,
	}
}

// codeBlockPattern matches markdown code blocks with an optional language tag.
var codeBlockPattern = regexp.MustCompile("(?s)```(\\w*)\\s*\\n(.+?)\\n```")

// extractJSON pulls the first well-formed JSON object out of a response that
// may wrap it in markdown fences or surrounding prose.
func extractJSON(response string) (string, error) {
	if jsonStr, ok := extractFromCodeBlock(response); ok {
		return jsonStr, nil
	}
	if jsonStr, ok := extractRawJSON(response); ok {
		return jsonStr, nil
	}
	return "", fmt.Errorf("no structured block found in response")
}

func extractFromCodeBlock(response string) (string, bool) {
	for _, match := range codeBlockPattern.FindAllStringSubmatch(response, -1) {
		if len(match) < 3 {
			continue
		}
		lang := strings.ToLower(match[1])
		if lang != "" && lang != "json" {
			continue
		}
		content := strings.TrimSpace(match[2])
		if strings.HasPrefix(content, "{") && json.Valid([]byte(content)) {
			return content, true
		}
	}
	return "", false
}

func extractRawJSON(response string) (string, bool) {
	// Prose may contain brace pairs that are not JSON, like template
	// placeholders, so keep scanning past candidates that fail to parse.
	offset := 0
	for {
		idx := strings.Index(response[offset:], "{")
		if idx < 0 {
			return "", false
		}
		start := offset + idx
		if candidate, ok := scanBraceBlock(response, start); ok {
			return candidate, true
		}
		offset = start + 1
	}
}

// scanBraceBlock walks a balanced-brace block starting at start and reports
// whether it is valid JSON.
func scanBraceBlock(response string, start int) (string, bool) {
	depth := 0
	inString := false
	escaped := false
	for i := start; i < len(response); i++ {
		c := response[i]
		if escaped {
			escaped = false
			continue
		}
		switch c {
		case '\\':
			if inString {
				escaped = true
			}
		case '"':
			inString = !inString
		case '{':
			if !inString {
				depth++
			}
		case '}':
			if !inString {
				depth--
				if depth == 0 {
					candidate := response[start : i+1]
					if json.Valid([]byte(candidate)) {
						return candidate, true
					}
					return "", false
				}
			}
		}
	}
	return "", false
}
