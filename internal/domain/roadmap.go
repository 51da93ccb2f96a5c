package domain

// RoadmapPhase is one phase of a generated roadmap.
type RoadmapPhase struct {
	Name        string   `json:"name"`
	Timeline    string   `json:"timeline"`
	ActionItems []string `json:"action_items"`
	Reflection  string   `json:"reflection"`
}

// ScoreSummary carries the four zone labels, their numeric scores, and the
// overall stage label derived from the total.
type ScoreSummary struct {
	Zones        ZoneSet        `json:"zones"`
	ZoneScores   map[string]int `json:"zone_scores"`
	TotalScore   int            `json:"total_score"`
	OverallStage string         `json:"overall_stage"`
}

// Roadmap is the structured plan produced by a pipeline run. A real roadmap
// has exactly four phases; a fallback roadmap has zero phases, Fallback set,
// and a non-empty FallbackReason explaining what went wrong downstream.
type Roadmap struct {
	Narrative      string         `json:"narrative"`
	Scores         ScoreSummary   `json:"scores"`
	Phases         []RoadmapPhase `json:"phases"`
	Fallback       bool           `json:"fallback,omitempty"`
	FallbackReason string         `json:"fallback_reason,omitempty"`
}
