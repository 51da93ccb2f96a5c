package pipeline

import (
	"context"
	"reflect"
	"testing"

	"github.com/pathwise-edu/pathwise/internal/domain"
)

func validInput() domain.AssessmentInput {
	return domain.AssessmentInput{
		UserID: "user-1",
		Answers: map[string]string{
			"q1": "I study regularly",
			"q2": "I have one internship",
		},
		Zones: domain.ZoneSet{
			Academics:  domain.ZoneEstablished,
			Skills:     domain.ZoneProgressing,
			Experience: domain.ZoneDeveloping,
			Clarity:    domain.ZoneProgressing,
		},
		Interests:  []string{"data science", "teaching"},
		TargetRole: "research assistant",
		TargetDate: "2027-06",
	}
}

func TestScoreReadiness_Execute(t *testing.T) {
	st := domain.NewPipelineState(validInput())

	stage := ScoreReadiness{}
	if err := stage.Execute(context.Background(), st); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}

	// established(3) + progressing(2) + developing(1) + progressing(2) = 8, x10
	if st.TotalScore != 80 {
		t.Errorf("TotalScore = %d, want 80", st.TotalScore)
	}
	if st.ZoneScores[domain.DimensionAcademics] != 30 {
		t.Errorf("academics score = %d, want 30", st.ZoneScores[domain.DimensionAcademics])
	}
	if st.ZoneScores[domain.DimensionExperience] != 10 {
		t.Errorf("experience score = %d, want 10", st.ZoneScores[domain.DimensionExperience])
	}
	if st.OverallStage != domain.StageMomentum {
		t.Errorf("OverallStage = %q, want %q", st.OverallStage, domain.StageMomentum)
	}
	if st.SessionID == "" {
		t.Error("expected session id to be generated")
	}
	if !stage.Validate(st) {
		t.Error("Validate() = false, want true")
	}
}

func TestScoreReadiness_Idempotent(t *testing.T) {
	st := domain.NewPipelineState(validInput())
	stage := ScoreReadiness{}

	if err := stage.Execute(context.Background(), st); err != nil {
		t.Fatalf("first Execute() error = %v", err)
	}
	firstSession := st.SessionID
	firstScores := map[string]int{}
	for k, v := range st.ZoneScores {
		firstScores[k] = v
	}

	if err := stage.Execute(context.Background(), st); err != nil {
		t.Fatalf("second Execute() error = %v", err)
	}
	if st.SessionID != firstSession {
		t.Errorf("session id changed across re-execution: %q -> %q", firstSession, st.SessionID)
	}
	if !reflect.DeepEqual(st.ZoneScores, firstScores) {
		t.Errorf("zone scores changed across re-execution: %v -> %v", firstScores, st.ZoneScores)
	}
}

func TestScoreReadiness_IllegalLabel(t *testing.T) {
	input := validInput()
	input.Zones.Skills = "excellent"
	st := domain.NewPipelineState(input)

	if err := (ScoreReadiness{}).Execute(context.Background(), st); err == nil {
		t.Fatal("expected error for illegal zone label")
	}
}

func TestScoreReadiness_LowestBandScenario(t *testing.T) {
	input := validInput()
	input.Zones = domain.ZoneSet{
		Academics:  domain.ZoneDeveloping,
		Skills:     domain.ZoneDeveloping,
		Experience: domain.ZoneDeveloping,
		Clarity:    domain.ZoneDeveloping,
	}
	st := domain.NewPipelineState(input)

	if err := (ScoreReadiness{}).Execute(context.Background(), st); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	if st.TotalScore != 40 {
		t.Errorf("TotalScore = %d, want 40", st.TotalScore)
	}
	if st.OverallStage != domain.StageFoundation {
		t.Errorf("OverallStage = %q, want %q", st.OverallStage, domain.StageFoundation)
	}
}

func TestStageForScore(t *testing.T) {
	tests := []struct {
		total int
		want  string
	}{
		{40, domain.StageFoundation},
		{60, domain.StageFoundation},
		{61, domain.StageMomentum},
		{90, domain.StageMomentum},
		{91, domain.StageLaunch},
		{120, domain.StageLaunch},
	}
	for _, tt := range tests {
		if got := domain.StageForScore(tt.total); got != tt.want {
			t.Errorf("StageForScore(%d) = %q, want %q", tt.total, got, tt.want)
		}
	}
}
