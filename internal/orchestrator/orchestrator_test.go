package orchestrator

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/longevity-snapshot-server/internal/domain"
	"github.com/longevity-snapshot-server/internal/personalize"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestProcessor(t *testing.T) *Processor {
	t.Helper()
	p, err := New(testLogger(), "kg")
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return p
}

// stubScorer returns a fixed report or error, for pipeline tests that need
// controlled agent outputs.
type stubScorer struct {
	name   domain.AgentType
	report *domain.AgentReport
	err    error
}

func (s *stubScorer) Name() domain.AgentType { return s.name }

func (s *stubScorer) Analyze(*domain.HealthProfile) (*domain.AgentReport, error) {
	return s.report, s.err
}

func stubProcessor(t *testing.T, scorers map[domain.AgentType]domain.Scorer) *Processor {
	t.Helper()
	engine, err := personalize.NewEngine(testLogger())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	return &Processor{logger: testLogger(), scorers: scorers, engine: engine}
}

func fullProfile() *domain.HealthProfile {
	return &domain.HealthProfile{
		UserID:   "user-1",
		Age:      35,
		Gender:   "female",
		HeightCM: 165,
		WeightKG: 65,
		Sleep:    &domain.SleepData{AverageDuration: 6.5, Quality: "medium", BedtimeConsistency: "low"},
		Nutrition: &domain.NutritionData{
			Calories: 1800, Protein: 60, Carbs: 220, Fat: 65, DetailedMacros: true,
		},
		Stress:      &domain.StressData{Level: 8, Sources: []string{"work", "financial"}},
		Exercise:    &domain.ExerciseData{StrengthSessions: 2, CardioSessions: 1},
		Preferences: &domain.Preferences{Goals: []string{"longevity"}},
	}
}

func TestSelectAgents(t *testing.T) {
	p := newTestProcessor(t)

	tests := []struct {
		name     string
		mutate   func(*domain.HealthProfile)
		expected []domain.AgentType
	}{
		{
			"FullProfile",
			func(p *domain.HealthProfile) {},
			[]domain.AgentType{
				domain.AgentMedicalReasoning, domain.AgentSleep, domain.AgentNutrition,
				domain.AgentStress, domain.AgentExercise, domain.AgentPersonalization,
			},
		},
		{
			"MinimalProfile",
			func(p *domain.HealthProfile) {
				p.Sleep = nil
				p.Nutrition = nil
				p.Stress = nil
				p.Exercise = nil
				p.Preferences = nil
			},
			[]domain.AgentType{domain.AgentMedicalReasoning},
		},
		{
			"ModerateStressNotSelected",
			func(p *domain.HealthProfile) { p.Stress.Level = 7 },
			[]domain.AgentType{
				domain.AgentMedicalReasoning, domain.AgentSleep, domain.AgentNutrition,
				domain.AgentExercise, domain.AgentPersonalization,
			},
		},
		{
			"SparseNutritionNotSelected",
			func(p *domain.HealthProfile) {
				p.Nutrition = &domain.NutritionData{Calories: 1800, Protein: 60}
			},
			[]domain.AgentType{
				domain.AgentMedicalReasoning, domain.AgentSleep, domain.AgentStress,
				domain.AgentExercise, domain.AgentPersonalization,
			},
		},
		{
			"DetailedMacrosSelectsNutrition",
			func(p *domain.HealthProfile) {
				p.Nutrition = &domain.NutritionData{Calories: 1800, DetailedMacros: true}
			},
			[]domain.AgentType{
				domain.AgentMedicalReasoning, domain.AgentSleep, domain.AgentNutrition,
				domain.AgentStress, domain.AgentExercise, domain.AgentPersonalization,
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := fullProfile()
			tt.mutate(profile)

			selected := p.SelectAgents(profile)
			if len(selected) != len(tt.expected) {
				t.Fatalf("Expected %v, got %v", tt.expected, selected)
			}
			for i, agent := range tt.expected {
				if selected[i] != agent {
					t.Errorf("Expected %s at position %d, got %s", agent, i, selected[i])
				}
			}
		})
	}
}

func TestProcessFullProfile(t *testing.T) {
	p := newTestProcessor(t)

	result, err := p.Process(context.Background(), fullProfile())
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(result.Recommendations) == 0 {
		t.Fatal("Expected recommendations")
	}
	if len(result.Insights) == 0 {
		t.Fatal("Expected insights")
	}
	for _, rec := range result.Recommendations {
		if rec.SourceAgent == "" {
			t.Errorf("Expected source agent on recommendation %s", rec.Action)
		}
		if rec.EvidenceCategory == "" {
			t.Errorf("Expected evidence category on recommendation %s", rec.Action)
		}
	}
	for _, insight := range result.Insights {
		if insight.SourceAgent == "" {
			t.Errorf("Expected source agent on insight %s", insight.Type)
		}
		if insight.EvidenceCategory == "" {
			t.Errorf("Expected evidence category on insight %s", insight.Type)
		}
	}

	for _, agent := range []string{"medical_reasoning", "sleep", "nutrition", "stress", "exercise", "personalization"} {
		if _, ok := result.AgentContributions[agent]; !ok {
			t.Errorf("Expected contribution from %s", agent)
		}
	}
}

func TestProcessDeterministicOrder(t *testing.T) {
	p := newTestProcessor(t)
	profile := fullProfile()

	first, err := p.Process(context.Background(), profile)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	for i := 0; i < 3; i++ {
		next, err := p.Process(context.Background(), profile)
		if err != nil {
			t.Fatalf("Unexpected error: %v", err)
		}
		if len(next.Recommendations) != len(first.Recommendations) {
			t.Fatalf("Expected %d recommendations, got %d", len(first.Recommendations), len(next.Recommendations))
		}
		for j := range next.Recommendations {
			if next.Recommendations[j].Action != first.Recommendations[j].Action ||
				next.Recommendations[j].SourceAgent != first.Recommendations[j].SourceAgent {
				t.Fatalf("Recommendation order differs at %d: %s/%s vs %s/%s", j,
					first.Recommendations[j].SourceAgent, first.Recommendations[j].Action,
					next.Recommendations[j].SourceAgent, next.Recommendations[j].Action)
			}
		}
	}
}

func TestProcessAgentFailureContained(t *testing.T) {
	failing := &stubScorer{name: domain.AgentSleep, err: errors.New("boom")}
	healthy := &stubScorer{
		name: domain.AgentMedicalReasoning,
		report: &domain.AgentReport{
			Confidence:      domain.ConfidenceHigh,
			Recommendations: []domain.Recommendation{{Category: "preventive_care", Action: "regular_checkup", Priority: domain.PriorityMedium, EvidenceCategory: domain.EvidenceExpertOpinion}},
		},
	}
	p := stubProcessor(t, map[domain.AgentType]domain.Scorer{
		domain.AgentMedicalReasoning: healthy,
		domain.AgentSleep:            failing,
	})

	profile := fullProfile()
	profile.Nutrition = nil
	profile.Stress = nil
	profile.Exercise = nil
	profile.Preferences = nil

	result, err := p.Process(context.Background(), profile)
	if err != nil {
		t.Fatalf("Expected contained failure, got error: %v", err)
	}

	if _, ok := result.AgentContributions["sleep"]; ok {
		t.Error("Expected failing agent excluded from contributions")
	}
	if _, ok := result.AgentContributions["medical_reasoning"]; !ok {
		t.Error("Expected healthy agent contribution")
	}
	if result.Confidence != domain.ConfidenceHigh {
		t.Errorf("Expected high confidence from remaining agent, got %s", result.Confidence)
	}
}

func TestSynthesisMinimumConfidence(t *testing.T) {
	p := stubProcessor(t, nil)

	reports := map[domain.AgentType]*domain.AgentReport{
		domain.AgentMedicalReasoning: {Confidence: domain.ConfidenceHigh},
		domain.AgentSleep:            {Confidence: domain.ConfidenceLow},
		domain.AgentExercise:         {Confidence: domain.ConfidenceMedium},
	}
	result := p.synthesize(reports)
	if result.Confidence != domain.ConfidenceLow {
		t.Errorf("Expected low overall confidence, got %s", result.Confidence)
	}

	// No reporting agents defaults to high.
	result = p.synthesize(map[domain.AgentType]*domain.AgentReport{})
	if result.Confidence != domain.ConfidenceHigh {
		t.Errorf("Expected default high confidence, got %s", result.Confidence)
	}
}

func TestContradictionFlaggingAndEvaluation(t *testing.T) {
	medical := &stubScorer{
		name: domain.AgentMedicalReasoning,
		report: &domain.AgentReport{
			Confidence: domain.ConfidenceHigh,
			Recommendations: []domain.Recommendation{
				{Category: "weight_management", Action: "reduce_calories", Priority: domain.PriorityHigh, EvidenceCategory: domain.EvidenceClinicalGuidelines},
			},
		},
	}
	nutrition := &stubScorer{
		name: domain.AgentNutrition,
		report: &domain.AgentReport{
			Confidence: domain.ConfidenceMedium,
			Recommendations: []domain.Recommendation{
				{Category: "nutrition", Action: "increase_calories", Priority: domain.PriorityMedium, EvidenceCategory: domain.EvidenceExpertOpinion},
			},
		},
	}
	p := stubProcessor(t, map[domain.AgentType]domain.Scorer{
		domain.AgentMedicalReasoning: medical,
		domain.AgentNutrition:        nutrition,
	})

	profile := fullProfile()
	profile.Sleep = nil
	profile.Stress = nil
	profile.Exercise = nil
	profile.Preferences = nil

	result, err := p.Process(context.Background(), profile)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	for _, agent := range []string{"medical_reasoning", "nutrition"} {
		contribution, ok := result.AgentContributions[agent]
		if !ok {
			t.Fatalf("Expected contribution from %s", agent)
		}
		if contribution.EvaluationNotes == nil {
			t.Fatalf("Expected evaluation notes on %s", agent)
		}
		if contribution.EvaluationNotes.Resolution != "Prioritized medical recommendation over nutrition recommendation" {
			t.Errorf("Unexpected resolution: %q", contribution.EvaluationNotes.Resolution)
		}
	}

	// Annotation must not change the numeric confidence.
	if result.AgentContributions["nutrition"].Confidence != domain.ConfidenceMedium {
		t.Errorf("Expected nutrition confidence unchanged, got %s", result.AgentContributions["nutrition"].Confidence)
	}
}

func TestLowConfidenceEvaluationNote(t *testing.T) {
	shaky := &stubScorer{
		name:   domain.AgentMedicalReasoning,
		report: &domain.AgentReport{Confidence: domain.ConfidenceLow},
	}
	p := stubProcessor(t, map[domain.AgentType]domain.Scorer{domain.AgentMedicalReasoning: shaky})

	profile := &domain.HealthProfile{UserID: "user-2", Age: 30}
	result, err := p.Process(context.Background(), profile)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	notes := result.AgentContributions["medical_reasoning"].EvaluationNotes
	if notes == nil {
		t.Fatal("Expected evaluation notes")
	}
	if notes.Evaluation != "Reviewed low confidence analysis and confirmed findings" {
		t.Errorf("Unexpected evaluation: %q", notes.Evaluation)
	}
	if notes.ConfidenceAdjustment != "Confidence remains low due to insufficient data" {
		t.Errorf("Unexpected adjustment: %q", notes.ConfidenceAdjustment)
	}
	if result.Confidence != domain.ConfidenceLow {
		t.Errorf("Expected low overall confidence, got %s", result.Confidence)
	}
}
