package scorer

import (
	"errors"
	"strconv"
	"testing"

	"github.com/longevity-snapshot-server/internal/domain"
)

func TestStressRequiresStressData(t *testing.T) {
	profile := &domain.HealthProfile{UserID: "user-1", Age: 35}
	_, err := NewStress(testLogger()).Analyze(profile)
	if !errors.Is(err, domain.ErrInvalidProfile) {
		t.Errorf("Expected ErrInvalidProfile, got %v", err)
	}
}

func TestStressCategories(t *testing.T) {
	tests := []struct {
		name     string
		level    int
		category string
	}{
		{"Low", 3, "low"},
		{"ModerateLowerBound", 4, "moderate"},
		{"ModerateUpperBound", 6, "moderate"},
		{"HighLowerBound", 7, "high"},
		{"HighMax", 10, "high"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := &domain.HealthProfile{
				UserID: "user-2",
				Age:    35,
				Stress: &domain.StressData{Level: tt.level},
			}
			report, err := NewStress(testLogger()).Analyze(profile)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}

			wantFinding := "Stress level: " + strconv.Itoa(tt.level) + "/10 (" + tt.category + ")"
			if !containsString(report.KeyFindings, wantFinding) {
				t.Errorf("Expected finding %q, got %v", wantFinding, report.KeyFindings)
			}
		})
	}
}

func TestStressHighLevelRecommendations(t *testing.T) {
	profile := &domain.HealthProfile{
		UserID: "user-3",
		Age:    35,
		Stress: &domain.StressData{
			Level:            8,
			Sources:          []string{"work", "deadlines"},
			CopingMechanisms: []string{"television"},
		},
	}

	report, err := NewStress(testLogger()).Analyze(profile)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	expectedActions := []string{"stress_reduction", "address_chronic_stressors", "build_coping_mechanisms"}
	for _, action := range expectedActions {
		found := false
		for _, rec := range report.Recommendations {
			if rec.Action == action {
				found = true
			}
		}
		if !found {
			t.Errorf("Expected recommendation %s, got %v", action, report.Recommendations)
		}
	}

	// Unhealthy coping produces a low-confidence coping insight.
	foundCoping := false
	for _, insight := range report.Insights {
		if insight.Type == "stress_coping" && insight.Confidence == domain.ConfidenceLow {
			foundCoping = true
		}
	}
	if !foundCoping {
		t.Errorf("Expected low-confidence stress_coping insight, got %v", report.Insights)
	}

	if report.Confidence != domain.ConfidenceHigh {
		t.Errorf("Expected high confidence with level, sources and coping, got %s", report.Confidence)
	}
}

func TestStressWellManagedMaintenance(t *testing.T) {
	profile := &domain.HealthProfile{
		UserID: "user-4",
		Age:    35,
		Stress: &domain.StressData{
			Level:            3,
			Sources:          []string{"commute"},
			CopingMechanisms: []string{"meditation", "exercise"},
		},
	}

	report, err := NewStress(testLogger()).Analyze(profile)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	if len(report.Recommendations) != 1 {
		t.Fatalf("Expected single maintenance recommendation, got %v", report.Recommendations)
	}
	if report.Recommendations[0].Action != "maintain_stress_practices" {
		t.Errorf("Expected maintain_stress_practices, got %s", report.Recommendations[0].Action)
	}
	if report.Recommendations[0].Priority != domain.PriorityLow {
		t.Errorf("Expected low priority, got %s", report.Recommendations[0].Priority)
	}
}

func TestStressConfidenceFromDataPoints(t *testing.T) {
	levelOnly := &domain.HealthProfile{
		UserID: "user-5",
		Age:    35,
		Stress: &domain.StressData{Level: 5},
	}
	report, err := NewStress(testLogger()).Analyze(levelOnly)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if report.Confidence != domain.ConfidenceLow {
		t.Errorf("Expected low confidence with level only, got %s", report.Confidence)
	}

	withSources := &domain.HealthProfile{
		UserID: "user-6",
		Age:    35,
		Stress: &domain.StressData{Level: 5, Sources: []string{"work"}},
	}
	report, err = NewStress(testLogger()).Analyze(withSources)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if report.Confidence != domain.ConfidenceMedium {
		t.Errorf("Expected medium confidence with level and sources, got %s", report.Confidence)
	}
}
