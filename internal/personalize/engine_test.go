package personalize

import (
	"io"
	"strings"
	"testing"

	"github.com/sirupsen/logrus"

	"github.com/longevity-snapshot-server/internal/domain"
)

func testLogger() *logrus.Logger {
	logger := logrus.New()
	logger.SetOutput(io.Discard)
	return logger
}

func newTestEngine(t *testing.T) *Engine {
	t.Helper()
	engine, err := NewEngine(testLogger())
	if err != nil {
		t.Fatalf("Unexpected error creating engine: %v", err)
	}
	return engine
}

func TestInferDriver(t *testing.T) {
	tests := []struct {
		name     string
		goals    []string
		expected domain.MotivationDriver
	}{
		{"HealthScare", []string{"prevent heart disease"}, domain.DriverHealthScare},
		{"Longevity", []string{"healthy aging"}, domain.DriverLongevity},
		{"Performance", []string{"improve athletic performance"}, domain.DriverPerformance},
		{"Appearance", []string{"weight loss for summer"}, domain.DriverAppearance},
		{"Energy", []string{"stop feeling tired all day"}, domain.DriverEnergy},
		{"Cognitive", []string{"better memory"}, domain.DriverCognitive},
		{"Mood", []string{"reduce anxiety"}, domain.DriverMood},
		{"Social", []string{"more time with friends"}, domain.DriverSocial},
		{"CaseInsensitive", []string{"PREVENT Disease"}, domain.DriverHealthScare},
		// "prevent" outranks "fitness" in the priority order.
		{"PriorityOrder", []string{"fitness", "prevent illness"}, domain.DriverHealthScare},
		// "vitality" appears in both longevity and energy lists; longevity
		// is checked first.
		{"OverlappingKeyword", []string{"more vitality"}, domain.DriverLongevity},
		{"NoMatchDefaultsLongevity", []string{"be a better person"}, domain.DriverLongevity},
		{"EmptyGoalsUnknown", nil, domain.DriverUnknown},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := InferDriver(tt.goals); got != tt.expected {
				t.Errorf("Expected driver %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestFeasibilityScoring(t *testing.T) {
	engine := newTestEngine(t)

	profile := &domain.HealthProfile{
		UserID:      "user-1",
		Age:         35,
		Sleep:       &domain.SleepData{AverageDuration: 7.5, BedtimeConsistency: "high"},
		Preferences: &domain.Preferences{SleepTime: "22:30", Goals: []string{"longevity"}},
	}
	rec := domain.Recommendation{
		Category: "sleep",
		Action:   "improve_sleep_duration",
		Priority: domain.PriorityHigh,
	}

	// 0.5 base, +0.2 near-target duration, +0.1 consistent schedule,
	// +0.1 sleep time preference, +0.1 high priority, +0.2 longevity
	// alignment: clamped to 1.0.
	feasibility := engine.assessFeasibility(rec, profile, domain.DriverLongevity)
	if feasibility.Score != 1.0 {
		t.Errorf("Expected clamped score 1.0, got %v", feasibility.Score)
	}
	if len(feasibility.Facilitators) != 3 {
		t.Errorf("Expected 3 facilitators, got %v", feasibility.Facilitators)
	}
	if len(feasibility.Barriers) != 0 {
		t.Errorf("Expected no barriers, got %v", feasibility.Barriers)
	}
}

func TestFeasibilityBarriers(t *testing.T) {
	engine := newTestEngine(t)

	profile := &domain.HealthProfile{
		UserID: "user-2",
		Age:    35,
		Sleep:  &domain.SleepData{AverageDuration: 5.0, BedtimeConsistency: "low"},
	}
	rec := domain.Recommendation{
		Category: "sleep",
		Action:   "improve_sleep_duration",
		Priority: domain.PriorityMedium,
	}

	// 0.5 base, -0.1 far from target, -0.1 irregular schedule, no
	// alignment for the social driver.
	feasibility := engine.assessFeasibility(rec, profile, domain.DriverSocial)
	if feasibility.Score < 0.29 || feasibility.Score > 0.31 {
		t.Errorf("Expected score near 0.3, got %v", feasibility.Score)
	}
	if len(feasibility.Barriers) != 2 {
		t.Errorf("Expected 2 barriers, got %v", feasibility.Barriers)
	}
}

func TestHighStressCutsBothWays(t *testing.T) {
	engine := newTestEngine(t)

	profile := &domain.HealthProfile{
		UserID: "user-3",
		Age:    35,
		Stress: &domain.StressData{Level: 9, CopingMechanisms: []string{"meditation"}},
	}
	rec := domain.Recommendation{Category: "stress_management", Action: "stress_reduction", Priority: domain.PriorityMedium}

	feasibility := engine.assessFeasibility(rec, profile, domain.DriverUnknown)
	if len(feasibility.Barriers) != 1 || len(feasibility.Facilitators) != 2 {
		t.Errorf("Expected 1 barrier and 2 facilitators, got %v / %v", feasibility.Barriers, feasibility.Facilitators)
	}
}

func TestPersonalizeRanking(t *testing.T) {
	engine := newTestEngine(t)

	profile := &domain.HealthProfile{
		UserID:      "user-4",
		Age:         35,
		Sleep:       &domain.SleepData{AverageDuration: 7, BedtimeConsistency: "high"},
		Exercise:    &domain.ExerciseData{StrengthSessions: 1, CardioSessions: 1},
		Stress:      &domain.StressData{Level: 5},
		Preferences: &domain.Preferences{Goals: []string{"live longer"}},
	}
	recs := []domain.Recommendation{
		{Category: "stress_management", Action: "stress_reduction", Priority: domain.PriorityLow, EvidenceCategory: domain.EvidenceSystematicReview},
		{Category: "sleep", Action: "improve_sleep_duration", Priority: domain.PriorityHigh, EvidenceCategory: domain.EvidenceClinicalGuidelines},
		{Category: "physical_activity", Action: "increase_physical_activity", Priority: domain.PriorityHigh, EvidenceCategory: domain.EvidenceClinicalGuidelines},
	}

	report, err := engine.Personalize(profile, recs)
	if err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}
	if len(report.Recommendations) != 3 {
		t.Fatalf("Expected 3 personalized recommendations, got %d", len(report.Recommendations))
	}

	// The high-priority sleep recommendation has the best feasibility and
	// must rank first; the low-priority stress one must rank last.
	if report.Recommendations[0].Category != "sleep" {
		t.Errorf("Expected sleep recommendation first, got %s", report.Recommendations[0].Category)
	}
	if report.Recommendations[2].Category != "stress_management" {
		t.Errorf("Expected stress recommendation last, got %s", report.Recommendations[2].Category)
	}

	for _, rec := range report.Recommendations {
		if rec.SourceAgent != string(domain.AgentPersonalization) {
			t.Errorf("Expected personalization source agent, got %q", rec.SourceAgent)
		}
		if rec.EvidenceCategory == "" {
			t.Errorf("Expected evidence category preserved on %s", rec.Category)
		}
		if len(rec.ImplementationSteps) == 0 {
			t.Errorf("Expected implementation steps on %s", rec.Category)
		}
	}

	if !containsString(report.KeyFindings, "Top priority recommendation: improve_sleep_duration") {
		t.Errorf("Expected top priority finding, got %v", report.KeyFindings)
	}
}

func TestPersonalizedActionTemplates(t *testing.T) {
	tests := []struct {
		name     string
		profile  *domain.HealthProfile
		rec      domain.Recommendation
		expected string
	}{
		{
			"ShortSleeper",
			&domain.HealthProfile{Sleep: &domain.SleepData{AverageDuration: 5.5}},
			domain.Recommendation{Category: "sleep", Action: "improve_sleep_duration"},
			"Gradually increase sleep duration from 5.5 to 7-8 hours",
		},
		{
			"LongSleeper",
			&domain.HealthProfile{Sleep: &domain.SleepData{AverageDuration: 9.5}},
			domain.Recommendation{Category: "sleep", Action: "improve_sleep_duration"},
			"Optimize sleep duration from 9.5 to 7-9 hours",
		},
		{
			"NoSleepData",
			&domain.HealthProfile{},
			domain.Recommendation{Category: "sleep", Action: "improve_sleep_duration"},
			"Establish a consistent 7-9 hour sleep schedule",
		},
		{
			"SomewhatActive",
			&domain.HealthProfile{Exercise: &domain.ExerciseData{CardioSessions: 2}},
			domain.Recommendation{Category: "physical_activity", Action: "increase_physical_activity"},
			"Build on your current 2 weekly sessions to reach 150 minutes of activity",
		},
		{
			"ExistingCoping",
			&domain.HealthProfile{Stress: &domain.StressData{Level: 8, CopingMechanisms: []string{"journaling"}}},
			domain.Recommendation{Category: "stress_management", Action: "stress_reduction"},
			"Enhance your stress management toolkit by building on journaling",
		},
		{
			"FallbackPhrasing",
			&domain.HealthProfile{},
			domain.Recommendation{Category: "nutrition", Action: "increase_fiber_intake"},
			"Personalized increase fiber intake",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := personalizeAction(tt.rec, tt.profile); got != tt.expected {
				t.Errorf("Expected %q, got %q", tt.expected, got)
			}
		})
	}
}

func TestClosingSentenceNotDuplicated(t *testing.T) {
	styles := motivationStyles()

	// The performance activity body contains "progressively", which
	// covers the "progress" keyword, so no closing is appended.
	rec := domain.Recommendation{Category: "physical_activity", Action: "increase_physical_activity", Description: "base"}
	desc := personalizeDescription(rec, styles[domain.DriverPerformance], &domain.HealthProfile{})
	if strings.Contains(desc, "Track your progress weekly") {
		t.Errorf("Expected closing suppressed, got %q", desc)
	}

	// The longevity sleep body lacks "long-term", so the closing appears.
	rec = domain.Recommendation{Category: "sleep", Action: "improve_sleep_duration", Description: "base"}
	profile := &domain.HealthProfile{Sleep: &domain.SleepData{AverageDuration: 6}}
	desc = personalizeDescription(rec, styles[domain.DriverLongevity], profile)
	if !strings.HasSuffix(desc, "The benefits compound over time, contributing significantly to your long-term health.") {
		t.Errorf("Expected long-term closing appended, got %q", desc)
	}
}

func TestPersonalizeConfidence(t *testing.T) {
	engine := newTestEngine(t)

	tests := []struct {
		name     string
		profile  *domain.HealthProfile
		expected domain.ConfidenceLevel
	}{
		{
			"UnknownDriverLow",
			&domain.HealthProfile{UserID: "u", Age: 35},
			domain.ConfidenceLow,
		},
		{
			"RichProfileHigh",
			&domain.HealthProfile{
				UserID:      "u",
				Age:         35,
				Sleep:       &domain.SleepData{AverageDuration: 7},
				Exercise:    &domain.ExerciseData{CardioSessions: 2},
				Stress:      &domain.StressData{Level: 4},
				Preferences: &domain.Preferences{Goals: []string{"longevity"}},
			},
			domain.ConfidenceHigh,
		},
		{
			"SparseProfileMedium",
			&domain.HealthProfile{
				UserID:      "u",
				Age:         35,
				Sleep:       &domain.SleepData{AverageDuration: 7},
				Preferences: &domain.Preferences{Goals: []string{"longevity"}},
			},
			domain.ConfidenceMedium,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			report, err := engine.Personalize(tt.profile, nil)
			if err != nil {
				t.Fatalf("Unexpected error: %v", err)
			}
			if report.Confidence != tt.expected {
				t.Errorf("Expected confidence %s, got %s", tt.expected, report.Confidence)
			}
		})
	}
}

func TestStyleTableCoversAllDrivers(t *testing.T) {
	if err := validateStyles(motivationStyles()); err != nil {
		t.Fatalf("Unexpected error: %v", err)
	}

	broken := motivationStyles()
	delete(broken, domain.DriverMood)
	if err := validateStyles(broken); err == nil {
		t.Error("Expected error for incomplete style table")
	}
}

func containsString(list []string, want string) bool {
	for _, s := range list {
		if s == want {
			return true
		}
	}
	return false
}
