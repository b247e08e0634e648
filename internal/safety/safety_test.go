package safety

import (
	"testing"

	"github.com/longevity-snapshot-server/internal/domain"
)

func intPtr(v int) *int { return &v }

func fullProfile() *domain.HealthProfile {
	return &domain.HealthProfile{
		UserID:   "user-1",
		Age:      35,
		Gender:   "female",
		HeightCM: 165,
		WeightKG: 62,
		HealthMetrics: &domain.HealthMetrics{
			BloodPressureSystolic:  intPtr(118),
			BloodPressureDiastolic: intPtr(76),
			HeartRate:              intPtr(62),
		},
		Sleep:    &domain.SleepData{AverageDuration: 7.5, Quality: "high", BedtimeConsistency: "high"},
		Stress:   &domain.StressData{Level: 3},
		Exercise: &domain.ExerciseData{StrengthSessions: 2, CardioSessions: 3},
	}
}

func TestAssessCompleteness(t *testing.T) {
	tests := []struct {
		name       string
		profile    *domain.HealthProfile
		level      domain.CompletenessLevel
		confidence domain.ConfidenceLevel
		percentage int
	}{
		{"Complete", fullProfile(), domain.CompletenessComplete, domain.ConfidenceHigh, 100},
		{
			// Half the required fields is exactly the partial boundary.
			"PartialAtRequiredBoundary",
			&domain.HealthProfile{Age: 30, Gender: "male"},
			domain.CompletenessPartial, domain.ConfidenceMedium, 25,
		},
		{
			"MinimalBelowRequiredBoundary",
			&domain.HealthProfile{Age: 30},
			domain.CompletenessMinimal, domain.ConfidenceLow, 13,
		},
		{
			"PartialNoImportantSections",
			&domain.HealthProfile{Age: 30, Gender: "male", HeightCM: 180, WeightKG: 80},
			domain.CompletenessPartial, domain.ConfidenceMedium, 50,
		},
		{
			"SubstantialMissingOneOfEach",
			&domain.HealthProfile{
				Age: 30, Gender: "male", HeightCM: 180,
				HealthMetrics: &domain.HealthMetrics{},
				Sleep:         &domain.SleepData{AverageDuration: 7},
			},
			domain.CompletenessSubstantial, domain.ConfidenceMedium, 63,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := AssessCompleteness(tt.profile)
			if got.Level != tt.level {
				t.Errorf("Expected level %s, got %s", tt.level, got.Level)
			}
			if got.Confidence != tt.confidence {
				t.Errorf("Expected confidence %s, got %s", tt.confidence, got.Confidence)
			}
			if got.OverallPercentage != tt.percentage {
				t.Errorf("Expected %d%%, got %d%%", tt.percentage, got.OverallPercentage)
			}
		})
	}
}

func TestAssessCompletenessMissingFields(t *testing.T) {
	got := AssessCompleteness(&domain.HealthProfile{Age: 30, Gender: "male"})
	if len(got.MissingRequiredFields) != 2 {
		t.Fatalf("Expected 2 missing required fields, got %v", got.MissingRequiredFields)
	}
	if got.MissingRequiredFields[0] != "height" || got.MissingRequiredFields[1] != "weight" {
		t.Errorf("Unexpected missing required fields: %v", got.MissingRequiredFields)
	}
	if len(got.MissingImportantFields) != 4 {
		t.Errorf("Expected all 4 important fields missing, got %v", got.MissingImportantFields)
	}
}

func TestAssessBiasRisks(t *testing.T) {
	tests := []struct {
		name        string
		mutate      func(*domain.HealthProfile)
		overall     domain.RiskLevel
		wantedTypes []string
	}{
		{
			"CleanProfile",
			func(p *domain.HealthProfile) {},
			domain.RiskLow,
			nil,
		},
		{
			"NonBinaryGender",
			func(p *domain.HealthProfile) { p.Gender = "nonbinary" },
			domain.RiskMedium,
			[]string{"gender_representation"},
		},
		{
			"ElderlyAge",
			func(p *domain.HealthProfile) { p.Age = 85 },
			domain.RiskMedium,
			[]string{"age_representation"},
		},
		{
			"AthleticOverweight",
			func(p *domain.HealthProfile) {
				p.WeightKG = 75 // BMI 27.5 at 165 cm
				p.Exercise.StrengthSessions = 4
			},
			domain.RiskHigh,
			[]string{"athletic_body_composition"},
		},
		{
			"MinimalDataIsHighRisk",
			func(p *domain.HealthProfile) {
				p.HealthMetrics = nil
				p.Sleep = nil
				p.Stress = nil
				p.Exercise = nil
				p.HeightCM = 0
				p.WeightKG = 0
			},
			domain.RiskHigh,
			[]string{"incomplete_data"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := fullProfile()
			tt.mutate(profile)
			got := AssessBiasRisks(profile)
			if got.OverallRisk != tt.overall {
				t.Errorf("Expected overall risk %s, got %s", tt.overall, got.OverallRisk)
			}
			for _, wanted := range tt.wantedTypes {
				found := false
				for _, r := range got.SpecificRisks {
					if r.Type == wanted {
						found = true
					}
				}
				if !found {
					t.Errorf("Expected risk %s in %v", wanted, got.SpecificRisks)
				}
			}
			if got.Summary == "" {
				t.Error("Expected a non-empty summary")
			}
		})
	}
}

func TestAssessUsageRisks(t *testing.T) {
	tests := []struct {
		name     string
		mutate   func(*domain.HealthProfile)
		expected []string
	}{
		{"CleanProfile", func(p *domain.HealthProfile) {}, nil},
		{
			"SevereHypertension",
			func(p *domain.HealthProfile) {
				p.HealthMetrics.BloodPressureSystolic = intPtr(185)
				p.HealthMetrics.BloodPressureDiastolic = intPtr(95)
			},
			[]string{"severe_hypertension"},
		},
		{
			"SevereDiastolicAlone",
			func(p *domain.HealthProfile) { p.HealthMetrics.BloodPressureDiastolic = intPtr(125) },
			[]string{"severe_hypertension"},
		},
		{
			"ExtremeHeartRate",
			func(p *domain.HealthProfile) { p.HealthMetrics.HeartRate = intPtr(130) },
			[]string{"abnormal_heart_rate"},
		},
		{
			"ExtremeBMI",
			func(p *domain.HealthProfile) { p.WeightKG = 120 }, // BMI 44.1 at 165 cm
			[]string{"extreme_bmi"},
		},
		{
			"SevereSleepDeprivation",
			func(p *domain.HealthProfile) { p.Sleep.AverageDuration = 3.5 },
			[]string{"severe_sleep_deprivation"},
		},
		{
			"SleepDisorder",
			func(p *domain.HealthProfile) { p.Sleep.Issues = []string{"snoring", "sleep_apnea"} },
			[]string{"sleep_disorder"},
		},
		{
			"SevereStress",
			func(p *domain.HealthProfile) { p.Stress.Level = 9 },
			[]string{"severe_stress"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			profile := fullProfile()
			tt.mutate(profile)
			got := AssessUsageRisks(profile)
			if len(got) != len(tt.expected) {
				t.Fatalf("Expected %d risks, got %d: %v", len(tt.expected), len(got), got)
			}
			for i, wanted := range tt.expected {
				if got[i].Type != wanted {
					t.Errorf("Expected risk %s, got %s", wanted, got[i].Type)
				}
			}
		})
	}
}

func TestFirstHighRisk(t *testing.T) {
	risks := []UsageRisk{
		{Type: "severe_stress", RiskLevel: domain.RiskMedium},
		{Type: "severe_hypertension", RiskLevel: domain.RiskHigh},
	}
	risk, ok := FirstHighRisk(risks)
	if !ok || risk.Type != "severe_hypertension" {
		t.Errorf("Expected severe_hypertension, got %v ok=%v", risk, ok)
	}

	if _, ok := FirstHighRisk(risks[:1]); ok {
		t.Error("Expected no high risk")
	}
}
