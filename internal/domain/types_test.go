package domain

import (
	"testing"
)

func TestConfidenceLevelConstants(t *testing.T) {
	tests := []struct {
		name     string
		value    ConfidenceLevel
		expected string
	}{
		{"High", ConfidenceHigh, "high"},
		{"Medium", ConfidenceMedium, "medium"},
		{"Low", ConfidenceLow, "low"},
		{"Uncertain", ConfidenceUncertain, "uncertain"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if string(tt.value) != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, string(tt.value))
			}
			if !tt.value.IsValid() {
				t.Errorf("Expected %s to be valid", tt.value)
			}
		})
	}

	if ConfidenceLevel("very high").IsValid() {
		t.Error("Expected unknown confidence level to be invalid")
	}
}

func TestMinConfidence(t *testing.T) {
	tests := []struct {
		name     string
		levels   []ConfidenceLevel
		expected ConfidenceLevel
		ok       bool
	}{
		{"Empty", nil, "", false},
		{"Single", []ConfidenceLevel{ConfidenceMedium}, ConfidenceMedium, true},
		{"UncertainWins", []ConfidenceLevel{ConfidenceHigh, ConfidenceUncertain, ConfidenceMedium}, ConfidenceUncertain, true},
		{"LowBelowMedium", []ConfidenceLevel{ConfidenceMedium, ConfidenceLow, ConfidenceHigh}, ConfidenceLow, true},
		{"AllHigh", []ConfidenceLevel{ConfidenceHigh, ConfidenceHigh}, ConfidenceHigh, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := MinConfidence(tt.levels)
			if ok != tt.ok {
				t.Fatalf("Expected ok=%v, got %v", tt.ok, ok)
			}
			if ok && got != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, got)
			}
		})
	}
}

func TestConfidenceLevelAtMost(t *testing.T) {
	if !ConfidenceUncertain.AtMost(ConfidenceLow) {
		t.Error("Expected uncertain <= low")
	}
	if !ConfidenceLow.AtMost(ConfidenceLow) {
		t.Error("Expected low <= low")
	}
	if ConfidenceHigh.AtMost(ConfidenceMedium) {
		t.Error("Expected high > medium")
	}
}

func TestPriorityWeight(t *testing.T) {
	tests := []struct {
		name     string
		value    Priority
		expected float64
	}{
		{"High", PriorityHigh, 1.0},
		{"Medium", PriorityMedium, 0.5},
		{"Low", PriorityLow, 0.3},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if tt.value.Weight() != tt.expected {
				t.Errorf("Expected %v, got %v", tt.expected, tt.value.Weight())
			}
		})
	}
}

func TestEvidenceCategoryConstants(t *testing.T) {
	tests := []struct {
		name     string
		value    EvidenceCategory
		expected string
	}{
		{"ClinicalGuidelines", EvidenceClinicalGuidelines, "clinical_guidelines"},
		{"SystematicReview", EvidenceSystematicReview, "systematic_review"},
		{"MetaAnalysis", EvidenceMetaAnalysis, "meta_analysis"},
		{"RandomizedTrial", EvidenceRandomizedTrial, "randomized_trial"},
		{"ObservationalStudy", EvidenceObservationalStudy, "observational_study"},
		{"ExpertOpinion", EvidenceExpertOpinion, "expert_opinion"},
		{"MechanisticReasoning", EvidenceMechanisticReasoning, "mechanistic_reasoning"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if string(tt.value) != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, string(tt.value))
			}
		})
	}
}

func TestAgentTypeConstants(t *testing.T) {
	tests := []struct {
		name     string
		value    AgentType
		expected string
	}{
		{"MedicalReasoning", AgentMedicalReasoning, "medical_reasoning"},
		{"Sleep", AgentSleep, "sleep"},
		{"Nutrition", AgentNutrition, "nutrition"},
		{"Stress", AgentStress, "stress"},
		{"Exercise", AgentExercise, "exercise"},
		{"Personalization", AgentPersonalization, "personalization"},
		{"CriticalEvaluation", AgentCriticalEvaluation, "critical_evaluation"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if string(tt.value) != tt.expected {
				t.Errorf("Expected %s, got %s", tt.expected, string(tt.value))
			}
		})
	}
}

func TestAddConcernSetSemantics(t *testing.T) {
	a := &DomainAnalysis{}
	a.AddConcern("weight_management")
	a.AddConcern("sleep")
	a.AddConcern("weight_management")

	if len(a.AreasOfConcern) != 2 {
		t.Fatalf("Expected 2 unique concerns, got %d: %v", len(a.AreasOfConcern), a.AreasOfConcern)
	}
	if a.AreasOfConcern[0] != "weight_management" || a.AreasOfConcern[1] != "sleep" {
		t.Errorf("Expected insertion order preserved, got %v", a.AreasOfConcern)
	}
}

func TestHealthProfileValidate(t *testing.T) {
	tests := []struct {
		name    string
		profile HealthProfile
		wantErr bool
	}{
		{"Valid", HealthProfile{UserID: "u1", Age: 35, Gender: "female", HeightCM: 165, WeightKG: 65}, false},
		{"NegativeAge", HealthProfile{Age: -1}, true},
		{"NegativeWeight", HealthProfile{Age: 30, WeightKG: -5}, true},
		{"StressOutOfRange", HealthProfile{Age: 30, Stress: &StressData{Level: 11}}, true},
		{"MissingOptionals", HealthProfile{Age: 40, Gender: "male"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.profile.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
