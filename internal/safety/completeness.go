// Package safety implements the guardrail passes that gate assessment
// confidence: data completeness scoring, algorithm bias detection, and
// screening for conditions that need professional care instead of
// self-service recommendations.
package safety

import (
	"fmt"
	"strings"

	"github.com/longevity-snapshot-server/internal/domain"
)

// Completeness is the result of grading how much of a profile is filled in.
type Completeness struct {
	Level                  domain.CompletenessLevel
	Confidence             domain.ConfidenceLevel
	OverallPercentage      int
	MissingRequiredFields  []string
	MissingImportantFields []string
	Reasoning              string
}

// AssessCompleteness grades the profile against four required demographic
// fields and four important data sections. Optional sections (nutrition,
// VO2 max, medical history, preferences) never lower the grade.
func AssessCompleteness(profile *domain.HealthProfile) Completeness {
	type field struct {
		name    string
		present bool
	}

	required := []field{
		{"age", profile.Age > 0},
		{"gender", profile.Gender != ""},
		{"height", profile.HeightCM > 0},
		{"weight", profile.WeightKG > 0},
	}
	important := []field{
		{"health_metrics", profile.HealthMetrics != nil},
		{"sleep_data", profile.Sleep != nil},
		{"exercise_data", profile.Exercise != nil},
		{"stress_data", profile.Stress != nil},
	}

	var requiredCount, importantCount int
	var missingRequired, missingImportant []string
	for _, f := range required {
		if f.present {
			requiredCount++
		} else {
			missingRequired = append(missingRequired, f.name)
		}
	}
	for _, f := range important {
		if f.present {
			importantCount++
		} else {
			missingImportant = append(missingImportant, f.name)
		}
	}

	requiredPct := float64(requiredCount) / float64(len(required)) * 100
	importantPct := float64(importantCount) / float64(len(important)) * 100
	overallPct := float64(requiredCount+importantCount) / float64(len(required)+len(important)) * 100

	var level domain.CompletenessLevel
	var confidence domain.ConfidenceLevel
	switch {
	case requiredPct == 100 && importantPct >= 75:
		level = domain.CompletenessComplete
		confidence = domain.ConfidenceHigh
	case requiredPct >= 75 && importantPct >= 50:
		level = domain.CompletenessSubstantial
		confidence = domain.ConfidenceMedium
	case requiredPct >= 50:
		level = domain.CompletenessPartial
		confidence = domain.ConfidenceMedium
	default:
		level = domain.CompletenessMinimal
		confidence = domain.ConfidenceLow
	}

	rounded := int(overallPct + 0.5)
	reasoning := fmt.Sprintf("Data completeness assessment: %s (%d%%). ", level, rounded)
	if len(missingRequired) > 0 {
		reasoning += fmt.Sprintf("Missing required fields: %s. ", strings.Join(missingRequired, ", "))
	}
	if len(missingImportant) > 0 {
		reasoning += fmt.Sprintf("Missing important fields: %s. ", strings.Join(missingImportant, ", "))
	}

	return Completeness{
		Level:                  level,
		Confidence:             confidence,
		OverallPercentage:      rounded,
		MissingRequiredFields:  missingRequired,
		MissingImportantFields: missingImportant,
		Reasoning:              reasoning,
	}
}
