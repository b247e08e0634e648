package safety

import (
	"fmt"
	"strings"

	"github.com/longevity-snapshot-server/internal/domain"
)

// BiasRisk is one detected way the reference data may misrepresent the user.
type BiasRisk struct {
	Type        string           `json:"type"`
	RiskLevel   domain.RiskLevel `json:"risk_level"`
	Description string           `json:"description"`
}

// BiasAssessment aggregates bias risks with an overall severity.
type BiasAssessment struct {
	OverallRisk   domain.RiskLevel `json:"overall_risk"`
	Summary       string           `json:"summary"`
	SpecificRisks []BiasRisk       `json:"specific_risks"`
}

// AssessBiasRisks scans the profile for populations that clinical reference
// ranges represent poorly. The checks are heuristic flags, not diagnoses;
// they only lower confidence and add caveats downstream.
func AssessBiasRisks(profile *domain.HealthProfile) BiasAssessment {
	var risks []BiasRisk

	if profile.Gender != "" {
		switch strings.ToLower(profile.Gender) {
		case "male", "female", "m", "f":
		default:
			risks = append(risks, BiasRisk{
				Type:        "gender_representation",
				RiskLevel:   domain.RiskMedium,
				Description: "Non-binary gender data may not be well-represented in medical reference ranges and guidelines.",
			})
		}
	}

	if profile.Age > 0 && (profile.Age < 18 || profile.Age > 80) {
		risks = append(risks, BiasRisk{
			Type:        "age_representation",
			RiskLevel:   domain.RiskMedium,
			Description: fmt.Sprintf("Age %d may be under-represented in reference data for some health metrics.", profile.Age),
		})
	}

	if profile.HasBodyMeasurements() {
		heightM := profile.HeightCM / 100
		bmi := profile.WeightKG / (heightM * heightM)
		if bmi < 18.5 || bmi > 35 {
			risks = append(risks, BiasRisk{
				Type:        "bmi_representation",
				RiskLevel:   domain.RiskMedium,
				Description: "Extreme BMI values may not be well-represented in reference data for some health metrics.",
			})
		}
		if profile.Exercise != nil &&
			(profile.Exercise.StrengthSessions >= 4 || profile.Exercise.CardioSessions >= 5) &&
			bmi >= 25 {
			risks = append(risks, BiasRisk{
				Type:        "athletic_body_composition",
				RiskLevel:   domain.RiskHigh,
				Description: "BMI may overestimate health risks in athletic individuals with high muscle mass.",
			})
		}
	}

	completeness := AssessCompleteness(profile)
	if completeness.Level == domain.CompletenessMinimal || completeness.Level == domain.CompletenessPartial {
		risks = append(risks, BiasRisk{
			Type:        "incomplete_data",
			RiskLevel:   domain.RiskHigh,
			Description: "Incomplete data may lead to biased assessments due to missing context.",
		})
	}

	assessment := BiasAssessment{SpecificRisks: risks}
	switch {
	case len(risks) == 0:
		assessment.OverallRisk = domain.RiskLow
		assessment.Summary = "No significant algorithm bias risks identified based on available data."
	case hasRiskLevel(risks, domain.RiskHigh):
		assessment.OverallRisk = domain.RiskHigh
		assessment.Summary = "High risk of algorithm bias detected. Recommendations should be interpreted with caution."
	case hasRiskLevel(risks, domain.RiskMedium):
		assessment.OverallRisk = domain.RiskMedium
		assessment.Summary = "Moderate risk of algorithm bias detected. Consider individual context when interpreting recommendations."
	default:
		assessment.OverallRisk = domain.RiskLow
		assessment.Summary = "Low risk of algorithm bias detected."
	}
	return assessment
}

func hasRiskLevel(risks []BiasRisk, level domain.RiskLevel) bool {
	for _, r := range risks {
		if r.RiskLevel == level {
			return true
		}
	}
	return false
}
