package safety

import (
	"github.com/longevity-snapshot-server/internal/domain"
)

// UsageRisk flags a condition where self-service recommendations are not a
// substitute for professional care.
type UsageRisk struct {
	Type        string           `json:"type"`
	RiskLevel   domain.RiskLevel `json:"risk_level"`
	Description string           `json:"description"`
}

// Conditions treated as red flags regardless of other sleep metrics.
var seriousSleepIssues = map[string]struct{}{
	"sleep_apnea": {},
	"insomnia":    {},
	"narcolepsy":  {},
}

// AssessUsageRisks screens the profile for readings severe enough that the
// user should be directed to a clinician. Any high-level risk here triggers
// a medical consultation recommendation downstream.
func AssessUsageRisks(profile *domain.HealthProfile) []UsageRisk {
	var risks []UsageRisk

	if m := profile.HealthMetrics; m != nil {
		severeSystolic := m.BloodPressureSystolic != nil && *m.BloodPressureSystolic >= 180
		severeDiastolic := m.BloodPressureDiastolic != nil && *m.BloodPressureDiastolic >= 120
		if severeSystolic || severeDiastolic {
			risks = append(risks, UsageRisk{
				Type:        "severe_hypertension",
				RiskLevel:   domain.RiskHigh,
				Description: "Severe hypertension detected. User should seek immediate medical attention rather than relying on app recommendations.",
			})
		}

		if m.HeartRate != nil && (*m.HeartRate < 40 || *m.HeartRate > 120) {
			risks = append(risks, UsageRisk{
				Type:        "abnormal_heart_rate",
				RiskLevel:   domain.RiskHigh,
				Description: "Abnormal resting heart rate detected. User should consult a healthcare provider rather than relying on app recommendations.",
			})
		}
	}

	if profile.HasBodyMeasurements() {
		heightM := profile.HeightCM / 100
		bmi := profile.WeightKG / (heightM * heightM)
		if bmi < 16 || bmi > 40 {
			risks = append(risks, UsageRisk{
				Type:        "extreme_bmi",
				RiskLevel:   domain.RiskHigh,
				Description: "Extreme BMI detected. Weight management should be supervised by healthcare professionals rather than app recommendations alone.",
			})
		}
	}

	if s := profile.Sleep; s != nil {
		if s.AverageDuration > 0 && s.AverageDuration < 4 {
			risks = append(risks, UsageRisk{
				Type:        "severe_sleep_deprivation",
				RiskLevel:   domain.RiskMedium,
				Description: "Severe sleep deprivation detected. User should consult a healthcare provider for proper evaluation.",
			})
		}
		for _, issue := range s.Issues {
			if _, serious := seriousSleepIssues[issue]; serious {
				risks = append(risks, UsageRisk{
					Type:        "sleep_disorder",
					RiskLevel:   domain.RiskMedium,
					Description: "Potential sleep disorder detected. User should consult a sleep specialist for proper diagnosis and treatment.",
				})
				break
			}
		}
	}

	if profile.Stress != nil && profile.Stress.Level >= 9 {
		risks = append(risks, UsageRisk{
			Type:        "severe_stress",
			RiskLevel:   domain.RiskMedium,
			Description: "Severe stress detected. User may benefit from professional mental health support in addition to app recommendations.",
		})
	}

	if AssessCompleteness(profile).Level == domain.CompletenessMinimal {
		risks = append(risks, UsageRisk{
			Type:        "insufficient_data",
			RiskLevel:   domain.RiskMedium,
			Description: "Insufficient data for reliable recommendations. User should provide more complete health information or consult healthcare providers.",
		})
	}

	return risks
}

// FirstHighRisk returns the first high-severity usage risk, if any.
func FirstHighRisk(risks []UsageRisk) (UsageRisk, bool) {
	for _, r := range risks {
		if r.RiskLevel == domain.RiskHigh {
			return r, true
		}
	}
	return UsageRisk{}, false
}
