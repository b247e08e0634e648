package scorer

import (
	"fmt"
	"strings"

	"github.com/longevity-snapshot-server/internal/domain"
	"github.com/longevity-snapshot-server/internal/safety"
)

func (m *Medical) recommendations(profile *domain.HealthProfile, analysis *domain.DomainAnalysis, ctx *medicalContext) []domain.Recommendation {
	var recs []domain.Recommendation

	if ctx.hasBMI {
		switch {
		case ctx.bmi < 18.5:
			recs = append(recs, domain.Recommendation{
				Category:         "weight_management",
				Action:           "healthy_weight_gain",
				Description:      "Consult with a healthcare provider about healthy weight gain strategies",
				Reasoning:        "BMI below 18.5 indicates underweight status, which may be associated with nutritional deficiencies",
				Priority:         domain.PriorityMedium,
				EvidenceCategory: domain.EvidenceClinicalGuidelines,
			})
		case ctx.bmi >= 30:
			recs = append(recs, domain.Recommendation{
				Category:         "weight_management",
				Action:           "obesity_management",
				Description:      "Consult with a healthcare provider about evidence-based weight management strategies",
				Reasoning:        "BMI of 30 or higher indicates obesity, which significantly increases risk of multiple chronic diseases",
				Priority:         domain.PriorityHigh,
				EvidenceCategory: domain.EvidenceClinicalGuidelines,
			})
		case ctx.bmi >= 25:
			recs = append(recs, domain.Recommendation{
				Category:         "weight_management",
				Action:           "weight_management",
				Description:      "Consider implementing a moderate weight management plan focusing on balanced nutrition and regular physical activity",
				Reasoning:        "BMI between 25-30 indicates overweight status, which moderately increases risk of chronic diseases",
				Priority:         domain.PriorityMedium,
				EvidenceCategory: domain.EvidenceClinicalGuidelines,
			})
		}
	}

	if sleep := profile.Sleep; sleep != nil {
		if sleep.AverageDuration > 0 && sleep.AverageDuration < 7 {
			recs = append(recs, domain.Recommendation{
				Category:         "sleep",
				Action:           "improve_sleep_duration",
				Description:      "Aim for 7-9 hours of quality sleep per night for optimal health",
				Reasoning:        "Insufficient sleep duration increases risk of cognitive impairment, mood disorders, and metabolic dysfunction",
				Priority:         domain.PriorityHigh,
				EvidenceCategory: domain.EvidenceClinicalGuidelines,
			})
		}
		if sleep.BedtimeConsistency == "low" || sleep.BedtimeConsistency == "poor" {
			recs = append(recs, domain.Recommendation{
				Category:         "sleep",
				Action:           "improve_sleep_consistency",
				Description:      "Maintain a consistent sleep and wake schedule, even on weekends",
				Reasoning:        "Irregular sleep schedules disrupt circadian rhythms and are associated with metabolic dysfunction",
				Priority:         domain.PriorityHigh,
				EvidenceCategory: domain.EvidenceObservationalStudy,
			})
		}
	}

	if profile.Stress != nil && profile.Stress.Level >= 7 {
		recs = append(recs, domain.Recommendation{
			Category:         "stress_management",
			Action:           "stress_reduction",
			Description:      "Implement evidence-based stress management techniques such as mindfulness meditation, deep breathing exercises, or professional counseling",
			Reasoning:        "High stress levels are associated with increased risk of cardiovascular disease, immune dysfunction, and mental health disorders",
			Priority:         domain.PriorityHigh,
			EvidenceCategory: domain.EvidenceSystematicReview,
		})
	}

	if exercise := profile.Exercise; exercise != nil {
		if exercise.StrengthSessions+exercise.CardioSessions < 3 {
			recs = append(recs, domain.Recommendation{
				Category:         "physical_activity",
				Action:           "increase_physical_activity",
				Description:      "Gradually increase physical activity to at least 150 minutes of moderate-intensity exercise per week",
				Reasoning:        "Insufficient physical activity increases risk of cardiovascular disease, type 2 diabetes, and all-cause mortality",
				Priority:         domain.PriorityHigh,
				EvidenceCategory: domain.EvidenceClinicalGuidelines,
			})
		}
		if exercise.StrengthSessions < 2 {
			recs = append(recs, domain.Recommendation{
				Category:         "physical_activity",
				Action:           "add_strength_training",
				Description:      "Incorporate strength training exercises at least twice per week",
				Reasoning:        "Strength training improves muscle mass, bone density, and metabolic health",
				Priority:         domain.PriorityMedium,
				EvidenceCategory: domain.EvidenceClinicalGuidelines,
			})
		}
		if exercise.CardioSessions < 2 {
			recs = append(recs, domain.Recommendation{
				Category:         "physical_activity",
				Action:           "add_cardiovascular_exercise",
				Description:      "Incorporate cardiovascular exercise at least twice per week",
				Reasoning:        "Cardiovascular exercise improves cardiorespiratory fitness and reduces cardiovascular risk",
				Priority:         domain.PriorityMedium,
				EvidenceCategory: domain.EvidenceClinicalGuidelines,
			})
		}
	}

	if hasRisk(analysis, "low_cardiorespiratory_fitness") {
		recs = append(recs, domain.Recommendation{
			Category:         "cardiorespiratory_fitness",
			Action:           "improve_cardiorespiratory_fitness",
			Description:      "Gradually increase aerobic exercise frequency and intensity to improve cardiorespiratory fitness",
			Reasoning:        "Low cardiorespiratory fitness is associated with increased mortality risk",
			Priority:         domain.PriorityHigh,
			EvidenceCategory: domain.EvidenceSystematicReview,
		})
	}

	if hasAnyRisk(analysis, "elevated", "hypertension_stage_1", "hypertension_stage_2") {
		recs = append(recs,
			domain.Recommendation{
				Category:         "cardiovascular_health",
				Action:           "monitor_blood_pressure",
				Description:      "Regularly monitor blood pressure and consult with a healthcare provider if consistently elevated",
				Reasoning:        "Elevated blood pressure increases risk of cardiovascular disease, stroke, and kidney disease",
				Priority:         domain.PriorityHigh,
				EvidenceCategory: domain.EvidenceClinicalGuidelines,
			},
			domain.Recommendation{
				Category:         "cardiovascular_health",
				Action:           "dash_diet",
				Description:      "Consider following the DASH diet (Dietary Approaches to Stop Hypertension), which emphasizes fruits, vegetables, whole grains, and low-fat dairy",
				Reasoning:        "The DASH diet has been shown to reduce blood pressure in clinical trials",
				Priority:         domain.PriorityMedium,
				EvidenceCategory: domain.EvidenceRandomizedTrial,
			})
	}

	recs = append(recs, domain.Recommendation{
		Category:         "preventive_care",
		Action:           "regular_checkup",
		Description:      "Schedule a regular health check-up with your primary care physician",
		Reasoning:        "Regular preventive care can identify health issues early when they are most treatable",
		Priority:         domain.PriorityMedium,
		EvidenceCategory: domain.EvidenceClinicalGuidelines,
	})

	if ctx.completeness.Level == domain.CompletenessMinimal || ctx.completeness.Level == domain.CompletenessPartial {
		recs = append(recs, domain.Recommendation{
			Category:         "data_collection",
			Action:           "complete_health_profile",
			Description:      "Complete your health profile with additional metrics for more accurate assessment",
			Reasoning:        fmt.Sprintf("Current data completeness is %s (%d%%)", ctx.completeness.Level, ctx.completeness.OverallPercentage),
			Priority:         domain.PriorityHigh,
			EvidenceCategory: domain.EvidenceExpertOpinion,
		})
	}

	if _, hasHigh := safety.FirstHighRisk(ctx.usageRisks); hasHigh {
		recs = append(recs, domain.Recommendation{
			Category:         "medical_consultation",
			Action:           "seek_medical_advice",
			Description:      "Consult with a healthcare provider before implementing any health recommendations from this app",
			Reasoning:        "Your health profile indicates conditions that require professional medical evaluation",
			Priority:         domain.PriorityHigh,
			EvidenceCategory: domain.EvidenceExpertOpinion,
		})
	}

	return recs
}

func (m *Medical) insights(profile *domain.HealthProfile, analysis *domain.DomainAnalysis, ctx *medicalContext) []domain.Insight {
	var insights []domain.Insight

	riskCount := len(analysis.Risks)
	strengthCount := len(analysis.Strengths)
	var healthStatus string
	switch {
	case riskCount == 0 && strengthCount >= 3:
		healthStatus = "excellent"
	case riskCount <= 1 && strengthCount >= 2:
		healthStatus = "good"
	case riskCount <= 3:
		healthStatus = "fair"
	default:
		healthStatus = "concerning"
	}
	insights = append(insights, domain.Insight{
		Type:             "overall_health_status",
		Description:      fmt.Sprintf("Overall health status appears to be %s based on available data", healthStatus),
		Confidence:       ctx.completeness.Confidence,
		EvidenceCategory: domain.EvidenceExpertOpinion,
	})

	if ctx.hasBMI {
		var bmiCategory string
		switch {
		case ctx.bmi < 18.5:
			bmiCategory = "underweight"
		case ctx.bmi < 25:
			bmiCategory = "healthy weight"
		case ctx.bmi < 30:
			bmiCategory = "overweight"
		default:
			bmiCategory = "obese"
		}
		insights = append(insights, domain.Insight{
			Type:             "bmi",
			Description:      fmt.Sprintf("BMI of %.1f indicates %s", ctx.bmi, bmiCategory),
			Confidence:       domain.ConfidenceHigh,
			EvidenceCategory: domain.EvidenceClinicalGuidelines,
		})
	}

	if sleep := profile.Sleep; sleep != nil {
		var issues []string
		if sleep.AverageDuration > 0 && sleep.AverageDuration < 7 {
			issues = append(issues, "insufficient duration")
		}
		if sleep.Quality == "low" || sleep.Quality == "poor" {
			issues = append(issues, "poor quality")
		}
		if sleep.BedtimeConsistency == "low" || sleep.BedtimeConsistency == "poor" {
			issues = append(issues, "irregular schedule")
		}

		confidence := domain.ConfidenceLow
		if ctx.sleepMetricCount >= 2 {
			confidence = domain.ConfidenceMedium
		}
		description := "Sleep pattern appears healthy"
		if len(issues) > 0 {
			description = fmt.Sprintf("Sleep pattern shows %s", strings.Join(issues, ", "))
		}
		insights = append(insights, domain.Insight{
			Type:             "sleep_pattern",
			Description:      description,
			Confidence:       confidence,
			EvidenceCategory: domain.EvidenceSystematicReview,
		})
	}

	if exercise := profile.Exercise; exercise != nil {
		sessions := exercise.StrengthSessions + exercise.CardioSessions
		var activityLevel string
		switch {
		case sessions < 3:
			activityLevel = "insufficient"
		case sessions < 5:
			activityLevel = "adequate"
		default:
			activityLevel = "optimal"
		}
		insights = append(insights, domain.Insight{
			Type:             "physical_activity",
			Description:      fmt.Sprintf("Physical activity level is %s with %d sessions per week", activityLevel, sessions),
			Confidence:       domain.ConfidenceMedium,
			EvidenceCategory: domain.EvidenceClinicalGuidelines,
		})
	}

	if profile.Stress != nil {
		var stressImpact string
		switch {
		case profile.Stress.Level >= 7:
			stressImpact = "significant negative"
		case profile.Stress.Level >= 4:
			stressImpact = "moderate"
		default:
			stressImpact = "minimal"
		}
		insights = append(insights, domain.Insight{
			Type:             "stress_impact",
			Description:      fmt.Sprintf("Stress appears to have a %s impact on health", stressImpact),
			Confidence:       domain.ConfidenceMedium,
			EvidenceCategory: domain.EvidenceSystematicReview,
		})
	}

	if hasCardioMetric(analysis) {
		var cardioRisks []string
		if hasAnyRisk(analysis, "elevated", "hypertension_stage_1", "hypertension_stage_2") {
			cardioRisks = append(cardioRisks, "elevated blood pressure")
		}
		if hasAnyRisk(analysis, "bradycardia", "tachycardia") {
			cardioRisks = append(cardioRisks, "abnormal resting heart rate")
		}
		if hasRisk(analysis, "low_cardiorespiratory_fitness") {
			cardioRisks = append(cardioRisks, "low cardiorespiratory fitness")
		}

		description := "Cardiovascular health indicators appear within normal ranges"
		if len(cardioRisks) > 0 {
			description = fmt.Sprintf("Cardiovascular health shows risk factors: %s", strings.Join(cardioRisks, ", "))
		}
		insights = append(insights, domain.Insight{
			Type:             "cardiovascular_health",
			Description:      description,
			Confidence:       domain.ConfidenceMedium,
			EvidenceCategory: domain.EvidenceClinicalGuidelines,
		})
	}

	if ctx.bias.OverallRisk != domain.RiskLow {
		insights = append(insights, domain.Insight{
			Type:             "algorithm_bias",
			Description:      ctx.bias.Summary,
			Confidence:       domain.ConfidenceMedium,
			EvidenceCategory: domain.EvidenceExpertOpinion,
		})
	}

	insights = append(insights, domain.Insight{
		Type:             "data_completeness",
		Description:      fmt.Sprintf("Data completeness is %s (%d%%)", ctx.completeness.Level, ctx.completeness.OverallPercentage),
		Confidence:       domain.ConfidenceHigh,
		EvidenceCategory: domain.EvidenceExpertOpinion,
	})

	return insights
}

func (m *Medical) keyFindings(profile *domain.HealthProfile, analysis *domain.DomainAnalysis, ctx *medicalContext) []string {
	findings := []string{
		fmt.Sprintf("Data completeness: %s (%d%%)", ctx.completeness.Level, ctx.completeness.OverallPercentage),
	}

	if ctx.hasBMI {
		findings = append(findings, fmt.Sprintf("BMI: %.1f", ctx.bmi))
	}
	if profile.Sleep != nil && profile.Sleep.AverageDuration > 0 {
		findings = append(findings, fmt.Sprintf("Sleep duration: %s hours", formatNumber(profile.Sleep.AverageDuration)))
	}
	if profile.Exercise != nil {
		findings = append(findings, fmt.Sprintf("Physical activity: %d sessions/week", profile.Exercise.StrengthSessions+profile.Exercise.CardioSessions))
	}
	if profile.Stress != nil {
		findings = append(findings, fmt.Sprintf("Stress level: %d/10", profile.Stress.Level))
	}
	if profile.HealthMetrics != nil && profile.HealthMetrics.VO2Max != nil {
		findings = append(findings, fmt.Sprintf("VO2 max: %s ml/kg/min", formatNumber(*profile.HealthMetrics.VO2Max)))
	}
	if bp, ok := analysis.Metrics["blood_pressure"].(string); ok {
		findings = append(findings, fmt.Sprintf("Blood pressure: %s", bp))
	}
	if hr, ok := analysis.Metrics["heart_rate"].(string); ok {
		findings = append(findings, fmt.Sprintf("Heart rate: %s", hr))
	}

	for _, risk := range analysis.Risks {
		findings = append(findings, fmt.Sprintf("Health risk: %s", risk.Type))
	}
	for _, strength := range analysis.Strengths {
		findings = append(findings, fmt.Sprintf("Health strength: %s", strength.Type))
	}

	findings = append(findings, fmt.Sprintf("Algorithm bias risk: %s", ctx.bias.OverallRisk))
	if high, ok := safety.FirstHighRisk(ctx.usageRisks); ok {
		findings = append(findings, fmt.Sprintf("App usage high risk: %s", high.Type))
	}

	return findings
}

// determineConfidence bases confidence on data completeness and downgrades
// it when the bias assessment says the reference data fits this user poorly.
func (m *Medical) determineConfidence(ctx *medicalContext) domain.ConfidenceLevel {
	base := ctx.completeness.Confidence

	switch {
	case ctx.bias.OverallRisk == domain.RiskHigh && base == domain.ConfidenceHigh:
		return domain.ConfidenceMedium
	case ctx.bias.OverallRisk == domain.RiskHigh && base == domain.ConfidenceMedium:
		return domain.ConfidenceLow
	case ctx.bias.OverallRisk == domain.RiskMedium && base == domain.ConfidenceHigh:
		return domain.ConfidenceMedium
	}
	return base
}

func hasRisk(analysis *domain.DomainAnalysis, riskType string) bool {
	for _, r := range analysis.Risks {
		if r.Type == riskType {
			return true
		}
	}
	return false
}

func hasAnyRisk(analysis *domain.DomainAnalysis, types ...string) bool {
	for _, t := range types {
		if hasRisk(analysis, t) {
			return true
		}
	}
	return false
}

func hasCardioMetric(analysis *domain.DomainAnalysis) bool {
	for _, key := range []string{"blood_pressure", "heart_rate", "vo2_max"} {
		if _, ok := analysis.Metrics[key]; ok {
			return true
		}
	}
	return false
}
