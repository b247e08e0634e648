// Package scorer contains the per-domain scoring agents. Each agent reads
// the slices of the health profile relevant to its domain, classifies them
// against the guideline tables, and emits a report with evidence-tagged
// findings. Agents are stateless and safe for concurrent use.
package scorer

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/longevity-snapshot-server/internal/domain"
	"github.com/longevity-snapshot-server/internal/guidelines"
	"github.com/longevity-snapshot-server/internal/safety"
)

// Medical is the broadest agent: it covers body composition, vitals, sleep,
// stress and activity at a clinical level, and owns the completeness, bias
// and usage-risk guardrails that gate overall confidence.
type Medical struct {
	logger *logrus.Logger
}

// NewMedical creates the medical reasoning agent.
func NewMedical(logger *logrus.Logger) *Medical {
	return &Medical{logger: logger}
}

// Name implements domain.Scorer.
func (m *Medical) Name() domain.AgentType {
	return domain.AgentMedicalReasoning
}

// medicalContext carries intermediate classification results between the
// analysis phase and report generation.
type medicalContext struct {
	completeness safety.Completeness
	bias         safety.BiasAssessment
	usageRisks   []safety.UsageRisk

	hasBMI      bool
	bmi         float64
	bmiCategory string

	sleepMetricCount int
	vo2Category      string
	bpCategory       string
}

// Analyze implements domain.Scorer.
func (m *Medical) Analyze(profile *domain.HealthProfile) (*domain.AgentReport, error) {
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("medical analysis: %w", err)
	}

	analysis := &domain.DomainAnalysis{Metrics: map[string]any{}}
	ctx := &medicalContext{completeness: safety.AssessCompleteness(profile)}

	if profile.HasBodyMeasurements() {
		m.analyzeBMI(profile, analysis, ctx)
	}
	if profile.Sleep != nil {
		m.analyzeSleep(profile, analysis, ctx)
	}
	if profile.Stress != nil {
		m.analyzeStress(profile, analysis)
	}
	if profile.Exercise != nil {
		m.analyzeActivity(profile, analysis)
	}
	if profile.HealthMetrics != nil && profile.HealthMetrics.VO2Max != nil {
		m.analyzeVO2Max(profile, analysis, ctx)
	}
	if profile.HealthMetrics != nil {
		m.analyzeVitals(profile, analysis, ctx)
	}

	ctx.bias = safety.AssessBiasRisks(profile)
	ctx.usageRisks = safety.AssessUsageRisks(profile)

	report := &domain.AgentReport{
		Analysis:        analysis,
		Recommendations: m.recommendations(profile, analysis, ctx),
		Insights:        m.insights(profile, analysis, ctx),
		KeyFindings:     m.keyFindings(profile, analysis, ctx),
		Confidence:      m.determineConfidence(ctx),
	}

	m.logger.WithFields(logrus.Fields{
		"agent":           string(m.Name()),
		"risks":           len(analysis.Risks),
		"strengths":       len(analysis.Strengths),
		"recommendations": len(report.Recommendations),
		"confidence":      string(report.Confidence),
	}).Debug("Medical analysis completed")

	return report, nil
}

func (m *Medical) analyzeBMI(profile *domain.HealthProfile, analysis *domain.DomainAnalysis, ctx *medicalContext) {
	bmi := profile.BMI()
	ctx.hasBMI = true
	ctx.bmi = bmi

	bucket, ok := guidelines.BMI().Lookup(bmi)
	if !ok {
		return
	}
	ctx.bmiCategory = bucket.Name
	analysis.Metrics["bmi"] = bmi

	descriptions := map[string]string{
		"underweight":   fmt.Sprintf("BMI of %.1f indicates underweight status, which may be associated with nutritional deficiencies and reduced immune function.", bmi),
		"normal":        fmt.Sprintf("BMI of %.1f is within the healthy weight range, associated with lower risk of weight-related health issues.", bmi),
		"overweight":    fmt.Sprintf("BMI of %.1f indicates overweight status, which may increase risk for conditions like type 2 diabetes and cardiovascular disease.", bmi),
		"obese_class_1": fmt.Sprintf("BMI of %.1f indicates class 1 obesity, associated with increased risk of cardiovascular disease, type 2 diabetes, and all-cause mortality.", bmi),
		"obese_class_2": fmt.Sprintf("BMI of %.1f indicates class 2 obesity, associated with high risk of metabolic syndrome, sleep apnea, and joint problems.", bmi),
		"obese_class_3": fmt.Sprintf("BMI of %.1f indicates class 3 obesity (severe), associated with very high risk of multiple comorbidities and reduced life expectancy.", bmi),
	}
	description := descriptions[bucket.Name]

	analysis.ClinicalReasoning = append(analysis.ClinicalReasoning, fmt.Sprintf(
		"User reports height of %s cm and weight of %s kg. BMI calculation yields %.1f. "+
			"According to clinical guidelines, this BMI falls in the '%s' category. %s "+
			"Confidence is high for BMI calculation, though BMI has limitations as it doesn't account for muscle mass, body composition, or fat distribution.",
		formatNumber(profile.HeightCM), formatNumber(profile.WeightKG), bmi, bucket.Name, description))

	if bucket.Name == "normal" {
		analysis.Strengths = append(analysis.Strengths, domain.RiskFactor{
			Type:        "healthy_weight",
			Description: "BMI within healthy range",
			Evidence:    bucket.Evidence,
		})
	} else {
		analysis.Risks = append(analysis.Risks, domain.RiskFactor{
			Type:        bucket.Name,
			Description: description,
			Evidence:    bucket.Evidence,
		})
		analysis.AddConcern("weight_management")
	}
}

func (m *Medical) analyzeSleep(profile *domain.HealthProfile, analysis *domain.DomainAnalysis, ctx *medicalContext) {
	sleep := profile.Sleep
	bands := guidelines.SleepDuration(profile.Age)
	sleepMetrics := map[string]any{}

	if sleep.AverageDuration > 0 {
		ctx.sleepMetricCount++
		duration := sleep.AverageDuration
		sleepMetrics["average_duration"] = duration

		switch {
		case bands.Recommended.Contains(duration):
			analysis.Strengths = append(analysis.Strengths, domain.RiskFactor{
				Type:        "optimal_sleep_duration",
				Description: fmt.Sprintf("Sleep duration of %s hours is within the optimal range for %ss.", formatNumber(duration), bands.AgeCategory),
				Evidence:    bands.Recommended.Evidence,
			})
			analysis.ClinicalReasoning = append(analysis.ClinicalReasoning, "Sleep duration is optimal.")
		case anyContains(bands.MayBeAppropriate, duration):
			analysis.ClinicalReasoning = append(analysis.ClinicalReasoning, "Sleep duration is acceptable but not optimal.")
		case duration < bands.Recommended.Lower:
			analysis.Risks = append(analysis.Risks, domain.RiskFactor{
				Type:        "insufficient_sleep",
				Description: "Insufficient sleep duration increases risk of cognitive impairment, mood disorders, cardiovascular disease, and metabolic dysfunction.",
				Evidence:    bands.Recommended.Evidence,
			})
			analysis.AddConcern("sleep")
		default:
			analysis.Risks = append(analysis.Risks, domain.RiskFactor{
				Type:        "excessive_sleep",
				Description: "Excessive sleep duration may be associated with increased mortality risk and could indicate underlying health conditions.",
				Evidence:    bands.Recommended.Evidence,
			})
			analysis.AddConcern("sleep")
		}
	}

	if sleep.Quality != "" {
		ctx.sleepMetricCount++
		sleepMetrics["quality"] = sleep.Quality
		switch sleep.Quality {
		case "low", "poor":
			analysis.Risks = append(analysis.Risks, domain.RiskFactor{
				Type:        "poor_sleep_quality",
				Description: "Poor sleep quality is associated with daytime fatigue, cognitive impairment, and increased stress reactivity.",
				Evidence:    domain.EvidenceSystematicReview,
			})
			analysis.AddConcern("sleep")
		case "high", "excellent":
			analysis.Strengths = append(analysis.Strengths, domain.RiskFactor{
				Type:        "good_sleep_quality",
				Description: "Good sleep quality supports cognitive function, emotional regulation, and physical recovery.",
				Evidence:    domain.EvidenceSystematicReview,
			})
		}
	}

	if sleep.BedtimeConsistency != "" {
		ctx.sleepMetricCount++
		sleepMetrics["bedtime_consistency"] = sleep.BedtimeConsistency
		switch sleep.BedtimeConsistency {
		case "low", "poor":
			analysis.Risks = append(analysis.Risks, domain.RiskFactor{
				Type:        "irregular_sleep_schedule",
				Description: "Irregular sleep schedule disrupts circadian rhythms and is associated with metabolic dysfunction and mood disorders.",
				Evidence:    domain.EvidenceObservationalStudy,
			})
			analysis.AddConcern("sleep")
		case "high", "excellent":
			analysis.Strengths = append(analysis.Strengths, domain.RiskFactor{
				Type:        "consistent_sleep_schedule",
				Description: "Consistent sleep schedule supports healthy circadian rhythms and optimal hormone regulation.",
				Evidence:    domain.EvidenceObservationalStudy,
			})
		}
	}

	analysis.Metrics["sleep"] = sleepMetrics
}

func (m *Medical) analyzeStress(profile *domain.HealthProfile, analysis *domain.DomainAnalysis) {
	stress := profile.Stress
	stressMetrics := map[string]any{"level": stress.Level}

	bucket, ok := guidelines.StressLevel().Lookup(float64(stress.Level))
	if !ok {
		return
	}

	switch bucket.Name {
	case "high":
		analysis.Risks = append(analysis.Risks, domain.RiskFactor{
			Type:        "high_stress",
			Description: "High stress levels are associated with increased risk of cardiovascular disease, immune dysfunction, and mental health disorders.",
			Evidence:    bucket.Evidence,
		})
		analysis.AddConcern("stress_management")
	case "low":
		analysis.Strengths = append(analysis.Strengths, domain.RiskFactor{
			Type:        "low_stress",
			Description: "Low stress levels support overall health and reduce risk of stress-related disorders.",
			Evidence:    bucket.Evidence,
		})
	}

	if len(stress.Sources) > 0 {
		stressMetrics["sources"] = stress.Sources
		chronic := map[string]struct{}{"financial": {}, "work": {}, "chronic_illness": {}, "caregiving": {}}
		hasChronic := false
		for _, s := range stress.Sources {
			if _, ok := chronic[s]; ok {
				hasChronic = true
				break
			}
		}
		if hasChronic && (bucket.Name == "moderate" || bucket.Name == "high") {
			analysis.Risks = append(analysis.Risks, domain.RiskFactor{
				Type:        "chronic_stress",
				Description: "Chronic stressors can lead to allostatic load and increased risk of stress-related disorders.",
				Evidence:    domain.EvidenceSystematicReview,
			})
			analysis.AddConcern("stress_management")
		}
	}

	if len(stress.CopingMechanisms) > 0 {
		stressMetrics["coping_mechanisms"] = stress.CopingMechanisms
		healthy := map[string]struct{}{"meditation": {}, "exercise": {}, "social_support": {}, "therapy": {}, "mindfulness": {}}
		for _, c := range stress.CopingMechanisms {
			if _, ok := healthy[c]; ok {
				analysis.Strengths = append(analysis.Strengths, domain.RiskFactor{
					Type:        "healthy_stress_coping",
					Description: "Healthy stress coping mechanisms can buffer the negative effects of stress.",
					Evidence:    domain.EvidenceSystematicReview,
				})
				break
			}
		}
	}

	analysis.Metrics["stress"] = stressMetrics
	analysis.ClinicalReasoning = append(analysis.ClinicalReasoning, fmt.Sprintf(
		"User reports stress level of %d on a scale of 1-10. Guideline categorizes this as %s stress.",
		stress.Level, bucket.Name))
}

func (m *Medical) analyzeActivity(profile *domain.HealthProfile, analysis *domain.DomainAnalysis) {
	exercise := profile.Exercise
	g := guidelines.ActivityGuidelines()

	weeklySessions := exercise.StrengthSessions + exercise.CardioSessions
	activityMetrics := map[string]any{
		"strength_training_sessions": exercise.StrengthSessions,
		"cardio_sessions":            exercise.CardioSessions,
		"total_weekly_sessions":      weeklySessions,
	}
	if exercise.Duration != nil {
		activityMetrics["estimated_weekly_minutes"] = weeklySessions * *exercise.Duration
	}

	switch {
	case weeklySessions < g.MinimumDays:
		analysis.Risks = append(analysis.Risks, domain.RiskFactor{
			Type:        "insufficient_physical_activity",
			Description: "Insufficient physical activity increases risk of cardiovascular disease, type 2 diabetes, and all-cause mortality.",
			Evidence:    g.Evidence,
		})
		analysis.AddConcern("physical_activity")
	case weeklySessions >= g.OptimalDays:
		analysis.Strengths = append(analysis.Strengths, domain.RiskFactor{
			Type:        "regular_physical_activity",
			Description: "Regular physical activity reduces risk of chronic diseases and supports overall health.",
			Evidence:    g.Evidence,
		})
	default:
		analysis.Strengths = append(analysis.Strengths, domain.RiskFactor{
			Type:        "moderate_physical_activity",
			Description: "Moderate physical activity provides health benefits, though increased frequency may offer additional benefits.",
			Evidence:    g.Evidence,
		})
	}

	switch {
	case exercise.StrengthSessions >= 2 && exercise.CardioSessions >= 2:
		analysis.Strengths = append(analysis.Strengths, domain.RiskFactor{
			Type:        "balanced_exercise_routine",
			Description: "Balanced exercise routine with both strength and cardiovascular components supports overall fitness.",
			Evidence:    g.Evidence,
		})
	case exercise.StrengthSessions < 2 && exercise.CardioSessions >= 2:
		analysis.Risks = append(analysis.Risks, domain.RiskFactor{
			Type:        "insufficient_strength_training",
			Description: "Insufficient strength training may lead to reduced muscle mass, bone density, and metabolic health.",
			Evidence:    g.Evidence,
		})
		analysis.AddConcern("physical_activity")
	case exercise.StrengthSessions >= 2 && exercise.CardioSessions < 2:
		analysis.Risks = append(analysis.Risks, domain.RiskFactor{
			Type:        "insufficient_cardiovascular_exercise",
			Description: "Insufficient cardiovascular exercise may lead to reduced cardiorespiratory fitness and increased cardiovascular risk.",
			Evidence:    g.Evidence,
		})
		analysis.AddConcern("physical_activity")
	}

	analysis.Metrics["physical_activity"] = activityMetrics
	analysis.ClinicalReasoning = append(analysis.ClinicalReasoning, fmt.Sprintf(
		"User reports %d total exercise sessions per week (%d strength, %d cardio). "+
			"Guidelines recommend a minimum of %d days of exercise per week, with %d minutes of moderate-intensity activity.",
		weeklySessions, exercise.StrengthSessions, exercise.CardioSessions, g.MinimumDays, g.ModerateWeeklyMinutes))
}

func (m *Medical) analyzeVO2Max(profile *domain.HealthProfile, analysis *domain.DomainAnalysis, ctx *medicalContext) {
	vo2 := *profile.HealthMetrics.VO2Max
	bucket, ok := guidelines.VO2Max(profile.Gender).Lookup(vo2)
	if !ok {
		return
	}
	ctx.vo2Category = bucket.Name
	analysis.Metrics["vo2_max"] = vo2

	descriptions := map[string]string{
		"poor":      fmt.Sprintf("VO2 max of %s ml/kg/min indicates poor cardiorespiratory fitness, associated with increased mortality risk.", formatNumber(vo2)),
		"fair":      fmt.Sprintf("VO2 max of %s ml/kg/min indicates fair cardiorespiratory fitness, with room for improvement.", formatNumber(vo2)),
		"good":      fmt.Sprintf("VO2 max of %s ml/kg/min indicates good cardiorespiratory fitness, associated with reduced health risks.", formatNumber(vo2)),
		"excellent": fmt.Sprintf("VO2 max of %s ml/kg/min indicates excellent cardiorespiratory fitness, associated with significant health benefits.", formatNumber(vo2)),
		"superior":  fmt.Sprintf("VO2 max of %s ml/kg/min indicates superior cardiorespiratory fitness, associated with optimal health outcomes.", formatNumber(vo2)),
	}
	description := descriptions[bucket.Name]

	switch bucket.Name {
	case "poor", "fair":
		analysis.Risks = append(analysis.Risks, domain.RiskFactor{
			Type:        "low_cardiorespiratory_fitness",
			Description: description,
			Evidence:    bucket.Evidence,
		})
		analysis.AddConcern("cardiorespiratory_fitness")
	default:
		analysis.Strengths = append(analysis.Strengths, domain.RiskFactor{
			Type:        "good_cardiorespiratory_fitness",
			Description: description,
			Evidence:    bucket.Evidence,
		})
	}

	analysis.ClinicalReasoning = append(analysis.ClinicalReasoning, fmt.Sprintf(
		"User reports VO2 max of %s ml/kg/min, which falls in the '%s' category. %s "+
			"VO2 max is a strong predictor of cardiovascular health and all-cause mortality. "+
			"Confidence is medium as this is likely a proxy measure rather than a direct laboratory assessment.",
		formatNumber(vo2), bucket.Name, description))
}

func (m *Medical) analyzeVitals(profile *domain.HealthProfile, analysis *domain.DomainAnalysis, ctx *medicalContext) {
	metrics := profile.HealthMetrics

	if metrics.BloodPressureSystolic != nil && metrics.BloodPressureDiastolic != nil {
		systolic := *metrics.BloodPressureSystolic
		diastolic := *metrics.BloodPressureDiastolic
		analysis.Metrics["blood_pressure"] = fmt.Sprintf("%d/%d mmHg", systolic, diastolic)

		if bucket, ok := guidelines.ClassifyBloodPressure(float64(systolic), float64(diastolic)); ok {
			ctx.bpCategory = bucket.Name
			if bucket.Name == "normal" {
				analysis.Strengths = append(analysis.Strengths, domain.RiskFactor{
					Type:        "normal_blood_pressure",
					Description: "Normal blood pressure is associated with reduced cardiovascular risk.",
					Evidence:    bucket.Evidence,
				})
			} else {
				analysis.Risks = append(analysis.Risks, domain.RiskFactor{
					Type:        bucket.Name,
					Description: fmt.Sprintf("Blood pressure in the %s range increases risk of cardiovascular disease.", strings.ReplaceAll(bucket.Name, "_", " ")),
					Evidence:    bucket.Evidence,
				})
				analysis.AddConcern(bucket.Name)
			}
			analysis.ClinicalReasoning = append(analysis.ClinicalReasoning, fmt.Sprintf(
				"User reports blood pressure of %d/%d mmHg. This falls in the '%s' category.",
				systolic, diastolic, strings.ReplaceAll(bucket.Name, "_", " ")))
		}
	}

	if metrics.HeartRate != nil {
		heartRate := *metrics.HeartRate
		analysis.Metrics["heart_rate"] = fmt.Sprintf("%d bpm", heartRate)

		if bucket, ok := guidelines.HeartRateResting().Lookup(float64(heartRate)); ok {
			if bucket.Name == "normal" {
				analysis.Strengths = append(analysis.Strengths, domain.RiskFactor{
					Type:        "normal_heart_rate",
					Description: "Normal resting heart rate indicates good cardiovascular function.",
					Evidence:    bucket.Evidence,
				})
			} else {
				analysis.Risks = append(analysis.Risks, domain.RiskFactor{
					Type:        bucket.Name,
					Description: fmt.Sprintf("Resting heart rate in the %s range may indicate underlying cardiovascular issues.", bucket.Name),
					Evidence:    bucket.Evidence,
				})
				analysis.AddConcern(bucket.Name)
			}
			analysis.ClinicalReasoning = append(analysis.ClinicalReasoning, fmt.Sprintf(
				"User reports resting heart rate of %d bpm. This falls in the '%s' category.",
				heartRate, bucket.Name))
		}
	}
}

func anyContains(buckets []guidelines.Bucket, value float64) bool {
	for _, b := range buckets {
		if b.Contains(value) {
			return true
		}
	}
	return false
}

// formatNumber renders a float without trailing zeros, matching how the
// values appear in user-facing findings ("7.5 hours", "42 ml/kg/min").
func formatNumber(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
