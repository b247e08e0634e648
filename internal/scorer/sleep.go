package scorer

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/longevity-snapshot-server/internal/domain"
)

// Sleep analyzes sleep patterns in more behavioral depth than the medical
// agent: it folds in stress and exercise as sleep modifiers and emits
// hygiene-focused recommendations.
type Sleep struct {
	logger *logrus.Logger
}

// NewSleep creates the sleep agent.
func NewSleep(logger *logrus.Logger) *Sleep {
	return &Sleep{logger: logger}
}

// Name implements domain.Scorer.
func (s *Sleep) Name() domain.AgentType {
	return domain.AgentSleep
}

type sleepAnalysis struct {
	duration     float64
	hasDuration  bool
	quality      string
	consistency  string
	issues       []string
	strengths    []string
	completeness domain.CompletenessLevel
}

// Analyze implements domain.Scorer.
func (s *Sleep) Analyze(profile *domain.HealthProfile) (*domain.AgentReport, error) {
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("sleep analysis: %w", err)
	}

	analysis := s.analyze(profile)

	report := &domain.AgentReport{
		Recommendations: s.recommendations(analysis),
		Insights:        s.insights(analysis),
		KeyFindings:     s.keyFindings(analysis),
		Confidence:      s.determineConfidence(analysis),
	}

	s.logger.WithFields(logrus.Fields{
		"agent":        string(s.Name()),
		"issues":       len(analysis.issues),
		"completeness": string(analysis.completeness),
		"confidence":   string(report.Confidence),
	}).Debug("Sleep analysis completed")

	return report, nil
}

func (s *Sleep) analyze(profile *domain.HealthProfile) *sleepAnalysis {
	analysis := &sleepAnalysis{completeness: domain.CompletenessPartial}

	if profile.Sleep == nil {
		analysis.completeness = domain.CompletenessMinimal
		return analysis
	}
	sleep := profile.Sleep

	requiredCount := 0
	if sleep.AverageDuration > 0 {
		requiredCount++
		analysis.hasDuration = true
		analysis.duration = sleep.AverageDuration

		switch {
		case sleep.AverageDuration < 6:
			analysis.issues = append(analysis.issues, "severe_sleep_deprivation")
		case sleep.AverageDuration < 7:
			analysis.issues = append(analysis.issues, "mild_sleep_deprivation")
		case sleep.AverageDuration > 9:
			analysis.issues = append(analysis.issues, "excessive_sleep")
		default:
			analysis.strengths = append(analysis.strengths, "optimal_sleep_duration")
		}
	}

	if sleep.Quality != "" {
		requiredCount++
		analysis.quality = sleep.Quality
		switch sleep.Quality {
		case "low", "poor":
			analysis.issues = append(analysis.issues, "poor_sleep_quality")
		case "high", "excellent":
			analysis.strengths = append(analysis.strengths, "high_sleep_quality")
		}
	}

	if sleep.BedtimeConsistency != "" {
		requiredCount++
		analysis.consistency = sleep.BedtimeConsistency
		switch sleep.BedtimeConsistency {
		case "low", "poor":
			analysis.issues = append(analysis.issues, "irregular_sleep_schedule")
		case "high", "excellent":
			analysis.strengths = append(analysis.strengths, "consistent_sleep_schedule")
		}
	}

	analysis.issues = append(analysis.issues, sleep.Issues...)

	optionalCount := 0
	if len(sleep.Issues) > 0 {
		optionalCount++
	}
	if profile.Preferences != nil && (profile.Preferences.SleepTime != "" || profile.Preferences.WakeTime != "") {
		optionalCount++
	}
	if profile.Stress != nil {
		optionalCount++
		if profile.Stress.Level >= 7 {
			analysis.issues = append(analysis.issues, "stress_related_sleep_issues")
		}
	}
	if profile.Exercise != nil {
		optionalCount++
		if profile.Exercise.StrengthSessions+profile.Exercise.CardioSessions >= 3 {
			analysis.strengths = append(analysis.strengths, "exercise_supported_sleep")
		} else {
			analysis.issues = append(analysis.issues, "insufficient_exercise_for_sleep")
		}
	}

	switch {
	case requiredCount == 3 && optionalCount >= 2:
		analysis.completeness = domain.CompletenessComplete
	case requiredCount >= 2 && optionalCount >= 1:
		analysis.completeness = domain.CompletenessSubstantial
	case requiredCount < 2:
		analysis.completeness = domain.CompletenessMinimal
	}

	return analysis
}

func (s *Sleep) recommendations(analysis *sleepAnalysis) []domain.Recommendation {
	if analysis.completeness == domain.CompletenessMinimal {
		return []domain.Recommendation{{
			Category:         "sleep",
			Action:           "track_sleep",
			Description:      "Start tracking your sleep duration, quality, and consistency for better insights",
			Priority:         domain.PriorityHigh,
			EvidenceCategory: domain.EvidenceExpertOpinion,
		}}
	}

	var recs []domain.Recommendation

	if analysis.hasDuration {
		switch {
		case analysis.duration < 6:
			recs = append(recs, domain.Recommendation{
				Category:         "sleep",
				Action:           "increase_sleep_duration",
				Description:      "Significantly increase sleep duration to at least 7 hours per night",
				Priority:         domain.PriorityHigh,
				EvidenceCategory: domain.EvidenceClinicalGuidelines,
			})
		case analysis.duration < 7:
			recs = append(recs, domain.Recommendation{
				Category:         "sleep",
				Action:           "increase_sleep_duration",
				Description:      "Slightly increase sleep duration to reach 7-8 hours per night",
				Priority:         domain.PriorityMedium,
				EvidenceCategory: domain.EvidenceClinicalGuidelines,
			})
		case analysis.duration > 9:
			recs = append(recs, domain.Recommendation{
				Category:         "sleep",
				Action:           "optimize_sleep_duration",
				Description:      "Consider reducing sleep duration to 7-9 hours for optimal rest",
				Priority:         domain.PriorityLow,
				EvidenceCategory: domain.EvidenceClinicalGuidelines,
			})
		}
	}

	if hasIssue(analysis.issues, "irregular_sleep_schedule") {
		recs = append(recs, domain.Recommendation{
			Category:         "sleep",
			Action:           "consistent_schedule",
			Description:      "Maintain a consistent sleep and wake time, even on weekends",
			Priority:         domain.PriorityHigh,
			EvidenceCategory: domain.EvidenceObservationalStudy,
		})
	}

	if hasIssue(analysis.issues, "poor_sleep_quality") {
		recs = append(recs,
			domain.Recommendation{
				Category:         "sleep",
				Action:           "improve_sleep_environment",
				Description:      "Optimize your bedroom for sleep: dark, quiet, cool, and comfortable",
				Priority:         domain.PriorityHigh,
				EvidenceCategory: domain.EvidenceExpertOpinion,
			},
			domain.Recommendation{
				Category:         "sleep",
				Action:           "bedtime_routine",
				Description:      "Establish a relaxing pre-sleep routine to signal your body it's time to rest",
				Priority:         domain.PriorityMedium,
				EvidenceCategory: domain.EvidenceExpertOpinion,
			})
	}

	if hasIssue(analysis.issues, "stress_related_sleep_issues") {
		recs = append(recs, domain.Recommendation{
			Category:         "sleep",
			Action:           "stress_management_for_sleep",
			Description:      "Practice relaxation techniques before bed such as deep breathing or meditation",
			Priority:         domain.PriorityHigh,
			EvidenceCategory: domain.EvidenceSystematicReview,
		})
	}

	if hasIssue(analysis.issues, "insufficient_exercise_for_sleep") {
		recs = append(recs, domain.Recommendation{
			Category:         "sleep",
			Action:           "exercise_for_sleep",
			Description:      "Incorporate regular physical activity, but avoid vigorous exercise close to bedtime",
			Priority:         domain.PriorityMedium,
			EvidenceCategory: domain.EvidenceSystematicReview,
		})
	}

	recs = append(recs,
		domain.Recommendation{
			Category:         "sleep",
			Action:           "limit_screen_time",
			Description:      "Avoid screens (phones, tablets, computers) at least 1 hour before bedtime",
			Priority:         domain.PriorityMedium,
			EvidenceCategory: domain.EvidenceObservationalStudy,
		},
		domain.Recommendation{
			Category:         "sleep",
			Action:           "limit_stimulants",
			Description:      "Avoid caffeine and alcohol close to bedtime",
			Priority:         domain.PriorityMedium,
			EvidenceCategory: domain.EvidenceObservationalStudy,
		})

	return recs
}

func (s *Sleep) insights(analysis *sleepAnalysis) []domain.Insight {
	var insights []domain.Insight

	sleepStatus := "optimal"
	if len(analysis.issues) > 2 {
		sleepStatus = "poor"
	} else if len(analysis.issues) > 0 {
		sleepStatus = "suboptimal"
	}
	patternConfidence := domain.ConfidenceHigh
	if analysis.completeness == domain.CompletenessPartial {
		patternConfidence = domain.ConfidenceMedium
	}
	insights = append(insights, domain.Insight{
		Type:             "sleep_pattern",
		Description:      fmt.Sprintf("Overall sleep pattern is %s", sleepStatus),
		Confidence:       patternConfidence,
		EvidenceCategory: domain.EvidenceExpertOpinion,
	})

	if analysis.hasDuration {
		durationCategory := "optimal"
		switch {
		case analysis.duration < 6:
			durationCategory = "severely insufficient"
		case analysis.duration < 7:
			durationCategory = "slightly insufficient"
		case analysis.duration > 9:
			durationCategory = "excessive"
		}
		insights = append(insights, domain.Insight{
			Type:             "sleep_duration",
			Description:      fmt.Sprintf("Average sleep duration of %s hours is %s", formatNumber(analysis.duration), durationCategory),
			Confidence:       domain.ConfidenceHigh,
			EvidenceCategory: domain.EvidenceClinicalGuidelines,
		})
	}

	if analysis.consistency != "" {
		insights = append(insights, domain.Insight{
			Type:             "sleep_consistency",
			Description:      fmt.Sprintf("Sleep schedule consistency is %s", analysis.consistency),
			Confidence:       domain.ConfidenceHigh,
			EvidenceCategory: domain.EvidenceObservationalStudy,
		})
	}

	if len(analysis.issues) > 0 {
		insights = append(insights, domain.Insight{
			Type:             "sleep_issues",
			Description:      fmt.Sprintf("Identified sleep issues: %s", strings.Join(analysis.issues, ", ")),
			Confidence:       domain.ConfidenceMedium,
			EvidenceCategory: domain.EvidenceExpertOpinion,
		})
	}

	if len(analysis.strengths) > 0 {
		insights = append(insights, domain.Insight{
			Type:             "sleep_strengths",
			Description:      fmt.Sprintf("Positive sleep aspects: %s", strings.Join(analysis.strengths, ", ")),
			Confidence:       domain.ConfidenceMedium,
			EvidenceCategory: domain.EvidenceExpertOpinion,
		})
	}

	return insights
}

func (s *Sleep) keyFindings(analysis *sleepAnalysis) []string {
	var findings []string

	if analysis.hasDuration {
		findings = append(findings, fmt.Sprintf("Average sleep duration: %s hours", formatNumber(analysis.duration)))
	}
	if analysis.quality != "" {
		findings = append(findings, fmt.Sprintf("Sleep quality: %s", analysis.quality))
	}
	if analysis.consistency != "" {
		findings = append(findings, fmt.Sprintf("Sleep schedule consistency: %s", analysis.consistency))
	}
	for _, issue := range analysis.issues {
		findings = append(findings, fmt.Sprintf("Sleep issue: %s", issue))
	}
	for _, strength := range analysis.strengths {
		findings = append(findings, fmt.Sprintf("Sleep strength: %s", strength))
	}
	findings = append(findings, fmt.Sprintf("Data completeness: %s", analysis.completeness))

	return findings
}

func (s *Sleep) determineConfidence(analysis *sleepAnalysis) domain.ConfidenceLevel {
	switch analysis.completeness {
	case domain.CompletenessComplete:
		return domain.ConfidenceHigh
	case domain.CompletenessSubstantial, domain.CompletenessPartial:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}

func hasIssue(issues []string, name string) bool {
	for _, i := range issues {
		if i == name {
			return true
		}
	}
	return false
}
