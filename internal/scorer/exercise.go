package scorer

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/longevity-snapshot-server/internal/domain"
)

// Weekly exercise targets associated with longevity outcomes.
const (
	cardioMinutesMin     = 150
	cardioMinutesOptimal = 225
	strengthSessionsMin  = 2
	strengthSessionsOpt  = 3

	// Assumed session length when the profile omits duration.
	defaultSessionMinutes = 30
)

// Benefits by activity type, used to summarize what a routine covers.
var exerciseBenefits = map[string][]string{
	"walking":           {"accessibility", "joint-friendly", "cardiovascular", "metabolic"},
	"running":           {"cardiovascular", "bone density", "metabolic", "efficiency"},
	"cycling":           {"joint-friendly", "cardiovascular", "metabolic", "lower body"},
	"swimming":          {"joint-friendly", "full-body", "cardiovascular", "low-impact"},
	"strength_training": {"muscle maintenance", "bone density", "metabolic", "functional"},
	"yoga":              {"flexibility", "balance", "stress reduction", "mindfulness"},
	"hiit":              {"time-efficiency", "metabolic", "cardiovascular", "adaptability"},
	"pilates":           {"core strength", "posture", "balance", "low-impact"},
}

// Exercise analyzes weekly physical activity volume, balance and variety
// against longevity-oriented exercise targets.
type Exercise struct {
	logger *logrus.Logger
}

// NewExercise creates the exercise agent.
func NewExercise(logger *logrus.Logger) *Exercise {
	return &Exercise{logger: logger}
}

// Name implements domain.Scorer.
func (e *Exercise) Name() domain.AgentType {
	return domain.AgentExercise
}

type exerciseAnalysis struct {
	activityLevel    string
	weeklySessions   int
	estimatedMinutes int
	strengthSessions int
	cardioSessions   int
	balance          string
	types            []string

	strengths    []string
	improvements []string
	alignment    string

	needsCardio    bool
	needsStrength  bool
	needsVariety   bool
	needsIntensity bool
	needsStart     bool
}

// Analyze implements domain.Scorer.
func (e *Exercise) Analyze(profile *domain.HealthProfile) (*domain.AgentReport, error) {
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("exercise analysis: %w", err)
	}

	analysis := e.analyze(profile)

	report := &domain.AgentReport{
		Recommendations: e.recommendations(analysis),
		Insights:        e.insights(analysis),
		KeyFindings:     e.keyFindings(analysis),
		Confidence:      e.determineConfidence(analysis),
	}

	e.logger.WithFields(logrus.Fields{
		"agent":          string(e.Name()),
		"activity_level": analysis.activityLevel,
		"balance":        analysis.balance,
		"confidence":     string(report.Confidence),
	}).Debug("Exercise analysis completed")

	return report, nil
}

func (e *Exercise) analyze(profile *domain.HealthProfile) *exerciseAnalysis {
	analysis := &exerciseAnalysis{}

	exercise := profile.Exercise
	if exercise == nil {
		analysis.activityLevel = "Unknown"
		analysis.needsStart = true
		analysis.improvements = append(analysis.improvements, "Begin with light activity and gradually build exercise habits")
		analysis.alignment = alignmentFromCounts(analysis.strengths, analysis.improvements)
		return analysis
	}

	analysis.strengthSessions = exercise.StrengthSessions
	analysis.cardioSessions = exercise.CardioSessions
	analysis.weeklySessions = exercise.StrengthSessions + exercise.CardioSessions

	duration := defaultSessionMinutes
	if exercise.Duration != nil {
		duration = *exercise.Duration
	}
	analysis.estimatedMinutes = analysis.weeklySessions * duration

	switch {
	case analysis.estimatedMinutes >= cardioMinutesOptimal:
		analysis.activityLevel = "High"
	case analysis.estimatedMinutes >= cardioMinutesMin:
		analysis.activityLevel = "Moderate"
	case analysis.estimatedMinutes > 0:
		analysis.activityLevel = "Low"
	default:
		analysis.activityLevel = "Sedentary"
	}

	switch {
	case exercise.CardioSessions > 0 && exercise.StrengthSessions > 0:
		analysis.balance = "Balanced"
	case exercise.CardioSessions > 0:
		analysis.balance = "Cardio-dominant"
	case exercise.StrengthSessions > 0:
		analysis.balance = "Strength-dominant"
	default:
		analysis.balance = "Insufficient data"
	}

	analysis.types = exercise.Types

	switch {
	case analysis.estimatedMinutes >= cardioMinutesOptimal:
		analysis.strengths = append(analysis.strengths, "Optimal cardio volume for longevity benefits")
	case analysis.estimatedMinutes >= cardioMinutesMin:
		analysis.strengths = append(analysis.strengths, "Adequate cardio volume")
	default:
		analysis.improvements = append(analysis.improvements, "Increase cardio volume to at least 150 minutes weekly")
		analysis.needsCardio = true
	}

	switch {
	case exercise.StrengthSessions >= strengthSessionsOpt:
		analysis.strengths = append(analysis.strengths, "Optimal strength training frequency for muscle maintenance and longevity")
	case exercise.StrengthSessions >= strengthSessionsMin:
		analysis.strengths = append(analysis.strengths, "Adequate strength training frequency")
	default:
		analysis.improvements = append(analysis.improvements, "Include at least 2 strength training sessions weekly")
		analysis.needsStrength = true
	}

	switch analysis.balance {
	case "Balanced":
		analysis.strengths = append(analysis.strengths, "Well-balanced exercise routine including both cardio and strength")
	case "Cardio-dominant":
		analysis.improvements = append(analysis.improvements, "Add strength training for muscle preservation and metabolic health")
	case "Strength-dominant":
		analysis.improvements = append(analysis.improvements, "Add cardio for cardiovascular and metabolic benefits")
	}

	if len(analysis.types) >= 3 {
		analysis.strengths = append(analysis.strengths, "Good exercise variety supporting multiple fitness domains")
	} else if len(analysis.types) > 0 {
		analysis.improvements = append(analysis.improvements, "Increase exercise variety to support multiple fitness domains")
		analysis.needsVariety = true
	}

	if exercise.Intensity != "" {
		lower := strings.ToLower(exercise.Intensity)
		if lower == "medium" || lower == "high" {
			analysis.strengths = append(analysis.strengths, fmt.Sprintf("%s intensity supporting fitness adaptations", capitalize(exercise.Intensity)))
		} else {
			analysis.improvements = append(analysis.improvements, "Gradually incorporate some moderate-intensity exercise")
			analysis.needsIntensity = true
		}
	}

	analysis.alignment = alignmentFromCounts(analysis.strengths, analysis.improvements)
	return analysis
}

func alignmentFromCounts(strengths, improvements []string) string {
	switch {
	case len(strengths) > len(improvements):
		return "Strong"
	case len(strengths) == len(improvements):
		return "Moderate"
	default:
		return "Needs improvement"
	}
}

func (e *Exercise) recommendations(analysis *exerciseAnalysis) []domain.Recommendation {
	var recs []domain.Recommendation

	if analysis.needsCardio {
		recs = append(recs, domain.Recommendation{
			Category:    "physical_activity",
			Action:      "increase_cardio_volume",
			Description: "Gradually increase cardiovascular exercise to at least 150 minutes of moderate-intensity activity weekly",
			Reasoning:   "Regular cardiovascular exercise is strongly associated with reduced all-cause mortality and extended healthspan in longitudinal studies",
			ImplementationSteps: []string{
				"Start with 10-minute sessions if currently inactive",
				"Gradually increase duration by 10% each week",
				"Choose activities you enjoy for better adherence",
				"Break up sessions throughout the week (e.g., 5 x 30 minutes)",
			},
			Priority:         domain.PriorityHigh,
			EvidenceCategory: domain.EvidenceClinicalGuidelines,
		})
	}

	if analysis.needsStrength {
		recs = append(recs, domain.Recommendation{
			Category:    "physical_activity",
			Action:      "incorporate_strength_training",
			Description: "Include at least 2 strength training sessions weekly targeting major muscle groups",
			Reasoning:   "Resistance training preserves muscle mass and function with aging, supports metabolic health, and is associated with reduced mortality risk independent of aerobic exercise",
			ImplementationSteps: []string{
				"Start with bodyweight exercises if new to strength training",
				"Focus on compound movements (squats, push-ups, rows)",
				"Aim for 2-3 sets of 8-12 repetitions per exercise",
				"Allow 48 hours between sessions for the same muscle group",
			},
			Priority:         domain.PriorityHigh,
			EvidenceCategory: domain.EvidenceSystematicReview,
		})
	}

	if analysis.needsVariety {
		recs = append(recs, domain.Recommendation{
			Category:    "physical_activity",
			Action:      "increase_exercise_variety",
			Description: "Incorporate a wider variety of movement patterns to support multiple fitness domains",
			Reasoning:   "Exercise variety supports comprehensive fitness development, reduces injury risk, and enhances adherence through reduced monotony",
			ImplementationSteps: []string{
				"Include at least one activity focused on cardiovascular fitness",
				"Include at least one activity focused on strength development",
				"Add activities that enhance flexibility and balance",
				"Consider both weight-bearing and non-weight-bearing options",
			},
			Priority:         domain.PriorityMedium,
			EvidenceCategory: domain.EvidenceExpertOpinion,
		})
	}

	if analysis.needsIntensity {
		recs = append(recs, domain.Recommendation{
			Category:    "physical_activity",
			Action:      "incorporate_moderate_intensity",
			Description: "Gradually introduce moderate-intensity exercise periods within your current activity",
			Reasoning:   "Moderate-intensity exercise provides substantial health benefits with minimal injury risk, while supporting cardiovascular and metabolic adaptations",
			ImplementationSteps: []string{
				"Start with brief intervals (30-60 seconds) of increased effort",
				"Use the talk test (able to talk but not sing) to gauge moderate intensity",
				"Gradually increase the duration of moderate-intensity periods",
				"Consider structured interval training as fitness improves",
			},
			Priority:         domain.PriorityMedium,
			EvidenceCategory: domain.EvidenceRandomizedTrial,
		})
	}

	if analysis.needsStart {
		recs = append(recs, domain.Recommendation{
			Category:    "physical_activity",
			Action:      "start_exercise_habit",
			Description: "Begin a progressive physical activity program starting with light, enjoyable activities",
			Reasoning:   "Even small amounts of physical activity provide health benefits, with the dose-response curve being steepest at the lower end of activity levels",
			ImplementationSteps: []string{
				"Start with daily walking, gradually increasing from 5 to 30 minutes",
				"Focus on consistency rather than intensity initially",
				"Choose activities you genuinely enjoy to build sustainable habits",
				"Consider tracking steps with a goal of eventually reaching 7,000-10,000 daily",
			},
			Priority:         domain.PriorityHigh,
			EvidenceCategory: domain.EvidenceClinicalGuidelines,
		})
	}

	if len(recs) < 2 {
		recs = append(recs, domain.Recommendation{
			Category:    "physical_activity",
			Action:      "optimize_longevity_exercise",
			Description: "Optimize your exercise routine for longevity benefits",
			Reasoning:   "Specific exercise patterns are consistently associated with extended healthspan and reduced mortality risk in longitudinal studies",
			ImplementationSteps: []string{
				"Maintain 150-300 minutes of moderate cardiovascular activity weekly",
				"Include 2-3 strength training sessions weekly targeting major muscle groups",
				"Add flexibility and balance work, especially important with advancing age",
				"Break up sedentary time with movement breaks throughout the day",
			},
			Priority:         domain.PriorityHigh,
			EvidenceCategory: domain.EvidenceSystematicReview,
		})
	}

	return recs
}

func (e *Exercise) insights(analysis *exerciseAnalysis) []domain.Insight {
	var insights []domain.Insight

	if analysis.activityLevel != "" {
		insights = append(insights, domain.Insight{
			Type:             "activity_level",
			Description:      activityLevelDescription(analysis.activityLevel),
			Confidence:       domain.ConfidenceMedium,
			EvidenceCategory: domain.EvidenceClinicalGuidelines,
		})
	}

	if analysis.balance != "" && analysis.balance != "Insufficient data" {
		insights = append(insights, domain.Insight{
			Type:             "exercise_balance",
			Description:      exerciseBalanceDescription(analysis.balance),
			Confidence:       domain.ConfidenceMedium,
			EvidenceCategory: domain.EvidenceExpertOpinion,
		})
	}

	if len(analysis.types) > 0 {
		seen := map[string]struct{}{}
		var benefits []string
		for _, t := range analysis.types {
			for _, b := range exerciseBenefits[strings.ToLower(t)] {
				if _, ok := seen[b]; !ok {
					seen[b] = struct{}{}
					benefits = append(benefits, b)
				}
			}
		}
		if len(benefits) > 0 {
			sort.Strings(benefits)
			insights = append(insights, domain.Insight{
				Type:             "exercise_benefits",
				Description:      fmt.Sprintf("Your current activities provide benefits for: %s", strings.Join(benefits, ", ")),
				Confidence:       domain.ConfidenceMedium,
				EvidenceCategory: domain.EvidenceExpertOpinion,
			})
		}
	}

	if analysis.alignment != "" {
		insights = append(insights, domain.Insight{
			Type:             "longevity_alignment",
			Description:      longevityAlignmentDescription(analysis.alignment, "physical activity foundation", "exercise"),
			Confidence:       domain.ConfidenceMedium,
			EvidenceCategory: domain.EvidenceObservationalStudy,
		})
	}

	return insights
}

func activityLevelDescription(level string) string {
	descriptions := map[string]string{
		"High":      "Your current activity level exceeds general exercise guidelines, providing substantial health benefits. Research shows that this level of activity is associated with significant reductions in all-cause mortality and extended healthspan.",
		"Moderate":  "Your current activity level meets general exercise guidelines, providing important health benefits. This level of activity is associated with reduced risk of chronic disease and improved longevity outcomes.",
		"Low":       "Your current activity level provides some health benefits but falls below general exercise guidelines. Gradually increasing your activity could provide substantial additional benefits for longevity and healthspan.",
		"Sedentary": "Your current activity level is primarily sedentary, which research associates with increased health risks. Even small increases in physical activity can provide meaningful benefits, with the greatest relative gains coming from moving from sedentary to light activity.",
	}
	if d, ok := descriptions[level]; ok {
		return d
	}
	return "Your activity level has been analyzed based on your reported exercise patterns."
}

func exerciseBalanceDescription(balance string) string {
	descriptions := map[string]string{
		"Balanced":          "Your exercise routine includes both cardiovascular and strength components, creating a well-rounded approach that supports multiple aspects of fitness and longevity. This balanced approach is optimal for healthy aging.",
		"Cardio-dominant":   "Your exercise routine emphasizes cardiovascular activities, which provide excellent benefits for heart health, metabolic function, and endurance. Adding strength training would create a more balanced approach to support muscle maintenance and bone health with aging.",
		"Strength-dominant": "Your exercise routine emphasizes strength training, which provides excellent benefits for muscle maintenance, bone health, and metabolic function. Adding cardiovascular activities would create a more balanced approach to support heart health and endurance.",
	}
	if d, ok := descriptions[balance]; ok {
		return d
	}
	return "Your exercise balance has been analyzed based on your reported activities."
}

func (e *Exercise) keyFindings(analysis *exerciseAnalysis) []string {
	var findings []string

	if analysis.activityLevel != "" {
		findings = append(findings, fmt.Sprintf("Activity level: %s", analysis.activityLevel))
	}
	if analysis.weeklySessions > 0 || analysis.estimatedMinutes > 0 {
		findings = append(findings, fmt.Sprintf("Weekly exercise: %d sessions, ~%d minutes", analysis.weeklySessions, analysis.estimatedMinutes))
	}
	if analysis.balance != "" && analysis.balance != "Insufficient data" {
		findings = append(findings, fmt.Sprintf("Exercise balance: %s", analysis.balance))
	}
	if analysis.strengthSessions > 0 {
		switch {
		case analysis.strengthSessions >= strengthSessionsOpt:
			findings = append(findings, fmt.Sprintf("Optimal strength training: %d sessions/week", analysis.strengthSessions))
		case analysis.strengthSessions >= strengthSessionsMin:
			findings = append(findings, fmt.Sprintf("Adequate strength training: %d sessions/week", analysis.strengthSessions))
		default:
			findings = append(findings, fmt.Sprintf("Suboptimal strength training: %d sessions/week", analysis.strengthSessions))
		}
	}
	if analysis.estimatedMinutes > 0 {
		switch {
		case analysis.estimatedMinutes >= cardioMinutesOptimal:
			findings = append(findings, fmt.Sprintf("Optimal cardio volume: ~%d minutes/week", analysis.estimatedMinutes))
		case analysis.estimatedMinutes >= cardioMinutesMin:
			findings = append(findings, fmt.Sprintf("Adequate cardio volume: ~%d minutes/week", analysis.estimatedMinutes))
		default:
			findings = append(findings, fmt.Sprintf("Suboptimal cardio volume: ~%d minutes/week", analysis.estimatedMinutes))
		}
	}
	if analysis.alignment != "" {
		findings = append(findings, fmt.Sprintf("Longevity exercise alignment: %s", analysis.alignment))
	}

	return findings
}

func (e *Exercise) determineConfidence(analysis *exerciseAnalysis) domain.ConfidenceLevel {
	hasDetailedData := analysis.activityLevel != "Unknown"
	hasTypes := len(analysis.types) > 0

	switch {
	case hasDetailedData && hasTypes:
		return domain.ConfidenceHigh
	case !hasDetailedData && !hasTypes:
		return domain.ConfidenceLow
	default:
		return domain.ConfidenceMedium
	}
}

func capitalize(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
