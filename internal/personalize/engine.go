package personalize

import (
	"fmt"
	"sort"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/longevity-snapshot-server/internal/domain"
)

// Factor is one profile attribute influencing how recommendations are
// personalized.
type Factor struct {
	Type   string `json:"type"`
	Value  string `json:"value"`
	Impact string `json:"impact"`
}

// Feasibility is the assessed implementability of one recommendation for
// this user.
type Feasibility struct {
	Score        float64  `json:"score"`
	Barriers     []string `json:"barriers,omitempty"`
	Facilitators []string `json:"facilitators,omitempty"`
}

// Ranked pairs a derived personalized recommendation with the assessment
// that produced its position.
type Ranked struct {
	Recommendation domain.Recommendation
	Original       domain.Recommendation
	Feasibility    Feasibility
	CombinedScore  float64
}

// Engine personalizes recommendations from the scoring agents.
type Engine struct {
	logger *logrus.Logger
	styles map[domain.MotivationDriver]Style
}

// NewEngine creates a personalization engine. It fails if the
// communication style table does not cover every known motivation driver.
func NewEngine(logger *logrus.Logger) (*Engine, error) {
	styles := motivationStyles()
	if err := validateStyles(styles); err != nil {
		return nil, err
	}
	return &Engine{logger: logger, styles: styles}, nil
}

// Name identifies the engine in agent contribution maps.
func (e *Engine) Name() domain.AgentType {
	return domain.AgentPersonalization
}

// Personalize re-ranks the given recommendations by combined priority and
// feasibility, and derives a new personalized recommendation from each.
// The originals are never modified.
func (e *Engine) Personalize(profile *domain.HealthProfile, recs []domain.Recommendation) (*domain.AgentReport, error) {
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("personalization: %w", err)
	}

	var goals []string
	if profile.Preferences != nil {
		goals = profile.Preferences.Goals
	}
	driver := InferDriver(goals)
	style := styleFor(e.styles, driver)
	factors := identifyFactors(profile)

	ranked := make([]Ranked, 0, len(recs))
	for _, rec := range recs {
		feasibility := e.assessFeasibility(rec, profile, driver)
		ranked = append(ranked, Ranked{
			Original:      rec,
			Feasibility:   feasibility,
			CombinedScore: rec.Priority.Weight()*0.6 + feasibility.Score*0.4,
		})
	}
	// Stable sort keeps input order for equal scores.
	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].CombinedScore > ranked[j].CombinedScore
	})

	personalized := make([]domain.Recommendation, 0, len(ranked))
	for i := range ranked {
		derived := e.derive(ranked[i].Original, ranked[i].Feasibility, style, driver, profile)
		ranked[i].Recommendation = derived
		personalized = append(personalized, derived)
	}

	confidence := e.determineConfidence(driver, factors, profile)

	report := &domain.AgentReport{
		Recommendations: personalized,
		Insights: []domain.Insight{{
			Type:             "personalization_approach",
			Description:      motivationDescription(driver),
			Confidence:       confidence,
			EvidenceCategory: domain.EvidenceExpertOpinion,
		}},
		KeyFindings: e.keyFindings(driver, factors, ranked),
		Confidence:  confidence,
	}

	e.logger.WithFields(logrus.Fields{
		"agent":      string(e.Name()),
		"driver":     string(driver),
		"factors":    len(factors),
		"confidence": string(report.Confidence),
	}).Debug("Personalization completed")

	return report, nil
}

// derive builds the new personalized recommendation from the original.
func (e *Engine) derive(rec domain.Recommendation, feasibility Feasibility, style Style, driver domain.MotivationDriver, profile *domain.HealthProfile) domain.Recommendation {
	return domain.Recommendation{
		Category:            rec.Category,
		Action:              personalizeAction(rec, profile),
		Description:         personalizeDescription(rec, style, profile),
		Reasoning:           alignmentMessage(rec.Category, driver),
		ImplementationSteps: implementationSteps(rec, feasibility, profile),
		EvidenceCategory:    rec.EvidenceCategory,
		Priority:            rec.Priority,
		SourceAgent:         string(domain.AgentPersonalization),
	}
}

func identifyFactors(profile *domain.HealthProfile) []Factor {
	var factors []Factor

	if profile.Preferences != nil {
		if profile.Preferences.Diet != "" {
			factors = append(factors, Factor{
				Type:   "dietary_preference",
				Value:  profile.Preferences.Diet,
				Impact: "nutrition_recommendations",
			})
		}
		if profile.Preferences.ExerciseTime != "" {
			factors = append(factors, Factor{
				Type:   "exercise_time_preference",
				Value:  profile.Preferences.ExerciseTime,
				Impact: "physical_activity_recommendations",
			})
		}
		if profile.Preferences.SleepTime != "" {
			factors = append(factors, Factor{
				Type:   "sleep_time_preference",
				Value:  profile.Preferences.SleepTime,
				Impact: "sleep_recommendations",
			})
		}
	}

	if profile.Age > 0 {
		ageGroup := "adult"
		if profile.Age >= 65 {
			ageGroup = "older_adult"
		}
		factors = append(factors, Factor{
			Type:   "age_group",
			Value:  ageGroup,
			Impact: "all_recommendations",
		})
	}

	if profile.Exercise != nil {
		weeklySessions := profile.Exercise.StrengthSessions + profile.Exercise.CardioSessions
		experience := "beginner"
		switch {
		case weeklySessions >= 5:
			experience = "advanced"
		case weeklySessions >= 3:
			experience = "intermediate"
		}
		factors = append(factors, Factor{
			Type:   "exercise_experience",
			Value:  experience,
			Impact: "physical_activity_recommendations",
		})
	}

	return factors
}

// assessFeasibility scores how implementable a recommendation is for this
// user. Deltas are additive and independent; the sum is clamped to [0,1].
func (e *Engine) assessFeasibility(rec domain.Recommendation, profile *domain.HealthProfile, driver domain.MotivationDriver) Feasibility {
	assessment := Feasibility{}
	score := 0.5

	switch rec.Category {
	case "sleep":
		if sleep := profile.Sleep; sleep != nil {
			switch {
			case sleep.AverageDuration >= 6.5:
				score += 0.2
				assessment.Facilitators = append(assessment.Facilitators, "Already close to recommended sleep duration")
			case sleep.AverageDuration > 0 && sleep.AverageDuration < 5.5:
				score -= 0.1
				assessment.Barriers = append(assessment.Barriers, "Currently far from recommended sleep duration")
			}
			switch sleep.BedtimeConsistency {
			case "high", "excellent":
				score += 0.1
				assessment.Facilitators = append(assessment.Facilitators, "Already has consistent sleep schedule")
			case "low", "poor":
				score -= 0.1
				assessment.Barriers = append(assessment.Barriers, "Irregular sleep schedule may make implementation challenging")
			}
		}
		if profile.Preferences != nil && profile.Preferences.SleepTime != "" {
			score += 0.1
			assessment.Facilitators = append(assessment.Facilitators, "Has established sleep time preference")
		}

	case "physical_activity":
		if exercise := profile.Exercise; exercise != nil {
			weeklySessions := exercise.StrengthSessions + exercise.CardioSessions
			switch {
			case weeklySessions >= 2:
				score += 0.2
				assessment.Facilitators = append(assessment.Facilitators, "Already somewhat active, easier to increase")
			case weeklySessions == 0:
				score -= 0.2
				assessment.Barriers = append(assessment.Barriers, "Currently inactive, may face initial resistance")
			}
			switch strings.ToLower(exercise.Intensity) {
			case "medium", "high":
				score += 0.1
				assessment.Facilitators = append(assessment.Facilitators, "Comfortable with moderate intensity exercise")
			}
		}
		if profile.Preferences != nil && profile.Preferences.ExerciseTime != "" {
			score += 0.1
			assessment.Facilitators = append(assessment.Facilitators, "Has established exercise time preference")
		}

	case "stress_management":
		if stress := profile.Stress; stress != nil {
			if len(stress.CopingMechanisms) > 0 {
				score += 0.2
				assessment.Facilitators = append(assessment.Facilitators, "Already uses some stress management techniques")
			}
			if stress.Level >= 8 {
				// Urgency and difficulty cut both ways.
				score -= 0.1
				assessment.Barriers = append(assessment.Barriers, "Very high stress levels may make new habits challenging")
				assessment.Facilitators = append(assessment.Facilitators, "High stress creates urgency for change")
			}
		}

	case "nutrition":
		if profile.Nutrition != nil {
			score += 0.1
			assessment.Facilitators = append(assessment.Facilitators, "Already tracks nutrition data")
		}
		if profile.Preferences != nil && profile.Preferences.Diet != "" {
			score += 0.1
			assessment.Facilitators = append(assessment.Facilitators, "Has established dietary preferences")
		}
	}

	if rec.Priority == domain.PriorityHigh {
		score += 0.1
	}

	score += alignmentDelta(rec.Category, driver)

	if score < 0 {
		score = 0
	}
	if score > 1 {
		score = 1
	}
	assessment.Score = score
	return assessment
}

// alignmentDelta is the feasibility adjustment from the category-driver
// alignment table: +0.2 strong, +0.1 moderate, 0 neutral.
func alignmentDelta(category string, driver domain.MotivationDriver) float64 {
	strong := map[domain.MotivationDriver][]string{
		domain.DriverHealthScare: {"cardiovascular_health", "weight_management", "preventive_care"},
		domain.DriverLongevity:   {"physical_activity", "nutrition", "sleep", "stress_management"},
		domain.DriverPerformance: {"physical_activity", "cardiorespiratory_fitness"},
		domain.DriverAppearance:  {"weight_management", "physical_activity"},
		domain.DriverEnergy:      {"sleep", "stress_management", "nutrition"},
		domain.DriverCognitive:   {"sleep", "physical_activity", "stress_management", "nutrition"},
		domain.DriverMood:        {"stress_management", "sleep", "physical_activity", "nutrition"},
		domain.DriverSocial:      {"social_connections", "community_engagement"},
	}
	moderate := map[domain.MotivationDriver][]string{
		domain.DriverHealthScare: {"stress_management", "sleep"},
		domain.DriverLongevity:   {"preventive_care", "cardiovascular_health"},
		domain.DriverPerformance: {"nutrition", "sleep", "recovery"},
		domain.DriverAppearance:  {"nutrition", "sleep"},
		domain.DriverEnergy:      {"physical_activity", "recovery"},
		domain.DriverCognitive:   {"cognitive_training"},
		domain.DriverMood:        {"mindfulness", "relaxation"},
		domain.DriverSocial:      {"physical_activity", "group_fitness"},
	}

	for _, c := range strong[driver] {
		if c == category {
			return 0.2
		}
	}
	for _, c := range moderate[driver] {
		if c == category {
			return 0.1
		}
	}
	return 0.0
}

func (e *Engine) keyFindings(driver domain.MotivationDriver, factors []Factor, ranked []Ranked) []string {
	findings := []string{
		fmt.Sprintf("Primary motivation driver: %s", driverTitle(driver)),
	}

	if len(factors) > 0 {
		seen := map[string]struct{}{}
		var types []string
		for _, factor := range factors {
			if _, ok := seen[factor.Type]; !ok {
				seen[factor.Type] = struct{}{}
				types = append(types, factor.Type)
			}
		}
		findings = append(findings, fmt.Sprintf("Personalization based on: %s", strings.Join(types, ", ")))
	}

	if len(ranked) > 0 {
		total := 0.0
		for _, item := range ranked {
			total += item.Feasibility.Score
		}
		avg := total / float64(len(ranked))
		if avg > 0.7 {
			findings = append(findings, "High implementation readiness for recommendations")
		} else if avg < 0.4 {
			findings = append(findings, "Additional support needed for implementation")
		}
		findings = append(findings, fmt.Sprintf("Top priority recommendation: %s", ranked[0].Original.Action))
	}

	return findings
}

func (e *Engine) determineConfidence(driver domain.MotivationDriver, factors []Factor, profile *domain.HealthProfile) domain.ConfidenceLevel {
	if driver == domain.DriverUnknown {
		return domain.ConfidenceLow
	}
	if len(factors) == 0 {
		return domain.ConfidenceLow
	}

	completeness := 0
	if profile.Preferences != nil {
		completeness++
	}
	if profile.Exercise != nil {
		completeness++
	}
	if profile.Sleep != nil {
		completeness++
	}
	if profile.Stress != nil {
		completeness++
	}
	if profile.Nutrition != nil {
		completeness++
	}

	switch {
	case completeness >= 4:
		return domain.ConfidenceHigh
	case completeness <= 1:
		return domain.ConfidenceLow
	default:
		return domain.ConfidenceMedium
	}
}

// driverTitle renders a driver as a human-readable title, e.g.
// health_scare becomes "Health Scare".
func driverTitle(driver domain.MotivationDriver) string {
	words := strings.Split(string(driver), "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}
