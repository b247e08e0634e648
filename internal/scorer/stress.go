package scorer

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/longevity-snapshot-server/internal/domain"
	"github.com/longevity-snapshot-server/internal/guidelines"
)

// Stressors that tend to persist and accumulate allostatic load.
var chronicStressors = map[string]struct{}{
	"financial":       {},
	"work":            {},
	"chronic_illness": {},
	"caregiving":      {},
}

// Coping mechanisms with demonstrated buffering effect.
var healthyCoping = map[string]struct{}{
	"meditation":     {},
	"exercise":       {},
	"social_support": {},
	"therapy":        {},
	"mindfulness":    {},
}

// Stress analyzes self-reported stress load and coping capacity. It is only
// invoked for high-stress profiles, so its recommendations focus on
// reduction rather than maintenance.
type Stress struct {
	logger *logrus.Logger
}

// NewStress creates the stress agent.
func NewStress(logger *logrus.Logger) *Stress {
	return &Stress{logger: logger}
}

// Name implements domain.Scorer.
func (s *Stress) Name() domain.AgentType {
	return domain.AgentStress
}

type stressAnalysis struct {
	level            int
	category         string
	sources          []string
	coping           []string
	hasChronic       bool
	hasHealthyCoping bool
	dataPoints       int
}

// Analyze implements domain.Scorer.
func (s *Stress) Analyze(profile *domain.HealthProfile) (*domain.AgentReport, error) {
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("stress analysis: %w", err)
	}
	if profile.Stress == nil {
		return nil, fmt.Errorf("stress analysis: no stress data: %w", domain.ErrInvalidProfile)
	}

	analysis := s.analyze(profile.Stress)

	report := &domain.AgentReport{
		Recommendations: s.recommendations(analysis),
		Insights:        s.insights(analysis),
		KeyFindings:     s.keyFindings(analysis),
		Confidence:      s.determineConfidence(analysis),
	}

	s.logger.WithFields(logrus.Fields{
		"agent":      string(s.Name()),
		"category":   analysis.category,
		"confidence": string(report.Confidence),
	}).Debug("Stress analysis completed")

	return report, nil
}

func (s *Stress) analyze(stress *domain.StressData) *stressAnalysis {
	analysis := &stressAnalysis{
		level:   stress.Level,
		sources: stress.Sources,
		coping:  stress.CopingMechanisms,
	}
	analysis.dataPoints = 1
	if len(stress.Sources) > 0 {
		analysis.dataPoints++
	}
	if len(stress.CopingMechanisms) > 0 {
		analysis.dataPoints++
	}

	if bucket, ok := guidelines.StressLevel().Lookup(float64(stress.Level)); ok {
		analysis.category = bucket.Name
	}

	for _, source := range stress.Sources {
		if _, ok := chronicStressors[source]; ok {
			analysis.hasChronic = true
			break
		}
	}
	for _, mechanism := range stress.CopingMechanisms {
		if _, ok := healthyCoping[mechanism]; ok {
			analysis.hasHealthyCoping = true
			break
		}
	}

	return analysis
}

func (s *Stress) recommendations(analysis *stressAnalysis) []domain.Recommendation {
	var recs []domain.Recommendation

	if analysis.category == "high" {
		recs = append(recs, domain.Recommendation{
			Category:    "stress_management",
			Action:      "stress_reduction",
			Description: "Implement evidence-based stress management techniques such as mindfulness meditation, deep breathing exercises, or professional counseling",
			Reasoning:   "High stress levels are associated with increased risk of cardiovascular disease, immune dysfunction, and mental health disorders",
			ImplementationSteps: []string{
				"Set aside 10-15 minutes daily for a relaxation practice",
				"Identify and schedule around your highest-stress periods",
				"Consider guided meditation apps or breathing exercises to start",
			},
			Priority:         domain.PriorityHigh,
			EvidenceCategory: domain.EvidenceSystematicReview,
		})
	}

	if analysis.hasChronic {
		recs = append(recs, domain.Recommendation{
			Category:    "stress_management",
			Action:      "address_chronic_stressors",
			Description: "Develop targeted strategies for the ongoing stressors in your life rather than only managing symptoms",
			Reasoning:   "Chronic stressors can lead to allostatic load and increased risk of stress-related disorders",
			ImplementationSteps: []string{
				"List your recurring stressors and rank them by controllability",
				"For controllable stressors, plan one concrete change per month",
				"For uncontrollable stressors, build a support structure (counseling, peer groups)",
			},
			Priority:         domain.PriorityHigh,
			EvidenceCategory: domain.EvidenceSystematicReview,
		})
	}

	if !analysis.hasHealthyCoping {
		recs = append(recs, domain.Recommendation{
			Category:    "stress_management",
			Action:      "build_coping_mechanisms",
			Description: "Establish at least one healthy coping practice such as meditation, exercise, or social support",
			Reasoning:   "Healthy stress coping mechanisms can buffer the negative effects of stress",
			ImplementationSteps: []string{
				"Pick one practice that fits your schedule and preferences",
				"Start with small, consistent sessions rather than occasional long ones",
				"Track how your stress level responds over several weeks",
			},
			Priority:         domain.PriorityMedium,
			EvidenceCategory: domain.EvidenceSystematicReview,
		})
	}

	if len(recs) == 0 {
		recs = append(recs, domain.Recommendation{
			Category:         "stress_management",
			Action:           "maintain_stress_practices",
			Description:      "Continue your current stress management practices and monitor for changes",
			Reasoning:        "Stable stress levels with healthy coping support long-term health outcomes",
			Priority:         domain.PriorityLow,
			EvidenceCategory: domain.EvidenceExpertOpinion,
		})
	}

	return recs
}

func (s *Stress) insights(analysis *stressAnalysis) []domain.Insight {
	var insights []domain.Insight

	var impact string
	switch {
	case analysis.level >= 7:
		impact = "significant negative"
	case analysis.level >= 4:
		impact = "moderate"
	default:
		impact = "minimal"
	}
	insights = append(insights, domain.Insight{
		Type:             "stress_impact",
		Description:      fmt.Sprintf("Stress appears to have a %s impact on health", impact),
		Confidence:       domain.ConfidenceMedium,
		EvidenceCategory: domain.EvidenceSystematicReview,
	})

	if analysis.hasChronic {
		insights = append(insights, domain.Insight{
			Type:             "chronic_stress",
			Description:      fmt.Sprintf("Chronic stressors identified: %s", strings.Join(analysis.sources, ", ")),
			Confidence:       domain.ConfidenceMedium,
			EvidenceCategory: domain.EvidenceSystematicReview,
		})
	}

	if analysis.hasHealthyCoping {
		insights = append(insights, domain.Insight{
			Type:             "stress_coping",
			Description:      "Healthy coping mechanisms in place, which can buffer negative effects of stress",
			Confidence:       domain.ConfidenceMedium,
			EvidenceCategory: domain.EvidenceSystematicReview,
		})
	} else if len(analysis.coping) > 0 {
		insights = append(insights, domain.Insight{
			Type:             "stress_coping",
			Description:      "Current coping mechanisms may not provide adequate stress buffering",
			Confidence:       domain.ConfidenceLow,
			EvidenceCategory: domain.EvidenceExpertOpinion,
		})
	}

	return insights
}

func (s *Stress) keyFindings(analysis *stressAnalysis) []string {
	findings := []string{
		fmt.Sprintf("Stress level: %d/10 (%s)", analysis.level, analysis.category),
	}
	if len(analysis.sources) > 0 {
		findings = append(findings, fmt.Sprintf("Stress sources: %s", strings.Join(analysis.sources, ", ")))
	}
	if len(analysis.coping) > 0 {
		findings = append(findings, fmt.Sprintf("Coping mechanisms: %s", strings.Join(analysis.coping, ", ")))
	}
	if analysis.hasChronic {
		findings = append(findings, "Chronic stressors present")
	}
	return findings
}

func (s *Stress) determineConfidence(analysis *stressAnalysis) domain.ConfidenceLevel {
	switch {
	case analysis.dataPoints >= 3:
		return domain.ConfidenceHigh
	case analysis.dataPoints >= 2:
		return domain.ConfidenceMedium
	default:
		return domain.ConfidenceLow
	}
}
