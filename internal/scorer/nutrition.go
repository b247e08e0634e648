package scorer

import (
	"fmt"
	"math"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/longevity-snapshot-server/internal/domain"
)

// Nutrient targets associated with longevity outcomes.
const (
	proteinMinPerKG     = 0.8
	proteinOptimalPerKG = 1.2
	fiberMinGrams       = 25.0
	fiberOptimalGrams   = 30.0

	// Fallback body weight when the profile omits it.
	defaultWeightKG = 70.0
)

// Dietary patterns with established longevity evidence.
var longevityDietaryPatterns = map[string]struct{}{
	"Mediterranean":      {},
	"DASH":               {},
	"Plant-forward":      {},
	"Blue Zone inspired": {},
	"MIND":               {},
}

// Nutrition analyzes dietary intake against longevity-oriented nutrient
// targets and dietary patterns.
type Nutrition struct {
	logger *logrus.Logger
	// weightUnit is "kg" or "lb". Upstream clients disagreed on the unit of
	// the weight field; the lb setting divides by 2.2 before computing
	// protein per kilogram.
	weightUnit string
}

// NewNutrition creates the nutrition agent.
func NewNutrition(logger *logrus.Logger, weightUnit string) *Nutrition {
	return &Nutrition{logger: logger, weightUnit: weightUnit}
}

// Name implements domain.Scorer.
func (n *Nutrition) Name() domain.AgentType {
	return domain.AgentNutrition
}

type nutritionAnalysis struct {
	hasMacros    bool
	proteinPct   float64
	carbsPct     float64
	fatPct       float64
	proteinPerKG float64
	fiberGrams   float64

	dietaryPattern   string
	longevityAligned bool

	strengths    []string
	improvements []string
	alignment    string
}

// Analyze implements domain.Scorer.
func (n *Nutrition) Analyze(profile *domain.HealthProfile) (*domain.AgentReport, error) {
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("nutrition analysis: %w", err)
	}

	analysis := n.analyze(profile)

	report := &domain.AgentReport{
		Recommendations: n.recommendations(analysis),
		Insights:        n.insights(analysis),
		KeyFindings:     n.keyFindings(analysis),
		Confidence:      n.determineConfidence(analysis),
	}

	n.logger.WithFields(logrus.Fields{
		"agent":      string(n.Name()),
		"pattern":    analysis.dietaryPattern,
		"alignment":  analysis.alignment,
		"confidence": string(report.Confidence),
	}).Debug("Nutrition analysis completed")

	return report, nil
}

func (n *Nutrition) analyze(profile *domain.HealthProfile) *nutritionAnalysis {
	analysis := &nutritionAnalysis{}

	nutrition := profile.Nutrition
	if nutrition != nil && nutrition.Calories > 0 {
		totalCalories := float64(nutrition.Calories)
		analysis.hasMacros = true
		analysis.proteinPct = roundTo1(nutrition.Protein * 4 / totalCalories * 100)
		analysis.carbsPct = roundTo1(nutrition.Carbs * 4 / totalCalories * 100)
		analysis.fatPct = roundTo1(nutrition.Fat * 9 / totalCalories * 100)

		weightKG := profile.WeightKG
		if weightKG <= 0 {
			weightKG = defaultWeightKG
		}
		if n.weightUnit == "lb" {
			weightKG /= 2.2
		}
		analysis.proteinPerKG = roundTo1(nutrition.Protein / weightKG)

		if nutrition.Fiber != nil {
			analysis.fiberGrams = *nutrition.Fiber
		}

		switch {
		case analysis.proteinPerKG >= proteinOptimalPerKG:
			analysis.strengths = append(analysis.strengths, "Optimal protein intake for muscle maintenance and longevity")
		case analysis.proteinPerKG >= proteinMinPerKG:
			analysis.strengths = append(analysis.strengths, "Adequate protein intake")
		default:
			analysis.improvements = append(analysis.improvements, "Increase protein intake for optimal muscle maintenance")
		}

		switch {
		case analysis.fiberGrams >= fiberOptimalGrams:
			analysis.strengths = append(analysis.strengths, "Excellent fiber intake supporting gut health and longevity")
		case analysis.fiberGrams >= fiberMinGrams:
			analysis.strengths = append(analysis.strengths, "Adequate fiber intake")
		default:
			analysis.improvements = append(analysis.improvements, "Increase fiber intake from diverse plant sources")
		}

		dietPreference := ""
		if profile.Preferences != nil {
			dietPreference = profile.Preferences.Diet
		}
		if _, aligned := longevityDietaryPatterns[dietPreference]; aligned {
			analysis.dietaryPattern = dietPreference
			analysis.longevityAligned = true
			analysis.strengths = append(analysis.strengths, fmt.Sprintf("Following %s dietary pattern associated with longevity", dietPreference))
		} else {
			switch {
			case analysis.proteinPct > 25 && analysis.carbsPct < 40:
				analysis.dietaryPattern = "High protein, lower carb"
			case analysis.fatPct > 40:
				analysis.dietaryPattern = "High fat"
			case analysis.carbsPct > 60:
				analysis.dietaryPattern = "High carbohydrate"
			default:
				analysis.dietaryPattern = "Mixed/balanced"
			}

			if nutrition.DetailedMacros {
				analysis.longevityAligned = true
				analysis.strengths = append(analysis.strengths, "Diet includes diverse plant foods supporting longevity")
			} else {
				analysis.improvements = append(analysis.improvements, "Increase plant diversity for longevity benefits")
			}
		}
	}

	switch {
	case len(analysis.strengths) > len(analysis.improvements):
		analysis.alignment = "Strong"
	case len(analysis.strengths) == len(analysis.improvements):
		analysis.alignment = "Moderate"
	default:
		analysis.alignment = "Needs improvement"
	}

	return analysis
}

func (n *Nutrition) recommendations(analysis *nutritionAnalysis) []domain.Recommendation {
	var recs []domain.Recommendation

	for _, area := range analysis.improvements {
		lower := strings.ToLower(area)

		if strings.Contains(lower, "protein") {
			recs = append(recs, domain.Recommendation{
				Category:    "nutrition",
				Action:      "increase_protein_intake",
				Description: "Gradually increase protein intake to 1.2-1.6g per kg of body weight daily",
				Reasoning:   "Optimal protein intake supports muscle maintenance, immune function, and metabolic health, all critical factors in longevity",
				ImplementationSteps: []string{
					"Include a protein source with each meal (20-30g)",
					"Consider protein distribution throughout the day rather than single large doses",
					"Focus on high-quality protein sources (lean meats, fish, legumes, dairy)",
				},
				Priority:         domain.PriorityHigh,
				EvidenceCategory: domain.EvidenceSystematicReview,
			})
		}

		if strings.Contains(lower, "fiber") {
			recs = append(recs, domain.Recommendation{
				Category:    "nutrition",
				Action:      "increase_fiber_intake",
				Description: "Gradually increase fiber intake to 30+ grams daily from diverse plant sources",
				Reasoning:   "Dietary fiber supports gut microbiome diversity, reduces inflammation, and is consistently associated with longevity in population studies",
				ImplementationSteps: []string{
					"Add an additional serving of vegetables to lunch and dinner",
					"Include legumes (beans, lentils) 3+ times weekly",
					"Choose whole grains over refined options",
					"Aim for 30+ different plant foods weekly for microbiome diversity",
				},
				Priority:         domain.PriorityHigh,
				EvidenceCategory: domain.EvidenceMetaAnalysis,
			})
		}

		if strings.Contains(lower, "plant") {
			recs = append(recs, domain.Recommendation{
				Category:    "nutrition",
				Action:      "adopt_plant_forward_diet",
				Description: "Shift toward a more plant-forward dietary pattern while maintaining adequate protein",
				Reasoning:   "Plant-forward dietary patterns are consistently associated with longevity and reduced chronic disease risk in population studies",
				ImplementationSteps: []string{
					"Make vegetables the center of your plate",
					"Include a wide variety of colorful plant foods",
					"Limit ultra-processed foods",
					"Consider a Mediterranean or MIND dietary pattern",
				},
				Priority:         domain.PriorityMedium,
				EvidenceCategory: domain.EvidenceClinicalGuidelines,
			})
		}
	}

	if len(recs) < 2 {
		recs = append(recs, domain.Recommendation{
			Category:    "nutrition",
			Action:      "optimize_longevity_nutrition",
			Description: "Adopt key nutritional practices associated with longevity and healthspan",
			Reasoning:   "Specific dietary patterns and practices are consistently associated with exceptional longevity in population studies",
			ImplementationSteps: []string{
				"Emphasize plant diversity (30+ different plant foods weekly)",
				"Include adequate protein (1.2-1.6g/kg/day) distributed throughout the day",
				"Consume omega-3 rich foods regularly (fatty fish, walnuts, flax)",
				"Consider time-restricted eating (8-10 hour eating window)",
			},
			Priority:         domain.PriorityHigh,
			EvidenceCategory: domain.EvidenceSystematicReview,
		})
	}

	return recs
}

func (n *Nutrition) insights(analysis *nutritionAnalysis) []domain.Insight {
	var insights []domain.Insight

	if analysis.dietaryPattern != "" {
		insights = append(insights, domain.Insight{
			Type:             "dietary_pattern",
			Description:      dietaryPatternDescription(analysis.dietaryPattern),
			Confidence:       domain.ConfidenceMedium,
			EvidenceCategory: domain.EvidenceObservationalStudy,
		})
	}

	if analysis.hasMacros {
		insights = append(insights, domain.Insight{
			Type: "macronutrient_distribution",
			Description: fmt.Sprintf(
				"Your current diet consists of approximately %s%% protein, %s%% carbohydrates, and %s%% fat.",
				formatNumber(analysis.proteinPct), formatNumber(analysis.carbsPct), formatNumber(analysis.fatPct)),
			Confidence:       domain.ConfidenceHigh,
			EvidenceCategory: domain.EvidenceExpertOpinion,
		})
	}

	if analysis.alignment != "" {
		insights = append(insights, domain.Insight{
			Type:             "longevity_alignment",
			Description:      longevityAlignmentDescription(analysis.alignment, "nutritional foundation", "diet"),
			Confidence:       domain.ConfidenceMedium,
			EvidenceCategory: domain.EvidenceObservationalStudy,
		})
	}

	return insights
}

func (n *Nutrition) keyFindings(analysis *nutritionAnalysis) []string {
	var findings []string

	if analysis.dietaryPattern != "" {
		findings = append(findings, fmt.Sprintf("Current dietary pattern: %s", analysis.dietaryPattern))
	}
	if analysis.hasMacros {
		findings = append(findings, fmt.Sprintf("Macronutrient ratio: %s%% protein, %s%% carbs, %s%% fat",
			formatNumber(analysis.proteinPct), formatNumber(analysis.carbsPct), formatNumber(analysis.fatPct)))
	}
	if analysis.proteinPerKG > 0 {
		switch {
		case analysis.proteinPerKG >= proteinOptimalPerKG:
			findings = append(findings, fmt.Sprintf("Optimal protein intake: %sg/kg", formatNumber(analysis.proteinPerKG)))
		case analysis.proteinPerKG >= proteinMinPerKG:
			findings = append(findings, fmt.Sprintf("Adequate protein intake: %sg/kg", formatNumber(analysis.proteinPerKG)))
		default:
			findings = append(findings, fmt.Sprintf("Suboptimal protein intake: %sg/kg", formatNumber(analysis.proteinPerKG)))
		}
	}
	if analysis.fiberGrams > 0 {
		switch {
		case analysis.fiberGrams >= fiberOptimalGrams:
			findings = append(findings, fmt.Sprintf("Excellent fiber intake: %sg", formatNumber(analysis.fiberGrams)))
		case analysis.fiberGrams >= fiberMinGrams:
			findings = append(findings, fmt.Sprintf("Adequate fiber intake: %sg", formatNumber(analysis.fiberGrams)))
		default:
			findings = append(findings, fmt.Sprintf("Suboptimal fiber intake: %sg", formatNumber(analysis.fiberGrams)))
		}
	}
	if analysis.alignment != "" {
		findings = append(findings, fmt.Sprintf("Longevity nutrition alignment: %s", analysis.alignment))
	}

	return findings
}

func (n *Nutrition) determineConfidence(analysis *nutritionAnalysis) domain.ConfidenceLevel {
	hasDetailedData := analysis.hasMacros
	hasPattern := analysis.dietaryPattern != ""

	switch {
	case hasDetailedData && hasPattern:
		return domain.ConfidenceHigh
	case !hasDetailedData && !hasPattern:
		return domain.ConfidenceLow
	default:
		return domain.ConfidenceMedium
	}
}

func dietaryPatternDescription(pattern string) string {
	descriptions := map[string]string{
		"Mediterranean":      "Your diet resembles the Mediterranean pattern, characterized by abundant plant foods, olive oil, moderate fish and dairy, and limited red meat. This pattern is strongly associated with longevity and reduced chronic disease risk.",
		"DASH":               "Your diet aligns with the DASH (Dietary Approaches to Stop Hypertension) pattern, which emphasizes fruits, vegetables, whole grains, lean proteins, and limited sodium. This pattern supports cardiovascular health and longevity.",
		"Plant-forward":      "Your diet emphasizes plant foods while not necessarily eliminating animal products. This flexible approach is associated with longevity benefits while maintaining nutritional adequacy.",
		"Blue Zone inspired": "Your diet reflects patterns observed in Blue Zones (regions with exceptional longevity), including abundant plant foods, limited meat, and moderate caloric intake.",
		"MIND":               "Your diet follows the MIND (Mediterranean-DASH Intervention for Neurodegenerative Delay) pattern, which combines elements of Mediterranean and DASH diets with specific emphasis on foods that support brain health and cognitive function.",
		"High protein, lower carb": "Your diet emphasizes protein with moderate fat and limited carbohydrates. While protein adequacy supports muscle maintenance with aging, consider plant diversity and quality of carbohydrate sources for optimal longevity.",
		"High fat":                 "Your diet contains a higher proportion of fat. The quality and sources of fat (e.g., olive oil, avocados, nuts vs. processed foods) significantly impact how this pattern affects longevity.",
		"High carbohydrate":        "Your diet emphasizes carbohydrates. The quality of carbohydrate sources (whole vs. refined, fiber content) significantly impacts how this pattern affects longevity and metabolic health.",
		"Mixed/balanced":           "Your diet contains a balanced mix of macronutrients without strong emphasis in any particular direction. Focus on food quality and plant diversity to optimize this pattern for longevity.",
	}
	if d, ok := descriptions[pattern]; ok {
		return d
	}
	return "Your dietary pattern has been analyzed based on your reported intake."
}

func longevityAlignmentDescription(alignment, foundation, subject string) string {
	switch alignment {
	case "Strong":
		return fmt.Sprintf("Your current %s pattern strongly aligns with evidence-based approaches for promoting longevity and healthspan. Continue these beneficial practices while making minor optimizations as suggested.", subject)
	case "Moderate":
		return fmt.Sprintf("Your current %s pattern includes several elements associated with longevity, along with some opportunities for optimization. Implementing the suggested recommendations could further enhance the longevity-promoting aspects of your %s.", subject, subject)
	case "Needs improvement":
		return fmt.Sprintf("Your current %s pattern has significant opportunities for alignment with evidence-based approaches for promoting longevity. Implementing the suggested recommendations could substantially enhance your %s for healthy aging.", subject, foundation)
	default:
		return fmt.Sprintf("Your %s pattern has been analyzed for alignment with longevity research.", subject)
	}
}

func roundTo1(v float64) float64 {
	return math.Round(v*10) / 10
}
