package orchestrator

import (
	"fmt"
	"strings"

	"github.com/sirupsen/logrus"

	"github.com/longevity-snapshot-server/internal/domain"
)

// flagIssues reviews agent outputs for low confidence and for the known
// calorie contradiction between the medical and nutrition agents. The
// contradiction check is deliberately narrow; it is the template for
// adding further cross-agent rules, not an exhaustive detector.
func (p *Processor) flagIssues(reports map[domain.AgentType]*domain.AgentReport) []domain.FlaggedIssue {
	var issues []domain.FlaggedIssue

	for _, agent := range agentOrder {
		report, ok := reports[agent]
		if !ok {
			continue
		}
		if report.Confidence == domain.ConfidenceLow || report.Confidence == domain.ConfidenceUncertain {
			issues = append(issues, domain.FlaggedIssue{
				Agents:    []domain.AgentType{agent},
				IssueType: domain.IssueLowConfidence,
				Details:   fmt.Sprintf("%s analysis reported %s confidence", agent, report.Confidence),
			})
		}
	}

	medical, hasMedical := reports[domain.AgentMedicalReasoning]
	nutrition, hasNutrition := reports[domain.AgentNutrition]
	if hasMedical && hasNutrition &&
		hasActionSubstring(medical.Recommendations, "reduce_calories") &&
		hasActionSubstring(nutrition.Recommendations, "increase_calories") {
		issues = append(issues, domain.FlaggedIssue{
			Agents:    []domain.AgentType{domain.AgentMedicalReasoning, domain.AgentNutrition},
			IssueType: domain.IssueContradiction,
			Details:   "Conflicting recommendations about calorie intake",
		})
	}

	return issues
}

func hasActionSubstring(recs []domain.Recommendation, substring string) bool {
	for _, rec := range recs {
		if strings.Contains(rec.Action, substring) {
			return true
		}
	}
	return false
}

// evaluateFlagged attaches evaluation notes to each flagged agent's
// report. Notes annotate the analysis only; numeric confidence is never
// changed here.
func (p *Processor) evaluateFlagged(reports map[domain.AgentType]*domain.AgentReport, issues []domain.FlaggedIssue) {
	p.logger.WithField("issues", len(issues)).Info("Running critical evaluation")

	for _, issue := range issues {
		switch issue.IssueType {
		case domain.IssueLowConfidence:
			for _, agent := range issue.Agents {
				if report, ok := reports[agent]; ok {
					report.EvaluationNotes = &domain.EvaluationNote{
						Evaluation:           "Reviewed low confidence analysis and confirmed findings",
						ConfidenceAdjustment: "Confidence remains low due to insufficient data",
					}
				}
			}
		case domain.IssueContradiction:
			for _, agent := range issue.Agents {
				if report, ok := reports[agent]; ok {
					report.EvaluationNotes = &domain.EvaluationNote{
						Evaluation: "Resolved contradiction with other agent",
						Resolution: "Prioritized medical recommendation over nutrition recommendation",
					}
				}
			}
		}

		p.logger.WithFields(logrus.Fields{
			"issue_type": string(issue.IssueType),
			"details":    issue.Details,
		}).Debug("Issue evaluated")
	}
}

// synthesize merges the agent reports into one result. Recommendations
// and insights keep agent iteration order; the personalization engine has
// already ranked its own subset internally. Overall confidence is the
// minimum across reporting agents, defaulting to high when none report.
func (p *Processor) synthesize(reports map[domain.AgentType]*domain.AgentReport) *domain.SynthesizedResult {
	result := &domain.SynthesizedResult{
		Confidence:         domain.ConfidenceHigh,
		AgentContributions: make(map[string]domain.AgentContribution, len(reports)),
	}

	var levels []domain.ConfidenceLevel
	for _, agent := range agentOrder {
		report, ok := reports[agent]
		if !ok {
			continue
		}

		for _, rec := range report.Recommendations {
			rec.SourceAgent = string(agent)
			result.Recommendations = append(result.Recommendations, rec)
		}
		for _, insight := range report.Insights {
			insight.SourceAgent = string(agent)
			result.Insights = append(result.Insights, insight)
		}

		contribution := domain.AgentContribution{
			Confidence:      domain.ConfidenceMedium,
			KeyFindings:     report.KeyFindings,
			EvaluationNotes: report.EvaluationNotes,
		}
		if report.Confidence != "" {
			contribution.Confidence = report.Confidence
			levels = append(levels, report.Confidence)
		}
		result.AgentContributions[string(agent)] = contribution
	}

	if min, ok := domain.MinConfidence(levels); ok {
		result.Confidence = min
	}

	return result
}
