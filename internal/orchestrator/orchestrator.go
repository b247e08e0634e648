// Package orchestrator routes a health profile to the scoring agents it
// warrants, runs them in parallel with per-agent failure containment,
// reviews their outputs for low confidence and contradictions, and
// synthesizes one merged result.
package orchestrator

import (
	"context"
	"fmt"

	"github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/longevity-snapshot-server/internal/domain"
	"github.com/longevity-snapshot-server/internal/personalize"
	"github.com/longevity-snapshot-server/internal/scorer"
)

// agentOrder is the canonical iteration order for selection, flagging and
// synthesis. Map iteration is randomized in Go, so every pass that affects
// output ordering walks this slice instead.
var agentOrder = []domain.AgentType{
	domain.AgentMedicalReasoning,
	domain.AgentSleep,
	domain.AgentNutrition,
	domain.AgentStress,
	domain.AgentExercise,
	domain.AgentPersonalization,
}

// Processor coordinates the scoring agents for one request at a time. It
// holds no per-request state and is safe for concurrent use.
type Processor struct {
	logger  *logrus.Logger
	scorers map[domain.AgentType]domain.Scorer
	engine  *personalize.Engine
}

// New creates a processor with the full agent set. weightUnit configures
// the nutrition agent's interpretation of the profile weight field.
func New(logger *logrus.Logger, weightUnit string) (*Processor, error) {
	engine, err := personalize.NewEngine(logger)
	if err != nil {
		return nil, fmt.Errorf("orchestrator setup: %w", err)
	}

	scorers := map[domain.AgentType]domain.Scorer{
		domain.AgentMedicalReasoning: scorer.NewMedical(logger),
		domain.AgentSleep:            scorer.NewSleep(logger),
		domain.AgentNutrition:        scorer.NewNutrition(logger, weightUnit),
		domain.AgentStress:           scorer.NewStress(logger),
		domain.AgentExercise:         scorer.NewExercise(logger),
	}

	return &Processor{logger: logger, scorers: scorers, engine: engine}, nil
}

// SelectAgents determines which agents the profile warrants, in canonical
// order. Medical reasoning always runs; the rest depend on which data the
// profile carries.
func (p *Processor) SelectAgents(profile *domain.HealthProfile) []domain.AgentType {
	selected := []domain.AgentType{domain.AgentMedicalReasoning}

	if profile.Sleep != nil {
		selected = append(selected, domain.AgentSleep)
	}
	if profile.Nutrition != nil && (nutritionFieldCount(profile.Nutrition) > 3 || profile.Nutrition.DetailedMacros) {
		selected = append(selected, domain.AgentNutrition)
	}
	if profile.Stress != nil && profile.Stress.Level > 7 {
		selected = append(selected, domain.AgentStress)
	}
	if profile.Exercise != nil {
		selected = append(selected, domain.AgentExercise)
	}
	if profile.Preferences != nil {
		selected = append(selected, domain.AgentPersonalization)
	}

	return selected
}

// nutritionFieldCount counts the populated nutrition fields.
func nutritionFieldCount(n *domain.NutritionData) int {
	count := 0
	if n.Calories > 0 {
		count++
	}
	if n.Protein > 0 {
		count++
	}
	if n.Carbs > 0 {
		count++
	}
	if n.Fat > 0 {
		count++
	}
	if n.DetailedMacros {
		count++
	}
	if n.Fiber != nil {
		count++
	}
	if n.Sugar != nil {
		count++
	}
	if n.Water != nil {
		count++
	}
	return count
}

// Process runs the full pipeline for one profile: selection, parallel
// scoring, personalization, cross-agent review and synthesis.
func (p *Processor) Process(ctx context.Context, profile *domain.HealthProfile) (*domain.SynthesizedResult, error) {
	if profile == nil {
		return nil, fmt.Errorf("process: nil profile: %w", domain.ErrInvalidProfile)
	}
	if err := profile.Validate(); err != nil {
		return nil, fmt.Errorf("process: %w", err)
	}

	selected := p.SelectAgents(profile)
	p.logger.WithFields(logrus.Fields{
		"user_id": profile.UserID,
		"agents":  len(selected),
	}).Info("Processing health profile")

	reports := p.runScorers(ctx, profile, selected)

	if selectedAgent(selected, domain.AgentPersonalization) {
		report, err := p.engine.Personalize(profile, collectRecommendations(reports, selected))
		if err != nil {
			p.logger.WithError(err).WithField("agent", string(domain.AgentPersonalization)).
				Warn("Agent failed, excluding from result")
		} else {
			reports[domain.AgentPersonalization] = report
		}
	}

	issues := p.flagIssues(reports)
	if len(issues) > 0 {
		p.evaluateFlagged(reports, issues)
	}

	return p.synthesize(reports), nil
}

// runScorers fans the profile out to the selected domain scorers in
// parallel. A failing or panicking scorer is logged and excluded; it never
// aborts the request.
func (p *Processor) runScorers(ctx context.Context, profile *domain.HealthProfile, selected []domain.AgentType) map[domain.AgentType]*domain.AgentReport {
	type outcome struct {
		agent  domain.AgentType
		report *domain.AgentReport
	}

	group, _ := errgroup.WithContext(ctx)
	results := make([]outcome, len(selected))
	for i, agent := range selected {
		s, ok := p.scorers[agent]
		if !ok {
			continue
		}
		results[i].agent = agent

		i, agent := i, agent
		group.Go(func() error {
			defer func() {
				if r := recover(); r != nil {
					p.logger.WithFields(logrus.Fields{
						"agent": string(agent),
						"panic": r,
					}).Error("Agent panicked, excluding from result")
				}
			}()

			report, err := s.Analyze(profile)
			if err != nil {
				p.logger.WithError(err).WithField("agent", string(agent)).
					Warn("Agent failed, excluding from result")
				return nil
			}
			results[i].report = report
			return nil
		})
	}
	// Goroutines always return nil; failures degrade to missing reports.
	_ = group.Wait()

	reports := make(map[domain.AgentType]*domain.AgentReport, len(results))
	for _, r := range results {
		if r.report != nil {
			reports[r.agent] = r.report
		}
	}
	return reports
}

// collectRecommendations gathers the domain scorers' recommendations in
// canonical agent order as personalization input, stamping each with its
// source agent.
func collectRecommendations(reports map[domain.AgentType]*domain.AgentReport, selected []domain.AgentType) []domain.Recommendation {
	var recs []domain.Recommendation
	for _, agent := range agentOrder {
		if agent == domain.AgentPersonalization || !selectedAgent(selected, agent) {
			continue
		}
		report, ok := reports[agent]
		if !ok {
			continue
		}
		for _, rec := range report.Recommendations {
			rec.SourceAgent = string(agent)
			recs = append(recs, rec)
		}
	}
	return recs
}

func selectedAgent(selected []domain.AgentType, agent domain.AgentType) bool {
	for _, a := range selected {
		if a == agent {
			return true
		}
	}
	return false
}
