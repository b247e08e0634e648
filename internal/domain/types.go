// Package domain contains core business entities and types for personalized
// health assessment: profile snapshots, guideline-derived analyses, ranked
// recommendations and the confidence model shared by all scoring agents.
//
// Threshold tables encode published guideline ranges (AHA blood pressure
// categories, National Sleep Foundation duration bands, WHO physical
// activity minimums). They support wellness guidance, not diagnosis.
package domain

import (
	"errors"
)

// ConfidenceLevel represents an agent's confidence in its analysis.
// Levels form a total order (UNCERTAIN < LOW < MEDIUM < HIGH) used when
// reducing multiple agent confidences into one overall rating.
type ConfidenceLevel string

const (
	ConfidenceHigh      ConfidenceLevel = "high"
	ConfidenceMedium    ConfidenceLevel = "medium"
	ConfidenceLow       ConfidenceLevel = "low"
	ConfidenceUncertain ConfidenceLevel = "uncertain"
)

// Priority represents the urgency of a recommendation.
type Priority string

const (
	PriorityHigh   Priority = "high"
	PriorityMedium Priority = "medium"
	PriorityLow    Priority = "low"
)

// EvidenceCategory tags a guideline bucket, risk, or recommendation with
// the strength/type of evidence backing it.
type EvidenceCategory string

const (
	EvidenceClinicalGuidelines   EvidenceCategory = "clinical_guidelines"
	EvidenceSystematicReview     EvidenceCategory = "systematic_review"
	EvidenceMetaAnalysis         EvidenceCategory = "meta_analysis"
	EvidenceRandomizedTrial      EvidenceCategory = "randomized_trial"
	EvidenceObservationalStudy   EvidenceCategory = "observational_study"
	EvidenceExpertOpinion        EvidenceCategory = "expert_opinion"
	EvidenceMechanisticReasoning EvidenceCategory = "mechanistic_reasoning"
)

// RiskLevel grades bias and safety findings.
type RiskLevel string

const (
	RiskHigh   RiskLevel = "high"
	RiskMedium RiskLevel = "medium"
	RiskLow    RiskLevel = "low"
)

// AgentType identifies a scoring agent in the processing pipeline.
type AgentType string

const (
	AgentMedicalReasoning   AgentType = "medical_reasoning"
	AgentSleep              AgentType = "sleep"
	AgentNutrition          AgentType = "nutrition"
	AgentStress             AgentType = "stress"
	AgentExercise           AgentType = "exercise"
	AgentPersonalization    AgentType = "personalization"
	AgentCriticalEvaluation AgentType = "critical_evaluation"
)

// MotivationDriver is the inferred primary reason a user seeks health
// improvement, used to tailor recommendation phrasing.
type MotivationDriver string

const (
	DriverHealthScare MotivationDriver = "health_scare"
	DriverLongevity   MotivationDriver = "longevity"
	DriverPerformance MotivationDriver = "performance"
	DriverAppearance  MotivationDriver = "appearance"
	DriverEnergy      MotivationDriver = "energy"
	DriverCognitive   MotivationDriver = "cognitive"
	DriverMood        MotivationDriver = "mood"
	DriverSocial      MotivationDriver = "social"
	DriverUnknown     MotivationDriver = "unknown"
)

// IssueType classifies problems flagged during cross-agent review.
type IssueType string

const (
	IssueLowConfidence IssueType = "low_confidence"
	IssueContradiction IssueType = "contradiction"
)

// CompletenessLevel grades how much of the expected profile schema was
// actually supplied.
type CompletenessLevel string

const (
	CompletenessComplete    CompletenessLevel = "complete"
	CompletenessSubstantial CompletenessLevel = "substantial"
	CompletenessPartial     CompletenessLevel = "partial"
	CompletenessMinimal     CompletenessLevel = "minimal"
)

// Validation errors for assessment data integrity.
var (
	ErrNotFound          = errors.New("not found")
	ErrInvalidConfidence = errors.New("invalid confidence level")
	ErrInvalidPriority   = errors.New("invalid priority")
	ErrInvalidProfile    = errors.New("invalid health profile")
	ErrIncompleteStyles  = errors.New("communication style table does not cover all motivation drivers")
)

// confidenceRank orders confidence levels for minimum reduction.
// Unknown values rank below UNCERTAIN so they can never raise a result.
func confidenceRank(c ConfidenceLevel) int {
	switch c {
	case ConfidenceUncertain:
		return 1
	case ConfidenceLow:
		return 2
	case ConfidenceMedium:
		return 3
	case ConfidenceHigh:
		return 4
	default:
		return 0
	}
}

// IsValid validates the confidence level.
func (c ConfidenceLevel) IsValid() bool {
	switch c {
	case ConfidenceHigh, ConfidenceMedium, ConfidenceLow, ConfidenceUncertain:
		return true
	default:
		return false
	}
}

// String returns the string representation of the confidence level.
func (c ConfidenceLevel) String() string {
	return string(c)
}

// AtMost returns true if c ranks less than or equal to other under the
// ordering uncertain < low < medium < high.
func (c ConfidenceLevel) AtMost(other ConfidenceLevel) bool {
	return confidenceRank(c) <= confidenceRank(other)
}

// MinConfidence returns the lowest confidence level among levels.
// Returns ok=false when levels is empty.
func MinConfidence(levels []ConfidenceLevel) (ConfidenceLevel, bool) {
	if len(levels) == 0 {
		return "", false
	}
	min := levels[0]
	for _, l := range levels[1:] {
		if confidenceRank(l) < confidenceRank(min) {
			min = l
		}
	}
	return min, true
}

// IsValid validates the priority.
func (p Priority) IsValid() bool {
	switch p {
	case PriorityHigh, PriorityMedium, PriorityLow:
		return true
	default:
		return false
	}
}

// String returns the string representation of the priority.
func (p Priority) String() string {
	return string(p)
}

// Weight returns the numeric weight used when combining priority with
// feasibility into a ranking score.
func (p Priority) Weight() float64 {
	switch p {
	case PriorityHigh:
		return 1.0
	case PriorityMedium:
		return 0.5
	case PriorityLow:
		return 0.3
	default:
		return 0.3
	}
}

// IsValid validates the evidence category.
func (e EvidenceCategory) IsValid() bool {
	switch e {
	case EvidenceClinicalGuidelines, EvidenceSystematicReview, EvidenceMetaAnalysis,
		EvidenceRandomizedTrial, EvidenceObservationalStudy, EvidenceExpertOpinion,
		EvidenceMechanisticReasoning:
		return true
	default:
		return false
	}
}

// String returns the string representation of the evidence category.
func (e EvidenceCategory) String() string {
	return string(e)
}

// IsValid validates the risk level.
func (r RiskLevel) IsValid() bool {
	switch r {
	case RiskHigh, RiskMedium, RiskLow:
		return true
	default:
		return false
	}
}

// String returns the string representation of the risk level.
func (r RiskLevel) String() string {
	return string(r)
}

// IsValid validates the agent type.
func (a AgentType) IsValid() bool {
	switch a {
	case AgentMedicalReasoning, AgentSleep, AgentNutrition, AgentStress,
		AgentExercise, AgentPersonalization, AgentCriticalEvaluation:
		return true
	default:
		return false
	}
}

// String returns the string representation of the agent type.
func (a AgentType) String() string {
	return string(a)
}

// IsValid validates the motivation driver.
func (d MotivationDriver) IsValid() bool {
	switch d {
	case DriverHealthScare, DriverLongevity, DriverPerformance, DriverAppearance,
		DriverEnergy, DriverCognitive, DriverMood, DriverSocial, DriverUnknown:
		return true
	default:
		return false
	}
}

// String returns the string representation of the motivation driver.
func (d MotivationDriver) String() string {
	return string(d)
}

// KnownDrivers lists every driver a communication-style table must cover.
// DriverUnknown is excluded: it falls back to the longevity style.
func KnownDrivers() []MotivationDriver {
	return []MotivationDriver{
		DriverHealthScare, DriverLongevity, DriverPerformance, DriverAppearance,
		DriverEnergy, DriverCognitive, DriverMood, DriverSocial,
	}
}

// IsValid validates the completeness level.
func (c CompletenessLevel) IsValid() bool {
	switch c {
	case CompletenessComplete, CompletenessSubstantial, CompletenessPartial, CompletenessMinimal:
		return true
	default:
		return false
	}
}

// String returns the string representation of the completeness level.
func (c CompletenessLevel) String() string {
	return string(c)
}
