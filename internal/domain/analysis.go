package domain

// RiskFactor is one risk or strength finding produced by a domain scorer.
// Findings derived from a guideline lookup carry the evidence tag of the
// bucket they matched.
type RiskFactor struct {
	Type        string           `json:"type"`
	Description string           `json:"description"`
	Evidence    EvidenceCategory `json:"evidence_category"`
}

// DomainAnalysis is the structured intermediate result of one scorer run.
// It is owned by the orchestrator for the duration of a single request.
type DomainAnalysis struct {
	Metrics           map[string]any `json:"metrics,omitempty"`
	Risks             []RiskFactor   `json:"risks,omitempty"`
	Strengths         []RiskFactor   `json:"strengths,omitempty"`
	ClinicalReasoning []string       `json:"clinical_reasoning,omitempty"`
	AreasOfConcern    []string       `json:"areas_of_concern,omitempty"`
}

// AddConcern records a category needing attention, preserving set semantics:
// multiple risks may map to the same concern but it is listed once.
func (a *DomainAnalysis) AddConcern(name string) {
	for _, c := range a.AreasOfConcern {
		if c == name {
			return
		}
	}
	a.AreasOfConcern = append(a.AreasOfConcern, name)
}

// Recommendation is one actionable suggestion. Recommendations are never
// mutated after creation; personalization derives a new Recommendation from
// the original instead of editing it in place.
type Recommendation struct {
	Category            string           `json:"category"`
	Action              string           `json:"action"`
	Description         string           `json:"description"`
	Reasoning           string           `json:"reasoning,omitempty"`
	ImplementationSteps []string         `json:"implementation_steps,omitempty"`
	EvidenceCategory    EvidenceCategory `json:"evidence_category"`
	Priority            Priority         `json:"priority"`
	SourceAgent         string           `json:"source_agent,omitempty"`
}

// Insight is a non-actionable observation about the user's health state.
type Insight struct {
	Type             string           `json:"type"`
	Description      string           `json:"description"`
	Confidence       ConfidenceLevel  `json:"confidence"`
	EvidenceCategory EvidenceCategory `json:"evidence_category"`
	SourceAgent      string           `json:"source_agent,omitempty"`
}

// EvaluationNote is the critical-evaluation annotation attached to a
// flagged agent's analysis. It never changes the numeric confidence.
type EvaluationNote struct {
	Evaluation           string `json:"evaluation"`
	ConfidenceAdjustment string `json:"confidence_adjustment,omitempty"`
	Resolution           string `json:"resolution,omitempty"`
}

// AgentReport is the complete output of one scoring agent for one request.
type AgentReport struct {
	Confidence      ConfidenceLevel  `json:"confidence"`
	Recommendations []Recommendation `json:"recommendations"`
	Insights        []Insight        `json:"insights"`
	KeyFindings     []string         `json:"key_findings"`
	Analysis        *DomainAnalysis  `json:"analysis,omitempty"`
	EvaluationNotes *EvaluationNote  `json:"evaluation_notes,omitempty"`
}

// FlaggedIssue is an ephemeral cross-agent problem detected during review.
type FlaggedIssue struct {
	Agents    []AgentType `json:"agents"`
	IssueType IssueType   `json:"issue_type"`
	Details   string      `json:"details"`
}

// AgentContribution summarizes one agent's part in a synthesis.
type AgentContribution struct {
	Confidence      ConfidenceLevel `json:"confidence"`
	KeyFindings     []string        `json:"key_findings"`
	EvaluationNotes *EvaluationNote `json:"evaluation_notes,omitempty"`
}

// SynthesizedResult is the merged output of all contributing agents.
type SynthesizedResult struct {
	Recommendations    []Recommendation             `json:"recommendations"`
	Insights           []Insight                    `json:"insights"`
	Confidence         ConfidenceLevel              `json:"confidence"`
	AgentContributions map[string]AgentContribution `json:"agent_contributions"`
}
