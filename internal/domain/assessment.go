package domain

import "time"

// Assessment is one completed health assessment: the synthesized result
// plus request metadata. Assessments are immutable once stored; repeat
// submissions of an identical profile are answered from cache and marked
// with Cached.
type Assessment struct {
	ID          string             `json:"assessment_id"`
	UserID      string             `json:"user_id"`
	ProfileHash string             `json:"profile_hash"`
	Result      *SynthesizedResult `json:"result"`
	Cached      bool               `json:"cached,omitempty"`
	CreatedAt   time.Time          `json:"created_at"`
}
