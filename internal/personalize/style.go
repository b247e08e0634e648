// Package personalize adapts recommendations produced by the scoring agents
// to the user's context, preferences and motivation driver. It re-ranks
// recommendations by combined priority and feasibility, and rewrites their
// action, description and implementation steps in the communication style
// matching the driver.
package personalize

import (
	"fmt"

	"github.com/longevity-snapshot-server/internal/domain"
)

// Style is the communication style tuple for one motivation driver.
type Style struct {
	Tone      string
	Focus     string
	Framing   string
	Timeframe string
}

func motivationStyles() map[domain.MotivationDriver]Style {
	return map[domain.MotivationDriver]Style{
		domain.DriverHealthScare: {
			Tone:      "supportive but direct",
			Focus:     "risk reduction and prevention",
			Framing:   "avoiding negative health outcomes",
			Timeframe: "immediate and short-term benefits",
		},
		domain.DriverLongevity: {
			Tone:      "informative and encouraging",
			Focus:     "long-term health optimization",
			Framing:   "adding healthy years to life",
			Timeframe: "long-term benefits and cumulative effects",
		},
		domain.DriverPerformance: {
			Tone:      "energetic and goal-oriented",
			Focus:     "optimization and measurable improvements",
			Framing:   "enhancing capabilities and performance",
			Timeframe: "progressive improvements with clear milestones",
		},
		domain.DriverAppearance: {
			Tone:      "positive and affirming",
			Focus:     "visible results and aesthetic benefits",
			Framing:   "looking and feeling better",
			Timeframe: "noticeable changes within specific timeframes",
		},
		domain.DriverEnergy: {
			Tone:      "uplifting and practical",
			Focus:     "daily energy and vitality",
			Framing:   "feeling more energetic and productive",
			Timeframe: "immediate and daily benefits",
		},
		domain.DriverCognitive: {
			Tone:      "intellectually engaging and precise",
			Focus:     "brain health and cognitive function",
			Framing:   "optimizing mental performance and clarity",
			Timeframe: "both immediate effects and long-term protection",
		},
		domain.DriverMood: {
			Tone:      "empathetic and supportive",
			Focus:     "emotional wellbeing and resilience",
			Framing:   "feeling better emotionally and psychologically",
			Timeframe: "consistent improvement in daily mood states",
		},
		domain.DriverSocial: {
			Tone:      "warm and community-oriented",
			Focus:     "connection and shared experiences",
			Framing:   "enhancing relationships and social wellbeing",
			Timeframe: "building meaningful connections over time",
		},
	}
}

// validateStyles ensures the style table covers every known driver so a
// missing entry fails at construction, not mid-request.
func validateStyles(styles map[domain.MotivationDriver]Style) error {
	for _, driver := range domain.KnownDrivers() {
		if _, ok := styles[driver]; !ok {
			return fmt.Errorf("missing style for driver %s: %w", driver, domain.ErrIncompleteStyles)
		}
	}
	return nil
}

// styleFor returns the style for the driver. Unknown or unrecognized
// drivers fall back to the longevity style.
func styleFor(styles map[domain.MotivationDriver]Style, driver domain.MotivationDriver) Style {
	if style, ok := styles[driver]; ok {
		return style
	}
	return styles[domain.DriverLongevity]
}
