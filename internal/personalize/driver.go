package personalize

import (
	"strings"

	"github.com/longevity-snapshot-server/internal/domain"
)

// driverKeywords maps each driver to the goal keywords suggesting it.
// Checked in the fixed order of driverPriority; the first driver with any
// matching keyword wins, so overlapping keywords (e.g. "vitality",
// "focus") resolve deterministically.
type driverKeywords struct {
	driver   domain.MotivationDriver
	keywords []string
}

func driverPriority() []driverKeywords {
	return []driverKeywords{
		{domain.DriverHealthScare, []string{"prevent", "disease", "condition", "risk", "doctor", "medical", "health issue", "avoid", "family history"}},
		{domain.DriverLongevity, []string{"longevity", "lifespan", "long life", "healthy aging", "live longer", "aging well", "vitality"}},
		{domain.DriverPerformance, []string{"performance", "athletic", "fitness", "strength", "endurance", "competition", "personal best", "training"}},
		{domain.DriverAppearance, []string{"appearance", "look", "weight loss", "toning", "muscle definition", "physique", "body composition"}},
		{domain.DriverEnergy, []string{"energy", "fatigue", "tired", "productivity", "focus", "mental clarity", "stamina", "vitality"}},
		{domain.DriverCognitive, []string{"brain", "memory", "cognitive", "focus", "concentration", "mental", "thinking", "clarity", "alzheimer's", "dementia"}},
		{domain.DriverMood, []string{"mood", "happiness", "depression", "anxiety", "stress", "emotional", "mental health", "wellbeing", "feel better"}},
		{domain.DriverSocial, []string{"social", "connection", "relationships", "community", "family", "friends", "belonging", "loneliness"}},
	}
}

// InferDriver determines the user's motivation driver from free-text goals.
// Matching is a case-insensitive substring search over the joined goal
// text. Goals that match no keyword default to longevity; absent or empty
// goals yield the unknown driver.
func InferDriver(goals []string) domain.MotivationDriver {
	if len(goals) == 0 {
		return domain.DriverUnknown
	}

	joined := strings.ToLower(strings.Join(goals, " "))
	for _, entry := range driverPriority() {
		for _, keyword := range entry.keywords {
			if strings.Contains(joined, keyword) {
				return entry.driver
			}
		}
	}
	return domain.DriverLongevity
}
