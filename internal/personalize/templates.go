package personalize

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/longevity-snapshot-server/internal/domain"
)

// personalizeAction rewrites the action as a statement tailored to the
// user's current state. Category-action pairs without a template get a
// generic phrasing of the original action.
func personalizeAction(rec domain.Recommendation, profile *domain.HealthProfile) string {
	switch rec.Category {
	case "sleep":
		switch rec.Action {
		case "improve_sleep_duration":
			if profile.Sleep != nil && profile.Sleep.AverageDuration > 0 {
				duration := formatHours(profile.Sleep.AverageDuration)
				switch {
				case profile.Sleep.AverageDuration < 6:
					return fmt.Sprintf("Gradually increase sleep duration from %s to 7-8 hours", duration)
				case profile.Sleep.AverageDuration > 9:
					return fmt.Sprintf("Optimize sleep duration from %s to 7-9 hours", duration)
				default:
					return "Maintain consistent 7-9 hour sleep schedule"
				}
			}
			return "Establish a consistent 7-9 hour sleep schedule"
		case "improve_sleep_quality":
			return "Create an optimal sleep environment and pre-sleep routine"
		}

	case "physical_activity":
		if rec.Action == "increase_physical_activity" {
			if profile.Exercise != nil {
				weeklySessions := profile.Exercise.StrengthSessions + profile.Exercise.CardioSessions
				switch {
				case weeklySessions == 0:
					return "Begin with 10-minute daily walks and gradually build up activity"
				case weeklySessions < 3:
					return fmt.Sprintf("Build on your current %d weekly sessions to reach 150 minutes of activity", weeklySessions)
				default:
					return "Optimize your current exercise routine for balanced fitness"
				}
			}
			return "Begin a progressive physical activity program"
		}

	case "stress_management":
		if rec.Action == "stress_reduction" {
			if profile.Stress != nil && len(profile.Stress.CopingMechanisms) > 0 {
				return fmt.Sprintf("Enhance your stress management toolkit by building on %s", profile.Stress.CopingMechanisms[0])
			}
			return "Develop a personalized stress management toolkit"
		}
	}

	return "Personalized " + strings.ReplaceAll(rec.Action, "_", " ")
}

// personalizeDescription builds the description from a tone-specific
// opener, a framing-specific body and a timeframe-specific closing
// sentence. The closing is skipped when its keyword already appears in
// the body, preventing duplicate phrasing.
func personalizeDescription(rec domain.Recommendation, style Style, profile *domain.HealthProfile) string {
	opener := toneOpener(style.Tone)
	description := rec.Description

	switch rec.Category {
	case "sleep":
		if profile.Sleep != nil && profile.Sleep.AverageDuration > 0 {
			description = sleepDescription(opener, style.Framing, profile.Sleep.AverageDuration)
		}
	case "physical_activity":
		description = activityDescription(opener, style.Framing)
	case "stress_management":
		description = stressDescription(opener, style.Framing)
	}

	closing, keyword := timeframeClosing(style.Timeframe)
	if closing != "" && !strings.Contains(strings.ToLower(description), keyword) {
		description += closing
	}

	return description
}

func toneOpener(tone string) string {
	switch tone {
	case "supportive but direct":
		return "It's important that you "
	case "informative and encouraging":
		return "Research shows that you can optimize your longevity by "
	case "energetic and goal-oriented":
		return "To maximize your performance, focus on "
	case "positive and affirming":
		return "You'll look and feel your best when you "
	case "uplifting and practical":
		return "To boost your daily energy, "
	case "intellectually engaging and precise":
		return "To optimize your cognitive function, "
	case "empathetic and supportive":
		return "To improve your emotional wellbeing, "
	case "warm and community-oriented":
		return "To enhance your social connections, "
	default:
		return "Consider "
	}
}

func sleepDescription(opener, framing string, currentDuration float64) string {
	const target = "7-9 hours"
	switch framing {
	case "avoiding negative health outcomes":
		return fmt.Sprintf("%sprioritizing %s of quality sleep. Consistently sleeping less than %s hours is linked to increased risk of cognitive decline, metabolic disorders, and immune dysfunction.", opener, target, formatHours(currentDuration))
	case "adding healthy years to life":
		return fmt.Sprintf("%soptimizing your sleep to %s per night. Quality sleep is a cornerstone of longevity, supporting cellular repair, brain health, and metabolic function.", opener, target)
	case "enhancing capabilities and performance":
		return fmt.Sprintf("%sgetting %s of quality sleep. Optimal sleep dramatically improves cognitive performance, reaction time, and physical recovery.", opener, target)
	case "looking and feeling better":
		return fmt.Sprintf("%sgetting %s of quality sleep. Proper sleep reduces under-eye circles, improves skin clarity, and helps maintain a healthy weight.", opener, target)
	case "feeling more energetic and productive":
		return fmt.Sprintf("%sachieving %s of quality sleep. Proper sleep is your foundation for all-day energy, mood stability, and productivity.", opener, target)
	case "optimizing mental performance and clarity":
		return fmt.Sprintf("%sgetting %s of quality sleep. Quality sleep is essential for cognitive function, memory consolidation, and mental clarity.", opener, target)
	case "feeling better emotionally and psychologically":
		return fmt.Sprintf("%sprioritizing %s of quality sleep. Proper sleep regulates emotional processing and significantly improves mood stability.", opener, target)
	case "enhancing relationships and social wellbeing":
		return fmt.Sprintf("%sgetting %s of quality sleep. Quality sleep improves emotional regulation and social interactions.", opener, target)
	default:
		return fmt.Sprintf("%saiming for %s of quality sleep for optimal health.", opener, target)
	}
}

func activityDescription(opener, framing string) string {
	switch framing {
	case "avoiding negative health outcomes":
		return opener + "incorporating regular physical activity into your routine. A sedentary lifestyle significantly increases risk of cardiovascular disease, diabetes, and premature mortality."
	case "adding healthy years to life":
		return opener + "making consistent physical activity a cornerstone of your longevity strategy. Regular exercise is one of the most powerful predictors of healthy lifespan."
	case "enhancing capabilities and performance":
		return opener + "following a structured exercise program. Proper training progressively enhances your strength, endurance, and functional capabilities."
	case "looking and feeling better":
		return opener + "engaging in regular physical activity. Exercise sculpts your physique, improves posture, and gives you a healthy, vibrant appearance."
	case "feeling more energetic and productive":
		return opener + "moving your body consistently. Regular physical activity boosts energy levels, improves mood, and enhances focus throughout the day."
	case "optimizing mental performance and clarity":
		return opener + "engaging in regular physical activity. Exercise enhances brain blood flow, neurogenesis, and cognitive function."
	case "feeling better emotionally and psychologically":
		return opener + "engaging in regular physical activity. Exercise releases endorphins and improves mood both acutely and chronically."
	case "enhancing relationships and social wellbeing":
		return opener + "engaging in group fitness activities. Exercise can be a social opportunity and enhances your energy for meaningful connections."
	default:
		return opener + "incorporating regular physical activity for overall health."
	}
}

func stressDescription(opener, framing string) string {
	switch framing {
	case "avoiding negative health outcomes":
		return opener + "implementing effective stress management techniques. Chronic unmanaged stress accelerates aging and increases risk of cardiovascular disease and immune dysfunction."
	case "adding healthy years to life":
		return opener + "developing a comprehensive stress management practice. Effective stress regulation is a key longevity pathway that protects cellular health and brain function."
	case "enhancing capabilities and performance":
		return opener + "mastering stress management techniques. Optimal stress regulation improves decision-making, focus, and recovery between training sessions."
	case "looking and feeling better":
		return opener + "prioritizing stress management. Reduced stress improves skin clarity, reduces tension in your face and body, and helps maintain a healthy weight."
	case "feeling more energetic and productive":
		return opener + "implementing daily stress management practices. Effective stress regulation prevents energy depletion and mental fatigue."
	case "optimizing mental performance and clarity":
		return opener + "protecting your brain from chronic stress. Stress management optimizes cognitive performance and protects against neurodegenerative diseases."
	case "feeling better emotionally and psychologically":
		return opener + "enhancing your emotional regulation. Stress management improves emotional wellbeing and psychological resilience."
	case "enhancing relationships and social wellbeing":
		return opener + "improving your capacity for positive social engagement. Stress management enhances your emotional regulation and social interactions."
	default:
		return opener + "developing effective stress management techniques for better health."
	}
}

// timeframeClosing returns the closing sentence for the timeframe and the
// keyword whose presence in the body suppresses it.
func timeframeClosing(timeframe string) (closing, keyword string) {
	switch timeframe {
	case "immediate and short-term benefits":
		return " You may notice improvements within days of implementing this change.", "immediate"
	case "long-term benefits and cumulative effects":
		return " The benefits compound over time, contributing significantly to your long-term health.", "long-term"
	case "progressive improvements with clear milestones":
		return " Track your progress weekly to see measurable improvements.", "progress"
	case "noticeable changes within specific timeframes":
		return " Most people notice visible changes within 3-4 weeks of consistent implementation.", "notice"
	case "immediate and daily benefits":
		return " You'll likely experience day-to-day improvements in how you feel.", "daily"
	case "both immediate effects and long-term protection":
		return " You may notice both immediate cognitive improvements and long-term protection against neurodegenerative diseases.", "immediate"
	case "consistent improvement in daily mood states":
		return " You can expect consistent improvement in your daily mood states with regular practice.", "consistent"
	case "building meaningful connections over time":
		return " You'll build meaningful connections over time as you engage in social activities and strengthen your relationships.", "building"
	default:
		return "", ""
	}
}

// implementationSteps builds feasibility-aware steps: a category-specific
// base list, extra steps addressing detected barriers, and preference
// substitutions where known.
func implementationSteps(rec domain.Recommendation, feasibility Feasibility, profile *domain.HealthProfile) []string {
	switch rec.Category {
	case "sleep":
		if rec.Action == "improve_sleep_duration" {
			steps := []string{
				"Set a consistent bedtime and wake time, even on weekends",
				"Create a relaxing pre-sleep routine (e.g., reading, gentle stretching)",
				"Make your bedroom dark, quiet, and cool",
			}
			for _, barrier := range feasibility.Barriers {
				if strings.Contains(strings.ToLower(barrier), "irregular") {
					steps = append(steps, "Use a sleep tracking app to monitor your progress")
					break
				}
			}
			if profile.Preferences != nil && profile.Preferences.SleepTime != "" {
				steps = append(steps, fmt.Sprintf("Align your schedule with your preferred %s sleep time", profile.Preferences.SleepTime))
			}
			return steps
		}

	case "physical_activity":
		if rec.Action == "increase_physical_activity" {
			beginner := true
			if profile.Exercise != nil {
				beginner = profile.Exercise.StrengthSessions+profile.Exercise.CardioSessions < 2
			}

			var steps []string
			if beginner {
				steps = []string{
					"Start with 10-15 minute walks daily",
					"Gradually increase duration by 5 minutes each week",
					"Add simple bodyweight exercises (squats, wall push-ups) twice weekly",
					"Focus on consistency rather than intensity initially",
				}
			} else {
				steps = []string{
					"Ensure your weekly activity includes both cardio and strength training",
					"Gradually increase duration or intensity of current workouts",
					"Add one additional activity session per week",
					"Include recovery days between intense workouts",
				}
			}
			if profile.Preferences != nil && profile.Preferences.ExerciseTime != "" {
				steps = append(steps, fmt.Sprintf("Schedule workouts during your preferred %s time", profile.Preferences.ExerciseTime))
			}
			return steps
		}

	case "stress_management":
		if rec.Action == "stress_reduction" {
			if profile.Stress != nil && len(profile.Stress.CopingMechanisms) > 0 {
				return []string{
					fmt.Sprintf("Continue your practice of %s", profile.Stress.CopingMechanisms[0]),
					"Add a 5-minute breathing exercise to your morning routine",
					"Identify your top 3 stress triggers and create specific plans for each",
					"Schedule short breaks throughout your day for stress reset",
				}
			}
			return []string{
				"Begin with a simple 5-minute daily breathing practice",
				"Identify your top 3 stress triggers",
				"Try a guided meditation app for 10 minutes before bed",
				"Consider a weekly nature walk or other pleasant activity",
			}
		}
	}

	return []string{
		"Start with small, manageable changes",
		"Track your progress to stay motivated",
		"Build gradually over time",
		"Adjust as needed based on your results",
	}
}

// alignmentMessage explains how a recommendation category serves the
// user's motivation driver.
func alignmentMessage(category string, driver domain.MotivationDriver) string {
	switch driver {
	case domain.DriverHealthScare:
		switch category {
		case "cardiovascular_health", "weight_management":
			return "This change directly addresses your health concerns by reducing disease risk factors"
		case "sleep":
			return "Improving sleep significantly reduces your risk of developing serious health conditions"
		case "physical_activity":
			return "Regular physical activity is one of the most effective ways to prevent disease progression"
		case "stress_management":
			return "Managing stress effectively reduces inflammation and improves immune function"
		case "nutrition":
			return "These dietary changes directly support risk reduction for common health conditions"
		}
		return "This recommendation supports your goal of addressing health concerns"

	case domain.DriverLongevity:
		switch category {
		case "sleep":
			return "Quality sleep is a fundamental pillar of longevity, supporting cellular repair and brain health"
		case "physical_activity":
			return "Regular physical activity is one of the strongest predictors of healthy lifespan"
		case "stress_management":
			return "Effective stress management protects your telomeres and slows biological aging"
		case "nutrition":
			return "This dietary pattern is consistently associated with exceptional longevity in population studies"
		}
		return "This recommendation supports your goal of optimizing longevity"

	case domain.DriverPerformance:
		switch category {
		case "sleep":
			return "Optimal sleep dramatically improves reaction time, decision making, and physical recovery"
		case "physical_activity":
			return "A structured exercise program progressively enhances your strength, endurance, and capabilities"
		case "stress_management":
			return "Stress regulation improves focus, decision-making, and recovery between training sessions"
		case "nutrition":
			return "This nutrition strategy optimizes energy availability and recovery for enhanced performance"
		}
		return "This recommendation supports your goal of optimizing performance"

	case domain.DriverAppearance:
		switch category {
		case "sleep":
			return "Quality sleep reduces under-eye circles, improves skin clarity, and helps maintain a healthy weight"
		case "physical_activity":
			return "Regular exercise sculpts your physique, improves posture, and gives you a healthy, vibrant appearance"
		case "stress_management":
			return "Stress management improves skin clarity, reduces tension in your face and body, and helps maintain weight"
		case "nutrition":
			return "This dietary approach supports healthy body composition and skin vitality"
		}
		return "This recommendation supports your goal of enhancing your appearance"

	case domain.DriverEnergy:
		switch category {
		case "sleep":
			return "Quality sleep is your foundation for all-day energy, mood stability, and productivity"
		case "physical_activity":
			return "Regular physical activity boosts energy levels, improves mood, and enhances focus throughout the day"
		case "stress_management":
			return "Effective stress regulation prevents energy depletion and mental fatigue"
		case "nutrition":
			return "This eating pattern optimizes stable energy levels throughout the day"
		}
		return "This recommendation supports your goal of increasing daily energy"

	case domain.DriverCognitive:
		switch category {
		case "sleep":
			return "Quality sleep is essential for memory consolidation, cognitive processing, and brain health"
		case "physical_activity":
			return "Regular exercise enhances brain blood flow, neurogenesis, and cognitive function"
		case "stress_management":
			return "Stress management protects brain structures and optimizes cognitive performance"
		case "nutrition":
			return "This dietary pattern includes key nutrients that support brain health and cognitive function"
		}
		return "This recommendation supports your goal of optimizing cognitive function"

	case domain.DriverMood:
		switch category {
		case "sleep":
			return "Quality sleep regulates emotional processing and significantly improves mood stability"
		case "physical_activity":
			return "Regular exercise releases endorphins and improves mood both acutely and chronically"
		case "stress_management":
			return "These practices directly enhance emotional regulation and psychological wellbeing"
		case "nutrition":
			return "This dietary approach includes nutrients that support neurotransmitter production and mood regulation"
		}
		return "This recommendation supports your goal of enhancing emotional wellbeing"

	case domain.DriverSocial:
		switch category {
		case "sleep":
			return "Quality sleep improves emotional regulation and social interactions"
		case "physical_activity":
			return "Regular activity can be a social opportunity and enhances your energy for meaningful connections"
		case "stress_management":
			return "Stress management improves your capacity for positive social engagement"
		case "nutrition":
			return "This approach supports energy and wellbeing for social activities and connections"
		}
		return "This recommendation supports your goal of enhancing social connections"
	}

	return "This recommendation is tailored to support your health goals"
}

// motivationDescription summarizes how recommendations were personalized.
func motivationDescription(driver domain.MotivationDriver) string {
	switch driver {
	case domain.DriverHealthScare:
		return "Your health recommendations focus on risk reduction and prevention, with emphasis on immediate and short-term benefits"
	case domain.DriverLongevity:
		return "Your health recommendations emphasize long-term health optimization and adding healthy years to your life"
	case domain.DriverPerformance:
		return "Your health recommendations focus on enhancing your capabilities and performance, with clear milestones for progress"
	case domain.DriverAppearance:
		return "Your health recommendations highlight visible results and aesthetic benefits, with specific timeframes for noticeable changes"
	case domain.DriverEnergy:
		return "Your health recommendations prioritize daily energy and vitality, with immediate and practical benefits"
	case domain.DriverCognitive:
		return "Your health recommendations emphasize brain health and cognitive function, with strategies for both immediate clarity and long-term protection"
	case domain.DriverMood:
		return "Your health recommendations focus on emotional wellbeing and psychological resilience, with practices to enhance daily mood states"
	case domain.DriverSocial:
		return "Your health recommendations support social connection and relationship quality, enhancing your capacity for meaningful interactions"
	default:
		return "Your health recommendations have been personalized based on your profile"
	}
}

func formatHours(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
