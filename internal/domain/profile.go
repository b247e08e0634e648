package domain

import (
	"fmt"
	"math"
)

// HealthProfile is the immutable input snapshot for one assessment request.
// It is constructed once per request and never mutated; scorers only read
// the sub-records relevant to their domain. Optional sub-records are nil
// pointers; optional numeric vitals are nil pointers inside HealthMetrics.
type HealthProfile struct {
	UserID   string  `json:"user_id"`
	Age      int     `json:"age"`
	Gender   string  `json:"gender"`
	HeightCM float64 `json:"height"`
	WeightKG float64 `json:"weight"`

	HealthMetrics  *HealthMetrics `json:"health_metrics,omitempty"`
	Sleep          *SleepData     `json:"sleep_data,omitempty"`
	Nutrition      *NutritionData `json:"nutrition_data,omitempty"`
	Stress         *StressData    `json:"stress_data,omitempty"`
	Exercise       *ExerciseData  `json:"exercise_data,omitempty"`
	Preferences    *Preferences   `json:"preferences,omitempty"`
	MedicalHistory []string       `json:"medical_history,omitempty"`
}

// HealthMetrics holds self-reported vital signs and lab-style measurements.
type HealthMetrics struct {
	BloodPressureSystolic  *int     `json:"blood_pressure_systolic,omitempty"`
	BloodPressureDiastolic *int     `json:"blood_pressure_diastolic,omitempty"`
	HeartRate              *int     `json:"heart_rate,omitempty"`
	VO2Max                 *float64 `json:"vo2_max,omitempty"`
	BloodGlucose           *float64 `json:"blood_glucose,omitempty"`
	CholesterolTotal       *int     `json:"cholesterol_total,omitempty"`
	CholesterolHDL         *int     `json:"cholesterol_hdl,omitempty"`
	CholesterolLDL         *int     `json:"cholesterol_ldl,omitempty"`
	Triglycerides          *int     `json:"triglycerides,omitempty"`
}

// SleepData describes self-reported sleep patterns.
type SleepData struct {
	AverageDuration    float64  `json:"average_duration"`
	Quality            string   `json:"quality"`
	BedtimeConsistency string   `json:"bedtime_consistency"`
	Issues             []string `json:"issues,omitempty"`
}

// NutritionData describes daily dietary intake.
type NutritionData struct {
	Calories       int      `json:"calories"`
	Protein        float64  `json:"protein"`
	Carbs          float64  `json:"carbs"`
	Fat            float64  `json:"fat"`
	DetailedMacros bool     `json:"detailed_macros,omitempty"`
	Fiber          *float64 `json:"fiber,omitempty"`
	Sugar          *float64 `json:"sugar,omitempty"`
	Water          *float64 `json:"water,omitempty"`
}

// StressData describes self-reported stress on a 1-10 scale.
type StressData struct {
	Level            int      `json:"level"`
	Sources          []string `json:"sources,omitempty"`
	CopingMechanisms []string `json:"coping_mechanisms,omitempty"`
}

// ExerciseData describes weekly physical activity.
type ExerciseData struct {
	StrengthSessions int      `json:"strength_training"`
	CardioSessions   int      `json:"cardio"`
	Intensity        string   `json:"intensity"`
	Duration         *int     `json:"duration,omitempty"` // minutes per session
	Types            []string `json:"types,omitempty"`
}

// Preferences holds user lifestyle preferences and free-text goals.
type Preferences struct {
	Diet         string   `json:"diet,omitempty"`
	ExerciseTime string   `json:"exercise_time,omitempty"`
	SleepTime    string   `json:"sleep_time,omitempty"`
	WakeTime     string   `json:"wake_time,omitempty"`
	Goals        []string `json:"goals,omitempty"`
}

// Validate ensures the profile carries the fields the pipeline cannot run
// without. Missing optional sub-records are fine; they only shrink the set
// of invoked agents.
func (p *HealthProfile) Validate() error {
	if p.Age < 0 {
		return fmt.Errorf("profile validation: age must not be negative: %w", ErrInvalidProfile)
	}
	if p.HeightCM < 0 || p.WeightKG < 0 {
		return fmt.Errorf("profile validation: height and weight must not be negative: %w", ErrInvalidProfile)
	}
	if p.Sleep != nil && p.Sleep.AverageDuration < 0 {
		return fmt.Errorf("profile validation: sleep duration must not be negative: %w", ErrInvalidProfile)
	}
	if p.Stress != nil && (p.Stress.Level < 0 || p.Stress.Level > 10) {
		return fmt.Errorf("profile validation: stress level must be within 0-10: %w", ErrInvalidProfile)
	}
	return nil
}

// HasBodyMeasurements reports whether both height and weight are usable.
func (p *HealthProfile) HasBodyMeasurements() bool {
	return p.HeightCM > 0 && p.WeightKG > 0
}

// BMI computes body mass index rounded to one decimal place. Callers must
// check HasBodyMeasurements first; a zero height would divide by zero.
func (p *HealthProfile) BMI() float64 {
	heightM := p.HeightCM / 100
	return math.Round(p.WeightKG/(heightM*heightM)*10) / 10
}
