// Package guidelines holds the static clinical reference tables the scoring
// agents classify against. Tables are plain values constructed once at
// process start and never mutated, so they are safe for unlimited
// concurrent readers.
//
// Every bucket is a half-open range [Lower, Upper). Buckets are matched in
// declaration order and partition their domain without gaps; the final
// bucket's upper bound is +Inf.
package guidelines

import (
	"math"
	"strings"

	"github.com/longevity-snapshot-server/internal/domain"
)

// Bucket is a named numeric range tagged with an evidence category.
type Bucket struct {
	Name     string
	Lower    float64 // inclusive
	Upper    float64 // exclusive
	Evidence domain.EvidenceCategory
}

// Contains reports whether value falls inside the bucket's range.
func (b Bucket) Contains(value float64) bool {
	return b.Lower <= value && value < b.Upper
}

// Table is an ordered list of buckets for one metric.
type Table struct {
	Name    string
	Source  string // guideline authority cited in assessments
	Buckets []Bucket
}

// Lookup returns the first bucket in declaration order containing value.
func (t Table) Lookup(value float64) (Bucket, bool) {
	for _, b := range t.Buckets {
		if b.Contains(value) {
			return b, true
		}
	}
	return Bucket{}, false
}

// BMI returns the WHO/CDC BMI classification table.
func BMI() Table {
	return Table{
		Name:   "bmi",
		Source: "WHO/CDC BMI Classification",
		Buckets: []Bucket{
			{Name: "underweight", Lower: 0, Upper: 18.5, Evidence: domain.EvidenceClinicalGuidelines},
			{Name: "normal", Lower: 18.5, Upper: 25, Evidence: domain.EvidenceClinicalGuidelines},
			{Name: "overweight", Lower: 25, Upper: 30, Evidence: domain.EvidenceClinicalGuidelines},
			{Name: "obese_class_1", Lower: 30, Upper: 35, Evidence: domain.EvidenceClinicalGuidelines},
			{Name: "obese_class_2", Lower: 35, Upper: 40, Evidence: domain.EvidenceClinicalGuidelines},
			{Name: "obese_class_3", Lower: 40, Upper: math.Inf(1), Evidence: domain.EvidenceClinicalGuidelines},
		},
	}
}

// HeartRateResting returns the resting heart rate classification table.
func HeartRateResting() Table {
	return Table{
		Name:   "heart_rate_resting",
		Source: "American Heart Association",
		Buckets: []Bucket{
			{Name: "bradycardia", Lower: 0, Upper: 60, Evidence: domain.EvidenceClinicalGuidelines},
			{Name: "normal", Lower: 60, Upper: 100, Evidence: domain.EvidenceClinicalGuidelines},
			{Name: "tachycardia", Lower: 100, Upper: math.Inf(1), Evidence: domain.EvidenceClinicalGuidelines},
		},
	}
}

// StressLevel returns the self-reported stress classification table.
func StressLevel() Table {
	return Table{
		Name:   "stress_level",
		Source: "Expert consensus on psychological stress assessment",
		Buckets: []Bucket{
			{Name: "low", Lower: 0, Upper: 4, Evidence: domain.EvidenceExpertOpinion},
			{Name: "moderate", Lower: 4, Upper: 7, Evidence: domain.EvidenceExpertOpinion},
			{Name: "high", Lower: 7, Upper: math.Inf(1), Evidence: domain.EvidenceExpertOpinion},
		},
	}
}

// SleepBands groups the National Sleep Foundation duration bands for one
// age category.
type SleepBands struct {
	AgeCategory      string
	Recommended      Bucket
	MayBeAppropriate []Bucket
	NotRecommended   []Bucket
}

// SleepDuration returns the duration bands for the given age. Age 65 and
// over selects the older-adult bands; everyone else gets the adult bands.
func SleepDuration(age int) SleepBands {
	if age >= 65 {
		return SleepBands{
			AgeCategory: "older_adult",
			Recommended: Bucket{Name: "recommended", Lower: 7, Upper: 8, Evidence: domain.EvidenceClinicalGuidelines},
			MayBeAppropriate: []Bucket{
				{Name: "may_be_appropriate", Lower: 5, Upper: 7, Evidence: domain.EvidenceClinicalGuidelines},
				{Name: "may_be_appropriate", Lower: 8, Upper: 9, Evidence: domain.EvidenceClinicalGuidelines},
			},
			NotRecommended: []Bucket{
				{Name: "not_recommended", Lower: 0, Upper: 5, Evidence: domain.EvidenceClinicalGuidelines},
				{Name: "not_recommended", Lower: 9, Upper: math.Inf(1), Evidence: domain.EvidenceClinicalGuidelines},
			},
		}
	}
	return SleepBands{
		AgeCategory: "adult",
		Recommended: Bucket{Name: "recommended", Lower: 7, Upper: 9, Evidence: domain.EvidenceClinicalGuidelines},
		MayBeAppropriate: []Bucket{
			{Name: "may_be_appropriate", Lower: 6, Upper: 7, Evidence: domain.EvidenceClinicalGuidelines},
			{Name: "may_be_appropriate", Lower: 9, Upper: 10, Evidence: domain.EvidenceClinicalGuidelines},
		},
		NotRecommended: []Bucket{
			{Name: "not_recommended", Lower: 0, Upper: 6, Evidence: domain.EvidenceClinicalGuidelines},
			{Name: "not_recommended", Lower: 10, Upper: math.Inf(1), Evidence: domain.EvidenceClinicalGuidelines},
		},
	}
}

// BloodPressureBucket pairs a systolic and a diastolic range under one
// category name.
type BloodPressureBucket struct {
	Name           string
	SystolicLower  float64
	SystolicUpper  float64
	DiastolicLower float64
	DiastolicUpper float64
	Evidence       domain.EvidenceCategory
}

// MatchesBoth reports whether both readings fall inside this bucket.
func (b BloodPressureBucket) MatchesBoth(systolic, diastolic float64) bool {
	return b.SystolicLower <= systolic && systolic < b.SystolicUpper &&
		b.DiastolicLower <= diastolic && diastolic < b.DiastolicUpper
}

// MatchesEither reports whether at least one reading falls inside this
// bucket's corresponding range.
func (b BloodPressureBucket) MatchesEither(systolic, diastolic float64) bool {
	return (b.SystolicLower <= systolic && systolic < b.SystolicUpper) ||
		(b.DiastolicLower <= diastolic && diastolic < b.DiastolicUpper)
}

// BloodPressure returns the AHA blood pressure categories.
func BloodPressure() []BloodPressureBucket {
	return []BloodPressureBucket{
		{Name: "normal", SystolicLower: 0, SystolicUpper: 120, DiastolicLower: 0, DiastolicUpper: 80, Evidence: domain.EvidenceClinicalGuidelines},
		{Name: "elevated", SystolicLower: 120, SystolicUpper: 130, DiastolicLower: 0, DiastolicUpper: 80, Evidence: domain.EvidenceClinicalGuidelines},
		{Name: "hypertension_stage_1", SystolicLower: 130, SystolicUpper: 140, DiastolicLower: 80, DiastolicUpper: 90, Evidence: domain.EvidenceClinicalGuidelines},
		{Name: "hypertension_stage_2", SystolicLower: 140, SystolicUpper: math.Inf(1), DiastolicLower: 90, DiastolicUpper: math.Inf(1), Evidence: domain.EvidenceClinicalGuidelines},
	}
}

// ClassifyBloodPressure matches both readings against a bucket first; if
// systolic and diastolic land in different categories, it falls back to a
// looser match requiring only one of the two ranges. Ties resolve to the
// first-declared bucket, which may differ from a worse-value-wins policy;
// this mirrors the established behavior and is kept deliberately.
func ClassifyBloodPressure(systolic, diastolic float64) (BloodPressureBucket, bool) {
	buckets := BloodPressure()
	for _, b := range buckets {
		if b.MatchesBoth(systolic, diastolic) {
			return b, true
		}
	}
	for _, b := range buckets {
		if b.MatchesEither(systolic, diastolic) {
			return b, true
		}
	}
	return BloodPressureBucket{}, false
}

// VO2Max returns the ACSM cardiorespiratory fitness table for the given
// gender. Recognized values are male/m and female/f (case-insensitive).
// Any other value selects a table averaging the per-bucket bounds of the
// male and female tables; this is a documented limitation for genders the
// reference data does not represent, not a silent default.
func VO2Max(gender string) Table {
	male := []Bucket{
		{Name: "poor", Lower: 0, Upper: 35, Evidence: domain.EvidenceSystematicReview},
		{Name: "fair", Lower: 35, Upper: 42, Evidence: domain.EvidenceSystematicReview},
		{Name: "good", Lower: 42, Upper: 46, Evidence: domain.EvidenceSystematicReview},
		{Name: "excellent", Lower: 46, Upper: 56, Evidence: domain.EvidenceSystematicReview},
		{Name: "superior", Lower: 56, Upper: math.Inf(1), Evidence: domain.EvidenceSystematicReview},
	}
	female := []Bucket{
		{Name: "poor", Lower: 0, Upper: 28, Evidence: domain.EvidenceSystematicReview},
		{Name: "fair", Lower: 28, Upper: 34, Evidence: domain.EvidenceSystematicReview},
		{Name: "good", Lower: 34, Upper: 40, Evidence: domain.EvidenceSystematicReview},
		{Name: "excellent", Lower: 40, Upper: 50, Evidence: domain.EvidenceSystematicReview},
		{Name: "superior", Lower: 50, Upper: math.Inf(1), Evidence: domain.EvidenceSystematicReview},
	}

	table := Table{Name: "vo2_max", Source: "American College of Sports Medicine"}
	switch strings.ToLower(gender) {
	case "male", "m":
		table.Buckets = male
	case "female", "f":
		table.Buckets = female
	default:
		averaged := make([]Bucket, len(male))
		for i := range male {
			averaged[i] = Bucket{
				Name:     male[i].Name,
				Lower:    (male[i].Lower + female[i].Lower) / 2,
				Upper:    (male[i].Upper + female[i].Upper) / 2,
				Evidence: male[i].Evidence,
			}
		}
		table.Buckets = averaged
	}
	return table
}

// PhysicalActivity holds the WHO/ACSM weekly activity minimums.
type PhysicalActivity struct {
	ModerateWeeklyMinutes int
	VigorousWeeklyMinutes int
	MinimumDays           int
	OptimalDays           int
	Evidence              domain.EvidenceCategory
	Source                string
}

// ActivityGuidelines returns the recommended weekly physical activity
// minimums.
func ActivityGuidelines() PhysicalActivity {
	return PhysicalActivity{
		ModerateWeeklyMinutes: 150,
		VigorousWeeklyMinutes: 75,
		MinimumDays:           3,
		OptimalDays:           5,
		Evidence:              domain.EvidenceClinicalGuidelines,
		Source:                "WHO/ACSM Physical Activity Guidelines",
	}
}
