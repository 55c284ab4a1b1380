package orchestrator

import (
	"fmt"
	"strconv"
	"strings"
)

// WorkoutParams are the quick-workout form values.
type WorkoutParams struct {
	Goal        string `json:"goal"`
	DaysPerWeek int    `json:"days_per_week"`
	Equipment   string `json:"equipment"`
}

// MealParams are the quick-meal form values.
type MealParams struct {
	Goal         string  `json:"goal"`
	BodyWeightKg float64 `json:"body_weight_kg"`
	DietPref     string  `json:"diet_pref"`
}

// WorkoutPrompt names recommend_workout so the agent picks that tool.
func WorkoutPrompt(p WorkoutParams) string {
	return fmt.Sprintf("Buatkan program latihan: goal=%s, days_per_week=%d, equipment=%s. Gunakan tool `recommend_workout`.",
		p.Goal, p.DaysPerWeek, p.Equipment)
}

// MealPrompt names recommend_meal_plan so the agent picks that tool.
func MealPrompt(p MealParams) string {
	return fmt.Sprintf("Buatkan pola makan: goal=%s, body_weight_kg=%s, diet_pref=%s. Gunakan tool `recommend_meal_plan`.",
		p.Goal, formatWeight(p.BodyWeightKg), p.DietPref)
}

// formatWeight prints the shortest exact decimal, always with a fraction
// part: 70 → "70.0", 72.25 → "72.25".
func formatWeight(v float64) string {
	s := strconv.FormatFloat(v, 'f', -1, 64)
	if !strings.Contains(s, ".") {
		s += ".0"
	}
	return s
}
