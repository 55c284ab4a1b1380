package session

import (
	"fmt"
	"math"
	"slices"
	"strings"

	"fitcoach-backend/internal/models"
)

// ValidationError lists the settings fields that were rejected.
type ValidationError struct {
	Fields map[string]string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("invalid settings: %d field(s)", len(e.Fields))
}

// Normalize fills empty fields from the defaults, clamps numeric fields to
// the ranges the settings form offers and rejects unknown choices.
func Normalize(s models.Settings) (models.Settings, error) {
	d := models.DefaultSettings()
	fields := map[string]string{}

	if s.Model == "" {
		s.Model = d.Model
	}
	if s.Goal == "" {
		s.Goal = d.Goal
	}
	if strings.TrimSpace(s.Equipment) == "" {
		s.Equipment = d.Equipment
	}
	if s.DietPref == "" {
		s.DietPref = d.DietPref
	}
	if s.DaysPerWeek == 0 {
		s.DaysPerWeek = d.DaysPerWeek
	}
	if s.BodyWeightKg == 0 {
		s.BodyWeightKg = d.BodyWeightKg
	}

	if !slices.Contains(models.Models, s.Model) {
		fields["model"] = "must be one of " + strings.Join(models.Models, ", ")
	}
	s.Goal = strings.ToLower(s.Goal)
	if !slices.Contains(models.Goals, s.Goal) {
		fields["goal"] = "must be one of " + strings.Join(models.Goals, ", ")
	}
	s.DietPref = strings.ToLower(s.DietPref)
	if !slices.Contains(models.DietPrefs, s.DietPref) {
		fields["diet_pref"] = "must be one of " + strings.Join(models.DietPrefs, ", ")
	}
	if math.IsNaN(s.Temperature) {
		fields["temperature"] = "must be a number"
	}
	if math.IsNaN(s.BodyWeightKg) {
		fields["body_weight_kg"] = "must be a number"
	}
	if len(fields) > 0 {
		return s, &ValidationError{Fields: fields}
	}

	s.Temperature = math.Max(0, math.Min(1, s.Temperature))
	s.DaysPerWeek = max(2, min(6, s.DaysPerWeek))
	s.BodyWeightKg = math.Max(35, math.Min(200, s.BodyWeightKg))
	return s, nil
}
