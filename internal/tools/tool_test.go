package tools

import (
	"errors"
	"testing"
)

func TestDefaultRegistry_Specs(t *testing.T) {
	r := DefaultRegistry()
	specs := r.Specs()
	if len(specs) != 2 {
		t.Fatalf("Expected 2 specs, got %d", len(specs))
	}
	if specs[0].Name != "recommend_workout" || specs[1].Name != "recommend_meal_plan" {
		t.Errorf("Unexpected spec order: %q, %q", specs[0].Name, specs[1].Name)
	}
	for _, s := range specs {
		if s.Description == "" {
			t.Errorf("Expected description for %s", s.Name)
		}
		if len(s.Params) != 3 {
			t.Errorf("Expected 3 params for %s, got %d", s.Name, len(s.Params))
		}
	}
}

func TestRegistry_RegisterRejectsDuplicates(t *testing.T) {
	r := NewRegistry()
	if err := r.Register(WorkoutTool{}); err != nil {
		t.Fatalf("first register: %v", err)
	}
	if err := r.Register(WorkoutTool{}); err == nil {
		t.Error("Expected error registering duplicate tool")
	}
	if err := r.Register(nil); err == nil {
		t.Error("Expected error registering nil tool")
	}
}

func TestRegistry_ExecuteUnknown(t *testing.T) {
	_, err := DefaultRegistry().Execute("recommend_yoga", nil)
	if !errors.Is(err, ErrUnknownTool) {
		t.Errorf("Expected ErrUnknownTool, got %v", err)
	}
}

func TestWorkoutTool_Execute(t *testing.T) {
	tests := []struct {
		name string
		args map[string]any
		want string
	}{
		{"json float days", map[string]any{"goal": "bulking", "days_per_week": 4.0, "equipment": "barbell"}, RecommendWorkout("bulking", 4, "barbell")},
		{"string days", map[string]any{"goal": "bulking", "days_per_week": "5"}, RecommendWorkout("bulking", 5, "bodyweight")},
		{"defaults", map[string]any{"goal": "cutting"}, RecommendWorkout("cutting", 3, "bodyweight")},
		{"fraction truncates", map[string]any{"goal": "cutting", "days_per_week": 2.9}, RecommendWorkout("cutting", 2, "bodyweight")},
		{"huge days clamp high", map[string]any{"goal": "bulking", "days_per_week": 1e20}, RecommendWorkout("bulking", 6, "bodyweight")},
		{"huge negative days clamp low", map[string]any{"goal": "bulking", "days_per_week": -1e20}, RecommendWorkout("bulking", 2, "bodyweight")},
		{"NaN days clamp high", map[string]any{"goal": "bulking", "days_per_week": "NaN"}, RecommendWorkout("bulking", 6, "bodyweight")},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := DefaultRegistry().Execute("recommend_workout", tc.args)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tc.want {
				t.Errorf("Expected:\n%s\ngot:\n%s", tc.want, got)
			}
		})
	}
}

func TestTools_InvalidArgs(t *testing.T) {
	tests := []struct {
		name string
		tool string
		args map[string]any
	}{
		{"workout missing goal", "recommend_workout", map[string]any{"days_per_week": 3}},
		{"workout bad days", "recommend_workout", map[string]any{"goal": "bulking", "days_per_week": "three"}},
		{"meal missing goal", "recommend_meal_plan", map[string]any{}},
		{"meal bad weight", "recommend_meal_plan", map[string]any{"goal": "bulking", "body_weight_kg": true}},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			_, err := DefaultRegistry().Execute(tc.tool, tc.args)
			if !errors.Is(err, ErrInvalidArgs) {
				t.Errorf("Expected ErrInvalidArgs, got %v", err)
			}
		})
	}
}

func TestMealPlanTool_Execute(t *testing.T) {
	got, err := MealPlanTool{}.Execute(map[string]any{"goal": "bulking", "body_weight_kg": 70, "diet_pref": "halal"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != RecommendMealPlan("bulking", 70, "halal") {
		t.Errorf("Unexpected output:\n%s", got)
	}
}

func TestMealPlanTool_ExecuteClampsNonFiniteWeight(t *testing.T) {
	tests := []struct {
		name   string
		weight any
		want   float64
	}{
		{"NaN string", "NaN", 200},
		{"Inf string", "Inf", 200},
		{"-Inf string", "-Inf", 35},
		{"huge number", 1e300, 200},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got, err := MealPlanTool{}.Execute(map[string]any{"goal": "bulking", "body_weight_kg": tc.weight})
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if want := RecommendMealPlan("bulking", tc.want, "flexible"); got != want {
				t.Errorf("Expected:\n%s\ngot:\n%s", want, got)
			}
		})
	}
}
