package tools

import (
	"strings"
	"testing"
)

func TestRecommendWorkout_ClampsDays(t *testing.T) {
	tests := []struct {
		name     string
		days     int
		wantDays int
		wantLast string
	}{
		{"below range behaves as 2", 1, 2, "2. Full-body B"},
		{"negative behaves as 2", -4, 2, "2. Full-body B"},
		{"above range behaves as 6", 9, 6, "6. Legs"},
		{"in range", 4, 4, "4. Lower"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			got := RecommendWorkout("bulking", tc.days, "barbell")
			clamped := RecommendWorkout("bulking", tc.wantDays, "barbell")
			if got != clamped {
				t.Errorf("Expected output for %d days to equal output for %d days", tc.days, tc.wantDays)
			}
			if !strings.Contains(got, tc.wantLast) {
				t.Errorf("Expected %q in output, got:\n%s", tc.wantLast, got)
			}
		})
	}
}

func TestRecommendWorkout_Format(t *testing.T) {
	got := RecommendWorkout("Strength", 3, "bodyweight")
	want := strings.Join([]string{
		"Goal: Strength | Hari/minggu: 3 | Tanpa alat (bodyweight)",
		"Fokus: fokus compound 3–6 reps, istirahat lebih panjang",
		"Rangka contoh:",
		"1. Push+Quads: Squat/Deadlift, Lunge/Hinge, Calves/Glutes, Core",
		"2. Pull+Hinge: Squat/Deadlift, Lunge/Hinge, Calves/Glutes, Core",
		"3. Full-body+Core: Squat/hinge, Push, Pull, Core, Carry",
		"Catatan: progres 1–2 repetisi/pekan atau +2.5–5% beban bila mampu.",
	}, "\n")
	if got != want {
		t.Errorf("Unexpected output.\nwant:\n%s\ngot:\n%s", want, got)
	}
}

func TestRecommendWorkout_DayBlocks(t *testing.T) {
	got := RecommendWorkout("cutting", 5, "dumbbell")
	for _, line := range []string{
		"Goal: cutting | Hari/minggu: 5 | Dengan alat: dumbbell",
		"1. Push: " + upperBlock,
		"2. Pull: " + upperBlock,
		"3. Legs: " + lowerBlock,
		"4. Upper: " + upperBlock,
		"5. Full-body: " + fullBodyBlock,
	} {
		if !strings.Contains(got, line) {
			t.Errorf("Expected line %q in:\n%s", line, got)
		}
	}
}

func TestRecommendWorkout_UnknownGoalUsesDefaultFocus(t *testing.T) {
	got := RecommendWorkout("marathon", 2, "BodyWeight")
	if !strings.Contains(got, "Fokus: "+defaultWorkoutFocus) {
		t.Errorf("Expected default focus, got:\n%s", got)
	}
	if !strings.Contains(got, "Tanpa alat (bodyweight)") {
		t.Errorf("Expected case-insensitive bodyweight match, got:\n%s", got)
	}
}

func TestRecommendWorkout_Deterministic(t *testing.T) {
	a := RecommendWorkout("kebugaran", 6, "kettlebell")
	b := RecommendWorkout("kebugaran", 6, "kettlebell")
	if a != b {
		t.Fatalf("Expected identical output for identical input")
	}
}
