package tools

import (
	"fmt"
	"strings"
)

const (
	minDaysPerWeek = 2
	maxDaysPerWeek = 6
)

var weeklySplits = map[int][]string{
	2: {"Full-body A", "Full-body B"},
	3: {"Push+Quads", "Pull+Hinge", "Full-body+Core"},
	4: {"Upper", "Lower", "Upper", "Lower"},
	5: {"Push", "Pull", "Legs", "Upper", "Full-body"},
	6: {"Push", "Pull", "Legs", "Push", "Pull", "Legs"},
}

var workoutFocus = map[string]string{
	"bulking":   "prioritaskan progressive overload, 6–12 reps, 8–16 set/otot/minggu",
	"cutting":   "pertahankan beban, kurangi volume sedikit, tambah kardio ringan",
	"kebugaran": "kombinasi resistance + kardio zona 2, mobilitas",
	"strength":  "fokus compound 3–6 reps, istirahat lebih panjang",
}

const defaultWorkoutFocus = "seimbangkan compound & isolasi, progres bertahap"

const (
	fullBodyBlock = "Squat/hinge, Push, Pull, Core, Carry"
	upperBlock    = "Bench/Overhead, Row/Pull-up, Accessory, Core"
	lowerBlock    = "Squat/Deadlift, Lunge/Hinge, Calves/Glutes, Core"
)

// RecommendWorkout builds a weekly training template. Days outside [2,6]
// are clamped and unknown goals fall back to a balanced focus.
func RecommendWorkout(goal string, daysPerWeek int, equipment string) string {
	days := clampInt(daysPerWeek, minDaysPerWeek, maxDaysPerWeek)
	split := weeklySplits[days]

	focus, ok := workoutFocus[strings.ToLower(goal)]
	if !ok {
		focus = defaultWorkoutFocus
	}

	eq := "Tanpa alat (bodyweight)"
	if strings.ToLower(equipment) != "bodyweight" {
		eq = "Dengan alat: " + equipment
	}

	lines := []string{
		fmt.Sprintf("Goal: %s | Hari/minggu: %d | %s", goal, days, eq),
		"Fokus: " + focus,
		"Rangka contoh:",
	}
	for i, day := range split {
		lines = append(lines, fmt.Sprintf("%d. %s: %s", i+1, day, dayBlock(day)))
	}
	lines = append(lines, "Catatan: progres 1–2 repetisi/pekan atau +2.5–5% beban bila mampu.")

	return strings.Join(lines, "\n")
}

func dayBlock(day string) string {
	switch {
	case strings.Contains(day, "Full-body"):
		return fullBodyBlock
	case day == "Upper" || day == "Push" || day == "Pull":
		return upperBlock
	default:
		return lowerBlock
	}
}

func clampInt(v, lo, hi int) int {
	return max(lo, min(hi, v))
}
