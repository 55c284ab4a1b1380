package tools

import (
	"fmt"
	"math"
	"strings"
)

const (
	minBodyWeightKg = 35.0
	maxBodyWeightKg = 200.0
	minDailyKcal    = 1200
	minFatGrams     = 20
)

// Macros is the daily energy and macronutrient target, in kcal and grams.
type Macros struct {
	Kcal    int
	Protein int
	Carbs   int
	Fat     int
}

// EstimateMacros applies the goal formula to a clamped body weight.
func EstimateMacros(goal string, bodyWeightKg float64) Macros {
	bw := clampFloat(bodyWeightKg, minBodyWeightKg, maxBodyWeightKg)

	var kcal, p, c float64
	switch strings.ToLower(goal) {
	case "bulking":
		kcal = bw*33 + 250
		p = bw * 1.8
		c = bw * 4.0
	case "cutting":
		kcal = bw*30 - 350
		p = bw * 2.0
		c = bw * 2.5
	default:
		kcal = bw * 31
		p = bw * 1.6
		c = bw * 3.0
	}
	f := (kcal - (p*4 + c*4)) / 9

	return Macros{
		Kcal:    max(minDailyKcal, roundInt(kcal)),
		Protein: roundInt(p),
		Carbs:   roundInt(c),
		Fat:     max(minFatGrams, roundInt(f)),
	}
}

// RecommendMealPlan renders a daily meal pattern with calorie and macro
// targets plus diet-preference caveats.
func RecommendMealPlan(goal string, bodyWeightKg float64, dietPref string) string {
	bw := clampFloat(bodyWeightKg, minBodyWeightKg, maxBodyWeightKg)
	m := EstimateMacros(goal, bw)

	lines := []string{
		fmt.Sprintf("Goal: %s | BB: %.1f kg | Estimasi Kalori: %d kkal", goal, bw, m.Kcal),
		fmt.Sprintf("Makro: Protein %dg | Karbo %dg | Lemak %dg", m.Protein, m.Carbs, m.Fat),
		"Preferensi: " + dietPref,
		"Contoh pembagian 4x makan:",
		"- Sarapan: Protein cepat serap + karbo kompleks + lemak sehat",
		"- Makan siang: Sumber protein utama + sayur berserat + karbo",
		"- Snack: Greek yogurt/kedelai + buah/kacang",
		"- Makan malam: Protein lean + sayur + karbo (cutting: kurangi)",
		"Minum 30–35 ml/kg BB/hari; serat 20–35 g/hari.",
	}

	switch strings.ToLower(dietPref) {
	case "vegetarian", "vegan":
		lines = append(lines, AminoAcidNote)
	case "halal":
		lines = append(lines, HalalNote)
	}

	return strings.Join(lines, "\n")
}

const (
	AminoAcidNote = "Catatan: pastikan kombinasi asam amino lengkap & B12."
	HalalNote     = "Catatan: pastikan sumber protein & suplemen bersertifikat halal."
)

// roundInt rounds half to even.
func roundInt(v float64) int {
	return int(math.RoundToEven(v))
}

// clampFloat maps NaN to hi.
func clampFloat(v, lo, hi float64) float64 {
	if math.IsNaN(v) {
		return hi
	}
	return math.Max(lo, math.Min(hi, v))
}
