// Package tools holds the deterministic recommendation functions the
// agent can call, along with their declarations and a name-keyed registry.
package tools

import (
	"errors"
	"fmt"
	"math"
	"strconv"
	"strings"
	"sync"
)

var (
	ErrUnknownTool = errors.New("unknown tool")
	ErrInvalidArgs = errors.New("invalid tool arguments")
)

// ParamType is the JSON type of a tool parameter.
type ParamType string

const (
	TypeString  ParamType = "string"
	TypeInteger ParamType = "integer"
	TypeNumber  ParamType = "number"
)

// Param describes one named tool parameter.
type Param struct {
	Name        string    `json:"name"`
	Type        ParamType `json:"type"`
	Description string    `json:"description"`
	Enum        []string  `json:"enum,omitempty"`
	Default     any       `json:"default,omitempty"`
	Required    bool      `json:"required"`
}

// Spec is the static declaration of a tool exposed to the agent.
type Spec struct {
	Name        string  `json:"name"`
	Description string  `json:"description"`
	Params      []Param `json:"parameters"`
}

// Tool couples a Spec with its implementation.
type Tool interface {
	Spec() Spec
	Execute(args map[string]any) (string, error)
}

// Registry keeps the mapping between tool names and implementations.
type Registry struct {
	mu    sync.RWMutex
	tools map[string]Tool
	order []string
}

func NewRegistry() *Registry {
	return &Registry{tools: make(map[string]Tool)}
}

// DefaultRegistry returns a registry with recommend_workout and
// recommend_meal_plan registered.
func DefaultRegistry() *Registry {
	r := NewRegistry()
	// Both names are static and distinct, so registration cannot fail.
	_ = r.Register(WorkoutTool{})
	_ = r.Register(MealPlanTool{})
	return r
}

// Register inserts a tool when its name is not in use.
func (r *Registry) Register(t Tool) error {
	if t == nil {
		return fmt.Errorf("tool is nil")
	}
	name := t.Spec().Name
	if name == "" {
		return fmt.Errorf("tool name is empty")
	}

	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.tools[name]; exists {
		return fmt.Errorf("tool %s already registered", name)
	}
	r.tools[name] = t
	r.order = append(r.order, name)
	return nil
}

func (r *Registry) Get(name string) (Tool, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	t, ok := r.tools[name]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownTool, name)
	}
	return t, nil
}

// Specs lists tool declarations in registration order.
func (r *Registry) Specs() []Spec {
	r.mu.RLock()
	defer r.mu.RUnlock()

	specs := make([]Spec, 0, len(r.order))
	for _, name := range r.order {
		specs = append(specs, r.tools[name].Spec())
	}
	return specs
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.order)
}

// Execute runs a registered tool by name.
func (r *Registry) Execute(name string, args map[string]any) (string, error) {
	t, err := r.Get(name)
	if err != nil {
		return "", err
	}
	return t.Execute(args)
}

// WorkoutTool exposes RecommendWorkout.
type WorkoutTool struct{}

func (WorkoutTool) Spec() Spec {
	return Spec{
		Name: "recommend_workout",
		Description: "Buat rekomendasi program latihan mingguan berdasarkan `goal` (bulking/cutting/kebugaran/strength), " +
			"jumlah hari latihan per minggu (`days_per_week`), dan ketersediaan alat (`equipment`).",
		Params: []Param{
			{Name: "goal", Type: TypeString, Description: "Tujuan latihan: bulking, cutting, kebugaran, atau strength.", Required: true},
			{Name: "days_per_week", Type: TypeInteger, Description: "Jumlah hari latihan per minggu (2-6).", Default: 3},
			{Name: "equipment", Type: TypeString, Description: "Alat yang tersedia, mis. bodyweight, dumbbell, barbell.", Default: "bodyweight"},
		},
	}
}

func (WorkoutTool) Execute(args map[string]any) (string, error) {
	goal := stringArg(args, "goal", "")
	if goal == "" {
		return "", fmt.Errorf("%w: goal is required", ErrInvalidArgs)
	}
	days, err := intArg(args, "days_per_week", 3)
	if err != nil {
		return "", err
	}
	equipment := stringArg(args, "equipment", "bodyweight")
	return RecommendWorkout(goal, days, equipment), nil
}

// MealPlanTool exposes RecommendMealPlan.
type MealPlanTool struct{}

func (MealPlanTool) Spec() Spec {
	return Spec{
		Name: "recommend_meal_plan",
		Description: "Buat rekomendasi pola makan harian (kalori & makro) berdasarkan `goal` (bulking/cutting/kebugaran), " +
			"berat badan `body_weight_kg`, dan preferensi diet (`diet_pref`: halal/vegetarian/vegan/flexible).",
		Params: []Param{
			{Name: "goal", Type: TypeString, Description: "Tujuan: bulking, cutting, atau kebugaran.", Required: true},
			{Name: "body_weight_kg", Type: TypeNumber, Description: "Berat badan dalam kilogram (35-200).", Default: 70.0},
			{Name: "diet_pref", Type: TypeString, Description: "Preferensi diet.", Enum: []string{"flexible", "halal", "vegetarian", "vegan"}, Default: "flexible"},
		},
	}
}

func (MealPlanTool) Execute(args map[string]any) (string, error) {
	goal := stringArg(args, "goal", "")
	if goal == "" {
		return "", fmt.Errorf("%w: goal is required", ErrInvalidArgs)
	}
	bw, err := floatArg(args, "body_weight_kg", 70)
	if err != nil {
		return "", err
	}
	diet := stringArg(args, "diet_pref", "flexible")
	return RecommendMealPlan(goal, bw, diet), nil
}

func stringArg(args map[string]any, key, def string) string {
	v, ok := args[key]
	if !ok || v == nil {
		return def
	}
	if s, ok := v.(string); ok {
		return s
	}
	return fmt.Sprint(v)
}

func floatArg(args map[string]any, key string, def float64) (float64, error) {
	v, ok := args[key]
	if !ok || v == nil {
		return def, nil
	}
	switch n := v.(type) {
	case float64:
		return n, nil
	case float32:
		return float64(n), nil
	case int:
		return float64(n), nil
	case int32:
		return float64(n), nil
	case int64:
		return float64(n), nil
	case string:
		f, err := strconv.ParseFloat(strings.TrimSpace(n), 64)
		if err != nil {
			return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidArgs, key)
		}
		return f, nil
	default:
		return 0, fmt.Errorf("%w: %s must be a number", ErrInvalidArgs, key)
	}
}

// intArg truncates fractional values toward zero. Values beyond the int32
// range (and NaN, which goes high) are clamped before conversion.
func intArg(args map[string]any, key string, def int) (int, error) {
	f, err := floatArg(args, key, float64(def))
	if err != nil {
		return 0, err
	}
	return int(clampFloat(f, math.MinInt32, math.MaxInt32)), nil
}
