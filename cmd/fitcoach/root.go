package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"fitcoach-backend/internal/models"
)

var (
	historyPath string
	apiKey      string
	modelName   string
	temperature float64

	goal         string
	daysPerWeek  int
	equipment    string
	bodyWeightKg float64
	dietPref     string
)

var rootCmd = &cobra.Command{
	Use:   "fitcoach",
	Short: "Fitness and nutrition coach in your terminal",
	Long: `FitCoach chats with a Gemini-backed coach that can build weekly workout
programs and daily meal plans.

Quick Start:
  fitcoach chat                                  # Interactive chat
  fitcoach workout --goal strength --days 4      # Workout program, no API key needed
  fitcoach meal --goal cutting --weight 72.5     # Meal plan, no API key needed
  fitcoach export --format yaml                  # Dump chat history`,
	SilenceUsage: true,
	PersistentPreRun: func(cmd *cobra.Command, args []string) {
		godotenv.Load()
		if apiKey == "" {
			apiKey = os.Getenv("GEMINI_API_KEY")
		}
		if apiKey == "" {
			apiKey = os.Getenv("GOOGLE_API_KEY")
		}
	},
}

// Execute runs the root command and exits non-zero on error.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func init() {
	d := models.DefaultSettings()

	rootCmd.PersistentFlags().StringVar(&historyPath, "history", "chat_history.json", "Chat history file")

	for _, c := range []*cobra.Command{chatCmd, workoutCmd} {
		c.Flags().StringVar(&goal, "goal", d.Goal, "Goal: bulking, cutting, kebugaran or strength")
		c.Flags().IntVar(&daysPerWeek, "days", d.DaysPerWeek, "Training days per week (2-6)")
		c.Flags().StringVar(&equipment, "equipment", d.Equipment, "Available equipment")
	}
	for _, c := range []*cobra.Command{chatCmd, mealCmd} {
		if c.Flags().Lookup("goal") == nil {
			c.Flags().StringVar(&goal, "goal", d.Goal, "Goal: bulking, cutting or kebugaran")
		}
		c.Flags().Float64Var(&bodyWeightKg, "weight", d.BodyWeightKg, "Body weight in kg (35-200)")
		c.Flags().StringVar(&dietPref, "diet", d.DietPref, "Diet preference: flexible, halal, vegetarian or vegan")
	}

	chatCmd.Flags().StringVar(&apiKey, "api-key", "", "Gemini API key (default $GEMINI_API_KEY or $GOOGLE_API_KEY)")
	chatCmd.Flags().StringVar(&modelName, "model", d.Model, "Gemini model")
	chatCmd.Flags().Float64Var(&temperature, "temperature", d.Temperature, "Sampling temperature (0.0-1.0)")

	rootCmd.AddCommand(chatCmd, workoutCmd, mealCmd, exportCmd)
}
