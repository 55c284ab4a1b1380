package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"fitcoach-backend/internal/tools"
)

var workoutCmd = &cobra.Command{
	Use:   "workout",
	Short: "Print a weekly workout program",
	Long:  `Print a weekly workout program straight from the recommendation tool, without the agent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), tools.RecommendWorkout(goal, daysPerWeek, equipment))
		return nil
	},
}

var mealCmd = &cobra.Command{
	Use:   "meal",
	Short: "Print a daily meal plan",
	Long:  `Print daily calorie and macro targets straight from the recommendation tool, without the agent.`,
	RunE: func(cmd *cobra.Command, args []string) error {
		fmt.Fprintln(cmd.OutOrStdout(), tools.RecommendMealPlan(goal, bodyWeightKg, dietPref))
		return nil
	},
}
