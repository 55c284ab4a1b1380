package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/spf13/cobra"

	"fitcoach-backend/internal/agent"
	"fitcoach-backend/internal/conversation"
	"fitcoach-backend/internal/models"
	"fitcoach-backend/internal/orchestrator"
	"fitcoach-backend/internal/session"
	"fitcoach-backend/internal/tools"
)

var chatCmd = &cobra.Command{
	Use:   "chat",
	Short: "Start an interactive coaching chat",
	Long: `Start an interactive chat with the coach. History is kept in --history.

Commands:
  /workout   ask for a workout program using --goal, --days and --equipment
  /meal      ask for a meal plan using --goal, --weight and --diet
  /clear     delete the chat history
  /quit      leave (Ctrl+D works too)`,
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx := cmd.Context()

		settings, err := session.Normalize(models.Settings{
			Model:        modelName,
			Temperature:  temperature,
			Goal:         goal,
			DaysPerWeek:  daysPerWeek,
			Equipment:    equipment,
			BodyWeightKg: bodyWeightKg,
			DietPref:     dietPref,
		})
		if err != nil {
			return err
		}

		store, err := conversation.Open(ctx, conversation.NewFileSink(historyPath))
		if err != nil {
			return fmt.Errorf("failed to open history: %w", err)
		}

		out := cmd.OutOrStdout()
		var invoker orchestrator.Invoker
		if apiKey == "" {
			fmt.Fprintln(out, warnStyle.Render(session.WarningNoAPIKey))
		} else {
			a, err := agent.Build(ctx, agent.Config{
				APIKey:      apiKey,
				Model:       settings.Model,
				Temperature: settings.Temperature,
			}, tools.DefaultRegistry())
			if err != nil {
				fmt.Fprintln(out, warnStyle.Render(fmt.Sprintf("Agent tidak tersedia: %v", err)))
			} else {
				defer a.Close()
				invoker = a
			}
		}

		r := &repl{
			orch:     orchestrator.New(store, invoker),
			settings: settings,
			out:      out,
		}
		return r.run(ctx, cmd.InOrStdin())
	},
}

type repl struct {
	orch     *orchestrator.Orchestrator
	settings models.Settings
	out      io.Writer
}

func (r *repl) run(ctx context.Context, in io.Reader) error {
	fmt.Fprintln(r.out, titleStyle.Render("🏋️ FitCoach"))
	fmt.Fprintln(r.out, hintStyle.Render("Ketik pertanyaan, atau /workout, /meal, /clear, /quit"))
	r.print(r.orch.Store().Messages())

	scanner := bufio.NewScanner(in)
	for {
		fmt.Fprint(r.out, userStyle.Render("> "))
		if !scanner.Scan() {
			fmt.Fprintln(r.out)
			return scanner.Err()
		}
		quit, err := r.handle(ctx, scanner.Text())
		if err != nil {
			return err
		}
		if quit {
			return nil
		}
	}
}

// handle runs one input line and reports whether the user asked to quit.
func (r *repl) handle(ctx context.Context, line string) (bool, error) {
	line = strings.TrimSpace(line)

	var (
		out orchestrator.Outcome
		err error
	)
	switch line {
	case "":
		return false, nil
	case "/quit", "/exit":
		return true, nil
	case "/clear":
		if err := r.orch.Store().Clear(ctx); err != nil {
			return false, fmt.Errorf("failed to clear history: %w", err)
		}
		fmt.Fprintln(r.out, hintStyle.Render("Riwayat chat dihapus."))
		return false, nil
	case "/workout":
		out, err = r.orch.QuickWorkout(ctx, orchestrator.WorkoutParams{
			Goal:        r.settings.Goal,
			DaysPerWeek: r.settings.DaysPerWeek,
			Equipment:   r.settings.Equipment,
		})
	case "/meal":
		out, err = r.orch.QuickMeal(ctx, orchestrator.MealParams{
			Goal:         r.settings.Goal,
			BodyWeightKg: r.settings.BodyWeightKg,
			DietPref:     r.settings.DietPref,
		})
	default:
		out, err = r.orch.Submit(ctx, line)
	}
	if err != nil {
		return false, err
	}

	// The typed line is already on screen.
	appended := out.Appended
	if !strings.HasPrefix(line, "/") && len(appended) > 0 {
		appended = appended[1:]
	}
	r.print(appended)
	if !out.AgentAvailable {
		fmt.Fprintln(r.out, warnStyle.Render("Pesan disimpan; agent belum aktif."))
	}
	return false, nil
}

func (r *repl) print(msgs []models.ChatMessage) {
	for _, m := range msgs {
		fmt.Fprintf(r.out, "%s: %s\n", roleLabel(m.Role), m.Content)
	}
}
