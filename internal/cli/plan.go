package cli

import (
	"database/sql"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/hmelgaard/rota/internal/models"
	"github.com/hmelgaard/rota/internal/planner"
)

func newPlanCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "plan",
		Short: "Generate learning plans via the plan service",
	}
	cmd.AddCommand(newPlanGenerateCmd())
	return cmd
}

func newPlanGenerateCmd() *cobra.Command {
	req := &planner.Request{}
	var difficulty string
	var apply bool

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Request a study plan and optionally apply it to the timetable",
		Long: "Calls the configured plan service to generate a week-by-week study plan.\n" +
			"With --apply, the plan's events and tasks are written to the store in a\n" +
			"single transaction; without it the plan is only printed.",
		RunE: func(cmd *cobra.Command, args []string) error {
			req.Difficulty = difficulty

			env, err := openEnv(cmd, envOptions{})
			if err != nil {
				return err
			}
			defer env.Close()

			ctx := cmd.Context()
			client := planner.NewClient(env.cfg.Planner)
			plan, err := client.Generate(ctx, req)
			if err != nil {
				return err
			}

			if !apply {
				if jsonOutput(cmd) {
					return writeJSON(os.Stdout, plan)
				}
				printPlan(plan)
				return nil
			}

			inserted, err := applyPlan(cmd, env, plan)
			if err != nil {
				return err
			}
			fmt.Printf("Applied plan %q: %d events over %d weeks\n", plan.Skill, inserted, plan.TotalWeeks)
			return nil
		},
	}

	cmd.Flags().StringVar(&req.Skill, "skill", "", "Skill to learn")
	cmd.Flags().StringVar(&req.Duration, "duration", "4 weeks", "Plan duration, e.g. \"4 weeks\"")
	cmd.Flags().IntVar(&req.HoursPerWeek, "hours", 5, "Hours per week")
	cmd.Flags().StringVar(&difficulty, "difficulty", planner.DifficultyBeginner, "beginner, intermediate, or advanced")
	cmd.Flags().StringSliceVar(&req.FocusAreas, "focus", nil, "Focus areas (repeatable)")
	cmd.Flags().BoolVar(&apply, "apply", false, "Write the generated events and tasks to the store")
	_ = cmd.MarkFlagRequired("skill")
	return cmd
}

// applyPlan inserts every generated event and its tasks atomically. Either
// the whole plan lands or none of it does.
func applyPlan(cmd *cobra.Command, env *appEnv, plan *planner.Plan) (int, error) {
	ctx := cmd.Context()
	events := plan.AllEvents()

	err := env.database.Transaction(ctx, func(tx *sql.Tx) error {
		for _, event := range events {
			if err := env.events.CreateWithTx(ctx, tx, event); err != nil {
				return err
			}
			if err := insertTaskTree(ctx, env, tx, event.ID, "", event.Tasks); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return 0, err
	}

	env.feed.Publish(ctx, &models.Change{
		Op:         models.ChangePlanImported,
		EntityType: models.EntityTimetable,
		EntityID:   plan.Skill,
		Payload:    mustJSON(map[string]int{"events": len(events), "weeks": plan.TotalWeeks}),
	})
	return len(events), nil
}

func printPlan(plan *planner.Plan) {
	fmt.Printf("%s — %d weeks\n", plan.Skill, plan.TotalWeeks)
	if plan.Description != "" {
		fmt.Println(plan.Description)
	}
	for _, week := range plan.WeeklyPlans {
		fmt.Printf("\nWeek %d: %s\n", week.Week, week.Title)
		for _, objective := range week.LearningObjectives {
			fmt.Printf("  * %s\n", objective)
		}
		for _, event := range week.Events {
			fmt.Printf("  %s %s – %s  %s\n", models.DayNames[event.Day], event.Start, event.End, event.Title)
			for _, task := range event.Tasks {
				fmt.Printf("      - %s\n", task.Title)
			}
		}
	}
}
