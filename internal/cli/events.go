package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hmelgaard/rota/internal/config"
	"github.com/hmelgaard/rota/internal/models"
)

func newEventsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Manage timetable events",
	}
	cmd.AddCommand(
		newEventsListCmd(),
		newEventsAddCmd(),
		newEventsShowCmd(),
		newEventsRmCmd(),
	)
	return cmd
}

func newEventsListCmd() *cobra.Command {
	var dayFlag string
	var weekFlag int

	cmd := &cobra.Command{
		Use:   "list",
		Short: "List events, optionally for one day or week",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(cmd, envOptions{})
			if err != nil {
				return err
			}
			defer env.Close()

			ctx := cmd.Context()
			var events []*models.Event
			switch {
			case dayFlag != "" && cmd.Flags().Changed("week"):
				day, err := resolveDay(dayFlag)
				if err != nil {
					return err
				}
				events, err = env.events.ListByDayWeek(ctx, day, weekFlag)
				if err != nil {
					return err
				}
			case dayFlag != "":
				day, err := resolveDay(dayFlag)
				if err != nil {
					return err
				}
				events, err = env.events.ListByDay(ctx, day)
				if err != nil {
					return err
				}
			case cmd.Flags().Changed("week"):
				events, err = env.events.ListByWeek(ctx, weekFlag)
				if err != nil {
					return err
				}
			default:
				events, err = env.events.ListAll(ctx)
				if err != nil {
					return err
				}
			}

			if jsonOutput(cmd) {
				return writeJSON(os.Stdout, events)
			}

			rows := make([][]string, 0, len(events))
			for _, e := range events {
				rows = append(rows, []string{
					shortEventID(e.ID),
					models.DayNames[e.Day],
					e.Start + " – " + e.End,
					e.Title,
					e.Location,
				})
			}
			return writeTable(os.Stdout, []string{"ID", "DAY", "TIME", "TITLE", "LOCATION"}, rows)
		},
	}

	cmd.Flags().StringVar(&dayFlag, "day", "", "Day name or ordinal (0=Sunday), defaults to the selected context day")
	cmd.Flags().IntVar(&weekFlag, "week", 0, "Plan week number (0 = hand-entered events)")
	return cmd
}

func newEventsAddCmd() *cobra.Command {
	event := &models.Event{}
	var dayFlag string

	cmd := &cobra.Command{
		Use:   "add",
		Short: "Add an event",
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := resolveDay(dayFlag)
			if err != nil {
				return err
			}
			event.Day = day

			env, err := openEnv(cmd, envOptions{})
			if err != nil {
				return err
			}
			defer env.Close()

			ctx := cmd.Context()
			if err := env.events.Create(ctx, event); err != nil {
				return err
			}
			env.feed.Publish(ctx, &models.Change{
				Op:         models.ChangeEventCreated,
				EntityType: models.EntityEvent,
				EntityID:   event.ID,
				Payload:    mustJSON(map[string]string{"title": event.Title}),
			})

			if jsonOutput(cmd) {
				return writeJSON(os.Stdout, event)
			}
			fmt.Printf("Added %s (%s %s – %s) as %s\n",
				event.Title, models.DayNames[event.Day], event.Start, event.End, shortEventID(event.ID))
			return nil
		},
	}

	cmd.Flags().StringVar(&dayFlag, "day", "", "Day name or ordinal (0=Sunday)")
	cmd.Flags().StringVar(&event.Start, "start", "", "Start time, e.g. \"9:00 AM\"")
	cmd.Flags().StringVar(&event.End, "end", "", "End time, e.g. \"10:30 AM\" (\"12:00 AM\" means midnight)")
	cmd.Flags().StringVar(&event.Title, "title", "", "Event title")
	cmd.Flags().StringVar(&event.Color, "color", "", "Color class, e.g. bg-blue-500")
	cmd.Flags().StringVar(&event.Teacher, "teacher", "", "Teacher or organizer")
	cmd.Flags().StringVar(&event.Location, "location", "", "Location")
	cmd.Flags().StringVar(&event.Description, "description", "", "Description")
	cmd.Flags().IntVar(&event.Week, "week", 0, "Plan week number (0 = not part of a plan)")
	_ = cmd.MarkFlagRequired("start")
	_ = cmd.MarkFlagRequired("end")
	_ = cmd.MarkFlagRequired("title")
	return cmd
}

func newEventsShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show <event-id>",
		Short: "Show one event with its task tree",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(cmd, envOptions{})
			if err != nil {
				return err
			}
			defer env.Close()

			ctx := cmd.Context()
			event, err := env.events.Get(ctx, args[0])
			if err != nil {
				return err
			}
			tree, err := env.tasks.TreeByEvent(ctx, event.ID)
			if err != nil {
				return err
			}

			if jsonOutput(cmd) {
				event.Tasks = tree
				return writeJSON(os.Stdout, event)
			}

			fmt.Printf("%s\n%s %s – %s\n", event.Title, models.DayNames[event.Day], event.Start, event.End)
			if event.Location != "" {
				fmt.Printf("Location: %s\n", event.Location)
			}
			if event.Teacher != "" {
				fmt.Printf("Teacher: %s\n", event.Teacher)
			}
			if event.Description != "" {
				fmt.Printf("\n%s\n", event.Description)
			}
			if len(tree) > 0 {
				fmt.Println()
				printTaskTree(tree, 0)
			}
			return nil
		},
	}
}

func newEventsRmCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "rm <event-id>",
		Short: "Delete an event and its tasks",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(cmd, envOptions{})
			if err != nil {
				return err
			}
			defer env.Close()

			ctx := cmd.Context()
			if err := env.events.Delete(ctx, args[0]); err != nil {
				return err
			}
			env.feed.Publish(ctx, &models.Change{
				Op:         models.ChangeEventDeleted,
				EntityType: models.EntityEvent,
				EntityID:   args[0],
			})
			fmt.Printf("Deleted %s\n", shortEventID(args[0]))
			return nil
		},
	}
}

// resolveDay turns a day flag into an ordinal, falling back to the context
// selection when the flag is empty.
func resolveDay(value string) (int, error) {
	if value == "" {
		stored, err := config.DefaultContextStore().Load()
		if err == nil && stored.HasDay() {
			return stored.DayOrdinal()
		}
		return 0, fmt.Errorf("no day given and no context day selected (try --day or `rota use day <name>`)")
	}
	if ordinal, err := strconv.Atoi(value); err == nil {
		if ordinal < 0 || ordinal > 6 {
			return 0, fmt.Errorf("day ordinal %d out of range 0-6", ordinal)
		}
		return ordinal, nil
	}
	return config.ParseDayName(value)
}

func shortEventID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}

func mustJSON(value any) json.RawMessage {
	data, err := json.Marshal(value)
	if err != nil {
		return nil
	}
	return data
}
