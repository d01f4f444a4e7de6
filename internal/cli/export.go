package cli

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/hmelgaard/rota/internal/export"
	"github.com/hmelgaard/rota/internal/models"
)

func newExportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "export",
		Short: "Export the timetable",
	}
	cmd.AddCommand(newExportJSONCmd(), newExportICSCmd())
	return cmd
}

func newExportJSONCmd() *cobra.Command {
	var outPath string

	cmd := &cobra.Command{
		Use:   "json",
		Short: "Export every event and its tasks as JSON",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(cmd, envOptions{})
			if err != nil {
				return err
			}
			defer env.Close()

			ctx := cmd.Context()
			events, err := env.events.ListAll(ctx)
			if err != nil {
				return err
			}
			for _, event := range events {
				tree, err := env.tasks.TreeByEvent(ctx, event.ID)
				if err != nil {
					return err
				}
				event.Tasks = tree
			}

			out, closeOut, err := openOutput(outPath)
			if err != nil {
				return err
			}
			defer closeOut()

			return export.WriteJSON(out, export.NewDocument(events))
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default: stdout)")
	return cmd
}

func newExportICSCmd() *cobra.Command {
	var outPath string
	var anchor string
	var weeks int
	var tzName string

	cmd := &cobra.Command{
		Use:   "ics",
		Short: "Export the timetable as an iCalendar feed",
		Long: "Exports every event as VEVENTs anchored to the week containing --anchor\n" +
			"(default: today). With --weeks above 1, events carry a weekly RRULE.",
		RunE: func(cmd *cobra.Command, args []string) error {
			loc := time.Local
			if tzName != "" {
				parsed, err := time.LoadLocation(tzName)
				if err != nil {
					return fmt.Errorf("unknown timezone %q: %w", tzName, err)
				}
				loc = parsed
			}

			anchorTime := time.Now().In(loc)
			if anchor != "" {
				parsed, err := time.ParseInLocation("2006-01-02", anchor, loc)
				if err != nil {
					return fmt.Errorf("anchor must be YYYY-MM-DD: %w", err)
				}
				anchorTime = parsed
			}

			env, err := openEnv(cmd, envOptions{})
			if err != nil {
				return err
			}
			defer env.Close()

			events, err := env.events.ListAll(cmd.Context())
			if err != nil {
				return err
			}

			out, closeOut, err := openOutput(outPath)
			if err != nil {
				return err
			}
			defer closeOut()

			return export.WriteICS(out, events, export.ICSOptions{
				WeekAnchor: anchorTime,
				Weeks:      weeks,
				Location:   loc,
			})
		},
	}

	cmd.Flags().StringVarP(&outPath, "out", "o", "", "Output file (default: stdout)")
	cmd.Flags().StringVar(&anchor, "anchor", "", "Date inside the target week (YYYY-MM-DD)")
	cmd.Flags().IntVar(&weeks, "weeks", 1, "Number of weekly repetitions")
	cmd.Flags().StringVar(&tzName, "tz", "", "IANA timezone (default: local)")
	return cmd
}

func newImportCmd() *cobra.Command {
	var replace bool

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Import a JSON timetable export",
		Long: "Validates and imports a rota JSON export. The import is atomic: a\n" +
			"single invalid event or task rejects the whole file. With --replace the\n" +
			"existing timetable is cleared first.",
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			file, err := os.Open(args[0])
			if err != nil {
				return err
			}
			defer file.Close()

			doc, err := export.ReadJSON(file)
			if err != nil {
				return err
			}

			env, err := openEnv(cmd, envOptions{})
			if err != nil {
				return err
			}
			defer env.Close()

			ctx := cmd.Context()
			err = env.database.Transaction(ctx, func(tx *sql.Tx) error {
				if replace {
					if err := env.events.DeleteAllWithTx(ctx, tx); err != nil {
						return err
					}
				}
				for _, event := range doc.Events {
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
				return err
			}

			env.feed.Publish(ctx, &models.Change{
				Op:         models.ChangeTimetableImported,
				EntityType: models.EntityTimetable,
				EntityID:   args[0],
				Payload:    mustJSON(map[string]int{"events": len(doc.Events)}),
			})
			fmt.Printf("Imported %d events from %s\n", len(doc.Events), args[0])
			return nil
		},
	}

	cmd.Flags().BoolVar(&replace, "replace", false, "Clear the existing timetable before importing")
	return cmd
}

// insertTaskTree writes a task tree depth-first so parents exist before
// their subtasks reference them.
func insertTaskTree(ctx context.Context, env *appEnv, tx *sql.Tx, eventID, parentID string, tasks []*models.Task) error {
	for i, task := range tasks {
		task.EventID = eventID
		task.ParentID = parentID
		task.Position = i
		if err := env.tasks.CreateWithTx(ctx, tx, task); err != nil {
			return err
		}
		if err := insertTaskTree(ctx, env, tx, eventID, task.ID, task.Subtasks); err != nil {
			return err
		}
	}
	return nil
}

func openOutput(path string) (*os.File, func(), error) {
	if path == "" {
		return os.Stdout, func() {}, nil
	}
	file, err := os.Create(path)
	if err != nil {
		return nil, nil, err
	}
	return file, func() { file.Close() }, nil
}
