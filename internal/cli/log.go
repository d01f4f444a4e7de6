package cli

import (
	"os"
	"time"

	"github.com/spf13/cobra"
)

func newLogCmd() *cobra.Command {
	var limit int
	var before string

	cmd := &cobra.Command{
		Use:   "log",
		Short: "Show recent timetable changes, newest first",
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(cmd, envOptions{})
			if err != nil {
				return err
			}
			defer env.Close()

			changes, err := env.changes.ListBefore(cmd.Context(), before, limit)
			if err != nil {
				return err
			}

			if jsonOutput(cmd) {
				return writeJSON(os.Stdout, changes)
			}

			rows := make([][]string, 0, len(changes))
			for _, change := range changes {
				rows = append(rows, []string{
					change.Timestamp.Local().Format(time.DateTime),
					string(change.Op),
					string(change.EntityType),
					shortEventID(change.EntityID),
				})
			}
			return writeTable(os.Stdout, []string{"WHEN", "OP", "ENTITY", "ID"}, rows)
		},
	}

	cmd.Flags().IntVar(&limit, "limit", 50, "Maximum entries to show")
	cmd.Flags().StringVar(&before, "before", "", "Page from the change with this ID, exclusive")
	return cmd
}
