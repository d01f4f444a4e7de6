// Package cli implements the rota command tree. The bare command launches
// the TUI; subcommands cover scripted access to the same store.
package cli

import (
	"github.com/spf13/cobra"
)

// Execute runs the rota CLI.
func Execute(version string) error {
	return newRootCmd(version).Execute()
}

func newRootCmd(version string) *cobra.Command {
	cmd := &cobra.Command{
		Use:           "rota",
		Short:         "Terminal weekly timetable with a zoomable time grid",
		Long:          "rota keeps a weekly timetable of events and task checklists in a local SQLite store.\nInvoked without a subcommand it opens the interactive grid.",
		SilenceUsage:  true,
		SilenceErrors: true,
		Version:       version,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTUI(cmd)
		},
	}

	cmd.PersistentFlags().String("config", "", "Path to config file (default: search XDG locations)")
	cmd.PersistentFlags().Bool("json", false, "Machine-readable JSON output")

	cmd.AddCommand(
		newEventsCmd(),
		newTasksCmd(),
		newPlanCmd(),
		newExportCmd(),
		newImportCmd(),
		newLogCmd(),
		newUseCmd(),
		newZoomCmd(),
	)

	return cmd
}
