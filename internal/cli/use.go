package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/hmelgaard/rota/internal/config"
	"github.com/hmelgaard/rota/internal/models"
)

func newUseCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "use",
		Short: "Select the working day or event for other commands",
	}
	cmd.AddCommand(
		newUseDayCmd(),
		newUseEventCmd(),
		newUseShowCmd(),
		newUseClearCmd(),
	)
	return cmd
}

func newUseDayCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "day <name>",
		Short: "Select a day (name or 0-6 ordinal)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			day, err := resolveDay(args[0])
			if err != nil {
				return err
			}

			store := config.DefaultContextStore()
			stored, err := store.Load()
			if err != nil {
				return err
			}
			stored.SetDay(day)
			if err := store.Save(stored); err != nil {
				return err
			}
			fmt.Printf("Using %s\n", models.DayNames[day])
			return nil
		},
	}
}

func newUseEventCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "event <event-id>",
		Short: "Select an event (also selects its day)",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(cmd, envOptions{})
			if err != nil {
				return err
			}
			defer env.Close()

			event, err := env.events.Get(cmd.Context(), args[0])
			if err != nil {
				return err
			}

			store := config.DefaultContextStore()
			stored, err := store.Load()
			if err != nil {
				return err
			}
			stored.SetDay(event.Day)
			stored.SetEvent(event.ID, event.Title)
			if err := store.Save(stored); err != nil {
				return err
			}
			fmt.Printf("Using %s\n", stored.String())
			return nil
		},
	}
}

func newUseShowCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "show",
		Short: "Show the current selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			stored, err := config.DefaultContextStore().Load()
			if err != nil {
				return err
			}
			if stored.IsEmpty() {
				fmt.Println("No selection.")
				return nil
			}
			fmt.Println(stored.String())
			return nil
		},
	}
}

func newUseClearCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "clear",
		Short: "Clear the selection",
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.DefaultContextStore().Clear(); err != nil {
				return err
			}
			fmt.Println("Selection cleared.")
			return nil
		},
	}
}
