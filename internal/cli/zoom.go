package cli

import (
	"fmt"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/hmelgaard/rota/internal/models"
	"github.com/hmelgaard/rota/internal/timegrid"
)

func newZoomCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "zoom [level]",
		Short: "Show or set the persisted grid zoom level (1-5)",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			env, err := openEnv(cmd, envOptions{})
			if err != nil {
				return err
			}
			defer env.Close()

			ctx := cmd.Context()
			if len(args) == 0 {
				level, err := env.settings.ZoomLevel(ctx)
				if err != nil {
					return err
				}
				fmt.Printf("zoom %d/5 (%d-minute slots)\n", int(level)+1, level.Interval())
				return nil
			}

			parsed, err := strconv.Atoi(args[0])
			if err != nil || parsed < 1 || parsed > 5 {
				return fmt.Errorf("zoom level must be 1-5")
			}
			level := timegrid.ZoomLevel(parsed - 1)
			if err := env.settings.SetZoomLevel(ctx, level); err != nil {
				return err
			}
			env.feed.Publish(ctx, &models.Change{
				Op:         models.ChangeZoomCommitted,
				EntityType: models.EntitySettings,
				EntityID:   "grid.zoom_level",
			})
			fmt.Printf("zoom %d/5 (%d-minute slots)\n", parsed, level.Interval())
			return nil
		},
	}
	return cmd
}
