package cli

import (
	"errors"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"github.com/hmelgaard/rota/internal/tui"
)

func runTUI(cmd *cobra.Command) error {
	if !hasTTY() {
		return errors.New("the grid needs an interactive terminal; use subcommands for scripted access (rota --help)")
	}

	env, err := openEnv(cmd, envOptions{logToFile: true})
	if err != nil {
		return err
	}
	defer env.Close()

	return tui.Run(tui.Config{
		Theme:            env.cfg.TUI.Theme,
		RefreshInterval:  env.cfg.TUI.RefreshInterval,
		BaseSlotHeight:   env.cfg.Grid.BaseSlotHeight,
		SlotGap:          env.cfg.Grid.SlotGap,
		ZoomSensitivity:  env.cfg.Grid.ZoomSensitivity,
		ShowNowIndicator: env.cfg.TUI.ShowNowIndicator,
	}, tui.Deps{
		Events:   env.events,
		Tasks:    env.tasks,
		Settings: env.settings,
		Changes:  env.changes,
		Feed:     env.feed,
	})
}

func hasTTY() bool {
	return term.IsTerminal(int(os.Stdin.Fd())) && term.IsTerminal(int(os.Stdout.Fd()))
}
