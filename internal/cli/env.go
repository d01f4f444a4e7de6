package cli

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/hmelgaard/rota/internal/changefeed"
	"github.com/hmelgaard/rota/internal/config"
	"github.com/hmelgaard/rota/internal/db"
	"github.com/hmelgaard/rota/internal/logging"
)

// appEnv bundles the opened store and its repositories for one command
// invocation. Commands open it, do their work, and Close it.
type appEnv struct {
	cfg      *config.Config
	database *db.DB

	events   *db.EventRepository
	tasks    *db.TaskRepository
	settings *db.SettingsRepository
	changes  *db.ChangeRepository
	feed     *changefeed.Feed

	logCloser io.Closer
}

type envOptions struct {
	// logToFile routes logs to the data-dir log file instead of stderr,
	// required when the TUI owns the terminal.
	logToFile bool
}

func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	path, _ := cmd.Flags().GetString("config")
	if path != "" {
		return config.LoadFromFile(path)
	}
	return config.LoadDefault()
}

func openEnv(cmd *cobra.Command, opts envOptions) (*appEnv, error) {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return nil, err
	}
	if err := cfg.EnsureDirectories(); err != nil {
		return nil, err
	}

	logCfg := logging.Config{
		Level:        cfg.Logging.Level,
		Format:       cfg.Logging.Format,
		EnableCaller: cfg.Logging.EnableCaller,
	}
	var logCloser io.Closer
	if opts.logToFile {
		closer, err := logging.InitFile(logCfg, cfg.LogFilePath())
		if err != nil {
			return nil, fmt.Errorf("open log file: %w", err)
		}
		logCloser = closer
	} else {
		logging.Init(logCfg)
	}

	database, err := db.Open(cfg.DatabasePath())
	if err != nil {
		if logCloser != nil {
			logCloser.Close()
		}
		return nil, err
	}
	if _, err := database.MigrateUp(cmd.Context()); err != nil {
		database.Close()
		if logCloser != nil {
			logCloser.Close()
		}
		return nil, fmt.Errorf("migrate database: %w", err)
	}

	changes := db.NewChangeRepository(database)
	return &appEnv{
		cfg:       cfg,
		database:  database,
		events:    db.NewEventRepository(database),
		tasks:     db.NewTaskRepository(database),
		settings:  db.NewSettingsRepository(database),
		changes:   changes,
		feed:      changefeed.New(changefeed.WithAppender(changes)),
		logCloser: logCloser,
	}, nil
}

func (e *appEnv) Close() {
	if e.feed != nil {
		e.feed.Close()
	}
	if e.database != nil {
		e.database.Close()
	}
	if e.logCloser != nil {
		e.logCloser.Close()
	}
}
