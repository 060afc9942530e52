// Command nudge drives the screen-time nudge engine from a terminal.
package main

import (
	"fmt"
	"os"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/config"
	"github.com/danielpatrickdp/adaptive-state/nudge-controller/internal/logging"
)

// #region root

type rootFlags struct {
	configPath string
	dbPath     string
	logLevel   string
}

func main() {
	flags := &rootFlags{}
	root := &cobra.Command{
		Use:           "nudge",
		Short:         "Simulated screen-time nudges with adaptive tone",
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.PersistentFlags().StringVar(&flags.configPath, "config", "nudge.yaml", "path to YAML config")
	root.PersistentFlags().StringVar(&flags.dbPath, "db", "", "SQLite database path (overrides config)")
	root.PersistentFlags().StringVar(&flags.logLevel, "log-level", "", "log level (overrides config)")

	root.AddCommand(newRunCmd(flags), newInspectCmd(flags), newReplayCmd(flags))

	if err := root.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

// #endregion root

// #region helpers

func loadConfig(flags *rootFlags) (config.Config, zerolog.Logger, error) {
	cfg, err := config.Load(flags.configPath)
	if err != nil {
		return cfg, zerolog.Nop(), err
	}
	if flags.dbPath != "" {
		cfg.DBPath = flags.dbPath
	}
	if flags.logLevel != "" {
		cfg.Logging.Level = flags.logLevel
	}
	return cfg, logging.NewLogger(cfg.Logging.Level, cfg.Logging.Format, os.Stderr), nil
}

// #endregion helpers
