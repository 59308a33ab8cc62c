package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"batchme/internal/config"
	"batchme/internal/logging"
)

// setupLogging loads the configuration, initializes the global logger from
// it, and attaches a CLI component logger to the command context. CLI flags
// override the config file: --debug forces debug level.
func setupLogging(cmd *cobra.Command) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	loggingCfg := cfg.Logging
	if debug, _ := cmd.Flags().GetBool("debug"); debug {
		loggingCfg.Level = "debug"
	}

	if err := config.InitLogger(loggingCfg); err != nil {
		return fmt.Errorf("initializing logger: %w", err)
	}

	logger = logging.ComponentLogger(config.Logger, "cli")
	cmd.SetContext(logging.WithContext(cmd.Context(), config.Logger))

	logger.Debug().Str("command", cmd.Name()).Msg("command started")
	return nil
}

// loadConfig returns the compiled-in defaults overlaid with the --config
// file when one is given. A missing explicit config file is an error; no
// flag means defaults only.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	cfg := config.New()

	path, _ := cmd.Flags().GetString("config")
	if path == "" {
		return cfg, nil
	}

	if err := config.ShallowMergeYAML(cfg, path); err != nil {
		return nil, err
	}
	return cfg, nil
}
