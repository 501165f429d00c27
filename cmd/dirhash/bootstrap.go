package main

import (
	"github.com/spf13/cobra"

	"github.com/jamesainslie/dirhash/pkg/dirhash/config"
	"github.com/jamesainslie/dirhash/pkg/dirhash/logging"
	"github.com/jamesainslie/dirhash/pkg/dirhash/types"
)

// initializeLogging loads the configuration and starts file logging. It
// runs before every command.
func initializeLogging(cmd *cobra.Command, args []string) error {
	if err := config.EnsureConfigDir(); err != nil {
		return err
	}
	if err := config.EnsureDataDir(); err != nil {
		return err
	}
	if err := config.EnsureStateDir(); err != nil {
		return err
	}

	loaded, err := config.Load()
	if err != nil {
		return err
	}
	cfg = loaded

	logCfg := logging.Config{
		Level:      cfg.Logging.Level,
		Path:       cfg.Logging.Path,
		Rotation:   parseRotationConfig(cfg.Logging.Rotation),
		Components: cfg.Logging.Components,
	}
	if verbose {
		logCfg.ConsoleLevel = "debug"
		if cmd != nil {
			logCfg.Console = cmd.ErrOrStderr()
		}
	}
	if err := logging.Init(logCfg); err != nil {
		return err
	}

	logging.Get("cli").Debug("command started", "args", args)
	return nil
}

// parseRotationConfig converts the configured rotation settings. An empty
// or invalid max_size falls back to the default size.
func parseRotationConfig(rc config.RotationConfig) logging.RotationConfig {
	out := logging.RotationConfig{
		MaxSize:    logging.DefaultRotationConfig().MaxSize,
		MaxAge:     rc.MaxAge,
		MaxBackups: rc.MaxBackups,
		Daily:      rc.Daily,
	}
	if rc.MaxSize != "" {
		if size, err := types.ParseSize(rc.MaxSize); err == nil && size > 0 {
			out.MaxSize = size
		}
	}
	return out
}
