package main

import (
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/dirhash/pkg/dirhash/config"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Manage configuration",
	Long: `Manage dirhash configuration settings.

Configuration is loaded from:
  1. $XDG_CONFIG_HOME/dirhash/config.yaml (if set)
  2. ~/.config/dirhash/config.yaml

Environment variables override config file settings using the DIRHASH_ prefix:
  DIRHASH_ALGORITHM=blake2b-512
  DIRHASH_HISTORY_ENABLED=true
  DIRHASH_LOGGING_LEVEL=debug`,
}

var configShowCmd = &cobra.Command{
	Use:   "show",
	Short: "Show current configuration",
	Long:  `Display the effective configuration after files and environment are applied.`,
	RunE:  runConfigShow,
}

var configInitCmd = &cobra.Command{
	Use:   "init",
	Short: "Create default configuration file",
	Long:  `Create a default configuration file if one doesn't exist.`,
	RunE:  runConfigInit,
}

var configPathCmd = &cobra.Command{
	Use:   "path",
	Short: "Show configuration file path",
	RunE:  runConfigPath,
}

func init() {
	configCmd.AddCommand(configShowCmd)
	configCmd.AddCommand(configInitCmd)
	configCmd.AddCommand(configPathCmd)
	rootCmd.AddCommand(configCmd)
}

func runConfigShow(cmd *cobra.Command, args []string) error {
	c := settings()
	out := cmd.OutOrStdout()

	fmt.Fprintln(out, "Current Configuration:")
	fmt.Fprintln(out, "----------------------")
	fmt.Fprintf(out, "algorithm:               %s\n", c.Algorithm)
	fmt.Fprintf(out, "stop_on_error:           %t\n", c.StopOnError)
	fmt.Fprintf(out, "output:                  %s\n", c.Output)
	fmt.Fprintf(out, "history.enabled:         %t\n", c.History.Enabled)
	fmt.Fprintf(out, "history.path:            %s\n", c.History.Path)
	fmt.Fprintf(out, "history.retention_days:  %d\n", c.History.RetentionDays)
	fmt.Fprintf(out, "logging.level:           %s\n", c.Logging.Level)
	fmt.Fprintf(out, "logging.path:            %s\n", c.Logging.Path)
	fmt.Fprintf(out, "logging.rotation:        %s, %d days, %d backups, daily=%t\n",
		c.Logging.Rotation.MaxSize, c.Logging.Rotation.MaxAge,
		c.Logging.Rotation.MaxBackups, c.Logging.Rotation.Daily)

	names := make([]string, 0, len(c.Logging.Components))
	for name := range c.Logging.Components {
		names = append(names, name)
	}
	sort.Strings(names)
	for _, name := range names {
		fmt.Fprintf(out, "logging.components.%-6s %s\n", name+":", c.Logging.Components[name])
	}

	fmt.Fprintln(out, "\nEnvironment Overrides:")
	fmt.Fprintln(out, "----------------------")
	envVars := []string{
		"DIRHASH_ALGORITHM",
		"DIRHASH_STOP_ON_ERROR",
		"DIRHASH_OUTPUT",
		"DIRHASH_HISTORY_ENABLED",
		"DIRHASH_HISTORY_PATH",
		"DIRHASH_HISTORY_RETENTION_DAYS",
		"DIRHASH_LOGGING_LEVEL",
		"DIRHASH_LOGGING_PATH",
	}
	anyOverrides := false
	for _, name := range envVars {
		if val := os.Getenv(name); val != "" {
			fmt.Fprintf(out, "%s=%s\n", name, val)
			anyOverrides = true
		}
	}
	if !anyOverrides {
		fmt.Fprintln(out, "(none)")
	}
	return nil
}

func runConfigInit(cmd *cobra.Command, args []string) error {
	path, err := config.ConfigFile()
	if err != nil {
		return fmt.Errorf("failed to get config file path: %w", err)
	}

	if _, err := os.Stat(path); err == nil {
		fmt.Fprintf(cmd.OutOrStdout(), "Config file already exists: %s\n", path)
		return nil
	}

	if _, err := config.WriteDefault(); err != nil {
		return fmt.Errorf("failed to create config file: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Created default config file: %s\n", path)
	return nil
}

func runConfigPath(cmd *cobra.Command, args []string) error {
	path, err := config.ConfigFile()
	if err != nil {
		return fmt.Errorf("failed to get config file path: %w", err)
	}
	fmt.Fprintln(cmd.OutOrStdout(), path)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		printVerbose(cmd, "file does not exist, defaults are used")
	}
	return nil
}
