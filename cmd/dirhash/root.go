package main

import (
	"bytes"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/dirhash/pkg/dirhash/config"
	"github.com/jamesainslie/dirhash/pkg/dirhash/logging"
	"github.com/jamesainslie/dirhash/pkg/dirhash/output"
)

var (
	verbose      bool
	outputFormat string

	// cfg is loaded by initializeLogging before any command runs.
	cfg *config.Config

	rootCmd = &cobra.Command{
		Use:   "dirhash",
		Short: "Hash directory trees into deterministic manifests",
		Long: `Dirhash walks a directory tree and writes one line per regular file:
the hex digest of its content, a space, and its path relative to the root.
Lines are sorted by path, so two manifests of the same tree are identical.

Symbolic links and special files are reported as errors and never followed.

Examples:
  dirhash hash ./photos > photos.manifest     # Write a manifest
  dirhash hash -a blake2b-512 -o m.txt .      # Other algorithm, to a file
  dirhash list-errors ./photos                # What would be skipped
  dirhash read photos.manifest -O json        # Re-read a manifest
  dirhash diff photos.manifest ./photos       # Compare against the tree
  dirhash history                             # Recorded runs`,
		SilenceUsage:      true,
		PersistentPreRunE: initializeLogging,
		PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
			return logging.Close()
		},
	}
)

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "log debug output to stderr")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "O", "",
		fmt.Sprintf("output format: %v (default from config)", output.Available()))
}

// Execute runs the root command.
func Execute() error {
	return rootCmd.Execute()
}

// settings returns the loaded configuration, or the defaults when no
// command hook has loaded one.
func settings() *config.Config {
	if cfg != nil {
		return cfg
	}
	return &config.Config{
		Algorithm: config.DefaultAlgorithm,
		Output:    config.DefaultOutput,
		History: config.HistoryConfig{
			Path:          config.DefaultHistoryPath(),
			RetentionDays: config.DefaultRetentionDays,
		},
	}
}

// render formats result with the selected formatter and writes it to the
// command's output.
func render(cmd *cobra.Command, result *output.Result) error {
	name := outputFormat
	if name == "" {
		name = settings().Output
	}
	formatter, err := output.Get(name)
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := formatter.Format(&buf, result); err != nil {
		return fmt.Errorf("failed to format output: %w", err)
	}
	_, err = cmd.OutOrStdout().Write(buf.Bytes())
	return err
}

// printError writes one reported error to the command's error stream.
func printError(cmd *cobra.Command, err error) {
	fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
}

// printVerbose writes a progress line to stderr in verbose mode.
func printVerbose(cmd *cobra.Command, format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(cmd.ErrOrStderr(), format+"\n", args...)
	}
}
