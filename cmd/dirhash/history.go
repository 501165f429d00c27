package main

import (
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/dirhash/pkg/dirhash/config"
	"github.com/jamesainslie/dirhash/pkg/dirhash/diff"
	"github.com/jamesainslie/dirhash/pkg/dirhash/digest"
	"github.com/jamesainslie/dirhash/pkg/dirhash/filter"
	"github.com/jamesainslie/dirhash/pkg/dirhash/history"
	"github.com/jamesainslie/dirhash/pkg/dirhash/output"
)

var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "View recorded hash runs",
	Long: `View the hash runs saved with 'dirhash hash --record' or with
history.enabled set in the configuration.

Each run keeps its full manifest, so two runs can be compared without
the original manifest files.`,
	Args: cobra.NoArgs,
	RunE: runHistory,
}

var historyShowCmd = &cobra.Command{
	Use:   "show <id>",
	Short: "Show the manifest of a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryShow,
}

var historyDiffCmd = &cobra.Command{
	Use:   "diff <old-id> <new-id> | diff <dir>",
	Short: "Compare two recorded runs, or a directory with its latest run",
	Long: `Compare two recorded runs.

With a single directory argument, the directory is hashed with the
algorithm of its most recent recorded run and compared against that run.`,
	Args: cobra.RangeArgs(1, 2),
	RunE: runHistoryDiff,
}

var historyRemoveCmd = &cobra.Command{
	Use:   "rm <id>",
	Short: "Remove a recorded run",
	Args:  cobra.ExactArgs(1),
	RunE:  runHistoryRemove,
}

var historyCleanCmd = &cobra.Command{
	Use:   "clean",
	Short: "Remove runs older than the retention period",
	Long:  `Remove recorded runs older than history.retention_days.`,
	Args:  cobra.NoArgs,
	RunE:  runHistoryClean,
}

var (
	historyLimit int
	historyRoot  string
)

func init() {
	historyCmd.Flags().IntVarP(&historyLimit, "limit", "l", 20, "maximum number of runs to show (0 for all)")
	historyCmd.Flags().StringVarP(&historyRoot, "root", "r", "", "only show runs of this directory")

	addFilterFlags(historyShowCmd, false)
	addFilterFlags(historyDiffCmd, false)

	historyCmd.AddCommand(historyShowCmd)
	historyCmd.AddCommand(historyDiffCmd)
	historyCmd.AddCommand(historyRemoveCmd)
	historyCmd.AddCommand(historyCleanCmd)
	rootCmd.AddCommand(historyCmd)
}

// openHistory opens the configured history database.
func openHistory() (*history.Store, error) {
	path := settings().History.Path
	if path == "" {
		path = config.DefaultHistoryPath()
	}
	store, err := history.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open history: %w", err)
	}
	return store, nil
}

// getRun loads one run, turning a missing ID into a readable error.
func getRun(store *history.Store, id string) (*history.Run, error) {
	run, err := store.Get(id)
	if errors.Is(err, history.ErrNotFound) {
		return nil, fmt.Errorf("no run with id %s", id)
	}
	return run, err
}

func toOutputRun(r *history.Run) output.Run {
	return output.Run{
		ID:             r.ID,
		Root:           r.Root,
		Algorithm:      r.Algorithm,
		CreatedAt:      r.CreatedAt,
		Files:          r.Files,
		Bytes:          r.Bytes,
		Errors:         len(r.Errors),
		ManifestDigest: r.ManifestDigest,
	}
}

func runHistory(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	var runs []history.Run
	if historyRoot != "" {
		root, err := filepath.Abs(historyRoot)
		if err != nil {
			return fmt.Errorf("failed to resolve %s: %w", historyRoot, err)
		}
		runs, err = store.ListRoot(root, historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list history: %w", err)
		}
	} else {
		runs, err = store.List(historyLimit)
		if err != nil {
			return fmt.Errorf("failed to list history: %w", err)
		}
	}

	if len(runs) == 0 {
		fmt.Fprintln(cmd.OutOrStdout(), "No recorded runs.")
		return nil
	}

	result := &output.Result{Source: "history"}
	for i := range runs {
		result.Runs = append(result.Runs, toOutputRun(&runs[i]))
	}
	return render(cmd, result)
}

func runHistoryShow(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	f, err := buildFilter()
	if err != nil {
		return err
	}
	run, err := getRun(store, args[0])
	if err != nil {
		return err
	}

	return render(cmd, &output.Result{
		Source:    run.Root,
		Algorithm: run.Algorithm,
		Records:   f.Apply(run.Records),
		Runs:      []output.Run{toOutputRun(run)},
		Summary: &output.Summary{
			Files:          run.Files,
			Bytes:          run.Bytes,
			Errors:         len(run.Errors),
			ManifestDigest: run.ManifestDigest,
		},
		Errors: run.Errors,
	})
}

func runHistoryDiff(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	f, err := buildFilter()
	if err != nil {
		return err
	}
	if len(args) == 1 {
		return diffLatest(cmd, store, f, args[0])
	}

	older, err := getRun(store, args[0])
	if err != nil {
		return err
	}
	newer, err := getRun(store, args[1])
	if err != nil {
		return err
	}
	if older.Algorithm != newer.Algorithm {
		return fmt.Errorf("runs use different algorithms: %s and %s", older.Algorithm, newer.Algorithm)
	}

	return render(cmd, &output.Result{
		Source:    fmt.Sprintf("%s -> %s", older.ID, newer.ID),
		Algorithm: older.Algorithm,
		Diff:      diff.Compare(f.Select(older.Records), f.Select(newer.Records)),
	})
}

// diffLatest compares dir as it is now with its most recent recorded run.
func diffLatest(cmd *cobra.Command, store *history.Store, f *filter.Filter, dir string) error {
	root, err := filepath.Abs(dir)
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	baseline, err := store.Latest(root)
	if errors.Is(err, history.ErrNotFound) {
		return fmt.Errorf("no recorded runs of %s", root)
	}
	if err != nil {
		return fmt.Errorf("failed to read history: %w", err)
	}
	alg, err := digest.ParseAlgorithm(baseline.Algorithm)
	if err != nil {
		return err
	}

	current, problems, err := hashDir(root, alg)
	if err != nil {
		return err
	}
	if err := render(cmd, &output.Result{
		Source:    fmt.Sprintf("%s -> %s", baseline.ID, root),
		Algorithm: baseline.Algorithm,
		Diff:      diff.Compare(f.Select(baseline.Records), f.Select(current)),
		Errors:    problems,
	}); err != nil {
		return err
	}
	if n := len(problems); n > 0 {
		return fmt.Errorf("%d errors while comparing", n)
	}
	return nil
}

func runHistoryRemove(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	if err := store.Delete(args[0]); err != nil {
		if errors.Is(err, history.ErrNotFound) {
			return fmt.Errorf("no run with id %s", args[0])
		}
		return fmt.Errorf("failed to remove run: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed run %s\n", args[0])
	return nil
}

func runHistoryClean(cmd *cobra.Command, args []string) error {
	store, err := openHistory()
	if err != nil {
		return err
	}
	defer store.Close()

	retentionDays := settings().History.RetentionDays
	if retentionDays <= 0 {
		retentionDays = config.DefaultRetentionDays
	}

	removed, err := store.Cleanup(retentionDays)
	if err != nil {
		return fmt.Errorf("failed to clean history: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Removed %d runs older than %d days\n", removed, retentionDays)
	return nil
}
