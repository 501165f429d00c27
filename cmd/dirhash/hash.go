package main

import (
	"bytes"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/dirhash/pkg/dirhash/diff"
	"github.com/jamesainslie/dirhash/pkg/dirhash/digest"
	"github.com/jamesainslie/dirhash/pkg/dirhash/hasher"
	"github.com/jamesainslie/dirhash/pkg/dirhash/history"
	"github.com/jamesainslie/dirhash/pkg/dirhash/manifest"
	"github.com/jamesainslie/dirhash/pkg/dirhash/output"
)

var hashCmd = &cobra.Command{
	Use:   "hash <dir>",
	Short: "Write the manifest of a directory tree",
	Long: `Hash every regular file below <dir> and write the manifest.

The manifest goes to stdout unless --out is given, in which case a summary
is printed instead. A --out file inside <dir> is left out of its own
manifest. Entries that cannot be hashed are reported on stderr
and left out of the manifest; the exit status is then non-zero.`,
	Args: cobra.ExactArgs(1),
	RunE: runHash,
}

var (
	hashOut         string
	hashAlgorithm   string
	hashStopOnError bool
	hashRecord      bool
)

func init() {
	hashCmd.Flags().StringVarP(&hashOut, "out", "o", "", "write the manifest to this file")
	hashCmd.Flags().StringVarP(&hashAlgorithm, "algorithm", "a", "", "digest algorithm (default from config)")
	hashCmd.Flags().BoolVar(&hashStopOnError, "stop-on-error", false, "abort at the first entry that cannot be hashed")
	hashCmd.Flags().BoolVar(&hashRecord, "record", false, "save the run in the history database")
	rootCmd.AddCommand(hashCmd)
}

// resolveAlgorithm returns the algorithm named by flag, or the configured
// one when flag is empty.
func resolveAlgorithm(flag string) (digest.Algorithm, error) {
	name := flag
	if name == "" {
		name = settings().Algorithm
	}
	return digest.ParseAlgorithm(name)
}

// newHasher builds a hasher for the algorithm named by flag, or the
// configured one when flag is empty. Manifest paths in skip are left out.
func newHasher(flag string, stopOnError bool, skip ...string) (*hasher.Hasher, error) {
	alg, err := resolveAlgorithm(flag)
	if err != nil {
		return nil, err
	}
	return hasher.New(hasher.Options{Algorithm: alg, StopOnError: stopOnError, Skip: skip})
}

// manifestPathIn returns the manifest path file would have in the tree at
// root, and false when file lies outside root.
func manifestPathIn(root, file string) (string, bool) {
	abs, err := filepath.Abs(file)
	if err != nil {
		return "", false
	}
	rel, err := filepath.Rel(root, abs)
	if err != nil || rel == "." || rel == ".." || strings.HasPrefix(rel, ".."+string(filepath.Separator)) {
		return "", false
	}
	return "/" + filepath.ToSlash(rel), true
}

func runHash(cmd *cobra.Command, args []string) error {
	root, err := filepath.Abs(args[0])
	if err != nil {
		return fmt.Errorf("failed to resolve %s: %w", args[0], err)
	}

	// A manifest written into the tree it describes must not list itself.
	var skip []string
	if hashOut != "" {
		if path, ok := manifestPathIn(root, hashOut); ok {
			skip = append(skip, path)
		}
	}

	h, err := newHasher(hashAlgorithm, hashStopOnError || settings().StopOnError, skip...)
	if err != nil {
		return err
	}

	var (
		sink io.Writer = cmd.OutOrStdout()
		file *os.File
	)
	if hashOut != "" {
		file, err = os.Create(hashOut)
		if err != nil {
			return fmt.Errorf("failed to create manifest file: %w", err)
		}
		defer file.Close()
		sink = file
	}

	record := hashRecord || settings().History.Enabled
	var captured bytes.Buffer
	if record {
		sink = io.MultiWriter(sink, &captured)
	}

	summary, runErr := h.Hash(root, sink)
	if summary == nil {
		return runErr
	}
	for _, e := range summary.Errors {
		if runErr != nil && errors.Is(runErr, e) {
			continue
		}
		printError(cmd, e)
	}

	if file != nil {
		if err := file.Close(); err != nil && runErr == nil {
			runErr = fmt.Errorf("failed to close manifest file: %w", err)
		}
	}
	if runErr != nil {
		return runErr
	}

	if record {
		run, err := recordRun(summary, captured.Bytes())
		if err != nil {
			return err
		}
		printVerbose(cmd, "recorded run %s", run.ID)
	}

	if hashOut != "" {
		err := render(cmd, &output.Result{
			Source:    root,
			Algorithm: string(summary.Algorithm),
			Summary: &output.Summary{
				Files:          summary.Files,
				Bytes:          summary.Bytes,
				Errors:         len(summary.Errors),
				Elapsed:        summary.Elapsed,
				ManifestDigest: summary.ManifestDigest,
			},
		})
		if err != nil {
			return err
		}
	}

	if n := len(summary.Errors); n > 0 {
		return fmt.Errorf("%d entries could not be hashed", n)
	}
	return nil
}

// recordRun saves a finished hash run, with the records parsed back from
// the manifest bytes that were written.
func recordRun(summary *hasher.Summary, written []byte) (*history.Run, error) {
	records, err := diff.Collect(manifest.NewReader(bytes.NewReader(written)).All())
	if err != nil {
		return nil, fmt.Errorf("failed to parse written manifest: %w", err)
	}

	messages := make([]string, len(summary.Errors))
	for i, e := range summary.Errors {
		messages[i] = e.Error()
	}

	store, err := openHistory()
	if err != nil {
		return nil, err
	}
	defer store.Close()

	run := &history.Run{
		Root:           summary.Root,
		Algorithm:      string(summary.Algorithm),
		ManifestDigest: summary.ManifestDigest,
		Files:          summary.Files,
		Bytes:          summary.Bytes,
		Errors:         messages,
		Records:        records,
	}
	if err := store.Save(run); err != nil {
		return nil, err
	}
	return run, nil
}
