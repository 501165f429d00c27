package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/dirhash/pkg/dirhash/diff"
	"github.com/jamesainslie/dirhash/pkg/dirhash/digest"
	"github.com/jamesainslie/dirhash/pkg/dirhash/manifest"
	"github.com/jamesainslie/dirhash/pkg/dirhash/output"
)

var diffCmd = &cobra.Command{
	Use:   "diff <old-manifest> <new-manifest|dir>",
	Short: "Compare a manifest with another manifest or a directory",
	Long: `Report the paths added, changed and missing between an older manifest
and a newer one. When the second argument is a directory it is hashed
first, with --algorithm or the configured algorithm, which must match
the algorithm of the old manifest. The old manifest is left out when it
lies inside the directory.

Differences alone do not make the exit status non-zero; unreadable
manifests and entries that cannot be hashed do.`,
	Args: cobra.ExactArgs(2),
	RunE: runDiff,
}

var diffAlgorithm string

func init() {
	diffCmd.Flags().StringVarP(&diffAlgorithm, "algorithm", "a", "", "digest algorithm used when hashing a directory")
	addFilterFlags(diffCmd, false)
	rootCmd.AddCommand(diffCmd)
}

func runDiff(cmd *cobra.Command, args []string) error {
	f, err := buildFilter()
	if err != nil {
		return err
	}
	known, problems := readManifest(args[0])

	var current []manifest.Record
	if info, err := os.Stat(args[1]); err == nil && info.IsDir() {
		alg, err := resolveAlgorithm(diffAlgorithm)
		if err != nil {
			return err
		}
		if err := checkDigestLength(known, alg); err != nil {
			return err
		}
		var dirProblems []string
		current, dirProblems, err = hashDir(args[1], alg, args[0])
		if err != nil {
			return err
		}
		problems = append(problems, dirProblems...)
	} else {
		var fileProblems []string
		current, fileProblems = readManifest(args[1])
		problems = append(problems, fileProblems...)
		if len(known) > 0 && len(current) > 0 && len(known[0].Digest) != len(current[0].Digest) {
			return fmt.Errorf("manifests use digests of different lengths (%d and %d); they were made with different algorithms",
				len(known[0].Digest), len(current[0].Digest))
		}
	}

	if err := render(cmd, &output.Result{
		Source: fmt.Sprintf("%s -> %s", args[0], args[1]),
		Diff:   diff.Compare(f.Select(known), f.Select(current)),
		Errors: problems,
	}); err != nil {
		return err
	}

	if n := len(problems); n > 0 {
		return fmt.Errorf("%d errors while comparing", n)
	}
	return nil
}

// checkDigestLength fails when the digests of known cannot have been
// produced by alg. Without it every file would show up as changed.
func checkDigestLength(known []manifest.Record, alg digest.Algorithm) error {
	if len(known) == 0 {
		return nil
	}
	if n, want := len(known[0].Digest), digest.HexLen(alg); n != want {
		return fmt.Errorf("manifest digests are %d hex characters but %s produces %d; use --algorithm to match the manifest",
			n, alg, want)
	}
	return nil
}

// hashDir returns the manifest records of dir without writing them
// anywhere, plus the messages of the entries that could not be hashed.
// Files named in manifests that lie inside dir are left out.
func hashDir(dir string, alg digest.Algorithm, manifests ...string) ([]manifest.Record, []string, error) {
	root, err := filepath.Abs(dir)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to resolve %s: %w", dir, err)
	}
	var skip []string
	for _, m := range manifests {
		if path, ok := manifestPathIn(root, m); ok {
			skip = append(skip, path)
		}
	}
	h, err := newHasher(string(alg), false, skip...)
	if err != nil {
		return nil, nil, err
	}

	var (
		records  []manifest.Record
		problems []string
	)
	for rec, err := range h.Records(root) {
		if err != nil {
			problems = append(problems, err.Error())
			continue
		}
		records = append(records, rec)
	}
	return records, problems, nil
}
