package main

import (
	"fmt"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/jamesainslie/dirhash/pkg/dirhash/hasher"
	"github.com/jamesainslie/dirhash/pkg/dirhash/manifest"
	"github.com/jamesainslie/dirhash/pkg/dirhash/output"
)

var readCmd = &cobra.Command{
	Use:   "read <manifest>",
	Short: "Parse a manifest file and print its records",
	Long: `Read a manifest file and print its records in the selected format.

Malformed lines are reported and skipped; the exit status is then non-zero.`,
	Args: cobra.ExactArgs(1),
	RunE: runRead,
}

func init() {
	addFilterFlags(readCmd, true)
	rootCmd.AddCommand(readCmd)
}

// readManifest collects the records of the manifest at path together with
// the messages of the records that could not be parsed.
func readManifest(path string) ([]manifest.Record, []string) {
	records := []manifest.Record{}
	var problems []string
	for rec, err := range hasher.ReadAll(afero.NewOsFs(), path) {
		if err != nil {
			problems = append(problems, fmt.Sprintf("%s: %v", path, err))
			continue
		}
		records = append(records, rec)
	}
	return records, problems
}

func runRead(cmd *cobra.Command, args []string) error {
	f, err := buildFilter()
	if err != nil {
		return err
	}
	records, problems := readManifest(args[0])

	if err := render(cmd, &output.Result{
		Source:  args[0],
		Records: f.Apply(records),
		Errors:  problems,
	}); err != nil {
		return err
	}

	if n := len(problems); n > 0 {
		return fmt.Errorf("%d manifest errors", n)
	}
	return nil
}
