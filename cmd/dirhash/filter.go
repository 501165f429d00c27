package main

import (
	"github.com/spf13/cobra"

	"github.com/jamesainslie/dirhash/pkg/dirhash/filter"
)

var (
	includePatterns []string
	excludePatterns []string
	recordLimit     int
)

// addFilterFlags registers the record selection flags on cmd.
func addFilterFlags(cmd *cobra.Command, withLimit bool) {
	cmd.Flags().StringSliceVarP(&includePatterns, "include", "i", nil, "only show paths matching these globs")
	cmd.Flags().StringSliceVarP(&excludePatterns, "exclude", "e", nil, "hide paths matching these globs")
	if withLimit {
		cmd.Flags().IntVarP(&recordLimit, "limit", "l", 0, "maximum number of records to show (0 for all)")
	}
}

// buildFilter creates a filter.Filter from the CLI flags.
func buildFilter() (*filter.Filter, error) {
	return filter.New(
		filter.WithInclude(includePatterns...),
		filter.WithExclude(excludePatterns...),
		filter.WithLimit(recordLimit),
	)
}
