package main

import (
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/jamesainslie/dirhash/pkg/dirhash/digest"
)

var algorithmsCmd = &cobra.Command{
	Use:   "algorithms",
	Short: "List the supported digest algorithms",
	Args:  cobra.NoArgs,
	RunE:  runAlgorithms,
}

func init() {
	rootCmd.AddCommand(algorithmsCmd)
}

func runAlgorithms(cmd *cobra.Command, args []string) error {
	configured, err := digest.ParseAlgorithm(settings().Algorithm)
	if err != nil {
		configured = digest.Default
	}

	tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "NAME\tHEX LENGTH\t")
	for _, alg := range digest.Algorithms() {
		mark := ""
		if alg == configured {
			mark = "(configured)"
		}
		fmt.Fprintf(tw, "%s\t%d\t%s\n", alg, digest.HexLen(alg), mark)
	}
	return tw.Flush()
}
