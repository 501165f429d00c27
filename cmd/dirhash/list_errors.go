package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listErrorsCmd = &cobra.Command{
	Use:   "list-errors <dir>",
	Short: "List the entries a hash run would reject",
	Long: `Walk <dir> without reading file content and print one line per entry
that hash would report: symbolic links, special files, names that are not
valid UTF-8 and unreadable directories.`,
	Args: cobra.ExactArgs(1),
	RunE: runListErrors,
}

func init() {
	rootCmd.AddCommand(listErrorsCmd)
}

func runListErrors(cmd *cobra.Command, args []string) error {
	h, err := newHasher("", false)
	if err != nil {
		return err
	}

	n := 0
	for msg := range h.ListErrors(args[0]) {
		fmt.Fprintln(cmd.OutOrStdout(), msg)
		n++
	}
	if n > 0 {
		return fmt.Errorf("%d entries would be rejected", n)
	}
	return nil
}
