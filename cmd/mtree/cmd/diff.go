package cmd

import (
	"fmt"

	"github.com/soomrack/MR2024-sub003/mtree"
	"github.com/spf13/cobra"
)

func newDiffCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "diff <input-a> <input-b>",
		Short: "List the blocks that differ between two inputs",
		Long: `Build trees for two inputs with the same number of blocks
and print the index of every block whose digest differs.
Subtrees with equal roots are skipped without being visited.

Exits with a non-zero status if any block differs.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := checkStdinOnce(args); err != nil {
				return err
			}

			ta, err := a.treeFor(cmd, args[0])
			if err != nil {
				return err
			}
			tb, err := a.treeFor(cmd, args[1])
			if err != nil {
				return err
			}

			changed, err := mtree.Diff(ta, tb)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			if changed.None() {
				fmt.Fprintln(out, "no differences")
				return nil
			}

			for i, ok := changed.NextSet(0); ok; i, ok = changed.NextSet(i + 1) {
				fmt.Fprintf(out, "block %d differs\n", i)
			}
			return errMismatch
		},
	}
}
