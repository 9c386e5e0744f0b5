package cmd

import (
	"strconv"
	"strings"

	"github.com/olekukonko/tablewriter"
	"github.com/spf13/cobra"
)

func newWalkCommand(a *app) *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "walk [input]",
		Short: "Print every node of an input's tree",
		Long: `Print every node of the tree in pre-order,
root first, with its depth below the root.
Padding nodes appear as copies of their left sibling.
With no input, standard input is read.`,
		Args: cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			path := stdinPath
			if len(args) == 1 {
				path = args[0]
			}

			t, err := a.treeFor(cmd, path)
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Depth", "Digest"})
			table.SetAutoWrapText(false)
			table.SetBorder(false)

			for depth, d := range t.Walk() {
				digest := d.Hex()
				if short {
					digest = d.Short()
				}
				table.Append([]string{
					strconv.Itoa(depth),
					strings.Repeat("  ", depth) + digest,
				})
			}

			table.Render()
			return nil
		},
	}

	cmd.Flags().BoolVar(&short, "short", false, "Abbreviate digests")

	return cmd
}
