package cmd

import (
	"fmt"
	"os"
	"time"

	"code.cloudfoundry.org/bytefmt"
	"github.com/olekukonko/tablewriter"
	"github.com/soomrack/MR2024-sub003/mrecord"
	"github.com/spf13/cobra"
)

func newRecordCommand(a *app) *cobra.Command {
	var export string

	cmd := &cobra.Command{
		Use:   "record <name> <input>",
		Short: "Store the Merkle root of an input under a name",
		Long: `Build the tree for an input and store its root, hasher and block count
under the given name, for later use with "verify --record".

With --export, the record is also written to a file in CBOR encoding.`,
		Args: cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			name, path := args[0], args[1]

			t, err := a.treeFor(cmd, path)
			if err != nil {
				return err
			}

			r, err := mrecord.NewRecord(name, a.cfg.Hasher, t)
			if err != nil {
				return err
			}
			r.Split = a.splitDescription()

			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			if err := s.Put(cmd.Context(), r); err != nil {
				return err
			}

			if export != "" {
				b, err := r.MarshalBinary()
				if err != nil {
					return err
				}
				if err := os.WriteFile(export, b, 0o644); err != nil {
					return fmt.Errorf("failed to export record: %w", err)
				}
				a.log.Info(
					"Exported record",
					"id", r.ID,
					"path", export,
					"size", bytefmt.ByteSize(uint64(len(b))),
				)
			}

			_, err = fmt.Fprintf(cmd.OutOrStdout(), "%s  %s  %s\n", r.ID, r.Root.Hex(), r.Name)
			return err
		},
	}

	cmd.Flags().StringVar(&export, "export", "", "Also write the record to this file")

	return cmd
}

func newListCommand(a *app) *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored records, newest first",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			s, err := a.openStore()
			if err != nil {
				return err
			}
			defer s.Close()

			records, err := s.List(cmd.Context())
			if err != nil {
				return err
			}

			table := tablewriter.NewWriter(cmd.OutOrStdout())
			table.SetHeader([]string{"Name", "Hasher", "Blocks", "Root", "Created"})
			table.SetAutoWrapText(false)
			table.SetBorder(false)

			for _, r := range records {
				table.Append([]string{
					r.Name,
					r.Hasher,
					fmt.Sprint(r.Leaves),
					r.Root.Short(),
					r.Created.Local().Format(time.DateTime),
				})
			}

			table.Render()
			return nil
		},
	}
}
