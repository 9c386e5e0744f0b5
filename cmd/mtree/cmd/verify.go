package cmd

import (
	"errors"
	"fmt"

	"github.com/fatih/color"
	"github.com/soomrack/MR2024-sub003/mhash"
	"github.com/soomrack/MR2024-sub003/mtree"
	"github.com/spf13/cobra"
)

var (
	okColor       = color.New(color.FgGreen, color.Bold)
	mismatchColor = color.New(color.FgRed, color.Bold)
)

func newVerifyCommand(a *app) *cobra.Command {
	var (
		rootHex    string
		recordName string
	)

	cmd := &cobra.Command{
		Use:   "verify <input>",
		Short: "Check an input against a known Merkle root",
		Long: `Rebuild the tree for an input and compare its root with a reference.

The reference is either given directly with --root,
or taken from the newest record stored under --record.
A recorded reference also fixes the hasher and the expected block count.
If the record was made with a different split, a mismatch says so.

Exits with a non-zero status on mismatch.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if (rootHex == "") == (recordName == "") {
				return errors.New("exactly one of --root or --record is required")
			}

			path := args[0]
			cfg := a.buildConfig()
			wantLeaves := -1

			// Set when the record was made with a different split than the current one.
			var splitHint string

			var ref mhash.Digest
			if rootHex != "" {
				d, err := mhash.ParseDigest(rootHex)
				if err != nil {
					return fmt.Errorf("invalid --root: %w", err)
				}
				ref = d
			} else {
				s, err := a.openStore()
				if err != nil {
					return err
				}
				defer s.Close()

				r, err := s.Latest(cmd.Context(), recordName)
				if err != nil {
					return err
				}

				h, err := lookupHasher(r.Hasher)
				if err != nil {
					return fmt.Errorf("record %s: %w", r.ID, err)
				}
				cfg.Hasher = h
				ref = r.Root
				wantLeaves = r.Leaves

				if cur := a.splitDescription(); r.Split != "" && r.Split != cur {
					a.log.Warn(
						"Record was made with a different split",
						"record", r.ID,
						"recorded_split", r.Split,
						"current_split", cur,
					)
					splitHint = fmt.Sprintf(" (recorded with split %s, verifying with %s)", r.Split, cur)
				}
			}

			blocks, err := a.readBlocks(cmd, path)
			if err != nil {
				return err
			}

			ok, err := mtree.Verify(blocks, ref, cfg)
			if err != nil {
				return fmt.Errorf("failed to verify %s: %w", path, err)
			}

			// The root alone cannot tell [a b c] from [a b c c].
			if ok && wantLeaves >= 0 && wantLeaves != len(blocks) {
				a.log.Info(
					"Root matches but block count differs",
					"path", path,
					"want_blocks", wantLeaves,
					"got_blocks", len(blocks),
				)
				ok = false
			}

			out := cmd.OutOrStdout()
			if !ok {
				mismatchColor.Fprint(out, "MISMATCH")
				fmt.Fprintf(out, "  %s%s\n", path, splitHint)
				return errMismatch
			}

			okColor.Fprint(out, "OK")
			fmt.Fprintf(out, "  %s\n", path)
			return nil
		},
	}

	flags := cmd.Flags()
	flags.StringVar(&rootHex, "root", "", "Expected root, hex-encoded")
	flags.StringVar(&recordName, "record", "", "Name of a stored record holding the expected root")

	return cmd
}
