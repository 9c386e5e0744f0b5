package cmd

import (
	"errors"
	"fmt"
	"io"
	"sync"

	"github.com/panjf2000/ants/v2"
	"github.com/spf13/cobra"
)

// emptyRoot is printed in place of a digest for inputs without blocks.
const emptyRoot = "(empty)"

func newRootDigestCommand(a *app) *cobra.Command {
	var literal bool

	cmd := &cobra.Command{
		Use:   "root [inputs...]",
		Short: "Print the Merkle root of each input",
		Long: `Print the hex-encoded Merkle root of each input, one per line,
followed by the input name. With no inputs, standard input is read.

With --literal, the arguments themselves are the blocks of a single tree.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			out := cmd.OutOrStdout()

			if literal {
				t, err := a.build(literalBlocks(args))
				if err != nil {
					return err
				}
				hex, ok := t.RootHex()
				if !ok {
					hex = emptyRoot
				}
				_, err = fmt.Fprintln(out, hex)
				return err
			}

			if len(args) == 0 {
				args = []string{stdinPath}
			}
			if err := checkStdinOnce(args); err != nil {
				return err
			}
			return a.printRoots(cmd, out, args)
		},
	}

	cmd.Flags().BoolVar(&literal, "literal", false,
		"Treat each argument as one block instead of as an input path")

	return cmd
}

// printRoots hashes the inputs concurrently on a bounded pool
// and prints their roots in argument order.
func (a *app) printRoots(cmd *cobra.Command, out io.Writer, paths []string) error {
	pool, err := ants.NewPool(min(a.cfg.Workers, len(paths)))
	if err != nil {
		return fmt.Errorf("failed to create worker pool: %w", err)
	}
	defer pool.Release()

	roots := make([]string, len(paths))
	errs := make([]error, len(paths))

	var wg sync.WaitGroup
	for i, path := range paths {
		wg.Add(1)
		err := pool.Submit(func() {
			defer wg.Done()

			t, err := a.treeFor(cmd, path)
			if err != nil {
				errs[i] = err
				return
			}

			hex, ok := t.RootHex()
			if !ok {
				hex = emptyRoot
			}
			roots[i] = hex
		})
		if err != nil {
			wg.Done()
			errs[i] = fmt.Errorf("failed to schedule %s: %w", path, err)
		}
	}
	wg.Wait()

	for i, path := range paths {
		if errs[i] != nil {
			continue
		}
		if _, err := fmt.Fprintf(out, "%s  %s\n", roots[i], path); err != nil {
			return err
		}
	}

	return errors.Join(errs...)
}
