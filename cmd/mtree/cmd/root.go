// Package cmd holds the cobra commands of the mtree command line tool.
package cmd

import (
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"

	"github.com/joho/godotenv"
	"github.com/soomrack/MR2024-sub003/mhash"
	"github.com/spf13/cobra"
)

var (
	Version = "v0.0.0-dev"
	Commit  = ""
)

// errMismatch is returned by commands that found a digest mismatch.
// The mismatch has already been reported on stdout,
// so Execute only turns it into a non-zero exit status.
var errMismatch = errors.New("root mismatch")

// app is the state shared by every subcommand,
// populated once flags have been parsed.
type app struct {
	cfg    *Config
	log    *slog.Logger
	hasher mhash.Hasher
}

func NewRootCommand() *cobra.Command {
	a := new(app)

	root := &cobra.Command{
		Use:   "mtree",
		Short: "Build and verify Merkle trees over blocks of data",
		Long: `mtree splits inputs into blocks, builds a binary Merkle tree over them
and prints, verifies, records or compares the resulting roots.

Settings may be given as flags, as MTREE_* environment variables
(also read from a .env file in the working directory),
or in a configuration file passed with --config.`,
		Version:       versionString(),
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return a.init(cmd)
		},
	}

	setFlags(root.PersistentFlags(), DefaultConfig())

	root.AddCommand(
		newRootDigestCommand(a),
		newVerifyCommand(a),
		newWalkCommand(a),
		newDiffCommand(a),
		newRecordCommand(a),
		newListCommand(a),
	)

	return root
}

func versionString() string {
	if Commit == "" {
		return Version
	}
	return fmt.Sprintf("%s (%s)", Version, Commit)
}

func (a *app) init(cmd *cobra.Command) error {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return fmt.Errorf("failed to load .env file: %w", err)
	}

	cfg, err := loadConfig(cmd.Root().PersistentFlags())
	if err != nil {
		return err
	}

	// Both already checked by Validate.
	lvl, _ := cfg.logLevel()
	h, _ := lookupHasher(cfg.Hasher)

	a.cfg = cfg
	a.hasher = h
	a.log = slog.New(slog.NewTextHandler(cmd.ErrOrStderr(), &slog.HandlerOptions{
		Level: lvl,
	}))

	a.log.Debug(
		"Loaded configuration",
		"hasher", cfg.Hasher,
		"split", cfg.Split,
		"chunk_size", cfg.ChunkSize,
		"parity", cfg.Parity,
		"workers", cfg.Workers,
	)
	return nil
}

// Execute runs the root command and exits the process on failure.
func Execute() {
	err := NewRootCommand().Execute()
	if err == nil {
		return
	}

	if !errors.Is(err, errMismatch) {
		fmt.Fprintln(os.Stderr, "Error:", err)
	}
	os.Exit(1)
}
