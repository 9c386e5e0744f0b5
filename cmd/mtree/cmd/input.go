package cmd

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/soomrack/MR2024-sub003/mchunk"
	"github.com/soomrack/MR2024-sub003/mrecord"
	"github.com/soomrack/MR2024-sub003/mtree"
	"github.com/spf13/cobra"
)

// stdinPath names standard input in place of a file path.
const stdinPath = "-"

// readBlocks divides the input at path into blocks
// according to the configured split mode.
func (a *app) readBlocks(cmd *cobra.Command, path string) ([][]byte, error) {
	var r io.Reader
	if path == stdinPath {
		r = cmd.InOrStdin()
	} else {
		f, err := os.Open(path)
		if err != nil {
			return nil, fmt.Errorf("failed to open input: %w", err)
		}
		defer f.Close()
		r = f
	}

	if a.cfg.Split == SplitLines {
		blocks, err := mchunk.ReadLines(r)
		if err != nil {
			return nil, fmt.Errorf("failed to read lines from %s: %w", path, err)
		}
		return blocks, nil
	}

	// Validated at startup.
	size, _ := a.cfg.chunkSizeBytes()

	if a.cfg.Parity == 0 {
		blocks, err := mchunk.ReadChunks(r, size)
		if err != nil {
			return nil, fmt.Errorf("failed to read chunks from %s: %w", path, err)
		}
		return blocks, nil
	}

	// Erasure coding needs the whole input at once.
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	chunks, err := mchunk.Split(data, mchunk.SplitConfig{
		ChunkSize:   size,
		ParityRatio: float32(a.cfg.Parity),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to split %s: %w", path, err)
	}
	a.log.Debug(
		"Split input",
		"path", path,
		"data_chunks", chunks.NumData,
		"parity_chunks", chunks.NumParity,
	)
	return chunks.Shards, nil
}

// splitDescription names the configured split, as stored in records.
func (a *app) splitDescription() string {
	if a.cfg.Split == SplitLines {
		return SplitLines
	}

	size, _ := a.cfg.chunkSizeBytes()
	desc := fmt.Sprintf("%s:%d", SplitChunks, size)
	if a.cfg.Parity > 0 {
		desc += fmt.Sprintf("+parity:%g", a.cfg.Parity)
	}
	return desc
}

// checkStdinOnce rejects argument lists naming standard input more than once,
// since it can only be consumed a single time.
func checkStdinOnce(paths []string) error {
	seen := false
	for _, p := range paths {
		if p != stdinPath {
			continue
		}
		if seen {
			return fmt.Errorf("standard input (%q) may be given only once", stdinPath)
		}
		seen = true
	}
	return nil
}

func (a *app) buildConfig() mtree.BuildConfig {
	return mtree.BuildConfig{
		Hasher:  a.hasher,
		Workers: a.cfg.Workers,
	}
}

func (a *app) build(blocks [][]byte) (*mtree.Tree, error) {
	t, err := mtree.Build(blocks, a.buildConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to build tree: %w", err)
	}
	return t, nil
}

// treeFor reads the input at path and builds its tree.
func (a *app) treeFor(cmd *cobra.Command, path string) (*mtree.Tree, error) {
	blocks, err := a.readBlocks(cmd, path)
	if err != nil {
		return nil, err
	}

	t, err := mtree.Build(blocks, a.buildConfig())
	if err != nil {
		return nil, fmt.Errorf("failed to build tree for %s: %w", path, err)
	}

	a.log.Debug("Built tree", "path", path, "leaves", t.NumLeaves(), "height", t.Height())
	return t, nil
}

// literalBlocks treats every argument as one block.
func literalBlocks(args []string) [][]byte {
	blocks := make([][]byte, len(args))
	for i, arg := range args {
		blocks[i] = []byte(arg)
	}
	return blocks
}

func (a *app) openStore() (*mrecord.Store, error) {
	if err := os.MkdirAll(filepath.Dir(a.cfg.DB), 0o755); err != nil {
		return nil, fmt.Errorf("failed to create database directory: %w", err)
	}
	return mrecord.Open(a.log, a.cfg.DB)
}
