// Package mchunk produces the ordered block sequences that trees are built from.
//
// [Split] cuts a byte slice into fixed-size chunks,
// optionally extended with Reed-Solomon parity chunks
// so that lost or damaged chunks can later be rebuilt with [Reconstruct].
// [ReadChunks] and [ReadLines] produce blocks from an [io.Reader].
package mchunk

import (
	"errors"
	"fmt"

	"github.com/klauspost/reedsolomon"
)

// SplitConfig is the config for [Split].
type SplitConfig struct {
	// Maximum size of each chunk, in bytes.
	ChunkSize int

	// ParityRatio indicates the desired ratio of
	// parity chunks to data chunks.
	// For example, ParityRatio=0.25 means there will be
	// one parity chunk for every four data chunks.
	// The parity count is rounded down
	// if the ratio does not result in a whole number.
	// Zero disables erasure coding.
	ParityRatio float32
}

// Chunks is the value returned by [Split].
type Chunks struct {
	// The data chunks, followed by the parity chunks.
	Shards [][]byte

	// The number of data and parity chunks.
	NumData, NumParity int
}

// Split divides data into chunks according to cfg.
//
// Without parity, every chunk is ChunkSize bytes except possibly the last,
// and the chunks reference data directly.
//
// With parity, data is erasure-coded:
// the data chunks are all the same size, the last one zero-padded,
// and NumParity parity chunks of that size follow them.
//
// Empty data results in zero chunks.
func Split(data []byte, cfg SplitConfig) (Chunks, error) {
	if cfg.ChunkSize <= 0 {
		return Chunks{}, fmt.Errorf("chunk size must be positive (got %d)", cfg.ChunkSize)
	}
	if cfg.ParityRatio < 0 {
		return Chunks{}, fmt.Errorf("parity ratio must be non-negative (got %g)", cfg.ParityRatio)
	}

	if len(data) == 0 {
		return Chunks{}, nil
	}

	nData := len(data) / cfg.ChunkSize
	if len(data)%cfg.ChunkSize > 0 {
		nData++
	}
	nParity := int(cfg.ParityRatio * float32(nData))

	if nParity == 0 {
		shards := make([][]byte, nData)
		for i := range shards {
			start := i * cfg.ChunkSize
			end := min(start+cfg.ChunkSize, len(data))
			shards[i] = data[start:end:end]
		}
		return Chunks{Shards: shards, NumData: nData}, nil
	}

	enc, err := reedsolomon.New(
		nData, nParity,
		reedsolomon.WithAutoGoroutines(cfg.ChunkSize),
	)
	if err != nil {
		return Chunks{}, fmt.Errorf(
			"failed to build Reed-Solomon encoder for %d data and %d parity chunks: %w",
			nData, nParity, err,
		)
	}

	// The encoder uses any spare capacity of its input for parity,
	// so hide the caller's spare capacity from it.
	shards, err := enc.Split(data[:len(data):len(data)])
	if err != nil {
		return Chunks{}, fmt.Errorf("failed to split data for chunking: %w", err)
	}

	if err := enc.Encode(shards); err != nil {
		return Chunks{}, fmt.Errorf("failed to erasure-code data: %w", err)
	}

	return Chunks{
		Shards:    shards,
		NumData:   nData,
		NumParity: nParity,
	}, nil
}

// Reconstruct rebuilds, in place, every nil shard in c
// from the remaining data and parity shards.
// At least NumData shards must be present.
func Reconstruct(c Chunks) error {
	if len(c.Shards) != c.NumData+c.NumParity {
		return fmt.Errorf(
			"have %d shards but expected %d data and %d parity",
			len(c.Shards), c.NumData, c.NumParity,
		)
	}

	if c.NumParity == 0 {
		for i, s := range c.Shards {
			if s == nil {
				return fmt.Errorf("shard %d is missing and there are no parity shards", i)
			}
		}
		return nil
	}

	enc, err := reedsolomon.New(c.NumData, c.NumParity)
	if err != nil {
		return fmt.Errorf("failed to build Reed-Solomon decoder: %w", err)
	}

	if err := enc.Reconstruct(c.Shards); err != nil {
		if errors.Is(err, reedsolomon.ErrTooFewShards) {
			return fmt.Errorf("too many shards missing to reconstruct: %w", err)
		}
		return fmt.Errorf("failed to reconstruct shards: %w", err)
	}

	return nil
}
