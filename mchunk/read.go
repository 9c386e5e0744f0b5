package mchunk

import (
	"bufio"
	"errors"
	"fmt"
	"io"
)

// MaxLineSize is the longest line [ReadLines] accepts.
const MaxLineSize = 16 << 20

// ReadChunks reads r to completion,
// returning blocks of size bytes each, except possibly the last.
// An empty reader results in zero blocks.
func ReadChunks(r io.Reader, size int) ([][]byte, error) {
	if size <= 0 {
		return nil, fmt.Errorf("chunk size must be positive (got %d)", size)
	}

	var out [][]byte
	for {
		buf := make([]byte, size)
		n, err := io.ReadFull(r, buf)
		if n > 0 {
			out = append(out, buf[:n:n])
		}

		switch {
		case err == nil:
			continue
		case errors.Is(err, io.EOF), errors.Is(err, io.ErrUnexpectedEOF):
			return out, nil
		default:
			return nil, fmt.Errorf("failed to read chunk %d: %w", len(out), err)
		}
	}
}

// ReadLines reads r to completion, returning one block per line.
// Line terminators ("\n" or "\r\n") are not part of the blocks.
// A final line without a terminator is still a block.
func ReadLines(r io.Reader) ([][]byte, error) {
	s := bufio.NewScanner(r)
	s.Buffer(make([]byte, 0, 64*1024), MaxLineSize)

	var out [][]byte
	for s.Scan() {
		out = append(out, append([]byte(nil), s.Bytes()...))
	}
	if err := s.Err(); err != nil {
		return nil, fmt.Errorf("failed to read line %d: %w", len(out)+1, err)
	}

	return out, nil
}
