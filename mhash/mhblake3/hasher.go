// Package mhblake3 provides a BLAKE3 [mhash.Hasher] with 32-byte output.
package mhblake3

import (
	"github.com/soomrack/MR2024-sub003/mhash"
	"github.com/zeebo/blake3"
)

const (
	Name     = "blake3"
	HashSize = 32
)

type Hasher struct{}

var _ mhash.Hasher = Hasher{}

func (Hasher) Size() int { return HashSize }

func (Hasher) Leaf(in, dst []byte) ([]byte, error) {
	sum := blake3.Sum256(in)
	return append(dst, sum[:]...), nil
}

func (Hasher) Node(left, right, dst []byte) ([]byte, error) {
	h := blake3.New()
	if _, err := h.Write(left); err != nil {
		return dst, &mhash.BackendError{Hasher: Name, Err: err}
	}
	if _, err := h.Write(right); err != nil {
		return dst, &mhash.BackendError{Hasher: Name, Err: err}
	}
	return h.Sum(dst), nil
}
