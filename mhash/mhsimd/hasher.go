// Package mhsimd provides a SHA-256 [mhash.Hasher]
// using the SIMD-accelerated implementation from spacemeshos/sha256-simd.
//
// Digests are identical to those of the mhsha256 package;
// only the throughput differs, on CPUs with SHA extensions or AVX2.
package mhsimd

import (
	"github.com/soomrack/MR2024-sub003/mhash"
	"github.com/spacemeshos/sha256-simd"
)

const (
	Name     = "sha256-simd"
	HashSize = sha256.Size
)

type Hasher struct{}

var _ mhash.Hasher = Hasher{}

func (Hasher) Size() int { return HashSize }

func (Hasher) Leaf(in, dst []byte) ([]byte, error) {
	h := sha256.New()
	if _, err := h.Write(in); err != nil {
		return dst, &mhash.BackendError{Hasher: Name, Err: err}
	}
	return h.Sum(dst), nil
}

func (Hasher) Node(left, right, dst []byte) ([]byte, error) {
	h := sha256.New()
	if _, err := h.Write(left); err != nil {
		return dst, &mhash.BackendError{Hasher: Name, Err: err}
	}
	if _, err := h.Write(right); err != nil {
		return dst, &mhash.BackendError{Hasher: Name, Err: err}
	}
	return h.Sum(dst), nil
}
