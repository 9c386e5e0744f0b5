// Package mhsha3 provides a SHA3-256 [mhash.Hasher].
package mhsha3

import (
	"github.com/soomrack/MR2024-sub003/mhash"
	"golang.org/x/crypto/sha3"
)

const (
	Name     = "sha3-256"
	HashSize = 32
)

type Hasher struct{}

var _ mhash.Hasher = Hasher{}

func (Hasher) Size() int { return HashSize }

func (Hasher) Leaf(in, dst []byte) ([]byte, error) {
	h := sha3.New256()
	if _, err := h.Write(in); err != nil {
		return dst, &mhash.BackendError{Hasher: Name, Err: err}
	}
	return h.Sum(dst), nil
}

func (Hasher) Node(left, right, dst []byte) ([]byte, error) {
	h := sha3.New256()
	if _, err := h.Write(left); err != nil {
		return dst, &mhash.BackendError{Hasher: Name, Err: err}
	}
	if _, err := h.Write(right); err != nil {
		return dst, &mhash.BackendError{Hasher: Name, Err: err}
	}
	return h.Sum(dst), nil
}
