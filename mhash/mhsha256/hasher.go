package mhsha256

import (
	"crypto/sha256"

	"github.com/soomrack/MR2024-sub003/mhash"
)

const (
	Name     = "sha256"
	HashSize = sha256.Size
)

// Hasher is a [mhash.Hasher] backed by the standard library SHA-256.
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
