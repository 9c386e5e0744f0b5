// Package mhashtest contains test utilities for [mhash.Hasher] implementations
// and for code that consumes them.
package mhashtest

import (
	"errors"
	"hash/fnv"
	"sync/atomic"

	"github.com/soomrack/MR2024-sub003/mhash"
)

// FNV32 is a simple, test-only hasher producing 4-byte digests.
// Short digests keep hand-computed expectations in tests readable.
type FNV32 struct{}

func (FNV32) Size() int { return 4 }

func (FNV32) Leaf(in, dst []byte) ([]byte, error) {
	h := fnv.New32()
	_, _ = h.Write(in)
	return h.Sum(dst), nil
}

func (FNV32) Node(left, right, dst []byte) ([]byte, error) {
	h := fnv.New32()
	_, _ = h.Write(left)
	_, _ = h.Write(right)
	return h.Sum(dst), nil
}

// FNV32Hash returns the FNV32 digest of in,
// for building expected values in tests.
func FNV32Hash(in string) []byte {
	h := fnv.New32()
	_, _ = h.Write([]byte(in))
	return h.Sum(nil)
}

// ErrInjected is the error returned by [*Failing] once it trips.
var ErrInjected = errors.New("injected hash failure")

// Failing wraps another Hasher and starts failing
// once it has been called more than Succeed times in total,
// counting both Leaf and Node calls.
type Failing struct {
	Hasher  mhash.Hasher
	Succeed int64

	calls atomic.Int64
}

// Calls reports how many times f has been called so far.
func (f *Failing) Calls() int64 {
	return f.calls.Load()
}

func (f *Failing) Size() int { return f.Hasher.Size() }

func (f *Failing) Leaf(in, dst []byte) ([]byte, error) {
	if f.calls.Add(1) > f.Succeed {
		return dst, &mhash.BackendError{Hasher: "failing", Err: ErrInjected}
	}
	return f.Hasher.Leaf(in, dst)
}

func (f *Failing) Node(left, right, dst []byte) ([]byte, error) {
	if f.calls.Add(1) > f.Succeed {
		return dst, &mhash.BackendError{Hasher: "failing", Err: ErrInjected}
	}
	return f.Hasher.Node(left, right, dst)
}
