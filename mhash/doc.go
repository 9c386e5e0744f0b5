// Package mhash defines the hashing collaborator used by Merkle trees.
//
// The tree never calls a hash function directly.
// Instead it is handed a [Hasher],
// so that the algorithm can be swapped, or replaced in tests,
// without any global state.
//
// Implementations live in subpackages:
// mhsha256 (standard library SHA-256), mhsimd (SIMD-accelerated SHA-256),
// mhblake3 (BLAKE3), and mhsha3 (SHA3-256).
// The mhashtest subpackage holds a compliance suite
// that every implementation is expected to pass.
package mhash
