package mtree

import (
	"bytes"
	"fmt"

	"github.com/soomrack/MR2024-sub003/mhash"
)

// Tree is a binary Merkle tree built by [Build].
//
// The zero value is not usable; an empty tree is returned
// from Build when it is given no blocks.
type Tree struct {
	// View into the backing mem slice, one entry per node,
	// the bottom level first and the root last.
	nodes [][]byte

	// Bottom level first.
	levels []level

	nLeaves  int
	hashSize int
}

// level describes one row of the tree within the nodes slice.
type level struct {
	// Index of the level's first node in Tree.nodes.
	start int

	// Number of nodes in the level, including any padding node.
	width int

	// Whether the final node in the level is a copy of its left sibling.
	padded bool
}

// isPad reports whether the node at index i within the level is padding.
func (l level) isPad(i int) bool {
	return l.padded && i == l.width-1
}

// layout returns the level shapes for a tree with nLeaves leaves,
// and the total number of nodes across all levels.
func layout(nLeaves int) ([]level, int) {
	if nLeaves <= 0 {
		return nil, 0
	}

	var levels []level
	start := 0
	width := nLeaves
	for {
		l := level{start: start, width: width}
		if width > 1 && width&1 == 1 {
			l.width++
			l.padded = true
		}
		levels = append(levels, l)
		start += l.width

		if width == 1 {
			return levels, start
		}
		width = l.width / 2
	}
}

// newTree returns a tree that has appropriate memory allocation
// for the given number of leaves and the given hash size (in bytes).
func newTree(nLeaves, hashSize int) *Tree {
	if hashSize <= 0 {
		panic(fmt.Errorf(
			"BUG: hashSize must be positive (got %d)", hashSize,
		))
	}

	levels, nNodes := layout(nLeaves)
	if nNodes == 0 {
		return &Tree{hashSize: hashSize}
	}

	// The node count and digest size are known up front,
	// so back the entire tree with a single allocation.
	mem := make([]byte, nNodes*hashSize)

	nodes := make([][]byte, nNodes)
	for i := range nodes {
		start := i * hashSize
		end := start + hashSize

		// Capping the capacity keeps a misbehaving Hasher
		// from appending into the neighboring node.
		nodes[i] = mem[start:end:end]
	}

	return &Tree{
		nodes:  nodes,
		levels: levels,

		nLeaves:  nLeaves,
		hashSize: hashSize,
	}
}

// Empty reports whether the tree was built from zero blocks.
// An empty tree has no root.
func (t *Tree) Empty() bool {
	return t.nLeaves == 0
}

// NumLeaves returns the number of blocks the tree was built from.
func (t *Tree) NumLeaves() int {
	return t.nLeaves
}

// HashSize returns the size in bytes of every digest in the tree.
func (t *Tree) HashSize() int {
	return t.hashSize
}

// Height returns the number of levels above the leaves.
// A single-leaf tree has height zero, as does an empty tree.
func (t *Tree) Height() int {
	if len(t.levels) == 0 {
		return 0
	}
	return len(t.levels) - 1
}

// Root returns a copy of the root digest.
// The second return value is false if the tree is empty,
// in which case there is no root digest at all.
func (t *Tree) Root() (mhash.Digest, bool) {
	if t.Empty() {
		return nil, false
	}
	return mhash.Digest(bytes.Clone(t.nodes[len(t.nodes)-1])), true
}

// RootHex is shorthand for the hex encoding of [*Tree.Root].
func (t *Tree) RootHex() (string, bool) {
	r, ok := t.Root()
	if !ok {
		return "", false
	}
	return r.Hex(), true
}

// Leaf returns a copy of the leaf digest at index idx,
// which is hash(blocks[idx]).
func (t *Tree) Leaf(idx int) mhash.Digest {
	if idx < 0 || idx >= t.nLeaves {
		panic(fmt.Errorf(
			"BUG: attempted to get leaf at index %d; must be in range [0, %d)",
			idx, t.nLeaves,
		))
	}
	return mhash.Digest(bytes.Clone(t.nodes[idx]))
}

// node returns the backing digest for node i of level li.
func (t *Tree) node(li, i int) []byte {
	return t.nodes[t.levels[li].start+i]
}
