// Package mtree builds binary Merkle trees over ordered sequences of blocks.
//
// Each block becomes a leaf holding hash(block).
// Levels are then folded pairwise, left to right,
// with each parent holding hash(left ++ right),
// until a single root remains.
// A single block produces a tree whose root is that block's leaf.
// No blocks produce an empty tree, which has no root at all.
//
// When a level has an odd number of nodes,
// it is padded with a copy of its last node before pairing
// (the "duplicate-last" policy).
// Every internal node therefore has exactly two children.
// The padding node is materialized as its own entry in the tree,
// carrying the same digest as its left sibling and no children.
//
// The duplicate-last policy has a known ambiguity:
// blocks [a b c] and [a b c c] produce the same root,
// because padding makes the two trees indistinguishable.
// The ambiguity is kept so that roots match those of existing tools,
// and callers that need to tell such inputs apart
// must record the block count alongside the root.
//
// All node digests of a tree live in one contiguous memory allocation
// and are addressed by index, bottom level first.
// Trees are immutable after [Build] returns.
package mtree
