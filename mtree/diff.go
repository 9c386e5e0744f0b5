package mtree

import (
	"bytes"

	"github.com/bits-and-blooms/bitset"
)

// Diff returns the set of leaf indices whose digests differ between a and b.
//
// Both trees must have been built from the same number of blocks
// with hashers of the same size; otherwise Diff returns a [*ShapeMismatchError].
// Subtrees whose roots are equal are skipped entirely,
// so a small change in a large tree costs roughly
// one comparison per level for each changed leaf.
func Diff(a, b *Tree) (*bitset.BitSet, error) {
	if a.nLeaves != b.nLeaves || a.hashSize != b.hashSize {
		return nil, &ShapeMismatchError{
			LeavesA: a.nLeaves, LeavesB: b.nLeaves,
			HashSizeA: a.hashSize, HashSizeB: b.hashSize,
		}
	}

	out := bitset.MustNew(uint(a.nLeaves))
	if a.Empty() {
		return out, nil
	}

	stack := make([]position, 1, 2*len(a.levels))
	stack[0] = position{level: len(a.levels) - 1}

	for len(stack) > 0 {
		p := stack[len(stack)-1]
		stack = stack[:len(stack)-1]

		if bytes.Equal(a.node(p.level, p.index), b.node(p.level, p.index)) {
			continue
		}

		if a.levels[p.level].isPad(p.index) {
			// The padded node's left sibling has the same digest,
			// and that sibling is compared on its own.
			continue
		}

		if p.level == 0 {
			out.Set(uint(p.index))
			continue
		}

		left, right, _ := a.children(p)
		stack = append(stack, right, left)
	}

	return out, nil
}
