package mtree

import (
	"iter"

	"github.com/soomrack/MR2024-sub003/mhash"
)

// position addresses a node by level and index within that level.
type position struct {
	level, index int
}

// Walk returns an iterator over every node of the tree in depth-first pre-order:
// a node, then its left subtree, then its right subtree.
// Each node is yielded with its depth, where the root is at depth zero.
//
// Padding nodes are yielded too, but they have no children.
// The yielded digests reference the tree's memory and must not be modified.
//
// Walk is meant for diagnostics; use [Verify] to check data integrity.
func (t *Tree) Walk() iter.Seq2[int, mhash.Digest] {
	return func(yield func(int, mhash.Digest) bool) {
		if t.Empty() {
			return
		}

		type frame struct {
			position
			depth int
		}

		// The stack never holds more than one pending sibling per level,
		// so its size is bounded by the height of the tree.
		stack := make([]frame, 1, len(t.levels)+1)
		stack[0] = frame{position: position{level: len(t.levels) - 1}}

		for len(stack) > 0 {
			f := stack[len(stack)-1]
			stack = stack[:len(stack)-1]

			if !yield(f.depth, mhash.Digest(t.node(f.level, f.index))) {
				return
			}

			left, right, ok := t.children(f.position)
			if !ok {
				continue
			}

			// Right first, so that the left subtree is visited first.
			stack = append(stack,
				frame{position: right, depth: f.depth + 1},
				frame{position: left, depth: f.depth + 1},
			)
		}
	}
}

// children returns the positions of the two children of the node at p.
// The final result is false for leaves and padding nodes.
func (t *Tree) children(p position) (left, right position, ok bool) {
	if p.level == 0 || t.levels[p.level].isPad(p.index) {
		return position{}, position{}, false
	}

	left = position{level: p.level - 1, index: 2 * p.index}
	right = position{level: p.level - 1, index: 2*p.index + 1}
	return left, right, true
}
