package mtree

import "fmt"

// HashBackendError is returned from [Build] and [Verify]
// when the Hasher fails while hashing a node.
// No partial tree is ever returned alongside it.
type HashBackendError struct {
	// Level of the failing node; zero is the leaf level.
	Level int

	// Index of the failing node within its level.
	Index int

	Err error
}

func (e *HashBackendError) Error() string {
	return fmt.Sprintf("failed to hash node %d at level %d: %v", e.Index, e.Level, e.Err)
}

func (e *HashBackendError) Unwrap() error {
	return e.Err
}

// ShapeMismatchError is returned from [Diff]
// when the two trees cannot be compared leaf by leaf.
type ShapeMismatchError struct {
	LeavesA, LeavesB     int
	HashSizeA, HashSizeB int
}

func (e *ShapeMismatchError) Error() string {
	return fmt.Sprintf(
		"trees have different shapes: %d leaves of %d bytes vs %d leaves of %d bytes",
		e.LeavesA, e.HashSizeA, e.LeavesB, e.HashSizeB,
	)
}
