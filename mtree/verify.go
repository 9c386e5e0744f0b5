package mtree

import "github.com/soomrack/MR2024-sub003/mhash"

// Verify rebuilds a tree from blocks and reports whether its root
// is byte-for-byte equal to ref.
//
// A mismatch is reported as false with a nil error;
// the only errors are failures of the Hasher.
// If blocks is empty there is no root to compare, so Verify returns false.
func Verify(blocks [][]byte, ref mhash.Digest, cfg BuildConfig) (bool, error) {
	t, err := Build(blocks, cfg)
	if err != nil {
		return false, err
	}

	root, ok := t.Root()
	if !ok {
		return false, nil
	}

	return root.Equal(ref), nil
}
