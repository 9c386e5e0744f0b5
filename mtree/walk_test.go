package mtree_test

import (
	"testing"

	"github.com/soomrack/MR2024-sub003/internal/mtest"
	"github.com/soomrack/MR2024-sub003/mhash"
	"github.com/soomrack/MR2024-sub003/mhash/mhashtest"
	"github.com/soomrack/MR2024-sub003/mtree"
	"github.com/stretchr/testify/require"
)

type walkEntry struct {
	Depth  int
	Digest string
}

func collectWalk(tree *mtree.Tree) []walkEntry {
	var out []walkEntry
	for depth, d := range tree.Walk() {
		out = append(out, walkEntry{Depth: depth, Digest: d.Hex()})
	}
	return out
}

func TestTree_Walk_empty(t *testing.T) {
	t.Parallel()

	tree, err := mtree.Build(nil, mtree.BuildConfig{Hasher: mhashtest.FNV32{}})
	require.NoError(t, err)
	require.Empty(t, collectWalk(tree))
}

func TestTree_Walk_1_leaf(t *testing.T) {
	t.Parallel()

	tree := mustBuild(t, mtest.Blocks("only"))
	require.Equal(t, []walkEntry{
		{0, hexOf(fnv("only"))},
	}, collectWalk(tree))
}

func TestTree_Walk_3_leaves(t *testing.T) {
	t.Parallel()

	tree := mustBuild(t, mtest.Blocks("zero", "one", "two"))

	l0, l1, l2 := fnv("zero"), fnv("one"), fnv("two")
	n01 := fnv(l0, l1)
	n22 := fnv(l2, l2)

	// Pre-order: node, left subtree, right subtree.
	// The padding copy of leaf 2 is visited as the right child of n22.
	require.Equal(t, []walkEntry{
		{0, hexOf(fnv(n01, n22))},
		{1, hexOf(n01)},
		{2, hexOf(l0)},
		{2, hexOf(l1)},
		{1, hexOf(n22)},
		{2, hexOf(l2)},
		{2, hexOf(l2)},
	}, collectWalk(tree))
}

func TestTree_Walk_5_leaves_paddingHasNoChildren(t *testing.T) {
	t.Parallel()

	tree := mustBuild(t, mtest.Blocks("zero", "one", "two", "three", "four"))

	entries := collectWalk(tree)

	// Full subtree of 0123 has 7 nodes; 4444 has
	// itself, node 44 with two leaves, and a childless padding copy of 44.
	// Plus the root.
	require.Len(t, entries, 1+7+1+3+1)

	n44 := hexOf(fnv(fnv("four"), fnv("four")))
	require.Equal(t, walkEntry{2, n44}, entries[len(entries)-1])
	require.Equal(t, walkEntry{2, n44}, entries[len(entries)-4])
}

func TestTree_Walk_stopsEarly(t *testing.T) {
	t.Parallel()

	tree := mustBuild(t, mtest.Blocks("a", "b", "c", "d"))

	n := 0
	for range tree.Walk() {
		n++
		if n == 2 {
			break
		}
	}
	require.Equal(t, 2, n)
}

func TestTree_Walk_depthBoundedByHeight(t *testing.T) {
	t.Parallel()

	tree := mustBuildSHA(t, mtest.RandomBlocksForTest(t, 1000, 8))

	count := 0
	leaves := 0
	for depth := range tree.Walk() {
		require.LessOrEqual(t, depth, tree.Height())
		if depth == tree.Height() {
			leaves++
		}
		count++
	}

	require.Equal(t, 10, tree.Height())
	require.GreaterOrEqual(t, leaves, tree.NumLeaves())
	require.Greater(t, count, 2*tree.NumLeaves()-1)
}

func hexOf(b []byte) string {
	return mhash.Digest(b).Hex()
}
