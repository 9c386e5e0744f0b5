package mhashtest

import (
	"testing"

	"github.com/soomrack/MR2024-sub003/mhash"
	"github.com/stretchr/testify/require"
)

type HasherFactory func() mhash.Hasher

// TestHasherCompliance runs the behaviors every [mhash.Hasher] must satisfy
// in order to be used for building a tree.
func TestHasherCompliance(t *testing.T, f HasherFactory) {
	t.Run("leaf is deterministic", func(t *testing.T) {
		t.Parallel()

		h := f()

		dst01, err := h.Leaf([]byte("deterministic_data"), make([]byte, 0, h.Size()))
		require.NoError(t, err)

		dst02, err := h.Leaf([]byte("deterministic_data"), make([]byte, 0, h.Size()))
		require.NoError(t, err)

		require.Equal(t, dst01, dst02)
	})

	t.Run("leaf has declared size", func(t *testing.T) {
		t.Parallel()

		h := f()
		require.Positive(t, h.Size())

		for _, in := range []string{"", "a", "a somewhat longer input that spans more than one word"} {
			out, err := h.Leaf([]byte(in), nil)
			require.NoError(t, err)
			require.Len(t, out, h.Size())
		}
	})

	t.Run("leaf appends to dst", func(t *testing.T) {
		t.Parallel()

		h := f()

		prefix := []byte("prefix")
		dst := append(make([]byte, 0, len(prefix)+h.Size()), prefix...)

		out, err := h.Leaf([]byte("data"), dst)
		require.NoError(t, err)
		require.Len(t, out, len(prefix)+h.Size())
		require.Equal(t, prefix, out[:len(prefix)])

		plain, err := h.Leaf([]byte("data"), nil)
		require.NoError(t, err)
		require.Equal(t, plain, out[len(prefix):])
	})

	t.Run("leaf respects input", func(t *testing.T) {
		t.Parallel()

		h := f()

		dst01, err := h.Leaf([]byte("hello"), nil)
		require.NoError(t, err)

		dst02, err := h.Leaf([]byte("hellp"), nil)
		require.NoError(t, err)

		require.NotEqual(t, dst01, dst02)
	})

	t.Run("node is deterministic", func(t *testing.T) {
		t.Parallel()

		h := f()

		dst01, err := h.Node([]byte("left"), []byte("right"), nil)
		require.NoError(t, err)

		dst02, err := h.Node([]byte("left"), []byte("right"), nil)
		require.NoError(t, err)

		require.Equal(t, dst01, dst02)
		require.Len(t, dst01, h.Size())
	})

	t.Run("node respects order", func(t *testing.T) {
		t.Parallel()

		h := f()

		dst01, err := h.Node([]byte("left"), []byte("right"), nil)
		require.NoError(t, err)

		dst02, err := h.Node([]byte("right"), []byte("left"), nil)
		require.NoError(t, err)

		require.NotEqual(t, dst01, dst02)
	})

	t.Run("node hashes the concatenation", func(t *testing.T) {
		t.Parallel()

		h := f()

		node, err := h.Node([]byte("left"), []byte("right"), nil)
		require.NoError(t, err)

		leaf, err := h.Leaf([]byte("leftright"), nil)
		require.NoError(t, err)

		require.Equal(t, leaf, node)
	})
}
