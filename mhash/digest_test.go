package mhash_test

import (
	"errors"
	"testing"

	"github.com/soomrack/MR2024-sub003/mhash"
	"github.com/soomrack/MR2024-sub003/mhash/mhashtest"
	"github.com/stretchr/testify/require"
)

func TestDigest_Hex(t *testing.T) {
	t.Parallel()

	d := mhash.Digest{0x00, 0xab, 0xCD, 0xef}
	require.Equal(t, "00abcdef", d.Hex())
	require.Equal(t, "00abcdef", d.String())
	require.Equal(t, "00ab", d.Short())

	require.Equal(t, "0a", mhash.Digest{0x0a}.Short())
}

func TestParseDigest(t *testing.T) {
	t.Parallel()

	t.Run("round trip", func(t *testing.T) {
		t.Parallel()

		d, err := mhash.ParseDigest("00abcdef")
		require.NoError(t, err)
		require.True(t, d.Equal(mhash.Digest{0x00, 0xab, 0xcd, 0xef}))
	})

	t.Run("upper case", func(t *testing.T) {
		t.Parallel()

		d, err := mhash.ParseDigest("00ABCDEF")
		require.NoError(t, err)
		require.Equal(t, "00abcdef", d.Hex())
	})

	t.Run("rejects empty", func(t *testing.T) {
		t.Parallel()

		_, err := mhash.ParseDigest("")
		require.Error(t, err)
	})

	t.Run("rejects non-hex", func(t *testing.T) {
		t.Parallel()

		_, err := mhash.ParseDigest("zz")
		require.Error(t, err)

		_, err = mhash.ParseDigest("abc")
		require.Error(t, err)
	})
}

func TestDigest_Equal(t *testing.T) {
	t.Parallel()

	a := mhash.Digest{1, 2, 3}
	b := mhash.Digest{1, 2, 3}
	require.True(t, a.Equal(b))
	require.False(t, a.Equal(mhash.Digest{1, 2, 4}))
	require.False(t, a.Equal(mhash.Digest{1, 2}))
	require.False(t, a.Equal(nil))
}

func TestSum(t *testing.T) {
	t.Parallel()

	d, err := mhash.Sum(mhashtest.FNV32{}, []byte("hello"))
	require.NoError(t, err)
	require.Equal(t, mhash.Digest(mhashtest.FNV32Hash("hello")), d)
}

func TestSum_backendFailure(t *testing.T) {
	t.Parallel()

	h := &mhashtest.Failing{Hasher: mhashtest.FNV32{}}

	_, err := mhash.Sum(h, []byte("hello"))
	require.ErrorIs(t, err, mhashtest.ErrInjected)

	var be *mhash.BackendError
	require.True(t, errors.As(err, &be))
	require.Equal(t, "failing", be.Hasher)
}
