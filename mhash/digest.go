package mhash

import (
	"bytes"
	"encoding/hex"
	"fmt"
)

// Digest is the fixed-size output of a [Hasher].
// Digests are compared by exact byte equality, never by reference.
type Digest []byte

// Hex returns the canonical lowercase hex encoding of d.
func (d Digest) Hex() string {
	return hex.EncodeToString(d)
}

func (d Digest) String() string {
	return d.Hex()
}

// Short returns the first four hex characters of d,
// which is usually enough to tell digests apart in debug output.
func (d Digest) Short() string {
	h := d.Hex()
	if len(h) <= 4 {
		return h
	}
	return h[:4]
}

// Equal reports whether d and other contain the same bytes.
func (d Digest) Equal(other Digest) bool {
	return bytes.Equal(d, other)
}

// ParseDigest decodes a hex string into a Digest.
// Upper and lower case are both accepted.
func ParseDigest(s string) (Digest, error) {
	if s == "" {
		return nil, fmt.Errorf("empty digest")
	}
	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, fmt.Errorf("invalid digest %q: %w", s, err)
	}
	return Digest(b), nil
}
