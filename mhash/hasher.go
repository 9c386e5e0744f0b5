package mhash

// Hasher is the user-defined interface for hashing leaves and nodes.
// A tree passes raw block data to the Leaf method to create a leaf digest,
// and it passes the concatenated digests of two children to the Node method.
//
// Both methods must produce the same digest for the same input bytes,
// so that Node(l, r) equals Leaf(l ++ r).
// A tree depends on that equivalence: the digest of an internal node
// is the hash of its children's concatenated digests, nothing more.
//
// To be allocation-efficient, the Hasher implementation
// must append its hash output to dst and return the extended slice,
// in the same manner as [hash.Hash.Sum].
// Hasher must not retain references to the dst slice.
//
// A non-nil error reports a failure of the underlying hash library.
// Such failures are not transient and callers do not retry them.
//
// Furthermore, Hasher methods must be safe to call concurrently.
type Hasher interface {
	// Size is the length, in bytes, of every digest the Hasher produces.
	Size() int

	Leaf(in, dst []byte) ([]byte, error)
	Node(left, right, dst []byte) ([]byte, error)
}

// Sum returns the digest of in, as computed by h.Leaf,
// in a newly allocated Digest.
func Sum(h Hasher, in []byte) (Digest, error) {
	out, err := h.Leaf(in, make([]byte, 0, h.Size()))
	if err != nil {
		return nil, err
	}
	return Digest(out), nil
}
