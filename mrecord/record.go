// Package mrecord keeps track of Merkle roots recorded for later verification.
//
// A [Record] names a root digest together with the hasher and leaf count
// it was produced with; the leaf count disambiguates inputs
// that the duplicate-last padding policy would otherwise conflate.
// Records encode to CBOR for transmission
// and are persisted in a SQLite-backed [Store].
package mrecord

import (
	"fmt"
	"time"

	"github.com/fxamacker/cbor/v2"
	"github.com/google/uuid"
	"github.com/soomrack/MR2024-sub003/mhash"
	"github.com/soomrack/MR2024-sub003/mtree"
)

// Record is a root digest recorded under a name.
type Record struct {
	ID uuid.UUID

	// Caller-chosen name, e.g. the path of the input file.
	// Several records may share a name; the newest one wins in [*Store.Latest].
	Name string

	// Name of the hasher that produced Root, e.g. "sha256".
	Hasher string

	// Number of blocks the tree was built from.
	Leaves int

	// How the input was divided into blocks, e.g. "lines" or "chunks:4096".
	// Empty when unknown.
	// The same input split differently produces a different root.
	Split string

	Root mhash.Digest

	Created time.Time
}

// NewRecord returns a record for the root of t.
// It fails if t is empty, since an empty tree has no root to record.
func NewRecord(name, hasher string, t *mtree.Tree) (Record, error) {
	root, ok := t.Root()
	if !ok {
		return Record{}, fmt.Errorf("cannot record %q: tree is empty", name)
	}

	id, err := uuid.NewRandom()
	if err != nil {
		return Record{}, fmt.Errorf("failed to generate record ID: %w", err)
	}

	return Record{
		ID:      id,
		Name:    name,
		Hasher:  hasher,
		Leaves:  t.NumLeaves(),
		Root:    root,
		Created: time.Now().UTC().Round(0),
	}, nil
}

// wireRecord is the CBOR representation of a Record,
// using integer keys to keep the encoding compact.
type wireRecord struct {
	ID      []byte `cbor:"1,keyasint"`
	Name    string `cbor:"2,keyasint"`
	Hasher  string `cbor:"3,keyasint"`
	Leaves  int    `cbor:"4,keyasint"`
	Root    []byte `cbor:"5,keyasint"`
	Created int64  `cbor:"6,keyasint"`
	Split   string `cbor:"7,keyasint,omitempty"`
}

// MarshalBinary encodes r as CBOR.
func (r Record) MarshalBinary() ([]byte, error) {
	return cbor.Marshal(wireRecord{
		ID:      r.ID[:],
		Name:    r.Name,
		Hasher:  r.Hasher,
		Leaves:  r.Leaves,
		Root:    r.Root,
		Created: r.Created.UnixNano(),
		Split:   r.Split,
	})
}

// UnmarshalBinary decodes a CBOR record produced by [Record.MarshalBinary].
func (r *Record) UnmarshalBinary(data []byte) error {
	var w wireRecord
	if err := cbor.Unmarshal(data, &w); err != nil {
		return fmt.Errorf("failed to decode record: %w", err)
	}

	id, err := uuid.FromBytes(w.ID)
	if err != nil {
		return fmt.Errorf("failed to decode record ID: %w", err)
	}
	if len(w.Root) == 0 {
		return fmt.Errorf("record %s has no root digest", id)
	}

	*r = Record{
		ID:      id,
		Name:    w.Name,
		Hasher:  w.Hasher,
		Leaves:  w.Leaves,
		Root:    mhash.Digest(w.Root),
		Created: time.Unix(0, w.Created).UTC(),
		Split:   w.Split,
	}
	return nil
}
