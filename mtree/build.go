package mtree

import (
	"context"
	"fmt"

	"github.com/soomrack/MR2024-sub003/mhash"
	"golang.org/x/sync/errgroup"
)

// BuildConfig is the configuration used for [Build] and [Verify].
type BuildConfig struct {
	// How to hash leaves and internal nodes.
	// The Hasher's Size determines the size of every digest in the tree.
	Hasher mhash.Hasher

	// Workers is the maximum number of goroutines
	// hashing nodes of a single level concurrently.
	// Zero or one builds the tree sequentially on the calling goroutine.
	//
	// Levels are always completed strictly bottom-up,
	// so the resulting tree does not depend on this value.
	Workers int
}

// Build hashes each block into a leaf, in order,
// and folds the leaves pairwise into a root.
//
// If blocks is empty, Build returns an empty tree and a nil error;
// check [*Tree.Empty] or the second result of [*Tree.Root]
// before using the root digest.
//
// If the Hasher fails, Build returns a nil tree and a [*HashBackendError].
// Build does not retain references to blocks.
func Build(blocks [][]byte, cfg BuildConfig) (*Tree, error) {
	if cfg.Hasher == nil {
		panic(fmt.Errorf("BUG: BuildConfig.Hasher must not be nil"))
	}

	t := newTree(len(blocks), cfg.Hasher.Size())
	if t.Empty() {
		return t, nil
	}

	b := builder{
		t:       t,
		h:       cfg.Hasher,
		workers: cfg.Workers,
	}
	if err := b.run(blocks); err != nil {
		return nil, err
	}

	return t, nil
}

// builder holds the state for populating a single tree.
type builder struct {
	t       *Tree
	h       mhash.Hasher
	workers int
}

func (b *builder) run(blocks [][]byte) error {
	if err := b.each(len(blocks), func(i int) error {
		return b.leaf(i, blocks[i])
	}); err != nil {
		return err
	}
	b.t.pad(0)

	// Every node of a level is materialized before the next level begins.
	for li := 1; li < len(b.t.levels); li++ {
		nParents := b.t.levels[li-1].width / 2
		if err := b.each(nParents, func(i int) error {
			return b.parent(li, i)
		}); err != nil {
			return err
		}
		b.t.pad(li)
	}

	return nil
}

// each calls fn for every index in [0, n),
// spreading contiguous index ranges over the configured workers.
// It returns once every started call has completed,
// with the first error encountered, if any.
// After a failure, workers stop before their next index.
func (b *builder) each(n int, fn func(i int) error) error {
	if b.workers <= 1 || n < 2 {
		for i := range n {
			if err := fn(i); err != nil {
				return err
			}
		}
		return nil
	}

	g, ctx := errgroup.WithContext(context.Background())
	g.SetLimit(b.workers)

	span := (n + b.workers - 1) / b.workers
	for lo := 0; lo < n && ctx.Err() == nil; lo += span {
		hi := min(lo+span, n)
		g.Go(func() error {
			for i := lo; i < hi; i++ {
				if err := ctx.Err(); err != nil {
					// Another range failed; its error is the one Wait reports.
					return err
				}
				if err := fn(i); err != nil {
					return err
				}
			}
			return nil
		})
	}

	return g.Wait()
}

func (b *builder) leaf(i int, block []byte) error {
	dst := b.t.nodes[i]
	out, err := b.h.Leaf(block, dst[:0])
	if err != nil {
		return &HashBackendError{Level: 0, Index: i, Err: err}
	}
	b.store(dst, out)
	return nil
}

func (b *builder) parent(li, i int) error {
	below := b.t.levels[li-1]
	left := b.t.nodes[below.start+2*i]
	right := b.t.nodes[below.start+2*i+1]

	dst := b.t.node(li, i)
	out, err := b.h.Node(left, right, dst[:0])
	if err != nil {
		return &HashBackendError{Level: li, Index: i, Err: err}
	}
	b.store(dst, out)
	return nil
}

// store makes sure the hasher output landed in the node's backing memory.
// When the Hasher appended into dst as required, the copy is a no-op.
func (b *builder) store(dst, out []byte) {
	if len(out) != len(dst) {
		panic(fmt.Errorf(
			"BUG: hasher produced %d bytes; its declared size is %d",
			len(out), len(dst),
		))
	}
	copy(dst, out)
}

// pad fills the padding node of level li, if it has one,
// with the digest of its left sibling.
func (t *Tree) pad(li int) {
	l := t.levels[li]
	if !l.padded {
		return
	}
	last := l.start + l.width - 1
	copy(t.nodes[last], t.nodes[last-1])
}
