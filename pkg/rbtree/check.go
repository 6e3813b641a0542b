package rbtree

import (
	"errors"
	"fmt"

	"github.com/biogo/store/llrb"
)

// ErrInvariant is wrapped by every error returned from [Tree.Check].
var ErrInvariant = errors.New("rbtree: invariant violated")

func colorOf(n *llrb.Node) llrb.Color {
	if n == nil {
		return llrb.Black
	}
	return n.Color
}

// Check verifies the red-black and search-tree invariants of the
// underlying left-leaning tree.
func (t *Tree[T]) Check() error {
	root := t.llrb.Root
	if root == nil {
		if t.llrb.Count != 0 {
			return fmt.Errorf("%w: empty tree reports size %d", ErrInvariant, t.llrb.Count)
		}
		return nil
	}
	if root.Color != llrb.Black {
		return fmt.Errorf("%w: red root", ErrInvariant)
	}
	count := 0
	if _, err := t.checkNode(root, &count); err != nil {
		return err
	}
	if count != t.llrb.Count {
		return fmt.Errorf("%w: counted %d nodes, size is %d", ErrInvariant, count, t.llrb.Count)
	}

	var prev *item[T]
	var err error
	t.llrb.Do(func(c llrb.Comparable) bool {
		cur := c.(*item[T])
		if prev != nil && t.cmp(prev.v, cur.v) >= 0 {
			err = fmt.Errorf("%w: in-order sequence is not strictly increasing", ErrInvariant)
			return true
		}
		prev = cur
		return false
	})
	return err
}

// checkNode returns the black height of the subtree rooted at n.
func (t *Tree[T]) checkNode(n *llrb.Node, count *int) (int, error) {
	if n == nil {
		return 1, nil
	}
	*count++
	if n.Color == llrb.Red && (colorOf(n.Left) == llrb.Red || colorOf(n.Right) == llrb.Red) {
		return 0, fmt.Errorf("%w: red node with red child", ErrInvariant)
	}
	if colorOf(n.Right) == llrb.Red {
		return 0, fmt.Errorf("%w: right-leaning red link", ErrInvariant)
	}
	lh, err := t.checkNode(n.Left, count)
	if err != nil {
		return 0, err
	}
	rh, err := t.checkNode(n.Right, count)
	if err != nil {
		return 0, err
	}
	if lh != rh {
		return 0, fmt.Errorf("%w: black height %d != %d", ErrInvariant, lh, rh)
	}
	if n.Color == llrb.Black {
		lh++
	}
	return lh, nil
}
