package rbtree

import (
	"github.com/biogo/store/llrb"
)

// item adapts an element to llrb.Comparable. Queries set tie to place
// themselves just before (-1) or just after (+1) an equal stored element;
// stored elements use 0.
type item[T any] struct {
	v   T
	cmp func(a, b T) int
	tie int
}

func (i *item[T]) Compare(o llrb.Comparable) int {
	if c := i.cmp(i.v, o.(*item[T]).v); c != 0 {
		return c
	}
	return i.tie
}

// Tree is a red-black tree ordered by a three-way comparator. It is backed
// by a left-leaning red-black tree from biogo/store.
// The zero value is not usable; create trees with [New].
type Tree[T any] struct {
	llrb llrb.Tree
	cmp  func(a, b T) int
}

// New creates an empty tree ordered by cmp. cmp must return a negative
// number when a sorts before b, zero when they are equal and a positive
// number otherwise.
func New[T any](cmp func(a, b T) int) *Tree[T] {
	return &Tree[T]{cmp: cmp}
}

func (t *Tree[T]) query(v T, tie int) *item[T] {
	return &item[T]{v: v, cmp: t.cmp, tie: tie}
}

func value[T any](c llrb.Comparable) (v T, ok bool) {
	if c == nil {
		return v, false
	}
	return c.(*item[T]).v, true
}

// Len returns the number of elements in the tree.
func (t *Tree[T]) Len() int { return t.llrb.Len() }

// Clear removes all elements.
func (t *Tree[T]) Clear() { t.llrb = llrb.Tree{} }

// Find returns the element equal to v.
func (t *Tree[T]) Find(v T) (T, bool) {
	return value[T](t.llrb.Get(t.query(v, 0)))
}

// FindIter returns a cursor positioned on the element equal to v,
// or nil if no such element exists.
func (t *Tree[T]) FindIter(v T) *Iterator[T] {
	found, ok := t.Find(v)
	if !ok {
		return nil
	}
	return &Iterator[T]{tree: t, cur: found, valid: true}
}

// LowerBound returns a cursor on the first element not less than v.
// The cursor is null if every element is less than v.
func (t *Tree[T]) LowerBound(v T) *Iterator[T] {
	return t.cursor(t.llrb.Ceil(t.query(v, -1)))
}

// UpperBound returns a cursor on the first element greater than v.
// The cursor is null if no element is greater than v.
func (t *Tree[T]) UpperBound(v T) *Iterator[T] {
	return t.cursor(t.llrb.Ceil(t.query(v, 1)))
}

func (t *Tree[T]) cursor(c llrb.Comparable) *Iterator[T] {
	v, ok := value[T](c)
	return &Iterator[T]{tree: t, cur: v, valid: ok}
}

// successor returns the smallest element greater than v.
func (t *Tree[T]) successor(v T) (T, bool) {
	return value[T](t.llrb.Ceil(t.query(v, 1)))
}

// predecessor returns the largest element less than v.
func (t *Tree[T]) predecessor(v T) (T, bool) {
	return value[T](t.llrb.Floor(t.query(v, -1)))
}

// Min returns the smallest element.
func (t *Tree[T]) Min() (T, bool) { return value[T](t.llrb.Min()) }

// Max returns the largest element.
func (t *Tree[T]) Max() (T, bool) { return value[T](t.llrb.Max()) }

// Iterator returns a null cursor; the first Next yields the minimum and the
// first Prev yields the maximum.
func (t *Tree[T]) Iterator() *Iterator[T] {
	return &Iterator[T]{tree: t}
}

// Each calls fn for every element in ascending order until fn returns false.
func (t *Tree[T]) Each(fn func(T) bool) {
	t.llrb.Do(func(c llrb.Comparable) bool {
		return !fn(c.(*item[T]).v)
	})
}

// Insert adds v to the tree. It returns false, leaving the tree unchanged,
// when an equal element is already present.
func (t *Tree[T]) Insert(v T) bool {
	q := t.query(v, 0)
	if t.llrb.Get(q) != nil {
		return false
	}
	t.llrb.Insert(q)
	return true
}

// Remove deletes the element equal to v and reports whether it was present.
func (t *Tree[T]) Remove(v T) bool {
	q := t.query(v, 0)
	if t.llrb.Get(q) == nil {
		return false
	}
	t.llrb.Delete(q)
	return true
}
