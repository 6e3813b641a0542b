package descent

import (
	"maps"
	"slices"
)

// Locks holds fixed target positions for nodes, indexed by node.
type Locks struct {
	locks map[int][]float64
}

// NewLocks returns an empty lock set.
func NewLocks() *Locks {
	return &Locks{locks: make(map[int][]float64)}
}

// Add locks node id to position x, replacing any earlier lock.
func (l *Locks) Add(id int, x []float64) {
	l.locks[id] = slices.Clone(x)
}

// Remove releases node id.
func (l *Locks) Remove(id int) {
	delete(l.locks, id)
}

// Clear releases every node.
func (l *Locks) Clear() {
	clear(l.locks)
}

// IsEmpty reports whether no node is locked.
func (l *Locks) IsEmpty() bool { return len(l.locks) == 0 }

// Len returns the number of locked nodes.
func (l *Locks) Len() int { return len(l.locks) }

// Get returns the target of node id.
func (l *Locks) Get(id int) ([]float64, bool) {
	p, ok := l.locks[id]
	return p, ok
}

// Apply calls f for every lock in ascending node order.
func (l *Locks) Apply(f func(id int, p []float64)) {
	for _, id := range slices.Sorted(maps.Keys(l.locks)) {
		f(id, l.locks[id])
	}
}
