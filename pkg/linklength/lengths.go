package linklength

import "math"

type neighbourSet map[int]struct{}

func neighbours[L any](links []L, la LinkAccessor[L]) map[int]neighbourSet {
	ns := make(map[int]neighbourSet)
	add := func(u, v int) {
		if ns[u] == nil {
			ns[u] = make(neighbourSet)
		}
		ns[u][v] = struct{}{}
	}
	for _, l := range links {
		u, v := la.SourceIndex(l), la.TargetIndex(l)
		add(u, v)
		add(v, u)
	}
	return ns
}

func intersectionCount(a, b neighbourSet) int {
	n := 0
	for k := range a {
		if _, ok := b[k]; ok {
			n++
		}
	}
	return n
}

func unionCount(a, b neighbourSet) int {
	return len(a) + len(b) - intersectionCount(a, b)
}

func computeLinkLengths[L any](links []L, w float64, f func(a, b neighbourSet) float64, la LinkLengthAccessor[L]) {
	ns := neighbours(links, la)
	for _, l := range links {
		a := ns[la.SourceIndex(l)]
		b := ns[la.TargetIndex(l)]
		la.SetLength(l, 1+w*f(a, b))
	}
}

// SymmetricDiffLinkLengths sets each link's length to
// 1 + w*sqrt(|N(u) union N(v)| - |N(u) intersect N(v)|).
func SymmetricDiffLinkLengths[L any](links []L, la LinkLengthAccessor[L], w float64) {
	computeLinkLengths(links, w, func(a, b neighbourSet) float64 {
		return math.Sqrt(float64(unionCount(a, b) - intersectionCount(a, b)))
	}, la)
}

// JaccardLinkLengths sets each link's length to 1 + w*J(N(u), N(v)), where
// J is the Jaccard similarity. Links touching a node with a single
// neighbour get length 1.
func JaccardLinkLengths[L any](links []L, la LinkLengthAccessor[L], w float64) {
	computeLinkLengths(links, w, func(a, b neighbourSet) float64 {
		if min(len(a), len(b)) < 2 {
			return 0
		}
		return float64(intersectionCount(a, b)) / float64(unionCount(a, b))
	}, la)
}
