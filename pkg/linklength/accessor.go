package linklength

// LinkAccessor reads the endpoints of a link value.
type LinkAccessor[L any] interface {
	SourceIndex(l L) int
	TargetIndex(l L) int
}

// LinkLengthAccessor also stores a computed length multiplier on the link.
type LinkLengthAccessor[L any] interface {
	LinkAccessor[L]
	SetLength(l L, length float64)
}

// LinkSepAccessor also reports the minimum separation a link requires along
// the flow axis.
type LinkSepAccessor[L any] interface {
	LinkAccessor[L]
	MinSeparation(l L) float64
}
