package descent

// PseudoRandom is a linear congruential generator. It is used for
// reproducible tie-breaking when points coincide, so its sequence must not
// depend on the platform.
type PseudoRandom struct {
	seed int64
}

const (
	lcgA     = 214013
	lcgC     = 2531011
	lcgM     = 2147483648
	lcgRange = 32767
)

// NewPseudoRandom returns a generator starting from seed.
func NewPseudoRandom(seed int64) *PseudoRandom {
	return &PseudoRandom{seed: seed}
}

// Next returns a value in [0, 1].
func (r *PseudoRandom) Next() float64 {
	r.seed = (r.seed*lcgA + lcgC) % lcgM
	return float64(r.seed>>16) / lcgRange
}

// Between returns a value in [min, max].
func (r *PseudoRandom) Between(min, max float64) float64 {
	return min + r.Next()*(max-min)
}
