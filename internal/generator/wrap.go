package generator

import (
	"math/rand"

	"github.com/KromDaniel/regsynth/internal/pattern"
)

// wrapRepeat wraps n in a counted quantifier. The lower bound is drawn from
// [0, RepeatBoundMax]. On the unbounded branch the result is {n,} when
// or-more was drawn and an exact {n} otherwise; the bounded branch adds an
// extra [0, RepeatBoundMax] to form the upper bound.
func wrapRepeat(rng *rand.Rand, n pattern.Node, b Budget, p Profile) pattern.Repeat {
	orMore := rng.Float64() < p.OrMoreProbability
	lower := rng.Intn(b.RepeatBoundMax + 1)

	if rng.Float64() < p.UnboundedProbability {
		if orMore {
			return pattern.Repeat{Child: n, Min: lower, Max: pattern.Unbounded, Greedy: true}
		}
		return pattern.Repeat{Child: n, Min: lower, Max: lower, Greedy: true}
	}

	upper := lower + rng.Intn(b.RepeatBoundMax+1)
	return pattern.Repeat{Child: n, Min: lower, Max: upper, Greedy: true}
}

// wrapMulti wraps n in * or +.
func wrapMulti(rng *rand.Rand, n pattern.Node, p Profile) pattern.Node {
	if rng.Float64() < p.StarProbability {
		return pattern.Star{Child: n}
	}
	return pattern.Plus{Child: n}
}
