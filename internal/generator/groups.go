package generator

import (
	"fmt"
	"math/rand"

	"github.com/KromDaniel/regsynth/internal/pattern"
)

// GroupGenerator composes groups, alternations and quantifiers recursively.
type GroupGenerator struct {
	budget  Budget
	profile Profile
	chars   *CharGenerator
}

// NewGroupGenerator validates the budget and profile.
func NewGroupGenerator(budget Budget, profile Profile) (*GroupGenerator, error) {
	if err := budget.Validate(); err != nil {
		return nil, err
	}
	if err := profile.Validate(); err != nil {
		return nil, err
	}
	return &GroupGenerator{
		budget:  budget,
		profile: profile,
		chars:   NewCharGenerator(budget, profile),
	}, nil
}

// Budget returns the budget the generator was built with.
func (g *GroupGenerator) Budget() Budget { return g.budget }

// GeneratePattern returns the concatenation of [0, GroupBreadthMax] groups.
// Zero groups yield an empty Sequence.
func (g *GroupGenerator) GeneratePattern(rng *rand.Rand, depth int) pattern.Node {
	n := rng.Intn(g.budget.GroupBreadthMax + 1)
	return pattern.Sequence{Children: g.generateGroups(rng, n, depth)}
}

// generateGroups grows a candidate pool five entries at a time until it
// holds at least n, then samples n with replacement.
func (g *GroupGenerator) generateGroups(rng *rand.Rand, n, depth int) []pattern.Node {
	var pool []pattern.Node
	for len(pool) < n {
		grp := g.generateGroup(rng, depth)
		pool = append(pool,
			grp,
			g.generateAlternation(rng, depth),
			pattern.Group{Child: wrapRepeat(rng, grp, g.budget, g.profile)},
			pattern.Group{Child: wrapMulti(rng, grp, g.profile)},
			pattern.Group{Child: pattern.Optional{Child: grp}},
		)
	}

	out := make([]pattern.Node, n)
	for i := range out {
		out[i] = pattern.Clone(pool[rng.Intn(len(pool))])
	}
	return out
}

// generateAlternation draws [0, UnionWidthMax] groups at the same depth.
func (g *GroupGenerator) generateAlternation(rng *rand.Rand, depth int) pattern.Group {
	width := rng.Intn(g.budget.UnionWidthMax + 1)
	branches := make([]pattern.Node, width)
	for i := range branches {
		branches[i] = g.generateGroup(rng, depth)
	}
	return pattern.Group{Child: pattern.Alternation{Children: branches}}
}

// generateGroup recurses until depth exceeds RecursionDepthMax, then emits
// a group of [0, GroupChildLengthMax] characters.
func (g *GroupGenerator) generateGroup(rng *rand.Rand, depth int) pattern.Group {
	if depth > g.budget.RecursionDepthMax {
		length := rng.Intn(g.budget.GroupChildLengthMax + 1)
		return pattern.Group{Child: pattern.Sequence{Children: g.chars.Generate(rng, length)}}
	}
	return pattern.Group{Child: g.GeneratePattern(rng, depth+1)}
}

// String describes the generator configuration.
func (g *GroupGenerator) String() string {
	b := g.budget
	return fmt.Sprintf("set=%d union=%d amount=%d group=%d depth=%d breadth=%d",
		b.SetSizeMax, b.UnionWidthMax, b.RepeatBoundMax, b.GroupChildLengthMax, b.RecursionDepthMax, b.GroupBreadthMax)
}
