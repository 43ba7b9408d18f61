package generator

import (
	"iter"
	"math/rand"

	"github.com/KromDaniel/regsynth/internal/pattern"
	"github.com/KromDaniel/regsynth/stream"
)

// Generator produces an endless stream of serialized candidate patterns.
type Generator struct {
	groups *GroupGenerator
}

// New returns a Generator for the given budget and profile.
func New(budget Budget, profile Profile) (*Generator, error) {
	groups, err := NewGroupGenerator(budget, profile)
	if err != nil {
		return nil, err
	}
	return &Generator{groups: groups}, nil
}

// NewRand returns a deterministic source for seed.
func NewRand(seed int64) *rand.Rand {
	return rand.New(rand.NewSource(seed))
}

// Tree draws one syntax tree.
func (g *Generator) Tree(rng *rand.Rand) pattern.Node {
	return g.groups.GeneratePattern(rng, 0)
}

// Trees yields syntax trees until the consumer stops.
func (g *Generator) Trees(rng *rand.Rand) iter.Seq[pattern.Node] {
	return stream.Repeat(func() pattern.Node { return g.Tree(rng) })
}

// Candidates yields serialized patterns until the consumer stops. The same
// seed, budget and profile always produce the same sequence.
func (g *Generator) Candidates(rng *rand.Rand) iter.Seq[string] {
	return stream.Map(g.Trees(rng), pattern.Serialize)
}

// String describes the generator configuration.
func (g *Generator) String() string {
	return g.groups.String()
}
