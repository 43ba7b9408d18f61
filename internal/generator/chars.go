package generator

import (
	"fmt"
	"math/rand"

	"github.com/KromDaniel/regsynth/internal/pattern"
)

// Printable is the printable ASCII alphabet: digits, letters, punctuation
// and whitespace.
var Printable = []rune("0123456789" +
	"abcdefghijklmnopqrstuvwxyz" +
	"ABCDEFGHIJKLMNOPQRSTUVWXYZ" +
	"!\"#$%&'()*+,-./:;<=>?@[\\]^_`{|}~" +
	" \t\n\r\v\f")

// maxSetResamples bounds the reject-and-resample loop for conflicting sets.
const maxSetResamples = 32

// CharGenerator draws single-character patterns.
type CharGenerator struct {
	budget  Budget
	profile Profile

	// built once, never mutated
	literals []pattern.Node
	classes  []pattern.Node
	members  []pattern.Node
}

// NewCharGenerator builds the immutable literal and class tables.
func NewCharGenerator(budget Budget, profile Profile) *CharGenerator {
	g := &CharGenerator{budget: budget, profile: profile}
	for _, k := range pattern.ClassKinds {
		g.classes = append(g.classes, pattern.Class{Kind: k})
	}
	for _, r := range Printable {
		g.literals = append(g.literals, pattern.Literal{Char: r})
	}
	g.members = append(append([]pattern.Node{}, g.classes...), g.literals...)
	return g
}

// Generate returns count characters drawn with replacement from a pool of
// AnyChar, the builtin classes, every printable literal, one fresh range
// and one fresh set.
func (g *CharGenerator) Generate(rng *rand.Rand, count int) []pattern.Node {
	pool := g.pool(rng)
	out := make([]pattern.Node, count)
	for i := range out {
		out[i] = pattern.Clone(pool[rng.Intn(len(pool))])
	}
	return out
}

func (g *CharGenerator) pool(rng *rand.Rand) []pattern.Node {
	pool := make([]pattern.Node, 0, len(g.members)+6)
	pool = append(pool, pattern.AnyChar{})
	pool = append(pool, g.members...)
	pool = append(pool, g.randomRange(rng), g.randomSet(rng))

	if g.profile.QuantifiedChars {
		c := pool[rng.Intn(len(pool))]
		pool = append(pool,
			wrapRepeat(rng, c, g.budget, g.profile),
			wrapMulti(rng, c, g.profile),
			pattern.Optional{Child: c},
		)
	}
	return pool
}

func (g *CharGenerator) randomRange(rng *rand.Rand) pattern.Range {
	a := Printable[rng.Intn(len(Printable))]
	b := Printable[rng.Intn(len(Printable))]
	return pattern.NewRange(a, b)
}

func (g *CharGenerator) randomSet(rng *rand.Rand) pattern.Set {
	k := 1 + rng.Intn(g.budget.SetSizeMax)

	from := g.members
	if k > len(from) {
		from = g.literals
		k = len(from)
	}

	members := sample(rng, from, k)
	for attempt := 0; ; attempt++ {
		if _, _, conflict := pattern.FindConflict(members); !conflict {
			break
		}
		if attempt == maxSetResamples {
			members = g.repair(members)
			break
		}
		members = sample(rng, from, k)
	}

	set, err := pattern.NewSet(members, rng.Float64() < g.profile.NegatedSetProbability)
	if err != nil {
		// repair leaves a non-empty, conflict-free list of classes and literals
		panic(fmt.Sprintf("generator: %v", err))
	}
	return set
}

// repair drops the negated class of every conflicting pair and backfills
// with unused literals while any remain.
func (g *CharGenerator) repair(members []pattern.Node) []pattern.Node {
	used := make(map[pattern.Node]bool, len(members))
	for _, m := range members {
		used[m] = true
	}
	for {
		a, b, conflict := pattern.FindConflict(members)
		if !conflict {
			return members
		}
		drop := a
		if b.Kind > a.Kind {
			drop = b
		}
		out := members[:0]
		for _, m := range members {
			if m != pattern.Node(drop) {
				out = append(out, m)
			}
		}
		members = out
		for _, l := range g.literals {
			if !used[l] {
				used[l] = true
				members = append(members, l)
				break
			}
		}
	}
}

func sample(rng *rand.Rand, from []pattern.Node, k int) []pattern.Node {
	perm := rng.Perm(len(from))
	out := make([]pattern.Node, k)
	for i := range out {
		out[i] = from[perm[i]]
	}
	return out
}
