package generator

import (
	"regexp"
	"slices"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KromDaniel/regsynth/internal/pattern"
)

func minimalBudget() Budget {
	return Budget{SetSizeMax: 1, GroupBreadthMax: 1}
}

func take(t *testing.T, g *Generator, seed int64, n int) []string {
	t.Helper()
	var out []string
	for c := range g.Candidates(NewRand(seed)) {
		out = append(out, c)
		if len(out) == n {
			break
		}
	}
	return out
}

func TestBudgetValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Budget)
		ok     bool
	}{
		{"default", func(*Budget) {}, true},
		{"minimal", func(b *Budget) { *b = minimalBudget() }, true},
		{"zero set", func(b *Budget) { b.SetSizeMax = 0 }, false},
		{"zero breadth", func(b *Budget) { b.GroupBreadthMax = 0 }, false},
		{"negative union", func(b *Budget) { b.UnionWidthMax = -1 }, false},
		{"negative amount", func(b *Budget) { b.RepeatBoundMax = -2 }, false},
		{"negative depth", func(b *Budget) { b.RecursionDepthMax = -1 }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			b := DefaultBudget()
			tt.mutate(&b)
			err := b.Validate()
			if tt.ok {
				assert.NoError(t, err)
			} else {
				assert.ErrorIs(t, err, ErrInvalidBudget)
			}
		})
	}
}

func TestProfileValidate(t *testing.T) {
	require.NoError(t, DefaultProfile().Validate())

	p := DefaultProfile()
	p.StarProbability = 1.5
	assert.ErrorIs(t, p.Validate(), ErrInvalidProbability)

	p = DefaultProfile()
	p.OrMoreProbability = -0.1
	assert.ErrorIs(t, p.Validate(), ErrInvalidProbability)

	_, err := New(DefaultBudget(), p)
	assert.ErrorIs(t, err, ErrInvalidProbability)

	_, err = New(Budget{}, DefaultProfile())
	assert.ErrorIs(t, err, ErrInvalidBudget)
}

func TestRangesAreOrdered(t *testing.T) {
	g := NewCharGenerator(DefaultBudget(), DefaultProfile())
	rng := NewRand(1)
	for i := 0; i < 2000; i++ {
		r := g.randomRange(rng)
		require.LessOrEqual(t, r.Lo, r.Hi)
		require.Contains(t, Printable, r.Lo)
		require.Contains(t, Printable, r.Hi)
	}
}

func TestSetsAreConflictFree(t *testing.T) {
	for _, size := range []int{1, 2, 3, 8, 50, 103, 106, 200} {
		b := DefaultBudget()
		b.SetSizeMax = size
		g := NewCharGenerator(b, DefaultProfile())
		rng := NewRand(int64(size))

		for i := 0; i < 200; i++ {
			s := g.randomSet(rng)
			require.NoError(t, pattern.Validate(s), "size %d", size)
			require.GreaterOrEqual(t, len(s.Members), 1)
			require.LessOrEqual(t, len(s.Members), size)

			_, err := regexp.Compile(s.String())
			require.NoError(t, err, s.String())
		}
	}
}

func TestRepairDropsNegations(t *testing.T) {
	g := NewCharGenerator(DefaultBudget(), DefaultProfile())
	members := []pattern.Node{
		pattern.Class{Kind: pattern.Digit},
		pattern.Class{Kind: pattern.NotDigit},
		pattern.Class{Kind: pattern.NotWord},
		pattern.Class{Kind: pattern.Word},
	}
	out := g.repair(members)

	_, _, conflict := pattern.FindConflict(out)
	assert.False(t, conflict)
	assert.Len(t, out, 4)
	assert.Contains(t, out, pattern.Node(pattern.Class{Kind: pattern.Digit}))
	assert.Contains(t, out, pattern.Node(pattern.Class{Kind: pattern.Word}))
	assert.NotContains(t, out, pattern.Node(pattern.Class{Kind: pattern.NotDigit}))
}

func TestWrapRepeatBounds(t *testing.T) {
	child := pattern.Group{Child: pattern.Literal{Char: 'a'}}

	t.Run("within budget", func(t *testing.T) {
		b := DefaultBudget()
		b.RepeatBoundMax = 4
		rng := NewRand(7)
		for i := 0; i < 1000; i++ {
			r := wrapRepeat(rng, child, b, DefaultProfile())
			require.GreaterOrEqual(t, r.Min, 0)
			require.LessOrEqual(t, r.Min, 4)
			if r.Max != pattern.Unbounded {
				require.GreaterOrEqual(t, r.Max, r.Min)
				require.LessOrEqual(t, r.Max-r.Min, 4)
			}
		}
	})

	t.Run("always or more", func(t *testing.T) {
		p := Profile{OrMoreProbability: 1, UnboundedProbability: 1}
		r := wrapRepeat(NewRand(1), child, DefaultBudget(), p)
		assert.Equal(t, pattern.Unbounded, r.Max)
	})

	t.Run("exact", func(t *testing.T) {
		p := Profile{OrMoreProbability: 0, UnboundedProbability: 1}
		r := wrapRepeat(NewRand(1), child, DefaultBudget(), p)
		assert.Equal(t, r.Min, r.Max)
	})

	t.Run("star or plus", func(t *testing.T) {
		assert.IsType(t, pattern.Star{}, wrapMulti(NewRand(1), child, Profile{StarProbability: 1}))
		assert.IsType(t, pattern.Plus{}, wrapMulti(NewRand(1), child, Profile{StarProbability: 0}))
	})
}

func TestGeneratedTreesAreWellFormed(t *testing.T) {
	budgets := map[string]Budget{
		"default": DefaultBudget(),
		"minimal": minimalBudget(),
		"wide": {
			SetSizeMax: 6, UnionWidthMax: 3, RepeatBoundMax: 3,
			GroupChildLengthMax: 4, RecursionDepthMax: 2, GroupBreadthMax: 2,
		},
	}

	for name, b := range budgets {
		t.Run(name, func(t *testing.T) {
			p := DefaultProfile()
			p.QuantifiedChars = name == "wide"
			g, err := New(b, p)
			require.NoError(t, err)

			rng := NewRand(42)
			for i := 0; i < 300; i++ {
				tree := g.Tree(rng)
				require.NoError(t, pattern.Validate(tree))

				pattern.Walk(tree, func(n pattern.Node) bool {
					switch n := n.(type) {
					case pattern.Repeat:
						assert.LessOrEqual(t, n.Min, b.RepeatBoundMax)
						if n.Max != pattern.Unbounded {
							assert.LessOrEqual(t, n.Max-n.Min, b.RepeatBoundMax)
						}
					case pattern.Set:
						assert.LessOrEqual(t, len(n.Members), b.SetSizeMax)
					case pattern.Alternation:
						assert.LessOrEqual(t, len(n.Children), b.UnionWidthMax)
					}
					return true
				})

				src := pattern.Serialize(tree)
				_, err := regexp.Compile(`\A(?:` + src + `)\z`)
				require.NoError(t, err, src)
			}
		})
	}
}

func TestCandidatesAreDeterministic(t *testing.T) {
	g, err := New(DefaultBudget(), DefaultProfile())
	require.NoError(t, err)

	first := take(t, g, 99, 100)
	second := take(t, g, 99, 100)
	if diff := cmp.Diff(first, second); diff != "" {
		t.Errorf("same seed produced different candidates (-first +second):\n%s", diff)
	}

	other := take(t, g, 100, 100)
	assert.NotEqual(t, first, other)
}

func TestMinimalBudgetReachesEmptyGroup(t *testing.T) {
	g, err := New(minimalBudget(), DefaultProfile())
	require.NoError(t, err)

	got := take(t, g, 3, 500)
	assert.True(t, slices.Contains(got, "()"), "empty group never generated")
	assert.True(t, slices.Contains(got, ""), "empty pattern never generated")
}
