package oracle

import (
	"context"
	"errors"
	"fmt"
	"math"
	"math/rand"
	"regexp/syntax"
	"strings"
	"sync"
	"unicode"

	"github.com/KromDaniel/regsynth/internal/analysis"
)

// Infinite is the count of a pattern with an unbounded match set.
const Infinite int64 = math.MaxInt64

// DefaultMaxRepeat bounds the repetitions Generate draws for *, + and {n,}.
const DefaultMaxRepeat = 3

// DefaultExactLimit is the largest match set Count measures exactly.
const DefaultExactLimit int64 = 1 << 12

const (
	surrogateMin = 0xD800
	surrogateMax = 0xDFFF

	// every code point that UTF-8 can carry
	anyCharCount = int64(unicode.MaxRune+1) - (surrogateMax - surrogateMin + 1)
)

// errOverflow stops an expansion whose match set outgrew its limit.
var errOverflow = errors.New("oracle: match set exceeds limit")

// Synthesizer counts, enumerates and samples the strings a pattern matches.
type Synthesizer interface {
	// Count returns the number of distinct matching strings, or Infinite.
	Count(ctx context.Context, source string) (int64, error)

	// Enumerate returns every distinct matching string when there are at
	// most limit of them.
	Enumerate(ctx context.Context, source string, limit int64) ([]string, error)

	// Generate returns one random matching string.
	Generate(ctx context.Context, source string) (string, error)
}

// Synth is a Synthesizer over the regexp/syntax parse tree. It is safe for
// concurrent use.
type Synth struct {
	mu         sync.Mutex
	rng        *rand.Rand
	maxRepeat  int
	exactLimit int64
}

// SynthOption configures a Synth.
type SynthOption func(*Synth)

// WithMaxRepeat bounds the repetitions drawn by Generate.
func WithMaxRepeat(n int) SynthOption {
	return func(s *Synth) {
		if n >= 0 {
			s.maxRepeat = n
		}
	}
}

// WithExactLimit sets the largest match set Count measures exactly. Larger
// sets report their derivation count, which is never smaller.
func WithExactLimit(n int64) SynthOption {
	return func(s *Synth) {
		if n > 0 {
			s.exactLimit = n
		}
	}
}

// NewSynth returns a Synth whose Generate draws are seeded with seed.
func NewSynth(seed int64, opts ...SynthOption) *Synth {
	s := &Synth{
		rng:        rand.New(rand.NewSource(seed)),
		maxRepeat:  DefaultMaxRepeat,
		exactLimit: DefaultExactLimit,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Parse parses source with Perl flags and simplifies counted repetition.
func Parse(source string) (*syntax.Regexp, error) {
	re, err := syntax.Parse(source, syntax.Perl)
	if err != nil {
		return nil, &SyntaxError{Source: source, Err: err}
	}
	return re.Simplify(), nil
}

// Count returns the number of distinct strings source matches. Ambiguous
// patterns such as a?a? count each string once. Match sets larger than the
// exact limit report their derivation count, or Infinite.
func (s *Synth) Count(ctx context.Context, source string) (int64, error) {
	re, err := Parse(source)
	if err != nil {
		return 0, err
	}

	c := newCounter(ctx)
	n, err := c.count(re)
	if err != nil || n == 0 {
		return n, err
	}

	words, err := (&enumerator{counter: c, limit: s.exactLimit}).expand(re)
	switch {
	case errors.Is(err, errOverflow):
		return n, nil
	case err != nil:
		return 0, err
	}
	return int64(len(words)), nil
}

// Enumerate returns the distinct strings source matches, in the order they
// are first derived. It fails with ErrDivergent when there are more than
// limit of them.
func (s *Synth) Enumerate(ctx context.Context, source string, limit int64) ([]string, error) {
	re, err := Parse(source)
	if err != nil {
		return nil, err
	}

	words, err := (&enumerator{counter: newCounter(ctx), limit: limit}).expand(re)
	if errors.Is(err, errOverflow) {
		return nil, fmt.Errorf("%w: %s matches more than %d strings", ErrDivergent, source, limit)
	}
	return words, err
}

// Generate returns one random string matching source. Classes prefer
// printable ASCII members.
func (s *Synth) Generate(ctx context.Context, source string) (string, error) {
	re, err := Parse(source)
	if err != nil {
		return "", err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	smp := &sampler{counter: newCounter(ctx), rng: s.rng, maxRepeat: s.maxRepeat}
	var b strings.Builder
	if err := smp.write(&b, re); err != nil {
		return "", err
	}
	return b.String(), nil
}

// FormatCount renders a count, spelling out Infinite.
func FormatCount(n int64) string {
	if n == Infinite {
		return "infinite"
	}
	return fmt.Sprint(n)
}

// counter counts derivations. It is exact for unambiguous patterns and an
// upper bound otherwise.
type counter struct {
	ctx  context.Context
	memo map[*syntax.Regexp]int64
}

func newCounter(ctx context.Context) *counter {
	return &counter{ctx: ctx, memo: make(map[*syntax.Regexp]int64)}
}

func (c *counter) count(re *syntax.Regexp) (int64, error) {
	if n, ok := c.memo[re]; ok {
		return n, nil
	}
	if err := checkContext(c.ctx); err != nil {
		return 0, err
	}
	n, err := c.count1(re)
	if err != nil {
		return 0, err
	}
	c.memo[re] = n
	return n, nil
}

func (c *counter) count1(re *syntax.Regexp) (int64, error) {
	switch re.Op {
	case syntax.OpNoMatch:
		return 0, nil

	case syntax.OpEmptyMatch:
		return 1, nil

	case syntax.OpLiteral:
		if re.Flags&syntax.FoldCase != 0 {
			return 0, fmt.Errorf("%w: case-folded literal %q", ErrUnsupported, string(re.Rune))
		}
		return 1, nil

	case syntax.OpCharClass:
		return classSize(re.Rune), nil

	case syntax.OpAnyCharNotNL:
		return anyCharCount - 1, nil

	case syntax.OpAnyChar:
		return anyCharCount, nil

	case syntax.OpCapture:
		return c.count(re.Sub[0])

	case syntax.OpStar, syntax.OpPlus:
		n, err := c.count(re.Sub[0])
		if err != nil {
			return 0, err
		}
		switch {
		case n == 0 && re.Op == syntax.OpStar:
			return 1, nil
		case n == 0:
			return 0, nil
		case analysis.MatchesOnlyEmpty(re.Sub[0]):
			return 1, nil
		}
		return Infinite, nil

	case syntax.OpQuest:
		n, err := c.count(re.Sub[0])
		if err != nil {
			return 0, err
		}
		return satAdd(1, n), nil

	case syntax.OpRepeat:
		n, err := c.count(re.Sub[0])
		if err != nil {
			return 0, err
		}
		if re.Max == -1 {
			switch {
			case n == 0 && re.Min == 0:
				return 1, nil
			case n == 0:
				return 0, nil
			case analysis.MatchesOnlyEmpty(re.Sub[0]):
				return 1, nil
			}
			return Infinite, nil
		}
		var total int64
		for k := re.Min; k <= re.Max; k++ {
			total = satAdd(total, satPow(n, k))
		}
		return total, nil

	case syntax.OpConcat:
		counts := make([]int64, len(re.Sub))
		for i, sub := range re.Sub {
			n, err := c.count(sub)
			if err != nil {
				return 0, err
			}
			if n == 0 {
				return 0, nil
			}
			counts[i] = n
		}
		total := int64(1)
		for _, n := range counts {
			total = satMul(total, n)
		}
		return total, nil

	case syntax.OpAlternate:
		var total int64
		for _, sub := range re.Sub {
			n, err := c.count(sub)
			if err != nil {
				return 0, err
			}
			total = satAdd(total, n)
		}
		return total, nil
	}

	return 0, fmt.Errorf("%w: %s", ErrUnsupported, re.Op)
}

// enumerator expands a pattern into its distinct matches, failing with
// errOverflow once any partial set holds more than limit strings. Every
// partial set embeds into the final one, so an overflow anywhere means the
// whole match set is too large.
type enumerator struct {
	*counter
	limit int64
}

func (e *enumerator) expand(re *syntax.Regexp) ([]string, error) {
	n, err := e.count(re)
	if err != nil || n == 0 {
		return nil, err
	}
	if n > e.limit {
		switch re.Op {
		case syntax.OpCharClass, syntax.OpAnyCharNotNL, syntax.OpAnyChar:
			return nil, errOverflow
		}
	}

	switch re.Op {
	case syntax.OpEmptyMatch:
		return e.fit([]string{""})

	case syntax.OpLiteral:
		return e.fit([]string{string(re.Rune)})

	case syntax.OpCharClass:
		return classRunes(re.Rune), nil

	case syntax.OpAnyCharNotNL:
		return classRunes([]rune{0, '\n' - 1, '\n' + 1, unicode.MaxRune}), nil

	case syntax.OpAnyChar:
		return classRunes([]rune{0, unicode.MaxRune}), nil

	case syntax.OpCapture:
		return e.expand(re.Sub[0])

	case syntax.OpStar, syntax.OpPlus:
		// a live star is finite only when its body matches nothing but ""
		if n != 1 {
			return nil, errOverflow
		}
		return e.fit([]string{""})

	case syntax.OpQuest:
		sub, err := e.expand(re.Sub[0])
		if err != nil {
			return nil, err
		}
		return e.union([]string{""}, sub)

	case syntax.OpRepeat:
		if re.Max == -1 {
			if n != 1 {
				return nil, errOverflow
			}
			return e.fit([]string{""})
		}
		if re.Max == 0 {
			return e.fit([]string{""})
		}
		sub, err := e.expand(re.Sub[0])
		if err != nil {
			return nil, err
		}
		var out []string
		power := []string{""}
		for k := 0; k <= re.Max; k++ {
			if k >= re.Min {
				if out, err = e.union(out, power); err != nil {
					return nil, err
				}
			}
			if k < re.Max {
				if power, err = e.cross(power, sub); err != nil {
					return nil, err
				}
			}
		}
		return out, nil

	case syntax.OpConcat:
		acc := []string{""}
		for _, sub := range re.Sub {
			words, err := e.expand(sub)
			if err != nil {
				return nil, err
			}
			if acc, err = e.cross(acc, words); err != nil {
				return nil, err
			}
		}
		return acc, nil

	case syntax.OpAlternate:
		var out []string
		for _, sub := range re.Sub {
			words, err := e.expand(sub)
			if err != nil {
				return nil, err
			}
			if out, err = e.union(out, words); err != nil {
				return nil, err
			}
		}
		return out, nil
	}

	return nil, fmt.Errorf("%w: %s", ErrUnsupported, re.Op)
}

func (e *enumerator) fit(words []string) ([]string, error) {
	if int64(len(words)) > e.limit {
		return nil, errOverflow
	}
	return words, nil
}

func (e *enumerator) union(a, b []string) ([]string, error) {
	set := newWordSet(e.limit, len(a)+len(b))
	for _, words := range [][]string{a, b} {
		for _, w := range words {
			if err := set.add(w); err != nil {
				return nil, err
			}
		}
	}
	return set.words, nil
}

func (e *enumerator) cross(prefixes, suffixes []string) ([]string, error) {
	set := newWordSet(e.limit, len(prefixes)*len(suffixes))
	for i, p := range prefixes {
		if i%256 == 0 {
			if err := checkContext(e.ctx); err != nil {
				return nil, err
			}
		}
		for _, s := range suffixes {
			if err := set.add(p + s); err != nil {
				return nil, err
			}
		}
	}
	return set.words, nil
}

// wordSet keeps distinct words in insertion order, up to limit of them.
type wordSet struct {
	limit int64
	seen  map[string]struct{}
	words []string
}

func newWordSet(limit int64, hint int) *wordSet {
	hint = int(max(0, min(int64(hint), limit, 1<<16)))
	return &wordSet{
		limit: limit,
		seen:  make(map[string]struct{}, hint),
		words: make([]string, 0, hint),
	}
}

func (s *wordSet) add(w string) error {
	if _, ok := s.seen[w]; ok {
		return nil
	}
	if int64(len(s.words)) >= s.limit {
		return errOverflow
	}
	s.seen[w] = struct{}{}
	s.words = append(s.words, w)
	return nil
}

type sampler struct {
	*counter
	rng       *rand.Rand
	maxRepeat int
}

func (s *sampler) write(b *strings.Builder, re *syntax.Regexp) error {
	n, err := s.count(re)
	if err != nil {
		return err
	}
	if n == 0 {
		return ErrNoMatch
	}

	switch re.Op {
	case syntax.OpEmptyMatch:

	case syntax.OpLiteral:
		b.WriteString(string(re.Rune))

	case syntax.OpCharClass:
		b.WriteRune(s.pick(re.Rune))

	case syntax.OpAnyCharNotNL:
		b.WriteRune(s.pick([]rune{0, '\n' - 1, '\n' + 1, unicode.MaxRune}))

	case syntax.OpAnyChar:
		b.WriteRune(s.pick([]rune{0, unicode.MaxRune}))

	case syntax.OpCapture:
		return s.write(b, re.Sub[0])

	case syntax.OpStar, syntax.OpPlus, syntax.OpQuest, syntax.OpRepeat:
		k, err := s.repetitions(re)
		if err != nil {
			return err
		}
		for i := 0; i < k; i++ {
			if err := s.write(b, re.Sub[0]); err != nil {
				return err
			}
		}

	case syntax.OpConcat:
		for _, sub := range re.Sub {
			if err := s.write(b, sub); err != nil {
				return err
			}
		}

	case syntax.OpAlternate:
		var live []*syntax.Regexp
		for _, sub := range re.Sub {
			if m, err := s.count(sub); err != nil {
				return err
			} else if m > 0 {
				live = append(live, sub)
			}
		}
		return s.write(b, live[s.rng.Intn(len(live))])

	default:
		return fmt.Errorf("%w: %s", ErrUnsupported, re.Op)
	}
	return nil
}

// repetitions draws how many times a quantified body is written.
func (s *sampler) repetitions(re *syntax.Regexp) (int, error) {
	n, err := s.count(re.Sub[0])
	if err != nil {
		return 0, err
	}

	lo, hi := 0, s.maxRepeat
	switch re.Op {
	case syntax.OpPlus:
		lo, hi = 1, s.maxRepeat+1
	case syntax.OpQuest:
		hi = 1
	case syntax.OpRepeat:
		lo, hi = re.Min, re.Max
		if hi == -1 {
			hi = lo + s.maxRepeat
		}
	}
	if n == 0 {
		// the whole node is live, so zero repetitions must be allowed
		return 0, nil
	}
	return lo + s.rng.Intn(hi-lo+1), nil
}

// pick draws a rune from a class, preferring printable ASCII members.
func (s *sampler) pick(ranges []rune) rune {
	var preferred []rune
	for i := 0; i+1 < len(ranges); i += 2 {
		for r := max(ranges[i], 0); r <= min(ranges[i+1], 0x7e); r++ {
			if isPreferred(r) {
				preferred = append(preferred, r)
			}
		}
	}
	if len(preferred) > 0 {
		return preferred[s.rng.Intn(len(preferred))]
	}

	idx := s.rng.Int63n(classSize(ranges))
	for i := 0; i+1 < len(ranges); i += 2 {
		for _, span := range splitSurrogates(ranges[i], ranges[i+1]) {
			size := int64(span[1]-span[0]) + 1
			if idx < size {
				return span[0] + rune(idx)
			}
			idx -= size
		}
	}
	return ranges[0]
}

func isPreferred(r rune) bool {
	if r >= ' ' && r <= '~' {
		return true
	}
	switch r {
	case '\t', '\n', '\r', '\f', '\v':
		return true
	}
	return false
}

// classSize counts the code points in a range list, excluding surrogates.
func classSize(ranges []rune) int64 {
	var total int64
	for i := 0; i+1 < len(ranges); i += 2 {
		for _, span := range splitSurrogates(ranges[i], ranges[i+1]) {
			total += int64(span[1]-span[0]) + 1
		}
	}
	return total
}

func classRunes(ranges []rune) []string {
	var out []string
	for i := 0; i+1 < len(ranges); i += 2 {
		for _, span := range splitSurrogates(ranges[i], ranges[i+1]) {
			for r := span[0]; r <= span[1]; r++ {
				out = append(out, string(r))
			}
		}
	}
	return out
}

// splitSurrogates returns the parts of [lo, hi] outside the surrogate block.
func splitSurrogates(lo, hi rune) [][2]rune {
	var out [][2]rune
	if lo < surrogateMin {
		out = append(out, [2]rune{lo, min(hi, surrogateMin-1)})
	}
	if hi > surrogateMax {
		out = append(out, [2]rune{max(lo, surrogateMax+1), hi})
	}
	return out
}

func satAdd(a, b int64) int64 {
	if a > Infinite-b {
		return Infinite
	}
	return a + b
}

func satMul(a, b int64) int64 {
	if a == 0 || b == 0 {
		return 0
	}
	if a > Infinite/b {
		return Infinite
	}
	return a * b
}

func satPow(n int64, k int) int64 {
	total := int64(1)
	for i := 0; i < k; i++ {
		total = satMul(total, n)
	}
	return total
}
