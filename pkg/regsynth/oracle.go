package regsynth

import (
	"context"

	"github.com/KromDaniel/regsynth/internal/analysis"
	"github.com/KromDaniel/regsynth/internal/oracle"
	"github.com/KromDaniel/regsynth/internal/pipeline"
)

// AnalysisResult contains the structural features and match-length bounds
// of a pattern.
type AnalysisResult = analysis.Result

// Oracle errors, for use with errors.Is.
var (
	ErrSyntax      = oracle.ErrSyntax
	ErrDivergent   = oracle.ErrDivergent
	ErrUnsupported = oracle.ErrUnsupported
	ErrTimeout     = oracle.ErrTimeout
	ErrExhausted   = pipeline.ErrExhausted
)

// Accepted is the Reason of a record that passes every check.
const Accepted = pipeline.Accepted

// Reasons lists every rejection reason in stage order.
var Reasons = pipeline.Reasons

// Infinite is the count reported for patterns with unbounded match sets.
const Infinite = oracle.Infinite

// Analyze returns the features of pattern.
//
// Example:
//
//	result, _ := regsynth.Analyze("(a|b)c?")
//	fmt.Println(result.Features) // ["CharClass", "Groups", "Quantifiers"]
func Analyze(pattern string) (*AnalysisResult, error) {
	return analysis.Analyze(pattern)
}

// Count returns the number of distinct strings source fully matches,
// or Infinite. Match sets larger than oracle.DefaultExactLimit report an
// upper bound instead.
func Count(ctx context.Context, source string) (int64, error) {
	return oracle.NewSynth(1).Count(ctx, source)
}

// Enumerate returns every string source fully matches, failing with
// ErrDivergent when there are more than limit.
func Enumerate(ctx context.Context, source string, limit int64) ([]string, error) {
	return oracle.NewSynth(1).Enumerate(ctx, source, limit)
}

// Sample returns one string matched by source, drawn with seed.
func Sample(ctx context.Context, source string, seed int64) (string, error) {
	return oracle.NewSynth(seed).Generate(ctx, source)
}

// FullMatch reports whether source matches all of s.
func FullMatch(source, s string) (bool, error) {
	return oracle.FullMatch(source, s)
}
