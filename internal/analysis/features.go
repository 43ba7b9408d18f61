package analysis

import (
	"regexp/syntax"
	"sort"
)

// Result contains the analysis of a pattern.
type Result struct {
	// Features are structural labels, sorted alphabetically.
	Features []string `json:"features" yaml:"features"`

	// MinMatchLen is the fewest characters any match can have.
	MinMatchLen int `json:"min_match_len" yaml:"min_match_len"`

	// MaxMatchLen is the most characters any match can have, -1 if unbounded.
	MaxMatchLen int `json:"max_match_len" yaml:"max_match_len"`

	// Groups is the number of capturing groups.
	Groups int `json:"groups" yaml:"groups"`
}

// Analyze parses pattern with Perl flags and derives its labels and bounds.
func Analyze(pattern string) (*Result, error) {
	re, err := syntax.Parse(pattern, syntax.Perl)
	if err != nil {
		return nil, err
	}
	groups := re.MaxCap()
	re = re.Simplify()

	bounds := AnalyzeMatchLength(re)
	return &Result{
		Features:    Features(re, groups),
		MinMatchLen: bounds.Min,
		MaxMatchLen: bounds.Max,
		Groups:      groups,
	}, nil
}

// Features derives the structural labels of a parsed pattern.
func Features(re *syntax.Regexp, groups int) []string {
	var labels []string

	if contains(re, syntax.OpAlternate) {
		labels = append(labels, "Alternation")
	}
	if contains(re, syntax.OpCharClass) {
		labels = append(labels, "CharClass")
	}
	if MaxMatchLen(re) == 0 {
		labels = append(labels, "Empty")
	}
	if groups > 0 {
		labels = append(labels, "Groups")
	}
	if contains(re, syntax.OpStar, syntax.OpPlus, syntax.OpQuest, syntax.OpRepeat) {
		labels = append(labels, "Quantifiers")
	}
	if MaxMatchLen(re) == Unbounded {
		labels = append(labels, "Unbounded")
	}
	if contains(re, syntax.OpAnyCharNotNL, syntax.OpAnyChar) {
		labels = append(labels, "Wildcard")
	}

	if len(labels) == 0 {
		labels = append(labels, "Simple")
	}

	sort.Strings(labels)
	return labels
}

// contains reports whether any node of re has one of ops.
func contains(re *syntax.Regexp, ops ...syntax.Op) bool {
	if re == nil {
		return false
	}
	for _, op := range ops {
		if re.Op == op {
			return true
		}
	}
	for _, sub := range re.Sub {
		if contains(sub, ops...) {
			return true
		}
	}
	return false
}
