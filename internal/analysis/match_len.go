// Package analysis inspects parsed regular expressions: match-length bounds
// and structural feature labels.
package analysis

import (
	"regexp/syntax"
)

// Unbounded is returned by MaxMatchLen when a match can be arbitrarily long.
const Unbounded = -1

// MatchLength holds the match length bounds of a pattern, in characters.
type MatchLength struct {
	// Min is the fewest characters any match can have.
	Min int

	// Max is the most characters any match can have, or Unbounded.
	Max int
}

// AnalyzeMatchLength computes the bounds of a parsed pattern.
func AnalyzeMatchLength(re *syntax.Regexp) MatchLength {
	if re == nil {
		return MatchLength{}
	}
	return MatchLength{Min: MinMatchLen(re), Max: MaxMatchLen(re)}
}

// MatchesOnlyEmpty reports whether every match of re is the empty string.
func MatchesOnlyEmpty(re *syntax.Regexp) bool {
	return MaxMatchLen(re) == 0
}

// MinMatchLen computes the fewest characters a match can have.
func MinMatchLen(re *syntax.Regexp) int {
	if re == nil {
		return 0
	}

	switch re.Op {
	case syntax.OpLiteral:
		return len(re.Rune)

	case syntax.OpCharClass:
		if len(re.Rune) == 0 {
			return 0
		}
		return 1

	case syntax.OpAnyCharNotNL, syntax.OpAnyChar:
		return 1

	case syntax.OpCapture, syntax.OpPlus:
		if len(re.Sub) > 0 {
			return MinMatchLen(re.Sub[0])
		}
		return 0

	case syntax.OpRepeat:
		if len(re.Sub) > 0 {
			return re.Min * MinMatchLen(re.Sub[0])
		}
		return 0

	case syntax.OpConcat:
		total := 0
		for _, sub := range re.Sub {
			total += MinMatchLen(sub)
		}
		return total

	case syntax.OpAlternate:
		if len(re.Sub) == 0 {
			return 0
		}
		min := MinMatchLen(re.Sub[0])
		for _, sub := range re.Sub[1:] {
			if m := MinMatchLen(sub); m < min {
				min = m
			}
		}
		return min

	default:
		// empty matches, assertions, star and quest
		return 0
	}
}

// MaxMatchLen computes the most characters a match can have, or Unbounded.
func MaxMatchLen(re *syntax.Regexp) int {
	if re == nil {
		return 0
	}

	switch re.Op {
	case syntax.OpLiteral:
		return len(re.Rune)

	case syntax.OpCharClass:
		if len(re.Rune) == 0 {
			return 0
		}
		return 1

	case syntax.OpAnyCharNotNL, syntax.OpAnyChar:
		return 1

	case syntax.OpCapture, syntax.OpQuest:
		if len(re.Sub) > 0 {
			return MaxMatchLen(re.Sub[0])
		}
		return 0

	case syntax.OpStar, syntax.OpPlus:
		if len(re.Sub) > 0 && MaxMatchLen(re.Sub[0]) == 0 {
			return 0
		}
		return Unbounded

	case syntax.OpRepeat:
		if len(re.Sub) == 0 {
			return 0
		}
		subMax := MaxMatchLen(re.Sub[0])
		if subMax == 0 {
			return 0
		}
		if re.Max == -1 || subMax == Unbounded {
			return Unbounded
		}
		return re.Max * subMax

	case syntax.OpConcat:
		total := 0
		for _, sub := range re.Sub {
			subMax := MaxMatchLen(sub)
			if subMax == Unbounded {
				return Unbounded
			}
			total += subMax
		}
		return total

	case syntax.OpAlternate:
		max := 0
		for _, sub := range re.Sub {
			subMax := MaxMatchLen(sub)
			if subMax == Unbounded {
				return Unbounded
			}
			if subMax > max {
				max = subMax
			}
		}
		return max

	default:
		return 0
	}
}
