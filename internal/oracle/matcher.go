package oracle

import (
	"regexp"
)

// Matcher compiles regex source for full-match tests.
type Matcher interface {
	Compile(source string) (Compiled, error)
}

// Compiled is a compiled pattern.
type Compiled interface {
	// FullMatch reports whether the pattern matches all of s.
	FullMatch(s string) bool
}

// Regexp is a Matcher backed by the standard regexp package.
type Regexp struct{}

// Compile checks that source compiles on its own, then anchors it at both
// ends of the input.
func (Regexp) Compile(source string) (Compiled, error) {
	if _, err := regexp.Compile(source); err != nil {
		return nil, &SyntaxError{Source: source, Err: err}
	}
	re, err := regexp.Compile(`\A(?:` + source + `)\z`)
	if err != nil {
		return nil, &SyntaxError{Source: source, Err: err}
	}
	return fullMatcher{re: re}, nil
}

type fullMatcher struct {
	re *regexp.Regexp
}

func (m fullMatcher) FullMatch(s string) bool {
	return m.re.MatchString(s)
}

// FullMatch compiles source and tests s in one step.
func FullMatch(source, s string) (bool, error) {
	c, err := Regexp{}.Compile(source)
	if err != nil {
		return false, err
	}
	return c.FullMatch(s), nil
}
