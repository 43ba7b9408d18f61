// Package pattern defines the regex syntax tree produced by the generator
// and its serialization to regex source.
package pattern

import (
	"errors"
	"fmt"
	"sort"
)

// Unbounded marks a Repeat without an upper bound.
const Unbounded = -1

var (
	// ErrEmptySet is returned when a character set would have no members.
	ErrEmptySet = errors.New("pattern: empty character set")
	// ErrSetConflict is returned when a set holds a class and its negation.
	ErrSetConflict = errors.New("pattern: set contains a class and its negation")
	// ErrSetMember is returned for set members other than classes and literals.
	ErrSetMember = errors.New("pattern: invalid set member")
	// ErrInvalidNode is wrapped by every structural violation found by Validate.
	ErrInvalidNode = errors.New("pattern: invalid node")
)

// Node is a regex syntax tree node. The set of implementations is closed.
type Node interface {
	fmt.Stringer
	node()
}

// ClassKind enumerates the builtin character classes.
type ClassKind int

const (
	Whitespace ClassKind = iota
	NotWhitespace
	Word
	NotWord
	Digit
	NotDigit
)

// ClassKinds lists every builtin class in a fixed order.
var ClassKinds = []ClassKind{Whitespace, NotWhitespace, Word, NotWord, Digit, NotDigit}

var classSymbols = [...]string{
	Whitespace:    `\s`,
	NotWhitespace: `\S`,
	Word:          `\w`,
	NotWord:       `\W`,
	Digit:         `\d`,
	NotDigit:      `\D`,
}

// Symbol returns the escape sequence of the class.
func (k ClassKind) Symbol() string {
	if k < 0 || int(k) >= len(classSymbols) {
		return ""
	}
	return classSymbols[k]
}

// Negation returns the complementary class.
func (k ClassKind) Negation() ClassKind {
	return k ^ 1
}

type (
	// AnyChar matches any character except newline.
	AnyChar struct{}

	// Class is one of the builtin character classes.
	Class struct {
		Kind ClassKind
	}

	// Literal matches exactly one character.
	Literal struct {
		Char rune
	}

	// Range matches one character in [Lo, Hi]. Construct with NewRange.
	Range struct {
		Lo, Hi rune
	}

	// Set matches one of its members, or anything else when Negated.
	// Construct with NewSet.
	Set struct {
		Members []Node
		Negated bool
	}

	// Sequence is the concatenation of its children.
	Sequence struct {
		Children []Node
	}

	// Group is a capturing group.
	Group struct {
		Child Node
	}

	// Alternation matches any one of its children.
	Alternation struct {
		Children []Node
	}

	// Repeat is a counted repetition {Min,Max}.
	Repeat struct {
		Child  Node
		Min    int
		Max    int
		Greedy bool
	}

	// Plus is one-or-more.
	Plus struct {
		Child Node
	}

	// Star is zero-or-more.
	Star struct {
		Child Node
	}

	// Optional is zero-or-one.
	Optional struct {
		Child Node
	}
)

func (AnyChar) node()     {}
func (Class) node()       {}
func (Literal) node()     {}
func (Range) node()       {}
func (Set) node()         {}
func (Sequence) node()    {}
func (Group) node()       {}
func (Alternation) node() {}
func (Repeat) node()      {}
func (Plus) node()        {}
func (Star) node()        {}
func (Optional) node()    {}

func (n AnyChar) String() string     { return Serialize(n) }
func (n Class) String() string       { return Serialize(n) }
func (n Literal) String() string     { return Serialize(n) }
func (n Range) String() string       { return Serialize(n) }
func (n Set) String() string         { return Serialize(n) }
func (n Sequence) String() string    { return Serialize(n) }
func (n Group) String() string       { return Serialize(n) }
func (n Alternation) String() string { return Serialize(n) }
func (n Repeat) String() string      { return Serialize(n) }
func (n Plus) String() string        { return Serialize(n) }
func (n Star) String() string        { return Serialize(n) }
func (n Optional) String() string    { return Serialize(n) }

// NewRange orders its endpoints so that Lo <= Hi.
func NewRange(a, b rune) Range {
	if a > b {
		a, b = b, a
	}
	return Range{Lo: a, Hi: b}
}

// NewSet builds a set from classes and literals. Members are deduplicated
// and sorted by their serialized form.
func NewSet(members []Node, negated bool) (Set, error) {
	if len(members) == 0 {
		return Set{}, ErrEmptySet
	}

	seen := make(map[string]bool, len(members))
	out := make([]Node, 0, len(members))
	for _, m := range members {
		switch m := m.(type) {
		case Class:
			if m.Kind.Symbol() == "" {
				return Set{}, fmt.Errorf("%w: class kind %d", ErrSetMember, m.Kind)
			}
		case Literal:
		default:
			return Set{}, fmt.Errorf("%w: %T", ErrSetMember, m)
		}
		key := Serialize(m)
		if seen[key] {
			continue
		}
		seen[key] = true
		out = append(out, m)
	}

	if a, b, ok := FindConflict(out); ok {
		return Set{}, fmt.Errorf("%w: %s and %s", ErrSetConflict, a.Kind.Symbol(), b.Kind.Symbol())
	}

	sortMembers(out)
	return Set{Members: out, Negated: negated}, nil
}

// FindConflict reports the first pair of members that are a class and its
// negation.
func FindConflict(members []Node) (Class, Class, bool) {
	var present [len(classSymbols)]bool
	for _, m := range members {
		if c, ok := m.(Class); ok {
			if present[c.Kind.Negation()] {
				return Class{Kind: c.Kind.Negation()}, c, true
			}
			present[c.Kind] = true
		}
	}
	return Class{}, Class{}, false
}

func sortMembers(members []Node) {
	sort.SliceStable(members, func(i, j int) bool {
		return Serialize(members[i]) < Serialize(members[j])
	})
}
