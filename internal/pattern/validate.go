package pattern

import (
	"fmt"
	"sort"
)

// Validate checks the structural invariants of every node in the tree.
func Validate(root Node) error {
	var err error
	Walk(root, func(n Node) bool {
		err = validateNode(n)
		return err == nil
	})
	return err
}

func validateNode(n Node) error {
	switch n := n.(type) {
	case nil:
		return fmt.Errorf("%w: nil node", ErrInvalidNode)
	case Class:
		if n.Kind.Symbol() == "" {
			return fmt.Errorf("%w: unknown class kind %d", ErrInvalidNode, n.Kind)
		}
	case Range:
		if n.Lo > n.Hi {
			return fmt.Errorf("%w: range %q-%q is reversed", ErrInvalidNode, n.Lo, n.Hi)
		}
	case Set:
		return validateSet(n)
	case Repeat:
		if n.Min < 0 {
			return fmt.Errorf("%w: repeat lower bound %d", ErrInvalidNode, n.Min)
		}
		if n.Max != Unbounded && n.Max < n.Min {
			return fmt.Errorf("%w: repeat bounds {%d,%d}", ErrInvalidNode, n.Min, n.Max)
		}
	}
	return nil
}

func validateSet(s Set) error {
	if len(s.Members) == 0 {
		return fmt.Errorf("%w: %w", ErrInvalidNode, ErrEmptySet)
	}
	keys := make([]string, len(s.Members))
	for i, m := range s.Members {
		switch m := m.(type) {
		case Class:
			if m.Kind.Symbol() == "" {
				return fmt.Errorf("%w: %w: class kind %d", ErrInvalidNode, ErrSetMember, m.Kind)
			}
		case Literal:
		default:
			return fmt.Errorf("%w: %w: %T", ErrInvalidNode, ErrSetMember, m)
		}
		keys[i] = Serialize(m)
	}
	if !sort.StringsAreSorted(keys) {
		return fmt.Errorf("%w: set members are not sorted", ErrInvalidNode)
	}
	for i := 1; i < len(keys); i++ {
		if keys[i] == keys[i-1] {
			return fmt.Errorf("%w: duplicate set member %s", ErrInvalidNode, keys[i])
		}
	}
	if a, b, ok := FindConflict(s.Members); ok {
		return fmt.Errorf("%w: %w: %s and %s", ErrInvalidNode, ErrSetConflict, a.Kind.Symbol(), b.Kind.Symbol())
	}
	return nil
}
