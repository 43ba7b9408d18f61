package pattern

// Children returns the direct sub-nodes of n.
func Children(n Node) []Node {
	switch n := n.(type) {
	case Set:
		return n.Members
	case Sequence:
		return n.Children
	case Alternation:
		return n.Children
	case Group:
		return optional(n.Child)
	case Repeat:
		return optional(n.Child)
	case Plus:
		return optional(n.Child)
	case Star:
		return optional(n.Child)
	case Optional:
		return optional(n.Child)
	}
	return nil
}

func optional(n Node) []Node {
	if n == nil {
		return nil
	}
	return []Node{n}
}

// Walk visits the tree in pre-order. Returning false from fn stops the walk.
func Walk(n Node, fn func(Node) bool) bool {
	if !fn(n) {
		return false
	}
	for _, c := range Children(n) {
		if !Walk(c, fn) {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of the tree. Slices are never shared between
// the copy and the original.
func Clone(n Node) Node {
	switch n := n.(type) {
	case Set:
		return Set{Members: cloneAll(n.Members), Negated: n.Negated}
	case Sequence:
		return Sequence{Children: cloneAll(n.Children)}
	case Alternation:
		return Alternation{Children: cloneAll(n.Children)}
	case Group:
		return Group{Child: Clone(n.Child)}
	case Repeat:
		return Repeat{Child: Clone(n.Child), Min: n.Min, Max: n.Max, Greedy: n.Greedy}
	case Plus:
		return Plus{Child: Clone(n.Child)}
	case Star:
		return Star{Child: Clone(n.Child)}
	case Optional:
		return Optional{Child: Clone(n.Child)}
	}
	return n
}

func cloneAll(nodes []Node) []Node {
	if nodes == nil {
		return nil
	}
	out := make([]Node, len(nodes))
	for i, c := range nodes {
		out[i] = Clone(c)
	}
	return out
}

// Depth returns the nesting depth of groups in the tree.
func Depth(n Node) int {
	max := 0
	for _, c := range Children(n) {
		if d := Depth(c); d > max {
			max = d
		}
	}
	if _, ok := n.(Group); ok {
		return max + 1
	}
	return max
}
