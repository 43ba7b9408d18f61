package pattern

import (
	"strconv"
	"strings"
)

// Serialize renders a tree as regex source.
func Serialize(n Node) string {
	var b strings.Builder
	write(&b, n)
	return b.String()
}

func write(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case AnyChar:
		b.WriteByte('.')
	case Class:
		b.WriteString(n.Kind.Symbol())
	case Literal:
		b.WriteString(Escape(n.Char))
	case Range:
		b.WriteByte('[')
		b.WriteString(Escape(n.Lo))
		b.WriteByte('-')
		b.WriteString(Escape(n.Hi))
		b.WriteByte(']')
	case Set:
		b.WriteByte('[')
		if n.Negated {
			b.WriteByte('^')
		}
		for _, m := range n.Members {
			write(b, m)
		}
		b.WriteByte(']')
	case Sequence:
		for _, c := range n.Children {
			if _, ok := c.(Alternation); ok {
				writeNonCapturing(b, c)
				continue
			}
			write(b, c)
		}
	case Group:
		b.WriteByte('(')
		if n.Child != nil {
			write(b, n.Child)
		}
		b.WriteByte(')')
	case Alternation:
		for i, c := range n.Children {
			if i > 0 {
				b.WriteByte('|')
			}
			write(b, c)
		}
	case Repeat:
		writeAtom(b, n.Child)
		b.WriteByte('{')
		b.WriteString(strconv.Itoa(n.Min))
		switch {
		case n.Max == n.Min:
		case n.Max == Unbounded:
			b.WriteByte(',')
		default:
			b.WriteByte(',')
			b.WriteString(strconv.Itoa(n.Max))
		}
		b.WriteByte('}')
		if !n.Greedy {
			b.WriteByte('?')
		}
	case Plus:
		writeAtom(b, n.Child)
		b.WriteByte('+')
	case Star:
		writeAtom(b, n.Child)
		b.WriteByte('*')
	case Optional:
		writeAtom(b, n.Child)
		b.WriteByte('?')
	}
}

// writeAtom writes n so that a following quantifier applies to all of it.
func writeAtom(b *strings.Builder, n Node) {
	switch n := n.(type) {
	case AnyChar, Class, Literal, Range, Set, Group:
		write(b, n)
	default:
		writeNonCapturing(b, n)
	}
}

func writeNonCapturing(b *strings.Builder, n Node) {
	b.WriteString("(?:")
	write(b, n)
	b.WriteByte(')')
}
