// Package template renders records as text lines from templates such as
// "${regex}\t${complexity}".
package template

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"github.com/KromDaniel/regsynth/internal/pipeline"
)

// ErrUnknownField is returned for references to fields a record lacks.
var ErrUnknownField = errors.New("template: unknown field")

// SegmentType indicates the type of segment in a template.
type SegmentType int

const (
	// SegmentLiteral represents literal text.
	SegmentLiteral SegmentType = iota
	// SegmentField represents a record field reference ($name, ${name}).
	SegmentField
)

// Fields lists the names a template may reference.
var Fields = []string{"regex", "complexity", "length", "examples", "features"}

// Segment represents a parsed segment of a template.
type Segment struct {
	Type    SegmentType
	Literal string // For SegmentLiteral: the literal text
	Field   string // For SegmentField: the field name
}

// Template represents a fully parsed template.
type Template struct {
	Original string
	Segments []Segment
}

// Parse parses a template string into segments.
// Template syntax:
//   - $name or ${name}: record field
//   - $$: literal dollar sign
//   - Everything else: literal text
func Parse(template string) (*Template, error) {
	result := &Template{
		Original: template,
		Segments: make([]Segment, 0),
	}

	var literal strings.Builder
	flush := func() {
		if literal.Len() > 0 {
			result.Segments = append(result.Segments, Segment{Type: SegmentLiteral, Literal: literal.String()})
			literal.Reset()
		}
	}

	i := 0
	for i < len(template) {
		if template[i] != '$' || i+1 >= len(template) {
			literal.WriteByte(template[i])
			i++
			continue
		}

		next := template[i+1]
		switch {
		case next == '$':
			literal.WriteByte('$')
			i += 2

		case next == '{':
			end := strings.IndexByte(template[i:], '}')
			if end == -1 {
				return nil, fmt.Errorf("at position %d: unclosed ${", i)
			}
			name := template[i+2 : i+end]
			if err := checkField(name); err != nil {
				return nil, fmt.Errorf("at position %d: %w", i, err)
			}
			flush()
			result.Segments = append(result.Segments, Segment{Type: SegmentField, Field: name})
			i += end + 1

		case isNameStart(rune(next)):
			end := i + 2
			for end < len(template) && isNameContinue(rune(template[end])) {
				end++
			}
			name := template[i+1 : end]
			if err := checkField(name); err != nil {
				return nil, fmt.Errorf("at position %d: %w", i, err)
			}
			flush()
			result.Segments = append(result.Segments, Segment{Type: SegmentField, Field: name})
			i = end

		default:
			// a lone $ is literal
			literal.WriteByte('$')
			i++
		}
	}
	flush()

	return result, nil
}

// Render expands the template for rec.
func (t *Template) Render(rec pipeline.Record) string {
	var b strings.Builder
	for _, seg := range t.Segments {
		if seg.Type == SegmentLiteral {
			b.WriteString(seg.Literal)
			continue
		}
		b.WriteString(field(rec, seg.Field))
	}
	return b.String()
}

func field(rec pipeline.Record, name string) string {
	switch name {
	case "regex":
		return rec.Regex
	case "complexity":
		return strconv.FormatInt(rec.Complexity, 10)
	case "length":
		return strconv.Itoa(rec.Length)
	case "examples":
		quoted := make([]string, len(rec.Examples))
		for i, e := range rec.Examples {
			quoted[i] = strconv.Quote(e)
		}
		return strings.Join(quoted, " ")
	case "features":
		return strings.Join(rec.Features, ",")
	}
	return ""
}

func checkField(name string) error {
	for _, f := range Fields {
		if f == name {
			return nil
		}
	}
	return fmt.Errorf("%w %q", ErrUnknownField, name)
}

func isNameStart(r rune) bool {
	return r == '_' || unicode.IsLetter(r)
}

func isNameContinue(r rune) bool {
	return r == '_' || unicode.IsLetter(r) || unicode.IsDigit(r)
}
