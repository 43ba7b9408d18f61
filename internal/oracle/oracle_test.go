package oracle

import (
	"context"
	"errors"
	"testing"
	"time"
	"unicode/utf8"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"
)

func TestRegexpFullMatch(t *testing.T) {
	tests := []struct {
		source string
		input  string
		want   bool
	}{
		{"a|b", "a", true},
		{"a|b", "ab", false},
		{"ab", "xab", false},
		{"()", "", true},
		{"", "", true},
		{`[\-x]`, "-", true},
		{`(a){2,}`, "aaaa", true},
		{".", "\n", false},
	}

	for _, tt := range tests {
		t.Run(tt.source+"/"+tt.input, func(t *testing.T) {
			got, err := FullMatch(tt.source, tt.input)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestRegexpCompileErrors(t *testing.T) {
	for _, source := range []string{"(a", "a)|(b", "[z-a]", "*"} {
		_, err := Regexp{}.Compile(source)
		require.Error(t, err, source)
		assert.ErrorIs(t, err, ErrSyntax)

		var se *SyntaxError
		require.True(t, errors.As(err, &se))
		assert.Equal(t, source, se.Source)
	}
}

func TestCount(t *testing.T) {
	tests := []struct {
		source string
		want   int64
	}{
		{"a|b", 2},
		{"", 1},
		{"()", 1},
		{"a?", 2},
		{"[a-c]{2}", 9},
		{"a{2,3}", 2},
		{`\d`, 10},
		{`\s`, 5},
		{`\w`, 63},
		{".", anyCharCount - 1},
		{"[^a]", anyCharCount - 1},
		{"a*", Infinite},
		{"(a)+", Infinite},
		{"()*", 1},
		{"(){2,}", 1},
		{"(a?){2}", 3},
		{"(a)|(a)", 1},
		{"a?a?", 3},
		{"()?", 1},
		{"(a{0,2}){1,2}", 5},
		{"(a?){0,20}", 21},
		{"(()){1,3}|(QL){1}", 2},
		{`[^\x00-\x{10FFFF}]`, 0},
		{"(a|b|c)(d|e)", 6},
	}

	s := NewSynth(1)
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got, err := s.Count(context.Background(), tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCountAboveExactLimit(t *testing.T) {
	s := NewSynth(1, WithExactLimit(25))
	tests := []struct {
		source string
		want   int64
	}{
		{"[a-c]{2}", 9},
		{"(a?){0,20}", 21},
		// 27 distinct strings, 64 derivations
		{"(a?a?)(b?b?)(c?c?)", 64},
		{"[a-z]", 26},
		{"a+", Infinite},
	}
	for _, tt := range tests {
		t.Run(tt.source, func(t *testing.T) {
			got, err := s.Count(context.Background(), tt.source)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestCountMatchesEnumerate(t *testing.T) {
	s := NewSynth(1)
	ctx := context.Background()
	for _, source := range []string{"a?a?", "(a{0,2}){1,2}", "(a)|(a)|b", "((x)?|y?)z?", `(\d|1)(2|\d)`, "(()*|a)?b"} {
		n, err := s.Count(ctx, source)
		require.NoError(t, err, source)
		words, err := s.Enumerate(ctx, source, 1000)
		require.NoError(t, err, source)
		assert.Equal(t, n, int64(len(words)), source)
	}
}

func TestCountUnsupported(t *testing.T) {
	s := NewSynth(1)
	for _, source := range []string{"^a", "a$", `\bword`, "(?i)a"} {
		_, err := s.Count(context.Background(), source)
		assert.ErrorIs(t, err, ErrUnsupported, source)
	}

	_, err := s.Count(context.Background(), "(a")
	assert.ErrorIs(t, err, ErrSyntax)
}

func TestEnumerate(t *testing.T) {
	s := NewSynth(1)
	ctx := context.Background()

	t.Run("alternation", func(t *testing.T) {
		got, err := s.Enumerate(ctx, "a|b", 10)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"a", "b"}, got)
	})

	t.Run("empty group", func(t *testing.T) {
		got, err := s.Enumerate(ctx, "()", 10)
		require.NoError(t, err)
		assert.Equal(t, []string{""}, got)
	})

	t.Run("concatenation order", func(t *testing.T) {
		got, err := s.Enumerate(ctx, "[ab]c?", 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"a", "ac", "b", "bc"}, got)
	})

	t.Run("ambiguous", func(t *testing.T) {
		got, err := s.Enumerate(ctx, "(a)|(a)", 10)
		require.NoError(t, err)
		assert.Equal(t, []string{"a"}, got)

		got, err = s.Enumerate(ctx, "(a?){2}", 10)
		require.NoError(t, err)
		assert.ElementsMatch(t, []string{"", "a", "aa"}, got)
	})

	t.Run("limit is inclusive", func(t *testing.T) {
		got, err := s.Enumerate(ctx, "[a-j]", 10)
		require.NoError(t, err)
		assert.Len(t, got, 10)

		_, err = s.Enumerate(ctx, "[a-j]", 9)
		assert.ErrorIs(t, err, ErrDivergent)
	})

	t.Run("ambiguous limit counts distinct strings", func(t *testing.T) {
		got, err := s.Enumerate(ctx, "(a?){0,20}", 21)
		require.NoError(t, err)
		assert.Len(t, got, 21)

		_, err = s.Enumerate(ctx, "(a?){0,20}", 20)
		assert.ErrorIs(t, err, ErrDivergent)
	})

	t.Run("divergent", func(t *testing.T) {
		_, err := s.Enumerate(ctx, "a*", 100)
		assert.ErrorIs(t, err, ErrDivergent)

		_, err = s.Enumerate(ctx, "[a-z]{3}", 100)
		assert.ErrorIs(t, err, ErrDivergent)
	})

	t.Run("every string matches", func(t *testing.T) {
		for _, source := range []string{`(\d|x){1,2}`, `([ab]|())c?`, `(\s)?(q)`} {
			words, err := s.Enumerate(ctx, source, 1000)
			require.NoError(t, err, source)
			for _, w := range words {
				ok, err := FullMatch(source, w)
				require.NoError(t, err)
				assert.True(t, ok, "%q does not match %q", w, source)
			}
		}
	})
}

func TestGenerate(t *testing.T) {
	s := NewSynth(7)
	ctx := context.Background()

	sources := []string{
		"a|b", "()", "", `[^a]`, `\W+`, `(\d){2,}`, `.*x`, `(a|())*`,
		`[\x{100}-\x{200}]`, `((b)|(c)){0,3}`,
	}
	for _, source := range sources {
		for i := 0; i < 20; i++ {
			w, err := s.Generate(ctx, source)
			require.NoError(t, err, source)
			ok, err := FullMatch(source, w)
			require.NoError(t, err)
			require.True(t, ok, "%q does not match %q", w, source)
		}
	}

	t.Run("prefers printable", func(t *testing.T) {
		for i := 0; i < 50; i++ {
			w, err := s.Generate(ctx, `[^a]`)
			require.NoError(t, err)
			r, _ := utf8.DecodeRuneInString(w)
			assert.True(t, isPreferred(r), "%q", w)
		}
	})

	t.Run("empty language", func(t *testing.T) {
		_, err := s.Generate(ctx, `[^\x00-\x{10FFFF}]`)
		assert.ErrorIs(t, err, ErrNoMatch)
	})

	t.Run("deterministic", func(t *testing.T) {
		a, b := NewSynth(3), NewSynth(3)
		for i := 0; i < 20; i++ {
			x, err := a.Generate(ctx, `[a-z]{1,4}(x|y)*`)
			require.NoError(t, err)
			y, err := b.Generate(ctx, `[a-z]{1,4}(x|y)*`)
			require.NoError(t, err)
			assert.Equal(t, x, y)
		}
	})
}

func TestGenerateConcurrent(t *testing.T) {
	s := NewSynth(11)
	var g errgroup.Group
	for i := 0; i < 8; i++ {
		g.Go(func() error {
			for j := 0; j < 50; j++ {
				if _, err := s.Generate(context.Background(), `(\w|-){1,3}`); err != nil {
					return err
				}
			}
			return nil
		})
	}
	require.NoError(t, g.Wait())
}

func TestDeadline(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), -time.Second)
	defer cancel()

	s := NewSynth(1)
	_, err := s.Count(ctx, "a|b")
	assert.ErrorIs(t, err, ErrTimeout)

	_, err = s.Enumerate(ctx, "a|b", 10)
	assert.ErrorIs(t, err, ErrTimeout)

	_, err = s.Generate(ctx, "a|b")
	assert.ErrorIs(t, err, ErrTimeout)
}

func TestFormatCount(t *testing.T) {
	assert.Equal(t, "infinite", FormatCount(Infinite))
	assert.Equal(t, "42", FormatCount(42))
}
