package codegen

import (
	"bytes"
	"go/parser"
	"go/token"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KromDaniel/regsynth/internal/pipeline"
)

var fixtureRecords = []pipeline.Record{
	{Regex: "()", Complexity: 1, Length: 2, Examples: []string{""}},
	{Regex: `a|\t`, Complexity: 2, Length: 4, Examples: []string{"a", "\t"}},
}

func render(t *testing.T, records []pipeline.Record, opts FixtureOptions) string {
	t.Helper()
	f, err := Fixture(records, opts)
	require.NoError(t, err)
	var buf bytes.Buffer
	require.NoError(t, f.Render(&buf))
	return buf.String()
}

func TestFixtureIsValidGo(t *testing.T) {
	src := render(t, fixtureRecords, FixtureOptions{Package: "fixtures", Name: "Records"})

	file, err := parser.ParseFile(token.NewFileSet(), "records_test.go", src, parser.ParseComments)
	require.NoError(t, err, src)
	assert.Equal(t, "fixtures", file.Name.Name)

	var imports []string
	for _, imp := range file.Imports {
		imports = append(imports, imp.Path.Value)
	}
	assert.ElementsMatch(t, []string{`"regexp"`, `"testing"`}, imports)

	assert.True(t, strings.HasPrefix(src, "// "+GeneratedByTag))
	assert.Contains(t, src, "var RecordsCases = []struct")
	assert.Contains(t, src, "func TestRecords(t *testing.T)")
	assert.Regexp(t, `Regex:\s+"a\|\\\\t"`, src)
	assert.Regexp(t, `Examples:\s+\[\]string\{"a", "\\t"\}`, src)
	assert.Contains(t, src, `regexp.MustCompile("\\A(?:" + tc.Regex + ")\\z")`)
}

func TestFixtureEmpty(t *testing.T) {
	src := render(t, nil, FixtureOptions{Package: "fixtures", Name: "Empty"})
	_, err := parser.ParseFile(token.NewFileSet(), "empty_test.go", src, 0)
	require.NoError(t, err, src)
	assert.Contains(t, src, "EmptyCases")
}

func TestFixtureOptions(t *testing.T) {
	tests := []FixtureOptions{
		{Package: "", Name: "Records"},
		{Package: "my-pkg", Name: "Records"},
		{Package: "fixtures", Name: "records"},
		{Package: "fixtures", Name: ""},
	}
	for _, opts := range tests {
		_, err := Fixture(fixtureRecords, opts)
		assert.ErrorIs(t, err, ErrInvalidFixture, "%+v", opts)
	}
}

func TestWriteFixture(t *testing.T) {
	fs := afero.NewMemMapFs()
	opts := FixtureOptions{Package: "fixtures", Name: "Records"}
	require.NoError(t, WriteFixture(fs, "/gen/records_test.go", fixtureRecords, opts))

	data, err := afero.ReadFile(fs, "/gen/records_test.go")
	require.NoError(t, err)
	assert.Equal(t, render(t, fixtureRecords, opts), string(data))
}
