package dataset

import (
	"bytes"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KromDaniel/regsynth/internal/pipeline"
	"github.com/KromDaniel/regsynth/template"
)

var records = []pipeline.Record{
	{Regex: "()", Complexity: 1, Length: 2, Examples: []string{""}, Features: []string{"Empty", "Groups"}},
	{Regex: "a|b", Complexity: 2, Length: 3, Examples: []string{"a", "b"}, Features: []string{"CharClass"}},
	{Regex: `\t\n`, Complexity: 1, Length: 4, Examples: []string{"\t\n"}},
}

func TestRoundTrip(t *testing.T) {
	for _, tt := range []struct{ path, format string }{
		{"/out/records.jsonl", JSONL},
		{"/out/records.yaml", YAML},
	} {
		t.Run(tt.format, func(t *testing.T) {
			fs := afero.NewMemMapFs()
			w, err := Create(fs, tt.path, tt.format, "")
			require.NoError(t, err)
			for _, rec := range records {
				require.NoError(t, w.Write(rec))
			}
			require.NoError(t, w.Close())

			got, err := ReadAll(fs, tt.path)
			require.NoError(t, err)
			if diff := cmp.Diff(records, got); diff != "" {
				t.Errorf("ReadAll() mismatch (-want +got):\n%s", diff)
			}
		})
	}
}

func TestJSONLIsOneRecordPerLine(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, JSONL, "")
	require.NoError(t, err)
	require.NoError(t, w.Write(records[1]))
	require.NoError(t, w.Close())

	assert.Equal(t, `{"regex":"a|b","complexity":2,"length":3,"examples":["a","b"],"features":["CharClass"]}`+"\n", buf.String())
}

func TestTextWriter(t *testing.T) {
	var buf bytes.Buffer
	w, err := NewWriter(&buf, Text, "${regex}\t${complexity}")
	require.NoError(t, err)
	for _, rec := range records[:2] {
		require.NoError(t, w.Write(rec))
	}
	require.NoError(t, w.Close())

	assert.Equal(t, "()\t1\na|b\t2\n", buf.String())
}

func TestWriterErrors(t *testing.T) {
	_, err := NewWriter(&bytes.Buffer{}, "csv", "")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = NewWriter(&bytes.Buffer{}, Text, "${nope}")
	assert.ErrorIs(t, err, template.ErrUnknownField)
}

func TestReadErrors(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "bad.jsonl", []byte("{\"regex\":\"a\"}\nnot json\n"), 0o644))
	require.NoError(t, afero.WriteFile(fs, "data.csv", []byte("a,b\n"), 0o644))

	_, err := ReadAll(fs, "bad.jsonl")
	assert.ErrorContains(t, err, "line 2")

	_, err = ReadAll(fs, "data.csv")
	assert.ErrorIs(t, err, ErrUnknownFormat)

	_, err = ReadAll(fs, "missing.yaml")
	assert.Error(t, err)
}

func TestFormatOf(t *testing.T) {
	tests := map[string]string{
		"a.jsonl":  JSONL,
		"a.NDJSON": JSONL,
		"a.json":   JSONL,
		"a.yml":    YAML,
		"a.yaml":   YAML,
	}
	for path, want := range tests {
		got, err := FormatOf(path)
		require.NoError(t, err, path)
		assert.Equal(t, want, got, path)
	}
}
