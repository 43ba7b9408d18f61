package main

import (
	"bytes"
	"context"
	"go/parser"
	"go/token"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/KromDaniel/regsynth/internal/config"
	"github.com/KromDaniel/regsynth/internal/dataset"
)

func run(t *testing.T, fs afero.Fs, args ...string) (stdout, stderr string, err error) {
	t.Helper()
	cmd := newRootCmd(fs)
	var out, errOut bytes.Buffer
	cmd.SetOut(&out)
	cmd.SetErr(&errOut)
	cmd.SetArgs(args)
	err = cmd.ExecuteContext(context.Background())
	return out.String(), errOut.String(), err
}

func generateFile(t *testing.T, fs afero.Fs, path string, n string) {
	t.Helper()
	_, _, err := run(t, fs, "generate", "-n", n, "-o", path, "-q")
	require.NoError(t, err)
}

func TestGenerateToFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	generateFile(t, fs, "/data/out.jsonl", "10")

	records, err := dataset.ReadAll(fs, "/data/out.jsonl")
	require.NoError(t, err)
	require.Len(t, records, 10)
	for _, rec := range records {
		assert.Equal(t, rec.Complexity, int64(len(rec.Examples)), rec.Regex)
	}
}

func TestGenerateTextToStdout(t *testing.T) {
	stdout, stderr, err := run(t, afero.NewMemMapFs(), "generate", "-n", "3", "-f", "text", "--template", "[${regex}]")
	require.NoError(t, err)

	lines := strings.Split(strings.TrimSuffix(stdout, "\n"), "\n")
	require.Len(t, lines, 3)
	for _, line := range lines {
		assert.True(t, strings.HasPrefix(line, "[") && strings.HasSuffix(line, "]"), line)
	}
	assert.Contains(t, stderr, "emitted")
	assert.Contains(t, stderr, "candidates")
}

func TestGenerateIsReproducible(t *testing.T) {
	first, _, err := run(t, afero.NewMemMapFs(), "generate", "-n", "8", "--seed", "5", "-q")
	require.NoError(t, err)
	second, _, err := run(t, afero.NewMemMapFs(), "generate", "-n", "8", "--seed", "5", "-q")
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestGenerateWithConfigFile(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, afero.WriteFile(fs, "/regsynth.yaml", []byte(`
seed: 3
output:
  count: 4
  format: yaml
  path: /out/records.yaml
`), 0o644))

	_, _, err := run(t, fs, "--config", "/regsynth.yaml", "generate", "-q")
	require.NoError(t, err)

	records, err := dataset.ReadAll(fs, "/out/records.yaml")
	require.NoError(t, err)
	assert.Len(t, records, 4)
}

func TestGenerateRejectsBadConfig(t *testing.T) {
	_, _, err := run(t, afero.NewMemMapFs(), "generate", "--format", "csv")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)

	_, _, err = run(t, afero.NewMemMapFs(), "generate", "--set", "0")
	assert.ErrorIs(t, err, config.ErrInvalidConfig)
}

func TestGenerateMetricsFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "metrics.prom")
	_, _, err := run(t, afero.NewMemMapFs(), "generate", "-n", "5", "-q", "--metrics-file", path)
	require.NoError(t, err)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "regsynth_records_total 5")
	assert.Contains(t, string(data), "regsynth_candidates_total")
}

func TestCheck(t *testing.T) {
	fs := afero.NewMemMapFs()
	generateFile(t, fs, "/data/good.jsonl", "10")

	stdout, _, err := run(t, fs, "check", "/data/good.jsonl")
	require.NoError(t, err)
	assert.Contains(t, stdout, "regsynth check")

	records, err := dataset.ReadAll(fs, "/data/good.jsonl")
	require.NoError(t, err)

	var target = records[0]
	for _, rec := range records {
		if rec.Complexity > 1 {
			target = rec
			break
		}
	}
	tampered := target
	tampered.Examples = append([]string{"\x00not-a-match"}, target.Examples[1:]...)

	w, err := dataset.Create(fs, "/data/bad.jsonl", dataset.JSONL, "")
	require.NoError(t, err)
	require.NoError(t, w.Write(records[0]))
	require.NoError(t, w.Write(records[0]))
	require.NoError(t, w.Write(tampered))
	require.NoError(t, w.Close())

	stdout, _, err = run(t, fs, "check", "/data/bad.jsonl")
	require.Error(t, err)
	assert.Contains(t, stdout, "duplicates record 1")
	if target.Complexity > 1 {
		assert.Contains(t, stdout, "verification")
	}
}

func TestCheckMissingFile(t *testing.T) {
	_, _, err := run(t, afero.NewMemMapFs(), "check", "/nope.jsonl")
	assert.Error(t, err)
}

func TestFixture(t *testing.T) {
	fs := afero.NewMemMapFs()
	generateFile(t, fs, "/data/short-set.jsonl", "5")

	_, _, err := run(t, fs, "fixture", "/data/short-set.jsonl", "-o", "/gen/short_set_test.go", "-p", "gen")
	require.NoError(t, err)

	src, err := afero.ReadFile(fs, "/gen/short_set_test.go")
	require.NoError(t, err)
	file, err := parser.ParseFile(token.NewFileSet(), "short_set_test.go", src, 0)
	require.NoError(t, err)
	assert.Equal(t, "gen", file.Name.Name)
	assert.Contains(t, string(src), "ShortSetCases")
	assert.Contains(t, string(src), "func TestShortSet(")

	stdout, _, err := run(t, fs, "fixture", "/data/short-set.jsonl", "--name", "Custom")
	require.NoError(t, err)
	assert.Contains(t, stdout, "CustomCases")
}

func TestInspect(t *testing.T) {
	stdout, _, err := run(t, afero.NewMemMapFs(), "inspect", "a|b")
	require.NoError(t, err)
	assert.Contains(t, stdout, "regsynth inspect")
	assert.Contains(t, stdout, `"a" "b"`)
	assert.Contains(t, stdout, "accepted")

	stdout, _, err = run(t, afero.NewMemMapFs(), "inspect", "x*")
	require.NoError(t, err)
	assert.Contains(t, stdout, "infinite")
	assert.Contains(t, stdout, "more than 20")
	assert.Contains(t, stdout, "complexity")

	_, _, err = run(t, afero.NewMemMapFs(), "inspect", "(x")
	assert.Error(t, err)
}

func TestMatchLength(t *testing.T) {
	tests := []struct {
		lo, hi int
		want   string
	}{
		{0, 0, "0"},
		{1, 3, "1..3"},
		{2, -1, "2.."},
	}
	for _, tt := range tests {
		if got := matchLength(tt.lo, tt.hi); got != tt.want {
			t.Errorf("matchLength(%d, %d) = %q, want %q", tt.lo, tt.hi, got, tt.want)
		}
	}
}
