// Package dataset persists records as JSON lines, a YAML document stream
// or templated text, and loads the first two back.
package dataset

import (
	"bufio"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/spf13/afero"
	"gopkg.in/yaml.v3"

	"github.com/KromDaniel/regsynth/internal/pipeline"
	"github.com/KromDaniel/regsynth/stream"
	"github.com/KromDaniel/regsynth/template"
)

// Supported formats.
const (
	JSONL = "jsonl"
	YAML  = "yaml"
	Text  = "text"
)

// ErrUnknownFormat is returned for a format name or file extension that
// has no reader or writer.
var ErrUnknownFormat = errors.New("dataset: unknown format")

// Writer appends records to an output.
type Writer interface {
	Write(rec pipeline.Record) error
	// Close flushes buffered output and closes the underlying file, if any.
	Close() error
}

// NewWriter wraps w. tmpl is only used by the text format.
func NewWriter(w io.Writer, format, tmpl string) (Writer, error) {
	bw := bufio.NewWriter(w)
	switch format {
	case JSONL:
		return &jsonlWriter{buf: bw, enc: json.NewEncoder(bw)}, nil
	case YAML:
		enc := yaml.NewEncoder(bw)
		enc.SetIndent(2)
		return &yamlWriter{buf: bw, enc: enc}, nil
	case Text:
		t, err := template.Parse(tmpl)
		if err != nil {
			return nil, fmt.Errorf("dataset: bad text template: %w", err)
		}
		return &textWriter{buf: bw, tmpl: t}, nil
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownFormat, format)
}

// Create opens path on fs, truncating it, and returns a writer that closes
// the file on Close.
func Create(fs afero.Fs, path, format, tmpl string) (Writer, error) {
	if dir := filepath.Dir(path); dir != "." {
		if err := fs.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("failed to create %s: %w", dir, err)
		}
	}
	f, err := fs.Create(path)
	if err != nil {
		return nil, fmt.Errorf("failed to create %s: %w", path, err)
	}
	w, err := NewWriter(f, format, tmpl)
	if err != nil {
		f.Close()
		return nil, err
	}
	return &fileWriter{Writer: w, file: f}, nil
}

// FormatOf maps a file extension to a readable format.
func FormatOf(path string) (string, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".jsonl", ".ndjson", ".json":
		return JSONL, nil
	case ".yaml", ".yml":
		return YAML, nil
	}
	return "", fmt.Errorf("%w: cannot infer from %q", ErrUnknownFormat, path)
}

// ReadAll loads every record of the dataset at path, picking the format
// from its extension.
func ReadAll(fs afero.Fs, path string) ([]pipeline.Record, error) {
	format, err := FormatOf(path)
	if err != nil {
		return nil, err
	}
	f, err := fs.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	records, err := Read(f, format)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return records, nil
}

// Read decodes every record from r.
func Read(r io.Reader, format string) ([]pipeline.Record, error) {
	switch format {
	case JSONL:
		return readJSONL(r)
	case YAML:
		return readYAML(r)
	}
	return nil, fmt.Errorf("%w %q", ErrUnknownFormat, format)
}

func readJSONL(r io.Reader) ([]pipeline.Record, error) {
	var records []pipeline.Record
	lines := stream.Lines(r, 0)
	for line := range lines.All() {
		var rec pipeline.Record
		if err := json.Unmarshal(line, &rec); err != nil {
			return nil, fmt.Errorf("line %d: %w", lines.Line(), err)
		}
		records = append(records, rec)
	}
	if err := lines.Err(); err != nil {
		return nil, err
	}
	return records, nil
}

func readYAML(r io.Reader) ([]pipeline.Record, error) {
	var records []pipeline.Record
	dec := yaml.NewDecoder(r)
	for i := 1; ; i++ {
		var rec pipeline.Record
		err := dec.Decode(&rec)
		if errors.Is(err, io.EOF) {
			return records, nil
		}
		if err != nil {
			return nil, fmt.Errorf("document %d: %w", i, err)
		}
		records = append(records, rec)
	}
}

type jsonlWriter struct {
	buf *bufio.Writer
	enc *json.Encoder
}

func (w *jsonlWriter) Write(rec pipeline.Record) error {
	// Encode terminates each value with a newline.
	return w.enc.Encode(rec)
}

func (w *jsonlWriter) Close() error {
	return w.buf.Flush()
}

type yamlWriter struct {
	buf *bufio.Writer
	enc *yaml.Encoder
}

func (w *yamlWriter) Write(rec pipeline.Record) error {
	return w.enc.Encode(rec)
}

func (w *yamlWriter) Close() error {
	if err := w.enc.Close(); err != nil {
		return err
	}
	return w.buf.Flush()
}

type textWriter struct {
	buf  *bufio.Writer
	tmpl *template.Template
}

func (w *textWriter) Write(rec pipeline.Record) error {
	if _, err := w.buf.WriteString(w.tmpl.Render(rec)); err != nil {
		return err
	}
	return w.buf.WriteByte('\n')
}

func (w *textWriter) Close() error {
	return w.buf.Flush()
}

type fileWriter struct {
	Writer
	file afero.File
}

func (w *fileWriter) Close() error {
	err := w.Writer.Close()
	if cerr := w.file.Close(); err == nil {
		err = cerr
	}
	return err
}
