// Package codegen renders record datasets as Go test fixtures.
package codegen

import (
	"path/filepath"
	"strings"

	"github.com/iancoleman/strcase"
)

// Identifiers used in generated code
const (
	CasesSuffix     = "Cases"
	CaseName        = "tc"
	RegexpName      = "re"
	SeenName        = "seen"
	ExampleName     = "e"
	RegexField      = "Regex"
	ComplexityField = "Complexity"
	ExamplesField   = "Examples"
	GeneratedByTag  = "Code generated by regsynth. DO NOT EDIT."
)

// CasesName returns the table variable name for a fixture.
func CasesName(name string) string {
	return name + CasesSuffix
}

// TestName returns the test function name for a fixture.
func TestName(name string) string {
	return "Test" + UpperFirst(name)
}

// NameFromPath derives an exported fixture name from a dataset path,
// e.g. "out/short-records.jsonl" becomes "ShortRecords".
func NameFromPath(path string) string {
	base := strings.TrimSuffix(filepath.Base(path), filepath.Ext(path))
	name := strcase.ToCamel(base)
	if name == "" || (name[0] >= '0' && name[0] <= '9') {
		name = "Dataset" + name
	}
	return name
}

// LowerFirst converts the first character of a string to lowercase.
func LowerFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToLower(s[:1]) + s[1:]
}

// UpperFirst converts the first character of a string to uppercase.
func UpperFirst(s string) string {
	if s == "" {
		return s
	}
	return strings.ToUpper(s[:1]) + s[1:]
}
