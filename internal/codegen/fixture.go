package codegen

import (
	"bytes"
	"errors"
	"fmt"
	"go/token"

	"github.com/dave/jennifer/jen"
	"github.com/spf13/afero"

	"github.com/KromDaniel/regsynth/internal/pipeline"
)

// ErrInvalidFixture is returned for bad fixture options.
var ErrInvalidFixture = errors.New("codegen: invalid fixture options")

// FixtureOptions names the generated package and identifiers.
type FixtureOptions struct {
	Package string // package clause of the generated file
	Name    string // prefix for <Name>Cases and Test<Name>
}

// Validate checks both names are usable Go identifiers.
func (o FixtureOptions) Validate() error {
	if !token.IsIdentifier(o.Package) {
		return fmt.Errorf("%w: package %q is not an identifier", ErrInvalidFixture, o.Package)
	}
	if !token.IsIdentifier(o.Name) || !token.IsExported(o.Name) {
		return fmt.Errorf("%w: name %q is not an exported identifier", ErrInvalidFixture, o.Name)
	}
	return nil
}

// Fixture builds a test file holding every record in a table plus a test
// that full-matches each example with the standard regexp package and
// checks the example count equals the complexity.
func Fixture(records []pipeline.Record, opts FixtureOptions) (*jen.File, error) {
	if err := opts.Validate(); err != nil {
		return nil, err
	}

	f := jen.NewFile(opts.Package)
	f.HeaderComment(GeneratedByTag)

	cases := CasesName(opts.Name)
	f.Commentf("%s holds %d generated regexes with their complete match sets.", cases, len(records))
	f.Var().Id(cases).Op("=").Index().Struct(
		jen.Id(RegexField).String(),
		jen.Id(ComplexityField).Int64(),
		jen.Id(ExamplesField).Index().String(),
	).ValuesFunc(func(g *jen.Group) {
		for _, rec := range records {
			g.Values(jen.Dict{
				jen.Id(RegexField):      jen.Lit(rec.Regex),
				jen.Id(ComplexityField): jen.Lit(rec.Complexity),
				jen.Id(ExamplesField): jen.Index().String().ValuesFunc(func(g *jen.Group) {
					for _, e := range rec.Examples {
						g.Lit(e)
					}
				}),
			})
		}
	})
	f.Line()

	tc := func(field string) *jen.Statement { return jen.Id(CaseName).Dot(field) }
	f.Func().Id(TestName(opts.Name)).Params(jen.Id("t").Op("*").Qual("testing", "T")).Block(
		jen.For(jen.List(jen.Id("_"), jen.Id(CaseName)).Op(":=").Range().Id(cases)).Block(
			jen.Id(RegexpName).Op(":=").Qual("regexp", "MustCompile").Call(
				jen.Lit(`\A(?:`).Op("+").Add(tc(RegexField)).Op("+").Lit(`)\z`),
			),
			jen.If(jen.Int64().Call(jen.Len(tc(ExamplesField))).Op("!=").Add(tc(ComplexityField))).Block(
				jen.Id("t").Dot("Errorf").Call(
					jen.Lit("%q: %d examples, want %d"),
					tc(RegexField), jen.Len(tc(ExamplesField)), tc(ComplexityField),
				),
			),
			jen.Id(SeenName).Op(":=").Make(jen.Map(jen.String()).Bool(), jen.Len(tc(ExamplesField))),
			jen.For(jen.List(jen.Id("_"), jen.Id(ExampleName)).Op(":=").Range().Add(tc(ExamplesField))).Block(
				jen.If(jen.Op("!").Id(RegexpName).Dot("MatchString").Call(jen.Id(ExampleName))).Block(
					jen.Id("t").Dot("Errorf").Call(jen.Lit("%q does not match %q"), jen.Id(ExampleName), tc(RegexField)),
				),
				jen.If(jen.Id(SeenName).Index(jen.Id(ExampleName))).Block(
					jen.Id("t").Dot("Errorf").Call(jen.Lit("%q: duplicate example %q"), tc(RegexField), jen.Id(ExampleName)),
				),
				jen.Id(SeenName).Index(jen.Id(ExampleName)).Op("=").True(),
			),
		),
	)

	return f, nil
}

// WriteFixture renders the fixture and saves it to path on fs.
func WriteFixture(fs afero.Fs, path string, records []pipeline.Record, opts FixtureOptions) error {
	f, err := Fixture(records, opts)
	if err != nil {
		return err
	}
	var buf bytes.Buffer
	if err := f.Render(&buf); err != nil {
		return fmt.Errorf("failed to render fixture: %w", err)
	}
	if err := afero.WriteFile(fs, path, buf.Bytes(), 0o644); err != nil {
		return fmt.Errorf("failed to save fixture: %w", err)
	}
	return nil
}
