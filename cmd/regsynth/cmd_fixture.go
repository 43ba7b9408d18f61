package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KromDaniel/regsynth/internal/codegen"
	"github.com/KromDaniel/regsynth/internal/dataset"
)

func newFixtureCmd(a *app) *cobra.Command {
	var opts codegen.FixtureOptions
	var output string

	cmd := &cobra.Command{
		Use:   "fixture <file>",
		Short: "Render a dataset as a Go test file",
		Long: `Render a .jsonl or .yaml dataset as a Go _test.go file holding a
<Name>Cases table and a Test<Name> function that re-checks every record
with the standard regexp package.

The name defaults to the dataset's base name in CamelCase.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			records, err := dataset.ReadAll(a.fs, args[0])
			if err != nil {
				return err
			}
			if opts.Name == "" {
				opts.Name = codegen.NameFromPath(args[0])
			}

			if output == "" || output == "-" {
				f, err := codegen.Fixture(records, opts)
				if err != nil {
					return err
				}
				return f.Render(cmd.OutOrStdout())
			}
			if err := codegen.WriteFixture(a.fs, output, records, opts); err != nil {
				return err
			}
			a.log.Infof("wrote %d cases to %s", len(records), output)
			fmt.Fprintln(cmd.ErrOrStderr(), mutedStyle.Render(fmt.Sprintf("%s: %d cases", output, len(records))))
			return nil
		},
	}

	cmd.Flags().StringVarP(&opts.Package, "package", "p", "fixtures", "package name of the generated file")
	cmd.Flags().StringVar(&opts.Name, "name", "", "prefix for the generated identifiers")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default stdout)")

	return cmd
}
