package main

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/KromDaniel/regsynth/internal/dataset"
	"github.com/KromDaniel/regsynth/pkg/regsynth"
)

func newCheckCmd(a *app) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "check <file>",
		Short: "Re-verify every record of a dataset",
		Long: `Re-verify a .jsonl or .yaml dataset written by generate.

Each record must compile, every example must fully match, the examples
must be exactly the regex's match set, the configured bounds must hold
and no regex may appear twice. Any violation gives a non-zero exit.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			g, err := regsynth.New(a.options(cfg))
			if err != nil {
				return err
			}

			records, err := dataset.ReadAll(a.fs, args[0])
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			seen := make(map[string]int, len(records))
			failed := 0
			for i, rec := range records {
				if first, dup := seen[rec.Regex]; dup {
					failed++
					fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("record %d: %q duplicates record %d", i+1, rec.Regex, first)))
					continue
				}
				seen[rec.Regex] = i + 1

				if reason := g.Verify(cmd.Context(), rec); reason != regsynth.Accepted {
					failed++
					fmt.Fprintln(out, errorStyle.Render(fmt.Sprintf("record %d: %q: %s", i+1, rec.Regex, reason)))
					continue
				}
				a.log.Log("record %d: %q ok", i+1, rec.Regex)
			}

			fmt.Fprint(out, renderFields("regsynth check", []field{
				{"file", args[0]},
				{"records", fmt.Sprint(len(records))},
				{"failed", fmt.Sprint(failed)},
			}))
			if failed > 0 {
				return fmt.Errorf("%d of %d records failed verification", failed, len(records))
			}
			return nil
		},
	}
	return cmd
}
