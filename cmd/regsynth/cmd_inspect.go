package main

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/KromDaniel/regsynth/pkg/regsynth"
)

func newInspectCmd(a *app) *cobra.Command {
	var limit int64
	var seed int64

	cmd := &cobra.Command{
		Use:   "inspect <regex>",
		Short: "Show what the oracles say about one regex",
		Long: `Print a regex's match count, a random sample, up to --limit enumerated
matches, its structural features and the verdict the generate pipeline
would reach for it.`,
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			source := args[0]
			ctx := cmd.Context()

			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}
			g, err := regsynth.New(a.options(cfg))
			if err != nil {
				return err
			}

			res, err := regsynth.Analyze(source)
			if err != nil {
				return err
			}

			fields := []field{
				{"regex", source},
				{"features", strings.Join(res.Features, ", ")},
				{"match length", matchLength(res.MinMatchLen, res.MaxMatchLen)},
			}

			count, err := regsynth.Count(ctx, source)
			switch {
			case err != nil:
				fields = append(fields, field{"count", errorStyle.Render(err.Error())})
			case count == regsynth.Infinite:
				fields = append(fields, field{"count", "infinite"})
			default:
				fields = append(fields, field{"count", strconv.FormatInt(count, 10)})
			}

			if sample, err := regsynth.Sample(ctx, source, seed); err == nil {
				fields = append(fields, field{"sample", strconv.Quote(sample)})
			}

			examples, err := regsynth.Enumerate(ctx, source, limit)
			switch {
			case errors.Is(err, regsynth.ErrDivergent):
				fields = append(fields, field{"examples", mutedStyle.Render(fmt.Sprintf("more than %d", limit))})
			case err != nil:
				fields = append(fields, field{"examples", errorStyle.Render(err.Error())})
			default:
				quoted := make([]string, len(examples))
				for i, e := range examples {
					quoted[i] = strconv.Quote(e)
				}
				fields = append(fields, field{"examples", strings.Join(quoted, " ")})
			}

			_, reason := g.Validate(ctx, source)
			fields = append(fields, field{"verdict", reason.String()})

			fmt.Fprint(cmd.OutOrStdout(), renderFields("regsynth inspect", fields))
			return nil
		},
	}

	cmd.Flags().Int64Var(&limit, "limit", 20, "maximum matches to enumerate")
	cmd.Flags().Int64Var(&seed, "seed", 1, "seed for the random sample")

	return cmd
}

func matchLength(lo, hi int) string {
	if hi < 0 {
		return fmt.Sprintf("%d..", lo)
	}
	if lo == hi {
		return strconv.Itoa(lo)
	}
	return fmt.Sprintf("%d..%d", lo, hi)
}
