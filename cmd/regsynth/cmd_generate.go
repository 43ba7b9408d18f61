package main

import (
	"fmt"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/spf13/cobra"

	"github.com/KromDaniel/regsynth/internal/config"
	"github.com/KromDaniel/regsynth/internal/dataset"
	"github.com/KromDaniel/regsynth/pkg/regsynth"
	"github.com/KromDaniel/regsynth/stream"
)

// generateFlags maps generate's flags to config keys.
var generateFlags = map[string]string{
	"seed":             "seed",
	"set":              "budget.set_complexity",
	"union":            "budget.union_complexity",
	"amount":           "budget.amount_complexity",
	"group":            "budget.group_complexity",
	"depth":            "budget.depth_complexity",
	"breadth":          "budget.breadth_complexity",
	"quantified-chars": "profile.quantified_chars",
	"max-complexity":   "pipeline.max_complexity",
	"max-length":       "pipeline.max_length",
	"workers":          "pipeline.workers",
	"timeout":          "pipeline.oracle_timeout",
	"max-rejects":      "pipeline.max_consecutive_rejects",
	"count":            "output.count",
	"format":           "output.format",
	"template":         "output.template",
	"output":           "output.path",
}

func newGenerateCmd(a *app) *cobra.Command {
	var metricsFile string
	var quiet bool
	d := config.Default()

	cmd := &cobra.Command{
		Use:   "generate",
		Short: "Stream validated regexes with their complete match sets",
		Long: `Generate random regexes, keep those whose match set is finite and small,
and write each one with every string it matches.

Settings come from flags, REGSYNTH_* environment variables, the --config
file and built-in defaults, in that order. A --count of 0 runs until
interrupted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if err := config.BindFlags(a.v, cmd.Flags(), generateFlags); err != nil {
				return err
			}
			cfg, err := a.loadConfig()
			if err != nil {
				return err
			}

			opts := a.options(cfg)
			var reg *prometheus.Registry
			if metricsFile != "" {
				reg = prometheus.NewRegistry()
				opts.Registerer = reg
			}

			g, err := regsynth.New(opts)
			if err != nil {
				return err
			}
			a.log.Section("generate")
			a.log.Log("%s", g)

			p, err := g.Pipeline()
			if err != nil {
				return err
			}

			w, err := a.openOutput(cmd, cfg.Output)
			if err != nil {
				return err
			}

			start := time.Now()
			for rec := range stream.Take(p.Records(cmd.Context()), cfg.Output.Count) {
				if err = w.Write(rec); err != nil {
					break
				}
			}
			if cerr := w.Close(); err == nil {
				err = cerr
			}
			if err != nil {
				return fmt.Errorf("failed to write records: %w", err)
			}

			stats := p.Stats()
			if !quiet {
				fmt.Fprint(cmd.ErrOrStderr(), renderSummary(stats, time.Since(start)))
			}
			if reg != nil {
				if err := prometheus.WriteToTextfile(metricsFile, reg); err != nil {
					return fmt.Errorf("failed to write metrics: %w", err)
				}
			}
			if err := p.Err(); err != nil {
				a.log.Warningf("stream ended after %d records: %s", stats.Emitted, err)
				return err
			}
			return nil
		},
	}

	f := cmd.Flags()
	f.Int64("seed", d.Seed, "random seed")
	f.Int("set", d.Budget.SetSizeMax, "maximum members in a character set")
	f.Int("union", d.Budget.UnionWidthMax, "maximum alternatives in a union")
	f.Int("amount", d.Budget.RepeatBoundMax, "maximum bound of a counted repetition")
	f.Int("group", d.Budget.GroupChildLengthMax, "maximum items in a group")
	f.Int("depth", d.Budget.RecursionDepthMax, "maximum group nesting depth")
	f.Int("breadth", d.Budget.GroupBreadthMax, "maximum top-level items")
	f.Bool("quantified-chars", d.Profile.QuantifiedChars, "also offer quantified characters as group items")
	f.Int64("max-complexity", d.Pipeline.MaxComplexity, "exclusive upper bound on match-set size")
	f.Int("max-length", d.Pipeline.MaxLength, "exclusive upper bound on regex length")
	f.Int("workers", d.Pipeline.Workers, "validation goroutines")
	f.Duration("timeout", d.Pipeline.OracleTimeout, "oracle time limit per candidate")
	f.Int("max-rejects", d.Pipeline.MaxConsecutiveRejects, "stop after this many rejections in a row (0 = never)")
	f.IntP("count", "n", d.Output.Count, "records to emit (0 = until interrupted)")
	f.StringP("format", "f", d.Output.Format, "output format: jsonl, yaml or text")
	f.String("template", d.Output.Template, "line template for the text format")
	f.StringP("output", "o", d.Output.Path, "output file (default stdout)")
	f.StringVar(&metricsFile, "metrics-file", "", "write prometheus metrics to this file when done")
	f.BoolVarP(&quiet, "quiet", "q", false, "do not print the summary")

	return cmd
}

// openOutput returns a writer for out.Path, or stdout when it is empty or "-".
func (a *app) openOutput(cmd *cobra.Command, out config.Output) (dataset.Writer, error) {
	if out.Path == "" || out.Path == "-" {
		return dataset.NewWriter(cmd.OutOrStdout(), out.Format, out.Template)
	}
	return dataset.Create(a.fs, out.Path, out.Format, out.Template)
}
