// Package regsynth generates random regular expressions together with the
// complete, finite set of strings each one matches.
//
// Example:
//
//	g, err := regsynth.New(regsynth.DefaultOptions())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	records, err := g.Generate(ctx, 10)
//	for _, rec := range records {
//	    fmt.Println(rec.Regex, rec.Examples)
//	}
package regsynth

import (
	"context"
	"fmt"
	"iter"
	"slices"
	"time"

	"github.com/prometheus/client_golang/prometheus"

	"github.com/KromDaniel/regsynth/internal/generator"
	"github.com/KromDaniel/regsynth/internal/logging"
	"github.com/KromDaniel/regsynth/internal/oracle"
	"github.com/KromDaniel/regsynth/internal/pipeline"
	"github.com/KromDaniel/regsynth/stream"
)

type (
	// Record is an emitted regex with its complete match set.
	Record = pipeline.Record
	// Reason explains why a candidate was dropped.
	Reason = pipeline.Reason
	// Stats counts candidates, emissions and rejections per reason.
	Stats = pipeline.Stats
	// Pipeline streams validated, deduplicated records.
	Pipeline = pipeline.Pipeline
	// Budget bounds the random syntax trees.
	Budget = generator.Budget
	// Profile holds the random draw probabilities.
	Profile = generator.Profile
)

// Options configures generation and validation.
type Options struct {
	Budget  Budget
	Profile Profile

	// Seed makes the candidate sequence reproducible.
	Seed int64

	MaxComplexity         int64
	MaxLength             int
	FalsePositiveRate     float64
	ExpectedItems         uint
	OracleTimeout         time.Duration
	Workers               int
	MaxConsecutiveRejects int

	// Registerer receives the pipeline metrics. Nil disables them.
	Registerer prometheus.Registerer
	// OnReject is called for every dropped candidate.
	OnReject func(candidate string, reason Reason)
	// Verbose logs every pipeline decision at debug level.
	Verbose bool
}

// DefaultOptions returns the built-in budget, profile and bounds.
func DefaultOptions() Options {
	return Options{
		Budget:            generator.DefaultBudget(),
		Profile:           generator.DefaultProfile(),
		Seed:              1,
		MaxComplexity:     pipeline.DefaultMaxComplexity,
		MaxLength:         pipeline.DefaultMaxLength,
		FalsePositiveRate: pipeline.DefaultFalsePositiveRate,
		ExpectedItems:     pipeline.DefaultExpectedItems,
		OracleTimeout:     pipeline.DefaultOracleTimeout,
		Workers:           1,
	}
}

// Validate checks the options without building anything.
func (o Options) Validate() error {
	if err := o.Budget.Validate(); err != nil {
		return err
	}
	if err := o.Profile.Validate(); err != nil {
		return err
	}
	_, err := pipeline.NewValidator(o.validatorOptions()...)
	return err
}

// validatorOptions leaves out the registerer and reject hook, which only a
// Pipeline uses.
func (o Options) validatorOptions() []pipeline.Option {
	return []pipeline.Option{
		pipeline.WithSynthesizer(oracle.NewSynth(o.Seed, oracle.WithExactLimit(max(oracle.DefaultExactLimit, o.MaxComplexity)))),
		pipeline.WithMaxComplexity(o.MaxComplexity),
		pipeline.WithMaxLength(o.MaxLength),
		pipeline.WithFalsePositiveRate(o.FalsePositiveRate),
		pipeline.WithExpectedItems(o.ExpectedItems),
		pipeline.WithOracleTimeout(o.OracleTimeout),
		pipeline.WithWorkers(o.Workers),
		pipeline.WithMaxConsecutiveRejects(o.MaxConsecutiveRejects),
		pipeline.WithLogger(logging.NewLogger("pipeline", o.Verbose)),
	}
}

func (o Options) pipelineOptions() []pipeline.Option {
	opts := o.validatorOptions()
	if o.Registerer != nil {
		opts = append(opts, pipeline.WithRegisterer(o.Registerer))
	}
	if o.OnReject != nil {
		opts = append(opts, pipeline.WithRejectHook(o.OnReject))
	}
	return opts
}

// Generator couples a random candidate source with the validation pipeline.
type Generator struct {
	opts Options
	gen  *generator.Generator
}

// New validates opts and returns a Generator.
func New(opts Options) (*Generator, error) {
	if err := opts.Validate(); err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	gen, err := generator.New(opts.Budget, opts.Profile)
	if err != nil {
		return nil, fmt.Errorf("invalid options: %w", err)
	}
	return &Generator{opts: opts, gen: gen}, nil
}

// Candidates yields raw, unvalidated patterns. Every call restarts from
// the configured seed.
func (g *Generator) Candidates() iter.Seq[string] {
	return g.gen.Candidates(generator.NewRand(g.opts.Seed))
}

// Pipeline returns a fresh pipeline over Candidates. A Pipeline holds its
// own dedup filter and statistics.
func (g *Generator) Pipeline() (*Pipeline, error) {
	return pipeline.New(g.Candidates(), g.opts.pipelineOptions()...)
}

// Records streams records from a fresh pipeline until the consumer stops
// or ctx is done. Use Pipeline to inspect statistics afterwards.
func (g *Generator) Records(ctx context.Context) (iter.Seq[Record], error) {
	p, err := g.Pipeline()
	if err != nil {
		return nil, err
	}
	return p.Records(ctx), nil
}

// Generate collects n records. n <= 0 is rejected since the candidate
// source never ends on its own.
func (g *Generator) Generate(ctx context.Context, n int) ([]Record, error) {
	if n <= 0 {
		return nil, fmt.Errorf("regsynth: record count must be positive, got %d", n)
	}
	p, err := g.Pipeline()
	if err != nil {
		return nil, err
	}
	records := slices.Collect(stream.Take(p.Records(ctx), n))
	if err := p.Err(); err != nil {
		return records, err
	}
	return records, nil
}

// Validate runs a single candidate through every stage under the
// generator's bounds. Duplicates are not tracked.
func (g *Generator) Validate(ctx context.Context, candidate string) (Record, Reason) {
	return g.validator().Validate(ctx, candidate)
}

// Verify re-checks a stored record under the generator's bounds and
// returns Accepted or the reason it fails.
func (g *Generator) Verify(ctx context.Context, rec Record) Reason {
	return g.validator().Verify(ctx, rec)
}

func (g *Generator) validator() *pipeline.Validator {
	v, err := pipeline.NewValidator(g.opts.validatorOptions()...)
	if err != nil {
		// New already validated these options.
		panic(err)
	}
	return v
}

// String describes the generator configuration.
func (g *Generator) String() string {
	return g.gen.String()
}
